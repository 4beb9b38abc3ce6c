package emitx

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/comalice/emitx/internal/signal"
)

// Emitter maps event names to their handler registries.
//
// Registries are created on the first On or Once for a name and, unless
// WithPruneEmpty is set, kept for the emitter's lifetime. Emit runs handlers
// synchronously on the calling goroutine without holding the emitter's lock,
// so handlers may call On, Off and Emit on the same emitter.
type Emitter struct {
	mu         sync.Mutex
	registries map[string]registry
	names      []string // creation order

	logger  *slog.Logger
	onError ErrorHandler
	prune   bool
}

// EventInfo describes one event name at a point in time. The inspect
// package turns these into serializable snapshots.
type EventInfo struct {
	Name        string
	PayloadType string
	Listeners   int
	Connections []uuid.UUID
}

// New creates an Emitter.
func New(opts ...Option) *Emitter {
	em := &Emitter{
		registries: make(map[string]registry),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(em)
	}
	if em.onError == nil {
		em.onError = em.logPanic
	}
	return em
}

func (em *Emitter) logPanic(err *HandlerPanicError) {
	em.logger.Error("emitx: handler panicked",
		"event", err.Event,
		"connection", err.Connection,
		"panic", err.Value,
		"stack", string(err.Stack),
	)
}

// lookup returns the registry for ev, or nil. It panics if the name is bound
// to another payload type. Callers hold em.mu.
func lookup[A any](em *Emitter, ev Event[A]) *handlerRegistry[A] {
	r, ok := em.registries[ev.name]
	if !ok {
		return nil
	}
	hr, ok := r.(*handlerRegistry[A])
	if !ok {
		panic(&SignatureMismatchError{
			Event:     ev.name,
			Bound:     r.payloadType(),
			Requested: typeName[A](),
		})
	}
	return hr
}

// ensure returns the registry for ev, creating it if needed. Callers hold em.mu.
func ensure[A any](em *Emitter, ev Event[A]) *handlerRegistry[A] {
	if hr := lookup(em, ev); hr != nil {
		return hr
	}
	name := ev.name
	var hr *handlerRegistry[A]
	onPanic := func(conn *signal.Connection, recovered any, stack []byte) {
		em.onError(&HandlerPanicError{
			Event:      name,
			Connection: conn.ID(),
			Value:      recovered,
			Stack:      stack,
		})
	}
	// Runs for Connection.Disconnect calls made outside the emitter, which
	// never hold em.mu.
	onDisconnect := func(conn *signal.Connection) {
		em.mu.Lock()
		defer em.mu.Unlock()
		hr.forget(conn)
		em.logger.Debug("emitx: connection closed", "event", name, "connection", conn.ID())
		if em.registries[name] == hr {
			em.dropIfEmpty(name)
		}
	}
	hr = newHandlerRegistry[A](onPanic, onDisconnect)
	em.registries[name] = hr
	em.names = append(em.names, name)
	return hr
}

// dropIfEmpty removes the registry for name when pruning is enabled and it
// has no listeners left. Callers hold em.mu.
func (em *Emitter) dropIfEmpty(name string) {
	if !em.prune {
		return
	}
	r, ok := em.registries[name]
	if !ok || r.count() > 0 {
		return
	}
	delete(em.registries, name)
	for i, n := range em.names {
		if n == name {
			em.names = append(em.names[:i], em.names[i+1:]...)
			break
		}
	}
	em.logger.Debug("emitx: pruned empty event", "event", name)
}

// On subscribes h to ev and returns the new connection. Subscribing the same
// handler twice creates two independent connections; Off removes the most
// recent one first.
func On[A any](em *Emitter, ev Event[A], h *Handler[A]) *Connection {
	em.mu.Lock()
	defer em.mu.Unlock()
	conn := ensure(em, ev).subscribe(h)
	em.logger.Debug("emitx: subscribed", "event", ev.name, "connection", conn.ID())
	return conn
}

// AddListener is an alias for On.
func AddListener[A any](em *Emitter, ev Event[A], h *Handler[A]) *Connection {
	return On(em, ev, h)
}

// Once subscribes a wrapper around h that runs h on the next emission of ev
// and then unsubscribes itself. h runs at most once even if it emits ev
// again from inside the call.
//
// The registry tracks the wrapper, not h: Off(em, ev, h) afterwards returns a
// NotSubscribedError. Listeners reports the wrapper, whose Unwrap returns h.
// Cancel a pending Once through the returned connection; that also releases
// the wrapper.
func Once[A any](em *Emitter, ev Event[A], h *Handler[A]) *Connection {
	w := &Handler[A]{orig: h}
	var fired atomic.Bool
	w.fn = func(a A) {
		if !fired.CompareAndSwap(false, true) {
			return
		}
		defer func() {
			if err := Off(em, ev, w); err != nil {
				em.logger.Debug("emitx: once handler already removed", "event", ev.name, "error", err)
			}
		}()
		h.Call(a)
	}
	return On(em, ev, w)
}

// Off unsubscribes h from ev. It returns nil when ev has no registry, and a
// *NotSubscribedError when h is not currently subscribed to ev.
func Off[A any](em *Emitter, ev Event[A], h *Handler[A]) error {
	em.mu.Lock()
	defer em.mu.Unlock()
	r, ok := em.registries[ev.name]
	if !ok {
		return nil
	}
	hr, ok := r.(*handlerRegistry[A])
	if !ok {
		// A handler of another payload type cannot be subscribed here.
		return &NotSubscribedError{Event: ev.name}
	}
	if err := hr.unsubscribe(ev.name, h); err != nil {
		return err
	}
	em.logger.Debug("emitx: unsubscribed", "event", ev.name)
	em.dropIfEmpty(ev.name)
	return nil
}

// RemoveListener is an alias for Off.
func RemoveListener[A any](em *Emitter, ev Event[A], h *Handler[A]) error {
	return Off(em, ev, h)
}

// Emit calls every handler currently subscribed to ev with a. It does nothing
// when ev has never been subscribed to. Handlers subscribed during the call
// are not run by it; handlers removed during the call are not run if they
// had not run yet.
func Emit[A any](em *Emitter, ev Event[A], a A) {
	hr := func() *handlerRegistry[A] {
		em.mu.Lock()
		defer em.mu.Unlock()
		return lookup(em, ev)
	}()
	if hr == nil {
		em.logger.Debug("emitx: no listeners", "event", ev.name)
		return
	}
	hr.notify(a)
}

// Listeners returns the handlers subscribed to ev, one entry per active
// connection in subscription order.
func Listeners[A any](em *Emitter, ev Event[A]) []*Handler[A] {
	em.mu.Lock()
	defer em.mu.Unlock()
	hr := lookup(em, ev)
	if hr == nil {
		return nil
	}
	return hr.handlers()
}

// EventNames returns every name that has a registry, in creation order. Names
// whose handlers have all been removed are included unless pruning is on.
func (em *Emitter) EventNames() []string {
	em.mu.Lock()
	defer em.mu.Unlock()
	names := make([]string, len(em.names))
	copy(names, em.names)
	return names
}

// ListenerCount returns the number of active subscriptions for ev. It panics
// with a *SignatureMismatchError if the name is bound to another payload type.
func ListenerCount[A any](em *Emitter, ev Event[A]) int {
	em.mu.Lock()
	defer em.mu.Unlock()
	hr := lookup(em, ev)
	if hr == nil {
		return 0
	}
	return hr.count()
}

// ListenerCount returns the number of active subscriptions for name. It takes
// a bare name so it pairs with EventNames, whose results carry no payload
// type; use the package-level ListenerCount when the Event is at hand.
func (em *Emitter) ListenerCount(name string) int {
	em.mu.Lock()
	defer em.mu.Unlock()
	r, ok := em.registries[name]
	if !ok {
		return 0
	}
	return r.count()
}

// RemoveAllListeners disconnects every subscription for name and returns how
// many were active.
func (em *Emitter) RemoveAllListeners(name string) int {
	em.mu.Lock()
	defer em.mu.Unlock()
	r, ok := em.registries[name]
	if !ok {
		return 0
	}
	n := r.disconnectAll()
	em.logger.Debug("emitx: removed all listeners", "event", name, "count", n)
	em.dropIfEmpty(name)
	return n
}

// Inspect reports every registered event in creation order.
func (em *Emitter) Inspect() []EventInfo {
	em.mu.Lock()
	defer em.mu.Unlock()
	infos := make([]EventInfo, 0, len(em.names))
	for _, name := range em.names {
		r := em.registries[name]
		conns := r.connections()
		info := EventInfo{
			Name:        name,
			PayloadType: r.payloadType(),
			Listeners:   len(conns),
		}
		for _, c := range conns {
			info.Connections = append(info.Connections, c.ID())
		}
		infos = append(infos, info)
	}
	return infos
}

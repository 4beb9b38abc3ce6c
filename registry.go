package emitx

import (
	"slices"

	"github.com/comalice/emitx/internal/signal"
)

// registry is the type-erased view of a handlerRegistry used by Emitter.
// Callers hold Emitter.mu.
type registry interface {
	payloadType() string
	count() int
	connections() []*Connection
	disconnectAll() int
}

// handlerRegistry tracks the handlers of one event name. Every connection in
// byHandler and byConn is live: Off drops both under Emitter.mu, and a
// Connection.Disconnect from outside reaches forget through the signal's
// disconnect hook.
type handlerRegistry[A any] struct {
	sig *signal.Signal[A]
	// Most recent connection last.
	byHandler map[*Handler[A]][]*Connection
	byConn    map[*Connection]*Handler[A]
}

func newHandlerRegistry[A any](onPanic signal.PanicHandler, onDisconnect signal.DisconnectHook) *handlerRegistry[A] {
	return &handlerRegistry[A]{
		sig:       signal.New[A](onPanic, onDisconnect),
		byHandler: make(map[*Handler[A]][]*Connection),
		byConn:    make(map[*Connection]*Handler[A]),
	}
}

// subscribe connects h. A handler subscribed twice keeps both connections;
// unsubscribe removes the newest first.
func (r *handlerRegistry[A]) subscribe(h *Handler[A]) *Connection {
	conn := r.sig.Connect(h.fn)
	r.byHandler[h] = append(r.byHandler[h], conn)
	r.byConn[conn] = h
	return conn
}

// unsubscribe drops the newest live connection of h.
func (r *handlerRegistry[A]) unsubscribe(event string, h *Handler[A]) error {
	for conns := r.byHandler[h]; len(conns) > 0; conns = r.byHandler[h] {
		last := conns[len(conns)-1]
		r.forget(last)
		// Already disconnected, with the hook still waiting on Emitter.mu.
		if r.sig.Drop(last) {
			return nil
		}
	}
	return &NotSubscribedError{Event: event}
}

// forget removes conn from the mappings. It is a no-op for connections that
// are not tracked.
func (r *handlerRegistry[A]) forget(conn *Connection) {
	h, ok := r.byConn[conn]
	if !ok {
		return
	}
	delete(r.byConn, conn)
	conns := slices.DeleteFunc(r.byHandler[h], func(c *Connection) bool { return c == conn })
	if len(conns) == 0 {
		delete(r.byHandler, h)
	} else {
		r.byHandler[h] = conns
	}
}

func (r *handlerRegistry[A]) notify(a A) {
	r.sig.Fire(a)
}

// handlers returns one entry per active connection, in connect order.
func (r *handlerRegistry[A]) handlers() []*Handler[A] {
	conns := r.sig.Connections()
	hs := make([]*Handler[A], 0, len(conns))
	for _, c := range conns {
		if h, ok := r.byConn[c]; ok {
			hs = append(hs, h)
		}
	}
	return hs
}

// tracked returns the number of connections held in the mappings.
func (r *handlerRegistry[A]) tracked() int {
	return len(r.byConn)
}

func (r *handlerRegistry[A]) payloadType() string {
	return typeName[A]()
}

func (r *handlerRegistry[A]) count() int {
	return r.sig.Len()
}

func (r *handlerRegistry[A]) connections() []*Connection {
	return r.sig.Connections()
}

func (r *handlerRegistry[A]) disconnectAll() int {
	n := r.sig.DisconnectAll()
	clear(r.byHandler)
	clear(r.byConn)
	return n
}

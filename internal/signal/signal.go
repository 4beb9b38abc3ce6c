// Package signal provides the synchronous notification primitive behind each
// emitter registry.
//
// A Signal holds an ordered list of connected listeners. Fire calls them in
// connect order on the caller's goroutine. The listener list is copy-on-write:
// Fire iterates the slice it saw when it started, so listeners connected
// mid-fire wait for the next Fire, and listeners disconnected mid-fire are
// skipped if they have not run yet.
//
// An owner that keeps its own bookkeeping per connection passes a
// DisconnectHook to New. The hook runs after a caller detaches a listener
// through Connection.Disconnect. Drop detaches without running the hook, for
// owners removing a listener under their own lock.
package signal

import (
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// PanicHandler receives a panic recovered from a listener. stack is the
// goroutine stack captured at the recover site.
type PanicHandler func(conn *Connection, recovered any, stack []byte)

// DisconnectHook is called once per connection closed by Disconnect, after
// its slot is removed. It is not called for Drop or DisconnectAll.
type DisconnectHook func(conn *Connection)

// Connection represents one listener's registration on a Signal.
type Connection struct {
	id        uuid.UUID
	connected atomic.Bool
	detach    func(*Connection)
}

// ID returns the random identifier assigned at connect time.
func (c *Connection) ID() uuid.UUID {
	return c.id
}

// Connected reports whether the listener is still attached.
func (c *Connection) Connected() bool {
	return c.connected.Load()
}

// Disconnect detaches the listener. Calling it more than once is a no-op.
func (c *Connection) Disconnect() {
	if !c.connected.CompareAndSwap(true, false) {
		return
	}
	c.detach(c)
}

type slot[A any] struct {
	conn *Connection
	fn   func(A)
}

// Signal is a list of listeners for payloads of type A.
type Signal[A any] struct {
	mu           sync.Mutex
	slots        []*slot[A]
	onPanic      PanicHandler
	onDisconnect DisconnectHook
}

// New creates an empty Signal. Either handler may be nil; a nil onPanic
// means listener panics are recovered and dropped.
func New[A any](onPanic PanicHandler, onDisconnect DisconnectHook) *Signal[A] {
	return &Signal[A]{onPanic: onPanic, onDisconnect: onDisconnect}
}

// Connect appends fn to the listener list.
func (s *Signal[A]) Connect(fn func(A)) *Connection {
	c := &Connection{id: uuid.New(), detach: s.detach}
	c.connected.Store(true)

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]*slot[A], len(s.slots), len(s.slots)+1)
	copy(next, s.slots)
	s.slots = append(next, &slot[A]{conn: c, fn: fn})
	return c
}

func (s *Signal[A]) detach(c *Connection) {
	s.remove(c)
	if s.onDisconnect != nil {
		s.onDisconnect(c)
	}
}

func (s *Signal[A]) remove(c *Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sl := range s.slots {
		if sl.conn != c {
			continue
		}
		next := make([]*slot[A], 0, len(s.slots)-1)
		next = append(next, s.slots[:i]...)
		s.slots = append(next, s.slots[i+1:]...)
		return
	}
}

// Drop detaches c without running the disconnect hook. It reports whether c
// was still connected.
func (s *Signal[A]) Drop(c *Connection) bool {
	if !c.connected.CompareAndSwap(true, false) {
		return false
	}
	s.remove(c)
	return true
}

// Fire calls every connected listener with a, in connect order.
func (s *Signal[A]) Fire(a A) {
	s.mu.Lock()
	slots := s.slots
	s.mu.Unlock()

	for _, sl := range slots {
		// Disconnected by an earlier listener in this pass.
		if !sl.conn.Connected() {
			continue
		}
		s.call(sl, a)
	}
}

func (s *Signal[A]) call(sl *slot[A], a A) {
	defer func() {
		if r := recover(); r != nil && s.onPanic != nil {
			s.onPanic(sl.conn, r, debug.Stack())
		}
	}()
	sl.fn(a)
}

// Connections returns the connected listeners' connections in connect order.
func (s *Signal[A]) Connections() []*Connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	conns := make([]*Connection, 0, len(s.slots))
	for _, sl := range s.slots {
		conns = append(conns, sl.conn)
	}
	return conns
}

// Len returns the number of connected listeners.
func (s *Signal[A]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

// DisconnectAll detaches every listener and returns how many were connected.
func (s *Signal[A]) DisconnectAll() int {
	s.mu.Lock()
	slots := s.slots
	s.slots = nil
	s.mu.Unlock()

	n := 0
	for _, sl := range slots {
		if sl.conn.connected.CompareAndSwap(true, false) {
			n++
		}
	}
	return n
}

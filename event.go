package emitx

import (
	"reflect"

	"github.com/comalice/emitx/internal/signal"
)

// Connection is the handle returned by On and Once. Disconnect on it detaches
// that one registration; the handler stays tracked by its registry until Off
// notices the connection is gone.
type Connection = signal.Connection

// Event is a typed event key. The type parameter A is the payload every
// handler of the event receives, so a mismatched Emit or On fails to compile.
//
// Events with several arguments use a struct payload:
//
//	type Moved struct{ X, Y int }
//	var PlayerMoved = emitx.NewEvent[Moved]("player.moved")
type Event[A any] struct {
	name string
}

// NewEvent declares an event named name carrying payloads of type A.
func NewEvent[A any](name string) Event[A] {
	return Event[A]{name: name}
}

// Name returns the event name.
func (e Event[A]) Name() string {
	return e.name
}

func (e Event[A]) String() string {
	return e.name
}

// Args is the payload of dynamically typed events.
type Args []any

// Dynamic declares an event whose payload is an untyped argument list. All
// Dynamic events share the Args payload type, so they only collide with a
// typed event of the same name.
func Dynamic(name string) Event[Args] {
	return NewEvent[Args](name)
}

// Handler wraps a callback so it has identity. Handlers compare by pointer:
// two Func calls over the same function yield two distinct handlers.
type Handler[A any] struct {
	fn   func(A)
	orig *Handler[A]
}

// Func makes a Handler from fn.
func Func[A any](fn func(A)) *Handler[A] {
	return &Handler[A]{fn: fn}
}

// Call invokes the wrapped callback.
func (h *Handler[A]) Call(a A) {
	h.fn(a)
}

// Unwrap returns the handler a Once wrapper was created for, or nil for
// handlers made by Func.
func (h *Handler[A]) Unwrap() *Handler[A] {
	return h.orig
}

func typeName[A any]() string {
	return reflect.TypeOf((*A)(nil)).Elem().String()
}

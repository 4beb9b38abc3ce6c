package emitx

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotSubscribed matches every *NotSubscribedError via errors.Is.
var ErrNotSubscribed = errors.New("handler is not subscribed")

// NotSubscribedError is returned by Off when the handler has no active
// subscription for the event. A handler that was never added and one that
// was already removed produce the same error.
type NotSubscribedError struct {
	Event string
}

func (e *NotSubscribedError) Error() string {
	return fmt.Sprintf("event %q: %v", e.Event, ErrNotSubscribed)
}

func (e *NotSubscribedError) Is(target error) bool {
	return target == ErrNotSubscribed
}

// SignatureMismatchError is the panic value raised when an event name already
// bound to one payload type is used with another.
type SignatureMismatchError struct {
	Event     string
	Bound     string
	Requested string
}

func (e *SignatureMismatchError) Error() string {
	return fmt.Sprintf("event %q is bound to payload %s, not %s", e.Event, e.Bound, e.Requested)
}

// HandlerPanicError describes a handler that panicked during Emit. It is
// passed to the emitter's ErrorHandler; Emit itself carries on with the
// remaining handlers.
type HandlerPanicError struct {
	Event      string
	Connection uuid.UUID
	Value      any
	Stack      []byte
}

func (e *HandlerPanicError) Error() string {
	return fmt.Sprintf("event %q: handler %s panicked: %v", e.Event, e.Connection, e.Value)
}

// Unwrap exposes the panic value when it is an error.
func (e *HandlerPanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Package testutil provides helpers for testing code that emits events.
package testutil

import (
	"sync"

	"github.com/comalice/emitx"
)

// Recorder captures every payload delivered to its handler.
// Safe for concurrent emission.
type Recorder[A any] struct {
	mu      sync.Mutex
	calls   []A
	handler *emitx.Handler[A]
}

// NewRecorder creates an empty Recorder.
func NewRecorder[A any]() *Recorder[A] {
	r := &Recorder[A]{}
	r.handler = emitx.Func(r.record)
	return r
}

func (r *Recorder[A]) record(a A) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, a)
}

// Handler returns the recorder's handler. Every call returns the same
// *Handler, so it can be passed to both On and Off.
func (r *Recorder[A]) Handler() *emitx.Handler[A] {
	return r.handler
}

// Calls returns a copy of the recorded payloads in delivery order.
func (r *Recorder[A]) Calls() []A {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]A, len(r.calls))
	copy(out, r.calls)
	return out
}

// Count returns the number of recorded deliveries.
func (r *Recorder[A]) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// Last returns the most recent payload, or the zero value if none.
func (r *Recorder[A]) Last() A {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero A
	if len(r.calls) == 0 {
		return zero
	}
	return r.calls[len(r.calls)-1]
}

// Reset forgets all recorded payloads.
func (r *Recorder[A]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Package benchmarks provides shared helpers for emitter benchmarks.
package benchmarks

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/comalice/emitx"
)

// QuietEmitter returns an emitter whose logs are discarded.
func QuietEmitter(opts ...emitx.Option) *emitx.Emitter {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return emitx.New(append([]emitx.Option{emitx.WithLogger(logger)}, opts...)...)
}

// GenFanOut subscribes n counting handlers to a single int event and returns
// the event with a pointer to the shared counter.
func GenFanOut(em *emitx.Emitter, n int) (emitx.Event[int], *int) {
	if n < 1 {
		n = 1
	}
	ev := emitx.NewEvent[int](fmt.Sprintf("fanout_%d", n))
	sum := new(int)
	for i := 0; i < n; i++ {
		emitx.On(em, ev, emitx.Func(func(v int) { *sum += v }))
	}
	return ev, sum
}

// GenNames subscribes one handler to each of n distinct event names.
func GenNames(em *emitx.Emitter, n int) []emitx.Event[int] {
	evs := make([]emitx.Event[int], n)
	for i := range evs {
		evs[i] = emitx.NewEvent[int](fmt.Sprintf("event_%d", i))
		emitx.On(em, evs[i], emitx.Func(func(int) {}))
	}
	return evs
}

package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/emitx"
)

func TestRecorderCapturesEmissions(t *testing.T) {
	em := emitx.New()
	ev := emitx.NewEvent[string]("recorded")
	rec := NewRecorder[string]()

	emitx.On(em, ev, rec.Handler())
	emitx.Emit(em, ev, "one")
	emitx.Emit(em, ev, "two")

	require.Equal(t, 2, rec.Count())
	assert.Equal(t, "two", rec.Last())
	assert.Equal(t, []string{"one", "two"}, rec.Calls())
}

func TestRecorderStableHandler(t *testing.T) {
	rec := NewRecorder[int]()
	assert.Same(t, rec.Handler(), rec.Handler())

	em := emitx.New()
	ev := emitx.NewEvent[int]("stable")
	emitx.On(em, ev, rec.Handler())
	assert.NoError(t, emitx.Off(em, ev, rec.Handler()))
}

func TestRecorderResetAndZero(t *testing.T) {
	rec := NewRecorder[int]()
	assert.Zero(t, rec.Last())
	rec.Handler().Call(7)
	rec.Reset()
	assert.Zero(t, rec.Count())
	assert.Empty(t, rec.Calls())
}

func TestRecorderConcurrentEmit(t *testing.T) {
	em := emitx.New()
	ev := emitx.NewEvent[int]("concurrent")
	rec := NewRecorder[int]()
	emitx.On(em, ev, rec.Handler())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			emitx.Emit(em, ev, v)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, rec.Count())
}

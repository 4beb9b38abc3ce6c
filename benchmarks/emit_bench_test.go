package benchmarks

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/emitx"
)

func BenchmarkEmit(b *testing.B) {
	for _, n := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("listeners=%d", n), func(b *testing.B) {
			em := QuietEmitter()
			ev, _ := GenFanOut(em, n)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				emitx.Emit(em, ev, i)
			}
		})
	}
}

func BenchmarkEmitNoListeners(b *testing.B) {
	em := QuietEmitter()
	ev := emitx.NewEvent[int]("nobody")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		emitx.Emit(em, ev, i)
	}
}

func BenchmarkEmitManyNames(b *testing.B) {
	em := QuietEmitter()
	evs := GenNames(em, 1000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		emitx.Emit(em, evs[i%len(evs)], i)
	}
}

func BenchmarkOnOff(b *testing.B) {
	em := QuietEmitter()
	ev := emitx.NewEvent[int]("churn")
	h := emitx.Func(func(int) {})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		emitx.On(em, ev, h)
		require.NoError(b, emitx.Off(em, ev, h))
	}
}

func BenchmarkOnce(b *testing.B) {
	em := QuietEmitter()
	ev := emitx.NewEvent[int]("once")
	h := emitx.Func(func(int) {})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		emitx.Once(em, ev, h)
		emitx.Emit(em, ev, i)
	}
}

func BenchmarkEmitParallel(b *testing.B) {
	em := QuietEmitter()
	ev := emitx.NewEvent[int]("parallel")
	emitx.On(em, ev, emitx.Func(func(int) {}))
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			emitx.Emit(em, ev, i)
			i++
		}
	})
}

func TestGenFanOut(t *testing.T) {
	em := QuietEmitter()
	ev, sum := GenFanOut(em, 3)
	emitx.Emit(em, ev, 2)
	assert.Equal(t, 6, *sum)
	assert.Equal(t, 3, emitx.ListenerCount(em, ev))
}

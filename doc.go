// Package emitx is a typed, synchronous, in-process event emitter.
//
// Events are declared once as typed keys and used with the package-level
// generic functions, so the payload of every handler and every emission is
// checked at compile time:
//
//	type Greeting struct {
//		Text  string
//		Count int
//	}
//
//	var Greeted = emitx.NewEvent[Greeting]("greeted")
//
//	em := emitx.New()
//	h := emitx.Func(func(g Greeting) { fmt.Println(g.Text, g.Count) })
//	emitx.On(em, Greeted, h)
//	emitx.Emit(em, Greeted, Greeting{"hello", 4})
//	if err := emitx.Off(em, Greeted, h); err != nil {
//		// errors.Is(err, emitx.ErrNotSubscribed)
//	}
//
// # Handler identity
//
// Go functions cannot be compared, so handlers are wrapped with Func and
// compared by pointer. Keep the *Handler to remove it later.
//
// # Dispatch
//
// Emit calls handlers one after another on the calling goroutine, in
// subscription order. A handler may subscribe, unsubscribe or emit from
// inside its own call. A handler that panics is recovered and reported to the
// emitter's ErrorHandler; the remaining handlers still run.
//
// # Lifetime
//
// A name's registry is created on first subscription and kept even after its
// last handler is removed, so EventNames keeps reporting it. WithPruneEmpty
// changes that.
package emitx

package emitx

import "log/slog"

// Option configures an Emitter via the functional options pattern.
type Option func(*Emitter)

// ErrorHandler receives handler failures recovered during Emit.
type ErrorHandler func(err *HandlerPanicError)

// WithLogger sets the logger used for debug traces and the default error
// handler. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(em *Emitter) {
		if l != nil {
			em.logger = l
		}
	}
}

// WithErrorHandler replaces the default handler-panic reporting, which logs
// at error level.
func WithErrorHandler(h ErrorHandler) Option {
	return func(em *Emitter) {
		em.onError = h
	}
}

// WithPruneEmpty drops an event's registry once Off, RemoveAllListeners or a
// Connection.Disconnect leaves it without listeners. Pruned names disappear
// from EventNames and may be rebound to a different payload type.
//
// A pruned name is indistinguishable from one never subscribed to, so a
// repeated Off for it returns nil rather than a *NotSubscribedError.
func WithPruneEmpty() Option {
	return func(em *Emitter) {
		em.prune = true
	}
}

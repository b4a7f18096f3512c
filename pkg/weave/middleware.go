package weave

import "context"

// Next is the continuation a stage invokes to run the rest of the chain.
// Within one invocation of a stage it must be called at most once; the
// second call returns an error wrapping ErrNextCalledTwice.
type Next func() error

// HandlerFunc is a single middleware stage. It receives the shared context
// value c by reference and the continuation next. The same c instance flows
// through every stage of one invocation; the engine never copies it.
type HandlerFunc[C any] func(ctx context.Context, c C, next Next) error

// Middleware makes HandlerFunc satisfy the Middleware interface, so plain
// functions can be passed wherever a Middleware is expected.
func (f HandlerFunc[C]) Middleware() HandlerFunc[C] {
	return f
}

// Middleware is anything that can expose a middleware stage: either a bare
// HandlerFunc or a capability object carrying one.
type Middleware[C any] interface {
	Middleware() HandlerFunc[C]
}

// Flatten normalizes a Middleware into its plain handler form.
// It panics if mw is nil or exposes a nil handler; composition of a
// non-callable stage is a programmer error, detected eagerly.
func Flatten[C any](mw Middleware[C]) HandlerFunc[C] {
	if mw == nil {
		panic("weave: nil middleware")
	}
	h := mw.Middleware()
	if h == nil {
		panic("weave: middleware exposes no handler")
	}
	return h
}

// Pass returns the neutral stage: it always invokes its continuation.
func Pass[C any]() HandlerFunc[C] {
	return func(ctx context.Context, c C, next Next) error {
		return next()
	}
}

// Stop returns the terminating stage: it never invokes its continuation,
// so the chain ends at it without error.
func Stop[C any]() HandlerFunc[C] {
	return func(ctx context.Context, c C, next Next) error {
		return nil
	}
}

package flow

import (
	"context"

	"github.com/ib-77/weave/pkg/weave"
)

// Predicate decides, for one invocation, which way a Branch goes.
type Predicate[C any] func(ctx context.Context, c C) (bool, error)

// Bool lifts a literal boolean into a Predicate.
func Bool[C any](value bool) Predicate[C] {
	return func(ctx context.Context, c C) (bool, error) {
		return value, nil
	}
}

// Factory produces the middlewares that should run for one invocation.
type Factory[C any] func(ctx context.Context, c C) ([]weave.Middleware[C], error)

// One adapts a factory producing a single middleware into a Factory.
func One[C any](f func(ctx context.Context, c C) (weave.Middleware[C], error)) Factory[C] {
	return func(ctx context.Context, c C) ([]weave.Middleware[C], error) {
		mw, err := f(ctx, c)
		if err != nil {
			return nil, err
		}
		return []weave.Middleware[C]{mw}, nil
	}
}

// Router maps the context value to an optional route key.
type Router[C any, K comparable] func(ctx context.Context, c C) (key K, ok bool, err error)

// Tap runs a stage with its continuation forced to a no-op, so the stage
// cannot gate the chain, then invokes the real continuation. Useful for
// side-effecting observers.
func Tap[C any](mw weave.Middleware[C]) weave.HandlerFunc[C] {
	h := weave.Flatten(mw)

	return func(ctx context.Context, c C, next weave.Next) error {
		if err := h(ctx, c, func() error { return nil }); err != nil {
			return err
		}
		return next()
	}
}

// Lazy resolves the active sub-chain at call time: the factory runs with
// the current context and its result is composed and run with the outer
// continuation. Branching and routing are built on this mechanism.
func Lazy[C any](factory Factory[C]) weave.HandlerFunc[C] {
	return func(ctx context.Context, c C, next weave.Next) error {
		mws, err := factory(ctx, c)
		if err != nil {
			return err
		}
		return weave.Compose(mws...)(ctx, c, next)
	}
}

// Branch selects between two stages by evaluating cond on every invocation.
func Branch[C any](cond Predicate[C], onTrue, onFalse weave.Middleware[C]) weave.HandlerFunc[C] {
	t := weave.Flatten(onTrue)
	f := weave.Flatten(onFalse)

	return func(ctx context.Context, c C, next weave.Next) error {
		ok, err := cond(ctx, c)
		if err != nil {
			return err
		}
		if ok {
			return t(ctx, c, next)
		}
		return f(ctx, c, next)
	}
}

// Filter runs the stages only when cond holds; otherwise the chain passes
// straight through to the continuation.
func Filter[C any](cond Predicate[C], mws ...weave.Middleware[C]) weave.HandlerFunc[C] {
	return Branch(cond, weave.Compose(mws...), weave.Pass[C]())
}

// Drop runs the stages only when cond holds; otherwise the chain stops at
// this point without error.
func Drop[C any](cond Predicate[C], mws ...weave.Middleware[C]) weave.HandlerFunc[C] {
	return Branch(cond, weave.Compose(mws...), weave.Stop[C]())
}

// Route looks the router's key up in the table on every invocation and runs
// the matching stage; a missing key or table entry runs the fallback, which
// defaults to pass-through.
func Route[C any, K comparable](router Router[C, K], table map[K]weave.Middleware[C], fallback ...weave.Middleware[C]) weave.HandlerFunc[C] {
	handlers := make(map[K]weave.HandlerFunc[C], len(table))
	for k, mw := range table {
		handlers[k] = weave.Flatten(mw)
	}
	fb := weave.Compose(fallback...)

	return func(ctx context.Context, c C, next weave.Next) error {
		key, ok, err := router(ctx, c)
		if err != nil {
			return err
		}
		if ok {
			if h, found := handlers[key]; found {
				return h(ctx, c, next)
			}
		}
		return fb(ctx, c, next)
	}
}

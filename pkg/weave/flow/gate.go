package flow

import (
	"context"

	"github.com/ib-77/weave/pkg/weave"
)

// gate runs each of the gating stages through weave.Observe in declaration
// order. Only when every one of them invoked its continuation does then
// run with the outer continuation; the first stage that declines halts the
// whole combinator silently.
func gate[C any](gating []weave.Middleware[C], then weave.HandlerFunc[C]) weave.HandlerFunc[C] {
	gs := make([]weave.HandlerFunc[C], len(gating))
	for i, mw := range gating {
		gs[i] = weave.Flatten(mw)
	}

	return func(ctx context.Context, c C, next weave.Next) error {
		for _, g := range gs {
			continued, err := weave.Observe(ctx, c, g)
			if err != nil {
				return err
			}
			if !continued {
				return nil
			}
		}
		return then(ctx, c, next)
	}
}

// Before runs every guard stage first; only when all of them invoked their
// continuation do the main stages run with the outer continuation.
func Before[C any](guards, main []weave.Middleware[C]) weave.HandlerFunc[C] {
	return gate(guards, weave.Compose(main...))
}

// After mirrors Before: every main stage must have invoked its continuation
// before the trailing stages run with the outer continuation.
func After[C any](main, trailers []weave.Middleware[C]) weave.HandlerFunc[C] {
	return gate(main, weave.Compose(trailers...))
}

// Enforce is Before followed by After: guards, then main, then trailers,
// with the same all-must-continue gating at each phase boundary.
func Enforce[C any](guards, main, trailers []weave.Middleware[C]) weave.HandlerFunc[C] {
	return gate(guards, gate(main, weave.Compose(trailers...)))
}

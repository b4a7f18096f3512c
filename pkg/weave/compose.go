package weave

import (
	"context"
	"errors"
	"fmt"
)

// ErrNextCalledTwice reports that a stage invoked the same continuation
// more than once within one invocation.
var ErrNextCalledTwice = errors.New("weave: continuation invoked multiple times")

// Compose builds one handler from an ordered sequence of middlewares.
//
// Each stage receives a continuation that runs the stages after it; the
// last stage's continuation is the terminal continuation passed to the
// composed handler (a no-op when the caller passes nil). Stages therefore
// run in declaration order going downstream and unwind in reverse order,
// like a call stack.
//
// A cursor owned by each invocation enforces single-use continuations:
// a stage that already moved the cursor forward cannot replay a stale
// continuation, its own or a sibling's. Violations surface as errors
// wrapping ErrNextCalledTwice at the point of the second call.
//
// Compose panics if any middleware is not callable after flattening.
// The returned handler is itself a valid middleware, so composed chains
// nest as stages of other chains.
func Compose[C any](mws ...Middleware[C]) HandlerFunc[C] {
	handlers := make([]HandlerFunc[C], len(mws))
	for i, mw := range mws {
		if mw == nil {
			panic(fmt.Sprintf("weave: nil middleware at position %d", i))
		}
		handlers[i] = Flatten(mw)
	}

	return func(ctx context.Context, c C, next Next) error {
		if next == nil {
			next = func() error { return nil }
		}

		lastIndex := -1
		var dispatch func(i int) error
		dispatch = func(i int) error {
			if i <= lastIndex {
				return fmt.Errorf("%w (stage %d)", ErrNextCalledTwice, i)
			}
			lastIndex = i

			if i == len(handlers) {
				return next()
			}
			return handlers[i](ctx, c, func() error {
				return dispatch(i + 1)
			})
		}

		return dispatch(0)
	}
}

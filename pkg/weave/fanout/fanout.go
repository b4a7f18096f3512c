package fanout

import (
	"context"

	"github.com/ib-77/weave/pkg/weave"
)

// Fork composes the given stages into an independent sub-chain and returns
// a stage that starts it in its own goroutine, then invokes the outer
// continuation without waiting for the fork to finish. The sub-chain runs
// to completion against a no-op terminal continuation; its internal
// continuation never reaches the parent.
//
// A forked sub-chain has no caller left to report to: its error is
// discarded. Wrap the forked stages in Caught or ErrorBoundary when their
// failures must be observed.
func Fork[C any](mws ...weave.Middleware[C]) weave.HandlerFunc[C] {
	sub := weave.Compose(mws...)

	return func(ctx context.Context, c C, next weave.Next) error {
		go func() {
			_ = sub(ctx, c, nil)
		}()
		return next()
	}
}

// Concurrency runs every stage at once, each against its own observed
// continuation, and invokes the outer continuation only when all of them
// chose to continue. A stage declining to continue is not an error; the
// chain simply ends here.
//
// The first stage error is returned immediately, without waiting for the
// remaining stages to settle. Side effects of still-running stages may not
// be observably finished at that point.
func Concurrency[C any](mws ...weave.Middleware[C]) weave.HandlerFunc[C] {
	handlers := make([]weave.HandlerFunc[C], len(mws))
	for i, mw := range mws {
		handlers[i] = weave.Flatten(mw)
	}

	type outcome struct {
		continued bool
		err       error
	}

	return func(ctx context.Context, c C, next weave.Next) error {
		results := make(chan outcome, len(handlers))
		for _, h := range handlers {
			go func(h weave.HandlerFunc[C]) {
				continued, err := weave.Observe(ctx, c, h)
				results <- outcome{continued: continued, err: err}
			}(h)
		}

		all := true
		for range handlers {
			r := <-results
			if r.err != nil {
				return r.err
			}
			if !r.continued {
				all = false
			}
		}

		if all {
			return next()
		}
		return nil
	}
}

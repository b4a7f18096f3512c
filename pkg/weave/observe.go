package weave

import "context"

// Observe runs one stage in isolation and reports whether it invoked its
// continuation. The continuation given to the stage records the call and
// fails on reuse, the same single-use discipline Compose applies to whole
// chains, scoped to a single stage.
//
// Gating combinators use Observe wherever later behavior depends on
// whether a stage chose to pass control downstream.
func Observe[C any](ctx context.Context, c C, mw Middleware[C]) (bool, error) {
	h := Flatten(mw)

	continued := false
	err := h(ctx, c, func() error {
		if continued {
			return ErrNextCalledTwice
		}
		continued = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return continued, nil
}

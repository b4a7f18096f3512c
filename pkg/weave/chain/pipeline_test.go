package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/weave/pkg/weave"
)

// wrap pushes start/end markers around everything downstream.
func wrap(name string) weave.HandlerFunc[*update] {
	return func(ctx context.Context, u *update, next weave.Next) error {
		u.push("start" + name)
		if err := next(); err != nil {
			return err
		}
		u.push("end" + name)
		return nil
	}
}

func TestPipeline_ThreeStageWrapOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := New[*update](wrap("1"), wrap("2"), wrap("3"))

	u := &update{}
	require.NoError(t, c.Run(ctx, u))
	assert.Equal(t, []string{"start1", "start2", "start3", "end3", "end2", "end1"}, u.log)
}

func TestPipeline_RouteFallback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := New[*update]()
	c.Route(
		func(ctx context.Context, u *update) (string, bool, error) { return u.kind, true, nil },
		map[string]weave.Middleware[*update]{
			"a": visit("stageA"),
			"b": visit("stageB"),
		},
		visit("fallback"),
	)

	u := &update{kind: "z"}
	require.NoError(t, c.Run(ctx, u))
	assert.Equal(t, []string{"fallback"}, u.log)
	assert.NotContains(t, u.log, "stageA")
	assert.NotContains(t, u.log, "stageB")
}

// TestPipeline_MessageProcessing drives a realistic chain: request id
// tagging, an access log observer, kind routing, a protected processing
// sub-chain, and an audit trailer.
func TestPipeline_MessageProcessing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	processed := 0
	failures := 0

	pipeline := New[*update]()
	pipeline.Tap(weave.HandlerFunc[*update](func(ctx context.Context, u *update, next weave.Next) error {
		u.push("observed:" + u.kind)
		return next()
	}))
	pipeline.Filter(
		func(ctx context.Context, u *update) (bool, error) { return u.kind != "ignored", nil },
		weave.HandlerFunc[*update](func(ctx context.Context, u *update, next weave.Next) error {
			u.push("accepted")
			return next()
		}),
	)
	pipeline.ErrorBoundary(
		func(ctx context.Context, berr *weave.BoundaryError[*update], resume weave.Next) error {
			failures++
			return resume()
		},
		weave.HandlerFunc[*update](func(ctx context.Context, u *update, next weave.Next) error {
			if u.kind == "poison" {
				return fmt.Errorf("cannot process %q", u.kind)
			}
			u.push("processed")
			return next()
		}),
	)
	pipeline.Use(weave.HandlerFunc[*update](func(ctx context.Context, u *update, next weave.Next) error {
		processed++
		return next()
	}))

	for _, kind := range []string{"text", "poison", "text"} {
		u := &update{kind: kind}
		require.NoError(t, pipeline.Run(ctx, u))
	}

	assert.Equal(t, 3, processed, "the boundary resumes past poison messages")
	assert.Equal(t, 1, failures)
}

func TestPipeline_CaughtKeepsChainAlive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var messages []string
	pipeline := New[*update]()
	pipeline.Caught(func(ctx context.Context, u *update, err error) error {
		messages = append(messages, err.Error())
		return nil
	})
	pipeline.Use(weave.HandlerFunc[*update](func(ctx context.Context, u *update, next weave.Next) error {
		if strings.HasPrefix(u.kind, "bad") {
			return errors.New("rejected " + u.kind)
		}
		return next()
	}))
	pipeline.Use(visit("delivered"))

	for _, kind := range []string{"ok", "bad-1", "ok"} {
		require.NoError(t, pipeline.Run(ctx, &update{kind: kind}))
	}
	assert.Equal(t, []string{"rejected bad-1"}, messages)
}

package chain

import (
	"context"

	"github.com/ib-77/weave/pkg/weave"
	"github.com/ib-77/weave/pkg/weave/fanout"
	"github.com/ib-77/weave/pkg/weave/flow"
)

// Chain accumulates middleware stages into one composed handler.
type Chain[C any] struct {
	handler weave.HandlerFunc[C]
}

// New creates a builder from zero or more middlewares. With none, the
// chain is a pass-through.
func New[C any](mws ...weave.Middleware[C]) *Chain[C] {
	return &Chain[C]{handler: weave.Compose(mws...)}
}

// Handler returns the current composed handler as a plain value. The
// returned handler is a snapshot: later mutations of the chain do not
// affect it.
func (c *Chain[C]) Handler() weave.HandlerFunc[C] {
	return c.handler
}

// Middleware exposes the chain as a middleware stage, resolved at call
// time so the chain can keep growing after it has been wired into a
// parent.
func (c *Chain[C]) Middleware() weave.HandlerFunc[C] {
	return func(ctx context.Context, value C, next weave.Next) error {
		return c.handler(ctx, value, next)
	}
}

// Use appends the given stages and returns their sub-chain builder; the
// sub-chain can keep being extended independently of the parent.
func (c *Chain[C]) Use(mws ...weave.Middleware[C]) *Chain[C] {
	sub := New(mws...)
	c.handler = weave.Compose[C](c.handler, sub)
	return sub
}

// Lazy appends a stage whose sub-chain is resolved by the factory on every
// invocation.
func (c *Chain[C]) Lazy(factory flow.Factory[C]) *Chain[C] {
	c.Use(flow.Lazy(factory))
	return c
}

// Tap appends the given stages as observers: they run with a no-op
// continuation and cannot gate the chain. Returns their sub-chain builder.
func (c *Chain[C]) Tap(mws ...weave.Middleware[C]) *Chain[C] {
	sub := New(mws...)
	c.Use(flow.Tap[C](sub))
	return sub
}

// Fork appends the given stages as a detached sub-chain that runs
// concurrently with the rest of the parent. Returns the sub-chain builder.
func (c *Chain[C]) Fork(mws ...weave.Middleware[C]) *Chain[C] {
	sub := New(mws...)
	c.Use(fanout.Fork[C](sub))
	return sub
}

// Branch appends a stage selecting between two middlewares per invocation.
func (c *Chain[C]) Branch(cond flow.Predicate[C], onTrue, onFalse weave.Middleware[C]) *Chain[C] {
	c.Use(flow.Branch(cond, onTrue, onFalse))
	return c
}

// Filter appends stages that run only when cond holds; otherwise the chain
// passes through. Returns their sub-chain builder.
func (c *Chain[C]) Filter(cond flow.Predicate[C], mws ...weave.Middleware[C]) *Chain[C] {
	sub := New(mws...)
	c.Use(flow.Filter[C](cond, sub))
	return sub
}

// Drop appends stages that run only when cond holds; otherwise the chain
// stops here. Returns their sub-chain builder.
func (c *Chain[C]) Drop(cond flow.Predicate[C], mws ...weave.Middleware[C]) *Chain[C] {
	sub := New(mws...)
	c.Use(flow.Drop[C](cond, sub))
	return sub
}

// Route appends a stage that picks a middleware from the table by the
// router's key, falling back to pass-through (or the given fallback).
func (c *Chain[C]) Route(router flow.Router[C, string], table map[string]weave.Middleware[C], fallback ...weave.Middleware[C]) *Chain[C] {
	c.Use(flow.Route(router, table, fallback...))
	return c
}

// Before gates everything accumulated so far behind the guard stages:
// every guard must invoke its continuation before the chain runs.
func (c *Chain[C]) Before(guards ...weave.Middleware[C]) *Chain[C] {
	current := c.handler
	c.handler = flow.Before[C](guards, []weave.Middleware[C]{current})
	return c
}

// After requires everything accumulated so far to have invoked its
// continuation before the trailing stages run.
func (c *Chain[C]) After(trailers ...weave.Middleware[C]) *Chain[C] {
	current := c.handler
	c.handler = flow.After[C]([]weave.Middleware[C]{current}, trailers)
	return c
}

// Enforce wraps everything accumulated so far between guard and trailing
// stages, gating each phase on the previous one.
func (c *Chain[C]) Enforce(guards, trailers []weave.Middleware[C]) *Chain[C] {
	current := c.handler
	c.handler = flow.Enforce[C](guards, []weave.Middleware[C]{current}, trailers)
	return c
}

// Concurrency appends a stage running the given middlewares at once,
// continuing only when all of them invoked their continuation.
func (c *Chain[C]) Concurrency(mws ...weave.Middleware[C]) *Chain[C] {
	c.Use(fanout.Concurrency(mws...))
	return c
}

// Caught appends a stage that intercepts errors from everything appended
// after it.
func (c *Chain[C]) Caught(handler weave.CaughtHandler[C]) *Chain[C] {
	c.Use(weave.Caught(handler))
	return c
}

// ErrorBoundary appends the given stages as a protected sub-chain whose
// failures are handed to the handler instead of propagating. Returns the
// protected sub-chain builder.
func (c *Chain[C]) ErrorBoundary(handler weave.BoundaryHandler[C], mws ...weave.Middleware[C]) *Chain[C] {
	sub := New(mws...)
	c.Use(weave.ErrorBoundary[C](handler, sub))
	return sub
}

// Enter grafts this chain's handler onto the parent chain, splicing one
// chain into another after the fact.
func (c *Chain[C]) Enter(parent *Chain[C]) *Chain[C] {
	parent.Use(c)
	return c
}

// Clone snapshots the current handler into a new builder. Subsequent
// mutations of either builder are independent.
func (c *Chain[C]) Clone() *Chain[C] {
	return &Chain[C]{handler: c.handler}
}

// Run invokes the composed handler with a no-op terminal continuation.
func (c *Chain[C]) Run(ctx context.Context, value C) error {
	return c.handler(ctx, value, func() error { return nil })
}

// Package weave turns an ordered collection of middleware stages sharing one
// mutable context value into a single callable pipeline. Stages receive a
// continuation and may run code before and after everything downstream of
// them (wrap semantics), short-circuit the chain by not invoking the
// continuation, or delegate to a terminal fallback supplied by the caller.
//
// Key operations:
// - Compose: build one handler from an ordered stage sequence
// - Observe: run one stage and report whether it invoked its continuation
// - Pass/Stop: neutral stages (always continue / never continue)
// - Caught: intercept errors from everything downstream of the stage
// - ErrorBoundary: isolate a sub-chain, hand failures to a handler that
//   may resume, swallow, or re-raise them
//
// Higher-level pieces live in subpackages: flow (branching and gating
// combinators), fanout (concurrent combinators) and chain (the fluent
// builder).
package weave

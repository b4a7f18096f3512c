// Package fanout contains combinators that run stages concurrently.
//
// Key operations:
// - Fork: detach an independent sub-chain and continue the parent
//   immediately, without waiting for the fork to finish
// - Concurrency: run stages at once and continue only when every one of
//   them invoked its continuation
//
// The context value is the only shared mutable resource and is not locked
// by the engine; concurrent stages either avoid overlapping writes to the
// same fields or accept last-write-wins.
package fanout

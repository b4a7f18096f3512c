// Package flow contains combinators that decide, per invocation, what part
// of a chain runs and in what order.
//
// Key operations:
// - Tap: run a stage for side effects only, then continue unconditionally
// - Lazy: defer the choice of sub-chain from composition time to call time
// - Branch/Filter/Drop: predicate-driven selection between sub-chains
// - Route: table-driven selection keyed off the context value
// - Before/After/Enforce: gate a phase behind another phase in which every
//   stage must have invoked its continuation
//
// All selection inputs (predicates, routers, factories) are evaluated fresh
// on every invocation; nothing is cached across calls.
package flow

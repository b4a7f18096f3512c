// Package chain provides a fluent builder that accumulates middleware
// stages into one composed handler.
//
// A Chain owns exactly one current handler; Use replaces it with the
// composition of the old handler and the new stages. Methods that add a
// sub-chain (Use, Tap, Fork, Filter, Drop, ErrorBoundary) return the
// sub-chain's builder so callers can keep extending it after it has been
// wired into the parent; the splice is resolved at call time, so later
// extensions take effect. Methods that only reshape the current handler
// (Lazy, Branch, Route, Before, After, Enforce, Concurrency, Caught,
// Enter) return the receiver for fluent chaining.
//
// Key operations:
// - New: create a builder (pass-through when empty)
// - Use: append stages, returning their sub-chain builder
// - Clone: snapshot the current handler into an independent builder
// - Enter: graft this chain onto a parent chain
// - Run: invoke the handler with a no-op terminal continuation
package chain

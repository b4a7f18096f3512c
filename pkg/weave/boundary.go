package weave

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// maxDescriptionLen caps textual failure descriptions in error messages.
const maxDescriptionLen = 80

// PanicError carries a value recovered from a panicking stage inside an
// error boundary.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	switch v := e.Value.(type) {
	case error:
		return fmt.Sprintf("panic with %T in middleware: %s", v, truncate(v.Error(), maxDescriptionLen))
	case string:
		return "panic with non-error value in middleware: " + truncate(v, maxDescriptionLen)
	default:
		return fmt.Sprintf("panic with non-error value of type %T in middleware", v)
	}
}

// BoundaryError wraps a failure intercepted by ErrorBoundary together with
// the context value that was flowing through the chain when it happened.
type BoundaryError[C any] struct {
	id        uuid.UUID
	createdAt time.Time

	// Err is the original failure. Panics inside the protected sub-chain
	// arrive as *PanicError.
	Err error

	// Ctx is the context instance of the failing invocation, untouched.
	Ctx C
}

func newBoundaryError[C any](err error, c C) *BoundaryError[C] {
	return &BoundaryError[C]{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
		Err:       err,
		Ctx:       c,
	}
}

// Error derives a message from the kind of the wrapped failure.
func (e *BoundaryError[C]) Error() string {
	if pe, ok := e.Err.(*PanicError); ok {
		return pe.Error()
	}
	return fmt.Sprintf("%T in middleware: %s", e.Err, truncate(e.Err.Error(), maxDescriptionLen))
}

func (e *BoundaryError[C]) Unwrap() error {
	return e.Err
}

// Context returns the wrapped context value; it is an alias for reading Ctx.
func (e *BoundaryError[C]) Context() C {
	return e.Ctx
}

func (e *BoundaryError[C]) Id() uuid.UUID {
	return e.id
}

// CreatedAt is the interception time (UTC).
func (e *BoundaryError[C]) CreatedAt() time.Time {
	return e.createdAt
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// CaughtHandler handles an error raised downstream of a Caught stage.
type CaughtHandler[C any] func(ctx context.Context, c C, err error) error

// Caught returns a stage that protects everything downstream of it: when
// resolving the continuation fails, the handler runs instead of the error
// propagating. Stages upstream of the Caught stage are unaffected.
func Caught[C any](handler CaughtHandler[C]) HandlerFunc[C] {
	return func(ctx context.Context, c C, next Next) error {
		if err := next(); err != nil {
			return handler(ctx, c, err)
		}
		return nil
	}
}

// BoundaryHandler decides what happens after a protected sub-chain fails.
// Invoking resume continues the outer chain past the failure; returning nil
// without resuming treats the failure as handled; returning an error
// propagates it to the next enclosing boundary or the caller.
type BoundaryHandler[C any] func(ctx context.Context, berr *BoundaryError[C], resume Next) error

// ErrorBoundary composes the given stages into an isolated sub-chain with
// its own continuation. When the sub-chain completes and invoked its
// continuation, the outer chain continues as usual. When it fails, by
// returned error or by panic, the handler receives a BoundaryError wrapping
// the failure and the context of the failing invocation.
func ErrorBoundary[C any](handler BoundaryHandler[C], mws ...Middleware[C]) HandlerFunc[C] {
	protected := Compose(mws...)

	return func(ctx context.Context, c C, next Next) error {
		continued := false
		err := runProtected(ctx, c, protected, &continued)
		if err == nil {
			if continued {
				return next()
			}
			return nil
		}
		continued = false

		resumed := false
		herr := handler(ctx, newBoundaryError(err, c), func() error {
			if resumed {
				return ErrNextCalledTwice
			}
			resumed = true
			return nil
		})
		if herr != nil {
			return herr
		}
		if resumed {
			return next()
		}
		return nil
	}
}

// runProtected runs the sub-chain, converting panics into *PanicError so
// the boundary can report them like any other failure.
func runProtected[C any](ctx context.Context, c C, h HandlerFunc[C], continued *bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()

	return h(ctx, c, func() error {
		*continued = true
		return nil
	})
}

package computation

import (
	"errors"

	"github.com/on-the-ground/io_ive_go/deferred"
)

var (
	// ErrUndefinedAction is the failure of running the zero Computation.
	ErrUndefinedAction = errors.New("computation has no action")

	// ErrInvalidStep is the failure of a composition whose step is nil.
	ErrInvalidStep = errors.New("invalid step")

	// ErrUnresolvable is the failure of Resolve for a value that is neither
	// a Computation, a Deferred nor a value of the expected type.
	ErrUnresolvable = errors.New("value cannot be resolved to a computation")

	// ErrPathType is the failure of reading a nested value of an unexpected type.
	ErrPathType = errors.New("unexpected type at path")
)

// Computation is an immutable, lazy, reusable description of an action
// over a state S that eventually yields an A or fails.
//
// The zero Computation is valid and fails every run with ErrUndefinedAction.
type Computation[S, A any] struct {
	action func(S) *deferred.Deferred[A]
}

// FromAction wraps action as a Computation. action is invoked once per Run
// and must not retain the state beyond the Deferred it returns.
func FromAction[S, A any](action func(S) *deferred.Deferred[A]) Computation[S, A] {
	return Computation[S, A]{action: action}
}

func (Computation[S, A]) isComputation() {}

type tagged interface {
	isComputation()
}

// IsComputation reports whether v is a Computation of any state and value type.
func IsComputation(v any) bool {
	_, ok := v.(tagged)
	return ok
}

// Run invokes the action against state. It always returns a Deferred:
// a panic inside the action settles it with a *deferred.PanicError.
func (c Computation[S, A]) Run(state S) *deferred.Deferred[A] {
	if c.action == nil {
		return deferred.Rejected[A](ErrUndefinedAction)
	}
	return deferred.Protect(func() *deferred.Deferred[A] {
		return c.action(state)
	})
}

// Unwrap returns Run as a plain function, for callers that expect
// func(S) *Deferred[A] rather than a Computation.
func (c Computation[S, A]) Unwrap() func(S) *deferred.Deferred[A] {
	return c.Run
}

package computation

import (
	"fmt"

	"github.com/on-the-ground/io_ive_go/deferred"
	"github.com/on-the-ground/io_ive_go/internal/helper"
	"github.com/on-the-ground/io_ive_go/lens"
)

// Of returns a Computation that ignores the state and succeeds with v.
func Of[S, A any](v A) Computation[S, A] {
	return FromAction(func(S) *deferred.Deferred[A] {
		return deferred.Resolved(v)
	})
}

// Fail returns a Computation that ignores the state and fails with err.
func Fail[S, A any](err error) Computation[S, A] {
	return FromAction(func(S) *deferred.Deferred[A] {
		return deferred.Rejected[A](err)
	})
}

// Get returns a Computation that succeeds with the state it is run against.
func Get[S any]() Computation[S, S] {
	return FromAction(func(state S) *deferred.Deferred[S] {
		return deferred.Resolved(state)
	})
}

// GetPath returns a Computation that succeeds with the value found at path
// inside the state.
//
// A missing key anywhere along the path yields the zero V. A path that
// addresses into a non-container fails with lens.ErrInvalidPath, and a value
// that is not a V fails with ErrPathType.
func GetPath[S, V any](path lens.Path) Computation[S, V] {
	return Lift(func(state S) (V, error) {
		return readAt[V](state, path)
	})
}

func readAt[V any](root any, path lens.Path) (V, error) {
	raw, err := lens.ReadAt(root, path)
	if err != nil {
		var zero V
		return zero, err
	}
	v, err := helper.TypedValueOf[V](raw)
	if err != nil {
		return v, fmt.Errorf("%w %v: %w", ErrPathType, path, err)
	}
	return v, nil
}

// Lift turns a synchronous function of the state into a Computation.
func Lift[S, A any](fn func(S) (A, error)) Computation[S, A] {
	return FromAction(func(state S) *deferred.Deferred[A] {
		if fn == nil {
			return deferred.Rejected[A](ErrInvalidStep)
		}
		v, err := fn(state)
		return deferred.From(v, err)
	})
}

// Async is Lift with fn running on its own goroutine, so a blocking fn
// never holds up the caller of Run.
func Async[S, A any](fn func(S) (A, error)) Computation[S, A] {
	return FromAction(func(state S) *deferred.Deferred[A] {
		if fn == nil {
			return deferred.Rejected[A](ErrInvalidStep)
		}
		return deferred.Go(func() (A, error) {
			return fn(state)
		})
	})
}

// Await returns a Computation that settles like d, whatever the state.
// Since d settles only once, every run observes the same outcome.
func Await[S, A any](d *deferred.Deferred[A]) Computation[S, A] {
	return FromAction(func(S) *deferred.Deferred[A] {
		return d
	})
}

// Resolve normalizes v into a Computation[S, A]:
//   - a Computation[S, A] is returned unchanged,
//   - a *deferred.Deferred[A] is awaited,
//   - any other Computation fails with ErrUnresolvable, it is never wrapped,
//   - a value of type A, or nil, becomes Of(v),
//   - anything else fails with ErrUnresolvable when run.
func Resolve[S, A any](v any) Computation[S, A] {
	switch v := v.(type) {
	case Computation[S, A]:
		return v
	case *deferred.Deferred[A]:
		if v == nil {
			return Fail[S, A](deferred.ErrNilDeferred)
		}
		return Await[S](v)
	case tagged:
		return Fail[S, A](fmt.Errorf("%w: %T is not a %T", ErrUnresolvable, v, Computation[S, A]{}))
	case A:
		return Of[S](v)
	case nil:
		var zero A
		return Of[S](zero)
	default:
		return Fail[S, A](fmt.Errorf("%w: %T", ErrUnresolvable, v))
	}
}

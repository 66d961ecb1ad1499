package computation

import (
	"fmt"

	"github.com/on-the-ground/io_ive_go/deferred"
	"github.com/on-the-ground/io_ive_go/lens"
)

// Local runs action against the state derived by mod from the current
// state. The derived state is visible only within action's extent; steps
// composed before or after Local keep seeing the original state.
func Local[S, A any](mod func(S) S, action Computation[S, A]) Computation[S, A] {
	if mod == nil {
		return LocalWith(Computation[S, S]{action: invalidStep[S, S]}, action)
	}
	return LocalWith(Lift(func(state S) (S, error) {
		return mod(state), nil
	}), action)
}

// LocalWith is Local with the derived state produced by a Computation run
// against the current state.
func LocalWith[S, A any](mod Computation[S, S], action Computation[S, A]) Computation[S, A] {
	return FromAction(func(state S) *deferred.Deferred[A] {
		return deferred.Then(mod.Run(state), func(local S) *deferred.Deferred[A] {
			return action.Run(local)
		})
	})
}

// Local runs c, then runs action under the state derived by mod.
// It is Then(c, Local(mod, action)).
func (c Computation[S, A]) Local(mod func(S) S, action Computation[S, A]) Computation[S, A] {
	return Then(c, Local(mod, action))
}

// LocalPath is Local where mod sees only the value at path and returns its
// replacement. Every other part of the state, siblings of path included, is
// carried over unchanged and the original state is never written to.
//
// The state must be addressable by lens: maps, slices, arrays, structs or
// pointers to them.
func LocalPath[S, V, A any](path lens.Path, mod func(V) V, action Computation[S, A]) Computation[S, A] {
	if mod == nil {
		return LocalPathWith(path, Computation[V, V]{action: invalidStep[V, V]}, action)
	}
	return LocalPathWith(path, Lift(func(v V) (V, error) {
		return mod(v), nil
	}), action)
}

// LocalPathWith is LocalPath with the replacement produced by a Computation
// run against the value currently at path.
func LocalPathWith[S, V, A any](path lens.Path, mod Computation[V, V], action Computation[S, A]) Computation[S, A] {
	return LocalWith(FromAction(func(state S) *deferred.Deferred[S] {
		cur, err := readAt[V](state, path)
		if err != nil {
			return deferred.Rejected[S](err)
		}
		return deferred.Then(mod.Run(cur), func(next V) *deferred.Deferred[S] {
			return deferred.From[S](updateAt(state, path, next))
		})
	}), action)
}

func updateAt[S, V any](state S, path lens.Path, v V) (S, error) {
	var zero S
	root, err := lens.UpdateAt(state, path, v)
	if err != nil {
		return zero, err
	}
	local, ok := root.(S)
	if !ok {
		return zero, fmt.Errorf("%w %v: state became %T", ErrPathType, path, root)
	}
	return local, nil
}

func invalidStep[S, A any](S) *deferred.Deferred[A] {
	return deferred.Rejected[A](ErrInvalidStep)
}

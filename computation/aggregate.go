package computation

import (
	"cmp"
	"slices"

	"github.com/on-the-ground/io_ive_go/deferred"
	"go.uber.org/multierr"
)

// Parallel starts every member against the same state, each on its own
// goroutine, and succeeds with their values at the members' positions,
// whatever order they settle in. Run returns without waiting for any
// member, synchronous ones included.
//
// Failure policy: the aggregate fails with the first member failure to
// settle and does not wait for the others. There is no cancellation, so the
// remaining members run to completion and their outcomes are discarded.
func Parallel[S, A any](members []Computation[S, A]) Computation[S, []A] {
	return FromAction(func(state S) *deferred.Deferred[[]A] {
		return deferred.All(runAll(members, state))
	})
}

// ParallelMap is Parallel over a keyed collection; the result carries the
// same keys.
func ParallelMap[S any, K comparable, A any](members map[K]Computation[S, A]) Computation[S, map[K]A] {
	keys := make([]K, 0, len(members))
	for k := range members {
		keys = append(keys, k)
	}
	return byKeys(keys, members, Parallel[S, A])
}

// ParallelSettled starts every member against the same state, each on its
// own goroutine, and waits for all of them. If any member fails, the aggregate fails with every member
// error combined by multierr, in position order; multierr.Errors recovers
// them individually.
func ParallelSettled[S, A any](members []Computation[S, A]) Computation[S, []A] {
	return FromAction(func(state S) *deferred.Deferred[[]A] {
		return deferred.Then(deferred.AllSettled(runAll(members, state)), func(results []deferred.Result[A]) *deferred.Deferred[[]A] {
			values := make([]A, len(results))
			var errs error
			for i, res := range results {
				values[i] = res.Value
				errs = multierr.Append(errs, res.Err)
			}
			if errs != nil {
				return deferred.Rejected[[]A](errs)
			}
			return deferred.Resolved(values)
		})
	})
}

// ParallelSettledMap is ParallelSettled over a keyed collection. Errors are
// combined in ascending key order.
func ParallelSettledMap[S any, K cmp.Ordered, A any](members map[K]Computation[S, A]) Computation[S, map[K]A] {
	return byKeys(sortedKeys(members), members, ParallelSettled[S, A])
}

// Sequence runs the members one at a time, in order, against the same
// state: a member starts only after the previous one has succeeded. The
// first failure is the aggregate's failure and later members never start.
func Sequence[S, A any](members []Computation[S, A]) Computation[S, []A] {
	return FromAction(func(state S) *deferred.Deferred[[]A] {
		return sequenceFrom(members, state, 0, make([]A, len(members)))
	})
}

// SequenceMap is Sequence over a keyed collection, run in ascending key order.
func SequenceMap[S any, K cmp.Ordered, A any](members map[K]Computation[S, A]) Computation[S, map[K]A] {
	return byKeys(sortedKeys(members), members, Sequence[S, A])
}

func sequenceFrom[S, A any](members []Computation[S, A], state S, i int, values []A) *deferred.Deferred[[]A] {
	if i == len(members) {
		return deferred.Resolved(values)
	}
	return deferred.Then(members[i].Run(state), func(v A) *deferred.Deferred[[]A] {
		values[i] = v
		return sequenceFrom(members, state, i+1, values)
	})
}

// runAll starts every member on its own goroutine, so synchronous members
// overlap as well and the caller of Run never waits for any of them.
func runAll[S, A any](members []Computation[S, A], state S) []*deferred.Deferred[A] {
	ds := make([]*deferred.Deferred[A], len(members))
	for i, m := range members {
		ds[i] = deferred.Go(func() (A, error) {
			return m.Run(state).Await()
		})
	}
	return ds
}

// byKeys runs the members in keys order through aggregate and rebuilds a
// map keyed like the input.
func byKeys[S any, K comparable, A any](
	keys []K,
	members map[K]Computation[S, A],
	aggregate func([]Computation[S, A]) Computation[S, []A],
) Computation[S, map[K]A] {
	ordered := make([]Computation[S, A], len(keys))
	for i, k := range keys {
		ordered[i] = members[k]
	}
	return Map(aggregate(ordered), func(values []A) map[K]A {
		out := make(map[K]A, len(keys))
		for i, k := range keys {
			out[k] = values[i]
		}
		return out
	})
}

func sortedKeys[K cmp.Ordered, A any](m map[K]A) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

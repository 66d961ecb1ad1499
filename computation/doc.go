// Package computation provides lazy, reusable, asynchronous computations
// that thread a caller-supplied state through every step.
//
// A Computation[S, A] describes an action that, given a state of type S,
// eventually produces a value of type A or fails with an error. Building a
// Computation never executes anything; only Run does, and every Run is
// independent of every other Run of the same Computation.
//
// # Why?
//
// Pipelines of effectful steps usually pass the same context through every
// function signature and sequence asynchronous calls by hand. A Computation
// carries the state implicitly: any step can read it with Get or GetPath,
// scope a modified copy of it with Local or LocalPath, and the composed
// pipeline is run once against a concrete state.
//
// # Building blocks
//
//   - Construction: Of, Fail, Get, GetPath, Lift, Async, Await, Resolve
//   - Composition: Chain (the primitive), Then, ChainFunc, ChainDeferred,
//     ChainAny, Map, Ap, Computation.Catch, Computation.Recover
//   - Scoping: Local, LocalWith, LocalPath, LocalPathWith
//   - Aggregation: Parallel, ParallelMap, ParallelSettled, Sequence, SequenceMap
//   - Execution: Computation.Run, Computation.Unwrap
//   - Observation: Traced
//
// Go methods cannot introduce type parameters, so every combinator that
// changes the value type is a function rather than a method.
//
// # Errors
//
// Errors returned by steps travel unchanged to the caller of Run or to the
// nearest Catch, so errors.Is and identity comparisons keep working. A panic
// inside a step becomes a *deferred.PanicError; Run itself never panics.
//
// Example:
//
//	greet := computation.Map(
//	    computation.GetPath[map[string]any, string](lens.Path{"user", "name"}),
//	    func(name string) string { return "hello, " + name },
//	)
//	msg, err := greet.Run(map[string]any{"user": map[string]any{"name": "kim"}}).Await()
package computation

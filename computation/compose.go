package computation

import "github.com/on-the-ground/io_ive_go/deferred"

// Chain is the composition primitive. Run against a state, it runs m, feeds
// m's value to step and runs the Computation step returns against the same
// state. A failure of m is passed on unchanged and step is never called.
//
// A nil step fails every run with ErrInvalidStep.
func Chain[S, A, B any](m Computation[S, A], step func(A) Computation[S, B]) Computation[S, B] {
	return FromAction(func(state S) *deferred.Deferred[B] {
		if step == nil {
			return deferred.Rejected[B](ErrInvalidStep)
		}
		return deferred.Then(m.Run(state), func(a A) *deferred.Deferred[B] {
			return step(a).Run(state)
		})
	})
}

// Then runs m, discards its value and runs next against the same state.
func Then[S, A, B any](m Computation[S, A], next Computation[S, B]) Computation[S, B] {
	return Chain(m, func(A) Computation[S, B] { return next })
}

// ChainFunc chains a step returning a plain value or an error.
func ChainFunc[S, A, B any](m Computation[S, A], step func(A) (B, error)) Computation[S, B] {
	if step == nil {
		return Chain[S, A, B](m, nil)
	}
	return Chain(m, func(a A) Computation[S, B] {
		v, err := step(a)
		if err != nil {
			return Fail[S, B](err)
		}
		return Of[S](v)
	})
}

// ChainDeferred chains a step returning an asynchronous result.
func ChainDeferred[S, A, B any](m Computation[S, A], step func(A) *deferred.Deferred[B]) Computation[S, B] {
	if step == nil {
		return Chain[S, A, B](m, nil)
	}
	return Chain(m, func(a A) Computation[S, B] {
		return Resolve[S, B](step(a))
	})
}

// ChainAny chains a step whose result is normalized with Resolve, so it may
// return a B, a *deferred.Deferred[B] or a Computation[S, B].
func ChainAny[S, A, B any](m Computation[S, A], step func(A) any) Computation[S, B] {
	if step == nil {
		return Chain[S, A, B](m, nil)
	}
	return Chain(m, func(a A) Computation[S, B] {
		return Resolve[S, B](step(a))
	})
}

// Map applies f to the value of m. The result of f is always wrapped with
// Of, even when it is itself a Computation: Map never flattens.
func Map[S, A, B any](m Computation[S, A], f func(A) B) Computation[S, B] {
	if f == nil {
		return Chain[S, A, B](m, nil)
	}
	return Chain(m, func(a A) Computation[S, B] {
		return Of[S](f(a))
	})
}

// Ap applies the function produced by mf to the value produced by ma,
// running both against the same state, mf first.
func Ap[S, A, B any](mf Computation[S, func(A) B], ma Computation[S, A]) Computation[S, B] {
	return Chain(mf, func(f func(A) B) Computation[S, B] {
		return Map(ma, f)
	})
}

// Catch returns a Computation that recovers from a failure of c by running
// the Computation handler returns, against the same state. handler is never
// called when c succeeds; a failure of handler's Computation is the new
// failure.
func (c Computation[S, A]) Catch(handler func(error) Computation[S, A]) Computation[S, A] {
	return FromAction(func(state S) *deferred.Deferred[A] {
		if handler == nil {
			return deferred.Rejected[A](ErrInvalidStep)
		}
		return deferred.Catch(c.Run(state), func(err error) *deferred.Deferred[A] {
			return handler(err).Run(state)
		})
	})
}

// Recover is Catch with a handler returning a plain value or an error.
func (c Computation[S, A]) Recover(handler func(error) (A, error)) Computation[S, A] {
	if handler == nil {
		return c.Catch(nil)
	}
	return c.Catch(func(err error) Computation[S, A] {
		v, herr := handler(err)
		if herr != nil {
			return Fail[S, A](herr)
		}
		return Of[S](v)
	})
}

package deferred

// Go runs fn on its own goroutine and settles the returned Deferred with
// its result. A panic in fn settles the Deferred with a *PanicError.
func Go[T any](fn func() (T, error)) *Deferred[T] {
	d, settle := New[T]()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				settle(zero, &PanicError{Value: r})
			}
		}()
		settle(fn())
	}()
	return d
}

// Protect invokes fn on the calling goroutine. A panic becomes a rejected
// Deferred carrying a *PanicError, and a nil return becomes ErrNilDeferred.
func Protect[T any](fn func() *Deferred[T]) (d *Deferred[T]) {
	defer func() {
		if r := recover(); r != nil {
			d = Rejected[T](&PanicError{Value: r})
		}
	}()
	if d = fn(); d == nil {
		d = Rejected[T](ErrNilDeferred)
	}
	return
}

// continueWith calls next with the settled result of d. When d is already
// settled next runs inline; otherwise a goroutine waits for d and forwards
// whatever next produces into the returned Deferred.
func continueWith[T, U any](d *Deferred[T], next func(Result[T]) *Deferred[U]) *Deferred[U] {
	if d.Settled() {
		return Protect(func() *Deferred[U] { return next(d.res) })
	}

	out, settle := New[U]()
	go func() {
		<-d.done
		settle(Protect(func() *Deferred[U] { return next(d.res) }).Await())
	}()
	return out
}

// Then feeds the value of d to onValue once d succeeds. A failure of d is
// passed on with the identical error value and onValue is never called.
func Then[T, U any](d *Deferred[T], onValue func(T) *Deferred[U]) *Deferred[U] {
	return continueWith(d, func(res Result[T]) *Deferred[U] {
		if res.Err != nil {
			return Rejected[U](res.Err)
		}
		return onValue(res.Value)
	})
}

// Catch feeds the error of d to onErr once d fails. A success of d is
// passed on untouched and onErr is never called.
func Catch[T any](d *Deferred[T], onErr func(error) *Deferred[T]) *Deferred[T] {
	return continueWith(d, func(res Result[T]) *Deferred[T] {
		if res.Err == nil {
			return From(res.Value, res.Err)
		}
		return onErr(res.Err)
	})
}

// Tap hands the settled result of d to fn and then settles the returned
// Deferred with that same result.
func Tap[T any](d *Deferred[T], fn func(Result[T])) *Deferred[T] {
	return continueWith(d, func(res Result[T]) *Deferred[T] {
		fn(res)
		return From(res.Value, res.Err)
	})
}

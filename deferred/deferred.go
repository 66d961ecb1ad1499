package deferred

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Result represents the settled outcome of a Deferred.
type Result[T any] struct {
	Value T
	Err   error
}

func resultFrom[T any](v T, err error) Result[T] {
	return Result[T]{Value: v, Err: err}
}

// ErrNilDeferred is returned when a continuation hands back a nil *Deferred.
var ErrNilDeferred = errors.New("nil deferred")

// PanicError carries a value recovered from a panicking continuation.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it is an error, so errors.Is and
// errors.As see through the panic.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Deferred is an asynchronous container that settles exactly once,
// either to a value or to an error.
//
// A Deferred may be awaited any number of times from any number of
// goroutines; every waiter observes the same Result.
type Deferred[T any] struct {
	done chan struct{}
	once sync.Once
	res  Result[T]
}

// New returns a pending Deferred and the function that settles it.
// Only the first call of settle has any effect.
func New[T any]() (*Deferred[T], func(T, error)) {
	d := &Deferred[T]{done: make(chan struct{})}
	return d, d.settle
}

// Resolved returns a Deferred already settled with v.
func Resolved[T any](v T) *Deferred[T] {
	d, settle := New[T]()
	settle(v, nil)
	return d
}

// Rejected returns a Deferred already settled with err.
func Rejected[T any](err error) *Deferred[T] {
	var zero T
	d, settle := New[T]()
	settle(zero, err)
	return d
}

// From returns a Deferred already settled with v when err is nil, or with
// err otherwise.
func From[T any](v T, err error) *Deferred[T] {
	d, settle := New[T]()
	settle(v, err)
	return d
}

func (d *Deferred[T]) settle(v T, err error) {
	d.once.Do(func() {
		d.res = resultFrom(v, err)
		close(d.done)
	})
}

// Done returns a channel closed once the Deferred has settled.
func (d *Deferred[T]) Done() <-chan struct{} {
	return d.done
}

// Settled reports whether the Deferred has settled, without blocking.
func (d *Deferred[T]) Settled() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

// Await blocks until the Deferred settles and returns its outcome.
func (d *Deferred[T]) Await() (T, error) {
	<-d.done
	return d.res.Value, d.res.Err
}

// Wait is Await bounded by ctx. Giving up on ctx leaves the Deferred
// untouched; it still settles on its own.
func (d *Deferred[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-d.done:
		return d.res.Value, d.res.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result blocks until the Deferred settles and returns the settled Result.
func (d *Deferred[T]) Result() Result[T] {
	<-d.done
	return d.res
}

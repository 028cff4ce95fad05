// Package async provides a minimal future used to expose asynchronous
// variants of blocking SDK calls.
//
// Operations are written once as context-aware functions. The asynchronous
// surface starts them with Run; the synchronous surface is Run(...).Await,
// so the blocking wait lives only at the public API boundary.
package async

import (
	"context"
	"sync"
)

// Future is the pending result of a function started with Run.
// Await may be called from any number of goroutines.
type Future[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

// Run starts fn on its own goroutine and returns a future for its result.
// ctx is passed to fn; cancelling it is the only way to abort the work.
func Run[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		v, err := fn(ctx)
		f.resolve(v, err)
	}()
	return f
}

// Resolved returns a future that is already complete.
func Resolved[T any](v T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	f.resolve(v, err)
	return f
}

func (f *Future[T]) resolve(v T, err error) {
	f.once.Do(func() {
		f.value = v
		f.err = err
		close(f.done)
	})
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future completes or ctx is done.
// If ctx ends first the work keeps running and ctx.Err() is returned.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Wait blocks until the future completes, regardless of any context.
// Use it when the caller must observe the final state of the work.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.value, f.err
}

// Result returns the outcome without blocking. ok is false while pending.
func (f *Future[T]) Result() (v T, err error, ok bool) {
	select {
	case <-f.done:
		return f.value, f.err, true
	default:
		var zero T
		return zero, nil, false
	}
}

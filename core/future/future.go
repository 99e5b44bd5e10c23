// Package future provides single-assignment result values for asynchronous
// request/response flows.
//
// A [Promise] is the producer side: whoever owns it completes or fails the
// associated [Future] exactly once (first write wins, later writes are
// no-ops). A [Future] is the consumer side: callers can block on
// [Future.Result], select on [Future.Done], or attach continuations via
// [Future.OnComplete].
//
// Continuations run on whatever goroutine completes the future (or, when the
// future is already settled, on the goroutine registering the continuation).
// They must not assume any particular execution context.
package future

import (
	"context"
	"errors"
	"sync"
)

// Future is the read side of a single-assignment asynchronous result.
type Future[T any] struct {
	done chan struct{}

	mu        sync.Mutex
	settled   bool
	val       T
	err       error
	callbacks []func(T, error)
}

// Promise is the write side of a [Future]. The zero value is not usable;
// create one with [NewPromise].
type Promise[T any] struct {
	f *Future[T]
}

// NewPromise returns a fresh, unsettled promise.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{f: &Future[T]{done: make(chan struct{})}}
}

// Future returns the read side of p. Multiple calls return the same value.
func (p *Promise[T]) Future() *Future[T] { return p.f }

// Complete settles the future with v. Returns false if the future was
// already settled.
func (p *Promise[T]) Complete(v T) bool { return p.f.settle(v, nil) }

// Fail settles the future with err, which must be non-nil. Returns false if
// the future was already settled.
func (p *Promise[T]) Fail(err error) bool {
	if err == nil {
		err = errors.New("future: failed with nil error")
	}
	var zero T
	return p.f.settle(zero, err)
}

// Completed returns an already-successful future holding v.
func Completed[T any](v T) *Future[T] {
	p := NewPromise[T]()
	p.Complete(v)
	return p.Future()
}

// Failed returns an already-failed future holding err.
func Failed[T any](err error) *Future[T] {
	p := NewPromise[T]()
	p.Fail(err)
	return p.Future()
}

func (f *Future[T]) settle(v T, err error) bool {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return false
	}
	f.settled = true
	f.val, f.err = v, err
	cbs := f.callbacks
	f.callbacks = nil
	f.mu.Unlock()

	close(f.done)
	for _, cb := range cbs {
		cb(v, err)
	}
	return true
}

// Done returns a channel closed when the future settles.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Result blocks until the future settles or ctx is cancelled. Cancellation
// of ctx abandons the wait; it does not settle the future.
func (f *Future[T]) Result(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// OnComplete attaches a continuation invoked exactly once with the settled
// value or error. If the future is already settled, fn runs immediately on
// the calling goroutine.
func (f *Future[T]) OnComplete(fn func(T, error)) {
	f.mu.Lock()
	if !f.settled {
		f.callbacks = append(f.callbacks, fn)
		f.mu.Unlock()
		return
	}
	v, err := f.val, f.err
	f.mu.Unlock()
	fn(v, err)
}

// Convert derives a future of U from a future of T. Failures of f pass
// through unchanged; successful values go through conv, whose error (if any)
// fails the derived future.
func Convert[T, U any](f *Future[T], conv func(T) (U, error)) *Future[U] {
	p := NewPromise[U]()
	f.OnComplete(func(v T, err error) {
		if err != nil {
			p.Fail(err)
			return
		}
		u, err := conv(v)
		if err != nil {
			p.Fail(err)
			return
		}
		p.Complete(u)
	})
	return p.Future()
}

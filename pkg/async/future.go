package async

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// Future represents the eventual result of an asynchronous computation.
// It settles exactly once, either with a value or with an error.
type Future[T any] struct {
	mu        sync.Mutex
	result    T
	err       error
	settled   bool
	done      chan struct{}
	observers []func(T, error)
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// settle stores the outcome and notifies observers. Returns false when the
// future was already settled; the first outcome is kept.
func (f *Future[T]) settle(result T, err error) bool {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return false
	}
	f.result = result
	f.err = err
	f.settled = true
	observers := f.observers
	f.observers = nil
	close(f.done)
	f.mu.Unlock()

	for _, fn := range observers {
		notify(fn, result, err)
	}
	return true
}

// notify runs a single observer. A panicking observer is logged and does not
// keep the remaining observers from running.
func notify[T any](fn func(T, error), result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Default().Error("async observer panicked",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	fn(result, err)
}

func (f *Future[T]) reject(err error) bool {
	var zero T
	return f.settle(zero, err)
}

// OnComplete registers fn to observe the outcome.
// If the future is still pending, fn runs on the goroutine that settles it, in
// registration order. Otherwise fn runs immediately on the caller's goroutine.
// A panic in fn is recovered and logged.
func (f *Future[T]) OnComplete(fn func(T, error)) {
	if fn == nil {
		return
	}

	f.mu.Lock()
	if !f.settled {
		f.observers = append(f.observers, fn)
		f.mu.Unlock()
		return
	}
	result, err := f.result, f.err
	f.mu.Unlock()

	notify(fn, result, err)
}

// Done returns a channel that is closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles and returns its result and error.
// Reserve it for boundary code; pipeline stages compose with Map and FlatMap.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits for the future with a timeout.
// If the timeout occurs before completion, returns ErrTimeout.
func (f *Future[T]) AwaitWithTimeout(timeout time.Duration) (T, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-timer.C:
		var zero T
		return zero, ErrTimeout
	}
}

// AwaitContext waits for the future until ctx is done.
// The computation behind the future keeps running after ctx is cancelled.
func (f *Future[T]) AwaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// IsComplete checks if the future has settled without blocking.
func (f *Future[T]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Promise is the write side of a Future.
type Promise[T any] struct {
	future *Future[T]
}

// NewPromise creates a pending promise.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{future: newFuture[T]()}
}

// Future returns the read side of the promise.
func (p *Promise[T]) Future() *Future[T] {
	return p.future
}

// Resolve settles the future with v.
// Returns ErrAlreadySettled if the future already has an outcome.
func (p *Promise[T]) Resolve(v T) error {
	if !p.future.settle(v, nil) {
		return ErrAlreadySettled
	}
	return nil
}

// Reject settles the future with err.
// A nil err is refused with ErrNilError and the future stays pending.
func (p *Promise[T]) Reject(err error) error {
	if err == nil {
		return ErrNilError
	}
	if !p.future.reject(err) {
		return ErrAlreadySettled
	}
	return nil
}

// protect runs fn and converts a panic into a *PanicError.
func protect[T any](fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = zero
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}

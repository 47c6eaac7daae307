package async

import (
	"context"
	"sync"
)

// Of returns a future already resolved with v.
func Of[T any](v T) *Future[T] {
	f := newFuture[T]()
	f.settle(v, nil)
	return f
}

// Error returns a future already rejected with err.
// A nil err is replaced with ErrNilError so the future never looks successful.
func Error[T any](err error) *Future[T] {
	if err == nil {
		err = ErrNilError
	}
	f := newFuture[T]()
	f.reject(err)
	return f
}

// Supply runs fn on the caller's goroutine and captures its outcome.
// Errors and panics both become a rejected future; nothing escapes past this call.
func Supply[T any](fn func() (T, error)) *Future[T] {
	if fn == nil {
		return Error[T](ErrNilTask)
	}
	result, err := protect(fn)
	if err != nil {
		return Error[T](err)
	}
	return Of(result)
}

// SupplyAsync runs fn on exec and returns a future for its outcome.
// If ctx is already done when the task starts, fn is skipped and the future
// is rejected with ctx.Err(). A nil exec runs the task on its own goroutine.
func SupplyAsync[T any](ctx context.Context, exec Executor, fn func(context.Context) (T, error)) *Future[T] {
	if fn == nil {
		return Error[T](ErrNilTask)
	}

	f := newFuture[T]()
	dispatch(exec, f, func() {
		// Early exit prevents running work nobody is waiting for
		if err := ctx.Err(); err != nil {
			f.reject(err)
			return
		}
		f.settle(protect(func() (T, error) { return fn(ctx) }))
	})
	return f
}

// Map returns a future settled with fn applied to the value of f.
// fn runs synchronously on the goroutine that settles f. A rejected f
// short-circuits: fn is not called and the error is propagated as is.
func Map[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	if f == nil {
		return Error[U](ErrNilFuture)
	}

	next := newFuture[U]()
	f.OnComplete(func(v T, err error) {
		if err != nil {
			next.reject(err)
			return
		}
		next.settle(protect(func() (U, error) { return fn(v) }))
	})
	return next
}

// MapAsync is like Map but dispatches fn to exec instead of running it on the
// settling goroutine.
func MapAsync[T, U any](f *Future[T], exec Executor, fn func(T) (U, error)) *Future[U] {
	if f == nil {
		return Error[U](ErrNilFuture)
	}

	next := newFuture[U]()
	f.OnComplete(func(v T, err error) {
		if err != nil {
			next.reject(err)
			return
		}
		dispatch(exec, next, func() {
			next.settle(protect(func() (U, error) { return fn(v) }))
		})
	})
	return next
}

// FlatMap chains a dependent asynchronous step. The returned future settles
// with the outcome of the future produced by fn.
func FlatMap[T, U any](f *Future[T], fn func(T) *Future[U]) *Future[U] {
	if f == nil {
		return Error[U](ErrNilFuture)
	}

	next := newFuture[U]()
	f.OnComplete(func(v T, err error) {
		if err != nil {
			next.reject(err)
			return
		}
		forward(next, v, fn)
	})
	return next
}

// FlatMapAsync is like FlatMap but calls fn on exec.
func FlatMapAsync[T, U any](f *Future[T], exec Executor, fn func(T) *Future[U]) *Future[U] {
	if f == nil {
		return Error[U](ErrNilFuture)
	}

	next := newFuture[U]()
	f.OnComplete(func(v T, err error) {
		if err != nil {
			next.reject(err)
			return
		}
		dispatch(exec, next, func() { forward(next, v, fn) })
	})
	return next
}

func forward[T, U any](next *Future[U], v T, fn func(T) *Future[U]) {
	inner, err := protect(func() (*Future[U], error) { return fn(v), nil })
	if err != nil {
		next.reject(err)
		return
	}
	if inner == nil {
		next.reject(ErrNilFuture)
		return
	}
	inner.OnComplete(func(u U, err error) { next.settle(u, err) })
}

// Pair holds the values of two joined futures.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Zip joins two independent futures. The result resolves once both resolve
// and rejects with the first error observed.
func Zip[A, B any](a *Future[A], b *Future[B]) *Future[Pair[A, B]] {
	if a == nil || b == nil {
		return Error[Pair[A, B]](ErrNilFuture)
	}

	next := newFuture[Pair[A, B]]()
	var (
		mu        sync.Mutex
		pair      Pair[A, B]
		remaining = 2
	)
	arrive := func(set func()) {
		mu.Lock()
		set()
		remaining--
		last := remaining == 0
		mu.Unlock()
		if last {
			next.settle(pair, nil)
		}
	}

	a.OnComplete(func(v A, err error) {
		if err != nil {
			next.reject(err)
			return
		}
		arrive(func() { pair.First = v })
	})
	b.OnComplete(func(v B, err error) {
		if err != nil {
			next.reject(err)
			return
		}
		arrive(func() { pair.Second = v })
	})
	return next
}

// Combine joins two independent futures and applies fn to both values.
func Combine[A, B, R any](a *Future[A], b *Future[B], fn func(A, B) (R, error)) *Future[R] {
	return Map(Zip(a, b), func(p Pair[A, B]) (R, error) {
		return fn(p.First, p.Second)
	})
}

// All resolves with the values of every future in input order once all of
// them resolve. The first error observed, in settlement order, rejects the
// result; later errors are dropped. Empty input resolves immediately.
func All[T any](futures ...*Future[T]) *Future[[]T] {
	if len(futures) == 0 {
		return Of([]T{})
	}
	for _, f := range futures {
		if f == nil {
			return Error[[]T](ErrNilFuture)
		}
	}

	next := newFuture[[]T]()
	results := make([]T, len(futures))
	var (
		mu        sync.Mutex
		remaining = len(futures)
	)

	for i, f := range futures {
		f.OnComplete(func(v T, err error) {
			if err != nil {
				next.reject(err)
				return
			}
			mu.Lock()
			results[i] = v
			remaining--
			last := remaining == 0
			mu.Unlock()
			if last {
				next.settle(results, nil)
			}
		})
	}
	return next
}

// AllAsync starts every fn on exec and waits for all of them like All.
func AllAsync[T any](ctx context.Context, exec Executor, fns ...func(context.Context) (T, error)) *Future[[]T] {
	futures := make([]*Future[T], len(fns))
	for i, fn := range fns {
		futures[i] = SupplyAsync(ctx, exec, fn)
	}
	return All(futures...)
}

// Any settles with the outcome of whichever future settles first, success or
// failure. The others keep running and their outcomes are discarded.
// Calling Any without futures is a caller error reported as ErrNoFutures.
func Any[T any](futures ...*Future[T]) *Future[T] {
	if len(futures) == 0 {
		return Error[T](ErrNoFutures)
	}
	for _, f := range futures {
		if f == nil {
			return Error[T](ErrNilFuture)
		}
	}

	next := newFuture[T]()
	for _, f := range futures {
		f.OnComplete(func(v T, err error) { next.settle(v, err) })
	}
	return next
}

// AnyAsync starts every fn on exec and races them like Any.
func AnyAsync[T any](ctx context.Context, exec Executor, fns ...func(context.Context) (T, error)) *Future[T] {
	futures := make([]*Future[T], len(fns))
	for i, fn := range fns {
		futures[i] = SupplyAsync(ctx, exec, fn)
	}
	return Any(futures...)
}

// WaitAll blocks until All settles and returns the collected values.
func WaitAll[T any](futures ...*Future[T]) ([]T, error) {
	return All(futures...).Await()
}

// WaitAny blocks until the first future settles and returns its index,
// result and error. Returns -1 and ErrNoFutures for empty input.
func WaitAny[T any](futures ...*Future[T]) (int, T, error) {
	type outcome struct {
		index  int
		result T
		err    error
	}

	indexed := make([]*Future[outcome], len(futures))
	for i, f := range futures {
		if f == nil {
			indexed[i] = nil
			continue
		}
		indexed[i] = newFuture[outcome]()
		f.OnComplete(func(v T, err error) {
			indexed[i].settle(outcome{index: i, result: v, err: err}, nil)
		})
	}

	res, err := Any(indexed...).Await()
	if err != nil {
		var zero T
		return -1, zero, err
	}
	return res.index, res.result, res.err
}

// Package async provides generic futures and the combinators needed to compose
// asynchronous work without blocking.
//
// A Future represents the eventual result of an asynchronous operation. It
// settles exactly once with either a value or an error, and any number of
// observers attached with OnComplete see the same outcome. The write side of a
// future is a Promise.
//
// # Building futures
//
// Of and Error lift plain values and errors. Supply runs a function on the
// caller's goroutine and turns both returned errors and panics into rejected
// futures. SupplyAsync runs the function on an Executor.
//
// # Chaining
//
// Map and FlatMap attach continuations that run on whichever goroutine settles
// the source future. MapAsync and FlatMapAsync dispatch the continuation to an
// Executor instead. A rejected source short-circuits every dependent stage and
// the error reaches the end of the chain unchanged.
//
// # Aggregation
//
// All collects every value in input order and rejects with the first error
// observed in settlement order. Any settles with whichever input settles
// first; the rest keep running and are ignored. Zip and Combine join two
// independent futures of different types.
//
// # Executors
//
// Pool runs tasks on a fixed number of workers fed by an unbounded queue.
// GoExecutor starts a goroutine per task.
//
// # Usage
//
//	pool := async.NewPool(async.WithWorkers(8))
//	defer pool.Close()
//
//	user := async.SupplyAsync(ctx, pool, loadUser)
//	product := async.SupplyAsync(ctx, pool, loadProduct)
//
//	order := async.FlatMap(async.Zip(user, product), func(p async.Pair[User, Product]) *async.Future[Order] {
//	    return placeOrder(ctx, p.First, p.Second)
//	})
//
//	// only at the process boundary
//	res, err := order.Await()
//
// # Blocking
//
// Await, AwaitWithTimeout, AwaitContext, WaitAll and WaitAny block the caller.
// They are meant for boundary code such as HTTP handlers and tests; code that
// runs inside a chain composes with the non-blocking combinators.
//
// # Error Handling
//
// Callback panics are recovered into *PanicError. Misuse is reported with the
// sentinel errors in errors.go, for example ErrNoFutures from Any with no
// inputs and ErrAlreadySettled from a second Resolve.
package async

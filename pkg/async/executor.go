package async

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// Executor runs tasks, usually on other goroutines.
type Executor interface {
	Execute(task func()) error
}

// GoExecutor starts a new goroutine per task.
type GoExecutor struct{}

func (GoExecutor) Execute(task func()) error {
	if task == nil {
		return ErrNilTask
	}
	go task()
	return nil
}

// dispatch submits task to exec and rejects f when exec refuses it.
func dispatch[T any](exec Executor, f *Future[T], task func()) {
	if exec == nil {
		exec = GoExecutor{}
	}
	if err := exec.Execute(task); err != nil {
		f.reject(err)
	}
}

// PoolOption configures a Pool.
type PoolOption func(*poolOptions)

type poolOptions struct {
	workers int
	logger  *slog.Logger
}

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) PoolOption {
	return func(o *poolOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithPoolLogger sets the logger used to report recovered task panics.
func WithPoolLogger(l *slog.Logger) PoolOption {
	return func(o *poolOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// PoolStats is a point-in-time snapshot of pool activity.
type PoolStats struct {
	Workers   int
	Active    int64
	Queued    int
	Completed uint64
}

// Pool is a fixed set of workers draining an unbounded FIFO queue.
// Execute never blocks, so tasks running on a worker may submit more work
// without starving the pool.
type Pool struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	wg     sync.WaitGroup

	workers   int
	logger    *slog.Logger
	active    atomic.Int64
	completed atomic.Uint64
}

// NewPool starts a pool. Defaults to GOMAXPROCS workers.
func NewPool(opts ...PoolOption) *Pool {
	options := &poolOptions{
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	p := &Pool{
		workers: options.workers,
		logger:  options.logger,
	}
	p.cond = sync.NewCond(&p.mu)

	p.wg.Add(p.workers)
	for range p.workers {
		go p.work()
	}
	return p
}

// Execute enqueues task. Returns ErrPoolClosed after Close.
func (p *Pool) Execute(task func()) error {
	if task == nil {
		return ErrNilTask
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.queue = append(p.queue, task)
	p.mu.Unlock()

	p.cond.Signal()
	return nil
}

func (p *Pool) work() {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		task := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.mu.Unlock()

		p.run(task)
	}
}

func (p *Pool) run(task func()) {
	p.active.Add(1)
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("async pool task panicked",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
		p.active.Add(-1)
		p.completed.Add(1)
	}()

	task()
}

// Close stops accepting tasks, lets queued tasks finish and waits for the
// workers to exit. Safe for repeated calls.
//
// Close must not be called from a task running on the pool: the calling
// worker cannot exit until the task returns, so Close never does. Tasks that
// need to stop the pool call Shutdown with a deadline instead.
func (p *Pool) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.cond.Broadcast()
	p.wg.Wait()
	return nil
}

// Shutdown is Close bounded by ctx. Returns ctx.Err() if the queue does not
// drain in time; the workers keep draining in the background. Called from a
// pool task it always waits for ctx, since that task's worker is still busy.
func (p *Pool) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		_ = p.Close()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns current pool counters.
func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	queued := len(p.queue)
	p.mu.Unlock()

	return PoolStats{
		Workers:   p.workers,
		Active:    p.active.Load(),
		Queued:    queued,
		Completed: p.completed.Load(),
	}
}

package store

import (
	"time"

	"github.com/dmitrymomot/storefront/internal/domain"
	"github.com/dmitrymomot/storefront/pkg/async"
)

// Store is the in-memory datastore. Its collections share one id sequence.
type Store struct {
	Users    *Collection[domain.User]
	Products *Collection[domain.Product]
	Orders   *Collection[domain.Order]

	seq *Sequence
	now func() time.Time
}

type options struct {
	latency time.Duration
	firstID uint64
	now     func() time.Time
}

// Option configures a Store.
type Option func(*options)

// WithLatency delays every operation by d to mimic a remote service.
func WithLatency(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.latency = d
		}
	}
}

// WithFirstID sets the first id the sequence issues.
func WithFirstID(n uint64) Option {
	return func(o *options) { o.firstID = n }
}

// WithClock overrides the clock used for fixture timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New creates an empty store whose operations run on exec.
// A nil exec runs each operation on its own goroutine.
func New(exec async.Executor, opts ...Option) *Store {
	o := &options{firstID: 1, now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	if exec == nil {
		exec = async.GoExecutor{}
	}

	seq := NewSequence(o.firstID)
	s := &Store{
		Users:    newCollection[domain.User]("user", seq, exec, o.latency),
		Products: newCollection[domain.Product]("product", seq, exec, o.latency),
		Orders:   newCollection[domain.Order]("order", seq, exec, o.latency),
		seq:      seq,
		now:      o.now,
	}
	return s
}

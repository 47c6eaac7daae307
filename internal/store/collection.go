package store

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrymomot/storefront/internal/domain"
	"github.com/dmitrymomot/storefront/pkg/async"
)

// Collection holds the records of one entity kind. Every operation runs on
// the store's executor and reports through a future.
type Collection[T domain.Entity[T]] struct {
	kind    string
	seq     *Sequence
	exec    async.Executor
	latency time.Duration

	mu    sync.RWMutex
	items map[string]T
}

func newCollection[T domain.Entity[T]](kind string, seq *Sequence, exec async.Executor, latency time.Duration) *Collection[T] {
	return &Collection[T]{
		kind:    kind,
		seq:     seq,
		exec:    exec,
		latency: latency,
		items:   make(map[string]T),
	}
}

// Kind is the entity name used in not-found errors.
func (c *Collection[T]) Kind() string { return c.kind }

// Get resolves with the record stored under id or rejects with domain.ErrNotFound.
func (c *Collection[T]) Get(ctx context.Context, id string) *async.Future[T] {
	return async.SupplyAsync(ctx, c.exec, func(ctx context.Context) (T, error) {
		var zero T
		if err := c.wait(ctx); err != nil {
			return zero, err
		}
		c.mu.RLock()
		defer c.mu.RUnlock()
		v, ok := c.items[id]
		if !ok {
			return zero, domain.NotFound(c.kind, id)
		}
		return v, nil
	})
}

// List resolves with a snapshot of every record, ordered by id.
func (c *Collection[T]) List(ctx context.Context) *async.Future[[]T] {
	return async.SupplyAsync(ctx, c.exec, func(ctx context.Context) ([]T, error) {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		c.mu.RLock()
		out := make([]T, 0, len(c.items))
		for _, v := range c.items {
			out = append(out, v)
		}
		c.mu.RUnlock()

		slices.SortFunc(out, func(a, b T) int { return compareIDs(a.GetID(), b.GetID()) })
		return out, nil
	})
}

// Save stores v, assigning the next sequence id when v has none, and
// resolves with the stored record. Saving an existing id replaces it.
func (c *Collection[T]) Save(ctx context.Context, v T) *async.Future[T] {
	return async.SupplyAsync(ctx, c.exec, func(ctx context.Context) (T, error) {
		if err := c.wait(ctx); err != nil {
			var zero T
			return zero, err
		}
		return c.put(v), nil
	})
}

// Delete removes the record stored under id or rejects with domain.ErrNotFound.
func (c *Collection[T]) Delete(ctx context.Context, id string) *async.Future[struct{}] {
	return async.SupplyAsync(ctx, c.exec, func(ctx context.Context) (struct{}, error) {
		if err := c.wait(ctx); err != nil {
			return struct{}{}, err
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, ok := c.items[id]; !ok {
			return struct{}{}, domain.NotFound(c.kind, id)
		}
		delete(c.items, id)
		return struct{}{}, nil
	})
}

// Len returns the number of stored records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Collection[T]) put(v T) T {
	if v.GetID() == "" {
		v = v.WithID(c.seq.Next())
	} else {
		c.seq.Observe(v.GetID())
	}
	c.mu.Lock()
	c.items[v.GetID()] = v
	c.mu.Unlock()
	return v
}

func (c *Collection[T]) wait(ctx context.Context) error {
	if c.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(c.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// compareIDs orders numeric ids by value and puts them before other ids.
func compareIDs(a, b string) int {
	na, errA := strconv.ParseUint(a, 10, 64)
	nb, errB := strconv.ParseUint(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return cmp.Compare(a, b)
}

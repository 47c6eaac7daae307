package store_test

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storefront/internal/domain"
	"github.com/dmitrymomot/storefront/internal/store"
	"github.com/dmitrymomot/storefront/pkg/async"
)

func newStore(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()
	pool := async.NewPool(async.WithWorkers(4))
	t.Cleanup(func() { _ = pool.Close() })
	return store.New(pool, opts...)
}

func TestCollection_GetSaveDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	saved, err := s.Users.Save(ctx, domain.User{FirstName: "Donny"}).Await()
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, err := s.Users.Get(ctx, saved.ID).Await()
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	saved.LastName = "Kerabatsos"
	updated, err := s.Users.Save(ctx, saved).Await()
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID, "saving an existing record keeps its id")
	assert.Equal(t, 1, s.Users.Len())

	_, err = s.Users.Delete(ctx, saved.ID).Await()
	require.NoError(t, err)

	_, err = s.Users.Get(ctx, saved.ID).Await()
	assert.True(t, domain.IsNotFound(err))

	_, err = s.Users.Delete(ctx, saved.ID).Await()
	assert.True(t, domain.IsNotFound(err))
}

func TestCollection_NotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Products.Get(ctx, "999").Await()
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.False(t, domain.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "product")
}

func TestCollection_ConcurrentSaveAssignsUniqueIDs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t, store.WithFirstID(1000))

	const n = 200
	futures := make([]*async.Future[domain.Product], n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			futures[i] = s.Products.Save(ctx, domain.Product{Name: "p" + strconv.Itoa(i)})
		}()
	}
	wg.Wait()

	saved, err := async.All(futures...).AwaitWithTimeout(5 * time.Second)
	require.NoError(t, err)

	seen := make(map[string]bool, n)
	for _, p := range saved {
		id, err := strconv.Atoi(p.ID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, id, 1000)
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
	assert.Equal(t, n, s.Products.Len())
}

func TestCollection_SharedSequence(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	u, err := s.Users.Save(ctx, domain.User{}).Await()
	require.NoError(t, err)
	p, err := s.Products.Save(ctx, domain.Product{}).Await()
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)
	assert.Equal(t, "2", p.ID)

	_, err = s.Orders.Save(ctx, domain.Order{ID: "41"}).Await()
	require.NoError(t, err)
	o, err := s.Orders.Save(ctx, domain.Order{}).Await()
	require.NoError(t, err)
	assert.Equal(t, "42", o.ID, "explicit ids move the sequence forward")
}

func TestCollection_ListOrderedByID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	for _, id := range []string{"10", "9", "100", "abc", "2"} {
		_, err := s.Users.Save(ctx, domain.User{ID: id}).Await()
		require.NoError(t, err)
	}

	users, err := s.Users.List(ctx).Await()
	require.NoError(t, err)
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	assert.Equal(t, []string{"2", "9", "10", "100", "abc"}, ids)
}

func TestCollection_LatencyRespectsContext(t *testing.T) {
	t.Parallel()
	s := newStore(t, store.WithLatency(time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := s.Users.Get(ctx, "1").Await()
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestSequence(t *testing.T) {
	t.Parallel()
	seq := store.NewSequence(5)
	assert.Equal(t, "5", seq.Next())
	seq.Observe("3")
	assert.Equal(t, "6", seq.Next())
	seq.Observe("not-a-number")
	seq.Observe("20")
	assert.Equal(t, "21", seq.Next())
}

func TestSeedDefaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	s := newStore(t, store.WithClock(func() time.Time { return now }))

	seeded, err := s.SeedDefaults(ctx).AwaitWithTimeout(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, store.Seeded{Users: 3, Products: 6, Orders: 2}, seeded)

	jeff, err := s.Users.Get(ctx, "100").Await()
	require.NoError(t, err)
	assert.Equal(t, "Lebowski", jeff.LastName)
	assert.Equal(t, "46256", jeff.PostalCode)

	russian, err := s.Products.Get(ctx, "502").Await()
	require.NoError(t, err)
	assert.Equal(t, int64(749), russian.Price)
	assert.Equal(t, "Food", russian.Category)

	laundry, err := s.Products.Get(ctx, "503").Await()
	require.NoError(t, err)
	assert.Equal(t, "Laundry, The Whites", laundry.Name)

	order, err := s.Orders.Get(ctx, "801").Await()
	require.NoError(t, err)
	assert.Equal(t, "100", order.User.ID)
	assert.Equal(t, "501", order.Product.ID)
	assert.Equal(t, domain.StatusPlaced, order.Status)
	assert.Equal(t, int64(909), order.SalesTax)
	assert.Equal(t, now, order.CreatedAt)
	assert.Nil(t, order.DeliveredAt)

	next, err := s.Orders.Save(ctx, domain.Order{}).Await()
	require.NoError(t, err)
	assert.Equal(t, "802", next.ID)
}

func TestLoadFixtures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("explicit timestamps and statuses", func(t *testing.T) {
		t.Parallel()
		s := newStore(t)
		doc := `
users:
  - {id: "7", first_name: Maude}
products:
  - {id: "8", name: Rug, category: Stuff, price: 1000}
orders:
  - {id: "9", user: "7", product: "8", status: delivered, created_at: 2026-01-01T10:00:00Z}
`
		seeded, err := s.LoadFixtures(ctx, strings.NewReader(doc)).Await()
		require.NoError(t, err)
		assert.Equal(t, 1, seeded.Orders)

		o, err := s.Orders.Get(ctx, "9").Await()
		require.NoError(t, err)
		assert.Equal(t, domain.StatusDelivered, o.Status)
		require.NotNil(t, o.DeliveredAt)
		assert.Equal(t, int64(70), o.SalesTax)
	})

	t.Run("unknown reference", func(t *testing.T) {
		t.Parallel()
		s := newStore(t)
		doc := `
orders:
  - {id: "1", user: "nobody", product: "nothing"}
`
		_, err := s.LoadFixtures(ctx, strings.NewReader(doc)).Await()
		assert.True(t, domain.IsInvalidArgument(err))
		assert.Zero(t, s.Orders.Len())
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()
		s := newStore(t)
		_, err := s.LoadFixtures(ctx, strings.NewReader("customers: []\n")).Await()
		assert.True(t, domain.IsInvalidArgument(err))
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()
		s := newStore(t)
		seeded, err := s.LoadFixtures(ctx, strings.NewReader("")).Await()
		require.NoError(t, err)
		assert.Equal(t, store.Seeded{}, seeded)
	})
}

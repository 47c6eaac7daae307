package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storefront/internal/domain"
	"github.com/dmitrymomot/storefront/internal/service"
	"github.com/dmitrymomot/storefront/internal/store"
	"github.com/dmitrymomot/storefront/pkg/async"
	"github.com/dmitrymomot/storefront/pkg/statemachine"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type recorder struct {
	mu      sync.Mutex
	placed  []string
	changes []string
}

func (r *recorder) OrderPlaced(o domain.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.placed = append(r.placed, o.ID)
}

func (r *recorder) StatusChanged(o domain.Order, from domain.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, o.ID+":"+from.String()+"->"+o.Status.String())
}

type fixture struct {
	store    *store.Store
	users    *service.UserService
	products *service.ProductService
	orders   *service.OrderService
	checkout *service.Checkout
	recorder *recorder
	clock    *clock
}

func setup(t *testing.T, opts ...service.OrderOption) *fixture {
	t.Helper()
	pool := async.NewPool(async.WithWorkers(4))
	t.Cleanup(func() { _ = pool.Close() })

	clk := &clock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	rec := &recorder{}

	s := store.New(pool, store.WithClock(clk.Now))
	_, err := s.SeedDefaults(context.Background()).AwaitWithTimeout(5 * time.Second)
	require.NoError(t, err)

	users := service.NewUserService(s)
	products := service.NewProductService(s, pool, nil)
	orders := service.NewOrderService(s, pool, append([]service.OrderOption{
		service.WithClock(clk.Now),
		service.WithRecorder(rec),
	}, opts...)...)

	return &fixture{
		store:    s,
		users:    users,
		products: products,
		orders:   orders,
		checkout: service.NewCheckout(users, products, orders),
		recorder: rec,
		clock:    clk,
	}
}

func await[T any](t *testing.T, f *async.Future[T]) (T, error) {
	t.Helper()
	return f.AwaitWithTimeout(5 * time.Second)
}

func TestPlaceOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fx := setup(t)

	order, err := await(t, fx.checkout.PlaceOrder(ctx, "101", "502"))
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "101", order.User.ID)
	assert.Equal(t, "502", order.Product.ID)
	assert.Equal(t, int64(52), order.SalesTax)
	assert.Equal(t, domain.StatusPlaced, order.Status)
	assert.False(t, order.CreatedAt.IsZero())
	assert.Nil(t, order.DeliveredAt)

	stored, err := await(t, fx.orders.Order(ctx, order.ID))
	require.NoError(t, err)
	assert.Equal(t, order, stored)

	assert.Equal(t, []string{order.ID}, fx.recorder.placed)
}

func TestPlaceOrder_LookupFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fx := setup(t)
	before := fx.store.Orders.Len()

	_, err := await(t, fx.checkout.PlaceOrder(ctx, "999", "502"))
	assert.True(t, domain.IsNotFound(err))

	_, err = await(t, fx.checkout.PlaceOrder(ctx, "101", "999"))
	assert.True(t, domain.IsNotFound(err))

	_, err = await(t, fx.checkout.PlaceOrder(ctx, "", "502"))
	assert.True(t, domain.IsInvalidArgument(err))

	assert.Equal(t, before, fx.store.Orders.Len(), "failed lookups never place an order")
	assert.Empty(t, fx.recorder.placed)
}

func TestPlaceOrder_UnsavedReferences(t *testing.T) {
	t.Parallel()
	fx := setup(t)
	_, err := await(t, fx.orders.PlaceOrder(context.Background(), domain.User{}, domain.Product{ID: "500"}))
	assert.True(t, domain.IsInvalidArgument(err))
}

func TestUpdateOrderStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fx := setup(t)

	picked, err := await(t, fx.orders.UpdateOrderStatus(ctx, "800", domain.StatusPicked))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPicked, picked.Status)
	assert.Nil(t, picked.DeliveredAt)

	delivered, err := await(t, fx.orders.UpdateOrderStatus(ctx, "800", domain.StatusDelivered))
	require.NoError(t, err)
	require.NotNil(t, delivered.DeliveredAt)
	stamp := *delivered.DeliveredAt

	// transitions are total: moving back is allowed and keeps the stamp
	back, err := await(t, fx.orders.UpdateOrderStatus(ctx, "800", domain.StatusPlaced))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPlaced, back.Status)
	require.NotNil(t, back.DeliveredAt)
	assert.Equal(t, stamp, *back.DeliveredAt)

	stored, err := await(t, fx.orders.Order(ctx, "800"))
	require.NoError(t, err)
	assert.Equal(t, back, stored)

	assert.Equal(t, []string{
		"800:PLACED->PICKED",
		"800:PICKED->DELIVERED",
		"800:DELIVERED->PLACED",
	}, fx.recorder.changes)
}

func TestUpdateOrderStatus_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fx := setup(t)

	_, err := await(t, fx.orders.UpdateOrderStatus(ctx, "999", domain.StatusPicked))
	assert.True(t, domain.IsNotFound(err))

	f := fx.orders.UpdateOrderStatus(ctx, "800", domain.Status("LOST"))
	assert.True(t, f.IsComplete(), "invalid status rejects before dispatch")
	_, err = f.Await()
	assert.True(t, domain.IsInvalidArgument(err))
	assert.False(t, domain.IsNotFound(err))

	f = fx.orders.UpdateOrderStatusString(ctx, "999", "nope")
	assert.True(t, f.IsComplete())
	_, err = f.Await()
	assert.True(t, domain.IsInvalidArgument(err), "status is checked before the order lookup")

	shipped, err := await(t, fx.orders.UpdateOrderStatusString(ctx, "801", " shipped "))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, shipped.Status)
}

func TestUpdateOrderStatus_Strict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fx := setup(t, service.WithStrictTransitions(true))

	_, err := await(t, fx.orders.UpdateOrderStatus(ctx, "800", domain.StatusPacked))
	require.NoError(t, err)

	_, err = await(t, fx.orders.UpdateOrderStatus(ctx, "800", domain.StatusPicked))
	assert.True(t, domain.IsInvalidArgument(err))
	assert.True(t, statemachine.IsNoTransitionAvailableError(domain.RootCause(err)), "root cause is the refused transition")

	_, err = await(t, fx.orders.UpdateOrderStatus(ctx, "800", domain.StatusPacked))
	assert.True(t, domain.IsInvalidArgument(err), "self transitions are refused")

	stored, err := await(t, fx.orders.Order(ctx, "800"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPacked, stored.Status)

	assert.Equal(t, []domain.Status{domain.StatusShipped, domain.StatusDelivered}, fx.orders.Transitions(domain.StatusPacked))
}

func TestOrderHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fx := setup(t)

	// insert out of creation order with explicit timestamps
	jackie, err := await(t, fx.users.User(ctx, "102"))
	require.NoError(t, err)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	late := domain.NewOrder(jackie, domain.Product{ID: "500"}, base.Add(time.Hour))
	early := domain.NewOrder(jackie, domain.Product{ID: "501"}, base)
	lateSaved, err := await(t, fx.store.Orders.Save(ctx, late))
	require.NoError(t, err)
	earlySaved, err := await(t, fx.store.Orders.Save(ctx, early))
	require.NoError(t, err)

	history, err := await(t, fx.checkout.History(ctx, "102"))
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, earlySaved.ID, history[0].ID)
	assert.Equal(t, lateSaved.ID, history[1].ID)

	jeffs, err := await(t, fx.checkout.History(ctx, "100"))
	require.NoError(t, err)
	require.Len(t, jeffs, 2)
	assert.Equal(t, "800", jeffs[0].ID)
	assert.Equal(t, "801", jeffs[1].ID)

	walters, err := await(t, fx.checkout.History(ctx, "101"))
	require.NoError(t, err)
	assert.Empty(t, walters)

	_, err = await(t, fx.checkout.History(ctx, "999"))
	assert.True(t, domain.IsNotFound(err))
}

func TestProducts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fx := setup(t)

	food, err := await(t, fx.products.ProductsByCategory(ctx, "fOOd"))
	require.NoError(t, err)
	ids := make([]string, len(food))
	for i, p := range food {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"500", "502", "504"}, ids)

	none, err := await(t, fx.products.ProductsByCategory(ctx, "Music"))
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = await(t, fx.products.ProductsByCategory(ctx, "  "))
	assert.True(t, domain.IsInvalidArgument(err))

	several, err := await(t, fx.products.Products(ctx, "505", "500"))
	require.NoError(t, err)
	require.Len(t, several, 2)
	assert.Equal(t, "505", several[0].ID)
	assert.Equal(t, "500", several[1].ID)

	_, err = await(t, fx.products.Products(ctx, "500", "999"))
	assert.True(t, domain.IsNotFound(err))
}

func TestCreateAndDeleteProduct(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fx := setup(t)

	created, err := await(t, fx.products.CreateProduct(ctx, domain.Product{
		ID:       "1",
		Name:     " Rug ",
		Category: "Stuff",
		Price:    2500,
	}))
	require.NoError(t, err)
	assert.Equal(t, "802", created.ID, "caller ids are ignored")
	assert.Equal(t, "Rug", created.Name)

	got, err := await(t, fx.products.Product(ctx, created.ID))
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = await(t, fx.products.CreateProduct(ctx, domain.Product{Name: "Rug", Category: "Stuff", Price: -1}))
	assert.True(t, domain.IsInvalidArgument(err))

	_, err = await(t, fx.products.DeleteProduct(ctx, created.ID))
	require.NoError(t, err)
	_, err = await(t, fx.products.Product(ctx, created.ID))
	assert.True(t, domain.IsNotFound(err))
	_, err = await(t, fx.products.DeleteProduct(ctx, created.ID))
	assert.True(t, domain.IsNotFound(err))
}

func TestConcurrentCheckout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fx := setup(t)

	const n = 50
	futures := make([]*async.Future[domain.Order], n)
	for i := range n {
		futures[i] = fx.checkout.PlaceOrder(ctx, "100", "504")
	}

	orders, err := async.All(futures...).AwaitWithTimeout(5 * time.Second)
	require.NoError(t, err)

	seen := make(map[string]bool, n)
	for _, o := range orders {
		assert.Equal(t, int64(60), o.SalesTax)
		assert.False(t, seen[o.ID])
		seen[o.ID] = true
	}

	history, err := await(t, fx.checkout.History(ctx, "100"))
	require.NoError(t, err)
	assert.Len(t, history, n+2)
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].CreatedAt.Before(history[i-1].CreatedAt))
	}
}

package service

import (
	"context"

	"github.com/dmitrymomot/storefront/internal/domain"
	"github.com/dmitrymomot/storefront/pkg/async"
)

// Checkout composes the services behind the customer-facing flows.
type Checkout struct {
	users    *UserService
	products *ProductService
	orders   *OrderService
}

func NewCheckout(users *UserService, products *ProductService, orders *OrderService) *Checkout {
	return &Checkout{users: users, products: products, orders: orders}
}

// PlaceOrder looks up the user and the product concurrently and places the
// order once both are found. Either lookup failing skips placement.
func (c *Checkout) PlaceOrder(ctx context.Context, userID, productID string) *async.Future[domain.Order] {
	buyer := async.Zip(c.users.User(ctx, userID), c.products.Product(ctx, productID))
	return async.FlatMap(buyer, func(p async.Pair[domain.User, domain.Product]) *async.Future[domain.Order] {
		return c.orders.PlaceOrder(ctx, p.First, p.Second)
	})
}

// History resolves with the order history of the user stored under userID.
func (c *Checkout) History(ctx context.Context, userID string) *async.Future[[]domain.Order] {
	return async.FlatMap(c.users.User(ctx, userID), func(u domain.User) *async.Future[[]domain.Order] {
		return c.orders.OrderHistory(ctx, u)
	})
}

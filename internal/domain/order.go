package domain

import "time"

// SalesTaxPercent is applied to the product price when an order is placed.
const SalesTaxPercent = 7

// Order links a user to a product.
type Order struct {
	ID          string     `json:"id"`
	User        User       `json:"user"`
	Product     Product    `json:"product"`
	SalesTax    int64      `json:"salesTax"`
	CreatedAt   time.Time  `json:"createdAt"`
	DeliveredAt *time.Time `json:"deliveredAt"`
	Status      Status     `json:"status"`
}

func (o Order) GetID() string { return o.ID }

func (o Order) WithID(id string) Order {
	o.ID = id
	return o
}

// NewOrder returns an unsaved PLACED order created at now.
func NewOrder(user User, product Product, now time.Time) Order {
	return Order{
		User:      user,
		Product:   product,
		CreatedAt: now,
		Status:    StatusPlaced,
	}
}

// CalculateSalesTax returns price*SalesTaxPercent/100 truncated toward zero.
func CalculateSalesTax(price int64) int64 {
	return price * SalesTaxPercent / 100
}

// WithSalesTax returns a copy with SalesTax computed from the product price.
func (o Order) WithSalesTax() Order {
	o.SalesTax = CalculateSalesTax(o.Product.Price)
	return o
}

// WithStatus returns a copy moved to status. The first move to DELIVERED
// stamps DeliveredAt with now; an existing stamp is never replaced or cleared.
func (o Order) WithStatus(status Status, now time.Time) Order {
	o.Status = status
	if status == StatusDelivered && o.DeliveredAt == nil {
		t := now
		o.DeliveredAt = &t
	}
	return o
}

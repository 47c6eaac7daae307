package domain

import "strings"

// Product is a catalog item. Price is in minor currency units.
type Product struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
	Price    int64  `json:"price" yaml:"price"`
}

func (p Product) GetID() string { return p.ID }

func (p Product) WithID(id string) Product {
	p.ID = id
	return p
}

// Validate checks fields a caller may supply when creating a product.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return InvalidArgument("product name is required")
	}
	if strings.TrimSpace(p.Category) == "" {
		return InvalidArgument("product category is required")
	}
	if p.Price < 0 {
		return InvalidArgument("product price must not be negative, got %d", p.Price)
	}
	return nil
}

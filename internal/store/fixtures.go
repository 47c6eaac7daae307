package store

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/storefront/internal/domain"
	"github.com/dmitrymomot/storefront/pkg/async"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Fixtures is the YAML seed document. Orders refer to users and products
// of the same document by id.
type Fixtures struct {
	Users    []domain.User    `yaml:"users"`
	Products []domain.Product `yaml:"products"`
	Orders   []OrderFixture   `yaml:"orders"`
}

type OrderFixture struct {
	ID        string        `yaml:"id"`
	User      string        `yaml:"user"`
	Product   string        `yaml:"product"`
	Status    domain.Status `yaml:"status"`
	CreatedAt *time.Time    `yaml:"created_at"`
}

// Seeded counts the records written by LoadFixtures.
type Seeded struct {
	Users    int
	Products int
	Orders   int
}

// ParseFixtures decodes a fixture document. Unknown keys are rejected.
func ParseFixtures(r io.Reader) (Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return Fixtures{}, domain.InvalidArgument("decode fixtures: %v", err)
	}
	return fx, nil
}

// SeedDefaults loads the embedded demo data set.
func (s *Store) SeedDefaults(ctx context.Context) *async.Future[Seeded] {
	return s.LoadFixtures(ctx, bytes.NewReader(defaultFixtures))
}

// LoadFixtures saves users and products concurrently, then the orders that
// reference them. Order sales tax is derived from the product price.
func (s *Store) LoadFixtures(ctx context.Context, r io.Reader) *async.Future[Seeded] {
	type plan struct {
		fx     Fixtures
		orders []domain.Order
	}

	planned := async.Supply(func() (plan, error) {
		fx, err := ParseFixtures(r)
		if err != nil {
			return plan{}, err
		}
		orders, err := s.resolveOrders(fx)
		if err != nil {
			return plan{}, err
		}
		return plan{fx: fx, orders: orders}, nil
	})

	return async.FlatMap(planned, func(p plan) *async.Future[Seeded] {
		catalog := async.Zip(
			saveAll(ctx, s.Users, p.fx.Users),
			saveAll(ctx, s.Products, p.fx.Products),
		)
		return async.FlatMap(catalog, func(c async.Pair[[]domain.User, []domain.Product]) *async.Future[Seeded] {
			return async.Map(saveAll(ctx, s.Orders, p.orders), func(o []domain.Order) (Seeded, error) {
				return Seeded{Users: len(c.First), Products: len(c.Second), Orders: len(o)}, nil
			})
		})
	})
}

func (s *Store) resolveOrders(fx Fixtures) ([]domain.Order, error) {
	users := make(map[string]domain.User, len(fx.Users))
	for _, u := range fx.Users {
		users[u.ID] = u
	}
	products := make(map[string]domain.Product, len(fx.Products))
	for _, p := range fx.Products {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("fixture product %q: %w", p.ID, err)
		}
		products[p.ID] = p
	}

	out := make([]domain.Order, 0, len(fx.Orders))
	for _, of := range fx.Orders {
		u, ok := users[of.User]
		if !ok {
			return nil, domain.InvalidArgument("fixture order %q references unknown user %q", of.ID, of.User)
		}
		p, ok := products[of.Product]
		if !ok {
			return nil, domain.InvalidArgument("fixture order %q references unknown product %q", of.ID, of.Product)
		}

		created := s.now()
		if of.CreatedAt != nil {
			created = *of.CreatedAt
		}
		o := domain.NewOrder(u, p, created).WithSalesTax().WithID(of.ID)
		if of.Status != "" {
			st, err := domain.ParseStatus(string(of.Status))
			if err != nil {
				return nil, fmt.Errorf("fixture order %q: %w", of.ID, err)
			}
			o = o.WithStatus(st, created)
		}
		out = append(out, o)
	}
	return out, nil
}

func saveAll[T domain.Entity[T]](ctx context.Context, c *Collection[T], items []T) *async.Future[[]T] {
	futures := make([]*async.Future[T], len(items))
	for i, item := range items {
		futures[i] = c.Save(ctx, item)
	}
	return async.All(futures...)
}

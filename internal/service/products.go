package service

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"

	"github.com/dmitrymomot/storefront/internal/domain"
	"github.com/dmitrymomot/storefront/internal/store"
	"github.com/dmitrymomot/storefront/pkg/async"
	"github.com/dmitrymomot/storefront/pkg/logger"
)

// ProductService manages the catalog.
type ProductService struct {
	products *store.Collection[domain.Product]
	exec     async.Executor
	log      *slog.Logger
}

// NewProductService runs in-memory filtering on exec. A nil log discards.
func NewProductService(s *store.Store, exec async.Executor, log *slog.Logger) *ProductService {
	if log == nil {
		log = logger.Discard()
	}
	return &ProductService{
		products: s.Products,
		exec:     exec,
		log:      log.With(logger.Component("products")),
	}
}

// Product resolves with the product stored under id.
func (s *ProductService) Product(ctx context.Context, id string) *async.Future[domain.Product] {
	if strings.TrimSpace(id) == "" {
		return async.Error[domain.Product](domain.InvalidArgument("product id is required"))
	}
	return s.products.Get(ctx, id)
}

// Products fetches several products concurrently and resolves with them in
// the order of ids. Any missing id rejects the whole lookup.
func (s *ProductService) Products(ctx context.Context, ids ...string) *async.Future[[]domain.Product] {
	futures := make([]*async.Future[domain.Product], len(ids))
	for i, id := range ids {
		futures[i] = s.Product(ctx, id)
	}
	return async.All(futures...)
}

// ProductsByCategory resolves with the products whose category matches
// category under Unicode case folding, ordered by id.
func (s *ProductService) ProductsByCategory(ctx context.Context, category string) *async.Future[[]domain.Product] {
	category = strings.TrimSpace(category)
	if category == "" {
		return async.Error[[]domain.Product](domain.InvalidArgument("category is required"))
	}
	return async.MapAsync(s.products.List(ctx), s.exec, func(all []domain.Product) ([]domain.Product, error) {
		fold := cases.Fold()
		want := fold.String(category)
		out := make([]domain.Product, 0, len(all))
		for _, p := range all {
			if fold.String(p.Category) == want {
				out = append(out, p)
			}
		}
		return out, nil
	})
}

// CreateProduct validates p and stores it under a new id. Any id set by the
// caller is ignored.
func (s *ProductService) CreateProduct(ctx context.Context, p domain.Product) *async.Future[domain.Product] {
	p.ID = ""
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	if err := p.Validate(); err != nil {
		return async.Error[domain.Product](err)
	}
	return async.Map(s.products.Save(ctx, p), func(saved domain.Product) (domain.Product, error) {
		s.log.InfoContext(ctx, "product created",
			logger.ProductID(saved.ID),
			slog.String("category", saved.Category),
		)
		return saved, nil
	})
}

// DeleteProduct removes the product stored under id. Orders keep their copy.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) *async.Future[struct{}] {
	if strings.TrimSpace(id) == "" {
		return async.Error[struct{}](domain.InvalidArgument("product id is required"))
	}
	return s.products.Delete(ctx, id)
}

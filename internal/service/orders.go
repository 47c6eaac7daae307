package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dmitrymomot/storefront/internal/domain"
	"github.com/dmitrymomot/storefront/internal/store"
	"github.com/dmitrymomot/storefront/pkg/async"
	"github.com/dmitrymomot/storefront/pkg/logger"
	"github.com/dmitrymomot/storefront/pkg/statemachine"
)

type statusMachine = statemachine.Machine[domain.Status, domain.Order]

// OrderService places orders and moves them through fulfilment.
type OrderService struct {
	orders   *store.Collection[domain.Order]
	exec     async.Executor
	machine  *statusMachine
	strict   bool
	now      func() time.Time
	recorder Recorder
	log      *slog.Logger
}

// OrderOption configures an OrderService.
type OrderOption func(*OrderService)

// WithStrictTransitions only allows moves to a later status.
func WithStrictTransitions(strict bool) OrderOption {
	return func(s *OrderService) { s.strict = strict }
}

func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderService) {
		if now != nil {
			s.now = now
		}
	}
}

func WithRecorder(r Recorder) OrderOption {
	return func(s *OrderService) {
		if r != nil {
			s.recorder = r
		}
	}
}

func WithLogger(l *slog.Logger) OrderOption {
	return func(s *OrderService) {
		if l != nil {
			s.log = l
		}
	}
}

// NewOrderService runs transitions and history filtering on exec.
func NewOrderService(s *store.Store, exec async.Executor, opts ...OrderOption) *OrderService {
	svc := &OrderService{
		orders:   s.Orders,
		exec:     exec,
		now:      time.Now,
		recorder: nopRecorder{},
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	svc.log = svc.log.With(logger.Component("orders"))
	svc.machine = newStatusMachine(svc.strict, svc.now)
	return svc
}

func newStatusMachine(strict bool, now func() time.Time) *statusMachine {
	apply := statemachine.WithAction(func(_ context.Context, _, to domain.Status, o domain.Order) (domain.Order, error) {
		return o.WithStatus(to, now()), nil
	})
	transitions := statemachine.WithAnyTransition(apply)
	if strict {
		transitions = statemachine.WithForwardTransitions(apply)
	}
	return statemachine.MustNew(
		statemachine.WithStates[domain.Status, domain.Order](domain.Statuses()...),
		transitions,
	)
}

// Order resolves with the order stored under id.
func (s *OrderService) Order(ctx context.Context, id string) *async.Future[domain.Order] {
	if strings.TrimSpace(id) == "" {
		return async.Error[domain.Order](domain.InvalidArgument("order id is required"))
	}
	return s.orders.Get(ctx, id)
}

// PlaceOrder drafts a PLACED order for user and product, applies sales tax
// and saves it.
func (s *OrderService) PlaceOrder(ctx context.Context, user domain.User, product domain.Product) *async.Future[domain.Order] {
	draft := async.Supply(func() (domain.Order, error) {
		if user.ID == "" || product.ID == "" {
			return domain.Order{}, domain.InvalidArgument("order needs a stored user and product")
		}
		return domain.NewOrder(user, product, s.now()), nil
	})
	taxed := async.Map(draft, func(o domain.Order) (domain.Order, error) {
		return o.WithSalesTax(), nil
	})
	saved := async.FlatMap(taxed, func(o domain.Order) *async.Future[domain.Order] {
		return s.orders.Save(ctx, o)
	})
	return async.Map(saved, func(o domain.Order) (domain.Order, error) {
		s.recorder.OrderPlaced(o)
		s.log.InfoContext(ctx, "order placed",
			logger.OrderID(o.ID),
			logger.UserID(o.User.ID),
			logger.ProductID(o.Product.ID),
			slog.Int64("sales_tax", o.SalesTax),
		)
		return o, nil
	})
}

// UpdateOrderStatus moves the order stored under id to status and saves it.
// An unknown status rejects before any lookup. Concurrent updates of the
// same order are last-write-wins.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status domain.Status) *async.Future[domain.Order] {
	if !status.Valid() {
		return async.Error[domain.Order](domain.InvalidArgument("unknown order status %q", status))
	}

	type moved struct {
		order domain.Order
		from  domain.Status
	}

	next := async.MapAsync(s.Order(ctx, id), s.exec, func(o domain.Order) (moved, error) {
		updated, err := s.machine.Fire(ctx, o.Status, status, o)
		if err != nil {
			if statemachine.IsNoTransitionAvailableError(err) || statemachine.IsTransitionRejectedError(err) {
				return moved{}, fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
			}
			return moved{}, err
		}
		return moved{order: updated, from: o.Status}, nil
	})

	return async.FlatMap(next, func(m moved) *async.Future[domain.Order] {
		return async.Map(s.orders.Save(ctx, m.order), func(o domain.Order) (domain.Order, error) {
			s.recorder.StatusChanged(o, m.from)
			s.log.InfoContext(ctx, "order status changed",
				logger.OrderID(o.ID),
				slog.String("from", m.from.String()),
				logger.Status(o.Status.String()),
			)
			return o, nil
		})
	})
}

// UpdateOrderStatusString parses raw and delegates to UpdateOrderStatus.
// A status that does not parse rejects without touching the store.
func (s *OrderService) UpdateOrderStatusString(ctx context.Context, id, raw string) *async.Future[domain.Order] {
	status, err := domain.ParseStatus(raw)
	if err != nil {
		return async.Error[domain.Order](err)
	}
	return s.UpdateOrderStatus(ctx, id, status)
}

// OrderHistory resolves with the user's orders, oldest first. Orders created
// at the same instant keep id order.
func (s *OrderService) OrderHistory(ctx context.Context, user domain.User) *async.Future[[]domain.Order] {
	return async.MapAsync(s.orders.List(ctx), s.exec, func(all []domain.Order) ([]domain.Order, error) {
		out := make([]domain.Order, 0, len(all))
		for _, o := range all {
			if domain.SameUser(o.User, user) {
				out = append(out, o)
			}
		}
		slices.SortStableFunc(out, func(a, b domain.Order) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
		return out, nil
	})
}

// Transitions lists the statuses an order in from may move to.
func (s *OrderService) Transitions(from domain.Status) []domain.Status {
	return s.machine.Targets(from)
}

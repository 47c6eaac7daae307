package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/storefront/internal/domain"
	"github.com/dmitrymomot/storefront/internal/service"
	"github.com/dmitrymomot/storefront/pkg/async"
	"github.com/dmitrymomot/storefront/pkg/logger"
	"github.com/dmitrymomot/storefront/pkg/requestid"
)

const maxBodyBytes = 1 << 20

// Handlers adapts the services to HTTP. Each handler blocks on exactly one
// future, bounded by the request context.
type Handlers struct {
	users    *service.UserService
	products *service.ProductService
	orders   *service.OrderService
	checkout *service.Checkout
	log      *slog.Logger
}

type handlerFunc func(r *http.Request) Response

func (h *Handlers) wrap(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(r).Render(w, r); err != nil {
			h.log.ErrorContext(r.Context(), "render response", logger.Error(err))
		}
	}
}

// await blocks on f and turns the outcome into a response.
func await[T any](h *Handlers, r *http.Request, f *async.Future[T], status int) Response {
	v, err := f.AwaitContext(r.Context())
	if err != nil {
		return h.fail(r, err)
	}
	return JSON(status, v)
}

func (h *Handlers) fail(r *http.Request, err error) Response {
	httpErr := classify(err)
	h.log.Log(r.Context(), logLevel(httpErr.Code), "request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", httpErr.Code),
		logger.Error(err),
		logger.Cause(domain.RootCause(err)),
	)
	var meta map[string]any
	if id := requestid.FromContext(r.Context()); id != "" {
		meta = map[string]any{"request_id": id}
	}
	return JSONError(httpErr, meta)
}

func (h *Handlers) user(r *http.Request) Response {
	return await(h, r, h.users.User(r.Context(), chi.URLParam(r, "id")), http.StatusOK)
}

func (h *Handlers) orderHistory(r *http.Request) Response {
	return await(h, r, h.checkout.History(r.Context(), chi.URLParam(r, "id")), http.StatusOK)
}

func (h *Handlers) placeOrder(r *http.Request) Response {
	f := h.checkout.PlaceOrder(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "pid"))
	return await(h, r, f, http.StatusCreated)
}

func (h *Handlers) product(r *http.Request) Response {
	return await(h, r, h.products.Product(r.Context(), chi.URLParam(r, "id")), http.StatusOK)
}

// productsByID serves GET /product?ids=500,502.
func (h *Handlers) productsByID(r *http.Request) Response {
	var ids []string
	for _, raw := range r.URL.Query()["ids"] {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return h.fail(r, domain.InvalidArgument("ids query parameter is required"))
	}
	return await(h, r, h.products.Products(r.Context(), ids...), http.StatusOK)
}

func (h *Handlers) productsByCategory(r *http.Request) Response {
	return await(h, r, h.products.ProductsByCategory(r.Context(), chi.URLParam(r, "category")), http.StatusOK)
}

type createProductRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    int64  `json:"price"`
}

func (h *Handlers) createProduct(r *http.Request) Response {
	var req createProductRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return h.fail(r, domain.InvalidArgument("request body is required"))
		}
		return h.fail(r, domain.InvalidArgument("decode request body: %v", err))
	}
	p := domain.Product{Name: req.Name, Category: req.Category, Price: req.Price}
	return await(h, r, h.products.CreateProduct(r.Context(), p), http.StatusCreated)
}

func (h *Handlers) deleteProduct(r *http.Request) Response {
	if _, err := h.products.DeleteProduct(r.Context(), chi.URLParam(r, "id")).AwaitContext(r.Context()); err != nil {
		return h.fail(r, err)
	}
	return NoContent()
}

func (h *Handlers) order(r *http.Request) Response {
	return await(h, r, h.orders.Order(r.Context(), chi.URLParam(r, "id")), http.StatusOK)
}

func (h *Handlers) updateOrderStatus(r *http.Request) Response {
	f := h.orders.UpdateOrderStatusString(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "status"))
	return await(h, r, f, http.StatusOK)
}

func (h *Handlers) notFound(r *http.Request) Response {
	return h.fail(r, ErrNotFound)
}

func (h *Handlers) methodNotAllowed(r *http.Request) Response {
	return h.fail(r, ErrMethodNotAllowed)
}

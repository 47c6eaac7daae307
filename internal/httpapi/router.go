package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/storefront/internal/service"
	"github.com/dmitrymomot/storefront/pkg/httpserver"
	"github.com/dmitrymomot/storefront/pkg/logger"
	"github.com/dmitrymomot/storefront/pkg/requestid"
)

// Deps are the collaborators the router serves.
type Deps struct {
	Users    *service.UserService
	Products *service.ProductService
	Orders   *service.OrderService
	Checkout *service.Checkout

	Logger         *slog.Logger
	Metrics        http.Handler // served at /metrics when set
	HealthChecks   []httpserver.Check
	RequestTimeout time.Duration
}

// NewRouter builds the storefront HTTP API.
func NewRouter(d Deps) http.Handler {
	log := d.Logger
	if log == nil {
		log = logger.Discard()
	}
	h := &Handlers{
		users:    d.Users,
		products: d.Products,
		orders:   d.Orders,
		checkout: d.Checkout,
		log:      log.With(logger.Component("httpapi")),
	}

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		middleware.RealIP,
		accessLog(h.log),
		middleware.Recoverer,
	)
	r.NotFound(h.wrap(h.notFound))
	r.MethodNotAllowed(h.wrap(h.methodNotAllowed))

	r.Get("/health", httpserver.HealthHandler(h.log, d.HealthChecks...))
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	r.Group(func(r chi.Router) {
		if d.RequestTimeout > 0 {
			r.Use(middleware.Timeout(d.RequestTimeout))
		}

		r.Route("/user/{id}", func(r chi.Router) {
			r.Get("/", h.wrap(h.user))
			r.Get("/order", h.wrap(h.orderHistory))
			r.Post("/order/product/{pid}", h.wrap(h.placeOrder))
		})

		r.Route("/product", func(r chi.Router) {
			r.Get("/", h.wrap(h.productsByID))
			r.Post("/", h.wrap(h.createProduct))
			r.Get("/category/{category}", h.wrap(h.productsByCategory))
			r.Get("/{id}", h.wrap(h.product))
			r.Delete("/{id}", h.wrap(h.deleteProduct))
		})

		r.Route("/order/{id}", func(r chi.Router) {
			r.Get("/", h.wrap(h.order))
			r.Post("/status/{status}", h.wrap(h.updateOrderStatus))
		})
	})

	return r
}

func accessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.InfoContext(r.Context(), "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.String("remote_ip", r.RemoteAddr),
				logger.Duration(time.Since(start)),
			)
		})
	}
}

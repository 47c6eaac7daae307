package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/storefront/internal/domain"
	"github.com/dmitrymomot/storefront/pkg/async"
)

// HTTPError pairs a status code with a stable machine-readable key.
type HTTPError struct {
	Code int    // HTTP status code
	Key  string // error code returned to clients, e.g. "not_found"
}

func (e HTTPError) Error() string {
	return e.Key
}

var (
	ErrBadRequest          = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrNotFound            = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	ErrMethodNotAllowed    = HTTPError{Code: http.StatusMethodNotAllowed, Key: "method_not_allowed"}
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Key: "internal_server_error"}
	ErrServiceUnavailable  = HTTPError{Code: http.StatusServiceUnavailable, Key: "service_unavailable"}
	ErrGatewayTimeout      = HTTPError{Code: http.StatusGatewayTimeout, Key: "gateway_timeout"}
)

// classify maps a core error onto the HTTP error returned to the client.
func classify(err error) HTTPError {
	var httpErr HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case domain.IsNotFound(err):
		return ErrNotFound
	case domain.IsInvalidArgument(err):
		return ErrBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled), errors.Is(err, async.ErrTimeout):
		return ErrGatewayTimeout
	case errors.Is(err, async.ErrPoolClosed):
		return ErrServiceUnavailable
	default:
		return ErrInternalServerError
	}
}

func logLevel(code int) slog.Level {
	if code >= http.StatusInternalServerError {
		return slog.LevelError
	}
	return slog.LevelWarn
}

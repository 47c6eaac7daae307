package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Cause records the innermost cause of an error under the key "cause".
// If err is nil, it returns an empty Attr.
func Cause(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("cause", err.Error())
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// RequestID records the request identifier under the key "request_id".
// If id is empty, it returns an empty Attr.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Duration records a duration in milliseconds under the key "duration_ms".
func Duration(d time.Duration) slog.Attr {
	return slog.Int64("duration_ms", d.Milliseconds())
}

func UserID(id string) slog.Attr {
	return slog.String("user_id", id)
}

func ProductID(id string) slog.Attr {
	return slog.String("product_id", id)
}

func OrderID(id string) slog.Attr {
	return slog.String("order_id", id)
}

// Status records an order status under the key "status".
func Status(s string) slog.Attr {
	return slog.String("status", s)
}

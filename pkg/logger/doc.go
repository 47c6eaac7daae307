// Package logger builds *slog.Logger instances with functional options and
// adds request-scoped attributes from context.Context.
//
// New picks a text or JSON handler, applies static attributes, and wraps the
// result in a ContextHandler that runs the registered ContextExtractor
// callbacks on every record. Helper constructors in attr.go keep attribute
// keys consistent across the service.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "storefront"),
//	    logger.WithContextExtractors(requestid.LogExtractor()),
//	)
//
//	log.InfoContext(ctx, "order placed",
//	    logger.OrderID(order.ID),
//	    logger.Duration(time.Since(start)),
//	)
//
// Error and Cause return an empty attribute for a nil error, so they can be
// passed without a nil check.
package logger

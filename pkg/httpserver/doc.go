// Package httpserver runs an http.Server bound to a context.
//
// Run binds the listener first, so address errors surface immediately, then
// serves until the context is cancelled and shuts down within the configured
// timeout. Signal handling belongs to the caller:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server failed", logger.Error(err))
//	}
//
// HealthHandler provides a liveness/readiness endpoint driven by named checks.
package httpserver

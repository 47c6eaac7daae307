package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/storefront/pkg/async"
)

type runner interface {
	Run(ctx context.Context, handler http.Handler) error
}

// serve runs srv until ctx is done and then stops the pool. The pool is only
// closed after srv.Run returns, so requests drained during graceful shutdown
// can still dispatch work.
func serve(ctx context.Context, srv runner, handler http.Handler, pool *async.Pool, shutdownTimeout time.Duration, log *slog.Logger) error {
	served := make(chan struct{})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(served)
		return srv.Run(ctx, handler)
	})
	g.Go(func() error {
		<-served
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := pool.Shutdown(shutdownCtx); err != nil {
			return errors.Join(errors.New("pool shutdown"), err)
		}
		log.Info("worker pool stopped", slog.Uint64("completed_tasks", pool.Stats().Completed))
		return nil
	})
	return g.Wait()
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/storefront/internal/httpapi"
	"github.com/dmitrymomot/storefront/internal/metrics"
	"github.com/dmitrymomot/storefront/internal/service"
	"github.com/dmitrymomot/storefront/internal/store"
	"github.com/dmitrymomot/storefront/pkg/async"
	"github.com/dmitrymomot/storefront/pkg/config"
	"github.com/dmitrymomot/storefront/pkg/httpserver"
	"github.com/dmitrymomot/storefront/pkg/logger"
	"github.com/dmitrymomot/storefront/pkg/requestid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("storefront exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load[appConfig]()
	if err != nil {
		return err
	}

	logOpts := []logger.Option{
		logger.WithEnvironment(cfg.Env, cfg.Name),
		logger.WithContextExtractors(requestid.LogExtractor()),
	}
	if cfg.LogLevel != "" {
		logOpts = append(logOpts, logger.WithLevelName(cfg.LogLevel))
	}
	log := logger.New(logOpts...)
	slog.SetDefault(log)

	poolOpts := []async.PoolOption{async.WithPoolLogger(log.With(logger.Component("pool")))}
	if cfg.PoolWorkers > 0 {
		poolOpts = append(poolOpts, async.WithWorkers(cfg.PoolWorkers))
	}
	pool := async.NewPool(poolOpts...)

	m := metrics.New()
	m.ObservePool(pool)

	db := store.New(pool,
		store.WithLatency(cfg.StoreLatency),
		store.WithFirstID(cfg.StoreFirstID),
	)
	if cfg.SeedEnabled {
		if err := seed(ctx, db, cfg.SeedFile, log); err != nil {
			_ = pool.Close()
			return err
		}
	}

	users := service.NewUserService(db)
	products := service.NewProductService(db, pool, log)
	orders := service.NewOrderService(db, pool,
		service.WithStrictTransitions(cfg.StrictTransitions),
		service.WithRecorder(m),
		service.WithLogger(log),
	)

	router := httpapi.NewRouter(httpapi.Deps{
		Users:          users,
		Products:       products,
		Orders:         orders,
		Checkout:       service.NewCheckout(users, products, orders),
		Logger:         log,
		Metrics:        m.Handler(),
		RequestTimeout: cfg.RequestTimeout,
		HealthChecks: []httpserver.Check{{
			Name: "pool",
			Fn:   func(context.Context) error { return pool.Execute(func() {}) },
		}},
	})

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log.With(logger.Component("http"))))

	log.Info("storefront started",
		slog.String("env", cfg.Env),
		slog.Int("workers", pool.Stats().Workers),
		slog.Bool("strict_transitions", cfg.StrictTransitions),
	)
	return serve(ctx, srv, router, pool, cfg.PoolShutdownTimeout, log)
}

func seed(ctx context.Context, db *store.Store, file string, log *slog.Logger) error {
	start := time.Now()

	var f *async.Future[store.Seeded]
	if file == "" {
		f = db.SeedDefaults(ctx)
	} else {
		fh, err := os.Open(file)
		if err != nil {
			return err
		}
		defer fh.Close()
		f = db.LoadFixtures(ctx, fh)
	}

	seeded, err := f.AwaitContext(ctx)
	if err != nil {
		return errors.Join(errors.New("seed store"), err)
	}
	log.Info("store seeded",
		slog.Int("users", seeded.Users),
		slog.Int("products", seeded.Products),
		slog.Int("orders", seeded.Orders),
		logger.Duration(time.Since(start)),
	)
	return nil
}

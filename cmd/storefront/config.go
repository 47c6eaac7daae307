package main

import (
	"time"

	"github.com/dmitrymomot/storefront/pkg/httpserver"
)

type appConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Name     string `env:"APP_NAME" envDefault:"storefront"`
	LogLevel string `env:"LOG_LEVEL"`

	PoolWorkers         int           `env:"POOL_WORKERS"`
	PoolShutdownTimeout time.Duration `env:"POOL_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	StoreLatency time.Duration `env:"STORE_LATENCY" envDefault:"0s"`
	StoreFirstID uint64        `env:"STORE_FIRST_ID" envDefault:"1"`
	SeedEnabled  bool          `env:"SEED_ENABLED" envDefault:"true"`
	SeedFile     string        `env:"SEED_FILE"`

	StrictTransitions bool          `env:"ORDER_STRICT_TRANSITIONS" envDefault:"false"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`

	HTTP httpserver.Config
}

// Package config loads typed configuration structs from environment
// variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for tag-driven parsing:
//
//	type Config struct {
//		Addr    string        `env:"HTTP_ADDR" envDefault:":8080"`
//		Timeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`
//	}
//
//	cfg, err := config.Load[Config]()
//
// Parse failures are wrapped with ErrParsingConfig, so callers can test with
// errors.Is. Nested structs are parsed recursively, and envPrefix tags on
// them work as documented by the env library.
package config

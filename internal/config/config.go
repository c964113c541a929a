package config

import (
	"github.com/caarlos0/env/v11"

	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
)

// Config holds all configuration for the application
type Config struct {
	Redis RedisConfig `envPrefix:"REDIS_"`

	// Stacking is "typed" or "flat"
	Stacking string `env:"STACKING" envDefault:"typed"`

	// CatalogDir replaces the embedded catalogs with YAML files from a directory
	CatalogDir string `env:"CATALOG_DIR"`
}

// RedisConfig holds Redis-specific configuration. Redis is used when Addr or URL is set.
type RedisConfig struct {
	URL      string `env:"URL"`
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// Enabled reports whether a Redis server was configured
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Addr != ""
}

// Load loads configuration from RULES_ prefixed environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "RULES_"}); err != nil {
		return nil, rulerr.WrapWithCode(err, rulerr.CodeInvalidArgument, "failed to parse environment")
	}

	switch cfg.Stacking {
	case "typed", "flat":
	default:
		return nil, rulerr.InvalidArgumentf("RULES_STACKING must be typed or flat, got '%s'", cfg.Stacking)
	}
	if cfg.Redis.DB < 0 {
		return nil, rulerr.InvalidArgumentf("RULES_REDIS_DB must not be negative, got %d", cfg.Redis.DB)
	}

	return cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

var ErrInvalidConfig = errors.New("invalid config")

// Store kinds accepted by STORE.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

type Config struct {
	HTTPAddr    string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel    slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	Store       string        `env:"STORE" envDefault:"memory"`
	DBPath      string        `env:"DB_PATH" envDefault:"data/flagquiz.db"`
	RedisURL    string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	SessionTTL  time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	TotalRounds int           `env:"TOTAL_ROUNDS" envDefault:"8"`
	// Seed makes dealt rounds reproducible when non-zero.
	Seed   uint64 `env:"SEED" envDefault:"0"`
	SPADir string `env:"SPA_DIR"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreSQLite, StoreRedis:
	default:
		return fmt.Errorf("STORE %q: %w", c.Store, ErrInvalidConfig)
	}
	if c.TotalRounds < 1 {
		return fmt.Errorf("TOTAL_ROUNDS %d: %w", c.TotalRounds, ErrInvalidConfig)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL %s: %w", c.SessionTTL, ErrInvalidConfig)
	}
	return nil
}

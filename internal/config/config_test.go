package config_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/playperu/flagquiz/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want INFO", cfg.LogLevel)
	}
	if cfg.Store != config.StoreMemory {
		t.Errorf("Store = %q, want %q", cfg.Store, config.StoreMemory)
	}
	if cfg.TotalRounds != 8 {
		t.Errorf("TotalRounds = %d, want 8", cfg.TotalRounds)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %s, want 24h", cfg.SessionTTL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("STORE", "sqlite")
	t.Setenv("DB_PATH", "/tmp/quiz.db")
	t.Setenv("TOTAL_ROUNDS", "3")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("SEED", "42")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.HTTPAddr != ":9090" || cfg.LogLevel != slog.LevelDebug || cfg.Store != config.StoreSQLite {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.DBPath != "/tmp/quiz.db" || cfg.TotalRounds != 3 || cfg.SessionTTL != 30*time.Minute || cfg.Seed != 42 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown store", "STORE", "mongo"},
		{"zero rounds", "TOTAL_ROUNDS", "0"},
		{"zero ttl", "SESSION_TTL", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := config.Load(); !errors.Is(err, config.ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadUnparsable(t *testing.T) {
	t.Setenv("TOTAL_ROUNDS", "many")
	if _, err := config.Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

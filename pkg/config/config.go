package config

import (
	"os"
	"strings"
	"time"

	"go-retail-ws/internal/session"
)

// Backend kinds selectable with BACKEND
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type Config struct {
	Port                 string
	Backend              string
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
}

// FromEnv reads the application settings, falling back to defaults for
// anything missing or malformed.
func FromEnv() Config {
	cfg := Config{
		Port:                 os.Getenv("PORT"),
		Backend:              strings.ToLower(os.Getenv("BACKEND")),
		SessionTTL:           durationEnv("SESSION_TTL", session.DefaultTTL),
		SessionSweepInterval: durationEnv("SESSION_SWEEP_INTERVAL", 10*time.Minute),
	}
	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.Backend != BackendMemory {
		cfg.Backend = BackendPostgres
	}
	return cfg
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

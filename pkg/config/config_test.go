package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go-retail-ws/internal/session"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BACKEND", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("SESSION_SWEEP_INTERVAL", "garbage")

	cfg := FromEnv()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, BackendPostgres, cfg.Backend)
	assert.Equal(t, session.DefaultTTL, cfg.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.SessionSweepInterval)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("BACKEND", "Memory")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SESSION_SWEEP_INTERVAL", "30s")

	cfg := FromEnv()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.SessionSweepInterval)
}

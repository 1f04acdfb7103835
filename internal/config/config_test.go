package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("RATE_LIMIT", "")
	t.Setenv("LOG_RETENTION", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, 60, cfg.RateLimit)
	assert.Equal(t, 30*24*time.Hour, cfg.LogRetention)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("RATE_LIMIT", "120")
	t.Setenv("LOG_RETENTION", "48h")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, 120, cfg.RateLimit)
	assert.Equal(t, 48*time.Hour, cfg.LogRetention)
}

func TestLoadOutOfRangeFallsBack(t *testing.T) {
	t.Setenv("RATE_LIMIT", "-3")
	t.Setenv("LOG_RETENTION", "-1h")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.RateLimit)
	assert.Equal(t, 30*24*time.Hour, cfg.LogRetention)
}

func TestLoadRejectsUnparsableValues(t *testing.T) {
	t.Setenv("LOG_RETENTION", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid LOG_RETENTION")
	assert.ErrorContains(t, err, `"soon"`)

	var pe env.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "LogRetention", pe.Name)
}

func TestLoadNamesEveryBadVariable(t *testing.T) {
	t.Setenv("RATE_LIMIT", "lots")
	t.Setenv("LOG_RETENTION", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "invalid RATE_LIMIT")
	assert.ErrorContains(t, err, "invalid LOG_RETENTION")
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "h", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "1", DBSSLMode: "disable"}
	assert.Equal(t, "host=h user=u password=p dbname=n port=1 sslmode=disable TimeZone=UTC", cfg.DSN())
}

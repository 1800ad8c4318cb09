package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("POSTGRES_PASSWORD", "secreto")
	t.Setenv("IMPORT_STRICT", "true")
	t.Setenv("IMPORT_DEFAULT_YEAR", "2024")
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("METRICS_PORT", "9191")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.True(t, cfg.Import.Strict)
	assert.Equal(t, 2024, cfg.Import.DefaultYear)
	assert.True(t, cfg.Observability.MetricsEnabled)
	assert.Equal(t, 9191, cfg.Observability.MetricsPort)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal port=5433")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("IMPORT_STRICT", "")
	t.Setenv("IMPORT_DEFAULT_YEAR", "")
	t.Setenv("METRICS_ENABLED", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Import.Strict)
	assert.Equal(t, time.Now().Year(), cfg.Import.DefaultYear)
	assert.False(t, cfg.Observability.MetricsEnabled)
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "crm_db", cfg.Database.DBName)
	assert.Equal(t, "postgres", cfg.Database.MaintenanceDB)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.False(t, cfg.NATS.Enabled)
	assert.True(t, cfg.Digest.Enabled)
	assert.Equal(t, "development", cfg.App.Environment)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "crm_test")
	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "crm_test", cfg.Database.DBName)
	assert.True(t, cfg.NATS.Enabled)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}

func TestDSNComposition(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "crm")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "crm_db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t,
		"host=db.internal port=5433 user=crm password=secret dbname=crm_db sslmode=disable",
		cfg.GetDatabaseDSN())
	assert.Equal(t,
		"host=db.internal port=5433 user=crm password=secret dbname=postgres sslmode=disable",
		cfg.GetMaintenanceDSN())
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddress())
}

func TestInvalidEnvValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("NATS_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.NATS.Enabled)
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Points.VerificationCodeLength)
	assert.Equal(t, "0 3 * * *", cfg.Job.ReconcileCron)
	assert.Equal(t, 90, cfg.Job.CleanupRetentionDays)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_RejectsBadCron(t *testing.T) {
	t.Setenv("JOB_CLEANUP_CRON", "every night")

	_, err := Load()
	assert.ErrorContains(t, err, "JOB_CLEANUP_CRON")
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "pw")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_CORSList(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSOrigins)
}

func TestLoad_TrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.App.TrustedProxies)

	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.1")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.1"}, cfg.App.TrustedProxies)

	t.Setenv("TRUSTED_PROXIES", "load-balancer")
	_, err = Load()
	assert.ErrorContains(t, err, "TRUSTED_PROXIES")
}

func TestLoadDatabaseConfig_PoolBounds(t *testing.T) {
	t.Setenv("DB_MAX_CONNECTIONS", "2")
	t.Setenv("DB_MIN_CONNECTIONS", "5")

	_, err := LoadDatabaseConfig()
	assert.Error(t, err)
}

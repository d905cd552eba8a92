package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/deppfellow/jobly/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	for key, value := range map[string]string{
		"JOBLY_PRIMARY.ENV":                   "local",
		"JOBLY_SERVER.PORT":                   "8080",
		"JOBLY_SERVER.READ_TIMEOUT":           "30",
		"JOBLY_SERVER.WRITE_TIMEOUT":          "30",
		"JOBLY_SERVER.IDLE_TIMEOUT":           "60",
		"JOBLY_SERVER.CORS_ALLOWED_ORIGINS":   "http://localhost:3000,http://localhost:5173",
		"JOBLY_DATABASE.HOST":                 "localhost",
		"JOBLY_DATABASE.PORT":                 "5432",
		"JOBLY_DATABASE.USER":                 "postgres",
		"JOBLY_DATABASE.PASSWORD":             "secret",
		"JOBLY_DATABASE.NAME":                 "jobly",
		"JOBLY_DATABASE.SSL_MODE":             "disable",
		"JOBLY_DATABASE.MAX_OPEN_CONNS":       "25",
		"JOBLY_DATABASE.MAX_IDLE_CONNS":       "25",
		"JOBLY_DATABASE.CONN_MAX_LIFETIME":    "300",
		"JOBLY_DATABASE.CONN_MAX_IDLE_TIME":   "300",
		"JOBLY_REDIS.ADDRESS":                 "localhost:6379",
		"JOBLY_AUTH.SECRET_KEY":               "sk_test",
	} {
		t.Setenv(key, value)
	}
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "local", cfg.Primary.Env)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Server.CORSAllowedOrigins)
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, float64(config.DefaultRateLimit), cfg.Server.EffectiveRateLimit())
	require.False(t, cfg.Integration.NotificationsEnabled())

	require.NotNil(t, cfg.Observability)
	require.Equal(t, config.ServiceName, cfg.Observability.ServiceName)
	require.Equal(t, "local", cfg.Observability.Environment)
	require.Equal(t, "info", cfg.Observability.Logging.Level)
	require.True(t, cfg.Observability.HealthCheckEnabled("redis"))
}

func TestLoad_partialObservabilityKeepsDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JOBLY_OBSERVABILITY.LOGGING.LEVEL", "debug")
	t.Setenv("JOBLY_OBSERVABILITY.LOGGING.SLOW_QUERY_THRESHOLD", "250ms")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "debug", cfg.Observability.Logging.Level)
	require.Equal(t, "json", cfg.Observability.Logging.Format)
	require.Equal(t, 250*time.Millisecond, cfg.Observability.Logging.SlowQueryThreshold)
}

func TestLoad_integration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JOBLY_INTEGRATION.RESEND_API_KEY", "re_test")
	t.Setenv("JOBLY_INTEGRATION.NOTIFY_EMAIL", "hiring@example.com")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.True(t, cfg.Integration.NotificationsEnabled())
}

func TestLoad_errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing required value",
			env:  map[string]string{"JOBLY_REDIS.ADDRESS": ""},
		},
		{
			name: "invalid notification address",
			env:  map[string]string{"JOBLY_INTEGRATION.NOTIFY_EMAIL": "not-an-email"},
		},
		{
			name: "invalid log level",
			env:  map[string]string{"JOBLY_OBSERVABILITY.LOGGING.LEVEL": "loud"},
		},
		{
			name: "unknown health check",
			env:  map[string]string{"JOBLY_OBSERVABILITY.HEALTH_CHECKS.CHECKS": "database,kafka"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			for key, value := range tc.env {
				t.Setenv(key, value)
			}

			_, err := config.Load()
			require.Error(t, err)
		})
	}
}

func TestObservabilityConfig_GetLogLevel(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = ""

	cfg.Environment = "production"
	require.Equal(t, "info", cfg.GetLogLevel())
	require.True(t, cfg.IsProduction())

	cfg.Environment = "development"
	require.Equal(t, "debug", cfg.GetLogLevel())

	cfg.Logging.Level = "warn"
	require.Equal(t, "warn", cfg.GetLogLevel())
}

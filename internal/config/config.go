// Package config loads the process configuration from the environment.
//
// Variables are read with the JOBLY_ prefix, a `.env` file in the working
// directory is honored, and the result is validated so the process fails
// fast on missing or malformed settings.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Loads `.env` into the process environment before anything reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from every variable before it is mapped.
//
// Nesting uses the "." delimiter, so JOBLY_DATABASE.HOST becomes
// database.host and lands in Config.Database.Host.
const EnvPrefix = "JOBLY_"

// ServiceName tags logs, traces and APM data.
const ServiceName = "jobly"

// Config is the root configuration object.
//
// Observability is optional; unset values keep DefaultObservabilityConfig.
// Integration is optional; without it job-posting notifications are off.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary describes the runtime environment ("local", "development", "production").
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups HTTP server settings. Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the sustained requests per second allowed per client IP.
	// Zero falls back to DefaultRateLimit.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`
}

// DefaultRateLimit applies when ServerConfig.RateLimit is unset.
const DefaultRateLimit = 20

// EffectiveRateLimit returns RateLimit or DefaultRateLimit when unset.
func (s ServerConfig) EffectiveRateLimit() float64 {
	if s.RateLimit <= 0 {
		return DefaultRateLimit
	}
	return s.RateLimit
}

// DatabaseConfig holds PostgreSQL connection parameters and pool tuning.
// ConnMaxLifetime and ConnMaxIdleTime are in seconds.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig holds the Redis address ("host:port") shared by the health
// check and the job queue.
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig holds the Clerk secret used to verify session tokens on write routes.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
}

// IntegrationConfig configures outbound notifications.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`

	// NotifyEmail receives a message for every new job posting. Empty disables it.
	NotifyEmail string `koanf:"notify_email" validate:"omitempty,email"`
}

// NotificationsEnabled reports whether job-posted emails should be sent.
func (i IntegrationConfig) NotificationsEnabled() bool {
	return i.ResendAPIKey != "" && i.NotifyEmail != ""
}

// Load builds a Config from the JOBLY_-prefixed process environment and
// returns an error instead of exiting.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		// Comma separated lists, e.g. CORS origins.
		if strings.Contains(value, ",") {
			return key, strings.Split(value, ",")
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	// Observability defaults are decoded over, so a partial override such as
	// JOBLY_OBSERVABILITY.LOGGING.LEVEL keeps the remaining defaults.
	cfg := &Config{Observability: DefaultObservabilityConfig()}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Observability.ServiceName = ServiceName
	cfg.Observability.Environment = cfg.Primary.Env

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if err := cfg.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("observability config: %w", err)
	}

	return cfg, nil
}

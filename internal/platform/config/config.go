// Package config loads process settings from defaults, an optional
// appsettings file and ORDERS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.temporal.io/sdk/client"
)

// EnvPrefix namespaces environment overrides, e.g. ORDERS_EXTERNALSERVICE_BASEURL.
const EnvPrefix = "ORDERS"

// Config is the root of every binary's settings.
type Config struct {
	Environment     string                `mapstructure:"environment"`
	ExternalService ExternalServiceConfig `mapstructure:"externalservice"`
	Database        DatabaseConfig        `mapstructure:"database"`
	Server          ServerConfig          `mapstructure:"server"`
	Temporal        TemporalConfig        `mapstructure:"temporal"`
	Events          EventsConfig          `mapstructure:"events"`
	Log             LogConfig             `mapstructure:"log"`
	Emulator        EmulatorConfig        `mapstructure:"emulator"`
}

// ExternalServiceConfig selects and configures the backend transport.
type ExternalServiceConfig struct {
	Type           string            `mapstructure:"type"` // test, grpc, anything else means http
	BaseURL        string            `mapstructure:"baseurl"`
	Username       string            `mapstructure:"username"`
	Password       string            `mapstructure:"password"`
	TimeoutSeconds int               `mapstructure:"timeoutseconds"`
	StubPolicy     string            `mapstructure:"stubpolicy"`
	StubLatency    StubLatencyConfig `mapstructure:"stublatency"`
}

type StubLatencyConfig struct {
	Min time.Duration `mapstructure:"min"`
	Max time.Duration `mapstructure:"max"`
}

// Timeout converts TimeoutSeconds, falling back to 30s for non-positive values.
func (c ExternalServiceConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DatabaseConfig points at PostgreSQL; an empty DSN selects in-memory storage.
type DatabaseConfig struct {
	DSN         string `mapstructure:"dsn"`
	AutoMigrate bool   `mapstructure:"automigrate"`
}

type ServerConfig struct {
	Port            string          `mapstructure:"port"`
	ReadTimeout     time.Duration   `mapstructure:"readtimeout"`
	WriteTimeout    time.Duration   `mapstructure:"writetimeout"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdowntimeout"`
	RateLimit       RateLimitConfig `mapstructure:"ratelimit"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Rate    float64 `mapstructure:"rate"` // requests per second per client IP
	Burst   int     `mapstructure:"burst"`
}

type TemporalConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Namespace string `mapstructure:"namespace"`
}

// EventsConfig enables the optional NATS event sink.
type EventsConfig struct {
	NatsURL       string `mapstructure:"natsurl"`
	SubjectPrefix string `mapstructure:"subjectprefix"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// EmulatorConfig drives cmd/backend-emulator.
type EmulatorConfig struct {
	HTTPPort string `mapstructure:"httpport"`
	GRPCPort string `mapstructure:"grpcport"`
	Policy   string `mapstructure:"policy"`
}

// Load reads configuration. configPath may be empty, in which case
// appsettings.{yaml,json} is looked up in the working directory and ./config.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("appsettings")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no binary can run with.
func (c *Config) Validate() error {
	if c.ExternalService.TimeoutSeconds < 0 {
		return errors.New("ExternalService.TimeoutSeconds must not be negative")
	}
	if c.ExternalService.StubLatency.Max < c.ExternalService.StubLatency.Min {
		return errors.New("ExternalService.StubLatency.Max must not be lower than Min")
	}
	if c.Server.RateLimit.Enabled && (c.Server.RateLimit.Rate <= 0 || c.Server.RateLimit.Burst <= 0) {
		return errors.New("Server.RateLimit.Rate and Burst must be positive when enabled")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "local")

	v.SetDefault("externalservice.type", "http")
	v.SetDefault("externalservice.baseurl", "http://localhost:5000")
	v.SetDefault("externalservice.username", "")
	v.SetDefault("externalservice.password", "")
	v.SetDefault("externalservice.timeoutseconds", 30)
	v.SetDefault("externalservice.stubpolicy", "accept-all")
	v.SetDefault("externalservice.stublatency.min", "0s")
	v.SetDefault("externalservice.stublatency.max", "0s")

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.automigrate", true)

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readtimeout", "30s")
	v.SetDefault("server.writetimeout", "60s")
	v.SetDefault("server.shutdowntimeout", "10s")
	v.SetDefault("server.ratelimit.enabled", true)
	v.SetDefault("server.ratelimit.rate", 10)
	v.SetDefault("server.ratelimit.burst", 20)

	v.SetDefault("temporal.enabled", false)
	v.SetDefault("temporal.address", client.DefaultHostPort)
	v.SetDefault("temporal.namespace", client.DefaultNamespace)

	v.SetDefault("events.natsurl", "")
	v.SetDefault("events.subjectprefix", "orders")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("emulator.httpport", "5000")
	v.SetDefault("emulator.grpcport", "5001")
	v.SetDefault("emulator.policy", "thresholds")
}

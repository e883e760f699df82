// Package config handles loading and validating the devicely configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nadzzz/devicely/internal/interpreter"
	"github.com/nadzzz/devicely/internal/provider"
)

// Config is the root configuration for the devicely daemon and CLI.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Transports    TransportsConfig    `mapstructure:"transports"`
	AI            AIConfig            `mapstructure:"ai"`
	Apps          AppsConfig          `mapstructure:"apps"`
	Cache         CacheConfig         `mapstructure:"cache"`
	ErrorTracking ErrorTrackingConfig `mapstructure:"error_tracking"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// ServerConfig holds the health check server settings.
type ServerConfig struct {
	HealthPort int `mapstructure:"health_port"`
}

// TransportsConfig holds the configuration for each transport layer.
type TransportsConfig struct {
	GRPC GRPCConfig `mapstructure:"grpc"`
	HTTP HTTPConfig `mapstructure:"http"`
	MQTT MQTTConfig `mapstructure:"mqtt"`
}

// GRPCConfig configures the gRPC transport.
type GRPCConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// HTTPConfig configures the HTTP/WebSocket transport.
type HTTPConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// MQTTConfig configures the MQTT transport.
type MQTTConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Broker   string `mapstructure:"broker"`
	Topic    string `mapstructure:"topic"`     // subscription filter for requests
	ReplyTo  string `mapstructure:"reply_to"`  // prefix for result topics
	ClientID string `mapstructure:"client_id"` // defaults to devicely-<hostname>
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	QoS      byte   `mapstructure:"qos"`
}

// AIConfig selects the active provider and generation parameters.
type AIConfig struct {
	Provider        string        `mapstructure:"provider"` // initial active provider
	Model           string        `mapstructure:"model"`    // optional model override
	Temperature     float64       `mapstructure:"temperature"`
	MaxOutputTokens int           `mapstructure:"max_output_tokens"`
	Timeout         time.Duration `mapstructure:"timeout"`

	// BaseURLs overrides provider endpoints, keyed by provider ID.
	BaseURLs map[string]string `mapstructure:"base_urls"`

	// RateLimits caps requests per provider, keyed by provider ID.
	RateLimits map[string]interpreter.RateLimit `mapstructure:"rate_limits"`
}

// AppsConfig points at an optional app table override file.
type AppsConfig struct {
	File string `mapstructure:"file"`
}

// CacheConfig configures the response cache.
type CacheConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Backend       string        `mapstructure:"backend"` // "memory" or "redis"
	TTL           time.Duration `mapstructure:"ttl"`
	MaxEntries    int           `mapstructure:"max_entries"` // memory backend only
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
}

// ErrorTrackingConfig configures Sentry reporting. An empty DSN disables it.
type ErrorTrackingConfig struct {
	SentryDSN   string `mapstructure:"sentry_dsn"`
	Environment string `mapstructure:"environment"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./devicely.yaml, ./configs/devicely.yaml,
// $HOME/.devicely/devicely.yaml, /etc/devicely/devicely.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("devicely")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".devicely"))
		}
		v.AddConfigPath("/etc/devicely")
	}

	// Environment variables: DEVICELY_SERVER_HEALTH_PORT, DEVICELY_AI_PROVIDER, etc.
	v.SetEnvPrefix("DEVICELY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AI_PROVIDER and AI_MODEL are honoured for compatibility with existing .env files.
	_ = v.BindEnv("ai.provider", "DEVICELY_AI_PROVIDER", "AI_PROVIDER")
	_ = v.BindEnv("ai.model", "DEVICELY_AI_MODEL", "AI_MODEL")

	// Read config file (optional; env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Debug("no config file found, using defaults and environment variables")
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Resolve env var references in sensitive fields (e.g., "${REDIS_PASSWORD}")
	cfg.Cache.RedisPassword = resolveEnvRef(cfg.Cache.RedisPassword)
	cfg.ErrorTracking.SentryDSN = resolveEnvRef(cfg.ErrorTracking.SentryDSN)
	cfg.Transports.MQTT.Password = resolveEnvRef(cfg.Transports.MQTT.Password)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("transports.grpc.enabled", false)
	v.SetDefault("transports.grpc.port", 50051)
	v.SetDefault("transports.http.enabled", true)
	v.SetDefault("transports.http.port", 8080)
	v.SetDefault("transports.mqtt.enabled", false)
	v.SetDefault("transports.mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("transports.mqtt.topic", "devicely/convert/+")
	v.SetDefault("transports.mqtt.reply_to", "devicely/result")
	v.SetDefault("transports.mqtt.qos", 1)
	v.SetDefault("ai.provider", string(provider.DefaultActive))
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.temperature", interpreter.DefaultTemperature)
	v.SetDefault("ai.max_output_tokens", interpreter.DefaultMaxOutputTokens)
	v.SetDefault("ai.timeout", 30*time.Second)
	v.SetDefault("apps.file", "")
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("cache.max_entries", 10000)
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("error_tracking.environment", "development")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks values that defaults cannot make safe.
func (c *Config) Validate() error {
	if _, ok := providerByID(provider.NormalizeID(c.AI.Provider)); !ok {
		return fmt.Errorf("ai.provider: unknown provider %q", c.AI.Provider)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("ai.temperature: %v out of range [0, 2]", c.AI.Temperature)
	}
	if c.AI.MaxOutputTokens <= 0 {
		return fmt.Errorf("ai.max_output_tokens: must be positive, got %d", c.AI.MaxOutputTokens)
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	return nil
}

// ActiveProvider returns the configured initial provider ID.
func (c *Config) ActiveProvider() provider.ID {
	return provider.NormalizeID(c.AI.Provider)
}

// RateLimits converts the per-provider limits to registry keys.
func (c *Config) RateLimits() map[provider.ID]interpreter.RateLimit {
	out := make(map[provider.ID]interpreter.RateLimit, len(c.AI.RateLimits))
	for k, v := range c.AI.RateLimits {
		out[provider.NormalizeID(k)] = v
	}
	return out
}

// BaseURLs converts the per-provider endpoint overrides to registry keys.
func (c *Config) BaseURLs() map[provider.ID]string {
	out := make(map[provider.ID]string, len(c.AI.BaseURLs))
	for k, v := range c.AI.BaseURLs {
		out[provider.NormalizeID(k)] = v
	}
	return out
}

func providerByID(id provider.ID) (provider.Descriptor, bool) {
	for _, d := range provider.Catalog() {
		if d.ID == id {
			return d, true
		}
	}
	return provider.Descriptor{}, false
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Provider  ProviderConfig  `yaml:"provider"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Redis     RedisConfig     `yaml:"redis"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	MaxBodyBytes     int64         `yaml:"max_body_bytes"`
}

// ProviderConfig describes the downstream completion provider. APIKey is the
// one required setting; the process refuses to start without it.
type ProviderConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// CORSConfig holds the origin allowlist as a comma-separated string so it can
// be supplied through a single environment variable. Empty means allow all.
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins"`
}

// Origins splits the allowlist into its members, dropping empty entries.
func (c CORSConfig) Origins() []string {
	if strings.TrimSpace(c.AllowedOrigins) == "" {
		return nil
	}
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

type RateLimitConfig struct {
	Window      time.Duration `yaml:"window"`
	MaxRequests int64         `yaml:"max_requests"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type TelemetryConfig struct {
	LogLevel    string `yaml:"log_level"`
	MetricsPort int    `yaml:"metrics_port"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			ReadTimeout:      15 * time.Second,
			WriteTimeout:     30 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 15 * time.Second,
			MaxBodyBytes:     64 * 1024,
		},
		Provider: ProviderConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			MaxTokens:   250,
			Temperature: 0.7,
			Timeout:     12 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Window:      time.Minute,
			MaxRequests: 30,
		},
		Redis: RedisConfig{
			PoolSize: 10,
		},
		Telemetry: TelemetryConfig{
			LogLevel:    "info",
			MetricsPort: 9090,
		},
	}
}

// Validate checks the settings the gateway cannot run without.
func (c *Config) Validate() error {
	if c.Provider.APIKey == "" {
		return errors.New("provider api_key is required (set OPENAI_API_KEY)")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New("server max_body_bytes must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return errors.New("rate_limit window must be positive")
	}
	if c.RateLimit.MaxRequests <= 0 {
		return errors.New("rate_limit max_requests must be positive")
	}
	if c.Provider.Timeout <= 0 {
		return errors.New("provider timeout must be positive")
	}
	return nil
}

package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Provider.APIKey = "sk-test"
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config with credential should validate: %v", err)
	}
	if cfg.RateLimit.Window != time.Minute {
		t.Errorf("expected 60s rate window, got %s", cfg.RateLimit.Window)
	}
	if cfg.RateLimit.MaxRequests != 30 {
		t.Errorf("expected 30 requests per window, got %d", cfg.RateLimit.MaxRequests)
	}
	if cfg.Provider.Timeout != 12*time.Second {
		t.Errorf("expected 12s provider timeout, got %s", cfg.Provider.Timeout)
	}
	if cfg.Server.MaxBodyBytes != 64*1024 {
		t.Errorf("expected 64KB body cap, got %d", cfg.Server.MaxBodyBytes)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing api key", func(c *Config) { c.Provider.APIKey = "" }},
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"zero body cap", func(c *Config) { c.Server.MaxBodyBytes = 0 }},
		{"zero window", func(c *Config) { c.RateLimit.Window = 0 }},
		{"zero quota", func(c *Config) { c.RateLimit.MaxRequests = 0 }},
		{"zero provider timeout", func(c *Config) { c.Provider.Timeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestOrigins_Parsing(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{"  ", 0},
		{"https://a.example", 1},
		{"https://a.example,https://b.example", 2},
		{"https://a.example, https://b.example ,", 2},
	}

	for _, tt := range tests {
		c := CORSConfig{AllowedOrigins: tt.raw}
		if got := c.Origins(); len(got) != tt.want {
			t.Errorf("Origins(%q) = %v, want %d entries", tt.raw, got, tt.want)
		}
	}
}

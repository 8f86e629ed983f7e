// Package config loads CalMesh settings from an optional YAML file with
// environment-variable overrides. Everything has a working default, so a
// zero-config start is always possible; the file and the environment only
// narrow it down.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "CALMESH_CONFIG"
	openAIKeyEnv     = "OPENAI_API_KEY"
	anthropicKeyEnv  = "ANTHROPIC_API_KEY"
	modelProviderEnv = "CALMESH_MODEL_PROVIDER"
	modelNameEnv     = "CALMESH_MODEL"
	timezoneEnv      = "CALMESH_TIMEZONE"
	listenAddrEnv    = "CALMESH_LISTEN_ADDR"
	cacheSizeEnv     = "CALMESH_CACHE_MAX_SIZE"
	cacheTTLEnv      = "CALMESH_CACHE_TTL_SECONDS"
)

// Config holds the settings consumed across the application.
type Config struct {
	Model    ModelConfig    `yaml:"model"`
	Cache    CacheConfig    `yaml:"cache"`
	Retry    RetryConfig    `yaml:"retry"`
	Calendar CalendarConfig `yaml:"calendar"`
	Server   ServerConfig   `yaml:"server"`
}

// ModelConfig selects the extraction model backend.
type ModelConfig struct {
	Provider string `yaml:"provider"` // "openai" or "anthropic"
	Name     string `yaml:"name"`
	APIKey   string `yaml:"apiKey"`
}

// CacheConfig bounds the extraction cache.
type CacheConfig struct {
	MaxSize    int `yaml:"maxSize"`
	TTLSeconds int `yaml:"ttlSeconds"`
}

// TTL returns the entry lifetime as a duration.
func (c CacheConfig) TTL() time.Duration { return time.Duration(c.TTLSeconds) * time.Second }

// RetryConfig bounds the provider-call retry budget.
type RetryConfig struct {
	Attempts       int `yaml:"attempts"`
	MinWaitSeconds int `yaml:"minWaitSeconds"`
	MaxWaitSeconds int `yaml:"maxWaitSeconds"`
	Multiplier     int `yaml:"multiplier"`
}

// MinWait returns the first backoff wait as a duration.
func (c RetryConfig) MinWait() time.Duration { return time.Duration(c.MinWaitSeconds) * time.Second }

// MaxWait returns the backoff cap as a duration.
func (c RetryConfig) MaxWait() time.Duration { return time.Duration(c.MaxWaitSeconds) * time.Second }

// CalendarConfig names the fixed target timezone for created events.
type CalendarConfig struct {
	Timezone string `yaml:"timezone"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	ListenAddr string `yaml:"listenAddr"`
}

// Load reads YAML configuration (if CALMESH_CONFIG names a file) and applies
// environment overrides on top of the defaults.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: cannot read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("config: cannot parse %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Model: ModelConfig{
			Provider: "openai",
			Name:     "gpt-4o-mini",
		},
		Cache: CacheConfig{
			MaxSize:    100,
			TTLSeconds: 300,
		},
		Retry: RetryConfig{
			Attempts:       3,
			MinWaitSeconds: 2,
			MaxWaitSeconds: 10,
			Multiplier:     1,
		},
		Calendar: CalendarConfig{
			Timezone: "Asia/Kolkata",
		},
		Server: ServerConfig{
			ListenAddr: ":8000",
		},
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(modelProviderEnv); v != "" {
		c.Model.Provider = v
	}
	if v := os.Getenv(modelNameEnv); v != "" {
		c.Model.Name = v
	}
	if c.Model.APIKey == "" {
		switch c.Model.Provider {
		case "anthropic":
			c.Model.APIKey = os.Getenv(anthropicKeyEnv)
		default:
			c.Model.APIKey = os.Getenv(openAIKeyEnv)
		}
	}
	if v := os.Getenv(timezoneEnv); v != "" {
		c.Calendar.Timezone = v
	}
	if v := os.Getenv(listenAddrEnv); v != "" {
		c.Server.ListenAddr = v
	}
	if v, err := strconv.Atoi(os.Getenv(cacheSizeEnv)); err == nil && v > 0 {
		c.Cache.MaxSize = v
	}
	if v, err := strconv.Atoi(os.Getenv(cacheTTLEnv)); err == nil && v > 0 {
		c.Cache.TTLSeconds = v
	}
}

// Package config provides hierarchical configuration loading for pagesmith.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the pagesmith service.
type Config struct {
	Server     Server     `yaml:"server"`
	Auth       Auth       `yaml:"auth"`
	GitHub     GitHub     `yaml:"github"`
	OpenAI     OpenAI     `yaml:"openai"`
	AIPipe     AIPipe     `yaml:"aipipe"`
	OpenRouter OpenRouter `yaml:"openrouter"`
	Callback   Callback   `yaml:"callback"`
	Queue      Queue      `yaml:"queue"`
	Cache      Cache      `yaml:"cache"`
	Breaker    Breaker    `yaml:"breaker"`
	Rate       Rate       `yaml:"rate"`
	Logging    Logging    `yaml:"logging"`
	Telemetry  Telemetry  `yaml:"telemetry"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
}

// Auth holds the shared verification secret callers must present.
type Auth struct {
	Secret string `yaml:"secret"`
}

// GitHub holds repository host configuration.
type GitHub struct {
	APIBaseURL string `yaml:"api_base_url"`
	Token      string `yaml:"token"`
	Owner      string `yaml:"owner"`
}

// OpenAI holds primary generation provider configuration.
// An empty APIKey disables the provider; the fallback chain starts at aipipe.
type OpenAI struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// AIPipe holds first-fallback provider configuration.
type AIPipe struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
	Model   string `yaml:"model"`
}

// OpenRouter holds final-fallback provider configuration.
type OpenRouter struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// Callback holds evaluation callback delivery configuration.
type Callback struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Queue holds background dispatcher configuration.
type Queue struct {
	Size    int `yaml:"size"`
	Workers int `yaml:"workers"`
}

// Cache holds generation cache configuration.
type Cache struct {
	Enabled   bool          `yaml:"enabled"`
	MaxSizeMB int64         `yaml:"max_size_mb"`
	TTL       time.Duration `yaml:"ttl"`
}

// Breaker holds circuit breaker configuration.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Rate holds rate limiter configuration. Accepted but not yet enforced.
type Rate struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// Telemetry holds OpenTelemetry export configuration.
type Telemetry struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// Defaults returns a Config with sensible default values for local development.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:       "8080",
			CORSOrigin: "*",
		},
		GitHub: GitHub{
			APIBaseURL: "https://api.github.com",
		},
		OpenAI: OpenAI{
			BaseURL: "https://api.openai.com",
			Model:   "gpt-4o-mini",
		},
		AIPipe: AIPipe{
			BaseURL: "https://aipipe.org",
			Model:   "openai/gpt-4.1-nano",
		},
		OpenRouter: OpenRouter{
			BaseURL: "https://openrouter.ai",
			Model:   "tngtech/deepseek-r1t2-chimera:free",
		},
		Callback: Callback{
			MaxAttempts: 5,
			BaseDelay:   time.Second,
			Timeout:     30 * time.Second,
		},
		Queue: Queue{
			Size:    64,
			Workers: 4,
		},
		Cache: Cache{
			Enabled:   true,
			MaxSizeMB: 64,
			TTL:       10 * time.Minute,
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
		Rate: Rate{
			RequestsPerSecond: 10,
			Burst:             100,
		},
		Logging: Logging{
			Level:   "info",
			Service: "pagesmith",
		},
		Telemetry: Telemetry{
			Endpoint: "localhost:4317",
		},
	}
}

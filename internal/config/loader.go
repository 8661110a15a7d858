package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "pagesmith.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PAGESMITH_PORT")
	setString(&cfg.Server.CORSOrigin, "PAGESMITH_CORS_ORIGIN")
	setString(&cfg.Auth.Secret, "VERIFICATION_SECRET")
	setString(&cfg.GitHub.APIBaseURL, "GITHUB_API_URL")
	setString(&cfg.GitHub.Token, "GITHUB_PAT")
	setString(&cfg.GitHub.Owner, "GITHUB_OWNER")
	setString(&cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&cfg.OpenAI.APIKey, "LLM_API_KEY")
	setString(&cfg.OpenAI.Model, "OPENAI_MODEL")
	setString(&cfg.AIPipe.BaseURL, "AIPIPE_BASE_URL")
	setString(&cfg.AIPipe.Token, "AIPIPE_TOKEN")
	setString(&cfg.AIPipe.Model, "AIPIPE_MODEL")
	setString(&cfg.OpenRouter.BaseURL, "OPENROUTER_BASE_URL")
	setString(&cfg.OpenRouter.APIKey, "OPENROUTER_KEY")
	setString(&cfg.OpenRouter.Model, "OPENROUTER_MODEL")
	setInt(&cfg.Callback.MaxAttempts, "PAGESMITH_CALLBACK_ATTEMPTS")
	setDuration(&cfg.Callback.BaseDelay, "PAGESMITH_CALLBACK_BASE_DELAY")
	setDuration(&cfg.Callback.Timeout, "PAGESMITH_CALLBACK_TIMEOUT")
	setInt(&cfg.Queue.Size, "PAGESMITH_QUEUE_SIZE")
	setInt(&cfg.Queue.Workers, "PAGESMITH_QUEUE_WORKERS")
	setBool(&cfg.Cache.Enabled, "PAGESMITH_CACHE_ENABLED")
	setInt64(&cfg.Cache.MaxSizeMB, "PAGESMITH_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.TTL, "PAGESMITH_CACHE_TTL")
	setInt(&cfg.Breaker.MaxFailures, "PAGESMITH_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "PAGESMITH_BREAKER_TIMEOUT")
	setFloat64(&cfg.Rate.RequestsPerSecond, "PAGESMITH_RATE_RPS")
	setInt(&cfg.Rate.Burst, "PAGESMITH_RATE_BURST")
	setString(&cfg.Logging.Level, "PAGESMITH_LOG_LEVEL")
	setString(&cfg.Logging.Service, "PAGESMITH_LOG_SERVICE")
	setBool(&cfg.Telemetry.Enabled, "PAGESMITH_OTEL_ENABLED")
	setString(&cfg.Telemetry.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
}

// validate checks that required fields are set. Provider credentials are
// deliberately optional: without them the generation chain runs in
// degraded placeholder mode.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Auth.Secret == "" {
		return errors.New("auth.secret is required")
	}
	if cfg.GitHub.Token == "" {
		return errors.New("github.token is required")
	}
	if cfg.GitHub.Owner == "" {
		return errors.New("github.owner is required")
	}
	if cfg.Callback.MaxAttempts < 1 {
		return errors.New("callback.max_attempts must be >= 1")
	}
	if cfg.Queue.Size < 1 {
		return errors.New("queue.size must be >= 1")
	}
	if cfg.Queue.Workers < 1 {
		return errors.New("queue.workers must be >= 1")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

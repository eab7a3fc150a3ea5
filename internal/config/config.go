package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env      string `yaml:"env" env:"APP_ENV" validate:"oneof=dev prod"`
	AppPort  string `yaml:"port" env:"APP_PORT" validate:"required,numeric"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	Session SessionConfig `yaml:"session"`
	Redis   RedisConfig   `yaml:"redis"`
	Google  GoogleConfig  `yaml:"google"`

	OTelEndpoint string `yaml:"otel_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

type SessionConfig struct {
	Secret       string        `yaml:"secret" env:"SESSION_SECRET" validate:"required,min=16"`
	TTL          time.Duration `yaml:"ttl" env:"SESSION_TTL" validate:"gt=0"`
	Store        string        `yaml:"store" env:"SESSION_STORE" validate:"oneof=memory redis"`
	CookieSecure bool          `yaml:"cookie_secure" env:"COOKIE_SECURE"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" validate:"required_if=Store redis"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	// Store mirrors Session.Store so required_if can see it.
	Store string `yaml:"-"`
}

type GoogleConfig struct {
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID" validate:"required"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET" validate:"required"`
	CallbackURL  string `yaml:"callback_url" env:"GOOGLE_AUTH_CALLBACK_URL" validate:"required,url"`
}

// Default returns the configuration used when nothing overrides a field.
func Default() Config {
	return Config{
		Env:      "dev",
		AppPort:  "3000",
		LogLevel: "info",
		Session: SessionConfig{
			TTL:   24 * time.Hour,
			Store: "memory",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by CONFIG_PATH, then environment variables, and validates the result.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks struct rules.
func (c *Config) Validate() error {
	c.Redis.Store = c.Session.Store
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

// Production reports whether the service runs with APP_ENV=prod.
func (c Config) Production() bool {
	return c.Env == "prod"
}

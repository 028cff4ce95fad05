// Package config loads the Partner Center client settings from the
// environment.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/partner-center-client/pkg/client"
	"github.com/Sternrassler/partner-center-client/pkg/logging"
	"github.com/caarlos0/env/v7"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds the environment driven settings.
type Config struct {
	BaseURL         string        `env:"PARTNER_CENTER_BASE_URL" envDefault:"https://api.partnercenter.microsoft.com" validate:"required,url"`
	Token           string        `env:"PARTNER_CENTER_TOKEN" validate:"required"`
	UserAgent       string        `env:"PARTNER_CENTER_USER_AGENT" envDefault:"pcctl/1.0" validate:"required"`
	Locale          string        `env:"PARTNER_CENTER_LOCALE" envDefault:"en-US" validate:"omitempty,bcp47_language_tag"`
	ApplicationName string        `env:"PARTNER_CENTER_APPLICATION" envDefault:"partner-center-client"`
	CacheScope      string        `env:"PARTNER_CENTER_CACHE_SCOPE"`
	MaxRetries      int           `env:"PARTNER_CENTER_MAX_RETRIES" envDefault:"3" validate:"gte=0,lte=10"`
	Timeout         time.Duration `env:"PARTNER_CENTER_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	RedisURL        string        `env:"REDIS_URL" validate:"omitempty,url"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error disabled"`
	LogPretty       bool          `env:"LOG_PRETTY" envDefault:"false"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return load(env.Options{})
}

// LoadFrom reads the configuration from vars instead of the process
// environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return load(env.Options{Environment: vars})
}

func load(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Logging returns the logger configuration.
func (c Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(c.LogLevel)
	cfg.Pretty = c.LogPretty
	return cfg
}

// Redis connects to RedisURL. It returns nil without error when no URL is
// configured.
func (c Config) Redis(ctx context.Context) (*redis.Client, error) {
	if c.RedisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(c.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return rdb, nil
}

// ClientConfig converts the settings into a client configuration. rdb may
// be nil.
func (c Config) ClientConfig(rdb *redis.Client) client.Config {
	cfg := client.DefaultConfig(client.StaticToken(c.Token), c.UserAgent)
	cfg.BaseURL = c.BaseURL
	cfg.Locale = c.Locale
	cfg.ApplicationName = c.ApplicationName
	cfg.CacheScope = c.CacheScope
	cfg.Timeout = c.Timeout
	cfg.Retry.MaxRetries = c.MaxRetries
	cfg.Redis = rdb
	return cfg
}

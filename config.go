package sendly

import (
	"fmt"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/sendly-live/sendly-go/internal/apierrors"
)

// EnvConfig is the client configuration read from the environment.
//
//	SENDLY_API_KEY      API key (required)
//	SENDLY_BASE_URL     API base URL
//	SENDLY_TIMEOUT      per-attempt timeout, e.g. "10s"
//	SENDLY_MAX_RETRIES  retries after the first attempt
type EnvConfig struct {
	APIKey     string        `env:"SENDLY_API_KEY"`
	BaseURL    string        `env:"SENDLY_BASE_URL" envDefault:"https://sendly.live/api/v1"`
	Timeout    time.Duration `env:"SENDLY_TIMEOUT" envDefault:"30s"`
	MaxRetries int           `env:"SENDLY_MAX_RETRIES" envDefault:"3"`
}

var dotenvLoaded sync.Once

// LoadConfig reads EnvConfig from the process environment. A .env file in
// the working directory is loaded first if present; variables already set
// in the environment take precedence over it.
func LoadConfig() (*EnvConfig, error) {
	dotenvLoaded.Do(func() {
		// A missing .env file is not an error.
		_ = godotenv.Load()
	})

	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("sendly: parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *EnvConfig) validate() error {
	if err := requireField(c.APIKey, "API key"); err != nil {
		return apierrors.MissingAPIKey()
	}
	return nil
}

// Options converts the configuration into client options.
func (c *EnvConfig) Options() []Option {
	return []Option{
		WithBaseURL(c.BaseURL),
		WithTimeout(c.Timeout),
		WithMaxRetries(c.MaxRetries),
	}
}

// NewFromEnv creates a client from LoadConfig. Explicit opts are applied
// after the environment, so they win.
func NewFromEnv(opts ...Option) (*Client, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return New(cfg.APIKey, append(cfg.Options(), opts...)...)
}

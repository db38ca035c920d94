package cinequest

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config carries client settings sourced from the environment.
type Config struct {
	BaseURL     string        `envconfig:"CINEQUEST_BASE_URL" default:"http://localhost:8000"`
	Timeout     time.Duration `envconfig:"CINEQUEST_TIMEOUT" default:"30s"`
	StaleTTL    time.Duration `envconfig:"CINEQUEST_STALE_TTL" default:"5m"`
	SessionFile string        `envconfig:"CINEQUEST_SESSION_FILE"`
}

// LoadConfig reads CINEQUEST_* environment variables, applying defaults
// for anything unset.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

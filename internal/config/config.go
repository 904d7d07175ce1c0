package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultAPIBaseURL points at the hosted Texturnhub backend.
const DefaultAPIBaseURL = "https://texturnhub-backenn-3.onrender.com"

// Config represents the global ~/.texturnhub/config.toml.
type Config struct {
	APIBaseURL         string `toml:"api_base_url"`
	DefaultProfile     string `toml:"default_profile"`
	PollIntervalSec    int    `toml:"poll_interval_seconds"`
	RefreshIntervalSec int    `toml:"refresh_interval_seconds"`
	RequestTimeoutSec  int    `toml:"request_timeout_seconds"`
}

// Load reads config from the given path, fills defaults for missing fields
// and applies TEXTURNHUB_* environment overrides. A missing file is not an
// error; a .env file in the working directory is picked up first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	if v := os.Getenv("TEXTURNHUB_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("TEXTURNHUB_PROFILE"); v != "" {
		cfg.DefaultProfile = v
	}
	if v := os.Getenv("TEXTURNHUB_POLL_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PollIntervalSec = n
		}
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.PollIntervalSec <= 0 {
		cfg.PollIntervalSec = 60
	}
	if cfg.RefreshIntervalSec <= 0 {
		cfg.RefreshIntervalSec = 30
	}
	if cfg.RequestTimeoutSec <= 0 {
		cfg.RequestTimeoutSec = 15
	}
	return &cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// PollInterval returns the notification poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSec) * time.Second
}

// RefreshInterval returns the message/offer refresh interval as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSec) * time.Second
}

// RequestTimeout returns the per-request HTTP timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

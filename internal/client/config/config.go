package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"
)

// Config holds runtime settings for the skillshare CLI.
type Config struct {
	APIBaseURL     string
	CachePath      string
	RequestTimeout time.Duration
	LogLevel       string
	LogFormat      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8081"
	c.CachePath = "skillshare.db"
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate checks the values that would otherwise fail late.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api base url %q must be an absolute URL", c.APIBaseURL)
	}
	if c.CachePath == "" {
		return fmt.Errorf("cache path must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// Load builds a Config from defaults, the JSON file named by f.ConfigFile
// and the flags of fs that were set explicitly, in that order.
func Load(fs *pflag.FlagSet, f *Flags) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if f.ConfigFile != "" {
		if err := parseJSON(cfg, f.ConfigFile); err != nil {
			return nil, err
		}
	}

	f.apply(fs, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

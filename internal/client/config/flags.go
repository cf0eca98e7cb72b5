package config

import (
	"time"

	"github.com/spf13/pflag"
)

const (
	flagAPI       = "api"
	flagCache     = "cache"
	flagTimeout   = "timeout"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
	flagConfig    = "config"
)

// Flags receives the command-line values before they are layered over the
// defaults and the JSON file.
type Flags struct {
	ConfigFile     string
	APIBaseURL     string
	CachePath      string
	RequestTimeout time.Duration
	LogLevel       string
	LogFormat      string
}

// Register adds the client flags to fs. Help text shows the defaults.
func (f *Flags) Register(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringVarP(&f.APIBaseURL, flagAPI, "a", d.APIBaseURL, "API base URL")
	fs.StringVar(&f.CachePath, flagCache, d.CachePath, "path of the local session cache")
	fs.DurationVar(&f.RequestTimeout, flagTimeout, d.RequestTimeout, "per-request timeout")
	fs.StringVar(&f.LogLevel, flagLogLevel, d.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&f.LogFormat, flagLogFormat, d.LogFormat, "log format: text or json")
	fs.StringVarP(&f.ConfigFile, flagConfig, "c", "", "JSON config file")
}

// apply copies the explicitly set flags into cfg.
func (f *Flags) apply(fs *pflag.FlagSet, cfg *Config) {
	if fs.Changed(flagAPI) {
		cfg.APIBaseURL = f.APIBaseURL
	}
	if fs.Changed(flagCache) {
		cfg.CachePath = f.CachePath
	}
	if fs.Changed(flagTimeout) {
		cfg.RequestTimeout = f.RequestTimeout
	}
	if fs.Changed(flagLogLevel) {
		cfg.LogLevel = f.LogLevel
	}
	if fs.Changed(flagLogFormat) {
		cfg.LogFormat = f.LogFormat
	}
}

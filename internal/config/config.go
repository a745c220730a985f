// Package config defines the bot configuration and how it is loaded.
//
// A Config is built once per run and threaded through the pipeline as a
// value; nothing reads configuration from globals.
package config

import (
	"fmt"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Offline prints posts instead of publishing them and switches to the
	// offline ledger.
	Offline           bool   `koanf:"offline"`
	LedgerPath        string `koanf:"ledger_path"`
	OfflineLedgerPath string `koanf:"offline_ledger_path"`

	// PostTimeoutBase is the base delay between two posts, in seconds.
	PostTimeoutBase int `koanf:"post_timeout_base"`

	// Extreme-value thresholds of the worthiness cascade.
	SacksSuffered   int `koanf:"sacks_suffered"`
	SackYardsLost   int `koanf:"sack_yards_lost"`
	SackFumbles     int `koanf:"sack_fumbles"`
	SackFumblesLost int `koanf:"sack_fumbles_lost"`

	// FirstSeason is the earliest season downloaded.
	FirstSeason int    `koanf:"first_season"`
	DataURL     string `koanf:"data_url"`
	// DataFile replaces the download with a local CSV when set.
	DataFile  string `koanf:"data_file"`
	CachePath string `koanf:"cache_path"`
	// HTTPTimeout bounds each download and post, in seconds.
	HTTPTimeout int `koanf:"http_timeout"`

	// MetricsTextfile is where metrics are written at the end of a run.
	MetricsTextfile string `koanf:"metrics_textfile"`

	APIKey       string `koanf:"api_key"`
	APISecret    string `koanf:"api_secret"`
	AccessToken  string `koanf:"access_token"`
	AccessSecret string `koanf:"access_secret"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Offline:           true,
		LedgerPath:        "posted.json",
		OfflineLedgerPath: "posted_offline.json",
		PostTimeoutBase:   60,
		SacksSuffered:     5,
		SackYardsLost:     -25,
		SackFumbles:       2,
		SackFumblesLost:   2,
		FirstSeason:       1999,
		DataURL:           "https://github.com/nflverse/nflverse-data/releases/download/stats_team",
		CachePath:         ".sackigami/cache.db",
		HTTPTimeout:       30,
	}
}

// LedgerFile returns the ledger path in effect.
func (c *Config) LedgerFile() string {
	if c.Offline {
		return c.OfflineLedgerPath
	}
	return c.LedgerPath
}

// PostDelay returns the base delay between posts. Offline runs do not wait.
func (c *Config) PostDelay() time.Duration {
	if c.Offline {
		return 0
	}
	return time.Duration(c.PostTimeoutBase) * time.Second
}

// HTTPTimeoutDuration returns HTTPTimeout as a duration.
func (c *Config) HTTPTimeoutDuration() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.SackYardsLost > 0:
		return fmt.Errorf("%w: sack_yards_lost must be <= 0, got %d", ErrInvalidConfig, c.SackYardsLost)
	case c.SacksSuffered < 0 || c.SackFumbles < 0 || c.SackFumblesLost < 0:
		return fmt.Errorf("%w: thresholds must not be negative", ErrInvalidConfig)
	case c.PostTimeoutBase < 0:
		return fmt.Errorf("%w: post_timeout_base must be >= 0, got %d", ErrInvalidConfig, c.PostTimeoutBase)
	case c.HTTPTimeout <= 0:
		return fmt.Errorf("%w: http_timeout must be > 0, got %d", ErrInvalidConfig, c.HTTPTimeout)
	case c.FirstSeason <= 0:
		return fmt.Errorf("%w: first_season must be > 0, got %d", ErrInvalidConfig, c.FirstSeason)
	case c.LedgerFile() == "":
		return fmt.Errorf("%w: ledger path must not be empty", ErrInvalidConfig)
	case c.DataFile == "" && c.DataURL == "":
		return fmt.Errorf("%w: one of data_url or data_file is required", ErrInvalidConfig)
	}

	if !c.Offline {
		creds := []struct{ key, value string }{
			{"api_key", c.APIKey},
			{"api_secret", c.APISecret},
			{"access_token", c.AccessToken},
			{"access_secret", c.AccessSecret},
		}
		for _, cr := range creds {
			if cr.value == "" {
				return fmt.Errorf("%w: %s is required when posting online", ErrInvalidConfig, cr.key)
			}
		}
	}
	return nil
}

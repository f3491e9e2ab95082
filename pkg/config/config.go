// Package config loads the falgen configuration from viper into a typed
// structure. The outermost command reads it once and threads it through as a
// parameter; nothing below the command layer reads viper or the environment.
package config

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// RetryConfig bounds retries of transient API failures. Delays are in
// milliseconds.
type RetryConfig struct {
	Attempts     int    `mapstructure:"attempts"`
	InitialDelay int    `mapstructure:"initial_delay"`
	MaxDelay     int    `mapstructure:"max_delay"`
	BackoffType  string `mapstructure:"backoff_type"`
}

// PollConfig bounds the job status polling loop. Values are in seconds.
type PollConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds"`
	MaxWaitSeconds  int `mapstructure:"max_wait_seconds"`
}

// Config is the resolved falgen configuration.
type Config struct {
	// APIKey is the fal.ai credential, usually from FAL_API_KEY.
	APIKey string `mapstructure:"api_key"`
	// BaseURL overrides the queue endpoint; empty means the client default.
	BaseURL   string      `mapstructure:"base_url"`
	LogLevel  string      `mapstructure:"log_level"`
	LogFormat string      `mapstructure:"log_format"`
	OutputDir string      `mapstructure:"output_dir"`
	Retry     RetryConfig `mapstructure:"retry"`
	Poll      PollConfig  `mapstructure:"poll"`

	// Profile selects a named settings overlay from Profiles.
	Profile  string                    `mapstructure:"profile"`
	Profiles map[string]map[string]any `mapstructure:"profiles"`
}

// DefaultRetry is applied when no retry settings are configured.
var DefaultRetry = RetryConfig{
	Attempts:     3,
	InitialDelay: 1000,
	MaxDelay:     10000,
	BackoffType:  "exponential",
}

// DefaultPoll is applied when no polling settings are configured.
var DefaultPoll = PollConfig{
	IntervalSeconds: 3,
	MaxWaitSeconds:  600,
}

// FromViper builds the configuration from viper's current state, applying
// defaults and the active profile overlay.
func FromViper() (Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "failed to unmarshal configuration")
	}

	if cfg.Retry.Attempts == 0 {
		cfg.Retry = DefaultRetry
	}
	if cfg.Poll.IntervalSeconds == 0 {
		cfg.Poll.IntervalSeconds = DefaultPoll.IntervalSeconds
	}
	if cfg.Poll.MaxWaitSeconds == 0 {
		cfg.Poll.MaxWaitSeconds = DefaultPoll.MaxWaitSeconds
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "fmt"
	}

	if cfg.Profile != "" && cfg.Profile != "default" {
		profile, ok := cfg.Profiles[cfg.Profile]
		if !ok {
			return cfg, errors.Errorf("profile %q is not defined", cfg.Profile)
		}
		if err := applyProfile(&cfg, profile); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// applyProfile merges a named profile's settings over the base configuration
// without zeroing fields the profile does not mention.
func applyProfile(cfg *Config, profile map[string]any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ZeroFields:       false,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create profile decoder")
	}
	if err := decoder.Decode(profile); err != nil {
		return errors.Wrapf(err, "failed to apply profile %q", cfg.Profile)
	}
	return nil
}

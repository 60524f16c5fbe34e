// Package config loads pulsar runtime settings from .pulsar.yaml, PULSAR_*
// environment variables, and CLI flags via viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the runtime configuration for a pulsar session.
type Config struct {
	// ClockDB is the SQLite clock-correction store. Empty disables
	// observatory clock corrections.
	ClockDB       string `mapstructure:"clock_db"`
	Ephem         string `mapstructure:"ephem"`
	Planets       bool   `mapstructure:"planets"`
	IncludeBIPM   bool   `mapstructure:"include_bipm"`
	IncludeGPS    bool   `mapstructure:"include_gps"`
	TelemetryPath string `mapstructure:"telemetry_path"`
	Verbose       bool   `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("clock_db", "")
	viper.SetDefault("ephem", "DE421")
	viper.SetDefault("planets", false)
	viper.SetDefault("include_bipm", false)
	viper.SetDefault("include_gps", true)
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Package config provides configuration management for the Clever Picks application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix         = "CLEVER_PICKS"
	defaultConfigPath = "config/config.yaml"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	setDefaults(v)

	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	// CLEVER_PICKS_ODDS_API_API_KEY -> odds_api.api_key
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// setDefaults registers every key so AutomaticEnv can override it even when
// the file omits it
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "clever-picks")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("sheets.base_url", "https://sheets.googleapis.com")
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.api_key", "")
	v.SetDefault("sheets.access_token", "")
	v.SetDefault("sheets.batting_category", "Batting Stats")
	v.SetDefault("sheets.pitching_category", "Pitching Stats")
	v.SetDefault("sheets.timeout_seconds", 15)
	v.SetDefault("sheets.max_retries", 3)
	v.SetDefault("sheets.rate_limit", 5.0)

	v.SetDefault("odds_api.base_url", "https://api.the-odds-api.com/v4")
	v.SetDefault("odds_api.api_key", "")
	v.SetDefault("odds_api.sport", "baseball_mlb")
	v.SetDefault("odds_api.regions", "us")
	v.SetDefault("odds_api.markets", "h2h")
	v.SetDefault("odds_api.odds_format", "american")
	v.SetDefault("odds_api.date_format", "iso")
	v.SetDefault("odds_api.timeout_seconds", 15)
	v.SetDefault("odds_api.max_retries", 2)
	v.SetDefault("odds_api.rate_limit", 1.0)

	v.SetDefault("cache.stats_ttl_seconds", 900)
	v.SetDefault("cache.odds_ttl_seconds", 60)

	v.SetDefault("picks.max_teams_display", 20)
	v.SetDefault("picks.default_count", 3)
	v.SetDefault("picks.ev_plus_count", 5)
	v.SetDefault("picks.min_ev", 0.05)
	v.SetDefault("picks.data_driven_min_ev", 0.02)
	v.SetDefault("picks.smart_pool_size", 10)
	v.SetDefault("picks.smart_limit", 5)

	v.SetDefault("http.port", 8080)
	v.SetDefault("http.allowed_origins", []string{"*"})

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("digest.enabled", false)
	v.SetDefault("digest.schedule", "0 16 * * *")
	v.SetDefault("digest.count", 5)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

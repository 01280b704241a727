// Package config provides configuration management for the Clever Picks application.
package config

import (
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App     AppConfig     `mapstructure:"app" validate:"required"`
	Sheets  SheetsConfig  `mapstructure:"sheets" validate:"required"`
	OddsAPI OddsAPIConfig `mapstructure:"odds_api" validate:"required"`
	Cache   CacheConfig   `mapstructure:"cache" validate:"required"`
	Picks   PicksConfig   `mapstructure:"picks" validate:"required"`
	HTTP    HTTPConfig    `mapstructure:"http" validate:"required"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Digest  DigestConfig  `mapstructure:"digest"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// SheetsConfig points at the spreadsheet holding the team statistics
type SheetsConfig struct {
	BaseURL          string  `mapstructure:"base_url" validate:"required,url"`
	SpreadsheetID    string  `mapstructure:"spreadsheet_id"`
	APIKey           string  `mapstructure:"api_key"`
	AccessToken      string  `mapstructure:"access_token"`
	BattingCategory  string  `mapstructure:"batting_category" validate:"required"`
	PitchingCategory string  `mapstructure:"pitching_category" validate:"required"`
	TimeoutSeconds   int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries       int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit        float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// OddsAPIConfig represents The Odds API configuration
type OddsAPIConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"required,url"`
	APIKey         string  `mapstructure:"api_key"`
	Sport          string  `mapstructure:"sport" validate:"required"`
	Regions        string  `mapstructure:"regions" validate:"required"`
	Markets        string  `mapstructure:"markets" validate:"required,eq=h2h"`
	OddsFormat     string  `mapstructure:"odds_format" validate:"required,eq=american"`
	DateFormat     string  `mapstructure:"date_format" validate:"required,oneof=iso unix"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// CacheConfig represents the cache lifetimes
type CacheConfig struct {
	StatsTTLSeconds int `mapstructure:"stats_ttl_seconds" validate:"required,gt=0"`
	OddsTTLSeconds  int `mapstructure:"odds_ttl_seconds" validate:"required,gt=0"`
}

// PicksConfig represents recommendation defaults
type PicksConfig struct {
	MaxTeamsDisplay int     `mapstructure:"max_teams_display" validate:"required,gt=0"`
	DefaultCount    int     `mapstructure:"default_count" validate:"required,gt=0"`
	EVPlusCount     int     `mapstructure:"ev_plus_count" validate:"required,gt=0"`
	MinEV           float64 `mapstructure:"min_ev" validate:"gte=0,lte=1"`
	DataDrivenMinEV float64 `mapstructure:"data_driven_min_ev" validate:"gte=0,lte=1"`
	SmartPoolSize   int     `mapstructure:"smart_pool_size" validate:"required,gt=0"`
	SmartLimit      int     `mapstructure:"smart_limit" validate:"required,gt=0"`
}

// HTTPConfig represents the status/picks HTTP server
type HTTPConfig struct {
	Port           int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// DigestConfig represents the scheduled picks digest
type DigestConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true,omitempty,cronexpr"`
	Count    int    `mapstructure:"count" validate:"gte=0"`
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// StatsTTL returns the statistics cache lifetime
func (c *Config) StatsTTL() time.Duration {
	return time.Duration(c.Cache.StatsTTLSeconds) * time.Second
}

// OddsTTL returns the market quote cache lifetime
func (c *Config) OddsTTL() time.Duration {
	return time.Duration(c.Cache.OddsTTLSeconds) * time.Second
}

// HasSheetsCredentials reports whether the spreadsheet can be reached
func (c *Config) HasSheetsCredentials() bool {
	return c.Sheets.SpreadsheetID != "" && (c.Sheets.APIKey != "" || c.Sheets.AccessToken != "")
}

// HasOddsAPIKey reports whether live odds can be requested
func (c *Config) HasOddsAPIKey() bool {
	return c.OddsAPI.APIKey != ""
}

package config

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validConfigPath       = "testdata/valid_config.yaml"
	expansionConfigPath   = "testdata/expansion_config.yaml"
	nonexistentConfigPath = "testdata/nonexistent_config.yaml"
	cleverPicksName       = "clever-picks"
	developmentEnv        = "development"
	testAppName           = "test-app"
)

func loadValid(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	return cfg
}

func TestLoadConfigSuccess(t *testing.T) {
	cfg := loadValid(t)

	assert.Equal(t, cleverPicksName, cfg.App.Name)
	assert.Equal(t, developmentEnv, cfg.App.Environment)
	assert.Equal(t, "sheet-123", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, "baseball_mlb", cfg.OddsAPI.Sport)
	assert.Equal(t, 900, cfg.Cache.StatsTTLSeconds)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 15*60.0, cfg.StatsTTL().Seconds())
	assert.True(t, cfg.HasSheetsCredentials())
	assert.True(t, cfg.HasOddsAPIKey())
}

func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	assert.Error(t, err)
}

func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("CLEVER_PICKS_APP_NAME", testAppName)

	cfg := loadValid(t)
	assert.Equal(t, testAppName, cfg.App.Name)
}

func TestLoadConfigExpandsPlaceholders(t *testing.T) {
	t.Setenv("TEST_SPREADSHEET_ID", "expanded-sheet")
	t.Setenv("TEST_ODDS_API_KEY", "expanded-key")

	cfg, err := Load(expansionConfigPath)
	require.NoError(t, err)

	assert.Equal(t, "expanded-sheet", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, "expanded-key", cfg.OddsAPI.APIKey)
	// Keys absent from the file fall back to defaults
	assert.Equal(t, "Batting Stats", cfg.Sheets.BattingCategory)
	assert.Equal(t, 60, cfg.Cache.OddsTTLSeconds)
}

func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	require.NoError(t, err)

	assert.Equal(t, cleverPicksName, cfg.App.Name)
	assert.Equal(t, 900, cfg.Cache.StatsTTLSeconds)
	assert.Equal(t, 20, cfg.Picks.MaxTeamsDisplay)
	assert.Equal(t, 3, cfg.Picks.DefaultCount)
	assert.InDelta(t, 0.05, cfg.Picks.MinEV, 1e-9)
	assert.InDelta(t, 0.02, cfg.Picks.DataDrivenMinEV, 1e-9)
	assert.Equal(t, "https://api.the-odds-api.com/v4", cfg.OddsAPI.BaseURL)
	assert.Equal(t, "h2h", cfg.OddsAPI.Markets)
	assert.Equal(t, "0 16 * * *", cfg.Digest.Schedule)
	assert.False(t, cfg.HasOddsAPIKey())

	assert.NoError(t, Validate(cfg))
}

func TestValidateSuccess(t *testing.T) {
	cfg := loadValid(t)
	assert.NoError(t, Validate(cfg))
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"invalid environment", func(c *Config) { c.App.Environment = "invalid" }, "Environment"},
		{"invalid log level", func(c *Config) { c.App.LogLevel = "verbose" }, "LogLevel"},
		{"invalid cron", func(c *Config) { c.Digest.Schedule = "every day" }, "Schedule"},
		{"missing cron when enabled", func(c *Config) { c.Digest.Schedule = "" }, "Schedule"},
		{"non american odds", func(c *Config) { c.OddsAPI.OddsFormat = "decimal" }, "OddsFormat"},
		{"zero stats ttl", func(c *Config) { c.Cache.StatsTTLSeconds = 0 }, "StatsTTLSeconds"},
		{"min ev above one", func(c *Config) { c.Picks.MinEV = 1.5 }, "MinEV"},
		{"odds ttl above stats ttl", func(c *Config) { c.Cache.OddsTTLSeconds = 1000 }, "odds_ttl_seconds"},
		{"default count above display", func(c *Config) { c.Picks.DefaultCount = 50 }, "default_count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadValid(t)
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateDigestDisabledAllowsEmptySchedule(t *testing.T) {
	cfg := loadValid(t)
	cfg.Digest.Enabled = false
	cfg.Digest.Schedule = ""

	assert.NoError(t, Validate(cfg))
}

func TestValidateEnvironmentProduction(t *testing.T) {
	cfg := loadValid(t)
	cfg.App.Environment = "production"
	assert.NoError(t, ValidateEnvironment(cfg))

	cfg.Sheets.APIKey = ""
	assert.Error(t, ValidateEnvironment(cfg))

	cfg.Sheets.AccessToken = "token"
	cfg.OddsAPI.APIKey = "YOUR_ODDS_KEY"
	assert.Error(t, ValidateEnvironment(cfg))
}

func TestParseSecretDataAndOverlay(t *testing.T) {
	out := &secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"odds_api_key":"live-odds","sheets_access_token":"tok"}`),
	}

	secrets, err := parseSecretData(out)
	require.NoError(t, err)

	cfg := loadValid(t)
	overlaySecretsOnConfig(cfg, secrets)

	assert.Equal(t, "live-odds", cfg.OddsAPI.APIKey)
	assert.Equal(t, "tok", cfg.Sheets.AccessToken)
	// Empty secrets leave existing values alone
	assert.Equal(t, "sheets-key", cfg.Sheets.APIKey)
}

func TestParseSecretDataEmpty(t *testing.T) {
	_, err := parseSecretData(&secretsmanager.GetSecretValueOutput{})
	assert.ErrorIs(t, err, errNoSecretDataFound)
}

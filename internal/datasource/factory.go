package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/clever-picks/internal/config"
)

// SourceType represents the type of data source
type SourceType string

const (
	// SheetsSourceType is the Google Sheets statistics source
	SheetsSourceType SourceType = "google_sheets"
	// OddsAPISourceType is The Odds API market source
	OddsAPISourceType SourceType = "odds_api"
)

// Factory creates the collaborators described by the configuration
type Factory struct {
	logger *logrus.Logger
	config *config.Config
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, logger *logrus.Logger) *Factory {
	if logger == nil {
		logger = logrus.New()
	}
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

func httpConfig(timeoutSeconds, maxRetries int, rateLimit float64) HTTPClientConfig {
	cfg := DefaultHTTPClientConfig()
	if timeoutSeconds > 0 {
		cfg.Timeout = time.Duration(timeoutSeconds) * time.Second
	}
	cfg.MaxRetries = maxRetries
	if rateLimit > 0 {
		cfg.RateLimit = rateLimit
	}
	return cfg
}

// NewTabularSource creates the statistics source. Missing credentials are
// reported when a fetch is attempted.
func (f *Factory) NewTabularSource() (*SheetsClient, error) {
	if f.config == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	sc := f.config.Sheets
	if !f.config.HasSheetsCredentials() {
		f.logger.Warn("Sheets credentials not configured, statistics are unavailable")
	}

	httpClient := NewRateLimitedHTTPClient(httpConfig(sc.TimeoutSeconds, sc.MaxRetries, sc.RateLimit), f.logger)
	f.logger.WithField("source", SheetsSourceType).Debug("Created data source")
	return NewSheetsClient(httpClient, sc.BaseURL, sc.SpreadsheetID, sc.APIKey, sc.AccessToken, f.logger), nil
}

// NewMarketSource creates the odds source wrapped in the quote cache. A
// missing API key is not an error here; fetches fail with an
// authentication error instead.
func (f *Factory) NewMarketSource() (*CachedMarketSource, error) {
	if f.config == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	oc := f.config.OddsAPI
	if !f.config.HasOddsAPIKey() {
		f.logger.Warn("Odds API key not configured, EV+ picks are unavailable")
	}

	httpClient := NewRateLimitedHTTPClient(httpConfig(oc.TimeoutSeconds, oc.MaxRetries, oc.RateLimit), f.logger)
	client := NewOddsAPIClient(httpClient, OddsAPIOptions{
		BaseURL:    oc.BaseURL,
		APIKey:     oc.APIKey,
		Sport:      oc.Sport,
		Regions:    oc.Regions,
		Markets:    oc.Markets,
		OddsFormat: oc.OddsFormat,
		DateFormat: oc.DateFormat,
	}, f.logger)

	f.logger.WithField("source", OddsAPISourceType).Debug("Created data source")
	return NewCachedMarketSource(client, f.config.OddsTTL(), f.logger), nil
}

// ListAvailableSources returns the sources the configuration can reach
func (f *Factory) ListAvailableSources() []SourceType {
	available := make([]SourceType, 0, 2)
	if f.config == nil {
		return available
	}
	if f.config.HasSheetsCredentials() {
		available = append(available, SheetsSourceType)
	}
	if f.config.HasOddsAPIKey() {
		available = append(available, OddsAPISourceType)
	}
	return available
}

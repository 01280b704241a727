package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/clever-picks/internal/metrics"
	"github.com/yourusername/clever-picks/internal/models"
)

const (
	oddsAPISourceName = "odds_api"
	headToHeadMarket  = "h2h"
)

// OddsAPIOptions selects the market requested from The Odds API
type OddsAPIOptions struct {
	BaseURL    string
	APIKey     string
	Sport      string
	Regions    string
	Markets    string
	OddsFormat string
	DateFormat string
}

// OddsAPIClient implements MarketSource for The Odds API v4
type OddsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	opts       OddsAPIOptions
	logger     *logrus.Entry

	mu        sync.Mutex
	remaining float64
	hasQuota  bool
}

// oddsGame mirrors one element of the /sports/{sport}/odds response
type oddsGame struct {
	ID           string          `json:"id"`
	SportKey     string          `json:"sport_key"`
	CommenceTime string          `json:"commence_time"`
	HomeTeam     string          `json:"home_team"`
	AwayTeam     string          `json:"away_team"`
	Bookmakers   []oddsBookmaker `json:"bookmakers"`
}

type oddsBookmaker struct {
	Key     string       `json:"key"`
	Title   string       `json:"title"`
	Markets []oddsMarket `json:"markets"`
}

type oddsMarket struct {
	Key      string        `json:"key"`
	Outcomes []oddsOutcome `json:"outcomes"`
}

type oddsOutcome struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// NewOddsAPIClient creates a new Odds API client
func NewOddsAPIClient(httpClient *RateLimitedHTTPClient, opts OddsAPIOptions, logger *logrus.Logger) *OddsAPIClient {
	if logger == nil {
		logger = logrus.New()
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Markets == "" {
		opts.Markets = headToHeadMarket
	}
	if opts.OddsFormat == "" {
		opts.OddsFormat = "american"
	}
	if opts.DateFormat == "" {
		opts.DateFormat = "iso"
	}
	return &OddsAPIClient{
		httpClient: httpClient,
		opts:       opts,
		logger:     logger.WithField("source", oddsAPISourceName),
	}
}

// Name returns the data source name
func (c *OddsAPIClient) Name() string {
	return oddsAPISourceName
}

// FetchQuotes retrieves the current moneyline quotes for the configured sport
func (c *OddsAPIClient) FetchQuotes(ctx context.Context) ([]models.MarketQuote, error) {
	if c.opts.APIKey == "" {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeAuthenticationFailed, "api key not configured", nil)
	}

	query := url.Values{}
	query.Set("apiKey", c.opts.APIKey)
	query.Set("regions", c.opts.Regions)
	query.Set("markets", c.opts.Markets)
	query.Set("oddsFormat", c.opts.OddsFormat)
	query.Set("dateFormat", c.opts.DateFormat)
	endpoint := fmt.Sprintf("%s/sports/%s/odds?%s", c.opts.BaseURL, url.PathEscape(c.opts.Sport), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	timer := metrics.NewSourceTimer(oddsAPISourceName)
	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		timer.Observe(ErrCodeNetworkError)
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeNetworkError, "failed to fetch odds", err)
	}
	defer resp.Body.Close()

	c.recordQuota(resp.Header)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		dsErr := statusError(oddsAPISourceName, resp.StatusCode, string(body))
		timer.Observe(dsErr.Code)
		return nil, dsErr
	}

	var games []oddsGame
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		timer.Observe(ErrCodeInvalidData)
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeInvalidData, "failed to parse response", err)
	}
	timer.Observe("ok")

	quotes := make([]models.MarketQuote, 0, len(games))
	for _, g := range games {
		quotes = append(quotes, convertGame(g))
	}

	metrics.RecordQuotesFetched(len(quotes))
	c.logger.WithField("games", len(quotes)).Debug("Fetched market quotes")
	return quotes, nil
}

// recordQuota publishes the remaining request allowance reported by the API
func (c *OddsAPIClient) recordQuota(h http.Header) {
	remaining := h.Get("x-requests-remaining")
	if remaining == "" {
		return
	}
	v, err := strconv.ParseFloat(remaining, 64)
	if err != nil {
		return
	}
	c.mu.Lock()
	c.remaining, c.hasQuota = v, true
	c.mu.Unlock()

	metrics.UpdateOddsRequestsRemaining(v)
	if v < 50 {
		c.logger.WithField("requests_remaining", v).Warn("Odds API quota running low")
	}
}

// RequestsRemaining returns the last quota reported by the API, if any.
func (c *OddsAPIClient) RequestsRemaining() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining, c.hasQuota
}

// convertGame keeps only head-to-head markets
func convertGame(g oddsGame) models.MarketQuote {
	commence, err := time.Parse(time.RFC3339, g.CommenceTime)
	if err != nil {
		commence = time.Time{}
	}

	quote := models.MarketQuote{
		GameID:       g.ID,
		HomeTeam:     g.HomeTeam,
		AwayTeam:     g.AwayTeam,
		CommenceTime: commence,
		Bookmakers:   make([]models.BookmakerQuote, 0, len(g.Bookmakers)),
	}

	for _, b := range g.Bookmakers {
		bq := models.BookmakerQuote{Key: b.Key, Title: b.Title}
		for _, m := range b.Markets {
			if m.Key != headToHeadMarket {
				continue
			}
			for _, o := range m.Outcomes {
				bq.Outcomes = append(bq.Outcomes, models.OutcomePrice{
					Team:         o.Name,
					AmericanOdds: int(math.Round(o.Price)),
				})
			}
		}
		if len(bq.Outcomes) > 0 {
			quote.Bookmakers = append(quote.Bookmakers, bq)
		}
	}
	return quote
}

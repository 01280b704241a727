package datasource

import (
	"context"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/clever-picks/internal/metrics"
	"github.com/yourusername/clever-picks/internal/models"
)

const quotesCacheKey = "quotes"

// CachedMarketSource wraps a MarketSource with a short-lived quote cache so
// repeated requests inside one polling window do not spend API quota.
type CachedMarketSource struct {
	source MarketSource
	cache  *cache.Cache
	ttl    time.Duration
	logger *logrus.Entry
}

// NewCachedMarketSource creates a new cached market source
func NewCachedMarketSource(source MarketSource, ttl time.Duration, logger *logrus.Logger) *CachedMarketSource {
	if logger == nil {
		logger = logrus.New()
	}
	return &CachedMarketSource{
		source: source,
		cache:  cache.New(ttl, ttl*2),
		ttl:    ttl,
		logger: logger.WithField("component", "quote_cache"),
	}
}

// Name returns the wrapped source name
func (c *CachedMarketSource) Name() string {
	return c.source.Name()
}

// FetchQuotes returns cached quotes when present, otherwise fetches them.
// Failures are never cached.
func (c *CachedMarketSource) FetchQuotes(ctx context.Context) ([]models.MarketQuote, error) {
	if cached, found := c.cache.Get(quotesCacheKey); found {
		if quotes, ok := cached.([]models.MarketQuote); ok {
			metrics.RecordQuoteCacheHit()
			return copyQuotes(quotes), nil
		}
	}

	quotes, err := c.source.FetchQuotes(ctx)
	if err != nil {
		return nil, err
	}

	c.cache.Set(quotesCacheKey, copyQuotes(quotes), c.ttl)
	c.logger.WithField("games", len(quotes)).Debug("Cached market quotes")
	return quotes, nil
}

// RequestsRemaining forwards the wrapped source's quota, if it reports one.
func (c *CachedMarketSource) RequestsRemaining() (float64, bool) {
	if q, ok := c.source.(QuotaReporter); ok {
		return q.RequestsRemaining()
	}
	return 0, false
}

// Invalidate drops the cached quotes
func (c *CachedMarketSource) Invalidate() {
	c.cache.Flush()
}

func copyQuotes(quotes []models.MarketQuote) []models.MarketQuote {
	out := make([]models.MarketQuote, len(quotes))
	for i, q := range quotes {
		out[i] = q
		out[i].Bookmakers = make([]models.BookmakerQuote, len(q.Bookmakers))
		for j, b := range q.Bookmakers {
			out[i].Bookmakers[j] = b
			out[i].Bookmakers[j].Outcomes = append([]models.OutcomePrice(nil), b.Outcomes...)
		}
	}
	return out
}

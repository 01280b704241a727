// Package metrics provides centralized Prometheus metrics registry for the picks engine.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clever_picks"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	StatsCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_cache_hits_total",
		Help:      "Total number of statistics requests served from a valid cache entry",
	})
	StatsCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_cache_misses_total",
		Help:      "Total number of statistics requests that required a refresh",
	})
	StatsRefreshesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_refreshes_total",
		Help:      "Total number of successful statistics refreshes",
	})
	StatsRefreshFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_refresh_failures_total",
		Help:      "Total number of failed statistics refreshes",
	})
	StaleServesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_stale_serves_total",
		Help:      "Total number of times an expired table was served after a failed refresh",
	})
	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of circuit breaker trips",
	})
	OddsQuotesFetchedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "odds_quotes_fetched_total",
		Help:      "Total number of game quotes fetched from the odds provider",
	})
	QuoteCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quote_cache_hits_total",
		Help:      "Total number of quote requests served from the quote cache",
	})
	EVOpportunitiesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ev_opportunities_total",
		Help:      "Total number of EV+ opportunities found",
	})
	PicksGeneratedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "picks_generated_total",
		Help:      "Total number of recommendations produced, by source",
	}, []string{"source"})
	DigestRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "digest_runs_total",
		Help:      "Total number of scheduled digest runs, by outcome",
	}, []string{"outcome"})
	SourceRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_requests_total",
		Help:      "Total number of collaborator requests, by source and result code",
	}, []string{"source", "code"})
)

// Gauge metrics
var (
	StatsCacheAgeSeconds = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stats_cache_age_seconds",
		Help:      "Age of the cached statistics table when last read",
	})
	StatsCacheRecords = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stats_cache_records",
		Help:      "Number of team records in the cached statistics table",
	})
	OddsRequestsRemaining = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "odds_requests_remaining",
		Help:      "Remaining request quota reported by the odds provider",
	})
)

// Histogram metrics
var (
	StatsRefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stats_refresh_duration_seconds",
		Help:      "Duration of statistics refreshes in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	SourceRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "source_request_duration_seconds",
		Help:      "Duration of collaborator requests in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"source"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(
			StatsCacheHitsTotal,
			StatsCacheMissesTotal,
			StatsRefreshesTotal,
			StatsRefreshFailuresTotal,
			StaleServesTotal,
			CircuitBreakerTripsTotal,
			OddsQuotesFetchedTotal,
			QuoteCacheHitsTotal,
			EVOpportunitiesTotal,
			PicksGeneratedTotal,
			DigestRunsTotal,
			SourceRequestsTotal,
		)

		registry.MustRegister(
			StatsCacheAgeSeconds,
			StatsCacheRecords,
			OddsRequestsRemaining,
		)

		registry.MustRegister(
			StatsRefreshDuration,
			SourceRequestDuration,
		)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordCacheHit records a statistics request served from cache.
func RecordCacheHit() {
	StatsCacheHitsTotal.Inc()
}

// RecordCacheMiss records a statistics request that needed a refresh.
func RecordCacheMiss() {
	StatsCacheMissesTotal.Inc()
}

// RecordRefresh records a successful refresh.
func RecordRefresh(durationSeconds float64, records int) {
	StatsRefreshesTotal.Inc()
	StatsRefreshDuration.Observe(durationSeconds)
	StatsCacheRecords.Set(float64(records))
	StatsCacheAgeSeconds.Set(0)
}

// RecordRefreshFailure records a failed refresh.
func RecordRefreshFailure() {
	StatsRefreshFailuresTotal.Inc()
}

// RecordStaleServe records an expired table served after a failed refresh.
func RecordStaleServe(ageSeconds float64) {
	StaleServesTotal.Inc()
	StatsCacheAgeSeconds.Set(ageSeconds)
}

// UpdateCacheAge updates the cache age gauge.
func UpdateCacheAge(ageSeconds float64) {
	StatsCacheAgeSeconds.Set(ageSeconds)
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}

// RecordQuotesFetched records the number of game quotes fetched.
func RecordQuotesFetched(n int) {
	OddsQuotesFetchedTotal.Add(float64(n))
}

// RecordQuoteCacheHit records quotes served from the quote cache.
func RecordQuoteCacheHit() {
	QuoteCacheHitsTotal.Inc()
}

// UpdateOddsRequestsRemaining updates the odds quota gauge.
func UpdateOddsRequestsRemaining(remaining float64) {
	OddsRequestsRemaining.Set(remaining)
}

// RecordEVOpportunities records EV+ opportunities found by a scan.
func RecordEVOpportunities(n int) {
	EVOpportunitiesTotal.Add(float64(n))
}

// RecordPicks records recommendations produced for a source.
func RecordPicks(source string, n int) {
	PicksGeneratedTotal.WithLabelValues(source).Add(float64(n))
}

// RecordDigestRun records a scheduled digest run.
func RecordDigestRun(outcome string) {
	DigestRunsTotal.WithLabelValues(outcome).Inc()
}

// SourceTimer measures one collaborator request.
type SourceTimer struct {
	source string
	start  time.Time
}

// NewSourceTimer starts timing a request to source.
func NewSourceTimer(source string) SourceTimer {
	return SourceTimer{source: source, start: time.Now()}
}

// Observe records the request duration and its result code.
func (t SourceTimer) Observe(code string) {
	SourceRequestDuration.WithLabelValues(t.source).Observe(time.Since(t.start).Seconds())
	SourceRequestsTotal.WithLabelValues(t.source, code).Inc()
}

// Package logger provides picks-specific logging.
package logger

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// PicksLogger provides dedicated logging for cache and recommendation events.
type PicksLogger struct {
	*logrus.Entry
}

// NewPicksLogger creates a new picks logger.
func NewPicksLogger(baseLogger *logrus.Logger) *PicksLogger {
	if baseLogger == nil {
		baseLogger = logrus.New()
		baseLogger.SetOutput(io.Discard)
	}
	return &PicksLogger{
		Entry: baseLogger.WithField("component", "picks"),
	}
}

// LogCacheRefresh logs a successful statistics refresh.
func (pl *PicksLogger) LogCacheRefresh(records int, forced bool, duration time.Duration) {
	pl.WithFields(logrus.Fields{
		"records":     records,
		"forced":      forced,
		"duration_ms": duration.Milliseconds(),
	}).Info("Statistics cache refreshed")
}

// LogStaleServe logs a degraded-mode serve of an expired table.
func (pl *PicksLogger) LogStaleServe(records int, ageSeconds float64, cause error) {
	pl.WithFields(logrus.Fields{
		"records":     records,
		"age_seconds": ageSeconds,
		"event_type":  "degraded",
	}).WithError(cause).Warn("Refresh failed, serving stale statistics")
}

// LogEVScan logs the outcome of an EV scan over the current market.
func (pl *PicksLogger) LogEVScan(games, matched, opportunities int, minEV float64) {
	pl.WithFields(logrus.Fields{
		"games":         games,
		"teams_matched": matched,
		"opportunities": opportunities,
		"min_ev":        minEV,
	}).Info("EV scan completed")
}

// LogRanking logs a merged ranking.
func (pl *PicksLogger) LogRanking(runID string, evPicks, statPicks, returned int) {
	pl.WithFields(logrus.Fields{
		"run_id":     runID,
		"ev_picks":   evPicks,
		"stat_picks": statPicks,
		"returned":   returned,
	}).Info("Picks ranked")
}

// LogRecommendation logs a single ranked pick.
func (pl *PicksLogger) LogRecommendation(runID string, rank int, team, source, confidence string, score float64) {
	pl.WithFields(logrus.Fields{
		"run_id":          runID,
		"rank":            rank,
		"team":            team,
		"source":          source,
		"confidence":      confidence,
		"composite_score": score,
	}).Info("Recommendation")
}

// LogDigestRun logs a completed scheduled digest.
func (pl *PicksLogger) LogDigestRun(runID string, picks int, stale bool, duration time.Duration) {
	pl.WithFields(logrus.Fields{
		"run_id":      runID,
		"picks":       picks,
		"stale":       stale,
		"duration_ms": duration.Milliseconds(),
		"event_type":  "digest",
	}).Info("Digest run completed")
}

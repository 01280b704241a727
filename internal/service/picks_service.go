// Package service composes the statistics cache, the market source and the
// scoring packages into the operations exposed by the CLI and HTTP surface.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/clever-picks/internal/config"
	"github.com/yourusername/clever-picks/internal/datasource"
	"github.com/yourusername/clever-picks/internal/logger"
	"github.com/yourusername/clever-picks/internal/metrics"
	"github.com/yourusername/clever-picks/internal/models"
	"github.com/yourusername/clever-picks/internal/picks"
	"github.com/yourusername/clever-picks/internal/probability"
	"github.com/yourusername/clever-picks/internal/scoring"
	"github.com/yourusername/clever-picks/internal/stats"
)

// ErrMarketUnavailable marks a failed live odds fetch. The statistics table
// itself was available.
var ErrMarketUnavailable = errors.New("live odds unavailable")

// StatsCache is the subset of *stats.Cache the service needs.
type StatsCache interface {
	Fetch(ctx context.Context, forceRefresh bool) (stats.Result, error)
	CacheInfo() stats.Info
}

// PicksService produces statistics listings and betting recommendations.
type PicksService struct {
	cache    StatsCache
	market   datasource.MarketSource
	engine   *probability.Engine
	cfg      *config.Config
	logger   *logrus.Entry
	picksLog *logger.PicksLogger
}

// NewPicksService creates a new picks service
func NewPicksService(
	cache StatsCache,
	market datasource.MarketSource,
	cfg *config.Config,
	log *logrus.Logger,
) *PicksService {
	if log == nil {
		log = logrus.New()
	}
	return &PicksService{
		cache:    cache,
		market:   market,
		engine:   probability.NewEngine(log),
		cfg:      cfg,
		logger:   log.WithField("component", "picks_service"),
		picksLog: logger.NewPicksLogger(log),
	}
}

// Refresh forces a statistics refresh.
func (s *PicksService) Refresh(ctx context.Context) (StatsReport, error) {
	res, err := s.cache.Fetch(ctx, true)
	if err != nil {
		return StatsReport{}, err
	}
	return StatsReport{DataState: stateOf(res), Total: len(res.Table), Teams: res.Table}, nil
}

// AdvancedStats returns the first n rows of the sorted table. n is clamped
// to [1, max_teams_display].
func (s *PicksService) AdvancedStats(ctx context.Context, n int) (StatsReport, error) {
	res, err := s.cache.Fetch(ctx, false)
	if err != nil {
		return StatsReport{}, err
	}

	if limit := s.cfg.Picks.MaxTeamsDisplay; n > limit {
		n = limit
	}
	if n < 1 {
		n = 1
	}
	teams := res.Table
	if n < len(teams) {
		teams = teams[:n]
	}
	return StatsReport{DataState: stateOf(res), Total: len(res.Table), Teams: teams}, nil
}

// BestTeams returns the top count statistical picks.
func (s *PicksService) BestTeams(ctx context.Context, count int) (BestReport, error) {
	res, err := s.cache.Fetch(ctx, false)
	if err != nil {
		return BestReport{}, err
	}
	if count <= 0 {
		count = s.cfg.Picks.DefaultCount
	}
	return BestReport{DataState: stateOf(res), Picks: scoring.BestTeams(res.Table, count)}, nil
}

// TeamLookup finds the first team whose name contains name and assesses it.
func (s *PicksService) TeamLookup(ctx context.Context, name string) (LookupReport, error) {
	res, err := s.cache.Fetch(ctx, false)
	if err != nil {
		return LookupReport{}, err
	}

	record, ok := res.Table.FindContaining(name)
	if !ok {
		return LookupReport{DataState: stateOf(res)}, fmt.Errorf("%w: %q", models.ErrTeamNotFound, name)
	}
	return LookupReport{
		DataState:  stateOf(res),
		Record:     record,
		Assessment: scoring.ScoreOne(record),
	}, nil
}

// EVPicks returns up to count enhanced opportunities at the configured
// minimum EV. A market failure is returned as an error.
func (s *PicksService) EVPicks(ctx context.Context, count int) (EVReport, error) {
	if count <= 0 {
		count = s.cfg.Picks.EVPlusCount
	}
	res, err := s.cache.Fetch(ctx, false)
	if err != nil {
		return EVReport{}, err
	}

	report := EVReport{DataState: stateOf(res), MinEV: s.cfg.Picks.MinEV, Picks: []models.EVPick{}}
	if len(res.Table) == 0 {
		return report, nil
	}

	quotes, err := s.market.FetchQuotes(ctx)
	if err != nil {
		return report, fmt.Errorf("%w: %w", ErrMarketUnavailable, err)
	}
	report.Games = len(quotes)

	opps := s.engine.FindOpportunities(res.Table, quotes, s.cfg.Picks.MinEV)
	report.Picks = picks.Enhance(res.Table, opps, count)
	return report, nil
}

// DataDrivenPicks merges statistical picks with low-threshold EV+ picks.
// When the market is unavailable the ranking is statistical only and the
// report says so.
func (s *PicksService) DataDrivenPicks(ctx context.Context, count int) (PicksReport, error) {
	if count <= 0 {
		count = s.cfg.Picks.DefaultCount
	}
	runID := uuid.New().String()

	res, err := s.cache.Fetch(ctx, false)
	if err != nil {
		return PicksReport{RunID: runID}, err
	}

	report := PicksReport{
		DataState:       stateOf(res),
		RunID:           runID,
		Recommendations: []models.Recommendation{},
	}
	if len(res.Table) == 0 {
		return report, nil
	}

	statPicks := scoring.BestTeams(res.Table, count*2)

	evPicks := []models.EVPick{}
	quotes, err := s.market.FetchQuotes(ctx)
	if err != nil {
		report.OddsError = err.Error()
		s.logger.WithError(err).WithField("run_id", runID).Warn("Live odds unavailable, ranking statistical picks only")
	} else {
		report.OddsAvailable = true
		opps := s.engine.FindOpportunities(res.Table, quotes, s.cfg.Picks.DataDrivenMinEV)
		evPicks = picks.Enhance(res.Table, opps, count*2)
	}

	report.Recommendations = picks.Rank(statPicks, evPicks, count)
	s.record(runID, len(evPicks), len(statPicks), report.Recommendations)
	return report, nil
}

// SmartPicks re-ranks a pool of EV+ picks against their opponents.
func (s *PicksService) SmartPicks(ctx context.Context) (SmartReport, error) {
	res, err := s.cache.Fetch(ctx, false)
	if err != nil {
		return SmartReport{}, err
	}

	report := SmartReport{DataState: stateOf(res), Picks: []models.SmartPick{}}
	if len(res.Table) == 0 {
		return report, nil
	}

	quotes, err := s.market.FetchQuotes(ctx)
	if err != nil {
		return report, fmt.Errorf("%w: %w", ErrMarketUnavailable, err)
	}

	opps := s.engine.FindOpportunities(res.Table, quotes, s.cfg.Picks.MinEV)
	pool := picks.Enhance(res.Table, opps, s.cfg.Picks.SmartPoolSize)
	report.Picks = picks.SmartRank(res.Table, pool, s.cfg.Picks.SmartLimit)
	return report, nil
}

// Status reports cache freshness and which collaborators are configured.
func (s *PicksService) Status() StatusReport {
	report := StatusReport{
		Cache:            s.cache.CacheInfo(),
		SheetsConfigured: s.cfg.HasSheetsCredentials(),
		OddsConfigured:   s.cfg.HasOddsAPIKey(),
	}
	if q, ok := s.market.(datasource.QuotaReporter); ok {
		if remaining, known := q.RequestsRemaining(); known {
			report.OddsRequestsRemaining = &remaining
		}
	}
	return report
}

// Ready reports whether a statistics table has ever been loaded.
func (s *PicksService) Ready() bool {
	return s.cache.CacheInfo().Status != stats.CacheStatusNone
}

func (s *PicksService) record(runID string, evCount, statCount int, recs []models.Recommendation) {
	bySource := map[models.Source]int{}
	for i, r := range recs {
		bySource[r.Source]++
		s.picksLog.LogRecommendation(runID, i+1, r.Team, string(r.Source), string(r.Confidence), r.CompositeScore)
	}
	for source, n := range bySource {
		metrics.RecordPicks(string(source), n)
	}
	s.picksLog.LogRanking(runID, evCount, statCount, len(recs))
}

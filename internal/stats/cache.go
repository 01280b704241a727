// Package stats owns the cached team statistics table.
package stats

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/yourusername/clever-picks/internal/datasource"
	"github.com/yourusername/clever-picks/internal/logger"
	"github.com/yourusername/clever-picks/internal/metrics"
	"github.com/yourusername/clever-picks/internal/models"
)

// DefaultTTL is how long a fetched table is served without refreshing.
const DefaultTTL = 15 * time.Minute

// DefaultRefreshTimeout bounds one shared refresh.
const DefaultRefreshTimeout = 30 * time.Second

const refreshKey = "stats"

// Status describes how a Fetch result was produced.
type Status string

// Fetch result statuses
const (
	StatusOK    Status = "ok"
	StatusStale Status = "stale"
	StatusEmpty Status = "empty"
)

// Cache status values reported by CacheInfo
const (
	CacheStatusNone    = "no_cache"
	CacheStatusValid   = "valid"
	CacheStatusExpired = "expired"
)

// Result is the outcome of a successful Fetch. Table is always an
// independent copy of the cached snapshot.
type Result struct {
	Table     models.StatTable
	Status    Status
	FetchedAt time.Time
	// Cause is the refresh failure behind a stale or empty result
	Cause error
}

// Stale reports whether the table came from an expired entry.
func (r Result) Stale() bool {
	return r.Status == StatusStale
}

// Info is the cache diagnostic snapshot.
type Info struct {
	Status     string   `json:"status"`
	Records    int      `json:"records"`
	AgeSeconds *float64 `json:"age_seconds"`
}

// Options configures a Cache.
type Options struct {
	TTL              time.Duration
	BattingCategory  string
	PitchingCategory string
	// RefreshTimeout bounds a refresh independently of any caller
	RefreshTimeout time.Duration
	// Now overrides the clock, mainly for tests
	Now func() time.Time
}

// entry is an immutable snapshot; refreshes replace it, never mutate it
type entry struct {
	table     models.StatTable
	fetchedAt time.Time
}

// Cache wraps a TabularSource with a TTL and stale-on-error fallback.
// Concurrent refreshes are coalesced into one collaborator call.
type Cache struct {
	source  datasource.TabularSource
	opts    Options
	now     func() time.Time
	logger  *logger.PicksLogger
	flight  singleflight.Group
	mu      sync.RWMutex
	current *entry
	// degraded is set when the last refresh failed and current was kept
	degraded bool
}

// NewCache creates a statistics cache over source.
func NewCache(source datasource.TabularSource, opts Options, log *logrus.Logger) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.RefreshTimeout <= 0 {
		opts.RefreshTimeout = DefaultRefreshTimeout
	}
	if opts.BattingCategory == "" {
		opts.BattingCategory = "Batting Stats"
	}
	if opts.PitchingCategory == "" {
		opts.PitchingCategory = "Pitching Stats"
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Cache{
		source: source,
		opts:   opts,
		now:    now,
		logger: logger.NewPicksLogger(log),
	}
}

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.opts.TTL
}

// Fetch returns the statistics table, refreshing it when forced or expired.
// It fails with models.ErrSourceUnavailable only when the refresh fails and
// no earlier table exists. A caller whose ctx ends stops waiting with
// ctx.Err(); the shared refresh carries on for everyone else.
func (c *Cache) Fetch(ctx context.Context, forceRefresh bool) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if !forceRefresh {
		if e, ok := c.fresh(); ok {
			metrics.RecordCacheHit()
			metrics.UpdateCacheAge(c.now().Sub(e.fetchedAt).Seconds())
			return Result{Table: e.table.Clone(), Status: StatusOK, FetchedAt: e.fetchedAt}, nil
		}
	}
	metrics.RecordCacheMiss()

	ch := c.flight.DoChan(refreshKey, func() (interface{}, error) {
		if !forceRefresh {
			if e, ok := c.fresh(); ok {
				return Result{Table: e.table, Status: StatusOK, FetchedAt: e.fetchedAt}, nil
			}
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.RefreshTimeout)
		defer cancel()
		return c.refresh(loadCtx, forceRefresh)
	})

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return Result{}, r.Err
		}
		res := r.Val.(Result)
		// Callers sharing a flight must not share maps
		res.Table = res.Table.Clone()
		return res, nil
	}
}

// CacheInfo reports freshness without touching the source.
func (c *Cache) CacheInfo() Info {
	c.mu.RLock()
	e, degraded := c.current, c.degraded
	c.mu.RUnlock()

	if e == nil {
		return Info{Status: CacheStatusNone}
	}

	age := c.now().Sub(e.fetchedAt).Seconds()
	status := CacheStatusValid
	if degraded || age >= c.opts.TTL.Seconds() {
		status = CacheStatusExpired
	}
	return Info{Status: status, Records: len(e.table), AgeSeconds: &age}
}

// fresh returns the current entry when it is within TTL and not degraded.
func (c *Cache) fresh() (*entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.current == nil || c.degraded {
		return nil, false
	}
	if c.now().Sub(c.current.fetchedAt) >= c.opts.TTL {
		return nil, false
	}
	return c.current, true
}

func (c *Cache) refresh(ctx context.Context, forced bool) (Result, error) {
	start := c.now()

	table, err := c.load(ctx)
	if err == nil && len(table) == 0 {
		err = fmt.Errorf("%w: merged table is empty", models.ErrNoData)
	}
	if errors.Is(err, context.Canceled) {
		// Not a source failure; the cached entry keeps its standing
		c.logger.WithError(err).Warn("Statistics refresh cancelled")
		return Result{}, err
	}
	if err != nil {
		metrics.RecordRefreshFailure()
		return c.fallback(err)
	}

	e := &entry{table: table, fetchedAt: c.now()}
	c.mu.Lock()
	c.current = e
	c.degraded = false
	c.mu.Unlock()

	elapsed := c.now().Sub(start)
	metrics.RecordRefresh(elapsed.Seconds(), len(table))
	c.logger.LogCacheRefresh(len(table), forced, elapsed)

	return Result{Table: e.table, Status: StatusOK, FetchedAt: e.fetchedAt}, nil
}

// fallback serves the previous entry after a failed refresh.
func (c *Cache) fallback(cause error) (Result, error) {
	c.mu.Lock()
	prev := c.current
	if prev != nil {
		c.degraded = true
	}
	c.mu.Unlock()

	if prev == nil {
		if errors.Is(cause, models.ErrNoData) {
			c.logger.WithError(cause).Warn("Statistics source returned no mergeable teams")
			return Result{Table: models.StatTable{}, Status: StatusEmpty, Cause: cause}, nil
		}
		c.logger.WithError(cause).Error("Statistics refresh failed with no cached fallback")
		return Result{}, fmt.Errorf("%w: %s", models.ErrSourceUnavailable, cause.Error())
	}

	age := c.now().Sub(prev.fetchedAt).Seconds()
	metrics.RecordStaleServe(age)
	c.logger.LogStaleServe(len(prev.table), age, cause)

	return Result{Table: prev.table, Status: StatusStale, FetchedAt: prev.fetchedAt, Cause: cause}, nil
}

// load fetches both categories concurrently and merges them.
func (c *Cache) load(ctx context.Context) (models.StatTable, error) {
	var batting, pitching []models.RawRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := c.source.FetchCategory(gctx, c.opts.BattingCategory)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", c.opts.BattingCategory, err)
		}
		batting = rows
		return nil
	})
	g.Go(func() error {
		rows, err := c.source.FetchCategory(gctx, c.opts.PitchingCategory)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", c.opts.PitchingCategory, err)
		}
		pitching = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Merge(batting, pitching), nil
}

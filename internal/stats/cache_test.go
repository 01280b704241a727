package stats

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/clever-picks/internal/datasource"
	"github.com/yourusername/clever-picks/internal/models"
)

const (
	battingCategory  = "Batting Stats"
	pitchingCategory = "Pitching Stats"
)

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeSource serves fixed rows and can be switched into failure
type fakeSource struct {
	mu       sync.Mutex
	batting  []models.RawRecord
	pitching []models.RawRecord
	err      error
	calls    int32
	gate     chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		batting: []models.RawRecord{
			{"Team": "Yankees", "WOBA": "0.340", "XWOBA": "0.345", "XSLG": "0.450", "XBA": "0.255"},
			{"Team": "Red Sox", "WOBA": "0.320", "XWOBA": "0.325", "XSLG": "0.420", "XBA": "0.250"},
		},
		pitching: []models.RawRecord{
			{"Team": "yankees", "ERA": "3.40"},
			{"Team": "red sox", "ERA": "4.10"},
		},
	}
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FetchCategory(ctx context.Context, category string) ([]models.RawRecord, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if category == battingCategory {
		return f.batting, nil
	}
	return f.pitching, nil
}

func (f *fakeSource) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeSource) fetchCalls() int {
	return int(atomic.LoadInt32(&f.calls))
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestCache(src datasource.TabularSource, clock *fakeClock) *Cache {
	return NewCache(src, Options{
		TTL:              15 * time.Minute,
		BattingCategory:  battingCategory,
		PitchingCategory: pitchingCategory,
		Now:              clock.Now,
	}, quietLogger())
}

func TestCacheInfoNoCache(t *testing.T) {
	cache := newTestCache(newFakeSource(), newFakeClock())

	info := cache.CacheInfo()
	assert.Equal(t, CacheStatusNone, info.Status)
	assert.Equal(t, 0, info.Records)
	assert.Nil(t, info.AgeSeconds)
}

func TestCacheServesWithinTTLWithoutRefetch(t *testing.T) {
	src := newFakeSource()
	clock := newFakeClock()
	cache := newTestCache(src, clock)
	ctx := context.Background()

	first, err := cache.Fetch(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, first.Status)
	assert.Equal(t, 2, src.fetchCalls())

	clock.Advance(5 * time.Minute)
	second, err := cache.Fetch(ctx, false)
	require.NoError(t, err)

	assert.Equal(t, 2, src.fetchCalls())
	assert.Equal(t, first.Table, second.Table)
	assert.Equal(t, first.FetchedAt, second.FetchedAt)

	info := cache.CacheInfo()
	assert.Equal(t, CacheStatusValid, info.Status)
	assert.Equal(t, 2, info.Records)
	require.NotNil(t, info.AgeSeconds)
	assert.InDelta(t, 300, *info.AgeSeconds, 1e-9)
}

func TestCacheRefetchesAfterTTL(t *testing.T) {
	src := newFakeSource()
	clock := newFakeClock()
	cache := newTestCache(src, clock)
	ctx := context.Background()

	_, err := cache.Fetch(ctx, false)
	require.NoError(t, err)

	clock.Advance(15 * time.Minute)
	assert.Equal(t, CacheStatusExpired, cache.CacheInfo().Status)

	res, err := cache.Fetch(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, res.Status)
	assert.Equal(t, 4, src.fetchCalls())
	assert.Equal(t, clock.Now(), res.FetchedAt)
}

func TestCacheForceRefreshBypassesTTL(t *testing.T) {
	src := newFakeSource()
	cache := newTestCache(src, newFakeClock())
	ctx := context.Background()

	_, err := cache.Fetch(ctx, false)
	require.NoError(t, err)
	_, err = cache.Fetch(ctx, true)
	require.NoError(t, err)

	assert.Equal(t, 4, src.fetchCalls())
}

func TestCacheStaleFallbackAfterFailedForcedRefresh(t *testing.T) {
	src := newFakeSource()
	clock := newFakeClock()
	cache := newTestCache(src, clock)
	ctx := context.Background()

	first, err := cache.Fetch(ctx, false)
	require.NoError(t, err)

	src.setErr(datasource.NewDataSourceError("fake", datasource.ErrCodeNetworkError, "down", nil))
	clock.Advance(time.Minute)

	res, err := cache.Fetch(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, StatusStale, res.Status)
	assert.True(t, res.Stale())
	assert.Equal(t, first.Table, res.Table)
	assert.ErrorIs(t, res.Cause, models.ErrSourceUnavailable)

	assert.Equal(t, CacheStatusExpired, cache.CacheInfo().Status)

	// A later successful refresh clears the degraded state
	src.setErr(nil)
	res, err = cache.Fetch(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, res.Status)
	assert.Equal(t, CacheStatusValid, cache.CacheInfo().Status)
}

func TestCacheUnavailableWithoutPriorEntry(t *testing.T) {
	src := newFakeSource()
	src.setErr(errors.New("connection refused"))
	cache := newTestCache(src, newFakeClock())

	_, err := cache.Fetch(context.Background(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrSourceUnavailable)
	assert.Equal(t, CacheStatusNone, cache.CacheInfo().Status)
}

func TestCacheEmptyMergeIsNotStored(t *testing.T) {
	src := newFakeSource()
	src.pitching = []models.RawRecord{{"Team": "Mets"}}
	cache := newTestCache(src, newFakeClock())

	res, err := cache.Fetch(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, StatusEmpty, res.Status)
	assert.Empty(t, res.Table)
	assert.ErrorIs(t, res.Cause, models.ErrNoData)
	assert.Equal(t, CacheStatusNone, cache.CacheInfo().Status)
}

func TestCacheReturnsIndependentCopies(t *testing.T) {
	cache := newTestCache(newFakeSource(), newFakeClock())
	ctx := context.Background()

	first, err := cache.Fetch(ctx, false)
	require.NoError(t, err)
	first.Table[0].Stats[models.StatWOBA] = 9.99
	first.Table[0].Team = "Mutated"

	second, err := cache.Fetch(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "Yankees", second.Table[0].Team)
	assert.Equal(t, 0.340, second.Table[0].Stats[models.StatWOBA])
}

func TestCacheCoalescesConcurrentRefreshes(t *testing.T) {
	src := newFakeSource()
	src.gate = make(chan struct{})
	cache := newTestCache(src, newFakeClock())
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]Result, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := cache.Fetch(ctx, false)
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}

	// Let the goroutines pile up behind the first refresh
	time.Sleep(50 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	assert.Equal(t, 2, src.fetchCalls())
	for _, res := range results {
		assert.Len(t, res.Table, 2)
	}
}

func TestCacheRefreshOutlivesAbandonedCaller(t *testing.T) {
	src := newFakeSource()
	src.gate = make(chan struct{})
	cache := newTestCache(src, newFakeClock())

	ctx, cancel := context.WithCancel(context.Background())
	abandoned := make(chan error, 1)
	go func() {
		_, err := cache.Fetch(ctx, false)
		abandoned <- err
	}()
	require.Eventually(t, func() bool { return src.fetchCalls() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-abandoned:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting")
	}

	waiting := make(chan struct{})
	var res Result
	var err error
	go func() {
		defer close(waiting)
		res, err = cache.Fetch(context.Background(), false)
	}()
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	<-waiting

	require.NoError(t, err)
	assert.Equal(t, StatusOK, res.Status)
	assert.Len(t, res.Table, 2)
	assert.Equal(t, 2, src.fetchCalls())
	assert.Equal(t, CacheStatusValid, cache.CacheInfo().Status)
}

func TestCacheCancelledCallerLeavesEntryHealthy(t *testing.T) {
	src := newFakeSource()
	cache := newTestCache(src, newFakeClock())
	_, err := cache.Fetch(context.Background(), false)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = cache.Fetch(ctx, true)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, src.fetchCalls())
	assert.Equal(t, CacheStatusValid, cache.CacheInfo().Status)

	res, err := cache.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, res.Status)
}

func TestCacheRefreshTimeoutIsSourceFailure(t *testing.T) {
	src := newFakeSource()
	src.gate = make(chan struct{})
	defer close(src.gate)
	clock := newFakeClock()
	cache := NewCache(src, Options{
		TTL:              15 * time.Minute,
		BattingCategory:  battingCategory,
		PitchingCategory: pitchingCategory,
		RefreshTimeout:   20 * time.Millisecond,
		Now:              clock.Now,
	}, quietLogger())

	_, err := cache.Fetch(context.Background(), false)

	assert.ErrorIs(t, err, models.ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "deadline exceeded")
	assert.Equal(t, CacheStatusNone, cache.CacheInfo().Status)
}

type mockTabularSource struct {
	mock.Mock
}

func (m *mockTabularSource) Name() string { return "mock" }

func (m *mockTabularSource) FetchCategory(ctx context.Context, category string) ([]models.RawRecord, error) {
	args := m.Called(ctx, category)
	rows, _ := args.Get(0).([]models.RawRecord)
	return rows, args.Error(1)
}

func TestCacheRequestsConfiguredCategories(t *testing.T) {
	src := &mockTabularSource{}
	src.On("FetchCategory", mock.Anything, "Hitting").Return([]models.RawRecord{{"Team": "Cubs", "WOBA": "0.31"}}, nil).Once()
	src.On("FetchCategory", mock.Anything, "Arms").Return([]models.RawRecord{{"Team": "Cubs", "ERA": "3.9"}}, nil).Once()

	cache := NewCache(src, Options{BattingCategory: "Hitting", PitchingCategory: "Arms"}, quietLogger())
	res, err := cache.Fetch(context.Background(), false)

	require.NoError(t, err)
	require.Len(t, res.Table, 1)
	assert.Equal(t, DefaultTTL, cache.TTL())
	src.AssertExpectations(t)
}

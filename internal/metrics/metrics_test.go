package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordCacheCounters(t *testing.T) {
	InitRegistry()

	hits := testutil.ToFloat64(StatsCacheHitsTotal)
	misses := testutil.ToFloat64(StatsCacheMissesTotal)

	RecordCacheHit()
	RecordCacheMiss()
	RecordCacheMiss()

	assert.Equal(t, hits+1, testutil.ToFloat64(StatsCacheHitsTotal))
	assert.Equal(t, misses+2, testutil.ToFloat64(StatsCacheMissesTotal))
}

func TestRecordRefreshSetsGauges(t *testing.T) {
	InitRegistry()

	RecordRefresh(0.25, 30)
	assert.Equal(t, 30.0, testutil.ToFloat64(StatsCacheRecords))
	assert.Equal(t, 0.0, testutil.ToFloat64(StatsCacheAgeSeconds))

	RecordStaleServe(1200)
	assert.Equal(t, 1200.0, testutil.ToFloat64(StatsCacheAgeSeconds))
}

func TestRecordPicksBySource(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(PicksGeneratedTotal.WithLabelValues("EV_PLUS"))
	RecordPicks("EV_PLUS", 3)
	assert.Equal(t, before+3, testutil.ToFloat64(PicksGeneratedTotal.WithLabelValues("EV_PLUS")))
}

func TestSourceTimer(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(SourceRequestsTotal.WithLabelValues("odds_api", "ok"))
	NewSourceTimer("odds_api").Observe("ok")
	assert.Equal(t, before+1, testutil.ToFloat64(SourceRequestsTotal.WithLabelValues("odds_api", "ok")))
}

func TestUpdateOddsRequestsRemaining(t *testing.T) {
	tests := []struct {
		name      string
		remaining float64
	}{
		{"plenty", 480},
		{"exhausted", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			UpdateOddsRequestsRemaining(tt.remaining)
			assert.Equal(t, tt.remaining, testutil.ToFloat64(OddsRequestsRemaining))
		})
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	RecordDigestRun("success")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "clever_picks_digest_runs_total"))
}

package service

import (
	"time"

	"github.com/yourusername/clever-picks/internal/models"
	"github.com/yourusername/clever-picks/internal/stats"
)

// DataState describes the statistics snapshot a report was built from.
type DataState struct {
	Status    stats.Status `json:"data_status"`
	FetchedAt time.Time    `json:"fetched_at"`
	Warning   string       `json:"warning,omitempty"`
}

// Stale reports whether the snapshot is an expired fallback.
func (d DataState) Stale() bool {
	return d.Status == stats.StatusStale
}

// Empty reports whether no team data was available at all.
func (d DataState) Empty() bool {
	return d.Status == stats.StatusEmpty
}

func stateOf(res stats.Result) DataState {
	state := DataState{Status: res.Status, FetchedAt: res.FetchedAt}
	if res.Cause != nil {
		state.Warning = res.Cause.Error()
	}
	return state
}

// StatsReport lists the leading rows of the statistics table.
type StatsReport struct {
	DataState
	Total int              `json:"total"`
	Teams models.StatTable `json:"teams"`
}

// BestReport lists the top statistical picks.
type BestReport struct {
	DataState
	Picks []models.StatPick `json:"picks"`
}

// LookupReport is one team's row and assessment.
type LookupReport struct {
	DataState
	Record     models.TeamRecord `json:"record"`
	Assessment models.Assessment `json:"assessment"`
}

// EVReport lists enhanced EV+ picks.
type EVReport struct {
	DataState
	MinEV float64         `json:"min_ev"`
	Games int             `json:"games"`
	Picks []models.EVPick `json:"picks"`
}

// PicksReport is a merged, ranked recommendation list.
type PicksReport struct {
	DataState
	RunID           string                  `json:"run_id"`
	OddsAvailable   bool                    `json:"odds_available"`
	OddsError       string                  `json:"odds_error,omitempty"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

// SmartReport lists opponent-adjusted EV+ picks.
type SmartReport struct {
	DataState
	Picks []models.SmartPick `json:"picks"`
}

// StatusReport summarizes cache freshness and collaborator configuration.
type StatusReport struct {
	Cache                 stats.Info `json:"cache"`
	SheetsConfigured      bool       `json:"sheets_configured"`
	OddsConfigured        bool       `json:"odds_configured"`
	OddsRequestsRemaining *float64   `json:"odds_requests_remaining"`
}

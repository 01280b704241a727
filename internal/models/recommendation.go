package models

import "time"

// Source tags where a recommendation came from.
type Source string

// Recommendation sources
const (
	SourceEVPlus      Source = "EV_PLUS"
	SourceStatistical Source = "STATISTICAL"
)

// Confidence is the qualitative confidence attached to a pick.
type Confidence string

// Confidence levels
const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

// Weight maps a confidence level to its ranking multiplier.
func (c Confidence) Weight() float64 {
	switch c {
	case ConfidenceHigh:
		return 1.0
	case ConfidenceMedium:
		return 0.7
	default:
		return 0.4
	}
}

// ScoredTeam is a team with its table-relative composite score.
type ScoredTeam struct {
	Record            TeamRecord `json:"record"`
	CompositeScore    float64    `json:"composite_score"`
	ContributingStats []Stat     `json:"contributing_stats"`
}

// StatPick is a statistical recommendation built from a ScoredTeam.
type StatPick struct {
	Team       string   `json:"team"`
	Score      float64  `json:"score"`
	Confidence int      `json:"confidence"`
	Reasons    []string `json:"reasons"`
	Rating     string   `json:"rating"`
	StatsUsed  []Stat   `json:"stats_used"`
}

// Assessment is the single-team heuristic verdict.
type Assessment struct {
	Rating   string  `json:"rating"`
	Analysis string  `json:"analysis"`
	Score    float64 `json:"score"`
}

// Recommendation is one entry of the final ranked list. Odds, Bookmaker,
// EVPercentage and GameTime are nil for statistical picks.
type Recommendation struct {
	Team               string     `json:"team"`
	Source             Source     `json:"source"`
	CompositeScore     float64    `json:"composite_score"`
	PredictionRating   string     `json:"prediction_rating"`
	PredictionAnalysis string     `json:"prediction_analysis"`
	PredictionScore    float64    `json:"prediction_score"`
	Confidence         Confidence `json:"confidence_level"`
	Opponent           string     `json:"opponent,omitempty"`
	Bookmaker          *string    `json:"bookmaker"`
	Odds               *int       `json:"odds"`
	TrueProbability    *float64   `json:"true_probability"`
	ImpliedProbability *float64   `json:"implied_probability"`
	EVPercentage       *float64   `json:"ev_percentage"`
	GameTime           *time.Time `json:"game_time"`
}

// HasOdds reports whether the recommendation carries market data.
func (r Recommendation) HasOdds() bool {
	return r.Odds != nil
}

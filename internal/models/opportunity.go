package models

import "time"

// EVOpportunity is a priced side whose model probability beats the market.
type EVOpportunity struct {
	Team               string           `json:"team"`
	Opponent           string           `json:"opponent"`
	StatsTeam          string           `json:"stats_team"`
	GameTime           time.Time        `json:"game_time"`
	Bookmaker          string           `json:"bookmaker"`
	Odds               int              `json:"odds"`
	TrueProbability    float64          `json:"true_probability"`
	ImpliedProbability float64          `json:"implied_probability"`
	ExpectedValue      float64          `json:"expected_value"`
	EVPercentage       float64          `json:"ev_percentage"`
	TeamStats          map[Stat]float64 `json:"team_stats,omitempty"`
}

// EVPick is an opportunity annotated with the single-team assessment.
type EVPick struct {
	EVOpportunity
	PredictionRating   string     `json:"prediction_rating"`
	PredictionAnalysis string     `json:"prediction_analysis"`
	PredictionScore    float64    `json:"prediction_score"`
	Confidence         Confidence `json:"confidence_level"`
}

// SmartPick is an EV pick re-scored against its opponent.
type SmartPick struct {
	EVPick
	TeamScore     float64 `json:"team_score"`
	OpponentScore float64 `json:"opponent_score"`
	ScoreBoost    float64 `json:"score_boost"`
}

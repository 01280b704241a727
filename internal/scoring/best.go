package scoring

import (
	"github.com/yourusername/clever-picks/internal/models"
)

// reasonRule fires when a statistic reaches its threshold.
type reasonRule struct {
	threshold float64
	reason    string
}

var reasonRules = map[models.Stat]reasonRule{
	models.StatWOBA:  {0.360, "Excellent overall hitting (high wOBA)"},
	models.StatXSLG:  {0.480, "Strong expected power numbers"},
	models.StatXBA:   {0.270, "High expected batting average"},
	models.StatXWOBA: {0.350, "Strong expected contact quality"},
}

const maxReasons = 3

// BestTeams returns the top count teams of ScoreAll as statistical picks.
func BestTeams(table models.StatTable, count int) []models.StatPick {
	if count <= 0 || len(table) == 0 {
		return []models.StatPick{}
	}

	scored := ScoreAll(table)
	if count > len(scored) {
		count = len(scored)
	}

	picks := make([]models.StatPick, 0, count)
	for _, st := range scored[:count] {
		picks = append(picks, toStatPick(st))
	}
	return picks
}

func toStatPick(st models.ScoredTeam) models.StatPick {
	confidence := int(st.CompositeScore * 100)
	if confidence < 50 {
		confidence = 50
	}
	if confidence > 95 {
		confidence = 95
	}

	return models.StatPick{
		Team:       st.Record.Team,
		Score:      st.CompositeScore,
		Confidence: confidence,
		Reasons:    reasons(st),
		Rating:     Rating(st.CompositeScore),
		StatsUsed:  st.ContributingStats,
	}
}

func reasons(st models.ScoredTeam) []string {
	var out []string
	for _, stat := range st.ContributingStats {
		rule, ok := reasonRules[stat]
		if !ok {
			continue
		}
		if v, known := st.Record.Value(stat); known && v >= rule.threshold {
			out = append(out, rule.reason)
		}
	}

	if len(out) == 0 {
		switch n := len(st.ContributingStats); {
		case n >= 4:
			out = append(out, "Strong across multiple offensive categories")
		case n >= 2:
			out = append(out, "Good performance in key statistics")
		default:
			out = append(out, "Limited data available")
		}
	}

	if len(out) > maxReasons {
		out = out[:maxReasons]
	}
	return out
}

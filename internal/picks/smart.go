package picks

import (
	"sort"

	"github.com/yourusername/clever-picks/internal/models"
)

// DefaultSmartLimit is how many smart picks are returned.
const DefaultSmartLimit = 5

const opponentFactor = 0.5

type strengthTerm struct {
	stat     models.Stat
	baseline float64
	weight   float64
	fallback float64
}

var strengthTerms = []strengthTerm{
	{models.StatWOBA, 0.300, 35, 0.320},
	{models.StatXWOBA, 0.300, 25, 0.320},
	{models.StatXSLG, 0.380, 25, 0.400},
	{models.StatXBA, 0.240, 15, 0.250},
}

// Strength is the unnormalized offensive strength used to compare opponents.
// It can be negative.
func Strength(record models.TeamRecord) float64 {
	score := 0.0
	for _, t := range strengthTerms {
		score += (record.ValueOr(t.stat, t.fallback) - t.baseline) * t.weight
	}
	return score
}

// SmartRank re-scores EV+ picks against their opponents and returns the top
// limit by score boost. Teams missing from the table score 0.
func SmartRank(table models.StatTable, evPicks []models.EVPick, limit int) []models.SmartPick {
	out := make([]models.SmartPick, 0, len(evPicks))
	for _, p := range evPicks {
		sp := models.SmartPick{EVPick: p}
		if r, ok := lookup(table, p.StatsTeam, p.Team); ok {
			sp.TeamScore = Strength(r)
		}
		if p.Opponent != "" {
			if r, ok := lookup(table, "", p.Opponent); ok {
				sp.OpponentScore = Strength(r)
			}
		}
		sp.ScoreBoost = sp.TeamScore - sp.OpponentScore*opponentFactor
		out = append(out, sp)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScoreBoost > out[j].ScoreBoost
	})

	if limit < 0 {
		limit = 0
	}
	if limit < len(out) {
		out = out[:limit]
	}
	return out
}

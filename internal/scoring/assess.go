package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/yourusername/clever-picks/internal/models"
)

// leagueAverage is a fixed reference point for single-team assessment.
type leagueAverage struct {
	stat    models.Stat
	average float64
	weight  float64
}

// leagueAverages drive ScoreOne. Statistics outside Weights use 0.1.
var leagueAverages = []leagueAverage{
	{models.StatWOBA, 0.320, 0.35},
	{models.StatOPSPlus, 100, 0.1},
	{models.StatXSLG, 0.430, 0.25},
	{models.StatXBA, 0.250, 0.15},
	{models.StatWRCPlus, 100, 0.1},
	{models.StatISO, 0.150, 0.1},
}

const maxFactors = 3

// ScoreOne assesses a single team against league averages. It is a separate
// heuristic from ScoreAll and the two need not agree on the same team.
func ScoreOne(record models.TeamRecord) models.Assessment {
	score := 0.0
	var factors []string

	for _, la := range leagueAverages {
		v, ok := record.Value(la.stat)
		if !ok {
			continue
		}
		ratio := v / la.average
		if v > la.average {
			score += (ratio - 1) * la.weight
			if v > la.average*1.1 {
				factors = append(factors, "Strong "+string(la.stat))
			}
		} else {
			score -= (1 - ratio) * la.weight
			if v < la.average*0.9 {
				factors = append(factors, "Weak "+string(la.stat))
			}
		}
	}

	score = clamp(score+0.5, 0, 1)

	analysis := analysisFor(score)
	if len(factors) > 0 {
		if len(factors) > maxFactors {
			factors = factors[:maxFactors]
		}
		analysis = fmt.Sprintf("%s. Key factors: %s", analysis, strings.Join(factors, ", "))
	}

	return models.Assessment{
		Rating:   Rating(score),
		Analysis: analysis,
		Score:    score,
	}
}

func analysisFor(score float64) string {
	switch {
	case score > 0.7:
		return "Strong betting candidate with multiple favorable metrics"
	case score > 0.5:
		return "Decent option with some positive indicators"
	case score > 0.3:
		return "Average team with mixed statistical performance"
	default:
		return "Below-average team, consider avoiding"
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo || math.IsNaN(v) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

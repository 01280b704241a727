// Package scoring ranks teams by a weighted, normalized composite of their
// advanced batting statistics.
package scoring

import (
	"sort"

	"github.com/yourusername/clever-picks/internal/models"
)

// WeightedStat pairs a statistic with its share of the composite.
type WeightedStat struct {
	Stat   models.Stat
	Weight float64
}

// Weights is the fixed composite weighting, in evaluation order.
var Weights = []WeightedStat{
	{models.StatWOBA, 0.35},
	{models.StatXWOBA, 0.25},
	{models.StatXSLG, 0.25},
	{models.StatXBA, 0.15},
}

// Rating labels
const (
	RatingExcellent    = "Excellent"
	RatingVeryGood     = "Very Good"
	RatingGood         = "Good"
	RatingAverage      = "Average"
	RatingBelowAverage = "Below Average"
	RatingPoor         = "Poor"
	RatingUnknown      = "Unknown"
)

// Rating maps a composite score to its label.
func Rating(score float64) string {
	switch {
	case score >= 0.80:
		return RatingExcellent
	case score >= 0.65:
		return RatingVeryGood
	case score >= 0.50:
		return RatingGood
	case score >= 0.35:
		return RatingAverage
	case score >= 0.20:
		return RatingBelowAverage
	default:
		return RatingPoor
	}
}

// ScoreAll scores every team relative to the rest of the table and returns
// them by composite score, highest first.
//
// Each weighted statistic with at least one known value is min-max
// normalized across the table. A team missing the value gets 0 for it. The
// weight is counted once per statistic, including when every team has the
// same value and the statistic contributes nothing. The composite is the
// weighted sum divided by the weight used, or 0 when no statistic is usable.
func ScoreAll(table models.StatTable) []models.ScoredTeam {
	scored := make([]models.ScoredTeam, len(table))
	sums := make([]float64, len(table))
	for i, r := range table {
		scored[i] = models.ScoredTeam{Record: r.Clone(), ContributingStats: []models.Stat{}}
	}

	weightUsed := 0.0
	for _, ws := range Weights {
		lo, hi, ok := bounds(table, ws.Stat)
		if !ok {
			continue
		}
		weightUsed += ws.Weight

		// Halved so the spread of two finite extremes cannot overflow
		spread := hi/2 - lo/2
		for i, r := range table {
			v, known := r.Value(ws.Stat)
			if !known {
				continue
			}
			scored[i].ContributingStats = append(scored[i].ContributingStats, ws.Stat)
			if spread > 0 {
				sums[i] += (v/2 - lo/2) / spread * ws.Weight
			}
		}
	}

	for i := range scored {
		if weightUsed > 0 {
			scored[i].CompositeScore = sums[i] / weightUsed
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CompositeScore > scored[j].CompositeScore
	})
	return scored
}

// bounds returns the min and max known value of stat across the table.
func bounds(table models.StatTable, stat models.Stat) (lo, hi float64, ok bool) {
	for _, r := range table {
		v, known := r.Value(stat)
		if !known {
			continue
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, ok
}

package probability

import (
	"github.com/yourusername/clever-picks/internal/models"
)

// Probability bounds for the stat-driven model
const (
	BaseProbability = 0.50
	MinProbability  = 0.25
	MaxProbability  = 0.75
	compositeScale  = 0.15
)

// baseline is the reference point a stat must exceed to add to the composite.
type baseline struct {
	stat   models.Stat
	base   float64
	scale  float64
	weight float64
	// fallback is used when the team has no value for stat
	fallback float64
}

var baselines = []baseline{
	{models.StatWOBA, 0.300, 0.100, 0.35, 0.320},
	{models.StatXWOBA, 0.300, 0.100, 0.25, 0.320},
	{models.StatXSLG, 0.380, 0.100, 0.25, 0.400},
	{models.StatXBA, 0.240, 0.050, 0.15, 0.250},
}

// TrueProbability estimates a team's win probability from its batting
// statistics. Each stat above its baseline adds to a weighted composite;
// below-baseline stats count as zero. The result is always in
// [MinProbability, MaxProbability].
func TrueProbability(record models.TeamRecord) float64 {
	composite := 0.0
	for _, b := range baselines {
		v := record.ValueOr(b.stat, b.fallback)
		if s := (v - b.base) / b.scale; s > 0 {
			composite += s * b.weight
		}
	}

	p := BaseProbability + composite*compositeScale
	if p < MinProbability {
		return MinProbability
	}
	if p > MaxProbability {
		return MaxProbability
	}
	return p
}

package picks

import (
	"github.com/yourusername/clever-picks/internal/models"
	"github.com/yourusername/clever-picks/internal/scoring"
)

const notInDataset = "Team not in statistical dataset"

// Enhance attaches the single-team assessment and a confidence level to the
// first count opportunities.
func Enhance(table models.StatTable, opportunities []models.EVOpportunity, count int) []models.EVPick {
	if count > len(opportunities) {
		count = len(opportunities)
	}
	if count < 0 {
		count = 0
	}

	out := make([]models.EVPick, 0, count)
	for _, opp := range opportunities[:count] {
		record, ok := lookup(table, opp.StatsTeam, opp.Team)
		if !ok {
			out = append(out, models.EVPick{
				EVOpportunity:      opp,
				PredictionRating:   scoring.RatingUnknown,
				PredictionAnalysis: notInDataset,
				Confidence:         models.ConfidenceLow,
			})
			continue
		}

		a := scoring.ScoreOne(record)
		out = append(out, models.EVPick{
			EVOpportunity:      opp,
			PredictionRating:   a.Rating,
			PredictionAnalysis: a.Analysis,
			PredictionScore:    a.Score,
			Confidence:         ConfidenceFor(opp.EVPercentage, a.Score),
		})
	}
	return out
}

// ConfidenceFor grades an opportunity by its edge and the team's assessment.
func ConfidenceFor(evPercentage, predictionScore float64) models.Confidence {
	switch {
	case evPercentage >= 10 && predictionScore >= 0.6:
		return models.ConfidenceHigh
	case evPercentage >= 5 || predictionScore >= 0.5:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

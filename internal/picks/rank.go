package picks

import (
	"sort"

	"github.com/yourusername/clever-picks/internal/models"
)

// Composite weights
const (
	evWeight         = 0.4
	predictionWeight = 40
	confidenceWeight = 20
)

const defaultStatAnalysis = "Strong statistical indicators"

// CompositeScore ranks a pick. The EV term only applies to picks with market
// data and a positive edge.
func CompositeScore(evPercentage float64, hasOdds bool, predictionScore float64, c models.Confidence) float64 {
	score := 0.0
	if hasOdds && evPercentage > 0 {
		score += evPercentage * evWeight
	}
	score += predictionScore * predictionWeight
	score += c.Weight() * confidenceWeight
	return score
}

// Rank merges EV+ picks and statistical picks into at most count
// recommendations, highest composite first. A team present in both lists is
// kept only as its EV+ pick.
func Rank(statPicks []models.StatPick, evPicks []models.EVPick, count int) []models.Recommendation {
	seen := make(map[string]struct{}, len(statPicks)+len(evPicks))
	recs := make([]models.Recommendation, 0, len(statPicks)+len(evPicks))

	for _, p := range evPicks {
		key := dedupeKey(p.StatsTeam, p.Team)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		recs = append(recs, fromEVPick(p))
	}

	for _, p := range statPicks {
		key := dedupeKey("", p.Team)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		recs = append(recs, fromStatPick(p))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CompositeScore > recs[j].CompositeScore
	})

	if count < 0 {
		count = 0
	}
	if count < len(recs) {
		recs = recs[:count]
	}
	return recs
}

// fromEVPick points into p, which is already a copy.
func fromEVPick(p models.EVPick) models.Recommendation {
	rec := models.Recommendation{
		Team:               p.Team,
		Source:             models.SourceEVPlus,
		CompositeScore:     CompositeScore(p.EVPercentage, true, p.PredictionScore, p.Confidence),
		PredictionRating:   p.PredictionRating,
		PredictionAnalysis: p.PredictionAnalysis,
		PredictionScore:    p.PredictionScore,
		Confidence:         p.Confidence,
		Opponent:           p.Opponent,
		Bookmaker:          &p.Bookmaker,
		Odds:               &p.Odds,
		TrueProbability:    &p.TrueProbability,
		ImpliedProbability: &p.ImpliedProbability,
		EVPercentage:       &p.EVPercentage,
	}
	if !p.GameTime.IsZero() {
		rec.GameTime = &p.GameTime
	}
	return rec
}

func fromStatPick(p models.StatPick) models.Recommendation {
	analysis := defaultStatAnalysis
	if len(p.Reasons) > 0 {
		analysis = p.Reasons[0]
	}
	return models.Recommendation{
		Team:               p.Team,
		Source:             models.SourceStatistical,
		CompositeScore:     CompositeScore(0, false, p.Score, models.ConfidenceMedium),
		PredictionRating:   p.Rating,
		PredictionAnalysis: analysis,
		PredictionScore:    p.Score,
		Confidence:         models.ConfidenceMedium,
	}
}

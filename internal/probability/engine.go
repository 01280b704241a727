package probability

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/clever-picks/internal/logger"
	"github.com/yourusername/clever-picks/internal/metrics"
	"github.com/yourusername/clever-picks/internal/models"
)

// DefaultMinEV is the expected value threshold for an EV+ opportunity.
const DefaultMinEV = 0.05

// opportunityStats are copied onto each opportunity for display.
var opportunityStats = []models.Stat{models.StatWOBA, models.StatXBA, models.StatXSLG, models.StatXWOBA}

// Engine scans market quotes against the statistics table.
type Engine struct {
	logger *logger.PicksLogger
}

// NewEngine creates an Engine.
func NewEngine(log *logrus.Logger) *Engine {
	return &Engine{logger: logger.NewPicksLogger(log)}
}

// BestOdds returns the highest American price offered on team across all
// bookmakers of a game. Earlier bookmakers win ties.
func BestOdds(quote models.MarketQuote, team string) (bookmaker string, odds int, ok bool) {
	want := models.TeamKey(NormalizeTeamName(team))
	for _, b := range quote.Bookmakers {
		for _, o := range b.Outcomes {
			if models.TeamKey(NormalizeTeamName(o.Team)) != want {
				continue
			}
			if validate(o.AmericanOdds) != nil {
				continue
			}
			if !ok || o.AmericanOdds > odds {
				bookmaker, odds, ok = b.Title, o.AmericanOdds, true
			}
		}
	}
	return bookmaker, odds, ok
}

// FindOpportunities returns every side of every game whose expected value
// reaches minEV, sorted by EV percentage, highest first. Teams without a
// statistics row or without a valid price are skipped.
func (e *Engine) FindOpportunities(table models.StatTable, quotes []models.MarketQuote, minEV float64) []models.EVOpportunity {
	opportunities := []models.EVOpportunity{}
	matched := 0

	for _, q := range quotes {
		for _, team := range []string{q.HomeTeam, q.AwayTeam} {
			record, ok := MatchTeam(table, team)
			if !ok {
				continue
			}
			matched++

			opp, ok := evaluate(q, team, record)
			if !ok || opp.ExpectedValue < minEV {
				continue
			}
			opportunities = append(opportunities, opp)
		}
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].EVPercentage > opportunities[j].EVPercentage
	})

	metrics.RecordEVOpportunities(len(opportunities))
	e.logger.LogEVScan(len(quotes), matched, len(opportunities), minEV)
	return opportunities
}

func evaluate(q models.MarketQuote, team string, record models.TeamRecord) (models.EVOpportunity, bool) {
	bookmaker, odds, ok := BestOdds(q, team)
	if !ok {
		return models.EVOpportunity{}, false
	}

	p := TrueProbability(record)
	ev, err := ExpectedValue(p, odds)
	if err != nil {
		return models.EVOpportunity{}, false
	}
	implied, err := ImpliedProbability(odds)
	if err != nil {
		return models.EVOpportunity{}, false
	}

	stats := make(map[models.Stat]float64, len(opportunityStats))
	for _, s := range opportunityStats {
		if v, known := record.Value(s); known {
			stats[s] = v
		}
	}

	return models.EVOpportunity{
		Team:               team,
		Opponent:           q.Opponent(team),
		StatsTeam:          record.Team,
		GameTime:           q.CommenceTime,
		Bookmaker:          bookmaker,
		Odds:               odds,
		TrueProbability:    p,
		ImpliedProbability: implied,
		ExpectedValue:      ev,
		EVPercentage:       ev * 100,
		TeamStats:          stats,
	}, true
}

package probability

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/clever-picks/internal/models"
)

func TestOddsConversions(t *testing.T) {
	tests := []struct {
		name    string
		odds    int
		implied float64
		decimal float64
	}{
		{"standard juice", -110, 0.5238, 1.9091},
		{"heavy favorite", -200, 0.6667, 1.5},
		{"even money favorite", -100, 0.5, 2.0},
		{"even money underdog", 100, 0.5, 2.0},
		{"underdog", 150, 0.4, 2.5},
		{"long shot", 400, 0.2, 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			implied, err := ImpliedProbability(tt.odds)
			require.NoError(t, err)
			assert.InDelta(t, tt.implied, implied, 1e-4)

			dec, err := DecimalOdds(tt.odds)
			require.NoError(t, err)
			assert.InDelta(t, tt.decimal, dec, 1e-4)

			assert.InDelta(t, 1/dec, implied, 1e-9)
		})
	}
}

func TestInvalidOdds(t *testing.T) {
	for _, odds := range []int{0, 50, -99, 99} {
		_, err := ImpliedProbability(odds)
		assert.True(t, errors.Is(err, models.ErrInvalidOdds), "odds %d", odds)

		_, err = DecimalOdds(odds)
		assert.True(t, errors.Is(err, models.ErrInvalidOdds), "odds %d", odds)

		_, err = ExpectedValue(0.5, odds)
		assert.True(t, errors.Is(err, models.ErrInvalidOdds), "odds %d", odds)
	}
}

func TestExpectedValue(t *testing.T) {
	ev, err := ExpectedValue(0.55, -110)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, ev, 1e-3)

	ev, err = ExpectedValue(0.5, 100)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, ev, 1e-12)
}

func TestExpectedValueMonotonicInProbability(t *testing.T) {
	for _, odds := range []int{-250, -110, 100, 135, 300} {
		prev, err := ExpectedValue(0, odds)
		require.NoError(t, err)
		for p := 0.01; p <= 1.0; p += 0.01 {
			ev, err := ExpectedValue(p, odds)
			require.NoError(t, err)
			assert.Greater(t, ev, prev, "odds %d p %.2f", odds, p)
			prev = ev
		}
	}
}

func record(name string, stats map[models.Stat]float64) models.TeamRecord {
	return models.TeamRecord{Team: name, Stats: stats}
}

func TestTrueProbability(t *testing.T) {
	tests := []struct {
		name  string
		stats map[models.Stat]float64
		want  float64
	}{
		{
			name: "one scale above every baseline",
			stats: map[models.Stat]float64{
				models.StatWOBA: 0.400, models.StatXWOBA: 0.400, models.StatXSLG: 0.480, models.StatXBA: 0.290,
			},
			want: 0.65,
		},
		{
			name: "below every baseline floors at zero",
			stats: map[models.Stat]float64{
				models.StatWOBA: 0.250, models.StatXWOBA: 0.250, models.StatXSLG: 0.300, models.StatXBA: 0.200,
			},
			want: 0.50,
		},
		{
			name:  "missing stats use defaults",
			stats: map[models.Stat]float64{},
			want:  0.53,
		},
		{
			name: "clamped at upper bound",
			stats: map[models.Stat]float64{
				models.StatWOBA: 1.0, models.StatXWOBA: 1.0, models.StatXSLG: 1.0, models.StatXBA: 1.0,
			},
			want: MaxProbability,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TrueProbability(record("Team", tt.stats)), 1e-9)
		})
	}
}

func TestTrueProbabilityBounds(t *testing.T) {
	for _, v := range []float64{-1, 0, 0.1, 0.3, 0.5, 2} {
		p := TrueProbability(record("Team", map[models.Stat]float64{
			models.StatWOBA: v, models.StatXWOBA: v, models.StatXSLG: v, models.StatXBA: v,
		}))
		assert.GreaterOrEqual(t, p, MinProbability)
		assert.LessOrEqual(t, p, MaxProbability)
	}
}

func TestMatchTeam(t *testing.T) {
	table := models.StatTable{
		record("Boston Red Sox", nil),
		record("New York Yankees", nil),
		record("Mets", nil),
	}

	tests := []struct {
		market string
		want   string
		found  bool
	}{
		{"New York Yankees", "New York Yankees", true},
		{"NY Yankees", "New York Yankees", true},
		{"  boston red sox ", "Boston Red Sox", true},
		{"Red Sox", "Boston Red Sox", true},
		{"New York Mets", "Mets", true},
		{"NY Mets", "Mets", true},
		{"Seattle Mariners", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.market, func(t *testing.T) {
			got, ok := MatchTeam(table, tt.market)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got.Team)
		})
	}
}

func TestNormalizeAndNickname(t *testing.T) {
	assert.Equal(t, "Los Angeles Dodgers", NormalizeTeamName(" LA Dodgers "))
	assert.Equal(t, "Houston Astros", NormalizeTeamName("Houston Astros"))
	assert.Equal(t, "Sox", Nickname("Boston Red Sox"))
	assert.Equal(t, "", Nickname("   "))
}

func yankeesGame() models.MarketQuote {
	return models.MarketQuote{
		GameID:       "g1",
		HomeTeam:     "New York Yankees",
		AwayTeam:     "Boston Red Sox",
		CommenceTime: time.Date(2024, 7, 4, 23, 5, 0, 0, time.UTC),
		Bookmakers: []models.BookmakerQuote{
			{Key: "draftkings", Title: "DraftKings", Outcomes: []models.OutcomePrice{
				{Team: "New York Yankees", AmericanOdds: -110},
				{Team: "Boston Red Sox", AmericanOdds: -110},
			}},
			{Key: "fanduel", Title: "FanDuel", Outcomes: []models.OutcomePrice{
				{Team: "New York Yankees", AmericanOdds: 105},
				{Team: "Boston Red Sox", AmericanOdds: -125},
			}},
		},
	}
}

func TestBestOdds(t *testing.T) {
	book, odds, ok := BestOdds(yankeesGame(), "New York Yankees")
	require.True(t, ok)
	assert.Equal(t, "FanDuel", book)
	assert.Equal(t, 105, odds)

	book, odds, ok = BestOdds(yankeesGame(), "Boston Red Sox")
	require.True(t, ok)
	assert.Equal(t, "DraftKings", book)
	assert.Equal(t, -110, odds)

	_, _, ok = BestOdds(yankeesGame(), "Seattle Mariners")
	assert.False(t, ok)
}

func TestBestOddsSkipsInvalidPrices(t *testing.T) {
	q := models.MarketQuote{
		HomeTeam: "A", AwayTeam: "B",
		Bookmakers: []models.BookmakerQuote{
			{Title: "Broken", Outcomes: []models.OutcomePrice{{Team: "A", AmericanOdds: 0}}},
		},
	}
	_, _, ok := BestOdds(q, "A")
	assert.False(t, ok)
}

func statsTable() models.StatTable {
	return models.StatTable{
		record("New York Yankees", map[models.Stat]float64{
			models.StatWOBA: 0.400, models.StatXWOBA: 0.400, models.StatXSLG: 0.480, models.StatXBA: 0.290,
		}),
		record("Boston Red Sox", map[models.Stat]float64{
			models.StatWOBA: 0.250, models.StatXWOBA: 0.250, models.StatXSLG: 0.300, models.StatXBA: 0.200,
		}),
	}
}

func TestFindOpportunities(t *testing.T) {
	engine := NewEngine(nil)

	opps := engine.FindOpportunities(statsTable(), []models.MarketQuote{yankeesGame()}, DefaultMinEV)

	require.Len(t, opps, 1)
	opp := opps[0]
	assert.Equal(t, "New York Yankees", opp.Team)
	assert.Equal(t, "Boston Red Sox", opp.Opponent)
	assert.Equal(t, "New York Yankees", opp.StatsTeam)
	assert.Equal(t, "FanDuel", opp.Bookmaker)
	assert.Equal(t, 105, opp.Odds)
	assert.InDelta(t, 0.65, opp.TrueProbability, 1e-9)
	assert.InDelta(t, 100.0/205.0, opp.ImpliedProbability, 1e-9)
	assert.InDelta(t, 0.3325, opp.ExpectedValue, 1e-9)
	assert.InDelta(t, 33.25, opp.EVPercentage, 1e-7)
	assert.Equal(t, yankeesGame().CommenceTime, opp.GameTime)
	assert.Equal(t, 0.400, opp.TeamStats[models.StatWOBA])
}

func TestFindOpportunitiesThresholdAndOrder(t *testing.T) {
	table := statsTable()
	table = append(table, record("Houston Astros", map[models.Stat]float64{
		models.StatWOBA: 0.350, models.StatXWOBA: 0.350, models.StatXSLG: 0.430, models.StatXBA: 0.265,
	}))
	quotes := []models.MarketQuote{
		yankeesGame(),
		{
			HomeTeam: "Houston Astros", AwayTeam: "Texas Rangers",
			Bookmakers: []models.BookmakerQuote{{Title: "BetMGM", Outcomes: []models.OutcomePrice{
				{Team: "Houston Astros", AmericanOdds: 120},
				{Team: "Texas Rangers", AmericanOdds: -140},
			}}},
		},
	}

	engine := NewEngine(nil)

	// Astros p = .575, EV = .575 × 2.2 − 1 = .265
	opps := engine.FindOpportunities(table, quotes, DefaultMinEV)
	require.Len(t, opps, 2)
	assert.Equal(t, "New York Yankees", opps[0].Team)
	assert.Equal(t, "Houston Astros", opps[1].Team)
	assert.Equal(t, "Texas Rangers", opps[1].Opponent)

	opps = engine.FindOpportunities(table, quotes, 0.30)
	require.Len(t, opps, 1)
	assert.Equal(t, "New York Yankees", opps[0].Team)
}

func TestFindOpportunitiesEmptyInputs(t *testing.T) {
	engine := NewEngine(nil)

	assert.Empty(t, engine.FindOpportunities(nil, []models.MarketQuote{yankeesGame()}, DefaultMinEV))
	assert.Empty(t, engine.FindOpportunities(statsTable(), nil, DefaultMinEV))
	assert.NotNil(t, engine.FindOpportunities(nil, nil, DefaultMinEV))
}

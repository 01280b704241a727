package probability

import (
	"strings"

	"github.com/yourusername/clever-picks/internal/models"
)

// aliases maps abbreviated bookmaker names to their full form, keyed by
// TeamKey.
var aliases = map[string]string{
	"la angels":     "Los Angeles Angels",
	"la dodgers":    "Los Angeles Dodgers",
	"ny yankees":    "New York Yankees",
	"ny mets":       "New York Mets",
	"sf giants":     "San Francisco Giants",
	"chi cubs":      "Chicago Cubs",
	"chi white sox": "Chicago White Sox",
	"kc royals":     "Kansas City Royals",
	"sd padres":     "San Diego Padres",
	"tb rays":       "Tampa Bay Rays",
	"stl cardinals": "St. Louis Cardinals",
	"was nationals": "Washington Nationals",
}

// NormalizeTeamName trims name and expands known abbreviations.
func NormalizeTeamName(name string) string {
	trimmed := strings.TrimSpace(name)
	if full, ok := aliases[models.TeamKey(trimmed)]; ok {
		return full
	}
	return trimmed
}

// MatchTeam finds the statistics row for a bookmaker team name. The first
// row whose name contains the normalized market name wins; failing that, the
// first row whose name is contained in the market name.
func MatchTeam(table models.StatTable, marketName string) (models.TeamRecord, bool) {
	normalized := NormalizeTeamName(marketName)
	if r, ok := table.FindContaining(normalized); ok {
		return r, true
	}

	needle := models.TeamKey(normalized)
	if needle == "" {
		return models.TeamRecord{}, false
	}
	for _, r := range table {
		key := models.TeamKey(r.Team)
		if key != "" && strings.Contains(needle, key) {
			return r, true
		}
	}
	return models.TeamRecord{}, false
}

// Nickname returns the last word of a team name ("Boston Red Sox" -> "Sox").
func Nickname(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

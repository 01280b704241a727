// Package picks turns scored teams and EV opportunities into ranked
// recommendations.
package picks

import (
	"github.com/yourusername/clever-picks/internal/models"
	"github.com/yourusername/clever-picks/internal/probability"
)

// lookup finds the statistics row for a pick. An exact match on the row the
// engine already matched wins; otherwise the market name's nickname is
// searched for.
func lookup(table models.StatTable, statsTeam, marketName string) (models.TeamRecord, bool) {
	if statsTeam != "" {
		key := models.TeamKey(statsTeam)
		for _, r := range table {
			if models.TeamKey(r.Team) == key {
				return r, true
			}
		}
	}
	return table.FindContaining(probability.Nickname(marketName))
}

// dedupeKey identifies a team across statistical and market picks.
func dedupeKey(statsTeam, team string) string {
	if statsTeam != "" {
		return models.TeamKey(statsTeam)
	}
	return models.TeamKey(team)
}

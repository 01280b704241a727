package stats

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/clever-picks/internal/models"
)

// legacyTeamColumn is renamed to models.TeamColumn on ingest.
const legacyTeamColumn = "Teams"

// sortPreference lists the primary ranking statistics in priority order.
var sortPreference = []models.Stat{models.StatWOBA, models.StatXWOBA}

// Merge joins the batting and pitching rows on the normalized team key.
//
// Only teams present in both categories survive. Within a category the first
// row for a key wins and later duplicates are ignored. When both rows carry
// the same column the batting value is kept. Known numeric columns are parsed;
// a value that does not parse is left unknown and the row is kept. The result
// is sorted by WOBA, else XWOBA, descending with unknown values last.
func Merge(batting, pitching []models.RawRecord) models.StatTable {
	pitchingByKey := indexByTeam(pitching)

	table := make(models.StatTable, 0, len(batting))
	seen := make(map[string]struct{}, len(batting))

	for _, row := range batting {
		team, key := teamOf(row)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		other, ok := pitchingByKey[key]
		if !ok {
			continue
		}

		table = append(table, buildRecord(team, row, other))
	}

	for _, stat := range sortPreference {
		if table.HasColumn(string(stat)) {
			table.SortByStat(stat)
			break
		}
	}

	return table
}

// indexByTeam keys rows by normalized team, keeping the first occurrence.
func indexByTeam(rows []models.RawRecord) map[string]models.RawRecord {
	index := make(map[string]models.RawRecord, len(rows))
	for _, row := range rows {
		_, key := teamOf(row)
		if key == "" {
			continue
		}
		if _, exists := index[key]; !exists {
			index[key] = row
		}
	}
	return index
}

func teamOf(row models.RawRecord) (string, string) {
	team, ok := row[models.TeamColumn]
	if !ok {
		team = row[legacyTeamColumn]
	}
	team = strings.TrimSpace(team)
	return team, models.TeamKey(team)
}

func buildRecord(team string, primary, secondary models.RawRecord) models.TeamRecord {
	fields := make(map[string]string, len(primary)+len(secondary))
	for _, row := range []models.RawRecord{primary, secondary} {
		for column, value := range row {
			if column == legacyTeamColumn {
				column = models.TeamColumn
			}
			if _, exists := fields[column]; exists {
				continue
			}
			fields[column] = value
		}
	}
	fields[models.TeamColumn] = team

	record := models.TeamRecord{
		Team:   team,
		Fields: fields,
		Stats:  make(map[models.Stat]float64),
	}
	for _, stat := range models.NumericStats {
		if v, ok := parseNumber(fields[string(stat)]); ok {
			record.Stats[stat] = v
		}
	}
	return record
}

// parseNumber coerces a cell to a float. Empty, non-numeric and
// out-of-range cells are unknown.
func parseNumber(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(cell)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

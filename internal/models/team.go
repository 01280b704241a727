package models

import (
	"sort"
	"strings"
)

// Stat names a numeric column of the statistics table.
type Stat string

// Known statistic columns
const (
	StatWOBA         Stat = "WOBA"
	StatXWOBA        Stat = "XWOBA"
	StatXSLG         Stat = "XSLG"
	StatXBA          Stat = "XBA"
	StatBA           Stat = "BA"
	StatOBP          Stat = "OBP"
	StatSLG          Stat = "SLG"
	StatOPSPlus      Stat = "OPS+"
	StatWRCPlus      Stat = "WRC+"
	StatISO          Stat = "ISO"
	StatExitVelocity Stat = "Exit Velocity"
	StatLaunchAngle  Stat = "Launch Angle"
	StatHardHitPct   Stat = "Hard Hit %"
	StatBarrelPct    Stat = "Barrel %"
	StatERA          Stat = "ERA"
	StatWHIP         Stat = "WHIP"
)

// NumericStats lists the columns coerced to numbers when a table is built.
var NumericStats = []Stat{
	StatXBA, StatXSLG, StatWOBA, StatBA, StatOBP, StatSLG, StatXWOBA,
	StatOPSPlus, StatWRCPlus, StatISO,
	StatExitVelocity, StatLaunchAngle, StatHardHitPct, StatBarrelPct,
	StatERA, StatWHIP,
}

// TeamColumn is the key column shared by both statistic categories.
const TeamColumn = "Team"

// RawRecord is one keyed row as delivered by a tabular source (header -> cell text).
type RawRecord map[string]string

// TeamKey normalizes a team name for keyed lookups.
func TeamKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// TeamRecord is a merged row for one team. Stats only holds values that
// parsed as numbers; an absent key means the value is unknown.
type TeamRecord struct {
	Team   string            `json:"team"`
	Fields map[string]string `json:"fields,omitempty"`
	Stats  map[Stat]float64  `json:"stats"`
}

// Value returns the numeric value of a statistic and whether it is known.
func (r TeamRecord) Value(stat Stat) (float64, bool) {
	v, ok := r.Stats[stat]
	return v, ok
}

// ValueOr returns the statistic or def when it is unknown.
func (r TeamRecord) ValueOr(stat Stat, def float64) float64 {
	if v, ok := r.Stats[stat]; ok {
		return v
	}
	return def
}

// Clone returns a deep copy of the record.
func (r TeamRecord) Clone() TeamRecord {
	out := TeamRecord{Team: r.Team}
	if r.Fields != nil {
		out.Fields = make(map[string]string, len(r.Fields))
		for k, v := range r.Fields {
			out.Fields[k] = v
		}
	}
	out.Stats = make(map[Stat]float64, len(r.Stats))
	for k, v := range r.Stats {
		out.Stats[k] = v
	}
	return out
}

// StatTable is an ordered set of team records.
type StatTable []TeamRecord

// Clone returns a copy that shares no maps with the receiver.
func (t StatTable) Clone() StatTable {
	if t == nil {
		return nil
	}
	out := make(StatTable, len(t))
	for i, r := range t {
		out[i] = r.Clone()
	}
	return out
}

// HasColumn reports whether any record carries the named column.
func (t StatTable) HasColumn(column string) bool {
	for _, r := range t {
		if _, ok := r.Fields[column]; ok {
			return true
		}
	}
	return false
}

// FindContaining returns the first record whose team name contains fragment,
// ignoring case.
func (t StatTable) FindContaining(fragment string) (TeamRecord, bool) {
	needle := TeamKey(fragment)
	if needle == "" {
		return TeamRecord{}, false
	}
	for _, r := range t {
		if strings.Contains(TeamKey(r.Team), needle) {
			return r, true
		}
	}
	return TeamRecord{}, false
}

// SortByStat orders records by stat descending. Unknown values sort last and
// ties keep their input order.
func (t StatTable) SortByStat(stat Stat) {
	sort.SliceStable(t, func(i, j int) bool {
		vi, iok := t[i].Stats[stat]
		vj, jok := t[j].Stats[stat]
		if iok != jok {
			return iok
		}
		return iok && vi > vj
	})
}

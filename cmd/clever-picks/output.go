package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/yourusername/clever-picks/internal/models"
	"github.com/yourusername/clever-picks/internal/service"
	"github.com/yourusername/clever-picks/internal/stats"
)

// displayStats are the columns shown by the stats command
var displayStats = []models.Stat{models.StatWOBA, models.StatXWOBA, models.StatXSLG, models.StatXBA}

// output prints v as JSON when --json is set, otherwise runs the text renderer.
func output(w io.Writer, v interface{}, text func()) error {
	if jsonOutput {
		return writeJSON(w, v)
	}
	text()
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderError turns expected outcomes into a user facing message. Anything
// else is returned for cobra to report.
func renderError(w io.Writer, err error) error {
	var msg string
	switch {
	case errors.Is(err, service.ErrMarketUnavailable):
		msg = "Live odds are unavailable right now. Try `best` for statistical picks."
	case errors.Is(err, models.ErrTeamNotFound):
		msg = "Team not found in the statistics table."
	case errors.Is(err, models.ErrSourceUnavailable):
		msg = "No statistics are available: the data source could not be reached and nothing is cached."
	default:
		return err
	}
	if jsonOutput {
		return writeJSON(w, map[string]string{"error": msg, "detail": err.Error()})
	}
	fmt.Fprintln(w, msg)
	return nil
}

// banner prints data freshness warnings and reports whether the caller
// has anything left to render.
func banner(w io.Writer, state service.DataState) bool {
	if state.Empty() {
		fmt.Fprintln(w, "No team statistics are available.")
		if state.Warning != "" {
			fmt.Fprintf(w, "Last error: %s\n", state.Warning)
		}
		return false
	}
	if state.Stale() {
		fmt.Fprintf(w, "WARNING: serving stale statistics from %s", state.FetchedAt.Local().Format(time.RFC1123))
		if state.Warning != "" {
			fmt.Fprintf(w, " (refresh failed: %s)", state.Warning)
		}
		fmt.Fprintln(w)
	}
	return true
}

func renderStats(w io.Writer, report service.StatsReport) {
	if !banner(w, report.DataState) {
		return
	}
	fmt.Fprintf(w, "Top %d of %d teams\n\n", len(report.Teams), report.Total)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := []string{"#", "TEAM"}
	for _, s := range displayStats {
		header = append(header, string(s))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for i, rec := range report.Teams {
		row := []string{fmt.Sprint(i + 1), rec.Team}
		for _, s := range displayStats {
			row = append(row, formatStat(rec, s))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

func renderBest(w io.Writer, report service.BestReport) {
	if !banner(w, report.DataState) {
		return
	}
	if len(report.Picks) == 0 {
		fmt.Fprintln(w, "No teams have enough statistics to score.")
		return
	}
	for i, p := range report.Picks {
		fmt.Fprintf(w, "%d. %s  score %.3f  confidence %d%%  (%s)\n", i+1, p.Team, p.Score, p.Confidence, p.Rating)
		for _, r := range p.Reasons {
			fmt.Fprintf(w, "     - %s\n", r)
		}
	}
}

func renderLookup(w io.Writer, report service.LookupReport) {
	if !banner(w, report.DataState) {
		return
	}
	fmt.Fprintf(w, "%s\n", report.Record.Team)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range models.NumericStats {
		if _, ok := report.Record.Value(s); ok {
			fmt.Fprintf(tw, "  %s\t%s\n", s, formatStat(report.Record, s))
		}
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%s (%.3f)\n%s\n", report.Assessment.Rating, report.Assessment.Score, report.Assessment.Analysis)
}

func renderRefresh(w io.Writer, report service.StatsReport) {
	if !banner(w, report.DataState) {
		return
	}
	if report.Stale() {
		fmt.Fprintf(w, "Refresh failed, %d teams still served from cache\n", report.Total)
		return
	}
	fmt.Fprintf(w, "Refreshed statistics for %d teams\n", report.Total)
}

func renderEV(w io.Writer, report service.EVReport) {
	if !banner(w, report.DataState) {
		return
	}
	if len(report.Picks) == 0 {
		fmt.Fprintf(w, "No EV+ opportunities at %.1f%% or better across %d games.\n", report.MinEV*100, report.Games)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTEAM\tVS\tODDS\tBOOK\tTRUE\tIMPLIED\tEV\tCONFIDENCE")
	for i, p := range report.Picks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%.1f%%\t%.1f%%\t%+.1f%%\t%s\n",
			i+1, p.Team, p.Opponent, formatOdds(p.Odds), p.Bookmaker,
			p.TrueProbability*100, p.ImpliedProbability*100, p.EVPercentage, p.Confidence)
	}
	tw.Flush()
}

func renderPicks(w io.Writer, report service.PicksReport) {
	if !banner(w, report.DataState) {
		return
	}
	if !report.OddsAvailable {
		fmt.Fprintf(w, "Live odds unavailable, showing statistical picks only")
		if report.OddsError != "" {
			fmt.Fprintf(w, " (%s)", report.OddsError)
		}
		fmt.Fprintln(w)
	}
	if len(report.Recommendations) == 0 {
		fmt.Fprintln(w, "No recommendations available.")
		return
	}
	for i, rec := range report.Recommendations {
		fmt.Fprintf(w, "%d. %s [%s] score %.2f, %s confidence\n", i+1, rec.Team, rec.Source, rec.CompositeScore, rec.Confidence)
		if rec.HasOdds() {
			fmt.Fprintf(w, "     %s vs %s at %s", formatOdds(*rec.Odds), rec.Opponent, deref(rec.Bookmaker))
			if rec.EVPercentage != nil {
				fmt.Fprintf(w, ", EV %+.1f%%", *rec.EVPercentage)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "     %s: %s\n", rec.PredictionRating, rec.PredictionAnalysis)
	}
}

func renderSmart(w io.Writer, report service.SmartReport) {
	if !banner(w, report.DataState) {
		return
	}
	if len(report.Picks) == 0 {
		fmt.Fprintln(w, "No EV+ opportunities to rank.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTEAM\tVS\tODDS\tEV\tTEAM SCORE\tOPP SCORE\tBOOST")
	for i, p := range report.Picks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%+.1f%%\t%.2f\t%.2f\t%+.2f\n",
			i+1, p.Team, p.Opponent, formatOdds(p.Odds), p.EVPercentage,
			p.TeamScore, p.OpponentScore, p.ScoreBoost)
	}
	tw.Flush()
}

func renderStatus(w io.Writer, report service.StatusReport) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "cache\t%s\n", describeCache(report.Cache))
	fmt.Fprintf(tw, "records\t%d\n", report.Cache.Records)
	fmt.Fprintf(tw, "google sheets\t%s\n", configured(report.SheetsConfigured))
	fmt.Fprintf(tw, "odds api\t%s\n", configured(report.OddsConfigured))
	if report.OddsRequestsRemaining != nil {
		fmt.Fprintf(tw, "odds requests remaining\t%.0f\n", *report.OddsRequestsRemaining)
	}
	tw.Flush()
}

func describeCache(info stats.Info) string {
	if info.AgeSeconds == nil {
		return info.Status
	}
	age := time.Duration(*info.AgeSeconds * float64(time.Second)).Round(time.Second)
	return fmt.Sprintf("%s (age %s)", info.Status, age)
}

func configured(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func formatStat(rec models.TeamRecord, s models.Stat) string {
	v, ok := rec.Value(s)
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.3f", v)
}

func formatOdds(odds int) string {
	if odds > 0 {
		return fmt.Sprintf("+%d", odds)
	}
	return fmt.Sprint(odds)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

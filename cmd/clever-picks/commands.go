package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/clever-picks/internal/health"
	"github.com/yourusername/clever-picks/internal/scheduler"
)

const commandTimeout = 60 * time.Second

// countArg parses an optional positional count, returning def when absent.
func countArg(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("count must be a positive integer, got %q", args[0])
	}
	return n, nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), commandTimeout)
}

var statsCmd = &cobra.Command{
	Use:   "stats [count]",
	Short: "Show advanced statistics for the top teams",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := countArg(args, 5)
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		report, err := app.picks.AdvancedStats(ctx, n)
		if err != nil {
			return renderError(cmd.OutOrStdout(), err)
		}
		return output(cmd.OutOrStdout(), report, func() { renderStats(cmd.OutOrStdout(), report) })
	},
}

var bestCmd = &cobra.Command{
	Use:   "best [count]",
	Short: "Rank the best teams to win by composite score",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := countArg(args, app.cfg.Picks.DefaultCount)
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		report, err := app.picks.BestTeams(ctx, n)
		if err != nil {
			return renderError(cmd.OutOrStdout(), err)
		}
		return output(cmd.OutOrStdout(), report, func() { renderBest(cmd.OutOrStdout(), report) })
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <team>",
	Short: "Show one team's statistics and assessment",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		report, err := app.picks.TeamLookup(ctx, strings.Join(args, " "))
		if err != nil {
			return renderError(cmd.OutOrStdout(), err)
		}
		return output(cmd.OutOrStdout(), report, func() { renderLookup(cmd.OutOrStdout(), report) })
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Force a statistics refresh",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		report, err := app.picks.Refresh(ctx)
		if err != nil {
			return renderError(cmd.OutOrStdout(), err)
		}
		return output(cmd.OutOrStdout(), report, func() { renderRefresh(cmd.OutOrStdout(), report) })
	},
}

var evCmd = &cobra.Command{
	Use:   "ev [count]",
	Short: "List EV+ opportunities from live odds",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := countArg(args, app.cfg.Picks.EVPlusCount)
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		report, err := app.picks.EVPicks(ctx, n)
		if err != nil {
			return renderError(cmd.OutOrStdout(), err)
		}
		return output(cmd.OutOrStdout(), report, func() { renderEV(cmd.OutOrStdout(), report) })
	},
}

var picksCmd = &cobra.Command{
	Use:   "picks [count]",
	Short: "Data-driven picks combining statistics and live odds",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := countArg(args, app.cfg.Picks.DefaultCount)
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		report, err := app.picks.DataDrivenPicks(ctx, n)
		if err != nil {
			return renderError(cmd.OutOrStdout(), err)
		}
		return output(cmd.OutOrStdout(), report, func() { renderPicks(cmd.OutOrStdout(), report) })
	},
}

var smartCmd = &cobra.Command{
	Use:   "smart",
	Short: "EV+ picks re-ranked against their opponents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		report, err := app.picks.SmartPicks(ctx)
		if err != nil {
			return renderError(cmd.OutOrStdout(), err)
		}
		return output(cmd.OutOrStdout(), report, func() { renderSmart(cmd.OutOrStdout(), report) })
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache freshness and collaborator configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report := app.picks.Status()
		return output(cmd.OutOrStdout(), report, func() { renderStatus(cmd.OutOrStdout(), report) })
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "clever-picks %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve health, cache and picks over HTTP and run the digest schedule",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	metricsPath := ""
	if app.cfg.Metrics.Enabled {
		metricsPath = app.cfg.Metrics.Path
	}
	server := health.NewServer(health.Config{
		ServiceName:    app.cfg.App.Name,
		Version:        Version,
		Commit:         GitCommit,
		Port:           strconv.Itoa(app.cfg.HTTP.Port),
		Logger:         app.logger,
		Picks:          app.picks,
		AllowedOrigins: app.cfg.HTTP.AllowedOrigins,
		MetricsPath:    metricsPath,
	})
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	warmCtx, warmCancel := context.WithTimeout(ctx, commandTimeout)
	if _, err := app.picks.Refresh(warmCtx); err != nil {
		app.logger.WithError(err).Warn("Initial statistics load failed, /ready stays unavailable until a fetch succeeds")
	}
	warmCancel()
	server.SetReady(true)

	var digest *scheduler.Scheduler
	if app.cfg.Digest.Enabled {
		digest = scheduler.NewScheduler(app.picks, app.logger)
		if _, err := digest.ScheduleDigest(app.cfg.Digest.Schedule, app.cfg.Digest.Count); err != nil {
			return fmt.Errorf("failed to schedule digest: %w", err)
		}
		if err := digest.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		app.logger.WithField("next_run", digest.NextRun()).Info("Digest scheduler running")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		app.logger.WithField("signal", sig).Info("Shutdown signal received")
	case <-ctx.Done():
	}

	server.SetReady(false)
	if digest != nil {
		if err := digest.Stop(); err != nil {
			app.logger.WithError(err).Warn("Scheduler did not stop cleanly")
		}
	}
	return server.Shutdown()
}

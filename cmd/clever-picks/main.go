package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/clever-picks/internal/config"
	"github.com/yourusername/clever-picks/internal/datasource"
	"github.com/yourusername/clever-picks/internal/logger"
	"github.com/yourusername/clever-picks/internal/metrics"
	"github.com/yourusername/clever-picks/internal/service"
	"github.com/yourusername/clever-picks/internal/stats"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	envFile    string
	jsonOutput bool
	app        *application
)

// application holds the wired dependencies shared by every command
type application struct {
	cfg    *config.Config
	logger *logrus.Logger
	cache  *stats.Cache
	market *datasource.CachedMarketSource
	picks  *service.PicksService
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before the configuration")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")

	rootCmd.AddCommand(
		statsCmd,
		bestCmd,
		lookupCmd,
		refreshCmd,
		evCmd,
		picksCmd,
		smartCmd,
		statusCmd,
		serveCmd,
		versionCmd,
	)
}

var rootCmd = &cobra.Command{
	Use:   "clever-picks",
	Short: "MLB EV+ betting recommendations",
	Long: `Ranks MLB teams from advanced batting statistics and compares a
stat-driven win probability against live moneyline prices to surface
positive expected value bets.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case versionCmd.Name(), "help", "completion":
			return nil
		}
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		app = a
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func bootstrap(ctx context.Context) (*application, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	secretsCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := config.ApplySecretsFromEnv(secretsCtx, cfg); err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if err := config.ValidateEnvironment(cfg); err != nil {
		return nil, fmt.Errorf("environment validation failed: %w", err)
	}

	// stdout carries command output
	appLog := logger.NewLoggerForEnvironment(cfg.App.LogLevel, cfg.App.Environment, os.Stderr)
	metrics.InitRegistry()

	factory := datasource.NewFactory(cfg, appLog)
	tabular, err := factory.NewTabularSource()
	if err != nil {
		return nil, fmt.Errorf("failed to create statistics source: %w", err)
	}
	market, err := factory.NewMarketSource()
	if err != nil {
		return nil, fmt.Errorf("failed to create market source: %w", err)
	}

	cache := stats.NewCache(tabular, stats.Options{
		TTL:              cfg.StatsTTL(),
		BattingCategory:  cfg.Sheets.BattingCategory,
		PitchingCategory: cfg.Sheets.PitchingCategory,
	}, appLog)

	return &application{
		cfg:    cfg,
		logger: appLog,
		cache:  cache,
		market: market,
		picks:  service.NewPicksService(cache, market, cfg, appLog),
	}, nil
}

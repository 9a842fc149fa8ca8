package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/permit-odds/internal/cache"
	"github.com/yourusername/permit-odds/internal/config"
	"github.com/yourusername/permit-odds/internal/estimator"
	"github.com/yourusername/permit-odds/internal/health"
	applogger "github.com/yourusername/permit-odds/internal/logger"
	"github.com/yourusername/permit-odds/internal/metrics"
	"github.com/yourusername/permit-odds/internal/models"
	"github.com/yourusername/permit-odds/internal/repository"
	"github.com/yourusername/permit-odds/internal/store"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	logLevel   string
	dbDir      string
	permitYear int
	yearsFlag  string
	dataYear   int
	choiceArgs []string
	format     string

	logger  *logrus.Logger
	cfg     *config.Config
	locator *store.Locator
	engine  *estimator.Engine
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	rootCmd.PersistentFlags().StringVar(&dbDir, "db-dir", "", "Directory holding odds_<year> record stores")

	for _, cmd := range []*cobra.Command{estimateCmd, rankedCmd} {
		cmd.Flags().IntVarP(&permitYear, "permit-year", "p", 0, "Permit year being applied for (default from config)")
		cmd.Flags().StringArrayVar(&choiceArgs, "choice", nil, "Choice as zone:month:day:group_size (repeat up to 3 times)")
		cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table or json")
	}
	estimateCmd.Flags().StringVarP(&yearsFlag, "years", "y", "", "Comma separated historical data years (default from config)")
	rankedCmd.Flags().IntVar(&dataYear, "year", 0, "Historical data year to chain the choices through")
	rankedCmd.MarkFlagRequired("year")
}

var rootCmd = &cobra.Command{
	Use:           "permit-odds",
	Short:         "Estimate wilderness permit lottery odds",
	Long:          `Estimate historical odds of winning requested permit choices from per-year lottery record stores.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
}

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate each choice as a first choice across data years",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEstimate(cmd.Context(), cmd.OutOrStdout())
	},
}

var rankedCmd = &cobra.Command{
	Use:   "ranked",
	Short: "Chain a ranked choice set through one data year",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRanked(cmd.Context(), cmd.OutOrStdout())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve health and metrics endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func main() {
	rootCmd.AddCommand(estimateCmd, rankedCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}
	if dbDir != "" {
		cfg.Stores.Dir = dbDir
	}
	return config.Validate(cfg)
}

func setupDependencies() error {
	// stdout carries results, so logs go to stderr
	logger = applogger.NewStderrLogger(cfg.App.LogLevel)
	metrics.InitRegistry()

	locator = store.NewLocator(&cfg.Stores)
	provider, err := repository.NewStoreProvider(locator)
	if err != nil {
		return err
	}

	opts := []estimator.Option{
		estimator.WithNeighborSearch(estimator.NewNeighborSearch(estimator.NeighborConfigFrom(&cfg.Estimation))),
	}
	if cfg.Cache.Enabled {
		opts = append(opts, estimator.WithCache(cache.NewEstimateCache(cfg.CacheTTL(), cfg.Cache.MaxSize)))
	}

	engine, err = estimator.NewEngine(provider, estimator.NewCoreZones(cfg.CoreZones), logger, opts...)
	return err
}

func resolvedPermitYear() int {
	if permitYear != 0 {
		return permitYear
	}
	return cfg.Stores.DefaultPermitYear
}

func runEstimate(ctx context.Context, out io.Writer) error {
	choices, err := parseChoices(choiceArgs)
	if err != nil {
		return err
	}

	years := cfg.Stores.DefaultDataYears
	if yearsFlag != "" {
		if years, err = parseYears(yearsFlag); err != nil {
			return err
		}
	}

	result := engine.Estimate(ctx, models.EstimateRequest{
		PermitYear: resolvedPermitYear(),
		Choices:    choices,
		DataYears:  years,
	})

	switch format {
	case formatJSON:
		return writeJSON(out, result)
	case formatTable:
		return writeEstimateTable(out, result)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func runRanked(ctx context.Context, out io.Writer) error {
	choices, err := parseChoices(choiceArgs)
	if err != nil {
		return err
	}

	ranked, err := engine.RankedOdds(ctx, resolvedPermitYear(), dataYear, choices)
	if err != nil {
		return err
	}

	switch format {
	case formatJSON:
		return writeJSON(out, ranked)
	case formatTable:
		return writeRankedTable(out, choices, ranked)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func runServe() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	srvCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version + "+" + GitCommit,
		Addr:        ":" + strconv.Itoa(cfg.Metrics.Port),
		Stores:      locator,
		Logger:      logger,
	}
	if cfg.Metrics.Enabled {
		srvCfg.MetricsPath = cfg.Metrics.Path
		srvCfg.MetricsHandler = metrics.Handler()
	}

	server := health.NewServer(srvCfg)
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}
	server.SetReady(true)

	available, err := locator.Years()
	if err != nil {
		logger.WithError(err).Warn("Failed to list record stores")
	}
	logger.WithFields(logrus.Fields{
		"stores_dir":      locator.Dir(),
		"data_years":      cfg.Stores.DefaultDataYears,
		"available_years": available,
		"metrics":         cfg.Metrics.Enabled,
	}).Info("Permit odds service running")

	sig := <-sigChan
	logger.WithField("signal", sig).Info("Shutdown signal received")

	server.SetReady(false)
	cancel()
	if err := server.Shutdown(); err != nil {
		logger.WithError(err).Error("Error during health server shutdown")
	}

	logger.Info("Permit odds service shut down")
	return nil
}

// Package main provides the entry point for the odds evaluation engine.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/oddsedge/internal/config"
	"github.com/yourusername/oddsedge/internal/database"
	"github.com/yourusername/oddsedge/internal/engine"
	"github.com/yourusername/oddsedge/internal/health"
	"github.com/yourusername/oddsedge/internal/logger"
	"github.com/yourusername/oddsedge/internal/metrics"
	"github.com/yourusername/oddsedge/internal/models"
	"github.com/yourusername/oddsedge/internal/probability"
	"github.com/yourusername/oddsedge/internal/ratings"
	"github.com/yourusername/oddsedge/internal/repository"
	"github.com/yourusername/oddsedge/internal/scheduler"
	"github.com/yourusername/oddsedge/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	inputFile  string
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	evaluateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Evaluate a JSON quote batch file instead of the database snapshot")
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(runCmd)
}

var rootCmd = &cobra.Command{
	Use:   "oddsedge",
	Short: "Odds mispricing detection and pick generation engine",
	Long:  `Scans bookmaker odds for anomalies, pricing errors and model edges, and emits classified betting picks.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run a single evaluation pass over the latest quotes",
	RunE: func(cmd *cobra.Command, args []string) error {
		evaluation, _ := buildServices()

		var report *engine.Report
		var err error
		if inputFile != "" {
			quotes, readErr := readQuoteBatch(inputFile)
			if readErr != nil {
				return readErr
			}
			report, err = evaluation.RunBatch(cmd.Context(), quotes)
		} else {
			report, err = evaluation.RunOnce(cmd.Context())
		}
		if err != nil {
			return err
		}

		appLog.WithFields(logrus.Fields{
			"run_id":    report.RunID,
			"quotes":    report.QuotesScanned,
			"anomalies": report.AnomaliesFlagged,
			"errors":    report.ErrorsFlagged,
			"picks":     len(report.Picks),
		}).Info("Evaluation pass complete")
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the engine continuously with scheduled evaluation ticks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEngine()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// readQuoteBatch loads a JSON array of odds quotes from disk
func readQuoteBatch(path string) ([]*models.OddsQuote, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read quote batch: %w", err)
	}

	var quotes []*models.OddsQuote
	if err := json.Unmarshal(data, &quotes); err != nil {
		return nil, fmt.Errorf("failed to parse quote batch: %w", err)
	}
	return quotes, nil
}

func loadConfig() error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
	}).Info("Odds engine starting")

	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	metrics.InitRegistry()
	return nil
}

// buildServices wires the model layer and evaluation pipeline on top of the
// repositories
func buildServices() (*service.EvaluationService, *service.StatsRefreshService) {
	basketball := probability.NewBasketballEngine(repos.GameResult, appLog)

	var ratingSource engine.RatingSource
	var warmer service.RatingsWarmer
	if cfg.Ratings.BaseURL != "" {
		cached := ratings.NewCachedClient(ratings.NewClient(&cfg.Ratings, appLog), &cfg.Ratings, appLog)
		ratingSource = cached
		warmer = cached
	} else {
		appLog.Warn("No ratings service configured, tennis estimates fall back to even money")
	}

	estimator := engine.NewEstimator(basketball, ratingSource, repos.GameResult, appLog)
	evaluator := engine.NewEvaluator(cfg, estimator, repos.OddsHistory, appLog)

	evaluation := service.NewEvaluationService(repos, evaluator, appLog)
	statsRefresh := service.NewStatsRefreshService(repos, basketball, warmer, appLog)

	return evaluation, statsRefresh
}

func runEngine() error {
	evaluation, statsRefresh := buildServices()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(evaluation, statsRefresh, appLog)
	if err := sched.ScheduleEvaluation(cfg.Scheduler.EvaluationSpec); err != nil {
		return err
	}
	if err := sched.ScheduleStatsRefresh(cfg.Scheduler.StatsRefreshSpec); err != nil {
		return err
	}

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      appLog,
		DB:          db,
		Scheduler:   sched,
	})
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	healthServer.SetReady(true)

	engineLog := logger.NewEngineLogger(appLog)
	engineLog.LogEngineStart(cfg.Engine.DevigMethod, cfg.Engine.MinEV, cfg.Engine.MinEdge)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error stopping scheduler")
	}
	engineLog.LogEngineStop("shutdown signal")

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Error stopping metrics server")
		}
	}

	cancel()
	appLog.Info("Odds engine shut down")
	return nil
}

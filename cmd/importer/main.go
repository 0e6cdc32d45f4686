package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boba-atlas/importer/internal/config"
	"boba-atlas/importer/internal/db"
	"boba-atlas/importer/internal/db/repositories"
	"boba-atlas/importer/internal/jobs"
	"boba-atlas/importer/internal/logging"
	"boba-atlas/importer/internal/metrics"
	"boba-atlas/importer/internal/providers"

	"github.com/google/uuid"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.App.Env, cfg.App.LogLevel); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	if err := run(cfg); err != nil {
		logging.Error("Import failed", "error", err.Error())
		logging.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	logger := logging.WithRun(runID, cfg.Import.Region)

	logger.Infow("Bubble tea importer starting",
		"environment", cfg.App.Env,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	database, err := db.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer database.Close()
	logger.Infow("Connected to Postgres")

	if cfg.Import.AutoMigrate {
		if err := db.Migrate(database.ORM); err != nil {
			return err
		}
		logger.Infow("Schema migrated")
	}

	provider := providers.NewYelpProvider(cfg.Yelp.APIURL, cfg.Yelp.APIKey, cfg.Yelp.Timeout).
		WithHoursCache(cfg.HoursCacheTTL)
	importMetrics := metrics.NewImportMetrics()

	job := jobs.NewBubbleTeaImportJob(
		provider,
		repositories.NewZipCodeRepo(database.SQL),
		repositories.NewBubbleTeaRepo(database.ORM),
		repositories.NewImportRunRepo(database.ORM),
		importMetrics,
		jobs.ImportOptions{
			RunID:       runID,
			Region:      cfg.Import.Region,
			Category:    cfg.Yelp.Category,
			Limit:       cfg.Import.Limit,
			SortBy:      cfg.Import.SortBy,
			ImportHours: cfg.Import.Hours,
		},
		logger,
	)

	_, runErr := job.Run(ctx)

	if cfg.PushgatewayURL != "" {
		if err := importMetrics.Push(cfg.PushgatewayURL, cfg.Import.Region); err != nil {
			logger.Warnw("Failed to push metrics", "error", err)
		}
	}

	return runErr
}

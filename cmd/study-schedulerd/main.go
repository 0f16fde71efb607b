// cmd/study-schedulerd/main.go
//
// Background daemon for the study scheduler: hosts the reconciliation
// workers and the periodic drift-correction sweep. The owning API process
// links the library directly and calls the processors in-process.
package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/smith3v/study-scheduler/pkg/config"
	"github.com/smith3v/study-scheduler/pkg/db"
	"github.com/smith3v/study-scheduler/pkg/logger"
	"github.com/smith3v/study-scheduler/pkg/progress"
	"github.com/smith3v/study-scheduler/pkg/review"
)

func main() {
	if err := config.LoadConfig("config.json"); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := logger.Configure(logger.Options{
		Level: config.AppConfig.Logging.Level,
		File:  config.AppConfig.Logging.File,
	}); err != nil {
		logger.Error("failed to configure logger", "error", err)
	}

	if err := db.InitDB(config.AppConfig.Database); err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	dispatcher := review.NewDispatcher(config.AppConfig.Reconcile)
	dispatcher.Start(ctx)

	scheduler := gocron.NewScheduler(time.UTC)
	driftInterval := time.Duration(config.AppConfig.Reconcile.DriftIntervalMinutes) * time.Minute
	if _, err := scheduler.Every(driftInterval).Do(runDriftCorrection); err != nil {
		logger.Error("failed to schedule drift correction", "error", err)
		os.Exit(1)
	}
	scheduler.StartAsync()

	logger.Info("study scheduler daemon started",
		"reconcile_enabled", config.AppConfig.Reconcile.Enabled,
		"drift_interval", driftInterval)

	<-ctx.Done()
	scheduler.Stop()
	dispatcher.Wait()
	logger.Info("study scheduler daemon stopped")
}

func runDriftCorrection() {
	corrected, err := progress.ReconcileAllDeckProgress()
	if err != nil {
		logger.Error("drift correction sweep failed", "error", err)
		return
	}
	if corrected > 0 {
		logger.Info("drift correction applied", "decks_corrected", corrected)
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budgetai/internal/amqp"
	"budgetai/internal/config"
	"budgetai/internal/log"
	"budgetai/internal/report"
	gsheet "budgetai/internal/sheets/google"
	"budgetai/internal/storage"
	"budgetai/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.New(log.Config{}).Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	logger := log.New(log.Config{Level: level, Component: log.ComponentWorker})
	log.SetDefault(logger)

	logger.Info("Starting budgetai-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL must be set for the worker")
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID must be set for the worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	sheetsClient, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	syncWorker := worker.NewSyncWorker(report.NewEngine(repo), sheetsClient)

	// Consume until shutdown; redial on dropped connections.
	for {
		client, err := amqp.Redial(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			break // context cancelled
		}

		err = client.ConsumeBatchIngested(ctx, func(msg *amqp.BatchIngestedMessage) error {
			return syncWorker.HandleBatchIngested(ctx, msg)
		})
		client.Close()

		if ctx.Err() != nil {
			break
		}
		if amqp.IsConnectionError(err) {
			logger.Warn("AMQP connection lost, redialing", log.FieldError, err)
			select {
			case <-ctx.Done():
			case <-time.After(cfg.RedialInterval):
				continue
			}
			break
		}

		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"budgetai/internal/amqp"
	"budgetai/internal/chat"
	"budgetai/internal/config"
	apphttp "budgetai/internal/http"
	"budgetai/internal/identity"
	"budgetai/internal/ingest"
	"budgetai/internal/log"
	"budgetai/internal/query"
	"budgetai/internal/report"
	"budgetai/internal/storage"
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
	logger := log.New(log.Config{Level: level, Component: log.ComponentApp})
	log.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// AMQP is optional; without it uploads still work, only the sheet export
	// pipeline goes quiet.
	var events ingest.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		events = amqpClient
		logger.Info("AMQP publisher initialized",
			log.FieldExchange, cfg.AMQPExchange,
			log.FieldQueue, cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	var chatter apphttp.Chatter
	if cfg.ChatModel != "" {
		chatClient, err := chat.NewClient(ctx, cfg.ChatModel)
		if err != nil {
			logger.Error("Failed to initialize chat client", log.FieldError, err)
			os.Exit(1)
		}
		chatter = chatClient
		logger.Info("Chat client initialized", "model", cfg.ChatModel)
	} else {
		logger.Info("Chat disabled - no CHAT_MODEL provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Ingest:         ingest.NewService(repo, events, logger),
		Query:          query.NewService(repo),
		Report:         report.NewEngine(repo),
		Chat:           chatter,
		Identity:       identity.NewCookieProvider(cfg.SessionSecret),
		Deleter:        repo,
		UploadMaxBytes: cfg.UploadMaxBytes,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting budgetai server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

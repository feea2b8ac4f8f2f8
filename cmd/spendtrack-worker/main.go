package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"spendtrack/internal/amqp"
	"spendtrack/internal/config"
	applog "spendtrack/internal/log"
	gsheet "spendtrack/internal/sheets/google"
	"spendtrack/internal/storage"
	"spendtrack/internal/worker"
)

func main() {
	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: "worker"})
	applog.SetDefault(logger)

	logger.Info("Starting spendtrack-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the mirror worker")
		os.Exit(1)
	}
	if cfg.SheetsSpreadsheetID == "" {
		logger.Error("SHEETS_SPREADSHEET_ID is required for the mirror worker")
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sheetsClient, err := gsheet.NewFromEnv(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsSheetName)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.SheetsSpreadsheetID, "sheet", cfg.SheetsSheetName)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	mirrorWorker := worker.NewMirrorWorker(repo, sheetsClient)

	go func() {
		if err := mirrorWorker.Run(ctx, amqpClient); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("Mirror event consumption failed", "error", err)
			}
			cancel()
		}
	}()

	logger.Info("Mirror worker running", "queue", cfg.AMQPQueue)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	case <-ctx.Done():
	}

	logger.Info("Worker stopped gracefully")
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spendtrack/internal/amqp"
	"spendtrack/internal/auth"
	"spendtrack/internal/config"
	apphttp "spendtrack/internal/http"
	applog "spendtrack/internal/log"
	"spendtrack/internal/services"
	"spendtrack/internal/storage"
)

func main() {
	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: "server"})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// The AMQP mirror is optional: without a broker every write is still
	// durable locally, only the Sheets backup lags behind.
	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err, "url", cfg.AMQPURL)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("Mirror events enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Mirror events disabled - no AMQP_URL provided")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)
	authSvc := auth.NewService(repo, tokens)
	expenseSvc := services.NewExpenseService(repo, publisher)
	budgetSvc := services.NewBudgetService(repo, publisher)
	summarySvc := services.NewSummaryService(repo)

	srv := apphttp.NewServer(":"+cfg.Port, expenseSvc, budgetSvc, summarySvc, authSvc, repo, cfg.SessionTTL)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting spendtrack server", "port", cfg.Port, "db", cfg.SQLiteDBPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"balcao/internal/amqp"
	"balcao/internal/config"
	"balcao/internal/core"
	apphttp "balcao/internal/http"
	"balcao/internal/memory"
	"balcao/internal/services"
	"balcao/internal/storage"
	"balcao/internal/store"
)

func main() {
	// Load .env for local development; ignore errors in production
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var backend store.Store
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		backend = repo
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	default:
		mem := memory.New()
		mem.SeedReference(
			[]core.Register{
				{ID: "1", Name: "Cash", Kind: core.RegisterCash},
				{ID: "2", Name: "Card", Kind: core.RegisterOther},
				{ID: "3", Name: "Transfer", Kind: core.RegisterOther},
			},
			[]core.Category{
				{ID: "1", Name: "Sale", Affinity: core.CategoryInflow},
				{ID: "2", Name: "Supplies", Affinity: core.CategoryOutflow},
				{ID: "3", Name: "Fixed Costs", Affinity: core.CategoryOutflow},
				{ID: "4", Name: "Payroll", Affinity: core.CategoryOutflow},
				{ID: "5", Name: "Other", Affinity: core.CategoryAny},
			},
		)
		backend = mem
		logger.Info("Initialized memory backend")
	}

	// The event stream is optional; sales commit fine without it.
	var events *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer events.Close()
		logger.Info("Initialized AMQP event stream", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	ledger := services.NewLedgerService(backend)
	inventory := services.NewInventoryService(backend)
	sales := services.NewSaleService(backend, events, cfg.SaleCategoryID)
	reports := services.NewReportService(backend)

	srv := apphttp.NewServer(":"+cfg.Port, ledger, inventory, sales, reports, apphttp.Options{
		DailyTotalsDays: cfg.DailyTotalsDays,
		LowStockLimit:   cfg.LowStockLimit,
		RecentLimit:     cfg.RecentLimit,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

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

	logger.Info("Starting balcao server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

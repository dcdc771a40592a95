// The stock-alerts worker listens for committed sales and reports
// products that dropped to the restock threshold.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"balcao/internal/amqp"
	"balcao/internal/config"
	"balcao/internal/services"
	"balcao/internal/storage"
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
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the stock-alerts worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	events, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer events.Close()

	reports := services.NewReportService(repo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return events.ConsumeSaleCommitted(ctx, func(msg *amqp.SaleCommittedMessage) error {
			if msg.Partial {
				logger.Warn("Sale committed with unsynced stock",
					"transaction_id", msg.TransactionID,
					"unsynced_products", msg.ProductIDs)
			}

			low, err := reports.LowStock(ctx, cfg.LowStockLimit)
			if err != nil {
				return err
			}
			for _, p := range low {
				logger.Warn("Product needs restocking",
					"product_id", p.ID,
					"name", p.Name,
					"quantity", p.Quantity.String())
			}
			if len(low) == 0 {
				logger.Info("Stock levels healthy", "transaction_id", msg.TransactionID)
			}
			return nil
		})
	})

	logger.Info("Starting stock-alerts worker",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue,
		"db", cfg.SQLiteDBPath)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

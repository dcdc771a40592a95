package services

import (
	"context"
	"fmt"
	"time"

	"balcao/internal/core"
	"balcao/internal/store"
)

// ReportService feeds ledger and inventory snapshots through the pure
// aggregation functions in core. Reads run concurrently with writers
// and do not need a single consistent point in time across the two
// stores.
type ReportService struct {
	store store.Store
}

func NewReportService(st store.Store) *ReportService {
	return &ReportService{store: st}
}

func (s *ReportService) snapshotTransactions(ctx context.Context) ([]core.Transaction, error) {
	txns, err := s.store.ListTransactions(ctx, store.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("ledger snapshot: %w", err)
	}
	return txns, nil
}

func (s *ReportService) snapshotProducts(ctx context.Context) ([]core.Product, error) {
	products, err := s.store.ListProducts(ctx, store.ProductListOptions{})
	if err != nil {
		return nil, fmt.Errorf("inventory snapshot: %w", err)
	}
	return products, nil
}

// TodaySummary returns sales, expenses, profit for the current UTC day
// plus the value of stock on hand.
func (s *ReportService) TodaySummary(ctx context.Context) (core.TodaySummary, error) {
	txns, err := s.snapshotTransactions(ctx)
	if err != nil {
		return core.TodaySummary{}, err
	}
	products, err := s.snapshotProducts(ctx)
	if err != nil {
		return core.TodaySummary{}, err
	}
	return core.SummarizeToday(txns, products, time.Now()), nil
}

// DailyTotals returns one inflow/outflow entry per day for the last
// days days, zero-activity days included.
func (s *ReportService) DailyTotals(ctx context.Context, days int) ([]core.DailyTotal, error) {
	txns, err := s.snapshotTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return core.DailyTotals(txns, time.Now(), days), nil
}

// LowStock lists products needing restock, fewest first.
func (s *ReportService) LowStock(ctx context.Context, limit int) ([]core.Product, error) {
	products, err := s.snapshotProducts(ctx)
	if err != nil {
		return nil, err
	}
	return core.LowStockProducts(products, limit), nil
}

// RecentActivity lists the newest ledger records.
func (s *ReportService) RecentActivity(ctx context.Context, limit int) ([]core.Transaction, error) {
	txns, err := s.snapshotTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return core.RecentActivity(txns, limit), nil
}

// CategoryBreakdown groups outflows within the period by resolved
// category.
func (s *ReportService) CategoryBreakdown(ctx context.Context, period core.Period) ([]core.CategoryAmount, error) {
	txns, err := s.snapshotTransactions(ctx)
	if err != nil {
		return nil, err
	}
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	catMap := make(map[string]core.Category, len(cats))
	for _, c := range cats {
		catMap[c.ID] = c
	}
	return core.CategoryBreakdown(txns, catMap, period, time.Now()), nil
}

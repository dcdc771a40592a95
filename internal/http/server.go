// Package http exposes the core to UI and reporting collaborators as a
// JSON API.
package http

import (
	"net/http"

	applog "balcao/internal/log"
	"balcao/internal/services"
)

type Server struct {
	http.Server

	ledger    *services.LedgerService
	inventory *services.InventoryService
	sales     *services.SaleService
	reports   *services.ReportService

	// Reporting defaults applied when the query carries no limits.
	dailyTotalsDays int
	lowStockLimit   int
	recentLimit     int
}

type Options struct {
	DailyTotalsDays int
	LowStockLimit   int
	RecentLimit     int
}

func NewServer(addr string, ledger *services.LedgerService, inventory *services.InventoryService, sales *services.SaleService, reports *services.ReportService, opts Options) *Server {
	s := &Server{
		ledger:          ledger,
		inventory:       inventory,
		sales:           sales,
		reports:         reports,
		dailyTotalsDays: opts.DailyTotalsDays,
		lowStockLimit:   opts.LowStockLimit,
		recentLimit:     opts.RecentLimit,
	}
	if s.dailyTotalsDays <= 0 {
		s.dailyTotalsDays = 7
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PATCH /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/products", s.handleListProducts)
	mux.HandleFunc("POST /api/products", s.handleCreateProduct)
	mux.HandleFunc("GET /api/products/{id}", s.handleGetProduct)
	mux.HandleFunc("DELETE /api/products/{id}", s.handleDeleteProduct)
	mux.HandleFunc("POST /api/products/{id}/adjust", s.handleAdjustProduct)

	mux.HandleFunc("GET /api/registers", s.handleListRegisters)
	mux.HandleFunc("GET /api/categories", s.handleListCategories)

	mux.HandleFunc("POST /api/sales", s.handleFinalizeSale)

	mux.HandleFunc("GET /api/reports/summary", s.handleTodaySummary)
	mux.HandleFunc("GET /api/reports/daily", s.handleDailyTotals)
	mux.HandleFunc("GET /api/reports/categories", s.handleCategoryBreakdown)
	mux.HandleFunc("GET /api/reports/low-stock", s.handleLowStock)
	mux.HandleFunc("GET /api/reports/recent", s.handleRecentActivity)

	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.Server = http.Server{
		Addr:    addr,
		Handler: applog.RequestLogger(mux),
	}
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package http

import (
	"net/http"
	"strconv"
)

type todaySummaryResponse struct {
	SalesToday     string `json:"sales_today"`
	ExpensesToday  string `json:"expenses_today"`
	ProfitToday    string `json:"profit_today"`
	InventoryValue string `json:"inventory_value"`
}

func (s *Server) handleTodaySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.reports.TodaySummary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todaySummaryResponse{
		SalesToday:     summary.Sales.String(),
		ExpensesToday:  summary.Expenses.String(),
		ProfitToday:    summary.Profit.String(),
		InventoryValue: summary.InventoryValue.String(),
	})
}

type dailyTotalJSON struct {
	Day     string `json:"day"`
	Inflow  string `json:"inflow"`
	Outflow string `json:"outflow"`
}

func (s *Server) handleDailyTotals(w http.ResponseWriter, r *http.Request) {
	days := s.dailyTotalsDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 366 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid days: must be between 1 and 366"})
			return
		}
		days = n
	}

	totals, err := s.reports.DailyTotals(r.Context(), days)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]dailyTotalJSON, len(totals))
	for i, d := range totals {
		out[i] = dailyTotalJSON{
			Day:     d.Day.Format("2006-01-02"),
			Inflow:  d.Inflow.String(),
			Outflow: d.Outflow.String(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type categoryAmountJSON struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

func (s *Server) handleCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	breakdown, err := s.reports.CategoryBreakdown(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]categoryAmountJSON, len(breakdown))
	for i, c := range breakdown {
		out[i] = categoryAmountJSON{Name: c.Name, Amount: c.Amount.String()}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) parseLimit(r *http.Request, fallback int) (int, bool) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (s *Server) handleLowStock(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.parseLimit(r, s.lowStockLimit)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
		return
	}

	products, err := s.reports.LowStock(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductListJSON(products))
}

func (s *Server) handleRecentActivity(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.parseLimit(r, s.recentLimit)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
		return
	}

	txns, err := s.reports.RecentActivity(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	categories, err := s.ledger.CategoryMap(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionListJSON(txns, categories))
}

package http

import (
	"log/slog"
	"net/http"
	"time"

	"balcao/internal/core"
	"balcao/internal/services"
	"balcao/internal/store"
)

type transactionRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Kind        string `json:"kind"`
	RegisterID  string `json:"register_id"`
	CategoryID  string `json:"category_id"`
	Date        string `json:"date"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	txn := core.Transaction{
		Description: req.Description,
		Amount:      amount,
		Kind:        core.TransactionKind(req.Kind),
		RegisterID:  req.RegisterID,
		CategoryID:  req.CategoryID,
	}
	if req.Date != "" {
		date, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date: must be RFC 3339"})
			return
		}
		txn.Date = date.UTC()
	}

	created, err := s.ledger.Create(r.Context(), txn)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Transaction created",
		"id", created.ID,
		"kind", created.Kind,
		"amount", created.Amount.String(),
		"component", "transaction_handler")

	writeJSON(w, http.StatusCreated, toTransactionJSON(created, nil))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	txn, err := s.ledger.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	categories, err := s.ledger.CategoryMap(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionJSON(txn, categories))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description *string `json:"description"`
		Amount      *string `json:"amount"`
		Kind        *string `json:"kind"`
		RegisterID  *string `json:"register_id"`
		CategoryID  *string `json:"category_id"`
		Date        *string `json:"date"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	patch := services.TransactionPatch{
		Description: req.Description,
		RegisterID:  req.RegisterID,
		CategoryID:  req.CategoryID,
	}
	if req.Amount != nil {
		amount, err := core.ParseMoney(*req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		patch.Amount = &amount
	}
	if req.Kind != nil {
		kind := core.TransactionKind(*req.Kind)
		patch.Kind = &kind
	}
	if req.Date != nil {
		date, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date: must be RFC 3339"})
			return
		}
		utc := date.UTC()
		patch.Date = &utc
	}

	updated, err := s.ledger.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionJSON(updated, nil))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type transactionListResponse struct {
	Transactions []transactionJSON `json:"transactions"`
	Totals       struct {
		Inflow  string `json:"inflow"`
		Outflow string `json:"outflow"`
		Balance string `json:"balance"`
	} `json:"totals"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	period, err := parsePeriod(q)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filter := core.TransactionFilter{
		Kind:       core.TransactionKind(q.Get("kind")),
		RegisterID: q.Get("register"),
		CategoryID: q.Get("category"),
		Search:     q.Get("q"),
		Period:     period,
	}
	if filter.Kind != "" {
		if err := filter.Kind.Validate(); err != nil {
			writeError(w, r, err)
			return
		}
	}

	opts := store.ListOptions{
		SortBy:     store.SortField(q.Get("sort_by")),
		Descending: q.Get("desc") == "true",
	}

	txns, totals, err := s.ledger.List(r.Context(), filter, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	categories, err := s.ledger.CategoryMap(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := transactionListResponse{Transactions: toTransactionListJSON(txns, categories)}
	resp.Totals.Inflow = totals.Inflow.String()
	resp.Totals.Outflow = totals.Outflow.String()
	resp.Totals.Balance = totals.Balance.String()
	writeJSON(w, http.StatusOK, resp)
}

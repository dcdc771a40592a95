package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"balcao/internal/core"
	"balcao/internal/services"
	"balcao/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

type errorResponse struct {
	Error            string   `json:"error"`
	UnsyncedProducts []string `json:"unsynced_products,omitempty"`
}

// writeError maps domain and store errors onto HTTP statuses:
// validation 422, missing records 404, rejected stock adjustments and
// partial commits 409, store failures 502, anything else 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var partial *services.PartialCommitError

	switch {
	case errors.As(err, &partial):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:            partial.Error(),
			UnsyncedProducts: partial.ProductIDs,
		})
	case services.IsValidationError(err):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrInsufficientStock):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrUnavailable):
		slog.ErrorContext(r.Context(), "Store unavailable", "error", err, "path", r.URL.Path)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "store unavailable"})
	default:
		slog.ErrorContext(r.Context(), "Unhandled error", "error", err, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

type transactionJSON struct {
	ID               string `json:"id"`
	Description      string `json:"description"`
	Amount           string `json:"amount"`
	Kind             string `json:"kind"`
	RegisterID       string `json:"register_id"`
	CategoryID       string `json:"category_id,omitempty"`
	Date             string `json:"date"`
	ResolvedCategory string `json:"resolved_category,omitempty"`
}

func toTransactionJSON(t core.Transaction, categories map[string]core.Category) transactionJSON {
	out := transactionJSON{
		ID:          t.ID,
		Description: t.Description,
		Amount:      t.Amount.String(),
		Kind:        string(t.Kind),
		RegisterID:  t.RegisterID,
		CategoryID:  t.CategoryID,
		Date:        t.Date.UTC().Format(time.RFC3339Nano),
	}
	if categories != nil {
		out.ResolvedCategory = core.ResolveCategory(t, categories)
	}
	return out
}

func toTransactionListJSON(txns []core.Transaction, categories map[string]core.Category) []transactionJSON {
	out := make([]transactionJSON, len(txns))
	for i, t := range txns {
		out[i] = toTransactionJSON(t, categories)
	}
	return out
}

type productJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	UnitCost  string `json:"unit_cost"`
	SalePrice string `json:"sale_price"`
	Mode      string `json:"mode"`
	Status    string `json:"status"`
}

func toProductJSON(p core.Product) productJSON {
	return productJSON{
		ID:        p.ID,
		Name:      p.Name,
		Quantity:  p.Quantity.String(),
		UnitCost:  p.UnitCost.String(),
		SalePrice: p.SalePrice.String(),
		Mode:      string(p.Mode),
		Status:    string(core.StatusFor(p.Quantity)),
	}
}

func toProductListJSON(products []core.Product) []productJSON {
	out := make([]productJSON, len(products))
	for i, p := range products {
		out[i] = toProductJSON(p)
	}
	return out
}

// parsePeriod builds a core.Period from the period/start/end query
// parameters. An unknown selector is a validation error; missing custom
// bounds fall back to match-everything per the period contract.
func parsePeriod(q map[string][]string) (core.Period, error) {
	get := func(key string) string {
		if vs := q[key]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}

	selector := core.PeriodSelector(get("period"))
	if selector == "" {
		selector = core.PeriodAll
	}
	if err := selector.Validate(); err != nil {
		return core.Period{}, err
	}

	p := core.Period{Selector: selector}
	if selector == core.PeriodCustom {
		if v := get("start"); v != "" {
			start, err := time.Parse("2006-01-02", v)
			if err != nil {
				return core.Period{}, core.ErrInvalidPeriod
			}
			p.Start = start
		}
		if v := get("end"); v != "" {
			end, err := time.Parse("2006-01-02", v)
			if err != nil {
				return core.Period{}, core.ErrInvalidPeriod
			}
			p.End = end
		}
	}
	return p, nil
}

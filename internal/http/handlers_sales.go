package http

import (
	"net/http"

	"balcao/internal/core"
	"balcao/internal/services"
)

type saleLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  string `json:"quantity"`
	// Amount is the entered total for manual-price products; ignored
	// for unit and weight modes.
	Amount string `json:"amount"`
}

type saleRequest struct {
	Lines      []saleLineRequest `json:"lines"`
	RegisterID string            `json:"register_id"`
	Received   string            `json:"received"`
}

type saleResponse struct {
	State            string          `json:"state"`
	Transaction      transactionJSON `json:"transaction"`
	Total            string          `json:"total"`
	Change           string          `json:"change"`
	UnsyncedProducts []string        `json:"unsynced_products,omitempty"`
}

// handleFinalizeSale runs one whole checkout: cart assembly from the
// request lines, then the commit protocol. A partial commit still
// recorded money, so it answers 409 with the unsynced products rather
// than pretending nothing happened.
func (s *Server) handleFinalizeSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cart := services.NewCart()
	for _, line := range req.Lines {
		product, err := s.inventory.Get(r.Context(), line.ProductID)
		if err != nil {
			writeError(w, r, err)
			return
		}

		qty := core.QuantityZero()
		if line.Quantity != "" {
			qty, err = core.ParseQuantity(line.Quantity)
			if err != nil {
				writeError(w, r, err)
				return
			}
		}
		amount := core.MoneyZero()
		if line.Amount != "" {
			amount, err = core.ParseMoney(line.Amount)
			if err != nil {
				writeError(w, r, err)
				return
			}
		}

		if _, err := cart.AddLine(product, qty, amount); err != nil {
			writeError(w, r, err)
			return
		}
	}

	var received *core.Money
	if req.Received != "" {
		m, err := core.ParseMoney(req.Received)
		if err != nil {
			writeError(w, r, err)
			return
		}
		received = &m
	}

	result, err := s.sales.Finalize(r.Context(), cart, req.RegisterID, received)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, saleResponse{
		State:       string(result.State),
		Transaction: toTransactionJSON(result.Transaction, nil),
		Total:       result.Total.String(),
		Change:      result.Change.String(),
	})
}

package http

import (
	"log/slog"
	"net/http"

	"balcao/internal/core"
	"balcao/internal/store"
)

type productRequest struct {
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	UnitCost  string `json:"unit_cost"`
	SalePrice string `json:"sale_price"`
	Mode      string `json:"mode"`
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p := core.Product{
		Name:      req.Name,
		Quantity:  core.QuantityZero(),
		UnitCost:  core.MoneyZero(),
		SalePrice: core.MoneyZero(),
		Mode:      core.SaleMode(req.Mode),
	}
	if req.Quantity != "" {
		qty, err := core.ParseQuantity(req.Quantity)
		if err != nil {
			writeError(w, r, err)
			return
		}
		p.Quantity = qty
	}
	if req.UnitCost != "" {
		cost, err := core.ParseMoney(req.UnitCost)
		if err != nil {
			writeError(w, r, err)
			return
		}
		p.UnitCost = cost
	}
	if req.SalePrice != "" {
		price, err := core.ParseMoney(req.SalePrice)
		if err != nil {
			writeError(w, r, err)
			return
		}
		p.SalePrice = price
	}

	created, err := s.inventory.Create(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Product created",
		"id", created.ID,
		"name", created.Name,
		"mode", created.Mode,
		"component", "product_handler")

	writeJSON(w, http.StatusCreated, toProductJSON(created))
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.inventory.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductJSON(p))
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	opts := store.ProductListOptions{
		SellableOnly: r.URL.Query().Get("sellable") == "true",
	}
	products, err := s.inventory.List(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductListJSON(products))
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.inventory.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdjustProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta string `json:"delta"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	delta, err := core.ParseQuantity(req.Delta)
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := s.inventory.Adjust(r.Context(), r.PathValue("id"), delta)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Stock manually adjusted",
		"id", p.ID,
		"delta", delta.String(),
		"quantity", p.Quantity.String(),
		"component", "product_handler")

	writeJSON(w, http.StatusOK, toProductJSON(p))
}

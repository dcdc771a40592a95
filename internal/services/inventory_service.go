package services

import (
	"context"
	"fmt"

	"balcao/internal/core"
	"balcao/internal/store"
)

// InventoryService owns per-product stock state. It never clamps an
// adjustment itself; the store-side guard rejects anything that would
// land below zero.
type InventoryService struct {
	store store.Store
}

func NewInventoryService(st store.Store) *InventoryService {
	return &InventoryService{store: st}
}

func (s *InventoryService) Create(ctx context.Context, p core.Product) (core.Product, error) {
	if err := p.Validate(); err != nil {
		return core.Product{}, err
	}
	created, err := s.store.CreateProduct(ctx, p)
	if err != nil {
		return core.Product{}, fmt.Errorf("create product: %w", err)
	}
	return created, nil
}

func (s *InventoryService) Get(ctx context.Context, id string) (core.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *InventoryService) List(ctx context.Context, opts store.ProductListOptions) ([]core.Product, error) {
	products, err := s.store.ListProducts(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *InventoryService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteProduct(ctx, id)
}

// Adjust applies a manual stock correction through the same atomic
// read-modify-write sales use, so corrections and sales serialize on
// the stored quantity.
func (s *InventoryService) Adjust(ctx context.Context, id string, delta core.Quantity) (core.Product, error) {
	return s.store.AdjustQuantity(ctx, id, delta)
}

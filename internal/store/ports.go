// Package store defines the record-store contract the core consumes.
// Backends (SQLite, in-memory) implement these ports; components hold no
// ambient singleton and receive their store by injection.
package store

import (
	"context"
	"errors"

	"balcao/internal/core"
)

var (
	// ErrNotFound reports that an operation targeted a missing id.
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable reports that the underlying store call failed or
	// timed out. The core never retries; retry policy belongs to callers.
	ErrUnavailable = errors.New("store unavailable")
	// ErrInsufficientStock reports that a quantity adjustment would have
	// driven stock below zero and was rejected by the store-side guard.
	ErrInsufficientStock = errors.New("insufficient stock")
)

const (
	SortByDate        SortField = "date"
	SortByAmount      SortField = "amount"
	SortByDescription SortField = "description"
)

type (
	SortField string

	// ListOptions makes result ordering an explicit query parameter.
	// A zero value means store order, which carries no guarantee.
	ListOptions struct {
		SortBy     SortField
		Descending bool
	}

	// ProductListOptions narrows product listings. SellableOnly keeps
	// manual-price products and stock-tracked products with stock left.
	ProductListOptions struct {
		SellableOnly bool
	}

	// TransactionStore owns the ledger records.
	TransactionStore interface {
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id string) error
		ListTransactions(ctx context.Context, opts ListOptions) ([]core.Transaction, error)
	}

	// ProductStore owns per-product stock quantity, cost and price.
	// AdjustQuantity must be applied as one atomic read-modify-write
	// against the stored quantity, never a client-cached value.
	ProductStore interface {
		CreateProduct(ctx context.Context, p core.Product) (core.Product, error)
		GetProduct(ctx context.Context, id string) (core.Product, error)
		DeleteProduct(ctx context.Context, id string) error
		ListProducts(ctx context.Context, opts ProductListOptions) ([]core.Product, error)
		AdjustQuantity(ctx context.Context, id string, delta core.Quantity) (core.Product, error)
	}

	// ReferenceStore serves the immutable reference entities.
	ReferenceStore interface {
		ListRegisters(ctx context.Context) ([]core.Register, error)
		GetRegister(ctx context.Context, id string) (core.Register, error)
		ListCategories(ctx context.Context) ([]core.Category, error)
		GetCategory(ctx context.Context, id string) (core.Category, error)
	}

	// Store is the full contract a backend provides.
	Store interface {
		TransactionStore
		ProductStore
		ReferenceStore
	}
)

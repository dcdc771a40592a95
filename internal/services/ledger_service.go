// Package services orchestrates the domain logic over the record store
// and the event stream.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"balcao/internal/core"
	"balcao/internal/store"
)

// LedgerService owns the transaction log: CRUD plus filtered queries.
// Validation happens here, before any store call.
type LedgerService struct {
	store store.Store
}

func NewLedgerService(st store.Store) *LedgerService {
	return &LedgerService{store: st}
}

// TransactionPatch is a partial update; nil fields keep the stored
// value. The stored timestamp survives an edit unless Date explicitly
// backdates the record.
type TransactionPatch struct {
	Description *string
	Amount      *core.Money
	Kind        *core.TransactionKind
	RegisterID  *string
	CategoryID  *string
	Date        *time.Time
}

// checkCategory enforces the kind/affinity invariant for a stored
// category reference. An empty reference is always fine.
func (s *LedgerService) checkCategory(ctx context.Context, categoryID string, kind core.TransactionKind) error {
	if categoryID == "" {
		return nil
	}
	cat, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if !cat.CompatibleWith(kind) {
		return fmt.Errorf("category %s: %w", categoryID, core.ErrKindCategoryMismatch)
	}
	return nil
}

func (s *LedgerService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.checkCategory(ctx, t.CategoryID, t.Kind); err != nil {
		return core.Transaction{}, err
	}
	if t.Date.IsZero() {
		t.Date = time.Now().UTC()
	}
	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("append transaction: %w", err)
	}
	return created, nil
}

func (s *LedgerService) Get(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

// Update merges the patch over the stored record and rejects merges
// that violate the amount/kind/category invariants before writing.
func (s *LedgerService) Update(ctx context.Context, id string, patch TransactionPatch) (core.Transaction, error) {
	current, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}

	if patch.Description != nil {
		current.Description = *patch.Description
	}
	if patch.Amount != nil {
		current.Amount = *patch.Amount
	}
	if patch.Kind != nil {
		current.Kind = *patch.Kind
	}
	if patch.RegisterID != nil {
		current.RegisterID = *patch.RegisterID
	}
	if patch.CategoryID != nil {
		current.CategoryID = *patch.CategoryID
	}
	if patch.Date != nil {
		current.Date = patch.Date.UTC()
	}

	if err := current.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.checkCategory(ctx, current.CategoryID, current.Kind); err != nil {
		return core.Transaction{}, err
	}

	updated, err := s.store.UpdateTransaction(ctx, current)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	return updated, nil
}

func (s *LedgerService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteTransaction(ctx, id)
}

// List fetches the ledger with explicit ordering, applies the filter in
// memory, and totals the surviving slice.
func (s *LedgerService) List(ctx context.Context, filter core.TransactionFilter, opts store.ListOptions) ([]core.Transaction, core.LedgerTotals, error) {
	txns, err := s.store.ListTransactions(ctx, opts)
	if err != nil {
		return nil, core.LedgerTotals{}, fmt.Errorf("list transactions: %w", err)
	}
	filtered := core.FilterTransactions(txns, filter)
	return filtered, core.SumLedger(filtered), nil
}

// CategoryMap loads the category reference data keyed by id, for
// resolved-category display derivation.
func (s *LedgerService) CategoryMap(ctx context.Context) (map[string]core.Category, error) {
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	m := make(map[string]core.Category, len(cats))
	for _, c := range cats {
		m[c.ID] = c
	}
	return m, nil
}

// ListRegisters exposes the payment-channel reference data.
func (s *LedgerService) ListRegisters(ctx context.Context) ([]core.Register, error) {
	registers, err := s.store.ListRegisters(ctx)
	if err != nil {
		return nil, fmt.Errorf("list registers: %w", err)
	}
	return registers, nil
}

// ListCategories exposes the category reference data.
func (s *LedgerService) ListCategories(ctx context.Context) ([]core.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// IsValidationError reports whether err is a pre-store validation
// failure rather than a store-side one.
func IsValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidQuantity,
		core.ErrEmptyDescription,
		core.ErrEmptyName,
		core.ErrInvalidKind,
		core.ErrInvalidSaleMode,
		core.ErrMissingRegister,
		core.ErrKindCategoryMismatch,
		core.ErrInvalidPeriod,
		ErrEmptyCart,
		ErrInsufficientPayment,
		ErrLineNotPositive,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

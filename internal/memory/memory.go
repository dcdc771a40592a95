// Package memory is the in-memory record-store backend. It backs tests
// and the default development mode; the SQLite backend is authoritative
// in deployment.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"balcao/internal/core"
	"balcao/internal/store"
)

// Store keeps all records in maps guarded by one RWMutex. Reads copy
// records out, so callers never observe later mutations.
type Store struct {
	mu         sync.RWMutex
	txns       map[string]core.Transaction
	products   map[string]core.Product
	registers  map[string]core.Register
	categories map[string]core.Category
}

func New() *Store {
	return &Store{
		txns:       make(map[string]core.Transaction),
		products:   make(map[string]core.Product),
		registers:  make(map[string]core.Register),
		categories: make(map[string]core.Category),
	}
}

// SeedReference loads the immutable reference entities. Registers and
// categories have stable caller-assigned ids.
func (s *Store) SeedReference(registers []core.Register, categories []core.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range registers {
		s.registers[r.ID] = r
	}
	for _, c := range categories {
		s.categories[c.ID] = c
	}
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Date.IsZero() {
		t.Date = time.Now().UTC()
	}
	s.txns[t.ID] = t
	return t, nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.txns[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	return t, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txns[t.ID]; !ok {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", t.ID, store.ErrNotFound)
	}
	s.txns[t.ID] = t
	return t, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txns[id]; !ok {
		return fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	delete(s.txns, id)
	return nil
}

func (s *Store) ListTransactions(_ context.Context, opts store.ListOptions) ([]core.Transaction, error) {
	s.mu.RLock()
	out := make([]core.Transaction, 0, len(s.txns))
	for _, t := range s.txns {
		out = append(out, t)
	}
	s.mu.RUnlock()

	sortTransactions(out, opts)
	return out, nil
}

func sortTransactions(txns []core.Transaction, opts store.ListOptions) {
	var less func(i, j int) bool
	switch opts.SortBy {
	case store.SortByDate:
		less = func(i, j int) bool { return txns[i].Date.Before(txns[j].Date) }
	case store.SortByAmount:
		less = func(i, j int) bool { return txns[i].Amount.LessThan(txns[j].Amount) }
	case store.SortByDescription:
		less = func(i, j int) bool { return txns[i].Description < txns[j].Description }
	default:
		// Store order carries no guarantee; leave map iteration order.
		return
	}
	if opts.Descending {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}
	sort.SliceStable(txns, less)
}

func (s *Store) CreateProduct(_ context.Context, p core.Product) (core.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.products[p.ID] = p
	return p, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (core.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return core.Product{}, fmt.Errorf("product %s: %w", id, store.ErrNotFound)
	}
	return p, nil
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return fmt.Errorf("product %s: %w", id, store.ErrNotFound)
	}
	delete(s.products, id)
	return nil
}

func (s *Store) ListProducts(_ context.Context, opts store.ProductListOptions) ([]core.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Product, 0, len(s.products))
	for _, p := range s.products {
		if opts.SellableOnly && p.StockTracked() && !p.Quantity.IsPositive() {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// AdjustQuantity applies delta to the stored quantity under the write
// lock, so concurrent adjustments serialize against the current value
// rather than a caller-cached one. Results below zero are rejected.
func (s *Store) AdjustQuantity(_ context.Context, id string, delta core.Quantity) (core.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return core.Product{}, fmt.Errorf("product %s: %w", id, store.ErrNotFound)
	}
	next := p.Quantity.Add(delta)
	if next.IsNegative() {
		return core.Product{}, fmt.Errorf("product %s: %w", id, store.ErrInsufficientStock)
	}
	p.Quantity = next
	s.products[id] = p
	return p, nil
}

func (s *Store) ListRegisters(_ context.Context) ([]core.Register, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Register, 0, len(s.registers))
	for _, r := range s.registers {
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetRegister(_ context.Context, id string) (core.Register, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.registers[id]
	if !ok {
		return core.Register{}, fmt.Errorf("register %s: %w", id, store.ErrNotFound)
	}
	return r, nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetCategory(_ context.Context, id string) (core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return core.Category{}, fmt.Errorf("category %s: %w", id, store.ErrNotFound)
	}
	return c, nil
}

package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"balcao/internal/core"
	"balcao/internal/store"
)

func mustMoney(t *testing.T, s string) core.Money {
	t.Helper()
	m, err := core.ParseMoney(s)
	if err != nil {
		t.Fatalf("ParseMoney(%q) failed: %v", s, err)
	}
	return m
}

func mustQuantity(t *testing.T, s string) core.Quantity {
	t.Helper()
	q, err := core.ParseQuantity(s)
	if err != nil {
		t.Fatalf("ParseQuantity(%q) failed: %v", s, err)
	}
	return q
}

func TestTransactionCRUD(t *testing.T) {
	ctx := context.Background()
	st := New()

	created, err := st.CreateTransaction(ctx, core.Transaction{
		Description: "Sale: 2x Coffee",
		Amount:      mustMoney(t, "20.00"),
		Kind:        core.Inflow,
		RegisterID:  "1",
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.Date.IsZero() {
		t.Fatal("expected defaulted date")
	}

	got, err := st.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTransaction failed: %v", err)
	}
	if got.Description != created.Description || !got.Amount.Equal(created.Amount) {
		t.Errorf("round-trip mismatch: %+v vs %+v", got, created)
	}

	got.Description = "Sale: 3x Coffee"
	if _, err := st.UpdateTransaction(ctx, got); err != nil {
		t.Fatalf("UpdateTransaction failed: %v", err)
	}
	updated, err := st.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTransaction after update failed: %v", err)
	}
	if updated.Description != "Sale: 3x Coffee" {
		t.Errorf("update not persisted: %q", updated.Description)
	}

	if err := st.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	if _, err := st.GetTransaction(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestTransactionNotFound(t *testing.T) {
	ctx := context.Background()
	st := New()

	if _, err := st.GetTransaction(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get: expected ErrNotFound, got %v", err)
	}
	if _, err := st.UpdateTransaction(ctx, core.Transaction{ID: "missing"}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Update: expected ErrNotFound, got %v", err)
	}
	if err := st.DeleteTransaction(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}
}

func TestListTransactionsSorting(t *testing.T) {
	ctx := context.Background()
	st := New()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, tr := range []core.Transaction{
		{ID: "b", Description: "beta", Amount: mustMoney(t, "30.00"), Kind: core.Inflow, RegisterID: "1", Date: base.AddDate(0, 0, 1)},
		{ID: "a", Description: "alpha", Amount: mustMoney(t, "10.00"), Kind: core.Inflow, RegisterID: "1", Date: base.AddDate(0, 0, 2)},
		{ID: "c", Description: "gamma", Amount: mustMoney(t, "20.00"), Kind: core.Inflow, RegisterID: "1", Date: base},
	} {
		if _, err := st.CreateTransaction(ctx, tr); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
	}

	tests := []struct {
		name    string
		opts    store.ListOptions
		wantIDs []string
	}{
		{name: "by date ascending", opts: store.ListOptions{SortBy: store.SortByDate}, wantIDs: []string{"c", "b", "a"}},
		{name: "by date descending", opts: store.ListOptions{SortBy: store.SortByDate, Descending: true}, wantIDs: []string{"a", "b", "c"}},
		{name: "by amount", opts: store.ListOptions{SortBy: store.SortByAmount}, wantIDs: []string{"a", "c", "b"}},
		{name: "by description", opts: store.ListOptions{SortBy: store.SortByDescription}, wantIDs: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := st.ListTransactions(ctx, tt.opts)
			if err != nil {
				t.Fatalf("ListTransactions failed: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d transactions, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestProductCRUDAndSellableFilter(t *testing.T) {
	ctx := context.Background()
	st := New()

	for _, p := range []core.Product{
		{ID: "p1", Name: "Coffee", Quantity: mustQuantity(t, "10"), SalePrice: mustMoney(t, "10.00"), Mode: core.SoldByUnit},
		{ID: "p2", Name: "Beef", Quantity: mustQuantity(t, "0"), SalePrice: mustMoney(t, "40.00"), Mode: core.SoldByWeight},
		{ID: "p3", Name: "Service", Quantity: mustQuantity(t, "0"), Mode: core.ManualPrice},
	} {
		if _, err := st.CreateProduct(ctx, p); err != nil {
			t.Fatalf("CreateProduct failed: %v", err)
		}
	}

	all, err := st.ListProducts(ctx, store.ProductListOptions{})
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d products, want 3", len(all))
	}

	// Sellable excludes out-of-stock tracked products but keeps
	// manual-price ones regardless of quantity.
	sellable, err := st.ListProducts(ctx, store.ProductListOptions{SellableOnly: true})
	if err != nil {
		t.Fatalf("ListProducts sellable failed: %v", err)
	}
	ids := make(map[string]bool, len(sellable))
	for _, p := range sellable {
		ids[p.ID] = true
	}
	if !ids["p1"] || !ids["p3"] || ids["p2"] {
		t.Errorf("sellable filter wrong: %v", ids)
	}

	if err := st.DeleteProduct(ctx, "p1"); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}
	if _, err := st.GetProduct(ctx, "p1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestAdjustQuantity(t *testing.T) {
	ctx := context.Background()
	st := New()
	if _, err := st.CreateProduct(ctx, core.Product{
		ID: "p1", Name: "Coffee", Quantity: mustQuantity(t, "5"), Mode: core.SoldByUnit,
	}); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	p, err := st.AdjustQuantity(ctx, "p1", mustQuantity(t, "-2"))
	if err != nil {
		t.Fatalf("AdjustQuantity failed: %v", err)
	}
	if !p.Quantity.Equal(mustQuantity(t, "3")) {
		t.Errorf("quantity = %s, want 3", p.Quantity.String())
	}

	// Zero delta leaves the record untouched.
	p, err = st.AdjustQuantity(ctx, "p1", core.QuantityZero())
	if err != nil {
		t.Fatalf("zero adjust failed: %v", err)
	}
	if !p.Quantity.Equal(mustQuantity(t, "3")) {
		t.Errorf("zero adjust changed quantity to %s", p.Quantity.String())
	}

	// Draining to exactly zero is fine; going below is not.
	if _, err := st.AdjustQuantity(ctx, "p1", mustQuantity(t, "-3")); err != nil {
		t.Fatalf("drain to zero failed: %v", err)
	}
	if _, err := st.AdjustQuantity(ctx, "p1", mustQuantity(t, "-0.001")); !errors.Is(err, store.ErrInsufficientStock) {
		t.Errorf("expected ErrInsufficientStock, got %v", err)
	}

	if _, err := st.AdjustQuantity(ctx, "missing", mustQuantity(t, "-1")); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAdjustQuantityConcurrentLastUnit(t *testing.T) {
	ctx := context.Background()
	st := New()
	if _, err := st.CreateProduct(ctx, core.Product{
		ID: "p1", Name: "Last One", Quantity: mustQuantity(t, "1"), Mode: core.SoldByUnit,
	}); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = st.AdjustQuantity(ctx, "p1", mustQuantity(t, "-1"))
		}(i)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, store.ErrInsufficientStock):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || rejected != attempts-1 {
		t.Errorf("got %d successes and %d rejections, want 1 and %d", succeeded, rejected, attempts-1)
	}

	p, err := st.GetProduct(ctx, "p1")
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if !p.Quantity.IsZero() {
		t.Errorf("final quantity = %s, want 0", p.Quantity.String())
	}
}

func TestReferenceData(t *testing.T) {
	ctx := context.Background()
	st := New()
	st.SeedReference(
		[]core.Register{
			{ID: "2", Name: "Card", Kind: core.RegisterOther},
			{ID: "1", Name: "Cash", Kind: core.RegisterCash},
		},
		[]core.Category{
			{ID: "1", Name: "Sale", Affinity: core.CategoryInflow},
			{ID: "2", Name: "Supplies", Affinity: core.CategoryOutflow},
		},
	)

	registers, err := st.ListRegisters(ctx)
	if err != nil {
		t.Fatalf("ListRegisters failed: %v", err)
	}
	if len(registers) != 2 || registers[0].ID != "1" || registers[1].ID != "2" {
		t.Errorf("registers not sorted by id: %+v", registers)
	}

	r, err := st.GetRegister(ctx, "1")
	if err != nil {
		t.Fatalf("GetRegister failed: %v", err)
	}
	if !r.IsCash() {
		t.Error("register 1 should be cash")
	}
	if _, err := st.GetRegister(ctx, "9"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	categories, err := st.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(categories))
	}

	c, err := st.GetCategory(ctx, "2")
	if err != nil {
		t.Fatalf("GetCategory failed: %v", err)
	}
	if c.Affinity != core.CategoryOutflow {
		t.Errorf("affinity = %q, want outflow", c.Affinity)
	}
}

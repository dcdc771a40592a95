package core

import (
	"testing"
	"time"
)

func TestFilterTransactions(t *testing.T) {
	now := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)
	txns := []Transaction{
		{ID: "1", Description: "Sale: 2x Coffee", Amount: mustMoney(t, "20.00"), Kind: Inflow, RegisterID: "1", CategoryID: "1", Date: now},
		{ID: "2", Description: "Electricity bill", Amount: mustMoney(t, "80.00"), Kind: Outflow, RegisterID: "2", CategoryID: "3", Date: now.AddDate(0, 0, -1)},
		{ID: "3", Description: "Meat purchase", Amount: mustMoney(t, "45.00"), Kind: Outflow, RegisterID: "1", CategoryID: "2", Date: now.AddDate(0, -2, 0)},
	}

	tests := []struct {
		name    string
		filter  TransactionFilter
		wantIDs []string
	}{
		{name: "no constraints", filter: TransactionFilter{Now: now}, wantIDs: []string{"1", "2", "3"}},
		{name: "kind", filter: TransactionFilter{Kind: Outflow, Now: now}, wantIDs: []string{"2", "3"}},
		{name: "register", filter: TransactionFilter{RegisterID: "1", Now: now}, wantIDs: []string{"1", "3"}},
		{name: "category", filter: TransactionFilter{CategoryID: "2", Now: now}, wantIDs: []string{"3"}},
		{name: "search is case-insensitive", filter: TransactionFilter{Search: "COFFEE", Now: now}, wantIDs: []string{"1"}},
		{name: "period today", filter: TransactionFilter{Period: Period{Selector: PeriodToday}, Now: now}, wantIDs: []string{"1"}},
		{name: "combined", filter: TransactionFilter{Kind: Outflow, RegisterID: "1", Now: now}, wantIDs: []string{"3"}},
		{name: "no match", filter: TransactionFilter{Search: "pizza", Now: now}, wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterTransactions(txns, tt.filter)
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

func TestSumLedger(t *testing.T) {
	txns := []Transaction{
		{Amount: mustMoney(t, "100.00"), Kind: Inflow},
		{Amount: mustMoney(t, "50.50"), Kind: Inflow},
		{Amount: mustMoney(t, "30.00"), Kind: Outflow},
	}

	totals := SumLedger(txns)
	if totals.Inflow.String() != "150.50" {
		t.Errorf("inflow = %s, want 150.50", totals.Inflow.String())
	}
	if totals.Outflow.String() != "30.00" {
		t.Errorf("outflow = %s, want 30.00", totals.Outflow.String())
	}
	if totals.Balance.String() != "120.50" {
		t.Errorf("balance = %s, want 120.50", totals.Balance.String())
	}

	empty := SumLedger(nil)
	if !empty.Inflow.IsZero() || !empty.Outflow.IsZero() || !empty.Balance.IsZero() {
		t.Errorf("empty ledger totals not zero: %+v", empty)
	}
}

func TestSummarizeToday(t *testing.T) {
	now := time.Date(2025, 6, 11, 18, 0, 0, 0, time.UTC)
	txns := []Transaction{
		{Amount: mustMoney(t, "60.00"), Kind: Inflow, Date: now},
		{Amount: mustMoney(t, "40.00"), Kind: Inflow, Date: now.Add(-2 * time.Hour)},
		{Amount: mustMoney(t, "40.00"), Kind: Outflow, Date: now},
		// Yesterday's records must not count.
		{Amount: mustMoney(t, "500.00"), Kind: Inflow, Date: now.AddDate(0, 0, -1)},
		{Amount: mustMoney(t, "500.00"), Kind: Outflow, Date: now.AddDate(0, 0, -1)},
	}
	products := []Product{
		{Name: "Coffee", Quantity: mustQuantity(t, "10"), UnitCost: mustMoney(t, "4.00"), Mode: SoldByUnit},
		{Name: "Beef", Quantity: mustQuantity(t, "2.5"), UnitCost: mustMoney(t, "20.00"), Mode: SoldByWeight},
	}

	s := SummarizeToday(txns, products, now)
	if s.Sales.String() != "100.00" {
		t.Errorf("sales = %s, want 100.00", s.Sales.String())
	}
	if s.Expenses.String() != "40.00" {
		t.Errorf("expenses = %s, want 40.00", s.Expenses.String())
	}
	if s.Profit.String() != "60.00" {
		t.Errorf("profit = %s, want 60.00", s.Profit.String())
	}
	if s.InventoryValue.String() != "90.00" {
		t.Errorf("inventory value = %s, want 90.00", s.InventoryValue.String())
	}
}

func TestDailyTotals(t *testing.T) {
	now := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)
	txns := []Transaction{
		{Amount: mustMoney(t, "10.00"), Kind: Inflow, Date: now},
		{Amount: mustMoney(t, "5.00"), Kind: Outflow, Date: now},
		{Amount: mustMoney(t, "20.00"), Kind: Inflow, Date: now.AddDate(0, 0, -2)},
		// Outside the window.
		{Amount: mustMoney(t, "99.00"), Kind: Inflow, Date: now.AddDate(0, 0, -7)},
	}

	totals := DailyTotals(txns, now, 7)
	if len(totals) != 7 {
		t.Fatalf("got %d days, want 7", len(totals))
	}

	// Chronological: first entry six days back, last entry today.
	wantFirst := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	if !totals[0].Day.Equal(wantFirst) {
		t.Errorf("first day = %v, want %v", totals[0].Day, wantFirst)
	}
	if !totals[6].Day.Equal(time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("last day = %v, want today", totals[6].Day)
	}

	if totals[6].Inflow.String() != "10.00" || totals[6].Outflow.String() != "5.00" {
		t.Errorf("today = %s/%s, want 10.00/5.00", totals[6].Inflow.String(), totals[6].Outflow.String())
	}
	if totals[4].Inflow.String() != "20.00" {
		t.Errorf("two days back inflow = %s, want 20.00", totals[4].Inflow.String())
	}

	// Zero-activity days present and zeroed.
	if !totals[0].Inflow.IsZero() || !totals[0].Outflow.IsZero() {
		t.Errorf("quiet day not zeroed: %+v", totals[0])
	}
}

func TestLowStockProducts(t *testing.T) {
	products := []Product{
		{ID: "a", Name: "Plenty", Quantity: mustQuantity(t, "50"), Mode: SoldByUnit},
		{ID: "b", Name: "Low", Quantity: mustQuantity(t, "12"), Mode: SoldByUnit},
		{ID: "c", Name: "Empty", Quantity: mustQuantity(t, "0"), Mode: SoldByUnit},
		{ID: "d", Name: "Scarce", Quantity: mustQuantity(t, "3.5"), Mode: SoldByWeight},
		{ID: "e", Name: "Service", Quantity: mustQuantity(t, "0"), Mode: ManualPrice},
	}

	low := LowStockProducts(products, 0)
	wantOrder := []string{"c", "d", "b"}
	if len(low) != len(wantOrder) {
		t.Fatalf("got %d products, want %d", len(low), len(wantOrder))
	}
	for i, id := range wantOrder {
		if low[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, low[i].ID, id)
		}
	}

	limited := LowStockProducts(products, 2)
	if len(limited) != 2 || limited[0].ID != "c" || limited[1].ID != "d" {
		t.Errorf("limit 2: got %+v", limited)
	}
}

func TestRecentActivity(t *testing.T) {
	now := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)
	txns := []Transaction{
		{ID: "old", Date: now.AddDate(0, 0, -5)},
		{ID: "newest", Date: now},
		{ID: "mid", Date: now.AddDate(0, 0, -1)},
	}

	recent := RecentActivity(txns, 2)
	if len(recent) != 2 {
		t.Fatalf("got %d, want 2", len(recent))
	}
	if recent[0].ID != "newest" || recent[1].ID != "mid" {
		t.Errorf("got %s, %s; want newest, mid", recent[0].ID, recent[1].ID)
	}

	// Input slice must survive untouched.
	if txns[0].ID != "old" {
		t.Error("input slice reordered")
	}
}

func TestCategoryBreakdown(t *testing.T) {
	now := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)
	categories := map[string]Category{
		"2": {ID: "2", Name: "Supplies", Affinity: CategoryOutflow},
	}
	txns := []Transaction{
		{Description: "meat order", Amount: mustMoney(t, "45.00"), Kind: Outflow, CategoryID: "2", Date: now},
		{Description: "electricity bill", Amount: mustMoney(t, "80.00"), Kind: Outflow, Date: now},
		{Description: "napkins", Amount: mustMoney(t, "10.00"), Kind: Outflow, CategoryID: "2", Date: now},
		// Inflows never appear in the breakdown.
		{Description: "Sale: 2x Coffee", Amount: mustMoney(t, "20.00"), Kind: Inflow, Date: now},
		// Out of period.
		{Description: "old supply run", Amount: mustMoney(t, "500.00"), Kind: Outflow, CategoryID: "2", Date: now.AddDate(0, -1, 0)},
	}

	got := CategoryBreakdown(txns, categories, Period{Selector: PeriodThisMonth}, now)
	want := []CategoryAmount{
		{Name: "Fixed Costs", Amount: mustMoney(t, "80.00")},
		{Name: "Supplies", Amount: mustMoney(t, "55.00")},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].Name != want[i].Name || !got[i].Amount.Equal(want[i].Amount) {
			t.Errorf("entry %d: got %s=%s, want %s=%s",
				i, got[i].Name, got[i].Amount.String(), want[i].Name, want[i].Amount.String())
		}
	}
}

func TestInventoryValue(t *testing.T) {
	products := []Product{
		{Quantity: mustQuantity(t, "10"), UnitCost: mustMoney(t, "4.00")},
		{Quantity: mustQuantity(t, "1.5"), UnitCost: mustMoney(t, "20.00")},
	}
	if got := InventoryValue(products); got.String() != "70.00" {
		t.Errorf("got %s, want 70.00", got.String())
	}
	if got := InventoryValue(nil); !got.IsZero() {
		t.Errorf("empty inventory value = %s, want 0", got.String())
	}
}

package core

import (
	"sort"
	"strings"
	"time"
)

// TransactionFilter narrows a ledger snapshot. Zero values mean "no
// constraint"; Search matches case-insensitively on the description.
type TransactionFilter struct {
	Kind       TransactionKind
	RegisterID string
	CategoryID string
	Search     string
	Period     Period
	Now        time.Time
}

// Matches applies every set constraint of the filter to one transaction.
func (f TransactionFilter) Matches(t Transaction) bool {
	if f.Kind != "" && t.Kind != f.Kind {
		return false
	}
	if f.RegisterID != "" && t.RegisterID != f.RegisterID {
		return false
	}
	if f.CategoryID != "" && t.CategoryID != f.CategoryID {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(t.Description), strings.ToLower(f.Search)) {
		return false
	}
	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}
	return f.Period.Matches(t.Date, now)
}

// FilterTransactions returns the transactions matching the filter,
// preserving input order.
func FilterTransactions(txns []Transaction, f TransactionFilter) []Transaction {
	out := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// SumLedger totals inflows and outflows of a (usually filtered) ledger
// slice. An empty slice yields zeroed totals.
func SumLedger(txns []Transaction) LedgerTotals {
	totals := LedgerTotals{Inflow: MoneyZero(), Outflow: MoneyZero()}
	for _, t := range txns {
		switch t.Kind {
		case Inflow:
			totals.Inflow = totals.Inflow.Add(t.Amount)
		case Outflow:
			totals.Outflow = totals.Outflow.Add(t.Amount)
		}
	}
	totals.Balance = totals.Inflow.Sub(totals.Outflow)
	return totals
}

// SummarizeToday produces the dashboard headline from ledger and
// inventory snapshots: today's sales, expenses, profit, and the value of
// stock on hand at unit cost.
func SummarizeToday(txns []Transaction, products []Product, now time.Time) TodaySummary {
	today := Period{Selector: PeriodToday}
	s := TodaySummary{
		Sales:          MoneyZero(),
		Expenses:       MoneyZero(),
		InventoryValue: MoneyZero(),
	}
	for _, t := range txns {
		if !today.Matches(t.Date, now) {
			continue
		}
		switch t.Kind {
		case Inflow:
			s.Sales = s.Sales.Add(t.Amount)
		case Outflow:
			s.Expenses = s.Expenses.Add(t.Amount)
		}
	}
	s.Profit = s.Sales.Sub(s.Expenses)
	for _, p := range products {
		s.InventoryValue = s.InventoryValue.Add(p.Quantity.Mul(p.UnitCost))
	}
	return s
}

// DailyTotals rolls the ledger up into one entry per UTC day for the
// last days days ending at now, zero-activity days included, in
// chronological order.
func DailyTotals(txns []Transaction, now time.Time, days int) []DailyTotal {
	if days <= 0 {
		days = 7
	}
	end := dayUTC(now)
	start := end.AddDate(0, 0, -(days - 1))

	totals := make([]DailyTotal, days)
	index := make(map[time.Time]int, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		totals[i] = DailyTotal{Day: day, Inflow: MoneyZero(), Outflow: MoneyZero()}
		index[day] = i
	}

	for _, t := range txns {
		i, ok := index[dayUTC(t.Date)]
		if !ok {
			continue
		}
		switch t.Kind {
		case Inflow:
			totals[i].Inflow = totals[i].Inflow.Add(t.Amount)
		case Outflow:
			totals[i].Outflow = totals[i].Outflow.Add(t.Amount)
		}
	}
	return totals
}

// LowStockProducts lists products needing restock, ascending by
// quantity. A positive limit truncates to the top entries.
func LowStockProducts(products []Product, limit int) []Product {
	low := make([]Product, 0)
	for _, p := range products {
		if !p.StockTracked() {
			continue
		}
		if StatusFor(p.Quantity).NeedsRestock() {
			low = append(low, p)
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		return low[i].Quantity.LessThan(low[j].Quantity)
	})
	if limit > 0 && len(low) > limit {
		low = low[:limit]
	}
	return low
}

// RecentActivity lists ledger records newest first. A positive limit
// truncates to the top entries.
func RecentActivity(txns []Transaction, limit int) []Transaction {
	recent := make([]Transaction, len(txns))
	copy(recent, txns)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// ResolveCategory returns the stored category name when the transaction
// carries one, else the classifier fallback. Pure lookup; the stored
// record is never touched.
func ResolveCategory(t Transaction, categories map[string]Category) string {
	if t.CategoryID != "" {
		if c, ok := categories[t.CategoryID]; ok {
			return c.Name
		}
	}
	return Classify(t.Description)
}

// CategoryBreakdown groups outflow records within the period by resolved
// category and sums their amounts. Output is ordered by descending
// amount, ties broken by name, so repeated runs over the same snapshot
// are reproducible.
func CategoryBreakdown(txns []Transaction, categories map[string]Category, period Period, now time.Time) []CategoryAmount {
	sums := make(map[string]Money)
	for _, t := range txns {
		if t.Kind != Outflow || !period.Matches(t.Date, now) {
			continue
		}
		name := ResolveCategory(t, categories)
		cur, ok := sums[name]
		if !ok {
			cur = MoneyZero()
		}
		sums[name] = cur.Add(t.Amount)
	}

	out := make([]CategoryAmount, 0, len(sums))
	for name, amount := range sums {
		out = append(out, CategoryAmount{Name: name, Amount: amount})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[j].Amount.LessThan(out[i].Amount)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// InventoryValue sums quantity times unit cost over all products.
func InventoryValue(products []Product) Money {
	total := MoneyZero()
	for _, p := range products {
		total = total.Add(p.Quantity.Mul(p.UnitCost))
	}
	return total
}

package core

import "time"

// CategoryAmount is an amount aggregated under a category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// DailyTotal is the inflow/outflow rollup of one UTC day.
type DailyTotal struct {
	Day     time.Time
	Inflow  Money
	Outflow Money
}

// TodaySummary is the dashboard headline for the current UTC day.
type TodaySummary struct {
	Sales          Money
	Expenses       Money
	Profit         Money
	InventoryValue Money
}

// LedgerTotals sums a filtered slice of the ledger.
type LedgerTotals struct {
	Inflow  Money
	Outflow Money
	Balance Money
}

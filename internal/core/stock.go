package core

import "github.com/shopspring/decimal"

const (
	OutOfStock StockStatus = "out_of_stock"
	LowStock   StockStatus = "low_stock"
	InStock    StockStatus = "in_stock"
)

// StockStatus is the derived availability tier of a product.
type StockStatus string

// lowStockThreshold is the policy constant for the low-stock tier.
// Callers never see it; changing it must not touch them.
var lowStockThreshold = decimal.NewFromInt(20)

// StatusFor maps a quantity to its stock status tier: zero is out of
// stock, up to and including the threshold is low, anything above is in
// stock.
func StatusFor(q Quantity) StockStatus {
	if q.Value.Sign() <= 0 {
		return OutOfStock
	}
	if q.Value.LessThanOrEqual(lowStockThreshold) {
		return LowStock
	}
	return InStock
}

// NeedsRestock reports whether the status should drive a low-stock alert.
func (s StockStatus) NeedsRestock() bool {
	return s == OutOfStock || s == LowStock
}

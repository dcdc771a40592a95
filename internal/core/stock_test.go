package core

import "testing"

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		want     StockStatus
	}{
		{name: "zero is out of stock", quantity: "0", want: OutOfStock},
		{name: "just above zero is low", quantity: "0.001", want: LowStock},
		{name: "mid range is low", quantity: "10", want: LowStock},
		{name: "threshold is low", quantity: "20", want: LowStock},
		{name: "just above threshold is in stock", quantity: "20.001", want: InStock},
		{name: "plenty is in stock", quantity: "100", want: InStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := mustQuantity(t, tt.quantity)
			if got := StatusFor(q); got != tt.want {
				t.Errorf("StatusFor(%s) = %s, want %s", tt.quantity, got, tt.want)
			}
		})
	}
}

func TestNeedsRestock(t *testing.T) {
	if !OutOfStock.NeedsRestock() {
		t.Error("out of stock should need restock")
	}
	if !LowStock.NeedsRestock() {
		t.Error("low stock should need restock")
	}
	if InStock.NeedsRestock() {
		t.Error("in stock should not need restock")
	}
}

// Package core holds the domain model of the retail operations tool:
// money and quantity values, transactions, products, reference data,
// and the pure classification/filtering/aggregation logic over them.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount in the store currency. Amounts are
// carried as decimals end to end; float64 never touches the authoritative
// value.
type Money struct {
	Amount decimal.Decimal
}

func NewMoney(amount decimal.Decimal) Money {
	return Money{Amount: amount}
}

func MoneyZero() Money {
	return Money{Amount: decimal.Zero}
}

// ParseMoney parses a decimal string, accepting both dot (12.34) and
// comma (12,34) separators, and rounds to currency-minor-unit precision.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{Amount: d.Round(2)}, nil
}

func (m Money) Add(other Money) Money {
	return Money{Amount: m.Amount.Add(other.Amount)}
}

func (m Money) Sub(other Money) Money {
	return Money{Amount: m.Amount.Sub(other.Amount)}
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

func (m Money) LessThan(other Money) bool {
	return m.Amount.LessThan(other.Amount)
}

func (m Money) Equal(other Money) bool {
	return m.Amount.Equal(other.Amount)
}

// String renders with two decimal places, the wire format used by the API.
func (m Money) String() string {
	return m.Amount.StringFixed(2)
}

// Validate enforces the transaction amount invariant: strictly positive.
func (m Money) Validate() error {
	if !m.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// Quantity is a stock count. Weight-sold goods make it fractional, so it
// shares the exact-decimal representation with Money.
type Quantity struct {
	Value decimal.Decimal
}

func NewQuantity(v decimal.Decimal) Quantity {
	return Quantity{Value: v}
}

func QuantityZero() Quantity {
	return Quantity{Value: decimal.Zero}
}

func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return Quantity{}, ErrInvalidQuantity
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, ErrInvalidQuantity
	}
	// Thousandths is the finest granularity stock is tracked at.
	return Quantity{Value: d.Round(3)}, nil
}

func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{Value: q.Value.Add(other.Value)}
}

func (q Quantity) Neg() Quantity {
	return Quantity{Value: q.Value.Neg()}
}

func (q Quantity) IsZero() bool {
	return q.Value.IsZero()
}

func (q Quantity) IsPositive() bool {
	return q.Value.IsPositive()
}

func (q Quantity) IsNegative() bool {
	return q.Value.IsNegative()
}

func (q Quantity) LessThan(other Quantity) bool {
	return q.Value.LessThan(other.Value)
}

func (q Quantity) Equal(other Quantity) bool {
	return q.Value.Equal(other.Value)
}

func (q Quantity) String() string {
	return q.Value.String()
}

// Mul computes quantity times unit price, the line total of a cart item.
func (q Quantity) Mul(price Money) Money {
	return Money{Amount: q.Value.Mul(price.Amount).Round(2)}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"balcao/internal/amqp"
	"balcao/internal/core"
	"balcao/internal/store"
)

// Checkout outcome states.
const (
	SaleCommitted     SaleState = "committed"
	SalePartialCommit SaleState = "partial_commit"
	SaleFailed        SaleState = "failed"
)

type SaleState string

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientPayment = errors.New("received amount below sale total")
	ErrLineNotPositive     = errors.New("line total must be positive")
)

// CartLine is one item of a checkout in progress. It holds a snapshot of
// the product at add time; the commit re-reads nothing but the stored
// quantity, which the store adjusts atomically.
type CartLine struct {
	Product  core.Product
	Quantity core.Quantity
	Total    core.Money
}

// Cart assembles a sale. It is purely local state: clearing or dropping
// it before Finalize has no external effect.
type Cart struct {
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// AddLine appends one item. For unit and weight modes the total is
// quantity times sale price; manual-price products take the entered
// amount instead. Lines whose total is not positive are rejected.
func (c *Cart) AddLine(p core.Product, qty core.Quantity, manualAmount core.Money) (CartLine, error) {
	var total core.Money
	if p.Mode == core.ManualPrice {
		total = manualAmount
	} else {
		if !qty.IsPositive() {
			return CartLine{}, fmt.Errorf("product %s: %w", p.Name, ErrLineNotPositive)
		}
		total = qty.Mul(p.SalePrice)
	}
	if !total.Amount.IsPositive() {
		return CartLine{}, fmt.Errorf("product %s: %w", p.Name, ErrLineNotPositive)
	}

	line := CartLine{Product: p, Quantity: qty, Total: total}
	c.lines = append(c.lines, line)
	return line, nil
}

// RemoveLine drops the line at index i; out-of-range indexes are a no-op.
func (c *Cart) RemoveLine(i int) {
	if i < 0 || i >= len(c.lines) {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

func (c *Cart) Lines() []CartLine {
	return c.lines
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Total sums the line totals.
func (c *Cart) Total() core.Money {
	total := core.MoneyZero()
	for _, l := range c.lines {
		total = total.Add(l.Total)
	}
	return total
}

// Description aggregates the cart into the ledger entry text, e.g.
// "Sale: 2x Coffee, 1.5kg Cheese, Delivery fee".
func (c *Cart) Description() string {
	parts := make([]string, 0, len(c.lines))
	for _, l := range c.lines {
		switch l.Product.Mode {
		case core.SoldByWeight:
			parts = append(parts, fmt.Sprintf("%skg %s", l.Quantity, l.Product.Name))
		case core.ManualPrice:
			parts = append(parts, l.Product.Name)
		default:
			parts = append(parts, fmt.Sprintf("%sx %s", l.Quantity, l.Product.Name))
		}
	}
	return "Sale: " + strings.Join(parts, ", ")
}

// PartialCommitError reports a sale whose ledger entry committed but
// whose stock adjustments did not all land. It names the products left
// unsynced so the caller can prompt for manual reconciliation.
type PartialCommitError struct {
	TransactionID string
	ProductIDs    []string
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("sale %s recorded but stock not updated for products %s",
		e.TransactionID, strings.Join(e.ProductIDs, ", "))
}

// SaleResult is the outcome of Finalize.
type SaleResult struct {
	State       SaleState
	Transaction core.Transaction
	Total       core.Money
	Change      core.Money
	// UnsyncedProducts lists product ids whose stock adjustment failed
	// after the ledger entry committed.
	UnsyncedProducts []string
}

// SaleService is the checkout workflow: it turns a cart into one ledger
// entry plus matching stock decrements.
type SaleService struct {
	store          store.Store
	events         *amqp.Client
	saleCategoryID string
}

// NewSaleService wires the orchestrator. events may be nil; the refresh
// signal is then skipped.
func NewSaleService(st store.Store, events *amqp.Client, saleCategoryID string) *SaleService {
	return &SaleService{store: st, events: events, saleCategoryID: saleCategoryID}
}

// Finalize commits the sale. The ledger write goes first: if it fails,
// nothing happened. Stock adjustments follow, one per stock-tracked
// line; failures there do not roll back the ledger entry or earlier
// adjustments. The ledger is the authoritative financial record and
// stock drift is recoverable by manual adjustment, so the result is a
// partial commit carrying the unsynced product ids, not silent loss.
//
// received must cover the total when the register is a cash channel;
// for other channels it is ignored.
func (s *SaleService) Finalize(ctx context.Context, cart *Cart, registerID string, received *core.Money) (SaleResult, error) {
	failed := SaleResult{State: SaleFailed}

	if cart == nil || cart.Empty() {
		return failed, ErrEmptyCart
	}
	if registerID == "" {
		return failed, core.ErrMissingRegister
	}
	register, err := s.store.GetRegister(ctx, registerID)
	if err != nil {
		return failed, err
	}

	total := cart.Total()
	change := core.MoneyZero()
	if register.IsCash() {
		if received == nil || received.LessThan(total) {
			return failed, fmt.Errorf("total %s: %w", total, ErrInsufficientPayment)
		}
		change = received.Sub(total)
	}

	txn, err := s.store.CreateTransaction(ctx, core.Transaction{
		Description: cart.Description(),
		Amount:      total,
		Kind:        core.Inflow,
		RegisterID:  register.ID,
		CategoryID:  s.saleCategoryID,
	})
	if err != nil {
		return failed, fmt.Errorf("record sale: %w", err)
	}

	var adjusted, unsynced []string
	for _, line := range cart.Lines() {
		if !line.Product.StockTracked() {
			continue
		}
		if _, err := s.store.AdjustQuantity(ctx, line.Product.ID, line.Quantity.Neg()); err != nil {
			slog.ErrorContext(ctx, "Stock adjustment failed after ledger commit",
				"transaction_id", txn.ID,
				"product_id", line.Product.ID,
				"quantity", line.Quantity.String(),
				"error", err)
			unsynced = append(unsynced, line.Product.ID)
			continue
		}
		adjusted = append(adjusted, line.Product.ID)
	}

	result := SaleResult{
		State:       SaleCommitted,
		Transaction: txn,
		Total:       total,
		Change:      change,
	}
	if len(unsynced) > 0 {
		result.State = SalePartialCommit
		result.UnsyncedProducts = unsynced
	}

	s.publishCommitted(ctx, txn.ID, append(adjusted, unsynced...), len(unsynced) > 0)

	if len(unsynced) > 0 {
		return result, &PartialCommitError{TransactionID: txn.ID, ProductIDs: unsynced}
	}

	slog.InfoContext(ctx, "Sale committed",
		"transaction_id", txn.ID,
		"total", total.String(),
		"register_id", register.ID,
		"lines", len(cart.Lines()))

	return result, nil
}

// publishCommitted emits the refresh signal. Publish failures never fail
// the sale; the money is already recorded.
func (s *SaleService) publishCommitted(ctx context.Context, txnID string, productIDs []string, partial bool) {
	if s.events == nil {
		return
	}
	msg := amqp.NewSaleCommittedMessage(txnID, productIDs, partial)
	if err := s.events.PublishSaleCommitted(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sale committed message",
			"transaction_id", txnID, "error", err)
	}
}

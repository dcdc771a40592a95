package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// Transaction kinds.
	Inflow  TransactionKind = "inflow"
	Outflow TransactionKind = "outflow"

	// Sale modes.
	SoldByUnit   SaleMode = "unit"
	SoldByWeight SaleMode = "weight"
	ManualPrice  SaleMode = "manual"

	// Register kinds.
	RegisterCash  RegisterKind = "cash"
	RegisterOther RegisterKind = "other"

	// Category kind affinities. Affinity-free categories may be attached
	// to transactions of either kind.
	CategoryAny     CategoryAffinity = ""
	CategoryInflow  CategoryAffinity = "inflow"
	CategoryOutflow CategoryAffinity = "outflow"
)

type (
	TransactionKind  string
	SaleMode         string
	RegisterKind     string
	CategoryAffinity string

	// Transaction is one financial movement in the ledger.
	Transaction struct {
		ID          string
		Description string
		Amount      Money
		Kind        TransactionKind
		RegisterID  string
		CategoryID  string
		Date        time.Time
	}

	// Product is one inventory item. Manual-price products carry no
	// meaningful quantity.
	Product struct {
		ID        string
		Name      string
		Quantity  Quantity
		UnitCost  Money
		SalePrice Money
		Mode      SaleMode
	}

	// Register is a cash register / payment channel. Reference data,
	// immutable for the scope of this core.
	Register struct {
		ID   string
		Name string
		Kind RegisterKind
	}

	// Category is a transaction category with an optional kind affinity.
	Category struct {
		ID       string
		Name     string
		Affinity CategoryAffinity
	}
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrEmptyDescription     = errors.New("empty description")
	ErrEmptyName            = errors.New("empty name")
	ErrInvalidKind          = errors.New("invalid transaction kind")
	ErrInvalidSaleMode      = errors.New("invalid sale mode")
	ErrMissingRegister      = errors.New("missing register")
	ErrKindCategoryMismatch = errors.New("category affinity incompatible with transaction kind")
)

func (k TransactionKind) Validate() error {
	switch k {
	case Inflow, Outflow:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if t.RegisterID == "" {
		return ErrMissingRegister
	}
	return nil
}

// CompatibleWith reports whether the category may be attached to a
// transaction of the given kind.
func (c Category) CompatibleWith(kind TransactionKind) bool {
	switch c.Affinity {
	case CategoryInflow:
		return kind == Inflow
	case CategoryOutflow:
		return kind == Outflow
	default:
		return true
	}
}

func (m SaleMode) Validate() error {
	switch m {
	case SoldByUnit, SoldByWeight, ManualPrice:
		return nil
	default:
		return ErrInvalidSaleMode
	}
}

// StockTracked reports whether sales of this product decrement stock.
// Manual-price products are never stock-tracked.
func (p Product) StockTracked() bool {
	return p.Mode != ManualPrice
}

// IsCash reports whether payments through this register are cash and
// therefore need a change-due step at checkout.
func (r Register) IsCash() bool {
	return r.Kind == RegisterCash
}

func (p Product) Validate() error {
	if len(strings.TrimSpace(p.Name)) == 0 {
		return ErrEmptyName
	}
	if err := p.Mode.Validate(); err != nil {
		return err
	}
	if p.UnitCost.IsNegative() {
		return ErrInvalidAmount
	}
	if p.SalePrice.IsNegative() {
		return ErrInvalidAmount
	}
	if p.Quantity.IsNegative() {
		return ErrInvalidQuantity
	}
	return nil
}

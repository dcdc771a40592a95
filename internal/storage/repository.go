// Package storage is the SQLite record-store backend.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"balcao/internal/core"
	"balcao/internal/store"
)

// SQLiteRepository implements store.Store on a single SQLite database.
// Monetary amounts are persisted as integer cents and quantities as
// integer thousandths, so stock adjustment runs as exact integer
// arithmetic inside one UPDATE statement.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// unavailable tags a driver failure with the store sentinel so callers
// can classify it without knowing the backend.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(store.ErrUnavailable, err))
}

func centsOf(m core.Money) int64 {
	return m.Amount.Shift(2).Round(0).IntPart()
}

func moneyOf(cents int64) core.Money {
	return core.NewMoney(decimal.New(cents, -2))
}

func milliOf(q core.Quantity) int64 {
	return q.Value.Shift(3).Round(0).IntPart()
}

func quantityOf(milli int64) core.Quantity {
	return core.NewQuantity(decimal.New(milli, -3))
}

func parseRowID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id %q: %w", id, store.ErrNotFound)
	}
	return n, nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.Date.IsZero() {
		t.Date = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (description, amount_cents, kind, register_id, category_id, date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.Description, centsOf(t.Amount), string(t.Kind), t.RegisterID, t.CategoryID,
		t.Date.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return core.Transaction{}, unavailable("create transaction", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, unavailable("create transaction id", err)
	}
	t.ID = strconv.FormatInt(id, 10)

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"kind", t.Kind,
		"amount", t.Amount.String(),
		"register_id", t.RegisterID)

	return t, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	rowID, err := parseRowID(id)
	if err != nil {
		return core.Transaction{}, err
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT id, description, amount_cents, kind, register_id, category_id, date
		 FROM transactions WHERE id = ?`, rowID)
	return scanTransaction(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t       core.Transaction
		rowID   int64
		cents   int64
		kind    string
		dateStr string
	)
	err := row.Scan(&rowID, &t.Description, &cents, &kind, &t.RegisterID, &t.CategoryID, &dateStr)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction: %w", store.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, unavailable("scan transaction", err)
	}
	date, err := time.Parse(time.RFC3339Nano, dateStr)
	if err != nil {
		return core.Transaction{}, unavailable("parse transaction date", err)
	}
	t.ID = strconv.FormatInt(rowID, 10)
	t.Amount = moneyOf(cents)
	t.Kind = core.TransactionKind(kind)
	t.Date = date
	return t, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	rowID, err := parseRowID(t.ID)
	if err != nil {
		return core.Transaction{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET description = ?, amount_cents = ?, kind = ?, register_id = ?, category_id = ?, date = ?
		 WHERE id = ?`,
		t.Description, centsOf(t.Amount), string(t.Kind), t.RegisterID, t.CategoryID,
		t.Date.UTC().Format(time.RFC3339Nano), rowID)
	if err != nil {
		return core.Transaction{}, unavailable("update transaction", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, unavailable("update transaction result", err)
	}
	if n == 0 {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", t.ID, store.ErrNotFound)
	}
	return t, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	rowID, err := parseRowID(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, rowID)
	if err != nil {
		return unavailable("delete transaction", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("delete transaction result", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, opts store.ListOptions) ([]core.Transaction, error) {
	query := `SELECT id, description, amount_cents, kind, register_id, category_id, date FROM transactions`
	switch opts.SortBy {
	case store.SortByDate:
		query += ` ORDER BY date`
	case store.SortByAmount:
		query += ` ORDER BY amount_cents`
	case store.SortByDescription:
		query += ` ORDER BY description`
	}
	if opts.SortBy != "" && opts.Descending {
		query += ` DESC`
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, unavailable("list transactions", err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list transactions rows", err)
	}
	return out, nil
}

func (r *SQLiteRepository) CreateProduct(ctx context.Context, p core.Product) (core.Product, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO products (name, quantity_milli, unit_cost_cents, sale_price_cents, mode)
		 VALUES (?, ?, ?, ?, ?)`,
		p.Name, milliOf(p.Quantity), centsOf(p.UnitCost), centsOf(p.SalePrice), string(p.Mode))
	if err != nil {
		return core.Product{}, unavailable("create product", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Product{}, unavailable("create product id", err)
	}
	p.ID = strconv.FormatInt(id, 10)

	slog.InfoContext(ctx, "Product saved",
		"id", p.ID,
		"name", p.Name,
		"mode", p.Mode,
		"quantity", p.Quantity.String())

	return p, nil
}

func scanProduct(row rowScanner) (core.Product, error) {
	var (
		p          core.Product
		rowID      int64
		milli      int64
		costCents  int64
		priceCents int64
		mode       string
	)
	err := row.Scan(&rowID, &p.Name, &milli, &costCents, &priceCents, &mode)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Product{}, fmt.Errorf("product: %w", store.ErrNotFound)
	}
	if err != nil {
		return core.Product{}, unavailable("scan product", err)
	}
	p.ID = strconv.FormatInt(rowID, 10)
	p.Quantity = quantityOf(milli)
	p.UnitCost = moneyOf(costCents)
	p.SalePrice = moneyOf(priceCents)
	p.Mode = core.SaleMode(mode)
	return p, nil
}

func (r *SQLiteRepository) GetProduct(ctx context.Context, id string) (core.Product, error) {
	rowID, err := parseRowID(id)
	if err != nil {
		return core.Product{}, err
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, quantity_milli, unit_cost_cents, sale_price_cents, mode
		 FROM products WHERE id = ?`, rowID)
	return scanProduct(row)
}

func (r *SQLiteRepository) DeleteProduct(ctx context.Context, id string) error {
	rowID, err := parseRowID(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, rowID)
	if err != nil {
		return unavailable("delete product", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("delete product result", err)
	}
	if n == 0 {
		return fmt.Errorf("product %s: %w", id, store.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) ListProducts(ctx context.Context, opts store.ProductListOptions) ([]core.Product, error) {
	query := `SELECT id, name, quantity_milli, unit_cost_cents, sale_price_cents, mode FROM products`
	if opts.SellableOnly {
		query += ` WHERE mode = 'manual' OR quantity_milli > 0`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, unavailable("list products", err)
	}
	defer rows.Close()

	out := make([]core.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list products rows", err)
	}
	return out, nil
}

// AdjustQuantity applies delta in a single conditional UPDATE against
// the stored value, so two racing sales of the last units can never both
// pass a stale read. An adjustment that would land below zero leaves the
// row untouched and returns ErrInsufficientStock.
func (r *SQLiteRepository) AdjustQuantity(ctx context.Context, id string, delta core.Quantity) (core.Product, error) {
	rowID, err := parseRowID(id)
	if err != nil {
		return core.Product{}, err
	}
	d := milliOf(delta)
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET quantity_milli = quantity_milli + ?
		 WHERE id = ? AND quantity_milli + ? >= 0`, d, rowID, d)
	if err != nil {
		return core.Product{}, unavailable("adjust quantity", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Product{}, unavailable("adjust quantity result", err)
	}
	if n == 0 {
		// Distinguish a missing product from a rejected adjustment.
		if _, err := r.GetProduct(ctx, id); err != nil {
			return core.Product{}, err
		}
		return core.Product{}, fmt.Errorf("product %s: %w", id, store.ErrInsufficientStock)
	}

	p, err := r.GetProduct(ctx, id)
	if err != nil {
		return core.Product{}, err
	}

	slog.InfoContext(ctx, "Stock adjusted",
		"id", p.ID,
		"delta", delta.String(),
		"quantity", p.Quantity.String())

	return p, nil
}

func (r *SQLiteRepository) ListRegisters(ctx context.Context) ([]core.Register, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, kind FROM registers ORDER BY id`)
	if err != nil {
		return nil, unavailable("list registers", err)
	}
	defer rows.Close()

	out := make([]core.Register, 0)
	for rows.Next() {
		var reg core.Register
		var kind string
		if err := rows.Scan(&reg.ID, &reg.Name, &kind); err != nil {
			return nil, unavailable("scan register", err)
		}
		reg.Kind = core.RegisterKind(kind)
		out = append(out, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list registers rows", err)
	}
	return out, nil
}

func (r *SQLiteRepository) GetRegister(ctx context.Context, id string) (core.Register, error) {
	var reg core.Register
	var kind string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, kind FROM registers WHERE id = ?`, id).
		Scan(&reg.ID, &reg.Name, &kind)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Register{}, fmt.Errorf("register %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return core.Register{}, unavailable("get register", err)
	}
	reg.Kind = core.RegisterKind(kind)
	return reg, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, affinity FROM categories ORDER BY id`)
	if err != nil {
		return nil, unavailable("list categories", err)
	}
	defer rows.Close()

	out := make([]core.Category, 0)
	for rows.Next() {
		var c core.Category
		var affinity string
		if err := rows.Scan(&c.ID, &c.Name, &affinity); err != nil {
			return nil, unavailable("scan category", err)
		}
		c.Affinity = core.CategoryAffinity(affinity)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list categories rows", err)
	}
	return out, nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id string) (core.Category, error) {
	var c core.Category
	var affinity string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, affinity FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &affinity)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("category %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return core.Category{}, unavailable("get category", err)
	}
	c.Affinity = core.CategoryAffinity(affinity)
	return c, nil
}

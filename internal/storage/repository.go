// Package storage persists transactions in SQLite. It is the single
// implementation of the document-store boundary: one transactions collection
// keyed by id, with a secondary access path by user_id.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"budgetai/internal/core"

	_ "modernc.org/sqlite"
)

// Filter describes a conjunction of predicates for Find. UserID is mandatory;
// every other field narrows the result when non-nil.
type Filter struct {
	UserID    string
	Category  *string
	MinAmount *core.Money
	MaxAmount *core.Money
	StartDate *core.Date
	EndDate   *core.Date
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
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

// BulkInsert persists a batch of transactions atomically. An empty batch is a
// no-op.
func (r *SQLiteRepository) BulkInsert(ctx context.Context, txns []core.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (id, user_id, transaction_date, description, category, amount_cents)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txns {
		if _, err := stmt.ExecContext(ctx, t.ID, t.UserID, t.Date.ISO(), t.Description, t.Category, t.Amount.Cents); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	slog.InfoContext(ctx, "Transactions saved to SQLite",
		"user_id", txns[0].UserID,
		"count", len(txns))
	return nil
}

// Find returns the user's transactions matching the filter, in insertion
// order.
func (r *SQLiteRepository) Find(ctx context.Context, f Filter) ([]core.Transaction, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, user_id, transaction_date, description, category, amount_cents
		FROM transactions
		WHERE user_id = ?`)
	args := []any{f.UserID}

	if f.Category != nil {
		sb.WriteString(` AND category = ?`)
		args = append(args, *f.Category)
	}
	if f.MinAmount != nil {
		sb.WriteString(` AND amount_cents >= ?`)
		args = append(args, f.MinAmount.Cents)
	}
	if f.MaxAmount != nil {
		sb.WriteString(` AND amount_cents <= ?`)
		args = append(args, f.MaxAmount.Cents)
	}
	if f.StartDate != nil {
		sb.WriteString(` AND transaction_date >= ?`)
		args = append(args, f.StartDate.ISO())
	}
	if f.EndDate != nil {
		sb.WriteString(` AND transaction_date <= ?`)
		args = append(args, f.EndDate.ISO())
	}
	sb.WriteString(` ORDER BY rowid`)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txns := []core.Transaction{}
	for rows.Next() {
		var t core.Transaction
		var iso string
		if err := rows.Scan(&t.ID, &t.UserID, &iso, &t.Description, &t.Category, &t.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if t.Date, err = core.ParseISODate(iso); err != nil {
			return nil, fmt.Errorf("stored date for %s: %w", t.ID, err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txns, nil
}

// DistinctCategories returns the set of category values across the user's
// transactions, sorted. Recomputed on every call by design: it feeds the
// aggregation zero-fill and must never be stale.
func (r *SQLiteRepository) DistinctCategories(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT category FROM transactions WHERE user_id = ? ORDER BY category`, userID)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// MinMaxDate returns the chronological extremes of the user's transaction
// dates. ok is false when the user has no transactions.
func (r *SQLiteRepository) MinMaxDate(ctx context.Context, userID string) (min, max core.Date, ok bool, err error) {
	var lo, hi sql.NullString
	err = r.db.QueryRowContext(ctx, `
		SELECT MIN(transaction_date), MAX(transaction_date) FROM transactions WHERE user_id = ?`, userID).
		Scan(&lo, &hi)
	if err != nil {
		return core.Date{}, core.Date{}, false, fmt.Errorf("query min/max date: %w", err)
	}
	if !lo.Valid || !hi.Valid {
		return core.Date{}, core.Date{}, false, nil
	}
	if min, err = core.ParseISODate(lo.String); err != nil {
		return core.Date{}, core.Date{}, false, fmt.Errorf("stored min date: %w", err)
	}
	if max, err = core.ParseISODate(hi.String); err != nil {
		return core.Date{}, core.Date{}, false, fmt.Errorf("stored max date: %w", err)
	}
	return min, max, true, nil
}

// AggregateByMonth sums amounts per calendar month, ascending by (year,
// month).
func (r *SQLiteRepository) AggregateByMonth(ctx context.Context, userID string) ([]core.MonthTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT CAST(substr(transaction_date, 1, 4) AS INTEGER) AS year,
		       CAST(substr(transaction_date, 6, 2) AS INTEGER) AS month,
		       SUM(amount_cents)
		FROM transactions
		WHERE user_id = ?
		GROUP BY year, month
		ORDER BY year, month`, userID)
	if err != nil {
		return nil, fmt.Errorf("query month totals: %w", err)
	}
	defer rows.Close()

	totals := []core.MonthTotal{}
	for rows.Next() {
		var year, month int
		var cents int64
		if err := rows.Scan(&year, &month, &cents); err != nil {
			return nil, fmt.Errorf("scan month total: %w", err)
		}
		totals = append(totals, core.MonthTotal{
			Year:  year,
			Month: time.Month(month),
			Total: core.Money{Cents: cents},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate month totals: %w", err)
	}
	return totals, nil
}

// AggregateByMonthCategory sums amounts per calendar month and category,
// ascending by (year, month, category).
func (r *SQLiteRepository) AggregateByMonthCategory(ctx context.Context, userID string) ([]core.MonthCategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT CAST(substr(transaction_date, 1, 4) AS INTEGER) AS year,
		       CAST(substr(transaction_date, 6, 2) AS INTEGER) AS month,
		       category,
		       SUM(amount_cents)
		FROM transactions
		WHERE user_id = ?
		GROUP BY year, month, category
		ORDER BY year, month, category`, userID)
	if err != nil {
		return nil, fmt.Errorf("query month/category totals: %w", err)
	}
	defer rows.Close()

	totals := []core.MonthCategoryTotal{}
	for rows.Next() {
		var year, month int
		var category string
		var cents int64
		if err := rows.Scan(&year, &month, &category, &cents); err != nil {
			return nil, fmt.Errorf("scan month/category total: %w", err)
		}
		totals = append(totals, core.MonthCategoryTotal{
			Year:     year,
			Month:    time.Month(month),
			Category: category,
			Total:    core.Money{Cents: cents},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate month/category totals: %w", err)
	}
	return totals, nil
}

// DeleteByUser removes all of a user's transactions and reports how many were
// deleted. Used when an account is removed.
func (r *SQLiteRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete transactions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	slog.InfoContext(ctx, "Transactions deleted", "user_id", userID, "count", n)
	return n, nil
}

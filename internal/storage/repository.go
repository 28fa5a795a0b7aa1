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

	"github.com/shopspring/decimal"

	"salesdash/internal/core"
	"salesdash/internal/repo"

	_ "modernc.org/sqlite"
)

// dateLayout is fixed-width so stored dates compare lexicographically.
const dateLayout = "2006-01-02T15:04:05Z"

var sumColumns = map[repo.Field]string{
	repo.FieldPrice: "price",
}

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

	// Run migrations
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

// Ping checks the database connection.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Find implements repo.TransactionFinder
func (r *SQLiteRepository) Find(ctx context.Context, f repo.Filter, skip, limit int) ([]core.Transaction, error) {
	where, args := whereClause(f)
	if limit <= 0 {
		limit = -1
	}
	if skip < 0 {
		skip = 0
	}
	query := `SELECT id, title, description, price, category, date_of_sale, sold
		FROM transactions` + where + ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, limit, skip)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		var (
			t    core.Transaction
			date string
			sold int64
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Price, &t.Category, &date, &sold); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if t.DateOfSale, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("parse date_of_sale %q for id %d: %w", date, t.ID, err)
		}
		t.Sold = sold != 0
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Count implements repo.TransactionFinder
func (r *SQLiteRepository) Count(ctx context.Context, f repo.Filter) (int64, error) {
	where, args := whereClause(f)
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

// GroupByCategory implements repo.TransactionAggregator
func (r *SQLiteRepository) GroupByCategory(ctx context.Context, f repo.Filter) ([]core.CategoryCount, error) {
	where, args := whereClause(f)
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM transactions`+where+` GROUP BY category ORDER BY category`, args...)
	if err != nil {
		return nil, fmt.Errorf("group transactions by category: %w", err)
	}
	defer rows.Close()

	out := []core.CategoryCount{}
	for rows.Next() {
		var c core.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category counts: %w", err)
	}
	return out, nil
}

// Sum implements repo.TransactionAggregator. SQLite sums REAL columns in
// floating point; the result is rounded to cents.
func (r *SQLiteRepository) Sum(ctx context.Context, field repo.Field, f repo.Filter) (decimal.Decimal, error) {
	column, ok := sumColumns[field]
	if !ok {
		return decimal.Zero, fmt.Errorf("unsupported sum field: %s", field)
	}
	where, args := whereClause(f)
	var total float64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(`+column+`), 0) FROM transactions`+where, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum %s: %w", column, err)
	}
	return decimal.NewFromFloat(total).Round(2), nil
}

// ReplaceAll implements repo.TransactionReplacer. The delete and the inserts
// run in one transaction.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, txs []core.Transaction) error {
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer dbtx.Rollback()

	if _, err := dbtx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	stmt, err := dbtx.PrepareContext(ctx, `INSERT INTO transactions
		(id, title, description, price, category, date_of_sale, sold, title_folded, description_folded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txs {
		sold := 0
		if t.Sold {
			sold = 1
		}
		if _, err := stmt.ExecContext(ctx, t.ID, t.Title, t.Description, t.Price, t.Category,
			formatDate(t.DateOfSale), sold, foldCase(t.Title), foldCase(t.Description)); err != nil {
			return fmt.Errorf("insert transaction %d: %w", t.ID, err)
		}
	}

	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}

	slog.InfoContext(ctx, "Transactions replaced in SQLite", "count", len(txs))
	return nil
}

func formatDate(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(dateLayout)
}

func whereClause(f repo.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if !f.Range.IsZero() {
		conds = append(conds, "date_of_sale >= ? AND date_of_sale < ?")
		args = append(args, formatDate(f.Range.Start), formatDate(f.Range.End))
	}
	if f.Sold != nil {
		sold := 0
		if *f.Sold {
			sold = 1
		}
		conds = append(conds, "sold = ?")
		args = append(args, sold)
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		pattern := "%" + escapeLike(foldCase(q)) + "%"
		cond := `(title_folded LIKE ? ESCAPE '\' OR description_folded LIKE ? ESCAPE '\'`
		args = append(args, pattern, pattern)
		if price, ok := f.SearchPrice(); ok {
			cond += " OR price = ?"
			args = append(args, price)
		}
		conds = append(conds, cond+")")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// foldCase lower-cases with Unicode rules, matching repo.Filter.Matches.
func foldCase(s string) string {
	return strings.ToLower(s)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

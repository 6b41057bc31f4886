// Package storage implements the services.Store contract on SQLite.
// Amounts are persisted as exact decimal strings and dates as
// "YYYY-MM-DD" text, so values round-trip without drift.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"trackit/internal/core"
	"trackit/internal/services"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ services.Store = (*SQLiteRepository)(nil)

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

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
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

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Accounts

func (r *SQLiteRepository) CreateAccount(ctx context.Context, name, bankName string) (*core.Account, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (name, bank_name, created_at) VALUES (?, ?, ?)`,
		name, bankName, now.Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, core.NewConflictError("account '%s' already exists", name)
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("account insert id: %w", err)
	}
	slog.InfoContext(ctx, "Account row created", "id", id, "name", name)
	return &core.Account{ID: id, Name: name, BankName: bankName, CreatedAt: now}, nil
}

func (r *SQLiteRepository) scanAccount(row *sql.Row, ref string) (*core.Account, error) {
	var a core.Account
	var createdAt string
	if err := row.Scan(&a.ID, &a.Name, &a.BankName, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.NewNotFoundError("account %s not found", ref)
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	a.CreatedAt = parseTimestamp(createdAt)
	return &a, nil
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id int64) (*core.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, bank_name, created_at FROM accounts WHERE id = ?`, id)
	return r.scanAccount(row, fmt.Sprintf("%d", id))
}

func (r *SQLiteRepository) GetAccountByName(ctx context.Context, name string) (*core.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, bank_name, created_at FROM accounts WHERE name = ?`, name)
	return r.scanAccount(row, "'"+name+"'")
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, bank_name, created_at FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		var createdAt string
		if err := rows.Scan(&a.ID, &a.Name, &a.BankName, &createdAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.CreatedAt = parseTimestamp(createdAt)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) RenameAccount(ctx context.Context, id int64, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE accounts SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		if isUniqueViolation(err) {
			return core.NewConflictError("account '%s' already exists", name)
		}
		return fmt.Errorf("rename account: %w", err)
	}
	return requireRow(res, core.NewNotFoundError("account %d not found", id))
}

func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return requireRow(res, core.NewNotFoundError("account %d not found", id))
}

func (r *SQLiteRepository) CountAccountTransactions(ctx context.Context, accountID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE account_id = ?`, accountID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count account transactions: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) CountAccountFormats(ctx context.Context, accountID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM csv_formats WHERE account_id = ?`, accountID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count account formats: %w", err)
	}
	return n, nil
}

// Categories

func (r *SQLiteRepository) CreateCategory(ctx context.Context, name string, parentID *int64, categoryType core.CategoryType) (*core.Category, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, parent_id, category_type, created_at) VALUES (?, ?, ?, ?)`,
		name, parentID, int(categoryType), now.Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, core.NewConflictError("category '%s' already exists under the same parent", name)
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("category insert id: %w", err)
	}
	slog.InfoContext(ctx, "Category row created", "id", id, "name", name)
	return &core.Category{
		ID: id, Name: name, ParentID: parentID, CategoryType: categoryType, CreatedAt: now,
	}, nil
}

func scanCategory(s interface {
	Scan(dest ...any) error
}) (*core.Category, error) {
	var c core.Category
	var parentID sql.NullInt64
	var categoryType int
	var createdAt string
	if err := s.Scan(&c.ID, &c.Name, &parentID, &categoryType, &createdAt); err != nil {
		return nil, err
	}
	if parentID.Valid {
		c.ParentID = &parentID.Int64
	}
	c.CategoryType = core.CategoryType(categoryType)
	c.CreatedAt = parseTimestamp(createdAt)
	return &c, nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (*core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, parent_id, category_type, created_at FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NewNotFoundError("category %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("scan category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) GetCategoryChild(ctx context.Context, parentID *int64, name string) (*core.Category, error) {
	var row *sql.Row
	if parentID == nil {
		row = r.db.QueryRowContext(ctx,
			`SELECT id, name, parent_id, category_type, created_at
			 FROM categories WHERE parent_id IS NULL AND name = ?`, name)
	} else {
		row = r.db.QueryRowContext(ctx,
			`SELECT id, name, parent_id, category_type, created_at
			 FROM categories WHERE parent_id = ? AND name = ?`, *parentID, name)
	}
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NewNotFoundError("category '%s' not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("scan category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) listCategoryRows(ctx context.Context, query string, args ...any) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, parentID *int64) ([]core.Category, error) {
	if parentID == nil {
		return r.listCategoryRows(ctx,
			`SELECT id, name, parent_id, category_type, created_at
			 FROM categories WHERE parent_id IS NULL ORDER BY name`)
	}
	return r.listCategoryRows(ctx,
		`SELECT id, name, parent_id, category_type, created_at
		 FROM categories WHERE parent_id = ? ORDER BY name`, *parentID)
}

// ListAllCategories is the single bulk scan the tree builder runs on;
// name order here determines sibling order in the tree.
func (r *SQLiteRepository) ListAllCategories(ctx context.Context) ([]core.Category, error) {
	return r.listCategoryRows(ctx,
		`SELECT id, name, parent_id, category_type, created_at FROM categories ORDER BY name`)
}

// CSV formats

func (r *SQLiteRepository) CreateFormat(ctx context.Context, f services.NewCSVFormat) (*core.CSVFormat, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin format insert: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO csv_formats (name, account_id, is_debit_credit_format, negate_debit, negate_credit, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		f.Name, f.AccountID, f.IsDebitCreditFormat, f.NegateDebit, f.NegateCredit,
		now.Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, core.NewConflictError("CSV format '%s' already exists", f.Name)
		}
		return nil, fmt.Errorf("insert format: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("format insert id: %w", err)
	}

	for _, m := range f.Mappings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO csv_column_mappings (format_id, csv_column_name, db_field_name, is_required)
			 VALUES (?, ?, ?, ?)`,
			id, m.CSVColumnName, m.DBFieldName, m.IsRequired); err != nil {
			return nil, fmt.Errorf("insert column mapping: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit format insert: %w", err)
	}

	slog.InfoContext(ctx, "CSV format row created",
		"id", id, "name", f.Name, "mappings", len(f.Mappings))
	return &core.CSVFormat{
		ID:                  id,
		Name:                f.Name,
		AccountID:           f.AccountID,
		IsDebitCreditFormat: f.IsDebitCreditFormat,
		NegateDebit:         f.NegateDebit,
		NegateCredit:        f.NegateCredit,
		CreatedAt:           now,
	}, nil
}

func scanFormat(row *sql.Row, ref string) (*core.CSVFormat, error) {
	var f core.CSVFormat
	var createdAt string
	err := row.Scan(&f.ID, &f.Name, &f.AccountID,
		&f.IsDebitCreditFormat, &f.NegateDebit, &f.NegateCredit, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NewNotFoundError("CSV format %s not found", ref)
	}
	if err != nil {
		return nil, fmt.Errorf("scan format: %w", err)
	}
	f.CreatedAt = parseTimestamp(createdAt)
	return &f, nil
}

func (r *SQLiteRepository) GetFormat(ctx context.Context, id int64) (*core.CSVFormat, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, account_id, is_debit_credit_format, negate_debit, negate_credit, created_at
		 FROM csv_formats WHERE id = ?`, id)
	return scanFormat(row, fmt.Sprintf("%d", id))
}

func (r *SQLiteRepository) GetFormatByName(ctx context.Context, name string) (*core.CSVFormat, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, account_id, is_debit_credit_format, negate_debit, negate_credit, created_at
		 FROM csv_formats WHERE name = ?`, name)
	return scanFormat(row, "'"+name+"'")
}

func (r *SQLiteRepository) ListFormats(ctx context.Context) ([]core.CSVFormat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, account_id, is_debit_credit_format, negate_debit, negate_credit, created_at
		 FROM csv_formats ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list formats: %w", err)
	}
	defer rows.Close()

	var out []core.CSVFormat
	for rows.Next() {
		var f core.CSVFormat
		var createdAt string
		if err := rows.Scan(&f.ID, &f.Name, &f.AccountID,
			&f.IsDebitCreditFormat, &f.NegateDebit, &f.NegateCredit, &createdAt); err != nil {
			return nil, fmt.Errorf("scan format: %w", err)
		}
		f.CreatedAt = parseTimestamp(createdAt)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateFormat(ctx context.Context, f core.CSVFormat) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE csv_formats
		 SET name = ?, is_debit_credit_format = ?, negate_debit = ?, negate_credit = ?
		 WHERE id = ?`,
		f.Name, f.IsDebitCreditFormat, f.NegateDebit, f.NegateCredit, f.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return core.NewConflictError("CSV format '%s' already exists", f.Name)
		}
		return fmt.Errorf("update format: %w", err)
	}
	return requireRow(res, core.NewNotFoundError("CSV format %d not found", f.ID))
}

func (r *SQLiteRepository) DeleteFormat(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM csv_formats WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete format: %w", err)
	}
	if err := requireRow(res, core.NewNotFoundError("CSV format %d not found", id)); err != nil {
		return err
	}
	slog.InfoContext(ctx, "CSV format row deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) AddColumnMapping(ctx context.Context, m core.CSVColumnMapping) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO csv_column_mappings (format_id, csv_column_name, db_field_name, is_required)
		 VALUES (?, ?, ?, ?)`,
		m.FormatID, m.CSVColumnName, m.DBFieldName, m.IsRequired)
	if err != nil {
		return 0, fmt.Errorf("insert column mapping: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("column mapping insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListColumnMappings(ctx context.Context, formatID int64) ([]core.CSVColumnMapping, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, format_id, csv_column_name, db_field_name, is_required
		 FROM csv_column_mappings WHERE format_id = ? ORDER BY id`, formatID)
	if err != nil {
		return nil, fmt.Errorf("list column mappings: %w", err)
	}
	defer rows.Close()

	var out []core.CSVColumnMapping
	for rows.Next() {
		var m core.CSVColumnMapping
		if err := rows.Scan(&m.ID, &m.FormatID, &m.CSVColumnName, &m.DBFieldName, &m.IsRequired); err != nil {
			return nil, fmt.Errorf("scan column mapping: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Transactions

func (r *SQLiteRepository) InsertTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	var categoryID any
	if t.CategoryID != nil {
		categoryID = *t.CategoryID
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions
		 (unique_id, account_id, date, amount, description, reference_number, category_id, notes, imported_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UniqueID, t.AccountID, t.Date.Format(core.DateLayout), t.Amount.String(),
		t.Description, t.ReferenceNumber, categoryID, t.Notes,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, core.NewConflictError(
				"transaction with unique_id '%s' already exists for account %d", t.UniqueID, t.AccountID)
		}
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction insert id: %w", err)
	}
	return id, nil
}

const transactionColumns = `id, unique_id, account_id, date, amount, description,
	reference_number, category_id, notes, imported_at`

func scanTransaction(s interface {
	Scan(dest ...any) error
}) (*core.Transaction, error) {
	var t core.Transaction
	var date, amount, importedAt string
	var categoryID sql.NullInt64
	if err := s.Scan(&t.ID, &t.UniqueID, &t.AccountID, &date, &amount,
		&t.Description, &t.ReferenceNumber, &categoryID, &t.Notes, &importedAt); err != nil {
		return nil, err
	}
	parsed, err := time.Parse(core.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("parse stored date '%s': %w", date, err)
	}
	t.Date = parsed
	t.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse stored amount '%s': %w", amount, err)
	}
	if categoryID.Valid {
		t.CategoryID = &categoryID.Int64
	}
	t.ImportedAt = parseTimestamp(importedAt)
	return &t, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (*core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NewNotFoundError("transaction %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, f services.TransactionFilter) ([]core.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions`
	var where []string
	var args []any

	if f.StartDate != nil {
		where = append(where, "date >= ?")
		args = append(args, f.StartDate.Format(core.DateLayout))
	}
	if f.EndDate != nil {
		where = append(where, "date <= ?")
		args = append(args, f.EndDate.Format(core.DateLayout))
	}
	if f.AccountID != nil {
		where = append(where, "account_id = ?")
		args = append(args, *f.AccountID)
	}
	if f.Uncategorized {
		where = append(where, "category_id IS NULL")
	} else if len(f.CategoryIDs) > 0 {
		placeholders := strings.Repeat("?,", len(f.CategoryIDs))
		where = append(where, "category_id IN ("+placeholders[:len(placeholders)-1]+")")
		for _, id := range f.CategoryIDs {
			args = append(args, id)
		}
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date DESC, id DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, id int64, u services.TransactionUpdate) error {
	var sets []string
	var args []any

	if u.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, u.Date.Format(core.DateLayout))
	}
	if u.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, u.Amount.String())
	}
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}
	if u.ReferenceNumber != nil {
		sets = append(sets, "reference_number = ?")
		args = append(args, *u.ReferenceNumber)
	}
	if u.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *u.Notes)
	}
	if u.SetCategory {
		sets = append(sets, "category_id = ?")
		if u.CategoryID != nil {
			args = append(args, *u.CategoryID)
		} else {
			args = append(args, nil)
		}
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if err := requireRow(res, core.NewNotFoundError("transaction %d not found", id)); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Transaction row updated", "id", id)
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if err := requireRow(res, core.NewNotFoundError("transaction %d not found", id)); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Transaction row deleted", "id", id)
	return nil
}

// GetSummaryTransactions is the single bulk fetch the summary engine
// aggregates over. Filtering beyond the date range happens in memory.
func (r *SQLiteRepository) GetSummaryTransactions(ctx context.Context, start, end *time.Time) ([]core.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions`
	var where []string
	var args []any
	if start != nil {
		where = append(where, "date >= ?")
		args = append(args, start.Format(core.DateLayout))
	}
	if end != nil {
		where = append(where, "date <= ?")
		args = append(args, end.Format(core.DateLayout))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("summary transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// parseTimestamp accepts both RFC3339 values written by this code and
// the "datetime('now')" default SQLite produces.
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

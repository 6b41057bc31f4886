// Package services holds the application layer: account, category,
// transaction and CSV format management, the CSV import pipeline, and
// summary orchestration. Services talk to persistence only through the
// Store interface.
package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"trackit/internal/core"
)

// TransactionFilter narrows ListTransactions. Nil pointers mean "no
// constraint". CategoryIDs and Uncategorized are mutually exclusive;
// Uncategorized selects rows with no category at all.
type TransactionFilter struct {
	StartDate     *time.Time
	EndDate       *time.Time
	AccountID     *int64
	CategoryIDs   []int64
	Uncategorized bool
	Limit         int
}

// TransactionUpdate carries partial updates for a transaction. Nil fields
// are left untouched. SetCategory with a nil CategoryID clears the
// category.
type TransactionUpdate struct {
	Date            *time.Time
	Amount          *decimal.Decimal
	Description     *string
	ReferenceNumber *string
	Notes           *string
	SetCategory     bool
	CategoryID      *int64
}

// NewCSVFormat bundles a format definition with its column mappings for
// single-call creation.
type NewCSVFormat struct {
	Name                string
	AccountID           int64
	IsDebitCreditFormat bool
	NegateDebit         bool
	NegateCredit        bool
	Mappings            []core.CSVColumnMapping
}

// Store is the persistence contract the services depend on. The SQLite
// implementation lives in internal/storage; tests use an in-memory fake.
type Store interface {
	// Accounts.
	CreateAccount(ctx context.Context, name, bankName string) (*core.Account, error)
	GetAccount(ctx context.Context, id int64) (*core.Account, error)
	GetAccountByName(ctx context.Context, name string) (*core.Account, error)
	ListAccounts(ctx context.Context) ([]core.Account, error)
	RenameAccount(ctx context.Context, id int64, name string) error
	DeleteAccount(ctx context.Context, id int64) error
	CountAccountTransactions(ctx context.Context, accountID int64) (int64, error)
	CountAccountFormats(ctx context.Context, accountID int64) (int64, error)

	// Categories. ListAllCategories returns every row name-sorted, the
	// order the tree builder expects.
	CreateCategory(ctx context.Context, name string, parentID *int64, categoryType core.CategoryType) (*core.Category, error)
	GetCategory(ctx context.Context, id int64) (*core.Category, error)
	GetCategoryChild(ctx context.Context, parentID *int64, name string) (*core.Category, error)
	ListCategories(ctx context.Context, parentID *int64) ([]core.Category, error)
	ListAllCategories(ctx context.Context) ([]core.Category, error)

	// CSV formats.
	CreateFormat(ctx context.Context, f NewCSVFormat) (*core.CSVFormat, error)
	GetFormat(ctx context.Context, id int64) (*core.CSVFormat, error)
	GetFormatByName(ctx context.Context, name string) (*core.CSVFormat, error)
	ListFormats(ctx context.Context) ([]core.CSVFormat, error)
	UpdateFormat(ctx context.Context, f core.CSVFormat) error
	DeleteFormat(ctx context.Context, id int64) error
	AddColumnMapping(ctx context.Context, m core.CSVColumnMapping) (int64, error)
	ListColumnMappings(ctx context.Context, formatID int64) ([]core.CSVColumnMapping, error)

	// Transactions. InsertTransaction returns a ConflictError when the
	// (account_id, unique_id) pair already exists.
	InsertTransaction(ctx context.Context, t core.Transaction) (int64, error)
	GetTransaction(ctx context.Context, id int64) (*core.Transaction, error)
	ListTransactions(ctx context.Context, f TransactionFilter) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, u TransactionUpdate) error
	DeleteTransaction(ctx context.Context, id int64) error
	GetSummaryTransactions(ctx context.Context, start, end *time.Time) ([]core.Transaction, error)

	Close() error
}

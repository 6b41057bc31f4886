package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryType classifies a category for summary sectioning.
type CategoryType int

const (
	CategoryTypeExpense  CategoryType = 0
	CategoryTypeIncome   CategoryType = 1
	CategoryTypeTransfer CategoryType = 2
)

func (t CategoryType) String() string {
	switch t {
	case CategoryTypeIncome:
		return "Income"
	case CategoryTypeTransfer:
		return "Transfer"
	default:
		return "Expense"
	}
}

type (
	// Account is a bank account. Transactions and CSV formats belong to
	// exactly one account.
	Account struct {
		ID        int64
		Name      string
		BankName  string
		CreatedAt time.Time
	}

	// Category is one node of the self-referential category tree.
	// ParentID is nil for root categories.
	Category struct {
		ID           int64
		Name         string
		ParentID     *int64
		CategoryType CategoryType
		CreatedAt    time.Time
	}

	// CategoryTreeNode is a read-only tree view of a category, rebuilt
	// from flat rows on every query.
	CategoryTreeNode struct {
		ID           int64
		Name         string
		ParentID     *int64
		CategoryType CategoryType
		Children     []*CategoryTreeNode
	}

	// Transaction is a single ledger entry. The (AccountID, UniqueID)
	// pair is unique and serves as the import dedup key. A nil
	// CategoryID means uncategorized.
	Transaction struct {
		ID              int64
		UniqueID        string
		AccountID       int64
		Date            time.Time
		Amount          decimal.Decimal
		Description     string
		ReferenceNumber string
		CategoryID      *int64
		Notes           string
		ImportedAt      time.Time
	}

	// CSVFormat describes how one bank's CSV export maps onto
	// transaction fields. The negate flags only apply when
	// IsDebitCreditFormat is set.
	CSVFormat struct {
		ID                  int64
		Name                string
		AccountID           int64
		IsDebitCreditFormat bool
		NegateDebit         bool
		NegateCredit        bool
		CreatedAt           time.Time
	}

	// CSVColumnMapping binds one CSV header column to a canonical
	// transaction field.
	CSVColumnMapping struct {
		ID            int64
		FormatID      int64
		CSVColumnName string
		DBFieldName   string
		IsRequired    bool
	}
)

// Canonical field names a CSV column may map to.
const (
	FieldUniqueID        = "unique_id"
	FieldDate            = "date"
	FieldAmount          = "amount"
	FieldDebit           = "debit"
	FieldCredit          = "credit"
	FieldDescription     = "description"
	FieldReferenceNumber = "reference_number"
	// FieldAccountName is a legacy placeholder; the owning account always
	// comes from the format, never from the file.
	FieldAccountName = "account_name"
)

// FieldNames lists every accepted db_field_name, sorted.
func FieldNames() []string {
	return []string{
		FieldAccountName,
		FieldAmount,
		FieldCredit,
		FieldDate,
		FieldDebit,
		FieldDescription,
		FieldReferenceNumber,
		FieldUniqueID,
	}
}

// IsValidFieldName reports whether name is part of the canonical vocabulary.
func IsValidFieldName(name string) bool {
	switch name {
	case FieldUniqueID, FieldDate, FieldAmount, FieldDebit, FieldCredit,
		FieldDescription, FieldReferenceNumber, FieldAccountName:
		return true
	}
	return false
}

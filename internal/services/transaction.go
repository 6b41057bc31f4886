package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"trackit/internal/core"
)

// NewTransaction carries the fields for a manual transaction entry.
// UniqueID may be empty; a random one is generated.
type NewTransaction struct {
	AccountRef      string
	Date            time.Time
	Amount          decimal.Decimal
	Description     string
	ReferenceNumber string
	CategoryPath    string
	UniqueID        string
	Notes           string
}

// TransactionService manages single-transaction operations and filtered
// listings.
type TransactionService struct {
	store      Store
	accounts   *AccountService
	categories *CategoryService
}

func NewTransactionService(store Store, accounts *AccountService, categories *CategoryService) *TransactionService {
	return &TransactionService{store: store, accounts: accounts, categories: categories}
}

// Add records a manually entered transaction. The account must exist and
// the category path, when given, must resolve.
func (s *TransactionService) Add(ctx context.Context, in NewTransaction) (*core.Transaction, error) {
	if in.Date.IsZero() {
		return nil, core.NewValidationError("transaction date is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, core.NewValidationError("transaction description is required")
	}
	account, err := s.accounts.Resolve(ctx, in.AccountRef)
	if err != nil {
		return nil, err
	}

	var categoryID *int64
	if strings.TrimSpace(in.CategoryPath) != "" {
		category, err := s.categories.ByPath(ctx, in.CategoryPath)
		if err != nil {
			return nil, err
		}
		categoryID = &category.ID
	}

	uniqueID := strings.TrimSpace(in.UniqueID)
	if uniqueID == "" {
		uniqueID = uuid.NewString()
	}

	t := core.Transaction{
		UniqueID:        uniqueID,
		AccountID:       account.ID,
		Date:            in.Date,
		Amount:          in.Amount,
		Description:     strings.TrimSpace(in.Description),
		ReferenceNumber: strings.TrimSpace(in.ReferenceNumber),
		CategoryID:      categoryID,
		Notes:           in.Notes,
	}
	id, err := s.store.InsertTransaction(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	t.ID = id
	slog.InfoContext(ctx, "Transaction added",
		"id", id, "account", account.Name, "amount", in.Amount.String())
	return &t, nil
}

// Get fetches a transaction by id.
func (s *TransactionService) Get(ctx context.Context, id int64) (*core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

// ListFilter is the user-facing filter for List. CategoryPath scopes to a
// category and its whole subtree; the empty-but-set path selects
// uncategorized transactions.
type ListFilter struct {
	StartDate    *time.Time
	EndDate      *time.Time
	AccountRef   string
	CategoryPath *string
	Limit        int
}

// List returns transactions matching the filter, newest first.
func (s *TransactionService) List(ctx context.Context, f ListFilter) ([]core.Transaction, error) {
	sf := TransactionFilter{StartDate: f.StartDate, EndDate: f.EndDate, Limit: f.Limit}

	if strings.TrimSpace(f.AccountRef) != "" {
		account, err := s.accounts.Resolve(ctx, f.AccountRef)
		if err != nil {
			return nil, err
		}
		sf.AccountID = &account.ID
	}

	if f.CategoryPath != nil {
		if strings.TrimSpace(*f.CategoryPath) == "" {
			sf.Uncategorized = true
		} else {
			category, err := s.categories.ByPath(ctx, *f.CategoryPath)
			if err != nil {
				return nil, err
			}
			tree, err := s.categories.Tree(ctx)
			if err != nil {
				return nil, err
			}
			desc := core.Descendants(tree)[category.ID]
			ids := make([]int64, 0, len(desc))
			for id := range desc {
				ids = append(ids, id)
			}
			sf.CategoryIDs = ids
		}
	}

	return s.store.ListTransactions(ctx, sf)
}

// Categorize assigns a category by path, or clears it when path is empty.
func (s *TransactionService) Categorize(ctx context.Context, id int64, path string) error {
	if _, err := s.store.GetTransaction(ctx, id); err != nil {
		return err
	}
	update := TransactionUpdate{SetCategory: true}
	if strings.TrimSpace(path) != "" {
		category, err := s.categories.ByPath(ctx, path)
		if err != nil {
			return err
		}
		update.CategoryID = &category.ID
	}
	if err := s.store.UpdateTransaction(ctx, id, update); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	slog.InfoContext(ctx, "Transaction categorized", "id", id, "category", path)
	return nil
}

// SetNotes replaces a transaction's notes.
func (s *TransactionService) SetNotes(ctx context.Context, id int64, notes string) error {
	if _, err := s.store.GetTransaction(ctx, id); err != nil {
		return err
	}
	if err := s.store.UpdateTransaction(ctx, id, TransactionUpdate{Notes: &notes}); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

// Update applies a partial field update. Category ids carried in the
// update are verified before writing.
func (s *TransactionService) Update(ctx context.Context, id int64, u TransactionUpdate) error {
	if _, err := s.store.GetTransaction(ctx, id); err != nil {
		return err
	}
	if u.SetCategory && u.CategoryID != nil {
		if _, err := s.store.GetCategory(ctx, *u.CategoryID); err != nil {
			return err
		}
	}
	if err := s.store.UpdateTransaction(ctx, id, u); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	slog.InfoContext(ctx, "Transaction updated", "id", id)
	return nil
}

// Delete removes a transaction.
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.GetTransaction(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

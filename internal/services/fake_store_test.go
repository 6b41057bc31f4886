package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"trackit/internal/core"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// fakeStore is an in-memory Store used by the service tests. It mirrors
// the SQLite implementation's contract: typed not-found and conflict
// errors, name-sorted category listings, newest-first transactions.
type fakeStore struct {
	nextID       int64
	accounts     map[int64]*core.Account
	categories   map[int64]*core.Category
	formats      map[int64]*core.CSVFormat
	mappings     map[int64][]core.CSVColumnMapping
	transactions map[int64]*core.Transaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts:     make(map[int64]*core.Account),
		categories:   make(map[int64]*core.Category),
		formats:      make(map[int64]*core.CSVFormat),
		mappings:     make(map[int64][]core.CSVColumnMapping),
		transactions: make(map[int64]*core.Transaction),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) CreateAccount(_ context.Context, name, bankName string) (*core.Account, error) {
	a := &core.Account{ID: f.id(), Name: name, BankName: bankName, CreatedAt: time.Now()}
	f.accounts[a.ID] = a
	return a, nil
}

func (f *fakeStore) GetAccount(_ context.Context, id int64) (*core.Account, error) {
	if a, ok := f.accounts[id]; ok {
		return a, nil
	}
	return nil, core.NewNotFoundError("account %d not found", id)
}

func (f *fakeStore) GetAccountByName(_ context.Context, name string) (*core.Account, error) {
	for _, a := range f.accounts {
		if a.Name == name {
			return a, nil
		}
	}
	return nil, core.NewNotFoundError("account '%s' not found", name)
}

func (f *fakeStore) ListAccounts(_ context.Context) ([]core.Account, error) {
	out := make([]core.Account, 0, len(f.accounts))
	for _, a := range f.accounts {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) RenameAccount(_ context.Context, id int64, name string) error {
	a, ok := f.accounts[id]
	if !ok {
		return core.NewNotFoundError("account %d not found", id)
	}
	a.Name = name
	return nil
}

func (f *fakeStore) DeleteAccount(_ context.Context, id int64) error {
	delete(f.accounts, id)
	return nil
}

func (f *fakeStore) CountAccountTransactions(_ context.Context, accountID int64) (int64, error) {
	var n int64
	for _, t := range f.transactions {
		if t.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CountAccountFormats(_ context.Context, accountID int64) (int64, error) {
	var n int64
	for _, fm := range f.formats {
		if fm.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CreateCategory(_ context.Context, name string, parentID *int64, categoryType core.CategoryType) (*core.Category, error) {
	c := &core.Category{ID: f.id(), Name: name, ParentID: parentID, CategoryType: categoryType, CreatedAt: time.Now()}
	f.categories[c.ID] = c
	return c, nil
}

func (f *fakeStore) GetCategory(_ context.Context, id int64) (*core.Category, error) {
	if c, ok := f.categories[id]; ok {
		return c, nil
	}
	return nil, core.NewNotFoundError("category %d not found", id)
}

func (f *fakeStore) GetCategoryChild(_ context.Context, parentID *int64, name string) (*core.Category, error) {
	for _, c := range f.categories {
		if c.Name != name {
			continue
		}
		if (c.ParentID == nil) != (parentID == nil) {
			continue
		}
		if parentID != nil && *c.ParentID != *parentID {
			continue
		}
		return c, nil
	}
	return nil, core.NewNotFoundError("category '%s' not found", name)
}

func (f *fakeStore) ListCategories(_ context.Context, parentID *int64) ([]core.Category, error) {
	var out []core.Category
	for _, c := range f.categories {
		if (c.ParentID == nil) != (parentID == nil) {
			continue
		}
		if parentID != nil && *c.ParentID != *parentID {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) ListAllCategories(_ context.Context) ([]core.Category, error) {
	out := make([]core.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) CreateFormat(_ context.Context, nf NewCSVFormat) (*core.CSVFormat, error) {
	fm := &core.CSVFormat{
		ID:                  f.id(),
		Name:                nf.Name,
		AccountID:           nf.AccountID,
		IsDebitCreditFormat: nf.IsDebitCreditFormat,
		NegateDebit:         nf.NegateDebit,
		NegateCredit:        nf.NegateCredit,
		CreatedAt:           time.Now(),
	}
	f.formats[fm.ID] = fm
	for _, m := range nf.Mappings {
		m.ID = f.id()
		m.FormatID = fm.ID
		f.mappings[fm.ID] = append(f.mappings[fm.ID], m)
	}
	return fm, nil
}

func (f *fakeStore) GetFormat(_ context.Context, id int64) (*core.CSVFormat, error) {
	if fm, ok := f.formats[id]; ok {
		return fm, nil
	}
	return nil, core.NewNotFoundError("CSV format %d not found", id)
}

func (f *fakeStore) GetFormatByName(_ context.Context, name string) (*core.CSVFormat, error) {
	for _, fm := range f.formats {
		if fm.Name == name {
			return fm, nil
		}
	}
	return nil, core.NewNotFoundError("CSV format '%s' not found", name)
}

func (f *fakeStore) ListFormats(_ context.Context) ([]core.CSVFormat, error) {
	out := make([]core.CSVFormat, 0, len(f.formats))
	for _, fm := range f.formats {
		out = append(out, *fm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) UpdateFormat(_ context.Context, fm core.CSVFormat) error {
	existing, ok := f.formats[fm.ID]
	if !ok {
		return core.NewNotFoundError("CSV format %d not found", fm.ID)
	}
	*existing = fm
	return nil
}

func (f *fakeStore) DeleteFormat(_ context.Context, id int64) error {
	delete(f.formats, id)
	delete(f.mappings, id)
	return nil
}

func (f *fakeStore) AddColumnMapping(_ context.Context, m core.CSVColumnMapping) (int64, error) {
	m.ID = f.id()
	f.mappings[m.FormatID] = append(f.mappings[m.FormatID], m)
	return m.ID, nil
}

func (f *fakeStore) ListColumnMappings(_ context.Context, formatID int64) ([]core.CSVColumnMapping, error) {
	return f.mappings[formatID], nil
}

func (f *fakeStore) InsertTransaction(_ context.Context, t core.Transaction) (int64, error) {
	for _, existing := range f.transactions {
		if existing.AccountID == t.AccountID && existing.UniqueID == t.UniqueID {
			return 0, core.NewConflictError(
				"transaction with unique_id '%s' already exists for account %d", t.UniqueID, t.AccountID)
		}
	}
	t.ID = f.id()
	t.ImportedAt = time.Now()
	f.transactions[t.ID] = &t
	return t.ID, nil
}

func (f *fakeStore) GetTransaction(_ context.Context, id int64) (*core.Transaction, error) {
	if t, ok := f.transactions[id]; ok {
		return t, nil
	}
	return nil, core.NewNotFoundError("transaction %d not found", id)
}

func (f *fakeStore) ListTransactions(_ context.Context, filter TransactionFilter) ([]core.Transaction, error) {
	inCategorySet := func(t *core.Transaction) bool {
		if filter.Uncategorized {
			return t.CategoryID == nil
		}
		if len(filter.CategoryIDs) == 0 {
			return true
		}
		if t.CategoryID == nil {
			return false
		}
		for _, id := range filter.CategoryIDs {
			if id == *t.CategoryID {
				return true
			}
		}
		return false
	}

	var out []core.Transaction
	for _, t := range f.transactions {
		if filter.AccountID != nil && t.AccountID != *filter.AccountID {
			continue
		}
		if filter.StartDate != nil && t.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && t.Date.After(*filter.EndDate) {
			continue
		}
		if !inCategorySet(t) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeStore) UpdateTransaction(_ context.Context, id int64, u TransactionUpdate) error {
	t, ok := f.transactions[id]
	if !ok {
		return core.NewNotFoundError("transaction %d not found", id)
	}
	if u.Date != nil {
		t.Date = *u.Date
	}
	if u.Amount != nil {
		t.Amount = *u.Amount
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.ReferenceNumber != nil {
		t.ReferenceNumber = *u.ReferenceNumber
	}
	if u.Notes != nil {
		t.Notes = *u.Notes
	}
	if u.SetCategory {
		t.CategoryID = u.CategoryID
	}
	return nil
}

func (f *fakeStore) DeleteTransaction(_ context.Context, id int64) error {
	delete(f.transactions, id)
	return nil
}

func (f *fakeStore) GetSummaryTransactions(_ context.Context, start, end *time.Time) ([]core.Transaction, error) {
	return f.ListTransactions(context.Background(), TransactionFilter{StartDate: start, EndDate: end})
}

func (f *fakeStore) Close() error { return nil }

// seedCategoryPath creates every missing segment of a path and returns
// the leaf.
func seedCategoryPath(f *fakeStore, path string, categoryType core.CategoryType) *core.Category {
	var parentID *int64
	var current *core.Category
	for _, segment := range strings.Split(path, ">") {
		segment = strings.TrimSpace(segment)
		child, err := f.GetCategoryChild(context.Background(), parentID, segment)
		if err != nil {
			child, _ = f.CreateCategory(context.Background(), segment, parentID, categoryType)
		}
		current = child
		parentID = &child.ID
	}
	return current
}

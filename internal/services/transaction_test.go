package services

import (
	"context"
	"testing"

	"trackit/internal/core"
)

type txnFixture struct {
	store      *fakeStore
	accounts   *AccountService
	categories *CategoryService
	txns       *TransactionService
}

func newTxnFixture(t *testing.T) *txnFixture {
	t.Helper()
	store := newFakeStore()
	accounts := NewAccountService(store)
	categories := NewCategoryService(store)
	fx := &txnFixture{
		store:      store,
		accounts:   accounts,
		categories: categories,
		txns:       NewTransactionService(store, accounts, categories),
	}
	if _, err := accounts.Create(context.Background(), "Checking", ""); err != nil {
		t.Fatal(err)
	}
	return fx
}

func TestTransactionAddGeneratesUniqueID(t *testing.T) {
	fx := newTxnFixture(t)
	ctx := context.Background()

	tr, err := fx.txns.Add(ctx, NewTransaction{
		AccountRef:  "Checking",
		Date:        core.NewDate(2024, 1, 15),
		Amount:      dec("-50.00"),
		Description: "GROCERY STORE",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if tr.UniqueID == "" {
		t.Fatalf("unique id should be generated")
	}
	if tr.CategoryID != nil {
		t.Fatalf("no category requested, got %v", tr.CategoryID)
	}
}

func TestTransactionAddWithCategoryPath(t *testing.T) {
	fx := newTxnFixture(t)
	ctx := context.Background()
	groceries := seedCategoryPath(fx.store, "Food & Dining > Groceries", core.CategoryTypeExpense)

	tr, err := fx.txns.Add(ctx, NewTransaction{
		AccountRef:   "Checking",
		Date:         core.NewDate(2024, 1, 15),
		Amount:       dec("-50.00"),
		Description:  "GROCERY STORE",
		CategoryPath: "Food & Dining > Groceries",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if tr.CategoryID == nil || *tr.CategoryID != groceries.ID {
		t.Fatalf("category not applied: %+v", tr)
	}

	_, err = fx.txns.Add(ctx, NewTransaction{
		AccountRef:   "Checking",
		Date:         core.NewDate(2024, 1, 16),
		Amount:       dec("-5.00"),
		Description:  "X",
		CategoryPath: "No Such",
	})
	if !core.IsNotFound(err) {
		t.Fatalf("bad category path must be not-found, got %v", err)
	}
}

func TestTransactionAddValidation(t *testing.T) {
	fx := newTxnFixture(t)
	ctx := context.Background()

	if _, err := fx.txns.Add(ctx, NewTransaction{
		AccountRef: "Checking", Amount: dec("-1"), Description: "X",
	}); !core.IsValidation(err) {
		t.Fatalf("zero date must be rejected, got %v", err)
	}
	if _, err := fx.txns.Add(ctx, NewTransaction{
		AccountRef: "Checking", Date: core.NewDate(2024, 1, 1), Amount: dec("-1"),
	}); !core.IsValidation(err) {
		t.Fatalf("empty description must be rejected, got %v", err)
	}
	if _, err := fx.txns.Add(ctx, NewTransaction{
		AccountRef: "Nope", Date: core.NewDate(2024, 1, 1), Amount: dec("-1"), Description: "X",
	}); !core.IsNotFound(err) {
		t.Fatalf("unknown account must be not-found, got %v", err)
	}
}

func TestTransactionCategorizeAndClear(t *testing.T) {
	fx := newTxnFixture(t)
	ctx := context.Background()
	groceries := seedCategoryPath(fx.store, "Food & Dining > Groceries", core.CategoryTypeExpense)

	tr, _ := fx.txns.Add(ctx, NewTransaction{
		AccountRef:  "Checking",
		Date:        core.NewDate(2024, 1, 15),
		Amount:      dec("-50.00"),
		Description: "GROCERY STORE",
	})

	if err := fx.txns.Categorize(ctx, tr.ID, "Food & Dining > Groceries"); err != nil {
		t.Fatalf("categorize: %v", err)
	}
	got, _ := fx.txns.Get(ctx, tr.ID)
	if got.CategoryID == nil || *got.CategoryID != groceries.ID {
		t.Fatalf("category not set: %+v", got)
	}

	if err := fx.txns.Categorize(ctx, tr.ID, ""); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, _ = fx.txns.Get(ctx, tr.ID)
	if got.CategoryID != nil {
		t.Fatalf("category not cleared: %+v", got)
	}

	if err := fx.txns.Categorize(ctx, 999, "Food & Dining"); !core.IsNotFound(err) {
		t.Fatalf("unknown transaction must be not-found, got %v", err)
	}
}

func TestTransactionListFilters(t *testing.T) {
	fx := newTxnFixture(t)
	ctx := context.Background()
	seedCategoryPath(fx.store, "Food & Dining > Groceries", core.CategoryTypeExpense)
	seedCategoryPath(fx.store, "Transportation > Gas", core.CategoryTypeExpense)

	add := func(day int, amount, desc, categoryPath string) {
		t.Helper()
		if _, err := fx.txns.Add(ctx, NewTransaction{
			AccountRef:   "Checking",
			Date:         core.NewDate(2024, 1, day),
			Amount:       dec(amount),
			Description:  desc,
			CategoryPath: categoryPath,
		}); err != nil {
			t.Fatal(err)
		}
	}
	add(10, "-50.00", "GROCERY", "Food & Dining > Groceries")
	add(15, "-30.00", "GAS", "Transportation > Gas")
	add(20, "-7.00", "MYSTERY", "")

	// Subtree filter: parent path captures descendant transactions.
	path := "Food & Dining"
	got, err := fx.txns.List(ctx, ListFilter{CategoryPath: &path})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Description != "GROCERY" {
		t.Fatalf("subtree filter wrong: %+v", got)
	}

	// Empty-but-set path selects uncategorized.
	empty := ""
	got, err = fx.txns.List(ctx, ListFilter{CategoryPath: &empty})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Description != "MYSTERY" {
		t.Fatalf("uncategorized filter wrong: %+v", got)
	}

	// Date range.
	start, end := core.NewDate(2024, 1, 12), core.NewDate(2024, 1, 31)
	got, err = fx.txns.List(ctx, ListFilter{StartDate: &start, EndDate: &end})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("date filter wrong: %+v", got)
	}
	// Newest first.
	if !got[0].Date.After(got[1].Date) {
		t.Fatalf("list should be newest first")
	}
}

func TestTransactionUpdateAndDelete(t *testing.T) {
	fx := newTxnFixture(t)
	ctx := context.Background()

	tr, _ := fx.txns.Add(ctx, NewTransaction{
		AccountRef:  "Checking",
		Date:        core.NewDate(2024, 1, 15),
		Amount:      dec("-50.00"),
		Description: "GROCERY STORE",
	})

	notes := "split with roommate"
	if err := fx.txns.SetNotes(ctx, tr.ID, notes); err != nil {
		t.Fatalf("set notes: %v", err)
	}
	newAmount := dec("-55.00")
	if err := fx.txns.Update(ctx, tr.ID, TransactionUpdate{Amount: &newAmount}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := fx.txns.Get(ctx, tr.ID)
	if got.Notes != notes || !got.Amount.Equal(newAmount) {
		t.Fatalf("updates not applied: %+v", got)
	}

	badID := int64(999)
	if err := fx.txns.Update(ctx, tr.ID, TransactionUpdate{SetCategory: true, CategoryID: &badID}); !core.IsNotFound(err) {
		t.Fatalf("unknown category id must be not-found, got %v", err)
	}

	if err := fx.txns.Delete(ctx, tr.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := fx.txns.Get(ctx, tr.ID); !core.IsNotFound(err) {
		t.Fatalf("transaction should be gone, got %v", err)
	}
}

package services

import (
	"context"
	"testing"
	"time"

	"trackit/internal/core"
)

func newSummaryFixture(t *testing.T) (*fakeStore, *SummaryService, *TransactionService) {
	t.Helper()
	store := newFakeStore()
	accounts := NewAccountService(store)
	categories := NewCategoryService(store)
	txns := NewTransactionService(store, accounts, categories)
	if _, err := accounts.Create(context.Background(), "Checking", ""); err != nil {
		t.Fatal(err)
	}
	return store, NewSummaryService(store, categories), txns
}

func TestSummaryReport(t *testing.T) {
	store, svc, txns := newSummaryFixture(t)
	ctx := context.Background()
	seedCategoryPath(store, "Food & Dining > Groceries", core.CategoryTypeExpense)
	seedCategoryPath(store, "Income > Salary", core.CategoryTypeIncome)

	add := func(day int, amount, desc, path string) {
		t.Helper()
		if _, err := txns.Add(ctx, NewTransaction{
			AccountRef:   "Checking",
			Date:         core.NewDate(2024, 1, day),
			Amount:       dec(amount),
			Description:  desc,
			CategoryPath: path,
		}); err != nil {
			t.Fatal(err)
		}
	}
	add(15, "-50.00", "GROCERY", "Food & Dining > Groceries")
	add(31, "2000.00", "PAYCHECK", "Income > Salary")

	report, err := svc.Report(ctx, SummaryRequest{})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.GroupBy != core.GroupByCategory {
		t.Fatalf("default grouping should be by category, got %s", report.GroupBy)
	}
	if len(report.Sections) != 2 {
		t.Fatalf("expected Income and Expense sections, got %d", len(report.Sections))
	}
	if !report.OverallTotal.Equal(dec("1950.00")) {
		t.Fatalf("overall total = %s", report.OverallTotal)
	}
}

func TestSummaryReportCategoryFilter(t *testing.T) {
	store, svc, txns := newSummaryFixture(t)
	ctx := context.Background()
	seedCategoryPath(store, "Food & Dining > Groceries", core.CategoryTypeExpense)

	if _, err := txns.Add(ctx, NewTransaction{
		AccountRef:   "Checking",
		Date:         core.NewDate(2024, 1, 15),
		Amount:       dec("-50.00"),
		Description:  "GROCERY",
		CategoryPath: "Food & Dining > Groceries",
	}); err != nil {
		t.Fatal(err)
	}

	report, err := svc.Report(ctx, SummaryRequest{CategoryPath: "Food & Dining"})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Filter.Category == nil || report.Filter.Category.Name != "Food & Dining" {
		t.Fatalf("filter not resolved: %+v", report.Filter)
	}
	if len(report.Sections) != 1 || report.Sections[0].Rows[0].CategoryName != "Groceries" {
		t.Fatalf("filtered rows wrong: %+v", report.Sections)
	}
}

func TestSummaryReportMissingCategoryPath(t *testing.T) {
	store, svc, txns := newSummaryFixture(t)
	ctx := context.Background()
	seedCategoryPath(store, "Food & Dining", core.CategoryTypeExpense)

	if _, err := txns.Add(ctx, NewTransaction{
		AccountRef:   "Checking",
		Date:         core.NewDate(2024, 1, 15),
		Amount:       dec("-50.00"),
		Description:  "GROCERY",
		CategoryPath: "Food & Dining",
	}); err != nil {
		t.Fatal(err)
	}

	report, err := svc.Report(ctx, SummaryRequest{CategoryPath: "No Such Category"})
	if err != nil {
		t.Fatalf("missing path must not error: %v", err)
	}
	if !report.Filter.Missing {
		t.Fatalf("Missing flag not set")
	}
	if len(report.Sections) != 0 || len(report.Transactions) != 0 {
		t.Fatalf("missing filter must produce an empty report")
	}
}

func TestSummaryReportDateRange(t *testing.T) {
	store, svc, txns := newSummaryFixture(t)
	ctx := context.Background()
	seedCategoryPath(store, "Food & Dining", core.CategoryTypeExpense)

	add := func(month time.Month, day int, amount string) {
		t.Helper()
		if _, err := txns.Add(ctx, NewTransaction{
			AccountRef:   "Checking",
			Date:         core.NewDate(2024, month, day),
			Amount:       dec(amount),
			Description:  "X",
			CategoryPath: "Food & Dining",
		}); err != nil {
			t.Fatal(err)
		}
	}
	add(1, 15, "-10.00")
	add(2, 15, "-20.00")
	add(3, 15, "-40.00")

	start, end := core.NewDate(2024, 2, 1), core.NewDate(2024, 2, 29)
	report, err := svc.Report(ctx, SummaryRequest{
		StartDate: &start, EndDate: &end, GroupBy: core.GroupByCategoryMonth,
	})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report.Transactions) != 1 || !report.OverallTotal.Equal(dec("-20.00")) {
		t.Fatalf("date range not applied: %d txns, total %s",
			len(report.Transactions), report.OverallTotal)
	}
	if len(report.PeriodKeys) != 1 || report.PeriodKeys[0] != "2024-02" {
		t.Fatalf("period keys wrong: %v", report.PeriodKeys)
	}
}

func TestSummaryReportRejectsBadGroupBy(t *testing.T) {
	_, svc, _ := newSummaryFixture(t)
	_, err := svc.Report(context.Background(), SummaryRequest{GroupBy: core.GroupBy("weekly")})
	if !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

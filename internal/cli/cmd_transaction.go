package cli

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"trackit/internal/core"
	"trackit/internal/services"
)

func (a *App) runAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	account := fs.String("account", "", "account (name or id)")
	date := fs.String("date", "", "transaction date")
	amount := fs.String("amount", "", "signed amount, negative for expenses")
	description := fs.String("description", "", "description")
	category := fs.String("category", "", "category path")
	uniqueID := fs.String("unique-id", "", "external id, generated when omitted")
	notes := fs.String("notes", "", "free-form notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *account == "" || *date == "" || *amount == "" || *description == "" {
		return core.NewValidationError(
			"usage: trackit add --account A --date D --amount N --description S [--category PATH]")
	}

	parsedDate, err := core.ParseDate(*date)
	if err != nil {
		return err
	}
	parsedAmount, err := core.ParseAmount(*amount)
	if err != nil {
		return err
	}

	txn, err := a.txns.Add(ctx, services.NewTransaction{
		AccountRef:   *account,
		Date:         parsedDate,
		Amount:       parsedAmount,
		Description:  *description,
		CategoryPath: *category,
		UniqueID:     *uniqueID,
		Notes:        *notes,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added transaction %d (%s %s)\n",
		txn.ID, txn.Date.Format(core.DateLayout), txn.Amount.StringFixed(2))
	return nil
}

func (a *App) runCategorize(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("categorize", flag.ContinueOnError)
	category := fs.String("category", "", "category path")
	clear := fs.Bool("clear", false, "remove the category")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return core.NewValidationError("usage: trackit categorize <id> (--category PATH | --clear)")
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return core.NewValidationError("invalid transaction id '%s'", fs.Arg(0))
	}
	if *clear == (*category != "") {
		return core.NewValidationError("provide exactly one of --category or --clear")
	}

	if err := a.txns.Categorize(ctx, id, *category); err != nil {
		return err
	}
	if *clear {
		fmt.Fprintf(a.out, "Cleared category of transaction %d\n", id)
	} else {
		fmt.Fprintf(a.out, "Categorized transaction %d as '%s'\n", id, *category)
	}
	return nil
}

func (a *App) runList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	var dates DateRangeFlags
	dates.Register(fs)
	account := fs.String("account", "", "account (name or id)")
	category := fs.String("category", "", "category path, subtree included")
	uncategorized := fs.Bool("uncategorized", false, "only transactions without a category")
	limit := fs.Int("limit", 0, "maximum rows, 0 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *uncategorized && *category != "" {
		return core.NewValidationError("--category and --uncategorized are mutually exclusive")
	}

	start, end, err := dates.Resolve(a.now())
	if err != nil {
		return err
	}
	filter := services.ListFilter{
		StartDate:  start,
		EndDate:    end,
		AccountRef: *account,
		Limit:      *limit,
	}
	if *uncategorized {
		empty := ""
		filter.CategoryPath = &empty
	} else if *category != "" {
		filter.CategoryPath = category
	}

	txns, err := a.txns.List(ctx, filter)
	if err != nil {
		return err
	}
	pathFor, err := a.categoryPathResolver(ctx)
	if err != nil {
		return err
	}
	accountFor, err := a.accountNameResolver(ctx)
	if err != nil {
		return err
	}
	RenderTransactions(a.out, txns, pathFor, accountFor)
	return nil
}

func (a *App) runView(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return core.NewValidationError("usage: trackit view <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return core.NewValidationError("invalid transaction id '%s'", args[0])
	}
	txn, err := a.txns.Get(ctx, id)
	if err != nil {
		return err
	}

	category := ""
	if txn.CategoryID != nil {
		category, err = a.categories.FormatPath(ctx, *txn.CategoryID)
		if err != nil {
			return err
		}
	}
	account, err := a.accounts.Get(ctx, txn.AccountID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "ID:          %d\n", txn.ID)
	fmt.Fprintf(a.out, "Date:        %s\n", txn.Date.Format(core.DateLayout))
	fmt.Fprintf(a.out, "Amount:      %s\n", txn.Amount.StringFixed(2))
	fmt.Fprintf(a.out, "Description: %s\n", txn.Description)
	fmt.Fprintf(a.out, "Category:    %s\n", category)
	fmt.Fprintf(a.out, "Account:     %s\n", account.Name)
	if txn.ReferenceNumber != "" {
		fmt.Fprintf(a.out, "Reference:   %s\n", txn.ReferenceNumber)
	}
	if txn.Notes != "" {
		fmt.Fprintf(a.out, "Notes:       %s\n", txn.Notes)
	}
	fmt.Fprintf(a.out, "Unique ID:   %s\n", txn.UniqueID)
	return nil
}

package cli

import (
	"context"
	"flag"

	"trackit/internal/core"
	"trackit/internal/services"
)

func (a *App) runSummary(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	var dates DateRangeFlags
	dates.Register(fs)
	category := fs.String("category", "", "limit to a category subtree")
	includeTransfers := fs.Bool("include-transfers", false, "include transfer categories")
	byMonth := fs.Bool("group-by-month", false, "one column per month")
	byYear := fs.Bool("group-by-year", false, "one column per year")
	expand := fs.Bool("expand", false, "show the full category tree")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *byMonth && *byYear {
		return core.NewValidationError("--group-by-month and --group-by-year are mutually exclusive")
	}

	start, end, err := dates.Resolve(a.now())
	if err != nil {
		return err
	}
	if dates.Empty() {
		from, to := LastSixMonths(a.now())
		start, end = &from, &to
	}

	groupBy := core.GroupByCategory
	if *byMonth {
		groupBy = core.GroupByCategoryMonth
	} else if *byYear {
		groupBy = core.GroupByCategoryYear
	}

	report, err := a.summaries.Report(ctx, services.SummaryRequest{
		StartDate:        start,
		EndDate:          end,
		CategoryPath:     *category,
		IncludeTransfers: *includeTransfers,
		GroupBy:          groupBy,
	})
	if err != nil {
		return err
	}
	RenderSummary(a.out, report, *expand)
	return nil
}

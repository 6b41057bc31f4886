package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"trackit/internal/core"
	"trackit/internal/services"
)

const (
	categoryColumnWidth = 50
	amountColumnWidth   = 14
)

// RenderSummary writes a columnar summary report: a fixed-width category
// column, one amount column per period (or a single Amount column), "-"
// for zero cells, starred section headers, per-section subtotals and a
// closing TOTAL row.
func RenderSummary(w io.Writer, report *core.SummaryReport, expand bool) {
	byPeriod := report.GroupBy != core.GroupByCategory

	sections := report.Sections
	if expand && byPeriod {
		sections = report.PeriodExpandedSections
	} else if expand {
		sections = report.ExpandedSections
	} else if byPeriod {
		sections = report.PeriodSections
	}

	if len(sections) == 0 {
		fmt.Fprintln(w, "No transactions found.")
		return
	}

	var columns []string
	if byPeriod {
		columns = append(columns, report.PeriodKeys...)
	}
	columns = append(columns, "Total")

	printDivider(w, len(columns))
	fmt.Fprintf(w, "%-*s", categoryColumnWidth, "Category")
	for _, col := range columns {
		fmt.Fprintf(w, "%*s", amountColumnWidth, col)
	}
	fmt.Fprintln(w)
	printDivider(w, len(columns))

	for _, section := range sections {
		fmt.Fprintf(w, "* %s\n", section.Name)
		for _, row := range section.Rows {
			renderSummaryRow(w, row, report.PeriodKeys, byPeriod, expand, 1)
		}
		printCells(w, "  Subtotal", sectionCells(section, report.PeriodKeys, byPeriod))
		fmt.Fprintln(w)
	}

	printDivider(w, len(columns))
	var totals []decimal.Decimal
	if byPeriod {
		for _, key := range report.PeriodKeys {
			totals = append(totals, report.PeriodOverallTotals[key])
		}
	}
	totals = append(totals, report.OverallTotal)
	printCells(w, "TOTAL", totals)
}

func renderSummaryRow(w io.Writer, row *core.SummaryRow, periodKeys []string, byPeriod, expand bool, depth int) {
	if expand && !rowHasContent(row) {
		return
	}
	name := strings.Repeat(" ", (depth-1)*4+2) + row.CategoryName
	printCells(w, name, rowCells(row, periodKeys, byPeriod))
	if expand {
		for _, child := range row.Children {
			renderSummaryRow(w, child, periodKeys, byPeriod, expand, depth+1)
		}
	}
}

// rowHasContent reports whether an expanded row or any of its descendants
// carries a nonzero total. Zero rows are hidden, display only.
func rowHasContent(row *core.SummaryRow) bool {
	if !row.Total.IsZero() {
		return true
	}
	for _, child := range row.Children {
		if rowHasContent(child) {
			return true
		}
	}
	return false
}

func rowCells(row *core.SummaryRow, periodKeys []string, byPeriod bool) []decimal.Decimal {
	var cells []decimal.Decimal
	if byPeriod {
		for _, key := range periodKeys {
			cells = append(cells, row.PeriodTotals[key])
		}
	}
	return append(cells, row.Total)
}

func sectionCells(section *core.SummarySection, periodKeys []string, byPeriod bool) []decimal.Decimal {
	var cells []decimal.Decimal
	if byPeriod {
		for _, key := range periodKeys {
			cells = append(cells, section.PeriodSubtotals[key])
		}
	}
	return append(cells, section.Subtotal)
}

func printCells(w io.Writer, label string, cells []decimal.Decimal) {
	if len(label) > categoryColumnWidth {
		label = label[:categoryColumnWidth-1] + "…"
	}
	fmt.Fprintf(w, "%-*s", categoryColumnWidth, label)
	for _, cell := range cells {
		if cell.IsZero() {
			fmt.Fprintf(w, "%*s", amountColumnWidth, "-")
		} else {
			fmt.Fprintf(w, "%*s", amountColumnWidth, cell.StringFixed(2))
		}
	}
	fmt.Fprintln(w)
}

func printDivider(w io.Writer, amountColumns int) {
	fmt.Fprintln(w, strings.Repeat("-", categoryColumnWidth+amountColumns*amountColumnWidth))
}

// RenderTransactions writes a transaction table. pathFor and accountFor
// resolve display names for category and account ids.
func RenderTransactions(w io.Writer, txns []core.Transaction, pathFor func(int64) string, accountFor func(int64) string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tAMOUNT\tDESCRIPTION\tCATEGORY\tACCOUNT")
	for _, t := range txns {
		category := ""
		if t.CategoryID != nil {
			category = pathFor(*t.CategoryID)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Date.Format(core.DateLayout), t.Amount.StringFixed(2),
			t.Description, category, accountFor(t.AccountID))
	}
	tw.Flush()
}

// RenderAccounts writes the account table.
func RenderAccounts(w io.Writer, accounts []core.Account) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBANK")
	for _, a := range accounts {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", a.ID, a.Name, a.BankName)
	}
	tw.Flush()
}

// RenderFormats writes the CSV format table.
func RenderFormats(w io.Writer, formats []core.CSVFormat, accountFor func(int64) string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tACCOUNT\tMODE")
	for _, f := range formats {
		mode := "amount"
		if f.IsDebitCreditFormat {
			mode = "debit/credit"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", f.ID, f.Name, accountFor(f.AccountID), mode)
	}
	tw.Flush()
}

// RenderFormatDetail writes a format's flags and its ordered mappings.
func RenderFormatDetail(w io.Writer, f *core.CSVFormat, mappings []core.CSVColumnMapping) {
	fmt.Fprintf(w, "Format:       %s\n", f.Name)
	fmt.Fprintf(w, "Debit/credit: %t\n", f.IsDebitCreditFormat)
	if f.IsDebitCreditFormat {
		fmt.Fprintf(w, "Negate debit: %t\n", f.NegateDebit)
		fmt.Fprintf(w, "Negate credit: %t\n", f.NegateCredit)
	}
	fmt.Fprintln(w, "Mappings:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  CSV COLUMN\tFIELD\tREQUIRED")
	for _, m := range mappings {
		fmt.Fprintf(tw, "  %s\t%s\t%t\n", m.CSVColumnName, m.DBFieldName, m.IsRequired)
	}
	tw.Flush()
}

// RenderCategoryTree writes the category forest with two-space indents.
func RenderCategoryTree(w io.Writer, tree []*core.CategoryTreeNode) {
	var walk func(n *core.CategoryTreeNode, depth int)
	walk = func(n *core.CategoryTreeNode, depth int) {
		suffix := ""
		if n.CategoryType != core.CategoryTypeExpense {
			suffix = " [" + n.CategoryType.String() + "]"
		}
		fmt.Fprintf(w, "%s%s%s\n", strings.Repeat("  ", depth), n.Name, suffix)
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	for _, root := range tree {
		walk(root, 0)
	}
}

// RenderImportResult writes the import outcome with row details. Skipped
// rows show their content so the user can judge whether the skip was
// right.
func RenderImportResult(w io.Writer, result *services.ImportResult) {
	fmt.Fprintf(w, "Imported: %d\n", result.Imported)
	fmt.Fprintf(w, "Skipped:  %d\n", result.Skipped)
	for _, d := range result.SkippedDetails {
		fmt.Fprintf(w, "  Row %d: %s: %s %s %s\n",
			d.RowNum, d.Reason, d.Date.Format(core.DateLayout), d.Amount.StringFixed(2), d.Description)
	}
	if len(result.Errors) > 0 {
		fmt.Fprintf(w, "Errors:   %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
}

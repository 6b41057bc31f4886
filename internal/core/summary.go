package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// GroupBy selects the summary grouping mode. The month and year modes are
// mutually exclusive by construction.
type GroupBy string

const (
	GroupByCategory      GroupBy = "category"
	GroupByCategoryMonth GroupBy = "category_month"
	GroupByCategoryYear  GroupBy = "category_year"
)

// Valid reports whether g is a known grouping mode.
func (g GroupBy) Valid() bool {
	switch g {
	case GroupByCategory, GroupByCategoryMonth, GroupByCategoryYear:
		return true
	}
	return false
}

// CategoryFilter is a resolved --category filter. Missing distinguishes
// "filter requested but the path did not resolve" from "no filter": a
// missing filter yields an empty report, never an unfiltered one.
type CategoryFilter struct {
	Path     string
	Category *Category
	Missing  bool
}

// SummaryOptions are the inputs to BuildSummaryReport.
type SummaryOptions struct {
	StartDate        *time.Time
	EndDate          *time.Time
	Filter           CategoryFilter
	IncludeTransfers bool
	GroupBy          GroupBy
}

// CategorySummary is one flat aggregation row. Expenses accumulates the
// negative amounts and Income the positive ones; a single category can
// carry both (purchases and refunds). A nil CategoryID is the
// Uncategorized pseudo-group.
type CategorySummary struct {
	CategoryID   *int64
	CategoryName string
	CategoryType *CategoryType
	Expenses     decimal.Decimal
	Income       decimal.Decimal
	Count        int
}

// Total is the signed sum of the group's amounts.
func (s CategorySummary) Total() decimal.Decimal {
	return s.Expenses.Add(s.Income)
}

// SummaryRow is one report row. PeriodTotals is populated only in
// period-bucketed views, Children only in expanded views.
type SummaryRow struct {
	CategoryID   *int64
	CategoryName string
	CategoryType *CategoryType
	Expenses     decimal.Decimal
	Income       decimal.Decimal
	Count        int
	Total        decimal.Decimal
	PeriodTotals map[string]decimal.Decimal
	Children     []*SummaryRow
}

// SummarySection groups rows of one category type. Section order in a
// report is fixed: Income, Expense, then Transfer when included.
type SummarySection struct {
	Name            string
	Rows            []*SummaryRow
	Subtotal        decimal.Decimal
	PeriodSubtotals map[string]decimal.Decimal
}

// SummaryReport is the full, immutable result of one summary query, with
// flat and period-bucketed variants of both the plain and expanded views.
type SummaryReport struct {
	GroupBy          GroupBy
	StartDate        *time.Time
	EndDate          *time.Time
	Filter           CategoryFilter
	IncludeTransfers bool

	Transactions       []Transaction
	PeriodKeys         []string
	PeriodTransactions map[string][]Transaction

	Tree        []*CategoryTreeNode
	Descendants map[int64]map[int64]bool
	Summaries   []CategorySummary

	Sections               []*SummarySection
	ExpandedSections       []*SummarySection
	PeriodSections         []*SummarySection
	PeriodExpandedSections []*SummarySection

	OverallTotal        decimal.Decimal
	PeriodOverallTotals map[string]decimal.Decimal
}

const uncategorizedName = "Uncategorized"

// PeriodKey buckets a transaction date into "YYYY-MM" or "YYYY".
func PeriodKey(date time.Time, byMonth bool) string {
	if byMonth {
		return date.Format("2006-01")
	}
	return date.Format("2006")
}

// GroupTransactionsByPeriod keys transactions by month or year. Only
// periods with at least one transaction appear.
func GroupTransactionsByPeriod(transactions []Transaction, byMonth bool) map[string][]Transaction {
	grouped := make(map[string][]Transaction)
	for _, t := range transactions {
		key := PeriodKey(t.Date, byMonth)
		grouped[key] = append(grouped[key], t)
	}
	return grouped
}

// CategoryTotal sums the amounts of every transaction whose category lies
// in the node's self-inclusive descendant set.
func CategoryTotal(descendants map[int64]map[int64]bool, categoryID int64, transactions []Transaction) decimal.Decimal {
	set := descendants[categoryID]
	total := decimal.Zero
	for _, t := range transactions {
		if t.CategoryID != nil && set[*t.CategoryID] {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// BuildSummaryReport runs the whole aggregation pipeline over a
// pre-fetched transaction set and category tree. It performs no I/O and
// never fails on empty data; the only error is an unknown grouping mode.
func BuildSummaryReport(opts SummaryOptions, transactions []Transaction, tree []*CategoryTreeNode) (*SummaryReport, error) {
	if !opts.GroupBy.Valid() {
		return nil, NewValidationError("unknown summary grouping mode '%s'", opts.GroupBy)
	}

	report := &SummaryReport{
		GroupBy:             opts.GroupBy,
		StartDate:           opts.StartDate,
		EndDate:             opts.EndDate,
		Filter:              opts.Filter,
		IncludeTransfers:    opts.IncludeTransfers,
		PeriodTransactions:  map[string][]Transaction{},
		PeriodOverallTotals: map[string]decimal.Decimal{},
		OverallTotal:        decimal.Zero,
	}
	if opts.Filter.Missing {
		// Unknown filter path: deliberately empty, not unfiltered.
		return report, nil
	}

	index := NewTreeIndex(tree)
	descendants := Descendants(tree)
	report.Descendants = descendants

	if !opts.IncludeTransfers {
		transactions = excludeTransfers(transactions, index, descendants)
	}

	var filterID *int64
	reportTree := tree
	if opts.Filter.Category != nil {
		id := opts.Filter.Category.ID
		filterID = &id
		transactions = filterByScope(transactions, descendants[id])
		if sub := Subtree(tree, id); sub != nil {
			reportTree = []*CategoryTreeNode{sub}
		} else {
			reportTree = nil
		}
	}
	report.Transactions = transactions
	report.Tree = reportTree

	byPeriod := opts.GroupBy != GroupByCategory
	byMonth := opts.GroupBy == GroupByCategoryMonth
	if byPeriod {
		report.PeriodTransactions = GroupTransactionsByPeriod(transactions, byMonth)
		for key := range report.PeriodTransactions {
			report.PeriodKeys = append(report.PeriodKeys, key)
		}
		sort.Strings(report.PeriodKeys)
	}

	rows := buildFlatRows(transactions, filterID, index, reportTree, byPeriod, byMonth)
	for _, row := range rows {
		report.Summaries = append(report.Summaries, CategorySummary{
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
			CategoryType: row.CategoryType,
			Expenses:     row.Expenses,
			Income:       row.Income,
			Count:        row.Count,
		})
	}

	report.Sections = buildSections(rows, false)
	report.ExpandedSections = buildExpandedSections(reportTree, descendants, transactions, report, false)
	if byPeriod {
		report.PeriodSections = buildSections(rows, true)
		report.PeriodExpandedSections = buildExpandedSections(reportTree, descendants, transactions, report, true)
	}

	for _, section := range report.Sections {
		report.OverallTotal = report.OverallTotal.Add(section.Subtotal)
	}
	for _, section := range report.PeriodSections {
		for key, subtotal := range section.PeriodSubtotals {
			report.PeriodOverallTotals[key] = periodValue(report.PeriodOverallTotals, key).Add(subtotal)
		}
	}
	return report, nil
}

func periodValue(m map[string]decimal.Decimal, key string) decimal.Decimal {
	if v, ok := m[key]; ok {
		return v
	}
	return decimal.Zero
}

// excludeTransfers drops every transaction categorized inside the subtree
// of any Transfer-typed category. Uncategorized transactions always stay.
func excludeTransfers(transactions []Transaction, index *TreeIndex, descendants map[int64]map[int64]bool) []Transaction {
	transferIDs := make(map[int64]bool)
	for id, info := range index.Info {
		if info.CategoryType != CategoryTypeTransfer {
			continue
		}
		for did := range descendants[id] {
			transferIDs[did] = true
		}
	}
	if len(transferIDs) == 0 {
		return transactions
	}
	kept := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.CategoryID != nil && transferIDs[*t.CategoryID] {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

func filterByScope(transactions []Transaction, scope map[int64]bool) []Transaction {
	kept := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.CategoryID != nil && scope[*t.CategoryID] {
			kept = append(kept, t)
		}
	}
	return kept
}

// groupIDForTransaction maps a transaction to its report group. Without a
// filter that is the top-level ancestor; with filter F it is F itself, the
// immediate child of F on the transaction's ancestor chain, or F as a
// fallback when the walk-up finds no such child.
func groupIDForTransaction(t Transaction, filterID *int64, index *TreeIndex) *int64 {
	if t.CategoryID == nil {
		return nil
	}
	cur := *t.CategoryID

	if filterID == nil {
		for {
			parent, ok := index.ParentOf[cur]
			if !ok || parent == nil {
				top := cur
				return &top
			}
			cur = *parent
		}
	}

	if cur == *filterID {
		id := *filterID
		return &id
	}
	for {
		parent, ok := index.ParentOf[cur]
		if !ok || parent == nil {
			id := *filterID
			return &id
		}
		if *parent == *filterID {
			child := cur
			return &child
		}
		cur = *parent
	}
}

// buildFlatRows aggregates transactions into one row per group, ordered in
// tree order with Uncategorized forced last.
func buildFlatRows(transactions []Transaction, filterID *int64, index *TreeIndex, reportTree []*CategoryTreeNode, byPeriod, byMonth bool) []*SummaryRow {
	groups := make(map[int64]*SummaryRow)
	var uncategorized *SummaryRow

	rowFor := func(gid *int64) *SummaryRow {
		if gid == nil {
			if uncategorized == nil {
				uncategorized = newFlatRow(nil, uncategorizedName, nil, byPeriod)
			}
			return uncategorized
		}
		if row, ok := groups[*gid]; ok {
			return row
		}
		catType := index.Info[*gid].CategoryType
		row := newFlatRow(gid, index.Name(*gid), &catType, byPeriod)
		groups[*gid] = row
		return row
	}

	for _, t := range transactions {
		row := rowFor(groupIDForTransaction(t, filterID, index))
		if t.Amount.IsNegative() {
			row.Expenses = row.Expenses.Add(t.Amount)
		} else {
			row.Income = row.Income.Add(t.Amount)
		}
		row.Count++
		row.Total = row.Total.Add(t.Amount)
		if byPeriod {
			key := PeriodKey(t.Date, byMonth)
			row.PeriodTotals[key] = periodValue(row.PeriodTotals, key).Add(t.Amount)
		}
	}

	var rows []*SummaryRow
	for _, gid := range groupOrder(filterID, reportTree) {
		if row, ok := groups[gid]; ok {
			rows = append(rows, row)
			delete(groups, gid)
		}
	}
	// Groups left over here point outside the report tree, which only
	// happens on structural inconsistency; keep them deterministic.
	var leftovers []int64
	for gid := range groups {
		leftovers = append(leftovers, gid)
	}
	sort.Slice(leftovers, func(i, j int) bool { return leftovers[i] < leftovers[j] })
	for _, gid := range leftovers {
		rows = append(rows, groups[gid])
	}
	if uncategorized != nil {
		rows = append(rows, uncategorized)
	}
	return rows
}

func newFlatRow(id *int64, name string, catType *CategoryType, byPeriod bool) *SummaryRow {
	row := &SummaryRow{
		CategoryID:   id,
		CategoryName: name,
		CategoryType: catType,
		Expenses:     decimal.Zero,
		Income:       decimal.Zero,
		Total:        decimal.Zero,
	}
	if byPeriod {
		row.PeriodTotals = map[string]decimal.Decimal{}
	}
	return row
}

// groupOrder lists the candidate group ids in tree order: the roots when
// unfiltered, or the filter category followed by its immediate children.
func groupOrder(filterID *int64, reportTree []*CategoryTreeNode) []int64 {
	var order []int64
	if filterID == nil {
		for _, root := range reportTree {
			order = append(order, root.ID)
		}
		return order
	}
	order = append(order, *filterID)
	if len(reportTree) == 1 && reportTree[0].ID == *filterID {
		for _, child := range reportTree[0].Children {
			order = append(order, child.ID)
		}
	}
	return order
}

// buildSections partitions ordered rows into Income/Expense/Transfer
// sections. Uncategorized rows land in the Expense section by convention.
func buildSections(rows []*SummaryRow, byPeriod bool) []*SummarySection {
	sections := map[string]*SummarySection{}
	sectionFor := func(name string) *SummarySection {
		if s, ok := sections[name]; ok {
			return s
		}
		s := &SummarySection{Name: name, Subtotal: decimal.Zero}
		if byPeriod {
			s.PeriodSubtotals = map[string]decimal.Decimal{}
		}
		sections[name] = s
		return s
	}

	for _, row := range rows {
		name := CategoryTypeExpense.String()
		if row.CategoryType != nil {
			name = row.CategoryType.String()
		}
		section := sectionFor(name)
		section.Rows = append(section.Rows, row)
		section.Subtotal = section.Subtotal.Add(row.Total)
		if byPeriod {
			for key, total := range row.PeriodTotals {
				section.PeriodSubtotals[key] = periodValue(section.PeriodSubtotals, key).Add(total)
			}
		}
	}

	var ordered []*SummarySection
	for _, name := range []string{
		CategoryTypeIncome.String(),
		CategoryTypeExpense.String(),
		CategoryTypeTransfer.String(),
	} {
		if s, ok := sections[name]; ok {
			ordered = append(ordered, s)
		}
	}
	return ordered
}

// buildExpandedSections gives every node of the (filtered) tree its own
// row with a self-inclusive subtree total. In the non-period view, root
// rows within a section are ordered by total magnitude, largest first.
func buildExpandedSections(reportTree []*CategoryTreeNode, descendants map[int64]map[int64]bool, transactions []Transaction, report *SummaryReport, byPeriod bool) []*SummarySection {
	var expandRow func(n *CategoryTreeNode) *SummaryRow
	expandRow = func(n *CategoryTreeNode) *SummaryRow {
		id := n.ID
		catType := n.CategoryType
		row := &SummaryRow{
			CategoryID:   &id,
			CategoryName: n.Name,
			CategoryType: &catType,
			Total:        CategoryTotal(descendants, n.ID, transactions),
		}
		if byPeriod {
			row.PeriodTotals = map[string]decimal.Decimal{}
			for _, key := range report.PeriodKeys {
				total := CategoryTotal(descendants, n.ID, report.PeriodTransactions[key])
				if !total.IsZero() {
					row.PeriodTotals[key] = total
				}
			}
		}
		for _, child := range n.Children {
			row.Children = append(row.Children, expandRow(child))
		}
		return row
	}

	var roots []*SummaryRow
	for _, n := range reportTree {
		roots = append(roots, expandRow(n))
	}
	if row := uncategorizedExpandedRow(transactions, report, byPeriod); row != nil {
		roots = append(roots, row)
	}

	sections := buildSections(roots, byPeriod)
	if !byPeriod {
		for _, section := range sections {
			sortRowsByMagnitude(section.Rows)
		}
	}
	return sections
}

// sortRowsByMagnitude orders rows by absolute total, descending, keeping
// the Uncategorized pseudo-row pinned to the end.
func sortRowsByMagnitude(rows []*SummaryRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CategoryID == nil {
			return false
		}
		if rows[j].CategoryID == nil {
			return true
		}
		return rows[i].Total.Abs().GreaterThan(rows[j].Total.Abs())
	})
}

func uncategorizedExpandedRow(transactions []Transaction, report *SummaryReport, byPeriod bool) *SummaryRow {
	row := &SummaryRow{CategoryName: uncategorizedName, Total: decimal.Zero}
	found := false
	for _, t := range transactions {
		if t.CategoryID != nil {
			continue
		}
		found = true
		row.Total = row.Total.Add(t.Amount)
		row.Count++
	}
	if !found {
		return nil
	}
	if byPeriod {
		row.PeriodTotals = map[string]decimal.Decimal{}
		for key, txns := range report.PeriodTransactions {
			for _, t := range txns {
				if t.CategoryID == nil {
					row.PeriodTotals[key] = periodValue(row.PeriodTotals, key).Add(t.Amount)
				}
			}
		}
	}
	return row
}

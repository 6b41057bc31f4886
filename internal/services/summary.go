package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"trackit/internal/core"
)

// SummaryRequest is the user-facing input for a summary report.
type SummaryRequest struct {
	StartDate        *time.Time
	EndDate          *time.Time
	CategoryPath     string
	IncludeTransfers bool
	GroupBy          core.GroupBy
}

// SummaryService assembles the inputs for the aggregation engine: the
// category tree, the resolved category filter, and one bulk transaction
// fetch for the date range.
type SummaryService struct {
	store      Store
	categories *CategoryService
}

func NewSummaryService(store Store, categories *CategoryService) *SummaryService {
	return &SummaryService{store: store, categories: categories}
}

// Report builds a summary report. A category path that resolves to
// nothing yields an empty report rather than an error.
func (s *SummaryService) Report(ctx context.Context, req SummaryRequest) (*core.SummaryReport, error) {
	groupBy := req.GroupBy
	if groupBy == "" {
		groupBy = core.GroupByCategory
	}
	if !groupBy.Valid() {
		return nil, core.NewValidationError("unknown grouping mode '%s'", groupBy)
	}

	// The tree scan and the filter path resolution hit disjoint data, so
	// run them concurrently.
	var (
		tree   []*core.CategoryTreeNode
		filter core.CategoryFilter
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tree, err = s.categories.Tree(gctx)
		return err
	})
	if req.CategoryPath != "" {
		g.Go(func() error {
			category, err := s.categories.ByPath(gctx, req.CategoryPath)
			if err != nil {
				if core.IsNotFound(err) {
					filter = core.CategoryFilter{Path: req.CategoryPath, Missing: true}
					return nil
				}
				return err
			}
			filter = core.CategoryFilter{Path: req.CategoryPath, Category: category}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load summary inputs: %w", err)
	}

	opts := core.SummaryOptions{
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Filter:           filter,
		IncludeTransfers: req.IncludeTransfers,
		GroupBy:          groupBy,
	}

	if filter.Missing {
		return core.BuildSummaryReport(opts, nil, tree)
	}

	transactions, err := s.store.GetSummaryTransactions(ctx, req.StartDate, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return core.BuildSummaryReport(opts, transactions, tree)
}

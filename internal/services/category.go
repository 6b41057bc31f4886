package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trackit/internal/cache"
	"trackit/internal/core"
)

const (
	pathCacheSize = 512
	pathCacheTTL  = 5 * time.Minute
)

// CategoryService manages the category tree. Path lookups are memoized in
// an LRU keyed by the full " > " path; the cache is purged on any mutation.
type CategoryService struct {
	store Store
	paths *cache.LRU[int64]
}

func NewCategoryService(store Store) *CategoryService {
	return NewCategoryServiceWithCache(store, pathCacheSize, pathCacheTTL)
}

// NewCategoryServiceWithCache overrides the path cache dimensions,
// normally from configuration.
func NewCategoryServiceWithCache(store Store, cacheSize int, cacheTTL time.Duration) *CategoryService {
	return &CategoryService{
		store: store,
		paths: cache.NewLRU[int64](cacheSize, cacheTTL),
	}
}

// Create adds a category. parentPath may be empty for a root category;
// when given, every segment must already exist. The type defaults to
// Expense and is never inherited from the parent.
func (s *CategoryService) Create(ctx context.Context, name, parentPath string, categoryType core.CategoryType) (*core.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, core.NewValidationError("category name cannot be empty")
	}
	if strings.Contains(name, ">") {
		return nil, core.NewValidationError("category name cannot contain '>'")
	}

	var parentID *int64
	if strings.TrimSpace(parentPath) != "" {
		parent, err := s.ByPath(ctx, parentPath)
		if err != nil {
			return nil, err
		}
		parentID = &parent.ID
	}

	if existing, err := s.store.GetCategoryChild(ctx, parentID, name); err == nil && existing != nil {
		return nil, core.NewConflictError("category '%s' already exists under the same parent", name)
	} else if err != nil && !core.IsNotFound(err) {
		return nil, fmt.Errorf("check category name: %w", err)
	}

	category, err := s.store.CreateCategory(ctx, name, parentID, categoryType)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.paths.Purge()
	slog.InfoContext(ctx, "Category created",
		"id", category.ID, "name", category.Name, "type", category.CategoryType.String())
	return category, nil
}

// Get fetches a category by id.
func (s *CategoryService) Get(ctx context.Context, id int64) (*core.Category, error) {
	return s.store.GetCategory(ctx, id)
}

// List returns the direct children of parentID, or the roots when nil.
func (s *CategoryService) List(ctx context.Context, parentID *int64) ([]core.Category, error) {
	return s.store.ListCategories(ctx, parentID)
}

// Tree returns the full category forest, siblings in name order.
func (s *CategoryService) Tree(ctx context.Context) ([]*core.CategoryTreeNode, error) {
	flat, err := s.store.ListAllCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return core.BuildTree(flat), nil
}

// ByPath resolves a " > " separated path segment by segment. Matching is
// exact and case-sensitive.
func (s *CategoryService) ByPath(ctx context.Context, path string) (*core.Category, error) {
	if strings.TrimSpace(path) == "" {
		return nil, core.NewValidationError("category path cannot be empty")
	}
	segments := core.SplitPath(path)
	canonical := strings.Join(segments, core.PathSeparator)

	if id, ok := s.paths.Get(canonical); ok {
		if category, err := s.store.GetCategory(ctx, id); err == nil {
			return category, nil
		}
		s.paths.Delete(canonical)
	}

	var parentID *int64
	var current *core.Category
	for _, segment := range segments {
		if segment == "" {
			return nil, core.NewValidationError("category path '%s' has an empty segment", path)
		}
		child, err := s.store.GetCategoryChild(ctx, parentID, segment)
		if err != nil {
			if core.IsNotFound(err) {
				return nil, core.NewNotFoundError("category '%s' not found", canonical)
			}
			return nil, fmt.Errorf("resolve category path: %w", err)
		}
		current = child
		parentID = &child.ID
	}

	s.paths.Set(canonical, current.ID)
	return current, nil
}

// FormatPath renders the full path for a category id by walking parent
// links upward.
func (s *CategoryService) FormatPath(ctx context.Context, id int64) (string, error) {
	var names []string
	cur := &id
	for cur != nil {
		category, err := s.store.GetCategory(ctx, *cur)
		if err != nil {
			return "", err
		}
		names = append(names, category.Name)
		cur = category.ParentID
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, core.PathSeparator), nil
}

// defaultCategories is the starter tree seeded by init-categories.
var defaultCategories = []struct {
	Name     string
	Type     core.CategoryType
	Children []string
}{
	{Name: "Income", Type: core.CategoryTypeIncome,
		Children: []string{"Salary", "Interest", "Refunds", "Other Income"}},
	{Name: "Food & Dining", Type: core.CategoryTypeExpense,
		Children: []string{"Groceries", "Restaurants", "Coffee & Snacks"}},
	{Name: "Housing", Type: core.CategoryTypeExpense,
		Children: []string{"Rent", "Utilities", "Maintenance", "Insurance"}},
	{Name: "Transportation", Type: core.CategoryTypeExpense,
		Children: []string{"Gas", "Public Transit", "Parking", "Car Maintenance"}},
	{Name: "Shopping", Type: core.CategoryTypeExpense,
		Children: []string{"Clothing", "Electronics", "Household"}},
	{Name: "Health", Type: core.CategoryTypeExpense,
		Children: []string{"Medical", "Pharmacy", "Fitness"}},
	{Name: "Entertainment", Type: core.CategoryTypeExpense,
		Children: []string{"Streaming", "Events", "Hobbies"}},
	{Name: "Travel", Type: core.CategoryTypeExpense,
		Children: []string{"Flights", "Lodging"}},
	{Name: "Fees & Charges", Type: core.CategoryTypeExpense,
		Children: []string{"Bank Fees", "Taxes"}},
	{Name: "Transfer", Type: core.CategoryTypeTransfer,
		Children: []string{"Credit Card Payment", "Between Accounts"}},
}

// SeedDefaults creates the starter category tree. When force is false and
// any category already exists, nothing is touched. Returns the number of
// categories created.
func (s *CategoryService) SeedDefaults(ctx context.Context, force bool) (int, error) {
	existing, err := s.store.ListAllCategories(ctx)
	if err != nil {
		return 0, fmt.Errorf("list categories: %w", err)
	}
	if len(existing) > 0 && !force {
		return 0, core.NewConflictError(
			"%d categories already exist; use --force to seed anyway", len(existing))
	}

	created := 0
	for _, root := range defaultCategories {
		parent, err := s.store.GetCategoryChild(ctx, nil, root.Name)
		if core.IsNotFound(err) {
			parent, err = s.store.CreateCategory(ctx, root.Name, nil, root.Type)
			if err == nil {
				created++
			}
		}
		if err != nil {
			return created, fmt.Errorf("seed category '%s': %w", root.Name, err)
		}
		for _, childName := range root.Children {
			if _, err := s.store.GetCategoryChild(ctx, &parent.ID, childName); err == nil {
				continue
			} else if !core.IsNotFound(err) {
				return created, fmt.Errorf("seed category '%s': %w", childName, err)
			}
			if _, err := s.store.CreateCategory(ctx, childName, &parent.ID, root.Type); err != nil {
				return created, fmt.Errorf("seed category '%s': %w", childName, err)
			}
			created++
		}
	}
	s.paths.Purge()
	slog.InfoContext(ctx, "Default categories seeded", "created", created)
	return created, nil
}

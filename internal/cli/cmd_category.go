package cli

import (
	"context"
	"flag"
	"fmt"

	"trackit/internal/core"
)

func parseCategoryType(s string) (core.CategoryType, error) {
	switch s {
	case "", "expense":
		return core.CategoryTypeExpense, nil
	case "income":
		return core.CategoryTypeIncome, nil
	case "transfer":
		return core.CategoryTypeTransfer, nil
	default:
		return 0, core.NewValidationError(
			"unknown category type '%s': must be expense, income or transfer", s)
	}
}

func (a *App) runCategory(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return core.NewValidationError("usage: trackit category add|list|tree")
	}
	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("category add", flag.ContinueOnError)
		parent := fs.String("parent", "", "parent category path")
		typeName := fs.String("type", "", "category type: expense, income or transfer")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return core.NewValidationError("usage: trackit category add <name> [--parent PATH] [--type TYPE]")
		}
		categoryType, err := parseCategoryType(*typeName)
		if err != nil {
			return err
		}
		category, err := a.categories.Create(ctx, fs.Arg(0), *parent, categoryType)
		if err != nil {
			return err
		}
		path, err := a.categories.FormatPath(ctx, category.ID)
		if err != nil {
			path = category.Name
		}
		fmt.Fprintf(a.out, "Created category '%s' (id %d)\n", path, category.ID)
		return nil

	case "list":
		fs := flag.NewFlagSet("category list", flag.ContinueOnError)
		parent := fs.String("parent", "", "parent category path")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		var parentID *int64
		if *parent != "" {
			category, err := a.categories.ByPath(ctx, *parent)
			if err != nil {
				return err
			}
			parentID = &category.ID
		}
		categories, err := a.categories.List(ctx, parentID)
		if err != nil {
			return err
		}
		for _, c := range categories {
			fmt.Fprintf(a.out, "%d\t%s\t%s\n", c.ID, c.Name, c.CategoryType)
		}
		return nil

	case "tree":
		tree, err := a.categories.Tree(ctx)
		if err != nil {
			return err
		}
		RenderCategoryTree(a.out, tree)
		return nil

	default:
		return core.NewValidationError("unknown category subcommand '%s'", args[0])
	}
}

func (a *App) runInitCategories(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init-categories", flag.ContinueOnError)
	force := fs.Bool("force", false, "seed even when categories already exist")
	if err := fs.Parse(args); err != nil {
		return err
	}
	created, err := a.categories.SeedDefaults(ctx, *force)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %d categories\n", created)
	return nil
}

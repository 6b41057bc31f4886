package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"trackit/internal/config"
	"trackit/internal/core"
	"trackit/internal/services"
)

// App wires the services behind the trackit subcommands.
type App struct {
	accounts   *services.AccountService
	categories *services.CategoryService
	txns       *services.TransactionService
	formats    *services.FormatService
	importer   *services.Importer
	summaries  *services.SummaryService
	out        io.Writer
	now        func() time.Time
}

func NewApp(store services.Store, cfg *config.Config, out io.Writer) *App {
	accounts := services.NewAccountService(store)
	categories := services.NewCategoryServiceWithCache(store, cfg.PathCacheSize, cfg.PathCacheTTL)
	formats := services.NewFormatService(store, accounts)
	return &App{
		accounts:   accounts,
		categories: categories,
		txns:       services.NewTransactionService(store, accounts, categories),
		formats:    formats,
		importer:   services.NewImporter(store, formats),
		summaries:  services.NewSummaryService(store, categories),
		out:        out,
		now:        time.Now,
	}
}

// Run dispatches one invocation. Returned errors carry user-facing
// messages; the caller decides the exit code.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printUsage()
		return nil
	}
	switch args[0] {
	case "account":
		return a.runAccount(ctx, args[1:])
	case "category":
		return a.runCategory(ctx, args[1:])
	case "init-categories":
		return a.runInitCategories(ctx, args[1:])
	case "format":
		return a.runFormat(ctx, args[1:])
	case "add":
		return a.runAdd(ctx, args[1:])
	case "categorize":
		return a.runCategorize(ctx, args[1:])
	case "list":
		return a.runList(ctx, args[1:])
	case "view":
		return a.runView(ctx, args[1:])
	case "import":
		return a.runImport(ctx, args[1:])
	case "summary":
		return a.runSummary(ctx, args[1:])
	case "help", "-h", "--help":
		a.printUsage()
		return nil
	default:
		return core.NewValidationError("unknown command '%s', run 'trackit help'", args[0])
	}
}

func (a *App) printUsage() {
	fmt.Fprint(a.out, `trackit - personal finance tracker

Usage:
  trackit account add|list|rename|delete ...
  trackit category add|list|tree ...
  trackit init-categories [--force]
  trackit format add|list|show|add-mapping|delete ...
  trackit add --account A --date D --amount N --description S [--category PATH]
  trackit categorize <id> (--category PATH | --clear)
  trackit list [date flags] [--account A] [--category PATH | --uncategorized]
  trackit view <id>
  trackit import --file F --format NAME
  trackit summary [date flags] [--category PATH] [--include-transfers]
                  [--group-by-month | --group-by-year] [--expand]
`)
}

// categoryPathResolver builds an id-to-path lookup from one tree scan.
func (a *App) categoryPathResolver(ctx context.Context) (func(int64) string, error) {
	tree, err := a.categories.Tree(ctx)
	if err != nil {
		return nil, err
	}
	index := core.NewTreeIndex(tree)
	return index.Path, nil
}

// accountNameResolver builds an id-to-name lookup from one account scan.
func (a *App) accountNameResolver(ctx context.Context) (func(int64) string, error) {
	accounts, err := a.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(accounts))
	for _, acc := range accounts {
		names[acc.ID] = acc.Name
	}
	return func(id int64) string {
		if name, ok := names[id]; ok {
			return name
		}
		return fmt.Sprintf("Account %d", id)
	}, nil
}

package cli

import (
	"context"
	"flag"
	"fmt"

	"trackit/internal/core"
)

func (a *App) runAccount(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return core.NewValidationError("usage: trackit account add|list|rename|delete")
	}
	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("account add", flag.ContinueOnError)
		bank := fs.String("bank", "", "bank name")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return core.NewValidationError("usage: trackit account add <name> [--bank NAME]")
		}
		account, err := a.accounts.Create(ctx, fs.Arg(0), *bank)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Created account '%s' (id %d)\n", account.Name, account.ID)
		return nil

	case "list":
		accounts, err := a.accounts.List(ctx)
		if err != nil {
			return err
		}
		RenderAccounts(a.out, accounts)
		return nil

	case "rename":
		if len(args) != 3 {
			return core.NewValidationError("usage: trackit account rename <name-or-id> <new-name>")
		}
		account, err := a.accounts.Resolve(ctx, args[1])
		if err != nil {
			return err
		}
		if err := a.accounts.Rename(ctx, account.ID, args[2]); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Renamed account to '%s'\n", args[2])
		return nil

	case "delete":
		if len(args) != 2 {
			return core.NewValidationError("usage: trackit account delete <name-or-id>")
		}
		account, err := a.accounts.Resolve(ctx, args[1])
		if err != nil {
			return err
		}
		if err := a.accounts.Delete(ctx, account.ID); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Deleted account '%s'\n", account.Name)
		return nil

	default:
		return core.NewValidationError("unknown account subcommand '%s'", args[0])
	}
}

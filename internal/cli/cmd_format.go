package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"trackit/internal/core"
	"trackit/internal/services"
)

// mappingFlags collects repeated --map "CSV Column=field" values.
type mappingFlags []core.CSVColumnMapping

func (m *mappingFlags) String() string { return fmt.Sprintf("%d mappings", len(*m)) }

func (m *mappingFlags) Set(value string) error {
	column, field, ok := strings.Cut(value, "=")
	if !ok {
		return core.NewValidationError("mapping '%s' must look like 'CSV Column=field'", value)
	}
	*m = append(*m, core.CSVColumnMapping{
		CSVColumnName: strings.TrimSpace(column),
		DBFieldName:   strings.TrimSpace(field),
	})
	return nil
}

func (a *App) runFormat(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return core.NewValidationError("usage: trackit format add|list|show|add-mapping|delete")
	}
	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("format add", flag.ContinueOnError)
		name := fs.String("name", "", "format name")
		account := fs.String("account", "", "owning account (name or id)")
		debitCredit := fs.Bool("debit-credit", false, "separate debit and credit columns")
		negateDebit := fs.Bool("negate-debit", false, "negate debit amounts")
		negateCredit := fs.Bool("negate-credit", false, "negate credit amounts")
		var mappings mappingFlags
		fs.Var(&mappings, "map", "column mapping 'CSV Column=field' (repeatable)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *name == "" || *account == "" {
			return core.NewValidationError("usage: trackit format add --name N --account A [--debit-credit] --map ...")
		}
		format, err := a.formats.Create(ctx, *account, services.NewCSVFormat{
			Name:                *name,
			IsDebitCreditFormat: *debitCredit,
			NegateDebit:         *negateDebit,
			NegateCredit:        *negateCredit,
			Mappings:            mappings,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Created format '%s' (id %d)\n", format.Name, format.ID)
		return nil

	case "list":
		formats, err := a.formats.List(ctx)
		if err != nil {
			return err
		}
		accountFor, err := a.accountNameResolver(ctx)
		if err != nil {
			return err
		}
		RenderFormats(a.out, formats, accountFor)
		return nil

	case "show":
		if len(args) != 2 {
			return core.NewValidationError("usage: trackit format show <name>")
		}
		format, err := a.formats.GetByName(ctx, args[1])
		if err != nil {
			return err
		}
		mappings, err := a.formats.Mappings(ctx, format.ID)
		if err != nil {
			return err
		}
		RenderFormatDetail(a.out, format, mappings)
		return nil

	case "add-mapping":
		fs := flag.NewFlagSet("format add-mapping", flag.ContinueOnError)
		formatName := fs.String("format", "", "format name")
		column := fs.String("column", "", "CSV column name")
		field := fs.String("field", "", "transaction field")
		required := fs.Bool("required", false, "fail rows where the column is blank")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *formatName == "" || *column == "" || *field == "" {
			return core.NewValidationError(
				"usage: trackit format add-mapping --format N --column C --field F [--required]")
		}
		format, err := a.formats.GetByName(ctx, *formatName)
		if err != nil {
			return err
		}
		if _, err := a.formats.AddMapping(ctx, format.ID, *column, *field, *required); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Mapped column '%s' to field '%s'\n", *column, *field)
		return nil

	case "delete":
		if len(args) != 2 {
			return core.NewValidationError("usage: trackit format delete <name>")
		}
		format, err := a.formats.GetByName(ctx, args[1])
		if err != nil {
			return err
		}
		if err := a.formats.Delete(ctx, format.ID); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Deleted format '%s'\n", format.Name)
		return nil

	default:
		return core.NewValidationError("unknown format subcommand '%s'", args[0])
	}
}

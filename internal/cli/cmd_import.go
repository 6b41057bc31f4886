package cli

import (
	"context"
	"flag"

	"trackit/internal/core"
)

func (a *App) runImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	file := fs.String("file", "", "CSV file to import")
	format := fs.String("format", "", "CSV format name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" || *format == "" {
		return core.NewValidationError("usage: trackit import --file F --format NAME")
	}

	result, err := a.importer.Import(ctx, *file, *format)
	if err != nil {
		return err
	}
	RenderImportResult(a.out, result)
	return nil
}

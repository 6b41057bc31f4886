package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"trackit/internal/cli"
	"trackit/internal/core"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger("warn")
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel)

	repo := cli.InitSQLite(logger, cfg.DBPath)
	defer repo.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := cli.NewApp(repo, cfg, os.Stdout)
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		if core.IsValidation(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

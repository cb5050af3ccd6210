package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alexanderramin/peerassign/internal/cli"
	"github.com/alexanderramin/peerassign/internal/cli/formatter"
	"github.com/alexanderramin/peerassign/internal/config"
	"github.com/alexanderramin/peerassign/internal/db"
	"github.com/alexanderramin/peerassign/internal/repository"
	"github.com/alexanderramin/peerassign/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Plain output when piped, e.g. into a CSV file.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		formatter.DisableColor()
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	rosterRepo := repository.NewSQLiteRosterRepo(database)
	runRepo := repository.NewSQLiteRunRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.Log {
		observer = service.NewLogUseCaseObserver(os.Stderr)
	}

	app := &cli.App{
		Allocation: service.NewAllocationService(uow, observer),
		Runs:       service.NewRunService(rosterRepo, runRepo, uow, observer),
		Defaults:   cfg,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alexanderramin/plancore/internal/cli"
	"github.com/alexanderramin/plancore/internal/cli/formatter"
	"github.com/alexanderramin/plancore/internal/config"
	"github.com/alexanderramin/plancore/internal/db"
	"github.com/alexanderramin/plancore/internal/repository"
	"github.com/alexanderramin/plancore/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("PLANCORE_CONFIG"))
	if err != nil {
		return err
	}

	logger := cfg.NewLogger(os.Stderr)
	observer := service.NewSlogUseCaseObserver(logger)

	interactive := isTerminal(os.Stdin) && isTerminal(os.Stdout)
	if !isTerminal(os.Stdout) {
		formatter.DisableColor()
	}

	database, err := db.OpenDBWithTimeout(cfg.DBPath, cfg.BusyTimeoutMs)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	projectRepo := repository.NewSQLiteProjectRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)
	baselineRepo := repository.NewSQLiteBaselineRepo(database)
	snapshotRepo := repository.NewSQLiteEarnedValueRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	app := &cli.App{
		Projects:    service.NewProjectService(projectRepo, taskRepo),
		Schedule:    service.NewScheduleService(projectRepo, taskRepo, depRepo, observer),
		Baselines:   service.NewBaselineService(projectRepo, taskRepo, depRepo, baselineRepo, uow, observer),
		EarnedValue: service.NewEarnedValueService(projectRepo, taskRepo, baselineRepo, snapshotRepo, uow, observer),
		Leveling:    service.NewLevelingService(projectRepo, taskRepo, depRepo, observer),
		Reschedule:  service.NewRescheduleService(taskRepo, depRepo, uow, observer),
		Import:      service.NewImportService(uow, observer),
		OrgID:       cfg.Organization,
		ActorID:     cfg.Actor,
	}
	if interactive {
		app.Confirm = cli.TerminalConfirm
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Debug("starting", "db", cfg.DBPath, "organization", cfg.Organization)
	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

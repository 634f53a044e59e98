package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alexanderramin/clubdeck/internal/auth"
	"github.com/alexanderramin/clubdeck/internal/cli"
	"github.com/alexanderramin/clubdeck/internal/config"
	"github.com/alexanderramin/clubdeck/internal/db"
	"github.com/alexanderramin/clubdeck/internal/logging"
	"github.com/alexanderramin/clubdeck/internal/repository"
	"github.com/alexanderramin/clubdeck/internal/service"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", cli.ErrorMessage(err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	clock := time.Now
	persister := service.NewPersister(store, log)
	board, err := service.OpenBoard(ctx, store, persister, clock, log)
	if err != nil {
		return err
	}

	hasher := auth.NewHasher(cfg.Auth.HashPasswords, cfg.Auth.BcryptCost)
	tokens := auth.NewTokenIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL, clock)
	observer := service.NewLogUseCaseObserver(log)

	identity := service.NewIdentityService(board, hasher, observer)
	app := &cli.App{
		Identity:      identity,
		Sessions:      service.NewSessionService(board, identity, tokens, observer),
		Teams:         service.NewTeamService(board, hasher, cfg.Auth.DefaultPassword, observer),
		Tasks:         service.NewTaskService(board, cfg.Board.StrictAssignees, observer),
		Announcements: service.NewAnnouncementService(board, observer),
		Events:        service.NewEventService(board, observer),
		Dashboard:     service.NewDashboardService(board),
		Transfer:      service.NewTransferService(board, observer),

		Tokens:      cli.FileTokenStore{Path: cfg.Auth.SessionFile},
		HistoryFile: filepath.Join(cfg.Home, "shell_history"),
		Now:         clock,
		PromptLogin: cli.PromptLogin,
	}

	// Only prompt for credentials when a person is at the keyboard.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

// openStore picks the snapshot backend named by store.driver. The returned
// func releases whatever the backend holds open.
func openStore(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (repository.SnapshotRepo, func(), error) {
	noop := func() {}
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		database, err := db.OpenDB(cfg.Store.Path)
		if err != nil {
			return nil, noop, fmt.Errorf("opening database: %w", err)
		}
		uow := db.NewSQLiteUnitOfWork(database)
		return repository.NewSQLiteSnapshotRepo(database, uow, cfg.Store.KeepVersions), closer(database, log), nil
	case config.DriverFile:
		return repository.NewFileSnapshotRepo(cfg.Store.FilePath), noop, nil
	case config.DriverPostgres:
		pool, err := db.OpenPostgres(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns, cfg.Postgres.QueryTimeout)
		if err != nil {
			return nil, noop, fmt.Errorf("opening postgres: %w", err)
		}
		return repository.NewPostgresSnapshotRepo(pool, cfg.Postgres.QueryTimeout), pool.Close, nil
	case config.DriverMemory:
		log.Infow("using in-memory store; changes are lost on exit")
		return repository.NewMemorySnapshotRepo(cfg.Store.KeepVersions), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func closer(c io.Closer, log *zap.SugaredLogger) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Warnw("closing store", "error", err)
		}
	}
}

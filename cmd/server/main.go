package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/amirasaad/banking/infra"
	infrarepo "github.com/amirasaad/banking/infra/repository"
	"github.com/amirasaad/banking/pkg/config"
	accountsvc "github.com/amirasaad/banking/pkg/service/account"
	authsvc "github.com/amirasaad/banking/pkg/service/auth"
	ledgersvc "github.com/amirasaad/banking/pkg/service/ledger"
	usersvc "github.com/amirasaad/banking/pkg/service/user"
	"github.com/amirasaad/banking/webapi"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	logger := setupLogger()

	cfg, err := config.Load(logger)
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := infra.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	deps := config.Deps{
		Uow:    infrarepo.NewUoW(db),
		Logger: logger,
		Config: cfg,
	}
	app := webapi.New(cfg, webapi.Services{
		Auth:    authsvc.NewService(deps),
		User:    usersvc.NewService(deps),
		Account: accountsvc.NewService(deps),
		Ledger:  ledgersvc.NewService(deps),
	})

	logger.Info("starting server", "env", cfg.Env, "addr", cfg.Server.Addr)
	return app.Listen(cfg.Server.Addr)
}

// setupLogger builds the process logger: JSON in production, text with
// debug level everywhere else.
func setupLogger() *slog.Logger {
	var handler slog.Handler
	if os.Getenv("APP_ENV") == "production" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

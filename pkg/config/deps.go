package config

import (
	"log/slog"

	"github.com/amirasaad/banking/pkg/repository"
)

// Deps holds the infrastructure dependencies for building the services.
type Deps struct {
	Uow    repository.UnitOfWork
	Logger *slog.Logger
	Config *App
}

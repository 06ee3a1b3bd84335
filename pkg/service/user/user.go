// Package user provides user registration and lookup on top of the user
// store. Authentication lives in pkg/service/auth.
package user

import (
	"context"
	"log/slog"

	"github.com/amirasaad/banking/pkg/authz"
	"github.com/amirasaad/banking/pkg/config"
	userdomain "github.com/amirasaad/banking/pkg/domain/user"
	"github.com/amirasaad/banking/pkg/repository"
	"github.com/google/uuid"
)

// Service provides user management operations.
type Service struct {
	uow    repository.UnitOfWork
	cfg    config.Ledger
	logger *slog.Logger
}

// NewService creates a user Service from the shared dependencies.
func NewService(deps config.Deps) *Service {
	return &Service{
		uow:    deps.Uow,
		cfg:    deps.Config.Ledger,
		logger: deps.Logger,
	}
}

func (s *Service) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.StoreTimeout)
}

// Register creates a customer user. Admin users are provisioned out of
// band, never through the public registration path.
func (s *Service) Register(
	ctx context.Context,
	username, email, password string,
) (*userdomain.User, error) {
	u, err := userdomain.New(username, email, password, userdomain.RoleCustomer)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.uow.Users().Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user", u.ID, "username", u.Username)
	return u, nil
}

// Get returns a user visible to the actor: admins any user, customers only
// themselves.
func (s *Service) Get(ctx context.Context, actor userdomain.Actor, id uuid.UUID) (*userdomain.User, error) {
	if !authz.IsOwnerOrAdmin(id, actor) {
		return nil, userdomain.ErrUserUnauthorized
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.uow.Users().Get(ctx, id)
}

// List returns all users. Admin only.
func (s *Service) List(ctx context.Context, actor userdomain.Actor) ([]*userdomain.User, error) {
	if !actor.IsPrivileged() {
		return nil, userdomain.ErrUserUnauthorized
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.uow.Users().List(ctx)
}

// Package account provides the account-opening approval workflow and
// account management: filing and resolving opening requests, admin-direct
// creation, activation toggles, and guarded account queries.
package account

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amirasaad/banking/pkg/authz"
	"github.com/amirasaad/banking/pkg/config"
	accountdomain "github.com/amirasaad/banking/pkg/domain/account"
	"github.com/amirasaad/banking/pkg/domain/user"
	"github.com/amirasaad/banking/pkg/repository"
	"github.com/google/uuid"
)

// numberAttempts bounds regeneration when a generated account number
// collides with an existing one.
const numberAttempts = 5

// Resolution reports the outcome of resolving an account-opening request.
// Resolving an already-resolved request is reported, not treated as an
// error.
type Resolution struct {
	Request          *accountdomain.OpeningRequest
	Account          *accountdomain.Account
	AlreadyProcessed bool
}

// Service implements the approval workflow.
type Service struct {
	uow    repository.UnitOfWork
	cfg    config.Ledger
	logger *slog.Logger
}

// NewService creates an account Service from the shared dependencies.
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

// RequestAccountOpening files a pending request to open an account for
// ownerID. It has no account or balance side effect.
func (s *Service) RequestAccountOpening(
	ctx context.Context,
	ownerID uuid.UUID,
	accountType string,
) (*accountdomain.OpeningRequest, error) {
	t, err := accountdomain.ParseType(accountType)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if _, err := s.uow.Users().Get(ctx, ownerID); err != nil {
		return nil, err
	}
	req := accountdomain.NewOpeningRequest(ownerID, t)
	if err := s.uow.OpeningRequests().Create(ctx, req); err != nil {
		return nil, err
	}
	s.logger.Info("account opening requested", "request", req.ID, "owner", ownerID)
	return req, nil
}

// CreateAccount is the admin-direct path that bypasses the request queue.
// The target user must exist and must not be an admin: accounts are never
// provisioned for privileged users.
func (s *Service) CreateAccount(
	ctx context.Context,
	actor user.Actor,
	ownerID uuid.UUID,
	accountType string,
) (*accountdomain.Account, error) {
	log := s.logger.With("op", "CreateAccount", "actor", actor.ID, "owner", ownerID)
	if !actor.IsPrivileged() {
		return nil, user.ErrUserUnauthorized
	}
	t, err := accountdomain.ParseType(accountType)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	owner, err := s.uow.Users().Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner.Role == user.RoleAdmin {
		log.Warn("refused account creation for admin user")
		return nil, user.ErrAdminSelfProvisioning
	}

	a, err := s.createWithFreshNumber(ctx, s.uow, ownerID, t)
	if err != nil {
		return nil, err
	}
	log.Info("account created", "account", a.ID, "number", a.Number)
	return a, nil
}

// ResolveRequest resolves a pending account-opening request. Approval
// creates exactly one zero-balance active account; rejection is terminal
// with no account. A request that is no longer pending reports
// AlreadyProcessed.
func (s *Service) ResolveRequest(
	ctx context.Context,
	actor user.Actor,
	requestID uuid.UUID,
	approve bool,
) (*Resolution, error) {
	log := s.logger.With("op", "ResolveRequest", "actor", actor.ID, "request", requestID)
	if !actor.IsPrivileged() {
		return nil, user.ErrUserUnauthorized
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	req, err := s.uow.OpeningRequests().Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.IsPending() {
		log.Warn("request already processed", "status", req.Status)
		return &Resolution{Request: req, AlreadyProcessed: true}, nil
	}

	if !approve {
		if err := s.resolveStatus(ctx, req, accountdomain.RequestRejected); err != nil {
			return s.reportRace(ctx, requestID, err)
		}
		log.Info("request rejected")
		return &Resolution{Request: req}, nil
	}

	var created *accountdomain.Account
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		created, err = s.createWithFreshNumber(ctx, uow, req.OwnerID, req.AccountType)
		if err != nil {
			return err
		}
		return uow.OpeningRequests().UpdateStatus(ctx, req.ID, accountdomain.RequestApproved)
	})
	if err != nil {
		return s.reportRace(ctx, requestID, err)
	}
	req.Status = accountdomain.RequestApproved
	log.Info("request approved", "account", created.ID, "number", created.Number)
	return &Resolution{Request: req, Account: created}, nil
}

// reportRace converts a lost resolve race into an AlreadyProcessed report.
func (s *Service) reportRace(ctx context.Context, requestID uuid.UUID, err error) (*Resolution, error) {
	if !errors.Is(err, accountdomain.ErrVersionConflict) {
		return nil, err
	}
	req, getErr := s.uow.OpeningRequests().Get(ctx, requestID)
	if getErr != nil {
		return nil, getErr
	}
	return &Resolution{Request: req, AlreadyProcessed: true}, nil
}

func (s *Service) resolveStatus(
	ctx context.Context,
	req *accountdomain.OpeningRequest,
	to accountdomain.RequestStatus,
) error {
	if err := s.uow.OpeningRequests().UpdateStatus(ctx, req.ID, to); err != nil {
		return err
	}
	req.Status = to
	return nil
}

// PendingRequests lists unresolved opening requests. Admin only.
func (s *Service) PendingRequests(ctx context.Context, actor user.Actor) ([]*accountdomain.OpeningRequest, error) {
	if !actor.IsPrivileged() {
		return nil, user.ErrUserUnauthorized
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.uow.OpeningRequests().ListByStatus(ctx, accountdomain.RequestPending)
}

// GetAccount returns an account the actor is allowed to see: admins any
// account, owners their own while active.
func (s *Service) GetAccount(
	ctx context.Context,
	actor user.Actor,
	number string,
) (*accountdomain.Account, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	a, err := s.uow.Accounts().GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if !authz.IsOwnerOrAdmin(a.OwnerID, actor) {
		return nil, user.ErrUserUnauthorized
	}
	if !authz.CanAccessAccount(a, actor) {
		return nil, accountdomain.ErrAccountInactive
	}
	return a, nil
}

// ListAccounts returns the accounts owned by ownerID. Customers may only
// list their own accounts.
func (s *Service) ListAccounts(
	ctx context.Context,
	actor user.Actor,
	ownerID uuid.UUID,
) ([]*accountdomain.Account, error) {
	if !authz.IsOwnerOrAdmin(ownerID, actor) {
		return nil, user.ErrUserUnauthorized
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if _, err := s.uow.Users().Get(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.uow.Accounts().ListByOwner(ctx, ownerID)
}

// SetAccountActive flips an account's activation flag. Admin only. It
// reports whether the flag actually changed; deactivating an already
// inactive account is a no-op, not an error.
func (s *Service) SetAccountActive(
	ctx context.Context,
	actor user.Actor,
	number string,
	active bool,
) (changed bool, err error) {
	log := s.logger.With("op", "SetAccountActive", "actor", actor.ID, "account", number)
	if !actor.IsPrivileged() {
		return false, user.ErrUserUnauthorized
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		a, err := s.uow.Accounts().GetByNumber(ctx, number)
		if err != nil {
			return false, err
		}
		if a.Active == active {
			return false, nil
		}
		err = s.uow.Accounts().SetActive(ctx, a.ID, active, a.Version)
		if err == nil {
			log.Info("account activation changed", "active", active)
			return true, nil
		}
		if !errors.Is(err, accountdomain.ErrVersionConflict) {
			return false, err
		}
	}
	return false, accountdomain.ErrStoreUnavailable
}

// createWithFreshNumber inserts a new zero-balance account, regenerating
// the number when the store reports a collision.
func (s *Service) createWithFreshNumber(
	ctx context.Context,
	uow repository.UnitOfWork,
	ownerID uuid.UUID,
	t accountdomain.Type,
) (*accountdomain.Account, error) {
	var lastErr error
	for attempt := 0; attempt < numberAttempts; attempt++ {
		a, err := accountdomain.New().
			WithOwnerID(ownerID).
			WithType(t).
			Build()
		if err != nil {
			return nil, err
		}
		lastErr = uow.Accounts().Create(ctx, a)
		if lastErr == nil {
			return a, nil
		}
		if !errors.Is(lastErr, accountdomain.ErrAccountNumberTaken) {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

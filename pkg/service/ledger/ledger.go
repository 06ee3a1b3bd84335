// Package ledger is the core money-movement service. It validates and
// executes deposits, withdrawals, transfers and transaction settlement, and
// owns every balance mutation in the system.
//
// Concurrency model: each balance write is a compare-and-swap on the
// account's version stamp, wrapped in a bounded retry that re-runs the full
// read-validate-write cycle. Mutations are additionally serialized through
// per-account-number locks; transfers take both locks in ascending number
// order.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/banking/pkg/authz"
	"github.com/amirasaad/banking/pkg/config"
	"github.com/amirasaad/banking/pkg/domain/account"
	"github.com/amirasaad/banking/pkg/domain/user"
	"github.com/amirasaad/banking/pkg/money"
	"github.com/amirasaad/banking/pkg/repository"
	"github.com/google/uuid"
)

// Service executes the ledger operations.
type Service struct {
	uow    repository.UnitOfWork
	cfg    config.Ledger
	locks  *accountLocks
	logger *slog.Logger
}

// NewService creates a ledger Service from the shared dependencies.
func NewService(deps config.Deps) *Service {
	return &Service{
		uow:    deps.Uow,
		cfg:    deps.Config.Ledger,
		locks:  newAccountLocks(),
		logger: deps.Logger,
	}
}

// opCtx bounds a store round trip per the configured timeout.
func (s *Service) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.StoreTimeout)
}

// retryCAS re-runs op while it loses the optimistic version race, up to the
// configured bound. op must re-read and re-validate on every attempt.
func (s *Service) retryCAS(op func() error) error {
	var err error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		err = op()
		if !errors.Is(err, account.ErrVersionConflict) {
			return err
		}
	}
	return fmt.Errorf("%w after %d attempts", account.ErrStoreUnavailable, s.cfg.MaxRetries+1)
}

// RequestDeposit records a deposit against the target account.
//
// An admin depositing into an account they do not own settles immediately:
// the balance is credited and the stored transaction is SUCCESS. An admin
// targeting their own account is refused outright. Customers get a PENDING
// transaction with no balance effect until an admin settles it, unless the
// immediate-settlement policy is enabled.
func (s *Service) RequestDeposit(
	ctx context.Context,
	actor user.Actor,
	targetNumber string,
	amount money.Money,
	description string,
) (*account.Transaction, error) {
	log := s.logger.With("op", "RequestDeposit", "actor", actor.ID, "target", targetNumber)
	if !amount.IsPositive() {
		return nil, account.ErrAmountMustBePositive
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	target, err := s.uow.Accounts().GetByNumber(ctx, targetNumber)
	if err != nil {
		return nil, err
	}
	if err := target.ValidateCredit(amount); err != nil {
		return nil, err
	}
	if actor.IsPrivileged() && target.OwnerID == actor.ID {
		log.Warn("admin attempted deposit into own account")
		return nil, user.ErrAdminSelfDealing
	}

	if !actor.IsPrivileged() && !s.cfg.ImmediateSettlement {
		tx := account.NewTransaction(
			account.TransactionDeposit, amount, "", targetNumber,
			account.StatusPending, description,
		)
		if err := s.uow.Transactions().Create(ctx, tx); err != nil {
			return nil, err
		}
		log.Info("deposit filed for approval", "transaction", tx.ID)
		return tx, nil
	}

	tx, err := s.settleCredit(ctx, targetNumber, amount, description)
	if err != nil {
		return nil, err
	}
	log.Info("deposit settled", "transaction", tx.ID)
	return tx, nil
}

// RequestWithdraw records a withdrawal from the source account. The
// sufficient-balance rule is checked at request time and nothing is
// persisted when it fails. Settlement rules mirror RequestDeposit.
func (s *Service) RequestWithdraw(
	ctx context.Context,
	actor user.Actor,
	sourceNumber string,
	amount money.Money,
	description string,
) (*account.Transaction, error) {
	log := s.logger.With("op", "RequestWithdraw", "actor", actor.ID, "source", sourceNumber)
	if !amount.IsPositive() {
		return nil, account.ErrAmountMustBePositive
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	source, err := s.uow.Accounts().GetByNumber(ctx, sourceNumber)
	if err != nil {
		return nil, err
	}
	if err := source.ValidateDebit(amount); err != nil {
		return nil, err
	}
	if actor.IsPrivileged() && source.OwnerID == actor.ID {
		log.Warn("admin attempted withdrawal from own account")
		return nil, user.ErrAdminSelfDealing
	}

	if !actor.IsPrivileged() && !s.cfg.ImmediateSettlement {
		tx := account.NewTransaction(
			account.TransactionWithdraw, amount, sourceNumber, "",
			account.StatusPending, description,
		)
		if err := s.uow.Transactions().Create(ctx, tx); err != nil {
			return nil, err
		}
		log.Info("withdrawal filed for approval", "transaction", tx.ID)
		return tx, nil
	}

	tx, err := s.settleDebit(ctx, sourceNumber, amount, description)
	if err != nil {
		return nil, err
	}
	log.Info("withdrawal settled", "transaction", tx.ID)
	return tx, nil
}

// Transfer moves money between two accounts synchronously. The debit and
// credit commit as one unit and exactly one SUCCESS transaction is stored.
func (s *Service) Transfer(
	ctx context.Context,
	actor user.Actor,
	sourceNumber, targetNumber string,
	amount money.Money,
	description string,
) (*account.Transaction, error) {
	log := s.logger.With(
		"op", "Transfer", "actor", actor.ID,
		"source", sourceNumber, "target", targetNumber,
	)
	if !amount.IsPositive() {
		return nil, account.ErrAmountMustBePositive
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	unlock := s.locks.lockPair(sourceNumber, targetNumber)
	defer unlock()

	var tx *account.Transaction
	err := s.retryCAS(func() error {
		source, err := s.uow.Accounts().GetByNumber(ctx, sourceNumber)
		if err != nil {
			return err
		}
		target, err := s.uow.Accounts().GetByNumber(ctx, targetNumber)
		if err != nil {
			return err
		}
		if !source.Active || !target.Active {
			return account.ErrAccountInactive
		}
		if source.Number == target.Number {
			return account.ErrSameAccountTransfer
		}
		newSourceBalance, err := source.Debit(amount)
		if err != nil {
			return err
		}
		newTargetBalance, err := target.Credit(amount)
		if err != nil {
			return err
		}
		if source.OwnerID != actor.ID {
			return user.ErrUserUnauthorized
		}
		if actor.IsPrivileged() &&
			(source.OwnerID == actor.ID || target.OwnerID == actor.ID) {
			log.Warn("admin attempted transfer involving own account")
			return user.ErrAdminSelfDealing
		}

		tx = account.NewTransaction(
			account.TransactionTransfer, amount, sourceNumber, targetNumber,
			account.StatusSuccess, description,
		)
		return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			if err := uow.Accounts().UpdateBalance(ctx, source.ID, newSourceBalance, source.Version); err != nil {
				return err
			}
			if err := uow.Accounts().UpdateBalance(ctx, target.ID, newTargetBalance, target.Version); err != nil {
				return err
			}
			return uow.Transactions().Create(ctx, tx)
		})
	})
	if err != nil {
		return nil, err
	}
	log.Info("transfer settled", "transaction", tx.ID)
	return tx, nil
}

// SettleTransaction resolves a PENDING transaction. On SUCCESS the
// preconditions are re-validated against the current account state before
// the single balance mutation is applied; status flip and balance change
// commit together. Settling a non-pending transaction is a conflict.
func (s *Service) SettleTransaction(
	ctx context.Context,
	actor user.Actor,
	txID uuid.UUID,
	decision account.TransactionStatus,
) (*account.Transaction, error) {
	log := s.logger.With("op", "SettleTransaction", "actor", actor.ID, "transaction", txID)
	if decision != account.StatusSuccess && decision != account.StatusRejected {
		return nil, account.ErrInvalidDecision
	}
	if !actor.IsPrivileged() {
		return nil, user.ErrUserUnauthorized
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	tx, err := s.uow.Transactions().Get(ctx, txID)
	if err != nil {
		return nil, err
	}
	if !tx.IsPending() {
		return nil, account.ErrTransactionAlreadySettled
	}

	if decision == account.StatusRejected {
		if err := s.uow.Transactions().UpdateStatus(ctx, tx.ID, account.StatusRejected); err != nil {
			return nil, err
		}
		tx.Status = account.StatusRejected
		log.Info("transaction rejected")
		return tx, nil
	}

	var number string
	switch tx.Type {
	case account.TransactionDeposit:
		number = tx.TargetNumber
	case account.TransactionWithdraw:
		number = tx.SourceNumber
	default:
		// Transfers settle synchronously and are never pending.
		return nil, account.ErrTransactionAlreadySettled
	}

	unlock := s.locks.lock(number)
	defer unlock()

	err = s.retryCAS(func() error {
		a, err := s.uow.Accounts().GetByNumber(ctx, number)
		if err != nil {
			return err
		}
		var newBalance money.Money
		if tx.Type == account.TransactionDeposit {
			newBalance, err = a.Credit(tx.Amount)
		} else {
			newBalance, err = a.Debit(tx.Amount)
		}
		if err != nil {
			return err
		}
		return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			if err := uow.Accounts().UpdateBalance(ctx, a.ID, newBalance, a.Version); err != nil {
				return err
			}
			return uow.Transactions().UpdateStatus(ctx, tx.ID, account.StatusSuccess)
		})
	})
	if err != nil {
		return nil, err
	}
	tx.Status = account.StatusSuccess
	log.Info("transaction settled", "type", tx.Type)
	return tx, nil
}

// PendingTransactions lists transactions awaiting settlement. Admin only.
func (s *Service) PendingTransactions(ctx context.Context, actor user.Actor) ([]*account.Transaction, error) {
	if !actor.IsPrivileged() {
		return nil, user.ErrUserUnauthorized
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.uow.Transactions().ListByStatus(ctx, account.StatusPending)
}

// AccountTransactions lists all transactions an account participates in.
// The actor must own the account or be an admin.
func (s *Service) AccountTransactions(
	ctx context.Context,
	actor user.Actor,
	number string,
) ([]*account.Transaction, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	a, err := s.uow.Accounts().GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if !authz.IsOwnerOrAdmin(a.OwnerID, actor) {
		s.logger.Warn("transaction history access denied", "actor", actor.ID, "account", number)
		return nil, user.ErrUserUnauthorized
	}
	return s.uow.Transactions().ListByAccount(ctx, number)
}

// settleCredit applies an immediate deposit under the account lock.
func (s *Service) settleCredit(
	ctx context.Context,
	number string,
	amount money.Money,
	description string,
) (*account.Transaction, error) {
	unlock := s.locks.lock(number)
	defer unlock()

	var tx *account.Transaction
	err := s.retryCAS(func() error {
		a, err := s.uow.Accounts().GetByNumber(ctx, number)
		if err != nil {
			return err
		}
		newBalance, err := a.Credit(amount)
		if err != nil {
			return err
		}
		tx = account.NewTransaction(
			account.TransactionDeposit, amount, "", number,
			account.StatusSuccess, description,
		)
		return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			if err := uow.Accounts().UpdateBalance(ctx, a.ID, newBalance, a.Version); err != nil {
				return err
			}
			return uow.Transactions().Create(ctx, tx)
		})
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// settleDebit applies an immediate withdrawal under the account lock.
func (s *Service) settleDebit(
	ctx context.Context,
	number string,
	amount money.Money,
	description string,
) (*account.Transaction, error) {
	unlock := s.locks.lock(number)
	defer unlock()

	var tx *account.Transaction
	err := s.retryCAS(func() error {
		a, err := s.uow.Accounts().GetByNumber(ctx, number)
		if err != nil {
			return err
		}
		newBalance, err := a.Debit(amount)
		if err != nil {
			return err
		}
		tx = account.NewTransaction(
			account.TransactionWithdraw, amount, number, "",
			account.StatusSuccess, description,
		)
		return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			if err := uow.Accounts().UpdateBalance(ctx, a.ID, newBalance, a.Version); err != nil {
				return err
			}
			return uow.Transactions().Create(ctx, tx)
		})
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

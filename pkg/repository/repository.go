// Package repository defines the store contracts the ledger core consumes.
// Implementations live under infra/repository; the core never sees a
// concrete store type.
package repository

import (
	"context"

	"github.com/amirasaad/banking/pkg/domain/account"
	"github.com/amirasaad/banking/pkg/domain/user"
	"github.com/amirasaad/banking/pkg/money"
	"github.com/google/uuid"
)

// AccountRepository is durable keyed storage for accounts. Balance and
// activation writes are conditional on the account's version stamp and
// return account.ErrVersionConflict when the stamp moved.
type AccountRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
	GetByNumber(ctx context.Context, number string) (*account.Account, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*account.Account, error)
	// Create inserts a new account. A colliding account number yields
	// account.ErrAccountNumberTaken.
	Create(ctx context.Context, a *account.Account) error
	// UpdateBalance writes a new balance if the stored version still
	// equals expectedVersion, bumping the version on success.
	UpdateBalance(ctx context.Context, id uuid.UUID, balance money.Money, expectedVersion int64) error
	// SetActive flips the activation flag under the same version rule.
	SetActive(ctx context.Context, id uuid.UUID, active bool, expectedVersion int64) error
}

// TransactionRepository is append-oriented storage for transactions. The
// only permitted mutation is the single PENDING to terminal status flip.
type TransactionRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*account.Transaction, error)
	Create(ctx context.Context, tx *account.Transaction) error
	ListByStatus(ctx context.Context, status account.TransactionStatus) ([]*account.Transaction, error)
	// ListByAccount returns transactions where the account participates on
	// either leg.
	ListByAccount(ctx context.Context, number string) ([]*account.Transaction, error)
	// UpdateStatus flips the status only while the stored status is still
	// PENDING; otherwise it returns account.ErrTransactionAlreadySettled.
	UpdateStatus(ctx context.Context, id uuid.UUID, to account.TransactionStatus) error
}

// OpeningRequestRepository stores account-opening requests.
type OpeningRequestRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*account.OpeningRequest, error)
	Create(ctx context.Context, r *account.OpeningRequest) error
	ListByStatus(ctx context.Context, status account.RequestStatus) ([]*account.OpeningRequest, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*account.OpeningRequest, error)
	// UpdateStatus resolves a request only while it is still PENDING;
	// otherwise it returns account.ErrVersionConflict so the workflow can
	// report "already processed".
	UpdateStatus(ctx context.Context, id uuid.UUID, to account.RequestStatus) error
}

// UserRepository stores user identities for the auth supplement.
type UserRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
	List(ctx context.Context) ([]*user.User, error)
}

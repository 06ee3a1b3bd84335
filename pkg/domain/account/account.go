// Package account defines the ledger's aggregate types: accounts,
// transactions and account-opening requests, together with the pure
// validation rules that protect their invariants.
package account

import (
	"strings"
	"time"

	"github.com/amirasaad/banking/pkg/domain/common"
	"github.com/amirasaad/banking/pkg/money"
	"github.com/google/uuid"
)

// Type enumerates the supported account types.
type Type string

const (
	// TypeSavings is a savings account.
	TypeSavings Type = "SAVINGS"
	// TypeCurrent is a current account.
	TypeCurrent Type = "CURRENT"
)

// ParseType converts a string into an account Type, case-insensitively.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToUpper(strings.TrimSpace(s))) {
	case TypeSavings:
		return TypeSavings, nil
	case TypeCurrent:
		return TypeCurrent, nil
	default:
		return "", ErrInvalidAccountType
	}
}

// Account represents a customer's account in the ledger.
//
// Invariants:
//   - The balance is never negative after any settled operation.
//   - The account number is globally unique and immutable once issued.
//   - Accounts are never deleted; closed accounts are deactivated.
//
// Version is the optimistic concurrency stamp; every balance or activation
// write goes through a compare-and-swap on it.
type Account struct {
	ID       uuid.UUID   `json:"id"`
	OwnerID  uuid.UUID   `json:"ownerId"`
	Number   string      `json:"accountNumber"`
	Balance  money.Money `json:"-"`
	Type     Type        `json:"accountType"`
	Active   bool        `json:"active"`
	OpenedAt time.Time   `json:"openedAt"`
	Version  int64       `json:"-"`
}

// Builder provides a fluent API for constructing Account instances so only
// valid accounts escape this package.
type Builder struct {
	id       uuid.UUID
	ownerID  uuid.UUID
	number   string
	acctType Type
	currency money.Code
	openedAt time.Time
}

// New creates a Builder with a fresh ID, the default currency and a freshly
// generated account number.
func New() *Builder {
	return &Builder{
		id:       uuid.New(),
		number:   NewNumber(),
		currency: money.DefaultCurrency,
		openedAt: time.Now().UTC(),
	}
}

// WithID sets the ID for the account being built.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithOwnerID sets the owning user. This is a mandatory field.
func (b *Builder) WithOwnerID(ownerID uuid.UUID) *Builder {
	b.ownerID = ownerID
	return b
}

// WithNumber overrides the generated account number. Used when hydrating
// from a store or retrying after a number collision.
func (b *Builder) WithNumber(number string) *Builder {
	b.number = number
	return b
}

// WithType sets the account type. This is a mandatory field.
func (b *Builder) WithType(t Type) *Builder {
	b.acctType = t
	return b
}

// WithCurrency sets the account currency. Defaults to the system currency.
func (b *Builder) WithCurrency(c money.Code) *Builder {
	b.currency = c
	return b
}

// WithOpenedAt sets the opening timestamp, primarily for hydration.
func (b *Builder) WithOpenedAt(t time.Time) *Builder {
	b.openedAt = t
	return b
}

// Build validates the invariants and returns the new Account. New accounts
// always open active with a zero balance.
func (b *Builder) Build() (*Account, error) {
	if b.ownerID == uuid.Nil {
		return nil, common.NewError(common.KindValidation, "ownerID is required")
	}
	if _, err := ParseType(string(b.acctType)); err != nil {
		return nil, err
	}
	if !b.currency.IsValid() {
		return nil, money.ErrInvalidCurrency
	}
	return &Account{
		ID:       b.id,
		OwnerID:  b.ownerID,
		Number:   b.number,
		Balance:  money.Zero(b.currency),
		Type:     b.acctType,
		Active:   true,
		OpenedAt: b.openedAt,
	}, nil
}

// Currency returns the account's currency code.
func (a *Account) Currency() money.Code {
	return a.Balance.Currency()
}

// ValidateCredit checks the invariants for crediting the account.
func (a *Account) ValidateCredit(amount money.Money) error {
	if !a.Active {
		return ErrAccountInactive
	}
	if !amount.IsPositive() {
		return ErrAmountMustBePositive
	}
	if !a.Balance.IsSameCurrency(amount) {
		return ErrCurrencyMismatch
	}
	return nil
}

// ValidateDebit checks the invariants for debiting the account, including
// the sufficient-balance rule.
func (a *Account) ValidateDebit(amount money.Money) error {
	if err := a.ValidateCredit(amount); err != nil {
		return err
	}
	enough, err := a.Balance.GreaterThanOrEqual(amount)
	if err != nil {
		return err
	}
	if !enough {
		return ErrInsufficientBalance
	}
	return nil
}

// Credit returns the balance after adding amount. The account itself is not
// mutated; the store applies the new balance under its version stamp.
func (a *Account) Credit(amount money.Money) (money.Money, error) {
	if err := a.ValidateCredit(amount); err != nil {
		return money.Money{}, err
	}
	return a.Balance.Add(amount)
}

// Debit returns the balance after subtracting amount, enforcing the
// non-negative balance invariant.
func (a *Account) Debit(amount money.Money) (money.Money, error) {
	if err := a.ValidateDebit(amount); err != nil {
		return money.Money{}, err
	}
	return a.Balance.Subtract(amount)
}

// Package model holds the GORM table models and the mapping between them
// and the domain types. Domain invariants live in pkg/domain; these structs
// are storage shapes only.
package model

import (
	"time"

	accountdomain "github.com/amirasaad/banking/pkg/domain/account"
	userdomain "github.com/amirasaad/banking/pkg/domain/user"
	"github.com/amirasaad/banking/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is the accounts table row. Version is the optimistic concurrency
// stamp checked by every conditional update.
type Account struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID  uuid.UUID       `gorm:"type:uuid;index"`
	Number   string          `gorm:"uniqueIndex;size:16"`
	Balance  decimal.Decimal `gorm:"type:numeric(19,4)"`
	Currency string          `gorm:"size:3"`
	Type     string          `gorm:"size:16"`
	Active   bool
	OpenedAt time.Time
	Version  int64
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string { return "accounts" }

// ToDomain converts the row into a domain account.
func (m *Account) ToDomain() (*accountdomain.Account, error) {
	bal, err := money.NewFromDecimal(m.Balance, money.Code(m.Currency))
	if err != nil {
		return nil, err
	}
	return &accountdomain.Account{
		ID:       m.ID,
		OwnerID:  m.OwnerID,
		Number:   m.Number,
		Balance:  bal,
		Type:     accountdomain.Type(m.Type),
		Active:   m.Active,
		OpenedAt: m.OpenedAt,
		Version:  m.Version,
	}, nil
}

// AccountFromDomain converts a domain account into its row shape.
func AccountFromDomain(a *accountdomain.Account) *Account {
	return &Account{
		ID:       a.ID,
		OwnerID:  a.OwnerID,
		Number:   a.Number,
		Balance:  a.Balance.Amount(),
		Currency: a.Currency().String(),
		Type:     string(a.Type),
		Active:   a.Active,
		OpenedAt: a.OpenedAt,
		Version:  a.Version,
	}
}

// Transaction is the transactions table row.
type Transaction struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Type         string          `gorm:"size:16"`
	Amount       decimal.Decimal `gorm:"type:numeric(19,4)"`
	Currency     string          `gorm:"size:3"`
	SourceNumber string          `gorm:"index;size:16"`
	TargetNumber string          `gorm:"index;size:16"`
	Status       string          `gorm:"index;size:16"`
	Description  string
	Timestamp    time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string { return "transactions" }

// ToDomain converts the row into a domain transaction.
func (m *Transaction) ToDomain() (*accountdomain.Transaction, error) {
	amount, err := money.NewFromDecimal(m.Amount, money.Code(m.Currency))
	if err != nil {
		return nil, err
	}
	return &accountdomain.Transaction{
		ID:           m.ID,
		Type:         accountdomain.TransactionType(m.Type),
		Amount:       amount,
		SourceNumber: m.SourceNumber,
		TargetNumber: m.TargetNumber,
		Status:       accountdomain.TransactionStatus(m.Status),
		Description:  m.Description,
		Timestamp:    m.Timestamp,
	}, nil
}

// TransactionFromDomain converts a domain transaction into its row shape.
func TransactionFromDomain(tx *accountdomain.Transaction) *Transaction {
	return &Transaction{
		ID:           tx.ID,
		Type:         string(tx.Type),
		Amount:       tx.Amount.Amount(),
		Currency:     tx.Amount.Currency().String(),
		SourceNumber: tx.SourceNumber,
		TargetNumber: tx.TargetNumber,
		Status:       string(tx.Status),
		Description:  tx.Description,
		Timestamp:    tx.Timestamp,
	}
}

// OpeningRequest is the account_requests table row.
type OpeningRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID `gorm:"type:uuid;index"`
	AccountType string    `gorm:"size:16"`
	Status      string    `gorm:"index;size:16"`
	RequestedAt time.Time
}

// TableName specifies the table name for the OpeningRequest model.
func (OpeningRequest) TableName() string { return "account_requests" }

// ToDomain converts the row into a domain opening request.
func (m *OpeningRequest) ToDomain() *accountdomain.OpeningRequest {
	return &accountdomain.OpeningRequest{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		AccountType: accountdomain.Type(m.AccountType),
		Status:      accountdomain.RequestStatus(m.Status),
		RequestedAt: m.RequestedAt,
	}
}

// OpeningRequestFromDomain converts a domain request into its row shape.
func OpeningRequestFromDomain(r *accountdomain.OpeningRequest) *OpeningRequest {
	return &OpeningRequest{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		AccountType: string(r.AccountType),
		Status:      string(r.Status),
		RequestedAt: r.RequestedAt,
	}
}

// User is the users table row.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username  string    `gorm:"uniqueIndex;size:64"`
	Email     string    `gorm:"uniqueIndex;size:255"`
	Password  string
	Role      string `gorm:"size:16"`
	Active    bool
	CreatedAt time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string { return "users" }

// ToDomain converts the row into a domain user.
func (m *User) ToDomain() *userdomain.User {
	return &userdomain.User{
		ID:        m.ID,
		Username:  m.Username,
		Email:     m.Email,
		Password:  m.Password,
		Role:      userdomain.Role(m.Role),
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
	}
}

// UserFromDomain converts a domain user into its row shape.
func UserFromDomain(u *userdomain.User) *User {
	return &User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

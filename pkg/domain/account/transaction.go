package account

import (
	"time"

	"github.com/amirasaad/banking/pkg/money"
	"github.com/google/uuid"
)

// TransactionType enumerates the supported money movements.
type TransactionType string

const (
	// TransactionDeposit credits a target account.
	TransactionDeposit TransactionType = "DEPOSIT"
	// TransactionWithdraw debits a source account.
	TransactionWithdraw TransactionType = "WITHDRAW"
	// TransactionTransfer debits a source and credits a target atomically.
	TransactionTransfer TransactionType = "TRANSFER"
)

// TransactionStatus enumerates the transaction lifecycle states. The only
// legal mutation is a single PENDING to terminal transition.
type TransactionStatus string

const (
	// StatusPending is a recorded but not yet settled transaction. It has
	// no balance effect.
	StatusPending TransactionStatus = "PENDING"
	// StatusSuccess is a settled transaction whose balance effect applied.
	StatusSuccess TransactionStatus = "SUCCESS"
	// StatusRejected is a terminal transaction with no balance effect.
	StatusRejected TransactionStatus = "REJECTED"
)

// Transaction records a single money movement. Except for the status flip
// at settlement it is immutable once stored.
type Transaction struct {
	ID           uuid.UUID         `json:"id"`
	Type         TransactionType   `json:"type"`
	Amount       money.Money       `json:"-"`
	SourceNumber string            `json:"sourceAccountNumber,omitempty"`
	TargetNumber string            `json:"targetAccountNumber,omitempty"`
	Status       TransactionStatus `json:"status"`
	Description  string            `json:"description"`
	Timestamp    time.Time         `json:"timestamp"`
}

// NewTransaction builds a transaction record, defaulting a blank
// description from the type and status.
func NewTransaction(
	txType TransactionType,
	amount money.Money,
	sourceNumber, targetNumber string,
	status TransactionStatus,
	description string,
) *Transaction {
	if description == "" {
		description = defaultDescription(txType, status)
	}
	return &Transaction{
		ID:           uuid.New(),
		Type:         txType,
		Amount:       amount,
		SourceNumber: sourceNumber,
		TargetNumber: targetNumber,
		Status:       status,
		Description:  description,
		Timestamp:    time.Now().UTC(),
	}
}

// IsPending reports whether the transaction awaits settlement.
func (t *Transaction) IsPending() bool {
	return t.Status == StatusPending
}

func defaultDescription(txType TransactionType, status TransactionStatus) string {
	if status == StatusPending {
		switch txType {
		case TransactionDeposit:
			return "Requested deposit to account"
		case TransactionWithdraw:
			return "Requested withdrawal from account"
		default:
			return "Requested transfer between accounts"
		}
	}
	switch txType {
	case TransactionDeposit:
		return "Deposit to account"
	case TransactionWithdraw:
		return "Withdrawal from account"
	default:
		return "Transfer between accounts"
	}
}

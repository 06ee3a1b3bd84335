package account

import "github.com/amirasaad/banking/pkg/domain/common"

var (
	// ErrAccountNotFound is returned when an account cannot be found.
	ErrAccountNotFound = common.NewError(common.KindNotFound, "account not found")
	// ErrTransactionNotFound is returned when a transaction cannot be found.
	ErrTransactionNotFound = common.NewError(common.KindNotFound, "transaction not found")
	// ErrRequestNotFound is returned when an account-opening request cannot
	// be found.
	ErrRequestNotFound = common.NewError(common.KindNotFound, "account request not found")

	// ErrAmountMustBePositive is returned when a transaction amount is not
	// strictly positive.
	ErrAmountMustBePositive = common.NewError(common.KindValidation, "amount must be greater than zero")
	// ErrInvalidAccountType is returned when an account type string is not
	// SAVINGS or CURRENT.
	ErrInvalidAccountType = common.NewError(common.KindValidation, "invalid account type")
	// ErrSameAccountTransfer is returned when a transfer names the same
	// account on both legs.
	ErrSameAccountTransfer = common.NewError(common.KindValidation, "cannot transfer to the same account")
	// ErrCurrencyMismatch is returned when an operation mixes currencies.
	ErrCurrencyMismatch = common.NewError(common.KindValidation, "currency mismatch")
	// ErrInvalidDecision is returned when a settlement decision is neither
	// SUCCESS nor REJECTED.
	ErrInvalidDecision = common.NewError(common.KindValidation, "decision must be SUCCESS or REJECTED")

	// ErrInsufficientBalance is returned when a debit would make the
	// balance negative.
	ErrInsufficientBalance = common.NewError(common.KindConflict, "insufficient balance")
	// ErrAccountInactive is returned when an operation touches a
	// deactivated account.
	ErrAccountInactive = common.NewError(common.KindConflict, "account is inactive")
	// ErrTransactionAlreadySettled is returned when a non-pending
	// transaction is settled again.
	ErrTransactionAlreadySettled = common.NewError(common.KindConflict, "only pending transactions can be processed")
	// ErrAccountNumberTaken is returned by stores when an account number
	// collides on insert; number generation retries on it.
	ErrAccountNumberTaken = common.NewError(common.KindConflict, "account number already taken")

	// ErrVersionConflict is returned by stores when a conditional update
	// loses the version race. The caller re-reads and retries.
	ErrVersionConflict = common.NewError(common.KindUnavailable, "concurrent update, please retry")
	// ErrStoreUnavailable wraps transient store failures such as timeouts.
	ErrStoreUnavailable = common.NewError(common.KindUnavailable, "store unavailable")
)

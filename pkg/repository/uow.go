package repository

import "context"

// UnitOfWork gives services transactional access to the stores. All
// repositories obtained inside Do share one store transaction, so a
// multi-record write (transfer debit + credit, settlement status flip +
// balance change) commits or rolls back as a single unit.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. If fn returns an
	// error, or the context expires, nothing fn wrote is visible.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	Accounts() AccountRepository
	Transactions() TransactionRepository
	OpeningRequests() OpeningRequestRepository
	Users() UserRepository
}

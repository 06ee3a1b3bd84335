// Package inmem provides in-memory implementations of the store contracts.
// They back the service and concurrency tests and the local development
// mode; the durable implementations live in the sibling GORM packages.
package inmem

import (
	"context"
	"strings"
	"sync"

	"github.com/amirasaad/banking/pkg/domain/account"
	"github.com/amirasaad/banking/pkg/domain/user"
	"github.com/amirasaad/banking/pkg/money"
	"github.com/amirasaad/banking/pkg/repository"
	"github.com/google/uuid"
)

// Store holds all records behind one mutex. UnitOfWork.Do snapshots the
// maps on entry and restores them if the unit fails, so multi-record writes
// are observed atomically.
type Store struct {
	mu           sync.Mutex
	accounts     map[uuid.UUID]account.Account
	byNumber     map[string]uuid.UUID
	transactions map[uuid.UUID]account.Transaction
	requests     map[uuid.UUID]account.OpeningRequest
	users        map[uuid.UUID]user.User
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[uuid.UUID]account.Account),
		byNumber:     make(map[string]uuid.UUID),
		transactions: make(map[uuid.UUID]account.Transaction),
		requests:     make(map[uuid.UUID]account.OpeningRequest),
		users:        make(map[uuid.UUID]user.User),
	}
}

type snapshot struct {
	accounts     map[uuid.UUID]account.Account
	byNumber     map[string]uuid.UUID
	transactions map[uuid.UUID]account.Transaction
	requests     map[uuid.UUID]account.OpeningRequest
	users        map[uuid.UUID]user.User
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		accounts:     make(map[uuid.UUID]account.Account, len(s.accounts)),
		byNumber:     make(map[string]uuid.UUID, len(s.byNumber)),
		transactions: make(map[uuid.UUID]account.Transaction, len(s.transactions)),
		requests:     make(map[uuid.UUID]account.OpeningRequest, len(s.requests)),
		users:        make(map[uuid.UUID]user.User, len(s.users)),
	}
	for k, v := range s.accounts {
		snap.accounts[k] = v
	}
	for k, v := range s.byNumber {
		snap.byNumber[k] = v
	}
	for k, v := range s.transactions {
		snap.transactions[k] = v
	}
	for k, v := range s.requests {
		snap.requests[k] = v
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.accounts = snap.accounts
	s.byNumber = snap.byNumber
	s.transactions = snap.transactions
	s.requests = snap.requests
	s.users = snap.users
}

// uow implements repository.UnitOfWork over a Store. The inTx flag tells
// the repositories whether Do already holds the store lock.
type uow struct {
	store *Store
	inTx  bool
}

// NewUnitOfWork creates a UnitOfWork over the given store.
func NewUnitOfWork(store *Store) repository.UnitOfWork {
	return &uow{store: store}
}

// Do runs fn while holding the store lock, restoring the pre-transaction
// snapshot when fn or the context fails.
func (u *uow) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.inTx {
		return fn(u)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	snap := u.store.snapshot()
	if err := fn(&uow{store: u.store, inTx: true}); err != nil {
		u.store.restore(snap)
		return err
	}
	if err := ctx.Err(); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

func (u *uow) Accounts() repository.AccountRepository {
	return &accountRepo{store: u.store, inTx: u.inTx}
}

func (u *uow) Transactions() repository.TransactionRepository {
	return &transactionRepo{store: u.store, inTx: u.inTx}
}

func (u *uow) OpeningRequests() repository.OpeningRequestRepository {
	return &requestRepo{store: u.store, inTx: u.inTx}
}

func (u *uow) Users() repository.UserRepository {
	return &userRepo{store: u.store, inTx: u.inTx}
}

// lock acquires the store lock unless the caller is already inside Do.
func lock(s *Store, inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type accountRepo struct {
	store *Store
	inTx  bool
}

func (r *accountRepo) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer lock(r.store, r.inTx)()
	a, ok := r.store.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return &a, nil
}

func (r *accountRepo) GetByNumber(ctx context.Context, number string) (*account.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer lock(r.store, r.inTx)()
	id, ok := r.store.byNumber[number]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	a := r.store.accounts[id]
	return &a, nil
}

func (r *accountRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*account.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer lock(r.store, r.inTx)()
	var out []*account.Account
	for _, a := range r.store.accounts {
		if a.OwnerID == ownerID {
			copy := a
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *accountRepo) Create(ctx context.Context, a *account.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer lock(r.store, r.inTx)()
	if _, taken := r.store.byNumber[a.Number]; taken {
		return account.ErrAccountNumberTaken
	}
	r.store.accounts[a.ID] = *a
	r.store.byNumber[a.Number] = a.ID
	return nil
}

func (r *accountRepo) UpdateBalance(ctx context.Context, id uuid.UUID, balance money.Money, expectedVersion int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer lock(r.store, r.inTx)()
	a, ok := r.store.accounts[id]
	if !ok {
		return account.ErrAccountNotFound
	}
	if a.Version != expectedVersion {
		return account.ErrVersionConflict
	}
	a.Balance = balance
	a.Version++
	r.store.accounts[id] = a
	return nil
}

func (r *accountRepo) SetActive(ctx context.Context, id uuid.UUID, active bool, expectedVersion int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer lock(r.store, r.inTx)()
	a, ok := r.store.accounts[id]
	if !ok {
		return account.ErrAccountNotFound
	}
	if a.Version != expectedVersion {
		return account.ErrVersionConflict
	}
	a.Active = active
	a.Version++
	r.store.accounts[id] = a
	return nil
}

type transactionRepo struct {
	store *Store
	inTx  bool
}

func (r *transactionRepo) Get(ctx context.Context, id uuid.UUID) (*account.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer lock(r.store, r.inTx)()
	tx, ok := r.store.transactions[id]
	if !ok {
		return nil, account.ErrTransactionNotFound
	}
	return &tx, nil
}

func (r *transactionRepo) Create(ctx context.Context, tx *account.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer lock(r.store, r.inTx)()
	r.store.transactions[tx.ID] = *tx
	return nil
}

func (r *transactionRepo) ListByStatus(ctx context.Context, status account.TransactionStatus) ([]*account.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer lock(r.store, r.inTx)()
	var out []*account.Transaction
	for _, tx := range r.store.transactions {
		if tx.Status == status {
			copy := tx
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *transactionRepo) ListByAccount(ctx context.Context, number string) ([]*account.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer lock(r.store, r.inTx)()
	var out []*account.Transaction
	for _, tx := range r.store.transactions {
		if tx.SourceNumber == number || tx.TargetNumber == number {
			copy := tx
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *transactionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, to account.TransactionStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer lock(r.store, r.inTx)()
	tx, ok := r.store.transactions[id]
	if !ok {
		return account.ErrTransactionNotFound
	}
	if tx.Status != account.StatusPending {
		return account.ErrTransactionAlreadySettled
	}
	tx.Status = to
	r.store.transactions[id] = tx
	return nil
}

type requestRepo struct {
	store *Store
	inTx  bool
}

func (r *requestRepo) Get(ctx context.Context, id uuid.UUID) (*account.OpeningRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer lock(r.store, r.inTx)()
	req, ok := r.store.requests[id]
	if !ok {
		return nil, account.ErrRequestNotFound
	}
	return &req, nil
}

func (r *requestRepo) Create(ctx context.Context, req *account.OpeningRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer lock(r.store, r.inTx)()
	r.store.requests[req.ID] = *req
	return nil
}

func (r *requestRepo) ListByStatus(ctx context.Context, status account.RequestStatus) ([]*account.OpeningRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer lock(r.store, r.inTx)()
	var out []*account.OpeningRequest
	for _, req := range r.store.requests {
		if req.Status == status {
			copy := req
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *requestRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*account.OpeningRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer lock(r.store, r.inTx)()
	var out []*account.OpeningRequest
	for _, req := range r.store.requests {
		if req.OwnerID == ownerID {
			copy := req
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *requestRepo) UpdateStatus(ctx context.Context, id uuid.UUID, to account.RequestStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer lock(r.store, r.inTx)()
	req, ok := r.store.requests[id]
	if !ok {
		return account.ErrRequestNotFound
	}
	if req.Status != account.RequestPending {
		return account.ErrVersionConflict
	}
	req.Status = to
	r.store.requests[id] = req
	return nil
}

type userRepo struct {
	store *Store
	inTx  bool
}

func (r *userRepo) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer lock(r.store, r.inTx)()
	u, ok := r.store.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer lock(r.store, r.inTx)()
	for _, u := range r.store.users {
		if strings.EqualFold(u.Username, username) {
			copy := u
			return &copy, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer lock(r.store, r.inTx)()
	for _, u := range r.store.users {
		if strings.EqualFold(u.Email, email) {
			copy := u
			return &copy, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *userRepo) Create(ctx context.Context, u *user.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer lock(r.store, r.inTx)()
	for _, existing := range r.store.users {
		if strings.EqualFold(existing.Username, u.Username) ||
			strings.EqualFold(existing.Email, u.Email) {
			return user.ErrUserExists
		}
	}
	r.store.users[u.ID] = *u
	return nil
}

func (r *userRepo) List(ctx context.Context) ([]*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer lock(r.store, r.inTx)()
	out := make([]*user.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		copy := u
		out = append(out, &copy)
	}
	return out, nil
}

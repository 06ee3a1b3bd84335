package inmem

import (
	"context"
	"errors"
	"testing"

	"github.com/amirasaad/banking/pkg/domain/account"
	"github.com/amirasaad/banking/pkg/money"
	"github.com/amirasaad/banking/pkg/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func seedAccount(t *testing.T, uow repository.UnitOfWork, balance string) *account.Account {
	t.Helper()
	a, err := account.New().WithOwnerID(uuid.New()).WithType(account.TypeSavings).Build()
	require.NoError(t, err)
	a.Balance, err = money.New(balance, money.DefaultCurrency)
	require.NoError(t, err)
	require.NoError(t, uow.Accounts().Create(context.Background(), a))
	return a
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	require := require.New(t)
	uow := NewUnitOfWork(NewStore())
	a := seedAccount(t, uow, "100.00")

	boom := errors.New("boom")
	newBalance, err := money.New("40.00", money.DefaultCurrency)
	require.NoError(err)

	err = uow.Do(context.Background(), func(tx repository.UnitOfWork) error {
		if err := tx.Accounts().UpdateBalance(context.Background(), a.ID, newBalance, 0); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(err, boom)

	// The balance write inside the failed unit is not visible.
	got, err := uow.Accounts().Get(context.Background(), a.ID)
	require.NoError(err)
	require.True(got.Balance.Equals(a.Balance))
	require.Equal(int64(0), got.Version)
}

func TestUnitOfWork_CommitsOnSuccess(t *testing.T) {
	require := require.New(t)
	uow := NewUnitOfWork(NewStore())
	a := seedAccount(t, uow, "100.00")

	newBalance, err := money.New("40.00", money.DefaultCurrency)
	require.NoError(err)
	tx := account.NewTransaction(account.TransactionWithdraw, newBalance, a.Number, "", account.StatusSuccess, "")

	err = uow.Do(context.Background(), func(u repository.UnitOfWork) error {
		if err := u.Accounts().UpdateBalance(context.Background(), a.ID, newBalance, 0); err != nil {
			return err
		}
		return u.Transactions().Create(context.Background(), tx)
	})
	require.NoError(err)

	got, err := uow.Accounts().Get(context.Background(), a.ID)
	require.NoError(err)
	require.True(got.Balance.Equals(newBalance))
	require.Equal(int64(1), got.Version)

	stored, err := uow.Transactions().Get(context.Background(), tx.ID)
	require.NoError(err)
	require.Equal(account.StatusSuccess, stored.Status)
}

func TestAccountRepo_VersionedWrites(t *testing.T) {
	require := require.New(t)
	uow := NewUnitOfWork(NewStore())
	a := seedAccount(t, uow, "100.00")

	newBalance, err := money.New("60.00", money.DefaultCurrency)
	require.NoError(err)

	require.NoError(uow.Accounts().UpdateBalance(context.Background(), a.ID, newBalance, 0))

	// The stale stamp loses the race.
	err = uow.Accounts().UpdateBalance(context.Background(), a.ID, newBalance, 0)
	require.ErrorIs(err, account.ErrVersionConflict)

	err = uow.Accounts().SetActive(context.Background(), a.ID, false, 0)
	require.ErrorIs(err, account.ErrVersionConflict)
	require.NoError(uow.Accounts().SetActive(context.Background(), a.ID, false, 1))
}

func TestTransactionRepo_StatusFlipOnlyWhilePending(t *testing.T) {
	require := require.New(t)
	uow := NewUnitOfWork(NewStore())

	amount, err := money.New("10.00", money.DefaultCurrency)
	require.NoError(err)
	tx := account.NewTransaction(account.TransactionDeposit, amount, "", "ACC1", account.StatusPending, "")
	require.NoError(uow.Transactions().Create(context.Background(), tx))

	require.NoError(uow.Transactions().UpdateStatus(context.Background(), tx.ID, account.StatusRejected))
	err = uow.Transactions().UpdateStatus(context.Background(), tx.ID, account.StatusSuccess)
	require.ErrorIs(err, account.ErrTransactionAlreadySettled)
}

func TestRequestRepo_ResolveRace(t *testing.T) {
	require := require.New(t)
	uow := NewUnitOfWork(NewStore())

	req := account.NewOpeningRequest(uuid.New(), account.TypeSavings)
	require.NoError(uow.OpeningRequests().Create(context.Background(), req))

	require.NoError(uow.OpeningRequests().UpdateStatus(context.Background(), req.ID, account.RequestApproved))
	err := uow.OpeningRequests().UpdateStatus(context.Background(), req.ID, account.RequestRejected)
	require.ErrorIs(err, account.ErrVersionConflict)
}

func TestAccountRepo_NumberCollision(t *testing.T) {
	require := require.New(t)
	uow := NewUnitOfWork(NewStore())
	a := seedAccount(t, uow, "0")

	dup, err := account.New().WithOwnerID(uuid.New()).WithType(account.TypeCurrent).WithNumber(a.Number).Build()
	require.NoError(err)
	err = uow.Accounts().Create(context.Background(), dup)
	require.ErrorIs(err, account.ErrAccountNumberTaken)
}

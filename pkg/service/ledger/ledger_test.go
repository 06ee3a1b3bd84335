package ledger

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/amirasaad/banking/infra/repository/inmem"
	"github.com/amirasaad/banking/pkg/config"
	"github.com/amirasaad/banking/pkg/domain/account"
	"github.com/amirasaad/banking/pkg/domain/user"
	"github.com/amirasaad/banking/pkg/money"
	"github.com/amirasaad/banking/pkg/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, immediate bool) (*Service, repository.UnitOfWork) {
	t.Helper()
	uow := inmem.NewUnitOfWork(inmem.NewStore())
	cfg := &config.App{
		Ledger: config.Ledger{
			ImmediateSettlement: immediate,
			MaxRetries:          3,
			StoreTimeout:        5 * time.Second,
		},
	}
	svc := NewService(config.Deps{
		Uow:    uow,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: cfg,
	})
	return svc, uow
}

func seedAccount(t *testing.T, uow repository.UnitOfWork, ownerID uuid.UUID, balance string) *account.Account {
	t.Helper()
	a, err := account.New().WithOwnerID(ownerID).WithType(account.TypeSavings).Build()
	require.NoError(t, err)
	a.Balance = mustMoney(t, balance)
	require.NoError(t, uow.Accounts().Create(context.Background(), a))
	return a
}

func mustMoney(t *testing.T, amount string) money.Money {
	t.Helper()
	m, err := money.New(amount, money.DefaultCurrency)
	require.NoError(t, err)
	return m
}

func balanceOf(t *testing.T, uow repository.UnitOfWork, number string) money.Money {
	t.Helper()
	a, err := uow.Accounts().GetByNumber(context.Background(), number)
	require.NoError(t, err)
	return a.Balance
}

func customer(id uuid.UUID) user.Actor {
	return user.Actor{ID: id, Role: user.RoleCustomer, Active: true}
}

func admin(id uuid.UUID) user.Actor {
	return user.Actor{ID: id, Role: user.RoleAdmin, Active: true}
}

func TestRequestDeposit_CustomerFilesPending(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	svc, uow := newTestService(t, false)
	ownerID := uuid.New()
	acc := seedAccount(t, uow, ownerID, "100.00")

	tx, err := svc.RequestDeposit(context.Background(), customer(ownerID), acc.Number, mustMoney(t, "25.00"), "")
	require.NoError(err)
	assert.Equal(account.StatusPending, tx.Status)
	assert.Equal(account.TransactionDeposit, tx.Type)
	assert.Equal(acc.Number, tx.TargetNumber)

	// No balance effect until an admin settles it.
	assert.True(balanceOf(t, uow, acc.Number).Equals(mustMoney(t, "100.00")))

	pending, err := svc.PendingTransactions(context.Background(), admin(uuid.New()))
	require.NoError(err)
	require.Len(pending, 1)
	assert.Equal(tx.ID, pending[0].ID)
}

func TestRequestDeposit_AdminSettlesImmediately(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	svc, uow := newTestService(t, false)
	acc := seedAccount(t, uow, uuid.New(), "100.00")

	tx, err := svc.RequestDeposit(context.Background(), admin(uuid.New()), acc.Number, mustMoney(t, "25.00"), "")
	require.NoError(err)
	assert.Equal(account.StatusSuccess, tx.Status)
	assert.True(balanceOf(t, uow, acc.Number).Equals(mustMoney(t, "125.00")))
}

func TestRequestDeposit_AdminOwnAccount(t *testing.T) {
	svc, uow := newTestService(t, false)
	adminID := uuid.New()
	acc := seedAccount(t, uow, adminID, "100.00")

	_, err := svc.RequestDeposit(context.Background(), admin(adminID), acc.Number, mustMoney(t, "25.00"), "")
	require.ErrorIs(t, err, user.ErrAdminSelfDealing)
	assert.True(t, balanceOf(t, uow, acc.Number).Equals(mustMoney(t, "100.00")))
}

func TestRequestDeposit_Validation(t *testing.T) {
	svc, uow := newTestService(t, false)
	ownerID := uuid.New()
	acc := seedAccount(t, uow, ownerID, "100.00")

	_, err := svc.RequestDeposit(context.Background(), customer(ownerID), acc.Number, money.Zero(money.DefaultCurrency), "")
	require.ErrorIs(t, err, account.ErrAmountMustBePositive)

	_, err = svc.RequestDeposit(context.Background(), customer(ownerID), "ACC0000000000", mustMoney(t, "1.00"), "")
	require.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestRequestDeposit_InactiveAccount(t *testing.T) {
	svc, uow := newTestService(t, false)
	ownerID := uuid.New()
	acc := seedAccount(t, uow, ownerID, "100.00")
	require.NoError(t, uow.Accounts().SetActive(context.Background(), acc.ID, false, 0))

	_, err := svc.RequestDeposit(context.Background(), customer(ownerID), acc.Number, mustMoney(t, "1.00"), "")
	require.ErrorIs(t, err, account.ErrAccountInactive)
}

func TestRequestDeposit_ImmediateSettlementPolicy(t *testing.T) {
	require := require.New(t)
	svc, uow := newTestService(t, true)
	ownerID := uuid.New()
	acc := seedAccount(t, uow, ownerID, "10.00")

	tx, err := svc.RequestDeposit(context.Background(), customer(ownerID), acc.Number, mustMoney(t, "5.00"), "")
	require.NoError(err)
	require.Equal(account.StatusSuccess, tx.Status)
	require.True(balanceOf(t, uow, acc.Number).Equals(mustMoney(t, "15.00")))
}

func TestRequestWithdraw_InsufficientBalanceNothingPersisted(t *testing.T) {
	require := require.New(t)
	svc, uow := newTestService(t, false)
	ownerID := uuid.New()
	acc := seedAccount(t, uow, ownerID, "10.00")

	_, err := svc.RequestWithdraw(context.Background(), customer(ownerID), acc.Number, mustMoney(t, "10.01"), "")
	require.ErrorIs(err, account.ErrInsufficientBalance)

	history, err := uow.Transactions().ListByAccount(context.Background(), acc.Number)
	require.NoError(err)
	require.Empty(history)
	require.True(balanceOf(t, uow, acc.Number).Equals(mustMoney(t, "10.00")))
}

func TestRequestWithdraw_CustomerPendingThenApproved(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	svc, uow := newTestService(t, false)
	ownerID := uuid.New()
	acc := seedAccount(t, uow, ownerID, "100.00")

	tx, err := svc.RequestWithdraw(context.Background(), customer(ownerID), acc.Number, mustMoney(t, "40.00"), "rent")
	require.NoError(err)
	require.Equal(account.StatusPending, tx.Status)
	require.True(balanceOf(t, uow, acc.Number).Equals(mustMoney(t, "100.00")))

	settled, err := svc.SettleTransaction(context.Background(), admin(uuid.New()), tx.ID, account.StatusSuccess)
	require.NoError(err)
	assert.Equal(account.StatusSuccess, settled.Status)
	assert.True(balanceOf(t, uow, acc.Number).Equals(mustMoney(t, "60.00")))
}

func TestTransfer_MovesExactAmountOnce(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	svc, uow := newTestService(t, false)
	ownerA := uuid.New()
	ownerB := uuid.New()
	accA := seedAccount(t, uow, ownerA, "100.00")
	accB := seedAccount(t, uow, ownerB, "10.00")

	tx, err := svc.Transfer(context.Background(), customer(ownerA), accA.Number, accB.Number, mustMoney(t, "40.00"), "")
	require.NoError(err)
	assert.Equal(account.StatusSuccess, tx.Status)
	assert.Equal(account.TransactionTransfer, tx.Type)

	assert.True(balanceOf(t, uow, accA.Number).Equals(mustMoney(t, "60.00")))
	assert.True(balanceOf(t, uow, accB.Number).Equals(mustMoney(t, "50.00")))

	history, err := uow.Transactions().ListByAccount(context.Background(), accA.Number)
	require.NoError(err)
	require.Len(history, 1)
}

func TestTransfer_Rejections(t *testing.T) {
	svc, uow := newTestService(t, false)
	ownerA := uuid.New()
	ownerB := uuid.New()
	accA := seedAccount(t, uow, ownerA, "100.00")
	accB := seedAccount(t, uow, ownerB, "10.00")

	t.Run("same account", func(t *testing.T) {
		_, err := svc.Transfer(context.Background(), customer(ownerA), accA.Number, accA.Number, mustMoney(t, "1.00"), "")
		require.ErrorIs(t, err, account.ErrSameAccountTransfer)
	})

	t.Run("not the source owner", func(t *testing.T) {
		_, err := svc.Transfer(context.Background(), customer(ownerB), accA.Number, accB.Number, mustMoney(t, "1.00"), "")
		require.ErrorIs(t, err, user.ErrUserUnauthorized)
	})

	t.Run("admin owns a leg", func(t *testing.T) {
		_, err := svc.Transfer(context.Background(), admin(ownerA), accA.Number, accB.Number, mustMoney(t, "1.00"), "")
		require.ErrorIs(t, err, user.ErrAdminSelfDealing)
	})

	t.Run("insufficient balance leaves no trace", func(t *testing.T) {
		_, err := svc.Transfer(context.Background(), customer(ownerA), accA.Number, accB.Number, mustMoney(t, "1000.00"), "")
		require.ErrorIs(t, err, account.ErrInsufficientBalance)
		require.True(t, balanceOf(t, uow, accA.Number).Equals(mustMoney(t, "100.00")))
		require.True(t, balanceOf(t, uow, accB.Number).Equals(mustMoney(t, "10.00")))
	})
}

func TestSettleTransaction_Reject(t *testing.T) {
	require := require.New(t)
	svc, uow := newTestService(t, false)
	ownerID := uuid.New()
	acc := seedAccount(t, uow, ownerID, "100.00")

	tx, err := svc.RequestDeposit(context.Background(), customer(ownerID), acc.Number, mustMoney(t, "25.00"), "")
	require.NoError(err)

	rejected, err := svc.SettleTransaction(context.Background(), admin(uuid.New()), tx.ID, account.StatusRejected)
	require.NoError(err)
	require.Equal(account.StatusRejected, rejected.Status)
	require.True(balanceOf(t, uow, acc.Number).Equals(mustMoney(t, "100.00")))

	// Second resolution of the same transaction is a conflict.
	_, err = svc.SettleTransaction(context.Background(), admin(uuid.New()), tx.ID, account.StatusSuccess)
	require.ErrorIs(err, account.ErrTransactionAlreadySettled)
}

func TestSettleTransaction_ApproveDepositTwice(t *testing.T) {
	require := require.New(t)
	svc, uow := newTestService(t, false)
	ownerID := uuid.New()
	acc := seedAccount(t, uow, ownerID, "100.00")

	tx, err := svc.RequestDeposit(context.Background(), customer(ownerID), acc.Number, mustMoney(t, "25.00"), "")
	require.NoError(err)

	_, err = svc.SettleTransaction(context.Background(), admin(uuid.New()), tx.ID, account.StatusSuccess)
	require.NoError(err)
	require.True(balanceOf(t, uow, acc.Number).Equals(mustMoney(t, "125.00")))

	_, err = svc.SettleTransaction(context.Background(), admin(uuid.New()), tx.ID, account.StatusSuccess)
	require.ErrorIs(err, account.ErrTransactionAlreadySettled)
	require.True(balanceOf(t, uow, acc.Number).Equals(mustMoney(t, "125.00")))
}

func TestSettleTransaction_RevalidatesAccountState(t *testing.T) {
	require := require.New(t)
	svc, uow := newTestService(t, false)
	ownerID := uuid.New()
	acc := seedAccount(t, uow, ownerID, "100.00")

	deposit, err := svc.RequestDeposit(context.Background(), customer(ownerID), acc.Number, mustMoney(t, "25.00"), "")
	require.NoError(err)
	withdraw, err := svc.RequestWithdraw(context.Background(), customer(ownerID), acc.Number, mustMoney(t, "80.00"), "")
	require.NoError(err)

	// Drain the account behind the pending withdrawal's back.
	_, err = svc.RequestWithdraw(context.Background(), admin(uuid.New()), acc.Number, mustMoney(t, "50.00"), "")
	require.NoError(err)
	_, err = svc.SettleTransaction(context.Background(), admin(uuid.New()), withdraw.ID, account.StatusSuccess)
	require.ErrorIs(err, account.ErrInsufficientBalance)
	require.True(balanceOf(t, uow, acc.Number).Equals(mustMoney(t, "50.00")))

	// Deactivate the account before the pending deposit resolves.
	current, err := uow.Accounts().Get(context.Background(), acc.ID)
	require.NoError(err)
	require.NoError(uow.Accounts().SetActive(context.Background(), acc.ID, false, current.Version))

	_, err = svc.SettleTransaction(context.Background(), admin(uuid.New()), deposit.ID, account.StatusSuccess)
	require.ErrorIs(err, account.ErrAccountInactive)
}

func TestSettleTransaction_Guards(t *testing.T) {
	svc, uow := newTestService(t, false)
	ownerID := uuid.New()
	acc := seedAccount(t, uow, ownerID, "100.00")

	tx, err := svc.RequestDeposit(context.Background(), customer(ownerID), acc.Number, mustMoney(t, "25.00"), "")
	require.NoError(t, err)

	_, err = svc.SettleTransaction(context.Background(), customer(ownerID), tx.ID, account.StatusSuccess)
	require.ErrorIs(t, err, user.ErrUserUnauthorized)

	_, err = svc.SettleTransaction(context.Background(), admin(uuid.New()), tx.ID, account.StatusPending)
	require.ErrorIs(t, err, account.ErrInvalidDecision)

	_, err = svc.SettleTransaction(context.Background(), admin(uuid.New()), uuid.New(), account.StatusSuccess)
	require.ErrorIs(t, err, account.ErrTransactionNotFound)
}

func TestPendingTransactions_AdminOnly(t *testing.T) {
	svc, _ := newTestService(t, false)
	_, err := svc.PendingTransactions(context.Background(), customer(uuid.New()))
	require.ErrorIs(t, err, user.ErrUserUnauthorized)
}

func TestAccountTransactions_Authorization(t *testing.T) {
	require := require.New(t)
	svc, uow := newTestService(t, false)
	ownerID := uuid.New()
	acc := seedAccount(t, uow, ownerID, "100.00")

	_, err := svc.RequestDeposit(context.Background(), customer(ownerID), acc.Number, mustMoney(t, "25.00"), "")
	require.NoError(err)

	history, err := svc.AccountTransactions(context.Background(), customer(ownerID), acc.Number)
	require.NoError(err)
	require.Len(history, 1)

	history, err = svc.AccountTransactions(context.Background(), admin(uuid.New()), acc.Number)
	require.NoError(err)
	require.Len(history, 1)

	_, err = svc.AccountTransactions(context.Background(), customer(uuid.New()), acc.Number)
	require.ErrorIs(err, user.ErrUserUnauthorized)
}

func TestConcurrentWithdrawals_NeverOverdraw(t *testing.T) {
	require := require.New(t)
	svc, uow := newTestService(t, false)
	acc := seedAccount(t, uow, uuid.New(), "30.00")
	adm := admin(uuid.New())

	const attempts = 50
	one := mustMoney(t, "1.00")
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RequestWithdraw(context.Background(), adm, acc.Number, one, "")
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		default:
			require.ErrorIs(err, account.ErrInsufficientBalance)
			insufficient++
		}
	}
	require.Equal(30, ok)
	require.Equal(20, insufficient)
	require.True(balanceOf(t, uow, acc.Number).Equals(money.Zero(money.DefaultCurrency)))
}

func TestConcurrentTransfers_ConserveTotal(t *testing.T) {
	require := require.New(t)
	svc, uow := newTestService(t, false)
	ownerA := uuid.New()
	ownerB := uuid.New()
	accA := seedAccount(t, uow, ownerA, "100.00")
	accB := seedAccount(t, uow, ownerB, "100.00")

	// Opposite directions on the same pair to exercise the ordered
	// pair locking.
	const rounds = 20
	one := mustMoney(t, "1.00")
	var wg sync.WaitGroup
	forward := make([]error, rounds)
	backward := make([]error, rounds)
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, forward[i] = svc.Transfer(context.Background(), customer(ownerA), accA.Number, accB.Number, one, "")
		}(i)
		go func(i int) {
			defer wg.Done()
			_, backward[i] = svc.Transfer(context.Background(), customer(ownerB), accB.Number, accA.Number, one, "")
		}(i)
	}
	wg.Wait()
	for i := 0; i < rounds; i++ {
		require.NoError(forward[i])
		require.NoError(backward[i])
	}

	total, err := balanceOf(t, uow, accA.Number).Add(balanceOf(t, uow, accB.Number))
	require.NoError(err)
	require.True(total.Equals(mustMoney(t, "200.00")))
}

package account

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/banking/infra/repository/inmem"
	"github.com/amirasaad/banking/pkg/config"
	accountdomain "github.com/amirasaad/banking/pkg/domain/account"
	userdomain "github.com/amirasaad/banking/pkg/domain/user"
	"github.com/amirasaad/banking/pkg/money"
	"github.com/amirasaad/banking/pkg/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, repository.UnitOfWork) {
	t.Helper()
	uow := inmem.NewUnitOfWork(inmem.NewStore())
	cfg := &config.App{
		Ledger: config.Ledger{MaxRetries: 3, StoreTimeout: 5 * time.Second},
	}
	svc := NewService(config.Deps{
		Uow:    uow,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: cfg,
	})
	return svc, uow
}

func seedUser(t *testing.T, uow repository.UnitOfWork, role userdomain.Role) *userdomain.User {
	t.Helper()
	id := uuid.New()
	u := &userdomain.User{
		ID:        id,
		Username:  "user-" + id.String()[:8],
		Email:     id.String()[:8] + "@example.com",
		Password:  "irrelevant",
		Role:      role,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, uow.Users().Create(context.Background(), u))
	return u
}

func customer(id uuid.UUID) userdomain.Actor {
	return userdomain.Actor{ID: id, Role: userdomain.RoleCustomer, Active: true}
}

func admin(id uuid.UUID) userdomain.Actor {
	return userdomain.Actor{ID: id, Role: userdomain.RoleAdmin, Active: true}
}

func TestRequestAccountOpening(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	svc, uow := newTestService(t)
	owner := seedUser(t, uow, userdomain.RoleCustomer)

	req, err := svc.RequestAccountOpening(context.Background(), owner.ID, "savings")
	require.NoError(err)
	assert.Equal(accountdomain.RequestPending, req.Status)
	assert.Equal(accountdomain.TypeSavings, req.AccountType)

	// No account exists until an admin approves.
	accounts, err := uow.Accounts().ListByOwner(context.Background(), owner.ID)
	require.NoError(err)
	assert.Empty(accounts)

	_, err = svc.RequestAccountOpening(context.Background(), owner.ID, "checking")
	require.ErrorIs(err, accountdomain.ErrInvalidAccountType)

	_, err = svc.RequestAccountOpening(context.Background(), uuid.New(), "savings")
	require.ErrorIs(err, userdomain.ErrUserNotFound)
}

func TestResolveRequest_Approve(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	svc, uow := newTestService(t)
	owner := seedUser(t, uow, userdomain.RoleCustomer)

	req, err := svc.RequestAccountOpening(context.Background(), owner.ID, "current")
	require.NoError(err)

	res, err := svc.ResolveRequest(context.Background(), admin(uuid.New()), req.ID, true)
	require.NoError(err)
	assert.False(res.AlreadyProcessed)
	assert.Equal(accountdomain.RequestApproved, res.Request.Status)
	require.NotNil(res.Account)
	assert.Equal(owner.ID, res.Account.OwnerID)
	assert.Equal(accountdomain.TypeCurrent, res.Account.Type)
	assert.True(res.Account.Active)
	assert.True(res.Account.Balance.Equals(money.Zero(res.Account.Currency())))

	// Resolving again reports, it does not create a second account.
	res, err = svc.ResolveRequest(context.Background(), admin(uuid.New()), req.ID, true)
	require.NoError(err)
	assert.True(res.AlreadyProcessed)
	assert.Nil(res.Account)

	accounts, err := uow.Accounts().ListByOwner(context.Background(), owner.ID)
	require.NoError(err)
	assert.Len(accounts, 1)
}

func TestResolveRequest_Reject(t *testing.T) {
	require := require.New(t)
	svc, uow := newTestService(t)
	owner := seedUser(t, uow, userdomain.RoleCustomer)

	req, err := svc.RequestAccountOpening(context.Background(), owner.ID, "savings")
	require.NoError(err)

	res, err := svc.ResolveRequest(context.Background(), admin(uuid.New()), req.ID, false)
	require.NoError(err)
	require.Equal(accountdomain.RequestRejected, res.Request.Status)
	require.Nil(res.Account)

	accounts, err := uow.Accounts().ListByOwner(context.Background(), owner.ID)
	require.NoError(err)
	require.Empty(accounts)
}

func TestResolveRequest_Guards(t *testing.T) {
	svc, uow := newTestService(t)
	owner := seedUser(t, uow, userdomain.RoleCustomer)

	req, err := svc.RequestAccountOpening(context.Background(), owner.ID, "savings")
	require.NoError(t, err)

	_, err = svc.ResolveRequest(context.Background(), customer(owner.ID), req.ID, true)
	require.ErrorIs(t, err, userdomain.ErrUserUnauthorized)

	_, err = svc.ResolveRequest(context.Background(), admin(uuid.New()), uuid.New(), true)
	require.ErrorIs(t, err, accountdomain.ErrRequestNotFound)
}

func TestCreateAccount_AdminDirect(t *testing.T) {
	require := require.New(t)
	svc, uow := newTestService(t)
	owner := seedUser(t, uow, userdomain.RoleCustomer)
	adminUser := seedUser(t, uow, userdomain.RoleAdmin)

	a, err := svc.CreateAccount(context.Background(), admin(adminUser.ID), owner.ID, "savings")
	require.NoError(err)
	require.Equal(owner.ID, a.OwnerID)
	require.True(a.Active)

	_, err = svc.CreateAccount(context.Background(), customer(owner.ID), owner.ID, "savings")
	require.ErrorIs(err, userdomain.ErrUserUnauthorized)

	// Accounts are never provisioned for privileged users.
	_, err = svc.CreateAccount(context.Background(), admin(adminUser.ID), adminUser.ID, "savings")
	require.ErrorIs(err, userdomain.ErrAdminSelfProvisioning)
}

func TestPendingRequests(t *testing.T) {
	require := require.New(t)
	svc, uow := newTestService(t)
	owner := seedUser(t, uow, userdomain.RoleCustomer)

	first, err := svc.RequestAccountOpening(context.Background(), owner.ID, "savings")
	require.NoError(err)
	_, err = svc.RequestAccountOpening(context.Background(), owner.ID, "current")
	require.NoError(err)

	_, err = svc.ResolveRequest(context.Background(), admin(uuid.New()), first.ID, false)
	require.NoError(err)

	pending, err := svc.PendingRequests(context.Background(), admin(uuid.New()))
	require.NoError(err)
	require.Len(pending, 1)

	_, err = svc.PendingRequests(context.Background(), customer(owner.ID))
	require.ErrorIs(err, userdomain.ErrUserUnauthorized)
}

func TestGetAccount_Visibility(t *testing.T) {
	require := require.New(t)
	svc, uow := newTestService(t)
	owner := seedUser(t, uow, userdomain.RoleCustomer)
	adminUser := seedUser(t, uow, userdomain.RoleAdmin)

	a, err := svc.CreateAccount(context.Background(), admin(adminUser.ID), owner.ID, "savings")
	require.NoError(err)

	got, err := svc.GetAccount(context.Background(), customer(owner.ID), a.Number)
	require.NoError(err)
	require.Equal(a.ID, got.ID)

	_, err = svc.GetAccount(context.Background(), customer(uuid.New()), a.Number)
	require.ErrorIs(err, userdomain.ErrUserUnauthorized)

	// Owners lose visibility once the account is deactivated; admins keep it.
	changed, err := svc.SetAccountActive(context.Background(), admin(adminUser.ID), a.Number, false)
	require.NoError(err)
	require.True(changed)

	_, err = svc.GetAccount(context.Background(), customer(owner.ID), a.Number)
	require.ErrorIs(err, accountdomain.ErrAccountInactive)

	_, err = svc.GetAccount(context.Background(), admin(adminUser.ID), a.Number)
	require.NoError(err)
}

func TestSetAccountActive_Idempotent(t *testing.T) {
	require := require.New(t)
	svc, uow := newTestService(t)
	owner := seedUser(t, uow, userdomain.RoleCustomer)
	adminUser := seedUser(t, uow, userdomain.RoleAdmin)

	a, err := svc.CreateAccount(context.Background(), admin(adminUser.ID), owner.ID, "savings")
	require.NoError(err)

	changed, err := svc.SetAccountActive(context.Background(), admin(adminUser.ID), a.Number, false)
	require.NoError(err)
	require.True(changed)

	changed, err = svc.SetAccountActive(context.Background(), admin(adminUser.ID), a.Number, false)
	require.NoError(err)
	require.False(changed)

	_, err = svc.SetAccountActive(context.Background(), customer(owner.ID), a.Number, true)
	require.ErrorIs(err, userdomain.ErrUserUnauthorized)
}

func TestListAccounts(t *testing.T) {
	require := require.New(t)
	svc, uow := newTestService(t)
	owner := seedUser(t, uow, userdomain.RoleCustomer)
	adminUser := seedUser(t, uow, userdomain.RoleAdmin)

	_, err := svc.CreateAccount(context.Background(), admin(adminUser.ID), owner.ID, "savings")
	require.NoError(err)
	_, err = svc.CreateAccount(context.Background(), admin(adminUser.ID), owner.ID, "current")
	require.NoError(err)

	accounts, err := svc.ListAccounts(context.Background(), customer(owner.ID), owner.ID)
	require.NoError(err)
	require.Len(accounts, 2)

	accounts, err = svc.ListAccounts(context.Background(), admin(adminUser.ID), owner.ID)
	require.NoError(err)
	require.Len(accounts, 2)

	_, err = svc.ListAccounts(context.Background(), customer(uuid.New()), owner.ID)
	require.ErrorIs(err, userdomain.ErrUserUnauthorized)
}

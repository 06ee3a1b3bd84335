// Package repository provides the GORM unit of work binding the store
// contracts to one database handle.
package repository

import (
	"context"

	gormaccount "github.com/amirasaad/banking/infra/repository/account"
	gormopeningrequest "github.com/amirasaad/banking/infra/repository/openingrequest"
	gormtransaction "github.com/amirasaad/banking/infra/repository/transaction"
	gormuser "github.com/amirasaad/banking/infra/repository/user"
	"github.com/amirasaad/banking/pkg/repository"
	"gorm.io/gorm"
)

type uow struct {
	db *gorm.DB
}

// NewUoW creates a unit of work over the given database handle.
func NewUoW(db *gorm.DB) repository.UnitOfWork {
	return &uow{db: db}
}

// Do runs fn inside a database transaction. The unit of work passed to fn
// resolves every repository against the transactional handle, so all writes
// made within fn commit or roll back together.
func (u *uow) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&uow{db: tx})
	})
}

func (u *uow) Accounts() repository.AccountRepository {
	return gormaccount.New(u.db)
}

func (u *uow) Transactions() repository.TransactionRepository {
	return gormtransaction.New(u.db)
}

func (u *uow) OpeningRequests() repository.OpeningRequestRepository {
	return gormopeningrequest.New(u.db)
}

func (u *uow) Users() repository.UserRepository {
	return gormuser.New(u.db)
}

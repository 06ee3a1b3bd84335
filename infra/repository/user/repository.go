// Package user implements the user store contract on GORM.
package user

import (
	"context"

	"github.com/amirasaad/banking/infra/repository/model"
	userdomain "github.com/amirasaad/banking/pkg/domain/user"
	"github.com/amirasaad/banking/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New creates a user repository using the provided *gorm.DB.
func New(db *gorm.DB) repository.UserRepository {
	return &repo{db: db}
}

func (r *repo) Get(ctx context.Context, id uuid.UUID) (*userdomain.User, error) {
	var m model.User
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		return nil, model.MapError(err, userdomain.ErrUserNotFound, userdomain.ErrUserExists)
	}
	return m.ToDomain(), nil
}

func (r *repo) GetByUsername(ctx context.Context, username string) (*userdomain.User, error) {
	var m model.User
	err := r.db.WithContext(ctx).First(&m, "lower(username) = lower(?)", username).Error
	if err != nil {
		return nil, model.MapError(err, userdomain.ErrUserNotFound, userdomain.ErrUserExists)
	}
	return m.ToDomain(), nil
}

func (r *repo) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	var m model.User
	err := r.db.WithContext(ctx).First(&m, "lower(email) = lower(?)", email).Error
	if err != nil {
		return nil, model.MapError(err, userdomain.ErrUserNotFound, userdomain.ErrUserExists)
	}
	return m.ToDomain(), nil
}

func (r *repo) Create(ctx context.Context, u *userdomain.User) error {
	err := r.db.WithContext(ctx).Create(model.UserFromDomain(u)).Error
	return model.MapError(err, userdomain.ErrUserNotFound, userdomain.ErrUserExists)
}

func (r *repo) List(ctx context.Context) ([]*userdomain.User, error) {
	var rows []model.User
	err := r.db.WithContext(ctx).Order("created_at").Find(&rows).Error
	if err != nil {
		return nil, model.MapError(err, userdomain.ErrUserNotFound, userdomain.ErrUserExists)
	}
	out := make([]*userdomain.User, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}

// Package account implements the account store contract on GORM.
package account

import (
	"context"

	"github.com/amirasaad/banking/infra/repository/model"
	accountdomain "github.com/amirasaad/banking/pkg/domain/account"
	"github.com/amirasaad/banking/pkg/money"
	"github.com/amirasaad/banking/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New creates an account repository using the provided *gorm.DB.
func New(db *gorm.DB) repository.AccountRepository {
	return &repo{db: db}
}

func (r *repo) Get(ctx context.Context, id uuid.UUID) (*accountdomain.Account, error) {
	var m model.Account
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		return nil, model.MapError(err, accountdomain.ErrAccountNotFound, accountdomain.ErrAccountNumberTaken)
	}
	return m.ToDomain()
}

func (r *repo) GetByNumber(ctx context.Context, number string) (*accountdomain.Account, error) {
	var m model.Account
	err := r.db.WithContext(ctx).First(&m, "number = ?", number).Error
	if err != nil {
		return nil, model.MapError(err, accountdomain.ErrAccountNotFound, accountdomain.ErrAccountNumberTaken)
	}
	return m.ToDomain()
}

func (r *repo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*accountdomain.Account, error) {
	var rows []model.Account
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("opened_at").Find(&rows).Error
	if err != nil {
		return nil, model.MapError(err, accountdomain.ErrAccountNotFound, accountdomain.ErrAccountNumberTaken)
	}
	out := make([]*accountdomain.Account, 0, len(rows))
	for i := range rows {
		a, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *repo) Create(ctx context.Context, a *accountdomain.Account) error {
	err := r.db.WithContext(ctx).Create(model.AccountFromDomain(a)).Error
	return model.MapError(err, accountdomain.ErrAccountNotFound, accountdomain.ErrAccountNumberTaken)
}

// UpdateBalance is the compare-and-swap write: it only lands while the
// stored version still matches, bumping the version in the same statement.
func (r *repo) UpdateBalance(ctx context.Context, id uuid.UUID, balance money.Money, expectedVersion int64) error {
	res := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]any{
			"balance": balance.Amount(),
			"version": expectedVersion + 1,
		})
	if res.Error != nil {
		return model.MapError(res.Error, accountdomain.ErrAccountNotFound, accountdomain.ErrAccountNumberTaken)
	}
	if res.RowsAffected == 0 {
		return r.casMiss(ctx, id)
	}
	return nil
}

func (r *repo) SetActive(ctx context.Context, id uuid.UUID, active bool, expectedVersion int64) error {
	res := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]any{
			"active":  active,
			"version": expectedVersion + 1,
		})
	if res.Error != nil {
		return model.MapError(res.Error, accountdomain.ErrAccountNotFound, accountdomain.ErrAccountNumberTaken)
	}
	if res.RowsAffected == 0 {
		return r.casMiss(ctx, id)
	}
	return nil
}

// casMiss distinguishes a lost version race from a vanished record.
func (r *repo) casMiss(ctx context.Context, id uuid.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return model.MapError(err, accountdomain.ErrAccountNotFound, accountdomain.ErrAccountNumberTaken)
	}
	if count == 0 {
		return accountdomain.ErrAccountNotFound
	}
	return accountdomain.ErrVersionConflict
}

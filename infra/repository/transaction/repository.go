// Package transaction implements the transaction store contract on GORM.
package transaction

import (
	"context"

	"github.com/amirasaad/banking/infra/repository/model"
	accountdomain "github.com/amirasaad/banking/pkg/domain/account"
	"github.com/amirasaad/banking/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New creates a transaction repository using the provided *gorm.DB.
func New(db *gorm.DB) repository.TransactionRepository {
	return &repo{db: db}
}

func (r *repo) Get(ctx context.Context, id uuid.UUID) (*accountdomain.Transaction, error) {
	var m model.Transaction
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		return nil, model.MapError(err, accountdomain.ErrTransactionNotFound, accountdomain.ErrTransactionNotFound)
	}
	return m.ToDomain()
}

func (r *repo) Create(ctx context.Context, tx *accountdomain.Transaction) error {
	err := r.db.WithContext(ctx).Create(model.TransactionFromDomain(tx)).Error
	return model.MapError(err, accountdomain.ErrTransactionNotFound, accountdomain.ErrTransactionNotFound)
}

func (r *repo) ListByStatus(ctx context.Context, status accountdomain.TransactionStatus) ([]*accountdomain.Transaction, error) {
	var rows []model.Transaction
	err := r.db.WithContext(ctx).Where("status = ?", string(status)).Order("timestamp").Find(&rows).Error
	if err != nil {
		return nil, model.MapError(err, accountdomain.ErrTransactionNotFound, accountdomain.ErrTransactionNotFound)
	}
	return toDomain(rows)
}

func (r *repo) ListByAccount(ctx context.Context, number string) ([]*accountdomain.Transaction, error) {
	var rows []model.Transaction
	err := r.db.WithContext(ctx).
		Where("source_number = ? OR target_number = ?", number, number).
		Order("timestamp").Find(&rows).Error
	if err != nil {
		return nil, model.MapError(err, accountdomain.ErrTransactionNotFound, accountdomain.ErrTransactionNotFound)
	}
	return toDomain(rows)
}

// UpdateStatus flips the status conditionally on the row still being
// PENDING; a miss on a present row is the already-settled conflict.
func (r *repo) UpdateStatus(ctx context.Context, id uuid.UUID, to accountdomain.TransactionStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, string(accountdomain.StatusPending)).
		Update("status", string(to))
	if res.Error != nil {
		return model.MapError(res.Error, accountdomain.ErrTransactionNotFound, accountdomain.ErrTransactionNotFound)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.Transaction{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return model.MapError(err, accountdomain.ErrTransactionNotFound, accountdomain.ErrTransactionNotFound)
		}
		if count == 0 {
			return accountdomain.ErrTransactionNotFound
		}
		return accountdomain.ErrTransactionAlreadySettled
	}
	return nil
}

func toDomain(rows []model.Transaction) ([]*accountdomain.Transaction, error) {
	out := make([]*accountdomain.Transaction, 0, len(rows))
	for i := range rows {
		tx, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

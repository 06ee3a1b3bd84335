// Package openingrequest implements the account-opening request store
// contract on GORM.
package openingrequest

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

// New creates an opening-request repository using the provided *gorm.DB.
func New(db *gorm.DB) repository.OpeningRequestRepository {
	return &repo{db: db}
}

func (r *repo) Get(ctx context.Context, id uuid.UUID) (*accountdomain.OpeningRequest, error) {
	var m model.OpeningRequest
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		return nil, model.MapError(err, accountdomain.ErrRequestNotFound, accountdomain.ErrRequestNotFound)
	}
	return m.ToDomain(), nil
}

func (r *repo) Create(ctx context.Context, req *accountdomain.OpeningRequest) error {
	err := r.db.WithContext(ctx).Create(model.OpeningRequestFromDomain(req)).Error
	return model.MapError(err, accountdomain.ErrRequestNotFound, accountdomain.ErrRequestNotFound)
}

func (r *repo) ListByStatus(ctx context.Context, status accountdomain.RequestStatus) ([]*accountdomain.OpeningRequest, error) {
	var rows []model.OpeningRequest
	err := r.db.WithContext(ctx).Where("status = ?", string(status)).Order("requested_at").Find(&rows).Error
	if err != nil {
		return nil, model.MapError(err, accountdomain.ErrRequestNotFound, accountdomain.ErrRequestNotFound)
	}
	return toDomain(rows), nil
}

func (r *repo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*accountdomain.OpeningRequest, error) {
	var rows []model.OpeningRequest
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("requested_at").Find(&rows).Error
	if err != nil {
		return nil, model.MapError(err, accountdomain.ErrRequestNotFound, accountdomain.ErrRequestNotFound)
	}
	return toDomain(rows), nil
}

// UpdateStatus resolves a request conditionally on it still being PENDING.
// A miss on a present row means another admin resolved it first.
func (r *repo) UpdateStatus(ctx context.Context, id uuid.UUID, to accountdomain.RequestStatus) error {
	res := r.db.WithContext(ctx).Model(&model.OpeningRequest{}).
		Where("id = ? AND status = ?", id, string(accountdomain.RequestPending)).
		Update("status", string(to))
	if res.Error != nil {
		return model.MapError(res.Error, accountdomain.ErrRequestNotFound, accountdomain.ErrRequestNotFound)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.OpeningRequest{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return model.MapError(err, accountdomain.ErrRequestNotFound, accountdomain.ErrRequestNotFound)
		}
		if count == 0 {
			return accountdomain.ErrRequestNotFound
		}
		return accountdomain.ErrVersionConflict
	}
	return nil
}

func toDomain(rows []model.OpeningRequest) []*accountdomain.OpeningRequest {
	out := make([]*accountdomain.OpeningRequest, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out
}

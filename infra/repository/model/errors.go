package model

import (
	"context"
	"errors"
	"fmt"

	accountdomain "github.com/amirasaad/banking/pkg/domain/account"
	"gorm.io/gorm"
)

// MapError translates a GORM error into the domain taxonomy. notFound and
// duplicate name the sentinels for an absent record and a unique-key
// violation; timeouts and cancellations map onto the retry-safe
// Unavailable kind.
func MapError(err, notFound, duplicate error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return duplicate
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", accountdomain.ErrStoreUnavailable, err)
	default:
		return err
	}
}

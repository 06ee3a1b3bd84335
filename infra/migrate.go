package infra

import (
	"github.com/amirasaad/banking/infra/repository/model"
	"gorm.io/gorm"
)

// Migrate brings the schema up to date with the table models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Account{},
		&model.Transaction{},
		&model.OpeningRequest{},
	)
}

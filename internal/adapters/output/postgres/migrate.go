package postgres

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"picturedrive/internal/domain"
)

// Migrate creates or updates the accounts, folders and files tables
func Migrate(db *gorm.DB) error {
	logrus.Info("Migrate database ...")
	return domain.MigrateDatabase(db)
}

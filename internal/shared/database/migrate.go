package database

import (
	"circustix/internal/reservations"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&reservations.Order{},
	)
}

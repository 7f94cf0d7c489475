package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the indexes used by occupancy and status queries
func MigrateConstraints(db *gorm.DB) error {
	// Occupancy reads scan every live order of one show context
	err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_orders_show_context_status
		ON orders (show_context, status);
	`).Error
	if err != nil {
		return err
	}

	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_orders_customer_email
		ON orders (customer_email);
	`).Error
	if err != nil {
		return err
	}

	return nil
}

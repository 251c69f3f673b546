package models

import (
	"fmt"

	"gorm.io/gorm"
)

// partialIndexes are the constraints gorm tags cannot express. They mirror
// the SQL migrations so both schema paths enforce the same keys.
var partialIndexes = []string{
	// the owner key above leaves NULL specialists unconstrained
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_slot_business_start
		ON time_slots (business_id, start_at)
		WHERE specialist_id IS NULL`,
}

// AutoMigrate creates the tables straight from the models. Production
// databases go through the SQL migrations in internal/db instead.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&ScheduleDefinition{},
		&TimeSlot{},
		&AuditLog{},
	); err != nil {
		return err
	}
	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

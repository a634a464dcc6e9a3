package database

import (
	"log"

	"staffdesk/staffdesk/models"

	"gorm.io/gorm"
)

// RunMigrations runs database migrations to ensure tables are up to date
func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Assignment{},
		&models.Event{},
	)
	if err != nil {
		log.Printf("Migration failed: %v", err)
		return err
	}

	// At most one ACTIVE assignment per (task, user, role). The index keeps the
	// invariant enforceable at the store level so concurrent assigns cannot
	// slip in two ACTIVE rows between check and insert.
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_assignments_active_unique
		ON assignments (task_id, user_id, role) WHERE status = 'ACTIVE'`).Error
	if err != nil {
		log.Printf("Migration failed creating active assignment index: %v", err)
		return err
	}

	return nil
}

package testutils

import (
	"fmt"
	"testing"

	"staffdesk/staffdesk/database"
	"staffdesk/staffdesk/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an in-memory sqlite database with the full schema.
// The pool is capped at one connection so every query and transaction sees the
// same in-memory store, and concurrent callers serialize instead of each
// getting a private empty database.
func SetupTestDB(t *testing.T) *database.Database {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return &database.Database{DB: db}
}

// CreateTestUser seeds one directory entry and returns it
func CreateTestUser(t *testing.T, db *database.Database, name string) models.User {
	t.Helper()

	user := models.User{
		Name:  name,
		Email: fmt.Sprintf("%s@example.com", name),
	}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

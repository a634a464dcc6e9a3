package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a directory entry. The task subsystem consumes it read-only by id;
// lifecycle and authoritative data live outside this service.
type User struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"unique;not null" json:"email"`
	PasswordHash string         `json:"-"`
	Department   string         `json:"department"`
	Position     string         `json:"position"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

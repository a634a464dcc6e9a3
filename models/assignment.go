package models

import (
	"errors"
	"time"
)

// AssignmentRole is the capacity in which a user is bound to a task
type AssignmentRole string

const (
	RoleAssignee AssignmentRole = "ASSIGNEE"
	RoleReviewer AssignmentRole = "REVIEWER"
	RoleObserver AssignmentRole = "OBSERVER"
)

// AssignmentRoleFromString converts a string to an AssignmentRole
func AssignmentRoleFromString(roleStr string) (AssignmentRole, error) {
	switch roleStr {
	case "ASSIGNEE":
		return RoleAssignee, nil
	case "REVIEWER":
		return RoleReviewer, nil
	case "OBSERVER":
		return RoleObserver, nil
	default:
		return "", errors.New("invalid assignment role")
	}
}

// AssignmentStatus is the lifecycle status of a single assignment row,
// independent of the task's own status
type AssignmentStatus string

const (
	AssignmentActive    AssignmentStatus = "ACTIVE"
	AssignmentCompleted AssignmentStatus = "COMPLETED"
	AssignmentCancelled AssignmentStatus = "CANCELLED"
)

// AssignmentStatusFromString converts a string to an AssignmentStatus
func AssignmentStatusFromString(statusStr string) (AssignmentStatus, error) {
	switch statusStr {
	case "ACTIVE":
		return AssignmentActive, nil
	case "COMPLETED":
		return AssignmentCompleted, nil
	case "CANCELLED":
		return AssignmentCancelled, nil
	default:
		return "", errors.New("invalid assignment status")
	}
}

// Assignment is one ledger row binding a user to a task under a role.
// Rows are never hard-deleted except when their task is deleted; unassigning
// transitions the row to CANCELLED so the ledger keeps audit history.
type Assignment struct {
	ID          uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	TaskID      uint             `gorm:"not null;index" json:"task_id"`
	UserID      uint             `gorm:"not null;index" json:"user_id"`
	Role        AssignmentRole   `gorm:"type:varchar(20);not null" json:"role"`
	Status      AssignmentStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	AssignedBy  uint             `gorm:"not null" json:"assigned_by"`
	AssignedAt  time.Time        `gorm:"not null" json:"assigned_at"`
	UpdatedAt   time.Time        `gorm:"not null" json:"updated_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// NewAssignment carries the fields for one assignment at creation time
type NewAssignment struct {
	UserID uint
	Role   AssignmentRole
}

func (a *Assignment) IsActive() bool {
	return a.Status == AssignmentActive
}

func (a *Assignment) IsCompleted() bool {
	return a.Status == AssignmentCompleted
}

func (a *Assignment) IsAssignee() bool {
	return a.Role == RoleAssignee
}

func (a *Assignment) IsReviewer() bool {
	return a.Role == RoleReviewer
}

func (a *Assignment) IsObserver() bool {
	return a.Role == RoleObserver
}

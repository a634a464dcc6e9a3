package models

import (
	"errors"
	"time"
)

// TaskType classifies what kind of work item a task represents
type TaskType string

const (
	TaskTypeTask   TaskType = "TASK"
	TaskTypeReport TaskType = "REPORT"
)

// TaskTypeFromString converts a string to a TaskType
func TaskTypeFromString(typeStr string) (TaskType, error) {
	switch typeStr {
	case "TASK":
		return TaskTypeTask, nil
	case "REPORT":
		return TaskTypeReport, nil
	default:
		return "", errors.New("invalid task type")
	}
}

// TaskStatus represents the lifecycle status of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusReview     TaskStatus = "REVIEW"
	TaskStatusDone       TaskStatus = "DONE"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
)

// TaskStatusFromString converts a string to a TaskStatus
func TaskStatusFromString(statusStr string) (TaskStatus, error) {
	switch statusStr {
	case "TODO":
		return TaskStatusTodo, nil
	case "IN_PROGRESS":
		return TaskStatusInProgress, nil
	case "REVIEW":
		return TaskStatusReview, nil
	case "DONE":
		return TaskStatusDone, nil
	case "CANCELLED":
		return TaskStatusCancelled, nil
	default:
		return "", errors.New("invalid task status")
	}
}

// IsTerminal reports whether the status excludes a task from deadline tracking
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case TaskStatusDone, TaskStatusCancelled:
		return true
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview:
		return false
	}
	return false
}

// Task is a unit of work with its own lifecycle, independent of who works on it.
// Start and end dates are date-only values stored as YYYY-MM-DD strings; empty
// means unset.
type Task struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title          string     `gorm:"not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	TaskType       TaskType   `gorm:"type:varchar(20);not null;default:'TASK'" json:"task_type"`
	Status         TaskStatus `gorm:"type:varchar(20);not null;default:'TODO'" json:"status"`
	StartDate      string     `gorm:"type:varchar(10)" json:"start_date"`
	EndDate        string     `gorm:"type:varchar(10);index" json:"end_date"`
	CreatedBy      uint       `gorm:"not null;index" json:"created_by"`
	AttachmentName string     `json:"attachment_name,omitempty"`
	AttachmentType string     `json:"attachment_type,omitempty"`
	AttachmentSize int64      `json:"attachment_size,omitempty"`
	AttachmentData []byte     `gorm:"type:bytea" json:"-"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`

	Assignments []Assignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
}

// NewTask carries the fields a caller supplies when creating a task
type NewTask struct {
	Title       string
	Description string
	TaskType    TaskType
	Status      TaskStatus
	StartDate   string
	EndDate     string
	CreatedBy   uint
}

// TaskPatch is a partial update: nil means leave the field unchanged
type TaskPatch struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	TaskType    *TaskType   `json:"task_type"`
	Status      *TaskStatus `json:"status"`
	StartDate   *string     `json:"start_date"`
	EndDate     *string     `json:"end_date"`
}

// Apply overwrites only the fields present in the patch
func (p TaskPatch) Apply(task *Task) {
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.TaskType != nil {
		task.TaskType = *p.TaskType
	}
	if p.Status != nil {
		task.Status = *p.Status
	}
	if p.StartDate != nil {
		task.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		task.EndDate = *p.EndDate
	}
}

// TaskStatistics aggregates task and assignment counts for one user
type TaskStatistics struct {
	TotalTasks    int64                    `json:"total_tasks"`
	CreatedCount  int64                    `json:"created_count"`
	AssignedCount int64                    `json:"assigned_count"`
	ByStatus      map[TaskStatus]int64     `json:"by_status"`
	ByType        map[TaskType]int64       `json:"by_type"`
	ActiveByRole  map[AssignmentRole]int64 `json:"active_by_role"`
}

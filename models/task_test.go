package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskTypeFromString(t *testing.T) {
	taskType, err := TaskTypeFromString("TASK")
	assert.NoError(t, err)
	assert.Equal(t, TaskTypeTask, taskType)

	taskType, err = TaskTypeFromString("REPORT")
	assert.NoError(t, err)
	assert.Equal(t, TaskTypeReport, taskType)

	_, err = TaskTypeFromString("MEETING")
	assert.Error(t, err)
}

func TestTaskStatusFromString(t *testing.T) {
	for _, valid := range []string{"TODO", "IN_PROGRESS", "REVIEW", "DONE", "CANCELLED"} {
		status, err := TaskStatusFromString(valid)
		assert.NoError(t, err)
		assert.Equal(t, TaskStatus(valid), status)
	}

	_, err := TaskStatusFromString("todo")
	assert.Error(t, err)

	_, err = TaskStatusFromString("")
	assert.Error(t, err)
}

func TestTaskStatusIsTerminal(t *testing.T) {
	assert.True(t, TaskStatusDone.IsTerminal())
	assert.True(t, TaskStatusCancelled.IsTerminal())
	assert.False(t, TaskStatusTodo.IsTerminal())
	assert.False(t, TaskStatusInProgress.IsTerminal())
	assert.False(t, TaskStatusReview.IsTerminal())
}

func TestTaskPatchApply(t *testing.T) {
	task := Task{
		Title:       "Original",
		Description: "Original description",
		TaskType:    TaskTypeTask,
		Status:      TaskStatusTodo,
		StartDate:   "2025-01-01",
		EndDate:     "2025-01-31",
	}

	newTitle := "Updated"
	newStatus := TaskStatusInProgress
	patch := TaskPatch{
		Title:  &newTitle,
		Status: &newStatus,
	}
	patch.Apply(&task)

	assert.Equal(t, "Updated", task.Title)
	assert.Equal(t, TaskStatusInProgress, task.Status)
	// Absent fields stay untouched
	assert.Equal(t, "Original description", task.Description)
	assert.Equal(t, "2025-01-01", task.StartDate)
	assert.Equal(t, "2025-01-31", task.EndDate)
}

func TestTaskPatchApplyEmptyString(t *testing.T) {
	task := Task{Title: "Keep", Description: "Something"}

	empty := ""
	patch := TaskPatch{Description: &empty}
	patch.Apply(&task)

	// Present-and-empty clears the field, unlike absent
	assert.Equal(t, "", task.Description)
	assert.Equal(t, "Keep", task.Title)
}

package services

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"staffdesk/staffdesk/broker"
	"staffdesk/staffdesk/database"
	"staffdesk/staffdesk/models"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type TaskServiceInterface interface {
	CreateTask(db *database.Database, input models.NewTask) (models.Task, error)
	CreateTaskWithAssignments(db *database.Database, input models.NewTask, assignments []models.NewAssignment) (models.Task, error)
	GetTaskById(db *database.Database, id uint) (models.Task, error)
	GetTaskWithAssignments(db *database.Database, id uint) (models.Task, error)
	UpdateTask(db *database.Database, id uint, patch models.TaskPatch) (models.Task, error)
	UpdateStatus(db *database.Database, id uint, status models.TaskStatus) (models.Task, error)
	UpdateAttachment(db *database.Database, id uint, filename, contentType, base64Content string) (models.Task, error)
	DeleteTask(db *database.Database, id uint) error
	GetMyTasks(db *database.Database, userID uint, role models.AssignmentRole) ([]models.Task, error)
}

type TaskService struct{}

// validateDateRange checks date-only formats and that start is not after end.
// Empty values mean unset and always pass.
func validateDateRange(startDate, endDate string) error {
	for _, d := range []string{startDate, endDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			return fmt.Errorf("%w: date %q is not in YYYY-MM-DD format", ErrValidation, d)
		}
	}
	if startDate != "" && endDate != "" && startDate > endDate {
		return fmt.Errorf("%w: start_date must not be after end_date", ErrValidation)
	}
	return nil
}

func (s *TaskService) CreateTask(db *database.Database, input models.NewTask) (models.Task, error) {
	return s.CreateTaskWithAssignments(db, input, nil)
}

// CreateTaskWithAssignments creates the task and all listed assignments in a
// single transaction: if any assignment fails, the task row is rolled back too.
func (s *TaskService) CreateTaskWithAssignments(db *database.Database, input models.NewTask, assignments []models.NewAssignment) (models.Task, error) {
	if input.Title == "" {
		return models.Task{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if err := validateDateRange(input.StartDate, input.EndDate); err != nil {
		return models.Task{}, err
	}
	if input.TaskType == "" {
		input.TaskType = models.TaskTypeTask
	}
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	var creatorCount int64
	if err := tx.Model(&models.User{}).Where("id = ?", input.CreatedBy).Count(&creatorCount).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}
	if creatorCount == 0 {
		tx.Rollback()
		return models.Task{}, ErrUserNotFound
	}

	task := models.Task{
		Title:       input.Title,
		Description: input.Description,
		TaskType:    input.TaskType,
		Status:      input.Status,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		CreatedBy:   input.CreatedBy,
	}

	if err := tx.Create(&task).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	for _, a := range assignments {
		assignment, err := createAssignmentTx(tx, task.ID, a.UserID, a.Role, input.CreatedBy)
		if err != nil {
			tx.Rollback()
			return models.Task{}, err
		}
		task.Assignments = append(task.Assignments, assignment)
	}

	event, err := models.NewEvent(
		string(broker.TaskCreated),
		"task",
		map[string]interface{}{
			"task_id":    task.ID,
			"title":      task.Title,
			"task_type":  task.TaskType,
			"status":     task.Status,
			"created_by": task.CreatedBy,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Task{}, err
	}
	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	return task, nil
}

func (s *TaskService) GetTaskById(db *database.Database, id uint) (models.Task, error) {
	var task models.Task
	if err := db.DB.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskService) GetTaskWithAssignments(db *database.Database, id uint) (models.Task, error) {
	var task models.Task
	err := db.DB.Preload("Assignments", func(db *gorm.DB) *gorm.DB {
		return db.Order("assigned_at ASC")
	}).First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskService) UpdateTask(db *database.Database, id uint, patch models.TaskPatch) (models.Task, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	var task models.Task
	if err := tx.First(&task, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}

	patch.Apply(&task)

	if task.Title == "" {
		tx.Rollback()
		return models.Task{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if err := validateDateRange(task.StartDate, task.EndDate); err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Save(&task).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	event, err := models.NewEvent(
		string(broker.TaskUpdated),
		"task",
		map[string]interface{}{
			"task_id": task.ID,
			"title":   task.Title,
			"status":  task.Status,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Task{}, err
	}
	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	return task, nil
}

func (s *TaskService) UpdateStatus(db *database.Database, id uint, status models.TaskStatus) (models.Task, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	var task models.Task
	if err := tx.First(&task, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}

	task.Status = status
	if err := tx.Save(&task).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	event, err := models.NewEvent(
		string(broker.TaskStatusChanged),
		"task",
		map[string]interface{}{
			"task_id": task.ID,
			"status":  task.Status,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Task{}, err
	}
	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	return task, nil
}

// UpdateAttachment stores the decoded content and recomputes the size from the
// decoded bytes. Empty content removes the attachment fields together.
func (s *TaskService) UpdateAttachment(db *database.Database, id uint, filename, contentType, base64Content string) (models.Task, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	var task models.Task
	if err := tx.First(&task, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}

	if base64Content == "" {
		task.AttachmentName = ""
		task.AttachmentType = ""
		task.AttachmentSize = 0
		task.AttachmentData = nil
	} else {
		content, err := base64.StdEncoding.DecodeString(base64Content)
		if err != nil {
			tx.Rollback()
			return models.Task{}, fmt.Errorf("%w: content is not valid base64", ErrValidation)
		}
		task.AttachmentName = filename
		task.AttachmentType = contentType
		task.AttachmentSize = int64(len(content))
		task.AttachmentData = content
	}

	if err := tx.Save(&task).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	event, err := models.NewEvent(
		string(broker.TaskUpdated),
		"task",
		map[string]interface{}{
			"task_id":         task.ID,
			"attachment_name": task.AttachmentName,
			"attachment_size": task.AttachmentSize,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Task{}, err
	}
	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	return task, nil
}

// DeleteTask removes the task and all its assignment rows in one transaction.
// The cascade is explicit rather than delegated to a foreign key rule so the
// invariant stays auditable.
func (s *TaskService) DeleteTask(db *database.Database, id uint) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var task models.Task
	if err := tx.First(&task, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	if err := tx.Where("task_id = ?", task.ID).Delete(&models.Assignment{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&task).Error; err != nil {
		tx.Rollback()
		return err
	}

	event, err := models.NewEvent(
		string(broker.TaskDeleted),
		"task",
		map[string]interface{}{
			"task_id": task.ID,
		},
	)
	if err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// GetMyTasks returns the tasks on which the user holds an ACTIVE assignment
// under the given role, most recently created first.
func (s *TaskService) GetMyTasks(db *database.Database, userID uint, role models.AssignmentRole) ([]models.Task, error) {
	tasks := []models.Task{}
	err := db.DB.
		Joins("JOIN assignments ON assignments.task_id = tasks.id").
		Where("assignments.user_id = ? AND assignments.role = ? AND assignments.status = ?",
			userID, role, models.AssignmentActive).
		Order("tasks.created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

var TaskServiceInstance TaskServiceInterface = &TaskService{}

package services

import (
	"errors"
	"time"

	"staffdesk/staffdesk/broker"
	"staffdesk/staffdesk/database"
	"staffdesk/staffdesk/models"

	"gorm.io/gorm"
)

type AssignmentServiceInterface interface {
	Assign(db *database.Database, taskID, userID uint, role models.AssignmentRole, assignedBy uint) (models.Assignment, error)
	Unassign(db *database.Database, taskID, userID uint) error
	ListByTask(db *database.Database, taskID uint) ([]models.Assignment, error)
	ListByUser(db *database.Database, userID uint, role *models.AssignmentRole, status *models.AssignmentStatus) ([]models.Assignment, error)
	TransitionStatus(db *database.Database, assignmentID uint, status models.AssignmentStatus) (models.Assignment, error)
}

type AssignmentService struct{}

// createAssignmentTx inserts one ACTIVE ledger row inside an open transaction.
// The duplicate check runs under the same transaction and the partial unique
// index on (task_id, user_id, role) WHERE status='ACTIVE' backs it up, so two
// concurrent assigns for the same triple cannot both land.
func createAssignmentTx(tx *gorm.DB, taskID, userID uint, role models.AssignmentRole, assignedBy uint) (models.Assignment, error) {
	var userCount int64
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&userCount).Error; err != nil {
		return models.Assignment{}, err
	}
	if userCount == 0 {
		return models.Assignment{}, ErrUserNotFound
	}

	var activeCount int64
	err := tx.Model(&models.Assignment{}).
		Where("task_id = ? AND user_id = ? AND role = ? AND status = ?",
			taskID, userID, role, models.AssignmentActive).
		Count(&activeCount).Error
	if err != nil {
		return models.Assignment{}, err
	}
	if activeCount > 0 {
		return models.Assignment{}, ErrDuplicateAssignment
	}

	now := time.Now().UTC()
	assignment := models.Assignment{
		TaskID:     taskID,
		UserID:     userID,
		Role:       role,
		Status:     models.AssignmentActive,
		AssignedBy: assignedBy,
		AssignedAt: now,
	}

	if err := tx.Create(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Assignment{}, ErrDuplicateAssignment
		}
		return models.Assignment{}, err
	}

	event, err := models.NewEvent(
		string(broker.AssignmentCreated),
		"assignment",
		map[string]interface{}{
			"assignment_id": assignment.ID,
			"task_id":       assignment.TaskID,
			"user_id":       assignment.UserID,
			"role":          assignment.Role,
			"assigned_by":   assignment.AssignedBy,
		},
	)
	if err != nil {
		return models.Assignment{}, err
	}
	if err := tx.Create(event).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (s *AssignmentService) Assign(db *database.Database, taskID, userID uint, role models.AssignmentRole, assignedBy uint) (models.Assignment, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Assignment{}, tx.Error
	}

	var taskCount int64
	if err := tx.Model(&models.Task{}).Where("id = ?", taskID).Count(&taskCount).Error; err != nil {
		tx.Rollback()
		return models.Assignment{}, err
	}
	if taskCount == 0 {
		tx.Rollback()
		return models.Assignment{}, ErrTaskNotFound
	}

	assignment, err := createAssignmentTx(tx, taskID, userID, role, assignedBy)
	if err != nil {
		tx.Rollback()
		return models.Assignment{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Assignment{}, err
	}

	return assignment, nil
}

// Unassign cancels every ACTIVE role the user holds on the task. Rows are kept
// as CANCELLED for audit history rather than deleted.
func (s *AssignmentService) Unassign(db *database.Database, taskID, userID uint) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	result := tx.Model(&models.Assignment{}).
		Where("task_id = ? AND user_id = ? AND status = ?", taskID, userID, models.AssignmentActive).
		Updates(map[string]interface{}{
			"status":       models.AssignmentCancelled,
			"completed_at": nil,
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		tx.Rollback()
		return result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return ErrAssignmentNotFound
	}

	event, err := models.NewEvent(
		string(broker.AssignmentCancelled),
		"assignment",
		map[string]interface{}{
			"task_id": taskID,
			"user_id": userID,
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

func (s *AssignmentService) ListByTask(db *database.Database, taskID uint) ([]models.Assignment, error) {
	var taskCount int64
	if err := db.DB.Model(&models.Task{}).Where("id = ?", taskID).Count(&taskCount).Error; err != nil {
		return nil, err
	}
	if taskCount == 0 {
		return nil, ErrTaskNotFound
	}

	assignments := []models.Assignment{}
	err := db.DB.Where("task_id = ?", taskID).
		Order("assigned_at ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (s *AssignmentService) ListByUser(db *database.Database, userID uint, role *models.AssignmentRole, status *models.AssignmentStatus) ([]models.Assignment, error) {
	query := db.DB.Where("user_id = ?", userID)
	if role != nil {
		query = query.Where("role = ?", *role)
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	assignments := []models.Assignment{}
	if err := query.Order("assigned_at DESC").Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// TransitionStatus writes the new status; COMPLETED stamps completed_at,
// CANCELLED clears it, anything else is a plain status write.
func (s *AssignmentService) TransitionStatus(db *database.Database, assignmentID uint, status models.AssignmentStatus) (models.Assignment, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Assignment{}, tx.Error
	}

	var assignment models.Assignment
	if err := tx.First(&assignment, "id = ?", assignmentID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, ErrAssignmentNotFound
		}
		return models.Assignment{}, err
	}

	assignment.Status = status
	switch status {
	case models.AssignmentCompleted:
		now := time.Now().UTC()
		assignment.CompletedAt = &now
	case models.AssignmentCancelled:
		assignment.CompletedAt = nil
	case models.AssignmentActive:
		// plain status write
	}

	if err := tx.Save(&assignment).Error; err != nil {
		tx.Rollback()
		return models.Assignment{}, err
	}

	var eventType broker.EventType
	switch status {
	case models.AssignmentCompleted:
		eventType = broker.AssignmentCompleted
	case models.AssignmentCancelled:
		eventType = broker.AssignmentCancelled
	case models.AssignmentActive:
		eventType = broker.AssignmentUpdated
	}
	event, err := models.NewEvent(
		string(eventType),
		"assignment",
		map[string]interface{}{
			"assignment_id": assignment.ID,
			"task_id":       assignment.TaskID,
			"user_id":       assignment.UserID,
			"status":        assignment.Status,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Assignment{}, err
	}
	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Assignment{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Assignment{}, err
	}

	return assignment, nil
}

var AssignmentServiceInstance AssignmentServiceInterface = &AssignmentService{}

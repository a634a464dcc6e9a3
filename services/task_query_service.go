package services

import (
	"fmt"
	"strings"
	"time"

	"staffdesk/staffdesk/database"
	"staffdesk/staffdesk/models"
)

// DeadlineClass selects which deadline window a query covers
type DeadlineClass string

const (
	DeadlineUpcoming DeadlineClass = "upcoming"
	DeadlineToday    DeadlineClass = "today"
	DeadlineOverdue  DeadlineClass = "overdue"
)

// DeadlineClassFromString converts a string to a DeadlineClass
func DeadlineClassFromString(classStr string) (DeadlineClass, error) {
	switch classStr {
	case "upcoming":
		return DeadlineUpcoming, nil
	case "today":
		return DeadlineToday, nil
	case "overdue":
		return DeadlineOverdue, nil
	default:
		return "", fmt.Errorf("%w: invalid deadline type %q", ErrValidation, classStr)
	}
}

// TaskFilter combines optional task list criteria with AND semantics.
// Nil/empty fields are skipped.
type TaskFilter struct {
	CreatedBy *uint
	Status    *models.TaskStatus
	TaskType  *models.TaskType
	Keyword   string
	DateField string // "start_date" or "end_date"
	DateFrom  string
	DateTo    string
	SortBy    string
	SortDir   string
	Limit     int
	Offset    int
}

// Sortable task columns. Caller-supplied sort fields must match one of these
// so a sort parameter can never inject SQL.
var taskSortFields = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
	"status":     "status",
	"task_type":  "task_type",
	"start_date": "start_date",
	"end_date":   "end_date",
}

type TaskQueryServiceInterface interface {
	GetTasks(db *database.Database, filter TaskFilter) ([]models.Task, error)
	GetDeadlineTasks(db *database.Database, class DeadlineClass, days int) ([]models.Task, error)
	GetStatistics(db *database.Database, userID uint) (models.TaskStatistics, error)
}

type TaskQueryService struct{}

func (s *TaskQueryService) GetTasks(db *database.Database, filter TaskFilter) ([]models.Task, error) {
	query := db.DB.Model(&models.Task{})

	if filter.CreatedBy != nil {
		query = query.Where("created_by = ?", *filter.CreatedBy)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.TaskType != nil {
		query = query.Where("task_type = ?", *filter.TaskType)
	}
	if filter.Keyword != "" {
		pattern := "%" + strings.ToLower(filter.Keyword) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	if filter.DateFrom != "" || filter.DateTo != "" {
		field := filter.DateField
		if field == "" {
			field = "end_date"
		}
		if field != "start_date" && field != "end_date" {
			return nil, fmt.Errorf("%w: invalid date field %q", ErrValidation, filter.DateField)
		}
		query = query.Where(field + " <> ''")
		if filter.DateFrom != "" {
			query = query.Where(field+" >= ?", filter.DateFrom)
		}
		if filter.DateTo != "" {
			query = query.Where(field+" <= ?", filter.DateTo)
		}
	}

	sortBy := "created_at"
	if filter.SortBy != "" {
		column, ok := taskSortFields[filter.SortBy]
		if !ok {
			return nil, fmt.Errorf("%w: invalid sort field %q", ErrValidation, filter.SortBy)
		}
		sortBy = column
	}
	sortDir := "DESC"
	if filter.SortDir != "" {
		switch strings.ToLower(filter.SortDir) {
		case "asc":
			sortDir = "ASC"
		case "desc":
			sortDir = "DESC"
		default:
			return nil, fmt.Errorf("%w: invalid sort direction %q", ErrValidation, filter.SortDir)
		}
	}
	query = query.Order(sortBy + " " + sortDir)

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	tasks := []models.Task{}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetDeadlineTasks classifies tasks by end date relative to today. DONE and
// CANCELLED tasks never count as upcoming or overdue; "today" is a pure date
// match.
func (s *TaskQueryService) GetDeadlineTasks(db *database.Database, class DeadlineClass, days int) ([]models.Task, error) {
	today := time.Now().Format(dateLayout)
	terminal := []models.TaskStatus{models.TaskStatusDone, models.TaskStatusCancelled}

	query := db.DB.Model(&models.Task{}).Where("end_date <> ''")

	switch class {
	case DeadlineUpcoming:
		if days <= 0 {
			return nil, fmt.Errorf("%w: days must be positive for upcoming deadlines", ErrValidation)
		}
		horizon := time.Now().AddDate(0, 0, days).Format(dateLayout)
		query = query.Where("end_date >= ? AND end_date <= ?", today, horizon).
			Where("status NOT IN ?", terminal)
	case DeadlineToday:
		query = query.Where("end_date = ?", today)
	case DeadlineOverdue:
		query = query.Where("end_date < ?", today).
			Where("status NOT IN ?", terminal)
	default:
		return nil, fmt.Errorf("%w: invalid deadline type %q", ErrValidation, class)
	}

	tasks := []models.Task{}
	if err := query.Order("end_date ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskQueryService) GetStatistics(db *database.Database, userID uint) (models.TaskStatistics, error) {
	stats := models.TaskStatistics{
		ByStatus:     make(map[models.TaskStatus]int64),
		ByType:       make(map[models.TaskType]int64),
		ActiveByRole: make(map[models.AssignmentRole]int64),
	}

	err := db.DB.Model(&models.Task{}).
		Where("status <> ?", models.TaskStatusCancelled).
		Count(&stats.TotalTasks).Error
	if err != nil {
		return models.TaskStatistics{}, err
	}

	err = db.DB.Model(&models.Task{}).
		Where("created_by = ?", userID).
		Count(&stats.CreatedCount).Error
	if err != nil {
		return models.TaskStatistics{}, err
	}

	err = db.DB.Model(&models.Assignment{}).
		Where("user_id = ? AND status = ?", userID, models.AssignmentActive).
		Distinct("task_id").
		Count(&stats.AssignedCount).Error
	if err != nil {
		return models.TaskStatistics{}, err
	}

	var statusRows []struct {
		Status models.TaskStatus
		Count  int64
	}
	err = db.DB.Model(&models.Task{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statusRows).Error
	if err != nil {
		return models.TaskStatistics{}, err
	}
	for _, row := range statusRows {
		stats.ByStatus[row.Status] = row.Count
	}

	var typeRows []struct {
		TaskType models.TaskType
		Count    int64
	}
	err = db.DB.Model(&models.Task{}).
		Select("task_type, COUNT(*) AS count").
		Group("task_type").
		Scan(&typeRows).Error
	if err != nil {
		return models.TaskStatistics{}, err
	}
	for _, row := range typeRows {
		stats.ByType[row.TaskType] = row.Count
	}

	var roleRows []struct {
		Role  models.AssignmentRole
		Count int64
	}
	err = db.DB.Model(&models.Assignment{}).
		Select("role, COUNT(*) AS count").
		Where("user_id = ? AND status = ?", userID, models.AssignmentActive).
		Group("role").
		Scan(&roleRows).Error
	if err != nil {
		return models.TaskStatistics{}, err
	}
	for _, row := range roleRows {
		stats.ActiveByRole[row.Role] = row.Count
	}

	return stats, nil
}

var TaskQueryServiceInstance TaskQueryServiceInterface = &TaskQueryService{}

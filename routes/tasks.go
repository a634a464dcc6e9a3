package routes

import (
	"errors"
	"net/http"
	"strconv"

	"staffdesk/staffdesk/database"
	"staffdesk/staffdesk/models"
	"staffdesk/staffdesk/services"

	"github.com/gin-gonic/gin"
)

type createTaskRequest struct {
	Title       string                 `json:"title" binding:"required"`
	Description string                 `json:"description"`
	TaskType    string                 `json:"task_type"`
	Status      string                 `json:"status"`
	StartDate   string                 `json:"start_date"`
	EndDate     string                 `json:"end_date"`
	Assignments []createTaskAssignment `json:"assignments"`
}

type createTaskAssignment struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

type attachmentRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}

func RegisterTaskRoutes(group *gin.RouterGroup, db *database.Database, taskService services.TaskServiceInterface, queryService services.TaskQueryServiceInterface) {
	group.POST("/tasks", func(c *gin.Context) { CreateTask(c, db, taskService) })
	group.GET("/tasks", func(c *gin.Context) { GetTasks(c, db, queryService) })
	group.GET("/tasks/deadline", func(c *gin.Context) { GetDeadlineTasks(c, db, queryService) })
	group.GET("/tasks/statistics", func(c *gin.Context) { GetTaskStatistics(c, db, queryService) })
	group.GET("/tasks/my-tasks/:userId", func(c *gin.Context) { GetMyTasks(c, db, taskService) })
	group.GET("/tasks/:id", func(c *gin.Context) { GetTaskById(c, db, taskService) })
	group.PUT("/tasks/:id", func(c *gin.Context) { UpdateTask(c, db, taskService) })
	group.DELETE("/tasks/:id", func(c *gin.Context) { DeleteTask(c, db, taskService) })
	group.PATCH("/tasks/:id/status", func(c *gin.Context) { UpdateTaskStatus(c, db, taskService) })
	group.PUT("/tasks/:id/attachment", func(c *gin.Context) { UpdateTaskAttachment(c, db, taskService) })
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func authenticatedUserID(c *gin.Context) (uint, bool) {
	userIDInterface, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, false
	}
	return userIDInterface.(uint), true
}

func CreateTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	var request createTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	input := models.NewTask{
		Title:       request.Title,
		Description: request.Description,
		StartDate:   request.StartDate,
		EndDate:     request.EndDate,
		CreatedBy:   userID,
	}

	if request.TaskType != "" {
		taskType, err := models.TaskTypeFromString(request.TaskType)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		input.TaskType = taskType
	}

	if request.Status != "" {
		status, err := models.TaskStatusFromString(request.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		input.Status = status
	}

	var assignments []models.NewAssignment
	for _, a := range request.Assignments {
		role, err := models.AssignmentRoleFromString(a.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		assignments = append(assignments, models.NewAssignment{UserID: a.UserID, Role: role})
	}

	createdTask, err := taskService.CreateTaskWithAssignments(db, input, assignments)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, services.ErrDuplicateAssignment):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, createdTask)
}

func GetTaskById(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := taskService.GetTaskWithAssignments(db, id)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func UpdateTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch models.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if patch.TaskType != nil {
		if _, err := models.TaskTypeFromString(string(*patch.TaskType)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if patch.Status != nil {
		if _, err := models.TaskStatusFromString(string(*patch.Status)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	updatedTask, err := taskService.UpdateTask(db, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, services.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, updatedTask)
}

func DeleteTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := taskService.DeleteTask(db, id); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusNoContent, gin.H{})
}

func UpdateTaskStatus(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	status, err := models.TaskStatusFromString(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := taskService.UpdateStatus(db, id, status)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func UpdateTaskAttachment(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var request attachmentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := taskService.UpdateAttachment(db, id, request.FileName, request.ContentType, request.Content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, services.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, task)
}

func GetMyTasks(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	role := models.RoleAssignee
	switch c.DefaultQuery("role", "assigned") {
	case "assigned":
		role = models.RoleAssignee
	case "review":
		role = models.RoleReviewer
	case "observe":
		role = models.RoleObserver
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be one of assigned, review, observe"})
		return
	}

	tasks, err := taskService.GetMyTasks(db, userID, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func GetTasks(c *gin.Context, db *database.Database, queryService services.TaskQueryServiceInterface) {
	filter := services.TaskFilter{
		Keyword:   c.Query("keyword"),
		DateField: c.Query("date_field"),
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
		SortBy:    c.Query("sort_by"),
		SortDir:   c.Query("sort_dir"),
	}

	if createdByStr := c.Query("created_by"); createdByStr != "" {
		createdBy, err := strconv.ParseUint(createdByStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid created_by"})
			return
		}
		createdByID := uint(createdBy)
		filter.CreatedBy = &createdByID
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status, err := models.TaskStatusFromString(statusStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.Status = &status
	}

	if typeStr := c.Query("task_type"); typeStr != "" {
		taskType, err := models.TaskTypeFromString(typeStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.TaskType = &taskType
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		filter.Limit = limit
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
			return
		}
		filter.Offset = offset
	}

	tasks, err := queryService.GetTasks(db, filter)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func GetDeadlineTasks(c *gin.Context, db *database.Database, queryService services.TaskQueryServiceInterface) {
	class, err := services.DeadlineClassFromString(c.Query("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	days := 7
	if daysStr := c.Query("days"); daysStr != "" {
		days, err = strconv.Atoi(daysStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
			return
		}
	}

	tasks, err := queryService.GetDeadlineTasks(db, class, days)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func GetTaskStatistics(c *gin.Context, db *database.Database, queryService services.TaskQueryServiceInterface) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	if userIDStr := c.Query("user_id"); userIDStr != "" {
		parsed, err := strconv.ParseUint(userIDStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		userID = uint(parsed)
	}

	stats, err := queryService.GetStatistics(db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

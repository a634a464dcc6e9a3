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

func RegisterAssignmentRoutes(group *gin.RouterGroup, db *database.Database, assignmentService services.AssignmentServiceInterface) {
	group.POST("/tasks/:id/assign", func(c *gin.Context) { AssignTask(c, db, assignmentService) })
	group.DELETE("/tasks/:id/assign/:userId", func(c *gin.Context) { UnassignTask(c, db, assignmentService) })
	group.GET("/tasks/:id/assignments", func(c *gin.Context) { GetTaskAssignments(c, db, assignmentService) })
	group.GET("/assignments", func(c *gin.Context) { GetAssignments(c, db, assignmentService) })
	group.PATCH("/assignments/:id/status", func(c *gin.Context) { TransitionAssignmentStatus(c, db, assignmentService) })
}

func AssignTask(c *gin.Context, db *database.Database, assignmentService services.AssignmentServiceInterface) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userIDStr := c.Query("user_id")
	parsedUserID, err := strconv.ParseUint(userIDStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}
	userID := uint(parsedUserID)

	role, err := models.AssignmentRoleFromString(c.Query("role"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignedBy, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	if assignedByStr := c.Query("assigned_by"); assignedByStr != "" {
		parsed, err := strconv.ParseUint(assignedByStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assigned_by"})
			return
		}
		assignedBy = uint(parsed)
	}

	assignment, err := assignmentService.Assign(db, taskID, userID, role, assignedBy)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, services.ErrDuplicateAssignment):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

func UnassignTask(c *gin.Context, db *database.Database, assignmentService services.AssignmentServiceInterface) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if err := assignmentService.Unassign(db, taskID, userID); err != nil {
		if errors.Is(err, services.ErrAssignmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active assignment found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusNoContent, gin.H{})
}

func GetTaskAssignments(c *gin.Context, db *database.Database, assignmentService services.AssignmentServiceInterface) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	assignments, err := assignmentService.ListByTask(db, taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, assignments)
}

func GetAssignments(c *gin.Context, db *database.Database, assignmentService services.AssignmentServiceInterface) {
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

	var role *models.AssignmentRole
	if roleStr := c.Query("role"); roleStr != "" {
		parsed, err := models.AssignmentRoleFromString(roleStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		role = &parsed
	}

	var status *models.AssignmentStatus
	if statusStr := c.Query("status"); statusStr != "" {
		parsed, err := models.AssignmentStatusFromString(statusStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status = &parsed
	}

	assignments, err := assignmentService.ListByUser(db, userID, role, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, assignments)
}

func TransitionAssignmentStatus(c *gin.Context, db *database.Database, assignmentService services.AssignmentServiceInterface) {
	assignmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	status, err := models.AssignmentStatusFromString(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignment, err := assignmentService.TransitionStatus(db, assignmentID, status)
	if err != nil {
		if errors.Is(err, services.ErrAssignmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, assignment)
}

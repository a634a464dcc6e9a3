package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"staffdesk/staffdesk/database"
	"staffdesk/staffdesk/models"
	"staffdesk/staffdesk/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAssignmentService struct {
	assignFn     func(taskID, userID uint, role models.AssignmentRole, assignedBy uint) (models.Assignment, error)
	unassignFn   func(taskID, userID uint) error
	listByTaskFn func(taskID uint) ([]models.Assignment, error)
	listByUserFn func(userID uint, role *models.AssignmentRole, status *models.AssignmentStatus) ([]models.Assignment, error)
	transitionFn func(assignmentID uint, status models.AssignmentStatus) (models.Assignment, error)
}

func (m *mockAssignmentService) Assign(db *database.Database, taskID, userID uint, role models.AssignmentRole, assignedBy uint) (models.Assignment, error) {
	return m.assignFn(taskID, userID, role, assignedBy)
}

func (m *mockAssignmentService) Unassign(db *database.Database, taskID, userID uint) error {
	return m.unassignFn(taskID, userID)
}

func (m *mockAssignmentService) ListByTask(db *database.Database, taskID uint) ([]models.Assignment, error) {
	return m.listByTaskFn(taskID)
}

func (m *mockAssignmentService) ListByUser(db *database.Database, userID uint, role *models.AssignmentRole, status *models.AssignmentStatus) ([]models.Assignment, error) {
	return m.listByUserFn(userID, role, status)
}

func (m *mockAssignmentService) TransitionStatus(db *database.Database, assignmentID uint, status models.AssignmentStatus) (models.Assignment, error) {
	return m.transitionFn(assignmentID, status)
}

func setupAssignmentRouter(assignmentService services.AssignmentServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api/v1")
	group.Use(func(c *gin.Context) {
		c.Set("userID", uint(1))
		c.Next()
	})
	RegisterAssignmentRoutes(group, &database.Database{}, assignmentService)
	return router
}

func TestAssignTaskRoute(t *testing.T) {
	assignmentService := &mockAssignmentService{
		assignFn: func(taskID, userID uint, role models.AssignmentRole, assignedBy uint) (models.Assignment, error) {
			assert.Equal(t, uint(3), taskID)
			assert.Equal(t, uint(2), userID)
			assert.Equal(t, models.RoleAssignee, role)
			// Defaults to the authenticated user
			assert.Equal(t, uint(1), assignedBy)
			return models.Assignment{ID: 9, TaskID: taskID, UserID: userID, Role: role, Status: models.AssignmentActive}, nil
		},
	}
	router := setupAssignmentRouter(assignmentService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/tasks/3/assign?user_id=2&role=ASSIGNEE", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var assignment models.Assignment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &assignment))
	assert.Equal(t, uint(9), assignment.ID)
}

func TestAssignTaskRouteExplicitAssignedBy(t *testing.T) {
	assignmentService := &mockAssignmentService{
		assignFn: func(taskID, userID uint, role models.AssignmentRole, assignedBy uint) (models.Assignment, error) {
			assert.Equal(t, uint(5), assignedBy)
			return models.Assignment{ID: 1}, nil
		},
	}
	router := setupAssignmentRouter(assignmentService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/tasks/3/assign?user_id=2&role=REVIEWER&assigned_by=5", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAssignTaskRouteErrors(t *testing.T) {
	assignmentService := &mockAssignmentService{
		assignFn: func(taskID, userID uint, role models.AssignmentRole, assignedBy uint) (models.Assignment, error) {
			switch taskID {
			case 404:
				return models.Assignment{}, services.ErrTaskNotFound
			case 409:
				return models.Assignment{}, services.ErrDuplicateAssignment
			}
			return models.Assignment{}, services.ErrUserNotFound
		},
	}
	router := setupAssignmentRouter(assignmentService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/tasks/404/assign?user_id=2&role=ASSIGNEE", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/v1/tasks/409/assign?user_id=2&role=ASSIGNEE", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/v1/tasks/1/assign?user_id=2&role=ASSIGNEE", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Missing or malformed inputs never reach the service
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/v1/tasks/1/assign?role=ASSIGNEE", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/v1/tasks/1/assign?user_id=2&role=OWNER", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnassignTaskRoute(t *testing.T) {
	assignmentService := &mockAssignmentService{
		unassignFn: func(taskID, userID uint) error {
			if userID == 404 {
				return services.ErrAssignmentNotFound
			}
			assert.Equal(t, uint(3), taskID)
			assert.Equal(t, uint(2), userID)
			return nil
		},
	}
	router := setupAssignmentRouter(assignmentService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/api/v1/tasks/3/assign/2", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/api/v1/tasks/3/assign/404", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTaskAssignmentsRoute(t *testing.T) {
	assignmentService := &mockAssignmentService{
		listByTaskFn: func(taskID uint) ([]models.Assignment, error) {
			if taskID == 404 {
				return nil, services.ErrTaskNotFound
			}
			return []models.Assignment{
				{ID: 1, TaskID: taskID, Role: models.RoleAssignee},
				{ID: 2, TaskID: taskID, Role: models.RoleReviewer},
			}, nil
		},
	}
	router := setupAssignmentRouter(assignmentService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/tasks/3/assignments", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var assignments []models.Assignment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &assignments))
	assert.Len(t, assignments, 2)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/tasks/404/assignments", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAssignmentsRoute(t *testing.T) {
	assignmentService := &mockAssignmentService{
		listByUserFn: func(userID uint, role *models.AssignmentRole, status *models.AssignmentStatus) ([]models.Assignment, error) {
			assert.Equal(t, uint(2), userID)
			require.NotNil(t, role)
			assert.Equal(t, models.RoleReviewer, *role)
			require.NotNil(t, status)
			assert.Equal(t, models.AssignmentActive, *status)
			return []models.Assignment{}, nil
		},
	}
	router := setupAssignmentRouter(assignmentService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/assignments?user_id=2&role=REVIEWER&status=ACTIVE", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/assignments?status=DELETED", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransitionAssignmentStatusRoute(t *testing.T) {
	assignmentService := &mockAssignmentService{
		transitionFn: func(assignmentID uint, status models.AssignmentStatus) (models.Assignment, error) {
			if assignmentID == 404 {
				return models.Assignment{}, services.ErrAssignmentNotFound
			}
			return models.Assignment{ID: assignmentID, Status: status}, nil
		},
	}
	router := setupAssignmentRouter(assignmentService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/api/v1/assignments/9/status?status=COMPLETED", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var assignment models.Assignment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &assignment))
	assert.Equal(t, models.AssignmentCompleted, assignment.Status)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("PATCH", "/api/v1/assignments/404/status?status=COMPLETED", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("PATCH", "/api/v1/assignments/9/status?status=DELETED", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

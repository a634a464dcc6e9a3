package services

import (
	"testing"
	"time"

	"staffdesk/staffdesk/database"
	"staffdesk/staffdesk/models"
	"staffdesk/staffdesk/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTask(t *testing.T, db *database.Database, input models.NewTask) models.Task {
	t.Helper()
	task, err := (&TaskService{}).CreateTask(db, input)
	require.NoError(t, err)
	return task
}

func TestGetTasks_CompositeFilter(t *testing.T) {
	db := testutils.SetupTestDB(t)
	alice := testutils.CreateTestUser(t, db, "alice")
	bob := testutils.CreateTestUser(t, db, "bob")

	match := seedTask(t, db, models.NewTask{
		Title:     "Security audit",
		TaskType:  models.TaskTypeReport,
		Status:    models.TaskStatusInProgress,
		CreatedBy: alice.ID,
	})
	// Same creator, wrong status
	seedTask(t, db, models.NewTask{
		Title:     "Security follow-up",
		TaskType:  models.TaskTypeReport,
		Status:    models.TaskStatusDone,
		CreatedBy: alice.ID,
	})
	// Right status, wrong creator
	seedTask(t, db, models.NewTask{
		Title:     "Security review",
		TaskType:  models.TaskTypeReport,
		Status:    models.TaskStatusInProgress,
		CreatedBy: bob.ID,
	})

	queryService := &TaskQueryService{}
	status := models.TaskStatusInProgress
	tasks, err := queryService.GetTasks(db, TaskFilter{
		CreatedBy: &alice.ID,
		Status:    &status,
		Keyword:   "AUDIT", // case-insensitive match against title/description
	})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, match.ID, tasks[0].ID)
}

func TestGetTasks_DateWindowAndSort(t *testing.T) {
	db := testutils.SetupTestDB(t)
	alice := testutils.CreateTestUser(t, db, "alice")

	early := seedTask(t, db, models.NewTask{
		Title: "Early", EndDate: "2025-03-01", CreatedBy: alice.ID,
	})
	late := seedTask(t, db, models.NewTask{
		Title: "Late", EndDate: "2025-03-20", CreatedBy: alice.ID,
	})
	seedTask(t, db, models.NewTask{
		Title: "Outside", EndDate: "2025-04-05", CreatedBy: alice.ID,
	})
	seedTask(t, db, models.NewTask{
		Title: "No deadline", CreatedBy: alice.ID,
	})

	queryService := &TaskQueryService{}
	tasks, err := queryService.GetTasks(db, TaskFilter{
		DateField: "end_date",
		DateFrom:  "2025-03-01",
		DateTo:    "2025-03-31",
		SortBy:    "end_date",
		SortDir:   "asc",
	})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, early.ID, tasks[0].ID)
	assert.Equal(t, late.ID, tasks[1].ID)
}

func TestGetTasks_InvalidSortRejected(t *testing.T) {
	db := testutils.SetupTestDB(t)

	queryService := &TaskQueryService{}
	_, err := queryService.GetTasks(db, TaskFilter{SortBy: "id; DROP TABLE tasks"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = queryService.GetTasks(db, TaskFilter{SortDir: "sideways"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = queryService.GetTasks(db, TaskFilter{DateField: "created_by", DateFrom: "2025-01-01"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetTasks_Pagination(t *testing.T) {
	db := testutils.SetupTestDB(t)
	alice := testutils.CreateTestUser(t, db, "alice")

	for _, title := range []string{"one", "two", "three"} {
		seedTask(t, db, models.NewTask{Title: title, CreatedBy: alice.ID})
	}

	queryService := &TaskQueryService{}
	page, err := queryService.GetTasks(db, TaskFilter{SortBy: "title", SortDir: "asc", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := queryService.GetTasks(db, TaskFilter{SortBy: "title", SortDir: "asc", Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestGetDeadlineTasks(t *testing.T) {
	db := testutils.SetupTestDB(t)
	alice := testutils.CreateTestUser(t, db, "alice")

	today := time.Now().Format("2006-01-02")
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	inThree := time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	inTen := time.Now().AddDate(0, 0, 10).Format("2006-01-02")

	overdue := seedTask(t, db, models.NewTask{
		Title: "Late delivery", EndDate: yesterday,
		Status: models.TaskStatusInProgress, CreatedBy: alice.ID,
	})
	// Past deadline but finished: never overdue
	seedTask(t, db, models.NewTask{
		Title: "Done on time-ish", EndDate: yesterday,
		Status: models.TaskStatusDone, CreatedBy: alice.ID,
	})
	dueToday := seedTask(t, db, models.NewTask{
		Title: "Due now", EndDate: today, CreatedBy: alice.ID,
	})
	soon := seedTask(t, db, models.NewTask{
		Title: "Due soon", EndDate: inThree, CreatedBy: alice.ID,
	})
	seedTask(t, db, models.NewTask{
		Title: "Far out", EndDate: inTen, CreatedBy: alice.ID,
	})
	seedTask(t, db, models.NewTask{
		Title: "No deadline", CreatedBy: alice.ID,
	})

	queryService := &TaskQueryService{}

	got, err := queryService.GetDeadlineTasks(db, DeadlineOverdue, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, overdue.ID, got[0].ID)

	got, err = queryService.GetDeadlineTasks(db, DeadlineToday, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, dueToday.ID, got[0].ID)

	got, err = queryService.GetDeadlineTasks(db, DeadlineUpcoming, 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, dueToday.ID, got[0].ID)
	assert.Equal(t, soon.ID, got[1].ID)

	_, err = queryService.GetDeadlineTasks(db, DeadlineUpcoming, 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = queryService.GetDeadlineTasks(db, DeadlineClass("someday"), 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetDeadlineTasks_StatusChangeClearsOverdue(t *testing.T) {
	db := testutils.SetupTestDB(t)
	alice := testutils.CreateTestUser(t, db, "alice")

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	task := seedTask(t, db, models.NewTask{
		Title: "Slipping", EndDate: yesterday,
		Status: models.TaskStatusInProgress, CreatedBy: alice.ID,
	})

	taskService := &TaskService{}
	queryService := &TaskQueryService{}

	got, err := queryService.GetDeadlineTasks(db, DeadlineOverdue, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = taskService.UpdateStatus(db, task.ID, models.TaskStatusDone)
	require.NoError(t, err)

	got, err = queryService.GetDeadlineTasks(db, DeadlineOverdue, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetStatistics(t *testing.T) {
	db := testutils.SetupTestDB(t)
	alice := testutils.CreateTestUser(t, db, "alice")
	bob := testutils.CreateTestUser(t, db, "bob")

	assignmentService := &AssignmentService{}

	t1 := seedTask(t, db, models.NewTask{
		Title: "First", Status: models.TaskStatusInProgress, CreatedBy: alice.ID,
	})
	t2 := seedTask(t, db, models.NewTask{
		Title: "Second", TaskType: models.TaskTypeReport, CreatedBy: alice.ID,
	})
	seedTask(t, db, models.NewTask{
		Title: "Dropped", Status: models.TaskStatusCancelled, CreatedBy: bob.ID,
	})

	_, err := assignmentService.Assign(db, t1.ID, bob.ID, models.RoleAssignee, alice.ID)
	require.NoError(t, err)
	// Second role on the same task must not double-count assigned tasks
	_, err = assignmentService.Assign(db, t1.ID, bob.ID, models.RoleReviewer, alice.ID)
	require.NoError(t, err)
	_, err = assignmentService.Assign(db, t2.ID, bob.ID, models.RoleObserver, alice.ID)
	require.NoError(t, err)

	queryService := &TaskQueryService{}
	stats, err := queryService.GetStatistics(db, bob.ID)
	require.NoError(t, err)

	// Cancelled tasks are excluded from the total
	assert.Equal(t, int64(2), stats.TotalTasks)
	assert.Equal(t, int64(1), stats.CreatedCount)
	assert.Equal(t, int64(2), stats.AssignedCount)

	assert.Equal(t, int64(1), stats.ByStatus[models.TaskStatusInProgress])
	assert.Equal(t, int64(1), stats.ByStatus[models.TaskStatusTodo])
	assert.Equal(t, int64(1), stats.ByStatus[models.TaskStatusCancelled])

	assert.Equal(t, int64(2), stats.ByType[models.TaskTypeTask])
	assert.Equal(t, int64(1), stats.ByType[models.TaskTypeReport])

	assert.Equal(t, int64(1), stats.ActiveByRole[models.RoleAssignee])
	assert.Equal(t, int64(1), stats.ActiveByRole[models.RoleReviewer])
	assert.Equal(t, int64(1), stats.ActiveByRole[models.RoleObserver])
}

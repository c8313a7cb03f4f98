package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/hnakamura/task-tracker-api/internal/dto"
	"github.com/hnakamura/task-tracker-api/internal/models"
	"github.com/stretchr/testify/suite"
)

// TaskHandlerTestSuite exercises the task endpoints end to end: routing,
// auth middleware, validation, service, and store.
type TaskHandlerTestSuite struct {
	suite.Suite
	env *testEnv

	owner    dto.AuthResponse
	assignee dto.AuthResponse
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	suite.env = setupTestEnv(suite.T())
	suite.owner = suite.env.register(suite.T(), "Ada", "ada@example.com", "password")
	suite.assignee = suite.env.register(suite.T(), "Grace", "grace@example.com", "password")
}

// seedTask inserts a task row directly, bypassing the HTTP surface.
func (suite *TaskHandlerTestSuite) seedTask(title string, ownerID uint64, assignedTo *uint64, status models.TaskStatus, createdAt time.Time) *models.Task {
	task := &models.Task{
		UserID:     ownerID,
		AssignedTo: assignedTo,
		Title:      title,
		Status:     status,
		Priority:   models.TaskPriorityMedium,
		CreatedAt:  createdAt,
	}
	suite.Require().NoError(suite.env.db.Create(task).Error)
	return task
}

func (suite *TaskHandlerTestSuite) taskCount() int64 {
	var count int64
	suite.Require().NoError(suite.env.db.Model(&models.Task{}).Count(&count).Error)
	return count
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Defaults() {
	w := suite.env.request(suite.T(), http.MethodPost, "/api/tasks", map[string]any{
		"title": "First task",
	}, suite.owner.Token)

	suite.Equal(http.StatusCreated, w.Code)

	body := decodeBody(suite.T(), w)
	suite.Equal(float64(suite.owner.User.ID), body["user_id"])
	suite.Equal("pending", body["status"])
	suite.Equal("medium", body["priority"])
	suite.Nil(body["assigned_to"])
	suite.Nil(body["deadline"])

	// Owner summary is embedded in the resource
	user, ok := body["user"].(map[string]any)
	suite.Require().True(ok)
	suite.Equal("Ada", user["name"])
}

func (suite *TaskHandlerTestSuite) TestCreateTask_EmptyTitleRejected() {
	w := suite.env.request(suite.T(), http.MethodPost, "/api/tasks", map[string]any{
		"title": "",
	}, suite.owner.Token)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	body := decodeBody(suite.T(), w)
	errs, ok := body["errors"].(map[string]any)
	suite.Require().True(ok)
	suite.NotEmpty(errs["title"])

	// No partial mutation
	suite.Equal(int64(0), suite.taskCount())
}

func (suite *TaskHandlerTestSuite) TestCreateTask_UnknownAssigneeRejected() {
	w := suite.env.request(suite.T(), http.MethodPost, "/api/tasks", map[string]any{
		"title":       "x",
		"assigned_to": 9999,
	}, suite.owner.Token)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	body := decodeBody(suite.T(), w)
	errs, ok := body["errors"].(map[string]any)
	suite.Require().True(ok)
	suite.NotEmpty(errs["assigned_to"])
	suite.Equal(int64(0), suite.taskCount())
}

func (suite *TaskHandlerTestSuite) TestCreateTask_WithDeadlineAndAssignee() {
	w := suite.env.request(suite.T(), http.MethodPost, "/api/tasks", map[string]any{
		"title":       "Ship release",
		"description": "cut the branch",
		"priority":    "high",
		"deadline":    "2026-09-30",
		"assigned_to": suite.assignee.User.ID,
	}, suite.owner.Token)

	suite.Equal(http.StatusCreated, w.Code)

	body := decodeBody(suite.T(), w)
	suite.Equal("high", body["priority"])
	suite.Equal("2026-09-30", body["deadline"])
	suite.Equal(float64(suite.assignee.User.ID), body["assigned_to"])

	assignee, ok := body["assignee"].(map[string]any)
	suite.Require().True(ok)
	suite.Equal("Grace", assignee["name"])
}

func (suite *TaskHandlerTestSuite) TestShowMatchesCreate() {
	created := decodeBody(suite.T(), suite.env.request(suite.T(), http.MethodPost, "/api/tasks", map[string]any{
		"title": "Round trip",
	}, suite.owner.Token))

	w := suite.env.request(suite.T(), http.MethodGet, fmt.Sprintf("/api/tasks/%v", created["id"]), nil, suite.owner.Token)
	suite.Equal(http.StatusOK, w.Code)

	shown := decodeBody(suite.T(), w)
	delete(created, "updated_at")
	delete(shown, "updated_at")
	suite.Equal(created, shown)
}

func (suite *TaskHandlerTestSuite) TestGetTask_AssigneeGainsAccess() {
	task := suite.seedTask("Shared", suite.owner.User.ID, nil, models.TaskStatusPending, time.Now())

	// Not yet assigned: forbidden
	w := suite.env.request(suite.T(), http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), nil, suite.assignee.Token)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("Forbidden", decodeBody(suite.T(), w)["message"])

	// Owner assigns the task
	w = suite.env.request(suite.T(), http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), map[string]any{
		"assigned_to": suite.assignee.User.ID,
	}, suite.owner.Token)
	suite.Equal(http.StatusOK, w.Code)

	// Assignee can now read it
	w = suite.env.request(suite.T(), http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), nil, suite.assignee.Token)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask_NotFound() {
	w := suite.env.request(suite.T(), http.MethodGet, "/api/tasks/999", nil, suite.owner.Token)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("Not found", decodeBody(suite.T(), w)["message"])
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_IgnoresUndefinedFields() {
	task := suite.seedTask("Immutable owner", suite.owner.User.ID, nil, models.TaskStatusPending, time.Now())

	w := suite.env.request(suite.T(), http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), map[string]any{
		"status":  "completed",
		"user_id": 42,
		"id":      43,
	}, suite.owner.Token)
	suite.Equal(http.StatusOK, w.Code)

	body := decodeBody(suite.T(), w)
	suite.Equal("completed", body["status"])
	suite.Equal(float64(task.ID), body["id"])
	suite.Equal(float64(suite.owner.User.ID), body["user_id"])
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_AssigneeCanMutate() {
	assigneeID := suite.assignee.User.ID
	task := suite.seedTask("Shared", suite.owner.User.ID, &assigneeID, models.TaskStatusPending, time.Now())

	w := suite.env.request(suite.T(), http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), map[string]any{
		"status": "in_progress",
	}, suite.assignee.Token)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("in_progress", decodeBody(suite.T(), w)["status"])
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_NullClearsAssignee() {
	assigneeID := suite.assignee.User.ID
	task := suite.seedTask("Unassign me", suite.owner.User.ID, &assigneeID, models.TaskStatusPending, time.Now())

	w := suite.env.request(suite.T(), http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), map[string]any{
		"assigned_to": nil,
	}, suite.owner.Token)
	suite.Equal(http.StatusOK, w.Code)

	body := decodeBody(suite.T(), w)
	suite.Nil(body["assigned_to"])
	suite.Nil(body["assignee"])
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_InvalidStatusRejected() {
	task := suite.seedTask("Bad status", suite.owner.User.ID, nil, models.TaskStatusPending, time.Now())

	w := suite.env.request(suite.T(), http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), map[string]any{
		"status": "archived",
	}, suite.owner.Token)
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	body := decodeBody(suite.T(), w)
	errs, ok := body["errors"].(map[string]any)
	suite.Require().True(ok)
	suite.NotEmpty(errs["status"])
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_OwnerOnly() {
	assigneeID := suite.assignee.User.ID
	task := suite.seedTask("Doomed", suite.owner.User.ID, &assigneeID, models.TaskStatusPending, time.Now())

	// Assignee may read but not delete
	w := suite.env.request(suite.T(), http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), nil, suite.assignee.Token)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal(int64(1), suite.taskCount())

	// Owner deletes
	w = suite.env.request(suite.T(), http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), nil, suite.owner.Token)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Task deleted successfully", decodeBody(suite.T(), w)["message"])
	suite.Equal(int64(0), suite.taskCount())

	// Hard delete: subsequent reads are 404
	w = suite.env.request(suite.T(), http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), nil, suite.owner.Token)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_FilterAndPaginate() {
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 20; i++ {
		suite.seedTask(fmt.Sprintf("pending %d", i), suite.owner.User.ID, nil, models.TaskStatusPending, base.Add(time.Duration(i)*time.Minute))
	}
	for i := 0; i < 5; i++ {
		suite.seedTask(fmt.Sprintf("done %d", i), suite.owner.User.ID, nil, models.TaskStatusCompleted, base.Add(time.Duration(i)*time.Second))
	}

	w := suite.env.request(suite.T(), http.MethodGet, "/api/tasks?status=pending&per_page=15&page=2", nil, suite.owner.Token)
	suite.Equal(http.StatusOK, w.Code)

	body := decodeBody(suite.T(), w)
	data, ok := body["data"].([]any)
	suite.Require().True(ok)
	suite.Len(data, 5)
	suite.Equal(float64(2), body["current_page"])
	suite.Equal(float64(2), body["last_page"])
	suite.Equal(float64(20), body["total"])
	suite.Equal(float64(15), body["per_page"])
}

func (suite *TaskHandlerTestSuite) TestListTasks_SearchIsCaseInsensitive() {
	now := time.Now()
	suite.seedTask("Buy milk", suite.owner.User.ID, nil, models.TaskStatusPending, now)
	suite.seedTask("buy bread", suite.owner.User.ID, nil, models.TaskStatusPending, now)
	suite.seedTask("Ship", suite.owner.User.ID, nil, models.TaskStatusPending, now)

	w := suite.env.request(suite.T(), http.MethodGet, "/api/tasks?search=buy", nil, suite.owner.Token)
	suite.Equal(http.StatusOK, w.Code)

	body := decodeBody(suite.T(), w)
	data, ok := body["data"].([]any)
	suite.Require().True(ok)
	suite.Len(data, 2)
}

func (suite *TaskHandlerTestSuite) TestListTasks_VisibilityPredicate() {
	ownerID := suite.owner.User.ID
	otherID := suite.assignee.User.ID
	now := time.Now()

	suite.seedTask("mine", ownerID, nil, models.TaskStatusPending, now)
	suite.seedTask("assigned to me", otherID, &ownerID, models.TaskStatusPending, now)
	suite.seedTask("not mine", otherID, nil, models.TaskStatusPending, now)

	w := suite.env.request(suite.T(), http.MethodGet, "/api/tasks", nil, suite.owner.Token)
	suite.Equal(http.StatusOK, w.Code)

	body := decodeBody(suite.T(), w)
	data, ok := body["data"].([]any)
	suite.Require().True(ok)
	suite.Len(data, 2)

	for _, item := range data {
		task := item.(map[string]any)
		owned := task["user_id"] == float64(ownerID)
		assigned := task["assigned_to"] == float64(ownerID)
		suite.True(owned || assigned, "task %v leaked to actor %d", task["id"], ownerID)
	}
}

func (suite *TaskHandlerTestSuite) TestListTasks_NewestFirst() {
	base := time.Now().Add(-time.Hour)
	suite.seedTask("oldest", suite.owner.User.ID, nil, models.TaskStatusPending, base)
	suite.seedTask("middle", suite.owner.User.ID, nil, models.TaskStatusPending, base.Add(time.Minute))
	suite.seedTask("newest", suite.owner.User.ID, nil, models.TaskStatusPending, base.Add(2*time.Minute))

	w := suite.env.request(suite.T(), http.MethodGet, "/api/tasks", nil, suite.owner.Token)
	suite.Equal(http.StatusOK, w.Code)

	body := decodeBody(suite.T(), w)
	data := body["data"].([]any)
	titles := make([]string, len(data))
	for i, item := range data {
		titles[i] = item.(map[string]any)["title"].(string)
	}
	suite.Equal([]string{"newest", "middle", "oldest"}, titles)
}

func (suite *TaskHandlerTestSuite) TestDashboard() {
	ownerID := suite.owner.User.ID
	otherID := suite.assignee.User.ID
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 3; i++ {
		suite.seedTask(fmt.Sprintf("p%d", i), ownerID, nil, models.TaskStatusPending, base.Add(time.Duration(i)*time.Minute))
	}
	for i := 0; i < 2; i++ {
		// Visible through assignment, not ownership
		suite.seedTask(fmt.Sprintf("ip%d", i), otherID, &ownerID, models.TaskStatusInProgress, base.Add(time.Duration(10+i)*time.Minute))
	}
	suite.seedTask("c0", ownerID, nil, models.TaskStatusCompleted, base.Add(20*time.Minute))
	// Invisible to the actor
	suite.seedTask("other", otherID, nil, models.TaskStatusPending, base.Add(30*time.Minute))

	w := suite.env.request(suite.T(), http.MethodGet, "/api/dashboard", nil, suite.owner.Token)
	suite.Equal(http.StatusOK, w.Code)

	body := decodeBody(suite.T(), w)
	stats, ok := body["stats"].(map[string]any)
	suite.Require().True(ok)
	suite.Equal(float64(6), stats["total"])
	suite.Equal(float64(3), stats["pending"])
	suite.Equal(float64(2), stats["in_progress"])
	suite.Equal(float64(1), stats["completed"])

	recent, ok := body["recent_tasks"].([]any)
	suite.Require().True(ok)
	suite.Len(recent, 5)
	suite.Equal("c0", recent[0].(map[string]any)["title"])
}

func (suite *TaskHandlerTestSuite) TestListUsers_ExcludesActor() {
	suite.env.register(suite.T(), "Edsger", "edsger@example.com", "password")

	w := suite.env.request(suite.T(), http.MethodGet, "/api/users", nil, suite.owner.Token)
	suite.Equal(http.StatusOK, w.Code)

	var users []map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &users))
	suite.Len(users, 2)
	for _, u := range users {
		suite.NotEqual(float64(suite.owner.User.ID), u["id"])
		suite.NotContains(u, "password_hash")
	}
}

func (suite *TaskHandlerTestSuite) TestUnauthenticated() {
	w := suite.env.request(suite.T(), http.MethodGet, "/api/tasks", nil, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Unauthenticated", decodeBody(suite.T(), w)["message"])

	w = suite.env.request(suite.T(), http.MethodGet, "/api/tasks", nil, "not-a-real-token")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}

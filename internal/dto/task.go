package dto

import (
	"time"

	"github.com/hnakamura/task-tracker-api/internal/models"
	"github.com/hnakamura/task-tracker-api/internal/types"
)

// UserSummary is the projection embedded in task resources and returned by
// the collaborator directory.
type UserSummary struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TaskResource is the canonical JSON shape for a single task.
type TaskResource struct {
	ID          uint64              `json:"id"`
	UserID      uint64              `json:"user_id"`
	AssignedTo  *uint64             `json:"assigned_to"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	Deadline    *types.Date         `json:"deadline"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	User        *UserSummary        `json:"user,omitempty"`
	Assignee    *UserSummary        `json:"assignee,omitempty"`
}

// TaskCollection is the paginated collection envelope.
type TaskCollection struct {
	Data        []TaskResource `json:"data"`
	CurrentPage int            `json:"current_page"`
	LastPage    int            `json:"last_page"`
	Total       int64          `json:"total"`
	PerPage     int            `json:"per_page"`
}

// ToUserSummary converts a User model to UserSummary
func ToUserSummary(user models.User) UserSummary {
	return UserSummary{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// ToUserSummaries converts a slice of users
func ToUserSummaries(users []models.User) []UserSummary {
	out := make([]UserSummary, len(users))
	for i, u := range users {
		out[i] = ToUserSummary(u)
	}
	return out
}

// ToTaskResource converts a Task model to TaskResource. Owner and assignee
// summaries are embedded when preloaded.
func ToTaskResource(task models.Task) TaskResource {
	resource := TaskResource{
		ID:          task.ID,
		UserID:      task.UserID,
		AssignedTo:  task.AssignedTo,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		Deadline:    task.Deadline,
		CreatedAt:   task.CreatedAt.UTC(),
		UpdatedAt:   task.UpdatedAt.UTC(),
	}

	if task.Owner != nil && task.Owner.ID != 0 {
		owner := ToUserSummary(*task.Owner)
		resource.User = &owner
	}
	if task.Assignee != nil && task.Assignee.ID != 0 {
		assignee := ToUserSummary(*task.Assignee)
		resource.Assignee = &assignee
	}

	return resource
}

// ToTaskResources converts a slice of tasks
func ToTaskResources(tasks []models.Task) []TaskResource {
	out := make([]TaskResource, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskResource(t)
	}
	return out
}

// ToTaskCollection wraps tasks in the paginator envelope.
func ToTaskCollection(tasks []models.Task, page, perPage int, total int64) TaskCollection {
	lastPage := int(total) / perPage
	if int(total)%perPage > 0 {
		lastPage++
	}
	if lastPage < 1 {
		lastPage = 1
	}

	return TaskCollection{
		Data:        ToTaskResources(tasks),
		CurrentPage: page,
		LastPage:    lastPage,
		Total:       total,
		PerPage:     perPage,
	}
}

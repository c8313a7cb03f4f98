package services

import (
	"errors"
	"fmt"

	"github.com/hnakamura/task-tracker-api/internal/authz"
	"github.com/hnakamura/task-tracker-api/internal/constants"
	"github.com/hnakamura/task-tracker-api/internal/models"
	"github.com/hnakamura/task-tracker-api/internal/repository"
	"github.com/hnakamura/task-tracker-api/internal/types"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrTaskForbidden    = errors.New("actor may not access this task")
	ErrAssigneeNotFound = errors.New("assigned user does not exist")
)

// taskPreloads are the relations embedded in the task resource envelope.
var taskPreloads = []string{"Owner", "Assignee"}

// TaskService orchestrates the task lifecycle: it combines the store, the
// authorization predicates, and assignee referential checks.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status   string
	Priority string
	Search   string
	Page     int
	PerPage  int
}

// ListTasks returns the actor's visible tasks under the given filters.
func (s *TaskService) ListTasks(actor *models.User, input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		ActorID:  actor.ID,
		Status:   input.Status,
		Priority: input.Priority,
		Search:   input.Search,
		Page:     input.Page,
		PerPage:  input.PerPage,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask loads a task the actor is allowed to read. A missing task is
// reported before authorization runs.
func (s *TaskService) GetTask(actor *models.User, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, taskPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !authz.CanRead(actor, task) {
		return nil, ErrTaskForbidden
	}

	return task, nil
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	Deadline    *types.Date
	AssignedTo  *uint64
}

// CreateTask creates a task owned by the actor. Status defaults to pending
// and priority to medium.
func (s *TaskService) CreateTask(actor *models.User, input CreateTaskInput) (*models.Task, error) {
	if err := s.ensureAssigneeExists(input.AssignedTo); err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}

	task := &models.Task{
		UserID:      actor.ID,
		AssignedTo:  input.AssignedTo,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		Deadline:    input.Deadline,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// UpdateTaskInput is the whitelisted task patch. Nil fields are left
// untouched; the Clear flags distinguish an explicit null from absence.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	Deadline      *types.Date
	ClearDeadline bool
	AssignedTo    *uint64
	ClearAssignee bool
}

// UpdateTask applies a patch to a task the actor may mutate. Ownership, id,
// and created_at never change; updated_at always advances.
func (s *TaskService) UpdateTask(actor *models.User, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !authz.CanMutate(actor, task) {
		return nil, ErrTaskForbidden
	}

	if input.AssignedTo != nil {
		if err := s.ensureAssigneeExists(input.AssignedTo); err != nil {
			return nil, err
		}
		task.AssignedTo = input.AssignedTo
	} else if input.ClearAssignee {
		task.AssignedTo = nil
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.ClearDeadline {
		task.Deadline = nil
	} else if input.Deadline != nil {
		task.Deadline = input.Deadline
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// DeleteTask removes a task. Owner-only; assignees are refused.
func (s *TaskService) DeleteTask(actor *models.User, taskID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if !authz.CanDelete(actor, task) {
		return ErrTaskForbidden
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// Dashboard produces the per-status aggregate and the five most recent
// visible tasks. The two store calls may observe interleaved writes; the
// dashboard is best-effort by contract.
func (s *TaskService) Dashboard(actor *models.User) (*repository.StatusCounts, []models.Task, error) {
	stats, err := s.taskRepo.CountByStatus(actor.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate tasks: %w", err)
	}

	recent, err := s.taskRepo.Recent(actor.ID, constants.DashboardRecentLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch recent tasks: %w", err)
	}

	return stats, recent, nil
}

// AssignableUsers lists every user except the actor for the collaborator
// directory.
func (s *TaskService) AssignableUsers(actor *models.User) ([]models.User, error) {
	users, err := s.userRepo.ListOthers(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *TaskService) ensureAssigneeExists(assignedTo *uint64) error {
	if assignedTo == nil {
		return nil
	}
	exists, err := s.userRepo.Exists(*assignedTo)
	if err != nil {
		return fmt.Errorf("failed to verify assignee: %w", err)
	}
	if !exists {
		return ErrAssigneeNotFound
	}
	return nil
}

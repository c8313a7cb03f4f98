package repository

import (
	"strings"

	"github.com/hnakamura/task-tracker-api/internal/database"
	"github.com/hnakamura/task-tracker-api/internal/models"
	"github.com/hnakamura/task-tracker-api/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// visibleTo scopes a query to the actor's tasks: owned or assigned.
func visibleTo(actorID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tasks.user_id = ? OR tasks.assigned_to = ?", actorID, actorID)
	}
}

// Create persists a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks visible to the actor with filtering and pagination.
// Ordered by created_at descending, ties broken by id descending.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{}).Scopes(visibleTo(filter.ActorID))

	if filter.Status != "" {
		query = query.Where("tasks.status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("tasks.priority = ?", filter.Priority)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(tasks.title) LIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC, tasks.id DESC")
	if filter.Page > 0 && filter.PerPage > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
			Offset:  (filter.Page - 1) * filter.PerPage,
		}))
	}

	var tasks []models.Task
	if err := listQuery.Preload("Owner").Preload("Assignee").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update saves a modified task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete hard-deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	result := r.db.Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByStatus aggregates per-status counts over the actor's visible tasks
// in a single scan.
func (r *GormTaskRepository) CountByStatus(actorID uint64) (*StatusCounts, error) {
	var counts StatusCounts
	err := r.db.Model(&models.Task{}).
		Scopes(visibleTo(actorID)).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END), 0) AS in_progress,
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed`).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return &counts, nil
}

// Recent returns the actor's most recently created visible tasks
func (r *GormTaskRepository) Recent(actorID uint64, limit int) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Model(&models.Task{}).
		Scopes(visibleTo(actorID)).
		Order("tasks.created_at DESC, tasks.id DESC").
		Limit(limit).
		Preload("Owner").
		Preload("Assignee").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

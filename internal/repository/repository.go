package repository

import (
	"time"

	"github.com/hnakamura/task-tracker-api/internal/models"
)

// TaskRepository defines the interface for task data access. Every method is
// a single atomic store operation; handlers rely only on per-call atomicity.
type TaskRepository interface {
	// Create persists a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks visible to the actor with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update saves a modified task
	Update(task *models.Task) error

	// Delete hard-deletes a task; returns gorm.ErrRecordNotFound if no row
	// was removed
	Delete(id uint64) error

	// CountByStatus aggregates per-status counts over the actor's visible tasks
	CountByStatus(actorID uint64) (*StatusCounts, error)

	// Recent returns the actor's most recently created visible tasks
	Recent(actorID uint64, limit int) ([]models.Task, error)
}

// TaskFilter holds filtering options for listing tasks. Status, Priority and
// Search are ignored when empty.
type TaskFilter struct {
	ActorID  uint64
	Status   string
	Priority string
	Search   string
	Page     int
	PerPage  int
}

// StatusCounts is the dashboard aggregate, produced in a single scan.
type StatusCounts struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create persists a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(email string) (*models.User, error)

	// Update saves a modified user
	Update(user *models.User) error

	// Exists reports whether a user row exists
	Exists(id uint64) (bool, error)

	// EmailTaken reports whether another user already holds the email
	EmailTaken(email string, excludeID uint64) (bool, error)

	// ListOthers returns all users except the actor, projecting id/name/email
	ListOthers(actorID uint64) ([]models.User, error)
}

// TokenRepository defines the interface for access-token data access
type TokenRepository interface {
	// Create persists a freshly minted token digest
	Create(token *models.AccessToken) error

	// FindByDigest resolves a digest to its token row with the user preloaded
	FindByDigest(digest string) (*models.AccessToken, error)

	// Touch records when a token was last used
	Touch(id uint64, usedAt time.Time) error

	// DeleteByDigest revokes a token; deleting an unknown digest is a no-op
	DeleteByDigest(digest string) error
}

package models

import (
	"time"

	"github.com/hnakamura/task-tracker-api/internal/types"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	UserID      uint64       `gorm:"not null;index:idx_tasks_user_id_status,priority:1" json:"user_id"`
	AssignedTo  *uint64      `gorm:"index:idx_tasks_assigned_to_status,priority:1" json:"assigned_to"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'pending';index:idx_tasks_status;index:idx_tasks_user_id_status,priority:2;index:idx_tasks_assigned_to_status,priority:2" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'medium';index:idx_tasks_priority" json:"priority"`
	Deadline    *types.Date  `json:"deadline"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	Owner    *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Assignee *User `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
}

package authz

import "github.com/hnakamura/task-tracker-api/internal/models"

// CanRead reports whether the actor owns the task or is assigned to it.
func CanRead(actor *models.User, task *models.Task) bool {
	if actor.ID == task.UserID {
		return true
	}
	return task.AssignedTo != nil && *task.AssignedTo == actor.ID
}

// CanMutate mirrors CanRead: owner and assignee may both update a task.
func CanMutate(actor *models.User, task *models.Task) bool {
	return CanRead(actor, task)
}

// CanDelete is owner-only.
func CanDelete(actor *models.User, task *models.Task) bool {
	return actor.ID == task.UserID
}

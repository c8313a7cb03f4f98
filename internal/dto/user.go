package dto

import (
	"time"

	"github.com/hnakamura/task-tracker-api/internal/models"
)

// UserResource is the full user shape returned by auth and profile
// endpoints. The password hash never leaves the model layer.
type UserResource struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthResponse is the register/login payload.
type AuthResponse struct {
	User  UserResource `json:"user"`
	Token string       `json:"token"`
}

// ToUserResource converts a User model to UserResource
func ToUserResource(user models.User) UserResource {
	return UserResource{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.UTC(),
		UpdatedAt: user.UpdatedAt.UTC(),
	}
}

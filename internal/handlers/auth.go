package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hnakamura/task-tracker-api/internal/dto"
	apierrors "github.com/hnakamura/task-tracker-api/internal/errors"
	"github.com/hnakamura/task-tracker-api/internal/middleware"
	"github.com/hnakamura/task-tracker-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a user and returns it with a fresh bearer token.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Name     string `json:"name" binding:"required,max=255"`
		Email    string `json:"email" binding:"required,email,max=255"`
		Password string `json:"password" binding:"required"`
	}

	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Register(services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		User:  dto.ToUserResource(*user),
		Token: token,
	})
}

// Login verifies credentials and returns the user with a fresh token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		User:  dto.ToUserResource(*user),
		Token: token,
	})
}

// Logout revokes the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	digest, ok := middleware.TokenDigest(c)
	if !ok {
		apierrors.Unauthenticated(c)
		return
	}

	if err := h.authService.Logout(digest); err != nil {
		apierrors.Internal(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// Profile returns the authenticated user.
func (h *AuthHandler) Profile(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthenticated(c)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResource(*actor))
}

// UpdateProfile patches name/email/password for the authenticated user.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthenticated(c)
		return
	}

	type UpdateProfileRequest struct {
		Name            *string `json:"name" binding:"omitnil,min=1,max=255"`
		Email           *string `json:"email" binding:"omitnil,email,max=255"`
		CurrentPassword string  `json:"current_password" binding:"required_with=Password"`
		Password        *string `json:"password" binding:"omitnil,min=1"`
	}

	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.UpdateProfile(actor, services.UpdateProfileInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		CurrentPassword: req.CurrentPassword,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResource(*user))
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.ValidationField(c, "email", "The email has already been taken.")
	case errors.Is(err, services.ErrWrongPassword):
		apierrors.ValidationField(c, "current_password", "The password is incorrect.")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrInvalidToken):
		apierrors.Unauthenticated(c)
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c)
	default:
		apierrors.Internal(c)
	}
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hnakamura/task-tracker-api/internal/auth"
	"github.com/hnakamura/task-tracker-api/internal/constants"
	apierrors "github.com/hnakamura/task-tracker-api/internal/errors"
	"github.com/hnakamura/task-tracker-api/internal/models"
	"github.com/hnakamura/task-tracker-api/internal/services"
)

// RequireAuth resolves the Authorization: Bearer header to a user and binds
// the identity to the request context.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		plaintext, ok := bearerToken(c)
		if !ok {
			apierrors.Unauthenticated(c)
			c.Abort()
			return
		}

		user, err := authService.Resolve(plaintext)
		if err != nil {
			apierrors.Unauthenticated(c)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Set(constants.ContextKeyTokenDigest, auth.Digest(plaintext))
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// CurrentUser retrieves the authenticated user from context
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint64)
	return id, ok
}

// TokenDigest retrieves the digest of the presented token, for logout.
func TokenDigest(c *gin.Context) (string, bool) {
	value, exists := c.Get(constants.ContextKeyTokenDigest)
	if !exists {
		return "", false
	}
	digest, ok := value.(string)
	return digest, ok
}

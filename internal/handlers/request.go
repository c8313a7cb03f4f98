package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	apierrors "github.com/hnakamura/task-tracker-api/internal/errors"
	"github.com/hnakamura/task-tracker-api/internal/types"
	"github.com/hnakamura/task-tracker-api/internal/validation"
)

// bindJSON binds and validates the request body, writing the error response
// itself on failure. Validation is exhaustive: all failing fields are
// reported at once.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

// bindJSONBody is bindJSON for handlers that read the body more than once.
func bindJSONBody(c *gin.Context, obj any) bool {
	if err := c.ShouldBindBodyWith(obj, binding.JSON); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

func respondBindError(c *gin.Context, err error) {
	if errs, ok := validation.Translate(err); ok {
		apierrors.Validation(c, errs)
		return
	}
	if errors.Is(err, types.ErrInvalidDate) {
		apierrors.ValidationField(c, "deadline", "The deadline field must be a valid date.")
		return
	}
	apierrors.BadRequest(c, "Invalid request body")
}

package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the uniform error body. Errors is populated only for
// validation failures.
type ErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Unauthenticated sends the 401 body for missing or revoked tokens.
func Unauthenticated(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthenticated"})
}

// InvalidCredentials sends a 401 for failed logins.
func InvalidCredentials(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid credentials"})
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, ErrorResponse{Message: "Forbidden"})
}

// NotFound sends a 404 response
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{Message: "Not found"})
}

// BadRequest sends a 400 response for malformed request bodies.
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Message: message})
}

// Validation sends a 422 carrying every failing field at once.
func Validation(c *gin.Context, errs map[string][]string) {
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Message: "The given data was invalid.",
		Errors:  errs,
	})
}

// ValidationField sends a 422 for a single-field failure.
func ValidationField(c *gin.Context, field, message string) {
	Validation(c, map[string][]string{field: {message}})
}

// Internal sends a 500 response; details stay in the server log.
func Internal(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Server error"})
}

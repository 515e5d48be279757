package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfqa/internal/app"
)

// Error writes the uniform error body. Messages stay short and generic; no
// internal error text, paths, or stack traces ever reach the client.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// FromAppError maps the service error taxonomy onto HTTP statuses.
func FromAppError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrValidation):
		Error(c, http.StatusBadRequest, trimmedMessage(err, "invalid input"))
	case errors.Is(err, app.ErrNotFound):
		Error(c, http.StatusNotFound, "not found")
	case errors.Is(err, app.ErrPathTraversal):
		Error(c, http.StatusBadRequest, "invalid filename")
	case errors.Is(err, app.ErrRateLimited):
		Error(c, http.StatusTooManyRequests, "too many requests")
	case errors.Is(err, app.ErrServiceUnavailable):
		Error(c, http.StatusInternalServerError, "AI service is not available")
	default:
		Error(c, http.StatusInternalServerError, "internal server error")
	}
}

// trimmedMessage keeps validation feedback helpful without echoing internal
// wrapping.
func trimmedMessage(err error, fallback string) string {
	msg := err.Error()
	if msg == "" || len(msg) > 120 {
		return fallback
	}
	return msg
}

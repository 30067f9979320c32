package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clientdesk/clientdesk-backend/internal/domain"
)

// Fail maps the sync-layer error taxonomy onto an HTTP reply:
// Unauthenticated 401, ValidationFailed 400, NotFound 404, everything else
// (RemoteRejected and unexpected) 500.
func Fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "not authenticated"})
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}

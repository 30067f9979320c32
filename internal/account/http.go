package account

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clientdesk/clientdesk-backend/internal/auth"
	"github.com/clientdesk/clientdesk-backend/internal/domain"
)

type Handler struct {
	svc *Service
}

// Register mounts DELETE /delete on the given group (wired under
// /api/account by the router).
func Register(rg *gin.RouterGroup, svc *Service) {
	h := &Handler{svc: svc}
	rg.DELETE("/delete", h.delete)
}

func (h *Handler) delete(c *gin.Context) {
	err := h.svc.DeleteAccount(c.Request.Context(), auth.OwnerID(c))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

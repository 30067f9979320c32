package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clientdesk/clientdesk-backend/internal/auth"
	httpapi "github.com/clientdesk/clientdesk-backend/internal/api/http"
)

type Handler struct {
	svc *Service
}

func Register(rg *gin.RouterGroup, svc *Service) {
	h := &Handler{svc: svc}
	rg.GET("/stats", h.stats)
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), auth.OwnerID(c))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": stats})
}

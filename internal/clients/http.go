package clients

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/clientdesk/clientdesk-backend/internal/api/http"
	"github.com/clientdesk/clientdesk-backend/internal/auth"
	"github.com/clientdesk/clientdesk-backend/internal/domain"
)

type Handler struct {
	sync *Sync
}

func Register(rg *gin.RouterGroup, sync *Sync) {
	h := &Handler{sync: sync}

	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.sync.List(c.Request.Context(), auth.OwnerID(c))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "clients": items})
}

func (h *Handler) create(c *gin.Context) {
	var in domain.ClientInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	client, err := h.sync.Create(c.Request.Context(), auth.OwnerID(c), in)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "client": client})
}

func (h *Handler) update(c *gin.Context) {
	var in domain.ClientInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	client, err := h.sync.Update(c.Request.Context(), auth.OwnerID(c), c.Param("id"), in)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "client": client})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.sync.Delete(c.Request.Context(), auth.OwnerID(c), c.Param("id")); err != nil {
		httpapi.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

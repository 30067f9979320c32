package projects

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
	status := domain.ProjectStatus(c.Query("status"))

	items, err := h.sync.List(c.Request.Context(), auth.OwnerID(c), status)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) create(c *gin.Context) {
	var in domain.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	project, err := h.sync.Create(c.Request.Context(), auth.OwnerID(c), in)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": project})
}

func (h *Handler) update(c *gin.Context) {
	var in domain.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	project, err := h.sync.Update(c.Request.Context(), auth.OwnerID(c), c.Param("id"), in)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": project})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.sync.Delete(c.Request.Context(), auth.OwnerID(c), c.Param("id")); err != nil {
		httpapi.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

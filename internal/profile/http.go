package profile

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/clientdesk/clientdesk-backend/internal/api/http"
	"github.com/clientdesk/clientdesk-backend/internal/auth"
	"github.com/clientdesk/clientdesk-backend/internal/domain"
)

const maxAvatarBytes = 5 << 20

// AvatarStore uploads an avatar image and returns its public URL.
// *blob.Store implements it; nil disables the avatar endpoint.
type AvatarStore interface {
	PutAvatar(ctx context.Context, ownerID, contentType string, r io.Reader) (string, error)
}

type Handler struct {
	sync    *Sync
	avatars AvatarStore
}

func Register(rg *gin.RouterGroup, sync *Sync, avatars AvatarStore) {
	h := &Handler{sync: sync, avatars: avatars}

	rg.GET("", h.get)
	rg.PUT("", h.update)
	rg.POST("/avatar", h.uploadAvatar)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.sync.Get(c.Request.Context(), auth.OwnerID(c))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "profile": p})
}

func (h *Handler) update(c *gin.Context) {
	var in domain.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.sync.Update(c.Request.Context(), auth.OwnerID(c), in)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "profile": p})
}

func (h *Handler) uploadAvatar(c *gin.Context) {
	if h.avatars == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"ok": false, "error": "avatar storage not configured"})
		return
	}

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "avatar file required"})
		return
	}
	defer file.Close()

	if header.Size > maxAvatarBytes {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "avatar too large"})
		return
	}

	owner := auth.OwnerID(c)
	url, err := h.avatars.PutAvatar(c.Request.Context(), owner, header.Header.Get("Content-Type"), file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	p, err := h.sync.SetAvatar(c.Request.Context(), owner, url)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "profile": p})
}

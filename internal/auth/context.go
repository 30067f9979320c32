package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxOwnerID = "owner_id"
	CtxEmail   = "email"
)

// OwnerID extracts the authenticated user's id from the Gin context. Empty
// when the request is unauthenticated; the sync layer treats that as
// Unauthenticated rather than guessing.
func OwnerID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxOwnerID))
}

// Email returns the authenticated user's email, when the token carried one.
func Email(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxEmail))
}

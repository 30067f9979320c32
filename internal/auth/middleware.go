package auth

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ProfileEnsurer upserts the profile row on authenticated requests, so
// every owner id seen by the API has a matching profile.
type ProfileEnsurer interface {
	Ensure(ctx context.Context, ownerID, email string) error
}

// Middleware validates Firebase ID tokens, stores the owner id in the
// context and makes sure the profile row exists.
func Middleware(authClient *auth.Client, profiles ProfileEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing authorization token"})
			c.Abort()
			return
		}

		decoded, err := authClient.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(CtxOwnerID, decoded.UID)
		if email, ok := decoded.Claims["email"].(string); ok {
			c.Set(CtxEmail, email)
		}

		if profiles != nil {
			if err := profiles.Ensure(c.Request.Context(), decoded.UID, Email(c)); err != nil {
				// Non-fatal: the request proceeds, the upsert retries next time.
				log.WithError(err).WithField("owner", decoded.UID).Warn("profile ensure failed")
			}
		}

		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header.
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}

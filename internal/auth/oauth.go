package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/clientdesk/clientdesk-backend/config"
	"github.com/clientdesk/clientdesk-backend/internal/syncstore"
)

// NewOAuthConfig builds the exchange config for the provider named in env.
func NewOAuthConfig(cfg config.OAuthConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.AuthURL,
			TokenURL: cfg.TokenURL,
		},
	}
}

// CallbackHandler finishes the OAuth sign-in: exchanges the provider code
// for a token, hands the session to the SPA via cookie and redirects back.
// Failures redirect to the login page with an error flag rather than render
// anything here.
func CallbackHandler(oc *oauth2.Config, frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Query("code")
		if strings.TrimSpace(code) == "" {
			c.Redirect(http.StatusTemporaryRedirect, frontendURL+"/login?error=missing_code")
			return
		}

		token, err := oc.Exchange(c.Request.Context(), code)
		if err != nil {
			log.WithError(err).Warn("oauth code exchange failed")
			c.Redirect(http.StatusTemporaryRedirect, frontendURL+"/login?error=exchange_failed")
			return
		}

		maxAge := int(time.Until(token.Expiry).Seconds())
		if maxAge <= 0 {
			maxAge = 3600
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie("session_token", token.AccessToken, maxAge, "/", "", true, true)
		c.Redirect(http.StatusTemporaryRedirect, frontendURL+"/dashboard")
	}
}

// SignOutHandler drops the caller's cached state. Session revocation itself
// happens client-side with the identity provider; this is the onChange hook
// that keeps the cache from leaking across sign-ins.
func SignOutHandler(store *syncstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := OwnerID(c)
		if owner == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "not authenticated"})
			return
		}

		store.ClearOwner(owner)
		c.SetCookie("session_token", "", -1, "/", "", true, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

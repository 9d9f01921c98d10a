package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/bassista/go_storefront/internal/logger"
)

const adminRealm = `Basic realm="storefront admin"`

// AdminAuth guards the admin routes with HTTP Basic credentials checked against a bcrypt hash.
// With an empty hash every admin request is refused.
func AdminAuth(username, passwordHash string) gin.HandlerFunc {
	if passwordHash == "" {
		logger.WithComponent("auth").Warn("admin password hash not set, admin API is disabled")
	}

	return func(c *gin.Context) {
		if passwordHash == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin access not configured"})
			return
		}
		user, pass, ok := c.Request.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(username)) != 1 ||
			bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(pass)) != nil {
			logger.WithComponent("auth").Debugf("admin authentication failed for %s %s", c.Request.Method, c.Request.URL.Path)
			c.Header("WWW-Authenticate", adminRealm)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bassista/go_storefront/internal/logger"
)

// RequestTimeout sets a per-request context deadline and answers 504 when a handler
// gave up on it without writing. Handlers are not interrupted; they must honor ctx.Done().
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	if d <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		// A written response cannot be replaced.
		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			logger.WithComponent("http").Warnf("%s %s exceeded %s", c.Request.Method, c.Request.URL.Path, d)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{
				"error": "request timeout",
			})
			return
		}
	}
}

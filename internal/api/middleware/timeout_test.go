package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassista/go_storefront/internal/logger"
)

func captureLogs(t *testing.T) *logtest.Hook {
	t.Helper()
	hook := logtest.NewLocal(logger.Logger)
	t.Cleanup(func() { logger.Logger.ReplaceHooks(make(logrus.LevelHooks)) })
	return hook
}

// slowExport waits for the export to finish or for the request deadline.
func slowExport(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		select {
		case <-time.After(d):
			c.Data(http.StatusOK, "application/pdf", []byte("%PDF-1.3"))
		case <-c.Request.Context().Done():
		}
	}
}

func TestRequestTimeout(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		handler  gin.HandlerFunc
		wantCode int
		wantWarn bool
	}{
		{"disabled", 0, slowExport(10 * time.Millisecond), http.StatusOK, false},
		{"negative disables", -time.Second, slowExport(10 * time.Millisecond), http.StatusOK, false},
		{"export finishes in time", time.Second, slowExport(10 * time.Millisecond), http.StatusOK, false},
		{"export gives up on deadline", 30 * time.Millisecond, slowExport(time.Second), http.StatusGatewayTimeout, true},
		{"written response is kept", 30 * time.Millisecond, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "UP"})
			<-c.Request.Context().Done()
		}, http.StatusOK, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hook := captureLogs(t)
			r := gin.New()
			r.Use(RequestTimeout(tt.timeout))
			r.GET("/api/catalog/download", tt.handler)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/catalog/download", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			if !tt.wantWarn {
				for _, e := range hook.AllEntries() {
					assert.NotEqual(t, logrus.WarnLevel, e.Level, e.Message)
				}
				return
			}
			assert.JSONEq(t, `{"error":"request timeout"}`, w.Body.String())
			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, logrus.WarnLevel, entry.Level)
			assert.Equal(t, "http", entry.Data["component"])
			assert.Contains(t, entry.Message, "GET /api/catalog/download exceeded 30ms")
		})
	}
}

func TestRequestTimeout_DeadlineReachesFacadeCalls(t *testing.T) {
	r := gin.New()
	r.Use(RequestTimeout(2 * time.Second))

	var remaining time.Duration
	r.GET("/api/products", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		require.True(t, ok)
		remaining = time.Until(deadline)
		c.JSON(http.StatusOK, []gin.H{})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Greater(t, remaining, time.Second)
	assert.LessOrEqual(t, remaining, 2*time.Second)
}

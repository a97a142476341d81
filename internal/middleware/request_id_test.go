//go:build !integration

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/guttosm/giga-bot/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		header   string
		keepsOwn bool
	}{
		{name: "generates an id when none is sent", header: ""},
		{name: "keeps a short token", header: "tg-update-8431.2", keepsOwn: true},
		{name: "replaces an oversized id", header: strings.Repeat("a", maxRequestIDLength+1)},
		{name: "replaces an id with spaces", header: "id with spaces"},
		{name: "replaces an id with markup", header: "<script>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromGin, fromCtx string
			router := gin.New()
			router.Use(RequestID())
			router.POST("/hook", func(c *gin.Context) {
				fromGin = GetRequestID(c)
				fromCtx = logger.RequestIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/hook", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, fromGin, w.Header().Get(RequestIDHeader))
			assert.Equal(t, fromGin, fromCtx)
			if tt.keepsOwn {
				assert.Equal(t, tt.header, fromGin)
				return
			}
			_, err := uuid.Parse(fromGin)
			assert.NoError(t, err)
		})
	}
}

func TestGetRequestID_Unset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Empty(t, GetRequestID(c))
}

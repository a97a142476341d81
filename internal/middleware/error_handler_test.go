//go:build !integration

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/giga-bot/internal/i18n"
	"github.com/stretchr/testify/assert"
)

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		path           string
		acceptLanguage string
		setupHandler   func(*gin.Engine)
		expectedStatus int
		expectedBody   string
		mustContain    []string
	}{
		{
			name:           "handles gin context errors",
			path:           "/error",
			acceptLanguage: "en-US,en;q=0.9",
			setupHandler: func(router *gin.Engine) {
				router.GET("/error", func(c *gin.Context) {
					_ = c.Error(errors.New("test error"))
				})
			},
			expectedStatus: http.StatusInternalServerError,
			mustContain:    []string{"internal_error", "An unexpected error occurred"},
		},
		{
			name: "bind errors become bad requests in the default locale",
			path: "/bind",
			setupHandler: func(router *gin.Engine) {
				router.GET("/bind", func(c *gin.Context) {
					_ = c.Error(errors.New("bad json")).SetType(gin.ErrorTypeBind)
				})
			},
			expectedStatus: http.StatusBadRequest,
			mustContain:    []string{"invalid_request", "Некорректный запрос"},
		},
		{
			name: "keeps a response already written",
			path: "/written",
			setupHandler: func(router *gin.Engine) {
				router.GET("/written", func(c *gin.Context) {
					c.String(http.StatusAccepted, "done")
					_ = c.Error(errors.New("late error"))
				})
			},
			expectedStatus: http.StatusAccepted,
			expectedBody:   "done",
		},
		{
			name: "does nothing when no errors",
			path: "/ok",
			setupHandler: func(router *gin.Engine) {
				router.GET("/ok", func(c *gin.Context) {
					c.String(http.StatusOK, "ok")
				})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestID(), ErrorHandler())
			tt.setupHandler(router)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.acceptLanguage != "" {
				req.Header.Set(i18n.AcceptLanguageHeader, tt.acceptLanguage)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, w.Body.String())
			}
			for _, substr := range tt.mustContain {
				assert.Contains(t, w.Body.String(), substr)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID())
	router.NoRoute(NotFound())

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(i18n.AcceptLanguageHeader, "en")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
	assert.Contains(t, w.Body.String(), "Not found")
	assert.Contains(t, w.Body.String(), w.Header().Get(RequestIDHeader))
}

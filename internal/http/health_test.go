//go:build !integration

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/giga-bot/internal/cache"
	"github.com/guttosm/giga-bot/internal/circuitbreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticStats cache.Stats

func (s staticStats) Stats() cache.Stats { return cache.Stats(s) }

func openBreaker(t *testing.T, name string) *circuitbreaker.CircuitBreaker {
	t.Helper()
	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		Name:             name,
	})
	_ = cb.Execute(context.Background(), func(context.Context) error { return errors.New("down") })
	require.True(t, cb.IsOpen())
	return cb
}

func TestHealthHandler_Liveness(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHealthHandler().Register(router)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_Readiness(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		setupHandler   func(t *testing.T) *HealthHandler
		expectedStatus int
		expectedState  string
		expectedChecks map[string]any
	}{
		{
			name: "no breakers",
			setupHandler: func(*testing.T) *HealthHandler {
				return NewHealthHandler()
			},
			expectedStatus: http.StatusOK,
			expectedState:  "ok",
			expectedChecks: map[string]any{"service": "ok"},
		},
		{
			name: "healthy circuit breaker",
			setupHandler: func(*testing.T) *HealthHandler {
				handler := NewHealthHandler()
				handler.RegisterCircuitBreaker("binance", circuitbreaker.New(circuitbreaker.DefaultConfig()))
				return handler
			},
			expectedStatus: http.StatusOK,
			expectedState:  "ok",
			expectedChecks: map[string]any{"binance_circuit": "closed"},
		},
		{
			name: "open circuit breaker degrades",
			setupHandler: func(t *testing.T) *HealthHandler {
				handler := NewHealthHandler()
				handler.RegisterCircuitBreaker("binance", circuitbreaker.New(circuitbreaker.DefaultConfig()))
				handler.RegisterCircuitBreaker("coinbase", openBreaker(t, "coinbase"))
				return handler
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedState:  "degraded",
			expectedChecks: map[string]any{"binance_circuit": "closed", "coinbase_circuit": "open"},
		},
		{
			name: "nil breaker is ignored",
			setupHandler: func(*testing.T) *HealthHandler {
				handler := NewHealthHandler()
				handler.RegisterCircuitBreaker("missing", nil)
				return handler
			},
			expectedStatus: http.StatusOK,
			expectedState:  "ok",
			expectedChecks: map[string]any{"service": "ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			tt.setupHandler(t).Register(router)

			req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedState, body["status"])
			assert.Equal(t, tt.expectedChecks, body["checks"])
			assert.NotContains(t, body, "caches")
		})
	}
}

func TestHealthHandler_ReadinessIncludesCaches(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHealthHandler()
	handler.RegisterCache("stats", staticStats{Hits: 3, Misses: 1, Fetches: 1, Coalesced: 2})
	handler.RegisterCache("nil", nil)

	router := gin.New()
	handler.Register(router)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"status": "ok",
		"checks": {"service": "ok"},
		"caches": {"stats": {"hits": 3, "misses": 1, "fetches": 1, "coalesced": 2, "failures": 0}}
	}`, w.Body.String())
}

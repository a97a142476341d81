package http

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/giga-bot/internal/cache"
	"github.com/guttosm/giga-bot/internal/circuitbreaker"
)

// CacheStatter exposes counters of a cached data source.
type CacheStatter interface {
	Stats() cache.Stats
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	circuitBreakers map[string]*circuitbreaker.CircuitBreaker
	caches          map[string]CacheStatter
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		circuitBreakers: make(map[string]*circuitbreaker.CircuitBreaker),
		caches:          make(map[string]CacheStatter),
	}
}

// RegisterCircuitBreaker registers a circuit breaker for health monitoring. nil is ignored.
func (h *HealthHandler) RegisterCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker) {
	if cb != nil {
		h.circuitBreakers[name] = cb
	}
}

// RegisterCache adds cache counters to the readiness report.
func (h *HealthHandler) RegisterCache(name string, c CacheStatter) {
	if c != nil {
		h.caches[name] = c
	}
}

// Register registers health endpoints on the router.
func (h *HealthHandler) Register(r gin.IRoutes) {
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
}

// Liveness reports that the process is serving requests.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness reports breaker states and cache counters.
// Any breaker that is not closed turns the answer into 503 "degraded".
func (h *HealthHandler) Readiness(c *gin.Context) {
	status := http.StatusOK
	checks := make(map[string]interface{})

	for _, name := range sortedKeys(h.circuitBreakers) {
		stats := h.circuitBreakers[name].GetStats()
		checks[name+"_circuit"] = stats.State
		if !stats.IsHealthy {
			status = http.StatusServiceUnavailable
		}
	}

	if len(checks) == 0 {
		checks["service"] = "ok"
	}

	body := gin.H{
		"status": map[bool]string{true: "ok", false: "degraded"}[status == http.StatusOK],
		"checks": checks,
	}

	if len(h.caches) > 0 {
		caches := make(map[string]gin.H, len(h.caches))
		for name, cs := range h.caches {
			s := cs.Stats()
			caches[name] = gin.H{
				"hits":      s.Hits,
				"misses":    s.Misses,
				"fetches":   s.Fetches,
				"coalesced": s.Coalesced,
				"failures":  s.Failures,
			}
		}
		body["caches"] = caches
	}

	c.JSON(status, body)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"merchtable/internal/infrastructure/storage/postgres"
)

// HealthHandler provides health check endpoints. A nil pool (memory-backed
// deployment) reports ready unconditionally.
type HealthHandler struct {
	pool *postgres.Pool
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(pool *postgres.Pool) *HealthHandler {
	return &HealthHandler{pool: pool}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.pool == nil {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"checks": map[string]string{
				"storage": "memory",
			},
		})
		return
	}

	if err := h.pool.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"checks": map[string]string{
				"database": "unhealthy: " + err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": map[string]string{
			"database": "healthy",
		},
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	info := gin.H{
		"app":     "merchtable",
		"version": "0.1.0",
	}

	if h.pool != nil {
		stat := h.pool.Stat()
		info["database"] = map[string]any{
			"total_conns":    stat.TotalConns(),
			"acquired_conns": stat.AcquiredConns(),
			"idle_conns":     stat.IdleConns(),
			"max_conns":      stat.MaxConns(),
		}
	}

	c.JSON(http.StatusOK, info)
}

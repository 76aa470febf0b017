package metrics

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpPlatform "github.com/smartcvnaija/jobbroker/internal/platform/http"
	"github.com/smartcvnaija/jobbroker/internal/platform/queue"
)

// Handler exposes the Collector and HealthChecker as gin endpoints.
type Handler struct {
	collector *Collector
	health    *HealthChecker
	queues    *queue.Queue
}

func NewHandler(collector *Collector, health *HealthChecker, queues *queue.Queue) *Handler {
	return &Handler{collector: collector, health: health, queues: queues}
}

// Health backs both /health and /api/health: 200 iff every probe is up,
// else 503 so load balancers and uptime checks pull the instance.
//
// @Summary Liveness check
// @Tags system
// @Produce json
// @Success 200 {object} httpPlatform.HealthResponse
// @Failure 503 {object} httpPlatform.HealthResponse
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	services, healthy := h.health.Check(c.Request.Context())
	if !healthy {
		c.JSON(http.StatusServiceUnavailable, httpPlatform.HealthResponse{
			Status:   "degraded",
			Version:  "1.0.0",
			Services: services,
		})
		return
	}
	httpPlatform.RespondWithHealth(c, services)
}

// Metrics backs /api/metrics: process uptime, goroutine count, heap usage,
// database pool status, and per-queue stats.
//
// @Summary Process and dependency metrics
// @Tags system
// @Produce json
// @Success 200 {object} Snapshot
// @Router /api/metrics [get]
func (h *Handler) Metrics(c *gin.Context) {
	snapshot, err := h.collector.Collect(c.Request.Context())
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "METRICS_UNAVAILABLE", err.Error())
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, snapshot)
}

// QueueStats backs /api/queue/stats, the admin console's dedicated queue
// depth/retry view without the rest of the process-metrics payload.
//
// @Summary Queue depth and retry stats
// @Tags system
// @Produce json
// @Success 200 {object} []queue.Stats
// @Router /api/queue/stats [get]
func (h *Handler) QueueStats(c *gin.Context) {
	stats, err := h.queues.Stats(c.Request.Context())
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "QUEUE_STATS_UNAVAILABLE", err.Error())
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, stats)
}

// RegisterRoutes mounts the health/metrics endpoints on both the
// unauthenticated root path (for load-balancer probes) and under /api.
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.Health)
	router.GET("/api/health", h.Health)
	router.GET("/api/metrics", h.Metrics)
	router.GET("/api/queue/stats", h.QueueStats)
}

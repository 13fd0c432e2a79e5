package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/studieplein/presentie-api/internal/service"
	"github.com/studieplein/presentie-api/pkg/response"
)

// HealthHandler reports process health and exposes Prometheus metrics.
type HealthHandler struct {
	db      *sqlx.DB
	redis   *redis.Client
	metrics *service.MetricsService
	started time.Time
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *sqlx.DB, redisClient *redis.Client, metrics *service.MetricsService) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient, metrics: metrics, started: time.Now()}
}

// Health pings the dependencies and reports an aggregate status.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	components := gin.H{}
	status := "ok"

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			components["database"] = "down"
			status = "degraded"
		} else {
			components["database"] = "up"
		}
	}
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			components["redis"] = "down"
			status = "degraded"
		} else {
			components["redis"] = "up"
		}
	}

	payload := gin.H{
		"status":         status,
		"uptime_seconds": int(time.Since(h.started).Seconds()),
		"components":     components,
	}
	if h.metrics != nil {
		payload["metrics"] = h.metrics.Snapshot()
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	response.JSON(c, code, payload, nil)
}

// Metrics serves the Prometheus exposition endpoint.
func (h *HealthHandler) Metrics(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/prometheus"
	"github.com/hukumtek/LexIntel/pkg/types/common"
)

const checkTimeout = 3 * time.Second

// HealthChecker probes one dependency.
type HealthChecker func(ctx context.Context) error

// HealthHandler serves liveness and readiness endpoints.
type HealthHandler struct {
	checks  map[string]HealthChecker
	metrics *prometheus.AppMetrics
	logger  logging.Logger
}

// NewHealthHandler constructs a HealthHandler over named dependency checks.
func NewHealthHandler(checks map[string]HealthChecker, metrics *prometheus.AppMetrics, log logging.Logger) *HealthHandler {
	return &HealthHandler{checks: checks, metrics: metrics, logger: log.Named("health")}
}

// Register mounts the health routes on the root router.
func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
}

// Liveness reports the process is up.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": common.HealthUp})
}

type componentStatus struct {
	Status common.HealthStatus `json:"status"`
	Error  string              `json:"error,omitempty"`
}

// Readiness probes every dependency; any failure yields 503.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	overall := common.HealthUp
	components := make(map[string]componentStatus, len(h.checks))
	for name, check := range h.checks {
		status := componentStatus{Status: common.HealthUp}
		if err := check(ctx); err != nil {
			status = componentStatus{Status: common.HealthDown, Error: err.Error()}
			overall = common.HealthDown
			h.logger.Warn("dependency check failed",
				logging.String("component", name), logging.Err(err))
		}
		if h.metrics != nil {
			h.metrics.SetHealth(name, status.Status == common.HealthUp)
		}
		components[name] = status
	}

	code := http.StatusOK
	if overall != common.HealthUp {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": overall, "components": components})
}

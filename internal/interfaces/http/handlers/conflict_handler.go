package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hukumtek/LexIntel/internal/domain/analysis"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/pkg/errors"
)

// Scanner runs and serves conflict scans.
type Scanner interface {
	Scan(ctx context.Context, versionID uuid.UUID, threshold float64) (*analysis.ConflictScanRecord, error)
	Get(ctx context.Context, versionID uuid.UUID) (*analysis.ConflictScanRecord, error)
}

// ConflictHandler serves conflict-scan endpoints.
type ConflictHandler struct {
	service Scanner
	logger  logging.Logger
}

// NewConflictHandler constructs a ConflictHandler.
func NewConflictHandler(service Scanner, log logging.Logger) *ConflictHandler {
	return &ConflictHandler{service: service, logger: log.Named("conflicts")}
}

// Register mounts the conflict-scan routes on an API group.
func (h *ConflictHandler) Register(api *gin.RouterGroup) {
	api.POST("/versions/:id/conflict-scan", h.Scan)
	api.GET("/versions/:id/conflict-scan", h.Get)
}

type scanRequest struct {
	Threshold float64 `json:"threshold"`
}

// Scan runs a conflict scan of a completed version against the law corpus.
func (h *ConflictHandler) Scan(c *gin.Context) {
	versionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req scanRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, errors.InvalidParam("malformed request body").WithCause(err))
			return
		}
	}

	rec, err := h.service.Scan(c.Request.Context(), versionID, req.Threshold)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Get fetches the most recent stored scan of a version.
func (h *ConflictHandler) Get(c *gin.Context) {
	versionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	rec, err := h.service.Get(c.Request.Context(), versionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

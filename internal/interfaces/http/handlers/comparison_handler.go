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

// Comparer runs and serves version comparisons.
type Comparer interface {
	Compare(ctx context.Context, fromVersionID, toVersionID uuid.UUID) (*analysis.ComparisonRecord, error)
	Get(ctx context.Context, fromVersionID, toVersionID uuid.UUID) (*analysis.ComparisonRecord, error)
}

// ComparisonHandler serves diff endpoints.
type ComparisonHandler struct {
	service Comparer
	logger  logging.Logger
}

// NewComparisonHandler constructs a ComparisonHandler.
func NewComparisonHandler(service Comparer, log logging.Logger) *ComparisonHandler {
	return &ComparisonHandler{service: service, logger: log.Named("comparisons")}
}

// Register mounts the comparison routes on an API group.
func (h *ComparisonHandler) Register(api *gin.RouterGroup) {
	api.POST("/comparisons", h.Compare)
	api.GET("/comparisons", h.Get)
}

type compareRequest struct {
	FromVersionID uuid.UUID `json:"from_version_id" binding:"required"`
	ToVersionID   uuid.UUID `json:"to_version_id" binding:"required"`
}

// Compare runs (or serves the stored result of) a version diff.
func (h *ComparisonHandler) Compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidParam("malformed request body").WithCause(err))
		return
	}

	rec, err := h.service.Compare(c.Request.Context(), req.FromVersionID, req.ToVersionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Get fetches a previously stored comparison by version pair.
func (h *ComparisonHandler) Get(c *gin.Context) {
	fromID, ok := queryUUID(c, "from_version_id")
	if !ok {
		return
	}
	toID, ok := queryUUID(c, "to_version_id")
	if !ok {
		return
	}
	if fromID == uuid.Nil || toID == uuid.Nil {
		respondError(c, errors.InvalidParam("from_version_id and to_version_id are required"))
		return
	}

	rec, err := h.service.Get(c.Request.Context(), fromID, toID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

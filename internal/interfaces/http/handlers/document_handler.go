package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hukumtek/LexIntel/internal/analysis/segmenter"
	"github.com/hukumtek/LexIntel/internal/application/ingestion"
	"github.com/hukumtek/LexIntel/internal/domain/document"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/pkg/errors"
	"github.com/hukumtek/LexIntel/pkg/types/common"
)

// PageSink stores uploaded page text for later processing.
type PageSink interface {
	SavePages(ctx context.Context, versionID uuid.UUID, pages []segmenter.PageText) error
}

// Ingestor runs the processing pipeline for one version.
type Ingestor interface {
	ProcessVersion(ctx context.Context, versionID uuid.UUID) (*ingestion.Result, error)
}

// DocumentHandler serves document and version endpoints.
type DocumentHandler struct {
	repo     document.Repository
	pages    PageSink
	ingestor Ingestor
	logger   logging.Logger
}

// NewDocumentHandler constructs a DocumentHandler.
func NewDocumentHandler(repo document.Repository, pages PageSink, ingestor Ingestor, log logging.Logger) *DocumentHandler {
	return &DocumentHandler{repo: repo, pages: pages, ingestor: ingestor, logger: log.Named("documents")}
}

// Register mounts the document routes on an API group.
func (h *DocumentHandler) Register(api *gin.RouterGroup) {
	api.POST("/documents", h.CreateDocument)
	api.GET("/documents", h.ListDocuments)
	api.GET("/documents/:id", h.GetDocument)
	api.GET("/documents/:id/versions", h.ListVersions)
	api.POST("/documents/:id/versions", h.CreateVersion)
	api.GET("/versions/:id", h.GetVersion)
	api.POST("/versions/:id/process", h.ProcessVersion)
}

type createDocumentRequest struct {
	Title        string `json:"title" binding:"required"`
	Kind         string `json:"kind" binding:"required"`
	Jurisdiction string `json:"jurisdiction"`
	Language     string `json:"language"`
}

// CreateDocument registers a new legal instrument.
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidParam("malformed request body").WithCause(err))
		return
	}

	doc, err := document.NewDocument(req.Title, common.DocumentKind(req.Kind), req.Jurisdiction, req.Language)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.repo.CreateDocument(c.Request.Context(), doc); err != nil {
		respondError(c, err)
		return
	}
	created(c, doc)
}

// GetDocument returns one document.
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	doc, err := h.repo.GetDocument(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

type listDocumentsResponse struct {
	Documents []*document.Document `json:"documents"`
	Total     int64                `json:"total"`
	Offset    int                  `json:"offset"`
	Limit     int                  `json:"limit"`
}

// ListDocuments pages through documents.
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	offset, limit := pagination(c)
	docs, total, err := h.repo.ListDocuments(c.Request.Context(), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listDocumentsResponse{
		Documents: docs,
		Total:     total,
		Offset:    offset,
		Limit:     limit,
	})
}

// ListVersions returns all versions of one document.
func (h *DocumentHandler) ListVersions(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	versions, err := h.repo.ListVersions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": versions})
}

type createVersionRequest struct {
	Label string               `json:"label" binding:"required"`
	Pages []segmenter.PageText `json:"pages" binding:"required"`
}

// CreateVersion registers a new version with its extracted page text.  The
// version stays pending until processing is triggered.
func (h *DocumentHandler) CreateVersion(c *gin.Context) {
	documentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req createVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidParam("malformed request body").WithCause(err))
		return
	}
	if len(req.Pages) == 0 {
		respondError(c, errors.InvalidInput("version requires at least one page"))
		return
	}

	ctx := c.Request.Context()
	if _, err := h.repo.GetDocument(ctx, documentID); err != nil {
		respondError(c, err)
		return
	}

	version, err := document.NewVersion(documentID, req.Label)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.repo.CreateVersion(ctx, version); err != nil {
		respondError(c, err)
		return
	}
	if err := h.pages.SavePages(ctx, version.ID, req.Pages); err != nil {
		respondError(c, err)
		return
	}
	created(c, version)
}

// GetVersion returns one version with its processing status.
func (h *DocumentHandler) GetVersion(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	version, err := h.repo.GetVersion(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, version)
}

// ProcessVersion runs the ingestion pipeline synchronously and returns the
// run summary.
func (h *DocumentHandler) ProcessVersion(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	result, err := h.ingestor.ProcessVersion(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

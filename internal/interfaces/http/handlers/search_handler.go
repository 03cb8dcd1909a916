package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/internal/infrastructure/search/opensearch"
	"github.com/hukumtek/LexIntel/pkg/errors"
)

// ClauseSearcher runs full-text queries over indexed clauses.
type ClauseSearcher interface {
	Search(ctx context.Context, query string, opts opensearch.SearchOptions) ([]opensearch.Hit, error)
}

// SearchHandler serves the clause search endpoint.
type SearchHandler struct {
	searcher ClauseSearcher
	logger   logging.Logger
}

// NewSearchHandler constructs a SearchHandler.
func NewSearchHandler(searcher ClauseSearcher, log logging.Logger) *SearchHandler {
	return &SearchHandler{searcher: searcher, logger: log.Named("search")}
}

// Register mounts the search route on an API group.
func (h *SearchHandler) Register(api *gin.RouterGroup) {
	api.GET("/search", h.Search)
}

type searchResponse struct {
	Query string           `json:"query"`
	Hits  []opensearch.Hit `json:"hits"`
}

// Search runs a full-text query, optionally scoped to one document or
// version.
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondError(c, errors.InvalidParam("query parameter q is required"))
		return
	}

	documentID, ok := queryUUID(c, "document_id")
	if !ok {
		return
	}
	versionID, ok := queryUUID(c, "version_id")
	if !ok {
		return
	}

	size := 0
	if v, err := strconv.Atoi(c.Query("size")); err == nil && v > 0 && v <= 100 {
		size = v
	}

	hits, err := h.searcher.Search(c.Request.Context(), query, opensearch.SearchOptions{
		DocumentID: documentID,
		VersionID:  versionID,
		Size:       size,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, searchResponse{Query: query, Hits: hits})
}

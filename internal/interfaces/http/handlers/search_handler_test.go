package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/internal/infrastructure/search/opensearch"
	"github.com/hukumtek/LexIntel/pkg/errors"
)

type mockSearcher struct {
	hits     []opensearch.Hit
	err      error
	lastOpts opensearch.SearchOptions
	lastQ    string
}

func (m *mockSearcher) Search(ctx context.Context, query string, opts opensearch.SearchOptions) ([]opensearch.Hit, error) {
	m.lastQ = query
	m.lastOpts = opts
	return m.hits, m.err
}

func searchRouter(s ClauseSearcher) *gin.Engine {
	r := gin.New()
	h := NewSearchHandler(s, logging.NewNopLogger())
	h.Register(r.Group("/api/v1"))
	return r
}

func TestSearchClauses(t *testing.T) {
	searcher := &mockSearcher{hits: []opensearch.Hit{{
		ClauseID: uuid.New(),
		Ref:      "Pasal 27 ayat (3)",
		LawTitle: "UU ITE",
		Text:     "Setiap Orang dengan sengaja ...",
		Score:    4.2,
	}}}
	r := searchRouter(searcher)

	w := doJSON(t, r, http.MethodGet, "/api/v1/search?q=pencemaran+nama+baik&size=5", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "pencemaran nama baik", searcher.lastQ)
	assert.Equal(t, 5, searcher.lastOpts.Size)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Hits, 1)
	assert.Equal(t, "Pasal 27 ayat (3)", resp.Hits[0].Ref)
}

func TestSearchRequiresQuery(t *testing.T) {
	r := searchRouter(&mockSearcher{})
	w := doJSON(t, r, http.MethodGet, "/api/v1/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchScopedToVersion(t *testing.T) {
	versionID := uuid.New()
	searcher := &mockSearcher{}
	r := searchRouter(searcher)

	w := doJSON(t, r, http.MethodGet, "/api/v1/search?q=pasal&version_id="+versionID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, versionID, searcher.lastOpts.VersionID)
	assert.Equal(t, uuid.Nil, searcher.lastOpts.DocumentID)
}

func TestSearchMalformedDocumentID(t *testing.T) {
	r := searchRouter(&mockSearcher{})
	w := doJSON(t, r, http.MethodGet, "/api/v1/search?q=pasal&document_id=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchOversizeIgnored(t *testing.T) {
	searcher := &mockSearcher{}
	r := searchRouter(searcher)

	w := doJSON(t, r, http.MethodGet, "/api/v1/search?q=pasal&size=5000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, searcher.lastOpts.Size)
}

func TestSearchBackendUnavailable(t *testing.T) {
	searcher := &mockSearcher{err: errors.DependencyUnavailable("search cluster unreachable")}
	r := searchRouter(searcher)

	w := doJSON(t, r, http.MethodGet, "/api/v1/search?q=pasal", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(errors.ErrCodeDependencyUnavailable), resp.Code)
}

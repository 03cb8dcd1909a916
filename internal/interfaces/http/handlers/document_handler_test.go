package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hukumtek/LexIntel/internal/analysis/segmenter"
	"github.com/hukumtek/LexIntel/internal/application/ingestion"
	"github.com/hukumtek/LexIntel/internal/domain/document"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/internal/testutil"
	"github.com/hukumtek/LexIntel/pkg/errors"
	"github.com/hukumtek/LexIntel/pkg/types/common"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockPageSink struct {
	saved map[uuid.UUID][]segmenter.PageText
	err   error
}

func (m *mockPageSink) SavePages(ctx context.Context, versionID uuid.UUID, pages []segmenter.PageText) error {
	if m.err != nil {
		return m.err
	}
	if m.saved == nil {
		m.saved = map[uuid.UUID][]segmenter.PageText{}
	}
	m.saved[versionID] = pages
	return nil
}

type mockIngestor struct {
	result *ingestion.Result
	err    error
}

func (m *mockIngestor) ProcessVersion(ctx context.Context, versionID uuid.UUID) (*ingestion.Result, error) {
	return m.result, m.err
}

func documentRouter(repo document.Repository, pages PageSink, ingestor Ingestor) *gin.Engine {
	r := gin.New()
	h := NewDocumentHandler(repo, pages, ingestor, logging.NewNopLogger())
	h.Register(r.Group("/api/v1"))
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateDocument(t *testing.T) {
	var createdDoc *document.Document
	repo := &testutil.DocumentRepoMock{
		CreateDocumentFunc: func(ctx context.Context, doc *document.Document) error {
			createdDoc = doc
			return nil
		},
	}
	r := documentRouter(repo, &mockPageSink{}, &mockIngestor{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/documents", gin.H{
		"title":        "UU Perlindungan Data Pribadi",
		"kind":         "law",
		"jurisdiction": "ID",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, createdDoc)
	assert.Equal(t, common.KindLaw, createdDoc.Kind)
	assert.Equal(t, "id", createdDoc.Language)
}

func TestCreateDocumentInvalidKind(t *testing.T) {
	r := documentRouter(&testutil.DocumentRepoMock{}, &mockPageSink{}, &mockIngestor{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/documents", gin.H{
		"title": "Dokumen", "kind": "novel",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(errors.ErrCodeBadRequest), resp.Code)
}

func TestCreateDocumentMissingTitle(t *testing.T) {
	r := documentRouter(&testutil.DocumentRepoMock{}, &mockPageSink{}, &mockIngestor{})
	w := doJSON(t, r, http.MethodPost, "/api/v1/documents", gin.H{"kind": "law"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDocumentNotFound(t *testing.T) {
	r := documentRouter(&testutil.DocumentRepoMock{}, &mockPageSink{}, &mockIngestor{})
	w := doJSON(t, r, http.MethodGet, "/api/v1/documents/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDocumentMalformedID(t *testing.T) {
	r := documentRouter(&testutil.DocumentRepoMock{}, &mockPageSink{}, &mockIngestor{})
	w := doJSON(t, r, http.MethodGet, "/api/v1/documents/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateVersionStoresPages(t *testing.T) {
	doc, err := document.NewDocument("UU ITE", common.KindLaw, "ID", "id")
	require.NoError(t, err)

	repo := &testutil.DocumentRepoMock{
		GetDocumentFunc: func(ctx context.Context, id uuid.UUID) (*document.Document, error) {
			return doc, nil
		},
	}
	sink := &mockPageSink{}
	r := documentRouter(repo, sink, &mockIngestor{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/documents/"+doc.ID.String()+"/versions", gin.H{
		"label": "2008",
		"pages": []gin.H{{"number": 1, "text": "Pasal 1 ..."}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var version document.DocumentVersion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &version))
	assert.Equal(t, doc.ID, version.DocumentID)
	assert.Equal(t, common.StatusPending, version.Status)

	require.Len(t, sink.saved[version.ID], 1)
	assert.Equal(t, 1, sink.saved[version.ID][0].Number)
}

func TestCreateVersionWithoutPages(t *testing.T) {
	r := documentRouter(&testutil.DocumentRepoMock{}, &mockPageSink{}, &mockIngestor{})
	w := doJSON(t, r, http.MethodPost, "/api/v1/documents/"+uuid.NewString()+"/versions", gin.H{
		"label": "2008",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProcessVersion(t *testing.T) {
	versionID := uuid.New()
	ing := &mockIngestor{result: &ingestion.Result{
		VersionID:   versionID,
		PageCount:   3,
		ClauseCount: 42,
		Confidence:  88,
	}}
	r := documentRouter(&testutil.DocumentRepoMock{}, &mockPageSink{}, ing)

	w := doJSON(t, r, http.MethodPost, "/api/v1/versions/"+versionID.String()+"/process", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result ingestion.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 42, result.ClauseCount)
}

func TestProcessVersionConflict(t *testing.T) {
	ing := &mockIngestor{err: errors.New(errors.ErrCodeVersionAlreadySegmented, "version is already processed")}
	r := documentRouter(&testutil.DocumentRepoMock{}, &mockPageSink{}, ing)

	w := doJSON(t, r, http.MethodPost, "/api/v1/versions/"+uuid.NewString()+"/process", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "DOC_004", resp.Code)
}

func TestListDocuments(t *testing.T) {
	doc, err := document.NewDocument("UU Cipta Kerja", common.KindLaw, "ID", "id")
	require.NoError(t, err)
	repo := &testutil.DocumentRepoMock{
		ListDocumentsFunc: func(ctx context.Context, offset, limit int) ([]*document.Document, int64, error) {
			assert.Equal(t, 0, offset)
			assert.Equal(t, 5, limit)
			return []*document.Document{doc}, 1, nil
		},
	}
	r := documentRouter(repo, &mockPageSink{}, &mockIngestor{})

	w := doJSON(t, r, http.MethodGet, "/api/v1/documents?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp listDocumentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp.Total)
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "UU Cipta Kerja", resp.Documents[0].Title)
}

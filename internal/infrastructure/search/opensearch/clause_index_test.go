package opensearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	opensearchgo "github.com/opensearch-project/opensearch-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hukumtek/LexIntel/internal/config"
	"github.com/hukumtek/LexIntel/internal/domain/clause"
	"github.com/hukumtek/LexIntel/internal/domain/document"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/pkg/errors"
	"github.com/hukumtek/LexIntel/pkg/types/common"
)

func newTestIndex(t *testing.T, serverURL string) *ClauseIndex {
	t.Helper()
	osClient, err := opensearchgo.NewClient(opensearchgo.Config{Addresses: []string{serverURL}})
	require.NoError(t, err)

	c := &Client{os: osClient, logger: logging.NewNopLogger()}
	return NewClauseIndex(c, config.OpenSearchConfig{IndexPrefix: "test", BulkBatchSize: 500}, logging.NewNopLogger())
}

func indexedClause(seq int, ref, text string) *clause.Clause {
	return &clause.Clause{
		ID:            uuid.New(),
		VersionID:     uuid.New(),
		Ref:           ref,
		Type:          common.ClausePasal,
		Text:          text,
		SequenceOrder: seq,
	}
}

func TestEnsureIndexCreatesWhenMissing(t *testing.T) {
	var created bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			assert.Equal(t, "/test-clauses", r.URL.Path)
			body, _ := io.ReadAll(r.Body)
			assert.Contains(t, string(body), `"indonesian"`)
			created = true
			w.Write([]byte(`{"acknowledged":true}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	idx := newTestIndex(t, srv.URL)
	require.NoError(t, idx.EnsureIndex(context.Background()))
	assert.True(t, created)
}

func TestEnsureIndexSkipsWhenPresent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
	}))
	defer srv.Close()

	idx := newTestIndex(t, srv.URL)
	assert.NoError(t, idx.EnsureIndex(context.Background()))
}

func TestIndexClausesBulkPayload(t *testing.T) {
	doc, err := document.NewDocument("UU Perlindungan Data Pribadi", common.KindLaw, "ID", "id")
	require.NoError(t, err)
	versionID := uuid.New()
	c1 := indexedClause(1, "Pasal 1", "Data pribadi adalah data tentang orang perseorangan.")

	var payload string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/_bulk", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		payload = string(body)
		w.Write([]byte(`{"errors":false,"items":[{"index":{"_id":"x","status":201}}]}`))
	}))
	defer srv.Close()

	idx := newTestIndex(t, srv.URL)
	require.NoError(t, idx.IndexClauses(context.Background(), doc, versionID, []*clause.Clause{c1}))

	lines := strings.Split(strings.TrimSpace(payload), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], c1.ID.String())
	assert.Contains(t, lines[0], `"test-clauses"`)

	var src clauseDoc
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &src))
	assert.Equal(t, versionID.String(), src.VersionID)
	assert.Equal(t, "Pasal 1", src.Ref)
	assert.Equal(t, "UU Perlindungan Data Pribadi", src.LawTitle)
}

func TestIndexClausesBatches(t *testing.T) {
	doc, err := document.NewDocument("UU Uji", common.KindLaw, "ID", "id")
	require.NoError(t, err)

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"errors":false,"items":[]}`))
	}))
	defer srv.Close()

	osClient, err := opensearchgo.NewClient(opensearchgo.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	c := &Client{os: osClient, logger: logging.NewNopLogger()}
	idx := NewClauseIndex(c, config.OpenSearchConfig{IndexPrefix: "test", BulkBatchSize: 2}, logging.NewNopLogger())

	clauses := []*clause.Clause{
		indexedClause(1, "Pasal 1", "a"),
		indexedClause(2, "Pasal 2", "b"),
		indexedClause(3, "Pasal 3", "c"),
	}
	require.NoError(t, idx.IndexClauses(context.Background(), doc, uuid.New(), clauses))
	assert.Equal(t, 2, calls)
}

func TestIndexClausesItemFailure(t *testing.T) {
	doc, err := document.NewDocument("UU Uji", common.KindLaw, "ID", "id")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":true,"items":[
			{"index":{"_id":"a","status":201}},
			{"index":{"_id":"b","status":400,"error":{"type":"mapper_parsing_exception","reason":"bad field"}}}
		]}`))
	}))
	defer srv.Close()

	idx := newTestIndex(t, srv.URL)
	err = idx.IndexClauses(context.Background(), doc, uuid.New(), []*clause.Clause{indexedClause(1, "Pasal 1", "a")})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeExternalService))
	assert.Contains(t, err.Error(), "bad field")
}

func TestSearchParsesHits(t *testing.T) {
	clauseID := uuid.New()
	versionID := uuid.New()
	documentID := uuid.New()

	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/test-clauses/_search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		resp := map[string]any{
			"hits": map[string]any{
				"hits": []map[string]any{{
					"_score": 4.2,
					"_source": clauseDoc{
						ClauseID:   clauseID.String(),
						VersionID:  versionID.String(),
						DocumentID: documentID.String(),
						Ref:        "Pasal 27",
						LawTitle:   "UU ITE",
						Text:       "Setiap Orang dilarang mendistribusikan informasi elektronik.",
					},
					"highlight": map[string]any{
						"text": []string{"Setiap Orang <em>dilarang</em> mendistribusikan"},
					},
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	idx := newTestIndex(t, srv.URL)
	hits, err := idx.Search(context.Background(), "dilarang", SearchOptions{VersionID: versionID})
	require.NoError(t, err)
	require.Len(t, hits, 1)

	assert.Equal(t, clauseID, hits[0].ClauseID)
	assert.Equal(t, "Pasal 27", hits[0].Ref)
	assert.InDelta(t, 4.2, hits[0].Score, 1e-9)
	require.Len(t, hits[0].Highlights, 1)
	assert.Contains(t, hits[0].Highlights[0], "<em>dilarang</em>")

	raw, _ := json.Marshal(gotBody)
	assert.Contains(t, string(raw), versionID.String())
	assert.Contains(t, string(raw), "multi_match")
}

func TestSearchEmptyQuery(t *testing.T) {
	idx := newTestIndex(t, "http://unused")
	_, err := idx.Search(context.Background(), "", SearchOptions{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))
}

func TestDeleteVersion(t *testing.T) {
	versionID := uuid.New()
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte(`{"deleted":3}`))
	}))
	defer srv.Close()

	idx := newTestIndex(t, srv.URL)
	require.NoError(t, idx.DeleteVersion(context.Background(), versionID))
	assert.Equal(t, "/test-clauses/_delete_by_query", gotPath)
	assert.Contains(t, gotBody, versionID.String())
}

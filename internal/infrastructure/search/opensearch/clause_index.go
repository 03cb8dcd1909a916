package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/hukumtek/LexIntel/internal/config"
	"github.com/hukumtek/LexIntel/internal/domain/clause"
	"github.com/hukumtek/LexIntel/internal/domain/document"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/pkg/errors"
)

// clauseMapping is the index mapping for segmented clauses.  Clause text is
// analyzed with the built-in Indonesian analyzer so stemmed terms match.
const clauseMapping = `{
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 1
	},
	"mappings": {
		"properties": {
			"clause_id":      {"type": "keyword"},
			"version_id":     {"type": "keyword"},
			"document_id":    {"type": "keyword"},
			"clause_ref":     {"type": "keyword"},
			"clause_type":    {"type": "keyword"},
			"sequence_order": {"type": "integer"},
			"law_title":      {"type": "text", "analyzer": "indonesian"},
			"text":           {"type": "text", "analyzer": "indonesian"}
		}
	}
}`

// clauseDoc is the indexed representation of one clause.
type clauseDoc struct {
	ClauseID      string `json:"clause_id"`
	VersionID     string `json:"version_id"`
	DocumentID    string `json:"document_id"`
	Ref           string `json:"clause_ref"`
	Type          string `json:"clause_type"`
	SequenceOrder int    `json:"sequence_order"`
	LawTitle      string `json:"law_title"`
	Text          string `json:"text"`
}

// Hit is one full-text search result.
type Hit struct {
	ClauseID   uuid.UUID `json:"clause_id"`
	VersionID  uuid.UUID `json:"version_id"`
	DocumentID uuid.UUID `json:"document_id"`
	Ref        string    `json:"clause_ref"`
	LawTitle   string    `json:"law_title"`
	Text       string    `json:"text"`
	Score      float64   `json:"score"`
	Highlights []string  `json:"highlights,omitempty"`
}

// ClauseIndex indexes and searches clauses of segmented versions.
type ClauseIndex struct {
	client    *Client
	indexName string
	batchSize int
	logger    logging.Logger
}

// NewClauseIndex constructs a ClauseIndex.
func NewClauseIndex(c *Client, cfg config.OpenSearchConfig, log logging.Logger) *ClauseIndex {
	prefix := cfg.IndexPrefix
	if prefix == "" {
		prefix = "lexintel"
	}
	batch := cfg.BulkBatchSize
	if batch <= 0 {
		batch = 500
	}
	return &ClauseIndex{
		client:    c,
		indexName: prefix + "-clauses",
		batchSize: batch,
		logger:    log.Named("clauseindex"),
	}
}

// IndexName returns the backing index name.
func (ci *ClauseIndex) IndexName() string {
	return ci.indexName
}

// EnsureIndex creates the clause index when it does not exist yet.
func (ci *ClauseIndex) EnsureIndex(ctx context.Context) error {
	existsReq := opensearchapi.IndicesExistsRequest{Index: []string{ci.indexName}}
	resp, err := existsReq.Do(ctx, ci.client.OS())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "failed to check clause index")
	}
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		// create below
	default:
		return errors.Newf(errors.ErrCodeExternalService, "index existence check returned %d", resp.StatusCode)
	}

	createReq := opensearchapi.IndicesCreateRequest{
		Index: ci.indexName,
		Body:  bytes.NewReader([]byte(clauseMapping)),
	}
	createResp, err := createReq.Do(ctx, ci.client.OS())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "failed to create clause index")
	}
	defer createResp.Body.Close()

	if createResp.IsError() {
		return errors.Newf(errors.ErrCodeExternalService, "clause index creation returned %d", createResp.StatusCode)
	}

	ci.logger.Info("created clause index", logging.String("index", ci.indexName))
	return nil
}

// IndexClauses bulk-indexes all clauses of one segmented version.
func (ci *ClauseIndex) IndexClauses(ctx context.Context, doc *document.Document, versionID uuid.UUID, clauses []*clause.Clause) error {
	if doc == nil {
		return errors.InvalidParam("document is required")
	}
	if len(clauses) == 0 {
		return errors.InvalidInput("no clauses to index")
	}

	for start := 0; start < len(clauses); start += ci.batchSize {
		end := start + ci.batchSize
		if end > len(clauses) {
			end = len(clauses)
		}
		if err := ci.bulkIndex(ctx, doc, versionID, clauses[start:end]); err != nil {
			return err
		}
	}

	ci.logger.Info("indexed clauses",
		logging.String("version_id", versionID.String()),
		logging.Int("count", len(clauses)))
	return nil
}

func (ci *ClauseIndex) bulkIndex(ctx context.Context, doc *document.Document, versionID uuid.UUID, batch []*clause.Clause) error {
	var buf bytes.Buffer
	for _, cl := range batch {
		fmt.Fprintf(&buf, `{"index":{"_index":%q,"_id":%q}}`+"\n", ci.indexName, cl.ID.String())

		line, err := json.Marshal(clauseDoc{
			ClauseID:      cl.ID.String(),
			VersionID:     versionID.String(),
			DocumentID:    doc.ID.String(),
			Ref:           cl.Ref,
			Type:          string(cl.Type),
			SequenceOrder: cl.SequenceOrder,
			LawTitle:      doc.Title,
			Text:          cl.Text,
		})
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode clause document")
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	req := opensearchapi.BulkRequest{Body: bytes.NewReader(buf.Bytes())}
	resp, err := req.Do(ctx, ci.client.OS())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "bulk index request failed")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return errors.Newf(errors.ErrCodeExternalService, "bulk index returned %d", resp.StatusCode)
	}

	var bulkResp struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bulkResp); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode bulk response")
	}

	if bulkResp.Errors {
		failed := 0
		reason := ""
		for _, item := range bulkResp.Items {
			for _, v := range item {
				if v.Status < 200 || v.Status >= 300 {
					failed++
					if reason == "" {
						reason = v.Error.Reason
					}
				}
			}
		}
		return errors.Newf(errors.ErrCodeExternalService, "bulk index rejected %d clauses", failed).
			WithDetail(reason)
	}
	return nil
}

// DeleteVersion removes every indexed clause of a version.
func (ci *ClauseIndex) DeleteVersion(ctx context.Context, versionID uuid.UUID) error {
	body := fmt.Sprintf(`{"query":{"term":{"version_id":%q}}}`, versionID.String())
	req := opensearchapi.DeleteByQueryRequest{
		Index: []string{ci.indexName},
		Body:  bytes.NewReader([]byte(body)),
	}
	resp, err := req.Do(ctx, ci.client.OS())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "delete by query failed")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return errors.Newf(errors.ErrCodeExternalService, "delete by query returned %d", resp.StatusCode)
	}
	return nil
}

// SearchOptions narrows a full-text query.
type SearchOptions struct {
	// DocumentID restricts hits to one document when non-nil UUID.
	DocumentID uuid.UUID
	// VersionID restricts hits to one version when non-nil UUID.
	VersionID uuid.UUID
	Size      int
}

// Search runs a match query over clause text and law titles, most relevant
// first, with highlighted fragments of the clause text.
func (ci *ClauseIndex) Search(ctx context.Context, query string, opts SearchOptions) ([]Hit, error) {
	if query == "" {
		return nil, errors.InvalidInput("search query is empty")
	}
	size := opts.Size
	if size <= 0 {
		size = 20
	}

	must := []map[string]any{{
		"multi_match": map[string]any{
			"query":  query,
			"fields": []string{"text^2", "law_title"},
		},
	}}
	var filter []map[string]any
	if opts.DocumentID != uuid.Nil {
		filter = append(filter, map[string]any{"term": map[string]any{"document_id": opts.DocumentID.String()}})
	}
	if opts.VersionID != uuid.Nil {
		filter = append(filter, map[string]any{"term": map[string]any{"version_id": opts.VersionID.String()}})
	}

	body := map[string]any{
		"size": size,
		"query": map[string]any{
			"bool": map[string]any{
				"must":   must,
				"filter": filter,
			},
		},
		"highlight": map[string]any{
			"fields": map[string]any{"text": map[string]any{}},
		},
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode search request")
	}

	req := opensearchapi.SearchRequest{
		Index: []string{ci.indexName},
		Body:  bytes.NewReader(raw),
	}
	resp, err := req.Do(ctx, ci.client.OS())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "search request failed")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, errors.Newf(errors.ErrCodeExternalService, "search returned %d", resp.StatusCode)
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Score     float64   `json:"_score"`
				Source    clauseDoc `json:"_source"`
				Highlight struct {
					Text []string `json:"text"`
				} `json:"highlight"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode search response")
	}

	hits := make([]Hit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hit, err := toHit(h.Source, h.Score, h.Highlight.Text)
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func toHit(src clauseDoc, score float64, highlights []string) (Hit, error) {
	clauseID, err := uuid.Parse(src.ClauseID)
	if err != nil {
		return Hit{}, errors.Wrap(err, errors.ErrCodeIntegrityViolation, "indexed clause has malformed id")
	}
	versionID, err := uuid.Parse(src.VersionID)
	if err != nil {
		return Hit{}, errors.Wrap(err, errors.ErrCodeIntegrityViolation, "indexed clause has malformed version id")
	}
	documentID, err := uuid.Parse(src.DocumentID)
	if err != nil {
		return Hit{}, errors.Wrap(err, errors.ErrCodeIntegrityViolation, "indexed clause has malformed document id")
	}
	return Hit{
		ClauseID:   clauseID,
		VersionID:  versionID,
		DocumentID: documentID,
		Ref:        src.Ref,
		LawTitle:   src.LawTitle,
		Text:       src.Text,
		Score:      score,
		Highlights: highlights,
	}, nil
}

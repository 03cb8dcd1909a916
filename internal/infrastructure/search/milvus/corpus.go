package milvus

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/hukumtek/LexIntel/internal/analysis/conflict"
	"github.com/hukumtek/LexIntel/internal/config"
	"github.com/hukumtek/LexIntel/internal/domain/clause"
	"github.com/hukumtek/LexIntel/internal/domain/document"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/pkg/errors"
)

// Collection field names.  clause_id is the primary key so re-indexing a
// version upserts instead of duplicating.
const (
	fieldClauseID   = "clause_id"
	fieldDocumentID = "document_id"
	fieldLawTitle   = "law_title"
	fieldLawRef     = "law_ref"
	fieldText       = "text"
	fieldVector     = "vector"
)

const defaultSearchEf = 64

// CorpusStore owns the clause-corpus collection: it indexes completed
// versions and answers the similarity queries used by conflict detection.
type CorpusStore struct {
	client *Client
	cfg    config.MilvusConfig
	logger logging.Logger
}

// NewCorpusStore constructs a CorpusStore.
func NewCorpusStore(c *Client, cfg config.MilvusConfig, log logging.Logger) *CorpusStore {
	if cfg.HNSWM == 0 {
		cfg.HNSWM = 16
	}
	if cfg.HNSWEfConstruction == 0 {
		cfg.HNSWEfConstruction = 200
	}
	return &CorpusStore{client: c, cfg: cfg, logger: log.Named("corpus")}
}

func (s *CorpusStore) schema() *entity.Schema {
	return &entity.Schema{
		CollectionName: s.cfg.Collection,
		Description:    "clause corpus for conflict detection",
		Fields: []*entity.Field{
			{Name: fieldClauseID, DataType: entity.FieldTypeVarChar, PrimaryKey: true,
				TypeParams: map[string]string{"max_length": "36"}},
			{Name: fieldDocumentID, DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": "36"}},
			{Name: fieldLawTitle, DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": "512"}},
			{Name: fieldLawRef, DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": "128"}},
			{Name: fieldText, DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": "8192"}},
			{Name: fieldVector, DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{"dim": strconv.Itoa(s.cfg.EmbeddingDim)}},
		},
	}
}

// EnsureCollection creates the collection with an HNSW cosine index when it
// does not exist yet, then loads it for querying.
func (s *CorpusStore) EnsureCollection(ctx context.Context) error {
	mc := s.client.Milvus()

	has, err := mc.HasCollection(ctx, s.cfg.Collection)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "failed to check corpus collection")
	}

	if !has {
		if err := mc.CreateCollection(ctx, s.schema(), 2); err != nil {
			return errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "failed to create corpus collection")
		}
		idx, err := entity.NewIndexHNSW(entity.COSINE, s.cfg.HNSWM, s.cfg.HNSWEfConstruction)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to build index definition")
		}
		if err := mc.CreateIndex(ctx, s.cfg.Collection, fieldVector, idx, false); err != nil {
			return errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "failed to create vector index")
		}
		s.logger.Info("created corpus collection",
			logging.String("collection", s.cfg.Collection),
			logging.Int("dim", s.cfg.EmbeddingDim))
	}

	if err := mc.LoadCollection(ctx, s.cfg.Collection, false); err != nil {
		return errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "failed to load corpus collection")
	}
	return nil
}

// IndexVersion upserts every clause of a version into the corpus.  Each
// clause must have exactly one embedding of the configured dimension.
func (s *CorpusStore) IndexVersion(ctx context.Context, doc *document.Document, clauses []*clause.Clause, embeddings []*clause.Embedding) error {
	if doc == nil {
		return errors.InvalidParam("document is required")
	}
	if len(clauses) == 0 {
		return errors.InvalidInput("no clauses to index")
	}

	byClause := make(map[uuid.UUID][]float32, len(embeddings))
	for _, e := range embeddings {
		byClause[e.ClauseID] = e.Vector
	}

	clauseIDs := make([]string, len(clauses))
	documentIDs := make([]string, len(clauses))
	lawTitles := make([]string, len(clauses))
	lawRefs := make([]string, len(clauses))
	texts := make([]string, len(clauses))
	vectors := make([][]float32, len(clauses))

	for i, cl := range clauses {
		vec, ok := byClause[cl.ID]
		if !ok {
			return errors.IntegrityViolation("clause has no embedding").
				WithDetail(fmt.Sprintf("clause %s", cl.ID))
		}
		if len(vec) != s.cfg.EmbeddingDim {
			return errors.IntegrityViolation("embedding dimension mismatch").
				WithDetail(fmt.Sprintf("clause %s: expected %d, got %d", cl.ID, s.cfg.EmbeddingDim, len(vec)))
		}
		clauseIDs[i] = cl.ID.String()
		documentIDs[i] = doc.ID.String()
		lawTitles[i] = doc.Title
		lawRefs[i] = cl.Ref
		texts[i] = cl.Text
		vectors[i] = vec
	}

	_, err := s.client.Milvus().Upsert(ctx, s.cfg.Collection, "",
		entity.NewColumnVarChar(fieldClauseID, clauseIDs),
		entity.NewColumnVarChar(fieldDocumentID, documentIDs),
		entity.NewColumnVarChar(fieldLawTitle, lawTitles),
		entity.NewColumnVarChar(fieldLawRef, lawRefs),
		entity.NewColumnVarChar(fieldText, texts),
		entity.NewColumnFloatVector(fieldVector, s.cfg.EmbeddingDim, vectors),
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "failed to upsert clauses into corpus")
	}

	s.logger.Info("indexed version into corpus",
		logging.String("document_id", doc.ID.String()),
		logging.Int("clauses", len(clauses)))
	return nil
}

// RemoveDocument deletes all corpus entries belonging to a document.
func (s *CorpusStore) RemoveDocument(ctx context.Context, documentID uuid.UUID) error {
	expr := fmt.Sprintf(`%s == "%s"`, fieldDocumentID, documentID)
	if err := s.client.Milvus().Delete(ctx, s.cfg.Collection, "", expr); err != nil {
		return errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "failed to delete document from corpus")
	}
	return nil
}

// Query returns the topK nearest clauses by cosine similarity, excluding
// those of excludeDocumentID.  Implements conflict.CorpusIndex.
func (s *CorpusStore) Query(ctx context.Context, vector []float32, excludeDocumentID uuid.UUID, topK int) ([]conflict.Neighbor, error) {
	if len(vector) == 0 {
		return nil, errors.InvalidInput("query vector is empty")
	}
	if topK <= 0 {
		topK = s.cfg.DefaultTopK
	}

	var expr string
	if excludeDocumentID != uuid.Nil {
		expr = fmt.Sprintf(`%s != "%s"`, fieldDocumentID, excludeDocumentID)
	}

	sp, err := entity.NewIndexHNSWSearchParam(defaultSearchEf)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to build search params")
	}

	results, err := s.client.Milvus().Search(ctx, s.cfg.Collection, nil, expr,
		[]string{fieldDocumentID, fieldLawTitle, fieldLawRef, fieldText},
		[]entity.Vector{entity.FloatVector(vector)},
		fieldVector, entity.COSINE, topK, sp,
		client.WithSearchQueryConsistencyLevel(entity.ClBounded),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "corpus search failed")
	}

	var neighbors []conflict.Neighbor
	for _, res := range results {
		for i := 0; i < res.ResultCount; i++ {
			n, err := s.neighborAt(res, i)
			if err != nil {
				return nil, err
			}
			neighbors = append(neighbors, n)
		}
	}
	return neighbors, nil
}

func (s *CorpusStore) neighborAt(res client.SearchResult, i int) (conflict.Neighbor, error) {
	rawID, err := res.IDs.GetAsString(i)
	if err != nil {
		return conflict.Neighbor{}, errors.Wrap(err, errors.ErrCodeIntegrityViolation, "corpus hit has no clause id")
	}
	clauseID, err := uuid.Parse(rawID)
	if err != nil {
		return conflict.Neighbor{}, errors.Wrap(err, errors.ErrCodeIntegrityViolation, "corpus hit has malformed clause id")
	}

	rawDoc := fieldString(res.Fields, fieldDocumentID, i)
	docID, err := uuid.Parse(rawDoc)
	if err != nil {
		return conflict.Neighbor{}, errors.Wrap(err, errors.ErrCodeIntegrityViolation, "corpus hit has malformed document id")
	}

	return conflict.Neighbor{
		ClauseID:   clauseID,
		DocumentID: docID,
		LawTitle:   fieldString(res.Fields, fieldLawTitle, i),
		LawRef:     fieldString(res.Fields, fieldLawRef, i),
		Text:       fieldString(res.Fields, fieldText, i),
		Score:      float64(res.Scores[i]),
	}, nil
}

func fieldString(rs client.ResultSet, name string, i int) string {
	col := rs.GetColumn(name)
	if col == nil {
		return ""
	}
	v, err := col.GetAsString(i)
	if err != nil {
		return ""
	}
	return v
}

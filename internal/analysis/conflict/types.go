// Package conflict detects semantic conflicts between one version's clauses
// and an indexed corpus of other laws' clauses.  The corpus is a black-box
// nearest-neighbor capability; this package never populates it.
package conflict

import (
	"context"

	"github.com/google/uuid"

	"github.com/hukumtek/LexIntel/internal/domain/clause"
	"github.com/hukumtek/LexIntel/pkg/types/common"
)

// ClauseEmbedding pairs a clause with its embedding vector.  The pairing is
// explicit; positional correlation between separate lists is never assumed.
type ClauseEmbedding struct {
	Clause *clause.Clause
	Vector []float32
}

// Neighbor is one corpus hit: a clause of some other law with its cosine
// similarity to the query vector.
type Neighbor struct {
	ClauseID   uuid.UUID `json:"clause_id"`
	DocumentID uuid.UUID `json:"document_id"`
	LawTitle   string    `json:"law_title"`
	LawRef     string    `json:"law_ref"`
	Text       string    `json:"text"`
	Score      float64   `json:"score"`
}

// CorpusIndex exposes top-K nearest neighbors by cosine similarity,
// excluding hits belonging to a given source document.
type CorpusIndex interface {
	Query(ctx context.Context, vector []float32, excludeDocumentID uuid.UUID, topK int) ([]Neighbor, error)
}

// Flag is one detected conflict between a source clause and an external law.
type Flag struct {
	SourceClauseID     uuid.UUID           `json:"source_clause_id"`
	SourceRef          string              `json:"source_ref"`
	LawTitle           string              `json:"law_title"`
	LawRef             string              `json:"law_ref"`
	OverlapScore       float64             `json:"overlap_score"`
	Type               common.ConflictType `json:"conflict_type"`
	SourceExcerpt      string              `json:"source_excerpt"`
	ConflictingExcerpt string              `json:"conflicting_excerpt"`
	ConfidenceScore    float64             `json:"confidence_score"`
	Severity           common.Severity     `json:"severity"`
}

// Result is the output of one detection run.
type Result struct {
	Conflicts        []*Flag `json:"conflicts"`
	ClausesScanned   int     `json:"clauses_scanned"`
	ProcessingTimeMs int64   `json:"processing_time_ms"`
}

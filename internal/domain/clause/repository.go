package clause

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists clauses and embeddings.  Both tables are append-only:
// CreateClauses must fail when the version already owns clauses (reprocessing
// creates new rows under a fresh version or fails, never overwrites), and
// embeddings are written once per clause.
type Repository interface {
	// CreateClauses inserts the full clause set of a version atomically.
	// Fails with ErrCodeVersionAlreadySegmented when clauses already exist.
	CreateClauses(ctx context.Context, versionID uuid.UUID, clauses []*Clause) error

	// ListByVersion returns the version's clauses ordered by sequence_order.
	ListByVersion(ctx context.Context, versionID uuid.UUID) ([]*Clause, error)

	// CountByVersion returns the number of clauses a version owns.
	CountByVersion(ctx context.Context, versionID uuid.UUID) (int, error)

	// CreateEmbeddings inserts embeddings for a version's clauses atomically.
	CreateEmbeddings(ctx context.Context, embeddings []*Embedding) error

	// ListEmbeddings returns embeddings for a version keyed by clause,
	// ordered by the owning clause's sequence_order.
	ListEmbeddings(ctx context.Context, versionID uuid.UUID) ([]*Embedding, error)
}

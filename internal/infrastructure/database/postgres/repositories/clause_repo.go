package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hukumtek/LexIntel/internal/domain/clause"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/pkg/errors"
)

// ClauseRepository implements clause.Repository.  Clauses and embeddings are
// append-only; there are no update or delete paths.
type ClauseRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewClauseRepository constructs a ready-to-use ClauseRepository.
func NewClauseRepository(pool *pgxpool.Pool, logger logging.Logger) *ClauseRepository {
	return &ClauseRepository{pool: pool, logger: logger.Named("clause-repo")}
}

// CreateClauses inserts the full clause set of a version in one transaction.
// A version that already owns clauses is never overwritten.
func (r *ClauseRepository) CreateClauses(ctx context.Context, versionID uuid.UUID, clauses []*clause.Clause) error {
	if len(clauses) == 0 {
		return errors.InvalidParam("no clauses to insert")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	var existing int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM clauses WHERE version_id = $1`, versionID).Scan(&existing); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to check existing clauses")
	}
	if existing > 0 {
		return errors.New(errors.ErrCodeVersionAlreadySegmented,
			"version already owns clauses").WithDetail(versionID.String())
	}

	rows := make([][]any, 0, len(clauses))
	for _, c := range clauses {
		rows = append(rows, []any{
			c.ID, c.VersionID, c.Ref, c.Type, c.Text,
			c.PageFrom, c.PageTo, c.SequenceOrder, c.AncestorRefs, c.CreatedAt,
		})
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"clauses"},
		[]string{"id", "version_id", "clause_ref", "clause_type", "text",
			"page_from", "page_to", "sequence_order", "ancestor_refs", "created_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to bulk insert clauses")
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to commit clause insert")
	}

	r.logger.Info("persisted clauses",
		logging.String("version_id", versionID.String()),
		logging.Int("count", len(clauses)),
	)
	return nil
}

const clauseColumns = `id, version_id, clause_ref, clause_type, text, page_from, page_to, sequence_order, ancestor_refs, created_at`

// ListByVersion returns the version's clauses in document order.
func (r *ClauseRepository) ListByVersion(ctx context.Context, versionID uuid.UUID) ([]*clause.Clause, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+clauseColumns+` FROM clauses WHERE version_id = $1 ORDER BY sequence_order ASC`,
		versionID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list clauses")
	}
	defer rows.Close()

	var out []*clause.Clause
	for rows.Next() {
		var c clause.Clause
		if err := rows.Scan(&c.ID, &c.VersionID, &c.Ref, &c.Type, &c.Text,
			&c.PageFrom, &c.PageTo, &c.SequenceOrder, &c.AncestorRefs, &c.CreatedAt); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan clause")
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate clauses")
	}
	return out, nil
}

// CountByVersion returns the number of clauses a version owns.
func (r *ClauseRepository) CountByVersion(ctx context.Context, versionID uuid.UUID) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM clauses WHERE version_id = $1`, versionID).Scan(&n); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count clauses")
	}
	return n, nil
}

// CreateEmbeddings inserts embeddings atomically.  Write-once per clause; a
// duplicate insert fails on the primary key rather than overwriting.
func (r *ClauseRepository) CreateEmbeddings(ctx context.Context, embeddings []*clause.Embedding) error {
	if len(embeddings) == 0 {
		return errors.InvalidParam("no embeddings to insert")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	rows := make([][]any, 0, len(embeddings))
	for _, e := range embeddings {
		rows = append(rows, []any{
			e.ClauseID, e.VersionID, e.Vector, e.Dimension, e.Model, e.CreatedAt,
		})
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"clause_embeddings"},
		[]string{"clause_id", "version_id", "vector", "dimension", "model", "created_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to bulk insert embeddings")
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to commit embedding insert")
	}
	return nil
}

// ListEmbeddings returns the version's embeddings ordered by the owning
// clause's sequence_order.
func (r *ClauseRepository) ListEmbeddings(ctx context.Context, versionID uuid.UUID) ([]*clause.Embedding, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.clause_id, e.version_id, e.vector, e.dimension, e.model, e.created_at
		 FROM clause_embeddings e
		 JOIN clauses c ON c.id = e.clause_id
		 WHERE e.version_id = $1
		 ORDER BY c.sequence_order ASC`,
		versionID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list embeddings")
	}
	defer rows.Close()

	var out []*clause.Embedding
	for rows.Next() {
		var e clause.Embedding
		if err := rows.Scan(&e.ClauseID, &e.VersionID, &e.Vector, &e.Dimension, &e.Model, &e.CreatedAt); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan embedding")
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate embeddings")
	}
	return out, nil
}

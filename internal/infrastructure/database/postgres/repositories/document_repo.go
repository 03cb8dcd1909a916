// Package repositories provides the PostgreSQL implementations of LexIntel's
// domain repository interfaces.  Every method takes a context for
// cancellation propagation and uses parameterised queries exclusively.
package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hukumtek/LexIntel/internal/domain/document"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/pkg/errors"
)

// DocumentRepository implements document.Repository.
type DocumentRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewDocumentRepository constructs a ready-to-use DocumentRepository.
func NewDocumentRepository(pool *pgxpool.Pool, logger logging.Logger) *DocumentRepository {
	return &DocumentRepository{pool: pool, logger: logger.Named("document-repo")}
}

const documentColumns = `id, title, kind, jurisdiction, language, created_at, updated_at`

// CreateDocument inserts a new document.
func (r *DocumentRepository) CreateDocument(ctx context.Context, doc *document.Document) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO documents (`+documentColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		doc.ID, doc.Title, doc.Kind, doc.Jurisdiction, doc.Language, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert document")
	}
	r.logger.Debug("created document", logging.String("document_id", doc.ID.String()))
	return nil
}

// GetDocument loads one document by id.
func (r *DocumentRepository) GetDocument(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	return scanDocument(row)
}

// UpdateDocument persists metadata edits.
func (r *DocumentRepository) UpdateDocument(ctx context.Context, doc *document.Document) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE documents SET title = $2, jurisdiction = $3, updated_at = $4 WHERE id = $1`,
		doc.ID, doc.Title, doc.Jurisdiction, doc.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update document")
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.ErrCodeDocumentNotFound, "document not found").WithDetail(doc.ID.String())
	}
	return nil
}

// ListDocuments returns one page of documents, newest first, with the total
// count for pagination.
func (r *DocumentRepository) ListDocuments(ctx context.Context, offset, limit int) ([]*document.Document, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count documents")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+documentColumns+` FROM documents ORDER BY created_at DESC OFFSET $1 LIMIT $2`,
		offset, limit)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list documents")
	}
	defer rows.Close()

	var docs []*document.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate documents")
	}
	return docs, total, nil
}

const versionColumns = `id, document_id, label, page_count, status, status_reason, created_at, updated_at`

// CreateVersion inserts a new document version.
func (r *DocumentRepository) CreateVersion(ctx context.Context, v *document.DocumentVersion) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO document_versions (`+versionColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		v.ID, v.DocumentID, v.Label, v.PageCount, v.Status, v.StatusReason, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert version")
	}
	r.logger.Debug("created version",
		logging.String("version_id", v.ID.String()),
		logging.String("document_id", v.DocumentID.String()),
	)
	return nil
}

// GetVersion loads one version by id.
func (r *DocumentRepository) GetVersion(ctx context.Context, id uuid.UUID) (*document.DocumentVersion, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+versionColumns+` FROM document_versions WHERE id = $1`, id)
	return scanVersion(row)
}

// ListVersions returns all versions of a document, oldest first.
func (r *DocumentRepository) ListVersions(ctx context.Context, documentID uuid.UUID) ([]*document.DocumentVersion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+versionColumns+` FROM document_versions WHERE document_id = $1 ORDER BY created_at ASC`,
		documentID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list versions")
	}
	defer rows.Close()

	var versions []*document.DocumentVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate versions")
	}
	return versions, nil
}

// UpdateVersionStatus persists the status, reason, and page count recorded on
// the entity.
func (r *DocumentRepository) UpdateVersionStatus(ctx context.Context, v *document.DocumentVersion) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE document_versions SET status = $2, status_reason = $3, page_count = $4, updated_at = $5 WHERE id = $1`,
		v.ID, v.Status, v.StatusReason, v.PageCount, v.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update version status")
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.ErrCodeVersionNotFound, "version not found").WithDetail(v.ID.String())
	}
	return nil
}

func scanDocument(row pgx.Row) (*document.Document, error) {
	var d document.Document
	err := row.Scan(&d.ID, &d.Title, &d.Kind, &d.Jurisdiction, &d.Language, &d.CreatedAt, &d.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan document")
	}
	return &d, nil
}

func scanVersion(row pgx.Row) (*document.DocumentVersion, error) {
	var v document.DocumentVersion
	err := row.Scan(&v.ID, &v.DocumentID, &v.Label, &v.PageCount, &v.Status, &v.StatusReason, &v.CreatedAt, &v.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, errors.New(errors.ErrCodeVersionNotFound, "version not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan version")
	}
	return &v, nil
}

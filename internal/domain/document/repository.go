package document

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists documents and versions.  Implementations live in
// internal/infrastructure/database/postgres.
type Repository interface {
	CreateDocument(ctx context.Context, doc *Document) error
	GetDocument(ctx context.Context, id uuid.UUID) (*Document, error)
	UpdateDocument(ctx context.Context, doc *Document) error
	ListDocuments(ctx context.Context, offset, limit int) ([]*Document, int64, error)

	CreateVersion(ctx context.Context, version *DocumentVersion) error
	GetVersion(ctx context.Context, id uuid.UUID) (*DocumentVersion, error)
	ListVersions(ctx context.Context, documentID uuid.UUID) ([]*DocumentVersion, error)

	// UpdateVersionStatus persists a status transition together with the
	// page count and reason recorded on the entity.  The analysis core
	// never calls this; only the ingestion pipeline advances status.
	UpdateVersionStatus(ctx context.Context, version *DocumentVersion) error
}

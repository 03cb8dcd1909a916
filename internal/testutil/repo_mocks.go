package testutil

import (
	"context"

	"github.com/google/uuid"

	"github.com/hukumtek/LexIntel/internal/domain/analysis"
	"github.com/hukumtek/LexIntel/internal/domain/clause"
	"github.com/hukumtek/LexIntel/internal/domain/document"
	"github.com/hukumtek/LexIntel/pkg/errors"
)

// DocumentRepoMock implements document.Repository with overridable
// behavior per method.  Unset methods return not-found or succeed.
type DocumentRepoMock struct {
	CreateDocumentFunc      func(ctx context.Context, doc *document.Document) error
	GetDocumentFunc         func(ctx context.Context, id uuid.UUID) (*document.Document, error)
	UpdateDocumentFunc      func(ctx context.Context, doc *document.Document) error
	ListDocumentsFunc       func(ctx context.Context, offset, limit int) ([]*document.Document, int64, error)
	CreateVersionFunc       func(ctx context.Context, version *document.DocumentVersion) error
	GetVersionFunc          func(ctx context.Context, id uuid.UUID) (*document.DocumentVersion, error)
	ListVersionsFunc        func(ctx context.Context, documentID uuid.UUID) ([]*document.DocumentVersion, error)
	UpdateVersionStatusFunc func(ctx context.Context, version *document.DocumentVersion) error

	// StatusUpdates records every status passed to UpdateVersionStatus.
	StatusUpdates []string
}

func (m *DocumentRepoMock) CreateDocument(ctx context.Context, doc *document.Document) error {
	if m.CreateDocumentFunc != nil {
		return m.CreateDocumentFunc(ctx, doc)
	}
	return nil
}

func (m *DocumentRepoMock) GetDocument(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	if m.GetDocumentFunc != nil {
		return m.GetDocumentFunc(ctx, id)
	}
	return nil, errors.New(errors.ErrCodeDocumentNotFound, "document not found")
}

func (m *DocumentRepoMock) UpdateDocument(ctx context.Context, doc *document.Document) error {
	if m.UpdateDocumentFunc != nil {
		return m.UpdateDocumentFunc(ctx, doc)
	}
	return nil
}

func (m *DocumentRepoMock) ListDocuments(ctx context.Context, offset, limit int) ([]*document.Document, int64, error) {
	if m.ListDocumentsFunc != nil {
		return m.ListDocumentsFunc(ctx, offset, limit)
	}
	return nil, 0, nil
}

func (m *DocumentRepoMock) CreateVersion(ctx context.Context, version *document.DocumentVersion) error {
	if m.CreateVersionFunc != nil {
		return m.CreateVersionFunc(ctx, version)
	}
	return nil
}

func (m *DocumentRepoMock) GetVersion(ctx context.Context, id uuid.UUID) (*document.DocumentVersion, error) {
	if m.GetVersionFunc != nil {
		return m.GetVersionFunc(ctx, id)
	}
	return nil, errors.New(errors.ErrCodeVersionNotFound, "version not found")
}

func (m *DocumentRepoMock) ListVersions(ctx context.Context, documentID uuid.UUID) ([]*document.DocumentVersion, error) {
	if m.ListVersionsFunc != nil {
		return m.ListVersionsFunc(ctx, documentID)
	}
	return nil, nil
}

func (m *DocumentRepoMock) UpdateVersionStatus(ctx context.Context, version *document.DocumentVersion) error {
	m.StatusUpdates = append(m.StatusUpdates, string(version.Status))
	if m.UpdateVersionStatusFunc != nil {
		return m.UpdateVersionStatusFunc(ctx, version)
	}
	return nil
}

// ClauseRepoMock implements clause.Repository with overridable behavior.
type ClauseRepoMock struct {
	CreateClausesFunc    func(ctx context.Context, versionID uuid.UUID, clauses []*clause.Clause) error
	ListByVersionFunc    func(ctx context.Context, versionID uuid.UUID) ([]*clause.Clause, error)
	CountByVersionFunc   func(ctx context.Context, versionID uuid.UUID) (int, error)
	CreateEmbeddingsFunc func(ctx context.Context, embeddings []*clause.Embedding) error
	ListEmbeddingsFunc   func(ctx context.Context, versionID uuid.UUID) ([]*clause.Embedding, error)
}

func (m *ClauseRepoMock) CreateClauses(ctx context.Context, versionID uuid.UUID, clauses []*clause.Clause) error {
	if m.CreateClausesFunc != nil {
		return m.CreateClausesFunc(ctx, versionID, clauses)
	}
	return nil
}

func (m *ClauseRepoMock) ListByVersion(ctx context.Context, versionID uuid.UUID) ([]*clause.Clause, error) {
	if m.ListByVersionFunc != nil {
		return m.ListByVersionFunc(ctx, versionID)
	}
	return nil, nil
}

func (m *ClauseRepoMock) CountByVersion(ctx context.Context, versionID uuid.UUID) (int, error) {
	if m.CountByVersionFunc != nil {
		return m.CountByVersionFunc(ctx, versionID)
	}
	return 0, nil
}

func (m *ClauseRepoMock) CreateEmbeddings(ctx context.Context, embeddings []*clause.Embedding) error {
	if m.CreateEmbeddingsFunc != nil {
		return m.CreateEmbeddingsFunc(ctx, embeddings)
	}
	return nil
}

func (m *ClauseRepoMock) ListEmbeddings(ctx context.Context, versionID uuid.UUID) ([]*clause.Embedding, error) {
	if m.ListEmbeddingsFunc != nil {
		return m.ListEmbeddingsFunc(ctx, versionID)
	}
	return nil, nil
}

// AnalysisRepoMock implements analysis.Repository with overridable behavior.
type AnalysisRepoMock struct {
	SaveComparisonFunc   func(ctx context.Context, rec *analysis.ComparisonRecord) error
	GetComparisonFunc    func(ctx context.Context, fromVersionID, toVersionID uuid.UUID) (*analysis.ComparisonRecord, error)
	SaveConflictScanFunc func(ctx context.Context, rec *analysis.ConflictScanRecord) error
	GetConflictScanFunc  func(ctx context.Context, versionID uuid.UUID) (*analysis.ConflictScanRecord, error)

	SavedComparisons  []*analysis.ComparisonRecord
	SavedScans        []*analysis.ConflictScanRecord
}

func (m *AnalysisRepoMock) SaveComparison(ctx context.Context, rec *analysis.ComparisonRecord) error {
	if m.SaveComparisonFunc != nil {
		return m.SaveComparisonFunc(ctx, rec)
	}
	m.SavedComparisons = append(m.SavedComparisons, rec)
	return nil
}

func (m *AnalysisRepoMock) GetComparison(ctx context.Context, fromVersionID, toVersionID uuid.UUID) (*analysis.ComparisonRecord, error) {
	if m.GetComparisonFunc != nil {
		return m.GetComparisonFunc(ctx, fromVersionID, toVersionID)
	}
	return nil, errors.New(errors.ErrCodeComparisonNotFound, "comparison not found")
}

func (m *AnalysisRepoMock) SaveConflictScan(ctx context.Context, rec *analysis.ConflictScanRecord) error {
	if m.SaveConflictScanFunc != nil {
		return m.SaveConflictScanFunc(ctx, rec)
	}
	m.SavedScans = append(m.SavedScans, rec)
	return nil
}

func (m *AnalysisRepoMock) GetConflictScan(ctx context.Context, versionID uuid.UUID) (*analysis.ConflictScanRecord, error) {
	if m.GetConflictScanFunc != nil {
		return m.GetConflictScanFunc(ctx, versionID)
	}
	return nil, errors.New(errors.ErrCodeConflictScanNotFound, "conflict scan not found")
}

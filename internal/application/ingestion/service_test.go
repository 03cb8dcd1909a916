package ingestion

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hukumtek/LexIntel/internal/analysis/segmenter"
	"github.com/hukumtek/LexIntel/internal/domain/clause"
	"github.com/hukumtek/LexIntel/internal/domain/document"
	"github.com/hukumtek/LexIntel/internal/infrastructure/messaging/kafka"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/internal/testutil"
	"github.com/hukumtek/LexIntel/pkg/errors"
	"github.com/hukumtek/LexIntel/pkg/types/common"
)

type mockLock struct {
	tryLockFunc func(ctx context.Context) (bool, error)
	unlocked    bool
}

func (m *mockLock) TryLock(ctx context.Context) (bool, error) {
	if m.tryLockFunc != nil {
		return m.tryLockFunc(ctx)
	}
	return true, nil
}

func (m *mockLock) Unlock(ctx context.Context) error {
	m.unlocked = true
	return nil
}

type mockLockManager struct {
	lock     *mockLock
	lastName string
}

func (m *mockLockManager) NewLock(name string, ttl time.Duration) Lock {
	m.lastName = name
	if m.lock == nil {
		m.lock = &mockLock{}
	}
	return m.lock
}

type mockPageSource struct {
	pages []segmenter.PageText
	err   error
}

func (m *mockPageSource) LoadPages(ctx context.Context, versionID uuid.UUID) ([]segmenter.PageText, error) {
	return m.pages, m.err
}

type mockSegmenter struct {
	result *segmenter.Result
	err    error
}

func (m *mockSegmenter) Segment(versionID uuid.UUID, pages []segmenter.PageText) (*segmenter.Result, error) {
	return m.result, m.err
}

type mockEmbedder struct {
	embedClausesFunc func(ctx context.Context, clauses []*clause.Clause) ([]*clause.Embedding, error)
}

func (m *mockEmbedder) EmbedClauses(ctx context.Context, clauses []*clause.Clause) ([]*clause.Embedding, error) {
	if m.embedClausesFunc != nil {
		return m.embedClausesFunc(ctx, clauses)
	}
	embeddings := make([]*clause.Embedding, len(clauses))
	for i, cl := range clauses {
		embeddings[i] = &clause.Embedding{
			ClauseID:  cl.ID,
			VersionID: cl.VersionID,
			Vector:    []float32{0.1, 0.2, 0.3},
			Dimension: 3,
		}
	}
	return embeddings, nil
}

func (m *mockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

type mockCorpusIndexer struct {
	indexed bool
	err     error
}

func (m *mockCorpusIndexer) IndexVersion(ctx context.Context, doc *document.Document, clauses []*clause.Clause, embeddings []*clause.Embedding) error {
	if m.err != nil {
		return m.err
	}
	m.indexed = true
	return nil
}

type mockTextIndexer struct {
	indexed bool
	err     error
}

func (m *mockTextIndexer) IndexClauses(ctx context.Context, doc *document.Document, versionID uuid.UUID, clauses []*clause.Clause) error {
	if m.err != nil {
		return m.err
	}
	m.indexed = true
	return nil
}

type mockEvents struct {
	segmented []kafka.VersionSegmentedPayload
	failed    []kafka.VersionFailedPayload
}

func (m *mockEvents) VersionSegmented(ctx context.Context, payload kafka.VersionSegmentedPayload) error {
	m.segmented = append(m.segmented, payload)
	return nil
}

func (m *mockEvents) VersionFailed(ctx context.Context, payload kafka.VersionFailedPayload) error {
	m.failed = append(m.failed, payload)
	return nil
}

type fixture struct {
	doc       *document.Document
	version   *document.DocumentVersion
	documents *testutil.DocumentRepoMock
	clauses   *testutil.ClauseRepoMock
	pages     *mockPageSource
	segmenter *mockSegmenter
	embedder  *mockEmbedder
	locks     *mockLockManager
	corpus    *mockCorpusIndexer
	textIndex *mockTextIndexer
	events    *mockEvents
}

func pasalClause(versionID uuid.UUID, seq int, ref, text string) *clause.Clause {
	return &clause.Clause{
		ID:            uuid.New(),
		VersionID:     versionID,
		Ref:           ref,
		Type:          common.ClausePasal,
		Text:          text,
		PageFrom:      1,
		PageTo:        1,
		SequenceOrder: seq,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	doc, err := document.NewDocument("UU Perlindungan Data Pribadi", common.KindLaw, "ID", "id")
	require.NoError(t, err)
	version, err := document.NewVersion(doc.ID, "2022")
	require.NoError(t, err)

	clauses := []*clause.Clause{
		pasalClause(version.ID, 1, "Pasal 1", "Data pribadi adalah data tentang orang perseorangan."),
		pasalClause(version.ID, 2, "Pasal 2", "Undang-Undang ini berlaku untuk setiap orang."),
	}

	f := &fixture{
		doc:     doc,
		version: version,
		documents: &testutil.DocumentRepoMock{
			GetDocumentFunc: func(ctx context.Context, id uuid.UUID) (*document.Document, error) {
				return doc, nil
			},
			GetVersionFunc: func(ctx context.Context, id uuid.UUID) (*document.DocumentVersion, error) {
				return version, nil
			},
		},
		clauses: &testutil.ClauseRepoMock{},
		pages: &mockPageSource{pages: []segmenter.PageText{
			{Number: 1, Text: "BAB I\nPasal 1\nData pribadi adalah data tentang orang perseorangan."},
		}},
		segmenter: &mockSegmenter{result: &segmenter.Result{
			Clauses:    clauses,
			TotalPages: 1,
			Validation: &segmenter.ValidationReport{Confidence: 85},
		}},
		embedder:  &mockEmbedder{},
		locks:     &mockLockManager{},
		corpus:    &mockCorpusIndexer{},
		textIndex: &mockTextIndexer{},
		events:    &mockEvents{},
	}
	return f
}

func (f *fixture) service(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(Deps{
		Documents: f.documents,
		Clauses:   f.clauses,
		Pages:     f.pages,
		Segmenter: f.segmenter,
		Embedder:  f.embedder,
		Locks:     f.locks,
		Corpus:    f.corpus,
		TextIndex: f.textIndex,
		Events:    f.events,
	}, logging.NewNopLogger())
	require.NoError(t, err)
	return svc
}

func TestProcessVersionHappyPath(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t)

	result, err := svc.ProcessVersion(context.Background(), f.version.ID)
	require.NoError(t, err)

	assert.Equal(t, f.doc.ID, result.DocumentID)
	assert.Equal(t, f.version.ID, result.VersionID)
	assert.Equal(t, 1, result.PageCount)
	assert.Equal(t, 2, result.ClauseCount)
	assert.InDelta(t, 85, result.Confidence, 1e-9)

	assert.Equal(t, common.StatusCompleted, f.version.Status)
	assert.Equal(t, []string{"extracting", "segmenting", "embedding", "completed"}, f.documents.StatusUpdates)

	assert.True(t, f.corpus.indexed)
	assert.True(t, f.textIndex.indexed)
	assert.True(t, f.locks.lock.unlocked)
	assert.Equal(t, "ingest:version:"+f.version.ID.String(), f.locks.lastName)

	require.Len(t, f.events.segmented, 1)
	assert.Equal(t, 2, f.events.segmented[0].ClauseCount)
	assert.Empty(t, f.events.failed)
}

func TestProcessVersionAlreadyCompleted(t *testing.T) {
	f := newFixture(t)
	f.version.Status = common.StatusCompleted
	svc := f.service(t)

	_, err := svc.ProcessVersion(context.Background(), f.version.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeVersionAlreadySegmented))
}

func TestProcessVersionPreviouslyFailed(t *testing.T) {
	f := newFixture(t)
	f.version.Status = common.StatusFailed
	f.version.StatusReason = "page extraction failed"
	svc := f.service(t)

	_, err := svc.ProcessVersion(context.Background(), f.version.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConflict))
}

func TestProcessVersionLockContention(t *testing.T) {
	f := newFixture(t)
	f.locks.lock = &mockLock{tryLockFunc: func(ctx context.Context) (bool, error) {
		return false, nil
	}}
	svc := f.service(t)

	_, err := svc.ProcessVersion(context.Background(), f.version.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConflict))
	assert.Empty(t, f.documents.StatusUpdates)
}

func TestProcessVersionSegmentationFailureMarksFailed(t *testing.T) {
	f := newFixture(t)
	f.segmenter.err = errors.InvalidInput("normalized text too short")
	svc := f.service(t)

	_, err := svc.ProcessVersion(context.Background(), f.version.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))

	assert.Equal(t, common.StatusFailed, f.version.Status)
	assert.Contains(t, f.version.StatusReason, "too short")
	require.Len(t, f.events.failed, 1)
	assert.Equal(t, f.version.ID, f.events.failed[0].VersionID)
	assert.Empty(t, f.events.segmented)
	assert.True(t, f.locks.lock.unlocked)
}

func TestProcessVersionEmbeddingFailure(t *testing.T) {
	f := newFixture(t)
	f.embedder.embedClausesFunc = func(ctx context.Context, clauses []*clause.Clause) ([]*clause.Embedding, error) {
		return nil, errors.DependencyUnavailable("embedding service unreachable")
	}
	svc := f.service(t)

	_, err := svc.ProcessVersion(context.Background(), f.version.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDependencyUnavailable))
	assert.Equal(t, common.StatusFailed, f.version.Status)
}

func TestProcessVersionCorpusIndexFailureFailsRun(t *testing.T) {
	f := newFixture(t)
	f.corpus.err = errors.DependencyUnavailable("milvus unreachable")
	svc := f.service(t)

	_, err := svc.ProcessVersion(context.Background(), f.version.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDependencyUnavailable))
	assert.Equal(t, common.StatusFailed, f.version.Status)
}

func TestProcessVersionTextIndexFailureIsTolerated(t *testing.T) {
	f := newFixture(t)
	f.textIndex.err = errors.DependencyUnavailable("opensearch unreachable")
	svc := f.service(t)

	result, err := svc.ProcessVersion(context.Background(), f.version.ID)
	require.NoError(t, err)
	assert.Equal(t, common.StatusCompleted, f.version.Status)
	assert.Equal(t, 2, result.ClauseCount)
}

func TestProcessVersionDuplicateClausesRejected(t *testing.T) {
	f := newFixture(t)
	f.clauses.CreateClausesFunc = func(ctx context.Context, versionID uuid.UUID, clauses []*clause.Clause) error {
		return errors.New(errors.ErrCodeVersionAlreadySegmented, "version already owns clauses")
	}
	svc := f.service(t)

	_, err := svc.ProcessVersion(context.Background(), f.version.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeVersionAlreadySegmented))
	assert.Equal(t, common.StatusFailed, f.version.Status)
}

func TestProcessVersionNilID(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t)

	_, err := svc.ProcessVersion(context.Background(), uuid.Nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestNewServiceMissingDeps(t *testing.T) {
	_, err := NewService(Deps{}, logging.NewNopLogger())
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

// Package ingestion orchestrates the processing pipeline of an uploaded
// version: page text to clauses to embeddings to search indexes.  The
// analysis core stays stateless; all persistence and status bookkeeping
// happens here.
package ingestion

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hukumtek/LexIntel/internal/analysis/segmenter"
	"github.com/hukumtek/LexIntel/internal/domain/clause"
	"github.com/hukumtek/LexIntel/internal/domain/document"
	"github.com/hukumtek/LexIntel/internal/infrastructure/embedding"
	"github.com/hukumtek/LexIntel/internal/infrastructure/messaging/kafka"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/prometheus"
	"github.com/hukumtek/LexIntel/pkg/errors"
	"github.com/hukumtek/LexIntel/pkg/types/common"
)

// lockTTL bounds how long a crashed worker can block reprocessing.
const lockTTL = 5 * time.Minute

// PageSource loads the extracted page text of a version.
type PageSource interface {
	LoadPages(ctx context.Context, versionID uuid.UUID) ([]segmenter.PageText, error)
}

// Segmenter splits page text into ordered clauses.
type Segmenter interface {
	Segment(versionID uuid.UUID, pages []segmenter.PageText) (*segmenter.Result, error)
}

// CorpusIndexer feeds a version's clauses into the vector corpus.
type CorpusIndexer interface {
	IndexVersion(ctx context.Context, doc *document.Document, clauses []*clause.Clause, embeddings []*clause.Embedding) error
}

// TextIndexer feeds a version's clauses into the full-text index.
type TextIndexer interface {
	IndexClauses(ctx context.Context, doc *document.Document, versionID uuid.UUID, clauses []*clause.Clause) error
}

// Lock is a held-or-not distributed lock.
type Lock interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}

// LockManager hands out named locks.
type LockManager interface {
	NewLock(name string, ttl time.Duration) Lock
}

// EventPublisher emits lifecycle events.
type EventPublisher interface {
	VersionSegmented(ctx context.Context, payload kafka.VersionSegmentedPayload) error
	VersionFailed(ctx context.Context, payload kafka.VersionFailedPayload) error
}

// Deps collects the service dependencies.  Corpus, TextIndex, Events and
// Metrics may be nil; the rest are required.
type Deps struct {
	Documents document.Repository
	Clauses   clause.Repository
	Pages     PageSource
	Segmenter Segmenter
	Embedder  embedding.Service
	Locks     LockManager
	Corpus    CorpusIndexer
	TextIndex TextIndexer
	Events    EventPublisher
	Metrics   *prometheus.AppMetrics
}

// Result summarises one completed pipeline run.
type Result struct {
	DocumentID  uuid.UUID `json:"document_id"`
	VersionID   uuid.UUID `json:"version_id"`
	PageCount   int       `json:"page_count"`
	ClauseCount int       `json:"clause_count"`
	Confidence  float64   `json:"confidence"`
}

// Service drives the per-version ingestion pipeline.
type Service struct {
	deps   Deps
	logger logging.Logger
}

// NewService validates the required dependencies and constructs a Service.
func NewService(deps Deps, log logging.Logger) (*Service, error) {
	switch {
	case deps.Documents == nil:
		return nil, errors.InvalidParam("ingestion requires a document repository")
	case deps.Clauses == nil:
		return nil, errors.InvalidParam("ingestion requires a clause repository")
	case deps.Pages == nil:
		return nil, errors.InvalidParam("ingestion requires a page source")
	case deps.Segmenter == nil:
		return nil, errors.InvalidParam("ingestion requires a segmenter")
	case deps.Embedder == nil:
		return nil, errors.InvalidParam("ingestion requires an embedding service")
	case deps.Locks == nil:
		return nil, errors.InvalidParam("ingestion requires a lock manager")
	}
	return &Service{deps: deps, logger: log.Named("ingestion")}, nil
}

// ProcessVersion runs the full pipeline for one version.  A version is
// processed at most once: completed or failed versions and versions held by
// another worker are rejected with conflict errors, never overwritten.
func (s *Service) ProcessVersion(ctx context.Context, versionID uuid.UUID) (*Result, error) {
	if versionID == uuid.Nil {
		return nil, errors.InvalidParam("version id is required")
	}

	version, err := s.deps.Documents.GetVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if version.Processed() {
		return nil, errors.New(errors.ErrCodeVersionAlreadySegmented,
			"version is already processed").WithDetail(versionID.String())
	}
	if version.Status == common.StatusFailed {
		return nil, errors.Conflict("version failed earlier and cannot be reprocessed").
			WithDetail(version.StatusReason)
	}

	lock := s.deps.Locks.NewLock("ingest:version:"+versionID.String(), lockTTL)
	held, err := lock.TryLock(ctx)
	if err != nil {
		return nil, err
	}
	if !held {
		return nil, errors.Conflict("version is being processed by another worker").
			WithDetail(versionID.String())
	}
	defer func() {
		if err := lock.Unlock(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("failed to release ingest lock",
				logging.String("version_id", versionID.String()), logging.Err(err))
		}
	}()

	doc, err := s.deps.Documents.GetDocument(ctx, version.DocumentID)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	result, runErr := s.run(ctx, doc, version)

	clauseCount := 0
	if result != nil {
		clauseCount = result.ClauseCount
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordSegmentation(time.Since(started), clauseCount, runErr)
	}

	if runErr != nil {
		s.markFailed(ctx, version, runErr)
		return nil, runErr
	}
	return result, nil
}

func (s *Service) run(ctx context.Context, doc *document.Document, version *document.DocumentVersion) (*Result, error) {
	if err := s.advance(ctx, version, common.StatusExtracting); err != nil {
		return nil, err
	}

	pages, err := s.deps.Pages.LoadPages(ctx, version.ID)
	if err != nil {
		return nil, err
	}
	version.PageCount = len(pages)

	if err := s.advance(ctx, version, common.StatusSegmenting); err != nil {
		return nil, err
	}

	seg, err := s.deps.Segmenter.Segment(version.ID, pages)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Clauses.CreateClauses(ctx, version.ID, seg.Clauses); err != nil {
		return nil, err
	}

	if err := s.advance(ctx, version, common.StatusEmbedding); err != nil {
		return nil, err
	}

	embeddings, err := s.deps.Embedder.EmbedClauses(ctx, seg.Clauses)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Clauses.CreateEmbeddings(ctx, embeddings); err != nil {
		return nil, err
	}

	// The corpus index backs conflict scanning, so a completed version
	// must be present in it.  The full-text index only serves search and
	// is allowed to lag.
	if s.deps.Corpus != nil {
		if err := s.deps.Corpus.IndexVersion(ctx, doc, seg.Clauses, embeddings); err != nil {
			return nil, err
		}
	}
	if s.deps.TextIndex != nil {
		if err := s.deps.TextIndex.IndexClauses(ctx, doc, version.ID, seg.Clauses); err != nil {
			s.logger.Warn("full-text indexing failed",
				logging.String("version_id", version.ID.String()), logging.Err(err))
		}
	}

	if err := s.advance(ctx, version, common.StatusCompleted); err != nil {
		return nil, err
	}

	confidence := 0.0
	if seg.Validation != nil {
		confidence = seg.Validation.Confidence
	}
	result := &Result{
		DocumentID:  doc.ID,
		VersionID:   version.ID,
		PageCount:   version.PageCount,
		ClauseCount: len(seg.Clauses),
		Confidence:  confidence,
	}

	s.publishSegmented(ctx, result)

	s.logger.Info("version processed",
		logging.String("version_id", version.ID.String()),
		logging.Int("pages", result.PageCount),
		logging.Int("clauses", result.ClauseCount))
	return result, nil
}

func (s *Service) advance(ctx context.Context, version *document.DocumentVersion, next common.ProcessingStatus) error {
	if err := version.Transition(next); err != nil {
		return err
	}
	return s.deps.Documents.UpdateVersionStatus(ctx, version)
}

// markFailed records the failure on the version.  Best effort: the original
// pipeline error is what the caller sees regardless.
func (s *Service) markFailed(ctx context.Context, version *document.DocumentVersion, cause error) {
	ctx = context.WithoutCancel(ctx)

	if err := version.Fail(cause.Error()); err != nil {
		s.logger.Warn("could not mark version failed",
			logging.String("version_id", version.ID.String()), logging.Err(err))
		return
	}
	if err := s.deps.Documents.UpdateVersionStatus(ctx, version); err != nil {
		s.logger.Error("failed to persist failed status",
			logging.String("version_id", version.ID.String()), logging.Err(err))
	}

	if s.deps.Events == nil {
		return
	}
	payload := kafka.VersionFailedPayload{
		DocumentID: version.DocumentID,
		VersionID:  version.ID,
		Reason:     cause.Error(),
	}
	if err := s.deps.Events.VersionFailed(ctx, payload); err != nil {
		s.logger.Warn("failed to publish version.failed",
			logging.String("version_id", version.ID.String()), logging.Err(err))
	}
}

func (s *Service) publishSegmented(ctx context.Context, result *Result) {
	if s.deps.Events == nil {
		return
	}
	payload := kafka.VersionSegmentedPayload{
		DocumentID:  result.DocumentID,
		VersionID:   result.VersionID,
		ClauseCount: result.ClauseCount,
		PageCount:   result.PageCount,
	}
	err := s.deps.Events.VersionSegmented(ctx, payload)
	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordEventPublished(kafka.TopicVersionSegmented, err)
	}
	if err != nil {
		s.logger.Warn("failed to publish version.segmented",
			logging.String("version_id", result.VersionID.String()), logging.Err(err))
	}
}

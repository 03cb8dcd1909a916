// Package comparison orchestrates diff runs between two completed versions
// of a document.  Results are persisted and cached; repeating a request
// serves the stored record without recomputation.
package comparison

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/hukumtek/LexIntel/internal/analysis/diffengine"
	"github.com/hukumtek/LexIntel/internal/domain/analysis"
	"github.com/hukumtek/LexIntel/internal/domain/clause"
	"github.com/hukumtek/LexIntel/internal/domain/document"
	"github.com/hukumtek/LexIntel/internal/infrastructure/messaging/kafka"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/prometheus"
	"github.com/hukumtek/LexIntel/pkg/errors"
)

const (
	cacheTTL       = 12 * time.Hour
	cacheKeyPrefix = "comparison:"
)

// DiffEngine aligns and diffs two clause lists.
type DiffEngine interface {
	Compare(from, to []*clause.Clause) (*diffengine.DiffResult, error)
}

// ResultCache fronts the record repository.  Implemented by redis.Cache.
type ResultCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// EventPublisher emits comparison lifecycle events.
type EventPublisher interface {
	ComparisonCompleted(ctx context.Context, payload kafka.ComparisonCompletedPayload) error
}

// Deps collects the service dependencies.  Cache, Events and Metrics may
// be nil.
type Deps struct {
	Documents document.Repository
	Clauses   clause.Repository
	Records   analysis.Repository
	Engine    DiffEngine
	Cache     ResultCache
	Events    EventPublisher
	Metrics   *prometheus.AppMetrics
}

// Service runs and serves version comparisons.
type Service struct {
	deps   Deps
	logger logging.Logger
}

// NewService validates the required dependencies and constructs a Service.
func NewService(deps Deps, log logging.Logger) (*Service, error) {
	switch {
	case deps.Documents == nil:
		return nil, errors.InvalidParam("comparison requires a document repository")
	case deps.Clauses == nil:
		return nil, errors.InvalidParam("comparison requires a clause repository")
	case deps.Records == nil:
		return nil, errors.InvalidParam("comparison requires an analysis repository")
	case deps.Engine == nil:
		return nil, errors.InvalidParam("comparison requires a diff engine")
	}
	return &Service{deps: deps, logger: log.Named("comparison")}, nil
}

func cacheKey(fromVersionID, toVersionID uuid.UUID) string {
	return cacheKeyPrefix + fromVersionID.String() + ":" + toVersionID.String()
}

// Compare diffs two completed versions of the same document.  The stored
// record of an earlier identical request is returned as is; diff output is
// deterministic over immutable clauses, so recomputation cannot differ.
func (s *Service) Compare(ctx context.Context, fromVersionID, toVersionID uuid.UUID) (*analysis.ComparisonRecord, error) {
	if fromVersionID == uuid.Nil || toVersionID == uuid.Nil {
		return nil, errors.InvalidParam("both version ids are required")
	}
	if fromVersionID == toVersionID {
		return nil, errors.NotComparable("cannot compare a version against itself")
	}

	if rec, ok := s.lookup(ctx, fromVersionID, toVersionID); ok {
		return rec, nil
	}

	from, to, err := s.loadComparableVersions(ctx, fromVersionID, toVersionID)
	if err != nil {
		return nil, err
	}

	fromClauses, err := s.deps.Clauses.ListByVersion(ctx, from.ID)
	if err != nil {
		return nil, err
	}
	toClauses, err := s.deps.Clauses.ListByVersion(ctx, to.ID)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	diff, err := s.deps.Engine.Compare(fromClauses, toClauses)
	if s.deps.Metrics != nil {
		totalChanges := 0
		if diff != nil {
			totalChanges = diff.Summary.Total
		}
		s.deps.Metrics.RecordComparison(time.Since(started), totalChanges, err)
	}
	if err != nil {
		return nil, err
	}

	rec, err := s.persist(ctx, from, to, diff)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, from.DocumentID, rec)

	s.logger.Info("comparison completed",
		logging.String("from_version_id", from.ID.String()),
		logging.String("to_version_id", to.ID.String()),
		logging.Int("changes", rec.TotalChanges))
	return rec, nil
}

// Get returns the stored record for a version pair, ErrCodeComparisonNotFound
// when no comparison ran yet.
func (s *Service) Get(ctx context.Context, fromVersionID, toVersionID uuid.UUID) (*analysis.ComparisonRecord, error) {
	if rec, ok := s.lookup(ctx, fromVersionID, toVersionID); ok {
		return rec, nil
	}
	return s.deps.Records.GetComparison(ctx, fromVersionID, toVersionID)
}

// lookup serves a previously stored record from cache or repository.
func (s *Service) lookup(ctx context.Context, fromVersionID, toVersionID uuid.UUID) (*analysis.ComparisonRecord, bool) {
	key := cacheKey(fromVersionID, toVersionID)

	if s.deps.Cache != nil {
		var cached analysis.ComparisonRecord
		err := s.deps.Cache.Get(ctx, key, &cached)
		if s.deps.Metrics != nil {
			s.deps.Metrics.RecordCacheAccess("comparison", err == nil)
		}
		if err == nil {
			return &cached, true
		}
		if !errors.IsNotFound(err) {
			s.logger.Warn("comparison cache read failed", logging.Err(err))
		}
	}

	rec, err := s.deps.Records.GetComparison(ctx, fromVersionID, toVersionID)
	if err != nil {
		return nil, false
	}
	s.cache(ctx, key, rec)
	return rec, true
}

func (s *Service) loadComparableVersions(ctx context.Context, fromVersionID, toVersionID uuid.UUID) (*document.DocumentVersion, *document.DocumentVersion, error) {
	from, err := s.deps.Documents.GetVersion(ctx, fromVersionID)
	if err != nil {
		return nil, nil, err
	}
	to, err := s.deps.Documents.GetVersion(ctx, toVersionID)
	if err != nil {
		return nil, nil, err
	}

	if !from.Processed() {
		return nil, nil, errors.NotComparable("from version is not fully processed").
			WithDetail(string(from.Status))
	}
	if !to.Processed() {
		return nil, nil, errors.NotComparable("to version is not fully processed").
			WithDetail(string(to.Status))
	}
	if from.DocumentID != to.DocumentID {
		return nil, nil, errors.NotComparable("versions belong to different documents")
	}
	return from, to, nil
}

func (s *Service) persist(ctx context.Context, from, to *document.DocumentVersion, diff *diffengine.DiffResult) (*analysis.ComparisonRecord, error) {
	payload, err := json.Marshal(diff)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode diff result")
	}

	rec := &analysis.ComparisonRecord{
		ID:              uuid.New(),
		FromVersionID:   from.ID,
		ToVersionID:     to.ID,
		Result:          payload,
		TotalChanges:    diff.Summary.Total,
		ConfidenceScore: diff.ConfidenceScore,
		CreatedAt:       time.Now().UTC(),
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Records.SaveComparison(ctx, rec); err != nil {
		return nil, err
	}

	s.cache(ctx, cacheKey(from.ID, to.ID), rec)
	return rec, nil
}

func (s *Service) cache(ctx context.Context, key string, rec *analysis.ComparisonRecord) {
	if s.deps.Cache == nil {
		return
	}
	if err := s.deps.Cache.Set(ctx, key, rec, cacheTTL); err != nil {
		s.logger.Warn("comparison cache write failed", logging.Err(err))
	}
}

func (s *Service) publish(ctx context.Context, documentID uuid.UUID, rec *analysis.ComparisonRecord) {
	if s.deps.Events == nil {
		return
	}
	payload := kafka.ComparisonCompletedPayload{
		ComparisonID:  rec.ID,
		DocumentID:    documentID,
		FromVersionID: rec.FromVersionID,
		ToVersionID:   rec.ToVersionID,
		TotalChanges:  rec.TotalChanges,
	}
	err := s.deps.Events.ComparisonCompleted(ctx, payload)
	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordEventPublished(kafka.TopicComparisonCompleted, err)
	}
	if err != nil {
		s.logger.Warn("failed to publish comparison.completed",
			logging.String("comparison_id", rec.ID.String()), logging.Err(err))
	}
}

// Package conflictscan orchestrates semantic conflict scans of a completed
// version against the indexed law corpus, turning raw detection output into
// a persisted risk assessment.
package conflictscan

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/hukumtek/LexIntel/internal/analysis/conflict"
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
	cacheKeyPrefix = "conflictscan:"
)

// Detector runs one conflict detection pass.
type Detector interface {
	Detect(ctx context.Context, documentID uuid.UUID, clauses []conflict.ClauseEmbedding, corpus conflict.CorpusIndex, opts conflict.Options) (*conflict.Result, error)
}

// ResultCache fronts the record repository.  Implemented by redis.Cache.
type ResultCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// EventPublisher emits conflict-scan lifecycle events.
type EventPublisher interface {
	ConflictScanCompleted(ctx context.Context, payload kafka.ConflictScanCompletedPayload) error
}

// Deps collects the service dependencies.  Cache, Events and Metrics may
// be nil.
type Deps struct {
	Documents document.Repository
	Clauses   clause.Repository
	Records   analysis.Repository
	Detector  Detector
	Corpus    conflict.CorpusIndex
	Cache     ResultCache
	Events    EventPublisher
	Metrics   *prometheus.AppMetrics

	// Defaults applies when Scan is called with a zero threshold.
	Defaults conflict.Options
}

// Service runs and serves conflict scans.
type Service struct {
	deps   Deps
	logger logging.Logger
}

// NewService validates the required dependencies and constructs a Service.
func NewService(deps Deps, log logging.Logger) (*Service, error) {
	switch {
	case deps.Documents == nil:
		return nil, errors.InvalidParam("conflict scan requires a document repository")
	case deps.Clauses == nil:
		return nil, errors.InvalidParam("conflict scan requires a clause repository")
	case deps.Records == nil:
		return nil, errors.InvalidParam("conflict scan requires an analysis repository")
	case deps.Detector == nil:
		return nil, errors.InvalidParam("conflict scan requires a detector")
	case deps.Corpus == nil:
		return nil, errors.InvalidParam("conflict scan requires a corpus index")
	}
	if deps.Defaults.Threshold <= 0 {
		deps.Defaults = conflict.DefaultOptions()
	}
	return &Service{deps: deps, logger: log.Named("conflictscan")}, nil
}

// Scan detects conflicts of a completed version's clauses against the
// corpus.  A zero threshold selects the configured default; values outside
// (0, 1) are rejected.
func (s *Service) Scan(ctx context.Context, versionID uuid.UUID, threshold float64) (*analysis.ConflictScanRecord, error) {
	if versionID == uuid.Nil {
		return nil, errors.InvalidParam("version id is required")
	}
	if threshold == 0 {
		threshold = s.deps.Defaults.Threshold
	}
	if threshold < 0 || threshold >= 1 {
		return nil, errors.New(errors.ErrCodeThresholdInvalid,
			"conflict threshold must be within (0, 1)")
	}

	version, err := s.deps.Documents.GetVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if !version.Processed() {
		return nil, errors.New(errors.ErrCodeVersionNotProcessed,
			"version is not fully processed").WithDetail(string(version.Status))
	}

	pairs, err := s.loadClauseEmbeddings(ctx, versionID)
	if err != nil {
		return nil, err
	}

	opts := conflict.Options{Threshold: threshold, TopK: s.deps.Defaults.TopK}

	started := time.Now()
	result, err := s.deps.Detector.Detect(ctx, version.DocumentID, pairs, s.deps.Corpus, opts)
	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordConflictScan(time.Since(started), flagLevels(result), err)
	}
	if err != nil {
		return nil, err
	}

	rec, err := s.persist(ctx, version, threshold, result)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, version.DocumentID, rec)

	s.logger.Info("conflict scan completed",
		logging.String("version_id", versionID.String()),
		logging.Int("conflicts", rec.ConflictCount),
		logging.String("risk_level", string(rec.RiskLevel)))
	return rec, nil
}

// Get returns the most recent stored scan of a version,
// ErrCodeConflictScanNotFound when none ran yet.
func (s *Service) Get(ctx context.Context, versionID uuid.UUID) (*analysis.ConflictScanRecord, error) {
	if s.deps.Cache != nil {
		var cached analysis.ConflictScanRecord
		err := s.deps.Cache.Get(ctx, cacheKeyPrefix+versionID.String(), &cached)
		if s.deps.Metrics != nil {
			s.deps.Metrics.RecordCacheAccess("conflictscan", err == nil)
		}
		if err == nil {
			return &cached, nil
		}
	}
	return s.deps.Records.GetConflictScan(ctx, versionID)
}

// loadClauseEmbeddings pairs clauses with their vectors by clause ID.  A
// clause without an embedding breaks the 1:1 invariant and fails the scan.
func (s *Service) loadClauseEmbeddings(ctx context.Context, versionID uuid.UUID) ([]conflict.ClauseEmbedding, error) {
	clauses, err := s.deps.Clauses.ListByVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if len(clauses) == 0 {
		return nil, errors.InvalidInput("version has no clauses to scan")
	}

	embeddings, err := s.deps.Clauses.ListEmbeddings(ctx, versionID)
	if err != nil {
		return nil, err
	}

	byClause := make(map[uuid.UUID][]float32, len(embeddings))
	for _, emb := range embeddings {
		byClause[emb.ClauseID] = emb.Vector
	}

	pairs := make([]conflict.ClauseEmbedding, 0, len(clauses))
	for _, cl := range clauses {
		vector, ok := byClause[cl.ID]
		if !ok {
			return nil, errors.IntegrityViolation("clause has no embedding").
				WithDetail(cl.ID.String())
		}
		pairs = append(pairs, conflict.ClauseEmbedding{Clause: cl, Vector: vector})
	}
	return pairs, nil
}

func (s *Service) persist(ctx context.Context, version *document.DocumentVersion, threshold float64, result *conflict.Result) (*analysis.ConflictScanRecord, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode scan result")
	}

	compatibility := compatibilityScore(result)
	rec := &analysis.ConflictScanRecord{
		ID:                   uuid.New(),
		VersionID:            version.ID,
		Threshold:            threshold,
		Result:               payload,
		ConflictCount:        len(result.Conflicts),
		OverallCompatibility: compatibility,
		RiskLevel:            riskLevel(result, compatibility),
		CreatedAt:            time.Now().UTC(),
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Records.SaveConflictScan(ctx, rec); err != nil {
		return nil, err
	}

	if s.deps.Cache != nil {
		if err := s.deps.Cache.Set(ctx, cacheKeyPrefix+version.ID.String(), rec, cacheTTL); err != nil {
			s.logger.Warn("conflict scan cache write failed", logging.Err(err))
		}
	}
	return rec, nil
}

func (s *Service) publish(ctx context.Context, documentID uuid.UUID, rec *analysis.ConflictScanRecord) {
	if s.deps.Events == nil {
		return
	}
	payload := kafka.ConflictScanCompletedPayload{
		ScanID:        rec.ID,
		DocumentID:    documentID,
		VersionID:     rec.VersionID,
		ConflictCount: rec.ConflictCount,
		RiskLevel:     string(rec.RiskLevel),
	}
	err := s.deps.Events.ConflictScanCompleted(ctx, payload)
	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordEventPublished(kafka.TopicConflictScanCompleted, err)
	}
	if err != nil {
		s.logger.Warn("failed to publish conflictscan.completed",
			logging.String("scan_id", rec.ID.String()), logging.Err(err))
	}
}

func flagLevels(result *conflict.Result) []string {
	if result == nil {
		return nil
	}
	levels := make([]string, 0, len(result.Conflicts))
	for _, flag := range result.Conflicts {
		levels = append(levels, string(flag.Severity))
	}
	return levels
}

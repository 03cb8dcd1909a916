package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hukumtek/LexIntel/internal/domain/analysis"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/pkg/errors"
)

// AnalysisRepository implements analysis.Repository.  Records are immutable;
// a rerun writes a new row and Get returns the most recent.
type AnalysisRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewAnalysisRepository constructs a ready-to-use AnalysisRepository.
func NewAnalysisRepository(pool *pgxpool.Pool, logger logging.Logger) *AnalysisRepository {
	return &AnalysisRepository{pool: pool, logger: logger.Named("analysis-repo")}
}

// SaveComparison inserts one diff run record.
func (r *AnalysisRepository) SaveComparison(ctx context.Context, rec *analysis.ComparisonRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO comparisons (id, from_version_id, to_version_id, result, total_changes, confidence_score, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.FromVersionID, rec.ToVersionID, rec.Result,
		rec.TotalChanges, rec.ConfidenceScore, rec.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert comparison record")
	}
	return nil
}

// GetComparison returns the most recent record for the version pair.
func (r *AnalysisRepository) GetComparison(ctx context.Context, fromVersionID, toVersionID uuid.UUID) (*analysis.ComparisonRecord, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, from_version_id, to_version_id, result, total_changes, confidence_score, created_at
		 FROM comparisons
		 WHERE from_version_id = $1 AND to_version_id = $2
		 ORDER BY created_at DESC
		 LIMIT 1`,
		fromVersionID, toVersionID)

	var rec analysis.ComparisonRecord
	err := row.Scan(&rec.ID, &rec.FromVersionID, &rec.ToVersionID, &rec.Result,
		&rec.TotalChanges, &rec.ConfidenceScore, &rec.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, errors.New(errors.ErrCodeComparisonNotFound, "comparison not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan comparison record")
	}
	return &rec, nil
}

// SaveConflictScan inserts one conflict scan record.
func (r *AnalysisRepository) SaveConflictScan(ctx context.Context, rec *analysis.ConflictScanRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO conflict_scans (id, version_id, threshold, result, conflict_count, overall_compatibility, risk_level, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.VersionID, rec.Threshold, rec.Result,
		rec.ConflictCount, rec.OverallCompatibility, rec.RiskLevel, rec.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert conflict scan record")
	}
	return nil
}

// GetConflictScan returns the most recent record for the version.
func (r *AnalysisRepository) GetConflictScan(ctx context.Context, versionID uuid.UUID) (*analysis.ConflictScanRecord, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, version_id, threshold, result, conflict_count, overall_compatibility, risk_level, created_at
		 FROM conflict_scans
		 WHERE version_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		versionID)

	var rec analysis.ConflictScanRecord
	err := row.Scan(&rec.ID, &rec.VersionID, &rec.Threshold, &rec.Result,
		&rec.ConflictCount, &rec.OverallCompatibility, &rec.RiskLevel, &rec.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, errors.New(errors.ErrCodeConflictScanNotFound, "conflict scan not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan conflict scan record")
	}
	return &rec, nil
}

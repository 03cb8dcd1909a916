// Package analysis holds the persisted records of derived analysis runs.
// Diff and conflict results are recomputable; records exist so repeated
// requests for the same pair or version are served without recomputation.
package analysis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/hukumtek/LexIntel/pkg/errors"
	"github.com/hukumtek/LexIntel/pkg/types/common"
)

// ComparisonRecord is one stored diff run between two versions of a document.
type ComparisonRecord struct {
	ID              uuid.UUID       `json:"id"`
	FromVersionID   uuid.UUID       `json:"from_version_id"`
	ToVersionID     uuid.UUID       `json:"to_version_id"`
	Result          json.RawMessage `json:"result"`
	TotalChanges    int             `json:"total_changes"`
	ConfidenceScore float64         `json:"confidence_score"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Validate checks the record invariants.
func (r *ComparisonRecord) Validate() error {
	if r.FromVersionID == uuid.Nil || r.ToVersionID == uuid.Nil {
		return errors.IntegrityViolation("comparison record requires both version ids")
	}
	if r.FromVersionID == r.ToVersionID {
		return errors.NotComparable("cannot record a comparison of a version against itself")
	}
	if len(r.Result) == 0 {
		return errors.IntegrityViolation("comparison record has no result payload")
	}
	return nil
}

// ConflictScanRecord is one stored conflict scan of a version.
type ConflictScanRecord struct {
	ID                   uuid.UUID        `json:"id"`
	VersionID            uuid.UUID        `json:"version_id"`
	Threshold            float64          `json:"threshold"`
	Result               json.RawMessage  `json:"result"`
	ConflictCount        int              `json:"conflict_count"`
	OverallCompatibility float64          `json:"overall_compatibility"`
	RiskLevel            common.RiskLevel `json:"risk_level"`
	CreatedAt            time.Time        `json:"created_at"`
}

// Validate checks the record invariants.
func (r *ConflictScanRecord) Validate() error {
	if r.VersionID == uuid.Nil {
		return errors.IntegrityViolation("conflict scan record requires a version id")
	}
	if len(r.Result) == 0 {
		return errors.IntegrityViolation("conflict scan record has no result payload")
	}
	return nil
}

// Repository persists analysis records.  Get methods return the most recent
// record for the key, ErrCodeNotFound when none exists.
type Repository interface {
	SaveComparison(ctx context.Context, rec *ComparisonRecord) error
	GetComparison(ctx context.Context, fromVersionID, toVersionID uuid.UUID) (*ComparisonRecord, error)

	SaveConflictScan(ctx context.Context, rec *ConflictScanRecord) error
	GetConflictScan(ctx context.Context, versionID uuid.UUID) (*ConflictScanRecord, error)
}

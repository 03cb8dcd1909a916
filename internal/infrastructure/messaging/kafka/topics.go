// Package kafka publishes processing lifecycle events so downstream
// consumers can react to finished segmentations, comparisons and scans.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Topic suffixes.  The producer prepends the configured topic prefix.
const (
	TopicVersionSegmented      = "version.segmented"
	TopicVersionFailed         = "version.failed"
	TopicComparisonCompleted   = "comparison.completed"
	TopicConflictScanCompleted = "conflictscan.completed"
)

const envelopeSchemaVersion = "1.0"

// EventEnvelope is the wire format shared by every published event.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// VersionSegmentedPayload announces a version that finished segmentation
// and is ready for comparison and conflict scanning.
type VersionSegmentedPayload struct {
	DocumentID  uuid.UUID `json:"document_id"`
	VersionID   uuid.UUID `json:"version_id"`
	ClauseCount int       `json:"clause_count"`
	PageCount   int       `json:"page_count"`
}

// VersionFailedPayload announces a version whose processing failed.
type VersionFailedPayload struct {
	DocumentID uuid.UUID `json:"document_id"`
	VersionID  uuid.UUID `json:"version_id"`
	Reason     string    `json:"reason"`
}

// ComparisonCompletedPayload announces a stored version comparison.
type ComparisonCompletedPayload struct {
	ComparisonID  uuid.UUID `json:"comparison_id"`
	DocumentID    uuid.UUID `json:"document_id"`
	FromVersionID uuid.UUID `json:"from_version_id"`
	ToVersionID   uuid.UUID `json:"to_version_id"`
	TotalChanges  int       `json:"total_changes"`
}

// ConflictScanCompletedPayload announces a stored conflict scan.
type ConflictScanCompletedPayload struct {
	ScanID        uuid.UUID `json:"scan_id"`
	DocumentID    uuid.UUID `json:"document_id"`
	VersionID     uuid.UUID `json:"version_id"`
	ConflictCount int       `json:"conflict_count"`
	RiskLevel     string    `json:"risk_level"`
}

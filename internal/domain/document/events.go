package document

import (
	"github.com/google/uuid"

	"github.com/hukumtek/LexIntel/pkg/types/common"
)

// VersionSegmentedEvent is emitted when segmentation of a version completes
// and its clauses are persisted.
type VersionSegmentedEvent struct {
	common.BaseEvent
	DocumentID  uuid.UUID `json:"document_id"`
	VersionID   uuid.UUID `json:"version_id"`
	ClauseCount int       `json:"clause_count"`
	PageCount   int       `json:"page_count"`
	Confidence  float64   `json:"confidence"`
}

// NewVersionSegmentedEvent constructs the event keyed by the version ID.
func NewVersionSegmentedEvent(documentID, versionID uuid.UUID, clauseCount, pageCount int, confidence float64) VersionSegmentedEvent {
	return VersionSegmentedEvent{
		BaseEvent:   common.NewBaseEvent(versionID.String()),
		DocumentID:  documentID,
		VersionID:   versionID,
		ClauseCount: clauseCount,
		PageCount:   pageCount,
		Confidence:  confidence,
	}
}

// VersionFailedEvent is emitted when any stage of the ingestion pipeline
// moves a version to the failed state.
type VersionFailedEvent struct {
	common.BaseEvent
	DocumentID uuid.UUID `json:"document_id"`
	VersionID  uuid.UUID `json:"version_id"`
	Stage      string    `json:"stage"`
	Reason     string    `json:"reason"`
}

// NewVersionFailedEvent constructs the event keyed by the version ID.
func NewVersionFailedEvent(documentID, versionID uuid.UUID, stage, reason string) VersionFailedEvent {
	return VersionFailedEvent{
		BaseEvent:  common.NewBaseEvent(versionID.String()),
		DocumentID: documentID,
		VersionID:  versionID,
		Stage:      stage,
		Reason:     reason,
	}
}

// Package document holds the Document and DocumentVersion aggregates: the
// legal instruments LexIntel ingests and the processed renditions that own
// clauses.
package document

import (
	"time"

	"github.com/google/uuid"

	"github.com/hukumtek/LexIntel/pkg/errors"
	"github.com/hukumtek/LexIntel/pkg/types/common"
)

// Document is a logical legal instrument.  Immutable after creation except
// metadata edits; owns zero or more versions.
type Document struct {
	ID           uuid.UUID           `json:"id"`
	Title        string              `json:"title"`
	Kind         common.DocumentKind `json:"kind"`
	Jurisdiction string              `json:"jurisdiction"`
	Language     string              `json:"language"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// NewDocument constructs a Document with generated identity and timestamps.
func NewDocument(title string, kind common.DocumentKind, jurisdiction, language string) (*Document, error) {
	if title == "" {
		return nil, errors.InvalidParam("document title must not be empty")
	}
	switch kind {
	case common.KindLaw, common.KindRegulation, common.KindDraft, common.KindUploaded:
	default:
		return nil, errors.InvalidParam("unknown document kind").WithDetail(string(kind))
	}
	if language == "" {
		language = "id"
	}
	now := time.Now().UTC()
	return &Document{
		ID:           uuid.New(),
		Title:        title,
		Kind:         kind,
		Jurisdiction: jurisdiction,
		Language:     language,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// UpdateMetadata edits the mutable attributes.  Identity and kind never change.
func (d *Document) UpdateMetadata(title, jurisdiction string) {
	if title != "" {
		d.Title = title
	}
	if jurisdiction != "" {
		d.Jurisdiction = jurisdiction
	}
	d.UpdatedAt = time.Now().UTC()
}

// DocumentVersion is one processed rendition of a Document.  Clauses are
// created exactly once during segmentation of the version and never mutated
// afterwards.
type DocumentVersion struct {
	ID           uuid.UUID               `json:"id"`
	DocumentID   uuid.UUID               `json:"document_id"`
	Label        string                  `json:"label"`
	PageCount    int                     `json:"page_count"`
	Status       common.ProcessingStatus `json:"status"`
	StatusReason string                  `json:"status_reason,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// NewVersion constructs a pending DocumentVersion for the given document.
func NewVersion(documentID uuid.UUID, label string) (*DocumentVersion, error) {
	if documentID == uuid.Nil {
		return nil, errors.InvalidParam("version requires a parent document")
	}
	if label == "" {
		return nil, errors.InvalidParam("version label must not be empty")
	}
	now := time.Now().UTC()
	return &DocumentVersion{
		ID:         uuid.New(),
		DocumentID: documentID,
		Label:      label,
		Status:     common.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Transition advances the processing status.  Illegal transitions surface as
// ErrCodeStatusTransition; the state machine is never forced.
func (v *DocumentVersion) Transition(next common.ProcessingStatus) error {
	if !v.Status.CanTransition(next) {
		return errors.Newf(errors.ErrCodeStatusTransition,
			"cannot transition version %s from %s to %s", v.ID, v.Status, next)
	}
	v.Status = next
	v.UpdatedAt = time.Now().UTC()
	return nil
}

// Fail moves the version into the failed state with a reason, from any
// non-terminal state.
func (v *DocumentVersion) Fail(reason string) error {
	if err := v.Transition(common.StatusFailed); err != nil {
		return err
	}
	v.StatusReason = reason
	return nil
}

// Processed reports whether the version finished the whole pipeline and its
// clauses are safe to read for comparison and conflict scanning.
func (v *DocumentVersion) Processed() bool {
	return v.Status == common.StatusCompleted
}

// Package common holds the shared vocabulary of LexIntel: clause and change
// enumerations, processing states, API envelope types, and the tagged result
// union returned by the analysis services.
package common

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ID is a string alias for UUID v4.
type ID string

// NewID generates a new UUID v4.
func NewID() ID {
	return ID(uuid.New().String())
}

// Validate checks if the ID is a valid UUID.
func (id ID) Validate() error {
	if id == "" {
		return fmt.Errorf("ID cannot be empty")
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return fmt.Errorf("invalid ID format: %w", err)
	}
	return nil
}

// ClauseType identifies the structural level of a legal clause, ordered from
// coarsest to finest.  The Indonesian terms are kept verbatim because they
// are the vocabulary of the source documents.
type ClauseType string

const (
	ClauseBab      ClauseType = "bab"      // chapter
	ClauseBagian   ClauseType = "bagian"   // part
	ClauseParagraf ClauseType = "paragraf" // sub-part
	ClausePasal    ClauseType = "pasal"    // article
	ClauseAyat     ClauseType = "ayat"     // paragraph, "(1)"
	ClauseHuruf    ClauseType = "huruf"    // lettered point, "a."
	ClauseAngka    ClauseType = "angka"    // numbered sub-point, "1."
)

// clauseDepth orders clause types; a smaller depth is a shallower level.
var clauseDepth = map[ClauseType]int{
	ClauseBab:      0,
	ClauseBagian:   1,
	ClauseParagraf: 2,
	ClausePasal:    3,
	ClauseAyat:     4,
	ClauseHuruf:    5,
	ClauseAngka:    6,
}

// Depth returns the hierarchy depth of the clause type, -1 if unknown.
func (t ClauseType) Depth() int {
	if d, ok := clauseDepth[t]; ok {
		return d
	}
	return -1
}

// Valid reports whether t is one of the seven known structural levels.
func (t ClauseType) Valid() bool {
	_, ok := clauseDepth[t]
	return ok
}

// DocumentKind classifies the legal instrument.
type DocumentKind string

const (
	KindLaw        DocumentKind = "law"
	KindRegulation DocumentKind = "regulation"
	KindDraft      DocumentKind = "draft"
	KindUploaded   DocumentKind = "uploaded"
)

// ProcessingStatus is the state machine of a DocumentVersion.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusExtracting ProcessingStatus = "extracting"
	StatusSegmenting ProcessingStatus = "segmenting"
	StatusEmbedding  ProcessingStatus = "embedding"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// statusSuccessors defines the legal transitions of the version state machine.
// Failed is reachable from every non-terminal state.
var statusSuccessors = map[ProcessingStatus][]ProcessingStatus{
	StatusPending:    {StatusExtracting, StatusFailed},
	StatusExtracting: {StatusSegmenting, StatusFailed},
	StatusSegmenting: {StatusEmbedding, StatusFailed},
	StatusEmbedding:  {StatusCompleted, StatusFailed},
	StatusCompleted:  {},
	StatusFailed:     {},
}

// CanTransition reports whether moving from s to next is a legal transition.
func (s ProcessingStatus) CanTransition(next ProcessingStatus) bool {
	for _, n := range statusSuccessors[s] {
		if n == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s is an end state.
func (s ProcessingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ChangeKind classifies one entry of a version diff.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeDeleted  ChangeKind = "deleted"
	ChangeModified ChangeKind = "modified"
	ChangeMoved    ChangeKind = "moved"
)

// SignificanceLevel classifies how much a change matters legally.
type SignificanceLevel string

const (
	SignificanceMajor    SignificanceLevel = "major"
	SignificanceMinor    SignificanceLevel = "minor"
	SignificanceCosmetic SignificanceLevel = "cosmetic"
)

// Escalate returns the significance one level more severe than s.
// Major stays major.
func (s SignificanceLevel) Escalate() SignificanceLevel {
	switch s {
	case SignificanceCosmetic:
		return SignificanceMinor
	case SignificanceMinor:
		return SignificanceMajor
	default:
		return SignificanceMajor
	}
}

// ConflictType classifies a detected cross-law conflict.
type ConflictType string

const (
	ConflictContradiction ConflictType = "contradiction"
	ConflictOverlap       ConflictType = "overlap"
	ConflictGap           ConflictType = "gap"
	ConflictInconsistency ConflictType = "inconsistency"
)

// Severity is the deterministic banding of an overlap score.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// SeverityFromScore bands an overlap score: >0.8 high, >0.6 medium, else low.
func SeverityFromScore(score float64) Severity {
	switch {
	case score > 0.8:
		return SeverityHigh
	case score > 0.6:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// RiskLevel summarises a whole conflict scan.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// AnalysisKind tags the variants of AnalysisResult.
type AnalysisKind string

const (
	AnalysisSummary    AnalysisKind = "summary"
	AnalysisComparison AnalysisKind = "comparison"
	AnalysisConflict   AnalysisKind = "conflict"
)

// AnalysisResult is the tagged union carried by service responses.  Exactly
// one payload field is non-nil, selected by Kind, so consumers switch on the
// tag instead of probing for field presence.
type AnalysisResult struct {
	Kind       AnalysisKind     `json:"kind"`
	Summary    *SummaryPayload  `json:"summary,omitempty"`
	Comparison *ComparePayload  `json:"comparison,omitempty"`
	Conflict   *ConflictPayload `json:"conflict,omitempty"`
}

// SummaryPayload carries per-version segmentation statistics.
type SummaryPayload struct {
	VersionID    ID             `json:"version_id"`
	TotalPages   int            `json:"total_pages"`
	TotalClauses int            `json:"total_clauses"`
	ByType       map[string]int `json:"by_type"`
	Confidence   float64        `json:"confidence"`
}

// ComparePayload carries a diff-run reference and its headline numbers.
type ComparePayload struct {
	FromVersionID ID      `json:"from_version_id"`
	ToVersionID   ID      `json:"to_version_id"`
	TotalChanges  int     `json:"total_changes"`
	Confidence    float64 `json:"confidence"`
}

// ConflictPayload carries a conflict-scan reference and its headline numbers.
type ConflictPayload struct {
	VersionID          ID        `json:"version_id"`
	TotalConflicts     int       `json:"total_conflicts"`
	RiskAssessment     RiskLevel `json:"risk_assessment"`
	CompatibilityScore float64   `json:"compatibility_score"`
}

// Validate checks that exactly the payload selected by Kind is present.
func (r AnalysisResult) Validate() error {
	set := 0
	if r.Summary != nil {
		set++
	}
	if r.Comparison != nil {
		set++
	}
	if r.Conflict != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("analysis result must carry exactly one payload, has %d", set)
	}
	switch r.Kind {
	case AnalysisSummary:
		if r.Summary == nil {
			return fmt.Errorf("kind %q requires summary payload", r.Kind)
		}
	case AnalysisComparison:
		if r.Comparison == nil {
			return fmt.Errorf("kind %q requires comparison payload", r.Kind)
		}
	case AnalysisConflict:
		if r.Conflict == nil {
			return fmt.Errorf("kind %q requires conflict payload", r.Kind)
		}
	default:
		return fmt.Errorf("unknown analysis kind %q", r.Kind)
	}
	return nil
}

// Timestamp is a time.Time alias serialised as RFC 3339.
type Timestamp time.Time

// NewTimestamp returns the current UTC time as a Timestamp.
func NewTimestamp() Timestamp {
	return Timestamp(time.Now().UTC())
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	*t = Timestamp(parsed.UTC())
	return nil
}

// Pagination defines parameters for paginated requests.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total,omitempty"`
}

// Validate checks pagination bounds.
func (p Pagination) Validate() error {
	if p.Page < 1 {
		return fmt.Errorf("page must be >= 1")
	}
	if p.PageSize < 1 || p.PageSize > 500 {
		return fmt.Errorf("page_size must be between 1 and 500")
	}
	return nil
}

// Offset returns the SQL OFFSET value.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ErrorDetail provides structured error information for API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the generic wrapper for all API responses.
type APIResponse[T any] struct {
	Success    bool         `json:"success"`
	Data       T            `json:"data,omitempty"`
	Error      *ErrorDetail `json:"error,omitempty"`
	Pagination *Pagination  `json:"pagination,omitempty"`
	Timestamp  Timestamp    `json:"timestamp"`
}

// NewSuccessResponse creates a successful APIResponse.
func NewSuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{
		Success:   true,
		Data:      data,
		Timestamp: NewTimestamp(),
	}
}

// NewErrorResponse creates an error APIResponse.
func NewErrorResponse(code string, message string) APIResponse[any] {
	return APIResponse[any]{
		Success:   false,
		Error:     &ErrorDetail{Code: code, Message: message},
		Timestamp: NewTimestamp(),
	}
}

// DomainEvent represents a significant event in the domain.
type DomainEvent interface {
	EventID() string
	OccurredAt() time.Time
	AggregateID() string
}

// BaseEvent provides common fields for domain events.
type BaseEvent struct {
	ID        string    `json:"event_id"`
	Timestamp time.Time `json:"occurred_at"`
	AggID     string    `json:"aggregate_id"`
}

func NewBaseEvent(aggID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		AggID:     aggID,
	}
}

func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseEvent) AggregateID() string   { return e.AggID }

// ComponentHealth provides health information for a specific component.
type ComponentHealth struct {
	Name    string        `json:"name"`
	Status  HealthStatus  `json:"status"`
	Latency time.Duration `json:"latency"`
	Message string        `json:"message"`
}

// HealthStatus indicates the health of a component or service.
type HealthStatus string

const (
	HealthUp       HealthStatus = "up"
	HealthDown     HealthStatus = "down"
	HealthDegraded HealthStatus = "degraded"
)

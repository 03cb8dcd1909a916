// Package clause defines the smallest addressable unit of a legal document
// and its embedding.  Both are write-once: created during segmentation of a
// version and never mutated afterwards.
package clause

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hukumtek/LexIntel/pkg/errors"
	"github.com/hukumtek/LexIntel/pkg/types/common"
)

// Clause is one addressable legal unit within a DocumentVersion.
//
// Ref is the structural label exactly as found in the text ("Pasal 3",
// "Ayat (2)").  It is NOT unique within a version: legal documents repeat
// numbering under different parents, so identity across versions uses the
// full ancestor path, never the bare ref.  SequenceOrder is strictly
// increasing within a version and defines document order.
type Clause struct {
	ID            uuid.UUID         `json:"id"`
	VersionID     uuid.UUID         `json:"version_id"`
	Ref           string            `json:"clause_ref"`
	Type          common.ClauseType `json:"clause_type"`
	Text          string            `json:"text"`
	PageFrom      int               `json:"page_from"`
	PageTo        int               `json:"page_to"`
	SequenceOrder int               `json:"sequence_order"`
	// AncestorRefs are the refs of the enclosing clauses from shallowest to
	// deepest, excluding this clause's own ref ("BAB II", "Pasal 3").
	AncestorRefs []string  `json:"ancestor_refs,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// PathSeparator joins ancestor refs into a hierarchical path.
const PathSeparator = " > "

// Path returns the fully-qualified hierarchical path of the clause,
// e.g. "BAB II > Pasal 3 > Ayat (2)".  Anchoring across versions keys on
// this path because bare refs legitimately collide.
func (c *Clause) Path() string {
	if len(c.AncestorRefs) == 0 {
		return c.Ref
	}
	return strings.Join(c.AncestorRefs, PathSeparator) + PathSeparator + c.Ref
}

// Validate checks the clause invariants.  A violated page range is an
// integrity violation, never silently coerced.
func (c *Clause) Validate() error {
	if c.VersionID == uuid.Nil {
		return errors.IntegrityViolation("clause has no owning version")
	}
	if !c.Type.Valid() {
		return errors.IntegrityViolation("unknown clause type").WithDetail(string(c.Type))
	}
	if c.PageFrom > c.PageTo {
		return errors.IntegrityViolation("clause page_from exceeds page_to").
			WithDetail(c.Ref)
	}
	if c.PageFrom < 1 {
		return errors.IntegrityViolation("clause page_from must be >= 1").
			WithDetail(c.Ref)
	}
	if c.SequenceOrder < 0 {
		return errors.IntegrityViolation("clause sequence_order must be >= 0")
	}
	return nil
}

// ValidateSequence checks that clauses are in strictly increasing sequence
// order, as the segmenter guarantees and the diff engine relies on.
func ValidateSequence(clauses []*Clause) error {
	for i := 1; i < len(clauses); i++ {
		if clauses[i].SequenceOrder <= clauses[i-1].SequenceOrder {
			return errors.IntegrityViolation("clause sequence order is not strictly increasing").
				WithDetail(clauses[i].Ref)
		}
	}
	return nil
}

// Embedding is the fixed-dimension vector of one clause, produced by the
// external embedding service.  1:1 with Clause, immutable once written.
type Embedding struct {
	ClauseID  uuid.UUID `json:"clause_id"`
	VersionID uuid.UUID `json:"version_id"`
	Vector    []float32 `json:"vector"`
	Dimension int       `json:"dimension"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the embedding invariants.
func (e *Embedding) Validate() error {
	if e.ClauseID == uuid.Nil {
		return errors.IntegrityViolation("embedding has no clause")
	}
	if len(e.Vector) == 0 {
		return errors.IntegrityViolation("embedding vector is empty")
	}
	if e.Dimension != len(e.Vector) {
		return errors.IntegrityViolation("embedding dimension does not match vector length")
	}
	return nil
}

package clause

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/hukumtek/LexIntel/pkg/errors"
	"github.com/hukumtek/LexIntel/pkg/types/common"
)

func valid() *Clause {
	return &Clause{
		ID:            uuid.New(),
		VersionID:     uuid.New(),
		Ref:           "Ayat (2)",
		Type:          common.ClauseAyat,
		Text:          "Setiap warga negara berhak mendapat pendidikan.",
		PageFrom:      3,
		PageTo:        3,
		SequenceOrder: 7,
		AncestorRefs:  []string{"BAB II", "Pasal 3"},
	}
}

func TestPath(t *testing.T) {
	c := valid()
	assert.Equal(t, "BAB II > Pasal 3 > Ayat (2)", c.Path())

	c.AncestorRefs = nil
	assert.Equal(t, "Ayat (2)", c.Path())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, valid().Validate())

	c := valid()
	c.VersionID = uuid.Nil
	assert.True(t, errors.IsCode(c.Validate(), errors.ErrCodeIntegrityViolation))

	c = valid()
	c.Type = "article"
	assert.Error(t, c.Validate())

	c = valid()
	c.PageFrom, c.PageTo = 5, 3
	assert.True(t, errors.IsCode(c.Validate(), errors.ErrCodeIntegrityViolation))

	c = valid()
	c.PageFrom, c.PageTo = 0, 0
	assert.Error(t, c.Validate())
}

func TestValidateSequence(t *testing.T) {
	a, b := valid(), valid()
	a.SequenceOrder, b.SequenceOrder = 1, 2
	assert.NoError(t, ValidateSequence([]*Clause{a, b}))

	b.SequenceOrder = 1
	assert.Error(t, ValidateSequence([]*Clause{a, b}))

	assert.NoError(t, ValidateSequence(nil))
}

func TestEmbeddingValidate(t *testing.T) {
	e := &Embedding{
		ClauseID:  uuid.New(),
		VersionID: uuid.New(),
		Vector:    []float32{0.1, 0.2, 0.3},
		Dimension: 3,
	}
	assert.NoError(t, e.Validate())

	e.Dimension = 4
	assert.True(t, errors.IsCode(e.Validate(), errors.ErrCodeIntegrityViolation))

	e.Vector, e.Dimension = nil, 0
	assert.Error(t, e.Validate())

	e2 := &Embedding{Vector: []float32{1}, Dimension: 1}
	assert.Error(t, e2.Validate())
}

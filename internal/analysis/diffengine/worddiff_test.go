package diffengine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordDiffIdentical(t *testing.T) {
	s := "setiap warga negara berhak"
	spans := WordDiff(s, s)
	require.Len(t, spans, 1)
	assert.Equal(t, SpanUnchanged, spans[0].Kind)
	assert.Equal(t, s, spans[0].Text)
}

func TestWordDiffSingleSubstitution(t *testing.T) {
	spans := WordDiff(
		"setiap orang dapat mengajukan permohonan",
		"setiap orang wajib mengajukan permohonan",
	)
	assert.Equal(t, []TokenSpan{
		{Kind: SpanUnchanged, Text: "setiap orang"},
		{Kind: SpanRemoved, Text: "dapat"},
		{Kind: SpanAdded, Text: "wajib"},
		{Kind: SpanUnchanged, Text: "mengajukan permohonan"},
	}, spans)
}

func TestWordDiffPureInsertion(t *testing.T) {
	spans := WordDiff("pendidikan dasar", "pendidikan anak usia dini dan dasar")
	var added, removed int
	for _, sp := range spans {
		switch sp.Kind {
		case SpanAdded:
			added++
		case SpanRemoved:
			removed++
		}
	}
	assert.Positive(t, added)
	assert.Zero(t, removed)
}

// removed+unchanged spans reconstruct the old text, added+unchanged the new
func TestWordDiffReconstruction(t *testing.T) {
	from := "pemerintah daerah wajib menyediakan anggaran pendidikan paling sedikit dua puluh persen"
	to := "pemerintah pusat dan pemerintah daerah menyediakan anggaran pendidikan sekurang kurangnya dua puluh persen"

	spans := WordDiff(from, to)

	var oldSide, newSide []string
	for _, sp := range spans {
		switch sp.Kind {
		case SpanUnchanged:
			oldSide = append(oldSide, sp.Text)
			newSide = append(newSide, sp.Text)
		case SpanRemoved:
			oldSide = append(oldSide, sp.Text)
		case SpanAdded:
			newSide = append(newSide, sp.Text)
		}
	}
	assert.Equal(t, from, strings.Join(oldSide, " "))
	assert.Equal(t, to, strings.Join(newSide, " "))
}

func TestWordDiffEmptySides(t *testing.T) {
	assert.Empty(t, WordDiff("", ""))

	spans := WordDiff("", "pasal baru")
	require.Len(t, spans, 1)
	assert.Equal(t, SpanAdded, spans[0].Kind)

	spans = WordDiff("pasal lama", "")
	require.Len(t, spans, 1)
	assert.Equal(t, SpanRemoved, spans[0].Kind)
}

package segmenter

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/pkg/errors"
	"github.com/hukumtek/LexIntel/pkg/types/common"
)

var samplePages = []PageText{
	{Number: 1, Text: `UNDANG-UNDANG REPUBLIK INDONESIA
NOMOR 20 TAHUN 2003
TENTANG SISTEM PENDIDIKAN NASIONAL

BAB I
KETENTUAN UMUM

Pasal 1
Dalam undang-undang ini yang dimaksud dengan:
1. Pendidikan adalah usaha sadar dan terencana untuk mewujudkan suasana belajar dan proses pembelajaran.
2. Pendidikan nasional adalah pendidikan yang berdasarkan Pancasila dan Undang-Undang Dasar Negara Republik Indonesia Tahun 1945.`},
	{Number: 2, Text: `BAB II
DASAR, FUNGSI, DAN TUJUAN

Pasal 2
Pendidikan nasional berdasarkan Pancasila dan Undang-Undang Dasar Negara Republik Indonesia Tahun 1945.

Pasal 3
(1) Pendidikan nasional berfungsi mengembangkan kemampuan dan membentuk watak serta peradaban bangsa yang bermartabat.
(2) Setiap warga negara mempunyai hak yang sama untuk memperoleh pendidikan yang bermutu, meliputi:
a. pendidikan dasar;
b. pendidikan menengah.`},
}

func newSegmenter(t *testing.T) *Segmenter {
	t.Helper()
	return New(DefaultConfig(), logging.NewNopLogger())
}

func TestSegmentSample(t *testing.T) {
	res, err := newSegmenter(t).Segment(uuid.New(), samplePages)
	require.NoError(t, err)

	require.Len(t, res.Clauses, 11)
	types := make([]common.ClauseType, 0, len(res.Clauses))
	refs := make([]string, 0, len(res.Clauses))
	for _, c := range res.Clauses {
		types = append(types, c.Type)
		refs = append(refs, c.Ref)
	}
	assert.Equal(t, []common.ClauseType{
		common.ClauseBab, common.ClausePasal, common.ClauseAngka, common.ClauseAngka,
		common.ClauseBab, common.ClausePasal, common.ClausePasal,
		common.ClauseAyat, common.ClauseAyat, common.ClauseHuruf, common.ClauseHuruf,
	}, types)
	assert.Equal(t, []string{
		"BAB I", "Pasal 1", "1.", "2.",
		"BAB II", "Pasal 2", "Pasal 3", "(1)", "(2)", "a.", "b.",
	}, refs)

	assert.Equal(t, 2, res.TotalPages)
	assert.Equal(t, "structural-grammar", res.Method)
}

func TestSegmentSequenceStrictlyIncreasing(t *testing.T) {
	res, err := newSegmenter(t).Segment(uuid.New(), samplePages)
	require.NoError(t, err)

	for i := 1; i < len(res.Clauses); i++ {
		assert.Greater(t, res.Clauses[i].SequenceOrder, res.Clauses[i-1].SequenceOrder)
	}
}

func TestSegmentHierarchicalPaths(t *testing.T) {
	res, err := newSegmenter(t).Segment(uuid.New(), samplePages)
	require.NoError(t, err)

	byRefSeq := map[string]string{}
	for _, c := range res.Clauses {
		byRefSeq[c.Path()] = c.Ref
	}

	// ayat scoped under its pasal, huruf under its ayat
	assert.Contains(t, byRefSeq, "BAB II > Pasal 3 > (2)")
	assert.Contains(t, byRefSeq, "BAB II > Pasal 3 > (2) > a.")
	assert.Contains(t, byRefSeq, "BAB I > Pasal 1 > 1.")

	// angka numbering under Pasal 1 did not leak into BAB II
	assert.NotContains(t, byRefSeq, "BAB II > 1.")
}

func TestSegmentPageTracking(t *testing.T) {
	res, err := newSegmenter(t).Segment(uuid.New(), samplePages)
	require.NoError(t, err)

	for _, c := range res.Clauses {
		assert.LessOrEqual(t, c.PageFrom, c.PageTo, "clause %s", c.Ref)
		switch c.Ref {
		case "BAB I", "Pasal 1":
			assert.Equal(t, 1, c.PageFrom)
		case "BAB II", "Pasal 3", "(2)":
			assert.Equal(t, 2, c.PageFrom)
		}
	}
}

func TestSegmentClauseText(t *testing.T) {
	res, err := newSegmenter(t).Segment(uuid.New(), samplePages)
	require.NoError(t, err)

	var ayat2 string
	for _, c := range res.Clauses {
		if c.Path() == "BAB II > Pasal 3 > (2)" {
			ayat2 = c.Text
		}
	}
	assert.Contains(t, ayat2, "hak yang sama")
	// huruf items open their own clauses, their text is not the ayat's
	assert.NotContains(t, ayat2, "pendidikan dasar")
}

func TestSegmentEmptyInput(t *testing.T) {
	_, err := newSegmenter(t).Segment(uuid.New(), nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))

	_, err = newSegmenter(t).Segment(uuid.New(), []PageText{{Number: 1, Text: "   \n\n  "}})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))
}

func TestSegmentTooShort(t *testing.T) {
	_, err := newSegmenter(t).Segment(uuid.New(), []PageText{{Number: 1, Text: "Pasal 1 saja"}})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))
}

func TestSegmentNilVersion(t *testing.T) {
	_, err := newSegmenter(t).Segment(uuid.Nil, samplePages)
	assert.Error(t, err)
}

func TestNormalizeWhitespaceBounds(t *testing.T) {
	inputs := []string{
		"a    b\t\tc",
		"x\n\n\n\n\ny",
		"  leading   and \r\n\r\n\r\n trailing   \n\n\n",
		"“smart” ‘quotes’ – and — dashes",
		"ctrl\x00chars\x07here",
	}
	for _, in := range inputs {
		out := Normalize(in)
		assert.NotContains(t, out, "   ", "input %q", in)
		assert.NotContains(t, out, "\n\n\n", "input %q", in)
		assert.NotContains(t, out, "\x00")
	}
}

func TestNormalizeSmartQuotes(t *testing.T) {
	assert.Equal(t, `"hak" dan 'kewajiban' - sama`, Normalize("“hak” dan ‘kewajiban’ – sama"))
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("  \n\n\t "))
}

func TestValidateStructuredDocument(t *testing.T) {
	var full strings.Builder
	for _, p := range samplePages {
		full.WriteString(p.Text)
		full.WriteByte('\n')
	}
	report := Validate(full.String(), 50)

	assert.Greater(t, report.Confidence, 50.0)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Issues)
}

func TestValidatePlainProse(t *testing.T) {
	report := Validate("The quick brown fox jumps over the lazy dog. Nothing legal here at all.", 50)

	assert.Less(t, report.Confidence, 50.0)
	assert.False(t, report.Valid)
	assert.NotEmpty(t, report.Issues)
}

func TestValidateVocabularyWithoutStructure(t *testing.T) {
	// legal vocabulary alone cannot reach the floor without markers
	text := "Dokumen ini membahas undang-undang dan peraturan serta ketentuan umum " +
		"mengenai berbagai hal, namun tanpa struktur yang baku."
	report := Validate(text, 50)

	assert.Less(t, report.Confidence, 50.0)
	assert.False(t, report.Valid)
	assert.NotEmpty(t, report.Issues)
}

func TestValidateEmpty(t *testing.T) {
	report := Validate("", 50)
	assert.False(t, report.Valid)
	assert.Equal(t, 0.0, report.Confidence)
	assert.NotEmpty(t, report.Issues)
}

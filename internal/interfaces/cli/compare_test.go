package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hukumtek/LexIntel/internal/analysis/diffengine"
)

const oldLaw = `BAB I
KETENTUAN UMUM

Pasal 1
Dalam Undang-Undang ini yang dimaksud dengan Data Pribadi adalah data
tentang orang perseorangan yang teridentifikasi atau dapat diidentifikasi
secara tersendiri atau dikombinasi dengan informasi lainnya.

Pasal 2
Setiap Orang berhak atas pelindungan Data Pribadi sesuai dengan
ketentuan peraturan perundang-undangan yang berlaku.
`

const newLaw = `BAB I
KETENTUAN UMUM

Pasal 1
Dalam Undang-Undang ini yang dimaksud dengan Data Pribadi adalah data
tentang orang perseorangan yang teridentifikasi atau dapat diidentifikasi
secara tersendiri atau dikombinasi dengan informasi lainnya.

Pasal 2
Setiap Orang berhak atas pelindungan Data Pribadi sesuai dengan
ketentuan peraturan perundang-undangan yang berlaku di Indonesia.

Pasal 3
Pelindungan Data Pribadi dilakukan berdasarkan asas kepastian hukum
dan kepentingan umum sebagaimana diatur dalam peraturan pelaksana.
`

func TestCompareCommand(t *testing.T) {
	oldPath := writeFixture(t, "old.txt", oldLaw)
	newPath := writeFixture(t, "new.txt", newLaw)

	out, err := runCLI(t, "compare", oldPath, newPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Changes:")
	assert.Contains(t, out, "added")
	assert.Contains(t, out, "Pasal 3")
}

func TestCompareCommandJSON(t *testing.T) {
	oldPath := writeFixture(t, "old.txt", oldLaw)
	newPath := writeFixture(t, "new.txt", newLaw)

	out, err := runCLI(t, "compare", "-o", "json", oldPath, newPath)
	require.NoError(t, err)

	var diff diffengine.DiffResult
	require.NoError(t, json.Unmarshal([]byte(out), &diff))
	assert.Equal(t, diff.Summary.Total, len(diff.Changes))
	assert.GreaterOrEqual(t, diff.Summary.Additions, 1)
}

func TestCompareCommandIdenticalVersions(t *testing.T) {
	oldPath := writeFixture(t, "old.txt", oldLaw)
	newPath := writeFixture(t, "new.txt", oldLaw)

	out, err := runCLI(t, "compare", "-o", "json", oldPath, newPath)
	require.NoError(t, err)

	var diff diffengine.DiffResult
	require.NoError(t, json.Unmarshal([]byte(out), &diff))
	assert.Zero(t, diff.Summary.Total)
}

func TestCompareCommandWrongArgCount(t *testing.T) {
	_, err := runCLI(t, "compare", "only-one.txt")
	assert.Error(t, err)
}

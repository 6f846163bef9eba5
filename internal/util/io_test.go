package util_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellatom/internal/util"
)

func TestReadGridParsesRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grid.txt")
	require.NoError(t, os.WriteFile(path, []byte("0 1 0\n1 1 1\n0 1 0\n"), 0o644))

	grid, w, h, err := util.ReadGrid(path)
	require.NoError(t, err)
	assert.EqualValues(t, 3, w)
	assert.EqualValues(t, 3, h)
	assert.Equal(t, []int16{0, 1, 0, 1, 1, 1, 0, 1, 0}, grid)
}

func TestReadGridRejectsRaggedRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grid.txt")
	require.NoError(t, os.WriteFile(path, []byte("0 1 0\n1 1\n"), 0o644))

	_, _, _, err := util.ReadGrid(path)
	assert.Error(t, err)
}

func TestWriteGridRoundTrip(t *testing.T) {
	grid := []int16{0, 1, 0, 1, 1, 1, 0, 1, 0}
	var buf bytes.Buffer
	require.NoError(t, util.WriteGrid(&buf, grid, 3, 3))

	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	got, w, h, err := util.ReadGrid(path)
	require.NoError(t, err)
	assert.EqualValues(t, 3, w)
	assert.EqualValues(t, 3, h)
	assert.Equal(t, grid, got)
}

func TestRandomGridRespectsBounds(t *testing.T) {
	grid := util.RandomGrid(4, 4, 3)
	assert.Len(t, grid, 16)
	for _, v := range grid {
		assert.GreaterOrEqual(t, v, int16(0))
		assert.LessOrEqual(t, v, int16(3))
	}
}

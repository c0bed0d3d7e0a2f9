package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsynab/wsynab/internal/dom"
)

func TestIsSnapshot(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"activity.html", true},
		{"Activity.HTM", true},
		{"activity.csv", false},
		{"html", false},
		{"activity.html.bak", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSnapshot(tt.name), tt.name)
	}
}

func TestScan_FindsSnapshots(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.htm"), []byte("<p>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.html"), []byte("<p>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.html", files[0].Name)
	assert.Equal(t, filepath.Join(dir, "a.html"), files[0].Path)
	assert.Equal(t, int64(3), files[0].Size)
	assert.Equal(t, "b.htm", files[1].Name)
}

func TestScan_IgnoresProcessedDir(t *testing.T) {
	dir := t.TempDir()
	processed := filepath.Join(dir, ProcessedDir)
	require.NoError(t, os.MkdirAll(processed, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.html"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(processed, "old.html"), []byte("x"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "new.html", files[0].Name)
}

func TestScan_MissingDir(t *testing.T) {
	files, err := Scan(filepath.Join(t.TempDir(), "import"))
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestLoad(t *testing.T) {
	root, err := Load("../../testdata/activity.html")
	require.NoError(t, err)

	headings := dom.FindAll(root, dom.Tag("h2"))
	assert.NotEmpty(t, headings)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.html"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "activity.html"), []byte("x"), 0o644))

	require.NoError(t, MarkProcessed(dir, "activity.html"))

	_, err := os.Stat(filepath.Join(dir, "activity.html"))
	assert.True(t, os.IsNotExist(err))

	info, err := os.Stat(filepath.Join(dir, ProcessedDir, "activity.html"))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestMarkProcessed_Missing(t *testing.T) {
	err := MarkProcessed(t.TempDir(), "gone.html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "moving gone.html")
}

package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStylesPath(t *testing.T) {
	assert.Equal(t, filepath.Join("root", "styles.csv"), DefaultStylesPath("root/"))
}

func TestResolveStylePath(t *testing.T) {
	root := t.TempDir()

	got, err := ResolveStylePath("custom.csv", root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "custom.csv"), got)

	abs := filepath.Join(t.TempDir(), "abs.csv")
	got, err = ResolveStylePath(abs, root)
	require.NoError(t, err)
	assert.Equal(t, abs, got)

	_, err = ResolveStylePath("bad\x00.csv", root)
	assert.Error(t, err)
}

func TestListStyleFilesCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "styles")

	names, err := ListStyleFiles(dir)
	require.NoError(t, err)
	assert.Empty(t, names)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListStyleFilesFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.csv", "notes.txt", "UPPER.CSV"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("name,prompt\n"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.csv"), 0o755))

	names, err := ListStyleFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"UPPER.CSV", "a.csv", "b.csv"}, names)
}

func TestStyleFilePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("x\n"), 0o644))

	got, err := StyleFilePath(dir, "a.csv")
	require.NoError(t, err)
	assert.Equal(t, "a.csv", filepath.Base(got))

	_, err = StyleFilePath(dir, "../escape.csv")
	assert.Error(t, err)
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptstyles/internal/styles"
)

func TestRunBatch(t *testing.T) {
	a, _, _ := newTestApp(t, testStyles, "")

	in := strings.NewReader("Anime, Cinematic\nMissing\n\nCinematic\n")
	out := &bytes.Buffer{}
	require.NoError(t, runBatch(a, "", in, out))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "cel shading, vivid film grain", lines[0])
	assert.Equal(t, "photo cartoon", lines[1])
	assert.Equal(t, "", lines[2])
	assert.Equal(t, "", lines[3])
	assert.Equal(t, "", lines[4])
	assert.Equal(t, "", lines[5])
	assert.Equal(t, "film grain", lines[6])
	assert.Equal(t, "cartoon", lines[7])
}

func TestRunBatchBrokenTable(t *testing.T) {
	a, _, _ := newTestApp(t, "", "")
	err := runBatch(a, "", strings.NewReader("Anime\n"), &bytes.Buffer{})
	assert.ErrorContains(t, err, "failed to load styles")
}

func TestRunBatchManualOverride(t *testing.T) {
	a, _, _ := newTestApp(t, testStyles, "")
	a.state.ManualEnabled = true
	a.state.Manual = styles.Prompt{Negative: "blurry"}

	out := &bytes.Buffer{}
	require.NoError(t, runBatch(a, "", strings.NewReader("Anime\n"), out))
	assert.Equal(t, "cel shading, vivid\nblurry\n", out.String())
}

func TestRunBatchFromStylesDir(t *testing.T) {
	a, root, _ := newTestApp(t, testStyles, "")
	dir := filepath.Join(root, "styles")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.csv"), []byte("name,prompt,negative\nOil,oil paint,photo\n"), 0o644))

	out := &bytes.Buffer{}
	require.NoError(t, runBatch(a, "extra.csv", strings.NewReader("Oil, Anime\n"), out))
	assert.Equal(t, "oil paint\nphoto\n", out.String())

	out.Reset()
	require.NoError(t, runBatch(a, "missing.csv", strings.NewReader("Oil\n"), out))
	assert.Equal(t, "\n\n", out.String())

	assert.Error(t, runBatch(a, "../escape.csv", strings.NewReader("Oil\n"), &bytes.Buffer{}))
}

func TestSingleLine(t *testing.T) {
	assert.Equal(t, "a b  c", singleLine("a\tb\r\nc"))
}

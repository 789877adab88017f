// Package samples ships a ready-to-use style file inside the binary.
package samples

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"promptstyles/internal/styles"
)

// DefaultName is the embedded sample used by -sample.
const DefaultName = "styles.csv"

//go:embed *.csv
var sampleFiles embed.FS

// Names lists the embedded style files in lexical order.
func Names() ([]string, error) {
	entries, err := fs.ReadDir(sampleFiles, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded samples: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no sample style files found in embedded set")
	}
	sort.Strings(names)
	return names, nil
}

// Table parses an embedded style file.
func Table(name string) (*styles.Table, error) {
	data, err := sampleFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample %q: %w", name, err)
	}
	return styles.ParseReader(bytes.NewReader(data))
}

// Install writes the embedded sample name to path unless a file is already
// there. It reports whether the file was written.
func Install(name, path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to check %s: %w", path, err)
	}

	data, err := sampleFiles.ReadFile(name)
	if err != nil {
		return false, fmt.Errorf("failed to read sample %q: %w", name, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

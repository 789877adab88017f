// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package catalog locates style files: the default styles.csv under the root
// directory and the selectable files of the styles directory.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"promptstyles/internal/paths"
)

// DefaultStylesFile is the style file name looked up under the root directory.
const DefaultStylesFile = "styles.csv"

// DefaultStylesPath returns the default style file location under root.
func DefaultStylesPath(root string) string {
	return filepath.Clean(filepath.Join(root, DefaultStylesFile))
}

// ResolveStylePath resolves a user-supplied style file path. Absolute paths
// are used as given, relative ones are taken from root.
func ResolveStylePath(custom, root string) (string, error) {
	resolved, err := paths.ResolveUnderRoot(custom, root)
	if err != nil {
		return "", fmt.Errorf("invalid style file path %q: %w", custom, err)
	}
	return resolved, nil
}

// ListStyleFiles returns the sorted names of the .csv files in dir. The
// directory is created when missing.
func ListStyleFiles(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create styles directory: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read styles directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// StyleFilePath returns the path of a file picked from dir, refusing names
// that escape it.
func StyleFilePath(dir, name string) (string, error) {
	resolved, err := paths.ResolveWithinBase(name, dir)
	if err != nil {
		return "", fmt.Errorf("invalid style file %q: %w", name, err)
	}
	return resolved, nil
}

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

// Package loader exposes the two ways a pipeline picks prompts from style
// files: one style by name from the default file, or several keys from a
// file in the styles directory.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"promptstyles/internal/catalog"
	"promptstyles/internal/styles"
	"promptstyles/internal/watch"
)

// StyleLoader serves single styles from <root>/styles.csv, optionally
// overridden per call by another file.
type StyleLoader struct {
	root     string
	parser   *styles.Parser
	logger   zerolog.Logger
	reloader *watch.Reloader
}

// NewStyleLoader loads the default style file under root.
func NewStyleLoader(root string, parser *styles.Parser, logger zerolog.Logger) *StyleLoader {
	return NewStyleLoaderFile(root, catalog.DefaultStylesPath(root), parser, logger)
}

// NewStyleLoaderFile is like NewStyleLoader with an explicit default file.
func NewStyleLoaderFile(root, path string, parser *styles.Parser, logger zerolog.Logger) *StyleLoader {
	return &StyleLoader{
		root:     root,
		parser:   parser,
		logger:   logger,
		reloader: watch.New(path, parser, logger),
	}
}

// Reloader returns the reloader holding the default table, for callers that
// want to watch the file.
func (l *StyleLoader) Reloader() *watch.Reloader {
	return l.reloader
}

// Table returns the default table.
func (l *StyleLoader) Table() *styles.Table {
	return l.reloader.Table()
}

// Styles lists the style names of the default table in file order. A broken
// file lists only the error key.
func (l *StyleLoader) Styles() []string {
	return l.Table().Names()
}

// Refresh re-reads the default file.
func (l *StyleLoader) Refresh() *styles.Table {
	return l.reloader.Refresh()
}

// Execute resolves style. When csvPath names a file other than the default
// one, that file is tried first; a style it lacks falls back to the default
// table.
func (l *StyleLoader) Execute(style, csvPath string) (styles.Prompt, error) {
	if csvPath != "" && csvPath != catalog.DefaultStylesFile {
		custom, err := catalog.ResolveStylePath(csvPath, l.root)
		if err != nil {
			return styles.Prompt{}, err
		}
		if custom != l.reloader.Path() {
			if p, ok := l.parser.Parse(custom).Get(style); ok {
				return p, nil
			}
			l.logger.Debug().Str("style", style).Str("path", custom).Msg("Style not in custom file, using default table")
		}
	}
	return styles.ResolveOne(l.Table(), style)
}

// MultiStyleLoader combines several styles picked from one of the files in
// the styles directory.
type MultiStyleLoader struct {
	dir    string
	parser *styles.Parser
	logger zerolog.Logger
}

// NewMultiStyleLoader serves the style files found in dir.
func NewMultiStyleLoader(dir string, parser *styles.Parser, logger zerolog.Logger) *MultiStyleLoader {
	return &MultiStyleLoader{dir: filepath.Clean(dir), parser: parser, logger: logger}
}

// Dir returns the styles directory.
func (m *MultiStyleLoader) Dir() string {
	return m.dir
}

// Files lists the style files available, creating the directory if needed.
func (m *MultiStyleLoader) Files() ([]string, error) {
	return catalog.ListStyleFiles(m.dir)
}

// Path resolves a file name inside the styles directory, creating the
// directory when missing.
func (m *MultiStyleLoader) Path(file string) (string, error) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create styles directory: %w", err)
	}
	return catalog.StyleFilePath(m.dir, file)
}

// Table loads one file of the styles directory.
func (m *MultiStyleLoader) Table(file string) (*styles.Table, error) {
	path, err := m.Path(file)
	if err != nil {
		return nil, err
	}
	return m.parser.Load(path)
}

// Execute resolves the comma-separated keys against file. A file that does
// not exist yields an empty pair. With manualEdit set, non-empty manual
// prompts replace the combined ones.
func (m *MultiStyleLoader) Execute(file, keys string, manualEdit bool, manualPositive, manualNegative string) (styles.Prompt, error) {
	table, err := m.Table(file)
	if err != nil {
		if errors.Is(err, styles.ErrSourceMissing) {
			m.logger.Debug().Str("file", file).Msg("Style file missing, returning empty prompts")
			return styles.Prompt{}, nil
		}
		return styles.Prompt{}, err
	}

	manual := &styles.Prompt{Positive: manualPositive, Negative: manualNegative}
	return styles.ResolveMany(table, styles.SplitKeys(keys), manual, manualEdit), nil
}

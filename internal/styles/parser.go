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

package styles

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	apperrors "promptstyles/internal/errors"
)

var (
	// ErrSourceMissing matches load errors for a style file that does not exist.
	ErrSourceMissing = apperrors.New(apperrors.CodeSourceMissing, "style file not found")
	// ErrSourceUnreadable matches load errors for a file that cannot be read or decoded.
	ErrSourceUnreadable = apperrors.New(apperrors.CodeSourceUnreadable, "style file unreadable")
	// ErrRowMalformed matches every RowError.
	ErrRowMalformed = apperrors.New(apperrors.CodeRowMalformed, "malformed style row")
)

// RowError describes a row skipped while parsing.
type RowError struct {
	Line   int
	Raw    string
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Raw)
}

func (e RowError) Unwrap() error { return ErrRowMalformed }

// Parser reads style files. Root is the directory users are told to put
// styles.csv in when loading fails; Notify receives human-readable
// diagnostics and may be nil.
type Parser struct {
	Root   string
	Logger zerolog.Logger
	Notify func(message string)
}

// NewParser creates a parser reporting failures against root.
func NewParser(root string, logger zerolog.Logger) *Parser {
	return &Parser{Root: root, Logger: logger}
}

// Parse loads the style file at path. It never fails: when the file is
// missing or unreadable a diagnostic is emitted and the error table is
// returned.
func (p *Parser) Parse(path string) *Table {
	t, err := p.Load(path)
	if err == nil {
		return t
	}

	root := filepath.Clean(p.Root)
	if errors.Is(err, ErrSourceMissing) {
		p.emit(fmt.Sprintf("Error. No styles.csv found at %s. Put your styles.csv in the root directory, then refresh. Your current root directory is: %s", path, root))
	} else {
		p.emit(fmt.Sprintf("Error loading %s. Make sure it is in the root directory, then refresh. Your current root directory is: %s. Error: %v", path, root, err))
	}
	return ErrorTable(err)
}

// Load loads the style file at path and reports whole-file failures as
// errors matching ErrSourceMissing or ErrSourceUnreadable.
func (p *Parser) Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		code := apperrors.CodeSourceUnreadable
		if errors.Is(err, fs.ErrNotExist) {
			code = apperrors.CodeSourceMissing
		}
		p.Logger.Error().Err(err).Str("path", path).Str("root", p.Root).Msg("Failed to open style file")
		return nil, apperrors.Wrap(code, "open style file", err)
	}
	defer f.Close()

	t, err := p.Read(f)
	if err != nil {
		p.Logger.Error().Err(err).Str("path", path).Str("root", p.Root).Msg("Failed to read style file")
		return nil, err
	}
	p.Logger.Debug().Str("path", path).Int("styles", t.Len()).Int("skipped", len(t.rowErrors)).Msg("Loaded style file")
	return t, nil
}

// Read parses style rows from r. The first line is a header and is dropped
// without being checked.
func (p *Parser) Read(r io.Reader) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSourceUnreadable, "read style file", err)
	}
	data, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), raw)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSourceUnreadable, "decode style file", err)
	}
	if !utf8.Valid(data) {
		return nil, apperrors.New(apperrors.CodeSourceUnreadable, "style file is not valid UTF-8")
	}

	t := newTable()
	lines := strings.Split(string(data), "\n")
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSuffix(lines[i], "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		name, prompt, rowErr := p.parseRow(i+1, line)
		if rowErr != nil {
			t.rowErrors = append(t.rowErrors, *rowErr)
			p.Logger.Warn().Int("line", rowErr.Line).Str("raw", rowErr.Raw).Str("reason", rowErr.Reason).Msg("Skipping malformed style row")
			p.emit(fmt.Sprintf("Skipping malformed style row at line %d: %q (%s)", rowErr.Line, rowErr.Raw, rowErr.Reason))
			continue
		}
		t.set(name, prompt)
	}
	return t, nil
}

func (p *Parser) parseRow(lineNo int, line string) (name string, prompt Prompt, rowErr *RowError) {
	defer func() {
		if r := recover(); r != nil {
			rowErr = &RowError{Line: lineNo, Raw: line, Reason: fmt.Sprintf("field extraction failed: %v", r)}
		}
	}()

	fields := SplitFields(line)
	switch {
	case len(fields) < 2:
		return "", Prompt{}, &RowError{Line: lineNo, Raw: line, Reason: "expected at least 2 fields"}
	case len(fields) > 3:
		p.Logger.Debug().Int("line", lineNo).Int("fields", len(fields)).Msg("Ignoring extra style fields")
	}
	if fields[0] == "" {
		return "", Prompt{}, &RowError{Line: lineNo, Raw: line, Reason: "empty style name"}
	}

	prompt.Positive = fields[1]
	if len(fields) > 2 {
		prompt.Negative = fields[2]
	}
	return fields[0], prompt, nil
}

func (p *Parser) emit(message string) {
	if p.Notify != nil {
		p.Notify(message)
	}
}

// ParseReader parses style rows from r without logging or diagnostics.
func ParseReader(r io.Reader) (*Table, error) {
	p := &Parser{Logger: zerolog.Nop()}
	return p.Read(r)
}

// SplitFields splits a row on commas that sit outside double quotes: a comma
// separates fields only when an even number of quote characters follows it
// on the line. Quote characters and line terminators are removed from the
// resulting fields.
func SplitFields(line string) []string {
	quotesAfter := make([]int, len(line)+1)
	for i := len(line) - 1; i >= 0; i-- {
		quotesAfter[i] = quotesAfter[i+1]
		if line[i] == '"' {
			quotesAfter[i]++
		}
	}

	var fields []string
	start := 0
	for i := 0; i < len(line); i++ {
		if line[i] == ',' && quotesAfter[i]%2 == 0 {
			fields = append(fields, cleanField(line[start:i]))
			start = i + 1
		}
	}
	return append(fields, cleanField(line[start:]))
}

func cleanField(field string) string {
	field = strings.ReplaceAll(field, `"`, "")
	field = strings.ReplaceAll(field, "\n", "")
	return strings.ReplaceAll(field, "\r", "")
}

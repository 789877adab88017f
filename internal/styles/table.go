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

// Package styles parses style files and resolves style selections into
// positive/negative prompt pairs.
package styles

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrorKey is the single key of the table returned when a style file cannot
// be loaded at all. Pickers list it like any other style name.
const ErrorKey = "Error loading styles.csv, check the console"

// Prompt is the positive/negative prompt pair of a style. Both fields are
// always set; a field missing from the source row is the empty string.
type Prompt struct {
	Positive string `json:"positive" yaml:"positive"`
	Negative string `json:"negative" yaml:"negative"`
}

// Entry is a named style in table order.
type Entry struct {
	Name string
	Prompt
}

// Table maps style names to prompt pairs in source order. A table is
// read-only once returned by the parser.
type Table struct {
	entries   *orderedmap.OrderedMap[string, Prompt]
	rowErrors []RowError
	err       error
}

func newTable() *Table {
	return &Table{entries: orderedmap.New[string, Prompt]()}
}

// NewTable builds a table from entries. A repeated name overwrites the
// earlier value and keeps the earlier position.
func NewTable(entries ...Entry) *Table {
	t := newTable()
	for _, e := range entries {
		t.set(e.Name, e.Prompt)
	}
	return t
}

// ErrorTable returns the single-entry table standing in for a file that could
// not be loaded. err is kept so callers can tell it apart from a real style.
func ErrorTable(err error) *Table {
	t := newTable()
	t.set(ErrorKey, Prompt{})
	t.err = err
	return t
}

func (t *Table) set(name string, p Prompt) {
	t.entries.Set(name, p)
}

// Get returns the prompt pair for name.
func (t *Table) Get(name string) (Prompt, bool) {
	if t == nil || t.entries == nil {
		return Prompt{}, false
	}
	return t.entries.Get(name)
}

// Len returns the number of styles.
func (t *Table) Len() int {
	if t == nil || t.entries == nil {
		return 0
	}
	return t.entries.Len()
}

// Names returns the style names in table order.
func (t *Table) Names() []string {
	names := make([]string, 0, t.Len())
	if t.Len() == 0 {
		return names
	}
	for pair := t.entries.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Entries returns the styles in table order.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, 0, t.Len())
	if t.Len() == 0 {
		return entries
	}
	for pair := t.entries.Oldest(); pair != nil; pair = pair.Next() {
		entries = append(entries, Entry{Name: pair.Key, Prompt: pair.Value})
	}
	return entries
}

// Err returns the whole-file failure behind an error table, nil otherwise.
func (t *Table) Err() error {
	if t == nil {
		return nil
	}
	return t.err
}

// RowErrors returns the rows skipped while parsing.
func (t *Table) RowErrors() []RowError {
	if t == nil || len(t.rowErrors) == 0 {
		return nil
	}
	return append([]RowError(nil), t.rowErrors...)
}

// Equal reports whether both tables hold the same styles in the same order.
func (t *Table) Equal(other *Table) bool {
	if t.Len() != other.Len() {
		return false
	}
	a, b := t.Entries(), other.Entries()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

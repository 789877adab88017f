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
	"fmt"
	"strings"

	apperrors "promptstyles/internal/errors"
)

// ErrNameNotFound matches lookups of a style name absent from a table.
var ErrNameNotFound = apperrors.New(apperrors.CodeNameNotFound, "style not found")

// ResolveOne returns the prompt pair of a single style. A missing name is an
// error matching ErrNameNotFound; no default is substituted.
func ResolveOne(t *Table, name string) (Prompt, error) {
	p, ok := t.Get(name)
	if !ok {
		return Prompt{}, apperrors.New(apperrors.CodeNameNotFound, fmt.Sprintf("style %q not found", name))
	}
	return p, nil
}

// ResolveMany joins the prompts of the named styles with single spaces, in
// the given order. Names missing from the table are skipped. When
// manualEnabled is set, each non-empty field of manual replaces the joined
// value of that field.
func ResolveMany(t *Table, names []string, manual *Prompt, manualEnabled bool) Prompt {
	var positive, negative []string
	for _, name := range names {
		p, ok := t.Get(name)
		if !ok {
			continue
		}
		positive = append(positive, p.Positive)
		negative = append(negative, p.Negative)
	}

	out := Prompt{
		Positive: strings.Join(positive, " "),
		Negative: strings.Join(negative, " "),
	}
	if !manualEnabled || manual == nil {
		return out
	}
	if manual.Positive != "" {
		out.Positive = manual.Positive
	}
	if manual.Negative != "" {
		out.Negative = manual.Negative
	}
	return out
}

// SplitKeys splits a comma-separated list of style names, trimming blanks
// and dropping empty items.
func SplitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

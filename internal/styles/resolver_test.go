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
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func sampleTable() *Table {
	return NewTable(
		Entry{Name: "A", Prompt: Prompt{Positive: "pa", Negative: "na"}},
		Entry{Name: "B", Prompt: Prompt{Positive: "pb", Negative: "nb"}},
	)
}

func TestResolveOne(t *testing.T) {
	got, err := ResolveOne(sampleTable(), "B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (Prompt{Positive: "pb", Negative: "nb"}) {
		t.Fatalf("unexpected prompt: %+v", got)
	}
}

func TestResolveOneNotFound(t *testing.T) {
	_, err := ResolveOne(sampleTable(), "missing")
	if !errors.Is(err, ErrNameNotFound) {
		t.Fatalf("expected ErrNameNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), `"missing"`) {
		t.Fatalf("expected error to name the style, got %q", err.Error())
	}

	if _, err := ResolveOne(nil, "A"); !errors.Is(err, ErrNameNotFound) {
		t.Fatalf("expected ErrNameNotFound on nil table, got %v", err)
	}
}

func TestResolveMany(t *testing.T) {
	table := sampleTable()
	tests := []struct {
		name    string
		names   []string
		manual  *Prompt
		enabled bool
		want    Prompt
	}{
		{
			name:  "joins in order",
			names: []string{"A", "B"},
			want:  Prompt{Positive: "pa pb", Negative: "na nb"},
		},
		{
			name:  "input order wins over table order",
			names: []string{"B", "A"},
			want:  Prompt{Positive: "pb pa", Negative: "nb na"},
		},
		{
			name:  "missing names skipped",
			names: []string{"A", "nope", "B"},
			want:  Prompt{Positive: "pa pb", Negative: "na nb"},
		},
		{
			name:  "empty selection",
			names: nil,
			want:  Prompt{},
		},
		{
			name:  "all missing",
			names: []string{"x", "y"},
			want:  Prompt{},
		},
		{
			name:    "manual positive overrides, negative falls back",
			names:   []string{"A", "B"},
			manual:  &Prompt{Positive: "MANUAL_POS"},
			enabled: true,
			want:    Prompt{Positive: "MANUAL_POS", Negative: "na nb"},
		},
		{
			name:    "manual both fields",
			names:   []string{"A"},
			manual:  &Prompt{Positive: "mp", Negative: "mn"},
			enabled: true,
			want:    Prompt{Positive: "mp", Negative: "mn"},
		},
		{
			name:    "manual ignored when disabled",
			names:   []string{"A", "B"},
			manual:  &Prompt{Positive: "MANUAL_POS", Negative: "MANUAL_NEG"},
			enabled: false,
			want:    Prompt{Positive: "pa pb", Negative: "na nb"},
		},
		{
			name:    "nil manual with override enabled",
			names:   []string{"A"},
			enabled: true,
			want:    Prompt{Positive: "pa", Negative: "na"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveMany(table, tt.names, tt.manual, tt.enabled)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("ResolveMany mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSplitKeys(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"style1, style2", []string{"style1", "style2"}},
		{" a ,, b ,", []string{"a", "b"}},
		{"", nil},
		{" , ", nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, SplitKeys(tt.in)); diff != "" {
			t.Fatalf("SplitKeys(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestErrorTable(t *testing.T) {
	cause := errors.New("boom")
	table := ErrorTable(cause)

	if diff := cmp.Diff([]string{ErrorKey}, table.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(table.Err(), cause) {
		t.Fatalf("expected cause to be kept, got %v", table.Err())
	}
	got := ResolveMany(table, []string{ErrorKey}, nil, false)
	if got != (Prompt{}) {
		t.Fatalf("expected empty prompts from the error entry, got %+v", got)
	}
}

func TestWriteJSONKeepsOrder(t *testing.T) {
	table := NewTable(
		Entry{Name: "zeta", Prompt: Prompt{Positive: "z"}},
		Entry{Name: "alpha", Prompt: Prompt{Positive: "a", Negative: "n"}},
	)
	var buf bytes.Buffer
	if err := table.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	out := buf.String()
	if strings.Index(out, `"zeta"`) > strings.Index(out, `"alpha"`) {
		t.Fatalf("expected source order in JSON output:\n%s", out)
	}
	if !strings.Contains(out, `"negative": "n"`) {
		t.Fatalf("expected negative field in JSON output:\n%s", out)
	}

	buf.Reset()
	if err := NewTable().WriteJSON(&buf); err != nil || buf.String() != "{}\n" {
		t.Fatalf("expected empty object, got %q (%v)", buf.String(), err)
	}
}

func TestWriteYAMLKeepsOrder(t *testing.T) {
	table := NewTable(
		Entry{Name: "zeta", Prompt: Prompt{Positive: "z"}},
		Entry{Name: "alpha", Prompt: Prompt{Positive: "a", Negative: "n"}},
	)
	var buf bytes.Buffer
	if err := table.WriteYAML(&buf); err != nil {
		t.Fatalf("WriteYAML() error: %v", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(buf.Bytes(), &node); err != nil {
		t.Fatalf("invalid YAML output: %v\n%s", err, buf.String())
	}
	mapping := node.Content[0]
	if len(mapping.Content) != 4 || mapping.Content[0].Value != "zeta" || mapping.Content[2].Value != "alpha" {
		t.Fatalf("expected zeta then alpha, got:\n%s", buf.String())
	}
}

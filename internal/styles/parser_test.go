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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func writeTempStyles(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "styles.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write styles: %v", err)
	}
	return path
}

func newTestParser(t *testing.T) (*Parser, *[]string) {
	t.Helper()
	var messages []string
	p := NewParser(t.TempDir(), zerolog.Nop())
	p.Notify = func(message string) {
		messages = append(messages, message)
	}
	return p, &messages
}

func TestSplitFieldsQuoteAware(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{
			line: `Cinematic,"cinematic shot, dramatic lighting, film grain","low quality, blurry, amateur"`,
			want: []string{"Cinematic", "cinematic shot, dramatic lighting, film grain", "low quality, blurry, amateur"},
		},
		{
			line: `"Quoted, Name","field, with, commas","another, field"`,
			want: []string{"Quoted, Name", "field, with, commas", "another, field"},
		},
		{line: "plain,a,b", want: []string{"plain", "a", "b"}},
		{line: "two,fields\n", want: []string{"two", "fields"}},
		{line: "trailing,comma,", want: []string{"trailing", "comma", ""}},
		{line: "single", want: []string{"single"}},
		{line: "", want: []string{""}},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, SplitFields(tt.line)); diff != "" {
			t.Fatalf("SplitFields(%q) mismatch (-want +got):\n%s", tt.line, diff)
		}
	}
}

func TestParseWellFormedRoundTrip(t *testing.T) {
	path := writeTempStyles(t, "name,prompt,negative_prompt\nfoo,bright sky,dark clouds\n")
	p, _ := newTestParser(t)

	table := p.Parse(path)
	got, err := ResolveOne(table, "foo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (Prompt{Positive: "bright sky", Negative: "dark clouds"}) {
		t.Fatalf("unexpected prompt: %+v", got)
	}
	if table.Err() != nil {
		t.Fatalf("expected no table error, got %v", table.Err())
	}
}

func TestParseValidFixture(t *testing.T) {
	p, messages := newTestParser(t)
	table := p.Parse(filepath.Join("testdata", "valid_styles.csv"))

	want := []string{"Cinematic", "Anime", "Watercolor", "Noir"}
	if diff := cmp.Diff(want, table.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	cinematic, _ := table.Get("Cinematic")
	if cinematic.Positive != "cinematic shot, dramatic lighting, film grain" {
		t.Fatalf("unexpected positive prompt: %q", cinematic.Positive)
	}
	if cinematic.Negative != "low quality, blurry, amateur" {
		t.Fatalf("unexpected negative prompt: %q", cinematic.Negative)
	}
	if len(*messages) != 0 {
		t.Fatalf("expected no diagnostics, got %v", *messages)
	}
}

func TestParseComplexFixture(t *testing.T) {
	p, _ := newTestParser(t)
	table := p.Parse(filepath.Join("testdata", "complex_styles.csv"))

	want := []Entry{
		{Name: "Complex Quotes", Prompt: Prompt{Positive: "a double quotes test, with commas", Negative: "ugly, bad"}},
		{Name: "Special Characters", Prompt: Prompt{Positive: "café scene, ñáéíóú, 日本語 signage"}},
		{Name: "Empty Negative", Prompt: Prompt{Positive: "clean minimal layout"}},
		{Name: "Quoted, Name", Prompt: Prompt{Positive: "field, with, commas", Negative: "another, field"}},
		{Name: "two_column_name", Prompt: Prompt{Positive: "positive_only"}},
	}
	if diff := cmp.Diff(want, table.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMissingFileReturnsErrorTable(t *testing.T) {
	p, messages := newTestParser(t)
	table := p.Parse("/nonexistent/path/styles.csv")

	names := table.Names()
	if len(names) != 1 {
		t.Fatalf("expected a single error entry, got %v", names)
	}
	if !strings.Contains(names[0], "Error loading styles.csv") {
		t.Fatalf("expected error key, got %q", names[0])
	}
	if got, _ := table.Get(names[0]); got != (Prompt{}) {
		t.Fatalf("expected empty prompt pair, got %+v", got)
	}
	if !errors.Is(table.Err(), ErrSourceMissing) {
		t.Fatalf("expected source missing error, got %v", table.Err())
	}
	if len(*messages) != 1 || !strings.Contains((*messages)[0], p.Root) {
		t.Fatalf("expected one diagnostic naming the root directory, got %v", *messages)
	}
}

func TestLoadDistinguishesFailures(t *testing.T) {
	p, _ := newTestParser(t)

	if _, err := p.Load(filepath.Join(t.TempDir(), "missing.csv")); !errors.Is(err, ErrSourceMissing) {
		t.Fatalf("expected ErrSourceMissing, got %v", err)
	}

	bad := writeTempStyles(t, "name,prompt\nbroken,\xff\xfe\xfd\n")
	if _, err := p.Load(bad); !errors.Is(err, ErrSourceUnreadable) {
		t.Fatalf("expected ErrSourceUnreadable for invalid UTF-8, got %v", err)
	}

	if _, err := p.Load(t.TempDir()); !errors.Is(err, ErrSourceUnreadable) {
		t.Fatalf("expected ErrSourceUnreadable for a directory, got %v", err)
	}
}

func TestParseUnreadableReturnsErrorTable(t *testing.T) {
	p, messages := newTestParser(t)
	table := p.Parse(writeTempStyles(t, "name,prompt\nbroken,\xff\n"))

	if _, ok := table.Get(ErrorKey); !ok || table.Len() != 1 {
		t.Fatalf("expected error table, got %v", table.Names())
	}
	if !errors.Is(table.Err(), ErrSourceUnreadable) {
		t.Fatalf("expected unreadable error, got %v", table.Err())
	}
	if len(*messages) != 1 || !strings.Contains((*messages)[0], "Error loading") {
		t.Fatalf("unexpected diagnostics: %v", *messages)
	}
}

func TestParseHeaderOnlyIsEmptyNotError(t *testing.T) {
	p, _ := newTestParser(t)
	table := p.Parse(writeTempStyles(t, "name,prompt,negative_prompt\n"))

	if table.Len() != 0 {
		t.Fatalf("expected empty table, got %v", table.Names())
	}
	if table.Err() != nil {
		t.Fatalf("expected no error for an empty file, got %v", table.Err())
	}

	empty := p.Parse(writeTempStyles(t, ""))
	if empty.Len() != 0 || empty.Err() != nil {
		t.Fatalf("expected empty table for an empty file, got %v (%v)", empty.Names(), empty.Err())
	}
}

func TestParseTwoColumnRow(t *testing.T) {
	p, _ := newTestParser(t)
	table := p.Parse(writeTempStyles(t, "name,prompt\nquickname,onlypositive\n"))

	got, ok := table.Get("quickname")
	if !ok {
		t.Fatal("expected quickname to be present")
	}
	if got != (Prompt{Positive: "onlypositive", Negative: ""}) {
		t.Fatalf("unexpected prompt: %+v", got)
	}
}

func TestParseLastWriteWins(t *testing.T) {
	p, _ := newTestParser(t)
	table := p.Parse(writeTempStyles(t, "name,prompt,negative\nfoo,a,b\nbar,x,y\nfoo,c,d\n"))

	got, _ := table.Get("foo")
	if got != (Prompt{Positive: "c", Negative: "d"}) {
		t.Fatalf("expected later row to win, got %+v", got)
	}
	if diff := cmp.Diff([]string{"foo", "bar"}, table.Names()); diff != "" {
		t.Fatalf("expected first occurrence to keep its position (-want +got):\n%s", diff)
	}
}

func TestParseMalformedRowsAreSkipped(t *testing.T) {
	p, messages := newTestParser(t)
	table := p.Parse(filepath.Join("testdata", "invalid_styles.csv"))

	want := []Entry{
		{Name: "Good Style", Prompt: Prompt{Positive: "good, prompt", Negative: "bad"}},
		{Name: "Positive Only", Prompt: Prompt{Positive: "just positive"}},
		{Name: "Too Many", Prompt: Prompt{Positive: "a", Negative: "b"}},
	}
	if diff := cmp.Diff(want, table.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}

	rowErrs := table.RowErrors()
	if len(rowErrs) != 2 {
		t.Fatalf("expected 2 row errors, got %v", rowErrs)
	}
	if rowErrs[0].Line != 2 || rowErrs[0].Raw != "Missing Column" {
		t.Fatalf("unexpected first row error: %+v", rowErrs[0])
	}
	if rowErrs[1].Line != 6 {
		t.Fatalf("unexpected second row error: %+v", rowErrs[1])
	}
	if !errors.Is(rowErrs[0], ErrRowMalformed) {
		t.Fatalf("row error should match ErrRowMalformed: %v", rowErrs[0])
	}
	if len(*messages) != 2 || !strings.Contains((*messages)[0], "line 2") {
		t.Fatalf("expected one diagnostic per malformed row, got %v", *messages)
	}
	if table.Err() != nil {
		t.Fatalf("row errors must not fail the file, got %v", table.Err())
	}
}

func TestParseBOMAndCRLF(t *testing.T) {
	p, _ := newTestParser(t)
	table := p.Parse(filepath.Join("testdata", "bom_crlf.csv"))

	want := []Entry{{Name: "BOM Style", Prompt: Prompt{Positive: "with bom, crlf", Negative: "neg"}}}
	if diff := cmp.Diff(want, table.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestParseIsIdempotent(t *testing.T) {
	p, _ := newTestParser(t)
	path := filepath.Join("testdata", "complex_styles.csv")

	first := p.Parse(path)
	second := p.Parse(path)
	if !first.Equal(second) {
		t.Fatalf("expected equal tables, diff:\n%s", cmp.Diff(first.Entries(), second.Entries()))
	}
	if first == second {
		t.Fatal("expected a fresh table per parse")
	}
}

func TestParseReader(t *testing.T) {
	table, err := ParseReader(strings.NewReader("header\nA,pa,na\nB,pb\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Entry{
		{Name: "A", Prompt: Prompt{Positive: "pa", Negative: "na"}},
		{Name: "B", Prompt: Prompt{Positive: "pb"}},
	}
	if diff := cmp.Diff(want, table.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

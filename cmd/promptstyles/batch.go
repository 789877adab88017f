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


package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"promptstyles/internal/styles"
)

// runBatch reads one comma-separated key list per line and prints the
// combined positive and negative prompts as two lines each. A non-empty
// file resolves against that file of the styles directory instead of the
// default one.
func runBatch(a *app, file string, in io.Reader, out io.Writer) error {
	a.logger.Debug().Str("file", file).Msg("Running in batch mode")
	if file != "" {
		return runBatchFile(a, file, in, out)
	}

	table := a.state.Table()
	if err := table.Err(); err != nil {
		return fmt.Errorf("failed to load styles: %w", err)
	}

	w := bufio.NewWriter(out)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		input := scanner.Text()
		a.logger.Info().Str("user_input", input).Msg("User input received")

		keys := styles.SplitKeys(input)
		for _, k := range keys {
			if _, ok := table.Get(k); !ok {
				a.logger.Warn().Str("style", k).Msg("Unknown style skipped")
			}
		}
		p := styles.ResolveMany(table, keys, &a.state.Manual, a.state.ManualEnabled)
		fmt.Fprintln(w, singleLine(p.Positive))
		fmt.Fprintln(w, singleLine(p.Negative))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return w.Flush()
}

// runBatchFile resolves each line with the multi-style loader. A missing
// file yields empty prompts.
func runBatchFile(a *app, file string, in io.Reader, out io.Writer) error {
	w := bufio.NewWriter(out)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		p, err := a.state.Multi.Execute(file, scanner.Text(), a.state.ManualEnabled, a.state.Manual.Positive, a.state.Manual.Negative)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, singleLine(p.Positive))
		fmt.Fprintln(w, singleLine(p.Negative))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return w.Flush()
}

// singleLine keeps one prompt on one output line.
func singleLine(s string) string {
	return strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(s)
}

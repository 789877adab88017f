package main

import (
	"fmt"
	"io"
	"strings"
)

func runExport(a *app, format string, out io.Writer) error {
	table := a.state.Table()
	if err := table.Err(); err != nil {
		return fmt.Errorf("failed to load styles: %w", err)
	}

	switch strings.ToLower(format) {
	case "json":
		return table.WriteJSON(out)
	case "yaml", "yml":
		return table.WriteYAML(out)
	default:
		return fmt.Errorf("unsupported export format %q (use json or yaml)", format)
	}
}

// runStyle prints one style, looking in csvPath first when given.
func runStyle(a *app, name, csvPath string, out io.Writer) error {
	p, err := a.state.Default.Execute(name, csvPath)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, singleLine(p.Positive))
	fmt.Fprintln(out, singleLine(p.Negative))
	return nil
}

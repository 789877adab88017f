// Command stylecheck reports malformed rows in style files.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"promptstyles/internal/catalog"
	"promptstyles/internal/config"
	"promptstyles/internal/styles"
	"promptstyles/samples"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to config file")
	all := flag.Bool("all", false, "Check every file in the styles directory")
	bundled := flag.Bool("samples", false, "Check the style files bundled in the binary instead")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	flag.Parse()

	if *noColor {
		color.NoColor = true
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.WarnLevel)

	if *bundled {
		if !checkSamples(os.Stdout) {
			os.Exit(1)
		}
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(2)
	}

	files, err := targets(cfg, flag.Args(), *all)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	parser := styles.NewParser(cfg.RootDir, logger)
	failed := 0
	for _, path := range files {
		if !check(parser, path, os.Stdout) {
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// targets picks the files to check: explicit args, the whole styles
// directory, or the configured default file.
func targets(cfg *config.Config, args []string, all bool) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if !all {
		path, err := cfg.StylesPath()
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	dir, err := cfg.StylesDirPath()
	if err != nil {
		return nil, err
	}
	names, err := catalog.ListStyleFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no style files in %s", dir)
	}
	files := make([]string, 0, len(names))
	for _, name := range names {
		files = append(files, filepath.Join(dir, name))
	}
	return files, nil
}

// check prints a report for one file and reports whether it is clean.
func check(parser *styles.Parser, path string, out io.Writer) bool {
	table, err := parser.Load(path)
	return report(path, table, err, out)
}

// checkSamples reports on every embedded sample file.
func checkSamples(out io.Writer) bool {
	names, err := samples.Names()
	if err != nil {
		return report("samples", nil, err, out)
	}
	clean := true
	for _, name := range names {
		table, err := samples.Table(name)
		if !report(name, table, err, out) {
			clean = false
		}
	}
	return clean
}

// report prints the outcome for one table and reports whether it is clean.
func report(label string, table *styles.Table, err error, out io.Writer) bool {
	bad := color.New(color.FgRed, color.Bold)
	good := color.New(color.FgGreen)

	if err != nil {
		bad.Fprintf(out, "✗ %s: %v\n", label, err)
		return false
	}

	rowErrors := table.RowErrors()
	if len(rowErrors) == 0 {
		good.Fprintf(out, "✓ %s: %d styles\n", label, table.Len())
		return true
	}
	bad.Fprintf(out, "✗ %s: %d styles, %d malformed rows\n", label, table.Len(), len(rowErrors))
	for _, re := range rowErrors {
		fmt.Fprintf(out, "  %v\n", re)
	}
	return false
}

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
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"promptstyles/internal/styles"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

var (
	version    = flag.Bool("version", false, "Print the version and exit")
	debugMode  = flag.Bool("d", false, "Enable debug mode")
	logFile    = flag.String("log-file", "", "Log file path (logs disabled by default)")
	configFile = flag.String("config", "config.json", "Configuration file")
	stylesFile = flag.String("file", "", "Style file to use instead of the configured one")
	useSample  = flag.Bool("sample", false, "Install the bundled sample styles.csv when none exists")
	tuiMode    = flag.Bool("tui", false, "Run the full-screen style picker")
	exportFmt  = flag.String("export", "", "Print the style table as json or yaml and exit")
	styleName  = flag.String("style", "", "Print the prompts of one style and exit")
	customCSV  = flag.String("csv", "", "Style file tried first by -style, falling back to the default one")
	batchFrom  = flag.String("from", "", "Batch mode resolves keys against this file of the styles directory")
	positive   = flag.String("positive", "", "Batch mode positive prompt replacing the combined one")
	negative   = flag.String("negative", "", "Batch mode negative prompt replacing the combined one")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	if *version {
		fmt.Println("promptstyles", Version)
		return 0
	}

	logger, closer, err := initLogger(*debugMode, *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if closer != nil {
		defer closer.Close()
	}
	logger.Info().Msg("promptstyles starting")

	a, err := newApp(appOptions{
		ConfigPath: *configFile,
		StylesFile: *stylesFile,
		Sample:     *useSample,
		Debug:      *debugMode,
	}, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Startup failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	args := flag.Args()
	switch {
	case *exportFmt != "":
		err = runExport(a, *exportFmt, os.Stdout)
	case *styleName != "":
		err = runStyle(a, *styleName, *customCSV, os.Stdout)
	case len(args) > 0 && args[0] == "-":
		if *positive != "" || *negative != "" {
			a.state.ManualEnabled = true
			a.state.Manual = styles.Prompt{Positive: *positive, Negative: *negative}
		}
		err = runBatch(a, *batchFrom, os.Stdin, os.Stdout)
	case *tuiMode:
		err = runTUIMode(ctx, a)
	default:
		err = runConsole(ctx, a)
	}
	a.close()

	if err != nil {
		logger.Error().Err(err).Msg("promptstyles failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	logger.Info().Msg("Session ended")
	return 0
}

func initLogger(debug bool, logFilePath string) (zerolog.Logger, io.Closer, error) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// No logging to console by default
	if logFilePath == "" {
		return zerolog.New(io.Discard), nil, nil
	}

	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return zerolog.New(file).With().Timestamp().Logger(), file, nil
}

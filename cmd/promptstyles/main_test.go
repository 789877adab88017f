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
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestInitLogger(t *testing.T) {
	for _, debug := range []bool{false, true} {
		logger, closer, err := initLogger(debug, "")
		if err != nil {
			t.Fatalf("initLogger(%v) failed: %v", debug, err)
		}
		if closer != nil {
			t.Fatal("expected no closer without a log file")
		}
		logger.Info().Msg("This should be discarded")
	}
}

func TestInitLoggerWithFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")

	logger, closer, err := initLogger(true, logFile)
	if err != nil {
		t.Fatalf("initLogger failed: %v", err)
	}
	logger.Info().Msg("Test message")
	if err := closer.Close(); err != nil {
		t.Fatalf("close log file: %v", err)
	}

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if len(content) == 0 {
		t.Error("Log file is empty")
	}
}

func TestInitLoggerBadPath(t *testing.T) {
	if _, _, err := initLogger(false, filepath.Join(t.TempDir(), "missing", "x.log")); err == nil {
		t.Fatal("expected error for an unwritable log path")
	}
}

func TestFlagsDefined(t *testing.T) {
	for _, name := range []string{"d", "log-file", "config", "file", "sample", "tui", "export", "style", "csv", "version"} {
		if flag.Lookup(name) == nil {
			t.Errorf("flag -%s should be defined", name)
		}
	}
	if *configFile != "config.json" {
		t.Errorf("unexpected default config file %q", *configFile)
	}
}

func TestVersionVariable(t *testing.T) {
	if Version == "" {
		t.Error("Version variable should not be empty")
	}
}

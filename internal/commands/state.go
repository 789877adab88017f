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


package commands

import (
	"fmt"

	"github.com/rs/zerolog"

	"promptstyles/internal/catalog"
	"promptstyles/internal/loader"
	"promptstyles/internal/styles"
	"promptstyles/internal/watch"
)

// DefaultFile is the name /open accepts to go back to the default style file.
const DefaultFile = "default"

// State is what the console commands act on: the open style file, the
// current selection and the manual override. It is not safe for concurrent
// use; the console and the picker drive it from a single goroutine.
type State struct {
	Default *loader.StyleLoader
	Multi   *loader.MultiStyleLoader
	Parser  *styles.Parser
	Logger  zerolog.Logger

	// OnSwitch is called with the new reloader when another file is opened.
	OnSwitch func(*watch.Reloader)

	Selected      []string
	ManualEnabled bool
	Manual        styles.Prompt
	Debug         bool

	current *watch.Reloader
	file    string
}

// NewState starts on the default style file.
func NewState(def *loader.StyleLoader, multi *loader.MultiStyleLoader, parser *styles.Parser, logger zerolog.Logger) *State {
	return &State{
		Default: def,
		Multi:   multi,
		Parser:  parser,
		Logger:  logger,
		current: def.Reloader(),
	}
}

// Current returns the reloader of the open file.
func (s *State) Current() *watch.Reloader {
	return s.current
}

// File returns the name of the file opened from the styles directory, or
// an empty string for the default file.
func (s *State) File() string {
	return s.file
}

// Table returns the table of the open file.
func (s *State) Table() *styles.Table {
	return s.current.Table()
}

// Open switches to a file of the styles directory. An empty name or
// DefaultFile goes back to the default style file.
func (s *State) Open(file string) error {
	if file == "" || file == DefaultFile || file == catalog.DefaultStylesFile {
		s.switchTo(s.Default.Reloader(), "")
		return nil
	}

	if _, err := s.Multi.Table(file); err != nil {
		return fmt.Errorf("cannot open %s: %w", file, err)
	}
	path, err := s.Multi.Path(file)
	if err != nil {
		return err
	}
	s.switchTo(watch.New(path, s.Parser, s.Logger), file)
	return nil
}

func (s *State) switchTo(r *watch.Reloader, file string) {
	s.current = r
	s.file = file
	s.Logger.Debug().Str("path", r.Path()).Msg("Switched style file")
	if s.OnSwitch != nil {
		s.OnSwitch(r)
	}
}

// Resolve combines the selected styles of the open table.
func (s *State) Resolve() styles.Prompt {
	return styles.ResolveMany(s.Table(), s.Selected, &s.Manual, s.ManualEnabled)
}

// Unknown returns the selected names missing from the open table.
func (s *State) Unknown() []string {
	table := s.Table()
	var missing []string
	for _, name := range s.Selected {
		if _, ok := table.Get(name); !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

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

// Package watch keeps a parsed style table for one file and re-parses it on
// demand or when the file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"promptstyles/internal/styles"
)

// DefaultDebounce groups the bursts of events editors emit on save.
const DefaultDebounce = 150 * time.Millisecond

// Snapshot is a loaded table with its load metadata.
type Snapshot struct {
	Version  int64
	LoadedAt time.Time
	Table    *styles.Table
}

// Listener is called after every reload.
type Listener func(Snapshot)

// Reloader owns the current table of a style file.
type Reloader struct {
	path     string
	parser   *styles.Parser
	logger   zerolog.Logger
	Debounce time.Duration

	mu        sync.RWMutex
	snapshot  Snapshot
	listeners []Listener
}

// New parses the file at path and returns a reloader holding the result.
func New(path string, parser *styles.Parser, logger zerolog.Logger) *Reloader {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	r := &Reloader{
		path:     filepath.Clean(path),
		parser:   parser,
		logger:   logger,
		Debounce: DefaultDebounce,
	}
	r.Refresh()
	return r
}

// Path returns the watched style file.
func (r *Reloader) Path() string {
	return r.path
}

// Table returns the current table.
func (r *Reloader) Table() *styles.Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot.Table
}

// Snapshot returns the current table with its version.
func (r *Reloader) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Subscribe registers fn to be called after each reload.
func (r *Reloader) Subscribe(fn Listener) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

// Refresh re-parses the file, replaces the current table and notifies
// listeners.
func (r *Reloader) Refresh() *styles.Table {
	table := r.parser.Parse(r.path)

	r.mu.Lock()
	r.snapshot = Snapshot{
		Version:  r.snapshot.Version + 1,
		LoadedAt: time.Now(),
		Table:    table,
	}
	snap := r.snapshot
	listeners := append([]Listener(nil), r.listeners...)
	r.mu.Unlock()

	r.logger.Info().Str("path", r.path).Int64("version", snap.Version).Int("styles", table.Len()).Msg("Style table reloaded")
	r.notify(snap, listeners)
	return table
}

func (r *Reloader) notify(snap Snapshot, listeners []Listener) {
	var wg sync.WaitGroup
	for _, fn := range listeners {
		wg.Add(1)
		go func(cb Listener) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					r.logger.Error().Interface("panic", rec).Msg("Style table listener panic")
				}
			}()
			cb(snap)
		}(fn)
	}
	wg.Wait()
}

// Run watches the style file's directory and reloads the table when the file
// is written, created, renamed or removed. It returns when ctx is done.
func (r *Reloader) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(r.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	r.logger.Debug().Str("dir", dir).Str("path", r.path).Msg("Watching style file")

	var (
		timer    *time.Timer
		debounce <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !r.relevant(evt) {
				continue
			}
			r.logger.Debug().Str("event", evt.Op.String()).Str("name", evt.Name).Msg("Style file changed")
			if timer == nil {
				timer = time.NewTimer(r.Debounce)
			} else {
				timer.Reset(r.Debounce)
			}
			debounce = timer.C
		case <-debounce:
			debounce = nil
			r.Refresh()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn().Err(err).Msg("Style file watcher error")
		}
	}
}

func (r *Reloader) relevant(evt fsnotify.Event) bool {
	if filepath.Clean(evt.Name) != r.path {
		return false
	}
	return evt.Has(fsnotify.Write) || evt.Has(fsnotify.Create) || evt.Has(fsnotify.Rename) || evt.Has(fsnotify.Remove)
}

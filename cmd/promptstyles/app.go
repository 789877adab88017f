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
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"promptstyles/internal/commands"
	"promptstyles/internal/config"
	"promptstyles/internal/imagegen"
	"promptstyles/internal/loader"
	"promptstyles/internal/styles"
	"promptstyles/internal/theme"
	"promptstyles/internal/watch"
	"promptstyles/samples"
)

type appOptions struct {
	ConfigPath string
	StylesFile string
	Sample     bool
	Debug      bool
	// Diagnostics receives parser messages; nil means stderr.
	Diagnostics io.Writer
}

// app wires configuration, loaders and the command state shared by every
// mode.
type app struct {
	cfg       *config.Config
	logger    zerolog.Logger
	parser    *styles.Parser
	state     *commands.State
	registry  *commands.Registry
	themes    *theme.Manager
	generator commands.ImageGenerator
	watcher   *fileWatcher
}

func newApp(opts appOptions, logger zerolog.Logger) (*app, error) {
	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.StylesFile != "" {
		cfg.StylesFile = opts.StylesFile
	}
	for _, w := range cfg.Validate() {
		logger.Warn().Str("field", w.Field).Msg(w.Message)
	}

	stylesPath, err := cfg.StylesPath()
	if err != nil {
		return nil, err
	}
	stylesDir, err := cfg.StylesDirPath()
	if err != nil {
		return nil, err
	}

	if opts.Sample {
		written, err := samples.Install(samples.DefaultName, stylesPath)
		if err != nil {
			return nil, err
		}
		if written {
			logger.Info().Str("path", stylesPath).Msg("Installed sample style file")
		}
	}

	diag := opts.Diagnostics
	if diag == nil {
		diag = os.Stderr
	}
	parser := styles.NewParser(cfg.RootDir, logger)
	parser.Notify = func(message string) {
		fmt.Fprintln(diag, message)
	}

	def := loader.NewStyleLoaderFile(cfg.RootDir, stylesPath, parser, logger)
	multi := loader.NewMultiStyleLoader(stylesDir, parser, logger)
	state := commands.NewState(def, multi, parser, logger)
	state.Debug = opts.Debug

	a := &app{
		cfg:      cfg,
		logger:   logger,
		parser:   parser,
		state:    state,
		registry: commands.NewRegistry(),
		themes:   loadTheme(cfg, logger),
		watcher:  &fileWatcher{logger: logger},
	}
	if cfg.ImageEnabled() {
		a.generator = imagegen.New(cfg.Image, logger)
	}
	a.registry.Register("theme", "", "Reload the color theme file", a.handleTheme)
	return a, nil
}

func (a *app) handleTheme(env *commands.Env, _ string) (bool, error) {
	path, err := a.cfg.ThemePath()
	if err != nil {
		return false, err
	}
	if err := a.themes.Reload(path); err != nil {
		return false, err
	}
	env.Colors = a.themes.ColorScheme()
	fmt.Fprintf(env.Out, "✓ Theme reloaded from %s\n", path)
	return false, nil
}

func loadTheme(cfg *config.Config, logger zerolog.Logger) *theme.Manager {
	mgr := theme.NewManagerWithTheme(theme.DefaultTheme())
	if path, err := cfg.ThemePath(); err == nil {
		if loaded, err := theme.NewManager(path); err == nil {
			mgr = loaded
		} else {
			logger.Warn().Err(err).Str("path", path).Msg("Falling back to the default theme")
		}
	}
	if !theme.IsTerminal(os.Stdout) {
		mgr.DisableColor()
	}
	return mgr
}

// startWatching follows the open style file on disk when enabled in the
// configuration, moving to each file opened later.
func (a *app) startWatching(ctx context.Context) {
	if !a.cfg.Watch {
		return
	}
	a.watcher.Watch(ctx, a.state.Current())

	prev := a.state.OnSwitch
	a.state.OnSwitch = func(r *watch.Reloader) {
		if prev != nil {
			prev(r)
		}
		a.watcher.Watch(ctx, r)
	}
}

func (a *app) close() {
	a.watcher.Stop()
}

func (a *app) env(ctx context.Context, out io.Writer) *commands.Env {
	return &commands.Env{
		Ctx:       ctx,
		Out:       out,
		Colors:    a.themes.ColorScheme(),
		State:     a.state,
		Generator: a.generator,
	}
}

// fileWatcher runs at most one reloader watch loop at a time.
type fileWatcher struct {
	logger zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Watch stops the current loop and starts watching r.
func (w *fileWatcher) Watch(ctx context.Context, r *watch.Reloader) {
	w.Stop()

	runCtx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.cancel = cancel
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := r.Run(runCtx); err != nil {
			w.logger.Warn().Err(err).Str("path", r.Path()).Msg("Style file watcher stopped")
		}
	}()
}

// Stop ends the current loop and waits for it.
func (w *fileWatcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

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
	"os"
	"os/signal"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"golang.org/x/term"

	"promptstyles/internal/commands"
)

func runConsole(ctx context.Context, a *app) error {
	a.logger.Debug().Msg("Running in console mode")
	a.startWatching(ctx)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:              "❯ ",
		HistoryFile:         a.cfg.CommandHistoryFile,
		AutoComplete:        newCompleter(a.registry, a.state),
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		FuncFilterInputRune: filterInterruptRune,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	env := a.env(ctx, rl.Stdout())
	env.Picker = ptermPicker
	env.Width = terminalWidth()

	canceler := &operationCanceler{}
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)
	go func() {
		for range interrupts {
			if canceler.Cancel() {
				a.logger.Debug().Msg("Operation cancelled by interrupt")
			}
		}
	}()

	printBanner(a, env)

	for {
		line, err := rl.Readline()
		switch classifyReadlineError(line, err) {
		case readlineExit:
			return nil
		case readlineContinue:
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(sanitizeInputLine(line))
		if line == "" {
			continue
		}
		a.logger.Info().Str("user_input", line).Msg("User input received")

		if !strings.HasPrefix(line, "/") {
			// plain input is a list of style keys
			line = "/select " + line
		}

		opCtx, done := canceler.Begin(ctx)
		env.Ctx = opCtx
		_, quit := a.registry.Execute(env, line)
		done()

		if quit || ctx.Err() != nil {
			return nil
		}
	}
}

func printBanner(a *app, env *commands.Env) {
	fmt.Fprintln(env.Out, env.Colors.Header.Sprint("promptstyles by Dyne.org"))
	fmt.Fprintf(env.Out, "Style file: %s\n", a.state.Current().Path())
	table := a.state.Table()
	if err := table.Err(); err == nil {
		fmt.Fprintf(env.Out, "Styles loaded: %d\n", table.Len())
	}
	if a.generator == nil {
		fmt.Fprintln(env.Out, "Image generation: off")
	}
	fmt.Fprintln(env.Out, "Type /help for commands, style names to combine them")
	fmt.Fprintln(env.Out)
}

// newCompleter builds a readline completer from the registered commands,
// completing style and file names where a command takes one.
func newCompleter(registry *commands.Registry, state *commands.State) *readline.PrefixCompleter {
	styleNames := func(string) []string {
		if state.File() == "" {
			return state.Default.Styles()
		}
		return state.Table().Names()
	}
	fileNames := func(string) []string {
		files, err := state.Multi.Files()
		if err != nil {
			return []string{commands.DefaultFile}
		}
		return append([]string{commands.DefaultFile}, files...)
	}

	cmds := registry.Commands()
	items := make([]readline.PrefixCompleterInterface, 0, len(cmds))
	for _, cmd := range cmds {
		name := "/" + cmd.Name
		switch cmd.Name {
		case "show", "use":
			items = append(items, readline.PcItem(name, readline.PcItemDynamic(styleNames)))
		case "open":
			items = append(items, readline.PcItem(name, readline.PcItemDynamic(fileNames)))
		case "manual":
			items = append(items, readline.PcItem(name, readline.PcItem("on"), readline.PcItem("off")))
		default:
			items = append(items, readline.PcItem(name))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

// ptermPicker shows an interactive multi-select with fuzzy filtering.
func ptermPicker(options, selected []string) ([]string, error) {
	return pterm.DefaultInteractiveMultiselect.
		WithOptions(options).
		WithDefaultOptions(selected).
		WithDefaultText("Select styles (space to toggle, enter to confirm)").
		WithFilter(true).
		Show()
}

func terminalWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return width
}

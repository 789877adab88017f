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

	"promptstyles/internal/ui"
)

func runTUIMode(ctx context.Context, a *app) error {
	a.logger.Debug().Msg("Running in TUI mode")

	// diagnostics would draw over the screen; the logger still has them
	a.parser.Notify = nil
	a.startWatching(ctx)

	env := a.env(ctx, nil)
	picker := ui.New(env, a.registry, a.themes.Theme(), a.cfg.CommandHistoryFile)
	return picker.Run(ctx)
}

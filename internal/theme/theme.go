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


// Package theme holds the console color scheme used to print styles and
// their prompts.
package theme

import (
	"encoding/json"
	"os"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/pterm/pterm"
)

// Theme is the JSON color configuration of the console and the picker.
type Theme struct {
	HeaderColor    string `json:"header_color"`
	StyleNameColor string `json:"style_name_color"`
	PositiveColor  string `json:"positive_color"`
	NegativeColor  string `json:"negative_color"`
	ErrorColor     string `json:"error_color"`
	SuccessColor   string `json:"success_color"`
	SelectionColor string `json:"selection_color"`
	BorderColor    string `json:"border_color"`
}

// ColorScheme provides pterm and color styles based on theme
type ColorScheme struct {
	Header   *pterm.Style
	Name     *color.Color
	Positive *color.Color
	Negative *color.Color
	Error    *color.Color
	Success  *color.Color
}

// DefaultTheme returns a theme with default values
func DefaultTheme() *Theme {
	return &Theme{
		HeaderColor:    "#cba6f7",
		StyleNameColor: "#89b4fa",
		PositiveColor:  "#a6e3a1",
		NegativeColor:  "#fab387",
		ErrorColor:     "#f38ba8",
		SuccessColor:   "#a6e3a1",
		SelectionColor: "#f9e2af",
		BorderColor:    "#6c7086",
	}
}

// LoadTheme loads theme configuration from a JSON file. A missing file gives
// the default theme; fields absent from the file keep their defaults.
func LoadTheme(path string) (*Theme, error) {
	theme := DefaultTheme()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return theme, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, theme); err != nil {
		return nil, err
	}
	return theme, nil
}

// TUIColor converts one of the theme's hex colors for the picker.
func TUIColor(hex string) tcell.Color {
	return tcell.GetColor(expandHex(hex))
}

// expandHex turns #RGB into #RRGGBB.
func expandHex(hex string) string {
	if len(hex) != 4 || hex[0] != '#' {
		return hex
	}
	return string([]byte{'#', hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]})
}

func rgb(hex string) *color.Color {
	r, g, b := TUIColor(hex).RGB()
	if r < 0 {
		return color.New()
	}
	return color.RGB(int(r), int(g), int(b))
}

// ToColorScheme converts theme to pterm/color styles
func (t *Theme) ToColorScheme() *ColorScheme {
	return &ColorScheme{
		Header:   pterm.NewStyle(pterm.FgLightMagenta, pterm.Bold),
		Name:     rgb(t.StyleNameColor).Add(color.Bold),
		Positive: rgb(t.PositiveColor),
		Negative: rgb(t.NegativeColor),
		Error:    rgb(t.ErrorColor),
		Success:  rgb(t.SuccessColor),
	}
}

// DisabledColorScheme returns a color scheme with all colors disabled (for NO_COLOR).
func DisabledColorScheme() *ColorScheme {
	color.NoColor = true

	return &ColorScheme{
		Header:   pterm.NewStyle(),
		Name:     color.New(),
		Positive: color.New(),
		Negative: color.New(),
		Error:    color.New(),
		Success:  color.New(),
	}
}

package theme

import (
	"errors"
	"fmt"
	"regexp"
)

// Common validation errors
var (
	ErrInvalidColor = errors.New("invalid color format")
	ErrEmptyColor   = errors.New("color cannot be empty")
)

// hexColorRegex matches valid hex color codes (#RGB or #RRGGBB)
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateTheme validates all theme color values.
func ValidateTheme(t *Theme) error {
	if t == nil {
		return fmt.Errorf("theme is nil")
	}

	fields := []struct {
		name  string
		value string
	}{
		{"header_color", t.HeaderColor},
		{"style_name_color", t.StyleNameColor},
		{"positive_color", t.PositiveColor},
		{"negative_color", t.NegativeColor},
		{"error_color", t.ErrorColor},
		{"success_color", t.SuccessColor},
		{"selection_color", t.SelectionColor},
		{"border_color", t.BorderColor},
	}
	for _, f := range fields {
		if err := ValidateColor(f.value); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return nil
}

// ValidateColor validates a single color value (hex format).
func ValidateColor(c string) error {
	if c == "" {
		return ErrEmptyColor
	}
	if !hexColorRegex.MatchString(c) {
		return fmt.Errorf("%w: %q (expected #RGB or #RRGGBB)", ErrInvalidColor, c)
	}
	return nil
}

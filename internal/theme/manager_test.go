package theme

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTheme(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write theme file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("with default theme", func(t *testing.T) {
		mgr, err := NewManager(filepath.Join(t.TempDir(), "nonexistent.json"))
		if err != nil {
			t.Fatalf("NewManager() error = %v", err)
		}
		if mgr.Theme() == nil || mgr.ColorScheme() == nil {
			t.Fatal("expected theme and color scheme to be set")
		}
	})

	t.Run("with custom theme file", func(t *testing.T) {
		themeFile := filepath.Join(t.TempDir(), "theme.json")
		writeTheme(t, themeFile, `{"style_name_color": "#00ff00"}`)

		mgr, err := NewManager(themeFile)
		if err != nil {
			t.Fatalf("NewManager() error = %v", err)
		}
		if mgr.Theme().StyleNameColor != "#00ff00" {
			t.Errorf("expected style name color #00ff00, got %s", mgr.Theme().StyleNameColor)
		}
	})

	t.Run("with invalid theme", func(t *testing.T) {
		themeFile := filepath.Join(t.TempDir(), "invalid.json")
		writeTheme(t, themeFile, `{"header_color": "not-a-color"}`)

		if _, err := NewManager(themeFile); err == nil {
			t.Error("NewManager() with invalid theme should error")
		}
	})
}

func TestManagerNOCOLOR(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	mgr := NewManagerWithTheme(DefaultTheme())
	if !mgr.IsColorDisabled() {
		t.Error("expected colors to be disabled")
	}
}

func TestManagerDisableColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	mgr := NewManagerWithTheme(DefaultTheme())
	if mgr.IsColorDisabled() {
		t.Fatal("expected colors to be enabled")
	}
	mgr.DisableColor()
	if !mgr.IsColorDisabled() {
		t.Error("expected colors to be disabled")
	}
	if got := mgr.ColorScheme().Name.Sprint("Anime"); got != "Anime" {
		t.Errorf("expected plain output, got %q", got)
	}
}

func TestManagerReload(t *testing.T) {
	themeFile := filepath.Join(t.TempDir(), "theme.json")
	writeTheme(t, themeFile, `{"positive_color": "#00ff00"}`)

	mgr, err := NewManager(themeFile)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	writeTheme(t, themeFile, `{"positive_color": "#ff00ff"}`)
	if err := mgr.Reload(themeFile); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if got := mgr.Theme().PositiveColor; got != "#ff00ff" {
		t.Errorf("expected color #ff00ff, got %s", got)
	}

	writeTheme(t, themeFile, `{"positive_color": "green"}`)
	if err := mgr.Reload(themeFile); err == nil {
		t.Error("expected Reload() to reject an invalid color")
	}
	if got := mgr.Theme().PositiveColor; got != "#ff00ff" {
		t.Errorf("failed reload should keep the previous theme, got %s", got)
	}
}

func TestIsTerminalNil(t *testing.T) {
	if IsTerminal(nil) {
		t.Error("nil file is not a terminal")
	}
}

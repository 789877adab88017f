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

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"promptstyles/internal/catalog"
	apperrors "promptstyles/internal/errors"
)

// Config represents the application configuration
type Config struct {
	RootDir            string      `json:"root_dir,omitempty"`
	StylesFile         string      `json:"styles_file,omitempty"`
	StylesDir          string      `json:"styles_dir,omitempty"`
	ThemeFile          string      `json:"theme_file,omitempty"`
	Watch              bool        `json:"watch,omitempty"`
	CommandHistoryFile string      `json:"command_history_file,omitempty"`
	Image              ImageConfig `json:"image,omitempty"`
}

// ImageConfig configures the optional image generation backend.
type ImageConfig struct {
	APIKey string `json:"api_key,omitempty"`
	APIURL string `json:"api_url,omitempty"`
	Model  string `json:"model,omitempty"`
	Size   string `json:"size,omitempty"`
}

const (
	defaultAPIURL     = "https://api.openai.com/v1"
	defaultImageModel = "dall-e-3"
	defaultImageSize  = "1024x1024"
)

var supportedImageSizes = map[string]bool{
	"256x256":   true,
	"512x512":   true,
	"1024x1024": true,
	"1792x1024": true,
	"1024x1792": true,
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		RootDir:            ".",
		StylesFile:         catalog.DefaultStylesFile,
		StylesDir:          "styles",
		ThemeFile:          "theme.json",
		CommandHistoryFile: ".promptstyles_history",
		Image: ImageConfig{
			APIURL: defaultAPIURL,
			Model:  defaultImageModel,
			Size:   defaultImageSize,
		},
	}
}

// LoadConfig loads configuration from a JSON file, applies env overrides and defaults.
// A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	// If config file exists, load it
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeConfig, "read config", err)
		}
		normalized, err := normalizeConfigJSON(data)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeConfig, "invalid config "+path, err)
		}
		if err := json.Unmarshal(normalized, config); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeConfig, "invalid config "+path, err)
		}
	}

	// Env overrides (apply regardless of whether config file exists)
	if val := os.Getenv("PROMPTSTYLES_ROOT"); val != "" {
		config.RootDir = val
	}
	if val := os.Getenv("PROMPTSTYLES_FILE"); val != "" {
		config.StylesFile = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		config.Image.APIKey = val
	}
	if val := os.Getenv("OPENAI_API_URL"); val != "" {
		config.Image.APIURL = val
	}

	return config.withDefaults()
}

func (c *Config) withDefaults() (*Config, error) {
	defaults := DefaultConfig()
	if strings.TrimSpace(c.RootDir) == "" {
		c.RootDir = defaults.RootDir
	}
	root, err := filepath.Abs(c.RootDir)
	if err != nil {
		return nil, fmt.Errorf("invalid root_dir %q: %w", c.RootDir, err)
	}
	c.RootDir = root

	if c.StylesFile == "" {
		c.StylesFile = defaults.StylesFile
	}
	if c.StylesDir == "" {
		c.StylesDir = defaults.StylesDir
	}
	if c.Image.APIURL == "" {
		c.Image.APIURL = defaults.Image.APIURL
	}
	if c.Image.Model == "" {
		c.Image.Model = defaults.Image.Model
	}
	if c.Image.Size == "" {
		c.Image.Size = defaults.Image.Size
	}
	return c, nil
}

// StylesPath returns the resolved location of the default style file.
func (c *Config) StylesPath() (string, error) {
	return catalog.ResolveStylePath(c.StylesFile, c.RootDir)
}

// StylesDirPath returns the resolved styles directory used by the multi-style picker.
func (c *Config) StylesDirPath() (string, error) {
	return catalog.ResolveStylePath(c.StylesDir, c.RootDir)
}

// ThemePath returns the resolved theme file location.
func (c *Config) ThemePath() (string, error) {
	return catalog.ResolveStylePath(c.ThemeFile, c.RootDir)
}

// ImageEnabled reports whether image generation can be used.
func (c *Config) ImageEnabled() bool {
	return c.Image.APIKey != ""
}

// ValidationWarning represents a non-fatal configuration issue
type ValidationWarning struct {
	Field   string
	Message string
}

// Validate checks the configuration for common issues and returns warnings
func (c *Config) Validate() []ValidationWarning {
	var warnings []ValidationWarning

	if !strings.EqualFold(filepath.Ext(c.StylesFile), ".csv") {
		warnings = append(warnings, ValidationWarning{
			Field:   "styles_file",
			Message: fmt.Sprintf("styles_file %q does not have a .csv extension", c.StylesFile),
		})
	}

	if info, err := os.Stat(c.RootDir); err != nil || !info.IsDir() {
		warnings = append(warnings, ValidationWarning{
			Field:   "root_dir",
			Message: fmt.Sprintf("root_dir %q is not an existing directory", c.RootDir),
		})
	}

	if !supportedImageSizes[c.Image.Size] {
		warnings = append(warnings, ValidationWarning{
			Field:   "image.size",
			Message: fmt.Sprintf("image size %q is not supported by the images API", c.Image.Size),
		})
	}

	if c.Image.APIKey == "" {
		warnings = append(warnings, ValidationWarning{
			Field:   "image.api_key",
			Message: "no API key configured, image generation is disabled (set image.api_key or OPENAI_API_KEY)",
		})
	}

	return warnings
}

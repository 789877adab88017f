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
	"sort"
)

// SchemaJSON returns the JSON schema for config.json.
func SchemaJSON() string {
	return configSchemaJSON
}

// ExampleConfigJSON returns a minimal example config derived from the schema.
func ExampleConfigJSON() string {
	return exampleConfigJSON
}

func normalizeConfigJSON(data []byte) ([]byte, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	migrateLegacyConfig(raw)
	if err := validateConfigMap(raw, ""); err != nil {
		return nil, err
	}
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	return normalized, nil
}

// migrateLegacyConfig maps the loader input name csv_file_path to styles_file.
func migrateLegacyConfig(raw map[string]interface{}) {
	if _, ok := raw["styles_file"]; ok {
		delete(raw, "csv_file_path")
		return
	}
	if legacy, ok := raw["csv_file_path"]; ok {
		raw["styles_file"] = legacy
		delete(raw, "csv_file_path")
	}
}

func validateConfigMap(raw map[string]interface{}, prefix string) error {
	allowed := map[string]func(interface{}) error{
		"root_dir":    func(v interface{}) error { return validateString(v, prefix+"root_dir") },
		"styles_file": func(v interface{}) error { return validateString(v, prefix+"styles_file") },
		"styles_dir":  func(v interface{}) error { return validateString(v, prefix+"styles_dir") },
		"theme_file":  func(v interface{}) error { return validateString(v, prefix+"theme_file") },
		"watch":       func(v interface{}) error { return validateBool(v, prefix+"watch") },
		"command_history_file": func(v interface{}) error {
			return validateString(v, prefix+"command_history_file")
		},
		"image": func(v interface{}) error {
			return validateImageConfig(v, prefix+"image.")
		},
	}
	return validateSection(raw, allowed, prefix)
}

func validateImageConfig(value interface{}, prefix string) error {
	section, ok := value.(map[string]interface{})
	if !ok {
		return fmt.Errorf("%simage must be an object", prefix)
	}
	allowed := map[string]func(interface{}) error{
		"api_key": func(v interface{}) error { return validateString(v, prefix+"api_key") },
		"api_url": func(v interface{}) error { return validateString(v, prefix+"api_url") },
		"model":   func(v interface{}) error { return validateString(v, prefix+"model") },
		"size":    func(v interface{}) error { return validateString(v, prefix+"size") },
	}
	return validateSection(section, allowed, prefix)
}

func validateSection(section map[string]interface{}, allowed map[string]func(interface{}) error, prefix string) error {
	keys := make([]string, 0, len(section))
	for key := range section {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		validator, ok := allowed[key]
		if !ok {
			return fmt.Errorf("unknown configuration field %q", prefix+key)
		}
		if err := validator(section[key]); err != nil {
			return err
		}
	}
	return nil
}

func validateString(value interface{}, name string) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("%s must be a string", name)
	}
	return nil
}

func validateBool(value interface{}, name string) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("%s must be a boolean", name)
	}
	return nil
}

const configSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "Promptstyles Config",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "root_dir": { "type": "string" },
    "styles_file": { "type": "string" },
    "styles_dir": { "type": "string" },
    "theme_file": { "type": "string" },
    "watch": { "type": "boolean" },
    "command_history_file": { "type": "string" },
    "image": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "api_key": { "type": "string" },
        "api_url": { "type": "string" },
        "model": { "type": "string" },
        "size": { "type": "string" }
      }
    }
  }
}`

const exampleConfigJSON = `{
  "root_dir": ".",
  "styles_file": "styles.csv",
  "styles_dir": "styles",
  "watch": true,
  "image": {
    "model": "dall-e-3",
    "size": "1024x1024"
  }
}`

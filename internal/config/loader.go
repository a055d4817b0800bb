package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults holds the optional values a user can pre-set in the config file so
// they don't have to repeat them on every invocation. Flags always win over
// file values.
type Defaults struct {
	Cells  string `yaml:"cells"`
	Color  string `yaml:"color"`
	Method string `yaml:"method"`
	Live   *bool  `yaml:"live"`
}

// DefaultConfigPath returns ~/.config/gridsnap/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "gridsnap", "config.yaml"), nil
}

// LoadDefaults reads the defaults file from the standard location. A missing
// file is not an error; a malformed one is.
func LoadDefaults() (Defaults, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return Defaults{}, err
	}
	return LoadDefaultsFromPath(path)
}

// LoadDefaultsFromPath reads and strictly decodes a defaults file. Unknown
// keys are rejected so typos surface instead of being silently ignored.
func LoadDefaultsFromPath(path string) (Defaults, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Defaults{}, nil
	}
	if err != nil {
		return Defaults{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var d Defaults
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return Defaults{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if d.Cells != "" {
		if _, _, err := ParseCells(d.Cells); err != nil {
			return Defaults{}, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	if d.Color != "" {
		if _, err := ParseColor(d.Color); err != nil {
			return Defaults{}, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	return d, nil
}

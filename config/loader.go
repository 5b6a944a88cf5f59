// Package config provides generic YAML loading and the user configuration
// layered between template defaults and command-line overrides.
package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Validator defines an interface that configuration types can implement
// to provide custom validation logic
type Validator interface {
	Validate() error
}

// LoadYAML loads any YAML configuration into the provided target struct.
// The target must be a pointer to the struct you want to unmarshal into.
// If the target implements the Validator interface, validation will be called.
func LoadYAML[T any](path string, target *T) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path %q: %w", path, err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return fmt.Errorf("configuration file does not exist: %s", absPath)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to read configuration file %q: %w", absPath, err)
	}

	return decode(data, target)
}

// LoadYAMLFS loads a YAML document from a filesystem, typically an embedded
// template tree.
func LoadYAMLFS[T any](fsys fs.FS, name string, target *T) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read configuration file %q: %w", name, err)
	}

	return decode(data, target)
}

// LoadYAMLFromString loads YAML configuration from a string instead of a file.
// Useful for testing or when configuration comes from other sources.
func LoadYAMLFromString[T any](yamlContent string, target *T) error {
	return decode([]byte(yamlContent), target)
}

func decode[T any](data []byte, target *T) error {
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse YAML configuration: %w", err)
	}

	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return nil
}

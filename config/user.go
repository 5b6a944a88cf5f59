package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// UserConfig is the per-user defaults file. Values in DefaultContext
// override template defaults and are overridden by explicit assignments.
type UserConfig struct {
	DefaultContext map[string]string `yaml:"default_context"`
	KeepFailedDir  string            `yaml:"keep_failed_dir,omitempty"`
}

// DefaultUserConfigPath is $XDG_CONFIG_HOME/skein/config.yaml.
func DefaultUserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "skein", "config.yaml")
}

// LoadUserConfig reads path. A missing file yields an empty configuration
// unless required is set.
func LoadUserConfig(path string, required bool) (*UserConfig, error) {
	cfg := &UserConfig{}
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && !required {
		return cfg, nil
	}

	if err := LoadYAML(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseAssignments turns key=value pairs into a map. Later pairs win.
func ParseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected key=value", pair)
		}
		out[key] = value
	}
	return out, nil
}

// Layer merges override maps, later layers winning.
func Layer(layers ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, l := range layers {
		maps.Copy(out, l)
	}
	return out
}

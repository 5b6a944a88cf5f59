package processors

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatINI  Format = "ini"
)

// FormatFor guesses a structured format from a file name. The second
// result is false for files that are not structured metadata.
func FormatFor(filePath string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".toml":
		return FormatTOML, true
	case ".yml", ".yaml":
		return FormatYAML, true
	case ".ini", ".cfg":
		return FormatINI, true
	}
	return "", false
}

// ParseFormat accepts the names used in manifests and scenario files.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatTOML:
		return FormatTOML, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatINI, "cfg":
		return FormatINI, nil
	}
	return "", fmt.Errorf("unknown format %q", name)
}

// Decode parses content into a generic mapping. INI sections become nested
// maps keyed by section name; keys outside a section live at the top level.
func Decode(format Format, content []byte) (map[string]any, error) {
	switch format {
	case FormatTOML:
		out := map[string]any{}
		if err := toml.Unmarshal(content, &out); err != nil {
			return nil, err
		}
		return out, nil
	case FormatYAML:
		out := map[string]any{}
		if err := yaml.Unmarshal(content, &out); err != nil {
			return nil, err
		}
		return out, nil
	case FormatINI:
		return decodeINI(content)
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

func decodeINI(content []byte) (map[string]any, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		AllowPythonMultilineValues: true,
		SpaceBeforeInlineComment:   true,
	}, bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	out := map[string]any{}
	for _, section := range file.Sections() {
		keys := map[string]any{}
		for _, key := range section.Keys() {
			keys[key.Name()] = key.Value()
		}
		if section.Name() == ini.DefaultSection {
			for k, v := range keys {
				out[k] = v
			}
			continue
		}
		out[section.Name()] = keys
	}
	return out, nil
}

// Lint fails when a file of its format does not parse. Content is
// returned unchanged.
type Lint struct {
	Format Format
}

func NewTOMLLint() *Lint { return &Lint{Format: FormatTOML} }
func NewYAMLLint() *Lint { return &Lint{Format: FormatYAML} }
func NewINILint() *Lint  { return &Lint{Format: FormatINI} }

// ProcessContent implements the postprocess.Processor interface. Files of
// other formats pass through.
func (l *Lint) ProcessContent(filePath string, content []byte) ([]byte, error) {
	format, ok := FormatFor(filePath)
	if !ok || format != l.Format {
		return content, nil
	}
	if _, err := Decode(format, content); err != nil {
		return nil, fmt.Errorf("%s is not valid %s: %w", filePath, format, err)
	}
	return content, nil
}

// Package schema declares the variables a template understands and resolves
// user overrides against them into an immutable Configuration.
package schema

import (
	"fmt"
	"slices"
	"strings"
	"text/template"

	"github.com/samber/lo"

	"github.com/cpcf/skein/render"
)

type Kind string

const (
	KindString Kind = "string"
	KindYesNo  Kind = "yesno"
	KindChoice Kind = "choice"
)

// Variable is one declared configuration key. A string Default containing
// template actions is derived from the variables declared before it.
type Variable struct {
	Name    string   `yaml:"name"`
	Kind    Kind     `yaml:"kind"`
	Default string   `yaml:"default"`
	Choices []string `yaml:"choices,omitempty"`
	Help    string   `yaml:"help,omitempty"`
}

// Derived reports whether the default is computed from other variables.
func (v Variable) Derived() bool {
	return strings.Contains(v.Default, "{{")
}

// DefaultValue is the value used when the variable is not overridden. For a
// choice without an explicit default it is the first choice.
func (v Variable) DefaultValue() string {
	if v.Kind == KindChoice && v.Default == "" && len(v.Choices) > 0 {
		return v.Choices[0]
	}
	return v.Default
}

// ChoiceParser checks a value against a closed set of variants.
type ChoiceParser func(value string) error

type Schema struct {
	Variables []Variable `yaml:"variables"`

	parsers map[string]ChoiceParser
}

// Validate implements config.Validator.
func (s *Schema) Validate() error {
	seen := make(map[string]bool, len(s.Variables))
	for i, v := range s.Variables {
		if v.Name == "" {
			return fmt.Errorf("variable %d: name is required", i)
		}
		if seen[v.Name] {
			return fmt.Errorf("variable %q declared twice", v.Name)
		}
		seen[v.Name] = true

		switch v.Kind {
		case "":
			s.Variables[i].Kind = KindString
		case KindString:
		case KindYesNo:
			if _, ok := parseYesNo(v.Default); !ok {
				return fmt.Errorf("variable %q: default %q is not a yes/no value", v.Name, v.Default)
			}
		case KindChoice:
			if len(v.Choices) == 0 {
				return fmt.Errorf("variable %q: choice without choices", v.Name)
			}
			if v.Default != "" && !slices.Contains(v.Choices, v.Default) {
				return fmt.Errorf("variable %q: default %q is not one of its choices", v.Name, v.Default)
			}
		default:
			return fmt.Errorf("variable %q: unknown kind %q", v.Name, v.Kind)
		}

		if v.Derived() {
			if _, err := template.New(v.Name).Funcs(render.FuncMap()).Parse(v.Default); err != nil {
				return fmt.Errorf("variable %q: invalid derived default: %w", v.Name, err)
			}
		}
	}
	return nil
}

// RegisterChoice binds a variant parser to a choice variable. Resolve
// rejects values the parser does not accept even if the manifest lists them.
func (s *Schema) RegisterChoice(name string, parse ChoiceParser) {
	if s.parsers == nil {
		s.parsers = make(map[string]ChoiceParser)
	}
	s.parsers[name] = parse
}

func (s *Schema) Lookup(name string) (Variable, bool) {
	return lo.Find(s.Variables, func(v Variable) bool { return v.Name == name })
}

func (s *Schema) Names() []string {
	return lo.Map(s.Variables, func(v Variable, _ int) string { return v.Name })
}

// Defaults resolves the schema with no overrides.
func (s *Schema) Defaults() (Configuration, error) {
	return s.Resolve(nil)
}

// Resolve validates overrides against the schema and fills every other
// variable from its default. It performs no I/O.
func (s *Schema) Resolve(overrides map[string]string) (Configuration, error) {
	for key, value := range overrides {
		if _, ok := s.Lookup(key); !ok {
			return Configuration{}, &ConfigurationError{Key: key, Value: value, Reason: "unknown variable"}
		}
	}

	explicit := make(map[string]string, len(overrides))
	values := make(map[string]string, len(s.Variables))

	for _, v := range s.Variables {
		raw, set := overrides[v.Name]
		if !set {
			continue
		}
		value, err := s.normalize(v, raw)
		if err != nil {
			return Configuration{}, err
		}
		explicit[v.Name] = value
		values[v.Name] = value
	}

	for _, v := range s.Variables {
		if _, set := values[v.Name]; set {
			continue
		}

		value := v.DefaultValue()
		if v.Derived() {
			derived, err := derive(v, values)
			if err != nil {
				return Configuration{}, err
			}
			value = derived
		}

		normalized, err := s.normalize(v, value)
		if err != nil {
			return Configuration{}, err
		}
		values[v.Name] = normalized
	}

	return Configuration{
		schema:   s,
		values:   values,
		explicit: explicit,
	}, nil
}

func (s *Schema) normalize(v Variable, value string) (string, error) {
	switch v.Kind {
	case KindYesNo:
		yes, ok := parseYesNo(value)
		if !ok {
			return "", &ConfigurationError{Key: v.Name, Value: value, Reason: "expected y or n"}
		}
		if yes {
			return "y", nil
		}
		return "n", nil
	case KindChoice:
		if !slices.Contains(v.Choices, value) {
			return "", &ConfigurationError{
				Key:    v.Name,
				Value:  value,
				Reason: fmt.Sprintf("must be one of %s", strings.Join(v.Choices, ", ")),
			}
		}
		if parse, ok := s.parsers[v.Name]; ok {
			if err := parse(value); err != nil {
				return "", &ConfigurationError{Key: v.Name, Value: value, Reason: err.Error()}
			}
		}
	}
	return value, nil
}

// derive evaluates a derived default against the values resolved so far.
// Referencing a variable declared later is an error.
func derive(v Variable, values map[string]string) (string, error) {
	tmpl, err := template.New(v.Name).Option("missingkey=error").Funcs(render.FuncMap()).Parse(v.Default)
	if err != nil {
		return "", &ConfigurationError{Key: v.Name, Value: v.Default, Reason: err.Error()}
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, values); err != nil {
		return "", &ConfigurationError{Key: v.Name, Value: v.Default, Reason: err.Error()}
	}
	return buf.String(), nil
}

func parseYesNo(value string) (yes bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "y", "yes", "true", "1", "on":
		return true, true
	case "n", "no", "false", "0", "off":
		return false, true
	}
	return false, false
}

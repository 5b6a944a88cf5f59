package hooks

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Config is the hooks section of a template manifest. A nil or empty
// section disables its step.
type Config struct {
	SelectLicense *SelectLicenseConfig `yaml:"select_license,omitempty"`
	Remove        []RemoveRule         `yaml:"remove,omitempty"`
	DerivedValues *DerivedValuesConfig `yaml:"derived_values,omitempty"`
	Normalize     *NormalizeConfig     `yaml:"normalize,omitempty"`
}

type SelectLicenseConfig struct {
	Variable string `yaml:"variable"`
	Dir      string `yaml:"dir"`
	Target   string `yaml:"target"`
}

func (c SelectLicenseConfig) withDefaults() SelectLicenseConfig {
	if c.Variable == "" {
		c.Variable = "open_source_license"
	}
	if c.Dir == "" {
		c.Dir = "licenses"
	}
	if c.Target == "" {
		c.Target = "LICENSE"
	}
	return c
}

// RemoveRule deletes every path matching Paths when When holds.
type RemoveRule struct {
	Paths []string `yaml:"paths"`
	When  string   `yaml:"when"`
}

type DerivedValuesConfig struct {
	// Paths limits marker replacement to matching files; empty means all.
	Paths []string `yaml:"paths"`
}

type NormalizeConfig struct {
	TrimWhitespace []string `yaml:"trim_whitespace"`
	Lint           []string `yaml:"lint"`
}

// Validate checks every glob in the section.
func (c Config) Validate() error {
	check := func(section string, patterns []string) error {
		for _, p := range patterns {
			if !doublestar.ValidatePattern(p) {
				return fmt.Errorf("hooks.%s: invalid pattern %q", section, p)
			}
		}
		return nil
	}

	for i, rule := range c.Remove {
		if len(rule.Paths) == 0 {
			return fmt.Errorf("hooks.remove[%d]: paths is required", i)
		}
		if err := check("remove", rule.Paths); err != nil {
			return err
		}
	}
	if c.DerivedValues != nil {
		if err := check("derived_values", c.DerivedValues.Paths); err != nil {
			return err
		}
	}
	if c.Normalize != nil {
		if err := check("normalize", c.Normalize.TrimWhitespace); err != nil {
			return err
		}
		if err := check("normalize", c.Normalize.Lint); err != nil {
			return err
		}
	}
	return nil
}

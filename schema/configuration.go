package schema

import (
	"maps"
	"slices"
	"sort"
)

// Configuration is a resolved, immutable mapping from variable name to
// value. The zero value is empty and has no schema.
type Configuration struct {
	schema   *Schema
	values   map[string]string
	explicit map[string]string
}

func (c Configuration) Get(name string) string {
	return c.values[name]
}

func (c Configuration) Lookup(name string) (string, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Bool reports whether a yes/no variable is set to yes.
func (c Configuration) Bool(name string) bool {
	yes, _ := parseYesNo(c.values[name])
	return yes
}

// Values returns a copy of every resolved value.
func (c Configuration) Values() map[string]string {
	return maps.Clone(c.values)
}

// Overrides returns a copy of the values that were set explicitly.
func (c Configuration) Overrides() map[string]string {
	return maps.Clone(c.explicit)
}

// Names returns variable names in declaration order.
func (c Configuration) Names() []string {
	if c.schema != nil {
		return c.schema.Names()
	}
	names := slices.Collect(maps.Keys(c.values))
	sort.Strings(names)
	return names
}

// With resolves a new Configuration from the same schema with extra
// overrides layered over the explicit ones. Derived values are recomputed.
func (c Configuration) With(overrides map[string]string) (Configuration, error) {
	if c.schema == nil {
		return Configuration{}, &ConfigurationError{Reason: "configuration has no schema"}
	}
	merged := maps.Clone(c.explicit)
	if merged == nil {
		merged = make(map[string]string, len(overrides))
	}
	maps.Copy(merged, overrides)
	return c.schema.Resolve(merged)
}

// Data is the value handed to templates.
func (c Configuration) Data() map[string]any {
	data := make(map[string]any, len(c.values))
	for k, v := range c.values {
		data[k] = v
	}
	return data
}

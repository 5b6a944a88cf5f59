package harness

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
	"mvdan.cc/sh/v3/shell"

	"github.com/cpcf/skein/processors"
)

// MatchPattern is a content expectation. A plain YAML string is a
// substring; the tags !re, !ci and !not select a regular expression, a
// case-insensitive substring and a substring that must be absent.
type MatchPattern struct {
	Pattern    string
	Negate     bool
	Regexp     bool
	IgnoreCase bool
}

func (m *MatchPattern) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: pattern must be a scalar", value.Line)
	}

	*m = MatchPattern{Pattern: value.Value}
	switch value.Tag {
	case "!not":
		m.Negate = true
	case "!re":
		m.Regexp = true
	case "!not-re":
		m.Negate, m.Regexp = true, true
	case "!ci":
		m.IgnoreCase = true
	default:
		if value.Tag != "" && !strings.HasPrefix(value.Tag, "!!") {
			return fmt.Errorf("line %d: unsupported tag %q", value.Line, value.Tag)
		}
	}
	return nil
}

func (m MatchPattern) String() string {
	var tag string
	switch {
	case m.Negate && m.Regexp:
		tag = "!not-re "
	case m.Negate:
		tag = "!not "
	case m.Regexp:
		tag = "!re "
	case m.IgnoreCase:
		tag = "!ci "
	}
	return tag + fmt.Sprintf("%q", m.Pattern)
}

// found reports whether the pattern occurs in s, ignoring Negate.
func (m MatchPattern) found(s string) (bool, error) {
	switch {
	case m.Regexp:
		re, err := regexp.Compile(m.Pattern)
		if err != nil {
			return false, err
		}
		return re.MatchString(s), nil
	case m.IgnoreCase:
		return strings.Contains(strings.ToLower(s), strings.ToLower(m.Pattern)), nil
	default:
		return strings.Contains(s, m.Pattern), nil
	}
}

func (m MatchPattern) check(category Category, subject, s string) error {
	found, err := m.found(s)
	switch {
	case err != nil:
		return failf(category, subject, "invalid pattern %s: %v", m, err)
	case found && m.Negate:
		return failf(category, subject, "unexpectedly matches %s", m)
	case !found && !m.Negate:
		return failf(category, subject, "does not match %s", m)
	}
	return nil
}

// Listing constrains the entry names of one directory.
type Listing struct {
	Contains []string `yaml:"contains"`
	Omits    []string `yaml:"omits"`
}

// ParsedCheck decodes a structured file and asserts on dotted key paths.
// Format defaults to the one implied by the file extension.
type ParsedCheck struct {
	File   string         `yaml:"file"`
	Format string         `yaml:"format"`
	Has    []string       `yaml:"has"`
	Lacks  []string       `yaml:"lacks"`
	Equals map[string]any `yaml:"equals"`
}

// CommandCheck runs a command in the project directory. Requires names
// the tools that must be on PATH, defaulting to the command itself; when
// one is missing, or SkipOS matches the running OS, the check is skipped.
type CommandCheck struct {
	Run      string            `yaml:"run"`
	ExitCode int               `yaml:"exit_code"`
	Stdout   []MatchPattern    `yaml:"stdout"`
	Requires []string          `yaml:"requires"`
	SkipOS   string            `yaml:"skip_os"`
	Env      map[string]string `yaml:"env"`
}

// Expectation is everything a scenario asserts about a rendered project.
type Expectation struct {
	Toplevel     Listing                   `yaml:"toplevel"`
	Dirs         map[string]Listing        `yaml:"dirs"`
	Exists       []string                  `yaml:"exists"`
	NotExists    []string                  `yaml:"not_exists"`
	FileContains map[string][]MatchPattern `yaml:"file_contains"`
	Parsed       []ParsedCheck             `yaml:"parsed"`
	Commands     []CommandCheck            `yaml:"commands"`
}

// Verify checks the expectation against the project in w, category by
// category, and returns the first failure. Skipped commands are listed
// with the reason they were skipped.
func (e Expectation) Verify(ctx context.Context, w Workdir) ([]string, error) {
	if err := e.verifyStructure(w); err != nil {
		return nil, err
	}
	if err := e.verifyContent(w); err != nil {
		return nil, err
	}
	if err := e.verifyParsed(w); err != nil {
		return nil, err
	}
	return e.verifyCommands(ctx, w)
}

func (e Expectation) verifyStructure(w Workdir) error {
	if err := checkListing(w, ".", e.Toplevel); err != nil {
		return err
	}
	for _, dir := range sortedKeys(e.Dirs) {
		if err := checkListing(w, dir, e.Dirs[dir]); err != nil {
			return err
		}
	}

	for _, p := range e.Exists {
		if _, err := os.Stat(w.Path(p)); err != nil {
			return failf(Structural, p, "expected to exist: %v", err)
		}
	}
	for _, p := range e.NotExists {
		_, err := os.Stat(w.Path(p))
		switch {
		case err == nil:
			return failf(Structural, p, "exists but should not")
		case !errors.Is(err, fs.ErrNotExist):
			return failf(Structural, p, "unexpected error: %v", err)
		}
	}
	return nil
}

func checkListing(w Workdir, dir string, l Listing) error {
	if len(l.Contains) == 0 && len(l.Omits) == 0 {
		return nil
	}

	names, err := w.List(dir)
	if err != nil {
		return failf(Structural, dir, "cannot list directory: %v", err)
	}
	if missing, _ := lo.Difference(l.Contains, names); len(missing) > 0 {
		return failf(Structural, dir, "missing %s in %v", strings.Join(missing, ", "), names)
	}
	if found := lo.Intersect(l.Omits, names); len(found) > 0 {
		return failf(Structural, dir, "unexpected %s", strings.Join(found, ", "))
	}
	return nil
}

func (e Expectation) verifyContent(w Workdir) error {
	for _, file := range sortedKeys(e.FileContains) {
		data, err := w.ReadFile(file)
		if err != nil {
			return failf(Content, file, "cannot read: %v", err)
		}
		for _, pattern := range e.FileContains[file] {
			if err := pattern.check(Content, file, string(data)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e Expectation) verifyParsed(w Workdir) error {
	for _, c := range e.Parsed {
		if err := c.verify(w); err != nil {
			return err
		}
	}
	return nil
}

func (c ParsedCheck) verify(w Workdir) error {
	format, ok := processors.FormatFor(c.File)
	if c.Format != "" {
		f, err := processors.ParseFormat(c.Format)
		if err != nil {
			return failf(Parsed, c.File, "%v", err)
		}
		format, ok = f, true
	}
	if !ok {
		return failf(Parsed, c.File, "cannot infer format, set format explicitly")
	}

	content, err := w.ReadFile(c.File)
	if err != nil {
		return failf(Parsed, c.File, "cannot read: %v", err)
	}
	data, err := processors.Decode(format, content)
	if err != nil {
		return failf(Parsed, c.File, "not valid %s: %v", format, err)
	}

	for _, key := range c.Has {
		if _, ok := lookup(data, key); !ok {
			return failf(Parsed, c.File, "missing key %q", key)
		}
	}
	for _, key := range c.Lacks {
		if _, ok := lookup(data, key); ok {
			return failf(Parsed, c.File, "unexpected key %q", key)
		}
	}
	for _, key := range sortedKeys(c.Equals) {
		got, ok := lookup(data, key)
		if !ok {
			return failf(Parsed, c.File, "missing key %q", key)
		}
		if diff := cmp.Diff(normalizeValue(c.Equals[key]), normalizeValue(got)); diff != "" {
			return failf(Parsed, c.File, "key %q mismatch (-want +got):\n%s", key, diff)
		}
	}
	return nil
}

// lookup resolves a dotted key path. Keys that themselves contain dots
// are matched before the path is split further.
func lookup(node any, path string) (any, bool) {
	m, ok := node.(map[string]any)
	if !ok {
		return nil, false
	}
	if v, ok := m[path]; ok {
		return v, true
	}
	for i := len(path) - 1; i > 0; i-- {
		if path[i] != '.' {
			continue
		}
		if child, ok := m[path[:i]]; ok {
			if v, ok := lookup(child, path[i+1:]); ok {
				return v, true
			}
		}
	}
	return nil, false
}

// normalizeValue renders scalars as strings so values decoded by
// different formats compare equal.
func normalizeValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = normalizeValue(val)
		}
		return out
	case []any:
		return lo.Map(v, func(val any, _ int) any { return normalizeValue(val) })
	case nil:
		return nil
	default:
		return fmt.Sprint(v)
	}
}

func (e Expectation) verifyCommands(ctx context.Context, w Workdir) ([]string, error) {
	var skipped []string
	for _, c := range e.Commands {
		if reason := c.skipReason(w); reason != "" {
			skipped = append(skipped, fmt.Sprintf("%s (%s)", c.Run, reason))
			continue
		}

		res, err := w.WithEnv(c.Env).Run(ctx, c.Run)
		if err != nil {
			return skipped, &ExternalToolFailure{Command: c.Run, ExitCode: -1, Output: res.Output(), Err: err}
		}
		if res.ExitCode != c.ExitCode {
			return skipped, &ExternalToolFailure{
				Command:  c.Run,
				ExitCode: res.ExitCode,
				Output:   res.Output(),
				Err:      fmt.Errorf("exit status %d, want %d", res.ExitCode, c.ExitCode),
			}
		}
		for _, pattern := range c.Stdout {
			if err := pattern.check(External, c.Run, res.Stdout); err != nil {
				return skipped, &ExternalToolFailure{Command: c.Run, ExitCode: res.ExitCode, Output: res.Output(), Err: err}
			}
		}
	}
	return skipped, nil
}

func (c CommandCheck) skipReason(w Workdir) string {
	if c.SkipOS != "" {
		if ok, _ := osMatches(c.SkipOS); ok {
			return "unsupported on " + runtime.GOOS
		}
	}

	tools := c.Requires
	if len(tools) == 0 {
		if fields, err := shell.Fields(c.Run, w.lookupEnv); err == nil && len(fields) > 0 {
			tools = fields[:1]
		}
	}
	for _, tool := range tools {
		if !w.Has(tool) {
			return tool + " not found"
		}
	}
	return ""
}

func osMatches(pattern string) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(runtime.GOOS), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}

package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/cpcf/skein/config"
	"github.com/cpcf/skein/hooks"
	"github.com/cpcf/skein/schema"
)

// ManifestName is the file at the root of every template tree.
const ManifestName = "skein.yaml"

// Manifest describes a template tree: its variables, which nodes are
// conditional, which are copied verbatim and how the result is finalized.
type Manifest struct {
	schema.Schema `yaml:",inline"`

	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	// Root is the top-level directory of the tree, e.g. "{{.project_slug}}".
	Root              string       `yaml:"root"`
	Include           []Rule       `yaml:"include,omitempty"`
	CopyWithoutRender []string     `yaml:"copy_without_render,omitempty"`
	Hooks             hooks.Config `yaml:"hooks,omitempty"`
}

// Rule makes nodes whose rendered path matches Path conditional on When.
// Paths are relative to the project root.
type Rule struct {
	Path string `yaml:"path"`
	When string `yaml:"when"`
}

// Validate implements config.Validator.
func (m *Manifest) Validate() error {
	if err := m.Schema.Validate(); err != nil {
		return err
	}
	if m.Root == "" || strings.Contains(m.Root, "/") {
		return fmt.Errorf("root must name a single top-level directory, got %q", m.Root)
	}
	for i, r := range m.Include {
		if r.Path == "" || !doublestar.ValidatePattern(r.Path) {
			return fmt.Errorf("include[%d]: invalid path pattern %q", i, r.Path)
		}
	}
	for _, p := range m.CopyWithoutRender {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("copy_without_render: invalid pattern %q", p)
		}
	}
	return m.Hooks.Validate()
}

type includeRule struct {
	pattern string
	when    *schema.Predicate
}

// Tree is a loaded, read-only template tree.
type Tree struct {
	fsys     fs.FS
	manifest Manifest
	include  []includeRule
}

// LoadTree reads the manifest at the root of fsys and compiles its rules.
func LoadTree(fsys fs.FS) (*Tree, error) {
	t := &Tree{fsys: fsys}
	if err := config.LoadYAMLFS(fsys, ManifestName, &t.manifest); err != nil {
		return nil, err
	}

	info, err := fs.Stat(fsys, t.manifest.Root)
	if err != nil {
		return nil, fmt.Errorf("template root %q: %w", t.manifest.Root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template root %q is not a directory", t.manifest.Root)
	}

	for i, r := range t.manifest.Include {
		pred, err := t.manifest.Schema.CompilePredicate(r.When)
		if err != nil {
			return nil, fmt.Errorf("include[%d]: %w", i, err)
		}
		t.include = append(t.include, includeRule{pattern: r.Path, when: pred})
	}

	return t, nil
}

func (t *Tree) Manifest() *Manifest {
	return &t.manifest
}

func (t *Tree) Schema() *schema.Schema {
	return &t.manifest.Schema
}

func (t *Tree) FS() fs.FS {
	return t.fsys
}

// Resolve validates overrides against the tree's schema.
func (t *Tree) Resolve(overrides map[string]string) (schema.Configuration, error) {
	return t.manifest.Schema.Resolve(overrides)
}

// included reports whether every rule matching rel holds for cfg.
func (t *Tree) included(rel string, cfg schema.Configuration) (bool, error) {
	var errs []error
	for _, r := range t.include {
		if ok, _ := doublestar.Match(r.pattern, rel); !ok {
			continue
		}
		ok, err := r.when.Eval(cfg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			return false, nil
		}
	}
	return true, errors.Join(errs...)
}

func (t *Tree) copyVerbatim(rel string) bool {
	for _, p := range t.manifest.CopyWithoutRender {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Package templates bundles the template trees shipped with skein.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/cpcf/skein/engine"
	"github.com/cpcf/skein/harness"
	"github.com/cpcf/skein/schema"
)

// ScenariosName is the scenario suite kept next to a tree's manifest.
const ScenariosName = "scenarios.yaml"

//go:embed all:pypackage
var bundled embed.FS

// Names lists the bundled templates.
func Names() []string {
	entries, _ := fs.ReadDir(bundled, ".")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

// FS returns the files of a bundled template.
func FS(name string) (fs.FS, error) {
	if _, err := fs.Stat(bundled, path.Join(name, engine.ManifestName)); err != nil {
		return nil, fmt.Errorf("unknown template %q", name)
	}
	return fs.Sub(bundled, name)
}

// Open resolves ref to a template tree: the name of a bundled template or
// a directory containing a manifest.
func Open(ref string) (fs.FS, error) {
	if fsys, err := FS(ref); err == nil {
		return fsys, nil
	}
	info, err := os.Stat(ref)
	if err != nil {
		return nil, fmt.Errorf("template %q: not bundled and %w", ref, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template %q is not a directory", ref)
	}
	return os.DirFS(ref), nil
}

// Load opens ref and loads it as a tree with the variant choices bound.
func Load(ref string) (*engine.Tree, error) {
	fsys, err := Open(ref)
	if err != nil {
		return nil, err
	}
	tree, err := engine.LoadTree(fsys)
	if err != nil {
		return nil, err
	}
	schema.RegisterVariants(tree.Schema())
	return tree, nil
}

// Scenarios loads the scenario suite of ref.
func Scenarios(ref string) (*harness.Suite, error) {
	fsys, err := Open(ref)
	if err != nil {
		return nil, err
	}
	return harness.LoadSuiteFS(fsys, ScenariosName)
}

package engine

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/cpcf/skein/schema"
)

// Project is a rendered tree on disk. Base is the temporary directory the
// render allocated; Root is the project directory inside it.
type Project struct {
	Root   string
	Base   string
	Config schema.Configuration

	rendered []string
}

// Rendered lists the files the renderer wrote, relative to Root, before
// any post-render step ran.
func (p *Project) Rendered() []string {
	return append([]string(nil), p.rendered...)
}

// Path joins a slash-separated relative path onto Root.
func (p *Project) Path(rel string) string {
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

func (p *Project) ReadFile(rel string) ([]byte, error) {
	return os.ReadFile(p.Path(rel))
}

// Files walks Root and returns every regular file, slash-separated and
// sorted.
func (p *Project) Files() ([]string, error) {
	var files []string
	err := filepath.WalkDir(p.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(p.Root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(files)
	return files, err
}

// List returns the sorted entry names of a directory inside the project.
func (p *Project) List(rel string) ([]string, error) {
	entries, err := os.ReadDir(p.Path(rel))
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

// Remove deletes the whole temporary directory. It is safe to call on a
// nil project and more than once.
func (p *Project) Remove() error {
	if p == nil || p.Base == "" {
		return nil
	}
	return os.RemoveAll(p.Base)
}

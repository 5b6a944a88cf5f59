// Package state records the content of a generated tree so two renders
// can be compared.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

const manifestVersion = "1"

type Entry struct {
	Path string      `json:"path"`
	Hash string      `json:"hash"`
	Size int64       `json:"size"`
	Mode fs.FileMode `json:"mode"`
}

type Manifest struct {
	Version   string            `json:"version"`
	Generator string            `json:"generator"`
	Entries   map[string]Entry  `json:"entries"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Scan hashes every regular file below root. Paths are slash-separated and
// relative to root; modification times are not recorded.
func Scan(root string) (*Manifest, error) {
	m := &Manifest{
		Version:   manifestVersion,
		Generator: "skein",
		Entries:   make(map[string]Entry),
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		hash, err := fileHash(path)
		if err != nil {
			return fmt.Errorf("failed to calculate hash for %s: %w", path, err)
		}

		rel = filepath.ToSlash(rel)
		m.Entries[rel] = Entry{Path: rel, Hash: hash, Size: info.Size(), Mode: info.Mode().Perm()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Paths lists entry paths in lexical order.
func (m *Manifest) Paths() []string {
	paths := make([]string, 0, len(m.Entries))
	for p := range m.Entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Save writes the manifest as indented JSON, replacing path atomically.
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary manifest file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(m); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary manifest file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move manifest file: %w", err)
	}
	return nil
}

func Load(path string) (*Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest file: %w", err)
	}
	defer file.Close()

	var m Manifest
	if err := json.NewDecoder(file).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	if m.Version != manifestVersion {
		return nil, fmt.Errorf("unsupported manifest version %q", m.Version)
	}
	return &m, nil
}

type ChangeKind string

const (
	Added    ChangeKind = "added"
	Removed  ChangeKind = "removed"
	Modified ChangeKind = "modified"
)

type Change struct {
	Path string
	Kind ChangeKind
}

func (c Change) String() string {
	return fmt.Sprintf("%s %s", c.Kind, c.Path)
}

// Diff reports how to get from a to b, in path order. Paths matching an
// ignore pattern are skipped.
func Diff(a, b *Manifest, ignore ...string) []Change {
	skip := func(p string) bool {
		for _, pattern := range ignore {
			if ok, _ := doublestar.Match(pattern, p); ok {
				return true
			}
		}
		return false
	}

	var changes []Change
	for _, p := range a.Paths() {
		if skip(p) {
			continue
		}
		other, ok := b.Entries[p]
		switch {
		case !ok:
			changes = append(changes, Change{Path: p, Kind: Removed})
		case other.Hash != a.Entries[p].Hash || other.Mode != a.Entries[p].Mode:
			changes = append(changes, Change{Path: p, Kind: Modified})
		}
	}
	for _, p := range b.Paths() {
		if skip(p) {
			continue
		}
		if _, ok := a.Entries[p]; !ok {
			changes = append(changes, Change{Path: p, Kind: Added})
		}
	}

	sort.SliceStable(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}

func fileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

package state

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestScan(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"LICENSE":         "MIT License",
		"docs/index.rst":  "index",
		"pkg/__init__.py": "",
	})

	m, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	paths := m.Paths()
	expected := []string{"LICENSE", "docs/index.rst", "pkg/__init__.py"}
	if len(paths) != len(expected) {
		t.Fatalf("paths = %v", paths)
	}
	for i := range expected {
		if paths[i] != expected[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], expected[i])
		}
	}

	entry := m.Entries["LICENSE"]
	if entry.Size != int64(len("MIT License")) || len(entry.Hash) != 64 {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func TestDiff(t *testing.T) {
	a, err := Scan(writeFiles(t, map[string]string{
		"LICENSE":     "Copyright (c) 2024",
		"README.rst":  "readme",
		"AUTHORS.rst": "authors",
	}))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Scan(writeFiles(t, map[string]string{
		"LICENSE":     "Copyright (c) 2025",
		"README.rst":  "readme",
		"HISTORY.rst": "history",
	}))
	if err != nil {
		t.Fatal(err)
	}

	changes := Diff(a, b)
	expected := []Change{
		{Path: "AUTHORS.rst", Kind: Removed},
		{Path: "HISTORY.rst", Kind: Added},
		{Path: "LICENSE", Kind: Modified},
	}
	if len(changes) != len(expected) {
		t.Fatalf("changes = %v", changes)
	}
	for i := range expected {
		if changes[i] != expected[i] {
			t.Errorf("changes[%d] = %v, want %v", i, changes[i], expected[i])
		}
	}

	if changes := Diff(a, b, "LICENSE", "*.rst"); len(changes) != 0 {
		t.Errorf("ignored paths reported: %v", changes)
	}
	if changes := Diff(a, a); len(changes) != 0 {
		t.Errorf("identical manifests differ: %v", changes)
	}
}

func TestSaveLoad(t *testing.T) {
	m, err := Scan(writeFiles(t, map[string]string{"a.txt": "a"}))
	if err != nil {
		t.Fatal(err)
	}
	m.Metadata = map[string]string{"template": "pypackage"}

	path := filepath.Join(t.TempDir(), "out", "manifest.json")
	if err := m.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(Diff(m, loaded)) != 0 || loaded.Metadata["template"] != "pypackage" {
		t.Errorf("round trip changed the manifest: %+v", loaded)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	if err := os.WriteFile(path, []byte(`{"version":"0"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unsupported version")
	}
}

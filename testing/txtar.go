package testing

import (
	"os"
	"sort"
	"strings"

	"golang.org/x/tools/txtar"
)

// FromTxtar builds a MemoryFS from a txtar archive. A file whose name ends
// in "/" becomes an empty directory; names ending in ".exec" are written
// executable with the suffix removed.
func FromTxtar(data []byte) *MemoryFS {
	archive := txtar.Parse(data)
	mfs := NewMemoryFS()
	for _, f := range archive.Files {
		switch {
		case strings.HasSuffix(f.Name, "/"):
			mfs.Mkdir(strings.TrimSuffix(f.Name, "/"))
		case strings.HasSuffix(f.Name, ".exec"):
			mfs.WriteFileMode(strings.TrimSuffix(f.Name, ".exec"), f.Data, 0o755)
		default:
			mfs.WriteFile(f.Name, f.Data)
		}
	}
	return mfs
}

// LoadTxtar reads a txtar fixture from disk.
func LoadTxtar(path string) (*MemoryFS, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromTxtar(data), nil
}

// TreeArchive formats files as a txtar archive in lexical order, for use as
// a snapshot of a generated tree.
func TreeArchive(files map[string][]byte) []byte {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	archive := &txtar.Archive{}
	for _, name := range names {
		archive.Files = append(archive.Files, txtar.File{Name: name, Data: files[name]})
	}
	return txtar.Format(archive)
}

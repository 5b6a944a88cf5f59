// Package testing holds helpers for tests of template trees: an in-memory
// filesystem, txtar fixtures and snapshot assertions.
package testing

import (
	"io"
	"io/fs"
	"path"
	"sort"
	"time"
)

type MemoryFS struct {
	files map[string]*MemoryFile
}

type MemoryFile struct {
	name    string
	content []byte
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		files: make(map[string]*MemoryFile),
	}
}

// epoch is the modification time of every entry, so trees built from the
// same fixture compare equal.
var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func (mfs *MemoryFS) WriteFile(name string, data []byte) {
	mfs.WriteFileMode(name, data, 0o644)
}

// WriteFileMode adds a file with an explicit permission, e.g. for scripts.
func (mfs *MemoryFS) WriteFileMode(name string, data []byte, mode fs.FileMode) {
	name = path.Clean(name)
	mfs.files[name] = &MemoryFile{
		name:    name,
		content: data,
		mode:    mode.Perm(),
		modTime: epoch,
	}

	mfs.ensureDir(path.Dir(name))
}

// Mkdir adds an empty directory.
func (mfs *MemoryFS) Mkdir(name string) {
	mfs.ensureDir(path.Clean(name))
}

// Paths lists every file and directory in lexical order.
func (mfs *MemoryFS) Paths() []string {
	paths := make([]string, 0, len(mfs.files))
	for p := range mfs.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (mfs *MemoryFS) ensureDir(dir string) {
	if dir == "." || dir == "/" {
		return
	}

	if _, exists := mfs.files[dir]; !exists {
		mfs.files[dir] = &MemoryFile{
			name:    dir,
			mode:    0o755 | fs.ModeDir,
			modTime: epoch,
			isDir:   true,
		}
		mfs.ensureDir(path.Dir(dir))
	}
}

func (mfs *MemoryFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return &memoryFileHandle{file: &MemoryFile{name: ".", mode: 0o755 | fs.ModeDir, modTime: epoch, isDir: true}, mfs: mfs, path: "."}, nil
	}
	file, exists := mfs.files[name]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &memoryFileHandle{file: file, mfs: mfs, path: name}, nil
}

func (mfs *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	name = path.Clean(name)
	if name != "." {
		if file, ok := mfs.files[name]; !ok || !file.isDir {
			return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
		}
	}

	var entries []fs.DirEntry
	for filePath, file := range mfs.files {
		if path.Dir(filePath) == name {
			entries = append(entries, &memoryDirEntry{file})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	return entries, nil
}

type memoryFileHandle struct {
	file    *MemoryFile
	mfs     *MemoryFS
	path    string
	offset  int
	entries []fs.DirEntry
	listed  bool
}

func (f *memoryFileHandle) Read(b []byte) (int, error) {
	if f.file.isDir {
		return 0, &fs.PathError{Op: "read", Path: f.path, Err: fs.ErrInvalid}
	}

	if f.offset >= len(f.file.content) {
		return 0, io.EOF
	}

	n := copy(b, f.file.content[f.offset:])
	f.offset += n

	if f.offset >= len(f.file.content) {
		return n, io.EOF
	}

	return n, nil
}

func (f *memoryFileHandle) Stat() (fs.FileInfo, error) {
	return f.file, nil
}

func (f *memoryFileHandle) Close() error {
	return nil
}

func (f *memoryFileHandle) ReadDir(n int) ([]fs.DirEntry, error) {
	if !f.file.isDir {
		return nil, &fs.PathError{Op: "readdir", Path: f.path, Err: fs.ErrInvalid}
	}

	if !f.listed {
		entries, err := f.mfs.ReadDir(f.path)
		if err != nil {
			return nil, err
		}
		f.entries, f.listed = entries, true
	}

	if n <= 0 {
		entries := f.entries
		f.entries = nil
		return entries, nil
	}

	if len(f.entries) == 0 {
		return nil, io.EOF
	}

	n = min(n, len(f.entries))
	entries := f.entries[:n]
	f.entries = f.entries[n:]
	return entries, nil
}

type memoryDirEntry struct {
	file *MemoryFile
}

func (e *memoryDirEntry) Name() string {
	return path.Base(e.file.name)
}

func (e *memoryDirEntry) IsDir() bool {
	return e.file.isDir
}

func (e *memoryDirEntry) Type() fs.FileMode {
	return e.file.mode.Type()
}

func (e *memoryDirEntry) Info() (fs.FileInfo, error) {
	return e.file, nil
}

func (f *MemoryFile) Name() string {
	return path.Base(f.name)
}

func (f *MemoryFile) Size() int64 {
	return int64(len(f.content))
}

func (f *MemoryFile) Mode() fs.FileMode {
	return f.mode
}

func (f *MemoryFile) ModTime() time.Time {
	return f.modTime
}

func (f *MemoryFile) IsDir() bool {
	return f.isDir
}

func (f *MemoryFile) Sys() any {
	return nil
}

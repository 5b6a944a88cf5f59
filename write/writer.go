// Package write provides the file sinks the renderer writes through.
package write

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type Writer interface {
	MkdirAll(path string) error
	Write(path string, content []byte, options WriteOptions) error
}

type WriteOptions struct {
	Mode       fs.FileMode
	CreateDirs bool
	Overwrite  bool
}

func (o WriteOptions) mode() fs.FileMode {
	if o.Mode == 0 {
		return 0o644
	}
	return o.Mode.Perm()
}

// BaseWriter writes to the local filesystem. Without Overwrite it refuses
// to replace an existing file.
type BaseWriter struct{}

func NewBaseWriter() *BaseWriter {
	return &BaseWriter{}
}

func (bw *BaseWriter) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

func (bw *BaseWriter) Write(path string, content []byte, options WriteOptions) error {
	if options.CreateDirs {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create directories: %w", err)
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !options.Overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	file, err := os.OpenFile(path, flags, options.mode())
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("file already exists and overwrite is false: %s", path)
		}
		return err
	}

	if _, err := file.Write(content); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

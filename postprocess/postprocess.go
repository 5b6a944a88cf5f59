// Package postprocess applies content transformations to generated files.
//
// A Chain runs inside the renderer, between template execution and the
// write, and again from the post-render hook over files already on disk:
//
//	eng := engine.New()
//	eng.AddPostProcessor(processors.NewTrimWhitespace())
//
//	chain := postprocess.NewChain()
//	chain.Add(postprocess.Only(processors.NewTOMLLint(), "**/*.toml"))
//	err := chain.ApplyDir(projectRoot)
package postprocess

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Processor defines the interface for content post-processors.
// Implementations should be stateless and safe for concurrent use.
type Processor interface {
	// ProcessContent processes the content of a file and returns the transformed content.
	// The filePath parameter provides context about the file being processed.
	// Processors should return the original content unchanged if they don't apply to the file type.
	ProcessContent(filePath string, content []byte) ([]byte, error)
}

// ProcessorFunc is a function adapter that implements the Processor interface.
// It allows using regular functions as processors.
type ProcessorFunc func(filePath string, content []byte) ([]byte, error)

// ProcessContent implements the Processor interface.
func (f ProcessorFunc) ProcessContent(filePath string, content []byte) ([]byte, error) {
	return f(filePath, content)
}

// Chain manages and executes multiple post-processors in sequence.
// Processors are applied in the order they were added.
type Chain struct {
	processors []Processor
}

// NewChain creates a new empty processor chain.
func NewChain() *Chain {
	return &Chain{
		processors: make([]Processor, 0),
	}
}

// Add adds a processor to the end of the chain.
func (c *Chain) Add(processor Processor) {
	c.processors = append(c.processors, processor)
}

// AddFunc adds a function as a processor to the end of the chain.
func (c *Chain) AddFunc(fn func(filePath string, content []byte) ([]byte, error)) {
	c.processors = append(c.processors, ProcessorFunc(fn))
}

// Process runs all processors in sequence on the given content.
// If any processor fails, processing stops and the error is returned.
func (c *Chain) Process(filePath string, content []byte) ([]byte, error) {
	result := content
	for i, processor := range c.processors {
		processed, err := processor.ProcessContent(filePath, result)
		if err != nil {
			return nil, fmt.Errorf("processor %d failed for %s: %w", i, filePath, err)
		}
		result = processed
	}
	return result, nil
}

// HasProcessors returns true if the chain contains any processors.
func (c *Chain) HasProcessors() bool {
	return len(c.processors) > 0
}

// Len returns the number of processors in the chain.
func (c *Chain) Len() int {
	return len(c.processors)
}

// Clear removes all processors from the chain.
func (c *Chain) Clear() {
	c.processors = c.processors[:0]
}

// Only restricts a processor to files whose slash-separated path matches
// one of the doublestar patterns. Other files pass through unchanged.
func Only(processor Processor, patterns ...string) Processor {
	return ProcessorFunc(func(filePath string, content []byte) ([]byte, error) {
		name := filepath.ToSlash(filePath)
		for _, pattern := range patterns {
			if ok, _ := doublestar.Match(pattern, name); ok {
				return processor.ProcessContent(filePath, content)
			}
			if ok, _ := doublestar.Match(pattern, filepath.Base(filePath)); ok {
				return processor.ProcessContent(filePath, content)
			}
		}
		return content, nil
	})
}

// ApplyDir runs the chain over every regular file below root and rewrites
// the files whose content changed. Paths handed to processors are relative
// to root.
func (c *Chain) ApplyDir(root string) error {
	if !c.HasProcessors() {
		return nil
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
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

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		processed, err := c.Process(filepath.ToSlash(rel), content)
		if err != nil {
			return err
		}
		if bytes.Equal(processed, content) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		return os.WriteFile(path, processed, info.Mode().Perm())
	})
}

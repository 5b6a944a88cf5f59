// Package engine renders template trees into fresh project directories.
package engine

import (
	"context"
	"log/slog"
	"os"

	"github.com/cpcf/skein/postprocess"
	"github.com/cpcf/skein/schema"
	"github.com/cpcf/skein/write"
)

// Finalizer runs on a rendered project before Render returns. A failure
// discards the project.
type Finalizer interface {
	Finalize(ctx context.Context, root string, cfg schema.Configuration) error
}

type Engine struct {
	logger         *slog.Logger
	outputRoot     string
	tempPrefix     string
	failMode       FailureMode
	renderer       *Renderer
	cache          *TemplateCache
	postprocessors *postprocess.Chain
	writer         write.Writer
	finalizer      Finalizer
}

type FailureMode int

const (
	FailFast FailureMode = iota
	FailAtEnd
	BestEffort
)

func New(opts ...Option) *Engine {
	e := &Engine{
		logger:         slog.Default(),
		tempPrefix:     "skein-",
		failMode:       FailFast,
		cache:          NewTemplateCache(),
		postprocessors: postprocess.NewChain(),
		writer:         write.NewBaseWriter(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.renderer = NewRenderer(e.logger, e.cache, e.postprocessors, e.writer)

	return e
}

// Render writes tree into a new temporary directory and finalizes it. On
// any error the directory is removed and no project is returned.
func (e *Engine) Render(ctx context.Context, tree *Tree, cfg schema.Configuration) (*Project, error) {
	base, err := os.MkdirTemp(e.outputRoot, e.tempPrefix)
	if err != nil {
		return nil, &IOFailure{Op: "mkdtemp", Path: e.outputRoot, Err: err}
	}

	project, err := e.renderer.Render(ctx, e.failMode, tree, cfg, base)
	if err != nil {
		e.discard(base, err)
		return nil, err
	}

	if e.finalizer != nil {
		if err := e.finalizer.Finalize(ctx, project.Root, cfg); err != nil {
			e.discard(base, err)
			return nil, err
		}
	}

	e.logger.Info("rendered project", "template", tree.manifest.Name, "root", project.Root, "files", len(project.rendered))
	return project, nil
}

// RenderOverrides resolves overrides against the tree's schema and renders
// the result. Configuration errors are returned before any file I/O.
func (e *Engine) RenderOverrides(ctx context.Context, tree *Tree, overrides map[string]string) (*Project, error) {
	cfg, err := tree.Resolve(overrides)
	if err != nil {
		return nil, err
	}
	return e.Render(ctx, tree, cfg)
}

func (e *Engine) discard(base string, cause error) {
	e.logger.Debug("discarding project", "base", base, "error", cause)
	if err := os.RemoveAll(base); err != nil {
		e.logger.Warn("failed to remove project", "base", base, "error", err)
	}
}

// AddPostProcessor adds a post-processor to the processing chain.
// Processors are applied in the order they are added.
func (e *Engine) AddPostProcessor(processor postprocess.Processor) {
	e.postprocessors.Add(processor)
}

// AddPostProcessorFunc adds a function as a post-processor to the processing chain.
// This is a convenience method for simple transformations.
func (e *Engine) AddPostProcessorFunc(fn func(filePath string, content []byte) ([]byte, error)) {
	e.postprocessors.AddFunc(fn)
}

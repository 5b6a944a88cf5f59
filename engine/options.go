package engine

import (
	"log/slog"

	"github.com/cpcf/skein/write"
)

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithOutputRoot sets the directory in which per-render temporary
// directories are created. Empty means os.TempDir.
func WithOutputRoot(root string) Option {
	return func(e *Engine) {
		e.outputRoot = root
	}
}

func WithTempPrefix(prefix string) Option {
	return func(e *Engine) {
		e.tempPrefix = prefix
	}
}

func WithFailureMode(mode FailureMode) Option {
	return func(e *Engine) {
		e.failMode = mode
	}
}

// WithWriter replaces the filesystem writer, e.g. with write.NewDryRunWriter.
func WithWriter(w write.Writer) Option {
	return func(e *Engine) {
		e.writer = w
	}
}

// WithFinalizer runs f on every rendered project before Render returns.
func WithFinalizer(f Finalizer) Option {
	return func(e *Engine) {
		e.finalizer = f
	}
}

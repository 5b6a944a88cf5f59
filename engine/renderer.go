package engine

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/cpcf/skein/postprocess"
	"github.com/cpcf/skein/schema"
	"github.com/cpcf/skein/write"
)

type Renderer struct {
	logger         *slog.Logger
	cache          *TemplateCache
	postprocessors *postprocess.Chain
	writer         write.Writer
}

func NewRenderer(logger *slog.Logger, cache *TemplateCache, postprocessors *postprocess.Chain, writer write.Writer) *Renderer {
	return &Renderer{
		logger:         logger,
		cache:          cache,
		postprocessors: postprocessors,
		writer:         writer,
	}
}

// Render walks the tree depth-first in lexical order and writes every
// included node below base. Directories are created before their content.
func (r *Renderer) Render(ctx context.Context, failMode FailureMode, tree *Tree, cfg schema.Configuration, base string) (*Project, error) {
	var multiErr MultiError
	data := cfg.Data()
	project := &Project{Base: base, Config: cfg}

	err := fs.WalkDir(tree.fsys, tree.manifest.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if failMode == FailFast {
				return err
			}
			multiErr.Add(p, "filesystem error", err)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		out, err := r.renderPath(tree, p, data)
		if err != nil {
			if failMode == FailFast {
				return &GenerationError{Path: p, Message: "path render failed", Err: err}
			}
			multiErr.Add(p, "path render failed", err)
			return skip(d)
		}

		if p == tree.manifest.Root {
			if out == "" {
				return &GenerationError{Path: p, Message: "project root renders to an empty name"}
			}
			project.Root = filepath.Join(base, out)
		}
		if out == "" {
			r.logger.Debug("skipping node", "template", p)
			return skip(d)
		}

		rel := relative(out)
		included, err := tree.included(rel, cfg)
		if err != nil {
			if failMode == FailFast {
				return &GenerationError{Path: p, Message: "include rule failed", Err: err}
			}
			multiErr.Add(p, "include rule failed", err)
			return skip(d)
		}
		if !included {
			r.logger.Debug("excluded by rule", "template", p, "path", rel)
			return skip(d)
		}

		target := filepath.Join(base, filepath.FromSlash(out))
		if d.IsDir() {
			if err := r.writer.MkdirAll(target); err != nil {
				return &IOFailure{Op: "mkdir", Path: target, Err: err}
			}
			return nil
		}

		if renderErr := r.renderFile(tree, p, d, rel, target, data); renderErr != nil {
			if _, ok := renderErr.(*IOFailure); ok {
				return renderErr
			}
			if failMode == FailFast {
				return &GenerationError{Path: p, Message: "render failed", Err: renderErr}
			}
			multiErr.Add(p, "render failed", renderErr)
			return nil
		}
		project.rendered = append(project.rendered, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if multiErr.HasErrors() && failMode != BestEffort {
		return nil, &multiErr
	}
	for _, e := range multiErr.Errors {
		r.logger.Warn("node skipped after error", "path", e.Path, "error", e.Err)
	}

	return project, nil
}

func (r *Renderer) renderFile(tree *Tree, templatePath string, d fs.DirEntry, rel, target string, data map[string]any) error {
	r.logger.Debug("rendering template", "path", templatePath)

	var content []byte
	if tree.copyVerbatim(rel) {
		raw, err := fs.ReadFile(tree.fsys, templatePath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", templatePath, err)
		}
		content = raw
	} else {
		tmpl, err := r.cache.Get(tree, templatePath)
		if err != nil {
			return fmt.Errorf("failed to get template %s: %w", templatePath, err)
		}

		var buf strings.Builder
		if err := tmpl.Execute(&buf, data); err != nil {
			return fmt.Errorf("failed to execute template %s: %w", templatePath, err)
		}
		content = []byte(buf.String())

		if r.postprocessors.HasProcessors() {
			processed, err := r.postprocessors.Process(rel, content)
			if err != nil {
				return err
			}
			content = processed
		}
	}

	mode := fs.FileMode(0o644)
	if info, err := d.Info(); err == nil {
		mode |= info.Mode().Perm() & 0o111
	}

	if err := r.writer.Write(target, content, write.WriteOptions{Mode: mode}); err != nil {
		return &IOFailure{Op: "write", Path: target, Err: err}
	}
	return nil
}

// renderPath substitutes variables in a template path. An empty result
// means the node is skipped: a segment rendered empty or to a falsy word.
func (r *Renderer) renderPath(tree *Tree, templatePath string, data map[string]any) (string, error) {
	if !strings.Contains(templatePath, "{{") {
		return templatePath, nil
	}

	tmpl, err := r.cache.Path(tree, templatePath)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	out := buf.String()
	for _, segment := range strings.Split(out, "/") {
		switch strings.TrimSpace(segment) {
		case "", ".", "..", "false", "False", "null", "None", "<no value>":
			return "", nil
		}
	}
	return path.Clean(out), nil
}

// relative strips the project root segment; the root itself is ".".
func relative(out string) string {
	_, rest, found := strings.Cut(out, "/")
	if !found {
		return "."
	}
	return rest
}

func skip(d fs.DirEntry) error {
	if d.IsDir() {
		return fs.SkipDir
	}
	return nil
}

// Package harness renders a template for many configurations and checks
// each rendered project against its expectations.
package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/otiai10/copy"

	"github.com/cpcf/skein/engine"
	"github.com/cpcf/skein/hooks"
	"github.com/cpcf/skein/state"
)

// Result is what one bake produced. ExitCode is 0 on success and 1 when
// Err is set, in which case there is no project.
type Result struct {
	ExitCode int
	Err      error
	Project  *engine.Project
	RunID    uuid.UUID
}

func (r *Result) OK() bool {
	return r.ExitCode == 0 && r.Err == nil
}

type Harness struct {
	tree        *engine.Tree
	engine      *engine.Engine
	runner      CommandRunner
	logger      *slog.Logger
	clock       hooks.Clock
	keepFailed  string
	parallelism int
	engineOpts  []engine.Option
}

type Option func(*Harness)

func WithRunner(r CommandRunner) Option {
	return func(h *Harness) {
		h.runner = r
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// WithClock fixes the time seen by derived values.
func WithClock(clock hooks.Clock) Option {
	return func(h *Harness) {
		h.clock = clock
	}
}

// WithKeepFailed copies the tree of every failing scenario below dir
// before it is removed.
func WithKeepFailed(dir string) Option {
	return func(h *Harness) {
		h.keepFailed = dir
	}
}

// WithParallelism runs up to n scenarios at once in RunAll.
func WithParallelism(n int) Option {
	return func(h *Harness) {
		h.parallelism = n
	}
}

// WithEngineOptions passes extra options to the engine, after the
// harness's own.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(h *Harness) {
		h.engineOpts = append(h.engineOpts, opts...)
	}
}

// New prepares a harness for tree. The tree's hooks run after every bake.
func New(tree *engine.Tree, opts ...Option) (*Harness, error) {
	h := &Harness{
		tree:        tree,
		runner:      NewRealRunner(),
		logger:      slog.Default(),
		clock:       hooks.ClockFunc(time.Now),
		parallelism: 1,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.parallelism < 1 {
		h.parallelism = 1
	}

	finalizer, err := hooks.New(tree.Manifest().Hooks, tree.Schema(),
		hooks.WithLogger(h.logger),
		hooks.WithClock(h.clock),
	)
	if err != nil {
		return nil, fmt.Errorf("hooks: %w", err)
	}

	engineOpts := append([]engine.Option{
		engine.WithLogger(h.logger),
		engine.WithFinalizer(finalizer),
	}, h.engineOpts...)
	h.engine = engine.New(engineOpts...)

	return h, nil
}

func (h *Harness) Tree() *engine.Tree {
	return h.tree
}

// Bake renders and finalizes the template with overrides. It never
// returns nil; failures are recorded in the result.
func (h *Harness) Bake(ctx context.Context, overrides map[string]string) *Result {
	r := &Result{RunID: uuid.New()}

	project, err := h.engine.RenderOverrides(ctx, h.tree, overrides)
	if err != nil {
		r.ExitCode, r.Err = 1, err
		h.logger.Debug("bake failed", "run", r.RunID, "error", err)
		return r
	}

	r.Project = project
	h.logger.Debug("baked project", "run", r.RunID, "root", project.Root)
	return r
}

// WithBaked bakes, calls fn and removes the project afterwards, whether fn
// succeeds or not.
func (h *Harness) WithBaked(ctx context.Context, overrides map[string]string, fn func(*Result) error) error {
	r := h.Bake(ctx, overrides)
	defer func() {
		if err := r.Project.Remove(); err != nil {
			h.logger.Warn("failed to remove project", "run", r.RunID, "error", err)
		}
	}()
	return fn(r)
}

// Within calls fn with a Workdir rooted at dir that runs commands through
// the harness's runner.
func (h *Harness) Within(dir string, fn func(Workdir) error) error {
	return NewWorkdir(dir, h.runner).Within(".", fn)
}

// RunScenario runs one scenario in its own project and reports how it
// went.
func (h *Harness) RunScenario(ctx context.Context, sc Scenario) Outcome {
	start := time.Now()
	out := Outcome{Scenario: sc.Name}
	logger := h.logger.With("scenario", sc.Name)

	if sc.Skip.OS != "" {
		if skip, _ := osMatches(sc.Skip.OS); skip {
			out.Status = Skipped
			logger.Info("scenario skipped on this platform")
			return out
		}
	}

	err := h.WithBaked(ctx, sc.Context, func(r *Result) error {
		out.RunID = r.RunID
		if r.Err != nil {
			return r.Err
		}

		skipped, err := h.verify(ctx, sc.Expect, r.Project.Root)
		out.Skipped = skipped
		if err != nil && h.keepFailed != "" {
			out.KeptAt = h.keep(sc.Name, r)
		}
		return err
	})
	out.Duration = time.Since(start)
	out.Err = err

	switch {
	case err != nil && sc.XFail != "" && !errors.Is(err, context.Canceled):
		out.Status = XFailed
	case err != nil:
		out.Status = Failed
	case sc.XFail != "":
		out.Status = XPassed
	default:
		out.Status = Passed
	}

	for _, s := range out.Skipped {
		logger.Info("command skipped", "command", s)
	}
	if out.Status == Failed {
		logger.Error("scenario failed", "run", out.RunID, "error", err)
	} else {
		logger.Info("scenario finished", "status", out.Status, "duration", out.Duration)
	}
	return out
}

func (h *Harness) verify(ctx context.Context, exp Expectation, root string) ([]string, error) {
	var skipped []string
	err := h.Within(root, func(w Workdir) error {
		var err error
		skipped, err = exp.Verify(ctx, w)
		return err
	})
	return skipped, err
}

// keep copies a failing project for inspection and returns where it went.
func (h *Harness) keep(name string, r *Result) string {
	dest := filepath.Join(h.keepFailed, fmt.Sprintf("%s-%s", sanitize(name), r.RunID))
	if err := copy.Copy(r.Project.Root, dest); err != nil {
		h.logger.Warn("failed to keep project", "scenario", name, "error", err)
		return ""
	}
	h.logger.Info("kept failing project", "scenario", name, "path", dest)
	return dest
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '-'
	}, name)
}

// Compare reports the differences between two rendered projects. Paths
// matching an ignore pattern are left out.
func Compare(a, b *engine.Project, ignore ...string) ([]state.Change, error) {
	ma, err := state.Scan(a.Root)
	if err != nil {
		return nil, err
	}
	mb, err := state.Scan(b.Root)
	if err != nil {
		return nil, err
	}
	return state.Diff(ma, mb, ignore...), nil
}

// CheckIdempotent bakes the same configuration twice and fails if the
// trees differ outside the ignored paths.
func (h *Harness) CheckIdempotent(ctx context.Context, overrides map[string]string, ignore ...string) error {
	return h.WithBaked(ctx, overrides, func(first *Result) error {
		if first.Err != nil {
			return first.Err
		}
		return h.WithBaked(ctx, overrides, func(second *Result) error {
			if second.Err != nil {
				return second.Err
			}
			changes, err := Compare(first.Project, second.Project, ignore...)
			if err != nil {
				return err
			}
			if len(changes) > 0 {
				lines := make([]string, len(changes))
				for i, c := range changes {
					lines[i] = c.String()
				}
				return failf(Structural, "rendered tree", "differs between runs: %s", strings.Join(lines, "; "))
			}
			return nil
		})
	})
}

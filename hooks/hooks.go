// Package hooks finalizes a rendered project before it is handed to the
// caller: derived values, license selection, removal of inapplicable paths
// and metadata normalisation.
package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cpcf/skein/schema"
)

// Clock supplies the wall-clock time used for derived values.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// FixedClock always reports t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Step is one unit of post-render work.
type Step interface {
	Name() string
	Run(ctx context.Context, root string, cfg schema.Configuration) error
}

// HookError wraps the failure of a step. The project it ran on is
// discarded.
type HookError struct {
	Step string
	Err  error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("post-render hook %s: %v", e.Step, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// Finalizer runs its steps in order and stops at the first failure.
type Finalizer struct {
	steps  []Step
	logger *slog.Logger
	clock  Clock
}

type Option func(*Finalizer)

func WithLogger(logger *slog.Logger) Option {
	return func(f *Finalizer) {
		f.logger = logger
	}
}

func WithClock(clock Clock) Option {
	return func(f *Finalizer) {
		f.clock = clock
	}
}

// WithSteps appends custom steps after the configured ones.
func WithSteps(steps ...Step) Option {
	return func(f *Finalizer) {
		f.steps = append(f.steps, steps...)
	}
}

// New builds the steps enabled in cfg. Predicates are compiled against s.
func New(cfg Config, s *schema.Schema, opts ...Option) (*Finalizer, error) {
	f := &Finalizer{
		logger: slog.Default(),
		clock:  ClockFunc(time.Now),
	}

	for _, opt := range opts {
		opt(f)
	}
	extra := f.steps
	f.steps = nil

	if c := cfg.SelectLicense; c != nil {
		f.steps = append(f.steps, NewSelectLicense(*c))
	}

	if len(cfg.Remove) > 0 {
		step, err := NewRemovePaths(cfg.Remove, s)
		if err != nil {
			return nil, err
		}
		f.steps = append(f.steps, step)
	}

	if c := cfg.DerivedValues; c != nil {
		f.steps = append(f.steps, NewDerivedValues(*c, f.clock))
	}

	if c := cfg.Normalize; c != nil {
		f.steps = append(f.steps, NewNormalize(*c))
	}

	f.steps = append(f.steps, extra...)
	return f, nil
}

// Steps lists the enabled step names in run order.
func (f *Finalizer) Steps() []string {
	names := make([]string, len(f.steps))
	for i, s := range f.steps {
		names[i] = s.Name()
	}
	return names
}

// Finalize implements engine.Finalizer.
func (f *Finalizer) Finalize(ctx context.Context, root string, cfg schema.Configuration) error {
	for _, step := range f.steps {
		if err := ctx.Err(); err != nil {
			return &HookError{Step: step.Name(), Err: err}
		}

		f.logger.Debug("running post-render step", "step", step.Name(), "root", root)
		if err := step.Run(ctx, root, cfg); err != nil {
			f.logger.Error("post-render step failed", "step", step.Name(), "error", err)
			return &HookError{Step: step.Name(), Err: err}
		}
	}
	return nil
}

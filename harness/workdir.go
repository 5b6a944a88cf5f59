package harness

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"mvdan.cc/sh/v3/shell"
)

// Workdir is an explicit working directory. Commands run with it as their
// directory and relative paths resolve against it; nothing changes the
// process's current directory.
type Workdir struct {
	dir    string
	runner CommandRunner
	env    map[string]string
}

func NewWorkdir(dir string, runner CommandRunner) Workdir {
	return Workdir{dir: dir, runner: runner}
}

func (w Workdir) Dir() string {
	return w.dir
}

// Path resolves a slash-separated path against the directory.
func (w Workdir) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(w.dir, filepath.FromSlash(rel))
}

func (w Workdir) ReadFile(rel string) ([]byte, error) {
	return os.ReadFile(w.Path(rel))
}

// List returns the entry names of a directory.
func (w Workdir) List(rel string) ([]string, error) {
	entries, err := os.ReadDir(w.Path(rel))
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

// WithEnv returns a copy whose commands see env layered over the process
// environment.
func (w Workdir) WithEnv(env map[string]string) Workdir {
	merged := maps.Clone(w.env)
	if merged == nil {
		merged = make(map[string]string, len(env))
	}
	maps.Copy(merged, env)
	w.env = merged
	return w
}

// Within calls fn with a Workdir bound to dir, resolved against w. The
// receiver is unchanged, so the outer context is intact when fn returns,
// whether it fails or not.
func (w Workdir) Within(dir string, fn func(Workdir) error) error {
	inner := w
	inner.dir = w.Path(dir)

	info, err := os.Stat(inner.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", inner.dir)
	}
	return fn(inner)
}

// Run splits command with shell quoting rules and runs it in the
// directory.
func (w Workdir) Run(ctx context.Context, command string) (CmdResult, error) {
	args, err := shell.Fields(command, w.lookupEnv)
	if err != nil {
		return CmdResult{}, fmt.Errorf("parse %q: %w", command, err)
	}
	if len(args) == 0 {
		return CmdResult{}, errors.New("empty command")
	}
	if w.runner == nil {
		return CmdResult{}, errors.New("workdir has no command runner")
	}
	return w.runner.Run(ctx, args[0], args[1:], RunOpts{Dir: w.dir, Env: w.env})
}

// Check runs command and turns a start failure or non-zero exit into an
// ExternalToolFailure.
func (w Workdir) Check(ctx context.Context, command string) (CmdResult, error) {
	res, err := w.Run(ctx, command)
	if err != nil {
		return res, &ExternalToolFailure{Command: command, ExitCode: -1, Output: res.Output(), Err: err}
	}
	if res.ExitCode != 0 {
		return res, &ExternalToolFailure{Command: command, ExitCode: res.ExitCode, Output: res.Output()}
	}
	return res, nil
}

// Has reports whether tool can be found on PATH.
func (w Workdir) Has(tool string) bool {
	if w.runner == nil {
		return false
	}
	_, err := w.runner.LookPath(tool)
	return err == nil
}

func (w Workdir) lookupEnv(name string) string {
	if v, ok := w.env[name]; ok {
		return v
	}
	return os.Getenv(name)
}

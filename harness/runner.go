package harness

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// CmdResult holds the captured output of an external command.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Output is stdout followed by stderr.
func (r CmdResult) Output() string {
	return r.Stdout + r.Stderr
}

type RunOpts struct {
	Dir string
	Env map[string]string // overlay on the current environment
}

// CommandRunner runs external tools. A process that starts and exits
// non-zero is a result, not an error; errors are reserved for failures to
// run at all.
type CommandRunner interface {
	Run(ctx context.Context, name string, args []string, opts RunOpts) (CmdResult, error)
	LookPath(name string) (string, error)
}

// RealRunner runs commands with os/exec.
type RealRunner struct{}

func NewRealRunner() *RealRunner {
	return &RealRunner{}
}

func (r *RealRunner) Run(ctx context.Context, name string, args []string, opts RunOpts) (CmdResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Dir = opts.Dir

	if len(opts.Env) > 0 {
		cmd.Env = cmd.Environ()
		for k, v := range opts.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}

	err := cmd.Run()
	result := CmdResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return result, err
}

func (r *RealRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

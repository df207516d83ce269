// Package toolchain shells out to the external tools catalyst drives:
// tuist for graph extraction, bazel for builds, and xcrun simctl for the
// iOS simulator. All invocations go through the Runner interface so the
// rest of the code can be tested with a scripted fake.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner executes an external tool in a working directory. Implementations
// decide how the process is spawned; callers only see exit status and
// captured output.
type Runner interface {
	// Run executes name with args in dir, streaming output to the parent
	// process. A failed start or non-zero exit is returned as a *ToolError.
	Run(ctx context.Context, dir, name string, args ...string) error

	// Output executes name with args in dir and returns its captured stdout.
	Output(ctx context.Context, dir, name string, args ...string) (string, error)
}

// ToolError reports a tool that could not be started or exited non-zero.
type ToolError struct {
	Tool string
	Args []string
	Err  error
}

func (e *ToolError) Error() string {
	cmd := e.Tool
	if len(e.Args) > 0 {
		cmd += " " + strings.Join(e.Args, " ")
	}
	// Output() captures stderr inside the exit error; surface it, since for
	// tools like simctl that is the only diagnostic there is.
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) && len(exitErr.Stderr) > 0 {
		return fmt.Sprintf("%s: %v: %s", cmd, e.Err, bytes.TrimSpace(exitErr.Stderr))
	}
	return fmt.Sprintf("%s: %v", cmd, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// ExecRunner runs tools as real subprocesses.
type ExecRunner struct{}

// Run implements Runner. Stdout and stderr pass through to the parent so
// the user sees bazel and tuist output live.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return &ToolError{Tool: name, Args: args, Err: err}
	}
	return nil
}

// Output implements Runner. Stderr is left to the exec package so a failure
// carries the tool's diagnostics in the returned error.
func (ExecRunner) Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", &ToolError{Tool: name, Args: args, Err: err}
	}
	return string(out), nil
}

// LookPath reports whether a tool is available on PATH.
func LookPath(name string) (string, bool) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}
	return path, true
}

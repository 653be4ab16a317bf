package agent

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"time"
)

var (
	// ErrTimedOut is returned when an external command exceeds its timeout.
	ErrTimedOut = errors.New("command timed out")

	// ErrNotFound is returned when the command binary does not exist.
	ErrNotFound = errors.New("command not found")
)

// Result captures one external command run.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes external commands on the agent host.
type Runner interface {
	Run(ctx context.Context, name string, args []string, timeout time.Duration) (Result, error)
}

// ExecRunner runs commands on the local system under a hard timeout.
type ExecRunner struct{}

// Run executes name with args, capturing stdout and stderr. A non-zero exit
// is not an error; it is reported through ExitCode.
func (ExecRunner) Run(ctx context.Context, name string, args []string, timeout time.Duration) (Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return res, ErrTimedOut
	}
	// Bare names fail lookup, absolute paths fail with a path error.
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return res, ErrNotFound
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, err
}

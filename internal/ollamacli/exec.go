// internal/ollamacli/exec.go
package ollamacli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
)

// execResult carries the raw outcome of a one-shot command invocation.
type execResult struct {
	stdout   string
	stderr   string
	exitCode int
}

// execFunc runs a command to completion. It returns an error only when the
// process could not be started; non-zero exits are reported via exitCode.
type execFunc func(ctx context.Context, binary string, args ...string) (execResult, error)

// pullProcess is a started streaming command. Kill is best-effort.
type pullProcess interface {
	Stdout() io.Reader
	Wait() error
	Kill()
}

// startFunc launches a command whose output is consumed incrementally.
type startFunc func(ctx context.Context, binary string, args ...string) (pullProcess, error)

// runCommand is the production execFunc backed by os/exec.
func runCommand(ctx context.Context, binary string, args ...string) (execResult, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := execResult{stdout: stdout.String(), stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.exitCode = exitErr.ExitCode()
		return res, nil
	}
	return execResult{}, classifyStartError(binary, err)
}

// startedCmd adapts exec.Cmd to the pullProcess interface.
type startedCmd struct {
	cmd    *exec.Cmd
	stdout io.Reader
}

func (s *startedCmd) Stdout() io.Reader { return s.stdout }
func (s *startedCmd) Wait() error       { return s.cmd.Wait() }

func (s *startedCmd) Kill() {
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
}

// startCommand is the production startFunc. Stderr is merged into stdout so
// progress output is observed regardless of which stream the tool writes to.
func startCommand(ctx context.Context, binary string, args ...string) (pullProcess, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return nil, classifyStartError(binary, err)
	}
	return &startedCmd{cmd: cmd, stdout: stdout}, nil
}

// classifyStartError maps process launch failures onto the adapter taxonomy.
func classifyStartError(binary string, err error) error {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %q: %v", ErrAdapterUnavailable, binary, err)
	}
	return fmt.Errorf("start %q: %w", binary, err)
}

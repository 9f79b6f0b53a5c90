// internal/ollamacli/client_test.go
package ollamacli

import (
	"context"
	"errors"
	"os/exec"
	"testing"
)

// fakeExec returns a Client whose exec seam replays the given result, recording
// invocations into calls.
func fakeExec(res execResult, execErr error, calls *[][]string) *Client {
	c := New("ollama")
	c.exec = func(ctx context.Context, binary string, args ...string) (execResult, error) {
		if calls != nil {
			*calls = append(*calls, append([]string{binary}, args...))
		}
		return res, execErr
	}
	return c
}

// TestCheckAvailable verifies the probe invocation and its failure modes.
func TestCheckAvailable(t *testing.T) {
	var calls [][]string
	c := fakeExec(execResult{stdout: "ollama version is 0.5.1\n"}, nil, &calls)
	if err := c.CheckAvailable(context.Background()); err != nil {
		t.Fatalf("CheckAvailable failed: %v", err)
	}
	if len(calls) != 1 || calls[0][1] != "--version" {
		t.Errorf("expected a single --version invocation, got %v", calls)
	}

	c = fakeExec(execResult{}, classifyStartError("ollama", errors.New("executable file not found in $PATH")), nil)
	err := c.CheckAvailable(context.Background())
	if err == nil {
		t.Fatal("CheckAvailable should fail when the binary cannot start")
	}

	c = fakeExec(execResult{exitCode: 1, stderr: "boom"}, nil, nil)
	err = c.CheckAvailable(context.Background())
	var cerr *CommandError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CommandError on non-zero exit, got %v", err)
	}
}

// TestListModels verifies the list invocation parses through to records and
// that non-zero exits surface as CommandError with stderr retained.
func TestListModels(t *testing.T) {
	var calls [][]string
	c := fakeExec(execResult{stdout: listFixture}, nil, &calls)
	models, err := c.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}
	if len(models) != 3 {
		t.Errorf("expected 3 models, got %d", len(models))
	}
	if calls[0][1] != "list" {
		t.Errorf("expected list invocation, got %v", calls[0])
	}

	c = fakeExec(execResult{exitCode: 1, stderr: "could not connect to ollama app"}, nil, nil)
	_, err = c.ListModels(context.Background())
	var cerr *CommandError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CommandError, got %v", err)
	}
	if cerr.ExitCode != 1 {
		t.Errorf("ExitCode = %d", cerr.ExitCode)
	}
	if cerr.Stderr != "could not connect to ollama app" {
		t.Errorf("Stderr = %q", cerr.Stderr)
	}
}

// TestListRunning verifies the ps invocation.
func TestListRunning(t *testing.T) {
	c := fakeExec(execResult{stdout: psFixture}, nil, nil)
	running, err := c.ListRunning(context.Background())
	if err != nil {
		t.Fatalf("ListRunning failed: %v", err)
	}
	if len(running) != 2 {
		t.Errorf("expected 2 running models, got %d", len(running))
	}
}

// TestShowModel verifies show output is returned verbatim minus the trailing
// newline.
func TestShowModel(t *testing.T) {
	var calls [][]string
	c := fakeExec(execResult{stdout: "  Model\n    architecture  llama\n"}, nil, &calls)
	out, err := c.ShowModel(context.Background(), "llama3:8b")
	if err != nil {
		t.Fatalf("ShowModel failed: %v", err)
	}
	if out != "  Model\n    architecture  llama" {
		t.Errorf("out = %q", out)
	}
	if calls[0][1] != "show" || calls[0][2] != "llama3:8b" {
		t.Errorf("expected show llama3:8b invocation, got %v", calls[0])
	}
}

// TestDeleteAndStop verifies the destructive subcommands pass the model name
// through and propagate failures.
func TestDeleteAndStop(t *testing.T) {
	var calls [][]string
	c := fakeExec(execResult{stdout: "deleted 'llama3:8b'\n"}, nil, &calls)
	if err := c.DeleteModel(context.Background(), "llama3:8b"); err != nil {
		t.Fatalf("DeleteModel failed: %v", err)
	}
	if err := c.StopModel(context.Background(), "llama3:8b"); err != nil {
		t.Fatalf("StopModel failed: %v", err)
	}
	if calls[0][1] != "rm" || calls[1][1] != "stop" {
		t.Errorf("unexpected invocations: %v", calls)
	}

	c = fakeExec(execResult{exitCode: 1, stderr: "model not found"}, nil, nil)
	err := c.DeleteModel(context.Background(), "ghost")
	var cerr *CommandError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CommandError, got %v", err)
	}
}

// TestClassifyStartError verifies launch failures map onto
// ErrAdapterUnavailable only for missing or unexecutable binaries.
func TestClassifyStartError(t *testing.T) {
	err := classifyStartError("ollama", exec.ErrNotFound)
	if !errors.Is(err, ErrAdapterUnavailable) {
		t.Errorf("missing binary should read as unavailable, got %v", err)
	}

	err = classifyStartError("ollama", errors.New("resource exhausted"))
	if errors.Is(err, ErrAdapterUnavailable) {
		t.Error("arbitrary start failures should not read as unavailable")
	}
}

// internal/ollamacli/client.go
// Package ollamacli wraps the external ollama executable. It invokes a fixed
// set of subcommands and parses their semi-structured text output into typed
// records, classifying failures into a small taxonomy the refresh layer and
// the UI can act on: ErrAdapterUnavailable (binary missing), CommandError
// (binary ran, non-zero exit) and ParseError (exit zero, unexpected output).
package ollamacli

import (
	"context"
	"strings"
)

// Client invokes the ollama binary. The exec and start seams exist so tests
// can substitute canned output for the external tool.
type Client struct {
	binary string
	exec   execFunc
	start  startFunc
}

// New returns a Client that invokes the given binary via os/exec.
func New(binary string) *Client {
	if strings.TrimSpace(binary) == "" {
		binary = "ollama"
	}
	return &Client{
		binary: binary,
		exec:   runCommand,
		start:  startCommand,
	}
}

// CheckAvailable reports whether the binary can be executed at all, by
// running `ollama --version`.
func (c *Client) CheckAvailable(ctx context.Context) error {
	res, err := c.exec(ctx, c.binary, "--version")
	if err != nil {
		return err
	}
	if res.exitCode != 0 {
		return &CommandError{Args: []string{"--version"}, ExitCode: res.exitCode, Stderr: res.stderr}
	}
	return nil
}

// ListModels returns the locally installed models from `ollama list`.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	out, err := c.runChecked(ctx, "list")
	if err != nil {
		return nil, err
	}
	return parseListOutput(out)
}

// ListRunning returns the currently loaded models from `ollama ps`.
func (c *Client) ListRunning(ctx context.Context) ([]RunningModel, error) {
	out, err := c.runChecked(ctx, "ps")
	if err != nil {
		return nil, err
	}
	return parsePSOutput(out)
}

// ShowModel returns the detail text from `ollama show <name>`.
func (c *Client) ShowModel(ctx context.Context, name string) (string, error) {
	out, err := c.runChecked(ctx, "show", name)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

// DeleteModel removes a local model via `ollama rm <name>`.
func (c *Client) DeleteModel(ctx context.Context, name string) error {
	_, err := c.runChecked(ctx, "rm", name)
	return err
}

// StopModel unloads a running model via `ollama stop <name>`.
func (c *Client) StopModel(ctx context.Context, name string) error {
	_, err := c.runChecked(ctx, "stop", name)
	return err
}

// runChecked executes a subcommand and converts non-zero exits into
// CommandError. Start failures surface as ErrAdapterUnavailable or a wrapped
// exec error from the seam.
func (c *Client) runChecked(ctx context.Context, args ...string) (string, error) {
	res, err := c.exec(ctx, c.binary, args...)
	if err != nil {
		return "", err
	}
	if res.exitCode != 0 {
		return "", &CommandError{Args: args, ExitCode: res.exitCode, Stderr: res.stderr}
	}
	return res.stdout, nil
}

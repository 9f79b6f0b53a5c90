// internal/ollamacli/errors.go
package ollamacli

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAdapterUnavailable reports that the ollama binary could not be found or
// executed at all. Callers treat this as fatal at startup and as a banner
// condition afterwards, as opposed to a per-command failure.
var ErrAdapterUnavailable = errors.New("ollama binary unavailable")

// CommandError reports that the binary ran but exited non-zero.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

// Error describes the failed invocation including trimmed stderr when present.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("ollama %s: exit status %d", strings.Join(e.Args, " "), e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// ParseError reports that a command exited zero but produced output matching
// no expected line shape. Output retains the raw text for diagnostics.
type ParseError struct {
	Command string
	Line    string
	Output  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable %s output at line %q", e.Command, e.Line)
}

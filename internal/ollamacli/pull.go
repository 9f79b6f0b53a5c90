// internal/ollamacli/pull.go
package ollamacli

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// ansiPattern strips terminal control sequences from pull progress output.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]|\x1b\][^\x07]*\x07`)

// Pull downloads name:tag via `ollama pull`, returning a stream of progress
// events. The stream terminates with a single Done event carrying the exit
// status; on context cancellation the process is killed and the channel closes
// without further events.
func (c *Client) Pull(ctx context.Context, name, tag string) (<-chan PullEvent, error) {
	ref := name
	if tag != "" {
		ref = name + ":" + tag
	}

	proc, err := c.start(ctx, c.binary, "pull", ref)
	if err != nil {
		return nil, err
	}

	events := make(chan PullEvent, 16)
	go c.streamPull(ctx, proc, ref, events)
	return events, nil
}

// streamPull consumes process output incrementally and forwards parsed
// progress events until the process exits or the context is cancelled.
func (c *Client) streamPull(ctx context.Context, proc pullProcess, ref string, events chan<- PullEvent) {
	defer close(events)

	emit := func(ev PullEvent) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	var pending strings.Builder
	buf := make([]byte, 256)
	cancelled := false

readLoop:
	for {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		n, readErr := proc.Stdout().Read(buf)
		if n > 0 {
			pending.Write(buf[:n])
			rest := pending.String()
			pending.Reset()
			for {
				// Progress output rewrites lines with carriage returns, so
				// both CR and LF delimit events.
				idx := strings.IndexAny(rest, "\r\n")
				if idx < 0 {
					break
				}
				line := rest[:idx]
				rest = rest[idx+1:]
				if ev, ok := parsePullLine(line); ok {
					if !emit(ev) {
						cancelled = true
						break readLoop
					}
				}
			}
			pending.WriteString(rest)
		}
		if readErr != nil {
			break
		}
	}

	if cancelled {
		proc.Kill()
		_ = proc.Wait()
		return
	}

	if ev, ok := parsePullLine(pending.String()); ok {
		if !emit(ev) {
			proc.Kill()
			_ = proc.Wait()
			return
		}
	}

	waitErr := proc.Wait()
	if ctx.Err() != nil {
		return
	}

	final := PullEvent{Done: true, Status: "completed"}
	if waitErr != nil {
		final.Status = "failed"
		final.Err = classifyPullExit(ref, waitErr)
	}
	select {
	case events <- final:
	case <-ctx.Done():
	}
}

// classifyPullExit maps the pull process exit error onto the adapter taxonomy.
func classifyPullExit(ref string, waitErr error) error {
	if exitErr, ok := waitErr.(interface{ ExitCode() int }); ok {
		return &CommandError{Args: []string{"pull", ref}, ExitCode: exitErr.ExitCode()}
	}
	return waitErr
}

// parsePullLine converts one raw output line into a progress event. Blank
// lines and pure control sequences produce no event.
func parsePullLine(line string) (PullEvent, bool) {
	clean := strings.TrimSpace(ansiPattern.ReplaceAllString(line, ""))
	if clean == "" {
		return PullEvent{}, false
	}
	return PullEvent{Status: clean, Percent: extractPercent(clean)}, true
}

// extractPercent pulls a percentage out of lines like
// "pulling dde5aa3fc5ff...  45%". Returns -1 when the line carries none.
func extractPercent(line string) float64 {
	idx := strings.Index(line, "%")
	if idx < 0 {
		return -1
	}
	fields := strings.Fields(line[:idx])
	for i := len(fields) - 1; i >= 0; i-- {
		if pct, err := strconv.ParseFloat(fields[i], 64); err == nil {
			return pct
		}
	}
	return -1
}

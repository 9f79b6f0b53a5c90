// internal/ollamacli/parse.go
package ollamacli

import (
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
)

var (
	// listLinePattern matches `ollama list` rows:
	//   NAME            ID              SIZE      MODIFIED
	//   qwen2.5:7b      845dbda0ea48    4.7 GB    5 hours ago
	listLinePattern = regexp.MustCompile(`^(\S+)\s+(\w+)\s+(\d+\.?\d*\s*[KMGT]?B)\s+(.+?)\s*$`)

	// listLineNoModified accepts rows whose trailing MODIFIED column is absent.
	listLineNoModified = regexp.MustCompile(`^(\S+)\s+(\w+)\s+(\d+\.?\d*\s*[KMGT]?B)\s*$`)

	// psLinePattern matches `ollama ps` rows:
	//   NAME            ID              SIZE      PROCESSOR          UNTIL
	//   qwen2.5:7b      845dbda0ea48    6.0 GB    100% GPU           4 minutes from now
	// The processor column may be a split like `48%/52% CPU/GPU`.
	psLinePattern = regexp.MustCompile(`^(\S+)\s+(\w+)\s+(\d+\.?\d*\s*[KMGT]?B)\s+(\d+%(?:/\d+%)?\s*[A-Za-z/]+)\s+(.+?)\s*$`)
)

// parseListOutput converts `ollama list` output into Model records. Header-only
// output yields an empty list; any data line matching no known shape fails the
// whole parse so brittleness is observable instead of silently dropping rows.
func parseListOutput(out string) ([]Model, error) {
	lines := dataLines(out)
	if len(lines) == 0 {
		return nil, nil
	}

	var models []Model
	for _, line := range lines {
		if m := listLinePattern.FindStringSubmatch(line); m != nil {
			models = append(models, Model{
				Name:      m[1],
				ID:        m[2],
				Size:      m[3],
				SizeBytes: sizeBytes(m[3]),
				Modified:  strings.TrimSpace(m[4]),
			})
			continue
		}
		if m := listLineNoModified.FindStringSubmatch(line); m != nil {
			models = append(models, Model{
				Name:      m[1],
				ID:        m[2],
				Size:      m[3],
				SizeBytes: sizeBytes(m[3]),
			})
			continue
		}
		return nil, &ParseError{Command: "list", Line: line, Output: out}
	}
	return models, nil
}

// parsePSOutput converts `ollama ps` output into RunningModel records with the
// same all-or-nothing contract as parseListOutput.
func parsePSOutput(out string) ([]RunningModel, error) {
	lines := dataLines(out)
	if len(lines) == 0 {
		return nil, nil
	}

	var models []RunningModel
	for _, line := range lines {
		m := psLinePattern.FindStringSubmatch(line)
		if m == nil {
			return nil, &ParseError{Command: "ps", Line: line, Output: out}
		}
		models = append(models, RunningModel{
			Name:      m[1],
			ID:        m[2],
			Size:      m[3],
			SizeBytes: sizeBytes(m[3]),
			Processor: strings.TrimSpace(m[4]),
			Until:     strings.TrimSpace(m[5]),
		})
	}
	return models, nil
}

// dataLines strips the header row and blank lines from columnar output.
func dataLines(out string) []string {
	all := strings.Split(strings.TrimSpace(out), "\n")
	var lines []string
	for i, line := range all {
		line = strings.TrimRight(line, " \t")
		if i == 0 || strings.TrimSpace(line) == "" {
			// First line is the column header; `ollama list` prints it even
			// when no models are installed.
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// sizeBytes parses a human size like "4.7 GB" into bytes, 0 when absent or
// unparseable (the field is optional).
func sizeBytes(s string) uint64 {
	n, err := humanize.ParseBytes(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// internal/ollamacli/parse_test.go
package ollamacli

import (
	"errors"
	"testing"
)

const listFixture = `NAME                       ID              SIZE      MODIFIED
qwen2.5:7b                 845dbda0ea48    4.7 GB    5 hours ago
llama3.1:latest            42182419e950    4.7 GB    3 weeks ago
nomic-embed-text:latest    0a109f422b47    274 MB    2 months ago
`

const psFixture = `NAME          ID              SIZE      PROCESSOR          UNTIL
qwen2.5:7b    845dbda0ea48    6.0 GB    100% GPU           4 minutes from now
llama3:8b     365c0bd3c000    5.4 GB    48%/52% CPU/GPU    Forever
`

// TestParseListOutput verifies that tabular `ollama list` output becomes typed
// records with sizes resolved to bytes.
func TestParseListOutput(t *testing.T) {
	models, err := parseListOutput(listFixture)
	if err != nil {
		t.Fatalf("parseListOutput failed: %v", err)
	}
	if len(models) != 3 {
		t.Fatalf("expected 3 models, got %d", len(models))
	}

	first := models[0]
	if first.Name != "qwen2.5:7b" {
		t.Errorf("Name = %q", first.Name)
	}
	if first.ID != "845dbda0ea48" {
		t.Errorf("ID = %q", first.ID)
	}
	if first.Size != "4.7 GB" {
		t.Errorf("Size = %q", first.Size)
	}
	if first.SizeBytes == 0 {
		t.Error("SizeBytes should be resolved")
	}
	if first.Modified != "5 hours ago" {
		t.Errorf("Modified = %q", first.Modified)
	}

	if models[2].Size != "274 MB" {
		t.Errorf("third model Size = %q", models[2].Size)
	}
}

// TestParseListOutputEmpty verifies header-only output means no models, not an
// error.
func TestParseListOutputEmpty(t *testing.T) {
	models, err := parseListOutput("NAME    ID    SIZE    MODIFIED\n")
	if err != nil {
		t.Fatalf("header-only output should parse: %v", err)
	}
	if len(models) != 0 {
		t.Errorf("expected no models, got %d", len(models))
	}
}

// TestParseListOutputMalformed verifies that one unrecognized data line fails
// the whole parse with a ParseError carrying the offending line.
func TestParseListOutputMalformed(t *testing.T) {
	out := "NAME    ID    SIZE    MODIFIED\nthis line is not a model row\n"
	_, err := parseListOutput(out)
	if err == nil {
		t.Fatal("malformed output should fail")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if perr.Command != "list" {
		t.Errorf("Command = %q", perr.Command)
	}
	if perr.Line != "this line is not a model row" {
		t.Errorf("Line = %q", perr.Line)
	}
	if perr.Output == "" {
		t.Error("ParseError should retain the raw output")
	}
}

// TestParsePSOutput verifies `ollama ps` rows, including a split CPU/GPU
// processor column.
func TestParsePSOutput(t *testing.T) {
	running, err := parsePSOutput(psFixture)
	if err != nil {
		t.Fatalf("parsePSOutput failed: %v", err)
	}
	if len(running) != 2 {
		t.Fatalf("expected 2 running models, got %d", len(running))
	}

	if running[0].Processor != "100% GPU" {
		t.Errorf("Processor = %q", running[0].Processor)
	}
	if running[0].Until != "4 minutes from now" {
		t.Errorf("Until = %q", running[0].Until)
	}
	if running[1].Processor != "48%/52% CPU/GPU" {
		t.Errorf("split Processor = %q", running[1].Processor)
	}
	if running[1].Until != "Forever" {
		t.Errorf("Until = %q", running[1].Until)
	}
}

// TestParsePSOutputEmpty verifies that no loaded models parses to an empty
// list.
func TestParsePSOutputEmpty(t *testing.T) {
	running, err := parsePSOutput("NAME    ID    SIZE    PROCESSOR    UNTIL\n")
	if err != nil {
		t.Fatalf("header-only ps output should parse: %v", err)
	}
	if len(running) != 0 {
		t.Errorf("expected no running models, got %d", len(running))
	}
}

// TestParsePSOutputMalformed verifies the all-or-nothing contract for ps.
func TestParsePSOutputMalformed(t *testing.T) {
	out := "NAME  ID  SIZE  PROCESSOR  UNTIL\ngarbage\n"
	_, err := parsePSOutput(out)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.Command != "ps" {
		t.Errorf("Command = %q", perr.Command)
	}
}

// TestSizeBytes checks the human-size conversion on representative values.
func TestSizeBytes(t *testing.T) {
	if got := sizeBytes("4.7 GB"); got == 0 {
		t.Error("4.7 GB should convert")
	}
	if got := sizeBytes("274 MB"); got == 0 {
		t.Error("274 MB should convert")
	}
	if got := sizeBytes("not a size"); got != 0 {
		t.Errorf("unparseable size should be 0, got %d", got)
	}
}

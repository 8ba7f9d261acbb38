package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cyra/apachelogs/internal/parser"
)

const accessLog = `209.126.136.4 - - [01/Nov/2017:07:28:29 +0000] "GET / HTTP/1.1" 301 521 "-" "Mozilla/5.0"
Bad line
209.126.136.4 - - [01/Nov/2017:07:28:30 +0000] "GET /robots.txt HTTP/1.1" 404 12 "-" "Mozilla/5.0"
`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd("test")
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func records(t *testing.T, out string) []map[string]any {
	t.Helper()
	var recs []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("bad JSON line %q: %v", line, err)
		}
		recs = append(recs, rec)
	}
	return recs
}

func TestParseStdin(t *testing.T) {
	out, err := run(t, accessLog, "parse", "--ignore-invalid", "--fields", "request_line,final_status")
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	recs := records(t, out)
	if len(recs) != 2 {
		t.Fatalf("got %d records", len(recs))
	}
	if recs[1]["request_line"] != "GET /robots.txt HTTP/1.1" || recs[1]["final_status"] != float64(404) {
		t.Errorf("record = %v", recs[1])
	}
}

func TestParseStopsAtInvalidLine(t *testing.T) {
	out, err := run(t, accessLog, "parse", "-F", "combined")
	var iee *parser.InvalidEntryError
	if !errors.As(err, &iee) || iee.Entry != "Bad line" {
		t.Fatalf("parse error = %v, want *parser.InvalidEntryError", err)
	}
	if len(records(t, out)) != 1 {
		t.Errorf("output = %q", out)
	}
}

func TestParseFilesWithConfig(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a/access.log", "b/access.log"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(accessLog), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	cfgPath := filepath.Join(dir, "apachelogs.yaml")
	cfg := "parser:\n  format: combined\n  ignore_invalid: true\noutput:\n  format: text\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", "-c", cfgPath, "parse", filepath.Join(dir, "**", "access.log"))
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines: %q", len(lines), out)
	}
	if want := `01/Nov/2017:07:28:29 +0000 301 "GET / HTTP/1.1" 209.126.136.4`; lines[0] != want {
		t.Errorf("line = %q, want %q", lines[0], want)
	}

	// Flags win over the file.
	out, err = run(t, "", "-c", cfgPath, "parse", "-o", "json", "--time-format", "%s", filepath.Join(dir, "a", "access.log"))
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	if recs := records(t, out); len(recs) != 2 || recs[0]["request_time"] != "1509521309" {
		t.Errorf("records = %v", recs)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown directive", []string{"parse", "-F", "%h %Y"}, "Unknown log format directive"},
		{"missing file", []string{"parse", filepath.Join(t.TempDir(), "nope.log")}, "nope.log"},
		{"bad output", []string{"parse", "-o", "xml"}, "output.format"},
		{"missing config", []string{"-c", filepath.Join(t.TempDir(), "nope.yaml"), "parse"}, "read config"},
		{"follow stdin", []string{"parse", "--follow"}, "input.follow"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestParseEncodingAndDirectives(t *testing.T) {
	out, err := run(t, `"Gh0st\xad"`+"\n", "parse", "-F", `"%{User-Agent}i"`, "--encoding", "iso-8859-1", "--directives")
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	rec := records(t, out)[0]
	dirs, _ := rec["_directives"].(map[string]any)
	if dirs["%{User-Agent}i"] != "Gh0st\u00ad" {
		t.Errorf("_directives = %v", rec["_directives"])
	}
}

func TestFormats(t *testing.T) {
	out, err := run(t, "", "formats")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "vhost_combined") || !strings.Contains(out, parser.VhostCombined) {
		t.Errorf("formats output = %q", out)
	}
	if n := strings.Count(out, "\n"); n != len(parser.Formats()) {
		t.Errorf("got %d lines", n)
	}
}

func TestCompile(t *testing.T) {
	out, err := run(t, "", "compile", "%h %>{%Y}t")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "^(?:") {
		t.Fatalf("compile output = %q", out)
	}
	if !strings.Contains(lines[2], "%>{%Y}t") || !strings.Contains(lines[2], "final_request_time_fields.year") {
		t.Errorf("capture line = %q", lines[2])
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	if err != nil || out != "apachelogs version test\n" {
		t.Errorf("version = %q, %v", out, err)
	}
}

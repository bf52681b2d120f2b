package commands

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/nbodydiff/pkg/compare"
	"github.com/ccollicutt/nbodydiff/pkg/parser"
)

func newCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "nbodydiff",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	BindCompare(cmd)
	return cmd
}

// diffValues parses the four diff values out of one text output line.
func diffValues(t *testing.T, line string) []float64 {
	t.Helper()
	parts := strings.Split(line, " | ")
	if len(parts) != 6 {
		t.Fatalf("line has %d parts, want 6: %q", len(parts), line)
	}
	var values []float64
	for _, p := range parts[2:] {
		_, num, ok := strings.Cut(p, ": ")
		if !ok {
			t.Fatalf("malformed part %q", p)
		}
		v, err := strconv.ParseFloat(num, 64)
		if err != nil {
			t.Fatalf("parsing %q: %v", num, err)
		}
		values = append(values, v)
	}
	return values
}

func TestBindCompare_Flags(t *testing.T) {
	cmd := newCompareCommand()

	for _, flag := range []string{"config", "output", "verbose", "align"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestRunCompare_RoundTrip(t *testing.T) {
	t.Setenv("NBODYDIFF_ALIGN", "")
	dir := t.TempDir()
	serial := writeFile(t, dir, "serial.csv", serialCSV)
	bh := writeFile(t, dir, "bh.csv", bhCSV)

	out, err := execute(t, newCompareCommand(), serial, bh)
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "body: 3 | id: 0 | x_diff: ") {
		t.Errorf("unexpected line: %q", lines[0])
	}

	want := []float64{-0.1, 0.1, 0.1, 0.1}
	for i, got := range diffValues(t, lines[0]) {
		if math.Abs(got-want[i]) > 1e-9 {
			t.Errorf("diff[%d] = %v, want %v", i, got, want[i])
		}
	}
}

func TestRunCompare_SwappedInputsNegate(t *testing.T) {
	t.Setenv("NBODYDIFF_ALIGN", "")
	dir := t.TempDir()
	serial := writeFile(t, dir, "serial.csv", serialCSV)
	bh := writeFile(t, dir, "bh.csv", bhCSV)

	forward, err := execute(t, newCompareCommand(), serial, bh)
	if err != nil {
		t.Fatal(err)
	}
	backward, err := execute(t, newCompareCommand(), bh, serial)
	if err != nil {
		t.Fatal(err)
	}

	f := diffValues(t, strings.TrimSpace(forward))
	b := diffValues(t, strings.TrimSpace(backward))
	for i := range f {
		if f[i] != -b[i] {
			t.Errorf("diff[%d]: forward %v, backward %v", i, f[i], b[i])
		}
	}
}

func TestRunCompare_ArgumentCount(t *testing.T) {
	dir := t.TempDir()
	serial := writeFile(t, dir, "serial.csv", serialCSV)

	for _, args := range [][]string{
		{},
		{serial},
		{serial, serial, serial},
	} {
		out, err := execute(t, newCompareCommand(), args...)
		var usage *UsageError
		if !errors.As(err, &usage) {
			t.Errorf("args %v: error = %v, want *UsageError", args, err)
		}
		if out != "" {
			t.Errorf("args %v: unexpected output %q", args, out)
		}
	}
}

func TestRunCompare_MalformedLine(t *testing.T) {
	dir := t.TempDir()
	serial := writeFile(t, dir, "serial.csv", csvHeader+"0,3,0,1.0,2.0\n")
	bh := writeFile(t, dir, "bh.csv", bhCSV)

	out, err := execute(t, newCompareCommand(), serial, bh)
	if err == nil {
		t.Fatal("expected error for five-field line")
	}
	if out != "" {
		t.Errorf("unexpected output %q", out)
	}

	var fe *parser.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("error %v is not a FormatError", err)
	}
	if fe.LineNum != 2 {
		t.Errorf("LineNum = %d, want 2", fe.LineNum)
	}
	if !strings.HasPrefix(err.Error(), "reading serial data: ") {
		t.Errorf("error = %q", err)
	}
}

func TestRunCompare_MissingFile(t *testing.T) {
	serial := writeFile(t, t.TempDir(), "serial.csv", serialCSV)

	_, err := execute(t, newCompareCommand(), serial, "/nonexistent/bh.csv")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "reading Barnes-Hut data") {
		t.Errorf("error = %q", err)
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		t.Errorf("missing file reported as usage error: %v", err)
	}
}

func TestRunCompare_LengthMismatch(t *testing.T) {
	t.Setenv("NBODYDIFF_ALIGN", "")
	dir := t.TempDir()
	serial := writeFile(t, dir, "serial.csv", serialCSV+"0,4,0,1,1,1,1,1\n")
	bh := writeFile(t, dir, "bh.csv", bhCSV)

	out, err := execute(t, newCompareCommand(), serial, bh)
	if err == nil {
		t.Fatal("expected error for length mismatch")
	}
	if out != "" {
		t.Errorf("unexpected output %q", out)
	}

	var lm *compare.LengthMismatchError
	if !errors.As(err, &lm) {
		t.Fatalf("error %v is not a LengthMismatchError", err)
	}
	if lm.LeftLen != 2 || lm.RightLen != 1 {
		t.Errorf("lengths = %d/%d, want 2/1", lm.LeftLen, lm.RightLen)
	}
}

func TestRunCompare_KeyAlignment(t *testing.T) {
	t.Setenv("NBODYDIFF_ALIGN", "")
	dir := t.TempDir()
	serial := writeFile(t, dir, "serial.csv", csvHeader+
		"0,1,0,1.0,1.0,1.0,1.0,1\n"+
		"0,2,0,2.0,2.0,2.0,2.0,1\n")
	bh := writeFile(t, dir, "bh.csv", csvHeader+
		"0,2,0,2.0,2.0,2.0,2.0,1\n"+
		"0,1,0,1.0,1.0,1.0,1.0,1\n")

	out, err := execute(t, newCompareCommand(), "--align", "key", serial, bh)
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}

	want := "body: 1 | id: 0 | x_diff: 0.0 | y_diff: 0.0 | vx_diff: 0.0 | vy_diff: 0.0\n" +
		"body: 2 | id: 0 | x_diff: 0.0 | y_diff: 0.0 | vx_diff: 0.0 | vy_diff: 0.0\n"
	if out != want {
		t.Errorf("output:\n%s\nwant:\n%s", out, want)
	}
}

func TestRunCompare_AlignmentFromEnvironment(t *testing.T) {
	t.Setenv("NBODYDIFF_ALIGN", "key")
	dir := t.TempDir()
	serial := writeFile(t, dir, "serial.csv", serialCSV)
	bh := writeFile(t, dir, "bh.csv", csvHeader+"0,9,0,1,1,1,1,1\n")

	_, err := execute(t, newCompareCommand(), serial, bh)
	var km *compare.KeyMismatchError
	if !errors.As(err, &km) {
		t.Fatalf("error %v is not a KeyMismatchError", err)
	}
}

func TestRunCompare_ConfigLayout(t *testing.T) {
	t.Setenv("NBODYDIFF_ALIGN", "")
	dir := t.TempDir()
	config := writeFile(t, dir, "layout.yaml", `header_lines: 0
columns:
  body_id: 0
  timestep: 1
  x: 2
  y: 3
  vx: 4
  vy: 5
`)
	serial := writeFile(t, dir, "serial.csv", "a,7,3,4,5,6\n")
	bh := writeFile(t, dir, "bh.csv", "a,7,1,1,1,1\n")

	out, err := execute(t, newCompareCommand(), "-c", config, serial, bh)
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}

	want := "body: a | id: 7 | x_diff: 2.0 | y_diff: 3.0 | vx_diff: 4.0 | vy_diff: 5.0\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestRunCompare_JSONOutput(t *testing.T) {
	t.Setenv("NBODYDIFF_ALIGN", "")
	dir := t.TempDir()
	serial := writeFile(t, dir, "serial.csv", serialCSV)
	bh := writeFile(t, dir, "bh.csv", bhCSV)

	out, err := execute(t, newCompareCommand(), "-o", "json", "-v", serial, bh)
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}

	var parsed struct {
		Metadata map[string]any   `json:"metadata"`
		Rows     []map[string]any `json:"rows"`
	}
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(parsed.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(parsed.Rows))
	}
	if parsed.Rows[0]["body_id"] != "3" {
		t.Errorf("body_id = %v", parsed.Rows[0]["body_id"])
	}
	if _, ok := parsed.Rows[0]["serial"]; !ok {
		t.Error("verbose JSON row missing serial values")
	}
	if parsed.Metadata["serial"] != serial {
		t.Errorf("metadata serial = %v, want %s", parsed.Metadata["serial"], serial)
	}
}

func TestRunCompare_InvalidOptions(t *testing.T) {
	dir := t.TempDir()
	serial := writeFile(t, dir, "serial.csv", serialCSV)
	bh := writeFile(t, dir, "bh.csv", bhCSV)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"output format", []string{"-o", "xml"}, "unknown output format"},
		{"alignment", []string{"--align", "nearest"}, "invalid alignment"},
		{"config", []string{"-c", "/nonexistent/layout.yaml"}, "loading config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, serial, bh)
			out, err := execute(t, newCompareCommand(), args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
			if out != "" {
				t.Errorf("unexpected output %q", out)
			}
		})
	}
}

package output

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/ccollicutt/nbodydiff/pkg/compare"
)

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func TestNewJSONFormatter(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewJSONFormatter() returned nil")
	}
	if f.Name() != "json" {
		t.Errorf("Name() = %q, want %q", f.Name(), "json")
	}
}

type parsedReport struct {
	Metadata map[string]interface{}   `json:"metadata"`
	Rows     []map[string]interface{} `json:"rows"`
}

func formatJSON(t *testing.T, opts FormatOptions, report *Report) parsedReport {
	t.Helper()
	var buf bytes.Buffer
	if err := NewJSONFormatter(opts).Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var parsed parsedReport
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v\n%s", err, buf.String())
	}
	return parsed
}

func TestJSONFormatter_Format(t *testing.T) {
	parsed := formatJSON(t, FormatOptions{}, createTestReport())

	if len(parsed.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(parsed.Rows))
	}
	first := parsed.Rows[0]
	if first["body_id"] != "3" || first["timestep"] != "0" {
		t.Errorf("row key = %v/%v", first["body_id"], first["timestep"])
	}
	if first["x_diff"] != -0.25 || first["vy_diff"] != 0.5 {
		t.Errorf("row diffs = %v", first)
	}
	if _, ok := first["serial"]; ok {
		t.Error("non-verbose output includes serial values")
	}
	if parsed.Metadata["serial"] != "serial.csv" || parsed.Metadata["barnes_hut"] != "bh.csv" {
		t.Errorf("metadata = %v", parsed.Metadata)
	}
	if parsed.Metadata["alignment"] != "index" {
		t.Errorf("alignment = %v, want index", parsed.Metadata["alignment"])
	}
	if id, _ := parsed.Metadata["run_id"].(string); !isUUID(id) {
		t.Errorf("run_id = %v, want a UUID", parsed.Metadata["run_id"])
	}
}

func TestJSONFormatter_Format_Verbose(t *testing.T) {
	parsed := formatJSON(t, FormatOptions{Verbose: true}, createTestReport())

	serial, ok := parsed.Rows[0]["serial"].(map[string]interface{})
	if !ok {
		t.Fatalf("serial = %v, want object", parsed.Rows[0]["serial"])
	}
	if serial["x"] != 1.0 || serial["line"] != 2.0 {
		t.Errorf("serial = %v", serial)
	}
	bh, ok := parsed.Rows[0]["barnes_hut"].(map[string]interface{})
	if !ok {
		t.Fatalf("barnes_hut = %v, want object", parsed.Rows[0]["barnes_hut"])
	}
	if bh["x"] != 1.25 {
		t.Errorf("barnes_hut = %v", bh)
	}
}

func TestJSONFormatter_Format_NonFinite(t *testing.T) {
	report := &Report{
		Diffs: []compare.Diff{{BodyID: "0", Timestep: "9", DX: math.NaN(), DY: math.Inf(1), DVX: math.Inf(-1), DVY: 1}},
	}
	parsed := formatJSON(t, FormatOptions{}, report)

	row := parsed.Rows[0]
	for _, key := range []string{"x_diff", "y_diff", "vx_diff"} {
		if v, ok := row[key]; !ok || v != nil {
			t.Errorf("%s = %v, want null", key, v)
		}
	}
	if row["vy_diff"] != 1.0 {
		t.Errorf("vy_diff = %v, want 1", row["vy_diff"])
	}
}

func TestJSONFormatter_Format_Empty(t *testing.T) {
	parsed := formatJSON(t, FormatOptions{}, &Report{})
	if parsed.Rows == nil || len(parsed.Rows) != 0 {
		t.Errorf("rows = %v, want empty array", parsed.Rows)
	}
}

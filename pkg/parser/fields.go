package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Delimiter separates fields on a data line.
const Delimiter = ","

// Columns maps row fields to 0-based positions on a data line.
type Columns struct {
	BodyID   int
	Timestep int
	X        int
	Y        int
	VX       int
	VY       int
}

// DefaultColumns is the layout written by the simulators:
// outer_step,body_id,timestep,x,y,vx,vy,mass.
// Column 0 (outer step) and column 7 (mass) are not captured.
func DefaultColumns() Columns {
	return Columns{
		BodyID:   1,
		Timestep: 2,
		X:        3,
		Y:        4,
		VX:       5,
		VY:       6,
	}
}

// MinFields returns the number of fields a data line needs for every
// configured column to exist.
func (c Columns) MinFields() int {
	highest := 0
	for _, idx := range c.indexes() {
		if idx > highest {
			highest = idx
		}
	}
	return highest + 1
}

// Validate reports negative or duplicated column positions.
func (c Columns) Validate() error {
	seen := make(map[int]string)
	names := []string{"body_id", "timestep", "x", "y", "vx", "vy"}
	for i, idx := range c.indexes() {
		if idx < 0 {
			return fmt.Errorf("%s: column must be >= 0, got %d", names[i], idx)
		}
		if other, ok := seen[idx]; ok {
			return fmt.Errorf("%s: column %d already used by %s", names[i], idx, other)
		}
		seen[idx] = names[i]
	}
	return nil
}

func (c Columns) indexes() []int {
	return []int{c.BodyID, c.Timestep, c.X, c.Y, c.VX, c.VY}
}

// FormatError describes a data line that does not fit the column layout.
type FormatError struct {
	Source  string
	LineNum int

	// Column names the numeric field that failed to parse, empty for
	// field-count errors.
	Column string
	Value  string

	// Fields is the number of fields found on the line.
	Fields int
	Want   int

	Err error
}

func (e *FormatError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s:%d: expected at least %d fields, got %d",
			e.Source, e.LineNum, e.Want, e.Fields)
	}
	return fmt.Sprintf("%s:%d: %s: invalid number %q", e.Source, e.LineNum, e.Column, e.Value)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// RowExtractor splits data lines and converts the configured columns.
type RowExtractor struct {
	columns Columns
	want    int
}

// NewRowExtractor creates a new row extractor.
func NewRowExtractor(columns Columns) *RowExtractor {
	return &RowExtractor{
		columns: columns,
		want:    columns.MinFields(),
	}
}

// Extract parses one data line. Surrounding whitespace is trimmed before
// splitting. Numeric fields tolerate padding; body id and timestep are kept
// exactly as written.
// The returned row has no Source or LineNum; FormatError fields for those
// are left for the caller to fill in.
func (e *RowExtractor) Extract(line string) (*Row, error) {
	chunks := strings.Split(strings.TrimSpace(line), Delimiter)
	if len(chunks) < e.want {
		return nil, &FormatError{Fields: len(chunks), Want: e.want}
	}

	row := &Row{
		BodyID:   chunks[e.columns.BodyID],
		Timestep: chunks[e.columns.Timestep],
	}

	numeric := []struct {
		name string
		idx  int
		dst  *float64
	}{
		{"x", e.columns.X, &row.X},
		{"y", e.columns.Y, &row.Y},
		{"vx", e.columns.VX, &row.VX},
		{"vy", e.columns.VY, &row.VY},
	}
	for _, f := range numeric {
		v, err := strconv.ParseFloat(strings.TrimSpace(chunks[f.idx]), 64)
		if err != nil {
			return nil, &FormatError{Column: f.name, Value: chunks[f.idx], Err: err}
		}
		*f.dst = v
	}

	return row, nil
}

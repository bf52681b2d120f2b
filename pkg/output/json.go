package output

import (
	"context"
	"encoding/json"
	"io"
	"math"

	"github.com/ccollicutt/nbodydiff/pkg/compare"
	"github.com/ccollicutt/nbodydiff/pkg/parser"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

type jsonReport struct {
	Metadata Metadata  `json:"metadata"`
	Rows     []jsonRow `json:"rows"`
}

type jsonRow struct {
	BodyID   string      `json:"body_id"`
	Timestep string      `json:"timestep"`
	XDiff    jsonFloat   `json:"x_diff"`
	YDiff    jsonFloat   `json:"y_diff"`
	VXDiff   jsonFloat   `json:"vx_diff"`
	VYDiff   jsonFloat   `json:"vy_diff"`
	Serial   *jsonValues `json:"serial,omitempty"`
	BH       *jsonValues `json:"barnes_hut,omitempty"`
}

type jsonValues struct {
	X    jsonFloat `json:"x"`
	Y    jsonFloat `json:"y"`
	VX   jsonFloat `json:"vx"`
	VY   jsonFloat `json:"vy"`
	Line int       `json:"line"`
}

// jsonFloat encodes NaN and infinities, which JSON cannot represent, as null.
type jsonFloat float64

func (v jsonFloat) MarshalJSON() ([]byte, error) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// Format renders the report as JSON.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	out := jsonReport{
		Metadata: report.Metadata,
		Rows:     make([]jsonRow, 0, len(report.Diffs)),
	}
	for i := range report.Diffs {
		out.Rows = append(out.Rows, f.row(&report.Diffs[i]))
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func (f *JSONFormatter) row(d *compare.Diff) jsonRow {
	r := jsonRow{
		BodyID:   d.BodyID,
		Timestep: d.Timestep,
		XDiff:    jsonFloat(d.DX),
		YDiff:    jsonFloat(d.DY),
		VXDiff:   jsonFloat(d.DVX),
		VYDiff:   jsonFloat(d.DVY),
	}
	if f.opts.Verbose {
		r.Serial = values(&d.Left)
		r.BH = values(&d.Right)
	}
	return r
}

func values(row *parser.Row) *jsonValues {
	return &jsonValues{
		X:    jsonFloat(row.X),
		Y:    jsonFloat(row.Y),
		VX:   jsonFloat(row.VX),
		VY:   jsonFloat(row.VY),
		Line: row.LineNum,
	}
}

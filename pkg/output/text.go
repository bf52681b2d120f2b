package output

import (
	"context"
	"fmt"
	"io"

	"github.com/ccollicutt/nbodydiff/pkg/compare"
)

// TextFormatter formats reports as one line per compared row.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
//
// The "id" label carries the timestep; the labels are kept as they were
// so existing scripts reading this output keep working.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	for i := range report.Diffs {
		if err := f.formatDiff(&report.Diffs[i], w); err != nil {
			return err
		}
	}
	return nil
}

func (f *TextFormatter) formatDiff(d *compare.Diff, w io.Writer) error {
	_, err := fmt.Fprintf(w, "body: %s | id: %s | x_diff: %s | y_diff: %s | vx_diff: %s | vy_diff: %s\n",
		d.BodyID,
		d.Timestep,
		FormatFloat(d.DX),
		FormatFloat(d.DY),
		FormatFloat(d.DVX),
		FormatFloat(d.DVY))
	if err != nil {
		return err
	}

	if f.opts.Verbose {
		_, err = fmt.Fprintf(w, "  x_serial: %s  x_bh: %s  y_serial: %s  y_bh: %s  vx_serial: %s  vx_bh: %s  vy_serial: %s  vy_bh: %s\n",
			FormatFloat(d.Left.X), FormatFloat(d.Right.X),
			FormatFloat(d.Left.Y), FormatFloat(d.Right.Y),
			FormatFloat(d.Left.VX), FormatFloat(d.Right.VX),
			FormatFloat(d.Left.VY), FormatFloat(d.Right.VY))
	}
	return err
}

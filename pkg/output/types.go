// Package output provides formatting and output generation for comparison results.
package output

import (
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/nbodydiff/pkg/compare"
)

// Report is the complete comparison output.
type Report struct {
	// Diffs holds one entry per compared row, in output order.
	Diffs []compare.Diff

	// Metadata provides context about the comparison.
	Metadata Metadata
}

// Metadata provides context about the comparison run.
type Metadata struct {
	// RunID identifies one comparison run across saved reports.
	RunID uuid.UUID `json:"run_id"`

	// ConfigFile is the layout configuration used, empty for defaults.
	ConfigFile string `json:"config_file,omitempty"`

	// Serial and BarnesHut are the compared log files.
	Serial    string `json:"serial"`
	BarnesHut string `json:"barnes_hut"`

	Alignment compare.Alignment `json:"alignment"`

	// ComparedAt is when the comparison finished.
	ComparedAt time.Time `json:"compared_at"`

	// Duration is how long the comparison took.
	Duration time.Duration `json:"duration_ns"`
}

// NewReport creates a Report from comparison results.
// The left side of the comparison is the serial log.
func NewReport(result *compare.Result, configFile string) *Report {
	return &Report{
		Diffs: result.Diffs,
		Metadata: Metadata{
			RunID:      uuid.New(),
			ConfigFile: configFile,
			Serial:     result.Metadata.LeftSource,
			BarnesHut:  result.Metadata.RightSource,
			Alignment:  result.Metadata.Alignment,
			ComparedAt: result.Metadata.EndTime,
			Duration:   result.Metadata.EndTime.Sub(result.Metadata.StartTime),
		},
	}
}

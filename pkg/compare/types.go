// Package compare pairs rows from two simulation logs and computes the
// position and velocity differences between them.
package compare

import (
	"fmt"
	"time"

	"github.com/ccollicutt/nbodydiff/pkg/parser"
)

// Alignment enumerates the ways rows of the two logs are paired.
type Alignment string

const (
	// AlignIndex pairs the i-th row of one log with the i-th row of the other.
	AlignIndex Alignment = "index"

	// AlignKey pairs rows sharing the same (body id, timestep).
	AlignKey Alignment = "key"
)

// ParseAlignment converts a user-supplied alignment name.
func ParseAlignment(s string) (Alignment, error) {
	switch Alignment(s) {
	case AlignIndex, AlignKey:
		return Alignment(s), nil
	default:
		return "", fmt.Errorf("invalid alignment %q (must be index or key)", s)
	}
}

// Diff is the difference between two aligned rows, left minus right.
type Diff struct {
	// BodyID and Timestep are taken from the left row.
	BodyID   string
	Timestep string

	DX  float64
	DY  float64
	DVX float64
	DVY float64

	// Left and Right are the rows that produced this diff.
	Left  parser.Row
	Right parser.Row
}

// Result contains the complete comparison output.
type Result struct {
	// Diffs holds one entry per aligned row pair, in left-file order.
	Diffs []Diff

	// Metadata provides context about the comparison.
	Metadata Metadata
}

// Metadata provides context about the comparison run.
type Metadata struct {
	LeftSource  string
	RightSource string
	Alignment   Alignment

	// StartTime is when comparison began.
	StartTime time.Time

	// EndTime is when comparison completed.
	EndTime time.Time
}

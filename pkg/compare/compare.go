package compare

import (
	"context"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/ccollicutt/nbodydiff/pkg/parser"
)

// Comparator computes per-row differences between two simulation logs.
type Comparator struct {
	alignment Alignment
}

// Option configures comparator behavior.
type Option func(*Comparator)

// WithAlignment selects how rows are paired. Defaults to AlignIndex.
func WithAlignment(a Alignment) Option {
	return func(c *Comparator) {
		if a != "" {
			c.alignment = a
		}
	}
}

// New creates a comparator.
func New(opts ...Option) (*Comparator, error) {
	c := &Comparator{alignment: AlignIndex}
	for _, opt := range opts {
		opt(c)
	}
	if _, err := ParseAlignment(string(c.alignment)); err != nil {
		return nil, err
	}
	return c, nil
}

// Alignment returns the configured alignment mode.
func (c *Comparator) Alignment() Alignment {
	return c.alignment
}

// Compare subtracts right from left for every aligned row pair.
// Both datasets must hold the same number of rows.
func (c *Comparator) Compare(ctx context.Context, left, right *parser.Dataset) (*Result, error) {
	result := &Result{
		Metadata: Metadata{
			LeftSource:  left.Source,
			RightSource: right.Source,
			Alignment:   c.alignment,
			StartTime:   time.Now(),
		},
	}

	if left.Len() != right.Len() {
		return nil, &LengthMismatchError{
			LeftSource:  left.Source,
			LeftLen:     left.Len(),
			RightSource: right.Source,
			RightLen:    right.Len(),
		}
	}

	var pairs []pair
	switch c.alignment {
	case AlignKey:
		var err error
		if pairs, err = alignByKey(left, right); err != nil {
			return nil, err
		}
	default:
		pairs = alignByIndex(left, right)
	}

	result.Diffs = make([]Diff, 0, len(pairs))
	lv := make([]float64, 4)
	rv := make([]float64, 4)
	dv := make([]float64, 4)
	for _, p := range pairs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		stateVector(lv, p.left)
		stateVector(rv, p.right)
		floats.SubTo(dv, lv, rv)

		result.Diffs = append(result.Diffs, Diff{
			BodyID:   p.left.BodyID,
			Timestep: p.left.Timestep,
			DX:       dv[0],
			DY:       dv[1],
			DVX:      dv[2],
			DVY:      dv[3],
			Left:     *p.left,
			Right:    *p.right,
		})
	}

	result.Metadata.EndTime = time.Now()

	return result, nil
}

// stateVector writes [x y vx vy] of row into dst.
func stateVector(dst []float64, row *parser.Row) {
	dst[0] = row.X
	dst[1] = row.Y
	dst[2] = row.VX
	dst[3] = row.VY
}

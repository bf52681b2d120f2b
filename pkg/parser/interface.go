package parser

import (
	"context"
)

// RowSource provides an iterator over parsed simulation rows.
// Implementations must be safe for sequential access (not concurrent).
type RowSource interface {
	// Next returns the next parsed row.
	// Returns io.EOF when no more rows are available.
	// A malformed line is an error; nothing is skipped.
	Next(ctx context.Context) (*Row, error)

	// Close releases any resources held by the source.
	Close() error
}

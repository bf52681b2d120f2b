package compare

import (
	"fmt"

	"github.com/ccollicutt/nbodydiff/pkg/parser"
)

// LengthMismatchError is returned when the two logs hold a different
// number of rows. Nothing is compared in that case.
type LengthMismatchError struct {
	LeftSource  string
	LeftLen     int
	RightSource string
	RightLen    int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("row count mismatch: %s has %d rows, %s has %d rows",
		e.LeftSource, e.LeftLen, e.RightSource, e.RightLen)
}

// KeyMismatchError is returned by key alignment when a (body, timestep)
// pair is duplicated or has no counterpart in the other log.
type KeyMismatchError struct {
	Key     parser.RowKey
	Source  string
	LineNum int

	// Other is the file the key was looked up in, or the same file for
	// duplicates.
	Other string

	// Duplicate is set when Source holds the key twice.
	Duplicate bool

	// FirstLine is the earlier occurrence of a duplicated key. Zero when
	// unknown, as for rows built in memory.
	FirstLine int
}

func (e *KeyMismatchError) Error() string {
	if e.Duplicate {
		msg := fmt.Sprintf("%s:%d: duplicate row for body %s at timestep %s",
			e.Source, e.LineNum, e.Key.BodyID, e.Key.Timestep)
		if e.FirstLine > 0 {
			msg += fmt.Sprintf(" (first seen on line %d)", e.FirstLine)
		}
		return msg
	}
	return fmt.Sprintf("%s:%d: body %s at timestep %s has no counterpart in %s",
		e.Source, e.LineNum, e.Key.BodyID, e.Key.Timestep, e.Other)
}

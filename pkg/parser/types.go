// Package parser provides simulation log reading and parsing functionality.
package parser

// Row is a single body state recorded at one timestep.
type Row struct {
	// BodyID identifies the simulated body. Kept as written in the log.
	BodyID string

	// Timestep is the simulation time index. Kept as written in the log.
	Timestep string

	// X and Y are the body position.
	X float64
	Y float64

	// VX and VY are the body velocity.
	VX float64
	VY float64

	// Source is the file path this row came from.
	Source string

	// LineNum is the 1-based line number in the source file.
	LineNum int
}

// Key returns the (body, timestep) pair identifying this row.
func (r *Row) Key() RowKey {
	return RowKey{BodyID: r.BodyID, Timestep: r.Timestep}
}

// RowKey identifies a body at a timestep.
type RowKey struct {
	BodyID   string
	Timestep string
}

// Dataset is every row of one simulation log, in file order.
type Dataset struct {
	// Source is the file path the rows were loaded from.
	Source string

	// Rows holds one entry per data line.
	Rows []Row
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

package detector

// Field is a row field that the detector looks for in a header line.
type Field struct {
	Name    string   // Config key (body_id, timestep, ...)
	Aliases []string // Lower-cased header spellings that name this field
}

// DefaultFields returns the fields to detect, in row order.
// "step" is left out: the simulators use it for the outer step
// counter, not the timestep.
func DefaultFields() []Field {
	return []Field{
		{
			Name:    "body_id",
			Aliases: []string{"body_id", "bodyid", "body", "id", "i", "particle"},
		},
		{
			Name:    "timestep",
			Aliases: []string{"timestep", "time_step", "t", "ts", "time", "tick"},
		},
		{
			Name:    "x",
			Aliases: []string{"x", "pos_x", "px", "rx"},
		},
		{
			Name:    "y",
			Aliases: []string{"y", "pos_y", "py", "ry"},
		},
		{
			Name:    "vx",
			Aliases: []string{"vx", "vel_x", "v_x", "velocity_x"},
		},
		{
			Name:    "vy",
			Aliases: []string{"vy", "vel_y", "v_y", "velocity_y"},
		},
	}
}

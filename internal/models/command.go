// Package models contains domain types for the CNC post-processing service.
package models

// Command is one step of an abstract tool path: a motion or utility code
// plus its named numeric parameters. Positional and feed values are stored
// in canonical machine units (mm, mm/min) regardless of the output dialect.
type Command struct {
	Name       string             `json:"name" msgpack:"name"`
	Parameters map[string]float64 `json:"parameters,omitempty" msgpack:"parameters,omitempty"`
}

// Param returns the value for a parameter letter and whether it was
// specified for this command. An absent letter is distinct from a value
// that happens to repeat the previous one.
func (c Command) Param(letter string) (float64, bool) {
	v, ok := c.Parameters[letter]
	return v, ok
}

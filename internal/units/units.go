// Package units converts canonical machine quantities into named output
// units. Lengths are stored internally in millimeters and feed rates in
// millimeters per minute; the emitter re-expresses them in the configured
// dialect unit without ambiguity.
package units

import "fmt"

const mmPerInch = 25.4

// Kind tags a quantity as a length or a velocity so the same numeric value
// cannot be converted with the wrong factor.
type Kind int

const (
	Length Kind = iota
	Velocity
)

func (k Kind) String() string {
	switch k {
	case Length:
		return "length"
	case Velocity:
		return "velocity"
	default:
		return "unknown"
	}
}

// Quantity is a canonical-unit value with its physical kind.
type Quantity struct {
	Value float64
	Kind  Kind
}

// Millimeters tags a canonical length value.
func Millimeters(v float64) Quantity { return Quantity{Value: v, Kind: Length} }

// MMPerMin tags a canonical feed-rate value.
func MMPerMin(v float64) Quantity { return Quantity{Value: v, Kind: Velocity} }

// ValueAs returns the quantity's magnitude expressed in the named unit.
// Supported units: "mm" and "in" for lengths, "mm/min" and "in/min" for
// velocities. Asking for a unit of the wrong kind is an error.
func (q Quantity) ValueAs(unit string) (float64, error) {
	switch q.Kind {
	case Length:
		switch unit {
		case "mm":
			return q.Value, nil
		case "in":
			return q.Value / mmPerInch, nil
		}
	case Velocity:
		switch unit {
		case "mm/min":
			return q.Value, nil
		case "in/min":
			return q.Value / mmPerInch, nil
		}
	}
	return 0, fmt.Errorf("cannot express %s quantity as %q", q.Kind, unit)
}

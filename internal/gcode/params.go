package gcode

import (
	"fmt"
	"strconv"

	"github.com/cnc-post/backend/internal/models"
	"github.com/cnc-post/backend/internal/units"
)

// paramOrder is the canonical emission order of parameter letters. K is
// deliberately absent: the dialect does not want K words on XY-plane arcs.
var paramOrder = []string{
	"X", "Y", "Z", "A", "B", "C", "I", "J",
	"S", "T", "Q", "R", "F", "L", "H", "D", "P",
}

// paramClass selects the formatting rule for a parameter letter.
type paramClass int

const (
	// classLength: duplicate-suppressed, unit-converted, fixed precision.
	classLength paramClass = iota
	// classInt: truncated to an integer, no conversion (tool and offset
	// table indices, spindle speed).
	classInt
	// classFeed: velocity-converted, suppressed on rapids, gated on being
	// positive and changed.
	classFeed
)

var paramClasses = map[string]paramClass{
	"S": classInt,
	"T": classInt,
	"H": classInt,
	"D": classInt,
	"F": classFeed,
}

func classOf(letter string) paramClass {
	if c, ok := paramClasses[letter]; ok {
		return c
	}
	return classLength
}

func isRapid(name string) bool { return name == "G0" || name == "G00" }

// formatParam renders one parameter token according to the letter's
// policy, consulting the tracked location for suppression decisions.
// ok is false when the parameter is suppressed for this line.
func formatParam(letter, cmdName string, value float64, loc map[string]float64, s Settings) (tok string, ok bool, err error) {
	switch classOf(letter) {
	case classFeed:
		if isRapid(cmdName) {
			// Rapids run at machine speed; a feed word would be noise.
			return "", false, nil
		}
		prev, tracked := loc[letter]
		if tracked && prev == value && !s.OutputDoubles {
			return "", false, nil
		}
		speed, err := units.MMPerMin(value).ValueAs(s.SpeedUnit)
		if err != nil {
			return "", false, err
		}
		if speed <= 0 {
			return "", false, nil
		}
		return letter + strconv.FormatFloat(speed, 'f', s.Precision, 64), true, nil

	case classInt:
		return letter + strconv.Itoa(int(value)), true, nil

	default:
		prev, tracked := loc[letter]
		if !s.OutputDoubles && tracked && prev == value {
			return "", false, nil
		}
		pos, err := units.Millimeters(value).ValueAs(s.LengthUnit)
		if err != nil {
			return "", false, err
		}
		return letter + strconv.FormatFloat(pos, 'f', s.Precision, 64), true, nil
	}
}

// formatParams appends the command's parameter tokens in canonical order.
func formatParams(tokens []string, c models.Command, loc map[string]float64, s Settings) ([]string, error) {
	for _, letter := range paramOrder {
		value, present := c.Parameters[letter]
		if !present {
			continue
		}
		tok, ok, err := formatParam(letter, c.Name, value, loc, s)
		if err != nil {
			return nil, fmt.Errorf("parameter %s of %s: %w", letter, c.Name, err)
		}
		if ok {
			tokens = append(tokens, tok)
		}
	}
	return tokens, nil
}

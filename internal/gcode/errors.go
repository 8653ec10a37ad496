package gcode

import "fmt"

// NotAPathError reports a top-level container that carries no usable path.
// The whole export aborts; nothing is written.
type NotAPathError struct {
	Name string
}

func (e *NotAPathError) Error() string {
	return fmt.Sprintf("container %q is not a path; select only paths and compounds", e.Name)
}

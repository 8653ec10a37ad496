package models

// ContainerKind distinguishes a compound (group of children) from a leaf
// operation carrying its own command sequence.
type ContainerKind string

const (
	ContainerGroup ContainerKind = "group"
	ContainerLeaf  ContainerKind = "leaf"
)

// CoolantMode mirrors the CAM job's coolant selection for an operation.
type CoolantMode string

const (
	CoolantNone  CoolantMode = "None"
	CoolantFlood CoolantMode = "Flood"
	CoolantMist  CoolantMode = "Mist"
)

// Tool describes the cutter associated with an operation. Only the label
// is needed by the post-processor (it goes into the operator prompt).
type Tool struct {
	Label string `json:"label" msgpack:"label"`
}

// Path is the ordered command sequence of a leaf operation.
type Path struct {
	Commands []Command `json:"commands" msgpack:"commands"`
}

// Base carries flags an operation inherits from its underlying job object.
type Base struct {
	Active      *bool       `json:"active,omitempty" msgpack:"active,omitempty"`
	CoolantMode CoolantMode `json:"coolantMode,omitempty" msgpack:"coolantMode,omitempty"`
}

// Container is one node of the tool-path tree: either a group of child
// containers or a leaf operation. Depth-first traversal in child order is
// the emission order; callers depend on it.
type Container struct {
	Kind        ContainerKind `json:"kind,omitempty" msgpack:"kind,omitempty"`
	Label       string        `json:"label" msgpack:"label"`
	Children    []*Container  `json:"children,omitempty" msgpack:"children,omitempty"`
	Path        *Path         `json:"path,omitempty" msgpack:"path,omitempty"`
	Active      *bool         `json:"active,omitempty" msgpack:"active,omitempty"`
	Base        *Base         `json:"base,omitempty" msgpack:"base,omitempty"`
	CoolantMode CoolantMode   `json:"coolantMode,omitempty" msgpack:"coolantMode,omitempty"`
	Tool        *Tool         `json:"tool,omitempty" msgpack:"tool,omitempty"`
}

// IsGroup reports whether the container is a compound. Documents that omit
// the kind tag are classified by the presence of children.
func (c *Container) IsGroup() bool {
	if c.Kind != "" {
		return c.Kind == ContainerGroup
	}
	return len(c.Children) > 0
}

// IsActive reports whether the container should be emitted. A missing
// activity flag means active; the inherited base flag can also disable it.
func (c *Container) IsActive() bool {
	if c.Active != nil && !*c.Active {
		return false
	}
	if c.Base != nil && c.Base.Active != nil && !*c.Base.Active {
		return false
	}
	return true
}

// Coolant resolves the coolant mode for a leaf, falling back to the base
// object's mode and defaulting to None.
func (c *Container) Coolant() CoolantMode {
	if c.CoolantMode != "" {
		return c.CoolantMode
	}
	if c.Base != nil && c.Base.CoolantMode != "" {
		return c.Base.CoolantMode
	}
	return CoolantNone
}

// Document is the wire form of an export request's tool-path tree.
type Document struct {
	Containers []*Container `json:"containers" msgpack:"containers"`
}

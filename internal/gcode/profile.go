package gcode

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile overrides the machine-specific text blocks of a dialect from a
// YAML file, so per-machine tool-change macros and preambles live as data
// instead of edits to this package. Nil fields keep the dialect default.
type Profile struct {
	MachineName      *string `yaml:"machineName"`
	CommandSeparator *string `yaml:"commandSeparator"`

	Preamble      *string `yaml:"preamble"`
	Postamble     *string `yaml:"postamble"`
	PreOperation  *string `yaml:"preOperation"`
	PostOperation *string `yaml:"postOperation"`

	PreToolChange          *string `yaml:"preToolChange"`
	ToolChangeNotification *string `yaml:"toolChangeNotification"`
	ToolChange             *string `yaml:"toolChange"`
}

// LoadProfile reads a machine profile from a YAML file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	return &p, nil
}

// Apply returns a copy of the settings with the profile's overrides set.
func (p *Profile) Apply(s Settings) Settings {
	if p == nil {
		return s
	}
	if p.MachineName != nil {
		s.MachineName = *p.MachineName
	}
	if p.CommandSeparator != nil {
		s.CommandSeparator = *p.CommandSeparator
	}
	if p.Preamble != nil {
		s.Preamble = *p.Preamble
	}
	if p.Postamble != nil {
		s.Postamble = *p.Postamble
	}
	if p.PreOperation != nil {
		s.PreOperation = *p.PreOperation
	}
	if p.PostOperation != nil {
		s.PostOperation = *p.PostOperation
	}
	if p.PreToolChange != nil {
		s.PreToolChange = *p.PreToolChange
	}
	if p.ToolChangeNotification != nil {
		s.ToolChangeNotification = *p.ToolChangeNotification
	}
	if p.ToolChange != nil {
		s.ToolChange = *p.ToolChange
	}
	return s
}

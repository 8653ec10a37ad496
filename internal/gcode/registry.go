package gcode

import (
	"fmt"
	"strings"

	"github.com/cnc-post/backend/internal/models"
)

// Processor is one controller dialect's post-processor.
type Processor interface {
	// Name returns the unique dialect name.
	Name() string
	// Export resolves the argument string against the dialect defaults,
	// serializes the containers, and writes to dest ("-" returns without
	// writing).
	Export(containers []*models.Container, argstring string, dest string) (string, error)
}

// Registry holds the available processors by name.
type Registry struct {
	processors []Processor
}

var globalRegistry = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{
		processors: []Processor{
			NewWinCNCProcessor(),
		},
	}
}

// GetGlobalRegistry returns the singleton registry.
func GetGlobalRegistry() *Registry {
	return globalRegistry
}

// Register adds a processor to the registry.
func (r *Registry) Register(p Processor) {
	r.processors = append(r.processors, p)
}

// Names lists the registered processors.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.processors))
	for _, p := range r.processors {
		names = append(names, p.Name())
	}
	return names
}

// Find returns a processor by its name.
func (r *Registry) Find(name string) (Processor, error) {
	name = strings.ToLower(name)
	for _, p := range r.processors {
		if strings.ToLower(p.Name()) == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("processor not found: %s", name)
}

// WinCNCProcessor is the WinCNC dialect entry in the registry. A Profile
// can override the machine-specific text blocks before export.
type WinCNCProcessor struct {
	Profile *Profile

	// EditFunc is forwarded to the exporter for interactive review.
	EditFunc func(string) (string, error)
}

func NewWinCNCProcessor() *WinCNCProcessor {
	return &WinCNCProcessor{}
}

func (p *WinCNCProcessor) Name() string { return ProcessorName }

func (p *WinCNCProcessor) Export(containers []*models.Container, argstring string, dest string) (string, error) {
	settings, err := ResolveSettings(argstring)
	if err != nil {
		return "", err
	}
	if p.Profile != nil {
		settings = p.Profile.Apply(settings)
	}
	ex := &Exporter{Settings: settings, EditFunc: p.EditFunc}
	return ex.Export(containers, dest)
}

package gcode

import (
	"flag"
	"fmt"
	"io"

	shellwords "github.com/mattn/go-shellwords"
)

// Settings holds one export run's fully resolved configuration. It is
// built once per call and never mutated afterwards; the emitter threads it
// through the traversal alongside the per-run state.
type Settings struct {
	OutputHeader      bool
	OutputComments    bool
	OutputLineNumbers bool
	ShowEditor        bool

	// Precision is the number of decimal digits for converted axis and
	// feed values. Integer letters (T, S, H, D) are truncated instead.
	Precision int

	// Modal suppresses a command name identical to the previous one.
	Modal bool

	// OutputDoubles, when false, suppresses axis parameters whose value is
	// unchanged from the tracked current location. The --axis-modal flag
	// turns this OFF despite its name.
	OutputDoubles bool

	// UseTLO is reserved: M37 in the tool-change macro already enables
	// tool length offset on WinCNC, so no G43 is emitted either way.
	UseTLO bool

	SkipFirstToolChange bool

	CommandSeparator string
	LineNumberStart  int
	LineNumberStep   int

	UnitsCode  string // G20 or G21, reported on the units line
	LengthUnit string // "in" or "mm"
	SpeedUnit  string // "in/min" or "mm/min"

	MachineName string

	Preamble      string
	Postamble     string
	PreOperation  string
	PostOperation string

	PreToolChange          string
	ToolChangeNotification string
	ToolChange             string
}

// DefaultSettings returns the built-in WinCNC configuration: imperial
// units, comments and header on, line numbers off, first tool change
// skipped (the operator is assumed to have zeroed the first tool).
func DefaultSettings() Settings {
	return Settings{
		OutputHeader:        true,
		OutputComments:      true,
		OutputLineNumbers:   false,
		ShowEditor:          true,
		Precision:           3,
		Modal:               false,
		OutputDoubles:       true,
		UseTLO:              true,
		SkipFirstToolChange: true,
		CommandSeparator:    " ",
		LineNumberStart:     100,
		LineNumberStep:      10,
		UnitsCode:           unitsImperial,
		LengthUnit:          "in",
		SpeedUnit:           "in/min",
		MachineName:         machineName,

		Preamble:      defaultPreamble,
		Postamble:     defaultPostamble,
		PreOperation:  defaultPreOperation,
		PostOperation: defaultPostOperation,

		PreToolChange:          defaultPreToolChange,
		ToolChangeNotification: defaultToolChangeNotification,
		ToolChange:             defaultToolChange,
	}
}

// ResolveSettings parses a shell-quoted override string on top of the
// defaults. A malformed string aborts the whole export: no partial
// configuration is ever applied.
func ResolveSettings(argstring string) (Settings, error) {
	s := DefaultSettings()

	args, err := shellwords.Parse(argstring)
	if err != nil {
		return Settings{}, fmt.Errorf("splitting argument string: %w", err)
	}

	fs := flag.NewFlagSet(ProcessorName, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	noHeader := fs.Bool("no-header", false, "suppress header output")
	noComments := fs.Bool("no-comments", false, "suppress comment output")
	lineNumbers := fs.Bool("line-numbers", false, "prefix with line numbers")
	noShowEditor := fs.Bool("no-show-editor", false, "don't pop up editor before writing output")
	precision := fs.Int("precision", 3, "number of digits of precision, default=3")
	preamble := fs.String("preamble", "", "commands to be issued before the first command")
	postamble := fs.String("postamble", "", "commands to be issued after the last command")
	inches := fs.Bool("inches", false, "convert output for US imperial mode (G20)")
	modal := fs.Bool("modal", false, "suppress a command name equal to the previous one")
	axisModal := fs.Bool("axis-modal", false, "suppress duplicate axis values")
	noTLO := fs.Bool("no-tlo", false, "suppress tool length offset following tool changes")

	if err := fs.Parse(args); err != nil {
		return Settings{}, fmt.Errorf("parsing arguments: %w", err)
	}
	if fs.NArg() > 0 {
		return Settings{}, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if *noHeader {
		s.OutputHeader = false
	}
	if *noComments {
		s.OutputComments = false
	}
	if *lineNumbers {
		s.OutputLineNumbers = true
	}
	if *noShowEditor {
		s.ShowEditor = false
	}
	s.Precision = *precision
	if set["preamble"] {
		s.Preamble = *preamble
	}
	if set["postamble"] {
		s.Postamble = *postamble
	}
	if *inches {
		s.UnitsCode = unitsImperial
		s.LengthUnit = "in"
		s.SpeedUnit = "in/min"
		s.Precision = 4
	}
	if *modal {
		s.Modal = true
	}
	if *noTLO {
		s.UseTLO = false
	}
	if *axisModal {
		// Inverted on purpose: enabling --axis-modal disables duplicate
		// output. The flag name is historical; changing it would break
		// every stored job configuration.
		s.OutputDoubles = false
	}

	return s, nil
}

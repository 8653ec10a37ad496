package gcode

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cnc-post/backend/internal/models"
)

// editorSizeLimit is the largest buffer offered for interactive editing;
// anything bigger is written as-is to keep the editor responsive.
const editorSizeLimit = 100000

// Exporter turns tool-path containers into a WinCNC program. The zero
// value is not usable; construct one with a resolved Settings value.
// Exporters are safe for repeated use: all mutable emission state lives in
// a per-call object, so concurrent exports do not share line counters or
// the tool-change skip flag.
type Exporter struct {
	Settings Settings

	// Now supplies the header timestamp; nil means time.Now.
	Now func() time.Time

	// EditFunc, when set and ShowEditor is enabled, receives the finished
	// buffer for review before it is written. The returned text (possibly
	// edited) is what gets persisted.
	EditFunc func(text string) (string, error)
}

// state is the rolling machine state of one emission run. It is created
// fresh at the start of every export and threaded by reference through the
// recursive traversal.
type state struct {
	lastCommand            string
	location               map[string]float64
	lineNr                 int
	firstToolChangeSkipped bool
}

func newState(s Settings) *state {
	return &state{
		// Seed with a synthetic initial rapid so duplicate suppression has
		// a baseline: G0 X-1 Y-1 Z-1 F0.
		location: map[string]float64{"X": -1, "Y": -1, "Z": -1, "F": 0},
		lineNr:   s.LineNumberStart,
	}
}

// lineNumber returns the next "N<number> " prefix, or "" when numbering is
// off. The counter only advances for lines that are actually produced.
func (st *state) lineNumber(s Settings) string {
	if !s.OutputLineNumbers {
		return ""
	}
	n := st.lineNr
	st.lineNr += s.LineNumberStep
	return "N" + strconv.Itoa(n) + " "
}

// Export serializes the containers and writes the program to dest,
// overwriting any existing file. The sentinel dest "-" returns the text
// without writing. The returned string is always the full (unstripped)
// buffer, after the optional editor pass.
func (e *Exporter) Export(containers []*models.Container, dest string) (string, error) {
	text, err := e.Emit(containers)
	if err != nil {
		return "", err
	}

	final := text
	if e.Settings.ShowEditor && e.EditFunc != nil {
		if len(text) > editorSizeLimit {
			fmt.Printf("[Export] Skipping editor: output is %d bytes\n", len(text))
		} else {
			final, err = e.EditFunc(text)
			if err != nil {
				return "", fmt.Errorf("editing program: %w", err)
			}
		}
	}

	if dest != "-" {
		if err := os.WriteFile(dest, []byte(final), 0644); err != nil {
			return "", fmt.Errorf("writing program: %w", err)
		}
	}
	return final, nil
}

// Emit serializes the containers into one program text. Invoking it twice
// with the same inputs yields byte-identical output (modulo the header
// timestamp): every piece of emission state is local to the call.
func (e *Exporter) Emit(containers []*models.Container) (string, error) {
	s := e.Settings
	st := newState(s)

	// A top-level container with no usable path aborts the whole export.
	// Nested non-path members are tolerated and skipped instead.
	for _, c := range containers {
		if !c.IsGroup() && c.Path == nil {
			return "", &NotAPathError{Name: c.Label}
		}
	}

	var buf strings.Builder

	if s.OutputHeader {
		now := time.Now()
		if e.Now != nil {
			now = e.Now()
		}
		buf.WriteString(st.lineNumber(s) + "[Exported by cnc-post]\n")
		buf.WriteString(st.lineNumber(s) + "[Post Processor: " + ProcessorName + "]\n")
		buf.WriteString(st.lineNumber(s) + "[Output Time:" + now.Format("2006-01-02 15:04:05") + "]\n\n")
	}

	if s.OutputComments {
		buf.WriteString(st.lineNumber(s) + "[Begin Preamble]\n")
	}
	for _, line := range splitLines(s.Preamble) {
		buf.WriteString(st.lineNumber(s) + line + "\n")
	}
	buf.WriteString(st.lineNumber(s) + s.UnitsCode + "\t\t[Units: " + s.LengthUnit + "]\n\n")

	for _, c := range containers {
		if err := e.emitContainer(&buf, st, c); err != nil {
			return "", err
		}
	}

	if s.OutputComments {
		buf.WriteString("[Postamble]\n")
	}
	for _, line := range splitLinesKeep(s.Postamble) {
		buf.WriteString(st.lineNumber(s) + line)
	}

	// Never strip the accumulated buffer: repeated stripping of a growing
	// string is quadratic. Only individual token fragments may be trimmed.
	return buf.String(), nil
}

// emitContainer walks one node depth-first, preserving child order.
func (e *Exporter) emitContainer(buf *strings.Builder, st *state, c *models.Container) error {
	if !c.IsActive() {
		return nil
	}
	if c.IsGroup() {
		for _, child := range c.Children {
			if err := e.emitContainer(buf, st, child); err != nil {
				return err
			}
		}
		return nil
	}
	if c.Path == nil {
		// Groups may contain non-path members like stock; they contribute
		// nothing and do not touch the state.
		return nil
	}
	return e.emitLeaf(buf, st, c)
}

func (e *Exporter) emitLeaf(buf *strings.Builder, st *state, leaf *models.Container) error {
	s := e.Settings

	if s.OutputComments {
		buf.WriteString(st.lineNumber(s) + "[Operation: " + leaf.Label + " (" + s.SpeedUnit + ")]\n")
	}
	for _, line := range splitLinesKeep(s.PreOperation) {
		buf.WriteString(st.lineNumber(s) + line + "\n")
	}

	coolant := leaf.Coolant()
	if coolant != models.CoolantNone && s.OutputComments {
		buf.WriteString(st.lineNumber(s) + "[Coolant On:" + string(coolant) + "]\n")
	}
	switch coolant {
	case models.CoolantFlood:
		buf.WriteString(st.lineNumber(s) + "M8\n")
	case models.CoolantMist:
		buf.WriteString(st.lineNumber(s) + "M7\n")
	}

	if err := e.emitCommands(buf, st, leaf); err != nil {
		return err
	}

	// Post-operation lines keep their own newlines from the block; no
	// extra terminator is synthesized per line.
	for _, line := range splitLinesKeep(s.PostOperation) {
		buf.WriteString(st.lineNumber(s) + line)
	}
	buf.WriteString("\n")

	if coolant != models.CoolantNone {
		if s.OutputComments {
			buf.WriteString(st.lineNumber(s) + "[Coolant Off:" + string(coolant) + "]\n")
		}
		buf.WriteString(st.lineNumber(s) + "M9\n")
	}
	return nil
}

var commentRewriter = strings.NewReplacer("(", "[", ")", "]")

// emitCommands serializes a leaf's command sequence. The per-command flow
// mirrors the dialect rules: modal name suppression, comment rewriting,
// the G99 exclusion, ordered parameter emission, state merge, the M6
// macro expansion, and the message pseudo-command.
func (e *Exporter) emitCommands(buf *strings.Builder, st *state, leaf *models.Container) error {
	s := e.Settings

	for _, c := range leaf.Path.Commands {
		name := c.Name
		tokens := []string{name}

		if s.Modal && name == st.lastCommand {
			tokens = tokens[1:]
		}

		if strings.HasPrefix(name, "(") {
			// Source-style comment. Rewrite to the dialect's bracket
			// style, or drop the whole command when comments are off.
			if !s.OutputComments {
				continue
			}
			if len(tokens) > 0 {
				tokens = tokens[:len(tokens)-1]
			}
			tokens = append(tokens, commentRewriter.Replace(name))
		} else if name == "G99" {
			// Not supported by WinCNC: no token, no line, no state update.
			continue
		} else {
			var err error
			tokens, err = formatParams(tokens, c, st.location, s)
			if err != nil {
				return err
			}
		}

		st.lastCommand = name
		for letter, value := range c.Parameters {
			st.location[letter] = value
		}

		if name == "M6" {
			if s.SkipFirstToolChange && !st.firstToolChangeSkipped {
				// The operator has already measured and zeroed the first
				// tool before starting the job.
				st.firstToolChangeSkipped = true
				continue
			}

			for _, line := range splitLinesKeep(s.PreToolChange) {
				buf.WriteString(st.lineNumber(s) + line)
			}
			toolLabel := ""
			if leaf.Tool != nil {
				toolLabel = leaf.Tool.Label
			}
			buf.WriteString(fmt.Sprintf(s.ToolChangeNotification, toolLabel))
			for _, line := range splitLinesKeep(s.ToolChange) {
				buf.WriteString(st.lineNumber(s) + line)
			}

			// The raw M6 itself is never written: WinCNC doesn't
			// recognize it, the macro sequence replaces it entirely.
			continue
		}

		if name == "message" {
			if !s.OutputComments {
				// Disabling comments drops the whole command's output,
				// not just the name token.
				tokens = nil
			} else if len(tokens) > 0 {
				tokens = tokens[1:]
			}
		}

		if len(tokens) >= 1 {
			if s.OutputLineNumbers {
				tokens = append([]string{st.lineNumber(s)}, tokens...)
			}
			for _, w := range tokens {
				buf.WriteString(w)
				buf.WriteString(s.CommandSeparator)
			}
			buf.WriteString("\n")
		}
	}
	return nil
}

// splitLines splits a block into lines without terminators, the way the
// preamble is prefixed line by line. A trailing newline yields no empty
// final line.
func splitLines(block string) []string {
	if block == "" {
		return nil
	}
	lines := strings.Split(block, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// splitLinesKeep splits a block into lines that keep their own newline
// (the final line may lack one), matching blocks whose exact spacing is
// part of the dialect output.
func splitLinesKeep(block string) []string {
	if block == "" {
		return nil
	}
	var lines []string
	for {
		i := strings.IndexByte(block, '\n')
		if i < 0 {
			lines = append(lines, block)
			return lines
		}
		lines = append(lines, block[:i+1])
		block = block[i+1:]
		if block == "" {
			return lines
		}
	}
}

// Package gcode serializes abstract tool paths into WinCNC dialect
// programs. The emitter tracks modal and positional state so repeated
// command names and unchanged axis values can be omitted per dialect
// convention.
package gcode

// WinCNC dialect notes:
//
// Comments are enclosed by square brackets, e.g. "[this is a comment]",
// unlike the parenthesized style used by the source command stream.
// Only codes listed in the controller manual are supported; additional
// codes can be provided by controller-side macros (CNC.MAC), which is why
// M3/M5 work even though they are not built in. G99 is not recognized at
// all and is dropped from the output. M6 is likewise unrecognized; tool
// changes are expanded into the measurement macro below instead.

const (
	// ProcessorName identifies this dialect in the registry and in the
	// generated program header.
	ProcessorName = "wincnc"

	machineName = "CAMaster Stinger 1"

	unitsImperial = "G20"
	unitsMetric   = "G21"
)

// Preamble issued before the first operation.
// G54  switch to 0,0 of the first workspace
// G40  tool radius compensation off
// G49  tool length offset compensation cancel
// G90  absolute coordinates
const defaultPreamble = `G54		[Using G54 Workspace]
G40		[Tool Cutter Compensation Off]
G49		[Tool Length Offset Off]
G90		[Absolute Mode]
G53 Z0		[Lift Z to top]
`

// Postamble issued after the last operation.
const defaultPostamble = `G53 Z0		[Rapid Move Z to 0]
M05		[Turn Spindle Off]
`

// Inserted before and after every operation.
const (
	defaultPreOperation  = ""
	defaultPostOperation = ""
)

// Issued before a tool change: park the spindle and stop it. The last line
// intentionally carries no trailing newline; the notification block that
// follows starts with one.
const defaultPreToolChange = `G28Z				[Go to Machine Z0]
G53Z				[Lift Z (Rapid)]
M5				[Turn Spindle Off]
G53 X0 Y0`

// Operator prompt naming the pending tool. The %s receives the tool label.
const defaultToolChangeNotification = `
G5 T2 M"Please Change Tool to '%s'. Press OK when done (Keep Dust Boot Off!)."
`

// Tool measurement macro substituted for M6. The {TMX}/{TMY}/{TMD}/{TM1}/
// {TP1} placeholders are controller-side machine parameters resolved by
// WinCNC, not by this emitter. M37 enables tool length offset on WinCNC,
// so no explicit G43 is needed after the change.
const defaultToolChange = `G5 T2 M"Press OK to Measure Tool."
L21				[Disable Soft Limits]
L210Z				[Select Z Alt Low Limits]
G53 Z0
G53 X{TMX}Y{TMY}		[Move to Tool Measure Switch X/Y Coordinates]
L91 G0 Z{TMD}
L91 G1 Z-9 M28 F20 G31		[Perform Measurement of Tool]
M37 Z{TM1} H{TP1}		[Set New Tool Offset]
G53 Z0
L91 G1 Z0 F50
L212				[Select Primary Limits for All Axes]
G0
G53 X0 Y0
G5 T2 M"Please Replace Dust Boot. Press OK when done."
G5 T2 M"Continue Job?"
`

package overlay

import "github.com/gogpu/beautify"

// CommandType identifies the type of a command.
type CommandType uint8

const (
	CmdLine  CommandType = iota // Stroke a straight line
	CmdCross                    // Mark a point with a cross
	CmdLabel                    // Draw a short text label
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdLine:  "Line",
	CmdCross: "Cross",
	CmdLabel: "Label",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// LineCommand strokes a straight line between two canvas points.
type LineCommand struct {
	From, To beautify.Point
	Color    beautify.RGBA
	// Width is the stroke width in pixels.
	Width float64
}

// Type implements Command.
func (LineCommand) Type() CommandType { return CmdLine }

// CrossCommand marks a canvas point with a diagonal cross.
type CrossCommand struct {
	At    beautify.Point
	Color beautify.RGBA
	// Size is the extent of each arm pair in pixels.
	Size float64
}

// Type implements Command.
func (CrossCommand) Type() CommandType { return CmdCross }

// LabelCommand draws text with its baseline origin at a canvas point.
type LabelCommand struct {
	At    beautify.Point
	Text  string
	Color beautify.RGBA
}

// Type implements Command.
func (LabelCommand) Type() CommandType { return CmdLabel }

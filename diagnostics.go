package beautify

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// printer formats diagnostic numbers. The locale is fixed so the log is
// stable across hosts.
var printer = message.NewPrinter(language.English)

// Diagnostic numbers carry no digit grouping so log lines stay parseable.
var (
	fixed4  = number.NewFormat(number.Decimal, number.Scale(4), number.NoSeparator())
	fixed1  = number.NewFormat(number.Decimal, number.Scale(1), number.NoSeparator())
	integer = number.NewFormat(number.Decimal, number.NoSeparator())
)

// num formats x with four decimals and no grouping, e.g. "1234.5678".
func num(x float64) string {
	return printer.Sprint(fixed4(x))
}

// label formats x with one decimal for overlay annotations.
func label(x float64) string {
	return printer.Sprint(fixed1(x))
}

// degrees converts radians to degrees.
func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Diagnostic is one log entry: the state of one constraint in one pass.
type Diagnostic struct {
	Pass    int     // 1-based pass number
	Index   int     // position of the constraint in the solver
	Kind    string  // Constraint.Kind
	Error   float64 // signed error measured before the pass applied
	Message string  // text recorded through CorrectionSink.Note
}

// String returns the entry as "pass 3 Orientation[0]: <message>".
func (d Diagnostic) String() string {
	return printer.Sprintf("pass %v %s[%v]: %s", integer(d.Pass), d.Kind, integer(d.Index), d.Message)
}

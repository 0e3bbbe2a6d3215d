package overlay

import (
	"github.com/gogpu/beautify"
)

// Recorder captures beautify.Sink calls as commands.
// Points are mapped through the current transform as they are recorded.
// Use FinishRecording to obtain an immutable Recording that can be
// replayed to different backends.
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	width, height int
	commands      []Command
	transform     Matrix
}

var (
	_ beautify.Sink    = (*Recorder)(nil)
	_ beautify.Labeler = (*Recorder)(nil)
)

// NewRecorder creates a new Recorder for the given canvas dimensions with
// the identity transform.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{
		width:     width,
		height:    height,
		commands:  make([]Command, 0, 64),
		transform: Identity(),
	}
}

// Width returns the width of the recording canvas.
func (r *Recorder) Width() int {
	return r.width
}

// Height returns the height of the recording canvas.
func (r *Recorder) Height() int {
	return r.height
}

// SetTransform sets the diagram-to-canvas transform applied to
// subsequently recorded points.
func (r *Recorder) SetTransform(m Matrix) {
	r.transform = m
}

// Transform returns the current transform.
func (r *Recorder) Transform() Matrix {
	return r.transform
}

// Line implements beautify.Sink.
func (r *Recorder) Line(a, b beautify.Point, c beautify.RGBA, width float64) {
	r.commands = append(r.commands, LineCommand{
		From:  r.transform.Apply(a),
		To:    r.transform.Apply(b),
		Color: c,
		Width: width,
	})
}

// Cross implements beautify.Sink.
func (r *Recorder) Cross(p beautify.Point, size float64, c beautify.RGBA) {
	r.commands = append(r.commands, CrossCommand{
		At:    r.transform.Apply(p),
		Color: c,
		Size:  size,
	})
}

// Label implements beautify.Labeler.
func (r *Recorder) Label(p beautify.Point, text string, c beautify.RGBA) {
	if text == "" {
		return
	}
	r.commands = append(r.commands, LabelCommand{
		At:    r.transform.Apply(p),
		Text:  text,
		Color: c,
	})
}

// Polyline strokes consecutive points as connected lines.
func (r *Recorder) Polyline(pts []beautify.Point, c beautify.RGBA, width float64) {
	for i := 1; i < len(pts); i++ {
		r.Line(pts[i-1], pts[i], c, width)
	}
}

// FinishRecording returns an immutable Recording containing all recorded
// commands. After calling FinishRecording, the Recorder should not be used
// again.
func (r *Recorder) FinishRecording() *Recording {
	return &Recording{
		width:    r.width,
		height:   r.height,
		commands: r.commands,
	}
}

// Recording is an immutable container for recorded commands.
// It can be replayed to any Backend implementation.
type Recording struct {
	width, height int
	commands      []Command
}

// Width returns the width of the recording canvas.
func (r *Recording) Width() int {
	return r.width
}

// Height returns the height of the recording canvas.
func (r *Recording) Height() int {
	return r.height
}

// Commands returns the recorded commands.
func (r *Recording) Commands() []Command {
	return r.commands
}

// Count returns how many commands of type t were recorded.
func (r *Recording) Count(t CommandType) int {
	n := 0
	for _, c := range r.commands {
		if c.Type() == t {
			n++
		}
	}
	return n
}

// Playback replays the recording to the given backend.
func (r *Recording) Playback(backend Backend) error {
	if err := backend.Begin(r.width, r.height); err != nil {
		return err
	}

	for _, cmd := range r.commands {
		switch c := cmd.(type) {
		case LineCommand:
			backend.DrawLine(c.From, c.To, c.Color, c.Width)
		case CrossCommand:
			backend.DrawCross(c.At, c.Size, c.Color)
		case LabelCommand:
			backend.DrawLabel(c.At, c.Text, c.Color)
		}
	}

	return backend.End()
}

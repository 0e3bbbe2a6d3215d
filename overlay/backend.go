package overlay

import (
	"image"
	"io"

	"github.com/gogpu/beautify"
)

// Backend is the interface that all overlay backends must implement.
// Backends receive canvas-space drawing commands and translate them to
// their output format.
//
// Backends are created via the registry using NewBackend(name) and
// registered via Register() in their init() functions.
type Backend interface {
	// Begin initializes the backend for rendering at the given dimensions.
	// This must be called before any drawing operations.
	Begin(width, height int) error

	// End finalizes the rendering and prepares the output.
	// After End is called, output methods (WriteTo, SaveToFile) can be used.
	End() error

	// DrawLine strokes a line from a to b.
	DrawLine(a, b beautify.Point, c beautify.RGBA, width float64)

	// DrawCross marks p with a diagonal cross of the given size.
	DrawCross(p beautify.Point, size float64, c beautify.RGBA)

	// DrawLabel draws text with its baseline origin at p.
	DrawLabel(p beautify.Point, text string, c beautify.RGBA)
}

// WriterBackend extends Backend with the ability to write output to an io.Writer.
type WriterBackend interface {
	Backend

	// WriteTo writes the rendered content to the given writer.
	// This should only be called after End().
	WriteTo(w io.Writer) (int64, error)
}

// FileBackend extends Backend with the ability to save output directly to a file.
type FileBackend interface {
	Backend

	// SaveToFile saves the rendered content to a file at the given path.
	// This should only be called after End().
	SaveToFile(path string) error
}

// ImageBackend extends Backend with access to the rendered image.
type ImageBackend interface {
	Backend

	// Image returns the rendered image, or nil before End.
	Image() image.Image
}

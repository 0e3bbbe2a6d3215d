// Package raster provides a PNG backend for overlay recordings.
//
// Strokes are rasterized with anti-aliasing by golang.org/x/image/vector
// and labels are drawn with the Go Regular font. Output can optionally be
// supersampled: the recording is rendered at an integer multiple of the
// canvas size and downsampled with a Catmull-Rom filter.
//
// # Example
//
//	// Import to register the backend
//	import _ "github.com/gogpu/beautify/overlay/raster"
//
//	// Create via registry
//	backend, _ := overlay.NewBackend("raster")
//
//	// Or create directly
//	backend := raster.NewBackend(raster.WithSupersample(4))
//
//	rec.Playback(backend)
//	backend.SaveToFile("overlay.png")
package raster

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/beautify"
	"github.com/gogpu/beautify/overlay"
)

func init() {
	overlay.Register("raster", func() overlay.Backend {
		return NewBackend()
	})
}

// DefaultFontSize is the label size in points at 72 DPI.
const DefaultFontSize = 12.0

// goRegular is parsed once per process.
var goRegular = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// Option configures a Backend.
type Option func(*Backend)

// WithSupersample renders at n times the canvas size and downsamples on
// End. Values below 2 disable supersampling.
func WithSupersample(n int) Option {
	return func(b *Backend) {
		if n < 1 {
			n = 1
		}
		b.scale = n
	}
}

// WithBackground sets the canvas fill color. The default is white.
func WithBackground(c beautify.RGBA) Option {
	return func(b *Backend) {
		b.background = c
	}
}

// WithFontSize sets the label size in points.
func WithFontSize(size float64) Option {
	return func(b *Backend) {
		if size > 0 {
			b.fontSize = size
		}
	}
}

// WithBasicFont draws labels with the fixed 7x13 bitmap face instead of
// Go Regular. The bitmap face does not scale with supersampling.
func WithBasicFont() Option {
	return func(b *Backend) {
		b.basic = true
	}
}

// Backend renders recordings to an RGBA image.
// It implements overlay.Backend, overlay.WriterBackend,
// overlay.FileBackend, and overlay.ImageBackend.
type Backend struct {
	width, height int
	scale         int
	background    beautify.RGBA
	fontSize      float64
	basic         bool

	canvas *image.RGBA // working image, scale times the output size
	out    *image.RGBA // final image, set by End
	face   font.Face
	rast   *vector.Rasterizer
}

// Ensure Backend implements all required interfaces.
var (
	_ overlay.Backend       = (*Backend)(nil)
	_ overlay.WriterBackend = (*Backend)(nil)
	_ overlay.FileBackend   = (*Backend)(nil)
	_ overlay.ImageBackend  = (*Backend)(nil)
)

// NewBackend creates a new raster backend.
// Draw calls made outside Begin and End are logged and dropped.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		scale:      1,
		background: beautify.White,
		fontSize:   DefaultFontSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Begin allocates the canvas and fills it with the background color.
func (b *Backend) Begin(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("raster: invalid canvas size %dx%d", width, height)
	}
	b.width, b.height = width, height
	b.out = nil

	w, h := width*b.scale, height*b.scale
	b.canvas = image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(b.canvas, b.canvas.Bounds(), image.NewUniform(b.background.Color()), image.Point{}, draw.Src)
	b.rast = vector.NewRasterizer(w, h)

	if b.basic {
		b.face = basicfont.Face7x13
		return nil
	}
	f, err := goRegular()
	if err != nil {
		return fmt.Errorf("raster: parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    b.fontSize * float64(b.scale),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return fmt.Errorf("raster: create face: %w", err)
	}
	b.face = face
	return nil
}

// End finalizes the image, downsampling when supersampling is enabled.
// After End is called, output methods (WriteTo, SaveToFile) can be used.
func (b *Backend) End() error {
	if b.canvas == nil {
		return fmt.Errorf("raster: End called before Begin")
	}
	if b.scale > 1 {
		b.out = image.NewRGBA(image.Rect(0, 0, b.width, b.height))
		draw.CatmullRom.Scale(b.out, b.out.Bounds(), b.canvas, b.canvas.Bounds(), draw.Src, nil)
	} else {
		b.out = b.canvas
	}
	if b.face != nil {
		_ = b.face.Close()
		b.face = nil
	}
	return nil
}

// drawing reports whether the backend is between Begin and End. Draw
// calls outside that window are dropped with a warning.
func (b *Backend) drawing(op string) bool {
	if b.canvas == nil || b.out != nil {
		beautify.Logger().Warn("raster: draw call outside Begin/End", "op", op)
		return false
	}
	return true
}

// scaled maps a canvas point into working-image pixels.
func (b *Backend) scaled(p beautify.Point) beautify.Point {
	s := float64(b.scale)
	return beautify.Pt(p.X*s, p.Y*s)
}

// DrawLine strokes a line as an anti-aliased quad. Zero-length lines
// draw a square dot of the stroke width.
func (b *Backend) DrawLine(p0, p1 beautify.Point, c beautify.RGBA, width float64) {
	if !b.drawing("line") {
		return
	}
	half := math.Max(width*float64(b.scale), 1) / 2
	a, e := b.scaled(p0), b.scaled(p1)
	d := a.To(e)
	var n beautify.Vec2
	if l := d.Length(); l > 1e-9 {
		n = beautify.V2(-d.Y, d.X).Mul(half / l)
	} else {
		a = a.Add(beautify.V2(-half, 0))
		d = beautify.V2(2*half, 0)
		n = beautify.V2(0, half)
	}

	corners := [4]beautify.Point{
		a.Add(n),
		a.Add(d).Add(n),
		a.Add(d).Add(n.Neg()),
		a.Add(n.Neg()),
	}
	b.rast.Reset(b.canvas.Bounds().Dx(), b.canvas.Bounds().Dy())
	b.rast.MoveTo(float32(corners[0].X), float32(corners[0].Y))
	for _, q := range corners[1:] {
		b.rast.LineTo(float32(q.X), float32(q.Y))
	}
	b.rast.ClosePath()
	b.rast.Draw(b.canvas, b.canvas.Bounds(), image.NewUniform(c.Color()), image.Point{})
}

// DrawCross strokes two one-pixel diagonals through p.
func (b *Backend) DrawCross(p beautify.Point, size float64, c beautify.RGBA) {
	if !b.drawing("cross") {
		return
	}
	h := size / 2
	b.DrawLine(p.Add(beautify.V2(-h, -h)), p.Add(beautify.V2(h, h)), c, 1)
	b.DrawLine(p.Add(beautify.V2(-h, h)), p.Add(beautify.V2(h, -h)), c, 1)
}

// DrawLabel draws text with its baseline origin at p.
func (b *Backend) DrawLabel(p beautify.Point, text string, c beautify.RGBA) {
	if !b.drawing("label") {
		return
	}
	at := b.scaled(p)
	d := &font.Drawer{
		Dst:  b.canvas,
		Src:  image.NewUniform(c.Color()),
		Face: b.face,
		Dot:  fixed.P(int(math.Round(at.X)), int(math.Round(at.Y))),
	}
	d.DrawString(text)
}

// Image returns the rendered image, or nil before End.
func (b *Backend) Image() image.Image {
	if b.out == nil {
		return nil
	}
	return b.out
}

// Width returns the output width in pixels.
func (b *Backend) Width() int {
	return b.width
}

// Height returns the output height in pixels.
func (b *Backend) Height() int {
	return b.height
}

// WriteTo writes the rendered content as PNG to the given writer.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	if b.out == nil {
		return 0, fmt.Errorf("raster: WriteTo called before End")
	}
	cw := &countingWriter{w: w}
	err := png.Encode(cw, b.out)
	return cw.n, err
}

// SaveToFile saves the rendered content as PNG to a file.
func (b *Backend) SaveToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("raster: %w", err)
	}
	if _, err := b.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// countingWriter wraps an io.Writer and counts bytes written.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

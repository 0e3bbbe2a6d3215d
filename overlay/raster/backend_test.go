package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/beautify"
	"github.com/gogpu/beautify/overlay"
)

// render plays a recording built by draw into a fresh backend.
func render(t *testing.T, b *Backend, w, h int, draw func(r *overlay.Recorder)) image.Image {
	t.Helper()
	rec := overlay.NewRecorder(w, h)
	draw(rec)
	if err := rec.FinishRecording().Playback(b); err != nil {
		t.Fatalf("Playback() error = %v", err)
	}
	img := b.Image()
	if img == nil {
		t.Fatal("Image() = nil after End")
	}
	return img
}

func rgba(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestRegistered(t *testing.T) {
	if !overlay.IsRegistered("raster") {
		t.Fatal("raster backend not registered")
	}
	b, err := overlay.NewBackend("raster")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := b.(*Backend); !ok {
		t.Errorf("NewBackend(raster) = %T, want *Backend", b)
	}
}

func TestBackend_DrawLine(t *testing.T) {
	img := render(t, NewBackend(), 40, 20, func(r *overlay.Recorder) {
		r.Line(beautify.Pt(5, 10), beautify.Pt(35, 10), beautify.Red, 4)
	})

	if got := img.Bounds(); got != image.Rect(0, 0, 40, 20) {
		t.Fatalf("Bounds() = %v", got)
	}
	if got := rgba(img, 20, 10); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("pixel on the line = %v, want red", got)
	}
	if got := rgba(img, 20, 2); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("pixel off the line = %v, want white background", got)
	}
}

func TestBackend_DrawCross(t *testing.T) {
	img := render(t, NewBackend(WithBackground(beautify.Black)), 20, 20, func(r *overlay.Recorder) {
		r.Cross(beautify.Pt(10, 10), 8, beautify.White)
	})
	if got := rgba(img, 10, 10); got.R < 128 {
		t.Errorf("cross center = %v, want bright", got)
	}
	if got := rgba(img, 10, 2); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("pixel off the cross = %v, want black", got)
	}
}

func TestBackend_ZeroLengthLineDrawsDot(t *testing.T) {
	img := render(t, NewBackend(), 10, 10, func(r *overlay.Recorder) {
		r.Line(beautify.Pt(5, 5), beautify.Pt(5, 5), beautify.Blue, 4)
	})
	if got := rgba(img, 5, 5); got.B != 255 || got.R > 10 {
		t.Errorf("dot pixel = %v, want blue", got)
	}
}

func TestBackend_Labels(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts []Option
	}{
		{"go regular", nil},
		{"basic font", []Option{WithBasicFont()}},
		{"supersampled", []Option{WithSupersample(3), WithFontSize(14)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			img := render(t, NewBackend(tc.opts...), 80, 30, func(r *overlay.Recorder) {
				r.Label(beautify.Pt(4, 20), "90.0 deg", beautify.Black)
			})
			if img.Bounds().Dx() != 80 || img.Bounds().Dy() != 30 {
				t.Fatalf("Bounds() = %v, want 80x30", img.Bounds())
			}
			dark := 0
			for y := 0; y < 30; y++ {
				for x := 0; x < 80; x++ {
					if rgba(img, x, y).R < 128 {
						dark++
					}
				}
			}
			if dark == 0 {
				t.Error("label left no ink on the canvas")
			}
		})
	}
}

func TestBackend_WriteToAndSave(t *testing.T) {
	b := NewBackend(WithSupersample(2))
	render(t, b, 32, 16, func(r *overlay.Recorder) {
		r.Line(beautify.Pt(0, 8), beautify.Pt(32, 8), beautify.Cyan, 2)
	})

	var buf bytes.Buffer
	n, err := b.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo() = %d, wrote %d bytes", n, buf.Len())
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if decoded.Bounds() != image.Rect(0, 0, 32, 16) {
		t.Errorf("decoded bounds = %v, want 32x16", decoded.Bounds())
	}

	path := filepath.Join(t.TempDir(), "overlay.png")
	if err := b.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("saved file missing or empty: %v", err)
	}
}

func TestBackend_Errors(t *testing.T) {
	b := NewBackend()
	if err := b.Begin(0, 10); err == nil {
		t.Error("Begin(0, 10) should fail")
	}
	if err := b.End(); err == nil {
		t.Error("End before Begin should fail")
	}
	if _, err := b.WriteTo(&bytes.Buffer{}); err == nil {
		t.Error("WriteTo before End should fail")
	}
	if b.Image() != nil {
		t.Error("Image() before End should be nil")
	}
}

func TestBackend_DrawOutsideBeginEndIsDropped(t *testing.T) {
	var logs bytes.Buffer
	beautify.SetLogger(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { beautify.SetLogger(nil) })

	b := NewBackend()
	b.DrawLine(beautify.Pt(0, 0), beautify.Pt(5, 5), beautify.Red, 2)
	b.DrawCross(beautify.Pt(1, 1), 4, beautify.Red)
	b.DrawLabel(beautify.Pt(1, 1), "x", beautify.Red)
	if got := strings.Count(logs.String(), "raster: draw call outside Begin/End"); got != 3 {
		t.Errorf("logged %d warnings, want 3:\n%s", got, logs.String())
	}

	if err := b.Begin(10, 10); err != nil {
		t.Fatal(err)
	}
	if err := b.End(); err != nil {
		t.Fatal(err)
	}
	b.DrawLine(beautify.Pt(0, 5), beautify.Pt(10, 5), beautify.Red, 4)
	if got := rgba(b.Image(), 5, 5); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("pixel after End = %v, want the untouched white background", got)
	}
}

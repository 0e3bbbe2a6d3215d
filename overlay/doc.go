// Package overlay records the debug drawing of a beautify solver and plays
// it back to output backends.
//
// The overlay system captures [beautify.Sink] calls as typed commands that
// can be replayed to any backend, so the same recording can become a PNG,
// a log dump, or a test assertion.
//
// # Architecture
//
// The system follows a Command Pattern with three main components:
//
//   - Recorder: implements beautify.Sink and captures commands
//   - Recording: stores commands for playback
//   - Backend: renders commands to a specific output format
//
// # Basic Usage
//
//	rec := overlay.NewRecorder(800, 600)
//	rec.SetTransform(overlay.Fit(d.Bounds(), 800, 600, 40))
//
//	overlay.DrawDiagram(rec, d)
//	solver.Describe(rec)
//
//	r := rec.FinishRecording()
//
// # Playback to Backends
//
//	import _ "github.com/gogpu/beautify/overlay/raster"
//
//	b, _ := overlay.NewBackend("raster")
//	if err := r.Playback(b); err != nil {
//	    return err
//	}
//	b.(overlay.FileBackend).SaveToFile("overlay.png")
//
// # Backend Registration
//
// Backends register themselves by name in init, following the
// database/sql driver pattern:
//
//	func init() {
//	    overlay.Register("raster", func() overlay.Backend {
//	        return NewBackend()
//	    })
//	}
//
// # Coordinates
//
// Recorded points are in canvas pixels: the recorder applies its transform
// when a command is captured. Stroke widths and cross sizes are always in
// pixels and are not scaled by the transform.
package overlay

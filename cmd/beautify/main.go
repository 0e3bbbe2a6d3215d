// Command beautify relaxes the points of a YAML scene until its
// constraints hold, then prints the solved positions.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/gogpu/beautify"
	"github.com/gogpu/beautify/overlay"
	_ "github.com/gogpu/beautify/overlay/raster"
	"github.com/gogpu/beautify/scenefile"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		log.Printf("beautify: %v", err)
		os.Exit(1)
	}
}

// run parses args, solves the scene and writes results to stdout. An
// interrupted solve still prints the positions reached and then returns
// the interruption error.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("beautify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		input   = fs.String("in", "scene.yaml", "scene file")
		output  = fs.String("out", "", "write the solved scene as YAML to this file")
		passes  = fs.Int("passes", beautify.DefaultMaxPasses, "maximum relaxation passes")
		tol     = fs.Float64("tol", beautify.DefaultTolerance, "convergence tolerance on each constraint's error")
		stall   = fs.Int("stall", beautify.DefaultStallPasses, "stop after this many passes without improvement")
		workers = fs.Int("workers", 1, "gather workers (0 = GOMAXPROCS)")
		reducer = fs.String("reducer", "mean", "how proposals for one point combine: mean or sum")
		png     = fs.String("png", "", "write a debug overlay to this file")
		backend = fs.String("backend", "raster",
			"overlay backend (one of: "+strings.Join(overlay.Backends(), ", ")+")")
		width   = fs.Int("width", 800, "overlay width")
		height  = fs.Int("height", 600, "overlay height")
		diag    = fs.Bool("diag", false, "print per-pass constraint diagnostics")
		verbose = fs.Bool("v", false, "log solver progress to stderr")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *verbose {
		beautify.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
		defer beautify.SetLogger(nil)
	}
	if *png != "" && !overlay.IsRegistered(*backend) {
		return fmt.Errorf("unknown overlay backend %q (available: %s)",
			*backend, strings.Join(overlay.Backends(), ", "))
	}

	opts := []beautify.SolverOption{
		beautify.WithMaxPasses(*passes),
		beautify.WithTolerance(*tol),
		beautify.WithStallPasses(*stall),
		beautify.WithWorkers(*workers),
	}
	switch *reducer {
	case "mean":
		opts = append(opts, beautify.WithReducer(beautify.Mean))
	case "sum":
		opts = append(opts, beautify.WithReducer(beautify.Sum))
	default:
		return fmt.Errorf("unknown reducer %q", *reducer)
	}
	if *diag {
		opts = append(opts, beautify.WithDiagnostics(func(d beautify.Diagnostic) {
			fmt.Fprintln(stdout, d)
		}))
	}

	scene, err := scenefile.LoadFile(*input)
	if err != nil {
		return err
	}
	solver, err := beautify.NewSolver(scene.Diagram, scene.Constraints, opts...)
	if err != nil {
		return err
	}
	defer solver.Close()

	res, solveErr := solver.Solve(ctx)
	fmt.Fprintf(stdout, "%s after %d passes, error %.6g (max %.6g)\n",
		res.Reason, res.Passes, res.Error, res.MaxError)
	printPositions(stdout, scene)
	if solveErr != nil {
		return solveErr
	}

	if *output != "" {
		if err := writeScene(scene, *output); err != nil {
			return fmt.Errorf("write scene: %w", err)
		}
	}
	if *png != "" {
		if err := drawOverlay(scene, solver, *backend, *png, *width, *height); err != nil {
			return fmt.Errorf("draw overlay: %w", err)
		}
		fmt.Fprintf(stderr, "Overlay saved to %s (%dx%d)\n", *png, *width, *height)
	}
	return nil
}

func printPositions(w io.Writer, scene *scenefile.Scene) {
	ids := make([]string, 0, len(scene.Points))
	for id := range scene.Points {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := scene.Diagram.Pos(scene.Points[id])
		fmt.Fprintf(w, "%-8s %10.3f %10.3f\n", id, p.X, p.Y)
	}
}

func writeScene(scene *scenefile.Scene, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := scene.Encode(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func drawOverlay(scene *scenefile.Scene, solver *beautify.Solver, name, path string, w, h int) error {
	backend, err := overlay.NewBackend(name)
	if err != nil {
		return err
	}
	fb, ok := backend.(overlay.FileBackend)
	if !ok {
		return fmt.Errorf("backend %q cannot write files", name)
	}

	rec := overlay.NewRecorder(w, h)
	rec.SetTransform(overlay.Fit(scene.Diagram.Bounds(), w, h, 40))
	overlay.DrawDiagram(rec, scene.Diagram)
	solver.Describe(rec)

	if err := rec.FinishRecording().Playback(fb); err != nil {
		return err
	}
	return fb.SaveToFile(path)
}

package scenefile

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gogpu/beautify"
)

const corner = `
points:
  - {id: a, x: 0, y: 0, pinned: true}
  - {id: b, x: 100, y: 4}
  - {id: c, x: 6, y: 90}
  - {id: d, x: 50, y: 60}
segments:
  - {id: base, points: [a, b]}
  - {id: side, kind: line, points: [a, c], attached: [true]}
  - {id: arc, points: [b, d, c]}
constraints:
  - {kind: orientation, segments: [base, side], degrees: 90}
  - {kind: orientation, points: [a, b, a, c], radians: 1.5707963267948966}
  - {kind: distance, points: [a, b], length: 100}
  - {kind: distance, segments: [side], length: 90}
`

func mustLoad(t *testing.T, doc string) *Scene {
	t.Helper()
	s, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return s
}

func TestLoad(t *testing.T) {
	s := mustLoad(t, corner)

	if got := s.Diagram.NumPoints(); got != 4 {
		t.Errorf("NumPoints() = %d, want 4", got)
	}
	if !s.Diagram.Pinned(s.Points["a"]) || s.Diagram.Pinned(s.Points["b"]) {
		t.Error("pinned flags not carried over")
	}
	if got := s.Diagram.Pos(s.Points["c"]); got != beautify.Pt(6, 90) {
		t.Errorf("Pos(c) = %v, want (6, 90)", got)
	}

	kinds := map[string]beautify.SegmentKind{
		"base": beautify.KindLine,
		"side": beautify.KindLine,
		"arc":  beautify.KindCurve,
	}
	for id, want := range kinds {
		if got := s.Segments[id].Kind(); got != want {
			t.Errorf("segment %s kind = %v, want %v", id, got, want)
		}
	}
	if !s.Segments["side"].Attached(0) || s.Segments["side"].Attached(1) {
		t.Error("side attachment flags = want [true false]")
	}

	var got []string
	for _, c := range s.Constraints {
		got = append(got, c.Kind())
	}
	want := []string{"Orientation", "Orientation", "Distance", "Distance"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("constraint kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_AngleUnits(t *testing.T) {
	s := mustLoad(t, corner)
	deg := s.Constraints[0].(*beautify.OrientationConstraint)
	rad := s.Constraints[1].(*beautify.OrientationConstraint)
	if math.Abs(deg.Target()-math.Pi/2) > 1e-12 {
		t.Errorf("degrees target = %v, want pi/2", deg.Target())
	}
	if deg.Target() != rad.Target() {
		t.Errorf("degrees and radians disagree: %v vs %v", deg.Target(), rad.Target())
	}
}

func TestLoad_Errors(t *testing.T) {
	const pts = "points:\n  - {id: a, x: 0, y: 0}\n  - {id: b, x: 1, y: 0}\n  - {id: c, x: 0, y: 1}\n"
	tests := []struct {
		name    string
		doc     string
		invalid bool // wraps ErrInvalidScene rather than a decode error
		want    string
	}{
		{"empty", "", true, "empty document"},
		{"no points", "points: []\n", true, "no points"},
		{"unknown field", pts + "colour: red\n", false, "colour"},
		{"missing id", "points:\n  - {x: 1, y: 2}\n", true, "missing id"},
		{"duplicate point", pts + "  - {id: a, x: 5, y: 5}\n", true, `duplicate id "a"`},
		{"non-finite", "points:\n  - {id: a, x: .nan, y: 0}\n", true, "non-finite"},
		{"unknown point", pts + "segments:\n  - {id: s, points: [a, z]}\n", true, `unknown point "z"`},
		{"bad kind", pts + "segments:\n  - {id: s, kind: spiral, points: [a, b]}\n", true, `unknown kind "spiral"`},
		{"empty segment", pts + "segments:\n  - {id: s, points: []}\n", true, "no control points"},
		{"too many flags", pts + "segments:\n  - {id: s, points: [a, b], attached: [true, false, true]}\n", true, "at most 2"},
		{"constraint kind", pts + "constraints:\n  - {kind: parallel, points: [a, b, a, c]}\n", true, `unknown kind "parallel"`},
		{"both units", pts + "constraints:\n  - {kind: orientation, points: [a, b, a, c], degrees: 90, radians: 1}\n", true, "not both"},
		{"no angle", pts + "constraints:\n  - {kind: orientation, points: [a, b, a, c]}\n", true, "missing angle"},
		{"three points", pts + "constraints:\n  - {kind: orientation, points: [a, b, c], degrees: 90}\n", true, "want 4"},
		{"unknown segment", pts + "constraints:\n  - {kind: orientation, segments: [x, y], degrees: 90}\n", true, `unknown segment "x"`},
		{"points and segments", pts + "constraints:\n  - {kind: distance, points: [a, b], segments: [s], length: 1}\n", true, "not both"},
		{"no length", pts + "constraints:\n  - {kind: distance, points: [a, b]}\n", true, "missing length"},
		{"negative length", pts + "constraints:\n  - {kind: distance, points: [a, b], length: -1}\n", true, "invalid length"},
		{"angle on distance", pts + "constraints:\n  - {kind: distance, points: [a, b], length: 1, degrees: 3}\n", true, "does not apply"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if got := errors.Is(err, ErrInvalidScene); got != tt.invalid {
				t.Errorf("errors.Is(ErrInvalidScene) = %v, want %v (err = %v)", got, tt.invalid, err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corner.yaml")
	if err := os.WriteFile(path, []byte(corner), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadFile(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestEncode_CarriesSolvedPositions(t *testing.T) {
	s := mustLoad(t, corner)
	solver, err := beautify.NewSolver(s.Diagram, s.Constraints, beautify.WithMaxPasses(50))
	if err != nil {
		t.Fatal(err)
	}
	defer solver.Close()
	if _, err := solver.Solve(context.Background()); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	again := mustLoad(t, buf.String())

	for id, pid := range s.Points {
		want := s.Diagram.Pos(pid)
		got := again.Diagram.Pos(again.Points[id])
		if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
			t.Errorf("point %s mismatch (-want +got):\n%s", id, diff)
		}
	}
	if len(again.Constraints) != len(s.Constraints) {
		t.Errorf("re-encoded scene has %d constraints, want %d", len(again.Constraints), len(s.Constraints))
	}
	if got := again.Segments["side"].Attached(0); !got {
		t.Error("attachment flags lost in Encode")
	}
}

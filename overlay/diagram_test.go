package overlay

import (
	"testing"

	"github.com/gogpu/beautify"
)

func TestDrawDiagram(t *testing.T) {
	d := beautify.NewDiagram()
	a := d.AddPinnedPoint(0, 0)
	b := d.AddPoint(100, 0)
	c := d.AddPoint(150, 60)
	e := d.AddPoint(200, 0)
	if _, err := d.NewSegment(beautify.KindLine, []beautify.PointID{a, b}, false, true); err != nil {
		t.Fatal(err)
	}
	curve, err := d.NewSegment(beautify.KindCurve, []beautify.PointID{b, c, e}, true, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.NewSegment(beautify.KindUnknown, []beautify.PointID{a, c, e}, false, false); err != nil {
		t.Fatal(err)
	}

	rec := NewRecorder(400, 200)
	DrawDiagram(rec, d)
	r := rec.FinishRecording()

	wantLines := 1 + (len(curve.Spline().Points()) - 1) + 2
	if got := r.Count(CmdLine); got != wantLines {
		t.Errorf("Count(CmdLine) = %d, want %d", got, wantLines)
	}
	if got := r.Count(CmdCross); got != d.NumPoints() {
		t.Errorf("Count(CmdCross) = %d, want %d", got, d.NumPoints())
	}

	var pinned, free int
	for _, cmd := range r.Commands() {
		cr, ok := cmd.(CrossCommand)
		if !ok {
			continue
		}
		switch cr.Color {
		case PinnedColor:
			pinned++
		case FreeColor:
			free++
		}
	}
	if pinned != 1 || free != 3 {
		t.Errorf("pinned/free crosses = %d/%d, want 1/3", pinned, free)
	}
}

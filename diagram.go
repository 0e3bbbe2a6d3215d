package beautify

import (
	"errors"
	"fmt"
)

// Errors returned at the API edges. The numeric core itself never fails;
// it logs and contributes zero correction instead.
var (
	// ErrEmptySegment is returned when a segment is built from no points.
	ErrEmptySegment = errors.New("beautify: segment has no control points")

	// ErrUnknownPoint is returned when a point handle is not in the diagram.
	ErrUnknownPoint = errors.New("beautify: unknown point")

	// ErrUnknownSegment is returned when a segment handle is not in the diagram.
	ErrUnknownSegment = errors.New("beautify: unknown segment")
)

// PointID is a handle to a point stored in a Diagram.
// Segments and constraints hold PointIDs, never private copies of positions.
type PointID int

// SegmentID identifies a segment. IDs are allocated by the owning Diagram
// and are unique within it, starting at 1.
type SegmentID int

// Positions is a read-only view of point state. Both *Diagram and *Snapshot
// implement it; constraints only ever see this view.
type Positions interface {
	// Pos returns the position of id. id must be valid.
	Pos(id PointID) Point

	// Pinned reports whether id is excluded from solver-driven movement.
	Pinned(id PointID) bool
}

// pointState is one arena slot.
type pointState struct {
	pos    Point
	pinned bool
}

// Diagram is the arena owning all points of a sketch together with the
// segments built over them.
//
// A Diagram is not safe for concurrent mutation. Reads through the
// Positions interface may run concurrently as long as nothing writes.
type Diagram struct {
	points   []pointState
	segments []*Segment // index = SegmentID-1; nil once removed

	// incident maps a point to the segments whose control points include it,
	// so moved points can invalidate cached geometry.
	incident map[PointID][]SegmentID
}

// NewDiagram creates an empty diagram.
func NewDiagram() *Diagram {
	return &Diagram{
		incident: make(map[PointID][]SegmentID),
	}
}

// AddPoint adds a free point and returns its handle.
func (d *Diagram) AddPoint(x, y float64) PointID {
	d.points = append(d.points, pointState{pos: Pt(x, y)})
	return PointID(len(d.points) - 1)
}

// AddPinnedPoint adds a pinned point and returns its handle.
func (d *Diagram) AddPinnedPoint(x, y float64) PointID {
	id := d.AddPoint(x, y)
	d.points[id].pinned = true
	return id
}

// NumPoints returns the number of points in the arena.
func (d *Diagram) NumPoints() int {
	return len(d.points)
}

// Valid reports whether id names a point of d.
func (d *Diagram) Valid(id PointID) bool {
	return id >= 0 && int(id) < len(d.points)
}

// Check returns ErrUnknownPoint (wrapped with the offending handle) if any
// of ids is not a point of d.
func (d *Diagram) Check(ids ...PointID) error {
	for _, id := range ids {
		if !d.Valid(id) {
			return fmt.Errorf("%w: %d", ErrUnknownPoint, id)
		}
	}
	return nil
}

// Pos returns the current position of id.
func (d *Diagram) Pos(id PointID) Point {
	return d.points[id].pos
}

// Pinned reports whether id is pinned.
func (d *Diagram) Pinned(id PointID) bool {
	return d.points[id].pinned
}

// SetPinned changes the pinned flag of id.
func (d *Diagram) SetPinned(id PointID, pinned bool) {
	d.points[id].pinned = pinned
}

// SetPos moves id to p. This is an external mutation: segments over id keep
// their cached geometry until Segment.Invalidate is called.
func (d *Diagram) SetPos(id PointID, p Point) {
	d.points[id].pos = p
}

// move displaces id by v and invalidates every segment that uses it.
// The solver is the only caller.
func (d *Diagram) move(id PointID, v Vec2) {
	d.points[id].pos = d.points[id].pos.Add(v)
	for _, sid := range d.incident[id] {
		if s := d.segments[sid-1]; s != nil {
			s.Invalidate()
		}
	}
}

// Bounds returns the bounding rectangle of all points.
// The zero Rect is returned for an empty diagram.
func (d *Diagram) Bounds() Rect {
	if len(d.points) == 0 {
		return Rect{}
	}
	r := Rect{Min: d.points[0].pos, Max: d.points[0].pos}
	for _, ps := range d.points[1:] {
		r = r.Extend(ps.pos)
	}
	return r
}

// NewSegment builds a segment of the given kind over pts. attachedA and
// attachedB mark whether the first and last endpoints are already joined
// to another segment. The segment ID is allocated by d.
func (d *Diagram) NewSegment(kind SegmentKind, pts []PointID, attachedA, attachedB bool) (*Segment, error) {
	if len(pts) == 0 {
		return nil, ErrEmptySegment
	}
	if err := d.Check(pts...); err != nil {
		return nil, err
	}

	s := &Segment{
		id:       SegmentID(len(d.segments) + 1),
		d:        d,
		kind:     kind,
		points:   append([]PointID(nil), pts...),
		attached: [2]bool{attachedA, attachedB},
	}
	d.segments = append(d.segments, s)

	seen := make(map[PointID]bool, len(pts))
	for _, id := range pts {
		if seen[id] {
			continue
		}
		seen[id] = true
		d.incident[id] = append(d.incident[id], s.id)
	}
	return s, nil
}

// Segment returns the segment with the given ID, or nil if there is none.
func (d *Diagram) Segment(id SegmentID) *Segment {
	if id < 1 || int(id) > len(d.segments) {
		return nil
	}
	return d.segments[id-1]
}

// Segments returns all live segments in creation order.
func (d *Diagram) Segments() []*Segment {
	out := make([]*Segment, 0, len(d.segments))
	for _, s := range d.segments {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// RemoveSegment discards a segment. Its points stay in the arena.
// IDs are never reused.
func (d *Diagram) RemoveSegment(id SegmentID) error {
	s := d.Segment(id)
	if s == nil {
		return fmt.Errorf("%w: %d", ErrUnknownSegment, id)
	}
	d.segments[id-1] = nil
	for _, pid := range s.points {
		list := d.incident[pid]
		for i, sid := range list {
			if sid == id {
				d.incident[pid] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
	return nil
}

// Snapshot returns a frozen copy of every point's position and pinned flag.
func (d *Diagram) Snapshot() *Snapshot {
	return &Snapshot{points: append([]pointState(nil), d.points...)}
}

// Restore resets every point to the state captured in s. Points added
// after the snapshot was taken are left untouched. All segments are
// invalidated.
func (d *Diagram) Restore(s *Snapshot) {
	copy(d.points, s.points)
	for _, seg := range d.segments {
		if seg != nil {
			seg.Invalidate()
		}
	}
}

// Snapshot is an immutable copy of point state, used as the frozen view
// every constraint reads during the gather phase of a pass.
type Snapshot struct {
	points []pointState
}

// Pos returns the captured position of id.
func (s *Snapshot) Pos(id PointID) Point {
	return s.points[id].pos
}

// Pinned returns the captured pinned flag of id.
func (s *Snapshot) Pinned(id PointID) bool {
	return s.points[id].pinned
}

// Len returns the number of captured points.
func (s *Snapshot) Len() int {
	return len(s.points)
}

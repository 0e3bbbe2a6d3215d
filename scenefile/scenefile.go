// Package scenefile loads diagrams and their constraints from YAML.
//
// A scene names its points and segments so constraints can refer to them:
//
//	points:
//	  - {id: a, x: 0, y: 0, pinned: true}
//	  - {id: b, x: 100, y: 4}
//	  - {id: c, x: 2, y: 90}
//	segments:
//	  - {id: base, kind: line, points: [a, b]}
//	  - {id: side, kind: line, points: [a, c]}
//	constraints:
//	  - {kind: orientation, segments: [base, side], degrees: 90}
//	  - {kind: distance, points: [a, b], length: 100}
//
// Orientation constraints take either four points (two spans) or two
// segments, and exactly one of degrees or radians. Distance constraints
// take two points or one segment, and a length.
//
// Unknown fields are rejected so that typos do not silently drop a
// constraint.
package scenefile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/beautify"
)

// ErrInvalidScene is wrapped by every validation error.
var ErrInvalidScene = errors.New("scenefile: invalid scene")

// File is the YAML document layout.
type File struct {
	Points      []PointSpec      `yaml:"points"`
	Segments    []SegmentSpec    `yaml:"segments,omitempty"`
	Constraints []ConstraintSpec `yaml:"constraints,omitempty"`
}

// PointSpec is one named diagram point.
type PointSpec struct {
	ID     string  `yaml:"id"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Pinned bool    `yaml:"pinned,omitempty"`
}

// SegmentSpec is one named stroke. Kind defaults to line for two points
// and curve otherwise. Attached holds the start and end attachment flags.
type SegmentSpec struct {
	ID       string   `yaml:"id"`
	Kind     string   `yaml:"kind,omitempty"`
	Points   []string `yaml:"points,flow"`
	Attached []bool   `yaml:"attached,flow,omitempty"`
}

// ConstraintSpec is one constraint over named points or segments.
type ConstraintSpec struct {
	Kind     string   `yaml:"kind"`
	Points   []string `yaml:"points,flow,omitempty"`
	Segments []string `yaml:"segments,flow,omitempty"`
	Degrees  *float64 `yaml:"degrees,omitempty"`
	Radians  *float64 `yaml:"radians,omitempty"`
	Length   *float64 `yaml:"length,omitempty"`
}

// Scene is a decoded, validated scene ready to solve.
type Scene struct {
	Diagram     *beautify.Diagram
	Constraints []beautify.Constraint
	Points      map[string]beautify.PointID
	Segments    map[string]*beautify.Segment

	file File
}

// LoadFile reads a scene from the named file.
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scenefile: %w", err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Load decodes and validates a scene.
func Load(r io.Reader) (*Scene, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidScene)
		}
		return nil, fmt.Errorf("scenefile: decode: %w", err)
	}
	return Build(f)
}

// Build validates f and constructs its diagram and constraints.
func Build(f File) (*Scene, error) {
	s := &Scene{
		Diagram:  beautify.NewDiagram(),
		Points:   make(map[string]beautify.PointID, len(f.Points)),
		Segments: make(map[string]*beautify.Segment, len(f.Segments)),
		file:     f,
	}
	if len(f.Points) == 0 {
		return nil, fmt.Errorf("%w: no points", ErrInvalidScene)
	}

	for i, p := range f.Points {
		if err := s.addPoint(p); err != nil {
			return nil, fmt.Errorf("%w: point %d: %v", ErrInvalidScene, i, err)
		}
	}
	for i, seg := range f.Segments {
		if err := s.addSegment(seg); err != nil {
			return nil, fmt.Errorf("%w: segment %d: %v", ErrInvalidScene, i, err)
		}
	}
	for i, c := range f.Constraints {
		con, err := s.constraint(c)
		if err != nil {
			return nil, fmt.Errorf("%w: constraint %d (%s): %v", ErrInvalidScene, i, c.Kind, err)
		}
		s.Constraints = append(s.Constraints, con)
	}

	beautify.Logger().Debug("scenefile: loaded",
		"points", len(f.Points), "segments", len(f.Segments), "constraints", len(f.Constraints))
	return s, nil
}

func (s *Scene) addPoint(p PointSpec) error {
	if p.ID == "" {
		return errors.New("missing id")
	}
	if _, dup := s.Points[p.ID]; dup {
		return fmt.Errorf("duplicate id %q", p.ID)
	}
	if !beautify.Pt(p.X, p.Y).IsFinite() {
		return fmt.Errorf("%q has non-finite coordinates", p.ID)
	}
	if p.Pinned {
		s.Points[p.ID] = s.Diagram.AddPinnedPoint(p.X, p.Y)
	} else {
		s.Points[p.ID] = s.Diagram.AddPoint(p.X, p.Y)
	}
	return nil
}

func (s *Scene) addSegment(def SegmentSpec) error {
	if def.ID == "" {
		return errors.New("missing id")
	}
	if _, dup := s.Segments[def.ID]; dup {
		return fmt.Errorf("duplicate id %q", def.ID)
	}
	pts, err := s.lookupPoints(def.Points)
	if err != nil {
		return err
	}

	kind := beautify.KindCurve
	if len(pts) == 2 {
		kind = beautify.KindLine
	}
	if def.Kind != "" {
		k, ok := beautify.ParseSegmentKind(def.Kind)
		if !ok {
			return fmt.Errorf("unknown kind %q", def.Kind)
		}
		kind = k
	}

	var attached [2]bool
	if len(def.Attached) > 2 {
		return fmt.Errorf("attached has %d flags, want at most 2", len(def.Attached))
	}
	copy(attached[:], def.Attached)

	seg, err := s.Diagram.NewSegment(kind, pts, attached[0], attached[1])
	if err != nil {
		return err
	}
	s.Segments[def.ID] = seg
	return nil
}

func (s *Scene) lookupPoints(names []string) ([]beautify.PointID, error) {
	ids := make([]beautify.PointID, len(names))
	for i, name := range names {
		id, ok := s.Points[name]
		if !ok {
			return nil, fmt.Errorf("unknown point %q", name)
		}
		ids[i] = id
	}
	return ids, nil
}

func (s *Scene) lookupSegments(names []string) ([]*beautify.Segment, error) {
	segs := make([]*beautify.Segment, len(names))
	for i, name := range names {
		seg, ok := s.Segments[name]
		if !ok {
			return nil, fmt.Errorf("unknown segment %q", name)
		}
		segs[i] = seg
	}
	return segs, nil
}

func (s *Scene) constraint(c ConstraintSpec) (beautify.Constraint, error) {
	if len(c.Points) > 0 && len(c.Segments) > 0 {
		return nil, errors.New("give points or segments, not both")
	}
	switch c.Kind {
	case "orientation":
		return s.orientation(c)
	case "distance":
		return s.distance(c)
	}
	return nil, fmt.Errorf("unknown kind %q", c.Kind)
}

func (s *Scene) orientation(c ConstraintSpec) (beautify.Constraint, error) {
	if c.Length != nil {
		return nil, errors.New("length does not apply")
	}
	var angle float64
	switch {
	case c.Degrees != nil && c.Radians != nil:
		return nil, errors.New("give degrees or radians, not both")
	case c.Degrees != nil:
		angle = *c.Degrees * math.Pi / 180
	case c.Radians != nil:
		angle = *c.Radians
	default:
		return nil, errors.New("missing angle")
	}
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return nil, errors.New("non-finite angle")
	}

	if len(c.Segments) > 0 {
		if len(c.Segments) != 2 {
			return nil, fmt.Errorf("got %d segments, want 2", len(c.Segments))
		}
		segs, err := s.lookupSegments(c.Segments)
		if err != nil {
			return nil, err
		}
		return beautify.NewSegmentOrientation(segs[0], segs[1], angle), nil
	}
	if len(c.Points) != 4 {
		return nil, fmt.Errorf("got %d points, want 4", len(c.Points))
	}
	ids, err := s.lookupPoints(c.Points)
	if err != nil {
		return nil, err
	}
	return beautify.NewOrientationConstraint(ids[0], ids[1], ids[2], ids[3], angle), nil
}

func (s *Scene) distance(c ConstraintSpec) (beautify.Constraint, error) {
	if c.Degrees != nil || c.Radians != nil {
		return nil, errors.New("angle does not apply")
	}
	if c.Length == nil {
		return nil, errors.New("missing length")
	}
	length := *c.Length
	if length < 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return nil, fmt.Errorf("invalid length %v", length)
	}

	if len(c.Segments) > 0 {
		if len(c.Segments) != 1 {
			return nil, fmt.Errorf("got %d segments, want 1", len(c.Segments))
		}
		seg, err := s.lookupSegments(c.Segments)
		if err != nil {
			return nil, err
		}
		return beautify.NewSegmentLength(seg[0], length), nil
	}
	if len(c.Points) != 2 {
		return nil, fmt.Errorf("got %d points, want 2", len(c.Points))
	}
	ids, err := s.lookupPoints(c.Points)
	if err != nil {
		return nil, err
	}
	return beautify.NewDistanceConstraint(ids[0], ids[1], length), nil
}

// File returns the scene's document with point coordinates taken from
// the diagram's current positions.
func (s *Scene) File() File {
	out := s.file
	out.Points = make([]PointSpec, len(s.file.Points))
	for i, p := range s.file.Points {
		pos := s.Diagram.Pos(s.Points[p.ID])
		p.X, p.Y = pos.X, pos.Y
		p.Pinned = s.Diagram.Pinned(s.Points[p.ID])
		out.Points[i] = p
	}
	return out
}

// Encode writes the scene, with current positions, as YAML.
func (s *Scene) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s.File()); err != nil {
		return fmt.Errorf("scenefile: encode: %w", err)
	}
	return enc.Close()
}

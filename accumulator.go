package beautify

// Reducer combines the displacement proposals made for one point in one
// pass into the net displacement applied to it. proposals is never empty.
type Reducer func(proposals []Vec2) Vec2

// Mean averages the proposals. It is the default reducer: a point touched
// by n constraints does not overshoot n-fold.
func Mean(proposals []Vec2) Vec2 {
	return Sum(proposals).Div(float64(len(proposals)))
}

// Sum adds the proposals.
func Sum(proposals []Vec2) Vec2 {
	var total Vec2
	for _, v := range proposals {
		total = total.Add(v)
	}
	return total
}

// Proposal is one displacement proposed for one point.
type Proposal struct {
	Point PointID
	Delta Vec2
}

// Corrections is the buffer one constraint writes into during the gather
// phase. Each constraint owns its own Corrections, so gathering needs no
// locking; buffers are merged into the Accumulator after the barrier.
type Corrections struct {
	proposals []Proposal
	note      string
}

var _ CorrectionSink = (*Corrections)(nil)

// Propose records a displacement for id. Non-finite values are discarded.
func (c *Corrections) Propose(id PointID, v Vec2) {
	if !v.IsFinite() {
		Logger().Warn("accumulator: discarding non-finite correction", "point", id)
		return
	}
	c.proposals = append(c.proposals, Proposal{Point: id, Delta: v})
}

// Note records the diagnostic text for this evaluation.
func (c *Corrections) Note(msg string) {
	c.note = msg
}

// Proposals returns the recorded proposals in order.
func (c *Corrections) Proposals() []Proposal {
	return c.proposals
}

// Message returns the last recorded note.
func (c *Corrections) Message() string {
	return c.note
}

// Reset empties the buffer, keeping its capacity.
func (c *Corrections) Reset() {
	c.proposals = c.proposals[:0]
	c.note = ""
}

// Accumulator maps each point to the proposals made for it during one
// pass. Points are remembered in first-proposal order so that applying
// the reduction is deterministic.
//
// An Accumulator is not safe for concurrent use.
type Accumulator struct {
	reducer   Reducer
	order     []PointID
	proposals map[PointID][]Vec2
}

var _ CorrectionSink = (*Accumulator)(nil)

// NewAccumulator creates an empty accumulator. A nil reducer means Mean.
func NewAccumulator(r Reducer) *Accumulator {
	if r == nil {
		r = Mean
	}
	return &Accumulator{
		reducer:   r,
		proposals: make(map[PointID][]Vec2),
	}
}

// Reset clears all proposals. Called at the start of every pass.
func (a *Accumulator) Reset() {
	clear(a.proposals)
	a.order = a.order[:0]
}

// Propose records a displacement for id. Non-finite values are discarded.
func (a *Accumulator) Propose(id PointID, v Vec2) {
	if !v.IsFinite() {
		Logger().Warn("accumulator: discarding non-finite correction", "point", id)
		return
	}
	if _, seen := a.proposals[id]; !seen {
		a.order = append(a.order, id)
	}
	a.proposals[id] = append(a.proposals[id], v)
}

// Note discards the message; notes are collected per constraint from
// Corrections buffers.
func (a *Accumulator) Note(string) {}

// Merge appends every proposal of c.
func (a *Accumulator) Merge(c *Corrections) {
	for _, p := range c.proposals {
		a.Propose(p.Point, p.Delta)
	}
}

// Points returns the points with at least one proposal, in first-proposal
// order. The returned slice must not be modified.
func (a *Accumulator) Points() []PointID {
	return a.order
}

// Proposals returns the proposals recorded for id.
func (a *Accumulator) Proposals(id PointID) []Vec2 {
	return a.proposals[id]
}

// Net returns the reduced displacement for id, or false if id has no
// proposals or the reduction is not finite.
func (a *Accumulator) Net(id PointID) (Vec2, bool) {
	ps := a.proposals[id]
	if len(ps) == 0 {
		return Vec2{}, false
	}
	v := a.reducer(ps)
	if !v.IsFinite() {
		Logger().Warn("accumulator: reducer produced non-finite displacement", "point", id)
		return Vec2{}, false
	}
	return v, true
}

// Len returns the number of points with proposals.
func (a *Accumulator) Len() int {
	return len(a.order)
}

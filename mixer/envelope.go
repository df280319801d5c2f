package mixer

import "sort"

// point is one control point of a piecewise-linear Envelope.
type point struct {
	t, v float64
}

// Envelope is a piecewise-linear curve over time. It plays both roles the
// original design gives a single envelope type: a per-sample gain curve
// (Value, GetValues) for a track, and the BoundedEnvelope a warp uses
// (AverageOfInverse, RangeLower, RangeUpper) when driving variable-rate
// resampling.
type Envelope struct {
	points []point
	def    float64
}

// NewEnvelope returns an envelope with no control points, evaluating to def
// everywhere until points are inserted.
func NewEnvelope(def float64) *Envelope {
	return &Envelope{def: def}
}

// Insert adds (or replaces, if t already has a point) a control point.
func (e *Envelope) Insert(t, v float64) {
	i := sort.Search(len(e.points), func(i int) bool { return e.points[i].t >= t })
	if i < len(e.points) && e.points[i].t == t {
		e.points[i].v = v
		return
	}
	e.points = append(e.points, point{})
	copy(e.points[i+1:], e.points[i:])
	e.points[i] = point{t: t, v: v}
}

// Value evaluates the envelope at t, clamping to the first/last control
// point outside the defined range.
func (e *Envelope) Value(t float64) float64 {
	if len(e.points) == 0 {
		return e.def
	}
	if t <= e.points[0].t {
		return e.points[0].v
	}
	last := len(e.points) - 1
	if t >= e.points[last].t {
		return e.points[last].v
	}
	i := sort.Search(len(e.points), func(i int) bool { return e.points[i].t > t }) - 1
	a, b := e.points[i], e.points[i+1]
	frac := (t - a.t) / (b.t - a.t)
	return a.v + frac*(b.v-a.v)
}

// GetValues fills out[i] with Value(t0 + float64(i)*step).
func (e *Envelope) GetValues(out []float32, t0, step float64) {
	for i := range out {
		out[i] = float32(e.Value(t0 + float64(i)*step))
	}
}

// RangeLower and RangeUpper bound the values this envelope can take.
func (e *Envelope) RangeLower() float64 {
	if len(e.points) == 0 {
		return e.def
	}
	lo := e.points[0].v
	for _, p := range e.points[1:] {
		if p.v < lo {
			lo = p.v
		}
	}
	return lo
}

func (e *Envelope) RangeUpper() float64 {
	if len(e.points) == 0 {
		return e.def
	}
	hi := e.points[0].v
	for _, p := range e.points[1:] {
		if p.v > hi {
			hi = p.v
		}
	}
	return hi
}

// averageOfInverseSteps is the subdivision count used by AverageOfInverse's
// numerical integration. 1/speed isn't piecewise-linear even when speed is,
// so this is a deliberate approximation (spec §9 already tolerates small
// drift from warp evaluation).
const averageOfInverseSteps = 32

// AverageOfInverse returns the time-averaged value of 1/Value(t) over
// [t0,t1].
func (e *Envelope) AverageOfInverse(t0, t1 float64) float64 {
	if t0 == t1 {
		return 1 / e.Value(t0)
	}
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	const n = averageOfInverseSteps
	step := (t1 - t0) / float64(n)
	sum := 0.0
	prev := 1 / e.Value(t0)
	for i := 1; i <= n; i++ {
		cur := 1 / e.Value(t0+float64(i)*step)
		sum += (prev + cur) / 2 * step
		prev = cur
	}
	return sum / (t1 - t0)
}

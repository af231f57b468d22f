package metaspline

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// kindaSmall is the smallest key distance tangents are divided by.
const kindaSmall = 1e-4

// clampThreshold controls how early auto-clamped tangents start flattening
// as a point approaches the height of one of its neighbors.
const clampThreshold = 0.333

// InterpMode selects how a curve is interpolated between a point and the
// point that follows it.
type InterpMode uint8

const (
	// InterpConstant holds the point's value until the next point.
	InterpConstant InterpMode = iota
	// InterpLinear interpolates linearly towards the next point.
	InterpLinear
	// InterpCurveAuto uses cubic Hermite interpolation with tangents computed
	// by [Curve.AutoSetTangents].
	InterpCurveAuto
	// InterpCurveAutoClamped is like InterpCurveAuto but clamps tangents so
	// the curve doesn't overshoot its neighbors.
	InterpCurveAutoClamped
	// InterpCurveUser uses cubic Hermite interpolation with tangents that
	// are left alone by [Curve.AutoSetTangents].
	InterpCurveUser
)

func (m InterpMode) String() string {
	switch m {
	case InterpConstant:
		return "constant"
	case InterpLinear:
		return "linear"
	case InterpCurveAuto:
		return "auto"
	case InterpCurveAutoClamped:
		return "auto-clamped"
	case InterpCurveUser:
		return "user"
	default:
		return fmt.Sprintf("InterpMode(%d)", uint8(m))
	}
}

// ParseInterpMode is the inverse of [InterpMode.String].
func ParseInterpMode(s string) (InterpMode, bool) {
	for m := InterpConstant; m <= InterpCurveUser; m++ {
		if m.String() == s {
			return m, true
		}
	}
	return 0, false
}

func (m InterpMode) MarshalText() ([]byte, error) {
	if m > InterpCurveUser {
		return nil, fmt.Errorf("invalid interpolation mode %d", uint8(m))
	}
	return []byte(m.String()), nil
}

func (m *InterpMode) UnmarshalText(b []byte) error {
	mode, ok := ParseInterpMode(string(b))
	if !ok {
		return fmt.Errorf("unknown interpolation mode %q", b)
	}
	*m = mode
	return nil
}

func (m InterpMode) isCurve() bool {
	return m == InterpCurveAuto || m == InterpCurveAutoClamped || m == InterpCurveUser
}

// CurvePoint is a single sample of a [Curve].
type CurvePoint[V value[V]] struct {
	InputKey      float64    `yaml:"key"`
	Value         V          `yaml:"value"`
	ArriveTangent V          `yaml:"arrive"`
	LeaveTangent  V          `yaml:"leave"`
	Mode          InterpMode `yaml:"mode"`
}

// Curve is an ordered sequence of points, keyed by a non-decreasing input
// key. A curve can optionally be looped, in which case an implicit point with
// the first point's value sits at the loop key, after the last point.
type Curve[V value[V]] struct {
	Points []CurvePoint[V]

	// distance between the last point's key and the loop key
	loopOffset option[float64]
}

type option[T any] struct {
	isSet bool
	value T
}

func (opt *option[T]) set(v T) {
	opt.isSet = true
	opt.value = v
}

func (opt *option[T]) clear() {
	opt.isSet = false
	opt.value = *new(T)
}

// Len returns the number of points in the curve.
func (c *Curve[V]) Len() int {
	return len(c.Points)
}

// LoopKey returns the curve's loop key, if it is looped.
func (c *Curve[V]) LoopKey() (float64, bool) {
	if !c.loopOffset.isSet || len(c.Points) == 0 {
		return 0, false
	}
	return c.Points[len(c.Points)-1].InputKey + c.loopOffset.value, true
}

// SetLoopKey loops the curve at key. The loop key has to be greater than the
// key of the last point. If it isn't, or if the curve is empty, the curve is
// unlooped and SetLoopKey returns false.
func (c *Curve[V]) SetLoopKey(key float64) bool {
	if len(c.Points) == 0 {
		c.loopOffset.clear()
		return false
	}
	last := c.Points[len(c.Points)-1].InputKey
	if !(key > last) {
		c.loopOffset.clear()
		return false
	}
	c.loopOffset.set(key - last)
	return true
}

// ClearLoopKey unloops the curve.
func (c *Curve[V]) ClearLoopKey() {
	c.loopOffset.clear()
}

// PointIndexForKey returns the index of the last point whose key is less
// than or equal to key, or -1 if key lies before the first point.
func (c *Curve[V]) PointIndexForKey(key float64) int {
	return sort.Search(len(c.Points), func(i int) bool {
		return c.Points[i].InputKey > key
	}) - 1
}

// Eval evaluates the curve at key. It returns def if the curve has no points.
//
// Keys before the first point evaluate to the first point's value. Keys
// after the last point evaluate to the last point's value, unless the curve
// is looped, in which case the curve continues towards the first point's
// value, reaching it at the loop key.
func (c *Curve[V]) Eval(key float64, def V) V {
	n := len(c.Points)
	if n == 0 {
		return def
	}
	last := n - 1
	idx := c.PointIndexForKey(key)
	if idx < 0 {
		return c.Points[0].Value
	}
	looped := c.loopOffset.isSet
	if idx == last {
		if !looped {
			return c.Points[last].Value
		}
		if key >= c.Points[last].InputKey+c.loopOffset.value {
			return c.Points[0].Value
		}
	}

	loopSegment := looped && idx == last
	next := idx + 1
	if loopSegment {
		next = 0
	}
	p0 := &c.Points[idx]
	p1 := &c.Points[next]
	width := p1.InputKey - p0.InputKey
	if loopSegment {
		width = c.loopOffset.value
	}
	if !(width > 0) || p0.Mode == InterpConstant {
		return p0.Value
	}

	alpha := (key - p0.InputKey) / width
	if p0.Mode == InterpLinear {
		return lerpStable(p0.Value, p1.Value, alpha)
	}
	return cubicInterp(p0.Value, p0.LeaveTangent.Mul(width), p1.Value, p1.ArriveTangent.Mul(width), alpha)
}

// cubicInterp evaluates the cubic Hermite spline through p0 and p1 with
// tangents t0 and t1 at a ∈ [0, 1].
func cubicInterp[V value[V]](p0, t0, p1, t1 V, a float64) V {
	a2 := a * a
	a3 := a2 * a
	return p0.Mul(2*a3 - 3*a2 + 1).
		Add(t0.Mul(a3 - 2*a2 + a)).
		Add(t1.Mul(a3 - a2)).
		Add(p1.Mul(-2*a3 + 3*a2))
}

// AutoSetTangents recomputes the tangents of all points that use an
// automatic interpolation mode, as well as those of linear and constant
// points. Tension ranges from 0 (smooth) to 1 (no tangents). If stationary is
// true, the first and last points of an unlooped curve get zero tangents.
func (c *Curve[V]) AutoSetTangents(tension float64, stationary bool) {
	n := len(c.Points)
	last := n - 1
	looped := c.loopOffset.isSet
	for i := range c.Points {
		prevIdx := i - 1
		if i == 0 {
			prevIdx = 0
			if looped {
				prevIdx = last
			}
		}
		nextIdx := i + 1
		if i == last {
			nextIdx = last
			if looped {
				nextIdx = 0
			}
		}

		pt := &c.Points[i]
		prev := &c.Points[prevIdx]
		next := &c.Points[nextIdx]

		switch pt.Mode {
		case InterpCurveAuto, InterpCurveAutoClamped:
			switch {
			case stationary && !looped && (i == 0 || i == last):
				pt.ArriveTangent = pt.Value.zero()
				pt.LeaveTangent = pt.Value.zero()
			case prev.Mode.isCurve():
				prevKey := prev.InputKey
				if looped && i == 0 {
					prevKey = pt.InputKey - c.loopOffset.value
				}
				nextKey := next.InputKey
				if looped && i == last {
					nextKey = pt.InputKey + c.loopOffset.value
				}
				tangent := curveTangent(
					prevKey, prev.Value,
					pt.InputKey, pt.Value,
					nextKey, next.Value,
					tension, pt.Mode == InterpCurveAutoClamped)
				pt.ArriveTangent = tangent
				pt.LeaveTangent = tangent
			default:
				// Following a line or a constant, continue its tangents so
				// there are no discontinuities.
				pt.ArriveTangent = prev.ArriveTangent
				pt.LeaveTangent = prev.LeaveTangent
			}
		case InterpLinear:
			tangent := next.Value.Sub(pt.Value)
			pt.ArriveTangent = tangent
			pt.LeaveTangent = tangent
		case InterpConstant:
			pt.ArriveTangent = pt.Value.zero()
			pt.LeaveTangent = pt.Value.zero()
		}
	}
}

func curveTangent[V value[V]](prevKey float64, prev V, key float64, cur V, nextKey float64, next V, tension float64, clamp bool) V {
	if clamp {
		var out [3]float64
		for i := range cur.components() {
			out[i] = clampTangent(
				prevKey, prev.component(i),
				key, cur.component(i),
				nextKey, next.component(i))
		}
		return cur.withComponents(out)
	}
	tangent := cur.Sub(prev).Add(next.Sub(cur)).Mul(1 - tension)
	return tangent.Mul(1 / math.Max(kindaSmall, nextKey-prevKey))
}

// clampTangent computes a tangent for cur that flattens out when cur is an
// extremum or close to the height of one of its neighbors.
func clampTangent(prevKey, prev, key, cur, nextKey, next float64) float64 {
	prevToNextKey := math.Max(kindaSmall, nextKey-prevKey)
	prevToCurKey := math.Max(kindaSmall, key-prevKey)
	curToNextKey := math.Max(kindaSmall, nextKey-key)

	prevToNext := next - prev
	prevToCur := cur - prev
	curToNext := next - cur

	if (prevToCur >= 0 && curToNext <= 0) || (prevToCur <= 0 && curToNext >= 0) {
		// Crest or trough
		return 0
	}

	curToNextTangent := curToNext / curToNextKey
	prevToCurTangent := prevToCur / prevToCurKey
	prevToNextTangent := prevToNext / prevToNextKey

	clamped := prevToNextTangent
	alpha := prevToCur / prevToNext
	const lower = clampThreshold
	const upper = 1 - clampThreshold
	if prevToNext > 0 {
		if alpha < lower {
			clampAlpha := 1 - alpha/clampThreshold
			clamped = math.Min(clamped, lerpFloat(prevToNextTangent, prevToCurTangent, clampAlpha))
		}
		if alpha > upper {
			clampAlpha := (alpha - upper) / clampThreshold
			clamped = math.Min(clamped, lerpFloat(prevToNextTangent, curToNextTangent, clampAlpha))
		}
	} else {
		if alpha < lower {
			clampAlpha := 1 - alpha/clampThreshold
			clamped = math.Max(clamped, lerpFloat(prevToNextTangent, prevToCurTangent, clampAlpha))
		}
		if alpha > upper {
			clampAlpha := (alpha - upper) / clampThreshold
			clamped = math.Max(clamped, lerpFloat(prevToNextTangent, curToNextTangent, clampAlpha))
		}
	}
	return clamped
}

func lerpFloat(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func (c *Curve[V]) insert(i int, pt CurvePoint[V]) {
	c.Points = slices.Insert(c.Points, i, pt)
}

func (c *Curve[V]) removeAt(i int) {
	c.Points = slices.Delete(c.Points, i, i+1)
}

// shiftKeys adds delta to the keys of all points starting at index from.
func (c *Curve[V]) shiftKeys(from int, delta float64) {
	for i := from; i < len(c.Points); i++ {
		c.Points[i].InputKey += delta
	}
}

// renumber sets each point's key to its index.
func (c *Curve[V]) renumber() {
	for i := range c.Points {
		c.Points[i].InputKey = float64(i)
	}
}

// resize pads the curve with points of value v, or truncates it, until it
// has n points.
func (c *Curve[V]) resize(n int, v V, mode InterpMode) {
	for len(c.Points) < n {
		key := 0.0
		if len(c.Points) > 0 {
			key = c.Points[len(c.Points)-1].InputKey + 1
		}
		c.Points = append(c.Points, CurvePoint[V]{InputKey: key, Value: v, Mode: mode})
	}
	if len(c.Points) > n {
		c.Points = slices.Delete(c.Points, n, len(c.Points))
	}
}

func newCurve[V value[V]](n int, v V, mode InterpMode) *Curve[V] {
	c := &Curve[V]{Points: make([]CurvePoint[V], 0, n)}
	c.resize(n, v, mode)
	return c
}

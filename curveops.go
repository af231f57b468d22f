package metaspline

import (
	"fmt"
	"slices"
)

var _ anyCurve = (*Curve[Scalar])(nil)
var _ anyCurve = (*Curve[Vec3])(nil)

// anyCurve is implemented by *Curve[Scalar] and *Curve[Vec3]. It lets the
// store apply the same edit to curves of every kind in one pass.
type anyCurve interface {
	Len() int
	SetLoopKey(key float64) bool
	ClearLoopKey()
	AutoSetTangents(tension float64, stationary bool)

	kind() Kind
	valueAt(i int) Value
	setValueAt(i int, v Value)
	// insertBlend inserts a point at index at, whose value is blended from
	// the value currently at at and the value at prev. A negative prev
	// disables blending.
	insertBlend(at, prev int, t float64, mode InterpMode)
	// blend sets the value at index at to the blend of the values at prev
	// and next.
	blend(at, prev, next int, t float64)
	// appendPoint appends a point with the value of the last point, or def
	// if the curve is empty.
	appendPoint(def Value, mode InterpMode)
	duplicate(i int)
	removeAt(i int)
	shiftKeys(from int, delta float64)
	renumber()
	resizeTo(n int, def Value, mode InterpMode)
	reset(capacity int)
	// replaceEqual replaces all values exactly equal to old with repl.
	replaceEqual(old, repl Value) int
}

func fromValue[V value[V]](v Value) V {
	var out V
	switch p := any(&out).(type) {
	case *Scalar:
		*p = Scalar(v.Scalar)
	case *Vec3:
		*p = v.Vector
	}
	return out
}

func toValue[V value[V]](v V) Value {
	switch v := any(v).(type) {
	case Scalar:
		return ScalarValue(float64(v))
	case Vec3:
		return VectorValue(v)
	default:
		panic("unreachable")
	}
}

func (c *Curve[V]) kind() Kind {
	var zero V
	return toValue(zero).Kind
}

func (c *Curve[V]) valueAt(i int) Value {
	return toValue(c.Points[i].Value)
}

func (c *Curve[V]) setValueAt(i int, v Value) {
	if v.Kind != c.kind() {
		panic(fmt.Sprintf("setting %v value on %v curve", v.Kind, c.kind()))
	}
	c.Points[i].Value = fromValue[V](v)
}

func (c *Curve[V]) insertBlend(at, prev int, t float64, mode InterpMode) {
	v := c.Points[at].Value
	if prev >= 0 {
		v = lerpStable(c.Points[prev].Value, v, t)
	}
	c.insert(at, CurvePoint[V]{InputKey: float64(at), Value: v, Mode: mode})
}

func (c *Curve[V]) blend(at, prev, next int, t float64) {
	c.Points[at].Value = lerpStable(c.Points[prev].Value, c.Points[next].Value, t)
}

func (c *Curve[V]) appendPoint(def Value, mode InterpMode) {
	if len(c.Points) == 0 {
		c.Points = append(c.Points, CurvePoint[V]{Value: fromValue[V](def), Mode: mode})
		return
	}
	last := c.Points[len(c.Points)-1]
	c.Points = append(c.Points, CurvePoint[V]{
		InputKey: float64(len(c.Points)),
		Value:    last.Value,
		Mode:     mode,
	})
}

func (c *Curve[V]) duplicate(i int) {
	c.insert(i+1, c.Points[i])
}

func (c *Curve[V]) resizeTo(n int, def Value, mode InterpMode) {
	c.resize(n, fromValue[V](def), mode)
}

func (c *Curve[V]) reset(capacity int) {
	c.Points = slices.Grow(c.Points[:0], capacity)
}

func (c *Curve[V]) replaceEqual(old, repl Value) int {
	o := fromValue[V](old)
	n := fromValue[V](repl)
	var replaced int
	for i := range c.Points {
		if c.Points[i].Value == o {
			c.Points[i].Value = n
			replaced++
		}
	}
	return replaced
}

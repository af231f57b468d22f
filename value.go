package metaspline

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Kind is the kind of value an attribute holds. The set of kinds is closed.
type Kind uint8

const (
	KindScalar Kind = iota
	KindVector
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindVector:
		return "vector"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind returns the kind named by s, which is one of "scalar" and
// "vector".
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "scalar", "float":
		return KindScalar, true
	case "vector":
		return KindVector, true
	default:
		return 0, false
	}
}

// Scalar is the value type of scalar curves.
type Scalar float64

func (s Scalar) Add(o Scalar) Scalar  { return s + o }
func (s Scalar) Sub(o Scalar) Scalar  { return s - o }
func (s Scalar) Mul(f float64) Scalar { return Scalar(float64(s) * f) }

// IsNaN reports whether s is NaN.
func (s Scalar) IsNaN() bool { return math.IsNaN(float64(s)) }

func (s Scalar) String() string { return fmt.Sprintf("%g", float64(s)) }

func (s Scalar) components() int                    { return 1 }
func (s Scalar) component(int) float64              { return float64(s) }
func (s Scalar) zero() Scalar                       { return 0 }
func (s Scalar) withComponents(c [3]float64) Scalar { return Scalar(c[0]) }

// Vec3 is the value type of vector curves.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// V3 returns the vector ⟨x, y, z⟩.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) String() string {
	return fmt.Sprintf("⟨%g, %g, %g⟩", v.X, v.Y, v.Z)
}

// Add adds two vectors and returns the resulting vector.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3(r3.Add(r3.Vec(v), r3.Vec(o)))
}

// Sub subtracts two vectors and returns the resulting vector.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3(r3.Sub(r3.Vec(v), r3.Vec(o)))
}

func (v Vec3) Mul(f float64) Vec3 {
	return Vec3(r3.Scale(f, r3.Vec(v)))
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return r3.Dot(r3.Vec(v), r3.Vec(o))
}

// Hypot returns the magnitude of the vector.
func (v Vec3) Hypot() float64 {
	return r3.Norm(r3.Vec(v))
}

// IsNaN reports whether at least one of x, y and z is NaN.
func (v Vec3) IsNaN() bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z)
}

func (v Vec3) components() int { return 3 }

func (v Vec3) component(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	default:
		panic(fmt.Sprintf("component %d out of range", i))
	}
}

func (v Vec3) zero() Vec3 { return Vec3{} }

func (v Vec3) withComponents(c [3]float64) Vec3 {
	return Vec3{X: c[0], Y: c[1], Z: c[2]}
}

// value is the set of types a [Curve] can hold.
type value[V any] interface {
	Scalar | Vec3
	Add(V) V
	Sub(V) V
	Mul(float64) V
	components() int
	component(i int) float64
	withComponents(c [3]float64) V
	zero() V
}

// lerpStable linearly interpolates between a and b as a(1-t) + bt, which
// stays exact at both ends even for large magnitudes.
func lerpStable[V value[V]](a, b V, t float64) V {
	return a.Mul(1 - t).Add(b.Mul(t))
}

// Value is a tagged union of the supported attribute value kinds.
type Value struct {
	Kind   Kind
	Scalar float64
	Vector Vec3
}

// ScalarValue returns a scalar value.
func ScalarValue(f float64) Value {
	return Value{Kind: KindScalar, Scalar: f}
}

// VectorValue returns a vector value.
func VectorValue(v Vec3) Value {
	return Value{Kind: KindVector, Vector: v}
}

// Equal reports whether v and o have the same kind and exactly the same
// value. Only the field selected by the kind is compared.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindScalar:
		return v.Scalar == o.Scalar
	case KindVector:
		return v.Vector == o.Vector
	default:
		panic(fmt.Sprintf("invalid Kind %v", v.Kind))
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindScalar:
		return fmt.Sprintf("%g", v.Scalar)
	case KindVector:
		return v.Vector.String()
	default:
		panic(fmt.Sprintf("invalid Kind %v", v.Kind))
	}
}

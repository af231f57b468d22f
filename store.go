package metaspline

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"
)

// Store holds one curve per attribute of a [Schema], keyed by attribute
// name. Every curve has exactly [Store.NumPoints] points, one per control
// point of the owning spline.
//
// A Store is not safe for concurrent use.
type Store struct {
	scalars map[string]*Curve[Scalar]
	vectors map[string]*Curve[Vec3]
	// names of all curves, in schema order
	order []string

	numPoints int
	schema    *Schema
	// the default of each attribute as of the last reconciliation
	defaults map[string]Value

	stationary bool
	mode       InterpMode
	log        *slog.Logger
}

// Option configures a [Store].
type Option func(*Store)

// WithLogger sets the logger that reports skipped attributes and rejected
// operations. If l is nil, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l == nil {
			l = slog.Default()
		}
		s.log = l
	}
}

// WithInterpMode sets the interpolation mode of points created by the store.
// The default is [InterpCurveAuto].
func WithInterpMode(m InterpMode) Option {
	return func(s *Store) {
		s.mode = m
	}
}

// New returns an empty store without a schema.
func New(opts ...Option) *Store {
	s := &Store{
		scalars:  map[string]*Curve[Scalar]{},
		vectors:  map[string]*Curve[Vec3]{},
		defaults: map[string]Value{},
		mode:     InterpCurveAuto,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NumPoints returns the number of points of every curve.
func (s *Store) NumPoints() int {
	return s.numPoints
}

// NumCurves returns the number of curves, which is the number of usable
// attributes in the schema.
func (s *Store) NumCurves() int {
	return len(s.order)
}

// Schema returns the schema the store is currently aligned with.
func (s *Store) Schema() *Schema {
	return s.schema
}

// HasValidSchema reports whether the store has a schema.
func (s *Store) HasValidSchema() bool {
	return s.schema != nil
}

// Names returns an iterator over the names of all curves, in schema order.
func (s *Store) Names() iter.Seq[string] {
	return slices.Values(s.order)
}

// curve returns the curve called name, of either kind.
func (s *Store) curve(name string) (anyCurve, bool) {
	if c, ok := s.scalars[name]; ok {
		return c, true
	}
	if c, ok := s.vectors[name]; ok {
		return c, true
	}
	return nil, false
}

// curves returns an iterator over all curves in schema order.
func (s *Store) curves() iter.Seq2[string, anyCurve] {
	return func(yield func(string, anyCurve) bool) {
		for _, name := range s.order {
			c, ok := s.curve(name)
			if !ok {
				panic(fmt.Sprintf("no curve for attribute %q", name))
			}
			if !yield(name, c) {
				break
			}
		}
	}
}

func (s *Store) addCurve(name string, def Value) {
	switch def.Kind {
	case KindScalar:
		s.scalars[name] = newCurve(s.numPoints, Scalar(def.Scalar), s.mode)
	case KindVector:
		s.vectors[name] = newCurve(s.numPoints, def.Vector, s.mode)
	default:
		panic(fmt.Sprintf("invalid Kind %v", def.Kind))
	}
	s.order = append(s.order, name)
	s.defaults[name] = def
}

func (s *Store) removeCurve(name string) {
	delete(s.scalars, name)
	delete(s.vectors, name)
	delete(s.defaults, name)
	if i := slices.Index(s.order, name); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

func (s *Store) clearCurves() {
	clear(s.scalars)
	clear(s.vectors)
	clear(s.defaults)
	s.order = s.order[:0]
}

// SetValue sets the value of the attribute called name at point index. It
// returns false if there is no such attribute or if v is of the wrong kind.
// Tangents are not updated, see [Store.Synchronize].
func (s *Store) SetValue(name string, index int, v Value) bool {
	s.checkIndex(index)
	c, ok := s.curve(name)
	if !ok || c.kind() != v.Kind {
		return false
	}
	c.setValueAt(index, v)
	return true
}

func (s *Store) checkIndex(index int) {
	if index < 0 || index >= s.numPoints {
		panic(fmt.Sprintf("point index %d out of range [0, %d)", index, s.numPoints))
	}
}

package metaspline

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Snapshot is the persistent form of a [Store].
type Snapshot struct {
	SchemaID  uuid.UUID               `yaml:"schema_id"`
	NumPoints int                     `yaml:"num_points"`
	Scalars   []CurveSnapshot[Scalar] `yaml:"scalar_curves,omitempty"`
	Vectors   []CurveSnapshot[Vec3]   `yaml:"vector_curves,omitempty"`
}

// CurveSnapshot is the persistent form of a named [Curve].
type CurveSnapshot[V value[V]] struct {
	Name    string          `yaml:"name"`
	LoopKey *float64        `yaml:"loop_key,omitempty"`
	Points  []CurvePoint[V] `yaml:"points"`
}

func snapshotCurve[V value[V]](name string, c *Curve[V]) CurveSnapshot[V] {
	cs := CurveSnapshot[V]{
		Name:   name,
		Points: slices.Clone(c.Points),
	}
	if key, ok := c.LoopKey(); ok {
		cs.LoopKey = &key
	}
	return cs
}

// Snapshot returns a deep copy of the store's curves, in schema order.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		SchemaID:  s.schema.ID(),
		NumPoints: s.numPoints,
	}
	for _, name := range s.order {
		if c, ok := s.scalars[name]; ok {
			snap.Scalars = append(snap.Scalars, snapshotCurve(name, c))
		} else if c, ok := s.vectors[name]; ok {
			snap.Vectors = append(snap.Vectors, snapshotCurve(name, c))
		}
	}
	return snap
}

func restoreCurves[V value[V]](s *Store, dst map[string]*Curve[V], curves []CurveSnapshot[V]) error {
	for _, cs := range curves {
		if _, ok := s.curve(cs.Name); ok {
			return fmt.Errorf("duplicate curve %q", cs.Name)
		}
		if len(cs.Points) != s.numPoints {
			return fmt.Errorf("curve %q has %d points, expected %d", cs.Name, len(cs.Points), s.numPoints)
		}
		c := &Curve[V]{Points: slices.Clone(cs.Points)}
		if cs.LoopKey != nil && !c.SetLoopKey(*cs.LoopKey) {
			return fmt.Errorf("curve %q: loop key %g isn't past the last key", cs.Name, *cs.LoopKey)
		}
		dst[cs.Name] = c
		s.order = append(s.order, cs.Name)
		if attr, ok := s.schema.Lookup(cs.Name); ok && attr.Default != nil {
			if def := attr.Default(); def.Kind == attr.Kind {
				s.defaults[cs.Name] = def
			}
		}
	}
	return nil
}

// Restore returns a store holding the curves of snap, aligned with schema,
// which must be the schema the snapshot was taken with. Curves of attributes
// that schema no longer has are dropped and new attributes get fresh curves,
// as by [Store.UpdateSchema].
func Restore(snap Snapshot, schema *Schema, opts ...Option) (*Store, error) {
	if snap.SchemaID != schema.ID() {
		return nil, fmt.Errorf("snapshot has schema %s, not %s", snap.SchemaID, schema.ID())
	}
	if snap.NumPoints < 0 {
		return nil, fmt.Errorf("invalid point count %d", snap.NumPoints)
	}
	s := New(opts...)
	s.schema = schema
	s.numPoints = snap.NumPoints
	if err := restoreCurves(s, s.scalars, snap.Scalars); err != nil {
		return nil, fmt.Errorf("restoring scalar curves: %w", err)
	}
	if err := restoreCurves(s, s.vectors, snap.Vectors); err != nil {
		return nil, fmt.Errorf("restoring vector curves: %w", err)
	}
	if schema != nil {
		s.UpdateSchema(schema)
	} else {
		s.clearCurves()
	}
	return s, nil
}

package metaspline

import (
	"iter"
	"strings"
)

// NamedValue is the value of one attribute at one point.
type NamedValue struct {
	Name  string
	Value Value
}

// PointValues returns the values of all attributes at point index, in
// schema order.
//
// PointValues panics if index is out of range.
func (s *Store) PointValues(index int) []NamedValue {
	s.checkIndex(index)
	out := make([]NamedValue, 0, len(s.order))
	for name, c := range s.curves() {
		out = append(out, NamedValue{Name: name, Value: c.valueAt(index)})
	}
	return out
}

// PointLabel describes the point at index, one "name: value" line per
// attribute.
func (s *Store) PointLabel(index int) string {
	var sb strings.Builder
	for i, nv := range s.PointValues(index) {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(nv.Name)
		sb.WriteString(": ")
		sb.WriteString(nv.Value.String())
	}
	return sb.String()
}

// Labels returns an iterator over the labels of the first limit points. A
// negative limit yields all points.
func (s *Store) Labels(limit int) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		n := s.numPoints
		if limit >= 0 && limit < n {
			n = limit
		}
		for i := range n {
			if !yield(i, s.PointLabel(i)) {
				break
			}
		}
	}
}

// EditBuffer holds attribute values for a selection of points, for editing
// them together. Values are loaded from the first selected point; values
// changed with [EditBuffer.Set] are written to every selected point by
// [EditBuffer.Flush].
type EditBuffer struct {
	store   *Store
	indices []int
	values  []NamedValue
	dirty   map[string]bool
}

// NewEditBuffer returns an edit buffer for the points at indices.
//
// NewEditBuffer panics if any index is out of range.
func NewEditBuffer(s *Store, indices ...int) *EditBuffer {
	for _, i := range indices {
		s.checkIndex(i)
	}
	b := &EditBuffer{
		store:   s,
		indices: indices,
		dirty:   map[string]bool{},
	}
	if len(indices) > 0 {
		b.values = s.PointValues(indices[0])
	}
	return b
}

// Values returns the buffered values.
func (b *EditBuffer) Values() []NamedValue {
	return b.values
}

// Get returns the buffered value of the attribute called name.
func (b *EditBuffer) Get(name string) (Value, bool) {
	for _, nv := range b.values {
		if nv.Name == name {
			return nv.Value, true
		}
	}
	return Value{}, false
}

// Set changes the buffered value of the attribute called name. It returns
// false if there is no such attribute or v is of the wrong kind.
func (b *EditBuffer) Set(name string, v Value) bool {
	for i := range b.values {
		if b.values[i].Name != name {
			continue
		}
		if b.values[i].Value.Kind != v.Kind {
			return false
		}
		b.values[i].Value = v
		b.dirty[name] = true
		return true
	}
	return false
}

// Flush writes all changed values to every selected point and returns the
// number of attributes written.
func (b *EditBuffer) Flush() int {
	var n int
	for _, nv := range b.values {
		if !b.dirty[nv.Name] {
			continue
		}
		for _, idx := range b.indices {
			if idx >= b.store.numPoints {
				// the point was removed since the buffer was loaded
				continue
			}
			b.store.SetValue(nv.Name, idx, nv.Value)
		}
		n++
	}
	clear(b.dirty)
	if n > 0 {
		b.store.refreshTangents()
	}
	return n
}

package metaspline

import (
	"fmt"
	"log/slog"
)

// InsertPoint inserts a point at index, shifting the point at index and all
// following points back by one. The new point's values are blended from the
// values of the points at index-1 and index, with t = 0 yielding the former
// and t = 1 the latter. If closedLoop is true, the point before index 0 is
// the last point. If index is at or past the end, InsertPoint behaves like
// [Store.AddPoint].
//
// InsertPoint panics if index is negative.
func (s *Store) InsertPoint(index int, t float64, closedLoop bool) {
	if index < 0 {
		panic(fmt.Sprintf("negative point index %d", index))
	}
	if index >= s.numPoints {
		s.AddPoint(float64(index))
		return
	}

	prev := index - 1
	if closedLoop && index == 0 {
		prev = s.numPoints - 1
	}
	if prev == index || prev < 0 || prev >= s.numPoints {
		prev = -1
	}
	for _, c := range s.curves() {
		c.insertBlend(index, prev, t, s.mode)
		c.shiftKeys(index+1, 1)
	}
	s.numPoints++
	s.refreshTangents()
}

// UpdatePoint recomputes the values of the point at index by blending the
// values of its neighbors, with t = 0 yielding the previous and t = 1 the
// next neighbor's values. If closedLoop is true, the neighbors of the first
// and last points wrap around. Points that lack a neighbor are left
// unchanged.
//
// UpdatePoint panics if index is out of range.
func (s *Store) UpdatePoint(index int, t float64, closedLoop bool) {
	s.checkIndex(index)

	prev := index - 1
	if closedLoop && index == 0 {
		prev = s.numPoints - 1
	}
	next := index + 1
	if closedLoop && index == s.numPoints-1 {
		next = 0
	}
	if prev < 0 || prev >= s.numPoints || next < 0 || next >= s.numPoints {
		return
	}
	if prev == index || next == index {
		// A closed loop of a single point is its own neighbor.
		return
	}
	for _, c := range s.curves() {
		c.blend(index, prev, next, t)
	}
	s.refreshTangents()
}

// AddPoint appends a point that copies the values of the current last
// point. The point's key is always one past the last point's key; inputKey
// only exists for symmetry with the spline's own AddPoint.
func (s *Store) AddPoint(inputKey float64) {
	if s.NumCurves() == 0 {
		s.log.Debug("metaspline: adding point without attributes", slog.Float64("key", inputKey))
	}
	for name, c := range s.curves() {
		c.appendPoint(s.defaults[name], s.mode)
	}
	s.numPoints++
	s.refreshTangents()
}

// RemovePoint removes the point at index, shifting all following points
// forward by one.
//
// RemovePoint panics if index is out of range.
func (s *Store) RemovePoint(index int) {
	s.checkIndex(index)
	for _, c := range s.curves() {
		c.removeAt(index)
		c.shiftKeys(index, -1)
	}
	s.numPoints--
	s.refreshTangents()
}

// DuplicatePoint inserts a copy of the point at index right after it.
//
// DuplicatePoint panics if index is out of range.
func (s *Store) DuplicatePoint(index int) {
	s.checkIndex(index)
	for _, c := range s.curves() {
		c.duplicate(index)
		c.shiftKeys(index+1, 1)
	}
	s.numPoints++
	s.refreshTangents()
}

// CopyPoint copies the values of the point at fromIndex in from to the point
// at toIndex in s. Keys and tangents are left alone. Both stores must use the
// same schema; if they don't, CopyPoint logs an error, leaves s unchanged
// and returns false.
//
// CopyPoint panics if from is nil or either index is out of range.
func (s *Store) CopyPoint(from *Store, fromIndex, toIndex int) bool {
	if from == nil {
		panic("CopyPoint called with nil store")
	}
	s.checkIndex(toIndex)
	from.checkIndex(fromIndex)

	if from.schema.ID() != s.schema.ID() {
		s.log.Error("metaspline: can't copy point from store with different schema",
			slog.String("schema", s.schema.Name()),
			slog.String("from_schema", from.schema.Name()))
		return false
	}
	for name, c := range s.curves() {
		fc, ok := from.curve(name)
		if !ok || fc.kind() != c.kind() {
			continue
		}
		c.setValueAt(toIndex, fc.valueAt(fromIndex))
	}
	return true
}

// Reset empties every curve and sets the number of points to n, in
// preparation for rebuilding the curves. The store doesn't hold n points
// per curve again until the next [Store.Fixup].
func (s *Store) Reset(n int) {
	if n < 0 {
		panic(fmt.Sprintf("negative point count %d", n))
	}
	for _, c := range s.curves() {
		c.reset(n)
	}
	s.numPoints = n
}

// Fixup realigns the store with its owner: it adopts the owner's schema (see
// [Store.UpdateSchema]), renumbers every curve's keys to match the point
// indices, and pads or truncates every curve to n points. Padding uses the
// attribute's default. A nil owner has no schema.
//
// Fixup is idempotent and may be called after the owner's points were
// changed without going through the store.
func (s *Store) Fixup(n int, owner Owner) {
	if n < 0 {
		panic(fmt.Sprintf("negative point count %d", n))
	}
	var schema *Schema
	if owner != nil {
		schema = owner.Schema()
	}
	s.UpdateSchema(schema)

	for name, c := range s.curves() {
		c.renumber()
		c.resizeTo(n, s.defaults[name], s.mode)
	}
	s.numPoints = n
}

// refreshTangents recomputes the tangents of all curves after a structural
// edit, using the loop state and endpoint setting of the last
// synchronization.
func (s *Store) refreshTangents() {
	for _, c := range s.curves() {
		c.AutoSetTangents(0, s.stationary)
	}
}

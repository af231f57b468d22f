package metaspline

import (
	"log/slog"
)

// Owner is the spline that a [Store] holds metadata for.
type Owner interface {
	// Schema returns the schema of the spline's metadata, or nil.
	Schema() *Schema
	// ClosedLoop reports whether the spline loops back to its first point.
	ClosedLoop() bool
	// LoopKeyOverride returns the key at which a closed spline reaches its
	// first point again, if it differs from the last key plus one.
	LoopKeyOverride() (float64, bool)
	// StationaryEndpoints reports whether the first and last points of an
	// open spline have zero tangents.
	StationaryEndpoints() bool
}

// StaticOwner is an [Owner] whose properties are plain fields.
type StaticOwner struct {
	MetaSchema *Schema
	Closed     bool
	// LoopKey is used as the loop key if HasLoopKey is set.
	LoopKey    float64
	HasLoopKey bool
	Stationary bool
}

var _ Owner = (*StaticOwner)(nil)

func (o *StaticOwner) Schema() *Schema                  { return o.MetaSchema }
func (o *StaticOwner) ClosedLoop() bool                 { return o.Closed }
func (o *StaticOwner) LoopKeyOverride() (float64, bool) { return o.LoopKey, o.HasLoopKey }
func (o *StaticOwner) StationaryEndpoints() bool        { return o.Stationary }

// Synchronize brings the store fully in line with owner, which has n points.
// It calls [Store.Fixup], loops or unloops every curve to match the owner,
// and recomputes all tangents.
func (s *Store) Synchronize(n int, owner Owner) {
	s.Fixup(n, owner)

	closed := false
	s.stationary = false
	var override float64
	var hasOverride bool
	if owner != nil {
		closed = owner.ClosedLoop()
		s.stationary = owner.StationaryEndpoints()
		override, hasOverride = owner.LoopKeyOverride()
	}

	for name, c := range s.curves() {
		if !closed {
			c.ClearLoopKey()
			c.AutoSetTangents(0, s.stationary)
			continue
		}
		key := override
		if !hasOverride {
			// Fixup numbered the keys, the last key is Len()-1.
			key = float64(c.Len())
		}
		if !c.SetLoopKey(key) && c.Len() > 0 {
			s.log.Warn("metaspline: loop key must be greater than the last key",
				slog.String("attribute", name),
				slog.Float64("loop_key", key))
		}
		c.AutoSetTangents(0, s.stationary)
	}
}

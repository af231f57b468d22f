package metaspline

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
)

func roadSchema() *Schema {
	return NewSchema("road",
		ScalarAttribute("speed", 1),
		VectorAttribute("up", V3(0, 0, 1)),
	)
}

// newStore returns a store with n points whose speeds are values.
func newStore(t *testing.T, schema *Schema, speeds ...float64) *Store {
	t.Helper()
	s := New()
	s.Fixup(len(speeds), &StaticOwner{MetaSchema: schema})
	for i, v := range speeds {
		if !s.SetValue("speed", i, ScalarValue(v)) {
			t.Fatalf("couldn't set speed of point %d", i)
		}
	}
	return s
}

func speeds(t *testing.T, s *Store) []float64 {
	t.Helper()
	c, ok := s.ScalarCurve("speed")
	if !ok {
		t.Fatal("no speed curve")
	}
	return scalarValues(c)
}

func TestFixupScenario(t *testing.T) {
	schema := NewSchema("road", ScalarAttribute("speed", 1))
	s := New()
	if s.HasValidSchema() {
		t.Error("new store has a schema")
	}
	s.Fixup(3, &StaticOwner{MetaSchema: schema})
	if !s.HasValidSchema() {
		t.Error("store has no schema after Fixup")
	}

	c, ok := s.ScalarCurve("speed")
	if !ok {
		t.Fatal("no speed curve")
	}
	diff(t, []float64{0, 1, 2}, curveKeys(c))
	diff(t, []float64{1, 1, 1}, scalarValues(c))

	s.UpdatePoint(1, 1.0, false)
	diff(t, []float64{1, 1, 1}, scalarValues(c))

	s.SetValue("speed", 2, ScalarValue(5))
	s.UpdatePoint(1, 1.0, false)
	diff(t, []float64{1, 5, 5}, scalarValues(c))

	// Changing the default only affects points that still have the old one.
	schema.SetDefault("speed", ScalarValue(2))
	s.UpdateSchema(schema)
	c, _ = s.ScalarCurve("speed")
	diff(t, []float64{2, 5, 5}, scalarValues(c))
	checkAligned(t, s)
}

func TestUpdatePoint(t *testing.T) {
	s := newStore(t, roadSchema(), 2, 0, 4)
	s.UpdatePoint(1, 0.5, false)
	diff(t, []float64{2, 3, 4}, speeds(t, s))

	// Endpoints of an open spline have only one neighbor.
	s.UpdatePoint(0, 0.5, false)
	s.UpdatePoint(2, 0.5, false)
	diff(t, []float64{2, 3, 4}, speeds(t, s))

	// In a closed loop, they wrap around.
	s.UpdatePoint(0, 0.5, true)
	diff(t, []float64{3.5, 3, 4}, speeds(t, s))
	s.UpdatePoint(2, 0.25, true)
	diff(t, []float64{3.5, 3, 3.125}, speeds(t, s))

	one := newStore(t, roadSchema(), 7)
	one.UpdatePoint(0, 0.5, false)
	one.UpdatePoint(0, 0.5, true)
	diff(t, []float64{7}, speeds(t, one))
}

func TestInsertPoint(t *testing.T) {
	s := newStore(t, roadSchema(), 1, 2, 3, 4)
	s.InsertPoint(2, 0.5, false)
	diff(t, []float64{1, 2, 2.5, 3, 4}, speeds(t, s))
	diff(t, 5, s.NumPoints())
	checkAligned(t, s)
	checkNumbered(t, s)

	s.RemovePoint(2)
	diff(t, []float64{1, 2, 3, 4}, speeds(t, s))
	diff(t, 4, s.NumPoints())
	checkAligned(t, s)
	checkNumbered(t, s)

	// The first point of an open spline has nothing to blend with.
	s.InsertPoint(0, 0.5, false)
	diff(t, []float64{1, 1, 2, 3, 4}, speeds(t, s))
	s.RemovePoint(0)

	// The first point of a closed loop blends with the last.
	s.InsertPoint(0, 0.5, true)
	diff(t, []float64{2.5, 1, 2, 3, 4}, speeds(t, s))
	checkNumbered(t, s)

	// Inserting past the end appends.
	s.InsertPoint(10, 0.5, false)
	diff(t, []float64{2.5, 1, 2, 3, 4, 4}, speeds(t, s))
	diff(t, 6, s.NumPoints())
	checkAligned(t, s)
	checkNumbered(t, s)
}

func TestInsertPointVector(t *testing.T) {
	s := newStore(t, roadSchema(), 0, 0)
	s.SetValue("up", 1, VectorValue(V3(0, 2, 1)))
	s.InsertPoint(1, 0.5, false)
	diff(t, V3(0, 1, 1), s.EvalVectorAtPoint("up", 1))
	diff(t, V3(0, 2, 1), s.EvalVectorAtPoint("up", 2))
}

func TestDuplicatePoint(t *testing.T) {
	s := newStore(t, roadSchema(), 1, 2, 3)
	s.DuplicatePoint(1)
	diff(t, []float64{1, 2, 2, 3}, speeds(t, s))
	diff(t, 4, s.NumPoints())
	checkAligned(t, s)
	checkNumbered(t, s)

	s.DuplicatePoint(3)
	diff(t, []float64{1, 2, 2, 3, 3}, speeds(t, s))
	checkNumbered(t, s)
}

func TestAddPoint(t *testing.T) {
	s := newStore(t, roadSchema(), 1, 2)
	s.AddPoint(2)
	diff(t, []float64{1, 2, 2}, speeds(t, s))
	checkAligned(t, s)
	checkNumbered(t, s)
}

func TestRemovePoint(t *testing.T) {
	s := newStore(t, roadSchema(), 1, 2, 3)
	s.RemovePoint(0)
	diff(t, []float64{2, 3}, speeds(t, s))
	s.RemovePoint(1)
	diff(t, []float64{2}, speeds(t, s))
	s.RemovePoint(0)
	diff(t, []float64{}, speeds(t, s))
	diff(t, 0, s.NumPoints())

	// AddPoint on empty curves falls back to the default.
	s.AddPoint(0)
	diff(t, []float64{1}, speeds(t, s))
	checkAligned(t, s)
}

func TestPointEditsWithoutAttributes(t *testing.T) {
	s := New()
	s.Fixup(2, nil)
	s.AddPoint(2)
	s.InsertPoint(0, 0.5, false)
	s.DuplicatePoint(0)
	diff(t, 5, s.NumPoints())
	s.RemovePoint(4)
	diff(t, 4, s.NumPoints())
	diff(t, 0, s.NumCurves())
}

func TestOutOfRangePanics(t *testing.T) {
	tests := map[string]func(s *Store){
		"InsertPoint":    func(s *Store) { s.InsertPoint(-1, 0, false) },
		"UpdatePoint":    func(s *Store) { s.UpdatePoint(2, 0, false) },
		"RemovePoint":    func(s *Store) { s.RemovePoint(2) },
		"DuplicatePoint": func(s *Store) { s.DuplicatePoint(-1) },
		"CopyPoint":      func(s *Store) { s.CopyPoint(s, 0, 5) },
		"CopyPoint nil":  func(s *Store) { s.CopyPoint(nil, 0, 0) },
		"SetValue":       func(s *Store) { s.SetValue("speed", 9, ScalarValue(0)) },
		"Reset":          func(s *Store) { s.Reset(-1) },
	}
	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			s := newStore(t, roadSchema(), 1, 2)
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			fn(s)
		})
	}
}

func TestCopyPoint(t *testing.T) {
	schema := roadSchema()
	a := newStore(t, schema, 1, 2)
	b := newStore(t, schema, 3, 4, 5)
	b.SetValue("up", 2, VectorValue(V3(1, 0, 0)))

	if !a.CopyPoint(b, 2, 0) {
		t.Fatal("CopyPoint failed")
	}
	diff(t, []float64{5, 2}, speeds(t, a))
	diff(t, V3(1, 0, 0), a.EvalVectorAtPoint("up", 0))
	// keys stay put
	checkNumbered(t, a)
}

func TestCopyPointSchemaMismatch(t *testing.T) {
	log, buf := bufferLogger()
	a := New(WithLogger(log))
	a.Fixup(2, &StaticOwner{MetaSchema: roadSchema()})
	b := newStore(t, roadSchema(), 7, 8)

	if a.CopyPoint(b, 0, 0) {
		t.Error("CopyPoint succeeded across schemas")
	}
	diff(t, []float64{1, 1}, speeds(t, a))
	if !strings.Contains(buf.String(), "different schema") {
		t.Errorf("mismatch wasn't logged: %q", buf.String())
	}
}

func TestReset(t *testing.T) {
	owner := &StaticOwner{MetaSchema: roadSchema()}
	s := New()
	s.Fixup(3, owner)
	s.Reset(5)
	diff(t, 5, s.NumPoints())
	c, _ := s.ScalarCurve("speed")
	diff(t, 0, c.Len())

	s.Fixup(5, owner)
	checkAligned(t, s)
	checkNumbered(t, s)
}

func TestFixupResizes(t *testing.T) {
	owner := &StaticOwner{MetaSchema: roadSchema()}
	s := newStore(t, owner.MetaSchema, 1, 2, 3, 4, 5)

	s.Fixup(2, owner)
	diff(t, []float64{1, 2}, speeds(t, s))
	checkAligned(t, s)

	s.Fixup(4, owner)
	diff(t, []float64{1, 2, 1, 1}, speeds(t, s))
	checkAligned(t, s)
	checkNumbered(t, s)

	// Keys are renumbered.
	c, _ := s.ScalarCurve("speed")
	c.Points[1].InputKey = 7
	c.Points[3].InputKey = -2
	s.Fixup(4, owner)
	checkNumbered(t, s)

	// Fixup is idempotent.
	before := s.Snapshot()
	s.Fixup(4, owner)
	diff(t, before, s.Snapshot())
}

func TestFixupWithoutSchema(t *testing.T) {
	s := newStore(t, roadSchema(), 1, 2)
	s.Fixup(2, nil)
	if s.HasValidSchema() {
		t.Error("store kept its schema")
	}
	diff(t, 0, s.NumCurves())
	diff(t, 2, s.NumPoints())
}

func TestUpdateSchemaIncremental(t *testing.T) {
	schema := roadSchema()
	s := newStore(t, schema, 9, 8)

	schema.Add(ScalarAttribute("width", 3))
	s.UpdateSchema(schema)
	diff(t, []string{"speed", "up", "width"}, slices.Collect(s.Names()))
	diff(t, []float64{9, 8}, speeds(t, s))
	diff(t, 3.0, s.EvalScalarAtPoint("width", 1))
	checkAligned(t, s)

	schema.Remove("speed")
	s.UpdateSchema(schema)
	if _, ok := s.FindCurve("speed"); ok {
		t.Error("curve of removed attribute survived")
	}
	diff(t, []string{"up", "width"}, slices.Collect(s.Names()))

	// A changed kind replaces the curve.
	schema.Add(VectorAttribute("width", V3(1, 1, 1)))
	s.UpdateSchema(schema)
	kind, ok := s.FindCurve("width")
	if !ok || kind != KindVector {
		t.Errorf("FindCurve(width) = %v, %t", kind, ok)
	}
	diff(t, V3(1, 1, 1), s.EvalVectorAtPoint("width", 0))
	checkAligned(t, s)
}

func TestUpdateSchemaRedefined(t *testing.T) {
	schema := roadSchema()
	s := newStore(t, schema, 9, 8)
	s.UpdateSchema(schema.Redefine())
	diff(t, []float64{1, 1}, speeds(t, s))

	s.UpdateSchema(nil)
	diff(t, 0, s.NumCurves())
	if s.HasValidSchema() {
		t.Error("store has a schema after UpdateSchema(nil)")
	}
}

func TestUpdateSchemaSkipsBrokenAttributes(t *testing.T) {
	log, buf := bufferLogger()
	schema := NewSchema("road",
		Attribute{Name: "nodefault", Kind: KindScalar},
		ScalarAttribute("speed", 1),
		Attribute{Name: "mismatch", Kind: KindVector, Default: Const(ScalarValue(1))},
		ScalarAttribute("speed", 5),
	)
	s := New(WithLogger(log))
	s.Fixup(2, &StaticOwner{MetaSchema: schema})
	diff(t, []string{"speed"}, slices.Collect(s.Names()))
	diff(t, []float64{1, 1}, speeds(t, s))
	for _, name := range []string{"nodefault", "mismatch"} {
		if !strings.Contains(buf.String(), "attribute="+name) {
			t.Errorf("skipping %s wasn't logged", name)
		}
	}

	// The incremental path skips them too.
	s.UpdateSchema(schema)
	diff(t, []string{"speed"}, slices.Collect(s.Names()))
}

func TestUpdateValuesOnUnmodifiedPoints(t *testing.T) {
	def := VectorValue(V3(0, 0, 1))
	schema := NewSchema("road", Attribute{
		Name:    "up",
		Kind:    KindVector,
		Default: func() Value { return def },
	})
	s := New()
	s.Fixup(3, &StaticOwner{MetaSchema: schema})
	s.SetValue("up", 1, VectorValue(V3(1, 0, 0)))

	def = VectorValue(V3(0, 1, 0))
	s.UpdateValuesOnUnmodifiedPoints()
	diff(t, V3(0, 1, 0), s.EvalVectorAtPoint("up", 0))
	diff(t, V3(1, 0, 0), s.EvalVectorAtPoint("up", 1))
	diff(t, V3(0, 1, 0), s.EvalVectorAtPoint("up", 2))

	// Points that happen to hold the new default follow later changes.
	def = VectorValue(V3(0, 0, 2))
	s.UpdateValuesOnUnmodifiedPoints()
	diff(t, V3(0, 0, 2), s.EvalVectorAtPoint("up", 0))
	diff(t, V3(1, 0, 0), s.EvalVectorAtPoint("up", 1))

	// New points get the current default.
	s.Fixup(4, &StaticOwner{MetaSchema: schema})
	diff(t, V3(0, 0, 2), s.EvalVectorAtPoint("up", 3))
}

func TestEval(t *testing.T) {
	schema := roadSchema()
	s := New(WithInterpMode(InterpLinear))
	s.Synchronize(2, &StaticOwner{MetaSchema: schema})
	s.SetValue("speed", 1, ScalarValue(11))

	diff(t, 6.0, s.EvalScalarAtKey("speed", 0.5))
	diff(t, 11.0, s.EvalScalarAtPoint("speed", 1))
	diff(t, ScalarValue(6), s.EvalAtKey("speed", 0.5))
	diff(t, VectorValue(V3(0, 0, 1)), s.EvalAtPointIndex("up", 1))

	diff(t, 0.0, s.EvalScalarAtKey("missing", 0))
	diff(t, Vec3{}, s.EvalVectorAtKey("missing", 0))
	diff(t, ScalarValue(0), s.EvalAtKey("missing", 0))
	// wrong kind
	diff(t, 0.0, s.EvalScalarAtKey("up", 0))

	if _, ok := s.VectorCurve("speed"); ok {
		t.Error("VectorCurve found a scalar curve")
	}
}

func TestSynchronize(t *testing.T) {
	owner := &StaticOwner{MetaSchema: roadSchema(), Closed: true}
	s := New(WithInterpMode(InterpLinear))
	s.Synchronize(3, owner)
	s.SetValue("speed", 2, ScalarValue(3))

	c, _ := s.ScalarCurve("speed")
	key, ok := c.LoopKey()
	if !ok || key != 3 {
		t.Errorf("LoopKey() = %v, %t, want 3, true", key, ok)
	}
	// halfway between the last and the first point
	diff(t, 2.0, s.EvalScalarAtKey("speed", 2.5))

	owner.HasLoopKey = true
	owner.LoopKey = 6
	s.Synchronize(3, owner)
	c, _ = s.ScalarCurve("speed")
	key, _ = c.LoopKey()
	diff(t, 6.0, key)

	log, buf := bufferLogger()
	s.log = log
	owner.LoopKey = 1
	s.Synchronize(3, owner)
	if _, ok := c.LoopKey(); ok {
		t.Error("invalid loop key was accepted")
	}
	if !strings.Contains(buf.String(), "loop key") {
		t.Error("invalid loop key wasn't logged")
	}

	owner.Closed = false
	s.Synchronize(3, owner)
	if _, ok := c.LoopKey(); ok {
		t.Error("open spline has looped curves")
	}
	diff(t, 3.0, s.EvalScalarAtKey("speed", 2.5))
}

func TestSynchronizeStationaryEndpoints(t *testing.T) {
	owner := &StaticOwner{MetaSchema: roadSchema(), Stationary: true}
	s := New()
	s.Synchronize(3, owner)
	s.SetValue("speed", 2, ScalarValue(3))
	s.Synchronize(3, owner)

	c, _ := s.ScalarCurve("speed")
	diff(t, Scalar(0), c.Points[0].LeaveTangent)
	diff(t, Scalar(0), c.Points[2].ArriveTangent)
	if c.Points[1].LeaveTangent == 0 {
		t.Error("interior point got a zero tangent")
	}

	// Structural edits keep the endpoints stationary.
	s.AddPoint(3)
	diff(t, Scalar(0), c.Points[3].ArriveTangent)
}

func TestRandomEdits(t *testing.T) {
	schema := roadSchema()
	owner := &StaticOwner{MetaSchema: schema}
	s := New()
	s.Fixup(3, owner)
	r := rand.New(rand.NewPCG(1, 2))
	for i := range 2000 {
		n := s.NumPoints()
		switch op := r.IntN(7); {
		case op == 0:
			s.InsertPoint(r.IntN(n+2), r.Float64(), r.IntN(2) == 0)
		case op == 1 && n > 0:
			s.UpdatePoint(r.IntN(n), r.Float64(), r.IntN(2) == 0)
		case op == 2:
			s.AddPoint(float64(n))
		case op == 3 && n > 0:
			s.RemovePoint(r.IntN(n))
		case op == 4 && n > 0:
			s.DuplicatePoint(r.IntN(n))
		case op == 5 && n > 0:
			s.SetValue("speed", r.IntN(n), ScalarValue(r.Float64()))
		case op == 6:
			s.Fixup(r.IntN(8), owner)
			checkNumbered(t, s)
		}
		checkAligned(t, s)
		if t.Failed() {
			t.Fatalf("invariants broken after edit %d", i)
		}
	}
}

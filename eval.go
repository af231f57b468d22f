package metaspline

// ScalarCurve returns the scalar curve called name.
func (s *Store) ScalarCurve(name string) (*Curve[Scalar], bool) {
	c, ok := s.scalars[name]
	return c, ok
}

// VectorCurve returns the vector curve called name.
func (s *Store) VectorCurve(name string) (*Curve[Vec3], bool) {
	c, ok := s.vectors[name]
	return c, ok
}

// FindCurve returns the kind of the curve called name, if there is one.
func (s *Store) FindCurve(name string) (Kind, bool) {
	c, ok := s.curve(name)
	if !ok {
		return 0, false
	}
	return c.kind(), true
}

// EvalScalarAtKey evaluates the scalar attribute name at key. It returns 0
// if there is no such attribute.
func (s *Store) EvalScalarAtKey(name string, key float64) float64 {
	c, ok := s.scalars[name]
	if !ok {
		return 0
	}
	return float64(c.Eval(key, 0))
}

// EvalVectorAtKey evaluates the vector attribute name at key. It returns the
// zero vector if there is no such attribute.
func (s *Store) EvalVectorAtKey(name string, key float64) Vec3 {
	c, ok := s.vectors[name]
	if !ok {
		return Vec3{}
	}
	return c.Eval(key, Vec3{})
}

// EvalAtKey evaluates the attribute name at key, whatever its kind. It
// returns the zero scalar if there is no such attribute.
func (s *Store) EvalAtKey(name string, key float64) Value {
	if c, ok := s.vectors[name]; ok {
		return VectorValue(c.Eval(key, Vec3{}))
	}
	return ScalarValue(s.EvalScalarAtKey(name, key))
}

// EvalScalarAtPoint is shorthand for EvalScalarAtKey(name, float64(index)).
func (s *Store) EvalScalarAtPoint(name string, index int) float64 {
	return s.EvalScalarAtKey(name, float64(index))
}

// EvalVectorAtPoint is shorthand for EvalVectorAtKey(name, float64(index)).
func (s *Store) EvalVectorAtPoint(name string, index int) Vec3 {
	return s.EvalVectorAtKey(name, float64(index))
}

// EvalAtPointIndex is shorthand for EvalAtKey(name, float64(index)).
func (s *Store) EvalAtPointIndex(name string, index int) Value {
	return s.EvalAtKey(name, float64(index))
}

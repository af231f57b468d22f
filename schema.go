package metaspline

import (
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Attribute describes one per-point attribute of a [Schema].
type Attribute struct {
	Name string
	Kind Kind
	// Default returns the attribute's current default value. Attributes
	// without a Default are ignored by stores.
	Default func() Value
}

// Const returns a default accessor that always returns v.
func Const(v Value) func() Value {
	return func() Value { return v }
}

// ScalarAttribute returns a scalar attribute with a constant default.
func ScalarAttribute(name string, def float64) Attribute {
	return Attribute{Name: name, Kind: KindScalar, Default: Const(ScalarValue(def))}
}

// VectorAttribute returns a vector attribute with a constant default.
func VectorAttribute(name string, def Vec3) Attribute {
	return Attribute{Name: name, Kind: KindVector, Default: Const(VectorValue(def))}
}

// Schema is an ordered set of attributes. Stores compare schemas by their
// identity, not by their contents: changing a schema's attributes in place
// keeps its identity, while [Schema.Redefine] produces a new one.
type Schema struct {
	name  string
	id    uuid.UUID
	attrs []Attribute
}

// NewSchema returns a schema with a fresh identity.
func NewSchema(name string, attrs ...Attribute) *Schema {
	return &Schema{
		name:  name,
		id:    uuid.New(),
		attrs: slices.Clone(attrs),
	}
}

// Name returns the schema's display name.
func (s *Schema) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// ID returns the schema's identity. The nil schema has the nil UUID.
func (s *Schema) ID() uuid.UUID {
	if s == nil {
		return uuid.Nil
	}
	return s.id
}

// Redefine returns a copy of the schema with a new identity.
func (s *Schema) Redefine() *Schema {
	return NewSchema(s.name, s.attrs...)
}

// Len returns the number of attributes.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.attrs)
}

// Attributes returns an iterator over the schema's attributes, in the order
// they were added.
func (s *Schema) Attributes() iter.Seq[Attribute] {
	return func(yield func(Attribute) bool) {
		if s == nil {
			return
		}
		for _, attr := range s.attrs {
			if !yield(attr) {
				break
			}
		}
	}
}

// Lookup returns the attribute called name.
func (s *Schema) Lookup(name string) (Attribute, bool) {
	if s == nil {
		return Attribute{}, false
	}
	i := s.index(name)
	if i < 0 {
		return Attribute{}, false
	}
	return s.attrs[i], true
}

func (s *Schema) index(name string) int {
	return slices.IndexFunc(s.attrs, func(attr Attribute) bool { return attr.Name == name })
}

// Add adds an attribute, replacing any existing attribute of the same name
// in place.
func (s *Schema) Add(attr Attribute) {
	if i := s.index(attr.Name); i >= 0 {
		s.attrs[i] = attr
		return
	}
	s.attrs = append(s.attrs, attr)
}

// Remove removes the attribute called name and reports whether it existed.
func (s *Schema) Remove(name string) bool {
	i := s.index(name)
	if i < 0 {
		return false
	}
	s.attrs = slices.Delete(s.attrs, i, i+1)
	return true
}

// SetDefault changes the default of the attribute called name. It returns
// false if there is no such attribute or if v is of the wrong kind.
func (s *Schema) SetDefault(name string, v Value) bool {
	i := s.index(name)
	if i < 0 || s.attrs[i].Kind != v.Kind {
		return false
	}
	s.attrs[i].Default = Const(v)
	return true
}

type schemaFile struct {
	Name       string          `yaml:"name"`
	Attributes []attributeFile `yaml:"attributes"`
}

type attributeFile struct {
	Name    string    `yaml:"name"`
	Kind    string    `yaml:"kind"`
	Default yaml.Node `yaml:"default"`
}

// LoadSchemaYAML decodes a schema of the form
//
//	name: road
//	attributes:
//	  - name: speed
//	    kind: scalar
//	    default: 1.0
//	  - name: offset
//	    kind: vector
//	    default: [0, 0, 1]
//
// The returned schema has a fresh identity.
func LoadSchemaYAML(r io.Reader) (*Schema, error) {
	var f schemaFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding schema: %w", err)
	}
	s := NewSchema(f.Name)
	for _, af := range f.Attributes {
		if af.Name == "" {
			return nil, fmt.Errorf("attribute without name")
		}
		if s.index(af.Name) >= 0 {
			return nil, fmt.Errorf("duplicate attribute %q", af.Name)
		}
		kind, ok := ParseKind(af.Kind)
		if !ok {
			return nil, fmt.Errorf("attribute %q: unknown kind %q", af.Name, af.Kind)
		}
		def, err := DecodeValue(kind, &af.Default)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", af.Name, err)
		}
		s.Add(Attribute{Name: af.Name, Kind: kind, Default: Const(def)})
	}
	return s, nil
}

// DecodeValue decodes a YAML node as a value of the given kind. Scalars are
// numbers, vectors are sequences of three numbers. An empty node decodes to
// the zero value.
func DecodeValue(kind Kind, node *yaml.Node) (Value, error) {
	empty := node == nil || node.Kind == 0
	switch kind {
	case KindScalar:
		var f float64
		if !empty {
			if err := node.Decode(&f); err != nil {
				return Value{}, fmt.Errorf("decoding scalar: %w", err)
			}
		}
		return ScalarValue(f), nil
	case KindVector:
		var xs []float64
		if !empty {
			if err := node.Decode(&xs); err != nil {
				return Value{}, fmt.Errorf("decoding vector: %w", err)
			}
			if len(xs) != 3 {
				return Value{}, fmt.Errorf("vector has %d components, expected 3", len(xs))
			}
		} else {
			xs = []float64{0, 0, 0}
		}
		return VectorValue(V3(xs[0], xs[1], xs[2])), nil
	default:
		panic(fmt.Sprintf("invalid Kind %v", kind))
	}
}

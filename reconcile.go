package metaspline

import (
	"log/slog"
	"slices"
)

// UpdateSchema aligns the store's curves with schema.
//
// If schema has the same identity as the store's current schema, the update
// is incremental: curves are added for new attributes, seeded with the
// attribute's default, curves of removed attributes are dropped, and changed
// defaults are carried over to untouched points as by
// [Store.UpdateValuesOnUnmodifiedPoints]. Otherwise all curves are discarded
// and rebuilt from schema's defaults. A nil schema leaves the store without
// curves.
//
// Attributes without a usable default are skipped.
func (s *Store) UpdateSchema(schema *Schema) {
	if schema != nil && s.schema != nil && schema.ID() == s.schema.ID() {
		s.schema = schema
		attrs := s.usableAttributes()
		for _, attr := range attrs {
			if c, ok := s.curve(attr.name); ok {
				if c.kind() == attr.def.Kind {
					continue
				}
				s.log.Debug("metaspline: attribute changed kind",
					slog.String("attribute", attr.name),
					slog.String("from", c.kind().String()),
					slog.String("to", attr.def.Kind.String()))
				s.removeCurve(attr.name)
			}
			s.addCurve(attr.name, attr.def)
		}
		for _, name := range slices.Clone(s.order) {
			if !slices.ContainsFunc(attrs, func(attr resolvedAttribute) bool { return attr.name == name }) {
				s.removeCurve(name)
			}
		}
		// follow the schema's order, not the order curves were created in
		s.order = s.order[:0]
		for _, attr := range attrs {
			s.order = append(s.order, attr.name)
		}
		s.UpdateValuesOnUnmodifiedPoints()
		return
	}

	s.clearCurves()
	s.schema = schema
	if schema == nil {
		return
	}
	for attr := range schema.Attributes() {
		if _, ok := s.curve(attr.Name); ok {
			continue
		}
		if def, ok := s.resolveDefault(attr); ok {
			s.addCurve(attr.Name, def)
		}
	}
}

type resolvedAttribute struct {
	name string
	def  Value
}

// usableAttributes returns the attributes of the current schema that have a
// valid default, in schema order. For duplicate names, the first attribute
// wins.
func (s *Store) usableAttributes() []resolvedAttribute {
	var out []resolvedAttribute
	for attr := range s.schema.Attributes() {
		if slices.ContainsFunc(out, func(r resolvedAttribute) bool { return r.name == attr.Name }) {
			continue
		}
		if def, ok := s.resolveDefault(attr); ok {
			out = append(out, resolvedAttribute{name: attr.Name, def: def})
		}
	}
	return out
}

// resolveDefault returns attr's current default, if it has a usable one.
func (s *Store) resolveDefault(attr Attribute) (Value, bool) {
	if attr.Default == nil {
		s.log.Warn("metaspline: skipping attribute without default",
			slog.String("schema", s.schema.Name()),
			slog.String("attribute", attr.Name))
		return Value{}, false
	}
	def := attr.Default()
	if def.Kind != attr.Kind {
		s.log.Warn("metaspline: skipping attribute with mismatched default",
			slog.String("schema", s.schema.Name()),
			slog.String("attribute", attr.Name),
			slog.String("kind", attr.Kind.String()),
			slog.String("default_kind", def.Kind.String()))
		return Value{}, false
	}
	return def, true
}

// UpdateValuesOnUnmodifiedPoints propagates changed attribute defaults to
// points that still hold the previous default. Points whose values were
// edited keep them.
func (s *Store) UpdateValuesOnUnmodifiedPoints() {
	if s.schema == nil {
		return
	}
	for name, c := range s.curves() {
		attr, ok := s.schema.Lookup(name)
		if !ok {
			continue
		}
		def, ok := s.resolveDefault(attr)
		if !ok || def.Kind != c.kind() {
			continue
		}
		old, ok := s.defaults[name]
		if ok && !old.Equal(def) {
			n := c.replaceEqual(old, def)
			s.log.Debug("metaspline: default changed",
				slog.String("attribute", name),
				slog.String("old", old.String()),
				slog.String("new", def.String()),
				slog.Int("points", n))
		}
		s.defaults[name] = def
	}
}

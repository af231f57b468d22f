// Package metaspline attaches per-point metadata to splines. A spline's
// control points can carry any number of attributes, such as a speed, a
// width, or an up vector, and the metadata follows the points as they are
// inserted, removed, duplicated, and copied.
//
// # Schemas
//
// The set of attributes is described by a [Schema], an ordered list of
// [Attribute] values, each with a name, a [Kind], and a default. There are two
// kinds of attributes: scalars and 3D vectors ([Vec3]). Values of either kind
// are passed around as the tagged union [Value].
//
// Schemas have an identity. Adding or removing attributes, or changing their
// defaults, keeps the identity; [Schema.Redefine] creates a new one. Stores
// use the identity to tell a schema that evolved from a schema that was
// replaced.
//
// # Stores
//
// A [Store] holds one [Curve] per attribute, keyed by the attribute's name.
// Every curve has exactly one point per control point, and after
// [Store.Fixup], the key of every point equals its index.
//
// The owner of a store, usually the spline, calls [Store.Fixup] or
// [Store.Synchronize] whenever its number of points or its schema may have
// changed, and the point editing methods ([Store.InsertPoint],
// [Store.UpdatePoint], [Store.AddPoint], [Store.RemovePoint],
// [Store.DuplicatePoint], [Store.CopyPoint]) in response to edits of its
// points. These apply the same edit to every curve, so that curves never
// disagree on the number of points.
//
// When a schema evolves, [Store.UpdateSchema] adds and removes curves without
// touching the values of attributes that survive. When the default of an
// attribute changes, points that still hold the old default receive the new
// one, while points that were edited keep their values (see
// [Store.UpdateValuesOnUnmodifiedPoints]).
//
// Metadata is read with [Store.EvalAtKey] and its typed variants, which
// interpolate between points, or with [Store.EvalAtPointIndex].
//
// # Curves
//
// Curves interpolate between their points according to each point's
// [InterpMode]. The curve modes use cubic Hermite interpolation, with tangents
// maintained by [Curve.AutoSetTangents]. The curves of a closed spline are
// looped: past the last point, they interpolate back towards the first point,
// which they reach at the loop key (see [Curve.SetLoopKey]).
//
// # Concurrency
//
// Stores aren't safe for concurrent use. Callers that share a store between
// goroutines have to synchronize access themselves.
package metaspline

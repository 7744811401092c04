// Package records converts annotation layers to and from their record
// form: one flat dictionary per span with "start", "end" and the span's
// attribute values, serialized as JSON.
//
// The record form is the interchange surface of the module. Pipelines
// that segment and lemmatize text elsewhere hand their output to
// [ParseLayer]; [Encoder] writes layers and whole texts back out, and
// [FormatMatch] renders a grammar match tree as indented JSON.
//
// Attribute and layer names are used as JSON keys verbatim and must not
// contain the path metacharacters '.', '*' or '?'; encoding rejects
// such names with [ErrBadName].
package records

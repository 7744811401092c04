// Package layer provides the span and layer types that form the substrate
// for text annotation.
//
// A [Span] is a half-open byte range over a text, carrying one or more
// annotations (attribute name to value maps). A [Layer] is a named,
// ordered collection of spans with a declared attribute list.
//
// # Structural layers
//
// Layers can be structurally linked to one another:
//
//   - A layer with a Parent aligns each of its spans with a span of the
//     parent layer (same byte range, different attributes).
//   - An Enveloping layer groups consecutive spans of the enveloped layer
//     into larger units; each enveloping span covers its children.
//
// A layer marked Ambiguous may attach several alternative annotations to
// a single span.
//
// Spans within a layer are kept sorted by (Start, End). Adding a span
// with invalid bounds fails with [ErrInvalidSpan].
package layer

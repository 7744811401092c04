// Package layerops provides operations over annotation layers and texts:
// conflict resolution between overlapping spans, excerpting a text slice
// with its layers remapped, splitting a text by the spans of a layer,
// and grapheme-cluster-safe span adjustment.
package layerops

package layer

// Annotation maps attribute names to values for a single span.
type Annotation map[string]interface{}

// Clone returns a shallow copy of the annotation.
func (a Annotation) Clone() Annotation {
	if a == nil {
		return nil
	}
	out := make(Annotation, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Span is a half-open byte range [Start, End) over a text, together with
// its annotations. A span on an unambiguous layer carries exactly one
// annotation; on an ambiguous layer it may carry several alternatives.
type Span struct {
	Start int
	End   int

	// Annotations holds the attribute values attached to this span.
	// For spans created without explicit attributes it is empty.
	Annotations []Annotation

	// Children holds the enveloped spans, in order. It is non-nil only
	// for spans of an enveloping layer.
	Children []*Span
}

// NewSpan creates a span over [start, end) with no annotations.
func NewSpan(start, end int) *Span {
	return &Span{Start: start, End: end}
}

// Len returns the length of the span in bytes.
func (s *Span) Len() int {
	return s.End - s.Start
}

// Text returns the slice of raw covered by the span. It panics if the
// span is out of bounds; spans accepted by a layer are always in bounds
// for that layer's text.
func (s *Span) Text(raw string) string {
	return raw[s.Start:s.End]
}

// Attribute returns the value of the named attribute from the first
// annotation, or nil if the span has no annotations or the attribute is
// absent.
func (s *Span) Attribute(name string) interface{} {
	if len(s.Annotations) == 0 {
		return nil
	}
	return s.Annotations[0][name]
}

// Values returns every value the named attribute takes across the span's
// annotations. Absent attributes contribute nil entries so the result
// stays aligned with Annotations.
func (s *Span) Values(name string) []interface{} {
	out := make([]interface{}, len(s.Annotations))
	for i, ann := range s.Annotations {
		out[i] = ann[name]
	}
	return out
}

// Overlaps reports whether the span overlaps [start, end).
func (s *Span) Overlaps(start, end int) bool {
	return s.Start < end && start < s.End
}

// Within reports whether the span lies entirely inside [start, end).
func (s *Span) Within(start, end int) bool {
	return start <= s.Start && s.End <= end
}

// clone deep-copies the span, excluding children (the caller remaps
// structural links itself).
func (s *Span) clone() *Span {
	out := &Span{Start: s.Start, End: s.End}
	if len(s.Annotations) > 0 {
		out.Annotations = make([]Annotation, len(s.Annotations))
		for i, ann := range s.Annotations {
			out.Annotations[i] = ann.Clone()
		}
	}
	return out
}

package layer

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrInvalidSpan indicates a span with negative or inverted bounds.
	ErrInvalidSpan = errors.New("layer: invalid span bounds")
	// ErrNotAmbiguous indicates an attempt to attach several annotations
	// to a span of an unambiguous layer.
	ErrNotAmbiguous = errors.New("layer: multiple annotations on unambiguous layer")
	// ErrSpanNotFound indicates a lookup for a span the layer does not contain.
	ErrSpanNotFound = errors.New("layer: span not found")
)

// Layer is a named, ordered collection of annotated spans over a text.
type Layer struct {
	name string

	// Attributes declares the attribute names spans of this layer carry.
	Attributes []string

	// Parent names the layer each span of this layer aligns with, or is
	// empty for independent layers.
	Parent string

	// Enveloping names the layer whose spans this layer groups, or is
	// empty for flat layers.
	Enveloping string

	// Ambiguous allows spans to carry several alternative annotations.
	Ambiguous bool

	spans []*Span
}

// New creates an empty layer with the given name.
func New(name string) *Layer {
	return &Layer{name: name}
}

// Name returns the layer's name.
func (l *Layer) Name() string { return l.name }

// WithAttributes declares the layer's attribute names and returns the
// layer for chaining.
func (l *Layer) WithAttributes(attrs ...string) *Layer {
	l.Attributes = attrs
	return l
}

// WithParent links the layer to a parent layer and returns the layer
// for chaining.
func (l *Layer) WithParent(name string) *Layer {
	l.Parent = name
	return l
}

// WithEnveloping marks the layer as enveloping the named layer and
// returns the layer for chaining.
func (l *Layer) WithEnveloping(name string) *Layer {
	l.Enveloping = name
	return l
}

// WithAmbiguous allows multiple annotations per span and returns the
// layer for chaining.
func (l *Layer) WithAmbiguous() *Layer {
	l.Ambiguous = true
	return l
}

// Len returns the number of spans in the layer.
func (l *Layer) Len() int { return len(l.spans) }

// Spans returns the layer's spans, sorted by (Start, End). The returned
// slice is the layer's own; callers must not modify it.
func (l *Layer) Spans() []*Span { return l.spans }

// AddSpan inserts a span, keeping spans sorted by (Start, End).
// Bounds must satisfy 0 <= Start < End; a span with several annotations
// is rejected unless the layer is ambiguous.
func (l *Layer) AddSpan(s *Span) error {
	if s.Start < 0 || s.End <= s.Start {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidSpan, s.Start, s.End)
	}
	if len(s.Annotations) > 1 && !l.Ambiguous {
		return fmt.Errorf("%w: %q", ErrNotAmbiguous, l.name)
	}
	i := sort.Search(len(l.spans), func(i int) bool {
		o := l.spans[i]
		return o.Start > s.Start || (o.Start == s.Start && o.End >= s.End)
	})
	l.spans = append(l.spans, nil)
	copy(l.spans[i+1:], l.spans[i:])
	l.spans[i] = s
	return nil
}

// Mark adds a span over [start, end) carrying a single annotation.
// A nil annotation marks the range without attributes.
func (l *Layer) Mark(start, end int, ann Annotation) (*Span, error) {
	s := NewSpan(start, end)
	if ann != nil {
		s.Annotations = []Annotation{ann}
	}
	if err := l.AddSpan(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Annotate attaches an additional annotation to the span covering
// exactly [start, end). The layer must be ambiguous unless the span has
// no annotation yet.
func (l *Layer) Annotate(start, end int, ann Annotation) error {
	s := l.SpanAt(start, end)
	if s == nil {
		return fmt.Errorf("%w: [%d, %d) in %q", ErrSpanNotFound, start, end, l.name)
	}
	if len(s.Annotations) >= 1 && !l.Ambiguous {
		return fmt.Errorf("%w: %q", ErrNotAmbiguous, l.name)
	}
	s.Annotations = append(s.Annotations, ann)
	return nil
}

// SpanAt returns the first span covering exactly [start, end), or nil.
func (l *Layer) SpanAt(start, end int) *Span {
	for _, s := range l.spansFrom(start) {
		if s.Start > start {
			return nil
		}
		if s.Start == start && s.End == end {
			return s
		}
	}
	return nil
}

// SpansWithin returns the spans lying entirely inside [start, end).
func (l *Layer) SpansWithin(start, end int) []*Span {
	var out []*Span
	for _, s := range l.spans {
		if s.Start >= end {
			break
		}
		if s.Within(start, end) {
			out = append(out, s)
		}
	}
	return out
}

// SpansOverlapping returns the spans overlapping [start, end).
func (l *Layer) SpansOverlapping(start, end int) []*Span {
	var out []*Span
	for _, s := range l.spans {
		if s.Start >= end {
			break
		}
		if s.Overlaps(start, end) {
			out = append(out, s)
		}
	}
	return out
}

// AttributeValues returns the named attribute's value for every span, in
// span order. On ambiguous layers only the first annotation of each span
// is consulted; use Span.Values for the alternatives.
func (l *Layer) AttributeValues(name string) AttributeList {
	out := make(AttributeList, len(l.spans))
	for i, s := range l.spans {
		out[i] = s.Attribute(name)
	}
	return out
}

// Texts returns the covered text of every span, in span order.
func (l *Layer) Texts(raw string) []string {
	out := make([]string, len(l.spans))
	for i, s := range l.spans {
		out[i] = s.Text(raw)
	}
	return out
}

// Clone deep-copies the layer. Children links of enveloping spans are
// not carried over; structural remapping is the caller's concern.
func (l *Layer) Clone() *Layer {
	out := &Layer{
		name:       l.name,
		Parent:     l.Parent,
		Enveloping: l.Enveloping,
		Ambiguous:  l.Ambiguous,
	}
	out.Attributes = append(out.Attributes, l.Attributes...)
	out.spans = make([]*Span, len(l.spans))
	for i, s := range l.spans {
		out.spans[i] = s.clone()
	}
	return out
}

// spansFrom returns the tail of spans whose Start is >= the first span
// position at or after start. Used for early-exit scans.
func (l *Layer) spansFrom(start int) []*Span {
	i := sort.Search(len(l.spans), func(i int) bool {
		return l.spans[i].Start >= start
	})
	return l.spans[i:]
}

package layerops

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tsawler/tessella"
	"github.com/tsawler/tessella/layer"
)

// ErrUnsupportedLayer indicates a layer whose structural configuration
// excerpting does not support.
var ErrUnsupportedLayer = errors.New("layerops: unsupported layer structure")

// ExcerptOptions configures Excerpt.
type ExcerptOptions struct {
	// Layers names the layers to carry over. Nil keeps every layer whose
	// structural dependencies are also kept.
	Layers []string

	// TrimOverlapping trims spans crossing the excerpt boundary to fit,
	// snapping trimmed bounds to grapheme cluster boundaries. When
	// false, boundary-crossing spans are dropped.
	TrimOverlapping bool
}

// Excerpt creates a new Text from the slice [start, end) of t, carrying
// over the selected layers with span offsets shifted. Spans outside the
// slice are dropped or trimmed per the options. Spans of a layer with a
// Parent are kept only while their aligned parent span survives;
// enveloping spans keep the surviving children.
//
// A layer with both Parent and Enveloping set is rejected with
// [ErrUnsupportedLayer].
func Excerpt(t *tessella.Text, start, end int, opts ExcerptOptions) (*tessella.Text, error) {
	if start < 0 || end > t.Len() || start > end {
		return nil, fmt.Errorf("layerops: excerpt bounds [%d, %d) outside text of length %d",
			start, end, t.Len())
	}

	keep := opts.Layers
	if keep == nil {
		keep = t.Layers()
	}
	ordered, err := orderByDependency(t, keep)
	if err != nil {
		return nil, err
	}

	out := tessella.New(t.Raw()[start:end])
	for _, name := range ordered {
		src, err := t.Layer(name)
		if err != nil {
			return nil, err
		}
		if src.Parent != "" && src.Enveloping != "" {
			return nil, fmt.Errorf("%w: %q has both parent and enveloping", ErrUnsupportedLayer, name)
		}
		dst, err := excerptLayer(t, out, src, start, end, opts.TrimOverlapping)
		if err != nil {
			return nil, err
		}
		if err := out.AddLayer(dst); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SplitBy slices the text into one excerpt per span of the named layer.
// When opts.Layers is nil, the carried layers default to the structural
// dependency closure of the split layer.
func SplitBy(t *tessella.Text, layerName string, opts ExcerptOptions) ([]*tessella.Text, error) {
	l, err := t.Layer(layerName)
	if err != nil {
		return nil, err
	}
	if opts.Layers == nil {
		opts.Layers = dependencyClosure(t, layerName)
	}
	out := make([]*tessella.Text, 0, l.Len())
	for _, s := range l.Spans() {
		ex, err := Excerpt(t, s.Start, s.End, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, nil
}

// excerptLayer remaps one layer into the excerpt text being built.
func excerptLayer(src *tessella.Text, dst *tessella.Text, l *layer.Layer, start, end int, trim bool) (*layer.Layer, error) {
	out := layer.New(l.Name()).WithAttributes(l.Attributes...)
	out.Parent = l.Parent
	out.Enveloping = l.Enveloping
	out.Ambiguous = l.Ambiguous

	var parent *layer.Layer
	if l.Parent != "" {
		var err error
		parent, err = dst.Layer(l.Parent)
		if err != nil {
			return nil, err
		}
	}
	var enveloped *layer.Layer
	if l.Enveloping != "" {
		var err error
		enveloped, err = dst.Layer(l.Enveloping)
		if err != nil {
			return nil, err
		}
	}

	for _, s := range l.Spans() {
		sStart, sEnd := s.Start, s.End
		if trim {
			sStart, sEnd = clampSpan(src.Raw(), sStart, sEnd, start, end)
			if sStart >= sEnd {
				continue
			}
		} else if !s.Within(start, end) {
			continue
		}

		ns := layer.NewSpan(sStart-start, sEnd-start)
		for _, ann := range s.Annotations {
			ns.Annotations = append(ns.Annotations, ann.Clone())
		}

		if parent != nil && parent.SpanAt(ns.Start, ns.End) == nil {
			continue
		}
		if enveloped != nil {
			ns.Children = enveloped.SpansWithin(ns.Start, ns.End)
			if len(ns.Children) == 0 {
				continue
			}
		}
		if err := out.AddSpan(ns); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// clampSpan trims [sStart, sEnd) to the excerpt window and snaps
// trimmed bounds to grapheme cluster boundaries.
func clampSpan(raw string, sStart, sEnd, start, end int) (int, int) {
	trimmed := false
	if sStart < start {
		sStart = start
		trimmed = true
	}
	if sEnd > end {
		sEnd = end
		trimmed = true
	}
	if trimmed && sStart < sEnd {
		sStart, sEnd = SnapSpan(raw, sStart, sEnd)
	}
	return sStart, sEnd
}

// dependencyClosure returns the named layer plus every layer it depends
// on structurally, directly or transitively. Parent links are followed
// in both directions, matching how aligned layers travel together.
func dependencyClosure(t *tessella.Text, name string) []string {
	reverse := make(map[string][]string)
	for _, ln := range t.Layers() {
		l, err := t.Layer(ln)
		if err != nil {
			continue
		}
		if l.Parent != "" {
			reverse[l.Parent] = append(reverse[l.Parent], ln)
		}
	}

	seen := map[string]bool{name: true}
	queue := []string{name}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		l, err := t.Layer(cur)
		if err != nil {
			continue
		}
		next := append([]string{}, reverse[cur]...)
		if l.Parent != "" {
			next = append(next, l.Parent)
		}
		if l.Enveloping != "" {
			next = append(next, l.Enveloping)
		}
		for _, n := range next {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}

	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// orderByDependency sorts layer names so parents and enveloped layers
// come before the layers referring to them. A kept layer whose
// dependency is not kept is an error.
func orderByDependency(t *tessella.Text, names []string) ([]string, error) {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}

	var ordered []string
	done := make(map[string]bool)
	visiting := make(map[string]bool)

	var visit func(string) error
	visit = func(n string) error {
		if done[n] {
			return nil
		}
		if visiting[n] {
			return fmt.Errorf("%w: dependency cycle through %q", ErrUnsupportedLayer, n)
		}
		visiting[n] = true
		l, err := t.Layer(n)
		if err != nil {
			return err
		}
		for _, dep := range []string{l.Parent, l.Enveloping} {
			if dep == "" {
				continue
			}
			if !keep[dep] {
				return fmt.Errorf("layerops: layer %q kept without its dependency %q", n, dep)
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		visiting[n] = false
		done[n] = true
		ordered = append(ordered, n)
		return nil
	}

	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	for _, n := range sorted {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}

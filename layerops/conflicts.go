package layerops

import (
	"sort"

	"github.com/tsawler/tessella/layer"
)

// Strategy selects how overlapping spans within a layer are resolved.
type Strategy int

const (
	// All keeps every span, overlaps included.
	All Strategy = iota
	// Max prefers longer spans: a span overlapping a longer kept span
	// is dropped.
	Max
	// Min prefers shorter spans: a span overlapping a shorter kept span
	// is dropped.
	Min
)

// String returns a human-readable representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case All:
		return "all"
	case Max:
		return "max"
	case Min:
		return "min"
	default:
		return "unknown"
	}
}

// ResolveConflicts returns a copy of the layer with overlapping spans
// resolved. Candidates are considered in preference order (length under
// Max and Min, earlier start on ties) and a candidate overlapping an
// already kept span is dropped. Under All the layer is returned
// unchanged (same copy semantics, no spans dropped).
func ResolveConflicts(l *layer.Layer, strategy Strategy) *layer.Layer {
	out := l.Clone()
	if strategy == All || l.Len() < 2 {
		return out
	}

	candidates := append([]*layer.Span(nil), out.Spans()...)
	sort.SliceStable(candidates, func(a, b int) bool {
		la, lb := candidates[a].Len(), candidates[b].Len()
		if la != lb {
			if strategy == Max {
				return la > lb
			}
			return la < lb
		}
		return candidates[a].Start < candidates[b].Start
	})

	var kept []*layer.Span
	for _, c := range candidates {
		conflict := false
		for _, k := range kept {
			if c.Overlaps(k.Start, k.End) {
				conflict = true
				break
			}
		}
		if !conflict {
			kept = append(kept, c)
		}
	}

	resolved := layer.New(l.Name()).WithAttributes(out.Attributes...)
	resolved.Parent = out.Parent
	resolved.Enveloping = out.Enveloping
	resolved.Ambiguous = out.Ambiguous
	for _, s := range kept {
		// Spans come from the clone; re-adding cannot fail.
		_ = resolved.AddSpan(s)
	}
	return resolved
}

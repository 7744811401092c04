package tagger

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tsawler/tessella"
	"github.com/tsawler/tessella/layer"
)

// ErrNoInputLayers indicates a GapTagger constructed without input layers.
var ErrNoInputLayers = errors.New("tagger: gap tagger has no input layers")

// GapTagger tags the maximal stretches of text covered by none of its
// input layers.
type GapTagger struct {
	// Output names the layer written. Required.
	Output string

	// Inputs names the layers whose spans cover text. Required.
	Inputs []string

	// Trim, when set, adjusts each gap before it is recorded. Returning
	// an empty or inverted range drops the gap. The gap's text is
	// raw[start:end].
	Trim func(raw string, start, end int) (int, int)

	// Decorator, when set, computes the attributes of each gap from its
	// (possibly trimmed) text. The gap text is never empty.
	Decorator func(gap string) layer.Annotation

	// OutputAttributes declares the attribute names of the output
	// layer. Leave unset for a layer with no declared attributes.
	OutputAttributes []string
}

// NewGapTagger returns a GapTagger writing the named layer from the
// given input layers.
func NewGapTagger(output string, inputs ...string) *GapTagger {
	return &GapTagger{Output: output, Inputs: inputs}
}

// OutputLayer implements tessella.Tagger.
func (gt *GapTagger) OutputLayer() string { return gt.Output }

// InputLayers implements tessella.Tagger.
func (gt *GapTagger) InputLayers() []string { return gt.Inputs }

// Tag implements tessella.Tagger.
func (gt *GapTagger) Tag(t *tessella.Text) error {
	if len(gt.Inputs) == 0 {
		return ErrNoInputLayers
	}

	// Collect covered ranges from every input layer and merge them.
	var covered [][2]int
	for _, name := range gt.Inputs {
		l, err := t.Layer(name)
		if err != nil {
			return err
		}
		for _, s := range l.Spans() {
			covered = append(covered, [2]int{s.Start, s.End})
		}
	}
	merged := mergeRanges(covered)

	out := layer.New(gt.Output).WithAttributes(gt.OutputAttributes...)

	pos := 0
	for i := 0; i <= len(merged); i++ {
		end := t.Len()
		if i < len(merged) {
			end = merged[i][0]
		}
		if err := gt.markGap(t, out, pos, end); err != nil {
			return err
		}
		if i < len(merged) {
			pos = merged[i][1]
		}
	}
	return t.AddLayer(out)
}

// markGap records the gap [start, end), applying Trim and Decorator.
func (gt *GapTagger) markGap(t *tessella.Text, out *layer.Layer, start, end int) error {
	if start >= end {
		return nil
	}
	if gt.Trim != nil {
		start, end = gt.Trim(t.Raw(), start, end)
		if start >= end {
			return nil
		}
	}
	var ann layer.Annotation
	if gt.Decorator != nil {
		ann = gt.Decorator(t.Raw()[start:end])
	}
	if _, err := out.Mark(start, end, ann); err != nil {
		return fmt.Errorf("tagger: marking gap [%d, %d): %w", start, end, err)
	}
	return nil
}

// mergeRanges sorts ranges and merges overlapping or touching ones.
func mergeRanges(ranges [][2]int) [][2]int {
	if len(ranges) == 0 {
		return nil
	}
	sort.Slice(ranges, func(a, b int) bool {
		if ranges[a][0] != ranges[b][0] {
			return ranges[a][0] < ranges[b][0]
		}
		return ranges[a][1] < ranges[b][1]
	})
	merged := [][2]int{ranges[0]}
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if r[0] <= last[1] {
			if r[1] > last[1] {
				last[1] = r[1]
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

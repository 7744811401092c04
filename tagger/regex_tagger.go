package tagger

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/tsawler/tessella"
	"github.com/tsawler/tessella/layer"
	"github.com/tsawler/tessella/layerops"
)

// ErrNoPatterns indicates a RegexTagger constructed without patterns.
var ErrNoPatterns = errors.New("tagger: regex tagger has no patterns")

// Pattern is one rule of a RegexTagger: a regular expression matched
// against the raw text. Named capture groups become attributes of the
// resulting span; Attributes supplies fixed attribute values attached
// to every match of the pattern.
type Pattern struct {
	Regexp     *regexp.Regexp
	Attributes layer.Annotation
}

// RegexTagger tags every non-overlapping occurrence of its patterns in
// the raw text, independent of any token segmentation.
type RegexTagger struct {
	// Output names the layer written. Required.
	Output string

	// Patterns holds the rules, tried in order on the raw text.
	Patterns []Pattern

	// Conflicts selects how spans from different patterns overlapping
	// each other are resolved. The zero value keeps every span.
	Conflicts layerops.Strategy
}

// NewRegexTagger returns a RegexTagger writing the named layer with
// longest-match conflict resolution.
func NewRegexTagger(output string, patterns ...Pattern) *RegexTagger {
	return &RegexTagger{Output: output, Patterns: patterns, Conflicts: layerops.Max}
}

// OutputLayer implements tessella.Tagger.
func (rt *RegexTagger) OutputLayer() string { return rt.Output }

// InputLayers implements tessella.Tagger. A RegexTagger reads only the
// raw text.
func (rt *RegexTagger) InputLayers() []string { return nil }

// Tag implements tessella.Tagger.
func (rt *RegexTagger) Tag(t *tessella.Text) error {
	if len(rt.Patterns) == 0 {
		return ErrNoPatterns
	}

	attrs := rt.attributeNames()
	out := layer.New(rt.Output).WithAttributes(attrs...)

	for _, p := range rt.Patterns {
		names := p.Regexp.SubexpNames()
		for _, idx := range p.Regexp.FindAllStringSubmatchIndex(t.Raw(), -1) {
			if idx[0] == idx[1] {
				continue
			}
			ann := layer.Annotation{}
			for k, v := range p.Attributes {
				ann[k] = v
			}
			for g, name := range names {
				if name == "" || idx[2*g] < 0 {
					continue
				}
				ann[name] = t.Raw()[idx[2*g]:idx[2*g+1]]
			}
			if _, err := out.Mark(idx[0], idx[1], ann); err != nil {
				return fmt.Errorf("tagger: marking regex match [%d, %d): %w", idx[0], idx[1], err)
			}
		}
	}

	if rt.Conflicts != layerops.All {
		out = layerops.ResolveConflicts(out, rt.Conflicts)
	}
	return t.AddLayer(out)
}

// attributeNames collects the distinct attribute names the patterns can
// produce: fixed attributes plus named capture groups.
func (rt *RegexTagger) attributeNames() []string {
	seen := map[string]bool{}
	var out []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, p := range rt.Patterns {
		for k := range p.Attributes {
			add(k)
		}
		for _, name := range p.Regexp.SubexpNames() {
			add(name)
		}
	}
	return out
}

package grammar

import "sort"

// Matches returns every match of sym in the input, at every token
// position. Matches are ordered by start offset, longest first among
// matches sharing a start. Overlapping matches are all reported.
func Matches(sym Symbol, in *Input) []*Match {
	var out []*Match
	for i := range in.Tokens {
		for _, r := range sym.MatchAt(in, i) {
			out = append(out, r.Match)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Start != out[b].Start {
			return out[a].Start < out[b].Start
		}
		return out[a].End > out[b].End
	})
	return out
}

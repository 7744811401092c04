package grammar

import (
	"fmt"
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Symbol is a named pattern unit over a token sequence. Implementations
// must be stateless with respect to matching, so a symbol can be shared
// between goroutines and reused across inputs.
type Symbol interface {
	// Name returns the symbol's name. Anonymous symbols return "".
	Name() string
	// MatchAt returns every match of the symbol starting at token index
	// i, each paired with the index of the first unconsumed token.
	// A nil result means the symbol does not match at i.
	MatchAt(in *Input, i int) []Result
}

// fold canonicalizes a string for comparison: NFC normalization followed
// by Unicode case folding.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// RegexSymbol matches a single token whose surface text fully matches a
// regular expression.
type RegexSymbol struct {
	name string
	re   *regexp.Regexp
}

// Regex compiles pattern and returns a symbol matching any token whose
// entire surface text matches it.
func Regex(name, pattern string) (*RegexSymbol, error) {
	re, err := regexp.Compile(`\A(?:` + pattern + `)\z`)
	if err != nil {
		return nil, fmt.Errorf("grammar: symbol %q: %w", name, err)
	}
	return &RegexSymbol{name: name, re: re}, nil
}

// Name returns the symbol's name.
func (r *RegexSymbol) Name() string { return r.name }

// MatchAt implements Symbol.
func (r *RegexSymbol) MatchAt(in *Input, i int) []Result {
	if i >= len(in.Tokens) {
		return nil
	}
	tok := in.Tokens[i]
	if !r.re.MatchString(tok.Text) {
		return nil
	}
	return []Result{{
		Match: &Match{Name: r.name, Start: tok.Start, End: tok.End, Text: tok.Text},
		Next:  i + 1,
	}}
}

// LemmaSymbol matches a single token any of whose lemmas is in a fixed
// set. Comparison is NFC-normalized and case-folded.
type LemmaSymbol struct {
	name string
	set  map[string]struct{}
}

// Lemmas returns a symbol matching any token with at least one lemma in
// the given set.
func Lemmas(name string, lemmas ...string) *LemmaSymbol {
	set := make(map[string]struct{}, len(lemmas))
	for _, l := range lemmas {
		set[fold(l)] = struct{}{}
	}
	return &LemmaSymbol{name: name, set: set}
}

// Name returns the symbol's name.
func (l *LemmaSymbol) Name() string { return l.name }

// MatchAt implements Symbol.
func (l *LemmaSymbol) MatchAt(in *Input, i int) []Result {
	if i >= len(in.Tokens) {
		return nil
	}
	tok := in.Tokens[i]
	for _, lemma := range tok.Lemmas {
		if _, ok := l.set[fold(lemma)]; ok {
			return []Result{{
				Match: &Match{Name: l.name, Start: tok.Start, End: tok.End, Text: tok.Text},
				Next:  i + 1,
			}}
		}
	}
	return nil
}

// WordSymbol matches a single token whose surface form is in a fixed
// set. Comparison is NFC-normalized and case-folded.
type WordSymbol struct {
	name string
	set  map[string]struct{}
}

// Words returns a symbol matching any token whose surface form is in
// the given set.
func Words(name string, forms ...string) *WordSymbol {
	set := make(map[string]struct{}, len(forms))
	for _, f := range forms {
		set[fold(f)] = struct{}{}
	}
	return &WordSymbol{name: name, set: set}
}

// Name returns the symbol's name.
func (w *WordSymbol) Name() string { return w.name }

// MatchAt implements Symbol.
func (w *WordSymbol) MatchAt(in *Input, i int) []Result {
	if i >= len(in.Tokens) {
		return nil
	}
	tok := in.Tokens[i]
	if _, ok := w.set[fold(tok.Text)]; !ok {
		return nil
	}
	return []Result{{
		Match: &Match{Name: w.name, Start: tok.Start, End: tok.End, Text: tok.Text},
		Next:  i + 1,
	}}
}

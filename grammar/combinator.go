package grammar

import (
	"fmt"
	"regexp"
)

// defaultSeparator accepts any all-whitespace gap, including an empty one.
var defaultSeparator = regexp.MustCompile(`\A\s*\z`)

// Concatenation matches its component symbols in sequence. The raw text
// between the tokens consumed by consecutive components must fully
// match the separator pattern; the default separator accepts optional
// whitespace.
type Concatenation struct {
	name    string
	symbols []Symbol
	sep     *regexp.Regexp
}

// Concat composes symbols sequentially under the given name.
func Concat(name string, symbols ...Symbol) *Concatenation {
	return &Concatenation{name: name, symbols: symbols, sep: defaultSeparator}
}

// SetSeparator replaces the inter-token separator pattern. The pattern
// must fully match the raw text between consecutive consumed tokens.
func (c *Concatenation) SetSeparator(pattern string) error {
	re, err := regexp.Compile(`\A(?:` + pattern + `)\z`)
	if err != nil {
		return fmt.Errorf("grammar: symbol %q separator: %w", c.name, err)
	}
	c.sep = re
	return nil
}

// Name returns the symbol's name.
func (c *Concatenation) Name() string { return c.name }

// Symbols returns the component symbols, in match order.
func (c *Concatenation) Symbols() []Symbol { return c.symbols }

// MatchAt implements Symbol. Every combination of component matches is
// explored, so ambiguous components yield multiple results.
func (c *Concatenation) MatchAt(in *Input, i int) []Result {
	if len(c.symbols) == 0 {
		return nil
	}
	partials := c.extend(in, nil, i, 0)
	out := make([]Result, 0, len(partials))
	for _, p := range partials {
		first, last := p.subs[0], p.subs[len(p.subs)-1]
		out = append(out, Result{
			Match: &Match{
				Name:  c.name,
				Start: first.Start,
				End:   last.End,
				Text:  in.Raw[first.Start:last.End],
				Subs:  p.subs,
			},
			Next: p.next,
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

type partial struct {
	subs []*Match
	next int
}

// extend matches component k at token i, carrying the accumulated
// sub-matches, and recurses into the remaining components.
func (c *Concatenation) extend(in *Input, subs []*Match, i, k int) []partial {
	if k == len(c.symbols) {
		return []partial{{subs: subs, next: i}}
	}
	if i >= len(in.Tokens) {
		return nil
	}
	if k > 0 && !c.sep.MatchString(in.gap(i)) {
		return nil
	}
	var out []partial
	for _, r := range c.symbols[k].MatchAt(in, i) {
		next := append(append([]*Match(nil), subs...), r.Match)
		out = append(out, c.extend(in, next, r.Next, k+1)...)
	}
	return out
}

// UnionSymbol matches any one of its alternatives. A named union wraps
// the matching alternative as a sub-match; an anonymous union yields
// the alternative's match directly.
type UnionSymbol struct {
	name    string
	symbols []Symbol
}

// Union composes symbols by alternation under the given name. Pass an
// empty name for a transparent union.
func Union(name string, symbols ...Symbol) *UnionSymbol {
	return &UnionSymbol{name: name, symbols: symbols}
}

// Name returns the symbol's name.
func (u *UnionSymbol) Name() string { return u.name }

// Symbols returns the alternative symbols, in trial order.
func (u *UnionSymbol) Symbols() []Symbol { return u.symbols }

// MatchAt implements Symbol. Alternatives are tried in order and every
// successful alternative is reported.
func (u *UnionSymbol) MatchAt(in *Input, i int) []Result {
	var out []Result
	for _, sym := range u.symbols {
		for _, r := range sym.MatchAt(in, i) {
			if u.name == "" {
				out = append(out, r)
				continue
			}
			out = append(out, Result{
				Match: &Match{
					Name:  u.name,
					Start: r.Match.Start,
					End:   r.Match.End,
					Text:  r.Match.Text,
					Subs:  []*Match{r.Match},
				},
				Next: r.Next,
			})
		}
	}
	return out
}

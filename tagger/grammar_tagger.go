package tagger

import (
	"errors"
	"fmt"

	"github.com/tsawler/tessella"
	"github.com/tsawler/tessella/grammar"
	"github.com/tsawler/tessella/layer"
	"github.com/tsawler/tessella/layerops"
)

// ErrNoSymbol indicates a GrammarTagger constructed without a symbol.
var ErrNoSymbol = errors.New("tagger: grammar tagger has no symbol")

// GrammarTagger annotates a text with the matches of a grammar symbol.
// Tokens are read from an annotated word layer; each match becomes a
// span of the output layer, with one attribute per named sub-match
// holding the matched text.
type GrammarTagger struct {
	// Symbol is the grammar to match. Required.
	Symbol grammar.Symbol

	// Output names the layer written. Defaults to the symbol's name.
	Output string

	// WordsLayer names the token layer read. Defaults to "words".
	WordsLayer string

	// LemmaAttribute names the attribute holding a token's lemma on the
	// words layer. Defaults to "lemma".
	LemmaAttribute string

	// Conflicts selects how overlapping matches are resolved before the
	// layer is written. The zero value keeps every match; set
	// layerops.Max to mirror the usual longest-match annotation.
	Conflicts layerops.Strategy

	// Decorator, when set, computes extra attributes for each match.
	Decorator func(m *grammar.Match) layer.Annotation
}

// NewGrammarTagger returns a GrammarTagger for sym with longest-match
// conflict resolution, writing a layer named after the symbol.
func NewGrammarTagger(sym grammar.Symbol) *GrammarTagger {
	return &GrammarTagger{Symbol: sym, Conflicts: layerops.Max}
}

// OutputLayer implements tessella.Tagger.
func (gt *GrammarTagger) OutputLayer() string {
	if gt.Output != "" {
		return gt.Output
	}
	if gt.Symbol != nil {
		return gt.Symbol.Name()
	}
	return ""
}

// InputLayers implements tessella.Tagger.
func (gt *GrammarTagger) InputLayers() []string {
	return []string{gt.wordsLayer()}
}

func (gt *GrammarTagger) wordsLayer() string {
	if gt.WordsLayer != "" {
		return gt.WordsLayer
	}
	return "words"
}

func (gt *GrammarTagger) lemmaAttribute() string {
	if gt.LemmaAttribute != "" {
		return gt.LemmaAttribute
	}
	return "lemma"
}

// Tag implements tessella.Tagger. It tokenizes the words layer, runs
// the symbol, resolves conflicts and attaches the output layer.
func (gt *GrammarTagger) Tag(t *tessella.Text) error {
	if gt.Symbol == nil {
		return ErrNoSymbol
	}
	words, err := t.Layer(gt.wordsLayer())
	if err != nil {
		return err
	}
	in := gt.input(t.Raw(), words)

	attrs := namedSymbols(gt.Symbol)
	out := layer.New(gt.OutputLayer()).WithAttributes(attrs...)

	for _, m := range grammar.Matches(gt.Symbol, in) {
		ann := layer.Annotation{}
		for _, name := range attrs {
			if sub := m.Sub(name); sub != nil {
				ann[name] = sub.Text
			}
		}
		if gt.Decorator != nil {
			for k, v := range gt.Decorator(m) {
				ann[k] = v
			}
		}
		if _, err := out.Mark(m.Start, m.End, ann); err != nil {
			return fmt.Errorf("tagger: marking match [%d, %d): %w", m.Start, m.End, err)
		}
	}

	if gt.Conflicts != layerops.All {
		out = layerops.ResolveConflicts(out, gt.Conflicts)
	}
	return t.AddLayer(out)
}

// input converts the words layer into a grammar input. Every annotation
// of a span contributes its lemma, so ambiguous word layers yield
// tokens with alternative lemmas.
func (gt *GrammarTagger) input(raw string, words *layer.Layer) *grammar.Input {
	attr := gt.lemmaAttribute()
	tokens := make([]grammar.Token, 0, words.Len())
	for _, s := range words.Spans() {
		tok := grammar.Token{Start: s.Start, End: s.End, Text: s.Text(raw)}
		for _, v := range s.Values(attr) {
			if lemma, ok := v.(string); ok {
				tok.Lemmas = append(tok.Lemmas, lemma)
			}
		}
		tokens = append(tokens, tok)
	}
	return grammar.NewInput(raw, tokens)
}

// namedSymbols collects the distinct names reachable in the symbol
// tree, excluding the root's own name. These become the output layer's
// attribute names.
func namedSymbols(sym grammar.Symbol) []string {
	seen := map[string]bool{}
	var out []string
	var walk func(grammar.Symbol, bool)
	walk = func(s grammar.Symbol, root bool) {
		if !root {
			if name := s.Name(); name != "" && !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
		switch c := s.(type) {
		case interface{ Symbols() []grammar.Symbol }:
			for _, sub := range c.Symbols() {
				walk(sub, false)
			}
		}
	}
	walk(sym, true)
	return out
}

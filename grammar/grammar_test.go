package grammar

import (
	"testing"
)

// recipeInput builds the running example input: a short ingredient line
// with hand-segmented, hand-lemmatized tokens.
func recipeInput() *Input {
	raw := "2 pakki kohvi ja 500 g suhkrut"
	return NewInput(raw, []Token{
		{Start: 0, End: 1, Text: "2", Lemmas: []string{"2"}},
		{Start: 2, End: 7, Text: "pakki", Lemmas: []string{"pakk"}},
		{Start: 8, End: 13, Text: "kohvi", Lemmas: []string{"kohv"}},
		{Start: 14, End: 16, Text: "ja", Lemmas: []string{"ja"}},
		{Start: 17, End: 20, Text: "500", Lemmas: []string{"500"}},
		{Start: 21, End: 22, Text: "g", Lemmas: []string{"g"}},
		{Start: 23, End: 30, Text: "suhkrut", Lemmas: []string{"suhkur"}},
	})
}

func TestRegex_matchesWholeTokenOnly(t *testing.T) {
	num, err := Regex("number", `\d+`)
	if err != nil {
		t.Fatal(err)
	}

	in := recipeInput()
	got := Matches(num, in)
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2", len(got))
	}
	if got[0].Text != "2" || got[1].Text != "500" {
		t.Errorf("matched %q and %q, want 2 and 500", got[0].Text, got[1].Text)
	}

	// A pattern matching only part of a token must not match.
	part, err := Regex("part", `\d`)
	if err != nil {
		t.Fatal(err)
	}
	if got := Matches(part, in); len(got) != 1 || got[0].Text != "2" {
		t.Errorf("partial pattern matched %d tokens, want only the single-digit one", len(got))
	}
}

func TestRegex_badPattern(t *testing.T) {
	if _, err := Regex("broken", `(`); err == nil {
		t.Error("expected error for unbalanced pattern")
	}
}

func TestLemmas_usesAnalyses(t *testing.T) {
	unit := Lemmas("unit", "pakk", "g", "tl")
	in := recipeInput()

	got := Matches(unit, in)
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2", len(got))
	}
	// The surface form is "pakki" but the lemma "pakk" is what matched.
	if got[0].Text != "pakki" || got[0].Start != 2 || got[0].End != 7 {
		t.Errorf("first match = %q [%d, %d)", got[0].Text, got[0].Start, got[0].End)
	}
}

func TestLemmas_caseFolding(t *testing.T) {
	sym := Lemmas("ingredient", "Kohv")
	in := recipeInput()
	got := Matches(sym, in)
	if len(got) != 1 || got[0].Text != "kohvi" {
		t.Fatalf("folded lemma comparison failed: %v", got)
	}
}

func TestLemmas_ambiguousToken(t *testing.T) {
	in := NewInput("vala", []Token{
		{Start: 0, End: 4, Text: "vala", Lemmas: []string{"vala", "valama"}},
	})
	sym := Lemmas("verb", "valama")
	if got := Matches(sym, in); len(got) != 1 {
		t.Fatalf("got %d matches, want 1", len(got))
	}
}

func TestWords_surfaceForms(t *testing.T) {
	sym := Words("conj", "ja", "ning")
	got := Matches(sym, recipeInput())
	if len(got) != 1 || got[0].Text != "ja" {
		t.Fatalf("got %v", got)
	}
}

func TestConcat_adjacentTokens(t *testing.T) {
	num, err := Regex("amount", `\d+`)
	if err != nil {
		t.Fatal(err)
	}
	unit := Lemmas("unit", "pakk", "g")
	quantity := Concat("quantity", num, unit)

	got := Matches(quantity, recipeInput())
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2", len(got))
	}

	first := got[0]
	if first.Start != 0 || first.End != 7 || first.Text != "2 pakki" {
		t.Errorf("first match = %q [%d, %d)", first.Text, first.Start, first.End)
	}
	if sub := first.Sub("amount"); sub == nil || sub.Text != "2" {
		t.Errorf("amount sub-match = %v", sub)
	}
	if sub := first.Sub("unit"); sub == nil || sub.Text != "pakki" {
		t.Errorf("unit sub-match = %v", sub)
	}

	second := got[1]
	if second.Text != "500 g" {
		t.Errorf("second match = %q", second.Text)
	}
}

func TestConcat_separatorRejectsInterveningText(t *testing.T) {
	raw := "2, pakki"
	in := NewInput(raw, []Token{
		{Start: 0, End: 1, Text: "2"},
		{Start: 3, End: 8, Text: "pakki", Lemmas: []string{"pakk"}},
	})

	num, err := Regex("amount", `\d+`)
	if err != nil {
		t.Fatal(err)
	}
	unit := Lemmas("unit", "pakk")

	// Default separator accepts whitespace only; the comma blocks it.
	quantity := Concat("quantity", num, unit)
	if got := Matches(quantity, in); len(got) != 0 {
		t.Fatalf("default separator matched across a comma: %v", got)
	}

	// A custom separator admitting punctuation allows the match.
	loose := Concat("quantity", num, unit)
	if err := loose.SetSeparator(`[,\s]*`); err != nil {
		t.Fatal(err)
	}
	if got := Matches(loose, in); len(got) != 1 {
		t.Fatalf("custom separator got %d matches, want 1", len(got))
	}
}

func TestConcat_setSeparatorBadPattern(t *testing.T) {
	c := Concat("x")
	if err := c.SetSeparator(`[`); err == nil {
		t.Error("expected error for unbalanced separator pattern")
	}
}

func TestUnion_namedWrapsAlternative(t *testing.T) {
	in := recipeInput()
	num, err := Regex("number", `\d+`)
	if err != nil {
		t.Fatal(err)
	}
	conj := Words("conj", "ja")

	named := Union("item", num, conj)
	got := Matches(named, in)
	if len(got) != 3 {
		t.Fatalf("got %d matches, want 3", len(got))
	}
	for _, m := range got {
		if m.Name != "item" {
			t.Errorf("match name = %q, want item", m.Name)
		}
		if len(m.Subs) != 1 {
			t.Errorf("named union should wrap one alternative, got %d", len(m.Subs))
		}
	}

	transparent := Union("", num, conj)
	got = Matches(transparent, in)
	if len(got) != 3 {
		t.Fatalf("got %d matches, want 3", len(got))
	}
	if got[0].Name != "number" {
		t.Errorf("transparent union renamed match to %q", got[0].Name)
	}
}

func TestNestedGrammar_fullExtraction(t *testing.T) {
	in := recipeInput()

	amount, err := Regex("amount", `\d+(?:[.,]\d+)?`)
	if err != nil {
		t.Fatal(err)
	}
	unit := Lemmas("unit", "pakk", "g", "tl", "dl")
	ingredient := Lemmas("ingredient", "kohv", "suhkur", "jahu")

	entry := Concat("entry", Concat("quantity", amount, unit), ingredient)

	got := Matches(entry, in)
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2", len(got))
	}

	m := got[0].Map()
	if m["start"] != 0 || m["end"] != 13 || m["text"] != "2 pakki kohvi" {
		t.Errorf("unexpected map %v", m)
	}
	q, ok := m["quantity"].(map[string]interface{})
	if !ok {
		t.Fatalf("quantity missing from %v", m)
	}
	if q["text"] != "2 pakki" {
		t.Errorf("quantity text = %v", q["text"])
	}
	a, ok := q["amount"].(map[string]interface{})
	if !ok || a["text"] != "2" {
		t.Errorf("amount = %v", q["amount"])
	}
	ing, ok := m["ingredient"].(map[string]interface{})
	if !ok || ing["text"] != "kohvi" {
		t.Errorf("ingredient = %v", m["ingredient"])
	}
}

func TestMatches_ordering(t *testing.T) {
	in := recipeInput()
	num, err := Regex("n", `\d+`)
	if err != nil {
		t.Fatal(err)
	}
	unit := Lemmas("u", "pakk", "g")
	pair := Concat("pair", num, unit)
	any := Union("", pair, num)

	got := Matches(any, in)
	// At offset 0 both "2 pakki" and "2" match; the longer comes first.
	if len(got) != 4 {
		t.Fatalf("got %d matches, want 4", len(got))
	}
	if got[0].Text != "2 pakki" || got[1].Text != "2" {
		t.Errorf("ordering wrong: %q then %q", got[0].Text, got[1].Text)
	}
}

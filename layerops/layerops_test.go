package layerops

import (
	"errors"
	"testing"

	"github.com/tsawler/tessella"
	"github.com/tsawler/tessella/layer"
)

func mustMark(t *testing.T, l *layer.Layer, start, end int, ann layer.Annotation) {
	t.Helper()
	if _, err := l.Mark(start, end, ann); err != nil {
		t.Fatalf("Mark(%d, %d) failed: %v", start, end, err)
	}
}

func TestStrategy_String(t *testing.T) {
	tests := []struct {
		s    Strategy
		want string
	}{
		{All, "all"},
		{Max, "max"},
		{Min, "min"},
		{Strategy(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Strategy(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestResolveConflicts(t *testing.T) {
	build := func() *layer.Layer {
		l := layer.New("matches")
		mustMark(t, l, 0, 7, nil)
		mustMark(t, l, 0, 1, nil)
		mustMark(t, l, 5, 9, nil)
		mustMark(t, l, 12, 14, nil)
		return l
	}

	t.Run("all keeps everything", func(t *testing.T) {
		got := ResolveConflicts(build(), All)
		if got.Len() != 4 {
			t.Errorf("kept %d spans, want 4", got.Len())
		}
	})

	t.Run("max prefers longer", func(t *testing.T) {
		got := ResolveConflicts(build(), Max)
		want := [][2]int{{0, 7}, {12, 14}}
		spans := got.Spans()
		if len(spans) != len(want) {
			t.Fatalf("kept %d spans, want %d", len(spans), len(want))
		}
		for i, w := range want {
			if spans[i].Start != w[0] || spans[i].End != w[1] {
				t.Errorf("span %d = [%d, %d), want [%d, %d)", i, spans[i].Start, spans[i].End, w[0], w[1])
			}
		}
	})

	t.Run("min prefers shorter", func(t *testing.T) {
		got := ResolveConflicts(build(), Min)
		want := [][2]int{{0, 1}, {5, 9}, {12, 14}}
		spans := got.Spans()
		if len(spans) != len(want) {
			t.Fatalf("kept %d spans, want %d", len(spans), len(want))
		}
		for i, w := range want {
			if spans[i].Start != w[0] || spans[i].End != w[1] {
				t.Errorf("span %d = [%d, %d), want [%d, %d)", i, spans[i].Start, spans[i].End, w[0], w[1])
			}
		}
	})

	t.Run("does not mutate input", func(t *testing.T) {
		l := build()
		ResolveConflicts(l, Max)
		if l.Len() != 4 {
			t.Errorf("input layer mutated: %d spans", l.Len())
		}
	})
}

func TestSnapSpan(t *testing.T) {
	// "e" + COMBINING ACUTE forms one grapheme cluster over 3 bytes.
	raw := "ab" + "é" + "cd"

	tests := []struct {
		name               string
		start, end         int
		wantStart, wantEnd int
	}{
		{"already aligned", 0, 2, 0, 2},
		{"start inside cluster", 3, 7, 5, 7},
		{"end inside cluster", 0, 4, 0, 2},
		{"collapses", 3, 4, 5, 5},
		{"clamped to text", -2, 99, 0, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStart, gotEnd := SnapSpan(raw, tt.start, tt.end)
			if gotStart != tt.wantStart || gotEnd != tt.wantEnd {
				t.Errorf("SnapSpan(%d, %d) = (%d, %d), want (%d, %d)",
					tt.start, tt.end, gotStart, gotEnd, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

// excerptFixture builds a text with words, a morph layer aligned to the
// words, and a clauses layer enveloping them.
func excerptFixture(t *testing.T) *tessella.Text {
	t.Helper()
	raw := "vala vesi kannu ja oota"
	txt := tessella.New(raw)

	words := layer.New("words").WithAttributes("lemma")
	bounds := [][2]int{{0, 4}, {5, 9}, {10, 15}, {16, 18}, {19, 23}}
	lemmas := []string{"valama", "vesi", "kann", "ja", "ootama"}
	for i, b := range bounds {
		mustMark(t, words, b[0], b[1], layer.Annotation{"lemma": lemmas[i]})
	}
	if err := txt.AddLayer(words); err != nil {
		t.Fatal(err)
	}

	morph := layer.New("morph").WithParent("words").WithAttributes("pos")
	for i, b := range bounds {
		pos := "S"
		if i == 0 || i == 4 {
			pos = "V"
		}
		mustMark(t, morph, b[0], b[1], layer.Annotation{"pos": pos})
	}
	if err := txt.AddLayer(morph); err != nil {
		t.Fatal(err)
	}

	clauses := layer.New("clauses").WithEnveloping("words")
	mustMark(t, clauses, 0, 15, nil)
	mustMark(t, clauses, 19, 23, nil)
	if err := txt.AddLayer(clauses); err != nil {
		t.Fatal(err)
	}
	return txt
}

func TestExcerpt(t *testing.T) {
	txt := excerptFixture(t)

	ex, err := Excerpt(txt, 5, 18, ExcerptOptions{})
	if err != nil {
		t.Fatalf("Excerpt failed: %v", err)
	}
	if ex.Raw() != "vesi kannu ja" {
		t.Fatalf("excerpt raw = %q", ex.Raw())
	}

	words, err := ex.Layer("words")
	if err != nil {
		t.Fatal(err)
	}
	if words.Len() != 3 {
		t.Fatalf("words kept %d spans, want 3", words.Len())
	}
	if got := words.Spans()[0]; got.Start != 0 || got.End != 4 || got.Attribute("lemma") != "vesi" {
		t.Errorf("first word = [%d, %d) lemma %v", got.Start, got.End, got.Attribute("lemma"))
	}

	morph, err := ex.Layer("morph")
	if err != nil {
		t.Fatal(err)
	}
	if morph.Len() != 3 {
		t.Errorf("morph kept %d spans, want 3", morph.Len())
	}

	// The clause [0, 15) crosses the excerpt start, so it is dropped.
	clauses, err := ex.Layer("clauses")
	if err != nil {
		t.Fatal(err)
	}
	if clauses.Len() != 0 {
		t.Errorf("clauses kept %d spans, want 0", clauses.Len())
	}
}

func TestExcerpt_trimOverlapping(t *testing.T) {
	txt := excerptFixture(t)

	ex, err := Excerpt(txt, 5, 18, ExcerptOptions{TrimOverlapping: true})
	if err != nil {
		t.Fatalf("Excerpt failed: %v", err)
	}

	clauses, err := ex.Layer("clauses")
	if err != nil {
		t.Fatal(err)
	}
	if clauses.Len() != 1 {
		t.Fatalf("clauses kept %d spans, want 1", clauses.Len())
	}
	c := clauses.Spans()[0]
	if c.Start != 0 || c.End != 10 {
		t.Errorf("trimmed clause = [%d, %d), want [0, 10)", c.Start, c.End)
	}
	if len(c.Children) != 2 {
		t.Errorf("trimmed clause envelops %d words, want 2", len(c.Children))
	}
}

func TestExcerpt_errors(t *testing.T) {
	txt := excerptFixture(t)

	t.Run("bad bounds", func(t *testing.T) {
		if _, err := Excerpt(txt, -1, 5, ExcerptOptions{}); err == nil {
			t.Error("expected error for negative start")
		}
		if _, err := Excerpt(txt, 0, 1000, ExcerptOptions{}); err == nil {
			t.Error("expected error for end past text")
		}
	})

	t.Run("dependency not kept", func(t *testing.T) {
		_, err := Excerpt(txt, 0, 10, ExcerptOptions{Layers: []string{"morph"}})
		if err == nil {
			t.Error("expected error keeping morph without words")
		}
	})

	t.Run("parent plus enveloping", func(t *testing.T) {
		bad := layer.New("bad").WithParent("words").WithEnveloping("words")
		if err := txt.AddLayer(bad); err != nil {
			t.Fatal(err)
		}
		_, err := Excerpt(txt, 0, 10, ExcerptOptions{})
		if !errors.Is(err, ErrUnsupportedLayer) {
			t.Errorf("got %v, want ErrUnsupportedLayer", err)
		}
	})
}

func TestSplitBy(t *testing.T) {
	txt := excerptFixture(t)

	parts, err := SplitBy(txt, "clauses", ExcerptOptions{})
	if err != nil {
		t.Fatalf("SplitBy failed: %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("got %d parts, want 2", len(parts))
	}

	if parts[0].Raw() != "vala vesi kannu" {
		t.Errorf("first part raw = %q", parts[0].Raw())
	}
	if parts[1].Raw() != "oota" {
		t.Errorf("second part raw = %q", parts[1].Raw())
	}

	// The closure of "clauses" pulls in words, and morph follows its
	// parent words.
	for _, name := range []string{"clauses", "words", "morph"} {
		if !parts[0].HasLayer(name) {
			t.Errorf("first part missing layer %q", name)
		}
	}

	words, err := parts[0].Layer("words")
	if err != nil {
		t.Fatal(err)
	}
	if words.Len() != 3 {
		t.Errorf("first part words = %d, want 3", words.Len())
	}
}

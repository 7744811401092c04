package grammar

// Match is one node of a match tree: the byte span a symbol matched,
// the covered text, and the matches of its component symbols in order.
type Match struct {
	// Name is the symbol's name; anonymous symbols produce nodes with
	// an empty name.
	Name string

	Start int
	End   int
	Text  string

	// Subs holds the component matches, in match order. Leaf symbols
	// have no subs.
	Subs []*Match
}

// Result is one way a symbol matched at a token position: the match
// tree and the index of the first token not consumed by it.
type Result struct {
	Match *Match
	Next  int
}

// Sub returns the first named descendant match with the given name, in
// depth-first order, or nil.
func (m *Match) Sub(name string) *Match {
	for _, s := range m.Subs {
		if s.Name == name {
			return s
		}
		if found := s.Sub(name); found != nil {
			return found
		}
	}
	return nil
}

// Map renders the match as a nested dictionary: "start", "end" and
// "text" keys, plus one key per named sub-match. Anonymous intermediate
// nodes are transparent: their named descendants surface at this level.
// When several sub-matches share a name, the first wins.
func (m *Match) Map() map[string]interface{} {
	out := map[string]interface{}{
		"start": m.Start,
		"end":   m.End,
		"text":  m.Text,
	}
	m.collectNamed(out)
	return out
}

func (m *Match) collectNamed(out map[string]interface{}) {
	for _, s := range m.Subs {
		if s.Name != "" {
			if _, ok := out[s.Name]; !ok {
				out[s.Name] = s.Map()
			}
			continue
		}
		s.collectNamed(out)
	}
}

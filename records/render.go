package records

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/pretty"

	"github.com/tsawler/tessella/grammar"
)

// FormatMatch renders a grammar match tree as indented JSON in its
// dictionary form: "start", "end", "text" and one key per named
// sub-match, nested.
func FormatMatch(m *grammar.Match) ([]byte, error) {
	b, err := json.Marshal(m.Map())
	if err != nil {
		return nil, fmt.Errorf("records: rendering match: %w", err)
	}
	return pretty.Pretty(b), nil
}

// FormatMatches renders several matches as one indented JSON array.
func FormatMatches(matches []*grammar.Match) ([]byte, error) {
	maps := make([]map[string]interface{}, len(matches))
	for i, m := range matches {
		maps[i] = m.Map()
	}
	b, err := json.Marshal(maps)
	if err != nil {
		return nil, fmt.Errorf("records: rendering matches: %w", err)
	}
	return pretty.Pretty(b), nil
}

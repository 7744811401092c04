package grammar

// Token is one annotated unit of an input sequence: a surface form with
// its byte span in the raw text and zero or more lemma analyses.
type Token struct {
	Start  int
	End    int
	Text   string
	Lemmas []string
}

// Input is a raw text together with its token sequence. Tokens must be
// ordered by Start and must not overlap; the text between consecutive
// tokens is what Concat separators match against.
type Input struct {
	Raw    string
	Tokens []Token
}

// NewInput builds an Input over raw from pre-segmented tokens.
func NewInput(raw string, tokens []Token) *Input {
	return &Input{Raw: raw, Tokens: tokens}
}

// gap returns the raw text between token i-1 and token i.
func (in *Input) gap(i int) string {
	return in.Raw[in.Tokens[i-1].End:in.Tokens[i].Start]
}

// Package grammar implements a combinator grammar over annotated token
// sequences.
//
// A [Symbol] is a named pattern unit. Leaf symbols match a single token:
// [Regex] against the token's surface text, [Lemmas] against its lemma
// annotations, [Words] against its surface form. Combinators compose
// symbols: [Concat] matches symbols in sequence, requiring the raw text
// between consecutive tokens to satisfy a separator pattern, and [Union]
// matches any one of its alternatives.
//
// Matching a symbol against an [Input] produces [Match] trees: each node
// records its byte span, covered text, and the matches of its named
// sub-symbols. [Matches] enumerates every match of a symbol at every
// token position; overlapping matches are all reported, and conflict
// resolution between them is left to the caller (see package layerops).
//
// Symbols are stateless after construction and safe for concurrent use.
package grammar

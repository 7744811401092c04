// Package tagger provides taggers: components that read a text's raw
// content or existing layers and write their findings back as a new
// layer.
//
//   - [GrammarTagger] runs a grammar symbol over an annotated token
//     layer and records its matches.
//   - [RegexTagger] matches regular expressions against the raw text,
//     turning named capture groups into attributes.
//   - [GapTagger] tags the maximal regions covered by none of its input
//     layers.
//
// Every tagger implements the tessella.Tagger interface and is run
// through (*tessella.Text).Apply or its own Tag method.
package tagger

// Package tessella provides annotated-text layer storage and a fluent
// entry point for running taggers over a text.
//
// Basic usage:
//
//	t := tessella.New("2 pakki kohvi")
//	words := layer.New("words").WithAttributes("lemma")
//	words.Mark(0, 1, layer.Annotation{"lemma": "2"})
//	words.Mark(2, 7, layer.Annotation{"lemma": "pakk"})
//	words.Mark(8, 13, layer.Annotation{"lemma": "kohv"})
//	if err := t.AddLayer(words); err != nil {
//	    // handle error
//	}
//	if err := t.Apply(myTagger); err != nil {
//	    // handle error
//	}
//	quantities := tessella.Must(t.Layer("quantities"))
//
// Taggers (package tagger) read existing layers and write their results
// back as new layers; grammar symbols (package grammar) describe what a
// tagger should match. The lower-level layer package is also available
// for building layers directly.
package tessella

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tsawler/tessella/layer"
)

var (
	// ErrLayerExists indicates an attempt to add a layer under a name
	// that is already taken.
	ErrLayerExists = errors.New("tessella: layer already exists")
	// ErrLayerNotFound indicates a lookup for a layer the text does not have.
	ErrLayerNotFound = errors.New("tessella: layer not found")
	// ErrLayerBounds indicates a layer whose spans exceed the text.
	ErrLayerBounds = errors.New("tessella: layer span out of text bounds")
	// ErrMissingInput indicates a tagger whose input layers are not all present.
	ErrMissingInput = errors.New("tessella: missing input layer")
)

// Text is a raw string together with its named annotation layers.
type Text struct {
	raw    string
	layers map[string]*layer.Layer
}

// New creates a Text with no layers.
func New(raw string) *Text {
	return &Text{
		raw:    raw,
		layers: make(map[string]*layer.Layer),
	}
}

// Raw returns the underlying text.
func (t *Text) Raw() string { return t.raw }

// Len returns the length of the underlying text in bytes.
func (t *Text) Len() int { return len(t.raw) }

// AddLayer attaches a layer to the text. The layer name must be unused,
// every span must lie within the text, and any Parent or Enveloping
// reference must name a layer already attached.
func (t *Text) AddLayer(l *layer.Layer) error {
	name := l.Name()
	if _, ok := t.layers[name]; ok {
		return fmt.Errorf("%w: %q", ErrLayerExists, name)
	}
	for _, s := range l.Spans() {
		if s.End > len(t.raw) {
			return fmt.Errorf("%w: span [%d, %d) in %q, text length %d",
				ErrLayerBounds, s.Start, s.End, name, len(t.raw))
		}
	}
	for _, dep := range []string{l.Parent, l.Enveloping} {
		if dep == "" {
			continue
		}
		if _, ok := t.layers[dep]; !ok {
			return fmt.Errorf("%w: %q (required by %q)", ErrLayerNotFound, dep, name)
		}
	}
	t.layers[name] = l
	return nil
}

// Layer returns the named layer.
func (t *Text) Layer(name string) (*layer.Layer, error) {
	l, ok := t.layers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrLayerNotFound, name)
	}
	return l, nil
}

// HasLayer reports whether the text has a layer with the given name.
func (t *Text) HasLayer(name string) bool {
	_, ok := t.layers[name]
	return ok
}

// RemoveLayer detaches the named layer. Layers that structurally depend
// on it (via Parent or Enveloping) are left in place; detaching a layer
// other layers depend on is the caller's responsibility.
func (t *Text) RemoveLayer(name string) error {
	if _, ok := t.layers[name]; !ok {
		return fmt.Errorf("%w: %q", ErrLayerNotFound, name)
	}
	delete(t.layers, name)
	return nil
}

// Layers returns the names of all attached layers, sorted.
func (t *Text) Layers() []string {
	names := make([]string, 0, len(t.layers))
	for name := range t.layers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tagger creates a new layer on a text from its raw content and/or
// existing layers.
type Tagger interface {
	// OutputLayer names the layer the tagger writes.
	OutputLayer() string
	// InputLayers names the layers the tagger reads. Empty entries are
	// not allowed; a tagger reading only raw text returns nil.
	InputLayers() []string
	// Tag runs the tagger, attaching its output layer to the text.
	Tag(t *Text) error
}

// Apply runs taggers in order. Before each tagger runs, its input layers
// are checked for presence; a missing input stops the chain.
func (t *Text) Apply(taggers ...Tagger) error {
	for _, tg := range taggers {
		for _, in := range tg.InputLayers() {
			if !t.HasLayer(in) {
				return fmt.Errorf("%w: %q (required by tagger for %q)",
					ErrMissingInput, in, tg.OutputLayer())
			}
		}
		if err := tg.Tag(t); err != nil {
			return fmt.Errorf("tessella: tagging %q: %w", tg.OutputLayer(), err)
		}
	}
	return nil
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

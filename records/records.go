package records

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/tsawler/tessella"
	"github.com/tsawler/tessella/layer"
)

var (
	// ErrBadRecord indicates a record missing its span bounds.
	ErrBadRecord = errors.New("records: record missing start or end")
	// ErrBadDocument indicates input that is not a valid JSON document
	// of the expected shape.
	ErrBadDocument = errors.New("records: malformed document")
	// ErrBadName indicates a layer or attribute name containing one of
	// the path metacharacters '.', '*' or '?'.
	ErrBadName = errors.New("records: name contains path metacharacters")
)

// checkName rejects names that would be misread as sjson/gjson paths.
func checkName(name string) error {
	if strings.ContainsAny(name, ".*?") {
		return fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return nil
}

// Record is the flat dictionary form of one span: "start", "end" and
// the span's attribute values.
type Record map[string]interface{}

// FromLayer converts a layer to records, in span order. On ambiguous
// layers only each span's first annotation is included; the record form
// is flat.
func FromLayer(l *layer.Layer) []Record {
	out := make([]Record, 0, l.Len())
	for _, s := range l.Spans() {
		rec := Record{"start": s.Start, "end": s.End}
		if len(s.Annotations) > 0 {
			for k, v := range s.Annotations[0] {
				rec[k] = v
			}
		}
		out = append(out, rec)
	}
	return out
}

// Config holds configuration options for encoding.
type Config struct {
	// Pretty enables indented output.
	Pretty bool

	// Attributes selects which attributes appear in records. Nil
	// includes every attribute a span carries.
	Attributes []string
}

// DefaultConfig returns the default encoding configuration: compact
// output, all attributes.
func DefaultConfig() Config {
	return Config{}
}

// Encoder writes layers and texts as JSON.
type Encoder struct {
	config Config
}

// NewEncoder creates an encoder with the default configuration.
func NewEncoder() *Encoder {
	return &Encoder{config: DefaultConfig()}
}

// NewEncoderWithConfig creates an encoder with a custom configuration.
func NewEncoderWithConfig(config Config) *Encoder {
	return &Encoder{config: config}
}

// EncodeLayer renders the layer as a JSON array of records.
func (e *Encoder) EncodeLayer(l *layer.Layer) ([]byte, error) {
	out := []byte(`[]`)
	for _, rec := range FromLayer(l) {
		b, err := e.encodeRecord(rec)
		if err != nil {
			return nil, err
		}
		out, err = sjson.SetRawBytes(out, "-1", b)
		if err != nil {
			return nil, fmt.Errorf("records: appending record: %w", err)
		}
	}
	return e.finish(out), nil
}

// EncodeText renders the text and all its layers as one JSON document:
//
//	{
//	  "text": "...",
//	  "layers": {
//	    "words": {"attributes": [...], "parent": "", "enveloping": "",
//	              "ambiguous": false, "spans": [records...]},
//	    ...
//	  }
//	}
func (e *Encoder) EncodeText(t *tessella.Text) ([]byte, error) {
	out := []byte(`{}`)
	out, err := sjson.SetBytes(out, "text", t.Raw())
	if err != nil {
		return nil, fmt.Errorf("records: encoding text: %w", err)
	}
	out, _ = sjson.SetRawBytes(out, "layers", []byte(`{}`))

	for _, name := range t.Layers() {
		if err := checkName(name); err != nil {
			return nil, err
		}
		l, err := t.Layer(name)
		if err != nil {
			return nil, err
		}
		lb, err := e.encodeLayerObject(l)
		if err != nil {
			return nil, err
		}
		out, err = sjson.SetRawBytes(out, "layers."+name, lb)
		if err != nil {
			return nil, fmt.Errorf("records: encoding layer %q: %w", name, err)
		}
	}
	return e.finish(out), nil
}

func (e *Encoder) encodeLayerObject(l *layer.Layer) ([]byte, error) {
	out := []byte(`{}`)
	attrs := l.Attributes
	if attrs == nil {
		attrs = []string{}
	}
	out, err := sjson.SetBytes(out, "attributes", attrs)
	if err != nil {
		return nil, fmt.Errorf("records: layer %q attributes: %w", l.Name(), err)
	}
	out, _ = sjson.SetBytes(out, "parent", l.Parent)
	out, _ = sjson.SetBytes(out, "enveloping", l.Enveloping)
	out, _ = sjson.SetBytes(out, "ambiguous", l.Ambiguous)

	spans, err := e.EncodeLayer(l)
	if err != nil {
		return nil, err
	}
	out, err = sjson.SetRawBytes(out, "spans", spans)
	if err != nil {
		return nil, fmt.Errorf("records: layer %q spans: %w", l.Name(), err)
	}
	return out, nil
}

// encodeRecord renders one record with deterministic key order: start,
// end, then attributes sorted by name.
func (e *Encoder) encodeRecord(rec Record) ([]byte, error) {
	out := []byte(`{}`)
	var err error
	out, err = sjson.SetBytes(out, "start", rec["start"])
	if err == nil {
		out, err = sjson.SetBytes(out, "end", rec["end"])
	}
	if err != nil {
		return nil, fmt.Errorf("records: encoding span bounds: %w", err)
	}

	keys := make([]string, 0, len(rec))
	for k := range rec {
		if k == "start" || k == "end" {
			continue
		}
		if !e.wantAttribute(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := checkName(k); err != nil {
			return nil, err
		}
		out, err = sjson.SetBytes(out, k, rec[k])
		if err != nil {
			return nil, fmt.Errorf("records: encoding attribute %q: %w", k, err)
		}
	}
	return out, nil
}

func (e *Encoder) wantAttribute(name string) bool {
	if e.config.Attributes == nil {
		return true
	}
	for _, a := range e.config.Attributes {
		if a == name {
			return true
		}
	}
	return false
}

func (e *Encoder) finish(b []byte) []byte {
	if e.config.Pretty {
		return pretty.Pretty(b)
	}
	return b
}

// ParseLayer reads a JSON array of records into a new layer. Records
// must carry integer "start" and "end"; every other key becomes an
// attribute. The layer's declared attributes are the union of attribute
// keys seen, sorted.
func ParseLayer(name string, data []byte) (*layer.Layer, error) {
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, fmt.Errorf("%w: expected an array of records", ErrBadDocument)
	}

	l := layer.New(name)
	seen := map[string]bool{}
	var parseErr error
	doc.ForEach(func(_, rec gjson.Result) bool {
		start, end := rec.Get("start"), rec.Get("end")
		if !start.Exists() || !end.Exists() {
			parseErr = fmt.Errorf("%w: %s", ErrBadRecord, rec.Raw)
			return false
		}
		ann := layer.Annotation{}
		rec.ForEach(func(key, value gjson.Result) bool {
			k := key.String()
			if k == "start" || k == "end" {
				return true
			}
			seen[k] = true
			ann[k] = value.Value()
			return true
		})
		if len(ann) == 0 {
			ann = nil
		}
		if _, err := l.Mark(int(start.Int()), int(end.Int()), ann); err != nil {
			parseErr = err
			return false
		}
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	attrs := make([]string, 0, len(seen))
	for k := range seen {
		attrs = append(attrs, k)
	}
	sort.Strings(attrs)
	l.WithAttributes(attrs...)
	return l, nil
}

// ParseText reads a document produced by [Encoder.EncodeText] back into
// a Text. Layers are attached in dependency order so parent and
// enveloping references resolve.
func ParseText(data []byte) (*tessella.Text, error) {
	doc := gjson.ParseBytes(data)
	text := doc.Get("text")
	if !text.Exists() {
		return nil, fmt.Errorf("%w: missing text", ErrBadDocument)
	}
	t := tessella.New(text.String())

	type pending struct {
		l    *layer.Layer
		deps []string
	}
	byName := map[string]pending{}
	var order []string
	var parseErr error
	doc.Get("layers").ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		l, err := ParseLayer(name, []byte(value.Get("spans").Raw))
		if err != nil {
			parseErr = err
			return false
		}
		if attrs := value.Get("attributes"); attrs.IsArray() {
			var names []string
			for _, a := range attrs.Array() {
				names = append(names, a.String())
			}
			l.WithAttributes(names...)
		}
		l.Parent = value.Get("parent").String()
		l.Enveloping = value.Get("enveloping").String()
		l.Ambiguous = value.Get("ambiguous").Bool()

		var deps []string
		for _, d := range []string{l.Parent, l.Enveloping} {
			if d != "" {
				deps = append(deps, d)
			}
		}
		byName[name] = pending{l: l, deps: deps}
		order = append(order, name)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	attached := map[string]bool{}
	for len(order) > 0 {
		progressed := false
		var rest []string
		for _, name := range order {
			p := byName[name]
			ready := true
			for _, d := range p.deps {
				if !attached[d] {
					ready = false
					break
				}
			}
			if !ready {
				rest = append(rest, name)
				continue
			}
			if err := t.AddLayer(p.l); err != nil {
				return nil, err
			}
			attached[name] = true
			progressed = true
		}
		if !progressed {
			return nil, fmt.Errorf("%w: unresolvable layer dependencies %v", ErrBadDocument, rest)
		}
		order = rest
	}
	return t, nil
}

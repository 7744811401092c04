package layer

import (
	"fmt"
	"strings"
)

// AttributeList is a flat, read-only view of a single attribute's values
// across a layer, in span order.
type AttributeList []interface{}

// Strings converts every value with fmt.Sprint. Nil values become "".
func (al AttributeList) Strings() []string {
	out := make([]string, len(al))
	for i, v := range al {
		if v == nil {
			continue
		}
		out[i] = fmt.Sprint(v)
	}
	return out
}

// String renders the list in a bracketed, comma-separated form.
func (al AttributeList) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range al {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v", v)
	}
	b.WriteByte(']')
	return b.String()
}

package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/stubgen/extract"
	"github.com/dhamidi/stubgen/typemodel"
)

// LineEncoder writes one tab separated line per member, suitable for grep
// and cut. Nested class members are prefixed with the nesting path.
type LineEncoder struct {
	w     io.Writer
	class *extract.ClassModel
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(class *extract.ClassModel) error {
	e.class = class
	return encode(e.w, e)
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	writeClassLines(&sb, "", e.class)
	return []byte(sb.String()), nil
}

func writeClassLines(sb *strings.Builder, prefix string, c *extract.ClassModel) {
	name := prefix + c.Name
	fmt.Fprintf(sb, "class\t%s\t%s\t%s\n", name, typeList(c.Bases), flags(c.IsIterable, "iterable"))

	for _, f := range c.Fields {
		value := "-"
		if f.HasValue {
			value = f.Literal
		}
		fmt.Fprintf(sb, "field\t%s.%s\t%s\t%s\t%s\n",
			name, f.Name, f.Type.RenderedName(), flags(f.IsStatic, "static", f.IsFinal, "final"), value)
	}
	for _, set := range c.Constructors {
		writeOverloadLines(sb, "constructor", name, set)
	}
	for _, set := range c.Methods {
		writeOverloadLines(sb, "method", name, set)
	}
	for _, p := range c.Properties {
		fmt.Fprintf(sb, "property\t%s.%s\t%s\t%s\n", name, p.Name, optionalType(p.Getter), optionalType(p.Setter))
	}
	for _, nested := range c.NestedClasses {
		writeClassLines(sb, name+".", nested)
	}
}

func writeOverloadLines(sb *strings.Builder, kind, owner string, set extract.OverloadSet) {
	for _, o := range set.Overloads {
		params := make([]string, len(o.ArgumentTypes))
		for i, t := range o.ArgumentTypes {
			params[i] = o.ArgumentNames[i] + ": " + t.RenderedName()
		}
		fmt.Fprintf(sb, "%s\t%s.%s\t%s\t(%s)\t%s\n",
			kind, owner, set.Name, o.ReturnType.RenderedName(), strings.Join(params, ", "),
			flags(o.IsStatic, "static", o.Docstring != "", "documented"))
	}
}

func typeList(types []typemodel.Descriptor) string {
	if len(types) == 0 {
		return "-"
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.RenderedName()
	}
	return strings.Join(names, ",")
}

func optionalType(t *typemodel.Descriptor) string {
	if t == nil {
		return "-"
	}
	return t.RenderedName()
}

// flags takes (set, name) pairs and joins the names that are set.
func flags(pairs ...any) string {
	var names []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i].(bool) {
			names = append(names, pairs[i+1].(string))
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}

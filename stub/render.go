// Package stub renders extracted models as Python type-stub (.pyi) text.
// Rendering is pure: the same model always yields the same bytes.
package stub

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dhamidi/stubgen/extract"
	"github.com/dhamidi/stubgen/typemodel"
)

const (
	bodyPlaceholder = "..."
	noGetterComment = "  # No getter available."
)

// RenderClass renders a top-level class, imports included.
func RenderClass(c *extract.ClassModel) string {
	return renderClass(c, false)
}

func renderClass(c *extract.ClassModel, nested bool) string {
	var imports string
	if !nested {
		imports = renderImports(c.Imports())
	}

	bases := make([]string, len(c.Bases))
	for i, base := range c.Bases {
		bases[i] = base.RenderedName()
	}
	header := "class " + c.Name + "(" + strings.Join(bases, ", ") + "):"

	var classDocs string
	if c.Docstring != "" {
		classDocs = "    \"\"\"\n" + indent(escapeDocstring(c.Docstring)) + "\n    \"\"\"\n\n"
	}

	fields := renderFields(c.Fields)
	nestedClasses := renderNestedClasses(c.NestedClasses)
	ctors := indent(strings.Join(renderOverloadSets(c.Constructors), "\n\n"))
	iterable := renderIterable(c)
	methods := indent(strings.Join(renderOverloadSets(c.Methods), "\n\n"))
	properties := strings.Join(renderProperties(c.Properties), "\n\n")

	if classDocs == "" && fields == "" && nestedClasses == "" && ctors == "" &&
		iterable == "" && methods == "" && properties == "" {
		fields = "    " + bodyPlaceholder
	}

	var sb strings.Builder
	sb.WriteString(imports)
	sb.WriteString("\n\n\n")
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.WriteString(classDocs)
	sb.WriteString(fields)
	sb.WriteString("\n\n")
	sb.WriteString(nestedClasses)
	sb.WriteString("\n\n")
	sb.WriteString(ctors)
	sb.WriteString("\n\n")
	sb.WriteString(iterable)
	sb.WriteString("\n\n")
	sb.WriteString(methods)
	sb.WriteString("\n\n")
	sb.WriteString(properties)
	return sb.String()
}

func renderImports(imports []typemodel.Import) string {
	lines := make([]string, len(imports))
	for i, imp := range imports {
		lines[i] = imp.String()
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

func renderFields(fields []extract.Field) string {
	sorted := append([]extract.Field(nil), fields...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	lines := make([]string, len(sorted))
	for i, f := range sorted {
		line := "    " + f.Name + ": " + f.Type.RenderedName()
		if f.HasValue {
			line += " = " + f.Literal
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func renderNestedClasses(classes []*extract.ClassModel) string {
	sorted := append([]*extract.ClassModel(nil), classes...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	blocks := make([]string, len(sorted))
	for i, nested := range sorted {
		blocks[i] = indent(renderClass(nested, true))
	}
	return strings.Join(blocks, "\n\n")
}

func renderOverloadSets(sets []extract.OverloadSet) []string {
	sorted := append([]extract.OverloadSet(nil), sets...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var result []string
	for i := range sorted {
		result = append(result, RenderOverloadSet(&sorted[i], false)...)
	}
	return result
}

// RenderOverloadSet renders every overload of set as a separate
// declaration. bound drops the receiver and the static marker, for
// functions already bound to an instance.
func RenderOverloadSet(set *extract.OverloadSet, bound bool) []string {
	result := make([]string, 0, len(set.Overloads))
	for _, o := range set.Overloads {
		var sb strings.Builder
		if len(set.Overloads) > 1 {
			sb.WriteString("@overload\n")
		}
		static := o.IsStatic && !set.IsConstructor
		if static && !bound {
			sb.WriteString("@staticmethod\n")
		}

		sb.WriteString("def " + set.Name + "(")
		if !bound && !static {
			sb.WriteString("self")
			if len(o.ArgumentTypes) > 0 {
				sb.WriteString(", ")
			}
		}
		sb.WriteString(renderArguments(o))
		sb.WriteString(")")
		if !set.IsConstructor {
			sb.WriteString(" -> " + o.ReturnType.RenderedName())
		}
		sb.WriteString(":")

		if o.Docstring != "" {
			sb.WriteString("\n    \"\"\"\n")
			sb.WriteString(indent(escapeDocstring(o.Docstring)))
			sb.WriteString("\n    \"\"\"\n    " + bodyPlaceholder)
		} else {
			sb.WriteString(" " + bodyPlaceholder)
		}
		result = append(result, sb.String())
	}
	return result
}

func renderArguments(o extract.Overload) string {
	args := make([]string, len(o.ArgumentTypes))
	for i, t := range o.ArgumentTypes {
		name := "__a" + strconv.Itoa(i)
		if i < len(o.ArgumentNames) {
			name = o.ArgumentNames[i]
		}
		args[i] = name + ": " + t.RenderedName()
	}
	return strings.Join(args, ", ")
}

// renderIterable declares __iter__, typed after the element returned by
// the zero-argument next() overload when there is one.
func renderIterable(c *extract.ClassModel) string {
	if !c.IsIterable {
		return ""
	}
	if next := c.Method("next"); next != nil {
		for _, o := range next.Overloads {
			if len(o.ArgumentTypes) == 0 {
				return "    def __iter__(self) -> Iterator[" + o.ReturnType.RenderedName() + "]: ..."
			}
		}
	}
	return "    def __iter__(self): ..."
}

func renderProperties(props []extract.Property) []string {
	sorted := append([]extract.Property(nil), props...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var result []string
	for _, p := range sorted {
		getterType, comment := "None", noGetterComment
		if p.Getter != nil {
			getterType, comment = p.Getter.RenderedName(), ""
		}
		result = append(result,
			"    @property\n    def "+p.Name+"(self) -> "+getterType+": ..."+comment)

		if p.Setter != nil {
			result = append(result,
				"    @"+p.Name+".setter\n    def "+p.Name+"(self, value: "+p.Setter.RenderedName()+") -> None: ...")
		}
	}
	return result
}

// indent prefixes every non-blank line with four spaces.
func indent(text string) string {
	lines := strings.SplitAfter(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = "    " + line
		}
	}
	return strings.Join(lines, "")
}

// escapeDocstring makes s safe inside a plain triple-quoted string.
// Backslashes go first so the quote escapes are not doubled.
func escapeDocstring(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"""`, `\"\"\"`)
}

// Package lsp serves completion and hover for stub-described libraries
// over the Language Server Protocol.
package lsp

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dhamidi/stubgen/extract"
	"github.com/dhamidi/stubgen/stub"
)

type CompletionKind int

const (
	KindText CompletionKind = iota
	KindModule
	KindClass
	KindMethod
	KindField
	KindConstant
	KindProperty
)

type Completion struct {
	Label  string
	Kind   CompletionKind
	Detail string
}

// Catalog indexes extracted packages by dotted name. Nested classes are
// reachable as Outer.Inner.
type Catalog struct {
	packages map[string]*extract.PackageModel
	classes  map[string]*extract.ClassModel
}

func NewCatalog(roots []*extract.PackageModel) *Catalog {
	c := &Catalog{
		packages: make(map[string]*extract.PackageModel),
		classes:  make(map[string]*extract.ClassModel),
	}
	for _, root := range roots {
		root.Walk(func(p *extract.PackageModel) {
			c.packages[p.Name] = p
			for _, cls := range p.Classes {
				c.addClass(p.Name+"."+cls.Name, cls)
			}
		})
	}
	return c
}

func (c *Catalog) addClass(name string, cls *extract.ClassModel) {
	c.classes[name] = cls
	for _, nested := range cls.NestedClasses {
		c.addClass(name+"."+nested.Name, nested)
	}
}

func (c *Catalog) Len() int {
	return len(c.classes)
}

// Complete lists what may follow "expr." where expr names a package or a
// class.
func (c *Catalog) Complete(expr string) []Completion {
	var items []Completion
	if p, ok := c.packages[expr]; ok {
		for _, sub := range p.Subpackages {
			items = append(items, Completion{Label: sub.ShortName(), Kind: KindModule, Detail: sub.Name})
		}
		for _, cls := range p.Classes {
			items = append(items, Completion{Label: cls.Name, Kind: KindClass, Detail: expr + "." + cls.Name})
		}
	}
	if cls, ok := c.classes[expr]; ok {
		items = append(items, classMembers(cls)...)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}

func classMembers(cls *extract.ClassModel) []Completion {
	var items []Completion
	for i := range cls.Methods {
		set := &cls.Methods[i]
		items = append(items, Completion{Label: set.Name, Kind: KindMethod, Detail: signatureLine(set)})
	}
	for _, f := range cls.Fields {
		kind := KindField
		if f.IsStatic && f.IsFinal {
			kind = KindConstant
		}
		items = append(items, Completion{Label: f.Name, Kind: kind, Detail: f.Type.RenderedName()})
	}
	for _, p := range cls.Properties {
		detail := "None"
		if p.Getter != nil {
			detail = p.Getter.RenderedName()
		}
		items = append(items, Completion{Label: p.Name, Kind: KindProperty, Detail: detail})
	}
	for _, nested := range cls.NestedClasses {
		items = append(items, Completion{Label: nested.Name, Kind: KindClass})
	}
	return items
}

// signatureLine is the def line of the first overload, with a count of
// the others.
func signatureLine(set *extract.OverloadSet) string {
	decls := stub.RenderOverloadSet(set, true)
	if len(decls) == 0 {
		return ""
	}
	lines := strings.Split(decls[0], "\n")
	line := lines[0]
	if strings.HasPrefix(line, "@") && len(lines) > 1 {
		line = lines[1]
	}
	line = strings.TrimSuffix(strings.TrimSuffix(line, " ..."), ":")
	if n := len(decls) - 1; n == 1 {
		line += " (+1 overload)"
	} else if n > 1 {
		line += " (+" + strconv.Itoa(n) + " overloads)"
	}
	return line
}

// Hover returns a Markdown description of a package, class or member
// named by a dotted expression.
func (c *Catalog) Hover(expr string) (string, bool) {
	if cls, ok := c.classes[expr]; ok {
		return classHover(expr, cls), true
	}
	if p, ok := c.packages[expr]; ok {
		return "package `" + p.Name + "`", true
	}

	i := strings.LastIndex(expr, ".")
	if i < 0 {
		return "", false
	}
	cls, ok := c.classes[expr[:i]]
	if !ok {
		return "", false
	}
	name := expr[i+1:]

	if set := cls.Method(name); set != nil {
		return codeBlock(strings.Join(stub.RenderOverloadSet(set, false), "\n\n")), true
	}
	for _, f := range cls.Fields {
		if f.Name == name {
			decl := f.Name + ": " + f.Type.RenderedName()
			if f.HasValue {
				decl += " = " + f.Literal
			}
			return codeBlock(decl), true
		}
	}
	for _, p := range cls.Properties {
		if p.Name == name {
			decl := "@property\ndef " + p.Name + "(self) -> "
			if p.Getter != nil {
				decl += p.Getter.RenderedName()
			} else {
				decl += "None"
			}
			return codeBlock(decl + ": ..."), true
		}
	}
	return "", false
}

func classHover(name string, cls *extract.ClassModel) string {
	bases := make([]string, len(cls.Bases))
	for i, b := range cls.Bases {
		bases[i] = b.RenderedName()
	}
	text := codeBlock("class " + name + "(" + strings.Join(bases, ", ") + ")")
	if cls.Docstring != "" {
		text += "\n\n" + cls.Docstring
	}
	return text
}

func codeBlock(code string) string {
	return "```python\n" + code + "\n```"
}

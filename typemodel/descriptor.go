// Package typemodel canonicalizes JVM type references into Python stub
// type expressions.
package typemodel

import (
	"sort"
	"strings"

	"github.com/dhamidi/stubgen/mirror"
)

// Descriptor is a normalized type reference. Two descriptors are identical
// when all four fields are equal.
type Descriptor struct {
	Name       string `json:"name" yaml:"name"`
	Namespace  string `json:"namespace" yaml:"namespace"`
	IsArray    bool   `json:"array,omitempty" yaml:"array,omitempty"`
	IsIterator bool   `json:"iterator,omitempty" yaml:"iterator,omitempty"`
}

const (
	iteratorRoot = "java.util.Iterator"
	listRoot     = "java.util.List"
	arrayList    = "java.util.ArrayList"
)

var replacements = map[string]string{
	"boolean":              "bool",
	"java.lang.String":     "Text",
	"java.lang.Object":     "object",
	"java.math.BigInteger": "long",
	"long":                 "long",
	"B":                    "int",
	"Z":                    "bool",
	"C":                    "int",
	"S":                    "int",
	"I":                    "int",
	"J":                    "long",
	"F":                    "float",
	"D":                    "float",
	"void":                 "None",
	"short":                "int",
	"byte":                 "int",
	"double":               "float",
	"char":                 "int",
	"java.lang.Boolean":    "bool",
	"java.lang.Integer":    "int",
	"java.lang.Long":       "long",
	"java.lang.Byte":       "int",
	"java.lang.Double":     "float",
	"java.lang.Short":      "int",
	"java.lang.Float":      "float",
}

func Builtin(name string) Descriptor {
	return Descriptor{Name: name, Namespace: mirror.BuiltinNamespace}
}

func Object() Descriptor {
	return Builtin("object")
}

func (d Descriptor) IsBuiltin() bool {
	return d.Namespace == mirror.BuiltinNamespace
}

func (d Descriptor) QualifiedName() string {
	if d.IsBuiltin() || d.Namespace == "" {
		return d.Name
	}
	return d.Namespace + "." + d.Name
}

// CanonicalName is the qualified name after canonicalization, without
// array or iterator wrapping.
func (d Descriptor) CanonicalName() string {
	q := d.QualifiedName()
	if r, ok := replacements[q]; ok {
		return r
	}
	return q
}

func (d Descriptor) RenderedName() string {
	name := d.CanonicalName()
	switch {
	case d.IsArray:
		return "List[" + name + "]"
	case d.IsIterator:
		return "Iterator[" + name + "]"
	}
	return name
}

func (d Descriptor) String() string {
	return d.RenderedName()
}

// Imports lists what a stub file must import for RenderedName to resolve.
func (d Descriptor) Imports() []Import {
	var set ImportSet
	rendered := d.RenderedName()
	if d.IsArray {
		set.Add(Import{Module: "typing", Symbol: "List"})
	}
	if d.IsIterator {
		set.Add(Import{Module: "typing", Symbol: "Iterator"})
	}
	switch rendered {
	case "Text":
		set.Add(Import{Module: "typing", Symbol: "Text"})
	case "long":
		set.Add(Import{Module: "py3_compatibility", Symbol: "*"})
	}
	if strings.Contains(rendered, ".") && !d.IsBuiltin() {
		set.Add(Import{Module: d.Namespace})
	}
	return set.Sorted()
}

// OverloadCompatible reports whether d, taken from documentation, can stand
// for the reflected type other. A documented generic iterator erases to the
// root iterator type, so it matches java.util.Iterator.
func (d Descriptor) OverloadCompatible(other Descriptor) bool {
	if d == other {
		return true
	}
	if d.RenderedName() == other.RenderedName() {
		return true
	}
	return d.IsIterator && other.QualifiedName() == iteratorRoot
}

// Import is either "import Module" (Symbol empty) or
// "from Module import Symbol".
type Import struct {
	Module string `json:"module" yaml:"module"`
	Symbol string `json:"symbol,omitempty" yaml:"symbol,omitempty"`
}

func (i Import) String() string {
	if i.Symbol == "" {
		return "import " + i.Module
	}
	return "from " + i.Module + " import " + i.Symbol
}

// ImportSet accumulates imports; the zero value is ready to use.
type ImportSet struct {
	m map[Import]struct{}
}

func (s *ImportSet) Add(imports ...Import) {
	if s.m == nil {
		s.m = make(map[Import]struct{})
	}
	for _, imp := range imports {
		s.m[imp] = struct{}{}
	}
}

func (s *ImportSet) Merge(other ImportSet) {
	for imp := range other.m {
		s.Add(imp)
	}
}

func (s *ImportSet) Len() int { return len(s.m) }

// Sorted returns the imports ordered by their rendered statement.
func (s *ImportSet) Sorted() []Import {
	result := make([]Import, 0, len(s.m))
	for imp := range s.m {
		result = append(result, imp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].String() < result[j].String()
	})
	return result
}

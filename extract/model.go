// Package extract builds the class and package model that stub files are
// rendered from, by walking a reflection source and reconciling what it
// reports with the documentation index.
package extract

import (
	"github.com/dhamidi/stubgen/typemodel"
)

// Overload is one concrete callable signature.
type Overload struct {
	ReturnType    typemodel.Descriptor   `json:"return" yaml:"return"`
	ArgumentTypes []typemodel.Descriptor `json:"argument_types" yaml:"argument_types"`
	ArgumentNames []string               `json:"argument_names" yaml:"argument_names"`
	IsStatic      bool                   `json:"static,omitempty" yaml:"static,omitempty"`
	Docstring     string                 `json:"docstring,omitempty" yaml:"docstring,omitempty"`
}

func (o *Overload) addImports(set *typemodel.ImportSet, withReturn bool) {
	if withReturn {
		set.Add(o.ReturnType.Imports()...)
	}
	for _, t := range o.ArgumentTypes {
		set.Add(t.Imports()...)
	}
}

func (o *Overload) Imports() []typemodel.Import {
	var set typemodel.ImportSet
	o.addImports(&set, true)
	return set.Sorted()
}

// OverloadSet is every overload sharing one callable name, in the order
// reflection reported them.
type OverloadSet struct {
	Name          string     `json:"name" yaml:"name"`
	Overloads     []Overload `json:"overloads" yaml:"overloads"`
	IsConstructor bool       `json:"constructor,omitempty" yaml:"constructor,omitempty"`
}

// The return type of a constructor is never rendered, so it contributes
// no import. Sets with several overloads need the overload decorator.
func (s *OverloadSet) addImports(set *typemodel.ImportSet) {
	if len(s.Overloads) > 1 {
		set.Add(typemodel.Import{Module: "typing", Symbol: "overload"})
	}
	for i := range s.Overloads {
		s.Overloads[i].addImports(set, !s.IsConstructor)
	}
}

func (s *OverloadSet) Imports() []typemodel.Import {
	var set typemodel.ImportSet
	s.addImports(&set)
	return set.Sorted()
}

// Property is a bean-style property. At least one of Getter and Setter is
// set.
type Property struct {
	Name   string                `json:"name" yaml:"name"`
	Getter *typemodel.Descriptor `json:"getter,omitempty" yaml:"getter,omitempty"`
	Setter *typemodel.Descriptor `json:"setter,omitempty" yaml:"setter,omitempty"`
}

func (p *Property) addImports(set *typemodel.ImportSet) {
	if p.Getter != nil {
		set.Add(p.Getter.Imports()...)
	}
	if p.Setter != nil {
		set.Add(p.Setter.Imports()...)
	}
}

// Field is a reflected field. Literal is the pre-rendered value and is only
// meaningful when HasValue is set.
type Field struct {
	Name     string               `json:"name" yaml:"name"`
	Type     typemodel.Descriptor `json:"type" yaml:"type"`
	IsStatic bool                 `json:"static,omitempty" yaml:"static,omitempty"`
	IsFinal  bool                 `json:"final,omitempty" yaml:"final,omitempty"`
	Literal  string               `json:"literal,omitempty" yaml:"literal,omitempty"`
	HasValue bool                 `json:"has_value,omitempty" yaml:"has_value,omitempty"`
}

// ClassModel describes one class. A ClassModel owns its nested classes.
type ClassModel struct {
	Name          string                 `json:"name" yaml:"name"`
	Methods       []OverloadSet          `json:"methods,omitempty" yaml:"methods,omitempty"`
	Constructors  []OverloadSet          `json:"constructors,omitempty" yaml:"constructors,omitempty"`
	Properties    []Property             `json:"properties,omitempty" yaml:"properties,omitempty"`
	Fields        []Field                `json:"fields,omitempty" yaml:"fields,omitempty"`
	NestedClasses []*ClassModel          `json:"nested_classes,omitempty" yaml:"nested_classes,omitempty"`
	IsIterable    bool                   `json:"iterable,omitempty" yaml:"iterable,omitempty"`
	Bases         []typemodel.Descriptor `json:"bases,omitempty" yaml:"bases,omitempty"`
	Docstring     string                 `json:"docstring,omitempty" yaml:"docstring,omitempty"`
}

func (c *ClassModel) addImports(set *typemodel.ImportSet) {
	for i := range c.Methods {
		c.Methods[i].addImports(set)
	}
	for i := range c.Constructors {
		c.Constructors[i].addImports(set)
	}
	for i := range c.Properties {
		c.Properties[i].addImports(set)
	}
	for _, f := range c.Fields {
		set.Add(f.Type.Imports()...)
	}
	for _, nested := range c.NestedClasses {
		nested.addImports(set)
	}
	for _, base := range c.Bases {
		set.Add(base.Imports()...)
	}
	if c.IsIterable {
		set.Add(typemodel.Import{Module: "typing", Symbol: "Iterator"})
	}
}

// Imports is everything the rendered stub of c must import, nested
// classes included.
func (c *ClassModel) Imports() []typemodel.Import {
	var set typemodel.ImportSet
	c.addImports(&set)
	return set.Sorted()
}

// Method returns the overload set with the given name, or nil.
func (c *ClassModel) Method(name string) *OverloadSet {
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return &c.Methods[i]
		}
	}
	return nil
}

// PackageModel is one namespace level of the extracted library.
type PackageModel struct {
	Name        string          `json:"name" yaml:"name"`
	Classes     []*ClassModel   `json:"classes,omitempty" yaml:"classes,omitempty"`
	Subpackages []*PackageModel `json:"subpackages,omitempty" yaml:"subpackages,omitempty"`
}

func (p *PackageModel) Imports() []typemodel.Import {
	var set typemodel.ImportSet
	for _, c := range p.Classes {
		c.addImports(&set)
	}
	return set.Sorted()
}

// ShortName is the last segment of the package name.
func (p *PackageModel) ShortName() string {
	for i := len(p.Name) - 1; i >= 0; i-- {
		if p.Name[i] == '.' {
			return p.Name[i+1:]
		}
	}
	return p.Name
}

// Walk calls fn for p and every package below it, depth first.
func (p *PackageModel) Walk(fn func(*PackageModel)) {
	fn(p)
	for _, sub := range p.Subpackages {
		sub.Walk(fn)
	}
}

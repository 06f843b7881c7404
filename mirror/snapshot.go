package mirror

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// A snapshot is a serialized reflective listing of a package tree, dumped
// from inside the foreign runtime. JSON snapshots decode as well, since
// YAML is a superset of JSON.

type snapshotPackage struct {
	Name     string            `yaml:"name"`
	Packages []snapshotPackage `yaml:"packages"`
	Classes  []snapshotClass   `yaml:"classes"`
	Errors   []snapshotError   `yaml:"errors"`
}

type snapshotClass struct {
	Name         string             `yaml:"name"`
	Bases        []TypeRef          `yaml:"bases"`
	Iterable     bool               `yaml:"iterable"`
	Methods      []snapshotMethod   `yaml:"methods"`
	Constructors []Signature        `yaml:"constructors"`
	Properties   []snapshotProperty `yaml:"properties"`
	Fields       []snapshotField    `yaml:"fields"`
	Nested       []snapshotClass    `yaml:"nested"`
	Errors       []snapshotError    `yaml:"errors"`
}

type snapshotMethod struct {
	Name      string      `yaml:"name"`
	Overloads []Signature `yaml:"overloads"`
}

type snapshotProperty struct {
	Name   string   `yaml:"name"`
	Getter *TypeRef `yaml:"getter"`
	Setter *TypeRef `yaml:"setter"`
}

type snapshotField struct {
	Name    string    `yaml:"name"`
	Type    TypeRef   `yaml:"type"`
	Static  bool      `yaml:"static"`
	Final   bool      `yaml:"final"`
	Value   yaml.Node `yaml:"value"`
	Wide    bool      `yaml:"wide"`
	Illegal bool      `yaml:"illegal"`
}

type snapshotError struct {
	Name   string `yaml:"name"`
	Reason Reason `yaml:"reason"`
}

// LoadSnapshot decodes a snapshot into static handles.
func LoadSnapshot(r io.Reader) (*StaticPackage, error) {
	var root snapshotPackage
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		return nil, errors.Wrap(err, "failed to decode reflection snapshot")
	}
	if root.Name == "" {
		return nil, errors.New("reflection snapshot has no root package name")
	}
	return root.build()
}

func (s snapshotPackage) build() (*StaticPackage, error) {
	pkg := &StaticPackage{PackageName: s.Name}
	for _, sub := range s.Packages {
		child, err := sub.build()
		if err != nil {
			return nil, err
		}
		pkg.AddPackage(lastSegment(child.PackageName), child)
	}
	for _, c := range s.Classes {
		class, err := c.build(s.Name)
		if err != nil {
			return nil, err
		}
		pkg.AddClass(c.Name, class)
	}
	for _, e := range s.Errors {
		pkg.Entries = append(pkg.Entries, Failed(e.Name, e.Reason, nil))
	}
	return pkg, nil
}

func (s snapshotClass) build(namespace string) (*StaticClass, error) {
	c := &StaticClass{
		RuntimeName:    s.Name,
		ClassNamespace: namespace,
		BaseTypes:      s.Bases,
		CanIterate:     s.Iterable,
	}
	if len(s.Constructors) > 0 {
		c.Add("__init__", &Constructor{Overloads: s.Constructors})
	}
	for _, m := range s.Methods {
		c.Add(m.Name, &Method{Overloads: m.Overloads})
	}
	for _, p := range s.Properties {
		c.Add(p.Name, &Property{Getter: p.Getter, Setter: p.Setter})
	}
	for _, f := range s.Fields {
		field, err := f.build()
		if err != nil {
			return nil, errors.Wrapf(err, "field %s.%s", s.Name, f.Name)
		}
		c.Add(f.Name, field)
	}
	for _, n := range s.Nested {
		nested, err := n.build(namespace)
		if err != nil {
			return nil, err
		}
		c.Add(lastNestedSegment(n.Name), &NestedClass{Class: nested})
	}
	for _, e := range s.Errors {
		c.Fail(e.Name, e.Reason)
	}
	return c, nil
}

// A field without a value key was not dumped and reads as illegal; an
// explicit null is a null constant.
func (s snapshotField) build() (*Field, error) {
	f := &Field{Type: s.Type, IsStatic: s.Static, IsFinal: s.Final, Value: IllegalValue}
	if s.Illegal || s.Value.IsZero() {
		return f, nil
	}
	var v any
	if err := s.Value.Decode(&v); err != nil {
		return nil, errors.Wrap(err, "failed to decode field value")
	}
	if s.Wide {
		v = toWide(v)
	}
	f.Value = ConstValue(v)
	return f, nil
}

func toWide(v any) any {
	switch n := v.(type) {
	case int:
		return WideInt(n)
	case int64:
		return WideInt(n)
	case uint64:
		return WideInt(int64(n))
	}
	return v
}

func lastSegment(name string) string {
	return name[strings.LastIndex(name, ".")+1:]
}

func lastNestedSegment(name string) string {
	return name[strings.LastIndex(name, "$")+1:]
}

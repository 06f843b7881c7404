// Package mirror describes the reflective view of a foreign class library.
//
// A reflection source lists the members of a class or package handle. Each
// listed Entry carries either one of the member variants (Method,
// Constructor, Property, Field, NestedClass, SubPackage) or a *ReadError
// explaining why the member could not be read. Reading a foreign object
// graph is best-effort: callers are expected to skip entries that failed.
package mirror

// BuiltinNamespace is the namespace of host-native types such as int or
// object.
const BuiltinNamespace = "__builtin__"

// TypeRef is a runtime type handle as reported by the reflection bridge.
//
// Arrays are reported with a leading '[' on the name or the namespace
// (object arrays as Namespace "[Lpkg", Name "Cls;"), nested classes use '$'
// as separator ("Outer$Inner").
type TypeRef struct {
	Name      string `json:"name" yaml:"name"`
	Namespace string `json:"namespace" yaml:"namespace"`
}

func Builtin(name string) TypeRef {
	return TypeRef{Name: name, Namespace: BuiltinNamespace}
}

// Signature is one reflected overload.
type Signature struct {
	Return   TypeRef   `json:"return" yaml:"return"`
	Params   []TypeRef `json:"params,omitempty" yaml:"params,omitempty"`
	IsStatic bool      `json:"static,omitempty" yaml:"static,omitempty"`
}

// Class is a live handle to a foreign class.
type Class interface {
	// Name is the runtime name, including '$' nesting separators.
	Name() string
	Namespace() string
	Bases() []TypeRef
	Members() []Entry
	// Iterable reports whether instances expose an iteration-advance
	// capability.
	Iterable() bool
}

// Package is a live handle to a foreign namespace.
type Package interface {
	// Name is the fully qualified, dot separated package name.
	Name() string
	Members() []Entry
}

// Entry is one member listing result.
type Entry struct {
	Name   string
	Member Member
	Err    error
}

func (e Entry) OK() bool {
	return e.Err == nil && e.Member != nil
}

func Failed(name string, reason Reason, cause error) Entry {
	return Entry{Name: name, Err: &ReadError{Member: name, Reason: reason, Cause: cause}}
}

func Found(name string, m Member) Entry {
	return Entry{Name: name, Member: m}
}

// Member is the tagged union of reflected member shapes.
type Member interface {
	member()
}

type Method struct {
	Overloads []Signature
}

type Constructor struct {
	Overloads []Signature
}

// Property is a bean-style getter/setter pair. Getter is the getter's
// return type, Setter the setter's parameter type.
type Property struct {
	Getter *TypeRef
	Setter *TypeRef
}

type Field struct {
	Type     TypeRef
	IsStatic bool
	IsFinal  bool
	// Value reads the field's current value. It returns an error matching
	// ErrIllegalValue when the value cannot be bridged.
	Value func() (any, error)
}

type NestedClass struct {
	Class Class
}

type SubPackage struct {
	Package Package
}

func (*Method) member()      {}
func (*Constructor) member() {}
func (*Property) member()    {}
func (*Field) member()       {}
func (*NestedClass) member() {}
func (*SubPackage) member()  {}

// WideInt is a 64-bit integer value that the host renders in hexadecimal.
type WideInt int64

package classpath

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/stubgen/classfile"
	"github.com/dhamidi/stubgen/mirror"
)

const (
	iterableInterface = "java/lang/Iterable"
	iteratorInterface = "java/util/Iterator"
)

// javaClass exposes the declared public members of one class file.
// Inherited members are left to the bases.
type javaClass struct {
	cp *Classpath
	cf *classfile.ClassFile

	name      string
	namespace string
}

func newClass(cp *Classpath, cf *classfile.ClassFile) *javaClass {
	pkg, simple := splitInternal(cf.ClassName())
	return &javaClass{cp: cp, cf: cf, name: simple, namespace: pkg}
}

func (c *javaClass) Name() string      { return c.name }
func (c *javaClass) Namespace() string { return c.namespace }

// Bases are the superclass followed by the implemented interfaces.
func (c *javaClass) Bases() []mirror.TypeRef {
	var bases []mirror.TypeRef
	if super := c.cf.SuperClassName(); super != "" {
		bases = append(bases, classRef(super))
	}
	for _, iface := range c.cf.InterfaceNames() {
		bases = append(bases, classRef(iface))
	}
	return bases
}

func (c *javaClass) Iterable() bool {
	return c.cp.iterable(c.cf, make(map[string]bool))
}

// iterable walks the resolvable supertypes of cf looking for an iteration
// capability. Supertypes missing from the classpath are skipped.
func (cp *Classpath) iterable(cf *classfile.ClassFile, visited map[string]bool) bool {
	name := cf.ClassName()
	if visited[name] {
		return false
	}
	visited[name] = true

	if declaresIteration(cf) {
		return true
	}
	supers := cf.InterfaceNames()
	if super := cf.SuperClassName(); super != "" {
		supers = append(supers, super)
	}
	for _, super := range supers {
		if super == iterableInterface || super == iteratorInterface {
			return true
		}
	}
	for _, super := range supers {
		superCF, err := cp.load(super)
		if err != nil {
			continue
		}
		if cp.iterable(superCF, visited) {
			return true
		}
	}
	return false
}

func declaresIteration(cf *classfile.ClassFile) bool {
	hasNext, next := false, false
	for i := range cf.Methods {
		m := &cf.Methods[i]
		if !m.IsPublic() || m.IsStatic() || !strings.HasPrefix(m.Descriptor(cf.ConstantPool), "()") {
			continue
		}
		switch m.Name(cf.ConstantPool) {
		case "iterator":
			return true
		case "hasNext":
			hasNext = true
		case "next":
			next = true
		}
	}
	return hasNext && next
}

// Members lists constructors, fields, methods, bean properties and member
// classes, in that order. Members with unreadable descriptors fail
// individually.
func (c *javaClass) Members() []mirror.Entry {
	cp := c.cf.ConstantPool
	var entries []mirror.Entry

	self := classRef(c.cf.ClassName())
	ctor := &mirror.Constructor{}
	for i := range c.cf.Methods {
		m := &c.cf.Methods[i]
		if !visible(m) || m.Name(cp) != "<init>" {
			continue
		}
		sig, err := signature(m.Descriptor(cp), false)
		if err != nil {
			entries = append(entries, mirror.Failed("__init__", mirror.ReasonUnbridgeable, err))
			continue
		}
		sig.Return = self
		ctor.Overloads = append(ctor.Overloads, sig)
	}
	if len(ctor.Overloads) > 0 {
		entries = append(entries, mirror.Found("__init__", ctor))
	}

	names := make(map[string]bool)
	for i := range c.cf.Fields {
		f := &c.cf.Fields[i]
		if !f.IsPublic() || f.IsSynthetic() {
			continue
		}
		name := f.Name(cp)
		names[name] = true
		field, err := c.field(f)
		if err != nil {
			entries = append(entries, mirror.Failed(name, mirror.ReasonUnbridgeable, err))
			continue
		}
		entries = append(entries, mirror.Found(name, field))
	}

	methods := make(map[string]*mirror.Method)
	var order []string
	var accessors []accessor
	for i := range c.cf.Methods {
		m := &c.cf.Methods[i]
		name := m.Name(cp)
		if !visible(m) || m.IsBridge() || strings.HasPrefix(name, "<") {
			continue
		}
		names[name] = true
		sig, err := signature(m.Descriptor(cp), m.IsStatic())
		if err != nil {
			entries = append(entries, mirror.Failed(name, mirror.ReasonUnbridgeable, err))
			continue
		}
		method, ok := methods[name]
		if !ok {
			method = &mirror.Method{}
			methods[name] = method
			order = append(order, name)
		}
		method.Overloads = append(method.Overloads, sig)
		if !sig.IsStatic {
			accessors = append(accessors, accessor{name: name, sig: sig, desc: m.Descriptor(cp)})
		}
	}
	for _, name := range order {
		entries = append(entries, mirror.Found(name, methods[name]))
	}

	entries = append(entries, beanProperties(accessors, names)...)
	entries = append(entries, c.memberClasses()...)
	return entries
}

func visible(m *classfile.MemberInfo) bool {
	return m.IsPublic() && !m.IsSynthetic()
}

func (c *javaClass) field(f *classfile.MemberInfo) (*mirror.Field, error) {
	cp := c.cf.ConstantPool
	ft, err := classfile.ParseFieldDescriptor(f.Descriptor(cp))
	if err != nil {
		return nil, err
	}
	field := &mirror.Field{
		Type:     typeRef(ft),
		IsStatic: f.IsStatic(),
		IsFinal:  f.IsFinal(),
		Value:    mirror.IllegalValue,
	}
	if !field.IsStatic || !field.IsFinal {
		return field, nil
	}
	if raw, ok := f.ConstantValue(cp); ok {
		if v, ok := constantValue(ft, raw); ok {
			field.Value = mirror.ConstValue(v)
		}
	}
	return field, nil
}

// constantValue converts a ConstantValue entry to the value the field's
// declared type reads as. Narrow integral types are stored as int.
func constantValue(ft classfile.FieldType, raw any) (any, bool) {
	if ft.IsArray() {
		return nil, false
	}
	switch v := raw.(type) {
	case int32:
		switch ft.BaseType {
		case 'Z':
			return v != 0, true
		case 'C':
			return string(rune(v)), true
		case 'B', 'S', 'I':
			return int64(v), true
		}
	case int64:
		if ft.BaseType == 'J' {
			return mirror.WideInt(v), true
		}
	case float32:
		if ft.BaseType == 'F' {
			return float64(v), true
		}
	case float64:
		if ft.BaseType == 'D' {
			return v, true
		}
	case string:
		if ft.ClassName == "java/lang/String" {
			return v, true
		}
	}
	return nil, false
}

// memberClasses resolves the public member classes named by the
// InnerClasses attribute.
func (c *javaClass) memberClasses() []mirror.Entry {
	var entries []mirror.Entry
	for _, ic := range c.cf.MemberClasses() {
		if !ic.AccessFlags.IsPublic() {
			continue
		}
		cf, err := c.cp.load(ic.Inner)
		switch {
		case errors.Is(err, ErrClassNotFound):
			entries = append(entries, mirror.Failed(ic.SimpleName, mirror.ReasonClassNotFound, err))
		case err != nil:
			entries = append(entries, mirror.Failed(ic.SimpleName, mirror.ReasonUnbridgeable, err))
		default:
			entries = append(entries, mirror.Found(ic.SimpleName, &mirror.NestedClass{Class: newClass(c.cp, cf)}))
		}
	}
	return entries
}

type accessor struct {
	name string
	sig  mirror.Signature
	desc string
}

// beanProperties pairs getX/isX getters with setX setters the way
// java.beans introspection does. A property whose name is already taken
// by a field or method is not exposed.
func beanProperties(accessors []accessor, taken map[string]bool) []mirror.Entry {
	props := make(map[string]*mirror.Property)
	for _, a := range accessors {
		a := a // getter/setter point into a; keep per-iteration copies
		var prop string
		var getter, setter *mirror.TypeRef
		switch {
		case strings.HasPrefix(a.name, "get") && len(a.name) > 3 && len(a.sig.Params) == 0 && !strings.HasSuffix(a.desc, ")V"):
			prop, getter = Decapitalize(a.name[3:]), &a.sig.Return
		case strings.HasPrefix(a.name, "is") && len(a.name) > 2 && len(a.sig.Params) == 0 && strings.HasSuffix(a.desc, ")Z"):
			prop, getter = Decapitalize(a.name[2:]), &a.sig.Return
		case strings.HasPrefix(a.name, "set") && len(a.name) > 3 && len(a.sig.Params) == 1 && strings.HasSuffix(a.desc, ")V"):
			prop, setter = Decapitalize(a.name[3:]), &a.sig.Params[0]
		default:
			continue
		}
		if taken[prop] {
			continue
		}
		p, ok := props[prop]
		if !ok {
			p = &mirror.Property{}
			props[prop] = p
		}
		if getter != nil && p.Getter == nil {
			p.Getter = getter
		}
		if setter != nil && p.Setter == nil {
			p.Setter = setter
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]mirror.Entry, len(names))
	for i, name := range names {
		entries[i] = mirror.Found(name, props[name])
	}
	return entries
}

// Decapitalize follows java.beans.Introspector: the first letter is
// lowered unless the first two letters are both upper case.
func Decapitalize(name string) string {
	if name == "" {
		return name
	}
	if len(name) > 1 && isUpper(name[0]) && isUpper(name[1]) {
		return name
	}
	if isUpper(name[0]) {
		return string(name[0]+'a'-'A') + name[1:]
	}
	return name
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func signature(desc string, static bool) (mirror.Signature, error) {
	md, err := classfile.ParseMethodDescriptor(desc)
	if err != nil {
		return mirror.Signature{}, err
	}
	sig := mirror.Signature{Return: typeRef(md.ReturnType), IsStatic: static}
	for _, p := range md.Parameters {
		sig.Params = append(sig.Params, typeRef(p))
	}
	return sig, nil
}

// classRef reports a class the way the reflection bridge does: dotted
// namespace, '$' separated nested name.
func classRef(internal string) mirror.TypeRef {
	pkg, simple := splitInternal(internal)
	return mirror.TypeRef{Name: simple, Namespace: pkg}
}

// typeRef encodes arrays like runtime array classes: primitive arrays as
// "[I" in the builtin namespace, object arrays as namespace "[La.b" with
// name "C;".
func typeRef(ft classfile.FieldType) mirror.TypeRef {
	dims := strings.Repeat("[", ft.ArrayDepth)
	if ft.BaseType != 0 {
		if ft.ArrayDepth > 0 {
			return mirror.TypeRef{Name: dims + string(ft.BaseType), Namespace: mirror.BuiltinNamespace}
		}
		return mirror.Builtin(ft.SourceName())
	}
	ref := classRef(ft.ClassName)
	if ft.ArrayDepth > 0 {
		ref.Namespace = dims + "L" + ref.Namespace
		ref.Name += ";"
	}
	return ref
}

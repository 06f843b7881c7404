// Package classfile reads JVM class files far enough to list a class's
// public surface: its supertypes, fields, methods, constant values and
// member classes.
package classfile

import (
	"encoding/binary"
)

type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []MemberInfo
	Methods      []MemberInfo
	Attributes   []AttributeInfo
}

// MemberInfo is a field_info or method_info structure.
type MemberInfo struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []AttributeInfo
}

type AttributeInfo struct {
	Name string
	Info []byte
}

// ClassName is the internal name, such as java/util/Map$Entry.
func (cf *ClassFile) ClassName() string {
	return cf.ConstantPool.GetClassName(cf.ThisClass)
}

func (cf *ClassFile) SuperClassName() string {
	if cf.SuperClass == 0 {
		return ""
	}
	return cf.ConstantPool.GetClassName(cf.SuperClass)
}

func (cf *ClassFile) InterfaceNames() []string {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		names[i] = cf.ConstantPool.GetClassName(idx)
	}
	return names
}

func (cf *ClassFile) IsInterface() bool {
	return cf.AccessFlags.IsInterface() && !cf.AccessFlags.IsAnnotation()
}

func (cf *ClassFile) GetField(name string) *MemberInfo {
	for i := range cf.Fields {
		if cf.Fields[i].Name(cf.ConstantPool) == name {
			return &cf.Fields[i]
		}
	}
	return nil
}

func (cf *ClassFile) GetMethods(name string) []*MemberInfo {
	var methods []*MemberInfo
	for i := range cf.Methods {
		if cf.Methods[i].Name(cf.ConstantPool) == name {
			methods = append(methods, &cf.Methods[i])
		}
	}
	return methods
}

func (cf *ClassFile) GetAttribute(name string) *AttributeInfo {
	return findAttribute(cf.Attributes, name)
}

// InnerClass is one entry of the InnerClasses attribute. Outer and
// SimpleName are empty for local and anonymous classes.
type InnerClass struct {
	Inner       string
	Outer       string
	SimpleName  string
	AccessFlags AccessFlags
}

// InnerClasses decodes the InnerClasses attribute, which lists every
// nested class this class refers to, including its own member classes.
func (cf *ClassFile) InnerClasses() []InnerClass {
	attr := cf.GetAttribute("InnerClasses")
	if attr == nil || len(attr.Info) < 2 {
		return nil
	}
	info := attr.Info
	count := int(binary.BigEndian.Uint16(info[0:2]))
	if len(info) < 2+count*8 {
		return nil
	}

	classes := make([]InnerClass, count)
	offset := 2
	for i := range classes {
		cp := cf.ConstantPool
		classes[i] = InnerClass{
			Inner:       cp.GetClassName(binary.BigEndian.Uint16(info[offset : offset+2])),
			Outer:       cp.GetClassName(binary.BigEndian.Uint16(info[offset+2 : offset+4])),
			SimpleName:  cp.GetUtf8(binary.BigEndian.Uint16(info[offset+4 : offset+6])),
			AccessFlags: AccessFlags(binary.BigEndian.Uint16(info[offset+6 : offset+8])),
		}
		offset += 8
	}
	return classes
}

// MemberClasses are the inner classes declared directly by cf.
func (cf *ClassFile) MemberClasses() []InnerClass {
	self := cf.ClassName()
	var members []InnerClass
	for _, ic := range cf.InnerClasses() {
		if ic.Outer == self && ic.SimpleName != "" {
			members = append(members, ic)
		}
	}
	return members
}

func (m *MemberInfo) Name(cp ConstantPool) string {
	return cp.GetUtf8(m.NameIndex)
}

func (m *MemberInfo) Descriptor(cp ConstantPool) string {
	return cp.GetUtf8(m.DescriptorIndex)
}

func (m *MemberInfo) GetAttribute(name string) *AttributeInfo {
	return findAttribute(m.Attributes, name)
}

// ConstantValue returns the compile-time constant of a static final
// field, if it has one.
func (m *MemberInfo) ConstantValue(cp ConstantPool) (any, bool) {
	attr := m.GetAttribute("ConstantValue")
	if attr == nil || len(attr.Info) < 2 {
		return nil, false
	}
	return cp.Loadable(binary.BigEndian.Uint16(attr.Info[0:2]))
}

func (m *MemberInfo) IsPublic() bool    { return m.AccessFlags.IsPublic() }
func (m *MemberInfo) IsStatic() bool    { return m.AccessFlags.IsStatic() }
func (m *MemberInfo) IsFinal() bool     { return m.AccessFlags.IsFinal() }
func (m *MemberInfo) IsSynthetic() bool { return m.AccessFlags.IsSynthetic() }
func (m *MemberInfo) IsBridge() bool    { return m.AccessFlags.IsBridge() }

func findAttribute(attrs []AttributeInfo, name string) *AttributeInfo {
	for i := range attrs {
		if attrs[i].Name == name {
			return &attrs[i]
		}
	}
	return nil
}

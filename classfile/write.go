package classfile

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
)

// Builder assembles a minimal class file in memory: a constant pool,
// member declarations without code, ConstantValue attributes and an
// InnerClasses table. It exists to produce fixtures and synthesized
// classes, not to compile anything.
type Builder struct {
	pool      bytes.Buffer
	poolCount uint16
	poolIndex map[string]uint16

	access     AccessFlags
	thisClass  uint16
	superClass uint16
	interfaces []uint16
	fields     []builtMember
	methods    []builtMember
	inner      [][4]uint16
}

type builtMember struct {
	access     AccessFlags
	name, desc uint16
	constant   uint16
}

// NewBuilder starts a public class with the given internal name. An empty
// super leaves the superclass unset, as for java/lang/Object.
func NewBuilder(name, super string) *Builder {
	b := &Builder{poolCount: 1, poolIndex: make(map[string]uint16), access: AccPublic | AccSuper}
	b.thisClass = b.class(name)
	if super != "" {
		b.superClass = b.class(super)
	}
	return b
}

func (b *Builder) SetAccess(flags AccessFlags) *Builder {
	b.access = flags
	return b
}

func (b *Builder) AddInterface(name string) *Builder {
	b.interfaces = append(b.interfaces, b.class(name))
	return b
}

// AddField declares a field. A non-nil constant (int32, int64, float32,
// float64 or string) becomes its ConstantValue attribute.
func (b *Builder) AddField(access AccessFlags, name, desc string, constant any) *Builder {
	m := builtMember{access: access, name: b.utf8(name), desc: b.utf8(desc)}
	if constant != nil {
		m.constant = b.loadable(constant)
	}
	b.fields = append(b.fields, m)
	return b
}

func (b *Builder) AddMethod(access AccessFlags, name, desc string) *Builder {
	b.methods = append(b.methods, builtMember{access: access, name: b.utf8(name), desc: b.utf8(desc)})
	return b
}

// AddInnerClass adds an InnerClasses entry. Empty outer or simpleName are
// written as index 0.
func (b *Builder) AddInnerClass(inner, outer, simpleName string, access AccessFlags) *Builder {
	var entry [4]uint16
	entry[0] = b.class(inner)
	if outer != "" {
		entry[1] = b.class(outer)
	}
	if simpleName != "" {
		entry[2] = b.utf8(simpleName)
	}
	entry[3] = uint16(access)
	b.inner = append(b.inner, entry)
	return b
}

func (b *Builder) Bytes() []byte {
	// Attribute names must be in the pool before it is written out.
	constantValue, innerClasses := uint16(0), uint16(0)
	for _, f := range b.fields {
		if f.constant != 0 {
			constantValue = b.utf8("ConstantValue")
			break
		}
	}
	if len(b.inner) > 0 {
		innerClasses = b.utf8("InnerClasses")
	}

	var out bytes.Buffer
	w := func(v any) { _ = binary.Write(&out, binary.BigEndian, v) }

	w(uint32(Magic))
	w(uint16(0))
	w(uint16(52))
	w(b.poolCount)
	out.Write(b.pool.Bytes())

	w(uint16(b.access))
	w(b.thisClass)
	w(b.superClass)
	w(uint16(len(b.interfaces)))
	for _, i := range b.interfaces {
		w(i)
	}

	w(uint16(len(b.fields)))
	for _, f := range b.fields {
		w(uint16(f.access))
		w(f.name)
		w(f.desc)
		if f.constant == 0 {
			w(uint16(0))
			continue
		}
		w(uint16(1))
		w(constantValue)
		w(uint32(2))
		w(f.constant)
	}

	w(uint16(len(b.methods)))
	for _, m := range b.methods {
		w(uint16(m.access))
		w(m.name)
		w(m.desc)
		w(uint16(0))
	}

	if len(b.inner) == 0 {
		w(uint16(0))
		return out.Bytes()
	}
	w(uint16(1))
	w(innerClasses)
	w(uint32(2 + 8*len(b.inner)))
	w(uint16(len(b.inner)))
	for _, entry := range b.inner {
		w(entry)
	}
	return out.Bytes()
}

func (b *Builder) intern(key string, slots uint16, write func()) uint16 {
	if idx, ok := b.poolIndex[key]; ok {
		return idx
	}
	idx := b.poolCount
	write()
	b.poolCount += slots
	b.poolIndex[key] = idx
	return idx
}

func (b *Builder) put(v any) {
	_ = binary.Write(&b.pool, binary.BigEndian, v)
}

// utf8 writes s as standard UTF-8, which equals the modified encoding for
// text without NUL or supplementary characters.
func (b *Builder) utf8(s string) uint16 {
	return b.intern("u:"+s, 1, func() {
		b.put(uint8(ConstantUtf8))
		b.put(uint16(len(s)))
		b.pool.WriteString(s)
	})
}

func (b *Builder) class(name string) uint16 {
	nameIndex := b.utf8(name)
	return b.intern("c:"+name, 1, func() {
		b.put(uint8(ConstantClass))
		b.put(nameIndex)
	})
}

func (b *Builder) loadable(v any) uint16 {
	switch c := v.(type) {
	case int32:
		return b.intern("i:"+strconv.FormatInt(int64(c), 10), 1, func() {
			b.put(uint8(ConstantInteger))
			b.put(c)
		})
	case int64:
		return b.intern("j:"+strconv.FormatInt(c, 10), 2, func() {
			b.put(uint8(ConstantLong))
			b.put(c)
		})
	case float32:
		return b.intern("f:"+strconv.FormatUint(uint64(math.Float32bits(c)), 16), 1, func() {
			b.put(uint8(ConstantFloat))
			b.put(math.Float32bits(c))
		})
	case float64:
		return b.intern("d:"+strconv.FormatUint(math.Float64bits(c), 16), 2, func() {
			b.put(uint8(ConstantDouble))
			b.put(math.Float64bits(c))
		})
	case string:
		s := b.utf8(c)
		return b.intern("s:"+c, 1, func() {
			b.put(uint8(ConstantString))
			b.put(s)
		})
	}
	panic("classfile: unsupported constant type")
}

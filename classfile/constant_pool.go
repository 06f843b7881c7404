package classfile

type ConstantPoolEntry interface {
	Tag() ConstantTag
}

type ConstantUtf8Info struct {
	Value string
}

func (c *ConstantUtf8Info) Tag() ConstantTag { return ConstantUtf8 }

type ConstantIntegerInfo struct {
	Value int32
}

func (c *ConstantIntegerInfo) Tag() ConstantTag { return ConstantInteger }

type ConstantFloatInfo struct {
	Value float32
}

func (c *ConstantFloatInfo) Tag() ConstantTag { return ConstantFloat }

type ConstantLongInfo struct {
	Value int64
}

func (c *ConstantLongInfo) Tag() ConstantTag { return ConstantLong }

type ConstantDoubleInfo struct {
	Value float64
}

func (c *ConstantDoubleInfo) Tag() ConstantTag { return ConstantDouble }

type ConstantClassInfo struct {
	NameIndex uint16
}

func (c *ConstantClassInfo) Tag() ConstantTag { return ConstantClass }

type ConstantStringInfo struct {
	StringIndex uint16
}

func (c *ConstantStringInfo) Tag() ConstantTag { return ConstantString }

// ConstantOpaqueInfo is an entry that member listing never needs, such as
// a method reference or a bootstrap descriptor. Only its tag is kept.
type ConstantOpaqueInfo struct {
	Kind ConstantTag
}

func (c *ConstantOpaqueInfo) Tag() ConstantTag { return c.Kind }

// ConstantPool is indexed from 1; the second slot of long and double
// entries is nil.
type ConstantPool []ConstantPoolEntry

func (cp ConstantPool) entry(index uint16) ConstantPoolEntry {
	if index == 0 || int(index) > len(cp) {
		return nil
	}
	return cp[index-1]
}

func (cp ConstantPool) GetUtf8(index uint16) string {
	if entry, ok := cp.entry(index).(*ConstantUtf8Info); ok {
		return entry.Value
	}
	return ""
}

func (cp ConstantPool) GetClassName(index uint16) string {
	if entry, ok := cp.entry(index).(*ConstantClassInfo); ok {
		return cp.GetUtf8(entry.NameIndex)
	}
	return ""
}

func (cp ConstantPool) GetString(index uint16) string {
	if entry, ok := cp.entry(index).(*ConstantStringInfo); ok {
		return cp.GetUtf8(entry.StringIndex)
	}
	return ""
}

// Loadable returns the value of an Integer, Long, Float, Double or String
// entry as int32, int64, float32, float64 or string.
func (cp ConstantPool) Loadable(index uint16) (any, bool) {
	switch entry := cp.entry(index).(type) {
	case *ConstantIntegerInfo:
		return entry.Value, true
	case *ConstantLongInfo:
		return entry.Value, true
	case *ConstantFloatInfo:
		return entry.Value, true
	case *ConstantDoubleInfo:
		return entry.Value, true
	case *ConstantStringInfo:
		return cp.GetUtf8(entry.StringIndex), true
	}
	return nil, false
}

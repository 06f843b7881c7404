package classfile

import (
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/cockroachdb/errors"
)

// ErrInvalidMagic is returned for input that is not a class file.
var ErrInvalidMagic = errors.New("invalid magic number")

type reader struct {
	r   io.Reader
	err error
}

func (r *reader) readU1() uint8 {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return buf[0]
}

func (r *reader) readU2() uint16 {
	if r.err != nil {
		return 0
	}
	var buf [2]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) readU4() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) readBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return buf
}

func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open class file")
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a class file. Attributes are kept undecoded; see
// ConstantValue and InnerClasses for the ones this package interprets.
func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	magic := r.readU4()
	if r.err != nil {
		return nil, errors.Wrap(r.err, "failed to read magic")
	}
	if magic != Magic {
		return nil, errors.Wrapf(ErrInvalidMagic, "0x%X", magic)
	}

	cf := &ClassFile{
		MinorVersion: r.readU2(),
		MajorVersion: r.readU2(),
	}

	constantPoolCount := r.readU2()
	if r.err != nil {
		return nil, errors.Wrap(r.err, "failed to read header")
	}
	if constantPoolCount == 0 {
		return nil, errors.New("empty constant pool")
	}

	cf.ConstantPool = make(ConstantPool, constantPoolCount-1)
	for i := uint16(1); i < constantPoolCount; i++ {
		entry, wide, err := readConstantPoolEntry(r)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read constant pool entry %d", i)
		}
		cf.ConstantPool[i-1] = entry
		if wide {
			i++
		}
	}

	cf.AccessFlags = AccessFlags(r.readU2())
	cf.ThisClass = r.readU2()
	cf.SuperClass = r.readU2()

	interfacesCount := r.readU2()
	cf.Interfaces = make([]uint16, interfacesCount)
	for i := range cf.Interfaces {
		cf.Interfaces[i] = r.readU2()
	}
	if r.err != nil {
		return nil, errors.Wrap(r.err, "failed to read class info")
	}

	var err error
	if cf.Fields, err = readMembers(r, cf.ConstantPool); err != nil {
		return nil, errors.Wrap(err, "failed to read fields")
	}
	if cf.Methods, err = readMembers(r, cf.ConstantPool); err != nil {
		return nil, errors.Wrap(err, "failed to read methods")
	}
	if cf.Attributes, err = readAttributes(r, cf.ConstantPool); err != nil {
		return nil, errors.Wrap(err, "failed to read class attributes")
	}
	return cf, nil
}

func readConstantPoolEntry(r *reader) (ConstantPoolEntry, bool, error) {
	tag := ConstantTag(r.readU1())
	if r.err != nil {
		return nil, false, r.err
	}

	var entry ConstantPoolEntry
	wide := false
	switch tag {
	case ConstantUtf8:
		length := r.readU2()
		entry = &ConstantUtf8Info{Value: decodeModifiedUtf8(r.readBytes(int(length)))}
	case ConstantInteger:
		entry = &ConstantIntegerInfo{Value: int32(r.readU4())}
	case ConstantFloat:
		entry = &ConstantFloatInfo{Value: math.Float32frombits(r.readU4())}
	case ConstantLong:
		high, low := r.readU4(), r.readU4()
		entry, wide = &ConstantLongInfo{Value: int64(uint64(high)<<32 | uint64(low))}, true
	case ConstantDouble:
		high, low := r.readU4(), r.readU4()
		entry, wide = &ConstantDoubleInfo{Value: math.Float64frombits(uint64(high)<<32 | uint64(low))}, true
	case ConstantClass:
		entry = &ConstantClassInfo{NameIndex: r.readU2()}
	case ConstantString:
		entry = &ConstantStringInfo{StringIndex: r.readU2()}
	default:
		size, ok := operandSize[tag]
		if !ok {
			return nil, false, errors.Newf("unknown constant pool tag: %d", tag)
		}
		r.readBytes(size)
		entry = &ConstantOpaqueInfo{Kind: tag}
	}
	if r.err != nil {
		return nil, false, r.err
	}
	return entry, wide, nil
}

func readMembers(r *reader, cp ConstantPool) ([]MemberInfo, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, r.err
	}
	members := make([]MemberInfo, count)
	for i := range members {
		members[i] = MemberInfo{
			AccessFlags:     AccessFlags(r.readU2()),
			NameIndex:       r.readU2(),
			DescriptorIndex: r.readU2(),
		}
		attrs, err := readAttributes(r, cp)
		if err != nil {
			return nil, errors.Wrapf(err, "member %d", i)
		}
		members[i].Attributes = attrs
	}
	return members, nil
}

func readAttributes(r *reader, cp ConstantPool) ([]AttributeInfo, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, r.err
	}
	attrs := make([]AttributeInfo, count)
	for i := range attrs {
		nameIndex := r.readU2()
		length := r.readU4()
		info := r.readBytes(int(length))
		if r.err != nil {
			return nil, r.err
		}
		attrs[i] = AttributeInfo{Name: cp.GetUtf8(nameIndex), Info: info}
	}
	return attrs, nil
}

func decodeModifiedUtf8(bytes []byte) string {
	runes := make([]rune, 0, len(bytes))
	i := 0
	for i < len(bytes) {
		b := bytes[i]
		if b&0x80 == 0 {
			runes = append(runes, rune(b))
			i++
		} else if b&0xE0 == 0xC0 {
			if i+1 >= len(bytes) {
				break
			}
			r := rune(b&0x1F)<<6 | rune(bytes[i+1]&0x3F)
			runes = append(runes, r)
			i += 2
		} else if b&0xF0 == 0xE0 {
			if i+2 >= len(bytes) {
				break
			}
			r := rune(b&0x0F)<<12 | rune(bytes[i+1]&0x3F)<<6 | rune(bytes[i+2]&0x3F)
			if r >= 0xD800 && r <= 0xDBFF && i+5 < len(bytes) && bytes[i+3] == 0xED {
				low := rune(bytes[i+3]&0x0F)<<12 | rune(bytes[i+4]&0x3F)<<6 | rune(bytes[i+5]&0x3F)
				if low >= 0xDC00 && low <= 0xDFFF {
					runes = append(runes, 0x10000+((r-0xD800)<<10)+(low-0xDC00))
					i += 6
					continue
				}
			}
			runes = append(runes, r)
			i += 3
		} else {
			runes = append(runes, rune(b))
			i++
		}
	}
	return string(runes)
}

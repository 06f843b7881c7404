package classfile

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrMalformedDescriptor is returned for field and method descriptors that
// do not follow the class file grammar.
var ErrMalformedDescriptor = errors.New("malformed descriptor")

// FieldType is a parsed field descriptor. Exactly one of BaseType and
// ClassName is set; BaseType holds the descriptor letter (I, J, Z, ...).
type FieldType struct {
	BaseType   byte
	ClassName  string
	ArrayDepth int
}

var baseTypeNames = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
	'V': "void",
}

// SourceName renders the type the way Java source spells it, such as
// java.util.Map$Entry[] or int.
func (ft FieldType) SourceName() string {
	var sb strings.Builder
	if ft.BaseType != 0 {
		sb.WriteString(baseTypeNames[ft.BaseType])
	} else {
		sb.WriteString(InternalToSourceName(ft.ClassName))
	}
	for i := 0; i < ft.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

func (ft FieldType) String() string {
	return ft.SourceName()
}

func (ft FieldType) IsArray() bool {
	return ft.ArrayDepth > 0
}

func (ft FieldType) IsPrimitive() bool {
	return ft.BaseType != 0 && ft.ArrayDepth == 0
}

func (ft FieldType) IsVoid() bool {
	return ft.BaseType == 'V'
}

// MethodDescriptor is a parsed method descriptor. ReturnType is the void
// type for methods without a result.
type MethodDescriptor struct {
	Parameters []FieldType
	ReturnType FieldType
}

func ParseFieldDescriptor(desc string) (FieldType, error) {
	ft, n := parseFieldType(desc, 0)
	if n == 0 || n != len(desc) || ft.IsVoid() {
		return FieldType{}, errors.Wrapf(ErrMalformedDescriptor, "%q", desc)
	}
	return ft, nil
}

func ParseMethodDescriptor(desc string) (MethodDescriptor, error) {
	var md MethodDescriptor
	if len(desc) == 0 || desc[0] != '(' {
		return md, errors.Wrapf(ErrMalformedDescriptor, "%q", desc)
	}

	i := 1
	for i < len(desc) && desc[i] != ')' {
		ft, n := parseFieldType(desc, i)
		if n == 0 || ft.IsVoid() {
			return md, errors.Wrapf(ErrMalformedDescriptor, "%q at %d", desc, i)
		}
		md.Parameters = append(md.Parameters, ft)
		i += n
	}
	if i >= len(desc) {
		return md, errors.Wrapf(ErrMalformedDescriptor, "%q", desc)
	}
	i++

	ret, n := parseFieldType(desc, i)
	if n == 0 || i+n != len(desc) {
		return md, errors.Wrapf(ErrMalformedDescriptor, "%q", desc)
	}
	md.ReturnType = ret
	return md, nil
}

func parseFieldType(desc string, start int) (FieldType, int) {
	var ft FieldType
	i := start
	for i < len(desc) && desc[i] == '[' {
		ft.ArrayDepth++
		i++
	}
	if i >= len(desc) {
		return FieldType{}, 0
	}

	c := desc[i]
	if c == 'L' {
		semicolon := strings.IndexByte(desc[i:], ';')
		if semicolon <= 1 {
			return FieldType{}, 0
		}
		ft.ClassName = desc[i+1 : i+semicolon]
		return ft, i - start + semicolon + 1
	}
	if _, ok := baseTypeNames[c]; !ok || (c == 'V' && ft.ArrayDepth > 0) {
		return FieldType{}, 0
	}
	ft.BaseType = c
	return ft, i - start + 1
}

// InternalToSourceName turns java/util/Map$Entry into java.util.Map$Entry.
func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

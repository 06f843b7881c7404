package typemodel

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/stubgen/mirror"
)

// ErrMalformedTypeSignature matches every *MalformedTypeSignatureError.
var ErrMalformedTypeSignature = errors.New("malformed type signature")

type MalformedTypeSignatureError struct {
	Text string
}

func (e *MalformedTypeSignatureError) Error() string {
	return fmt.Sprintf("malformed type signature: %q", e.Text)
}

func (e *MalformedTypeSignatureError) Is(target error) bool {
	return target == ErrMalformedTypeSignature
}

// FromRuntime resolves a reflected type handle.
func FromRuntime(t mirror.TypeRef) Descriptor {
	isArray := strings.HasPrefix(t.Namespace, "[") || strings.HasPrefix(t.Name, "[")

	name := strings.TrimLeft(t.Name, "[")
	name = strings.TrimRight(name, ";")
	name = strings.ReplaceAll(name, "$", ".")

	namespace := strings.TrimLeft(t.Namespace, "[")
	if isArray {
		namespace = strings.TrimPrefix(namespace, "L")
	}

	// Reflection cannot recover the element type of the opaque list type.
	if namespace == "java.util" && name == "List" {
		return Descriptor{Name: "object", Namespace: mirror.BuiltinNamespace, IsArray: true}
	}

	return Descriptor{Name: name, Namespace: namespace, IsArray: isArray}
}

var signaturePattern = regexp.MustCompile(`^(?:([\w.]+)<)?([\w.]+)(\[\])?>?`)

// FromSignature resolves a textual type such as "java.util.List<a.B>" or
// "a.B[]" as found in documentation records. Only the first type parameter
// of a generic is considered.
func FromSignature(text string) (Descriptor, error) {
	m := signaturePattern.FindStringSubmatch(text)
	if m == nil {
		return Descriptor{}, &MalformedTypeSignatureError{Text: text}
	}
	template, typeName, array := m[1], m[2], m[3]

	d := Descriptor{IsArray: array != ""}
	switch template {
	case "":
	case listRoot, arrayList:
		d.IsArray = true
	case iteratorRoot:
		d.IsIterator = true
	default:
		typeName = template
	}

	if i := strings.LastIndex(typeName, "."); i >= 0 {
		d.Namespace, d.Name = typeName[:i], typeName[i+1:]
	} else {
		d.Namespace, d.Name = mirror.BuiltinNamespace, typeName
	}

	if d.Name == "T" {
		d.Name, d.Namespace = "object", mirror.BuiltinNamespace
	}
	return d, nil
}

// MustFromSignature is FromSignature for literal, known-good input.
func MustFromSignature(text string) Descriptor {
	d, err := FromSignature(text)
	if err != nil {
		panic(err)
	}
	return d
}

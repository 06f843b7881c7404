package classfile

import (
	"bytes"
	"testing"

	"github.com/cockroachdb/errors"
)

func buildSample() []byte {
	return NewBuilder("a/b/Sample", "java/lang/Object").
		AddInterface("java/lang/Iterable").
		AddField(AccPublic|AccStatic|AccFinal, "MASK", "J", int64(0xff)).
		AddField(AccPublic|AccStatic|AccFinal, "NAME", "Ljava/lang/String;", "it's").
		AddField(AccPublic|AccStatic|AccFinal, "RATIO", "D", 0.5).
		AddField(AccPublic|AccStatic|AccFinal, "COUNT", "I", int32(-3)).
		AddField(AccPrivate, "secret", "I", nil).
		AddMethod(AccPublic, "<init>", "()V").
		AddMethod(AccPublic, "get", "(I)Ljava/lang/String;").
		AddMethod(AccPublic|AccStatic, "get", "(Ljava/lang/String;[[I)V").
		AddInnerClass("a/b/Sample$Entry", "a/b/Sample", "Entry", AccPublic|AccStatic).
		AddInnerClass("a/b/Sample$1", "", "", 0).
		AddInnerClass("java/util/Map$Entry", "java/util/Map", "Entry", AccPublic|AccStatic|AccInterface).
		Bytes()
}

func TestParseClassFile(t *testing.T) {
	cf, err := Parse(bytes.NewReader(buildSample()))
	if err != nil {
		t.Fatalf("Failed to parse class file: %v", err)
	}

	t.Run("names", func(t *testing.T) {
		if got := cf.ClassName(); got != "a/b/Sample" {
			t.Errorf("ClassName() = %q, want %q", got, "a/b/Sample")
		}
		if got := cf.SuperClassName(); got != "java/lang/Object" {
			t.Errorf("SuperClassName() = %q, want %q", got, "java/lang/Object")
		}
		interfaces := cf.InterfaceNames()
		if len(interfaces) != 1 || interfaces[0] != "java/lang/Iterable" {
			t.Errorf("InterfaceNames() = %v", interfaces)
		}
		if cf.IsInterface() {
			t.Error("Expected IsInterface() to be false")
		}
	})

	t.Run("fields", func(t *testing.T) {
		if len(cf.Fields) != 5 {
			t.Fatalf("Expected 5 fields, got %d", len(cf.Fields))
		}
		secret := cf.GetField("secret")
		if secret == nil {
			t.Fatal("Expected field secret")
		}
		if secret.IsPublic() || secret.IsStatic() {
			t.Errorf("secret flags = %#x", secret.AccessFlags)
		}
		if _, ok := secret.ConstantValue(cf.ConstantPool); ok {
			t.Error("Expected secret to have no constant value")
		}
		if cf.GetField("missing") != nil {
			t.Error("Expected no field named missing")
		}
	})

	t.Run("constant values", func(t *testing.T) {
		tests := []struct {
			field string
			want  any
		}{
			{"MASK", int64(0xff)},
			{"NAME", "it's"},
			{"RATIO", 0.5},
			{"COUNT", int32(-3)},
		}
		for _, tt := range tests {
			f := cf.GetField(tt.field)
			if f == nil {
				t.Fatalf("Expected field %s", tt.field)
			}
			got, ok := f.ConstantValue(cf.ConstantPool)
			if !ok || got != tt.want {
				t.Errorf("%s ConstantValue() = %v, %v; want %v", tt.field, got, ok, tt.want)
			}
		}
	})

	t.Run("methods", func(t *testing.T) {
		gets := cf.GetMethods("get")
		if len(gets) != 2 {
			t.Fatalf("Expected 2 get overloads, got %d", len(gets))
		}
		if got := gets[1].Descriptor(cf.ConstantPool); got != "(Ljava/lang/String;[[I)V" {
			t.Errorf("Descriptor() = %q", got)
		}
		if !gets[1].IsStatic() {
			t.Error("Expected second overload to be static")
		}
	})

	t.Run("inner classes", func(t *testing.T) {
		if got := len(cf.InnerClasses()); got != 3 {
			t.Fatalf("Expected 3 inner class entries, got %d", got)
		}
		members := cf.MemberClasses()
		if len(members) != 1 {
			t.Fatalf("Expected 1 member class, got %d", len(members))
		}
		want := InnerClass{Inner: "a/b/Sample$Entry", Outer: "a/b/Sample", SimpleName: "Entry", AccessFlags: AccPublic | AccStatic}
		if members[0] != want {
			t.Errorf("MemberClasses()[0] = %+v, want %+v", members[0], want)
		}
	})
}

func TestParseErrors(t *testing.T) {
	t.Run("bad magic", func(t *testing.T) {
		_, err := Parse(bytes.NewReader([]byte{0xde, 0xad, 0xbe, 0xef, 0, 0}))
		if !errors.Is(err, ErrInvalidMagic) {
			t.Errorf("Expected ErrInvalidMagic, got %v", err)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		data := buildSample()
		for _, n := range []int{3, 9, len(data) / 2, len(data) - 1} {
			if _, err := Parse(bytes.NewReader(data[:n])); err == nil {
				t.Errorf("Expected error for %d of %d bytes", n, len(data))
			}
		}
	})

	t.Run("unknown constant tag", func(t *testing.T) {
		data := []byte{0xca, 0xfe, 0xba, 0xbe, 0, 0, 0, 52, 0, 2, 99}
		if _, err := Parse(bytes.NewReader(data)); err == nil {
			t.Error("Expected error for unknown tag")
		}
	})
}

func TestDecodeModifiedUtf8(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"ascii", []byte("abc"), "abc"},
		{"encoded nul", []byte{0xc0, 0x80}, "\x00"},
		{"two byte", []byte{0xc3, 0xa9}, "é"},
		{"three byte", []byte{0xe2, 0x82, 0xac}, "€"},
		{"surrogate pair", []byte{0xed, 0xa0, 0xbd, 0xed, 0xb8, 0x80}, "😀"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeModifiedUtf8(tt.in); got != tt.want {
				t.Errorf("decodeModifiedUtf8() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDescriptors(t *testing.T) {
	t.Run("field", func(t *testing.T) {
		tests := []struct {
			desc string
			want string
		}{
			{"I", "int"},
			{"Ljava/util/Map$Entry;", "java.util.Map$Entry"},
			{"[[J", "long[][]"},
			{"[Ljava/lang/String;", "java.lang.String[]"},
		}
		for _, tt := range tests {
			ft, err := ParseFieldDescriptor(tt.desc)
			if err != nil {
				t.Fatalf("ParseFieldDescriptor(%q): %v", tt.desc, err)
			}
			if got := ft.SourceName(); got != tt.want {
				t.Errorf("ParseFieldDescriptor(%q) = %q, want %q", tt.desc, got, tt.want)
			}
		}
	})

	t.Run("method", func(t *testing.T) {
		md, err := ParseMethodDescriptor("(ILjava/lang/String;[Z)V")
		if err != nil {
			t.Fatal(err)
		}
		if len(md.Parameters) != 3 {
			t.Fatalf("Expected 3 parameters, got %d", len(md.Parameters))
		}
		if got := md.Parameters[2].SourceName(); got != "boolean[]" {
			t.Errorf("Parameters[2] = %q", got)
		}
		if !md.ReturnType.IsVoid() {
			t.Errorf("ReturnType = %v, want void", md.ReturnType)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		for _, desc := range []string{"", "V", "[V", "Ljava/lang/String", "L;", "IJ"} {
			if _, err := ParseFieldDescriptor(desc); !errors.Is(err, ErrMalformedDescriptor) {
				t.Errorf("ParseFieldDescriptor(%q) error = %v", desc, err)
			}
		}
		for _, desc := range []string{"", "I", "(I", "(V)V", "()", "()VV"} {
			if _, err := ParseMethodDescriptor(desc); !errors.Is(err, ErrMalformedDescriptor) {
				t.Errorf("ParseMethodDescriptor(%q) error = %v", desc, err)
			}
		}
	})
}

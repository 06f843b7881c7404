package typemodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/stubgen/mirror"
)

func TestPrimitiveCanonicalization(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"boolean", "bool"},
		{"byte", "int"},
		{"short", "int"},
		{"int", "int"},
		{"long", "long"},
		{"float", "float"},
		{"double", "float"},
		{"void", "None"},
		{"char", "int"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := FromRuntime(mirror.Builtin(tt.name))
			assert.Equal(t, tt.want, d.RenderedName())

			doc, err := FromSignature(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.RenderedName())
		})
	}
}

func TestBoxedAndWellKnownTypes(t *testing.T) {
	tests := map[string]string{
		"java.lang.String":     "Text",
		"java.lang.Object":     "object",
		"java.math.BigInteger": "long",
		"java.lang.Integer":    "int",
		"java.lang.Boolean":    "bool",
		"java.lang.Double":     "float",
		"ghidra.program.Foo":   "ghidra.program.Foo",
	}
	for sig, want := range tests {
		d, err := FromSignature(sig)
		require.NoError(t, err, sig)
		assert.Equal(t, want, d.RenderedName(), sig)
	}
}

func TestFromRuntime(t *testing.T) {
	t.Run("object array", func(t *testing.T) {
		d := FromRuntime(mirror.TypeRef{Name: "Address;", Namespace: "[Lghidra.program.model.address"})
		assert.Equal(t, Descriptor{Name: "Address", Namespace: "ghidra.program.model.address", IsArray: true}, d)
		assert.Equal(t, "List[ghidra.program.model.address.Address]", d.RenderedName())
	})

	t.Run("primitive array", func(t *testing.T) {
		d := FromRuntime(mirror.TypeRef{Name: "[byte", Namespace: mirror.BuiltinNamespace})
		assert.Equal(t, "List[int]", d.RenderedName())
	})

	t.Run("multi dimensional array wraps once", func(t *testing.T) {
		d := FromRuntime(mirror.TypeRef{Name: "[[Foo;", Namespace: "a.b"})
		assert.Equal(t, "List[a.b.Foo]", d.RenderedName())
	})

	t.Run("nested class", func(t *testing.T) {
		d := FromRuntime(mirror.TypeRef{Name: "Outer$Inner", Namespace: "a.b"})
		assert.Equal(t, "a.b.Outer.Inner", d.RenderedName())
	})

	t.Run("opaque list", func(t *testing.T) {
		d := FromRuntime(mirror.TypeRef{Name: "List", Namespace: "java.util"})
		assert.Equal(t, "List[object]", d.RenderedName())
		assert.True(t, d.IsArray)
	})
}

func TestFromSignature(t *testing.T) {
	tests := []struct {
		sig  string
		want string
	}{
		{"java.util.List<ghidra.Foo>", "List[ghidra.Foo]"},
		{"java.util.ArrayList<java.lang.String>", "List[Text]"},
		{"java.util.Iterator<ghidra.Foo>", "Iterator[ghidra.Foo]"},
		{"java.util.Map<K, V>", "java.util.Map"},
		{"java.util.Set<ghidra.Foo>", "java.util.Set"},
		{"ghidra.Foo[]", "List[ghidra.Foo]"},
		{"int[]", "List[int]"},
		{"T", "object"},
		{"java.util.List<T>", "List[object]"},
	}
	for _, tt := range tests {
		t.Run(tt.sig, func(t *testing.T) {
			d, err := FromSignature(tt.sig)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.RenderedName())
		})
	}
}

func TestFromSignatureMalformed(t *testing.T) {
	for _, sig := range []string{"", "<>", "?", " int"} {
		_, err := FromSignature(sig)
		require.Error(t, err, sig)
		assert.ErrorIs(t, err, ErrMalformedTypeSignature)

		var malformed *MalformedTypeSignatureError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, sig, malformed.Text)
	}
}

func TestImports(t *testing.T) {
	t.Run("array of text", func(t *testing.T) {
		d := MustFromSignature("java.lang.String[]")
		assert.Equal(t, []Import{{Module: "typing", Symbol: "List"}}, d.Imports())
	})

	t.Run("text", func(t *testing.T) {
		d := MustFromSignature("java.lang.String")
		assert.Equal(t, []Import{{Module: "typing", Symbol: "Text"}}, d.Imports())
	})

	t.Run("wide integer", func(t *testing.T) {
		d := FromRuntime(mirror.Builtin("long"))
		assert.Equal(t, []Import{{Module: "py3_compatibility", Symbol: "*"}}, d.Imports())
	})

	t.Run("dotted iterator", func(t *testing.T) {
		d := MustFromSignature("java.util.Iterator<ghidra.Foo>")
		assert.Equal(t, []Import{
			{Module: "typing", Symbol: "Iterator"},
			{Module: "ghidra"},
		}, d.Imports())
	})

	t.Run("builtin", func(t *testing.T) {
		assert.Empty(t, Builtin("int").Imports())
	})
}

func TestRenderedNameIsPure(t *testing.T) {
	d := Descriptor{Name: "Foo", Namespace: "a.b", IsArray: true}
	first := d.RenderedName()
	_ = d.Imports()
	_ = MustFromSignature("java.util.Iterator<a.b.Foo>").RenderedName()
	assert.Equal(t, first, d.RenderedName())
	assert.Equal(t, first, Descriptor{Name: "Foo", Namespace: "a.b", IsArray: true}.RenderedName())
}

func TestOverloadCompatible(t *testing.T) {
	iter := MustFromSignature("java.util.Iterator<ghidra.Foo>")
	root := FromRuntime(mirror.TypeRef{Name: "Iterator", Namespace: "java.util"})

	t.Run("reflexive", func(t *testing.T) {
		for _, d := range []Descriptor{iter, root, Builtin("int"), MustFromSignature("a.B[]")} {
			assert.True(t, d.OverloadCompatible(d), d.RenderedName())
		}
	})

	t.Run("same rendered name", func(t *testing.T) {
		assert.True(t, MustFromSignature("java.lang.Integer").OverloadCompatible(Builtin("int")))
		assert.True(t, MustFromSignature("double").OverloadCompatible(Builtin("float")))
	})

	t.Run("iterator erasure", func(t *testing.T) {
		assert.True(t, iter.OverloadCompatible(root))
		assert.False(t, root.OverloadCompatible(iter))
		other := FromRuntime(mirror.TypeRef{Name: "ListIterator", Namespace: "java.util"})
		assert.False(t, iter.OverloadCompatible(other))
	})

	t.Run("different types", func(t *testing.T) {
		assert.False(t, Builtin("int").OverloadCompatible(MustFromSignature("java.lang.String")))
	})
}

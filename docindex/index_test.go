package docindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/stubgen/typemodel"
)

func method(name, ret string, params ...string) MethodDesc {
	m := MethodDesc{Name: name, Return: ReturnDesc{TypeLong: ret}}
	for i := 0; i+1 < len(params); i += 2 {
		m.Params = append(m.Params, ParamDesc{Name: params[i], TypeLong: params[i+1]})
	}
	return m
}

func TestForClassNotFound(t *testing.T) {
	ix := New(MapStore{})
	_, err := ix.ForClass("a.b.Missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDocumentationNotFound))

	ix = New(nil)
	_, err = ix.ForClass("a.b.Missing")
	assert.True(t, errors.Is(err, ErrDocumentationNotFound))
}

func TestForClassMemoizes(t *testing.T) {
	store := MapStore{"a.Foo": {Name: "Foo", Comment: "first"}}
	ix := New(store)

	doc, err := ix.ForClass("a.Foo")
	require.NoError(t, err)
	assert.Equal(t, "first", doc.Comment())

	store["a.Foo"] = &Record{Name: "Foo", Comment: "second"}
	again, err := ix.ForClass("a.Foo")
	require.NoError(t, err)
	assert.Same(t, doc, again)
}

func TestOverloadSetOrder(t *testing.T) {
	ix := New(MapStore{
		"a.Foo": {
			Name:       "Foo",
			Extends:    "a.Base",
			Implements: References{"a.Iface"},
			Methods:    []MethodDesc{method("f", "void", "x", "int")},
		},
		"a.Base":  {Name: "Base", Methods: []MethodDesc{method("f", "void", "s", "java.lang.String"), method("g", "int")}},
		"a.Iface": {Name: "Iface", Methods: []MethodDesc{method("f", "void")}},
	})

	doc, err := ix.ForClass("a.Foo")
	require.NoError(t, err)

	set := doc.OverloadSet("f")
	require.Len(t, set.Overloads, 3)
	assert.Equal(t, "x", set.Overloads[0].Params[0].Name)
	assert.Equal(t, "s", set.Overloads[1].Params[0].Name)
	assert.Empty(t, set.Overloads[2].Params)

	assert.Len(t, doc.OverloadSet("g").Overloads, 1)
	assert.Empty(t, doc.OverloadSet("h").Overloads)
}

func TestOverloadSetMissingAncestor(t *testing.T) {
	ix := New(MapStore{
		"a.Foo": {
			Name:       "Foo",
			Implements: References{"a.Gone"},
			Methods:    []MethodDesc{method("f", "void", "x", "int")},
		},
	})

	doc, err := ix.ForClass("a.Foo")
	require.NoError(t, err)
	set := doc.OverloadSet("f")
	require.Len(t, set.Overloads, 1)
	assert.Equal(t, "x", set.Overloads[0].Params[0].Name)
}

func TestOverloadSetCycle(t *testing.T) {
	ix := New(MapStore{
		"a.A": {Name: "A", Extends: "a.B", Methods: []MethodDesc{method("f", "void")}},
		"a.B": {Name: "B", Extends: "a.A", Methods: []MethodDesc{method("f", "int")}},
	})

	doc, err := ix.ForClass("a.A")
	require.NoError(t, err)
	assert.Len(t, doc.OverloadSet("f").Overloads, 2)
}

func TestMatchingOverload(t *testing.T) {
	set := &OverloadSetDoc{Overloads: []MethodDesc{
		method("f", "void", "x", "int"),
		method("f", "void", "text", "java.lang.String"),
		method("f", "void", "a", "int", "b", "int"),
		method("f", "void", "it", "java.util.Iterator<a.Foo>"),
	}}

	t.Run("by type", func(t *testing.T) {
		m, err := set.MatchingOverload([]typemodel.Descriptor{{Name: "String", Namespace: "java.lang"}})
		require.NoError(t, err)
		require.NotNil(t, m)
		params, err := m.Params()
		require.NoError(t, err)
		assert.Equal(t, "text", params[0].Name)
	})

	t.Run("by arity", func(t *testing.T) {
		m, err := set.MatchingOverload([]typemodel.Descriptor{typemodel.Builtin("int"), typemodel.Builtin("int")})
		require.NoError(t, err)
		require.NotNil(t, m)
		params, err := m.Params()
		require.NoError(t, err)
		assert.Equal(t, "b", params[1].Name)
	})

	t.Run("erased iterator", func(t *testing.T) {
		m, err := set.MatchingOverload([]typemodel.Descriptor{{Name: "Iterator", Namespace: "java.util"}})
		require.NoError(t, err)
		require.NotNil(t, m)
		params, err := m.Params()
		require.NoError(t, err)
		assert.Equal(t, "Iterator[a.Foo]", params[0].Type.RenderedName())
	})

	t.Run("no match", func(t *testing.T) {
		m, err := set.MatchingOverload([]typemodel.Descriptor{typemodel.Builtin("float")})
		require.NoError(t, err)
		assert.Nil(t, m)
	})

	t.Run("nil set", func(t *testing.T) {
		var empty *OverloadSetDoc
		m, err := empty.MatchingOverload(nil)
		require.NoError(t, err)
		assert.Nil(t, m)
	})
}

func TestMatchingOverloadMalformed(t *testing.T) {
	set := &OverloadSetDoc{Overloads: []MethodDesc{method("f", "void", "x", "<?>")}}
	_, err := set.MatchingOverload([]typemodel.Descriptor{typemodel.Builtin("int")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, typemodel.ErrMalformedTypeSignature))
}

func TestReturnType(t *testing.T) {
	m := &MethodDoc{desc: method("get", "java.util.List<a.Foo>")}
	ret, ok, err := m.ReturnType()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "List[a.Foo]", ret.RenderedName())

	ctor := &MethodDoc{desc: MethodDesc{Name: ConstructorName}}
	_, ok, err = ctor.ReturnType()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDirStore(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	record := `{"name": "Foo", "comment": "A foo.", "implements": "a.b.Iface",
		"methods": [{"name": "f", "comment": "", "javadoc": "",
			"params": [{"name": "x", "type_long": "int", "type_short": "int"}],
			"return": {"type_long": "void", "type_short": "void"}}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Foo.json"), []byte(record), 0o644))

	store := NewDirStore(root)
	rec, err := store.Record("a.b.Foo")
	require.NoError(t, err)
	assert.Equal(t, "A foo.", rec.Comment)
	assert.Equal(t, References{"a.b.Iface"}, rec.Implements)
	require.Len(t, rec.Methods, 1)
	assert.Equal(t, "int", rec.Methods[0].Params[0].TypeLong)

	_, err = store.Record("a.b.Bar")
	assert.True(t, errors.Is(err, ErrDocumentationNotFound))

	names, err := store.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.b.Foo"}, names)
}

func TestReferencesDecoding(t *testing.T) {
	rec, err := DecodeRecord([]byte(`{"name": "X", "implements": ["a.I", "a.J"]}`))
	require.NoError(t, err)
	assert.Equal(t, References{"a.I", "a.J"}, rec.Implements)

	_, err = DecodeRecord([]byte(`{"name": "X", "implements": 3}`))
	assert.Error(t, err)
}

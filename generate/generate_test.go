package generate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/stubgen/classfile"
	"github.com/dhamidi/stubgen/classpath"
	"github.com/dhamidi/stubgen/docindex"
	"github.com/dhamidi/stubgen/mirror"
	"github.com/dhamidi/stubgen/stubtree"
)

func writeClass(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name)+".class")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func fixture(t *testing.T) *classpath.Classpath {
	t.Helper()
	dir := t.TempDir()
	pub := classfile.AccPublic
	writeClass(t, dir, "a/b/Api", classfile.NewBuilder("a/b/Api", "java/lang/Object").
		AddMethod(pub, "<init>", "()V").
		AddMethod(pub, "toAddr", "(J)La/b/Addr;").
		AddMethod(pub, "toAddr", "(Ljava/lang/String;)La/b/Addr;").
		AddMethod(pub, "hidden", "()Z").
		Bytes())
	writeClass(t, dir, "a/b/Addr", classfile.NewBuilder("a/b/Addr", "java/lang/Object").
		AddField(classfile.AccPublic|classfile.AccStatic|classfile.AccFinal, "MAX", "J", int64(255)).
		Bytes())

	cp, err := classpath.Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { cp.Close() })
	return cp
}

func docs() *docindex.Index {
	return docindex.New(docindex.MapStore{
		"a.b.Api": {
			Name:    "Api",
			Comment: "The {@code Api}.",
			Methods: []docindex.MethodDesc{{
				Name:    "toAddr",
				Javadoc: "Converts {@code offset}.",
				Params:  []docindex.ParamDesc{{Name: "offset", TypeLong: "long"}},
				Return:  docindex.ReturnDesc{TypeLong: "a.b.Addr"},
			}},
		},
	})
}

func read(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestPackages(t *testing.T) {
	cp := fixture(t)
	root := t.TempDir()
	g := New(docs(), true, stubtree.NewWriter(root))

	pkg, err := cp.Package("a")
	require.NoError(t, err)
	n, err := g.Packages([]mirror.Package{pkg})
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	assert.Equal(t, "from . import b as b", read(t, root, "a/__init__.pyi"))
	assert.Equal(t, "from .Addr import Addr as Addr\nfrom .Api import Api as Api", read(t, root, "a/b/__init__.pyi"))
	assert.Contains(t, read(t, root, "a/b/Addr.pyi"), "    MAX: long = 0xff\n")

	api := read(t, root, "a/b/Api.pyi")
	assert.True(t, strings.HasPrefix(api, "from py3_compatibility import *\nfrom typing import Text\nfrom typing import overload\nimport a.b\n"), api)
	assert.Contains(t, api, "class Api(object):\n    \"\"\"\n    The Api.\n    \"\"\"\n")
	assert.Contains(t, api, "    def __init__(self): ...")
	assert.Contains(t, api, "    @overload\n    def toAddr(self, offset: long) -> a.b.Addr:\n        \"\"\"\n        Converts offset.\n        \"\"\"\n        ...")
	assert.Contains(t, api, "    @overload\n    def toAddr(self, __a0: Text) -> a.b.Addr: ...")
	assert.Contains(t, api, "    def hidden(self) -> bool: ...")

	stats := g.Stats()
	assert.Equal(t, 2, stats.Packages)
	assert.Equal(t, 2, stats.Classes)
	assert.Equal(t, []string{"a.b.Addr"}, stats.Undocumented)
}

func TestWriteBuiltins(t *testing.T) {
	cp := fixture(t)
	root := t.TempDir()
	g := New(docs(), false, stubtree.NewWriter(root))

	api, err := cp.Class("a.b.Api")
	require.NoError(t, err)
	require.NoError(t, g.WriteBuiltins(Builtins{
		Module:    "ghidra_builtins",
		Classes:   []mirror.Class{api},
		Names:     []string{"toAddr"},
		Variables: map[string]string{"monitor": "a.b.Addr"},
	}))

	got := read(t, root, "ghidra_builtins.pyi")
	want := "from py3_compatibility import *\n" +
		"from typing import Text\n" +
		"from typing import overload\n" +
		"import a.b" +
		"\n\n\n\n" +
		"@overload\ndef toAddr(offset: long) -> a.b.Addr:\n    \"\"\"\n    Converts {@code offset}.\n    \"\"\"\n    ...\n\n" +
		"@overload\ndef toAddr(__a0: Text) -> a.b.Addr: ...\n\n" +
		"monitor: a.b.Addr"
	assert.Equal(t, want, got)
}

func TestWriteBuiltinsBadVariable(t *testing.T) {
	g := New(nil, false, stubtree.NewWriter(t.TempDir()))
	err := g.WriteBuiltins(Builtins{Module: "m", Variables: map[string]string{"x": "<?>"}})
	assert.Error(t, err)
}

package stubtree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/stubgen/extract"
	"github.com/dhamidi/stubgen/stub"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func tree() []*extract.PackageModel {
	return []*extract.PackageModel{{
		Name:    "a",
		Classes: []*extract.ClassModel{{Name: "Foo"}},
		Subpackages: []*extract.PackageModel{{
			Name:    "a.b",
			Classes: []*extract.ClassModel{{Name: "Bar"}},
		}},
	}}
}

func TestWriteTree(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "__init__.pyi"), []byte("from .Old import Old as Old\n"), 0o644))

	w := NewWriter(root)
	n, err := w.WriteTree(tree())
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	assert.Equal(t,
		"from . import b as b\nfrom .Foo import Foo as Foo\nfrom .Old import Old as Old",
		readFile(t, filepath.Join(root, "a", "__init__.pyi")))
	assert.Equal(t, stub.RenderClass(&extract.ClassModel{Name: "Bar"}), readFile(t, filepath.Join(root, "a", "b", "Bar.pyi")))
	assert.Equal(t, stub.CompatShim, readFile(t, filepath.Join(root, stub.CompatShimPath)))

	t.Run("rerun is stable", func(t *testing.T) {
		_, err := w.WriteTree(tree())
		require.NoError(t, err)
		assert.Equal(t,
			"from . import b as b\nfrom .Foo import Foo as Foo\nfrom .Old import Old as Old",
			readFile(t, filepath.Join(root, "a", "__init__.pyi")))
	})
}

func TestWriteTreeWithoutShim(t *testing.T) {
	root := t.TempDir()
	w := &Writer{Root: root}
	n, err := w.WriteTree(tree())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.NoFileExists(t, filepath.Join(root, stub.CompatShimPath))
}

func TestExistingLines(t *testing.T) {
	w := NewWriter(t.TempDir())
	assert.Nil(t, w.ExistingLines("missing/__init__.pyi"))

	require.NoError(t, w.WriteFile("x/__init__.pyi", "one\n\ntwo"))
	assert.Equal(t, []string{"one", "", "two"}, w.ExistingLines("x/__init__.pyi"))
}

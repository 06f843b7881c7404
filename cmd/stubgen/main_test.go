package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/stubgen/classfile"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func setup(t *testing.T) (configPath, classes string) {
	t.Helper()
	dir := t.TempDir()
	configPath = filepath.Join(dir, "stubgen.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[output]\ncompat_shim = false\n"), 0o644))

	classes = filepath.Join(dir, "classes")
	path := filepath.Join(classes, "a", "Foo.class")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	data := classfile.NewBuilder("a/Foo", "java/lang/Object").
		AddMethod(classfile.AccPublic, "size", "()I").
		Bytes()
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return configPath, classes
}

func TestGenerateCommand(t *testing.T) {
	configPath, classes := setup(t)
	out := filepath.Join(t.TempDir(), "stubs")

	stdout, err := run(t, "generate", "--config", configPath, "--classpath", classes, "--prefix", "a", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote 2 files to "+out)

	data, err := os.ReadFile(filepath.Join(out, "a", "Foo.pyi"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "class Foo(object):")
	assert.Contains(t, string(data), "    def size(self) -> int: ...")
	assert.NoFileExists(t, filepath.Join(out, "py3_compatibility.pyi"))
}

func TestGenerateRequiresClasspath(t *testing.T) {
	configPath, _ := setup(t)
	_, err := run(t, "generate", "--config", configPath, "--out", t.TempDir())
	assert.ErrorContains(t, err, "no classpath configured")
}

func TestGenerateFromSnapshot(t *testing.T) {
	configPath, _ := setup(t)
	snapshot := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(snapshot, []byte(`
name: a
classes:
  - name: Bar
    fields:
      - name: LIMIT
        type: {name: int, namespace: __builtin__}
        static: true
        final: true
        value: 3
`), 0o644))
	out := t.TempDir()

	_, err := run(t, "generate", "--config", configPath, "--snapshot", snapshot, "--out", out)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(out, "a", "Bar.pyi"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "    LIMIT: int = 3")
}

func TestDumpCommand(t *testing.T) {
	configPath, classes := setup(t)

	stdout, err := run(t, "dump", "a.Foo", "--config", configPath, "--classpath", classes, "--format", "line")
	require.NoError(t, err)
	assert.Equal(t, "class\tFoo\tobject\t-\nmethod\tFoo.size\tint\t()\t-\n", stdout)

	_, err = run(t, "dump", "a.Foo", "--config", configPath, "--classpath", classes, "--format", "xml")
	assert.Error(t, err)

	_, err = run(t, "dump", "a.Missing", "--config", configPath, "--classpath", classes)
	assert.Error(t, err)
}

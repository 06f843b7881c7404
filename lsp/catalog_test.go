package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/stubgen/extract"
	"github.com/dhamidi/stubgen/typemodel"
)

func catalog() *Catalog {
	text := typemodel.Descriptor{Name: "String", Namespace: "java.lang"}
	intType := typemodel.Builtin("int")
	foo := &extract.ClassModel{
		Name:      "Foo",
		Docstring: "A foo.",
		Bases:     []typemodel.Descriptor{{Name: "Object", Namespace: "java.lang"}},
		Methods: []extract.OverloadSet{{
			Name: "get",
			Overloads: []extract.Overload{
				{ReturnType: text, ArgumentTypes: []typemodel.Descriptor{intType}, ArgumentNames: []string{"index"}},
				{ReturnType: text, ArgumentTypes: []typemodel.Descriptor{text}, ArgumentNames: []string{"key"}},
			},
		}},
		Fields: []extract.Field{
			{Name: "MAX", Type: intType, IsStatic: true, IsFinal: true, Literal: "10", HasValue: true},
			{Name: "count", Type: intType},
		},
		Properties:    []extract.Property{{Name: "name", Getter: &text}},
		NestedClasses: []*extract.ClassModel{{Name: "Inner", Fields: []extract.Field{{Name: "x", Type: intType}}}},
	}
	return NewCatalog([]*extract.PackageModel{{
		Name:        "a",
		Subpackages: []*extract.PackageModel{{Name: "a.b", Classes: []*extract.ClassModel{foo}}},
	}})
}

func labels(items []Completion) []string {
	out := make([]string, len(items))
	for i, c := range items {
		out[i] = c.Label
	}
	return out
}

func TestComplete(t *testing.T) {
	c := catalog()
	assert.Equal(t, 2, c.Len())

	t.Run("package", func(t *testing.T) {
		assert.Equal(t, []string{"b"}, labels(c.Complete("a")))
		items := c.Complete("a.b")
		require.Len(t, items, 1)
		assert.Equal(t, Completion{Label: "Foo", Kind: KindClass, Detail: "a.b.Foo"}, items[0])
	})

	t.Run("class", func(t *testing.T) {
		items := c.Complete("a.b.Foo")
		assert.Equal(t, []string{"Inner", "MAX", "count", "get", "name"}, labels(items))
		for _, item := range items {
			switch item.Label {
			case "get":
				assert.Equal(t, KindMethod, item.Kind)
				assert.Equal(t, "def get(index: int) -> Text (+1 overload)", item.Detail)
			case "MAX":
				assert.Equal(t, KindConstant, item.Kind)
			case "count":
				assert.Equal(t, KindField, item.Kind)
			case "name":
				assert.Equal(t, KindProperty, item.Kind)
				assert.Equal(t, "Text", item.Detail)
			}
		}
	})

	t.Run("nested", func(t *testing.T) {
		assert.Equal(t, []string{"x"}, labels(c.Complete("a.b.Foo.Inner")))
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Empty(t, c.Complete("nope"))
	})
}

func TestHover(t *testing.T) {
	c := catalog()
	tests := []struct {
		expr string
		want string
	}{
		{"a.b.Foo", "```python\nclass a.b.Foo(object)\n```\n\nA foo."},
		{"a.b", "package `a.b`"},
		{"a.b.Foo.MAX", "```python\nMAX: int = 10\n```"},
		{"a.b.Foo.name", "```python\n@property\ndef name(self) -> Text: ...\n```"},
		{"a.b.Foo.get", "```python\n@overload\ndef get(self, index: int) -> Text: ...\n\n@overload\ndef get(self, key: Text) -> Text: ...\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, ok := c.Hover(tt.expr)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, expr := range []string{"a.b.Foo.missing", "x.Y.z", "plain"} {
		_, ok := c.Hover(expr)
		assert.False(t, ok, expr)
	}
}

func TestExpressions(t *testing.T) {
	t.Run("before", func(t *testing.T) {
		tests := []struct {
			line string
			col  int
			want string
			ok   bool
		}{
			{"x = a.b.Foo.", 12, "a.b.Foo", true},
			{"x = a.b.Foo.ge", 14, "a.b.Foo", true},
			{"call(a.b.", 9, "a.b", true},
			{"x = Foo", 7, "", false},
			{"x = foo(). ", 11, "", false},
			{".", 1, "", false},
		}
		for _, tt := range tests {
			got, ok := ExpressionBefore(tt.line, tt.col)
			assert.Equal(t, tt.ok, ok, tt.line)
			assert.Equal(t, tt.want, got, tt.line)
		}
	})

	t.Run("at", func(t *testing.T) {
		got, ok := ExpressionAt("y = a.b.Foo.get(1)", 13)
		assert.True(t, ok)
		assert.Equal(t, "a.b.Foo.get", got)

		got, ok = ExpressionAt("y = a.b.Foo.get(1)", 6)
		assert.True(t, ok)
		assert.Equal(t, "a.b", got)

		_, ok = ExpressionAt("   ", 1)
		assert.False(t, ok)
	})
}

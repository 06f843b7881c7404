// Package javadoc parses the inline markup of Javadoc prose and renders it
// as plain text suitable for Python docstrings.
package javadoc

// Node is the interface implemented by all Javadoc AST nodes.
type Node interface {
	node()
}

// Text represents plain text content.
type Text struct {
	Content string
}

// Code represents {@code ...} and {@literal ...}.
type Code struct {
	Content string
}

// Link represents {@link ...} and {@linkplain ...}.
type Link struct {
	Reference string
	Label     string
}

// InlineTag is any other inline tag, e.g. {@value} or {@inheritDoc}.
type InlineTag struct {
	Name    string
	Content string
}

// Element is an HTML start or end tag.
type Element struct {
	Name string
	End  bool
}

// Entity is an HTML character reference such as &lt; or &#64;.
type Entity struct {
	Name string
}

// BlockTag is a block tag such as @param or @return.
type BlockTag struct {
	Name string
	Body []Node
}

func (Text) node()      {}
func (Code) node()      {}
func (Link) node()      {}
func (InlineTag) node() {}
func (Element) node()   {}
func (Entity) node()    {}
func (BlockTag) node()  {}

// DocComment is a parsed comment: the main description and its block tags.
type DocComment struct {
	Body      []Node
	BlockTags []BlockTag
}

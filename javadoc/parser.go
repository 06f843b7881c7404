package javadoc

import (
	"strings"
	"unicode"
)

// Parser is a recursive-descent parser for Javadoc prose.
type Parser struct {
	input []rune
	pos   int
}

// Parse parses a Javadoc comment. The comment delimiters and the leading
// asterisks of continuation lines are optional.
func Parse(javadoc string) *DocComment {
	p := &Parser{input: []rune(stripDelimiters(javadoc))}
	doc := &DocComment{}
	doc.Body = p.parseContent()
	for !p.eof() {
		doc.BlockTags = append(doc.BlockTags, p.parseBlockTag())
	}
	return doc
}

func stripDelimiters(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "/**")
	s = strings.TrimSuffix(s, "*/")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "*") {
			trimmed = strings.TrimPrefix(trimmed, "*")
			trimmed = strings.TrimPrefix(trimmed, " ")
			lines[i] = trimmed
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func (p *Parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *Parser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *Parser) peekAt(offset int) rune {
	if p.pos+offset >= len(p.input) {
		return 0
	}
	return p.input[p.pos+offset]
}

// atBlockTag reports whether the parser sits on an '@' that starts a line
// (ignoring indentation).
func (p *Parser) atBlockTag() bool {
	if p.peek() != '@' || !unicode.IsLetter(p.peekAt(1)) {
		return false
	}
	for i := p.pos - 1; i >= 0; i-- {
		switch p.input[i] {
		case ' ', '\t':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

// parseContent parses text, inline tags, HTML and entities up to the next
// block tag.
func (p *Parser) parseContent() []Node {
	var nodes []Node
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			nodes = append(nodes, Text{Content: text.String()})
			text.Reset()
		}
	}

	for !p.eof() && !p.atBlockTag() {
		switch c := p.peek(); {
		case c == '{' && p.peekAt(1) == '@':
			flush()
			nodes = append(nodes, p.parseInlineTag())
		case c == '<' && (unicode.IsLetter(p.peekAt(1)) || p.peekAt(1) == '/'):
			if el, ok := p.parseElement(); ok {
				flush()
				nodes = append(nodes, el)
				continue
			}
			text.WriteRune(c)
			p.pos++
		case c == '&':
			if ent, ok := p.parseEntity(); ok {
				flush()
				nodes = append(nodes, ent)
				continue
			}
			text.WriteRune(c)
			p.pos++
		default:
			text.WriteRune(c)
			p.pos++
		}
	}
	flush()
	return nodes
}

// parseInlineTag parses "{@name content}" with balanced braces.
func (p *Parser) parseInlineTag() Node {
	p.pos += 2
	start := p.pos
	for !p.eof() && !unicode.IsSpace(p.peek()) && p.peek() != '}' {
		p.pos++
	}
	name := string(p.input[start:p.pos])

	depth := 1
	start = p.pos
	for !p.eof() {
		c := p.peek()
		if c == '{' {
			depth++
		} else if c == '}' {
			depth--
			if depth == 0 {
				break
			}
		}
		p.pos++
	}
	content := strings.TrimSpace(string(p.input[start:p.pos]))
	if !p.eof() {
		p.pos++
	}

	switch name {
	case "code", "literal":
		return Code{Content: content}
	case "link", "linkplain":
		ref, label, _ := strings.Cut(content, " ")
		return Link{Reference: ref, Label: strings.TrimSpace(label)}
	}
	return InlineTag{Name: name, Content: content}
}

func (p *Parser) parseElement() (Node, bool) {
	end := p.pos + 1
	for end < len(p.input) && p.input[end] != '>' && p.input[end] != '\n' {
		end++
	}
	if end >= len(p.input) || p.input[end] != '>' {
		return nil, false
	}

	tag := strings.TrimSpace(string(p.input[p.pos+1 : end]))
	tag = strings.TrimSuffix(tag, "/")
	el := Element{}
	if strings.HasPrefix(tag, "/") {
		el.End = true
		tag = tag[1:]
	}
	name, _, _ := strings.Cut(tag, " ")
	if name == "" {
		return nil, false
	}
	el.Name = strings.ToLower(name)
	p.pos = end + 1
	return el, true
}

func (p *Parser) parseEntity() (Node, bool) {
	end := p.pos + 1
	for end < len(p.input) && end-p.pos <= 10 {
		c := p.input[end]
		if c == ';' {
			break
		}
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '#' {
			return nil, false
		}
		end++
	}
	if end >= len(p.input) || p.input[end] != ';' || end == p.pos+1 {
		return nil, false
	}
	ent := Entity{Name: string(p.input[p.pos+1 : end])}
	p.pos = end + 1
	return ent, true
}

func (p *Parser) parseBlockTag() BlockTag {
	p.pos++
	start := p.pos
	for !p.eof() && !unicode.IsSpace(p.peek()) {
		p.pos++
	}
	tag := BlockTag{Name: string(p.input[start:p.pos])}
	tag.Body = p.parseContent()
	return tag
}

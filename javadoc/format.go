package javadoc

import (
	"regexp"
	"strconv"
	"strings"
)

// PlainText renders Javadoc prose as plain text: inline tags are reduced to
// their content, paragraphs and list items become line breaks, entities are
// decoded, and block tags are kept one per paragraph.
func PlainText(javadoc string) string {
	return Format(Parse(javadoc))
}

// Format renders a parsed comment as plain text.
func Format(doc *DocComment) string {
	if doc == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(normalizeWhitespace(formatNodes(doc.Body)))

	for _, tag := range doc.BlockTags {
		body := normalizeWhitespace(formatNodes(tag.Body))
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("@" + tag.Name)
		if body != "" {
			sb.WriteString(" " + body)
		}
	}
	return strings.TrimSpace(sb.String())
}

func formatNodes(nodes []Node) string {
	var sb strings.Builder
	for _, node := range nodes {
		sb.WriteString(formatNode(node))
	}
	return sb.String()
}

func formatNode(node Node) string {
	switch n := node.(type) {
	case Text:
		return n.Content
	case Code:
		return n.Content
	case Link:
		if n.Label != "" {
			return n.Label
		}
		return formatReference(n.Reference)
	case InlineTag:
		switch n.Name {
		case "inheritDoc", "docRoot":
			return ""
		case "value":
			return formatReference(n.Content)
		}
		return n.Content
	case Element:
		return formatElement(n)
	case Entity:
		return decodeEntity(n.Name)
	}
	return ""
}

// formatReference turns "pkg.Class#method(int)" into "Class.method(int)".
func formatReference(ref string) string {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "#") {
		return ref[1:]
	}
	className, member, hasMember := strings.Cut(ref, "#")
	if i := strings.LastIndex(className, "."); i >= 0 {
		className = className[i+1:]
	}
	if hasMember {
		return className + "." + member
	}
	return className
}

func formatElement(e Element) string {
	switch e.Name {
	case "p":
		if e.End {
			return ""
		}
		return "\n\n"
	case "br":
		return "\n"
	case "li":
		if e.End {
			return ""
		}
		return "\n- "
	case "pre", "table", "tr", "dl":
		return "\n"
	case "dt", "dd":
		if e.End {
			return ""
		}
		return "\n"
	}
	return ""
}

var namedEntities = map[string]string{
	"lt":     "<",
	"gt":     ">",
	"amp":    "&",
	"quot":   "\"",
	"apos":   "'",
	"nbsp":   " ",
	"mdash":  "-",
	"ndash":  "-",
	"hellip": "...",
	"copy":   "(c)",
}

func decodeEntity(name string) string {
	if s, ok := namedEntities[name]; ok {
		return s
	}
	if strings.HasPrefix(name, "#") {
		num := name[1:]
		base := 10
		if strings.HasPrefix(num, "x") || strings.HasPrefix(num, "X") {
			num, base = num[1:], 16
		}
		if code, err := strconv.ParseInt(num, base, 32); err == nil {
			return string(rune(code))
		}
	}
	return "&" + name + ";"
}

var (
	horizontalSpace = regexp.MustCompile(`[ \t]+`)
	blankLines      = regexp.MustCompile(`\n{3,}`)
)

func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

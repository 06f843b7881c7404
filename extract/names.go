package extract

import "strconv"

// pythonKeywords are the reserved words that cannot name a parameter or
// member.
var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "exec": true, "finally": true, "for": true, "from": true,
	"global": true, "if": true, "import": true, "in": true, "is": true,
	"lambda": true, "nonlocal": true, "not": true, "or": true, "pass": true,
	"print": true, "raise": true, "return": true, "try": true, "while": true,
	"with": true, "yield": true,
}

// ValidName appends an underscore to Python keywords.
func ValidName(name string) string {
	if pythonKeywords[name] {
		return name + "_"
	}
	return name
}

// PlaceholderNames returns __a0, __a1, ... for undocumented arguments.
func PlaceholderNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = "__a" + strconv.Itoa(i)
	}
	return names
}

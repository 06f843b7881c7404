package extract

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/stubgen/mirror"
)

// Literal renders a field value the way Python would print it in source:
// wide integers in hexadecimal, other numbers in their shortest form,
// strings single-quoted where possible.
func Literal(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "None", nil
	case mirror.WideInt:
		return hexLiteral(int64(v)), nil
	case bool:
		if v {
			return "True", nil
		}
		return "False", nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return floatLiteral(float64(v)), nil
	case float64:
		return floatLiteral(v), nil
	case string:
		return stringLiteral(v), nil
	}
	return "", errors.Newf("no literal form for %T", v)
}

func hexLiteral(n int64) string {
	if n < 0 {
		return "-0x" + strconv.FormatUint(uint64(-(n+1))+1, 16)
	}
	return "0x" + strconv.FormatInt(n, 16)
}

func floatLiteral(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "float('inf')"
	case math.IsInf(f, -1):
		return "float('-inf')"
	case math.IsNaN(f):
		return "float('nan')"
	}

	exp := strconv.FormatFloat(f, 'e', -1, 64)
	_, e, _ := strings.Cut(exp, "e")
	if n, _ := strconv.Atoi(e); n < -4 || n >= 16 {
		return exp
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

func stringLiteral(s string) string {
	quote := byte('\'')
	if strings.Contains(s, "'") && !strings.Contains(s, "\"") {
		quote = '"'
	}

	var sb strings.Builder
	sb.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			sb.WriteString(`\\`)
		case r == rune(quote):
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case unicode.IsPrint(r):
			sb.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(&sb, `\x%02x`, r)
		case r < 0x10000:
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			fmt.Fprintf(&sb, `\U%08x`, r)
		}
	}
	sb.WriteByte(quote)
	return sb.String()
}

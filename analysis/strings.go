package analysis

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// unquoteString returns the value of a JavaScript string literal. Malformed
// escapes are kept as written.
func unquoteString(literal string) string {
	if len(literal) < 2 {
		return literal
	}

	quote := literal[0]
	if (quote != '"' && quote != '\'' && quote != '`') || literal[len(literal)-1] != quote {
		return literal
	}

	body := literal[1 : len(literal)-1]
	if !strings.ContainsRune(body, '\\') {
		return body
	}

	var sb strings.Builder
	sb.Grow(len(body))

	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			sb.WriteByte(c)
			continue
		}

		i++
		switch esc := body[i]; esc {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case '\r':
			// line continuation
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
		case '\n':
		case 'x':
			if r, ok := parseHex(body, i+1, i+3); ok {
				sb.WriteRune(r)
				i += 2
			} else {
				sb.WriteString(`\x`)
			}
		case 'u':
			r, width, ok := parseUnicodeEscape(body[i+1:])
			if !ok {
				sb.WriteString(`\u`)
				continue
			}
			sb.WriteRune(r)
			i += width
		default:
			// LS and PS line continuations
			if r, size := utf8.DecodeRuneInString(body[i:]); r == '\u2028' || r == '\u2029' {
				i += size - 1
				continue
			}
			sb.WriteByte(esc)
		}
	}

	return sb.String()
}

func parseHex(s string, start, end int) (rune, bool) {
	if end > len(s) || start >= end {
		return 0, false
	}
	v, err := strconv.ParseUint(s[start:end], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

// parseUnicodeEscape parses the part of a \u escape after the "u", either
// four hex digits or a braced code point.
func parseUnicodeEscape(s string) (rune, int, bool) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, 0, false
		}
		r, ok := parseHex(s, 1, end)
		if !ok || r > utf8.MaxRune {
			return 0, 0, false
		}
		return r, end + 1, true
	}

	r, ok := parseHex(s, 0, 4)
	return r, 4, ok
}

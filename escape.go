package bregex

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// special lists the characters that have a meaning somewhere in a pattern.
const special = `()[]{}?*+|^$\.-#&~`

// Escape returns text with the characters a pattern would interpret
// escaped by a backslash, so that the result matches text literally.
//
// With specialOnly set only the pattern metacharacters and whitespace are
// escaped; otherwise every character other than an ASCII letter, digit or
// underscore is. With literalSpaces set, spaces are left alone either way.
// NUL is written as \000.
//
// Example:
//
//	bregex.Escape("[]", false, false)  // `\[\]`
//	bregex.Escape("a b.c", true, true) // `a b\.c`
func Escape(text string, specialOnly, literalSpaces bool) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4)
	for i := 0; i < len(text); {
		c, size := utf8.DecodeRuneInString(text[i:])
		raw := text[i : i+size]
		i += size
		switch {
		case c == ' ' && literalSpaces:
			b.WriteString(raw)
		case c == 0:
			b.WriteString(`\000`)
		case specialOnly && !needsEscape(c):
			b.WriteString(raw)
		case !specialOnly && isWordASCII(c):
			b.WriteString(raw)
		default:
			b.WriteByte('\\')
			b.WriteString(raw)
		}
	}
	return b.String()
}

// QuoteMeta escapes the metacharacters and whitespace in s.
// It is Escape(s, true, false).
//
// Example:
//
//	bregex.QuoteMeta("1.5+2") // `1\.5\+2`
func QuoteMeta(s string) string {
	return Escape(s, true, false)
}

func needsEscape(c rune) bool {
	if c < 0x80 && strings.IndexByte(special, byte(c)) >= 0 {
		return true
	}
	return unicode.IsSpace(c)
}

func isWordASCII(c rune) bool {
	return c < 0x80 && (isASCIILetter(byte(c)) || isDigit(byte(c)) || c == '_')
}

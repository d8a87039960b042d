package nfa

import (
	"unicode/utf8"

	"github.com/coregx/bregex/syntax"
)

// Look is a zero-width assertion checked against the haystack at a position.
type Look uint8

const (
	// LookStartText is \A, or ^ outside multiline mode.
	LookStartText Look = iota
	// LookEndText is \Z: the very end of the input.
	LookEndText
	// LookEnd is $ outside multiline mode: the end of the input or just
	// before a final '\n'.
	LookEnd
	// LookStartLine is ^ in multiline mode.
	LookStartLine
	// LookEndLine is $ in multiline mode.
	LookEndLine
	// LookWordBoundary is a Unicode \b.
	LookWordBoundary
	// LookNoWordBoundary is a Unicode \B.
	LookNoWordBoundary
	// LookWordBoundaryASCII is \b under the ASCII flag.
	LookWordBoundaryASCII
	// LookNoWordBoundaryASCII is \B under the ASCII flag.
	LookNoWordBoundaryASCII
)

var lookNames = [...]string{
	LookStartText:           `\A`,
	LookEndText:             `\Z`,
	LookEnd:                 `$`,
	LookStartLine:           `(?m:^)`,
	LookEndLine:             `(?m:$)`,
	LookWordBoundary:        `\b`,
	LookNoWordBoundary:      `\B`,
	LookWordBoundaryASCII:   `(?a:\b)`,
	LookNoWordBoundaryASCII: `(?a:\B)`,
}

func (l Look) String() string {
	if int(l) < len(lookNames) {
		return lookNames[l]
	}
	return "Look(?)"
}

// lookFor maps a parsed assertion onto a Look.
func lookFor(a syntax.Assertion, flags syntax.Flags) Look {
	ascii := flags&syntax.ASCII != 0
	switch a {
	case syntax.AssertBeginText:
		return LookStartText
	case syntax.AssertEndText:
		return LookEndText
	case syntax.AssertEnd:
		return LookEnd
	case syntax.AssertBeginLine:
		return LookStartLine
	case syntax.AssertEndLine:
		return LookEndLine
	case syntax.AssertWordBoundary:
		if ascii {
			return LookWordBoundaryASCII
		}
		return LookWordBoundary
	default:
		if ascii {
			return LookNoWordBoundaryASCII
		}
		return LookNoWordBoundary
	}
}

// checkLookAssertion checks if a look-around assertion is satisfied at the given position.
func checkLookAssertion(look Look, haystack []byte, pos int) bool {
	switch look {
	case LookStartText:
		return pos == 0
	case LookEndText:
		return pos == len(haystack)
	case LookEnd:
		return pos == len(haystack) || (pos == len(haystack)-1 && haystack[pos] == '\n')
	case LookStartLine:
		return pos == 0 || haystack[pos-1] == '\n'
	case LookEndLine:
		return pos == len(haystack) || haystack[pos] == '\n'
	case LookWordBoundary, LookWordBoundaryASCII:
		return isWordBefore(haystack, pos, look == LookWordBoundaryASCII) !=
			isWordAfter(haystack, pos, look == LookWordBoundaryASCII)
	case LookNoWordBoundary, LookNoWordBoundaryASCII:
		return isWordBefore(haystack, pos, look == LookNoWordBoundaryASCII) ==
			isWordAfter(haystack, pos, look == LookNoWordBoundaryASCII)
	}
	return false
}

func isWordBefore(haystack []byte, pos int, ascii bool) bool {
	if pos == 0 {
		return false
	}
	if b := haystack[pos-1]; b < utf8.RuneSelf {
		return syntax.IsWordRune(rune(b), ascii)
	}
	r, _ := utf8.DecodeLastRune(haystack[:pos])
	return syntax.IsWordRune(r, ascii)
}

func isWordAfter(haystack []byte, pos int, ascii bool) bool {
	if pos >= len(haystack) {
		return false
	}
	if b := haystack[pos]; b < utf8.RuneSelf {
		return syntax.IsWordRune(rune(b), ascii)
	}
	r, _ := utf8.DecodeRune(haystack[pos:])
	return syntax.IsWordRune(r, ascii)
}

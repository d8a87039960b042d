package syntax

import "strings"

// Flags modify how a pattern is interpreted. They may be passed to Parse or
// set inline with (?imsxa).
type Flags uint16

const (
	// FoldCase makes matching case-insensitive (i).
	FoldCase Flags = 1 << iota
	// MultiLine makes ^ and $ match at line boundaries (m).
	MultiLine
	// DotAll lets . match a newline (s).
	DotAll
	// Verbose ignores unescaped whitespace and #-comments in the pattern (x).
	Verbose
	// ASCII restricts \w, \d, \s and \b to ASCII (a).
	ASCII

	// AllFlags is the set of every defined flag.
	AllFlags = FoldCase | MultiLine | DotAll | Verbose | ASCII
)

var flagLetters = []struct {
	letter byte
	flag   Flags
}{
	{'a', ASCII},
	{'i', FoldCase},
	{'m', MultiLine},
	{'s', DotAll},
	{'x', Verbose},
}

func flagForLetter(c byte) (Flags, bool) {
	for _, fl := range flagLetters {
		if fl.letter == c {
			return fl.flag, true
		}
	}
	return 0, false
}

// ParseFlags converts a string of flag letters such as "im" into Flags.
// It returns false if the string holds an unknown letter.
func ParseFlags(s string) (Flags, bool) {
	var f Flags
	for i := 0; i < len(s); i++ {
		fl, ok := flagForLetter(s[i])
		if !ok {
			return 0, false
		}
		f |= fl
	}
	return f, true
}

// String returns the flag letters, in alphabetical order.
func (f Flags) String() string {
	var b strings.Builder
	for _, fl := range flagLetters {
		if f&fl.flag != 0 {
			b.WriteByte(fl.letter)
		}
	}
	return b.String()
}

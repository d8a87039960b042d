// Package syntax parses regular expression patterns into an abstract syntax
// tree.
//
// The accepted dialect is the Python one: named groups written as
// (?P<name>...) or (?<name>...), backreferences, lookaround assertions,
// atomic groups, possessive quantifiers and inline flags. Parse reports the
// first problem it meets as an *Error carrying the byte offset into the
// pattern.
package syntax

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Op identifies the kind of a syntax tree node.
type Op uint8

const (
	// OpEmpty matches the empty string.
	OpEmpty Op = iota
	// OpLiteral matches the runes in Node.Runes, in order.
	OpLiteral
	// OpClass matches one rune from Node.Class.
	OpClass
	// OpAnyChar matches any rune, newline included.
	OpAnyChar
	// OpAnyCharNotNL matches any rune except newline.
	OpAnyCharNotNL
	// OpAssert is a zero-width assertion selected by Node.Assert.
	OpAssert
	// OpCapture is a capturing group with index Node.Cap.
	OpCapture
	// OpGroup is a non-capturing group; kept so that flags scope correctly.
	OpGroup
	// OpConcat matches Node.Subs in sequence.
	OpConcat
	// OpAlternate matches the first of Node.Subs that leads to a match.
	OpAlternate
	// OpRepeat matches Node.Subs[0] between Min and Max times.
	OpRepeat
	// OpBackref matches the text last captured by group Node.Cap.
	OpBackref
	// OpLookaround is a lookahead or lookbehind assertion over Node.Subs[0].
	OpLookaround
	// OpAtomic matches Node.Subs[0] and discards its backtracking positions.
	OpAtomic
)

var opNames = [...]string{
	OpEmpty:        "Empty",
	OpLiteral:      "Literal",
	OpClass:        "Class",
	OpAnyChar:      "AnyChar",
	OpAnyCharNotNL: "AnyCharNotNL",
	OpAssert:       "Assert",
	OpCapture:      "Capture",
	OpGroup:        "Group",
	OpConcat:       "Concat",
	OpAlternate:    "Alternate",
	OpRepeat:       "Repeat",
	OpBackref:      "Backref",
	OpLookaround:   "Lookaround",
	OpAtomic:       "Atomic",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", op)
}

// Assertion is the kind of an OpAssert node.
type Assertion uint8

const (
	// AssertBeginText is \A, or ^ outside multiline mode.
	AssertBeginText Assertion = iota
	// AssertEndText is \Z: the very end of the input.
	AssertEndText
	// AssertEnd is $ outside multiline mode: the end of the input or just
	// before a final newline.
	AssertEnd
	// AssertBeginLine is ^ in multiline mode.
	AssertBeginLine
	// AssertEndLine is $ in multiline mode.
	AssertEndLine
	// AssertWordBoundary is \b.
	AssertWordBoundary
	// AssertNotWordBoundary is \B.
	AssertNotWordBoundary
)

// Node is a node of the syntax tree.
type Node struct {
	Op Op

	// Flags in effect where the node was parsed. Only FoldCase, DotAll and
	// ASCII are consulted after parsing.
	Flags Flags

	// Pos is the byte offset of the node in the pattern.
	Pos int

	Runes  []rune
	Class  *CharClass
	Assert Assertion

	// Cap is the group index for OpCapture and OpBackref.
	Cap  int
	Name string

	// Min and Max bound OpRepeat; Max is -1 for no upper bound.
	Min, Max int
	Greedy   bool

	// Behind and Negate qualify OpLookaround.
	Behind bool
	Negate bool

	Subs []*Node
}

// Tree is a parsed pattern.
type Tree struct {
	Pattern string
	Root    *Node

	// NumCaps is the number of capturing groups, not counting the implicit
	// group 0.
	NumCaps int

	// Names holds the group name for each capture index; Names[0] is always
	// empty, as are unnamed groups.
	Names []string

	// Flags are the flags in effect at the end of the pattern, including
	// global inline flags.
	Flags Flags
}

// CapIndex returns the index of the group called name, or -1.
func (t *Tree) CapIndex(name string) int {
	for i, n := range t.Names {
		if n != "" && n == name {
			return i
		}
	}
	return -1
}

// String renders the node in a compact debugging form.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	switch n.Op {
	case OpEmpty:
		b.WriteString("empty")
	case OpLiteral:
		fmt.Fprintf(b, "lit{%s}", string(n.Runes))
	case OpClass:
		b.WriteString("class{")
		for i, r := range n.Class.Ranges {
			if i > 0 {
				b.WriteByte(' ')
			}
			if r.Lo == r.Hi {
				fmt.Fprintf(b, "%q", r.Lo)
			} else {
				fmt.Fprintf(b, "%q-%q", r.Lo, r.Hi)
			}
		}
		b.WriteByte('}')
	case OpAnyChar:
		b.WriteString("any")
	case OpAnyCharNotNL:
		b.WriteString("dot")
	case OpAssert:
		fmt.Fprintf(b, "assert{%d}", n.Assert)
	case OpBackref:
		fmt.Fprintf(b, "backref{%d}", n.Cap)
	case OpRepeat:
		suffix := ""
		if !n.Greedy {
			suffix = "?"
		}
		fmt.Fprintf(b, "rep{%d,%d%s ", n.Min, n.Max, suffix)
		n.Subs[0].write(b)
		b.WriteByte('}')
	default:
		b.WriteString(strings.ToLower(n.Op.String()))
		if n.Op == OpCapture {
			fmt.Fprintf(b, "#%d", n.Cap)
			if n.Name != "" {
				fmt.Fprintf(b, "<%s>", n.Name)
			}
		}
		b.WriteByte('{')
		for i, sub := range n.Subs {
			if i > 0 {
				b.WriteByte(' ')
			}
			sub.write(b)
		}
		b.WriteByte('}')
	}
}

// Width returns the minimum and maximum number of bytes a match of n can
// consume. maxWidth is -1 when it is unbounded (loops and backreferences).
func (n *Node) Width() (minWidth, maxWidth int) {
	switch n.Op {
	case OpEmpty, OpAssert, OpLookaround:
		return 0, 0
	case OpLiteral:
		w := 0
		if n.Flags&FoldCase == 0 {
			for _, r := range n.Runes {
				w += runeLen(r)
			}
			return w, w
		}
		lo, hi := 0, 0
		for _, r := range n.Runes {
			a, b := foldWidth(r)
			lo += a
			hi += b
		}
		return lo, hi
	case OpClass:
		if len(n.Class.Ranges) == 0 {
			return 0, 0
		}
		first := n.Class.Ranges[0].Lo
		last := n.Class.Ranges[len(n.Class.Ranges)-1].Hi
		return runeLen(first), runeLen(last)
	case OpAnyChar, OpAnyCharNotNL:
		return 1, utf8.UTFMax
	case OpBackref:
		return 0, -1
	case OpCapture, OpGroup, OpAtomic:
		return n.Subs[0].Width()
	case OpConcat:
		lo, hi := 0, 0
		for _, sub := range n.Subs {
			a, b := sub.Width()
			lo += a
			if hi >= 0 {
				if b < 0 {
					hi = -1
				} else {
					hi += b
				}
			}
		}
		return lo, hi
	case OpAlternate:
		lo, hi := -1, 0
		for _, sub := range n.Subs {
			a, b := sub.Width()
			if lo < 0 || a < lo {
				lo = a
			}
			if hi >= 0 && (b < 0 || b > hi) {
				hi = b
			}
		}
		if lo < 0 {
			lo = 0
		}
		return lo, hi
	case OpRepeat:
		a, b := n.Subs[0].Width()
		lo := a * n.Min
		if n.Max < 0 {
			if b == 0 {
				return lo, 0
			}
			return lo, -1
		}
		if b < 0 {
			return lo, -1
		}
		return lo, b * n.Max
	}
	return 0, -1
}

// Nullable reports whether n can match the empty string.
func (n *Node) Nullable() bool {
	switch n.Op {
	case OpEmpty, OpAssert, OpLookaround, OpBackref:
		return true
	case OpLiteral:
		return len(n.Runes) == 0
	case OpClass, OpAnyChar, OpAnyCharNotNL:
		return false
	case OpCapture, OpGroup, OpAtomic:
		return n.Subs[0].Nullable()
	case OpConcat:
		for _, sub := range n.Subs {
			if !sub.Nullable() {
				return false
			}
		}
		return true
	case OpAlternate:
		for _, sub := range n.Subs {
			if sub.Nullable() {
				return true
			}
		}
		return false
	case OpRepeat:
		return n.Min == 0 || n.Subs[0].Nullable()
	}
	return true
}

func runeLen(r rune) int {
	if n := utf8.RuneLen(r); n > 0 {
		return n
	}
	return 3
}

// foldWidth returns the narrowest and widest encoding among the case
// variants of r.
func foldWidth(r rune) (int, int) {
	lo, hi := runeLen(r), runeLen(r)
	for f := simpleFold(r); f != r; f = simpleFold(f) {
		w := runeLen(f)
		lo = min(lo, w)
		hi = max(hi, w)
	}
	return lo, hi
}

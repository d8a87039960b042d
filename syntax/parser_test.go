package syntax

import (
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, pattern string, flags Flags) *Tree {
	t.Helper()
	tree, err := Parse(pattern, flags)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return tree
}

func TestParse_Tree(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{`abc`, `lit{abc}`},
		{``, `empty`},
		{`a|b`, `alternate{lit{a} lit{b}}`},
		{`a|`, `alternate{lit{a} empty}`},
		{`ab*`, `concat{lit{a} rep{0,-1 lit{b}}}`},
		{`a+?`, `rep{1,-1? lit{a}}`},
		{`a{2,5}`, `rep{2,5 lit{a}}`},
		{`a{,3}`, `rep{0,3 lit{a}}`},
		{`a{3}`, `rep{3,3 lit{a}}`},
		{`a{2,}`, `rep{2,-1 lit{a}}`},
		{`a++`, `atomic{rep{1,-1 lit{a}}}`},
		{`(a)`, `capture#1{lit{a}}`},
		{`(?P<x>a)`, `capture#1<x>{lit{a}}`},
		{`(?<x>a)`, `capture#1<x>{lit{a}}`},
		{`(?:a)`, `group{lit{a}}`},
		{`(?>a)`, `atomic{lit{a}}`},
		{`(?=a)`, `lookaround{lit{a}}`},
		{`(a)\1`, `concat{capture#1{lit{a}} backref{1}}`},
		{`(?P<n>a)(?P=n)`, `concat{capture#1<n>{lit{a}} backref{1}}`},
		{`(?P<n>a)\g<n>\g<1>`, `concat{capture#1<n>{lit{a}} backref{1} backref{1}}`},
		{`[a-c]`, `class{'a'-'c'}`},
		{`[]a]`, `class{']' 'a'}`},
		{`[a-]`, `class{'-' 'a'}`},
		{`.`, `dot`},
		{`(?s).`, `any`},
		{`a(?#comment)b`, `lit{ab}`},
		{`\x41é\101`, `lit{Aé` + "A" + `}`},
		{`\.\*`, `lit{.*}`},
		{`\é`, `lit{é}`},
		{`a{`, `lit{a{}`},
		{`a{x}`, `lit{a{x}}`},
		{`a{1,x}`, `lit{a{1,x}}`},
		{`\0`, "lit{\x00}"},
	}
	for _, tt := range tests {
		got := mustParse(t, tt.pattern, 0).Root.String()
		if got != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.pattern, got, tt.want)
		}
	}
}

func TestParse_Captures(t *testing.T) {
	tree := mustParse(t, `(?P<year>\d+)-((\d+)-(?<day>\d+))`, 0)
	if tree.NumCaps != 4 {
		t.Errorf("NumCaps = %d, want 4", tree.NumCaps)
	}
	want := []string{"", "year", "", "", "day"}
	if strings.Join(tree.Names, ",") != strings.Join(want, ",") {
		t.Errorf("Names = %q, want %q", tree.Names, want)
	}
	if i := tree.CapIndex("day"); i != 4 {
		t.Errorf("CapIndex(day) = %d, want 4", i)
	}
	if i := tree.CapIndex("nope"); i != -1 {
		t.Errorf("CapIndex(nope) = %d, want -1", i)
	}
	if i := tree.CapIndex(""); i != -1 {
		t.Errorf("CapIndex(\"\") = %d, want -1", i)
	}
}

func TestParse_Anchors(t *testing.T) {
	tests := []struct {
		pattern string
		flags   Flags
		want    Assertion
	}{
		{`^`, 0, AssertBeginText},
		{`^`, MultiLine, AssertBeginLine},
		{`$`, 0, AssertEnd},
		{`$`, MultiLine, AssertEndLine},
		{`\A`, MultiLine, AssertBeginText},
		{`\Z`, MultiLine, AssertEndText},
		{`\b`, 0, AssertWordBoundary},
		{`\B`, 0, AssertNotWordBoundary},
		{`(?m)$`, 0, AssertEndLine},
	}
	for _, tt := range tests {
		root := mustParse(t, tt.pattern, tt.flags).Root
		if root.Op != OpAssert || root.Assert != tt.want {
			t.Errorf("Parse(%q, %v) = %s, want assert{%d}", tt.pattern, tt.flags, root, tt.want)
		}
	}
}

func TestParse_Lookbehind(t *testing.T) {
	root := mustParse(t, `(?<!ab)`, 0).Root
	if root.Op != OpLookaround || !root.Behind || !root.Negate {
		t.Errorf("(?<!ab) parsed as %s behind=%v negate=%v", root, root.Behind, root.Negate)
	}
	root = mustParse(t, `(?!a)`, 0).Root
	if root.Behind || !root.Negate {
		t.Errorf("(?!a) parsed with behind=%v negate=%v", root.Behind, root.Negate)
	}
}

func TestParse_InlineFlags(t *testing.T) {
	tree := mustParse(t, `a(?i)b`, 0)
	cat := tree.Root
	if cat.Op != OpConcat || len(cat.Subs) != 2 {
		t.Fatalf("a(?i)b = %s, want a concatenation of two literals", cat)
	}
	if cat.Subs[0].Flags&FoldCase != 0 || cat.Subs[1].Flags&FoldCase == 0 {
		t.Errorf("flags = %v, %v; want FoldCase only on b", cat.Subs[0].Flags, cat.Subs[1].Flags)
	}
	if tree.Flags&FoldCase == 0 {
		t.Error("global (?i) should be reported in Tree.Flags")
	}

	// flags set inside a group end with the group
	cat = mustParse(t, `((?i)a)b`, 0).Root
	if cat.Subs[1].Flags&FoldCase != 0 {
		t.Error("(?i) leaked out of its group")
	}

	cat = mustParse(t, `(?i:a)b`, 0).Root
	if cat.Subs[0].Subs[0].Flags&FoldCase == 0 || cat.Subs[1].Flags&FoldCase != 0 {
		t.Errorf("(?i:a)b flags wrong: %s", cat)
	}

	n := mustParse(t, `(?-i:a)`, FoldCase).Root
	if n.Subs[0].Flags&FoldCase != 0 {
		t.Error("(?-i:...) should clear FoldCase")
	}
}

func TestParse_Verbose(t *testing.T) {
	got := mustParse(t, "a b # comment\n c\\ d", Verbose).Root.String()
	if got != `lit{abc d}` {
		t.Errorf("verbose parse = %s, want lit{abc d}", got)
	}
	got = mustParse(t, "a +", Verbose).Root.String()
	if got != `rep{1,-1 lit{a}}` {
		t.Errorf("verbose quantifier = %s", got)
	}
}

func TestParse_ClassEscapes(t *testing.T) {
	n := mustParse(t, `\d`, 0).Root
	if !n.Class.Contains('٣') {
		t.Error(`\d should match Arabic-Indic digits`)
	}
	n = mustParse(t, `(?a)\d`, 0).Root
	if n.Class.Contains('٣') || !n.Class.Contains('3') {
		t.Error(`(?a)\d should be ASCII only`)
	}
	n = mustParse(t, `[^\W\d]`, 0).Root
	if !n.Class.Contains('é') || n.Class.Contains('5') || n.Class.Contains(' ') {
		t.Errorf(`[^\W\d] = %s`, n)
	}
	n = mustParse(t, `(?i)[k]`, 0).Root
	if !n.Class.Contains('K') || !n.Class.Contains('K') {
		t.Error("(?i)[k] should contain K and the Kelvin sign")
	}
	n = mustParse(t, `[\s]`, 0).Root
	if !n.Class.Contains('\x1c') || !n.Class.Contains(' ') {
		t.Error(`\s should include the information separators`)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		pattern string
		code    string
		pos     int
	}{
		{`(`, ErrMissingParen, 0},
		{`a(b`, ErrMissingParen, 1},
		{`a)`, ErrUnbalancedParen, 1},
		{`[a`, ErrUnterminatedSet, 0},
		{`[z-a]`, ErrBadRange, 1},
		{`[\d-z]`, ErrBadRange, 1},
		{`\q`, ErrBadEscape, 0},
		{`a\`, ErrTrailingBackslash, 1},
		{`*`, ErrNothingToRepeat, 0},
		{`a|+`, ErrNothingToRepeat, 2},
		{`^*`, ErrNothingToRepeat, 1},
		{`a**`, ErrMultipleRepeat, 2},
		{`a{3,2}`, ErrMinGreaterThanMax, 1},
		{`a{99999999}`, ErrRepeatTooLarge, 1},
		{`(?P<1a>x)`, ErrBadGroupName, 4},
		{`(?P<a`, ErrMissingNameEnd, 4},
		{`(?P<>a)`, ErrMissingGroupName, 4},
		{`(?P=zz)`, ErrUnknownGroupName, 4},
		{`\1`, ErrInvalidGroupRef, 0},
		{`(a)\2`, ErrInvalidGroupRef, 3},
		{`(a\1)`, ErrOpenGroupRef, 2},
		{`(?Q)`, ErrUnknownExtension, 0},
		{`(?`, ErrUnknownExtension, 0},
		{`(?i`, ErrMissingFlag, 3},
		{`(?-)`, ErrMissingFlag, 3},
		{`(?iz)`, ErrUnknownFlag, 3},
		{`(?#abc`, ErrUnterminatedComment, 0},
		{`\400`, ErrBadEscape, 0},
	}
	for _, tt := range tests {
		_, err := Parse(tt.pattern, 0)
		var se *Error
		if !errors.As(err, &se) {
			t.Errorf("Parse(%q) error = %v, want *Error", tt.pattern, err)
			continue
		}
		if !strings.HasPrefix(se.Code, tt.code) || se.Pos != tt.pos {
			t.Errorf("Parse(%q) = %q at %d, want %q at %d", tt.pattern, se.Code, se.Pos, tt.code, tt.pos)
		}
		if se.Pattern != tt.pattern {
			t.Errorf("Error.Pattern = %q, want %q", se.Pattern, tt.pattern)
		}
		if !strings.Contains(se.Error(), "position") {
			t.Errorf("Error() = %q should mention the position", se.Error())
		}
	}
}

func TestParse_NestingDepth(t *testing.T) {
	deep := strings.Repeat("(", 20) + strings.Repeat(")", 20)
	if _, err := ParseWithDepth(deep, 0, 20); err != nil {
		t.Errorf("depth 20 with limit 20: %v", err)
	}
	_, err := ParseWithDepth(deep, 0, 19)
	var se *Error
	if !errors.As(err, &se) || se.Code != ErrNestingDepth {
		t.Errorf("depth 20 with limit 19: error = %v, want %q", err, ErrNestingDepth)
	}
}

func TestNode_Width(t *testing.T) {
	tests := []struct {
		pattern  string
		min, max int
	}{
		{`abc`, 3, 3},
		{`é`, 2, 2},
		{`a|bcd`, 1, 3},
		{`a*`, 0, -1},
		{`a{2,4}`, 2, 4},
		{`(?:)*`, 0, 0},
		{`.`, 1, 4},
		{`(a)\1`, 1, -1},
		{`(?i)k`, 1, 3},
		{`\b(?=x)`, 0, 0},
	}
	for _, tt := range tests {
		lo, hi := mustParse(t, tt.pattern, 0).Root.Width()
		if lo != tt.min || hi != tt.max {
			t.Errorf("Width(%q) = %d, %d; want %d, %d", tt.pattern, lo, hi, tt.min, tt.max)
		}
	}
}

func TestNode_Nullable(t *testing.T) {
	tests := []struct {
		pattern string
		want    bool
	}{
		{`a`, false},
		{`a?`, true},
		{`a|`, true},
		{`(a*)+`, true},
		{`ab*`, false},
		{`^$`, true},
		{`[a-z]{0}`, true},
	}
	for _, tt := range tests {
		if got := mustParse(t, tt.pattern, 0).Root.Nullable(); got != tt.want {
			t.Errorf("Nullable(%q) = %v, want %v", tt.pattern, got, tt.want)
		}
	}
}

func TestFlags(t *testing.T) {
	f, ok := ParseFlags("mi")
	if !ok || f != FoldCase|MultiLine {
		t.Errorf("ParseFlags(mi) = %v, %v", f, ok)
	}
	if f.String() != "im" {
		t.Errorf("String() = %q, want im", f.String())
	}
	if _, ok := ParseFlags("iq"); ok {
		t.Error("ParseFlags should reject unknown letters")
	}
	if AllFlags.String() != "aimsx" {
		t.Errorf("AllFlags.String() = %q", AllFlags.String())
	}
}

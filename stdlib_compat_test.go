package bregex

import (
	"regexp"
	"slices"
	"testing"
)

// Patterns from the syntax shared with the standard library. Go's regexp
// reports the match a backtracking engine would, so on ASCII input the
// spans and groups must agree. Patterns that can match the empty string are
// left out of the FindAll comparison: Go skips an empty match right after a
// previous match.
var stdlibPatterns = []string{
	`\d+`,
	`[a-z]+\d`,
	`(a|ab)(c|bcd)(d*)`,
	`(\w+)\s(\w+)`,
	`a.c`,
	`(?i)hello`,
	`x*y`,
	`(foo|foobar)`,
	`a{2,3}`,
	`(a+)(a+)`,
	`(a+?)(a*)`,
	`[^aeiou\s]+`,
	`\bfoo\b`,
	`(?s)a.b`,
	`(?m)^\w+`,
	`(a|b)*c`,
	`(?:ab)+`,
	`.*?x`,
	`(\d+)-(\d+)?`,
	`[[\]]+`,
	`\B\w\B`,
	`(?i)[a-c]+`,
	`(a*)b`,
}

var stdlibInputs = []string{
	"",
	"abc",
	"hello world",
	"Hello HELLO hello",
	"foobar foo",
	"aaa",
	"abcd",
	"a1 b22 c333",
	"xxy xy y",
	"a\nb\nc",
	"abab ab",
	"the quick brown fox",
	"12-34 5- 6-7",
	"[a] ]b[",
	"aab acb abb",
}

func TestStdlibCompat_Search(t *testing.T) {
	for _, p := range stdlibPatterns {
		re := MustCompile(p)
		std := regexp.MustCompile(p)
		if re.NumGroups() != std.NumSubexp() {
			t.Errorf("%q: NumGroups = %d, stdlib %d", p, re.NumGroups(), std.NumSubexp())
			continue
		}
		for _, in := range stdlibInputs {
			want := std.FindStringSubmatchIndex(in)
			got := spans(re.Search(in))
			if !slices.Equal(got, want) {
				t.Errorf("Search(%q, %q) = %v, stdlib %v", p, in, got, want)
			}
			if re.IsMatch(in) != std.MatchString(in) {
				t.Errorf("IsMatch(%q, %q) disagrees with stdlib", p, in)
			}
		}
	}
}

func TestStdlibCompat_FindAll(t *testing.T) {
	for _, p := range stdlibPatterns {
		re := MustCompile(p)
		if re.IsMatch("") {
			continue
		}
		std := regexp.MustCompile(p)
		for _, in := range stdlibInputs {
			want := std.FindAllString(in, -1)
			got := re.FindAll(in)
			if !slices.Equal(got, want) {
				t.Errorf("FindAll(%q, %q) = %q, stdlib %q", p, in, got, want)
			}
		}
	}
}

func TestStdlibCompat_Split(t *testing.T) {
	for _, p := range []string{`,`, `\s+`, `[0-9]+`, `ab`} {
		re := MustCompile(p)
		std := regexp.MustCompile(p)
		for _, in := range []string{"a,b,,c", "  x y  ", "a1b22c", "abab", "none"} {
			if got, want := re.Split(in), std.Split(in, -1); !slices.Equal(got, want) {
				t.Errorf("Split(%q, %q) = %q, stdlib %q", p, in, got, want)
			}
		}
	}
}

func TestStdlibCompat_QuoteMeta(t *testing.T) {
	for _, s := range []string{`1.5+2`, `[a-z]*`, `a|b`, `{x}`, `^$`} {
		re := MustCompile(QuoteMeta(s))
		std := regexp.MustCompile(regexp.QuoteMeta(s))
		text := "x" + s + "y"
		if got, want := spans(re.Search(text)), std.FindStringIndex(text); !slices.Equal(got, want) {
			t.Errorf("QuoteMeta(%q) match = %v, stdlib %v", s, got, want)
		}
	}
}

package bregex

import (
	"slices"
	"testing"

	"github.com/dlclark/regexp2"
)

// Backtracking-only constructs checked against regexp2, a port of the .NET
// engine. Both engines are leftmost-first backtrackers, so for patterns
// that cannot match the empty string they must find the same matches and
// groups. Inputs are ASCII so rune and byte offsets coincide.
var backtrackPatterns = []string{
	`(\w)\1`,
	`(a+)b\1`,
	`(?=\w*\d)\w+`,
	`(?<=\$)\d+`,
	`(?<!x)y`,
	`\w+(?!\d)`,
	`(?>a+)b`,
	`(a|b)\1+`,
	`<(\w+)>.*?</\1>`,
	`(?i)(a)\1`,
	`(\d+)-\1`,
	`a+?b`,
	`(?<=ab|c)d\w`,
	`(a)|(b)`,
	`(\w+)\s+\1\b`,
	`(?:(a)|b)+c`,
	`(?=(\w+))\w`,
	`\b(\w)(\w)?\2?\1\b`,
}

var backtrackInputs = []string{
	"",
	"aabbcc",
	"aaba aab aaabaaa",
	"pass1 word abc2",
	"cost $42 and $7",
	"xy y zy",
	"abc123 def",
	"aaab aab",
	"abab bb aaa",
	"<b>bold</b> <i>x</b>",
	"A a Aa aA",
	"12-12 3-4 55-55",
	"abd cdx abdz",
	"the the cat cat dog",
	"bac abc aac",
	"abba otto level",
}

func regexp2Matches(t *testing.T, re *regexp2.Regexp, in string) [][]string {
	t.Helper()
	var out [][]string
	m, err := re.FindStringMatch(in)
	for err == nil && m != nil {
		groups := m.Groups()
		row := make([]string, len(groups))
		for i, g := range groups {
			if len(g.Captures) > 0 {
				row[i] = g.String()
			}
		}
		out = append(out, row)
		m, err = re.FindNextMatch(m)
	}
	if err != nil {
		t.Fatalf("regexp2 %q on %q: %v", re.String(), in, err)
	}
	return out
}

func TestRegexp2Compat(t *testing.T) {
	for _, p := range backtrackPatterns {
		re := MustCompile(p)
		if re.IsMatch("") {
			t.Fatalf("%q matches the empty string; empty-match iteration differs between engines", p)
		}
		oracle := regexp2.MustCompile(p, regexp2.None)
		for _, in := range backtrackInputs {
			want := regexp2Matches(t, oracle, in)
			var got [][]string
			for m := range re.All(in) {
				row := []string{m.String()}
				got = append(got, append(row, m.Groups("")...))
			}
			if !slices.EqualFunc(got, want, slices.Equal[[]string]) {
				t.Errorf("%q on %q = %q, regexp2 %q", p, in, got, want)
			}
		}
	}
}

func TestRegexp2Compat_Replace(t *testing.T) {
	tests := []struct {
		pattern string
		ours    string
		theirs  string
	}{
		{`(\w+)@(\w+)`, `\2@\1`, `$2@$1`},
		{`(a)(?=b)`, `[\1]`, `[$1]`},
		{`(\d)\1`, `<\g<0>>`, `<$0>`},
	}
	for _, tt := range tests {
		for _, in := range []string{"a@b c@d", "abac", "1122 33 4"} {
			got, err := MustCompile(tt.pattern).Replace(in, tt.ours)
			if err != nil {
				t.Fatal(err)
			}
			want, err := regexp2.MustCompile(tt.pattern, regexp2.None).Replace(in, tt.theirs, -1, -1)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("Replace(%q, %q) = %q, regexp2 %q", tt.pattern, in, got, want)
			}
		}
	}
}

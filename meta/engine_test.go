package meta

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/coregx/bregex/nfa"
	"github.com/coregx/bregex/syntax"
)

func TestEngineSearch(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		at      int
		want    []int // nil = no match
	}{
		{`\d+`, "IDs: 101, 202", 0, []int{5, 8}},
		{`\d+`, "IDs: 101, 202", 8, []int{10, 13}},
		{`z`, "abc", 0, nil},
		{`a*`, "", 0, []int{0, 0}},
		{`(?P<word>\w+)-(\d+)`, "Test-123", 0, []int{0, 8, 0, 4, 5, 8}},
		{`^abc`, "xabc", 0, nil},
		{`^abc`, "abcabc", 1, nil},
		{`é+`, "caféé!", 0, []int{3, 7}},
		{`.`, "€x", 0, []int{0, 3}},
		{`(a)|b`, "b", 0, []int{0, 1, -1, -1}},
	}
	for _, tt := range tests {
		engine, err := Compile(tt.pattern)
		if err != nil {
			t.Fatalf("Compile(%q): %v", tt.pattern, err)
		}
		c := engine.Search([]byte(tt.input), tt.at)
		if !sameSlots(c, tt.want) {
			var got []int
			if c != nil {
				got = c.Slots()
			}
			t.Errorf("Search(%q, %q, %d) = %v, want %v", tt.pattern, tt.input, tt.at, got, tt.want)
		}
	}
}

func TestEngineMatchAndFullMatch(t *testing.T) {
	engine, err := Compile(`a+`)
	if err != nil {
		t.Fatal(err)
	}
	if c := engine.Match([]byte("baa"), 0); c != nil {
		t.Errorf("Match at 0 should fail, got %v", c.Slots())
	}
	if c := engine.Match([]byte("baa"), 1); c == nil || c.End(0) != 3 {
		t.Errorf("Match at 1 = %v, want [1 3]", c)
	}
	if c := engine.FullMatch([]byte("aab"), 0); c != nil {
		t.Errorf("FullMatch(aab) should fail, got %v", c.Slots())
	}
	if c := engine.FullMatch([]byte("aaa"), 0); c == nil || c.End(0) != 3 {
		t.Errorf("FullMatch(aaa) = %v, want [0 3]", c)
	}
}

// TestFullMatchBacktracksIntoShorterAlternative checks that the end
// constraint is applied inside the search, not to the first match found.
func TestFullMatchBacktracksIntoShorterAlternative(t *testing.T) {
	engine, err := Compile(`a|ab`)
	if err != nil {
		t.Fatal(err)
	}
	c := engine.FullMatch([]byte("ab"), 0)
	if c == nil || c.End(0) != 2 {
		t.Fatalf("FullMatch(ab) = %v, want [0 2]", c)
	}
}

func TestEngineFindAll(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		n       int
		want    [][2]int
	}{
		{`\d+`, "IDs: 101, 202, 303", -1, [][2]int{{5, 8}, {10, 13}, {15, 18}}},
		{`\d+`, "IDs: 101, 202, 303", 2, [][2]int{{5, 8}, {10, 13}}},
		{`a*`, "baa", -1, [][2]int{{0, 0}, {1, 3}, {3, 3}}},
		{``, "é", -1, [][2]int{{0, 0}, {2, 2}}},
		{`x`, "abc", -1, nil},
	}
	for _, tt := range tests {
		engine, err := Compile(tt.pattern)
		if err != nil {
			t.Fatalf("Compile(%q): %v", tt.pattern, err)
		}
		all := engine.FindAll([]byte(tt.input), tt.n)
		if len(all) != len(tt.want) {
			t.Fatalf("FindAll(%q, %q) found %d matches, want %d", tt.pattern, tt.input, len(all), len(tt.want))
		}
		for i, c := range all {
			if s, e := c.Span(0); s != tt.want[i][0] || e != tt.want[i][1] {
				t.Errorf("FindAll(%q, %q)[%d] = (%d, %d), want %v", tt.pattern, tt.input, i, s, e, tt.want[i])
			}
		}
	}
}

func TestNextPos(t *testing.T) {
	h := []byte("aé")
	tests := []struct {
		slots []int
		want  int
	}{
		{[]int{0, 1}, 1},
		{[]int{0, 0}, 1},
		{[]int{1, 1}, 3},
		{[]int{3, 3}, 4},
	}
	for _, tt := range tests {
		if got := NextPos(h, NewCaptures(tt.slots)); got != tt.want {
			t.Errorf("NextPos(%v) = %d, want %d", tt.slots, got, tt.want)
		}
	}
}

func TestEngineGroups(t *testing.T) {
	engine, err := Compile(`(?P<word>\w+)-(\d+)`)
	if err != nil {
		t.Fatal(err)
	}
	if got := engine.NumCaptures(); got != 3 {
		t.Errorf("NumCaptures() = %d, want 3", got)
	}
	names := engine.SubexpNames()
	if len(names) != 3 || names[0] != "" || names[1] != "word" || names[2] != "" {
		t.Errorf("SubexpNames() = %q", names)
	}
	if i, ok := engine.GroupIndex("word"); !ok || i != 1 {
		t.Errorf("GroupIndex(word) = %d, %v", i, ok)
	}
	if _, ok := engine.GroupIndex("missing"); ok {
		t.Error("GroupIndex(missing) should fail")
	}
	if engine.Pattern() != `(?P<word>\w+)-(\d+)` {
		t.Errorf("Pattern() = %q", engine.Pattern())
	}
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile(`(a`)
	var synErr *syntax.Error
	if !errors.As(err, &synErr) {
		t.Fatalf("Compile(`(a`) error = %v, want *syntax.Error", err)
	}

	_, err = Compile(`(?P<x>a)(?P<x>b)`)
	if !errors.Is(err, nfa.ErrDuplicateGroupName) {
		t.Fatalf("duplicate name error = %v, want ErrDuplicateGroupName", err)
	}

	c := DefaultConfig()
	c.MaxStates = 16
	_, err = CompileWithConfig(`a{100}`, c)
	if !errors.Is(err, nfa.ErrTooComplex) {
		t.Fatalf("oversized program error = %v, want ErrTooComplex", err)
	}
}

func TestPrefilterSelection(t *testing.T) {
	tests := []struct {
		pattern string
		want    bool
	}{
		{`hello`, true},
		{`foo|bar|baz`, true},
		{`^hello`, false},
		{`a*b`, true},
		{`a*`, false},
		{`\w+`, false},
	}
	for _, tt := range tests {
		engine, err := Compile(tt.pattern)
		if err != nil {
			t.Fatal(err)
		}
		if got := engine.Prefilter() != nil; got != tt.want {
			t.Errorf("%q: has prefilter = %v, want %v (%v)", tt.pattern, got, tt.want, engine.Prefilter())
		}
	}

	c := DefaultConfig()
	c.EnablePrefilter = false
	engine, err := CompileWithConfig(`hello`, c)
	if err != nil {
		t.Fatal(err)
	}
	if engine.Prefilter() != nil {
		t.Error("prefilter built although disabled")
	}
}

// TestPrefilterAgreesWithPlainSearch compares every search with and without
// the prefilter.
func TestPrefilterAgreesWithPlainSearch(t *testing.T) {
	patterns := []string{
		`hello`, `foo|bar|baz`, `(?i)straße`, `x\d`, `[abc]z`, `ab(?=c)`,
		`abcd|bc`, `baa|a^`, `foobar|oba`, `a*baab*`, `a|c[ab]ba*$`,
	}
	inputs := []string{
		"", "say hello", "xbar foo", "STRASSE Straße", "x1 x2", "az bz cz", "abd abc",
		"xabcd", "bbaabbaa", "foobar", "abcab", "aabaabbb",
	}

	plain := DefaultConfig()
	plain.EnablePrefilter = false
	for _, p := range patterns {
		fast, err := Compile(p)
		if err != nil {
			t.Fatal(err)
		}
		slow, err := CompileWithConfig(p, plain)
		if err != nil {
			t.Fatal(err)
		}
		for _, in := range inputs {
			a := fast.FindAll([]byte(in), -1)
			b := slow.FindAll([]byte(in), -1)
			if len(a) != len(b) {
				t.Errorf("%q on %q: %d matches with prefilter, %d without", p, in, len(a), len(b))
				continue
			}
			for i := range a {
				if !sameSlots(a[i], b[i].Slots()) {
					t.Errorf("%q on %q: match %d differs: %v vs %v", p, in, i, a[i].Slots(), b[i].Slots())
				}
			}
		}
	}
}

// TestPrefilterAgreesRandom runs random alternations of overlapping
// literals with and without the prefilter.
func TestPrefilterAgreesRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	word := func(maxLen int) string {
		b := make([]byte, 1+rng.Intn(maxLen))
		for i := range b {
			b[i] = "abc"[rng.Intn(3)]
		}
		return string(b)
	}
	suffixes := []string{"", "*", "+", "?", "$", "[ab]", "c*"}

	plain := DefaultConfig()
	plain.EnablePrefilter = false
	for iter := 0; iter < 500; iter++ {
		branches := make([]string, 2+rng.Intn(4))
		for i := range branches {
			branches[i] = word(4) + suffixes[rng.Intn(len(suffixes))]
		}
		p := strings.Join(branches, "|")
		fast, err := Compile(p)
		if err != nil {
			t.Fatalf("%q: %v", p, err)
		}
		slow, err := CompileWithConfig(p, plain)
		if err != nil {
			t.Fatalf("%q: %v", p, err)
		}
		for j := 0; j < 5; j++ {
			in := []byte(word(24))
			a := fast.FindAll(in, -1)
			b := slow.FindAll(in, -1)
			if len(a) != len(b) {
				t.Fatalf("%q on %q: %d matches with prefilter, %d without", p, in, len(a), len(b))
			}
			for i := range a {
				if !sameSlots(a[i], b[i].Slots()) {
					t.Fatalf("%q on %q: match %d differs: %v vs %v", p, in, i, a[i].Slots(), b[i].Slots())
				}
			}
		}
	}
}

func TestEngineStats(t *testing.T) {
	engine, err := Compile(`hello`)
	if err != nil {
		t.Fatal(err)
	}
	engine.Search([]byte("say hello"), 0)
	engine.Search([]byte("nothing"), 0)
	s := engine.Stats()
	if s.Searches != 2 || s.Matches != 1 || s.PrefilterSearches != 2 {
		t.Errorf("Stats() = %+v", s)
	}
	engine.ResetStats()
	if s := engine.Stats(); s != (Stats{}) {
		t.Errorf("after ResetStats: %+v", s)
	}
}

func TestEngineEncloses(t *testing.T) {
	engine, err := Compile(`((a)(b(c)))(d)`)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		outer, inner int
		want         bool
	}{
		{0, 1, true},
		{0, 5, true},
		{1, 2, true},
		{1, 4, true},
		{3, 4, true},
		{2, 3, false},
		{4, 3, false},
		{1, 5, false},
		{5, 5, false},
		{1, 9, false},
	}
	for _, tt := range tests {
		if got := engine.Encloses(tt.outer, tt.inner); got != tt.want {
			t.Errorf("Encloses(%d, %d) = %v, want %v", tt.outer, tt.inner, got, tt.want)
		}
	}
}

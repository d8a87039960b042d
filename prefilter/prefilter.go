// Package prefilter provides fast candidate filtering for regex search using
// extracted literal sequences.
//
// A prefilter is used to quickly reject positions in the haystack that cannot
// possibly start a match. The backtracker then only runs from candidate
// positions. The strategy is chosen from the prefix literals:
//   - Single byte → memchr
//   - Two or three single bytes → memchr2 / memchr3
//   - Single substring → memmem
//   - Several literals → Aho-Corasick automaton
//
// Example usage:
//
//	tree, _ := syntax.Parse("(hello|world)", 0)
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(tree.Root)
//	pf := prefilter.NewBuilder(prefixes).Build()
//	pos := pf.Find([]byte("foo hello bar world baz"), 0)
//	// pos == 4 (position of "hello")
package prefilter

import (
	"bytes"
	"fmt"

	"github.com/coregx/ahocorasick"
	"github.com/coregx/bregex/literal"
	"github.com/coregx/bregex/simd"
)

// Prefilter is used to quickly find candidate match positions before running
// the full regex engine.
type Prefilter interface {
	// Find returns the index of the first candidate match starting at or after
	// 'start', or -1 if no candidate is found.
	//
	// A candidate is a position where one of the prefix literals occurs. It
	// does NOT guarantee a match; the caller verifies it.
	Find(haystack []byte, start int) int

	// LiteralLen returns the length of the shortest prefix literal.
	LiteralLen() int

	// HeapBytes returns the approximate heap memory used by the prefilter.
	HeapBytes() int

	fmt.Stringer
}

// Builder selects and constructs a prefilter for a prefix literal set.
type Builder struct {
	prefixes *literal.Seq
}

// NewBuilder creates a builder for the given prefix set (which may be nil).
func NewBuilder(prefixes *literal.Seq) *Builder {
	return &Builder{prefixes: prefixes}
}

// Build returns the prefilter, or nil if the prefix set cannot drive one.
func (b *Builder) Build() Prefilter {
	seq := b.prefixes
	if seq.IsEmpty() || seq.MinLen() == 0 {
		return nil
	}
	lits := seq.Literals()
	if len(lits) == 1 {
		if len(lits[0]) == 1 {
			return &memchrPrefilter{needle: lits[0][0]}
		}
		return &memmemPrefilter{needle: lits[0]}
	}
	if seq.MinLen() == 1 && len(lits) <= 3 && allLen(lits, 1) {
		set := make([]byte, len(lits))
		for i, l := range lits {
			set[i] = l[0]
		}
		return &byteSetPrefilter{bytes: set}
	}
	return newAhoCorasickPrefilter(lits, seq.MinLen())
}

func allLen(lits [][]byte, n int) bool {
	for _, l := range lits {
		if len(l) != n {
			return false
		}
	}
	return true
}

type memchrPrefilter struct {
	needle byte
}

func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	if i := simd.Memchr(haystack[start:], p.needle); i >= 0 {
		return start + i
	}
	return -1
}

func (p *memchrPrefilter) LiteralLen() int { return 1 }
func (p *memchrPrefilter) HeapBytes() int  { return 0 }
func (p *memchrPrefilter) String() string  { return fmt.Sprintf("memchr(%q)", p.needle) }

// byteSetPrefilter looks for any of two or three bytes.
type byteSetPrefilter struct {
	bytes []byte
}

func (p *byteSetPrefilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	var i int
	if len(p.bytes) == 2 {
		i = simd.Memchr2(haystack[start:], p.bytes[0], p.bytes[1])
	} else {
		i = simd.Memchr3(haystack[start:], p.bytes[0], p.bytes[1], p.bytes[2])
	}
	if i >= 0 {
		return start + i
	}
	return -1
}

func (p *byteSetPrefilter) LiteralLen() int { return 1 }
func (p *byteSetPrefilter) HeapBytes() int  { return len(p.bytes) }
func (p *byteSetPrefilter) String() string {
	return fmt.Sprintf("memchr%d(%q)", len(p.bytes), p.bytes)
}

type memmemPrefilter struct {
	needle []byte
}

func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start > len(haystack) {
		return -1
	}
	if i := simd.Memmem(haystack[start:], p.needle); i >= 0 {
		return start + i
	}
	return -1
}

func (p *memmemPrefilter) LiteralLen() int { return len(p.needle) }
func (p *memmemPrefilter) HeapBytes() int  { return len(p.needle) }
func (p *memmemPrefilter) String() string  { return fmt.Sprintf("memmem(%q)", p.needle) }

// ahoCorasickPrefilter scans for many literals at once. The automaton
// reports the occurrence that ends first, which need not be the one that
// starts first: with "baa" and "a" in "bbaa" it reports "a" at 2 while "baa"
// starts at 1. Any occurrence starting earlier ends at or after the reported
// end, so it lies within maxLen bytes before it; Find checks that window.
type ahoCorasickPrefilter struct {
	auto     *ahocorasick.Automaton
	lits     [][]byte
	minLen   int
	maxLen   int
	patBytes int
}

func newAhoCorasickPrefilter(lits [][]byte, minLen int) Prefilter {
	builder := ahocorasick.NewBuilder()
	n, maxLen := 0, 0
	for _, l := range lits {
		builder.AddPattern(l)
		n += len(l)
		maxLen = max(maxLen, len(l))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &ahoCorasickPrefilter{auto: auto, lits: lits, minLen: minLen, maxLen: maxLen, patBytes: n}
}

func (p *ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	for i := max(start, m.End-p.maxLen); i < m.Start; i++ {
		for _, l := range p.lits {
			if bytes.HasPrefix(haystack[i:], l) {
				return i
			}
		}
	}
	return m.Start
}

func (p *ahoCorasickPrefilter) LiteralLen() int { return p.minLen }

// HeapBytes is an estimate: the automaton does not report its size.
func (p *ahoCorasickPrefilter) HeapBytes() int { return p.patBytes * 16 }

func (p *ahoCorasickPrefilter) String() string {
	return fmt.Sprintf("aho-corasick(%d literals)", len(p.lits))
}

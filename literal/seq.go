// Package literal extracts literal prefixes from parsed patterns.
//
// A prefix set lists byte strings such that every match of the pattern
// begins with one of them. The engine feeds non-empty prefix sets to a
// prefilter to skip start positions that cannot match.
package literal

import (
	"bytes"
	"fmt"
	"slices"
)

// Literal represents a literal byte sequence extracted from a regex pattern.
// Complete is set when the literal is the whole of what the pattern (or the
// sub-pattern it came from) matches, so more literals may be appended to it.
//
// Example:
//
//	For pattern "hello", extracting prefixes yields Literal{Bytes: "hello", Complete: true}
//	For pattern "hello.*", extracting prefixes yields Literal{Bytes: "hello", Complete: false}
type Literal struct {
	Bytes    []byte
	Complete bool
}

// NewLiteral creates a new Literal from the given byte sequence and completeness flag.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{Bytes: b, Complete: complete}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a string representation of the literal for debugging purposes.
func (l Literal) String() string {
	return fmt.Sprintf("literal{%q, complete=%v}", l.Bytes, l.Complete)
}

// Seq is a set of alternative literals.
type Seq struct {
	literals []Literal
}

// NewSeq creates a new sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{literals: lits}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at the specified index.
// Panics if index is out of bounds.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty returns true if the sequence has no literals.
func (s *Seq) IsEmpty() bool {
	return s.Len() == 0
}

// Literals returns the literal byte strings.
func (s *Seq) Literals() [][]byte {
	out := make([][]byte, s.Len())
	for i, l := range s.literals {
		out[i] = l.Bytes
	}
	return out
}

// MinLen returns the length of the shortest literal, or 0 for an empty sequence.
func (s *Seq) MinLen() int {
	if s.IsEmpty() {
		return 0
	}
	n := len(s.literals[0].Bytes)
	for _, l := range s.literals[1:] {
		n = min(n, len(l.Bytes))
	}
	return n
}

// Clone returns a deep copy of the sequence.
func (s *Seq) Clone() *Seq {
	if s == nil {
		return nil
	}
	cloned := make([]Literal, len(s.literals))
	for i, l := range s.literals {
		cloned[i] = Literal{Bytes: bytes.Clone(l.Bytes), Complete: l.Complete}
	}
	return &Seq{literals: cloned}
}

// Minimize drops duplicate literals and literals that have a shorter
// literal of the set as a prefix: a scan for "foo" already finds every
// position where "foobar" starts.
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}
	slices.SortStableFunc(s.literals, func(a, b Literal) int {
		return len(a.Bytes) - len(b.Bytes)
	})
	kept := s.literals[:0]
	for _, cur := range s.literals {
		redundant := slices.ContainsFunc(kept, func(k Literal) bool {
			return bytes.HasPrefix(cur.Bytes, k.Bytes)
		})
		if !redundant {
			kept = append(kept, cur)
		}
	}
	s.literals = kept
}

// LongestCommonPrefix returns the longest common prefix of all literals in the sequence.
// If the sequence is empty or has no common prefix, returns an empty slice.
func (s *Seq) LongestCommonPrefix() []byte {
	if s.IsEmpty() {
		return []byte{}
	}
	prefix := s.literals[0].Bytes
	for _, l := range s.literals[1:] {
		n := 0
		for n < len(prefix) && n < len(l.Bytes) && prefix[n] == l.Bytes[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return bytes.Clone(prefix)
}

func (s *Seq) String() string {
	if s == nil {
		return "Seq{inf}"
	}
	return fmt.Sprintf("Seq%v", s.literals)
}

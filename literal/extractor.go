package literal

import (
	"slices"
	"unicode/utf8"

	"github.com/coregx/bregex/syntax"
)

// Config bounds prefix extraction.
type Config struct {
	// MaxLiterals caps the number of literals in a set. Extraction gives up
	// on a sub-pattern whose set would grow past it.
	// Default: 64
	MaxLiterals int

	// MaxLiteralLen caps literal length; longer literals are truncated and
	// marked incomplete.
	// Default: 64
	MaxLiteralLen int

	// MaxClassSize is the largest character class expanded into literals.
	// Default: 10
	MaxClassSize int
}

// DefaultConfig returns the default extraction limits.
func DefaultConfig() Config {
	return Config{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Extractor computes prefix literal sets from syntax trees.
type Extractor struct {
	config Config
}

// New creates an extractor with the given limits.
func New(config Config) *Extractor {
	return &Extractor{config: config}
}

// ExtractPrefixes returns a minimized set of literals such that every
// match of n begins with one of them. It returns nil when no useful set
// exists: the pattern can match the empty string at some position, or
// can start with too many different strings.
func (e *Extractor) ExtractPrefixes(n *syntax.Node) *Seq {
	lits, ok := e.prefixes(n)
	if !ok || len(lits) == 0 {
		return nil
	}
	for _, l := range lits {
		if len(l.Bytes) == 0 {
			return nil
		}
	}
	seq := NewSeq(lits...)
	seq.Minimize()
	return seq
}

// prefixes returns ok=false when the set is unbounded.
func (e *Extractor) prefixes(n *syntax.Node) ([]Literal, bool) {
	switch n.Op {
	case syntax.OpEmpty:
		return []Literal{{Complete: true}}, true

	case syntax.OpAssert, syntax.OpLookaround:
		// Zero-width: the match still starts with whatever follows.
		return []Literal{{Complete: true}}, true

	case syntax.OpBackref:
		return []Literal{{Complete: false}}, true

	case syntax.OpLiteral:
		return e.literalPrefixes(n)

	case syntax.OpClass:
		if n.Class.Len() > e.config.MaxClassSize {
			return nil, false
		}
		var lits []Literal
		for _, r := range n.Class.Ranges {
			for c := r.Lo; c <= r.Hi; c++ {
				lits = append(lits, Literal{Bytes: utf8.AppendRune(nil, c), Complete: true})
			}
		}
		return lits, true

	case syntax.OpCapture, syntax.OpGroup, syntax.OpAtomic:
		return e.prefixes(n.Subs[0])

	case syntax.OpConcat:
		acc := []Literal{{Complete: true}}
		for _, sub := range n.Subs {
			if !anyComplete(acc) {
				break
			}
			next, ok := e.prefixes(sub)
			if !ok {
				return markIncomplete(acc), true
			}
			crossed, ok := e.cross(acc, next)
			if !ok {
				return markIncomplete(acc), true
			}
			acc = crossed
		}
		return acc, true

	case syntax.OpAlternate:
		var acc []Literal
		for _, sub := range n.Subs {
			lits, ok := e.prefixes(sub)
			if !ok {
				return nil, false
			}
			acc = append(acc, lits...)
			if len(acc) > e.config.MaxLiterals {
				return nil, false
			}
		}
		return acc, true

	case syntax.OpRepeat:
		lits, ok := e.prefixes(n.Subs[0])
		if !ok {
			return nil, false
		}
		if n.Min == 1 && n.Max == 1 {
			return lits, true
		}
		lits = markIncomplete(lits)
		if n.Min == 0 {
			lits = append(lits, Literal{Complete: true})
		}
		return lits, true
	}
	return nil, false
}

// literalPrefixes expands case-insensitive runes into all their variants
// while the set stays within MaxLiterals.
func (e *Extractor) literalPrefixes(n *syntax.Node) ([]Literal, bool) {
	acc := []Literal{{Complete: true}}
	for _, r := range n.Runes {
		variants := []rune{r}
		if n.Flags&syntax.FoldCase != 0 {
			variants = syntax.FoldOrbit(r)
		}
		next := make([]Literal, len(variants))
		for i, v := range variants {
			next[i] = Literal{Bytes: utf8.AppendRune(nil, v), Complete: true}
		}
		crossed, ok := e.cross(acc, next)
		if !ok {
			return markIncomplete(acc), true
		}
		acc = crossed
	}
	return acc, true
}

// cross appends every literal of b to every complete literal of a.
func (e *Extractor) cross(a, b []Literal) ([]Literal, bool) {
	var out []Literal
	for _, x := range a {
		if !x.Complete {
			out = append(out, x)
			continue
		}
		for _, y := range b {
			lit := Literal{Bytes: append(slices.Clip(x.Bytes), y.Bytes...), Complete: y.Complete}
			if len(lit.Bytes) > e.config.MaxLiteralLen {
				lit.Bytes = lit.Bytes[:e.config.MaxLiteralLen]
				lit.Complete = false
			}
			out = append(out, lit)
		}
		if len(out) > e.config.MaxLiterals {
			return nil, false
		}
	}
	return out, true
}

func anyComplete(lits []Literal) bool {
	for _, l := range lits {
		if l.Complete {
			return true
		}
	}
	return false
}

func markIncomplete(lits []Literal) []Literal {
	out := make([]Literal, len(lits))
	for i, l := range lits {
		out[i] = Literal{Bytes: l.Bytes, Complete: false}
	}
	return out
}

package syntax

import (
	"slices"
	"sync"
	"unicode"
	"unicode/utf8"
)

// RuneRange is an inclusive range of code points.
type RuneRange struct {
	Lo, Hi rune
}

// CharClass is a set of code points stored as sorted, non-overlapping,
// non-adjacent ranges. ASCII membership is answered from a bitmap.
type CharClass struct {
	Ranges []RuneRange
	ascii  [2]uint64
}

// Contains reports whether r is in the class.
func (c *CharClass) Contains(r rune) bool {
	if r >= 0 && r < 128 {
		return c.ascii[r>>6]&(1<<(uint(r)&63)) != 0
	}
	rs := c.Ranges
	lo, hi := 0, len(rs)
	for lo < hi {
		m := int(uint(lo+hi) >> 1)
		switch {
		case r < rs[m].Lo:
			hi = m
		case r > rs[m].Hi:
			lo = m + 1
		default:
			return true
		}
	}
	return false
}

// Single returns the only rune of a one-rune class.
func (c *CharClass) Single() (rune, bool) {
	if len(c.Ranges) == 1 && c.Ranges[0].Lo == c.Ranges[0].Hi {
		return c.Ranges[0].Lo, true
	}
	return 0, false
}

// Len returns the number of code points in the class.
func (c *CharClass) Len() int {
	n := 0
	for _, r := range c.Ranges {
		n += int(r.Hi-r.Lo) + 1
	}
	return n
}

type classBuilder struct {
	ranges []RuneRange
}

func (b *classBuilder) addRange(lo, hi rune) {
	b.ranges = append(b.ranges, RuneRange{lo, hi})
}

func (b *classBuilder) addRune(r rune) {
	b.addRange(r, r)
}

func (b *classBuilder) addClass(c *CharClass) {
	b.ranges = append(b.ranges, c.Ranges...)
}

func (b *classBuilder) addNegatedClass(c *CharClass) {
	b.ranges = append(b.ranges, negateRanges(c.Ranges)...)
}

// normalize sorts and merges the ranges.
func (b *classBuilder) normalize() {
	if len(b.ranges) < 2 {
		return
	}
	slices.SortFunc(b.ranges, func(x, y RuneRange) int {
		if x.Lo != y.Lo {
			return int(x.Lo - y.Lo)
		}
		return int(x.Hi - y.Hi)
	})
	out := b.ranges[:1]
	for _, r := range b.ranges[1:] {
		last := &out[len(out)-1]
		if r.Lo <= last.Hi+1 {
			last.Hi = max(last.Hi, r.Hi)
			continue
		}
		out = append(out, r)
	}
	b.ranges = out
}

// Bounds of code points that have case variants.
const (
	minFold = 0x0041
	maxFold = 0x1e943
)

// foldCase adds every case variant of every rune in the builder.
func (b *classBuilder) foldCase() {
	b.normalize()
	n := len(b.ranges)
	for i := 0; i < n; i++ {
		r := b.ranges[i]
		lo, hi := max(r.Lo, minFold), min(r.Hi, maxFold)
		for c := lo; c <= hi; c++ {
			for f := simpleFold(c); f != c; f = simpleFold(f) {
				if f < r.Lo || f > r.Hi {
					b.addRune(f)
				}
			}
		}
	}
	b.normalize()
}

func (b *classBuilder) negate() {
	b.normalize()
	b.ranges = negateRanges(b.ranges)
}

func (b *classBuilder) build() *CharClass {
	b.normalize()
	return newCharClass(b.ranges)
}

func newCharClass(ranges []RuneRange) *CharClass {
	c := &CharClass{Ranges: ranges}
	for _, r := range ranges {
		if r.Lo >= 128 {
			break
		}
		for x := r.Lo; x <= r.Hi && x < 128; x++ {
			c.ascii[x>>6] |= 1 << (uint(x) & 63)
		}
	}
	return c
}

// negateRanges complements normalized ranges over [0, utf8.MaxRune].
func negateRanges(rs []RuneRange) []RuneRange {
	var out []RuneRange
	next := rune(0)
	for _, r := range rs {
		if r.Lo > next {
			out = append(out, RuneRange{next, r.Lo - 1})
		}
		next = r.Hi + 1
	}
	if next <= utf8.MaxRune {
		out = append(out, RuneRange{next, utf8.MaxRune})
	}
	return out
}

func simpleFold(r rune) rune {
	if r < 0 || r > unicode.MaxRune {
		return r
	}
	return unicode.SimpleFold(r)
}

// FoldOrbit returns r and all of its simple case variants, sorted.
func FoldOrbit(r rune) []rune {
	orbit := []rune{r}
	for f := simpleFold(r); f != r; f = simpleFold(f) {
		orbit = append(orbit, f)
	}
	slices.Sort(orbit)
	return orbit
}

func tableRanges(tables ...*unicode.RangeTable) []RuneRange {
	var b classBuilder
	for _, t := range tables {
		for _, r := range t.R16 {
			addStride(&b, rune(r.Lo), rune(r.Hi), rune(r.Stride))
		}
		for _, r := range t.R32 {
			addStride(&b, rune(r.Lo), rune(r.Hi), rune(r.Stride))
		}
	}
	b.normalize()
	return b.ranges
}

func addStride(b *classBuilder, lo, hi, stride rune) {
	if stride == 1 {
		b.addRange(lo, hi)
		return
	}
	for c := lo; c <= hi; c += stride {
		b.addRune(c)
	}
}

var (
	unicodeDigit = sync.OnceValue(func() *CharClass {
		return newCharClass(tableRanges(unicode.Nd))
	})
	unicodeWord = sync.OnceValue(func() *CharClass {
		var b classBuilder
		b.ranges = tableRanges(unicode.L, unicode.N)
		b.addRune('_')
		return b.build()
	})
	unicodeSpace = sync.OnceValue(func() *CharClass {
		var b classBuilder
		b.ranges = tableRanges(unicode.White_Space)
		b.addRange(0x1c, 0x1f)
		return b.build()
	})
	asciiDigit = sync.OnceValue(func() *CharClass {
		return newCharClass([]RuneRange{{'0', '9'}})
	})
	asciiWord = sync.OnceValue(func() *CharClass {
		var b classBuilder
		b.addRange('0', '9')
		b.addRange('A', 'Z')
		b.addRune('_')
		b.addRange('a', 'z')
		return b.build()
	})
	asciiSpace = sync.OnceValue(func() *CharClass {
		var b classBuilder
		b.addRange('\t', '\r')
		b.addRune(' ')
		return b.build()
	})
)

// DigitClass returns the class matched by \d.
func DigitClass(ascii bool) *CharClass {
	if ascii {
		return asciiDigit()
	}
	return unicodeDigit()
}

// WordClass returns the class matched by \w.
func WordClass(ascii bool) *CharClass {
	if ascii {
		return asciiWord()
	}
	return unicodeWord()
}

// SpaceClass returns the class matched by \s.
func SpaceClass(ascii bool) *CharClass {
	if ascii {
		return asciiSpace()
	}
	return unicodeSpace()
}

// IsWordRune reports whether r counts as a word character for \w and \b.
func IsWordRune(r rune, ascii bool) bool {
	if r < 128 {
		return r == '_' || '0' <= r && r <= '9' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
	}
	if ascii {
		return false
	}
	return unicodeWord().Contains(r)
}

package bregex

import (
	"iter"

	"github.com/coregx/bregex/meta"
)

// Iter walks the successive non-overlapping matches of a pattern in a text.
// It produces the same matches as FindAll, one at a time. An Iter is not
// safe for concurrent use; create one per goroutine.
//
// Example:
//
//	it := bregex.MustCompile(`\d+`).FindIter("1 22 333")
//	for m := it.Next(); m != nil; m = it.Next() {
//	    fmt.Println(m)
//	}
type Iter struct {
	re   *Regex
	text string
	data []byte
	pos  int
}

// FindIter returns an iterator over the matches in text. No search runs
// until Next is called.
func (r *Regex) FindIter(text string) *Iter {
	return &Iter{re: r, text: text, data: []byte(text)}
}

// Next returns the next match, or nil when the text is exhausted.
// After an empty match the following search starts one code point later.
func (it *Iter) Next() *Match {
	if it.pos > len(it.data) {
		return nil
	}
	c := it.re.engine.Search(it.data, it.pos)
	if c == nil {
		it.pos = len(it.data) + 1
		return nil
	}
	it.pos = meta.NextPos(it.data, c)
	return it.re.newMatch(it.text, c)
}

// Reset rewinds the iterator to the start of the text.
func (it *Iter) Reset() {
	it.pos = 0
}

// All returns a range-over-func sequence of the matches in text.
//
// Example:
//
//	for m := range re.All("a1b22") {
//	    fmt.Println(m.Span(0))
//	}
func (r *Regex) All(text string) iter.Seq[*Match] {
	return func(yield func(*Match) bool) {
		r.engine.Each([]byte(text), 0, func(c *meta.Captures) bool {
			return yield(r.newMatch(text, c))
		})
	}
}

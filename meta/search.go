package meta

import (
	"sync/atomic"
	"unicode/utf8"

	"github.com/coregx/bregex/nfa"
)

// Search returns the leftmost match starting at or after at, or nil.
// Start positions advance by whole code points.
//
// Example:
//
//	engine, _ := meta.Compile(`\d+`)
//	caps := engine.Search([]byte("IDs: 101, 202"), 0)
//	// caps.Span(0) == (5, 8)
func (e *Engine) Search(haystack []byte, at int) *Captures {
	return e.find(haystack, at, nfa.Unanchored)
}

// Match returns the match that starts exactly at at, or nil.
func (e *Engine) Match(haystack []byte, at int) *Captures {
	return e.find(haystack, at, nfa.AnchorStart)
}

// FullMatch returns the match that starts at at and ends at len(haystack),
// or nil.
func (e *Engine) FullMatch(haystack []byte, at int) *Captures {
	return e.find(haystack, at, nfa.AnchorBoth)
}

// IsMatch reports whether the pattern matches anywhere in haystack.
// It skips copying the capture positions.
func (e *Engine) IsMatch(haystack []byte) bool {
	state := e.statePool.get()
	defer e.statePool.put(state)
	return e.run(state, haystack, 0, nfa.Unanchored)
}

func (e *Engine) find(haystack []byte, at int, anchor nfa.Anchor) *Captures {
	state := e.statePool.get()
	defer e.statePool.put(state)
	if !e.run(state, haystack, at, anchor) {
		return nil
	}
	return copyCaptures(state)
}

func (e *Engine) run(state *SearchState, haystack []byte, at int, anchor nfa.Anchor) bool {
	atomic.AddUint64(&e.stats.Searches, 1)
	if e.backtracker.CanMemoize(len(haystack)) {
		atomic.AddUint64(&e.stats.MemoSearches, 1)
	}
	var skip nfa.Skipper
	if anchor == nfa.Unanchored && e.prefilter != nil {
		atomic.AddUint64(&e.stats.PrefilterSearches, 1)
		skip = e.prefilter
	}
	ok := e.backtracker.Search(state.backtracker, haystack, at, anchor, skip)
	if ok {
		atomic.AddUint64(&e.stats.Matches, 1)
	}
	return ok
}

// copyCaptures detaches the slots from the pooled state.
func copyCaptures(state *SearchState) *Captures {
	return &Captures{slots: append([]int(nil), state.backtracker.Slots...)}
}

// NextPos returns where the search after match c continues: at its end, or
// one code point further when the match was empty. It returns
// len(haystack)+1 when an empty match sits at the end of the haystack.
func NextPos(haystack []byte, c *Captures) int {
	end := c.End(0)
	if !c.IsEmpty() {
		return end
	}
	if end >= len(haystack) {
		return len(haystack) + 1
	}
	if haystack[end] < utf8.RuneSelf {
		return end + 1
	}
	_, w := utf8.DecodeRune(haystack[end:])
	return end + w
}

// FindAll returns up to n successive non-overlapping matches (all of them
// when n < 0), in order.
//
// Example:
//
//	engine, _ := meta.Compile(`a*`)
//	all := engine.FindAll([]byte("baa"), -1)
//	// spans: (0,0) (1,3) (3,3)
func (e *Engine) FindAll(haystack []byte, n int) []*Captures {
	var out []*Captures
	e.Each(haystack, 0, func(c *Captures) bool {
		out = append(out, c)
		return n < 0 || len(out) < n
	})
	return out
}

// Each calls fn for every successive match starting at or after at until
// fn returns false or the haystack is exhausted.
func (e *Engine) Each(haystack []byte, at int, fn func(*Captures) bool) {
	state := e.statePool.get()
	defer e.statePool.put(state)
	for at <= len(haystack) {
		if !e.run(state, haystack, at, nfa.Unanchored) {
			return
		}
		c := copyCaptures(state)
		if !fn(c) {
			return
		}
		at = NextPos(haystack, c)
	}
}

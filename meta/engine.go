package meta

import (
	"sync/atomic"

	"github.com/coregx/bregex/nfa"
	"github.com/coregx/bregex/prefilter"
	"github.com/coregx/bregex/syntax"
)

// Engine is a compiled pattern ready for searching.
//
// Thread safety: the NFA, backtracker and prefilter are immutable after
// compilation, and per-search scratch memory comes from a sync.Pool, so any
// number of goroutines may search with the same Engine concurrently.
//
// Example:
//
//	engine, err := meta.Compile(`(?P<word>\w+)-(\d+)`)
//	if err != nil {
//	    return err
//	}
//	caps := engine.Search([]byte("Test-123"), 0)
//	// caps.Span(1) == (0, 4)
type Engine struct {
	// stats MUST be the first field so its uint64 counters are 8-byte
	// aligned for atomic access on 32-bit platforms.
	stats Stats

	nfa         *nfa.NFA
	backtracker *nfa.Backtracker
	prefilter   prefilter.Prefilter
	config      Config
	statePool   *searchStatePool

	// groupParent[i] is the innermost group enclosing group i, or 0.
	groupParent []int
}

// Stats tracks execution statistics for performance analysis.
type Stats struct {
	// Searches counts backtracker searches (one per Search call, not per
	// start position).
	Searches uint64

	// MemoSearches counts searches that used the (state, position) table.
	MemoSearches uint64

	// PrefilterSearches counts unanchored searches that skipped ahead with
	// the prefilter.
	PrefilterSearches uint64

	// Matches counts searches that found a match.
	Matches uint64
}

// Stats returns a snapshot of the execution statistics.
//
// Example:
//
//	stats := engine.Stats()
//	println("searches:", stats.Searches, "matches:", stats.Matches)
func (e *Engine) Stats() Stats {
	return Stats{
		Searches:          atomic.LoadUint64(&e.stats.Searches),
		MemoSearches:      atomic.LoadUint64(&e.stats.MemoSearches),
		PrefilterSearches: atomic.LoadUint64(&e.stats.PrefilterSearches),
		Matches:           atomic.LoadUint64(&e.stats.Matches),
	}
}

// ResetStats resets execution statistics to zero.
func (e *Engine) ResetStats() {
	atomic.StoreUint64(&e.stats.Searches, 0)
	atomic.StoreUint64(&e.stats.MemoSearches, 0)
	atomic.StoreUint64(&e.stats.PrefilterSearches, 0)
	atomic.StoreUint64(&e.stats.Matches, 0)
}

// NFA returns the compiled program.
func (e *Engine) NFA() *nfa.NFA {
	return e.nfa
}

// Prefilter returns the start-position prefilter, or nil if the pattern has
// no usable prefix literals.
func (e *Engine) Prefilter() prefilter.Prefilter {
	return e.prefilter
}

// Config returns the configuration the engine was compiled with.
func (e *Engine) Config() Config {
	return e.config
}

// Pattern returns the source pattern.
func (e *Engine) Pattern() string {
	return e.nfa.Pattern()
}

// NumCaptures returns the number of capture groups in the pattern,
// including group 0 (the entire match).
func (e *Engine) NumCaptures() int {
	return e.nfa.CaptureCount()
}

// SubexpNames returns the names of capture groups in the pattern.
// Index 0 is always "" (entire match); unnamed groups return "".
func (e *Engine) SubexpNames() []string {
	return e.nfa.SubexpNames()
}

// GroupIndex returns the index of the named group.
func (e *Engine) GroupIndex(name string) (int, bool) {
	return e.nfa.GroupIndex(name)
}

// GroupNames returns a copy of the name to index table.
func (e *Engine) GroupNames() map[string]int {
	return e.nfa.GroupNames()
}

// Encloses reports whether group inner is nested inside group outer in the
// pattern. Group 0 encloses every group.
func (e *Engine) Encloses(outer, inner int) bool {
	if inner <= 0 || inner >= len(e.groupParent) {
		return false
	}
	for p := e.groupParent[inner]; ; p = e.groupParent[p] {
		if p == outer {
			return true
		}
		if p == 0 {
			return false
		}
	}
}

// groupParents records, for each group, the innermost group around it.
func groupParents(tree *syntax.Tree) []int {
	parents := make([]int, tree.NumCaps+1)
	var walk func(n *syntax.Node, parent int)
	walk = func(n *syntax.Node, parent int) {
		if n.Op == syntax.OpCapture {
			parents[n.Cap] = parent
			parent = n.Cap
		}
		for _, sub := range n.Subs {
			walk(sub, parent)
		}
	}
	walk(tree.Root, 0)
	return parents
}

package meta

import (
	"sync"

	"github.com/coregx/bregex/nfa"
)

// SearchState holds per-search mutable state for thread-safe concurrent
// searches. It is obtained from the engine's pool for the duration of one
// call and never shared between goroutines.
type SearchState struct {
	backtracker *nfa.BacktrackerState
}

func newSearchState() *SearchState {
	return &SearchState{backtracker: nfa.NewBacktrackerState()}
}

// searchStatePool manages a pool of SearchState instances for thread-safe reuse.
// This follows the stdlib regexp pattern of using sync.Pool for concurrent safety.
type searchStatePool struct {
	pool sync.Pool
}

func newSearchStatePool() *searchStatePool {
	p := &searchStatePool{}
	p.pool.New = func() any {
		return newSearchState()
	}
	return p
}

func (p *searchStatePool) get() *SearchState {
	return p.pool.Get().(*SearchState)
}

// put returns a SearchState to the pool. The backtracker state keeps its
// buffers and its visited-table generation, so nothing is cleared here.
func (p *searchStatePool) put(state *SearchState) {
	if state == nil {
		return
	}
	p.pool.Put(state)
}

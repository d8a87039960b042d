package nfa

import (
	"bytes"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxVisited is the default limit on (state, position) entries the
// Backtracker remembers per search.
const DefaultMaxVisited = 1 << 21

// Skipper reports the next position at or after start where a match could
// begin, or -1 if there is none. Prefilters implement it.
type Skipper interface {
	Find(haystack []byte, start int) int
}

// Anchor selects where a match may start and end.
type Anchor uint8

const (
	// Unanchored finds the leftmost match starting at or after the search position.
	Unanchored Anchor = iota
	// AnchorStart requires the match to start at the search position.
	AnchorStart
	// AnchorBoth also requires the match to end at the end of the haystack.
	AnchorBoth
)

// Backtracker is a backtracking matcher over an NFA.
//
// It explores the program depth first with an explicit stack, trying the
// preferred branch of each Split before the other, which yields the
// leftmost-first match with Perl/Python semantics. Capture writes push undo
// records so that backtracking restores earlier values.
//
// When the program is memoizable and len(haystack)+1 times the number of
// states fits in the visited budget, every (state, position) pair is
// expanded at most once per search, bounding the work to O(states * input).
// Other programs may take exponential time on adversarial input.
//
// A Backtracker is immutable and safe for concurrent use; all mutable data
// lives in BacktrackerState.
type Backtracker struct {
	nfa *NFA

	// maxVisited limits the memo table size (in entries)
	maxVisited int
}

// NewBacktracker creates a new backtracker for the given NFA.
func NewBacktracker(nfa *NFA) *Backtracker {
	return &Backtracker{
		nfa:        nfa,
		maxVisited: DefaultMaxVisited,
	}
}

// SetMaxVisited changes the memo table budget. Zero disables memoization.
func (b *Backtracker) SetMaxVisited(n int) {
	b.maxVisited = n
}

// NFA returns the program run by the backtracker.
func (b *Backtracker) NFA() *NFA {
	return b.nfa
}

// CanMemoize returns true if a search over haystackLen bytes uses the memo table.
func (b *Backtracker) CanMemoize(haystackLen int) bool {
	if !b.nfa.memoizable || b.maxVisited <= 0 {
		return false
	}
	return b.nfa.States()*(haystackLen+1) <= b.maxVisited
}

type frameKind uint8

const (
	frameStep frameKind = iota // resume at (sid, pos)
	frameSlot                  // restore slots[idx] = old
	frameReg                   // restore regs[idx] = old
)

type frame struct {
	kind frameKind
	sid  StateID
	pos  int
	idx  int
	old  int
}

// BacktrackerState holds the mutable data of one search. Obtain one per
// goroutine; it may be reused across searches and across NFAs.
type BacktrackerState struct {
	// Slots holds capture positions after a successful search:
	// Slots[2*i] and Slots[2*i+1] bound group i, -1 when unset.
	Slots []int

	stack []frame
	regs  []int

	// visited stores, per (state, position), the generation of the search
	// that last expanded it.
	visited    []uint32
	generation uint32
	inputLen   int
	memo       bool
}

// NewBacktrackerState creates an empty state.
func NewBacktrackerState() *BacktrackerState {
	return &BacktrackerState{}
}

func (s *BacktrackerState) reset(nfa *NFA, haystackLen int, memo bool) {
	nslots := 2 * nfa.captureCount
	if cap(s.Slots) < nslots {
		s.Slots = make([]int, nslots)
	}
	s.Slots = s.Slots[:nslots]
	for i := range s.Slots {
		s.Slots[i] = -1
	}
	if cap(s.regs) < nfa.loopRegisters {
		s.regs = make([]int, nfa.loopRegisters)
	}
	s.regs = s.regs[:nfa.loopRegisters]
	for i := range s.regs {
		s.regs[i] = -1
	}
	s.stack = s.stack[:0]
	s.inputLen = haystackLen
	s.memo = memo
	if !memo {
		return
	}

	need := nfa.States() * (haystackLen + 1)
	if cap(s.visited) < need {
		s.visited = make([]uint32, need)
		s.generation = 0
	}
	s.visited = s.visited[:need]
	s.generation++
	if s.generation == 0 {
		clear(s.visited)
		s.generation = 1
	}
}

// shouldVisit checks if (state, pos) has been visited and marks it if not.
// Returns true if we should visit (not yet visited), false if already visited.
func (s *BacktrackerState) shouldVisit(sid StateID, pos int) bool {
	i := int(sid)*(s.inputLen+1) + pos
	if s.visited[i] == s.generation {
		return false
	}
	s.visited[i] = s.generation
	return true
}

func (s *BacktrackerState) push(f frame) {
	s.stack = append(s.stack, f)
}

func (s *BacktrackerState) setSlot(i, pos int) {
	s.stack = append(s.stack, frame{kind: frameSlot, idx: i, old: s.Slots[i]})
	s.Slots[i] = pos
}

func (s *BacktrackerState) setReg(i, pos int) {
	s.stack = append(s.stack, frame{kind: frameReg, idx: i, old: s.regs[i]})
	s.regs[i] = pos
}

// dropChoices removes the choice points above mark, keeping undo records so
// that captures set inside an atomic group or lookaround are still undone
// when the enclosing match backtracks.
func (s *BacktrackerState) dropChoices(mark int) {
	out := mark
	for _, f := range s.stack[mark:] {
		if f.kind != frameStep {
			s.stack[out] = f
			out++
		}
	}
	s.stack = s.stack[:out]
}

// unwind pops every frame above mark, applying undo records.
func (s *BacktrackerState) unwind(mark int) {
	for len(s.stack) > mark {
		f := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		switch f.kind {
		case frameSlot:
			s.Slots[f.idx] = f.old
		case frameReg:
			s.regs[f.idx] = f.old
		}
	}
}

// Search finds the leftmost match in haystack that starts at or after at
// (exactly at at, unless anchor is Unanchored). On success it returns true
// and the capture positions are in state.Slots. skip may be nil; when set,
// candidate start positions come from it.
func (b *Backtracker) Search(state *BacktrackerState, haystack []byte, at int, anchor Anchor, skip Skipper) bool {
	if at < 0 || at > len(haystack) {
		return false
	}
	state.reset(b.nfa, len(haystack), b.CanMemoize(len(haystack)))

	end := -1
	if anchor == AnchorBoth {
		end = len(haystack)
	}
	if b.nfa.anchored && at > 0 {
		return false
	}

	pos := at
	for {
		if anchor == Unanchored && skip != nil {
			if pos = skip.Find(haystack, pos); pos < 0 {
				return false
			}
		}
		if e, ok := b.exec(state, haystack, b.nfa.start, pos, end); ok {
			state.stack = state.stack[:0]
			state.Slots[0], state.Slots[1] = pos, e
			return true
		}
		if anchor != Unanchored || b.nfa.anchored || pos >= len(haystack) {
			return false
		}
		pos += runeWidth(haystack, pos)
	}
}

// IsMatch reports whether the program matches anywhere in haystack.
func (b *Backtracker) IsMatch(state *BacktrackerState, haystack []byte) bool {
	return b.Search(state, haystack, 0, Unanchored, nil)
}

// exec runs the program from (start, pos) until a Match or SubMatch state is
// reached. end, when non-negative, is the position the match must end at.
// On failure every frame pushed by exec has been popped.
func (b *Backtracker) exec(st *BacktrackerState, h []byte, start StateID, pos, end int) (int, bool) {
	base := len(st.stack)
	st.push(frame{kind: frameStep, sid: start, pos: pos})
	for len(st.stack) > base {
		f := st.stack[len(st.stack)-1]
		st.stack = st.stack[:len(st.stack)-1]
		switch f.kind {
		case frameSlot:
			st.Slots[f.idx] = f.old
			continue
		case frameReg:
			st.regs[f.idx] = f.old
			continue
		}
		if e, ok := b.step(st, h, f.sid, f.pos, end); ok {
			return e, true
		}
	}
	return -1, false
}

// step follows one path, pushing the alternatives it passes, until the path
// succeeds or fails.
func (b *Backtracker) step(st *BacktrackerState, h []byte, sid StateID, pos, end int) (int, bool) {
	states := b.nfa.states
	for {
		if st.memo && !st.shouldVisit(sid, pos) {
			return -1, false
		}
		s := &states[sid]
		switch s.kind {
		case StateMatch, StateSubMatch:
			if end >= 0 && pos != end {
				return -1, false
			}
			return pos, true

		case StateLiteral:
			if !bytes.HasPrefix(h[pos:], s.lit) {
				return -1, false
			}
			pos += len(s.lit)
			sid = s.next

		case StateFoldRune:
			if pos >= len(h) {
				return -1, false
			}
			r, w := utf8.DecodeRune(h[pos:])
			if !containsRune(s.fold, r) {
				return -1, false
			}
			pos += w
			sid = s.next

		case StateClass:
			if pos >= len(h) {
				return -1, false
			}
			r, w := rune(h[pos]), 1
			if r >= utf8.RuneSelf {
				r, w = utf8.DecodeRune(h[pos:])
			}
			if !s.class.Contains(r) {
				return -1, false
			}
			pos += w
			sid = s.next

		case StateRuneAny:
			if pos >= len(h) {
				return -1, false
			}
			pos += runeWidth(h, pos)
			sid = s.next

		case StateRuneAnyNotNL:
			if pos >= len(h) || h[pos] == '\n' {
				return -1, false
			}
			pos += runeWidth(h, pos)
			sid = s.next

		case StateSplit:
			st.push(frame{kind: frameStep, sid: s.right, pos: pos})
			sid = s.left

		case StateEpsilon:
			sid = s.next

		case StateCapture:
			st.setSlot(s.index, pos)
			sid = s.next

		case StateLook:
			if !checkLookAssertion(s.look, h, pos) {
				return -1, false
			}
			sid = s.next

		case StateBackref:
			n, ok := b.backref(st, h, s, pos)
			if !ok {
				return -1, false
			}
			pos += n
			sid = s.next

		case StateAtomic:
			mark := len(st.stack)
			e, ok := b.exec(st, h, s.sub, pos, -1)
			if !ok {
				return -1, false
			}
			st.dropChoices(mark)
			pos = e
			sid = s.next

		case StateLookaround:
			if !b.lookaround(st, h, s, pos) {
				return -1, false
			}
			sid = s.next

		case StateLoopEnter:
			st.setReg(s.index, pos)
			sid = s.next

		case StateLoopCheck:
			if st.regs[s.index] == pos {
				sid = s.right
			} else {
				sid = s.left
			}

		default:
			return -1, false
		}
	}
}

// backref matches the current text of the referenced group at pos and
// returns its length. A group that has not participated never matches.
func (b *Backtracker) backref(st *BacktrackerState, h []byte, s *State, pos int) (int, bool) {
	start, end := st.Slots[2*s.index], st.Slots[2*s.index+1]
	if start < 0 || end < 0 {
		return 0, false
	}
	ref := h[start:end]
	if !s.caseless {
		if bytes.HasPrefix(h[pos:], ref) {
			return len(ref), true
		}
		return 0, false
	}
	i := pos
	for len(ref) > 0 {
		if i >= len(h) {
			return 0, false
		}
		r1, w1 := utf8.DecodeRune(ref)
		r2, w2 := utf8.DecodeRune(h[i:])
		if !equalFold(r1, r2) {
			return 0, false
		}
		ref = ref[w1:]
		i += w2
	}
	return i - pos, true
}

// lookaround evaluates a lookahead or lookbehind at pos. A successful
// positive assertion keeps the captures it set; a negative one never does.
func (b *Backtracker) lookaround(st *BacktrackerState, h []byte, s *State, pos int) bool {
	mark := len(st.stack)
	matched := false
	if !s.behind {
		_, matched = b.exec(st, h, s.sub, pos, -1)
	} else {
		lo := 0
		if s.maxWidth >= 0 {
			lo = max(0, pos-s.maxWidth)
		}
		for q := pos - s.minWidth; q >= lo; q-- {
			if q < len(h) && q < pos && isContinuation(h[q]) {
				continue
			}
			if _, matched = b.exec(st, h, s.sub, q, pos); matched {
				break
			}
		}
	}
	if s.negate {
		if matched {
			st.unwind(mark)
			return false
		}
		return true
	}
	if matched {
		st.dropChoices(mark)
	}
	return matched
}

func isContinuation(c byte) bool {
	return c&0xC0 == 0x80
}

// runeWidth returns the width of the code point at pos; an invalid byte
// counts as a one-byte code point.
func runeWidth(h []byte, pos int) int {
	if h[pos] < utf8.RuneSelf {
		return 1
	}
	_, w := utf8.DecodeRune(h[pos:])
	return w
}

func containsRune(sorted []rune, r rune) bool {
	for _, x := range sorted {
		if x == r {
			return true
		}
		if x > r {
			return false
		}
	}
	return false
}

func equalFold(a, b rune) bool {
	if a == b {
		return true
	}
	if a < 0 || a > unicode.MaxRune {
		return false
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}

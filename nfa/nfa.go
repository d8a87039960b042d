package nfa

import (
	"fmt"
	"strings"

	"github.com/coregx/bregex/syntax"
)

// StateID uniquely identifies an NFA state.
// This is a 32-bit unsigned integer for compact representation.
type StateID uint32

// InvalidState represents an invalid/uninitialized state ID
const InvalidState StateID = 0xFFFFFFFF

// StateKind identifies the type of NFA state and determines which fields are valid.
type StateKind uint8

const (
	// StateMatch is the accepting state of the whole pattern
	StateMatch StateKind = iota

	// StateLiteral matches an exact byte string (one or more encoded runes)
	StateLiteral

	// StateFoldRune matches one rune from a case-folding orbit
	StateFoldRune

	// StateClass matches one rune from a character class
	StateClass

	// StateRuneAny matches any rune, newline included
	StateRuneAny

	// StateRuneAnyNotNL matches any rune except '\n'
	StateRuneAnyNotNL

	// StateSplit tries left first, then right on backtrack.
	// Used for alternation and quantifiers.
	StateSplit

	// StateEpsilon moves to next without consuming input
	StateEpsilon

	// StateCapture records the current position in a capture slot
	StateCapture

	// StateLook is a zero-width assertion (^, $, \b, ...)
	StateLook

	// StateBackref matches the text of an earlier capture group
	StateBackref

	// StateLookaround runs a sub-program as a lookahead or lookbehind
	StateLookaround

	// StateAtomic runs a sub-program and keeps only its first result
	StateAtomic

	// StateSubMatch ends a lookaround or atomic sub-program
	StateSubMatch

	// StateLoopEnter stores the position where a loop iteration began
	StateLoopEnter

	// StateLoopCheck leaves the loop when the iteration consumed nothing
	StateLoopCheck

	// StateFail never matches
	StateFail
)

var stateKindNames = [...]string{
	StateMatch:        "Match",
	StateLiteral:      "Literal",
	StateFoldRune:     "FoldRune",
	StateClass:        "Class",
	StateRuneAny:      "RuneAny",
	StateRuneAnyNotNL: "RuneAnyNotNL",
	StateSplit:        "Split",
	StateEpsilon:      "Epsilon",
	StateCapture:      "Capture",
	StateLook:         "Look",
	StateBackref:      "Backref",
	StateLookaround:   "Lookaround",
	StateAtomic:       "Atomic",
	StateSubMatch:     "SubMatch",
	StateLoopEnter:    "LoopEnter",
	StateLoopCheck:    "LoopCheck",
	StateFail:         "Fail",
}

// String returns a human-readable representation of the StateKind
func (k StateKind) String() string {
	if int(k) < len(stateKindNames) {
		return stateKindNames[k]
	}
	return fmt.Sprintf("Unknown(%d)", k)
}

// State represents a single NFA state.
// The state's kind determines which fields are valid.
type State struct {
	id   StateID
	kind StateKind
	next StateID

	// Split: preferred and fallback targets.
	// LoopCheck: left loops back, right exits.
	left, right StateID

	lit   []byte            // Literal
	fold  []rune            // FoldRune, sorted
	class *syntax.CharClass // Class
	look  Look              // Look

	// Capture: slot index. Backref: group index. LoopEnter/LoopCheck:
	// register index.
	index int

	// Backref compares case-insensitively.
	caseless bool

	// Lookaround and Atomic: first state of the sub-program.
	sub StateID

	// Lookaround qualifiers. minWidth/maxWidth bound the bytes a lookbehind
	// body can span; maxWidth is -1 when unbounded.
	behind, negate     bool
	minWidth, maxWidth int
}

// ID returns the state's unique identifier
func (s *State) ID() StateID {
	return s.id
}

// Kind returns the state's type
func (s *State) Kind() StateKind {
	return s.kind
}

// IsMatch returns true if this is a match state
func (s *State) IsMatch() bool {
	return s.kind == StateMatch
}

// Next returns the successor of single-successor states.
func (s *State) Next() StateID {
	return s.next
}

// Split returns the two targets of a Split state.
// Returns (InvalidState, InvalidState) for other states.
func (s *State) Split() (left, right StateID) {
	if s.kind == StateSplit {
		return s.left, s.right
	}
	return InvalidState, InvalidState
}

// Literal returns the bytes matched by a Literal state, or nil.
func (s *State) Literal() []byte {
	if s.kind == StateLiteral {
		return s.lit
	}
	return nil
}

// Capture returns the slot written by a Capture state.
// Slot 2*i opens group i and slot 2*i+1 closes it.
func (s *State) Capture() (slot int, next StateID) {
	if s.kind == StateCapture {
		return s.index, s.next
	}
	return -1, InvalidState
}

// String returns a human-readable representation of the state
func (s *State) String() string {
	switch s.kind {
	case StateMatch, StateSubMatch, StateFail:
		return fmt.Sprintf("State(%d, %s)", s.id, s.kind)
	case StateLiteral:
		return fmt.Sprintf("State(%d, Literal %q -> %d)", s.id, s.lit, s.next)
	case StateFoldRune:
		return fmt.Sprintf("State(%d, FoldRune %q -> %d)", s.id, string(s.fold), s.next)
	case StateClass:
		return fmt.Sprintf("State(%d, Class %d ranges -> %d)", s.id, len(s.class.Ranges), s.next)
	case StateSplit:
		return fmt.Sprintf("State(%d, Split -> [%d, %d])", s.id, s.left, s.right)
	case StateLoopCheck:
		return fmt.Sprintf("State(%d, LoopCheck r%d -> [%d, %d])", s.id, s.index, s.left, s.right)
	case StateCapture, StateBackref, StateLoopEnter:
		return fmt.Sprintf("State(%d, %s %d -> %d)", s.id, s.kind, s.index, s.next)
	case StateLook:
		return fmt.Sprintf("State(%d, Look %s -> %d)", s.id, s.look, s.next)
	case StateLookaround:
		return fmt.Sprintf("State(%d, Lookaround behind=%v negate=%v sub=%d -> %d)",
			s.id, s.behind, s.negate, s.sub, s.next)
	case StateAtomic:
		return fmt.Sprintf("State(%d, Atomic sub=%d -> %d)", s.id, s.sub, s.next)
	default:
		return fmt.Sprintf("State(%d, %s -> %d)", s.id, s.kind, s.next)
	}
}

// NFA is a compiled program: a graph of states walked by the Backtracker.
// An NFA is immutable once built and safe for concurrent use.
type NFA struct {
	states []State
	start  StateID

	// anchored is set when every match must begin at the start of input.
	anchored bool

	// memoizable is set when no state depends on more than (state, position):
	// no backreferences, lookarounds, atomic groups or loop guards.
	memoizable bool

	// captureCount counts group 0, so "(a)(b)" has 3.
	captureCount int

	// captureNames holds the name of each group; index 0 is always "".
	captureNames []string
	groupIndex   map[string]int

	// reachable counts the states reachable from start.
	reachable int

	loopRegisters int
	pattern       string
}

// Start returns the first state of the program
func (n *NFA) Start() StateID {
	return n.start
}

// State returns the state with the given ID.
// Returns nil if the ID is invalid.
func (n *NFA) State(id StateID) *State {
	if id == InvalidState || int(id) >= len(n.states) {
		return nil
	}
	return &n.states[id]
}

// States returns the total number of states in the NFA
func (n *NFA) States() int {
	return len(n.states)
}

// Reachable returns the number of states reachable from the start state.
func (n *NFA) Reachable() int {
	return n.reachable
}

// IsAnchored returns true if every match must start at the beginning of input
func (n *NFA) IsAnchored() bool {
	return n.anchored
}

// IsMemoizable reports whether the Backtracker may remember failed
// (state, position) pairs.
func (n *NFA) IsMemoizable() bool {
	return n.memoizable
}

// CaptureCount returns the number of capture groups in the NFA.
// Group 0 is the entire match, groups 1+ are explicit captures.
// For a pattern like "(a)(b)", this returns 3 (entire match + 2 groups).
func (n *NFA) CaptureCount() int {
	return n.captureCount
}

// LoopRegisters returns the number of loop guard registers the program uses.
func (n *NFA) LoopRegisters() int {
	return n.loopRegisters
}

// Pattern returns the source pattern.
func (n *NFA) Pattern() string {
	return n.pattern
}

// SubexpNames returns the names of capture groups in the pattern.
// Index 0 is always "" (representing the entire match).
// Named groups return their names, unnamed groups return "".
//
// Example:
//
//	pattern: `(?P<year>\d+)-(\d+)-(?P<day>\d+)`
//	returns: ["", "year", "", "day"]
func (n *NFA) SubexpNames() []string {
	names := make([]string, n.captureCount)
	copy(names, n.captureNames)
	return names
}

// GroupIndex returns the index of the named group.
func (n *NFA) GroupIndex(name string) (int, bool) {
	i, ok := n.groupIndex[name]
	return i, ok
}

// GroupNames returns a copy of the name to index table.
func (n *NFA) GroupNames() map[string]int {
	m := make(map[string]int, len(n.groupIndex))
	for k, v := range n.groupIndex {
		m[k] = v
	}
	return m
}

// String returns a human-readable representation of the NFA
func (n *NFA) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "NFA{states: %d, start: %d, captures: %d, anchored: %v, memoizable: %v}\n",
		len(n.states), n.start, n.captureCount, n.anchored, n.memoizable)
	for i := range n.states {
		b.WriteString("  ")
		b.WriteString(n.states[i].String())
		b.WriteByte('\n')
	}
	return b.String()
}

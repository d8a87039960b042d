package nfa

import (
	"fmt"

	"github.com/coregx/bregex/internal/conv"
	"github.com/coregx/bregex/internal/sparse"
	"github.com/coregx/bregex/syntax"
)

// Builder constructs NFAs incrementally using a low-level API.
// This provides full control over NFA construction and is used by the Compiler.
type Builder struct {
	states []State
	start  StateID
}

// NewBuilder creates a new NFA builder with default capacity
func NewBuilder() *Builder {
	return NewBuilderWithCapacity(16)
}

// NewBuilderWithCapacity creates a new NFA builder with specified initial capacity
func NewBuilderWithCapacity(capacity int) *Builder {
	return &Builder{
		states: make([]State, 0, capacity),
		start:  InvalidState,
	}
}

func (b *Builder) add(s State) StateID {
	id := StateID(conv.IntToUint32(len(b.states)))
	s.id = id
	b.states = append(b.states, s)
	return id
}

// AddMatch adds a match (accepting) state and returns its ID
func (b *Builder) AddMatch() StateID {
	return b.add(State{kind: StateMatch})
}

// AddSubMatch adds the terminal state of a lookaround or atomic sub-program.
func (b *Builder) AddSubMatch() StateID {
	return b.add(State{kind: StateSubMatch})
}

// AddFail adds a dead state with no transitions
func (b *Builder) AddFail() StateID {
	return b.add(State{kind: StateFail})
}

// AddLiteral adds a state that matches lit exactly.
// The slice is copied to avoid aliasing.
func (b *Builder) AddLiteral(lit []byte, next StateID) StateID {
	return b.add(State{kind: StateLiteral, lit: append([]byte(nil), lit...), next: next})
}

// AddFoldRune adds a state matching any rune of the case orbit.
func (b *Builder) AddFoldRune(orbit []rune, next StateID) StateID {
	return b.add(State{kind: StateFoldRune, fold: append([]rune(nil), orbit...), next: next})
}

// AddClass adds a state matching one rune of class.
func (b *Builder) AddClass(class *syntax.CharClass, next StateID) StateID {
	return b.add(State{kind: StateClass, class: class, next: next})
}

// AddRuneAny adds a state that matches any single UTF-8 codepoint (including newlines).
func (b *Builder) AddRuneAny(next StateID) StateID {
	return b.add(State{kind: StateRuneAny, next: next})
}

// AddRuneAnyNotNL adds a state that matches any single UTF-8 codepoint except newline.
func (b *Builder) AddRuneAnyNotNL(next StateID) StateID {
	return b.add(State{kind: StateRuneAnyNotNL, next: next})
}

// AddSplit adds a choice point. left is tried first; right is the
// alternative taken on backtrack.
func (b *Builder) AddSplit(left, right StateID) StateID {
	return b.add(State{kind: StateSplit, left: left, right: right})
}

// AddEpsilon adds a state with a single epsilon transition (no input consumed)
func (b *Builder) AddEpsilon(next StateID) StateID {
	return b.add(State{kind: StateEpsilon, next: next})
}

// AddCapture adds a capture boundary state.
// slot is 2*group for the opening boundary and 2*group+1 for the closing one.
func (b *Builder) AddCapture(slot int, next StateID) StateID {
	return b.add(State{kind: StateCapture, index: slot, next: next})
}

// AddLook adds a zero-width assertion state
func (b *Builder) AddLook(look Look, next StateID) StateID {
	return b.add(State{kind: StateLook, look: look, next: next})
}

// AddBackref adds a state matching the current text of group.
func (b *Builder) AddBackref(group int, caseless bool, next StateID) StateID {
	return b.add(State{kind: StateBackref, index: group, caseless: caseless, next: next})
}

// AddLookaround adds a lookahead (behind=false) or lookbehind assertion over
// the sub-program starting at sub. minWidth and maxWidth bound the bytes a
// lookbehind body can span (maxWidth -1 for unbounded).
func (b *Builder) AddLookaround(sub StateID, behind, negate bool, minWidth, maxWidth int, next StateID) StateID {
	return b.add(State{
		kind:     StateLookaround,
		sub:      sub,
		behind:   behind,
		negate:   negate,
		minWidth: minWidth,
		maxWidth: maxWidth,
		next:     next,
	})
}

// AddAtomic adds an atomic group over the sub-program starting at sub.
func (b *Builder) AddAtomic(sub, next StateID) StateID {
	return b.add(State{kind: StateAtomic, sub: sub, next: next})
}

// AddLoopEnter adds a state that saves the position in register reg.
func (b *Builder) AddLoopEnter(reg int, next StateID) StateID {
	return b.add(State{kind: StateLoopEnter, index: reg, next: next})
}

// AddLoopCheck adds the end-of-iteration guard for register reg: it
// continues to loop when the iteration consumed input and to exit otherwise.
func (b *Builder) AddLoopCheck(reg int, loop, exit StateID) StateID {
	return b.add(State{kind: StateLoopCheck, index: reg, left: loop, right: exit})
}

// Patch updates a state's target. This is used during compilation to handle
// forward references (e.g., loops, alternations).
// This only works for states with a single 'next' target.
func (b *Builder) Patch(stateID, target StateID) error {
	if int(stateID) >= len(b.states) {
		return &BuildError{
			Message: "state ID out of bounds",
			StateID: stateID,
		}
	}

	s := &b.states[stateID]
	switch s.kind {
	case StateMatch, StateSubMatch, StateFail, StateSplit, StateLoopCheck:
		return &BuildError{
			Message: fmt.Sprintf("cannot patch state of kind %s", s.kind),
			StateID: stateID,
		}
	}
	s.next = target
	return nil
}

// PatchSplit updates the left and right targets of a Split or LoopCheck state
func (b *Builder) PatchSplit(stateID StateID, left, right StateID) error {
	if int(stateID) >= len(b.states) {
		return &BuildError{
			Message: "state ID out of bounds",
			StateID: stateID,
		}
	}

	s := &b.states[stateID]
	if s.kind != StateSplit && s.kind != StateLoopCheck {
		return &BuildError{
			Message: fmt.Sprintf("expected Split state, got %s", s.kind),
			StateID: stateID,
		}
	}

	s.left = left
	s.right = right
	return nil
}

// SetStart sets the starting state for the NFA
func (b *Builder) SetStart(start StateID) {
	b.start = start
}

// States returns the current number of states
func (b *Builder) States() int {
	return len(b.states)
}

// Validate checks that the NFA is well-formed:
// - Start state is valid
// - All state references point to valid states
func (b *Builder) Validate() error {
	if b.start == InvalidState {
		return &BuildError{Message: "start state not set", StateID: InvalidState}
	}
	if int(b.start) >= len(b.states) {
		return &BuildError{
			Message: "start state out of bounds",
			StateID: b.start,
		}
	}

	valid := func(id StateID) bool {
		return int(id) < len(b.states)
	}
	for i, s := range b.states {
		id := StateID(i)
		switch s.kind {
		case StateMatch, StateSubMatch, StateFail:
		case StateSplit, StateLoopCheck:
			if !valid(s.left) || !valid(s.right) {
				return &BuildError{
					Message: fmt.Sprintf("invalid split targets %d, %d", s.left, s.right),
					StateID: id,
				}
			}
		case StateLookaround, StateAtomic:
			if !valid(s.sub) || !valid(s.next) {
				return &BuildError{
					Message: fmt.Sprintf("invalid sub-program %d or next state %d", s.sub, s.next),
					StateID: id,
				}
			}
		default:
			if !valid(s.next) {
				return &BuildError{
					Message: fmt.Sprintf("invalid next state %d", s.next),
					StateID: id,
				}
			}
		}
	}

	return nil
}

// Build finalizes and returns the constructed NFA.
func (b *Builder) Build(opts ...BuildOption) (*NFA, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	nfa := &NFA{
		states:       b.states,
		start:        b.start,
		captureCount: 1,
		memoizable:   true,
	}
	// Only states reachable from the start decide whether the memo table
	// is sound; sub-programs of lookarounds and atomic groups count.
	reach := b.reachable()
	for _, id := range reach.Values() {
		switch b.states[id].kind {
		case StateBackref, StateLookaround, StateAtomic, StateLoopEnter, StateLoopCheck:
			nfa.memoizable = false
		}
	}
	nfa.reachable = reach.Size()

	for _, opt := range opts {
		opt(nfa)
	}
	return nfa, nil
}

// reachable walks the state graph from the start state.
func (b *Builder) reachable() *sparse.SparseSet {
	set := sparse.NewSparseSet(len(b.states))
	set.Insert(uint32(b.start))
	for i := 0; i < set.Size(); i++ {
		s := &b.states[set.At(i)]
		switch s.kind {
		case StateMatch, StateSubMatch, StateFail:
		case StateSplit, StateLoopCheck:
			set.Insert(uint32(s.left))
			set.Insert(uint32(s.right))
		case StateLookaround, StateAtomic:
			set.Insert(uint32(s.sub))
			set.Insert(uint32(s.next))
		default:
			set.Insert(uint32(s.next))
		}
	}
	return set
}

// BuildOption is a functional option for configuring the built NFA
type BuildOption func(*NFA)

// WithAnchored sets whether every match must begin at the start of input
func WithAnchored(anchored bool) BuildOption {
	return func(n *NFA) {
		n.anchored = anchored
	}
}

// WithCaptureCount sets the number of capture groups in the NFA, group 0 included
func WithCaptureCount(count int) BuildOption {
	return func(n *NFA) {
		n.captureCount = count
	}
}

// WithCaptureNames sets the names of capture groups in the NFA.
// Index 0 should be "" (entire match), named groups have their names, unnamed groups are "".
func WithCaptureNames(names []string, index map[string]int) BuildOption {
	return func(n *NFA) {
		n.captureNames = append([]string(nil), names...)
		n.groupIndex = index
	}
}

// WithLoopRegisters sets the number of loop guard registers.
func WithLoopRegisters(count int) BuildOption {
	return func(n *NFA) {
		n.loopRegisters = count
	}
}

// WithPattern records the source pattern.
func WithPattern(pattern string) BuildOption {
	return func(n *NFA) {
		n.pattern = pattern
	}
}

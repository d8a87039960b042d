package nfa

import (
	"fmt"
	"unicode/utf8"

	"github.com/coregx/bregex/syntax"
)

// CompilerConfig configures NFA compilation behavior
type CompilerConfig struct {
	// MaxRecursionDepth limits recursion during compilation to prevent stack overflow
	// Default: 250
	MaxRecursionDepth int

	// MaxStates caps the size of the program. Counted repetition such as
	// (a{100}){100} is expanded, so small patterns can produce large programs.
	// Default: 100,000
	MaxStates int
}

// DefaultCompilerConfig returns a compiler configuration with sensible defaults
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		MaxRecursionDepth: syntax.DefaultMaxDepth,
		MaxStates:         100_000,
	}
}

// Compiler lowers a syntax tree into an NFA.
//
// Nodes are compiled back to front: each node is compiled knowing the state
// that follows it, which keeps the order of choices explicit in every Split.
type Compiler struct {
	config  CompilerConfig
	builder *Builder
	depth   int // current recursion depth
	regs    int // loop guard registers allocated so far
}

// NewCompiler creates a new NFA compiler with the given configuration
func NewCompiler(config CompilerConfig) *Compiler {
	defaults := DefaultCompilerConfig()
	if config.MaxRecursionDepth == 0 {
		config.MaxRecursionDepth = defaults.MaxRecursionDepth
	}
	if config.MaxStates == 0 {
		config.MaxStates = defaults.MaxStates
	}
	return &Compiler{
		config:  config,
		builder: NewBuilder(),
	}
}

// NewDefaultCompiler creates a new NFA compiler with default configuration
func NewDefaultCompiler() *Compiler {
	return NewCompiler(DefaultCompilerConfig())
}

// Compile parses pattern with flags and compiles it.
// Syntax errors are returned unwrapped as *syntax.Error.
func (c *Compiler) Compile(pattern string, flags syntax.Flags) (*NFA, error) {
	tree, err := syntax.ParseWithDepth(pattern, flags, c.config.MaxRecursionDepth)
	if err != nil {
		return nil, err
	}
	return c.CompileTree(tree)
}

// CompileTree compiles a parsed pattern into an NFA
func (c *Compiler) CompileTree(tree *syntax.Tree) (*NFA, error) {
	c.builder = NewBuilder()
	c.depth = 0
	c.regs = 0

	index, err := groupIndex(tree)
	if err != nil {
		return nil, &CompileError{Pattern: tree.Pattern, Err: err}
	}

	match := c.builder.AddMatch()
	start, err := c.compile(tree.Root, match)
	if err != nil {
		return nil, &CompileError{Pattern: tree.Pattern, Err: err}
	}
	c.builder.SetStart(start)

	nfa, err := c.builder.Build(
		WithAnchored(anchoredStart(tree.Root)),
		WithCaptureCount(tree.NumCaps+1),
		WithCaptureNames(tree.Names, index),
		WithLoopRegisters(c.regs),
		WithPattern(tree.Pattern),
	)
	if err != nil {
		return nil, &CompileError{Pattern: tree.Pattern, Err: err}
	}
	return nfa, nil
}

// groupIndex builds the name to group index table.
func groupIndex(tree *syntax.Tree) (map[string]int, error) {
	index := make(map[string]int)
	for i, name := range tree.Names {
		if name == "" {
			continue
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w %q", ErrDuplicateGroupName, name)
		}
		index[name] = i
	}
	return index, nil
}

// compile emits the states for n and returns its entry. next is the state
// that runs after n succeeds.
func (c *Compiler) compile(n *syntax.Node, next StateID) (StateID, error) {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > c.config.MaxRecursionDepth {
		return InvalidState, ErrTooComplex
	}
	if c.builder.States() > c.config.MaxStates {
		return InvalidState, fmt.Errorf("%w: more than %d states", ErrTooComplex, c.config.MaxStates)
	}

	switch n.Op {
	case syntax.OpEmpty:
		return next, nil
	case syntax.OpLiteral:
		return c.compileLiteral(n, next), nil
	case syntax.OpClass:
		if r, ok := n.Class.Single(); ok {
			return c.builder.AddLiteral(utf8.AppendRune(nil, r), next), nil
		}
		return c.builder.AddClass(n.Class, next), nil
	case syntax.OpAnyChar:
		return c.builder.AddRuneAny(next), nil
	case syntax.OpAnyCharNotNL:
		return c.builder.AddRuneAnyNotNL(next), nil
	case syntax.OpAssert:
		return c.builder.AddLook(lookFor(n.Assert, n.Flags), next), nil
	case syntax.OpGroup:
		return c.compile(n.Subs[0], next)
	case syntax.OpCapture:
		closeID := c.builder.AddCapture(2*n.Cap+1, next)
		body, err := c.compile(n.Subs[0], closeID)
		if err != nil {
			return InvalidState, err
		}
		return c.builder.AddCapture(2*n.Cap, body), nil
	case syntax.OpConcat:
		for i := len(n.Subs) - 1; i >= 0; i-- {
			var err error
			if next, err = c.compile(n.Subs[i], next); err != nil {
				return InvalidState, err
			}
		}
		return next, nil
	case syntax.OpAlternate:
		return c.compileAlternate(n.Subs, next)
	case syntax.OpRepeat:
		return c.compileRepeat(n, next)
	case syntax.OpBackref:
		return c.builder.AddBackref(n.Cap, n.Flags&syntax.FoldCase != 0, next), nil
	case syntax.OpLookaround:
		sub, err := c.compile(n.Subs[0], c.builder.AddSubMatch())
		if err != nil {
			return InvalidState, err
		}
		minWidth, maxWidth := n.Subs[0].Width()
		return c.builder.AddLookaround(sub, n.Behind, n.Negate, minWidth, maxWidth, next), nil
	case syntax.OpAtomic:
		sub, err := c.compile(n.Subs[0], c.builder.AddSubMatch())
		if err != nil {
			return InvalidState, err
		}
		return c.builder.AddAtomic(sub, next), nil
	}
	return InvalidState, fmt.Errorf("unsupported syntax node %s", n.Op)
}

// compileLiteral merges runs of case-sensitive runes into single Literal
// states; case-insensitive runes with variants become FoldRune states.
func (c *Compiler) compileLiteral(n *syntax.Node, next StateID) StateID {
	if n.Flags&syntax.FoldCase == 0 {
		var buf []byte
		for _, r := range n.Runes {
			buf = utf8.AppendRune(buf, r)
		}
		return c.builder.AddLiteral(buf, next)
	}
	var pending []rune
	flush := func() {
		if len(pending) > 0 {
			var buf []byte
			for _, r := range pending {
				buf = utf8.AppendRune(buf, r)
			}
			next = c.builder.AddLiteral(buf, next)
			pending = pending[:0]
		}
	}
	for i := len(n.Runes) - 1; i >= 0; i-- {
		r := n.Runes[i]
		orbit := syntax.FoldOrbit(r)
		if len(orbit) == 1 {
			pending = append([]rune{r}, pending...)
			continue
		}
		flush()
		next = c.builder.AddFoldRune(orbit, next)
	}
	flush()
	return next
}

// compileAlternate chains Splits so that alternatives are tried in the
// order written.
func (c *Compiler) compileAlternate(subs []*syntax.Node, next StateID) (StateID, error) {
	last, err := c.compile(subs[len(subs)-1], next)
	if err != nil {
		return InvalidState, err
	}
	for i := len(subs) - 2; i >= 0; i-- {
		entry, err := c.compile(subs[i], next)
		if err != nil {
			return InvalidState, err
		}
		last = c.builder.AddSplit(entry, last)
	}
	return last, nil
}

// compileRepeat expands x{m,n} into m copies of x followed by n-m nested
// optional copies, or by a loop when n is unbounded.
func (c *Compiler) compileRepeat(n *syntax.Node, next StateID) (StateID, error) {
	sub := n.Subs[0]
	tail := next
	var err error

	if n.Max < 0 {
		if tail, err = c.compileLoop(sub, n.Greedy, next); err != nil {
			return InvalidState, err
		}
	} else {
		for i := n.Min; i < n.Max; i++ {
			body, err := c.compile(sub, tail)
			if err != nil {
				return InvalidState, err
			}
			if n.Greedy {
				tail = c.builder.AddSplit(body, next)
			} else {
				tail = c.builder.AddSplit(next, body)
			}
		}
	}

	for i := 0; i < n.Min; i++ {
		if tail, err = c.compile(sub, tail); err != nil {
			return InvalidState, err
		}
	}
	return tail, nil
}

// compileLoop compiles x* (or x*? when greedy is false). A body that can
// match the empty string is wrapped in a loop guard so an iteration that
// consumes nothing ends the loop instead of repeating forever.
func (c *Compiler) compileLoop(sub *syntax.Node, greedy bool, next StateID) (StateID, error) {
	split := c.builder.AddSplit(InvalidState, InvalidState)

	var entry StateID
	if sub.Nullable() {
		reg := c.regs
		c.regs++
		check := c.builder.AddLoopCheck(reg, split, next)
		body, err := c.compile(sub, check)
		if err != nil {
			return InvalidState, err
		}
		entry = c.builder.AddLoopEnter(reg, body)
	} else {
		body, err := c.compile(sub, split)
		if err != nil {
			return InvalidState, err
		}
		entry = body
	}

	var err error
	if greedy {
		err = c.builder.PatchSplit(split, entry, next)
	} else {
		err = c.builder.PatchSplit(split, next, entry)
	}
	if err != nil {
		return InvalidState, err
	}
	return split, nil
}

// anchoredStart reports whether every match of n must begin at the start
// of the input.
func anchoredStart(n *syntax.Node) bool {
	switch n.Op {
	case syntax.OpAssert:
		return n.Assert == syntax.AssertBeginText
	case syntax.OpConcat:
		return len(n.Subs) > 0 && anchoredStart(n.Subs[0])
	case syntax.OpCapture, syntax.OpGroup, syntax.OpAtomic:
		return anchoredStart(n.Subs[0])
	case syntax.OpRepeat:
		return n.Min > 0 && anchoredStart(n.Subs[0])
	case syntax.OpAlternate:
		for _, sub := range n.Subs {
			if !anchoredStart(sub) {
				return false
			}
		}
		return true
	}
	return false
}

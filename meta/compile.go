package meta

import (
	"github.com/coregx/bregex/literal"
	"github.com/coregx/bregex/nfa"
	"github.com/coregx/bregex/prefilter"
	"github.com/coregx/bregex/syntax"
)

// Compile compiles a regex pattern string into an executable Engine.
//
// Steps:
//  1. Parse the pattern (syntax.Parse)
//  2. Compile the tree to an NFA
//  3. Extract prefix literals and build a prefilter (if useful)
//  4. Create the backtracker and the search state pool
//
// Returns an error if:
//   - Pattern syntax is invalid (*syntax.Error)
//   - A group name is defined twice or the program is too large (*nfa.CompileError)
//   - Configuration is invalid (*ConfigError)
//
// Example:
//
//	engine, err := meta.Compile(`hello.*world`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Engine, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// CompileWithConfig compiles a pattern with custom configuration.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.Flags = syntax.MultiLine
//	engine, err := meta.CompileWithConfig(`^\w+$`, config)
func CompileWithConfig(pattern string, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	tree, err := syntax.ParseWithDepth(pattern, config.Flags, config.MaxRecursionDepth)
	if err != nil {
		return nil, err
	}

	compiler := nfa.NewCompiler(nfa.CompilerConfig{
		MaxRecursionDepth: config.MaxRecursionDepth,
		MaxStates:         config.MaxStates,
	})
	program, err := compiler.CompileTree(tree)
	if err != nil {
		return nil, err
	}

	bt := nfa.NewBacktracker(program)
	bt.SetMaxVisited(config.MaxVisitedEntries)

	return &Engine{
		nfa:         program,
		backtracker: bt,
		prefilter:   buildPrefilter(tree, program, config),
		config:      config,
		statePool:   newSearchStatePool(),
		groupParent: groupParents(tree),
	}, nil
}

// buildPrefilter returns nil when the pattern is anchored (only position 0
// is ever tried) or has no usable prefix literals.
func buildPrefilter(tree *syntax.Tree, program *nfa.NFA, config Config) prefilter.Prefilter {
	if !config.EnablePrefilter || program.IsAnchored() {
		return nil
	}
	extractor := literal.New(literal.Config{
		MaxLiterals:   config.MaxLiterals,
		MaxLiteralLen: literal.DefaultConfig().MaxLiteralLen,
		MaxClassSize:  literal.DefaultConfig().MaxClassSize,
	})
	return prefilter.NewBuilder(extractor.ExtractPrefixes(tree.Root)).Build()
}

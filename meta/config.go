// Package meta ties the parser, compiler, prefilter and backtracker into a
// reusable search engine.
//
// An Engine is compiled once and then shared: the program, the prefilter and
// the name table are immutable, and every search borrows its scratch memory
// from a sync.Pool. The root bregex package wraps an Engine with the public
// match, iteration, replacement and split API.
package meta

import (
	"github.com/coregx/bregex/nfa"
	"github.com/coregx/bregex/syntax"
)

// Config controls compilation limits and search behavior.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.Flags = syntax.FoldCase
//	config.EnablePrefilter = false // always run the backtracker from every position
//	engine, err := meta.CompileWithConfig(`hello`, config)
type Config struct {
	// Flags are the syntax flags applied to the whole pattern, as if the
	// pattern started with the equivalent inline flags.
	// Default: none
	Flags syntax.Flags

	// EnablePrefilter enables literal-based prefiltering of start positions.
	// Default: true
	EnablePrefilter bool

	// MaxLiterals limits the number of prefix literals extracted for the
	// prefilter. Larger sets fall back to scanning every position.
	// Default: 64
	MaxLiterals int

	// MaxRecursionDepth limits group nesting in the parser and recursion in
	// the compiler.
	// Default: 250
	MaxRecursionDepth int

	// MaxStates caps the size of the compiled program.
	// Default: 100,000
	MaxStates int

	// MaxVisitedEntries caps the (state, position) table that makes searches
	// of simple programs linear. Zero disables the table.
	// Default: 2,097,152
	MaxVisitedEntries int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnablePrefilter:   true,
		MaxLiterals:       64,
		MaxRecursionDepth: syntax.DefaultMaxDepth,
		MaxStates:         nfa.DefaultCompilerConfig().MaxStates,
		MaxVisitedEntries: nfa.DefaultMaxVisited,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of range.
//
// Valid ranges:
//   - MaxLiterals: 1 to 1,000 (only checked when EnablePrefilter is set)
//   - MaxRecursionDepth: 10 to 1,000
//   - MaxStates: 16 to 10,000,000
//   - MaxVisitedEntries: 0 to 1 << 30
func (c Config) Validate() error {
	if c.EnablePrefilter && (c.MaxLiterals < 1 || c.MaxLiterals > 1_000) {
		return &ConfigError{
			Field:   "MaxLiterals",
			Message: "must be between 1 and 1,000",
		}
	}
	if c.MaxRecursionDepth < 10 || c.MaxRecursionDepth > 1_000 {
		return &ConfigError{
			Field:   "MaxRecursionDepth",
			Message: "must be between 10 and 1,000",
		}
	}
	if c.MaxStates < 16 || c.MaxStates > 10_000_000 {
		return &ConfigError{
			Field:   "MaxStates",
			Message: "must be between 16 and 10,000,000",
		}
	}
	if c.MaxVisitedEntries < 0 || c.MaxVisitedEntries > 1<<30 {
		return &ConfigError{
			Field:   "MaxVisitedEntries",
			Message: "must be between 0 and 1073741824",
		}
	}
	if c.Flags&^syntax.AllFlags != 0 {
		return &ConfigError{
			Field:   "Flags",
			Message: "unknown flag bits set",
		}
	}
	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "bregex: invalid config: " + e.Field + ": " + e.Message
}

// Unwrap lets errors.Is(err, nfa.ErrInvalidConfig) identify configuration errors.
func (e *ConfigError) Unwrap() error {
	return nfa.ErrInvalidConfig
}

// Package nfa compiles parsed patterns into a state graph and runs it with
// a backtracking matcher.
//
// The program keeps the order of choices written in the pattern, so the
// Backtracker reports the leftmost-first match: alternatives are tried left
// to right, greedy loops prefer another iteration and lazy loops prefer to
// stop. Backreferences, lookarounds and atomic groups are supported.
package nfa

import (
	"errors"
	"fmt"
)

// Common NFA errors
var (
	// ErrTooComplex indicates the pattern is too complex to compile
	ErrTooComplex = errors.New("pattern too complex")

	// ErrDuplicateGroupName indicates two groups share a name
	ErrDuplicateGroupName = errors.New("redefinition of group name")

	// ErrInvalidConfig is wrapped by configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
)

// CompileError wraps compilation errors with additional context
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("compiling pattern %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("compiling pattern: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// BuildError represents an error during NFA construction via the Builder API
type BuildError struct {
	Message string
	StateID StateID
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.StateID != InvalidState {
		return fmt.Sprintf("NFA build error at state %d: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("NFA build error: %s", e.Message)
}

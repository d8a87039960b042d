package bregex

import (
	"fmt"

	"github.com/coregx/bregex/meta"
	"github.com/coregx/bregex/nfa"
	"github.com/coregx/bregex/syntax"
)

// PatternSyntaxError reports a malformed pattern with the byte position of
// the offending construct.
type PatternSyntaxError = syntax.Error

// CompileError reports a well-formed pattern that could not be compiled.
type CompileError = nfa.CompileError

// ConfigError reports an invalid Config value.
type ConfigError = meta.ConfigError

// Sentinel errors wrapped by CompileError and ConfigError.
var (
	ErrDuplicateGroupName = nfa.ErrDuplicateGroupName
	ErrTooComplex         = nfa.ErrTooComplex
	ErrInvalidConfig      = nfa.ErrInvalidConfig
)

// GroupIndexError is returned when a group number is outside the pattern's
// groups.
type GroupIndexError struct {
	Requested int
	// Max is the highest valid group number.
	Max int
}

func (e *GroupIndexError) Error() string {
	return fmt.Sprintf("no such group: %d (pattern has groups 0..%d)", e.Requested, e.Max)
}

// GroupNameError is returned when a group name is not defined by the pattern.
type GroupNameError struct {
	Name string
}

func (e *GroupNameError) Error() string {
	return fmt.Sprintf("no such group: %q", e.Name)
}

// TemplateError reports a malformed replacement template.
type TemplateError struct {
	Template string
	// Pos is the byte offset of the offending escape in Template.
	Pos int
	Msg string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("bad replacement template at position %d: %s", e.Pos, e.Msg)
}

package syntax

import "fmt"

// Error codes reported by Parse.
const (
	ErrMissingParen        = "missing ), unterminated subpattern"
	ErrUnbalancedParen     = "unbalanced parenthesis"
	ErrUnterminatedSet     = "unterminated character set"
	ErrBadRange            = "bad character range"
	ErrBadEscape           = "bad escape"
	ErrTrailingBackslash   = "bad escape (end of pattern)"
	ErrNothingToRepeat     = "nothing to repeat"
	ErrMultipleRepeat      = "multiple repeat"
	ErrMinGreaterThanMax   = "min repeat greater than max repeat"
	ErrRepeatTooLarge      = "the repetition number is too large"
	ErrBadGroupName        = "bad character in group name"
	ErrMissingNameEnd      = "missing >, unterminated name"
	ErrMissingGroupName    = "missing group name"
	ErrUnknownGroupName    = "unknown group name"
	ErrInvalidGroupRef     = "invalid group reference"
	ErrOpenGroupRef        = "cannot refer to an open group"
	ErrUnknownExtension    = "unknown extension"
	ErrMissingFlag         = "missing -, : or )"
	ErrUnknownFlag         = "unknown flag"
	ErrUnterminatedComment = "missing ), unterminated comment"
	ErrNestingDepth        = "nesting too deep"
)

// Error describes a pattern that failed to parse.
type Error struct {
	// Code is one of the Err* messages above, possibly with a detail
	// appended (for example "bad escape \q").
	Code string
	// Pos is the byte offset in Pattern where the problem was found.
	Pos     int
	Pattern string
}

func (e *Error) Error() string {
	return fmt.Sprintf("error parsing regexp: %s at position %d", e.Code, e.Pos)
}

// Package bregex provides a backtracking regular expression engine for Go.
//
// bregex implements the Python-style dialect: backreferences, lookahead and
// lookbehind, atomic groups, possessive quantifiers, named groups and inline
// flags. Matches are leftmost-first: alternatives are tried in the order
// they are written and greedy quantifiers prefer the longer iteration.
// All positions are byte offsets into UTF-8 text.
//
// Basic usage:
//
//	// Compile a pattern
//	re, err := bregex.Compile(`(?P<word>\w+)-(\d+)`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Find the first match
//	m := re.Search("Test-123")
//	word, _ := m.GroupByName("word") // "Test"
//
//	// Find every match
//	ids := bregex.MustCompile(`\d+`).FindAll("IDs: 101, 202, 303")
//	// ids == ["101", "202", "303"]
//
// Substitution and splitting:
//
//	re := bregex.MustCompile(`(\w+)@(\w+)`)
//	out, _ := re.Replace("a@b c@d", `\2@\1`) // "b@a d@c"
//	parts := bregex.MustCompile(`(,)`).Split("a,b") // ["a", ",", "b"]
//
// A compiled Regex is immutable. Any number of goroutines may use the same
// Regex at once; each call takes its own scratch space from a pool.
//
// Performance characteristics:
//   - Patterns without backreferences, lookarounds or atomic groups remember
//     failed (state, position) pairs and run in O(states * input)
//   - Other patterns may backtrack exponentially on adversarial input
//   - Literal prefixes are located with memchr, memmem or Aho-Corasick
//     before the backtracker runs
package bregex

import (
	"github.com/coregx/bregex/meta"
	"github.com/coregx/bregex/syntax"
)

// Regex represents a compiled regular expression.
//
// A Regex is safe to use concurrently from multiple goroutines.
//
// Example:
//
//	re := bregex.MustCompile(`hello`)
//	if re.IsMatch("hello world") {
//	    println("matched!")
//	}
type Regex struct {
	engine  *meta.Engine
	pattern string
}

// Pattern is an alias for Regex.
type Pattern = Regex

// Config tunes compilation. See DefaultConfig.
type Config = meta.Config

// Flags are the pattern flags a Config can switch on for the whole pattern.
type Flags = syntax.Flags

// Pattern flags, equivalent to the inline (?imsxa) letters.
const (
	IgnoreCase = syntax.FoldCase
	MultiLine  = syntax.MultiLine
	DotAll     = syntax.DotAll
	Verbose    = syntax.Verbose
	ASCII      = syntax.ASCII
)

// Compile compiles a regular expression pattern.
//
// Returns a *PatternSyntaxError if the pattern is malformed and a
// *CompileError if it cannot be turned into a program (for example when a
// group name is defined twice).
//
// Example:
//
//	re, err := bregex.Compile(`(\w)\1`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile compiles a regular expression pattern and panics if it fails.
//
// This is useful for patterns known to be valid at compile time.
//
// Example:
//
//	var dateRegex = bregex.MustCompile(`(?P<y>\d{4})-(?P<m>\d{2})`)
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("bregex: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with custom configuration.
//
// Example:
//
//	config := bregex.DefaultConfig()
//	config.Flags = bregex.IgnoreCase | bregex.MultiLine
//	re, err := bregex.CompileWithConfig(`^error:`, config)
func CompileWithConfig(pattern string, config Config) (*Regex, error) {
	engine, err := meta.CompileWithConfig(pattern, config)
	if err != nil {
		return nil, err
	}

	return &Regex{
		engine:  engine,
		pattern: pattern,
	}, nil
}

// CompileFlags compiles pattern with the given flags applied to the whole
// pattern.
func CompileFlags(pattern string, flags Flags) (*Regex, error) {
	config := DefaultConfig()
	config.Flags = flags
	return CompileWithConfig(pattern, config)
}

// DefaultConfig returns the default configuration for compilation.
//
// Users can customize this and pass to CompileWithConfig.
func DefaultConfig() Config {
	return meta.DefaultConfig()
}

// IsMatch reports whether the pattern matches anywhere in text.
//
// Example:
//
//	re := bregex.MustCompile(`\d+`)
//	re.IsMatch("abc 42") // true
func (r *Regex) IsMatch(text string) bool {
	return r.engine.IsMatch([]byte(text))
}

// Search returns the leftmost match in text, or nil.
//
// Example:
//
//	m := bregex.MustCompile(`\d+`).Search("IDs: 101")
//	m.String() // "101"
func (r *Regex) Search(text string) *Match {
	return r.SearchAt(text, 0)
}

// SearchAt returns the leftmost match that starts at or after byte offset
// pos, or nil. Lookbehinds and \b still see the text before pos.
func (r *Regex) SearchAt(text string, pos int) *Match {
	if pos < 0 || pos > len(text) {
		return nil
	}
	return r.newMatch(text, r.engine.Search([]byte(text), pos))
}

// Match returns the match that starts at the beginning of text, or nil.
// It does not require the match to extend to the end of text.
func (r *Regex) Match(text string) *Match {
	return r.newMatch(text, r.engine.Match([]byte(text), 0))
}

// FullMatch returns the match that spans the whole of text, or nil.
//
// Example:
//
//	re := bregex.MustCompile(`a|ab`)
//	re.FullMatch("ab") != nil // true: the second alternative is tried
func (r *Regex) FullMatch(text string) *Match {
	return r.newMatch(text, r.engine.FullMatch([]byte(text), 0))
}

// FindAll returns the text of every successive non-overlapping match, in
// order. An empty match is followed by a search one code point later.
//
// Example:
//
//	re := bregex.MustCompile(`(?P<id>\d+)`)
//	re.FindAll("IDs: 101, 202, 303") // ["101", "202", "303"]
func (r *Regex) FindAll(text string) []string {
	return r.FindAllN(text, -1)
}

// FindAllN is like FindAll but returns at most n matches when n >= 0.
func (r *Regex) FindAllN(text string, n int) []string {
	if n == 0 {
		return nil
	}
	var out []string
	r.engine.Each([]byte(text), 0, func(c *meta.Captures) bool {
		out = append(out, text[c.Start(0):c.End(0)])
		return n < 0 || len(out) < n
	})
	return out
}

// FindAllMatches returns every successive non-overlapping match with its
// groups.
func (r *Regex) FindAllMatches(text string) []*Match {
	var out []*Match
	r.engine.Each([]byte(text), 0, func(c *meta.Captures) bool {
		out = append(out, r.newMatch(text, c))
		return true
	})
	return out
}

// Count returns the number of non-overlapping matches in text.
func (r *Regex) Count(text string) int {
	n := 0
	r.engine.Each([]byte(text), 0, func(*meta.Captures) bool {
		n++
		return true
	})
	return n
}

// String returns the source text used to compile the regular expression.
func (r *Regex) String() string {
	return r.pattern
}

// NumGroups returns the number of capture groups, not counting group 0.
func (r *Regex) NumGroups() int {
	return r.engine.NumCaptures() - 1
}

// SubexpNames returns the names of the capture groups. Index 0 is the whole
// match and is always "", as are unnamed groups.
//
// Example:
//
//	re := bregex.MustCompile(`(?P<year>\d+)-(\d+)`)
//	re.SubexpNames() // ["", "year", ""]
func (r *Regex) SubexpNames() []string {
	return r.engine.SubexpNames()
}

// GroupIndex returns a map from group name to group number.
// The map is a copy and may be modified by the caller.
func (r *Regex) GroupIndex() map[string]int {
	return r.engine.GroupNames()
}

// Stats returns a snapshot of the search counters of r.
func (r *Regex) Stats() meta.Stats {
	return r.engine.Stats()
}

func (r *Regex) newMatch(text string, c *meta.Captures) *Match {
	if c == nil {
		return nil
	}
	return &Match{text: text, caps: c, re: r}
}

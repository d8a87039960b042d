package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coregx/bregex"
	"github.com/mattn/go-isatty"
)

func fatal(a *app, err error) {
	fmt.Fprintln(a.stderr, a.err.Sprint(describe(err)))
	os.Exit(2)
}

// describe renders err, pointing at the offending byte for syntax errors.
func describe(err error) string {
	var se *bregex.PatternSyntaxError
	if !errors.As(err, &se) {
		return err.Error()
	}
	return fmt.Sprintf("%s\n  %s\n  %s^", err, se.Pattern, strings.Repeat(" ", se.Pos))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (a *app) jsonOutput() bool {
	return a.v.GetBool("json")
}

func (a *app) printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, string(out))
	return err
}

// group is the JSON form of one capture group. Text is null for a group
// that did not participate.
type group struct {
	Index int     `json:"index"`
	Name  string  `json:"name,omitempty"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	Text  *string `json:"text"`
}

func groups(m *bregex.Match) []group {
	names := m.Regex().SubexpNames()
	whole := m.String()
	texts := append([]*string{&whole}, m.NullableGroups()...)
	out := make([]group, len(texts))
	for i, text := range texts {
		start, end, _ := m.Span(i)
		out[i] = group{Index: i, Name: names[i], Start: start, End: end, Text: text}
	}
	return out
}

// highlight returns line with every span in spans colored.
func (a *app) highlight(line string, spans [][2]int) string {
	var b strings.Builder
	last := 0
	for _, sp := range spans {
		b.WriteString(line[last:sp[0]])
		b.WriteString(a.hl.Sprint(line[sp[0]:sp[1]]))
		last = sp[1]
	}
	b.WriteString(line[last:])
	return b.String()
}

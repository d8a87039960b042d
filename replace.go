package bregex

import (
	"strconv"
	"strings"

	"github.com/coregx/bregex/meta"
)

// template is a parsed replacement string: literal text interleaved with
// group references.
type template struct {
	pieces []templatePiece
}

// templatePiece is literal text when group < 0, otherwise a group reference.
type templatePiece struct {
	text  string
	group int
}

// parseTemplate parses repl against the groups of r.
//
// Supported escapes:
//   - \1 .. \99 and \g<n>: numbered group
//   - \g<name>: named group
//   - \a \b \f \n \r \t \v \\: control characters and backslash
//   - \0, \0o, \0oo and three-digit \ooo: octal character code
//
// Any other escape of an ASCII letter is an error; other escaped characters
// are kept with their backslash.
func (r *Regex) parseTemplate(repl string) (*template, error) {
	t := &template{}
	if !strings.Contains(repl, `\`) {
		t.pieces = append(t.pieces, templatePiece{text: repl, group: -1})
		return t, nil
	}

	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.pieces = append(t.pieces, templatePiece{text: lit.String(), group: -1})
			lit.Reset()
		}
	}
	ref := func(g int) {
		flush()
		t.pieces = append(t.pieces, templatePiece{group: g})
	}
	fail := func(pos int, msg string) error {
		return &TemplateError{Template: repl, Pos: pos, Msg: msg}
	}

	for i := 0; i < len(repl); {
		c := repl[i]
		if c != '\\' {
			lit.WriteByte(c)
			i++
			continue
		}
		start := i
		i++
		if i == len(repl) {
			return nil, fail(start, "bad escape (end of template)")
		}
		c = repl[i]
		switch {
		case c == 'g':
			name, n, err := templateName(repl, i+1)
			if err != nil {
				return nil, fail(start, err.Error())
			}
			g, err := r.templateGroup(name)
			if err != nil {
				return nil, fail(start, err.Error())
			}
			ref(g)
			i += 1 + n
		case c == '0':
			v, n := octalPrefix(repl[i:], 3)
			lit.WriteRune(rune(v))
			i += n
		case isDigit(c):
			if n := octalLen(repl[i:]); n == 3 {
				v, _ := octalPrefix(repl[i:], 3)
				if v > 0o377 {
					return nil, fail(start, `octal escape value \`+repl[i:i+3]+` outside of range 0-0o377`)
				}
				lit.WriteRune(rune(v))
				i += 3
				continue
			}
			j := i + 1
			if j < len(repl) && isDigit(repl[j]) {
				j++
			}
			g, _ := strconv.Atoi(repl[i:j])
			if g > r.NumGroups() {
				return nil, fail(start, "invalid group reference "+repl[i:j])
			}
			ref(g)
			i = j
		default:
			if e, ok := templateEscapes[c]; ok {
				lit.WriteByte(e)
			} else if isASCIILetter(c) {
				return nil, fail(start, `bad escape \`+string(c))
			} else {
				lit.WriteByte('\\')
				lit.WriteByte(c)
			}
			i++
		}
	}
	flush()
	return t, nil
}

var templateEscapes = map[byte]byte{
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
}

// templateName reads the <name> that follows \g and returns the name and
// the number of bytes consumed.
func templateName(repl string, i int) (string, int, error) {
	if i >= len(repl) || repl[i] != '<' {
		return "", 0, errorString("missing <")
	}
	end := strings.IndexByte(repl[i+1:], '>')
	if end < 0 {
		return "", 0, errorString("missing >, unterminated name")
	}
	name := repl[i+1 : i+1+end]
	if name == "" {
		return "", 0, errorString("missing group name")
	}
	return name, end + 2, nil
}

func (r *Regex) templateGroup(name string) (int, error) {
	if isDigit(name[0]) {
		g, err := strconv.Atoi(name)
		if err != nil {
			return 0, errorString("bad character in group name " + strconv.Quote(name))
		}
		if g > r.NumGroups() {
			return 0, errorString("invalid group reference " + name)
		}
		return g, nil
	}
	g, ok := r.engine.GroupIndex(name)
	if !ok {
		return 0, errorString("unknown group name " + strconv.Quote(name))
	}
	return g, nil
}

type errorString string

func (e errorString) Error() string { return string(e) }

// octalPrefix decodes up to limit octal digits at the start of s.
func octalPrefix(s string, limit int) (value, n int) {
	for n < limit && n < len(s) && s[n] >= '0' && s[n] <= '7' {
		value = value*8 + int(s[n]-'0')
		n++
	}
	return value, n
}

func octalLen(s string) int {
	_, n := octalPrefix(s, 3)
	return n
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isASCIILetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// expand appends the instantiated template for match c of text to dst.
func (t *template) expand(dst []byte, text string, c *meta.Captures) []byte {
	for _, p := range t.pieces {
		if p.group < 0 {
			dst = append(dst, p.text...)
			continue
		}
		if c.Matched(p.group) {
			dst = append(dst, text[c.Start(p.group):c.End(p.group)]...)
		}
	}
	return dst
}

// Replace returns text with every match replaced by the expansion of repl.
// Groups that did not participate expand to "".
//
// Example:
//
//	re := bregex.MustCompile(`(?P<first>\w+) (?P<last>\w+)`)
//	re.Replace("Ada Lovelace", `\g<last>, \1`) // "Lovelace, Ada", nil
func (r *Regex) Replace(text, repl string) (string, error) {
	out, _, err := r.ReplaceN(text, repl, 0)
	return out, err
}

// ReplaceN replaces at most count matches (all of them when count <= 0) and
// also returns the number of replacements made.
func (r *Regex) ReplaceN(text, repl string, count int) (string, int, error) {
	t, err := r.parseTemplate(repl)
	if err != nil {
		return "", 0, err
	}
	out, n := r.replace(text, count, func(dst []byte, c *meta.Captures) []byte {
		return t.expand(dst, text, c)
	})
	return out, n, nil
}

// ReplaceFunc returns text with every match replaced by the return value of
// fn. The replacement is used as is; no template expansion takes place.
//
// Example:
//
//	re := bregex.MustCompile(`\d+`)
//	re.ReplaceFunc("a1b22", func(m *bregex.Match) string {
//	    return "<" + m.String() + ">"
//	}) // "a<1>b<22>"
func (r *Regex) ReplaceFunc(text string, fn func(*Match) string) string {
	out, _ := r.replace(text, 0, func(dst []byte, c *meta.Captures) []byte {
		return append(dst, fn(r.newMatch(text, c))...)
	})
	return out
}

// ReplaceLiteral replaces every match with repl, without expanding escapes.
func (r *Regex) ReplaceLiteral(text, repl string) string {
	out, _ := r.replace(text, 0, func(dst []byte, _ *meta.Captures) []byte {
		return append(dst, repl...)
	})
	return out
}

func (r *Regex) replace(text string, count int, emit func([]byte, *meta.Captures) []byte) (string, int) {
	var dst []byte
	last, n := 0, 0
	r.engine.Each([]byte(text), 0, func(c *meta.Captures) bool {
		if dst == nil {
			dst = make([]byte, 0, len(text))
		}
		dst = append(dst, text[last:c.Start(0)]...)
		dst = emit(dst, c)
		last = c.End(0)
		n++
		return count <= 0 || n < count
	})
	if n == 0 {
		return text, 0
	}
	dst = append(dst, text[last:]...)
	return string(dst), n
}

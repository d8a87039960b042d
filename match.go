package bregex

import "github.com/coregx/bregex/meta"

// Match is the result of a successful search.
//
// Group 0 is the whole match. Groups that did not take part in the match
// have start and end -1 and read as "". A Match never changes after it is
// returned and may be shared between goroutines.
//
// Example:
//
//	m := bregex.MustCompile(`(?P<word>\w+)-(\d+)`).Search("Test-123")
//	m.Group(1)            // "Test", nil
//	m.GroupByName("word") // "Test", nil
//	m.Span(0)             // 0, 8, nil
type Match struct {
	text string
	caps *meta.Captures
	re   *Regex
}

// Regex returns the pattern that produced the match.
func (m *Match) Regex() *Regex {
	return m.re
}

// Text returns the searched text.
func (m *Match) Text() string {
	return m.text
}

// String returns the text of the whole match.
func (m *Match) String() string {
	return m.text[m.caps.Start(0):m.caps.End(0)]
}

// NumGroups returns the number of explicit groups, not counting group 0.
func (m *Match) NumGroups() int {
	return m.caps.NumGroups() - 1
}

func (m *Match) checkIndex(i int) error {
	if i < 0 || i >= m.caps.NumGroups() {
		return &GroupIndexError{Requested: i, Max: m.caps.NumGroups() - 1}
	}
	return nil
}

func (m *Match) lookup(name string) (int, error) {
	i, ok := m.re.engine.GroupIndex(name)
	if !ok {
		return 0, &GroupNameError{Name: name}
	}
	return i, nil
}

// Group returns the text captured by group i. It returns "" for a group
// that did not participate; use Matched to tell that apart from an empty
// capture.
func (m *Match) Group(i int) (string, error) {
	if err := m.checkIndex(i); err != nil {
		return "", err
	}
	return m.group(i, ""), nil
}

func (m *Match) group(i int, def string) string {
	if !m.caps.Matched(i) {
		return def
	}
	return m.text[m.caps.Start(i):m.caps.End(i)]
}

// GroupByName returns the text captured by the named group.
func (m *Match) GroupByName(name string) (string, error) {
	i, err := m.lookup(name)
	if err != nil {
		return "", err
	}
	return m.group(i, ""), nil
}

// Groups returns the text of groups 1..n in order. Groups that did not
// participate read as def; use NullableGroups or Matched to tell them
// apart from groups that matched "".
func (m *Match) Groups(def string) []string {
	out := make([]string, m.NumGroups())
	for i := range out {
		out[i] = m.group(i+1, def)
	}
	return out
}

// GroupDict maps every named group to its text, or to def when the group
// did not participate.
func (m *Match) GroupDict(def string) map[string]string {
	names := m.re.engine.GroupNames()
	out := make(map[string]string, len(names))
	for name, i := range names {
		out[name] = m.group(i, def)
	}
	return out
}

// NullableGroups is Groups with nil for the groups that did not
// participate, so they stay distinct from groups that matched "".
//
// Example:
//
//	m := bregex.MustCompile(`(a)(b?)(c)?`).Search("a")
//	m.NullableGroups() // ["a", "", nil]
func (m *Match) NullableGroups() []*string {
	out := make([]*string, m.NumGroups())
	for i := range out {
		out[i] = m.nullable(i + 1)
	}
	return out
}

// NullableGroupDict is GroupDict with nil for the named groups that did not
// participate.
func (m *Match) NullableGroupDict() map[string]*string {
	names := m.re.engine.GroupNames()
	out := make(map[string]*string, len(names))
	for name, i := range names {
		out[name] = m.nullable(i)
	}
	return out
}

func (m *Match) nullable(i int) *string {
	if !m.caps.Matched(i) {
		return nil
	}
	s := m.text[m.caps.Start(i):m.caps.End(i)]
	return &s
}

// Start returns the byte offset where group i begins, or -1 if it did not
// participate.
func (m *Match) Start(i int) (int, error) {
	if err := m.checkIndex(i); err != nil {
		return 0, err
	}
	return m.caps.Start(i), nil
}

// End returns the byte offset just past group i, or -1 if it did not
// participate.
func (m *Match) End(i int) (int, error) {
	if err := m.checkIndex(i); err != nil {
		return 0, err
	}
	return m.caps.End(i), nil
}

// Span returns Start and End of group i together.
func (m *Match) Span(i int) (start, end int, err error) {
	if err := m.checkIndex(i); err != nil {
		return 0, 0, err
	}
	start, end = m.caps.Span(i)
	return start, end, nil
}

// StartByName returns the start offset of the named group.
func (m *Match) StartByName(name string) (int, error) {
	i, err := m.lookup(name)
	if err != nil {
		return 0, err
	}
	return m.caps.Start(i), nil
}

// EndByName returns the end offset of the named group.
func (m *Match) EndByName(name string) (int, error) {
	i, err := m.lookup(name)
	if err != nil {
		return 0, err
	}
	return m.caps.End(i), nil
}

// Matched reports whether group i participated in the match. Out-of-range
// groups report false.
func (m *Match) Matched(i int) bool {
	return m.checkIndex(i) == nil && m.caps.Matched(i)
}

// LastIndex returns the number of the participating group that closed last,
// or -1 when no explicit group participated.
//
// Example:
//
//	m := bregex.MustCompile(`(a)(b)?`).Search("a")
//	m.LastIndex() // 1
func (m *Match) LastIndex() int {
	last, lastEnd := -1, -1
	for i := 1; i < m.caps.NumGroups(); i++ {
		if !m.caps.Matched(i) {
			continue
		}
		// on a tie the group that closed later wins: an enclosing group
		// closes after its children, a later sibling after an earlier one
		end := m.caps.End(i)
		if end > lastEnd || (end == lastEnd && !m.re.engine.Encloses(last, i)) {
			last, lastEnd = i, end
		}
	}
	return last
}

// LastGroup returns the name of the group LastIndex reports, or "" when
// that group is unnamed or there is none.
func (m *Match) LastGroup() string {
	i := m.LastIndex()
	if i < 0 {
		return ""
	}
	return m.re.engine.SubexpNames()[i]
}

// Expand substitutes the groups of m into template using the same syntax as
// Regex.Replace.
//
// Example:
//
//	m := bregex.MustCompile(`(?P<k>\w+)=(\w+)`).Search("a=1")
//	m.Expand(`\2:\g<k>`) // "1:a", nil
func (m *Match) Expand(template string) (string, error) {
	t, err := m.re.parseTemplate(template)
	if err != nil {
		return "", err
	}
	return string(t.expand(nil, m.text, m.caps)), nil
}

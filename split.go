package bregex

import "github.com/coregx/bregex/meta"

// Split slices text around every match of the pattern and returns the
// pieces. When the pattern has groups, the text of every group is inserted
// between the pieces it separates ("" for a group that did not
// participate). Empty matches split too, so a pattern that matches the empty
// string splits between code points.
//
// Example:
//
//	bregex.MustCompile(`,`).Split("a,b,c") // ["a", "b", "c"]
//	bregex.MustCompile(`(,)`).Split("a,b") // ["a", ",", "b"]
//	bregex.MustCompile(`x*`).Split("axb")  // ["", "a", "", "b", ""]
//
// Joining the result of a group-free pattern with the matched separators
// restores text.
func (r *Regex) Split(text string) []string {
	return r.SplitN(text, 0)
}

// SplitN is like Split but performs at most maxsplit splits when maxsplit
// is positive; the remainder of text becomes the final piece.
func (r *Regex) SplitN(text string, maxsplit int) []string {
	groups := r.NumGroups()
	out := make([]string, 0, 4)
	last, n := 0, 0
	r.engine.Each([]byte(text), 0, func(c *meta.Captures) bool {
		out = append(out, text[last:c.Start(0)])
		for g := 1; g <= groups; g++ {
			if c.Matched(g) {
				out = append(out, text[c.Start(g):c.End(g)])
			} else {
				out = append(out, "")
			}
		}
		last = c.End(0)
		n++
		return maxsplit <= 0 || n < maxsplit
	})
	return append(out, text[last:])
}

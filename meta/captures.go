package meta

// Captures holds the capture positions of one match.
//
// Group 0 is the whole match and is always set. Other groups are (-1, -1)
// when they did not take part in the match. Positions are byte offsets into
// the searched haystack.
type Captures struct {
	slots []int
}

// NewCaptures creates Captures from a slot vector laid out as
// [start0, end0, start1, end1, ...]. The slice is retained.
func NewCaptures(slots []int) *Captures {
	return &Captures{slots: slots}
}

// NumGroups returns the number of groups, including group 0.
func (c *Captures) NumGroups() int {
	return len(c.slots) / 2
}

// Start returns the start of group i, or -1 if it did not participate.
func (c *Captures) Start(i int) int {
	return c.slots[2*i]
}

// End returns the end of group i, or -1 if it did not participate.
func (c *Captures) End(i int) int {
	return c.slots[2*i+1]
}

// Span returns both ends of group i.
func (c *Captures) Span(i int) (int, int) {
	return c.slots[2*i], c.slots[2*i+1]
}

// Matched reports whether group i participated in the match.
func (c *Captures) Matched(i int) bool {
	return c.slots[2*i] >= 0 && c.slots[2*i+1] >= 0
}

// IsEmpty reports whether the whole match is zero-length.
func (c *Captures) IsEmpty() bool {
	return c.slots[0] == c.slots[1]
}

// Slots returns a copy of the slot vector.
func (c *Captures) Slots() []int {
	out := make([]int, len(c.slots))
	copy(out, c.slots)
	return out
}

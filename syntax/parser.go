package syntax

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultMaxDepth bounds group nesting in Parse.
	DefaultMaxDepth = 250

	// MaxRepeat is the largest count accepted in {m,n}.
	MaxRepeat = 100_000
)

// Parse parses pattern with the given initial flags.
func Parse(pattern string, flags Flags) (*Tree, error) {
	return ParseWithDepth(pattern, flags, DefaultMaxDepth)
}

// ParseWithDepth is like Parse but allows at most maxDepth nested groups.
func ParseWithDepth(pattern string, flags Flags, maxDepth int) (*Tree, error) {
	p := &parser{
		src:      pattern,
		flags:    flags,
		maxDepth: maxDepth,
		names:    []string{""},
		open:     map[int]bool{},
	}
	root, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		// parseAlternation only stops early on ')'.
		return nil, p.errorf(ErrUnbalancedParen, p.pos)
	}
	return &Tree{
		Pattern: pattern,
		Root:    root,
		NumCaps: p.numCaps,
		Names:   p.names,
		Flags:   p.flags,
	}, nil
}

type parser struct {
	src      string
	pos      int
	flags    Flags
	depth    int
	maxDepth int
	numCaps  int
	names    []string
	open     map[int]bool
}

func (p *parser) errorf(code string, pos int) *Error {
	return &Error{Code: code, Pos: pos, Pattern: p.src}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	return p.src[p.pos]
}

func (p *parser) lookingAt(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *parser) nextRune() rune {
	r, w := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += w
	return r
}

// skipVerbose skips whitespace and comments when the x flag is set.
func (p *parser) skipVerbose() {
	if p.flags&Verbose == 0 {
		return
	}
	for !p.eof() {
		c := p.peek()
		switch {
		case c == '#':
			for !p.eof() && p.peek() != '\n' {
				p.pos++
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) node(op Op, pos int) *Node {
	return &Node{Op: op, Flags: p.flags, Pos: pos}
}

func (p *parser) parseAlternation() (*Node, error) {
	start := p.pos
	var branches []*Node
	for {
		branch, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
		if p.eof() || p.peek() != '|' {
			break
		}
		p.pos++
	}
	if len(branches) == 1 {
		return branches[0], nil
	}
	alt := p.node(OpAlternate, start)
	alt.Subs = branches
	return alt, nil
}

func (p *parser) parseConcat() (*Node, error) {
	start := p.pos
	var items []*Node
	for {
		p.skipVerbose()
		if p.eof() || p.peek() == '|' || p.peek() == ')' {
			break
		}
		atom, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		if atom == nil {
			continue
		}
		atom, err = p.parseQuantifiers(atom)
		if err != nil {
			return nil, err
		}
		items = appendLiteral(items, atom)
	}
	switch len(items) {
	case 0:
		return p.node(OpEmpty, start), nil
	case 1:
		return items[0], nil
	}
	cat := p.node(OpConcat, start)
	cat.Subs = items
	return cat, nil
}

// appendLiteral appends n to items, merging adjacent literals that share
// case sensitivity.
func appendLiteral(items []*Node, n *Node) []*Node {
	if n.Op == OpLiteral && len(items) > 0 {
		last := items[len(items)-1]
		if last.Op == OpLiteral && last.Flags&FoldCase == n.Flags&FoldCase {
			last.Runes = append(last.Runes, n.Runes...)
			return items
		}
	}
	return append(items, n)
}

func (p *parser) literal(r rune, pos int) *Node {
	n := p.node(OpLiteral, pos)
	n.Runes = []rune{r}
	return n
}

func (p *parser) parseAtom() (*Node, error) {
	start := p.pos
	switch c := p.peek(); c {
	case '(':
		return p.parseGroup()
	case '[':
		return p.parseClass()
	case '.':
		p.pos++
		if p.flags&DotAll != 0 {
			return p.node(OpAnyChar, start), nil
		}
		return p.node(OpAnyCharNotNL, start), nil
	case '^':
		p.pos++
		n := p.node(OpAssert, start)
		n.Assert = AssertBeginText
		if p.flags&MultiLine != 0 {
			n.Assert = AssertBeginLine
		}
		return n, nil
	case '$':
		p.pos++
		n := p.node(OpAssert, start)
		n.Assert = AssertEnd
		if p.flags&MultiLine != 0 {
			n.Assert = AssertEndLine
		}
		return n, nil
	case '\\':
		return p.parseEscape()
	case '*', '+', '?':
		return nil, p.errorf(ErrNothingToRepeat, start)
	case '{':
		if _, _, ok := p.scanBrace(); ok {
			return nil, p.errorf(ErrNothingToRepeat, start)
		}
		p.pos++
		return p.literal('{', start), nil
	}
	return p.literal(p.nextRune(), start), nil
}

// scanBrace parses a {m}, {m,}, {,n} or {m,n} quantifier at the current
// position without consuming it. ok is false when the text is not a
// quantifier, in which case '{' is an ordinary character.
func (p *parser) scanBrace() (minRep, maxRep int, ok bool) {
	s := p.src[p.pos:]
	end := strings.IndexByte(s, '}')
	if end < 0 {
		return 0, 0, false
	}
	body := s[1:end]
	lo, hi, comma := strings.Cut(body, ",")
	if !isDigits(lo) || !isDigits(hi) || (lo == "" && !comma) {
		return 0, 0, false
	}
	minRep, maxRep = 0, -1
	if lo != "" {
		minRep = atoiSat(lo)
	}
	if !comma {
		maxRep = minRep
	} else if hi != "" {
		maxRep = atoiSat(hi)
	}
	return minRep, maxRep, true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// atoiSat converts a string of digits, saturating above MaxRepeat.
func atoiSat(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n > MaxRepeat {
		return MaxRepeat + 1
	}
	return n
}

func (p *parser) isQuantifierStart() bool {
	if p.eof() {
		return false
	}
	switch p.peek() {
	case '*', '+', '?':
		return true
	case '{':
		_, _, ok := p.scanBrace()
		return ok
	}
	return false
}

func (p *parser) parseQuantifiers(atom *Node) (*Node, error) {
	p.skipVerbose()
	if !p.isQuantifierStart() {
		return atom, nil
	}
	start := p.pos
	if atom.Op == OpAssert {
		return nil, p.errorf(ErrNothingToRepeat, start)
	}
	minRep, maxRep := 0, -1
	switch p.peek() {
	case '*':
		p.pos++
	case '+':
		minRep = 1
		p.pos++
	case '?':
		maxRep = 1
		p.pos++
	case '{':
		minRep, maxRep, _ = p.scanBrace()
		if minRep > MaxRepeat || maxRep > MaxRepeat {
			return nil, p.errorf(ErrRepeatTooLarge, start)
		}
		if maxRep >= 0 && minRep > maxRep {
			return nil, p.errorf(ErrMinGreaterThanMax, start)
		}
		p.pos += strings.IndexByte(p.src[p.pos:], '}') + 1
	}
	rep := p.node(OpRepeat, start)
	rep.Min, rep.Max, rep.Greedy = minRep, maxRep, true
	rep.Subs = []*Node{atom}
	result := rep
	if !p.eof() {
		switch p.peek() {
		case '?':
			p.pos++
			rep.Greedy = false
		case '+':
			p.pos++
			result = p.node(OpAtomic, start)
			result.Subs = []*Node{rep}
		}
	}
	p.skipVerbose()
	if p.isQuantifierStart() {
		return nil, p.errorf(ErrMultipleRepeat, p.pos)
	}
	return result, nil
}

func (p *parser) enter(pos int) error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.errorf(ErrNestingDepth, pos)
	}
	return nil
}

// parseGroup parses everything that starts with '('. It returns a nil node
// for constructs that match nothing: comments and bare flag settings.
func (p *parser) parseGroup() (*Node, error) {
	start := p.pos
	p.pos++
	if err := p.enter(start); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	if !p.lookingAt("?") {
		return p.parseCapture(start, "")
	}
	p.pos++
	if p.eof() {
		return nil, p.errorf(ErrUnknownExtension, start)
	}
	switch c := p.peek(); {
	case c == ':':
		p.pos++
		return p.parseGroupBody(start, OpGroup)
	case c == '>':
		p.pos++
		return p.parseGroupBody(start, OpAtomic)
	case c == '=' || c == '!':
		p.pos++
		n, err := p.parseGroupBody(start, OpLookaround)
		if err != nil {
			return nil, err
		}
		n.Negate = c == '!'
		return n, nil
	case c == '#':
		end := strings.IndexByte(p.src[p.pos:], ')')
		if end < 0 {
			return nil, p.errorf(ErrUnterminatedComment, start)
		}
		p.pos += end + 1
		return nil, nil
	case c == 'P':
		p.pos++
		switch {
		case p.lookingAt("<"):
			p.pos++
			return p.parseNamedCapture(start)
		case p.lookingAt("="):
			p.pos++
			namePos := p.pos
			name, err := p.parseGroupName(')')
			if err != nil {
				return nil, err
			}
			return p.namedBackref(name, start, namePos)
		}
		return nil, p.errorf(ErrUnknownExtension, start)
	case c == '<':
		p.pos++
		if p.lookingAt("=") || p.lookingAt("!") {
			negate := p.peek() == '!'
			p.pos++
			n, err := p.parseGroupBody(start, OpLookaround)
			if err != nil {
				return nil, err
			}
			n.Behind, n.Negate = true, negate
			return n, nil
		}
		return p.parseNamedCapture(start)
	case c == '-' || isFlagLetter(c):
		return p.parseFlags(start)
	}
	return nil, p.errorf(ErrUnknownExtension, start)
}

func isFlagLetter(c byte) bool {
	_, ok := flagForLetter(c)
	return ok
}

// parseFlags handles (?flags), (?flags-flags) and (?flags-flags:...).
// A bare (?flags) changes the flags from that point to the end of the
// enclosing group, or of the pattern at top level; it does not reach back.
func (p *parser) parseFlags(start int) (*Node, error) {
	on, off := Flags(0), Flags(0)
	negated := false
	for {
		if p.eof() {
			return nil, p.errorf(ErrMissingFlag, p.pos)
		}
		c := p.peek()
		switch {
		case c == '-':
			if negated {
				return nil, p.errorf(ErrUnknownFlag, p.pos)
			}
			negated = true
			p.pos++
			continue
		case c == ':' || c == ')':
			if negated && off == 0 {
				return nil, p.errorf(ErrMissingFlag, p.pos)
			}
			p.pos++
			flags := (p.flags | on) &^ off
			if c == ')' {
				p.flags = flags
				return nil, nil
			}
			saved := p.flags
			p.flags = flags
			n, err := p.parseGroupBody(start, OpGroup)
			p.flags = saved
			return n, err
		}
		fl, ok := flagForLetter(c)
		if !ok {
			if unicode.IsLetter(rune(c)) {
				return nil, p.errorf(ErrUnknownFlag, p.pos)
			}
			return nil, p.errorf(ErrMissingFlag, p.pos)
		}
		if negated {
			off |= fl
		} else {
			on |= fl
		}
		p.pos++
	}
}

func (p *parser) parseNamedCapture(start int) (*Node, error) {
	namePos := p.pos
	name, err := p.parseGroupName('>')
	if err != nil {
		return nil, err
	}
	if err := p.checkName(name, namePos); err != nil {
		return nil, err
	}
	return p.parseCapture(start, name)
}

func (p *parser) parseCapture(start int, name string) (*Node, error) {
	p.numCaps++
	idx := p.numCaps
	p.names = append(p.names, name)
	p.open[idx] = true
	n, err := p.parseGroupBody(start, OpCapture)
	if err != nil {
		return nil, err
	}
	delete(p.open, idx)
	n.Cap, n.Name = idx, name
	return n, nil
}

// parseGroupBody parses the alternation up to the closing ')'. Flags set
// inside the group do not leak out of it.
func (p *parser) parseGroupBody(start int, op Op) (*Node, error) {
	saved := p.flags
	sub, err := p.parseAlternation()
	p.flags = saved
	if err != nil {
		return nil, err
	}
	if p.eof() {
		return nil, p.errorf(ErrMissingParen, start)
	}
	p.pos++
	n := p.node(op, start)
	n.Subs = []*Node{sub}
	return n, nil
}

// parseGroupName reads a group name or number terminated by term.
func (p *parser) parseGroupName(term byte) (string, error) {
	start := p.pos
	end := strings.IndexByte(p.src[p.pos:], term)
	if end < 0 {
		return "", p.errorf(ErrMissingNameEnd, start)
	}
	name := p.src[start : start+end]
	if name == "" {
		return "", p.errorf(ErrMissingGroupName, start)
	}
	p.pos = start + end + 1
	return name, nil
}

func isIdentifier(name string) bool {
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && (unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)) {
			continue
		}
		return false
	}
	return name != ""
}

func (p *parser) checkName(name string, pos int) error {
	if !isIdentifier(name) {
		return p.errorf(ErrBadGroupName+" "+strconv.Quote(name), pos)
	}
	return nil
}

func (p *parser) namedBackref(name string, start, namePos int) (*Node, error) {
	if err := p.checkName(name, namePos); err != nil {
		return nil, err
	}
	for i, n := range p.names {
		if n == name {
			return p.backref(i, start)
		}
	}
	return nil, p.errorf(ErrUnknownGroupName+" "+strconv.Quote(name), namePos)
}

func (p *parser) backref(idx, pos int) (*Node, error) {
	if idx < 1 || idx > p.numCaps {
		return nil, p.errorf(ErrInvalidGroupRef+" "+strconv.Itoa(idx), pos)
	}
	if p.open[idx] {
		return nil, p.errorf(ErrOpenGroupRef, pos)
	}
	n := p.node(OpBackref, pos)
	n.Cap = idx
	return n, nil
}

func isOctal(c byte) bool {
	return c >= '0' && c <= '7'
}

func isASCIILetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// parseEscape parses an escape outside a character class.
func (p *parser) parseEscape() (*Node, error) {
	start := p.pos
	p.pos++
	if p.eof() {
		return nil, p.errorf(ErrTrailingBackslash, start)
	}
	c := p.peek()
	assert := func(a Assertion) (*Node, error) {
		p.pos++
		n := p.node(OpAssert, start)
		n.Assert = a
		return n, nil
	}
	switch c {
	case 'A':
		return assert(AssertBeginText)
	case 'Z':
		return assert(AssertEndText)
	case 'b':
		return assert(AssertWordBoundary)
	case 'B':
		return assert(AssertNotWordBoundary)
	case 'g':
		p.pos++
		if !p.lookingAt("<") {
			return nil, p.errorf(ErrBadEscape+` \g`, start)
		}
		p.pos++
		namePos := p.pos
		name, err := p.parseGroupName('>')
		if err != nil {
			return nil, err
		}
		if isDigits(name) {
			idx, err := strconv.Atoi(name)
			if err != nil {
				return nil, p.errorf(ErrInvalidGroupRef+" "+name, namePos)
			}
			return p.backref(idx, start)
		}
		return p.namedBackref(name, start, namePos)
	}
	if c >= '1' && c <= '9' {
		s := p.src[p.pos:]
		if len(s) >= 3 && isOctal(s[0]) && isOctal(s[1]) && isOctal(s[2]) {
			return p.octal(start)
		}
		n := 1
		if len(s) >= 2 && s[1] >= '0' && s[1] <= '9' {
			n = 2
		}
		idx, _ := strconv.Atoi(s[:n])
		p.pos += n
		return p.backref(idx, start)
	}
	if cls, ok, err := p.classEscape(); err != nil || ok {
		if err != nil {
			return nil, err
		}
		n := p.node(OpClass, start)
		n.Class = cls
		return n, nil
	}
	r, err := p.runeEscape(start, false)
	if err != nil {
		return nil, err
	}
	return p.literal(r, start), nil
}

func (p *parser) octal(start int) (*Node, error) {
	r, err := p.octalRune(start)
	if err != nil {
		return nil, err
	}
	return p.literal(r, start), nil
}

// octalRune reads up to three octal digits.
func (p *parser) octalRune(start int) (rune, error) {
	v := 0
	for i := 0; i < 3 && !p.eof() && isOctal(p.peek()); i++ {
		v = v*8 + int(p.peek()-'0')
		p.pos++
	}
	if v > 0o377 {
		return 0, p.errorf(ErrBadEscape+" "+p.src[start:p.pos], start)
	}
	return rune(v), nil
}

// classEscape recognises \d \D \w \W \s \S at p.pos (just after the
// backslash).
func (p *parser) classEscape() (*CharClass, bool, error) {
	ascii := p.flags&ASCII != 0
	var cls *CharClass
	switch p.peek() {
	case 'd', 'D':
		cls = DigitClass(ascii)
	case 'w', 'W':
		cls = WordClass(ascii)
	case 's', 'S':
		cls = SpaceClass(ascii)
	default:
		return nil, false, nil
	}
	negate := p.peek() >= 'A' && p.peek() <= 'Z'
	p.pos++
	if negate {
		return newCharClass(negateRanges(cls.Ranges)), true, nil
	}
	return cls, true, nil
}

// runeEscape parses an escape that denotes a single rune. p.pos is just
// after the backslash.
func (p *parser) runeEscape(start int, inClass bool) (rune, error) {
	c := p.peek()
	switch c {
	case 'a':
		p.pos++
		return '\a', nil
	case 'f':
		p.pos++
		return '\f', nil
	case 'n':
		p.pos++
		return '\n', nil
	case 'r':
		p.pos++
		return '\r', nil
	case 't':
		p.pos++
		return '\t', nil
	case 'v':
		p.pos++
		return '\v', nil
	case 'b':
		if inClass {
			p.pos++
			return '\b', nil
		}
	case 'x':
		return p.hexEscape(start, 2)
	case 'u':
		return p.hexEscape(start, 4)
	case 'U':
		return p.hexEscape(start, 8)
	case '0':
		return p.octalRune(start)
	}
	if inClass && isOctal(c) {
		return p.octalRune(start)
	}
	if c < utf8.RuneSelf && (isASCIILetter(c) || c >= '0' && c <= '9') {
		return 0, p.errorf(ErrBadEscape+` \`+string(c), start)
	}
	return p.nextRune(), nil
}

func (p *parser) hexEscape(start, digits int) (rune, error) {
	p.pos++
	s := p.src[p.pos:]
	if len(s) < digits {
		return 0, p.errorf(ErrBadEscape+" "+p.src[start:], start)
	}
	v, err := strconv.ParseUint(s[:digits], 16, 32)
	if err != nil || v > unicode.MaxRune {
		return 0, p.errorf(ErrBadEscape+" "+p.src[start:p.pos+digits], start)
	}
	p.pos += digits
	return rune(v), nil
}

// parseClass parses a bracketed character class.
func (p *parser) parseClass() (*Node, error) {
	start := p.pos
	p.pos++
	var b classBuilder
	negate := false
	if p.lookingAt("^") {
		negate = true
		p.pos++
	}
	first := true
	for {
		if p.eof() {
			return nil, p.errorf(ErrUnterminatedSet, start)
		}
		if p.peek() == ']' && !first {
			p.pos++
			break
		}
		first = false
		itemPos := p.pos
		lo, set, err := p.classItem()
		if err != nil {
			return nil, err
		}
		if set != nil {
			if p.lookingAt("-") && !p.lookingAt("-]") && p.pos+1 < len(p.src) {
				return nil, p.errorf(ErrBadRange+" "+p.src[itemPos:p.pos+2], itemPos)
			}
			b.addClass(set)
			continue
		}
		if !p.lookingAt("-") || p.lookingAt("-]") || p.pos+1 >= len(p.src) {
			b.addRune(lo)
			continue
		}
		p.pos++
		hi, set, err := p.classItem()
		if err != nil {
			return nil, err
		}
		if set != nil || hi < lo {
			return nil, p.errorf(ErrBadRange+" "+p.src[itemPos:p.pos], itemPos)
		}
		b.addRange(lo, hi)
	}
	if p.flags&FoldCase != 0 {
		b.foldCase()
	}
	if negate {
		b.negate()
	}
	n := p.node(OpClass, start)
	n.Class = b.build()
	return n, nil
}

// classItem reads one class member: a rune, or a predefined set.
func (p *parser) classItem() (rune, *CharClass, error) {
	if p.peek() != '\\' {
		return p.nextRune(), nil, nil
	}
	start := p.pos
	p.pos++
	if p.eof() {
		return 0, nil, p.errorf(ErrUnterminatedSet, start)
	}
	cls, ok, err := p.classEscape()
	if err != nil {
		return 0, nil, err
	}
	if ok {
		return 0, cls, nil
	}
	r, err := p.runeEscape(start, true)
	return r, nil, err
}

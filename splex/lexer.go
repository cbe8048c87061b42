package splex

import (
	"strconv"

	"github.com/moonlime-gen/moonlime/bset"
	"github.com/moonlime-gen/moonlime/rx"
)

// state tags one of the spec parser's eight start states (spec.md §4.C).
type state uint8

const (
	stMain state = iota
	stNonWhspIsError
	stPreCToken
	stPreCCode
	stCCode
	stCharClass
	stRegex
	stSelector
)

// directive tags which construct a pending code block (stCCode, entered
// via stPreCCode) or a pending identifier (stPreCToken) belongs to. dirNone
// is reserved for a rule's action code, which never goes through stPreCCode.
type directive uint8

const (
	dirNone directive = iota
	dirTop
	dirHeader
	dirUstate
	dirState
	dirInitstate
	dirPrefix
)

// parser is the scanner's mutable state: input, cursor, current start
// state, and the in-progress pieces of whichever construct is open.
type parser struct {
	input []byte
	pos   int
	state state
	dir   directive

	spec *Spec
	rx   *rx.Builder

	codeBuf    []byte
	braceDepth int

	classSet    bset.Set
	classInvert bool

	selectors []string

	pendingRegex *rx.Node
}

// Parse scans input and returns the Spec it describes, or the first
// syntax error encountered (spec.md §7: each error is reported once, no
// recovery).
func Parse(input []byte) (*Spec, error) {
	p := &parser{
		input: input,
		spec:  &Spec{},
		rx:    rx.NewBuilder(),
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	p.spec.finalize()
	return p.spec, nil
}

func (p *parser) run() error {
	for p.pos < len(p.input) {
		var err error
		switch p.state {
		case stMain:
			err = p.stepMain()
		case stNonWhspIsError:
			err = p.stepNonWhsp()
		case stPreCToken:
			err = p.stepPreCToken()
		case stPreCCode:
			err = p.stepPreCCode()
		case stCCode:
			err = p.stepCCode()
		case stCharClass:
			err = p.stepCharClass()
		case stRegex:
			err = p.stepRegex()
		case stSelector:
			err = p.stepSelector()
		}
		if err != nil {
			return err
		}
	}
	return p.atEOF()
}

// atEOF reports whether reaching end-of-input was legal in the current
// start state. Only stMain and stNonWhspIsError may end a file cleanly;
// every other state means some construct was left open (an unclosed '['
// is reported as ErrUnmatchedBracket, the rest as ErrUnterminated).
func (p *parser) atEOF() error {
	switch p.state {
	case stMain, stNonWhspIsError:
		return nil
	case stCharClass:
		return p.errorf(ErrUnmatchedBracket)
	default:
		return p.errorf(ErrUnterminated)
	}
}

func (p *parser) peek() byte { return p.input[p.pos] }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isHorizWhitespace(c byte) bool { return c == ' ' || c == '\t' }

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// readIdent consumes an identifier starting at p.pos and returns it, or
// ("", false) if p.pos is not the start of one.
func (p *parser) readIdent() (string, bool) {
	if p.pos >= len(p.input) || !isIdentStart(p.peek()) {
		return "", false
	}
	start := p.pos
	p.pos++
	for p.pos < len(p.input) && isIdentCont(p.peek()) {
		p.pos++
	}
	return string(p.input[start:p.pos]), true
}

// --- MAIN ---

func (p *parser) stepMain() error {
	for p.pos < len(p.input) && isWhitespace(p.peek()) {
		p.pos++
	}
	if p.pos >= len(p.input) {
		return nil
	}
	switch c := p.peek(); {
	case c == '%':
		return p.stepDirectiveKeyword()
	case c == '<':
		p.pos++
		p.rx.Reset()
		p.selectors = nil
		p.state = stSelector
		return nil
	default:
		p.rx.Reset()
		p.selectors = nil
		p.state = stRegex
		return nil
	}
}

func (p *parser) stepDirectiveKeyword() error {
	p.pos++ // consume '%'
	name, ok := p.readIdent()
	if !ok {
		return p.errorf(ErrUnknownDirective)
	}
	switch name {
	case "top":
		p.dir = dirTop
		p.state = stPreCCode
	case "header":
		p.dir = dirHeader
		p.state = stPreCCode
	case "ustate":
		p.dir = dirUstate
		p.state = stPreCCode
	case "state":
		p.dir = dirState
		p.state = stPreCToken
	case "initstate":
		p.dir = dirInitstate
		p.state = stPreCToken
	case "prefix":
		p.dir = dirPrefix
		p.state = stPreCToken
	default:
		return p.errorf(ErrUnknownDirective)
	}
	return nil
}

// --- PRE_C_TOKEN ---

func (p *parser) stepPreCToken() error {
	for p.pos < len(p.input) && isHorizWhitespace(p.peek()) {
		p.pos++
	}
	name, ok := p.readIdent()
	if !ok {
		return p.errorf(ErrInvalidIdentifier)
	}
	switch p.dir {
	case dirState:
		p.spec.declareStartState(name)
	case dirInitstate:
		p.spec.declareStartState(name)
		p.spec.InitialState = name
	case dirPrefix:
		p.spec.Prefix = name
	}
	p.dir = dirNone
	p.state = stNonWhspIsError
	return nil
}

// --- NON_WHSP_IS_ERROR ---

func (p *parser) stepNonWhsp() error {
	for p.pos < len(p.input) && isHorizWhitespace(p.peek()) {
		p.pos++
	}
	if p.pos >= len(p.input) {
		return nil
	}
	switch p.peek() {
	case '\n':
		p.pos++
		p.state = stMain
		return nil
	case '\r':
		p.pos++
		if p.pos < len(p.input) && p.peek() == '\n' {
			p.pos++
		}
		p.state = stMain
		return nil
	default:
		return p.errorf(ErrExpectedEndOfLine)
	}
}

// --- PRE_C_CODE ---

func (p *parser) stepPreCCode() error {
	for p.pos < len(p.input) && isWhitespace(p.peek()) {
		p.pos++
	}
	if p.pos >= len(p.input) || p.peek() != '{' {
		return p.errorf(ErrExpectedCodeBlock)
	}
	p.pos++
	p.braceDepth = 1
	p.codeBuf = p.codeBuf[:0]
	p.state = stCCode
	return nil
}

// --- C_CODE ---

func (p *parser) stepCCode() error {
	c := p.peek()
	switch c {
	case '{':
		p.braceDepth++
		p.codeBuf = append(p.codeBuf, c)
		p.pos++
	case '}':
		p.braceDepth--
		p.pos++
		if p.braceDepth == 0 {
			return p.finishCodeBlock()
		}
		p.codeBuf = append(p.codeBuf, c)
	default:
		p.codeBuf = append(p.codeBuf, c)
		p.pos++
	}
	return nil
}

// finishCodeBlock is reached the instant a code block's closing '}'
// balances its opening brace. Per spec.md §4.C item "End action code":
// %top/%header/%ustate store the block; otherwise (dir == dirNone) this
// was a rule's action code, so register the rule using the regex and
// selectors collected before the '{'.
func (p *parser) finishCodeBlock() error {
	code := bset.New(p.codeBuf)
	switch p.dir {
	case dirTop:
		p.spec.Top = code
	case dirHeader:
		p.spec.Header = code
	case dirUstate:
		p.spec.UstateType = code
	default:
		selectors := map[string]bool(nil)
		if len(p.selectors) > 0 {
			selectors = make(map[string]bool, len(p.selectors))
			for _, s := range p.selectors {
				selectors[s] = true
			}
		}
		p.spec.Rules = append(p.spec.Rules, Rule{
			Regex:       p.pendingRegex,
			Action:      code,
			StartStates: selectors,
			Index:       uint32(len(p.spec.Rules) + 1),
		})
	}
	p.dir = dirNone
	p.pendingRegex = nil
	p.selectors = nil
	p.state = stMain
	return nil
}

// --- IN_SELECTOR ---

func (p *parser) stepSelector() error {
	for p.pos < len(p.input) && isWhitespace(p.peek()) {
		p.pos++
	}
	if p.pos >= len(p.input) {
		return p.errorf(ErrUnterminated)
	}
	switch p.peek() {
	case '>':
		p.pos++
		p.state = stRegex
		return nil
	case ',':
		p.pos++
		return nil
	default:
		name, ok := p.readIdent()
		if !ok {
			return p.errorf(ErrInvalidIdentifier)
		}
		for _, existing := range p.selectors {
			if existing == name {
				return nil
			}
		}
		p.selectors = append(p.selectors, name)
		return nil
	}
}

// --- IN_REGEX ---

// stepRegex drives p.rx one token at a time per the construction
// protocol in spec.md §4.C/§9. Whitespace between atoms is insignificant
// here (DESIGN.md's open-question decisions resolve the grammar's silence on this point: a
// literal space is written as the escape "\ "), which is what lets a rule
// be written as `pattern { action }` with ordinary spacing.
func (p *parser) stepRegex() error {
	for p.pos < len(p.input) && isWhitespace(p.peek()) {
		p.pos++
	}
	if p.pos >= len(p.input) {
		return p.errorf(ErrUnterminated)
	}
	c := p.peek()
	switch c {
	case '(':
		p.rx.OpenParen()
		p.pos++
		return nil
	case ')':
		if err := p.rx.CloseParen(); err != nil {
			return p.errorf(err)
		}
		p.pos++
		return nil
	case '|':
		p.rx.Alternate()
		p.pos++
		return nil
	case '?':
		if err := p.rx.ApplyMaybe(); err != nil {
			return p.errorf(err)
		}
		p.pos++
		return nil
	case '*':
		if err := p.rx.ApplyStar(); err != nil {
			return p.errorf(err)
		}
		p.pos++
		return nil
	case '+':
		if err := p.rx.ApplyPlus(); err != nil {
			return p.errorf(err)
		}
		p.pos++
		return nil
	case '.':
		p.rx.EmitAtom(rx.Any())
		p.pos++
		return nil
	case '[':
		return p.beginCharClass()
	case '\\':
		b, n, err := resolveEscape(p.input, p.pos)
		if err != nil {
			return p.errorf(err)
		}
		p.rx.EmitAtom(rx.Char(b))
		p.pos += n
		return nil
	case '{':
		min, max, n, ok, err := tryQuantifier(p.input, p.pos)
		if err != nil {
			return p.errorf(err)
		}
		if ok {
			if err := p.rx.ApplyNum(min, max); err != nil {
				return p.errorf(err)
			}
			p.pos += n
			return nil
		}
		return p.beginRuleAction()
	default:
		p.rx.EmitAtom(rx.Char(c))
		p.pos++
		return nil
	}
}

func (p *parser) beginCharClass() error {
	p.pos++ // consume '['
	p.classSet = bset.Set{}
	p.classInvert = false
	if p.pos < len(p.input) && p.peek() == '^' {
		p.classInvert = true
		p.pos++
	}
	p.state = stCharClass
	return nil
}

// beginRuleAction implements "Begin action code {" from spec.md §4.C: the
// regex is complete, so flush the operator stack into a tree and switch
// to C_CODE. A code action inside an open group, or with no preceding
// regex at all, is a hard error.
func (p *parser) beginRuleAction() error {
	if p.rx.IsEmpty() {
		return p.errorf(ErrCodeOutsideRegex)
	}
	if p.rx.ParenDepth() > 0 {
		return p.errorf(ErrCodeInsideParen)
	}
	tree, err := p.rx.Finish()
	if err != nil {
		return p.errorf(err)
	}
	p.pendingRegex = tree
	p.dir = dirNone
	p.braceDepth = 1
	p.codeBuf = p.codeBuf[:0]
	p.pos++ // consume '{'
	p.state = stCCode
	return nil
}

// --- IN_CHARCLASS ---

func (p *parser) stepCharClass() error {
	if p.pos >= len(p.input) {
		return p.errorf(ErrUnmatchedBracket)
	}
	switch c := p.peek(); c {
	case ']':
		p.rx.EmitAtom(rx.Class(p.classInvert, p.classSet))
		p.pos++
		p.state = stRegex
		return nil
	case '\\':
		b, n, err := resolveEscape(p.input, p.pos)
		if err != nil {
			return p.errorf(err)
		}
		p.classSet.Add(b)
		p.pos += n
		return nil
	default:
		// '-' is literal inside a class: no range syntax (spec.md §9).
		p.classSet.Add(c)
		p.pos++
		return nil
	}
}

// resolveEscape decodes the escape sequence starting at input[pos] (which
// must be '\\'), per spec.md §4.C: \n, \t, \xHH, and \c for any other
// byte c yielding the literal byte c.
func resolveEscape(input []byte, pos int) (b byte, consumed int, err error) {
	if pos+1 >= len(input) {
		return 0, 0, ErrUnterminated
	}
	switch next := input[pos+1]; next {
	case 'n':
		return '\n', 2, nil
	case 't':
		return '\t', 2, nil
	case 'x':
		if pos+3 >= len(input) {
			return 0, 0, ErrInvalidEscape
		}
		v, err := strconv.ParseUint(string(input[pos+2:pos+4]), 16, 8)
		if err != nil {
			return 0, 0, ErrInvalidEscape
		}
		return byte(v), 4, nil
	default:
		return next, 2, nil
	}
}

// tryQuantifier attempts to parse a bounded-repetition quantifier
// ({n}, {n,}, {n,m}, {,m}) starting at input[pos] == '{'. It reports
// ok == false (not an error) when the braced text doesn't match this
// restricted digit/comma grammar at all, which is how the scanner
// distinguishes a quantifier from the '{' that begins a rule's action
// code. "{,}" — a comma with no digit on either side — is unambiguously
// an attempted quantifier, just a malformed one, so that case reports
// ErrEmptyRepetitionBound rather than falling through to action code.
func tryQuantifier(input []byte, pos int) (min, max *uint32, consumed int, ok bool, err error) {
	j := pos + 1
	digits1Start := j
	for j < len(input) && input[j] >= '0' && input[j] <= '9' {
		j++
	}
	digits1 := string(input[digits1Start:j])

	hasComma := false
	var digits2 string
	if j < len(input) && input[j] == ',' {
		hasComma = true
		j++
		digits2Start := j
		for j < len(input) && input[j] >= '0' && input[j] <= '9' {
			j++
		}
		digits2 = string(input[digits2Start:j])
	}

	if j >= len(input) || input[j] != '}' {
		return nil, nil, 0, false, nil
	}
	if digits1 == "" && !hasComma {
		return nil, nil, 0, false, nil // bare "{}" is not a quantifier
	}
	if digits1 == "" && hasComma && digits2 == "" {
		return nil, nil, 0, false, ErrEmptyRepetitionBound // "{,}"
	}

	if digits1 != "" {
		v, _ := strconv.ParseUint(digits1, 10, 32)
		vv := uint32(v)
		min = &vv
	}
	if hasComma {
		if digits2 != "" {
			v, _ := strconv.ParseUint(digits2, 10, 32)
			vv := uint32(v)
			max = &vv
		}
	} else {
		max = min // "{n}" means exactly n: min == max
	}
	return min, max, j - pos + 1, true, nil
}

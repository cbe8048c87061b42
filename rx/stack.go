package rx

import "errors"

// FrameKind tags an operator-stack frame. Only Concat, Option, and Paren
// frames ever appear on the stack — Paren is a pure sentinel and is
// stripped away by the time Builder.Finish returns, so it never reaches
// a compiled tree (see Node.Kind's KindParen doc).
type FrameKind uint8

const (
	FrameConcat FrameKind = iota
	FrameOption
	FrameParen
)

// Frame is one partially built operator-stack entry.
type Frame struct {
	Kind     FrameKind
	Children []*Node // unused for FrameParen
}

// Errors returned by the Builder's quantifier and grouping operations.
// The spec parser (package splex) wraps these with positional context.
var (
	ErrEmptyQuantifierOperand = errors.New("rx: quantifier applied with no preceding regex")
	ErrUnmatchedCloseParen    = errors.New("rx: unmatched ')'")
	ErrUnmatchedOpenParen     = errors.New("rx: unmatched '('")
	ErrBadRepetitionBounds    = errors.New("rx: repetition min must not exceed max")
)

// Builder implements the shunting-yard-like construction protocol: a
// "current" partially built node plus a stack of
// Concat/Option/Paren frames. The spec's lexer (package splex) drives this
// machine one token at a time; Builder owns no lexing logic of its own.
type Builder struct {
	current *Node
	stack   []*Frame
}

// NewBuilder returns a Builder ready to accept the first atom of a regex.
func NewBuilder() *Builder { return &Builder{} }

// Reset clears the builder so it can be reused for the next rule.
func (b *Builder) Reset() {
	b.current = nil
	b.stack = b.stack[:0]
}

// IsEmpty reports whether the builder has consumed no regex content at
// all — used by splex to detect "code action with no preceding regex".
func (b *Builder) IsEmpty() bool {
	return b.current == nil && len(b.stack) == 0
}

// ParenDepth returns the number of still-open '(' groups, used by splex to
// reject a code action that begins inside an unclosed group.
func (b *Builder) ParenDepth() int {
	n := 0
	for _, f := range b.stack {
		if f.Kind == FrameParen {
			n++
		}
	}
	return n
}

func (b *Builder) top() *Frame {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

// flushCurrent folds the pending "current" node into the top-of-stack
// Concat frame, creating one first if the top frame is absent, an Option,
// or a Paren sentinel. A nil current is a no-op, which is exactly the
// "emit first atom" case in the spec's atom rule.
func (b *Builder) flushCurrent() {
	if b.current == nil {
		return
	}
	if f := b.top(); f != nil && f.Kind == FrameConcat {
		f.Children = append(f.Children, b.current)
	} else {
		b.stack = append(b.stack, &Frame{Kind: FrameConcat, Children: []*Node{b.current}})
	}
	b.current = nil
}

// EmitAtom implements the spec's "emit a simple atom" rule: flush
// whatever was pending, then make a the new current.
func (b *Builder) EmitAtom(a *Node) {
	b.flushCurrent()
	b.current = a
}

// OpenParen implements "open paren": flush current per the atom rule,
// then push a Paren sentinel and start a fresh current.
func (b *Builder) OpenParen() {
	b.flushCurrent()
	b.stack = append(b.stack, &Frame{Kind: FrameParen})
	b.current = nil
}

// finalizeAlternative pops a pending Concat frame (folding current into
// it first) and returns the single node it represents, or returns current
// verbatim when no Concat frame is on top, or Zero when there is nothing
// pending at all. This is the piece used both by Alternate (one more
// alternative of an Option) and by collapseTop (the final alternative
// before a ')' or end of regex).
func (b *Builder) finalizeAlternative() *Node {
	if f := b.top(); f != nil && f.Kind == FrameConcat {
		if b.current != nil {
			f.Children = append(f.Children, b.current)
			b.current = nil
		}
		b.stack = b.stack[:len(b.stack)-1]
		if len(f.Children) == 1 {
			return f.Children[0]
		}
		return Concat(f.Children...)
	}
	if b.current != nil {
		piece := b.current
		b.current = nil
		return piece
	}
	return Zero()
}

// Alternate implements "alternation |": the finished alternative (per
// finalizeAlternative) becomes one child of the nearest enclosing Option
// frame, creating it if absent.
func (b *Builder) Alternate() {
	piece := b.finalizeAlternative()
	if f := b.top(); f != nil && f.Kind == FrameOption {
		f.Children = append(f.Children, piece)
		return
	}
	b.stack = append(b.stack, &Frame{Kind: FrameOption, Children: []*Node{piece}})
}

// collapseTop finishes whatever alternation/concatenation frame is on top
// of the stack (without touching a Paren sentinel) and returns the single
// node it represents.
func (b *Builder) collapseTop() *Node {
	piece := b.finalizeAlternative()
	if f := b.top(); f != nil && f.Kind == FrameOption {
		f.Children = append(f.Children, piece)
		b.stack = b.stack[:len(b.stack)-1]
		return Option(f.Children...)
	}
	return piece
}

// CloseParen implements "close paren": pop frames down to and including
// the nearest Paren sentinel, composing them into the single node that
// becomes the new current.
func (b *Builder) CloseParen() error {
	result := b.collapseTop()
	f := b.top()
	if f == nil || f.Kind != FrameParen {
		return ErrUnmatchedCloseParen
	}
	b.stack = b.stack[:len(b.stack)-1]
	b.current = result
	return nil
}

// Finish flushes every remaining frame into a single tree. It is called
// when the spec parser sees the '{' that begins a rule's action code (the
// regex is complete at that point). An unmatched '(' is reported as an
// error rather than silently closed.
func (b *Builder) Finish() (*Node, error) {
	if b.IsEmpty() {
		return nil, ErrEmptyQuantifierOperand // no atoms at all were ever emitted
	}
	result := b.collapseTop()
	if len(b.stack) != 0 {
		return nil, ErrUnmatchedOpenParen
	}
	b.current = nil
	return result, nil
}

// quantify wraps current in the node the given wrap function builds, or
// reports ErrEmptyQuantifierOperand if there is nothing to quantify.
func (b *Builder) quantify(wrap func(*Node) *Node) error {
	if b.current == nil {
		return ErrEmptyQuantifierOperand
	}
	b.current = wrap(b.current)
	return nil
}

// ApplyMaybe wraps the current atom in a Maybe ('?').
func (b *Builder) ApplyMaybe() error { return b.quantify(Maybe) }

// ApplyStar wraps the current atom in a Star ('*').
func (b *Builder) ApplyStar() error { return b.quantify(Star) }

// ApplyPlus wraps the current atom in a Plus ('+').
func (b *Builder) ApplyPlus() error { return b.quantify(Plus) }

// ApplyNum wraps the current atom in a bounded-repetition Num
// ({n}, {n,}, {n,m}, {,m}). A nil min means 0; a nil max means unbounded. min > max is rejected when both are present.
func (b *Builder) ApplyNum(min, max *uint32) error {
	if min != nil && max != nil && *min > *max {
		return ErrBadRepetitionBounds
	}
	return b.quantify(func(n *Node) *Node { return Num(min, max, n) })
}

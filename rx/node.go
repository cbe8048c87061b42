// Package rx is the regex intermediate representation: a tagged tree of
// nodes built by the spec parser's shunting-yard-style operator stack, and
// later consumed by Thompson construction (package nfa).
package rx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/moonlime-gen/moonlime/bset"
)

// Kind tags the variant a Node holds.
type Kind uint8

const (
	// KindChar matches a single literal byte.
	KindChar Kind = iota
	// KindClass matches a byte set, optionally inverted.
	KindClass
	// KindAny matches any single byte.
	KindAny
	// KindOption is alternation: exactly one of its children must match.
	KindOption
	// KindConcat is sequencing: every child must match in order.
	KindConcat
	// KindMaybe matches its child zero or one times.
	KindMaybe
	// KindStar matches its child zero or more times.
	KindStar
	// KindPlus matches its child one or more times.
	KindPlus
	// KindNum matches its child between Min and Max times.
	KindNum
	// KindZero matches the empty string; used to normalize empty
	// alternatives so every Option child is a real node.
	KindZero
	// KindParen is a parse-time operator-stack marker. It must never
	// appear in a compiled tree — see Frame in stack.go.
	KindParen
)

// Node is a tagged regex-tree node. Only the fields relevant to Kind are
// meaningful; see the constructors below for which fields each kind uses.
type Node struct {
	Kind Kind

	Byte byte      // KindChar
	Set  bset.Set  // KindClass
	Inv  bool      // KindClass: set is inverted

	Children []*Node // KindOption, KindConcat

	Child *Node // KindMaybe, KindStar, KindPlus, KindNum

	// KindNum bounds. Min == nil means 0; Max == nil means unbounded.
	Min, Max *uint32
}

// Char returns a node matching the single byte b.
func Char(b byte) *Node { return &Node{Kind: KindChar, Byte: b} }

// Class returns a node matching set, or its complement when inverted.
func Class(inverted bool, set bset.Set) *Node {
	return &Node{Kind: KindClass, Set: set, Inv: inverted}
}

// Any returns a node matching any single byte.
func Any() *Node { return &Node{Kind: KindAny} }

// Zero returns a node matching the empty string.
func Zero() *Node { return &Node{Kind: KindZero} }

// Option returns an alternation of children. An Option produced by
// Builder always has at least 2 children; this constructor itself accepts
// any number.
func Option(children ...*Node) *Node {
	return &Node{Kind: KindOption, Children: append([]*Node(nil), children...)}
}

// Concat returns a sequence of children.
func Concat(children ...*Node) *Node {
	return &Node{Kind: KindConcat, Children: append([]*Node(nil), children...)}
}

// Maybe returns a node matching child zero or one times.
func Maybe(child *Node) *Node { return &Node{Kind: KindMaybe, Child: child} }

// Star returns a node matching child zero or more times.
func Star(child *Node) *Node { return &Node{Kind: KindStar, Child: child} }

// Plus returns a node matching child one or more times.
func Plus(child *Node) *Node { return &Node{Kind: KindPlus, Child: child} }

// Num returns a bounded-repetition node. A nil min is treated as 0 by
// every consumer (nfa.Build in particular); a nil max is unbounded.
func Num(min, max *uint32, child *Node) *Node {
	return &Node{Kind: KindNum, Min: min, Max: max, Child: child}
}

// U32 is a small helper for constructing the *uint32 bounds Num wants
// from a literal, since Go has no address-of-literal syntax.
func U32(n uint32) *uint32 { return &n }

// MinOf returns n.Min, treated as 0 when unset.
func (n *Node) MinOf() uint32 {
	if n.Min == nil {
		return 0
	}
	return *n.Min
}

// Unbounded reports whether n.Max is absent (no upper bound).
func (n *Node) Unbounded() bool { return n.Max == nil }

// String renders n as a parenthesized tree sketch, the form the -v
// verbose dump prints for each rule's regex (SPEC_FULL.md §5).
func (n *Node) String() string {
	if n == nil {
		return "()"
	}
	switch n.Kind {
	case KindChar:
		return quoteByte(n.Byte)
	case KindClass:
		if n.Inv {
			return "[^...]"
		}
		return "[...]"
	case KindAny:
		return "."
	case KindZero:
		return "()"
	case KindOption:
		return "(| " + joinChildren(n.Children) + ")"
	case KindConcat:
		return "(. " + joinChildren(n.Children) + ")"
	case KindMaybe:
		return "(? " + n.Child.String() + ")"
	case KindStar:
		return "(* " + n.Child.String() + ")"
	case KindPlus:
		return "(+ " + n.Child.String() + ")"
	case KindNum:
		return fmt.Sprintf("({%s,%s} %s", boundOf(n.Min), boundOf(n.Max), n.Child.String()) + ")"
	case KindParen:
		return "(paren)"
	default:
		return "(?unknown)"
	}
}

func joinChildren(children []*Node) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func boundOf(b *uint32) string {
	if b == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*b), 10)
}

// quoteByte renders a byte as a printable rune or a \xHH escape.
func quoteByte(b byte) string {
	if b >= 0x20 && b < 0x7f {
		return string(b)
	}
	return fmt.Sprintf("\\x%02x", b)
}

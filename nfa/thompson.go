package nfa

import (
	"github.com/moonlime-gen/moonlime/bset"
	"github.com/moonlime-gen/moonlime/rx"
)

// Rule is the minimal input BuildAll needs for one rule: its regex tree,
// the start states it is selected under (empty meaning "every state"),
// and its 1-based declaration order (the tie-breaker on ambiguous
// matches — see DoneNum in dfa.Build).
type Rule struct {
	Regex       *rx.Node
	StartStates map[string]bool
	Index       uint32
}

// Build constructs the Thompson fragment for a single regex-tree node,
// per the construction table in SPEC_FULL.md/spec.md §4.D. It never
// consumes a KindParen node — that is an internal-invariant violation,
// since rx.Builder.Finish strips every Paren sentinel before returning a
// tree.
func (b *Builder) Build(n *rx.Node) (Fragment, error) {
	switch n.Kind {
	case rx.KindChar:
		return b.buildSingleByte(byteSet(n.Byte)), nil

	case rx.KindClass:
		set := n.Set
		if n.Inv {
			set = set.Invert()
		}
		return b.buildSingleByte(set), nil

	case rx.KindAny:
		return b.buildSingleByte(bset.All()), nil

	case rx.KindZero:
		entry := b.newState()
		ref := b.addTransition(entry, true, bset.Set{}, InvalidState)
		return Fragment{Init: entry, Finals: []TransitionRef{ref}}, nil

	case rx.KindConcat:
		return b.buildConcat(n.Children)

	case rx.KindOption:
		return b.buildOption(n.Children)

	case rx.KindMaybe:
		return b.buildMaybe(n.Child)

	case rx.KindStar:
		return b.buildStar(n.Child)

	case rx.KindPlus:
		return b.buildPlus(n.Child)

	case rx.KindNum:
		return b.buildNum(n.Min, n.Max, n.Child)

	case rx.KindParen:
		return Fragment{}, ErrParenInTree

	default:
		return Fragment{}, ErrParenInTree
	}
}

func byteSet(c byte) bset.Set {
	var s bset.Set
	s.Add(c)
	return s
}

// buildSingleByte handles Char/Class/Any uniformly: one new entry state
// with a single dangling transition on cond.
func (b *Builder) buildSingleByte(cond bset.Set) Fragment {
	entry := b.newState()
	ref := b.addTransition(entry, false, cond, InvalidState)
	return Fragment{Init: entry, Finals: []TransitionRef{ref}}
}

// buildConcat splices each fragment's danglings into the next fragment's
// entry, in series. An empty Concat (shouldn't occur post-parse, but
// handled for robustness) behaves like Zero.
func (b *Builder) buildConcat(children []*rx.Node) (Fragment, error) {
	if len(children) == 0 {
		return b.Build(rx.Zero())
	}
	first, err := b.Build(children[0])
	if err != nil {
		return Fragment{}, err
	}
	result := first
	for _, child := range children[1:] {
		next, err := b.Build(child)
		if err != nil {
			return Fragment{}, err
		}
		b.resolveAll(result.Finals, next.Init)
		result = Fragment{Init: result.Init, Finals: next.Finals}
	}
	return result, nil
}

// chainFragments splices a list of already-built fragments in series,
// the same way buildConcat splices freshly-built ones. Used by buildNum
// to chain the unrolled copies of a bounded repetition.
func (b *Builder) chainFragments(pieces []Fragment) Fragment {
	result := pieces[0]
	for _, next := range pieces[1:] {
		b.resolveAll(result.Finals, next.Init)
		result = Fragment{Init: result.Init, Finals: next.Finals}
	}
	return result
}

// buildOption creates a new entry with an epsilon transition to each
// alternative's entry; the combined danglings are every alternative's
// danglings, concatenated.
func (b *Builder) buildOption(children []*rx.Node) (Fragment, error) {
	entry := b.newState()
	var finals []TransitionRef
	for _, child := range children {
		frag, err := b.Build(child)
		if err != nil {
			return Fragment{}, err
		}
		b.addTransition(entry, true, bset.Set{}, frag.Init) // resolved immediately
		finals = append(finals, frag.Finals...)
	}
	return Fragment{Init: entry, Finals: finals}, nil
}

// buildMaybe: new entry epsilon to child's entry, plus a direct
// epsilon-dangling bypass.
func (b *Builder) buildMaybe(child *rx.Node) (Fragment, error) {
	frag, err := b.Build(child)
	if err != nil {
		return Fragment{}, err
	}
	entry := b.newState()
	b.addTransition(entry, true, bset.Set{}, frag.Init)
	bypass := b.addTransition(entry, true, bset.Set{}, InvalidState)
	finals := append(append([]TransitionRef(nil), frag.Finals...), bypass)
	return Fragment{Init: entry, Finals: finals}, nil
}

// buildStar: new entry epsilon to child's entry; child's danglings loop
// back to entry; entry also carries the dangling exit bypass.
func (b *Builder) buildStar(child *rx.Node) (Fragment, error) {
	frag, err := b.Build(child)
	if err != nil {
		return Fragment{}, err
	}
	entry := b.newState()
	b.addTransition(entry, true, bset.Set{}, frag.Init)
	b.resolveAll(frag.Finals, entry)
	bypass := b.addTransition(entry, true, bset.Set{}, InvalidState)
	return Fragment{Init: entry, Finals: []TransitionRef{bypass}}, nil
}

// buildPlus: the fragment's entry IS child's entry (no new entry state);
// child's danglings redirect to a loop-head with an epsilon back to
// child's entry and a dangling exit.
func (b *Builder) buildPlus(child *rx.Node) (Fragment, error) {
	frag, err := b.Build(child)
	if err != nil {
		return Fragment{}, err
	}
	loopHead := b.newState()
	b.resolveAll(frag.Finals, loopHead)
	b.addTransition(loopHead, true, bset.Set{}, frag.Init)
	exit := b.addTransition(loopHead, true, bset.Set{}, InvalidState)
	return Fragment{Init: frag.Init, Finals: []TransitionRef{exit}}, nil
}

// buildNum unrolls a bounded repetition: min required copies in series,
// then (max-min) optional copies, or a single trailing Star copy when max
// is unbounded. A nil min is treated as 0.
func (b *Builder) buildNum(min, max *uint32, child *rx.Node) (Fragment, error) {
	lo := 0
	if min != nil {
		lo = int(*min)
	}

	var pieces []Fragment
	for i := 0; i < lo; i++ {
		frag, err := b.Build(child)
		if err != nil {
			return Fragment{}, err
		}
		pieces = append(pieces, frag)
	}

	if max == nil {
		frag, err := b.buildStar(child)
		if err != nil {
			return Fragment{}, err
		}
		pieces = append(pieces, frag)
	} else {
		hi := int(*max)
		for i := lo; i < hi; i++ {
			frag, err := b.buildMaybe(child)
			if err != nil {
				return Fragment{}, err
			}
			pieces = append(pieces, frag)
		}
	}

	if len(pieces) == 0 {
		return b.Build(rx.Zero())
	}
	return b.chainFragments(pieces), nil
}

// BuildAll builds one fragment per rule (in declaration order), closes
// each fragment's danglings into a fresh accepting state carrying that
// rule's 1-based index as DoneNum, and allocates one synthetic entry
// state per declared start state with epsilon transitions to every rule
// whose selector set is empty or contains that start state.
func BuildAll(rules []Rule, startStates []string) (*NFA, error) {
	b := NewBuilder()
	entries := make([]StateID, len(rules))

	for i, rule := range rules {
		frag, err := b.Build(rule.Regex)
		if err != nil {
			return nil, &BuildError{RuleIndex: rule.Index, Err: err}
		}
		accept := b.newState()
		b.markAccepting(accept, rule.Index)
		b.resolveAll(frag.Finals, accept)
		entries[i] = frag.Init
	}

	starts := make(map[string]StateID, len(startStates))
	for _, name := range startStates {
		entry := b.newState()
		for i, rule := range rules {
			if len(rule.StartStates) == 0 || rule.StartStates[name] {
				b.addTransition(entry, true, bset.Set{}, entries[i])
			}
		}
		starts[name] = entry
	}

	return &NFA{States: b.States(), Starts: starts, RuleEntries: entries}, nil
}

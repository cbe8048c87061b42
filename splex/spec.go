// Package splex is the spec-file lexer/parser: a hand-written DFA-driven
// scanner with eight start states (SPEC_FULL.md/spec.md §4.C) that drives
// an rx.Builder while it collects directives, rules, and action code from
// a Moonlime ".ml" input file.
package splex

import (
	"github.com/moonlime-gen/moonlime/bset"
	"github.com/moonlime-gen/moonlime/rx"
)

// Rule is one parsed pattern entry: its regex tree, its verbatim action
// code, the start states it is selected under (nil/empty meaning "every
// state"), and its 1-based declaration order.
type Rule struct {
	Regex       *rx.Node
	Action      bset.Str
	StartStates map[string]bool
	Index       uint32
}

// Spec is everything collected while parsing one input file.
type Spec struct {
	Rules []Rule

	// StartStates is insertion-ordered; duplicates are absorbed silently
	// (SPEC_FULL.md §5).
	StartStates []string

	// InitialState defaults to the first declared start state, or the
	// synthetic name "A" when none were declared (spec.md §3).
	InitialState string

	Header     bset.Str // %header block, shared by both emitted files
	Top        bset.Str // %top block, implementation file only
	UstateType bset.Str // %ustate block: the user-state parameter's C type

	// Prefix overrides the default "Lexer" identifier prefix. Empty means
	// unset; the default is applied by codegen, not here. Re-declaration
	// silently keeps the last value (SPEC_FULL.md §5).
	Prefix string
}

func (s *Spec) declareStartState(name string) {
	for _, existing := range s.StartStates {
		if existing == name {
			return
		}
	}
	s.StartStates = append(s.StartStates, name)
}

// finalize applies the defaulting rules from spec.md §3 once parsing has
// finished: a synthetic start state "A" when none were declared, and an
// initial state defaulting to the first declared one.
func (s *Spec) finalize() {
	if len(s.StartStates) == 0 {
		s.StartStates = []string{"A"}
	}
	if s.InitialState == "" {
		s.InitialState = s.StartStates[0]
	}
}

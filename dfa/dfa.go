// Package dfa performs NFA→DFA subset construction: ε-closures cached
// once per NFA state, a worklist over DFA state-sets keyed by a packed
// bitset, and done-number disambiguation by lowest rule index. It builds
// the table-ready automaton; it does not execute it (see moonlime's
// top-level Non-goals — no runtime matching, only code generation).
package dfa

import "github.com/moonlime-gen/moonlime/bset"

// StateID identifies a DFA state within its owning DFA's arena.
type StateID uint32

// Transition is one outgoing edge of a DFA state. Conditions on the
// outgoing transitions of a single state are pairwise disjoint by
// construction — see Build.
type Transition struct {
	Condition bset.Set
	Dest      StateID
}

// State is one DFA state: an id, an optional accepting rule number
// (DoneNum, 0 meaning non-accepting), and its outgoing transitions.
type State struct {
	ID          StateID
	DoneNum     uint32
	Transitions []Transition
}

// DFA owns every state produced by subset construction, plus the initial
// state id reachable from each declared start state.
type DFA struct {
	States []State
	Starts map[string]StateID
}

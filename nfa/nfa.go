// Package nfa builds a Thompson NFA from a regex-IR tree (package rx), one
// fragment per rule, unioned under a synthetic entry state per declared
// start state. It never executes the automaton it builds — see the
// package doc on moonlime's top-level Non-goals ("no runtime matching").
package nfa

import "github.com/moonlime-gen/moonlime/bset"

// StateID identifies an NFA state within its owning NFA's arena.
type StateID uint32

// InvalidState marks a transition whose destination has not been
// resolved yet — the "dangling" transitions a Fragment exposes.
const InvalidState StateID = 0xFFFFFFFF

// Transition is one outgoing edge of a State: either an epsilon move, or
// a move consuming any byte in Condition.
type Transition struct {
	IsEpsilon bool
	Condition bset.Set
	Dest      StateID
}

// State is one NFA state: an id, an optional accepting rule number
// (DoneNum, 0 meaning non-accepting), and its outgoing transitions.
type State struct {
	ID          StateID
	DoneNum     uint32
	Transitions []Transition
}

// NFA owns every state built for a specification: one fragment per rule,
// joined by a synthetic entry state for each declared start state.
type NFA struct {
	States []State

	// Starts maps each declared start-state name to the id of its
	// synthetic entry state (see BuildAll).
	Starts map[string]StateID

	// RuleEntries holds, for each rule (0-indexed in declaration order),
	// the entry state of that rule's own fragment — exposed to callers,
	// not used by subset construction itself.
	RuleEntries []StateID
}

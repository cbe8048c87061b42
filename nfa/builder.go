package nfa

import "github.com/moonlime-gen/moonlime/bset"

// Builder constructs an NFA incrementally: states are appended to an
// arena and referenced by integer id, never by pointer, so the automaton
// can be reallocated/grown without invalidating earlier ids.
type Builder struct {
	states []State
}

// NewBuilder returns an empty Builder ready to build fragments into.
func NewBuilder() *Builder {
	return &Builder{states: make([]State, 0, 64)}
}

// TransitionRef names one specific, possibly-dangling transition: the
// Index'th entry of state State's Transitions slice. Fragments carry
// these instead of pointers so the arena can grow freely.
type TransitionRef struct {
	State StateID
	Index int
}

// Fragment is an NFA fragment per SPEC_FULL.md/spec.md §3: one entry
// state, and a list of not-yet-resolved outgoing transitions that the
// enclosing construction step will redirect.
type Fragment struct {
	Init   StateID
	Finals []TransitionRef
}

// newState appends a fresh, transition-less state and returns its id.
func (b *Builder) newState() StateID {
	id := StateID(len(b.states))
	b.states = append(b.states, State{ID: id})
	return id
}

// addTransition appends a transition to state id's outgoing list and
// returns a TransitionRef to it, so the caller can resolve it (or hand it
// off as a dangling final) later.
func (b *Builder) addTransition(id StateID, epsilon bool, cond bset.Set, dest StateID) TransitionRef {
	s := &b.states[id]
	idx := len(s.Transitions)
	s.Transitions = append(s.Transitions, Transition{IsEpsilon: epsilon, Condition: cond, Dest: dest})
	return TransitionRef{State: id, Index: idx}
}

// resolve sets the destination of a previously dangling transition.
func (b *Builder) resolve(ref TransitionRef, dest StateID) {
	b.states[ref.State].Transitions[ref.Index].Dest = dest
}

// resolveAll resolves every ref in refs to the same destination.
func (b *Builder) resolveAll(refs []TransitionRef, dest StateID) {
	for _, ref := range refs {
		b.resolve(ref, dest)
	}
}

// markAccepting sets doneNum on an existing state, turning it into an
// accepting state for the rule with that 1-based index.
func (b *Builder) markAccepting(id StateID, doneNum uint32) {
	b.states[id].DoneNum = doneNum
}

// States returns the arena built so far. The caller takes ownership;
// Builder is not reused after this is called for a final NFA.
func (b *Builder) States() []State { return b.states }

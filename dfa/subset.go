package dfa

import (
	"github.com/moonlime-gen/moonlime/bset"
	"github.com/moonlime-gen/moonlime/internal/sparse"
	"github.com/moonlime-gen/moonlime/nfa"
)

// closureSet is a packed ε-closure bitset: ⌈N/8⌉ bytes, one bit per NFA
// state id, per SPEC_FULL.md/spec.md §4.E item 1. Two closureSets compare
// equal (for DFA state-set dedup) iff their bytes compare equal, which is
// exactly Go's string equality on the bytes — see builder.getOrCreate.
type closureSet []byte

func newClosureSet(n int) closureSet {
	return make(closureSet, (n+7)/8)
}

func (c closureSet) set(i int) { c[i>>3] |= 1 << uint(i&7) }

func (c closureSet) test(i int) bool { return c[i>>3]&(1<<uint(i&7)) != 0 }

func (c closureSet) or(other closureSet) {
	for i := range c {
		c[i] |= other[i]
	}
}

func (c closureSet) isEmpty() bool {
	for _, b := range c {
		if b != 0 {
			return false
		}
	}
	return true
}

// closureTable holds the precomputed ε-closure of every individual NFA
// state, computed once by recursive marking (item 1 of §4.E) and reused
// for every DFA transition computed afterwards: closure(A ∪ B) is
// closure(A) ∪ closure(B), so union-ing precomputed single-state closures
// gives the closure of any set without re-marking.
type closureTable struct {
	n      *nfa.NFA
	byteLen int
	table  []closureSet
}

func buildClosureTable(n *nfa.NFA) closureTable {
	ct := closureTable{n: n, byteLen: (len(n.States) + 7) / 8}
	ct.table = make([]closureSet, len(n.States))
	visited := sparse.NewSparseSet(uint32(len(n.States)))
	for s := range n.States {
		visited.Clear()
		markClosure(n, nfa.StateID(s), visited)
		bits := newClosureSet(len(n.States))
		visited.Iter(func(v uint32) { bits.set(int(v)) })
		ct.table[s] = bits
	}
	return ct
}

// markClosure performs the recursive ε-reachability marking for a single
// NFA state, writing the reached ids into visited.
func markClosure(n *nfa.NFA, s nfa.StateID, visited *sparse.SparseSet) {
	if visited.Contains(uint32(s)) {
		return
	}
	visited.Insert(uint32(s))
	for _, tr := range n.States[s].Transitions {
		if tr.IsEpsilon && tr.Dest != nfa.InvalidState {
			markClosure(n, tr.Dest, visited)
		}
	}
}

func (ct closureTable) closureOf(s nfa.StateID) closureSet { return ct.table[s] }

func (ct closureTable) blank() closureSet { return newClosureSet(len(ct.n.States)) }

// doneNum returns the minimum non-zero DoneNum among the NFA states in
// set, or 0 if none are accepting — the "first declared rule wins on
// ties" policy from spec.md §4.E item 5.
func (ct closureTable) doneNum(set closureSet) uint32 {
	var best uint32
	for i, st := range ct.n.States {
		if !set.test(i) || st.DoneNum == 0 {
			continue
		}
		if best == 0 || st.DoneNum < best {
			best = st.DoneNum
		}
	}
	return best
}

// builder runs the worklist algorithm of §4.E: each fresh DFA state is
// processed once, computing its outgoing transition for every input
// byte and coalescing bytes that lead to the same destination.
type builder struct {
	closures closureTable
	byKey    map[string]StateID
	states   []State
	pending  []closureSet // index i corresponds to states[i]
}

func newBuilder(n *nfa.NFA) *builder {
	return &builder{
		closures: buildClosureTable(n),
		byKey:    make(map[string]StateID),
	}
}

// getOrCreate returns the DFA state for the given NFA state-set,
// creating and enqueuing it if this is the first time the set is seen.
// Bytewise equality of the packed bitset is exactly Go string equality
// on its bytes, so the map key is the bitset cast to a string.
func (b *builder) getOrCreate(set closureSet) StateID {
	key := string(set)
	if id, ok := b.byKey[key]; ok {
		return id
	}
	id := StateID(len(b.states))
	b.states = append(b.states, State{ID: id, DoneNum: b.closures.doneNum(set)})
	b.pending = append(b.pending, set)
	b.byKey[key] = id
	return id
}

// Build runs subset construction over the whole NFA, producing one DFA
// initial state per declared start state (spec.md §4.E / §4.F).
// startOrder fixes the iteration order over n.Starts (a map, so
// unordered on its own) to the spec's declaration order, so that DFA
// state ids — and therefore every downstream table — are assigned
// deterministically run to run (spec.md §8: "compiling the same spec
// twice yields byte-identical output").
func Build(n *nfa.NFA, startOrder []string) *DFA {
	b := newBuilder(n)

	starts := make(map[string]StateID, len(startOrder))
	for _, name := range startOrder {
		entry, ok := n.Starts[name]
		if !ok {
			continue
		}
		starts[name] = b.getOrCreate(b.closures.closureOf(entry))
	}

	for i := 0; i < len(b.pending); i++ {
		b.processState(StateID(i))
	}

	return &DFA{States: b.states, Starts: starts}
}

// processState computes state id's outgoing transitions for every input
// byte 0..255, merging bytes that reach the same destination DFA state
// into a single transition (so the result's conditions are pairwise
// disjoint, one per distinct destination).
func (b *builder) processState(id StateID) {
	set := b.pending[id]

	destOrder := make([]StateID, 0, 8)
	destCond := make(map[StateID]*bset.Set, 8)

	for byteVal := 0; byteVal < 256; byteVal++ {
		bv := byte(byteVal)
		dest := b.closures.blank()
		any := false
		for i, st := range b.closures.n.States {
			if !set.test(i) {
				continue
			}
			for _, tr := range st.Transitions {
				if !tr.IsEpsilon && tr.Condition.Test(bv) {
					dest.or(b.closures.closureOf(tr.Dest))
					any = true
				}
			}
		}
		if !any || dest.isEmpty() {
			continue // no matching outgoing transition: end-of-match
		}

		destID := b.getOrCreate(dest)
		cond, ok := destCond[destID]
		if !ok {
			var s bset.Set
			cond = &s
			destCond[destID] = cond
			destOrder = append(destOrder, destID)
		}
		cond.Add(bv)
	}

	trans := make([]Transition, 0, len(destOrder))
	for _, destID := range destOrder {
		trans = append(trans, Transition{Condition: *destCond[destID], Dest: destID})
	}
	b.states[id].Transitions = trans
}

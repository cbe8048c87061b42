// Package codegen serializes a compiled DFA into the table layout the
// generated driver consumes (spec.md §4.F), then expands the textual
// template that splices those tables, the start-state macros, and the
// user's directive/action blocks into the two emitted source files.
package codegen

import (
	"github.com/moonlime-gen/moonlime/bset"
	"github.com/moonlime-gen/moonlime/dfa"
	"github.com/moonlime-gen/moonlime/internal/conv"
)

// StateRow is one row of the emitted state table: a done-number and the
// half-open range of this state's transitions within the flat
// transition array.
type StateRow struct {
	DoneNum    uint32
	TransStart uint32
	TransEnd   uint32
}

// TransRow is one row of the emitted (flat) transition array.
type TransRow struct {
	Condition bset.Set
	Dest      uint32
}

// Tables is the fully-serialized form of a DFA, ready for textual
// emission by the Render* functions (via Expand).
type Tables struct {
	States      []StateRow
	Transitions []TransRow

	// StartNames is start states in declaration order (ordinal == index).
	StartNames []string
	// StartIDs[i] is the initial DFA state id for StartNames[i].
	StartIDs []uint32
	// InitialOrdinal is the ordinal of the spec's initial start state.
	InitialOrdinal uint32
}

// BuildTables flattens d's states into the row/transition-array form
// spec.md §4.F describes. startOrder must list every name in d.Starts;
// its order fixes the emitted ordinals (and therefore YY_STATE_<name>'s
// numeric value), so it must be deterministic — callers pass the Spec's
// StartStates, which is itself insertion-ordered.
func BuildTables(d *dfa.DFA, startOrder []string, initialState string) *Tables {
	t := &Tables{
		States:      make([]StateRow, len(d.States)),
		StartNames:  append([]string(nil), startOrder...),
		StartIDs:    make([]uint32, len(startOrder)),
	}

	for _, st := range d.States {
		start := conv.IntToUint32(len(t.Transitions))
		for _, tr := range st.Transitions {
			t.Transitions = append(t.Transitions, TransRow{
				Condition: tr.Condition,
				Dest:      uint32(tr.Dest),
			})
		}
		end := conv.IntToUint32(len(t.Transitions))
		t.States[st.ID] = StateRow{
			DoneNum:    st.DoneNum,
			TransStart: start,
			TransEnd:   end,
		}
	}

	for i, name := range startOrder {
		t.StartIDs[i] = uint32(d.Starts[name])
		if name == initialState {
			t.InitialOrdinal = conv.IntToUint32(i)
		}
	}

	return t
}

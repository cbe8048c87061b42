package dfa

import (
	"testing"

	"github.com/moonlime-gen/moonlime/nfa"
	"github.com/moonlime-gen/moonlime/rx"
)

func buildDFA(t *testing.T, regexes ...*rx.Node) *DFA {
	t.Helper()
	rules := make([]nfa.Rule, len(regexes))
	for i, r := range regexes {
		rules[i] = nfa.Rule{Regex: r, Index: uint32(i + 1)}
	}
	n, err := nfa.BuildAll(rules, []string{"A"})
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	return Build(n, []string{"A"})
}

// run feeds input through d starting at start, returning the length and
// DoneNum of the longest matching non-empty prefix; when none matched it
// returns length 0 and the start state's own DoneNum (0 unless the start
// state accepts) — a minimal reference driver used only by tests.
func run(d *DFA, start StateID, input []byte) (consumed int, doneNum uint32) {
	cur := start
	lastMatchLen := 0
	var lastDone uint32
	if d.States[cur].DoneNum != 0 {
		lastDone = d.States[cur].DoneNum
	}
	for i, b := range input {
		next := StateID(0)
		found := false
		for _, tr := range d.States[cur].Transitions {
			if tr.Condition.Test(b) {
				next = tr.Dest
				found = true
				break
			}
		}
		if !found {
			break
		}
		cur = next
		if d.States[cur].DoneNum != 0 {
			lastMatchLen = i + 1
			lastDone = d.States[cur].DoneNum
		}
	}
	return lastMatchLen, lastDone
}

func TestSingleRuleAccepts(t *testing.T) {
	d := buildDFA(t, rx.Char('a'))
	start := d.Starts["A"]
	n, done := run(d, start, []byte("a"))
	if n != 1 || done != 1 {
		t.Errorf("run('a') = (%d, %d), want (1, 1)", n, done)
	}
	n, done = run(d, start, []byte("b"))
	if n != 0 || done != 0 {
		t.Errorf("run('b') = (%d, %d), want (0, 0)", n, done)
	}
}

func TestEmptySpecHasSingleStateNoAccept(t *testing.T) {
	n, err := nfa.BuildAll(nil, []string{"A"})
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	d := Build(n, []string{"A"})
	start := d.Starts["A"]
	if d.States[start].DoneNum != 0 {
		t.Error("empty spec's start state must not be accepting")
	}
	if len(d.States[start].Transitions) != 0 {
		t.Error("empty spec's start state should have no transitions")
	}
}

func TestPriorityTieLowestRuleIndexWins(t *testing.T) {
	// rule 1: "ab"; rule 2: "a"|"ab" — on "ab" rule 1 must win.
	rule1 := rx.Concat(rx.Char('a'), rx.Char('b'))
	rule2 := rx.Option(rx.Char('a'), rx.Concat(rx.Char('a'), rx.Char('b')))
	d := buildDFA(t, rule1, rule2)
	start := d.Starts["A"]
	_, done := run(d, start, []byte("ab"))
	if done != 1 {
		t.Errorf("done = %d, want 1 (lower rule index wins tie)", done)
	}
}

func TestLongestMatchThenReLex(t *testing.T) {
	// rule 1: "a"; rule 2: "aa" — on "aa" rule 2 (longer) wins;
	// on "ab" rule 1 matches and "b" is left for re-lexing.
	d := buildDFA(t, rx.Char('a'), rx.Concat(rx.Char('a'), rx.Char('a')))
	start := d.Starts["A"]

	n, done := run(d, start, []byte("aa"))
	if n != 2 || done != 2 {
		t.Errorf("run('aa') = (%d,%d), want (2,2)", n, done)
	}

	n, done = run(d, start, []byte("ab"))
	if n != 1 || done != 1 {
		t.Errorf("run('ab') = (%d,%d), want (1,1)", n, done)
	}
}

func TestTransitionsPairwiseDisjoint(t *testing.T) {
	d := buildDFA(t, rx.Option(rx.Char('a'), rx.Char('b')), rx.Char('b'))
	for _, st := range d.States {
		for i := 0; i < len(st.Transitions); i++ {
			for j := i + 1; j < len(st.Transitions); j++ {
				for b := 0; b < 256; b++ {
					if st.Transitions[i].Condition.Test(byte(b)) && st.Transitions[j].Condition.Test(byte(b)) {
						t.Fatalf("state %d: transitions %d and %d both match byte %d", st.ID, i, j, b)
					}
				}
			}
		}
	}
}

func TestBoundedRepetitionThenPlus(t *testing.T) {
	// rule 1: a{2,4}; rule 2: a+ — "aaaaa" lexes as 4 bytes of rule 1
	// then 1 byte of rule 2 (longest match, then re-lex).
	min, max := uint32(2), uint32(4)
	d := buildDFA(t, rx.Num(&min, &max, rx.Char('a')), rx.Plus(rx.Char('a')))
	start := d.Starts["A"]

	n, done := run(d, start, []byte("aaaaa"))
	if n != 4 || done != 1 {
		t.Errorf("first lex of 'aaaaa' = (%d,%d), want (4,1)", n, done)
	}
}

func TestStartStateHasExactlyOneInitialID(t *testing.T) {
	d := buildDFA(t, rx.Char('a'))
	if len(d.Starts) != 1 {
		t.Fatalf("expected exactly one start state, got %d", len(d.Starts))
	}
	if _, ok := d.Starts["A"]; !ok {
		t.Error("expected start state \"A\" to have an initial DFA state id")
	}
}

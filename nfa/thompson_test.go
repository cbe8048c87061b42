package nfa

import (
	"testing"

	"github.com/moonlime-gen/moonlime/rx"
)

// simulate is a reference NFA matcher used only by tests: it accepts
// input if some run from start consumes every byte and ends in an
// accepting state, expanding epsilon transitions along the way.
func simulate(n *NFA, start StateID, input []byte) bool {
	cur := epsilonClosure(n, []StateID{start})
	for _, b := range input {
		var next []StateID
		for _, s := range cur {
			for _, tr := range n.States[s].Transitions {
				if !tr.IsEpsilon && tr.Condition.Test(b) {
					next = append(next, tr.Dest)
				}
			}
		}
		cur = epsilonClosure(n, next)
		if len(cur) == 0 {
			return false
		}
	}
	for _, s := range cur {
		if n.States[s].DoneNum != 0 {
			return true
		}
	}
	return false
}

func epsilonClosure(n *NFA, states []StateID) []StateID {
	seen := map[StateID]bool{}
	var stack, out []StateID
	stack = append(stack, states...)
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		for _, tr := range n.States[s].Transitions {
			if tr.IsEpsilon && tr.Dest != InvalidState {
				stack = append(stack, tr.Dest)
			}
		}
	}
	return out
}

func buildOne(t *testing.T, n *rx.Node) (*NFA, StateID) {
	t.Helper()
	nfaOut, err := BuildAll([]Rule{{Regex: n, Index: 1}}, []string{"A"})
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	return nfaOut, nfaOut.Starts["A"]
}

func TestBuildChar(t *testing.T) {
	n, start := buildOne(t, rx.Char('a'))
	if !simulate(n, start, []byte("a")) {
		t.Error("expected 'a' to match")
	}
	if simulate(n, start, []byte("b")) {
		t.Error("expected 'b' not to match")
	}
}

func TestBuildConcat(t *testing.T) {
	n, start := buildOne(t, rx.Concat(rx.Char('a'), rx.Char('b')))
	if !simulate(n, start, []byte("ab")) {
		t.Error("expected 'ab' to match")
	}
	if simulate(n, start, []byte("a")) {
		t.Error("expected 'a' alone not to match")
	}
}

func TestBuildOption(t *testing.T) {
	n, start := buildOne(t, rx.Option(rx.Char('a'), rx.Char('b')))
	if !simulate(n, start, []byte("a")) || !simulate(n, start, []byte("b")) {
		t.Error("expected 'a' and 'b' to both match")
	}
	if simulate(n, start, []byte("c")) {
		t.Error("expected 'c' not to match")
	}
}

func TestBuildStar(t *testing.T) {
	n, start := buildOne(t, rx.Star(rx.Char('a')))
	for _, in := range []string{"", "a", "aaaa"} {
		if !simulate(n, start, []byte(in)) {
			t.Errorf("expected %q to match a*", in)
		}
	}
	if simulate(n, start, []byte("b")) {
		t.Error("expected 'b' not to match a*")
	}
}

func TestBuildPlus(t *testing.T) {
	n, start := buildOne(t, rx.Plus(rx.Char('a')))
	if simulate(n, start, []byte("")) {
		t.Error("expected empty string not to match a+")
	}
	if !simulate(n, start, []byte("aaa")) {
		t.Error("expected 'aaa' to match a+")
	}
}

func TestBuildMaybe(t *testing.T) {
	n, start := buildOne(t, rx.Maybe(rx.Char('a')))
	if !simulate(n, start, []byte("")) || !simulate(n, start, []byte("a")) {
		t.Error("expected '' and 'a' to match a?")
	}
	if simulate(n, start, []byte("aa")) {
		t.Error("expected 'aa' not to match a?")
	}
}

func TestBuildNumBounded(t *testing.T) {
	min, max := uint32(2), uint32(4)
	n, start := buildOne(t, rx.Num(&min, &max, rx.Char('a')))
	cases := map[string]bool{"a": false, "aa": true, "aaa": true, "aaaa": true, "aaaaa": false}
	for in, want := range cases {
		if got := simulate(n, start, []byte(in)); got != want {
			t.Errorf("simulate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestBuildNumUnboundedMax(t *testing.T) {
	min := uint32(2)
	n, start := buildOne(t, rx.Num(&min, nil, rx.Char('a')))
	cases := map[string]bool{"a": false, "aa": true, "aaaaaaaa": true}
	for in, want := range cases {
		if got := simulate(n, start, []byte(in)); got != want {
			t.Errorf("simulate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestBuildNumNilMinTreatedAsZero(t *testing.T) {
	max := uint32(2)
	n, start := buildOne(t, rx.Num(nil, &max, rx.Char('a')))
	if !simulate(n, start, []byte("")) {
		t.Error("nil min should behave as 0: empty string should match {,2}")
	}
}

func TestBuildZero(t *testing.T) {
	n, start := buildOne(t, rx.Zero())
	if !simulate(n, start, []byte("")) {
		t.Error("Zero should match the empty string")
	}
}

func TestBuildParenIsInvariantViolation(t *testing.T) {
	_, err := BuildAll([]Rule{{Regex: &rx.Node{Kind: rx.KindParen}, Index: 1}}, []string{"A"})
	if err == nil {
		t.Fatal("expected error building a Paren node")
	}
}

func TestBuildAllStartStateFiltering(t *testing.T) {
	ruleS := Rule{Regex: rx.Char('x'), StartStates: map[string]bool{"S": true}, Index: 1}
	ruleT := Rule{Regex: rx.Char('x'), StartStates: map[string]bool{"T": true}, Index: 2}
	n, err := BuildAll([]Rule{ruleS, ruleT}, []string{"S", "T"})
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if !simulate(n, n.Starts["S"], []byte("x")) {
		t.Error("start state S should accept rule 1's pattern")
	}
	if simulate(n, n.Starts["T"], []byte("y")) {
		t.Error("start state T should not accept unrelated input")
	}
}

func TestBuildAllUnselectedRuleAppliesEverywhere(t *testing.T) {
	global := Rule{Regex: rx.Char('g'), Index: 1} // empty StartStates = every state
	scoped := Rule{Regex: rx.Char('s'), StartStates: map[string]bool{"S": true}, Index: 2}
	n, err := BuildAll([]Rule{global, scoped}, []string{"S", "T"})
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if !simulate(n, n.Starts["T"], []byte("g")) {
		t.Error("rule with no selector should be reachable from every start state")
	}
	if simulate(n, n.Starts["T"], []byte("s")) {
		t.Error("scoped rule should not be reachable from an unlisted start state")
	}
}

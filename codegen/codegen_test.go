package codegen

import (
	"strings"
	"testing"

	"github.com/moonlime-gen/moonlime/dfa"
	"github.com/moonlime-gen/moonlime/nfa"
	"github.com/moonlime-gen/moonlime/rx"
)

func buildSingleRuleDFA(t *testing.T) *dfa.DFA {
	t.Helper()
	n, err := nfa.BuildAll([]nfa.Rule{{Regex: rx.Char('a'), Index: 1}}, []string{"A"})
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	return dfa.Build(n, []string{"A"})
}

func TestBuildTablesRowsCoverAllStates(t *testing.T) {
	d := buildSingleRuleDFA(t)
	tables := BuildTables(d, []string{"A"}, "A")

	if len(tables.States) != len(d.States) {
		t.Fatalf("States len = %d, want %d", len(tables.States), len(d.States))
	}
	if len(tables.StartIDs) != 1 || tables.StartIDs[0] != uint32(d.Starts["A"]) {
		t.Errorf("StartIDs = %v", tables.StartIDs)
	}
	if tables.InitialOrdinal != 0 {
		t.Errorf("InitialOrdinal = %d, want 0", tables.InitialOrdinal)
	}

	// Every state's [TransStart, TransEnd) must index validly into the
	// flat transition array.
	for _, row := range tables.States {
		if row.TransStart > row.TransEnd || int(row.TransEnd) > len(tables.Transitions) {
			t.Fatalf("state row %+v out of bounds (len=%d)", row, len(tables.Transitions))
		}
	}
}

func TestBuildTablesMultipleStartStatesOrdinals(t *testing.T) {
	ruleS := nfa.Rule{Regex: rx.Char('x'), StartStates: map[string]bool{"S": true}, Index: 1}
	ruleT := nfa.Rule{Regex: rx.Char('y'), StartStates: map[string]bool{"T": true}, Index: 2}
	n, err := nfa.BuildAll([]nfa.Rule{ruleS, ruleT}, []string{"S", "T"})
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	d := dfa.Build(n, []string{"S", "T"})
	tables := BuildTables(d, []string{"S", "T"}, "T")

	if tables.InitialOrdinal != 1 {
		t.Errorf("InitialOrdinal = %d, want 1 (T is second-declared)", tables.InitialOrdinal)
	}
	if len(tables.StartIDs) != 2 {
		t.Fatalf("StartIDs = %v, want 2 entries", tables.StartIDs)
	}
}

func TestRenderActionsProducesCaseArms(t *testing.T) {
	actions := []Action{
		{Index: 1, Code: []byte(" foo(); ")},
		{Index: 2, Code: []byte(" bar(); ")},
	}
	out := RenderActions(actions)
	if !strings.Contains(out, "case 1: {  foo();  } break;") {
		t.Errorf("missing case 1 arm, got: %s", out)
	}
	if !strings.Contains(out, "case 2: {  bar();  } break;") {
		t.Errorf("missing case 2 arm, got: %s", out)
	}
}

func TestRenderStateDefs(t *testing.T) {
	d := buildSingleRuleDFA(t)
	tables := BuildTables(d, []string{"A"}, "A")
	out := RenderStateDefs(tables)
	for _, want := range []string{
		"#define YY_STATE_A 0",
		"#define YY_MAXSTATE 0",
		"#define YY_INITSTATE 0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderUstateFragmentsEmptyWhenUnset(t *testing.T) {
	if RenderUDecl(nil) != "" || RenderUArg(nil) != "" || RenderUParam(nil) != "" {
		t.Error("expected empty fragments when no %ustate was declared")
	}
}

func TestRenderUstateFragmentsWhenSet(t *testing.T) {
	ustate := []byte(" MyCtx * ")
	if got := RenderUDecl(ustate); got != ", MyCtx * user_data" {
		t.Errorf("RenderUDecl = %q", got)
	}
	if got := RenderUArg(ustate); got != ", user_data" {
		t.Errorf("RenderUArg = %q", got)
	}
	if got := RenderUParam(ustate); got != "user_data" {
		t.Errorf("RenderUParam = %q", got)
	}
}

func TestExpandSubstitutesAllPlaceholders(t *testing.T) {
	d := buildSingleRuleDFA(t)
	ctx := &Context{
		Tables:  BuildTables(d, []string{"A"}, "A"),
		Header:  []byte(" extern int x; "),
		Top:     []byte(" #include <y.h> "),
		Prefix:  "MyLexer",
		Actions: []Action{{Index: 1, Code: []byte(" ; ")}},
	}

	implOut := Expand([]byte(DefaultImplTemplate), ctx)
	if !strings.Contains(string(implOut), "extern int x;") {
		t.Error("HEADER block missing from implementation output")
	}
	if !strings.Contains(string(implOut), "#include <y.h>") {
		t.Error("TOP block missing from implementation output")
	}
	if !strings.Contains(string(implOut), "MyLexerInit") {
		t.Error("PREFIX substitution missing from implementation output")
	}
	if strings.Contains(string(implOut), "%") {
		t.Errorf("unresolved placeholder left in output:\n%s", implOut)
	}

	hdrOut := Expand([]byte(DefaultHeaderTemplate), ctx)
	if strings.Contains(string(hdrOut), "%") {
		t.Errorf("unresolved placeholder left in header output:\n%s", hdrOut)
	}
	if !strings.Contains(string(hdrOut), "YYML_MyLexer_HEADER") {
		t.Error("PREFIX substitution missing from header guard")
	}
}

func TestExpandLeavesUnknownPlaceholderLiteral(t *testing.T) {
	out := Expand([]byte("before %NOT_A_PLACEHOLDER% after"), &Context{Tables: &Tables{}})
	if string(out) != "before %NOT_A_PLACEHOLDER% after" {
		t.Errorf("got %q", out)
	}
}

package codegen

import (
	"fmt"
	"strings"
)

// Action is one rule's action-switch entry: its 1-based declaration
// index and its verbatim action code.
type Action struct {
	Index uint32
	Code  []byte
}

// Context bundles everything Expand needs to fill in a template: the
// serialized DFA tables, the spec's directive blocks, and the per-rule
// actions — the "out of scope, external collaborator" inputs spec.md §1
// defers to the driver.
type Context struct {
	Tables     *Tables
	Header     []byte
	Top        []byte
	Prefix     string
	Actions    []Action
	UstateType []byte
}

func (c *Context) prefix() string {
	if c.Prefix == "" {
		return "Lexer"
	}
	return c.Prefix
}

// RenderStateRows emits one C initializer row per DFA state:
// {done_num, trans_start, trans_end}.
func RenderStateRows(t *Tables) string {
	var sb strings.Builder
	for _, row := range t.States {
		fmt.Fprintf(&sb, "  {%d, %d, %d},\n", row.DoneNum, row.TransStart, row.TransEnd)
	}
	return sb.String()
}

// RenderTransRows emits one C initializer row per flat transition:
// { {condition_bits[32]}, dest_state_id }.
func RenderTransRows(t *Tables) string {
	var sb strings.Builder
	for _, row := range t.Transitions {
		sb.WriteString("  { {")
		for i, b := range row.Condition {
			if i > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, "0x%02X", b)
		}
		fmt.Fprintf(&sb, "}, %d },\n", row.Dest)
	}
	return sb.String()
}

// RenderStartIDs emits the initial-state-id array, one entry per start
// state ordinal.
func RenderStartIDs(t *Tables) string {
	var sb strings.Builder
	for i, id := range t.StartIDs {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d", id)
	}
	sb.WriteString(",\n")
	return sb.String()
}

// RenderStateDefs emits #defines for every start-state ordinal plus
// YY_MAXSTATE and YY_INITSTATE (spec.md §4.F).
func RenderStateDefs(t *Tables) string {
	var sb strings.Builder
	for i, name := range t.StartNames {
		fmt.Fprintf(&sb, "#define YY_STATE_%s %d\n", name, i)
	}
	fmt.Fprintf(&sb, "#define YY_MAXSTATE %d\n", len(t.StartNames)-1)
	fmt.Fprintf(&sb, "#define YY_INITSTATE %d\n", t.InitialOrdinal)
	return sb.String()
}

// RenderActions emits the dispatch switch's case arms, one per rule, in
// declaration order.
func RenderActions(actions []Action) string {
	var sb strings.Builder
	for _, a := range actions {
		fmt.Fprintf(&sb, "    case %d: { %s } break;\n", a.Index, a.Code)
	}
	return sb.String()
}

// userStateParamName is the fixed identifier used by the %UDECL%/%UARG%/
// %UPARAM% expansions (SPEC_FULL.md §5: %ustate is a supplemented
// directive with no original-source grounding for its exact spelling).
const userStateParamName = "user_data"

// RenderUDecl is the formal-parameter fragment spliced into a function
// signature: ", <type> user_data", or empty when no %ustate was declared.
func RenderUDecl(ustateType []byte) string {
	if len(ustateType) == 0 {
		return ""
	}
	return ", " + strings.TrimSpace(string(ustateType)) + " " + userStateParamName
}

// RenderUArg is the call-site fragment forwarding the same parameter:
// ", user_data", or empty when no %ustate was declared.
func RenderUArg(ustateType []byte) string {
	if len(ustateType) == 0 {
		return ""
	}
	return ", " + userStateParamName
}

// RenderUParam is the bare parameter name, or empty when no %ustate was
// declared.
func RenderUParam(ustateType []byte) string {
	if len(ustateType) == 0 {
		return ""
	}
	return userStateParamName
}

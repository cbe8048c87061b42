// Package moonlime compiles a lexical-scanner specification into a pair
// of generated C source files: an implementation file embedding a
// tabular DFA and longest-match driver, and an optional header declaring
// the lexer's entry points (spec.md §1, §6).
//
// Basic usage:
//
//	spec, err := os.ReadFile("tokens.ml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := moonlime.Compile(spec)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("yylex.c", out.Impl, 0644)
package moonlime

import (
	"github.com/moonlime-gen/moonlime/codegen"
	"github.com/moonlime-gen/moonlime/dfa"
	"github.com/moonlime-gen/moonlime/nfa"
	"github.com/moonlime-gen/moonlime/splex"
)

// Output holds the generated source. Header is nil unless Options.EmitHeader
// was set.
type Output struct {
	Impl   []byte
	Header []byte

	// Spec is the fully parsed input, exposed for callers that want the
	// verbose IR dump (cmd/moonlime's -v flag) without re-parsing.
	Spec *splex.Spec
}

// Options configures a compilation. The zero value uses the built-in
// templates and emits no header.
type Options struct {
	ImplTemplate   []byte
	HeaderTemplate []byte
	EmitHeader     bool
}

// Compile compiles specSource with the default templates and no header
// output — the common case.
func Compile(specSource []byte) (*Output, error) {
	return CompileWithOptions(specSource, Options{})
}

// MustCompile is like Compile but panics on error, for spec files known
// to be valid (e.g. embedded at build time).
func MustCompile(specSource []byte) *Output {
	out, err := Compile(specSource)
	if err != nil {
		panic(err)
	}
	return out
}

// CompileWithOptions runs the full pipeline: spec parsing, regex IR
// (performed inline by splex as it parses), Thompson NFA construction,
// subset construction, table serialization, and template expansion
// (spec.md §2's data-flow summary).
func CompileWithOptions(specSource []byte, opts Options) (*Output, error) {
	spec, err := splex.Parse(specSource)
	if err != nil {
		return nil, err
	}

	rules := make([]nfa.Rule, len(spec.Rules))
	actions := make([]codegen.Action, len(spec.Rules))
	for i, r := range spec.Rules {
		rules[i] = nfa.Rule{Regex: r.Regex, StartStates: r.StartStates, Index: r.Index}
		actions[i] = codegen.Action{Index: r.Index, Code: r.Action.Bytes()}
	}

	n, err := nfa.BuildAll(rules, spec.StartStates)
	if err != nil {
		return nil, err
	}
	d := dfa.Build(n, spec.StartStates)
	tables := codegen.BuildTables(d, spec.StartStates, spec.InitialState)

	ctx := &codegen.Context{
		Tables:     tables,
		Header:     spec.Header.Bytes(),
		Top:        spec.Top.Bytes(),
		Prefix:     spec.Prefix,
		Actions:    actions,
		UstateType: spec.UstateType.Bytes(),
	}

	implTemplate := opts.ImplTemplate
	if implTemplate == nil {
		implTemplate = []byte(codegen.DefaultImplTemplate)
	}

	out := &Output{
		Impl: codegen.Expand(implTemplate, ctx),
		Spec: spec,
	}

	if opts.EmitHeader {
		headerTemplate := opts.HeaderTemplate
		if headerTemplate == nil {
			headerTemplate = []byte(codegen.DefaultHeaderTemplate)
		}
		out.Header = codegen.Expand(headerTemplate, ctx)
	}

	return out, nil
}

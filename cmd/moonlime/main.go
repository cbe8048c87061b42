// Command moonlime compiles a ".ml" lexical-scanner specification into
// generated C source (spec.md §1, §6).
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/moonlime-gen/moonlime"
	"github.com/moonlime-gen/moonlime/internal/runner"
	"github.com/moonlime-gen/moonlime/splex"
	"github.com/projectdiscovery/gologger"
	fileutil "github.com/projectdiscovery/utils/file"
)

func main() {
	opts, err := runner.ParseFlags(os.Args[1:])
	if err != nil {
		gologger.Fatal().Msgf("could not read flags: %s", err)
	}

	if opts.InputPath == "" {
		gologger.Fatal().Msgf("moonlime: missing input file\nusage: moonlime [-v] [-o out.c] [-i [hdr.h]] input.ml")
	}
	if !fileutil.FileExists(opts.InputPath) {
		gologger.Fatal().Msgf("moonlime: input file not found: %s", opts.InputPath)
	}

	source, err := os.ReadFile(opts.InputPath)
	if err != nil {
		gologger.Fatal().Msgf("moonlime: could not read %s: %s", opts.InputPath, err)
	}

	out, err := moonlime.CompileWithOptions(source, moonlime.Options{EmitHeader: opts.EmitHeader})
	if err != nil {
		gologger.Error().Msgf("%s", err)
		os.Exit(1)
	}

	if opts.Verbose {
		printSpec(out.Spec)
	}

	if err := os.WriteFile(opts.OutputPath, out.Impl, 0o644); err != nil {
		gologger.Fatal().Msgf("moonlime: could not write %s: %s", opts.OutputPath, err)
	}
	gologger.Info().Msgf("wrote %s", opts.OutputPath)

	if opts.EmitHeader {
		if err := os.WriteFile(opts.HeaderPath, out.Header, 0o644); err != nil {
			gologger.Fatal().Msgf("moonlime: could not write %s: %s", opts.HeaderPath, err)
		}
		gologger.Info().Msgf("wrote %s", opts.HeaderPath)
	}
}

// printSpec dumps the parsed spec's shape to standard error under -v:
// each rule's regex as a parenthesized tree sketch, its start-state
// selector list, and its 1-based index, in declaration order
// (SPEC_FULL.md §5, matching mllexgen.c's -v behavior).
func printSpec(spec *splex.Spec) {
	gologger.Verbose().Msgf("start states: %v (initial: %s)", spec.StartStates, spec.InitialState)
	for _, r := range spec.Rules {
		states := "*"
		if len(r.StartStates) > 0 {
			states = fmt.Sprint(sortedKeys(r.StartStates))
		}
		gologger.Verbose().Msgf("rule %d: states=%s regex=%s", r.Index, states, r.Regex)
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

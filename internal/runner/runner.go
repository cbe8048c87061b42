// Package runner parses moonlime's command line into an Options value
// (spec.md §4.G, §6).
//
// goflags models long/short value flags well but has no notion of a
// positional argument or of a flag whose value is optional (present
// with no following token). -i's "enable header emission, optionally
// naming the header file" and the positional input.ml path both need
// that, so this package pre-scans os.Args for them before handing the
// remainder to a goflags.FlagSet for -v/-o. -i never consumes the
// following bare token as its value — `moonlime -i input.ml` must parse
// input.ml as the positional argument, not as the header path — so an
// explicit header path is only recognized as -i=hdr.h/--header=hdr.h.
package runner

import (
	"os"
	"strings"

	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"
)

// Options is the parsed command line.
type Options struct {
	InputPath  string
	OutputPath string
	EmitHeader bool
	HeaderPath string
	Verbose    bool
}

// headerFlags are every spelling of the header-emission switch this
// package recognizes during its pre-scan.
var headerFlags = map[string]bool{"-i": true, "--header": true}

// ParseFlags reads os.Args[1:], extracts -i/--header and the positional
// input path by hand, and runs the rest through goflags for -v/-o.
func ParseFlags(rawArgs []string) (*Options, error) {
	opts := &Options{}

	remaining, headerGiven, headerValue, inputPath := extractPositionalAndHeader(rawArgs)
	opts.InputPath = inputPath
	opts.EmitHeader = headerGiven

	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription("Moonlime compiles a lexical-scanner specification into generated C source.")

	flagSet.CreateGroup("output", "Output",
		flagSet.StringVarP(&opts.OutputPath, "output", "o", "yylex.c", "output file for the generated implementation"),
		flagSet.BoolVarP(&opts.Verbose, "verbose", "v", false, "print the parsed spec to standard error"),
	)

	// goflags.Parse reads os.Args itself; swap in the filtered argv for
	// the call and restore it immediately after.
	savedArgs := os.Args
	os.Args = append([]string{savedArgs[0]}, remaining...)
	err := flagSet.Parse()
	os.Args = savedArgs
	if err != nil {
		return nil, err
	}

	if opts.EmitHeader {
		opts.HeaderPath = headerValue
		if opts.HeaderPath == "" {
			opts.HeaderPath = deriveHeaderPath(opts.OutputPath)
		}
	}

	if opts.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}

	return opts, nil
}

// extractPositionalAndHeader walks args once, pulling out -i/--header
// (its value recognized only in attached =value form, never from a
// following token, so it can never swallow the positional path) and the
// sole positional token, and returns everything else untouched for
// goflags. The token after a separate -o/--output is that flag's value
// and stays with it, so it is never taken as the positional path.
func extractPositionalAndHeader(args []string) (remaining []string, headerGiven bool, headerValue, positional string) {
	remaining = make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if name, value, hasEq := strings.Cut(arg, "="); hasEq && headerFlags[name] {
			headerGiven = true
			headerValue = value
			continue
		}

		if headerFlags[arg] {
			headerGiven = true
			continue
		}

		if flag := strings.TrimLeft(arg, "-"); arg != flag && (flag == "o" || flag == "output") && i+1 < len(args) {
			remaining = append(remaining, arg, args[i+1])
			i++
			continue
		}

		if !strings.HasPrefix(arg, "-") && positional == "" {
			positional = arg
			continue
		}

		remaining = append(remaining, arg)
	}
	return remaining, headerGiven, headerValue, positional
}

// deriveHeaderPath implements -i's no-value fallback: replace the
// output path's .c suffix with .h, or fall back to yylex.h.
func deriveHeaderPath(outputPath string) string {
	if strings.HasSuffix(outputPath, ".c") {
		return strings.TrimSuffix(outputPath, ".c") + ".h"
	}
	return "yylex.h"
}

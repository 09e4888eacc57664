// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"

	"abc/internal/ast"
	"abc/internal/errors"
	"abc/internal/parser"
	"abc/internal/printer"
	"abc/internal/transform"
)

func main() {
	var (
		emitJSON  = flag.Bool("dump-json", false, "dump the optimized tree as JSON instead of pretty-printing it")
		coneFlag  = flag.Bool("cone-rewrite", false, "run the multiplicative-depth-minimizing cone rewriter after folding")
		maxUnroll = flag.Int("max-unroll", transform.DefaultOptions().MaxUnrollIterations, "maximum iterations a single for-loop may be speculatively unrolled to")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: abc-cli [flags] <file>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read %s: %s", path, err)
		os.Exit(1)
	}

	fns, err := parser.ParseSource(path, string(source))
	if err != nil {
		reportParseError(string(source), err)
		os.Exit(1)
	}

	opts := transform.DefaultOptions()
	opts.MaxUnrollIterations = *maxUnroll
	opts.ConeRewriterEnabled = *coneFlag
	engine := transform.New(opts)

	optimized, diag := engine.RunProgram(fns)
	if diag != nil {
		reportDiagnostic(string(source), diag)
		os.Exit(1)
	}

	for _, d := range engine.SoftDiagnostics() {
		reportSoftDiagnostic(d)
	}

	if *emitJSON {
		if err := emitJSONProgram(optimized); err != nil {
			color.Red("failed to marshal JSON: %s", err)
			os.Exit(1)
		}
	} else {
		for _, fn := range optimized {
			fmt.Println(printer.Print(fn))
		}
	}

	color.Green("✅ processed %s (%d function(s))", path, len(optimized))
}

func emitJSONProgram(fns []*ast.Function) error {
	for _, fn := range fns {
		data, err := ast.ToJSON(fn)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	}
	return nil
}

// reportParseError prints a friendly caret-style parse error message.
func reportParseError(src string, err error) {
	pe, ok := err.(participle.Error)
	if !ok {
		color.Red("unexpected error: %s", err)
		return
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("syntax error at unknown location: %s", err)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"

	color.Red("❌ syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	fmt.Printf("→ %s\n", pe.Message())
}

func reportDiagnostic(src string, d *errors.Diagnostic) {
	color.Red("❌ %s", d.Error())
	if d.Pos.Line <= 0 {
		return
	}
	lines := strings.Split(src, "\n")
	if d.Pos.Line > len(lines) {
		return
	}
	fmt.Println(lines[d.Pos.Line-1])
	if len(d.ScopeChain) > 0 {
		color.HiBlack("  in: %s", strings.Join(d.ScopeChain, " < "))
	}
}

func reportSoftDiagnostic(d *errors.Diagnostic) {
	color.Yellow("⚠ %s", d.Error())
}

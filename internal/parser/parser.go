// Package parser builds this engine's node model from surface source
// text. It is the external collaborator of the optimizer: a real
// participle-driven instance is included so the engine has a genuine
// front door and tests can build ASTs from source text instead of
// only hand-built trees.
package parser

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"

	"abc/grammar"
	"abc/internal/ast"
)

var build = mustBuildParser()

func mustBuildParser() *participle.Parser[grammar.SourceFile] {
	p, err := participle.Build[grammar.SourceFile](
		participle.Lexer(grammar.Lexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(3),
	)
	if err != nil {
		panic(fmt.Errorf("failed to build parser: %w", err))
	}
	return p
}

// ParseFile reads path and parses it into a slice of *ast.Function in
// declaration order.
func ParseFile(path string) ([]*ast.Function, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseSource(path, string(source))
}

// ParseSource parses source text (sourceName is used only for
// diagnostics/positions) into a slice of *ast.Function.
func ParseSource(sourceName, source string) ([]*ast.Function, error) {
	file, err := build.ParseString(sourceName, source)
	if err != nil {
		return nil, err
	}

	fns := make([]*ast.Function, 0, len(file.Functions))
	for _, gf := range file.Functions {
		fn, err := buildFunction(gf)
		if err != nil {
			return nil, err
		}
		fns = append(fns, fn)
	}
	return fns, nil
}

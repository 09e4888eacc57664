package printer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"abc/internal/ast"
	"abc/internal/printer"
)

func intType(pos ast.Position) *ast.Datatype { return ast.NewDatatype(pos, ast.PrimInt, false) }

func TestPrintRendersBinaryExpr(t *testing.T) {
	pos := ast.Position{Line: 1}
	expr := ast.NewBinaryExpr(pos,
		ast.NewIntLit(pos, 2, false), ast.NewOperator(pos, ast.OpAdd, "+"), ast.NewIntLit(pos, 3, false))
	assert.Equal(t, "2 + 3", printer.Print(expr))
}

func TestPrintRendersFunctionWithBlockBody(t *testing.T) {
	pos := ast.Position{Line: 1}
	decl := ast.NewVariableDeclaration(pos, intType(pos), "x", ast.NewIntLit(pos, 1, false))
	ret := ast.NewReturn(pos, ast.NewVariable(pos, "x"))
	fn := ast.NewFunction(pos, "f", nil, intType(pos), ast.NewBlock(pos, []ast.Node{decl, ret}))

	want := "fn f() -> int {\n    int x = 1;\n    return x;\n}"
	assert.Equal(t, want, printer.Print(fn))
}

func TestPrintRendersEmptyBlockWithoutNewline(t *testing.T) {
	pos := ast.Position{Line: 1}
	assert.Equal(t, "{}", printer.PrintBlock(ast.NewBlock(pos, nil)))
}

func TestPrintRendersForLoopHeader(t *testing.T) {
	pos := ast.Position{Line: 1}
	init := ast.NewVariableDeclaration(pos, intType(pos), "i", ast.NewIntLit(pos, 0, false))
	cond := ast.NewBinaryExpr(pos, ast.NewVariable(pos, "i"), ast.NewOperator(pos, ast.OpLt, "<"), ast.NewIntLit(pos, 3, false))
	update := ast.NewAssignment(pos, ast.NewVariable(pos, "i"),
		ast.NewBinaryExpr(pos, ast.NewVariable(pos, "i"), ast.NewOperator(pos, ast.OpAdd, "+"), ast.NewIntLit(pos, 1, false)))
	body := ast.NewBlock(pos, nil)
	forNode := ast.NewFor(pos, init, cond, update, body)

	want := "for (int i = 0; i < 3; i = i + 1) {}"
	assert.Equal(t, want, printer.Print(forNode))
}

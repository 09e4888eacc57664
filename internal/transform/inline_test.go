package transform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abc/internal/ast"
	"abc/internal/transform"
)

func TestSingleSiteCalleeIsInlined(t *testing.T) {
	pos := ast.Position{Line: 1}
	// fn square(int x) -> int { return x * x; }
	// fn main() -> int { return square(5); }
	squareParam := ast.NewFunctionParameter(pos, intType(pos), "x")
	squareRet := ast.NewReturn(pos, ast.NewBinaryExpr(pos,
		ast.NewVariable(pos, "x"), ast.NewOperator(pos, ast.OpMul, "*"), ast.NewVariable(pos, "x")))
	square := ast.NewFunction(pos, "square", []*ast.FunctionParameter{squareParam}, intType(pos),
		ast.NewBlock(pos, []ast.Node{squareRet}))

	call := ast.NewCall(pos, "square", []ast.Node{ast.NewIntLit(pos, 5, false)})
	mainRet := ast.NewReturn(pos, call)
	main := ast.NewFunction(pos, "main", nil, intType(pos), ast.NewBlock(pos, []ast.Node{mainRet}))

	e := transform.New(transform.DefaultOptions())
	out, diag := e.RunProgram([]*ast.Function{square, main})
	require.Nil(t, diag)

	folded := out[1]
	require.Len(t, folded.Body.Statements, 1)
	r := folded.Body.Statements[0].(*ast.Return)
	lit, ok := r.Value.(*ast.IntLit)
	require.True(t, ok, "single-site pure callee folds straight through to the call's result")
	assert.Equal(t, int64(25), lit.Value)
}

func TestCalleeWithMultipleCallSitesIsNotInlined(t *testing.T) {
	pos := ast.Position{Line: 1}
	// fn square(int x) -> int { return x * x; }
	// fn main() -> int { return square(2) + square(3); }
	squareParam := ast.NewFunctionParameter(pos, intType(pos), "x")
	squareRet := ast.NewReturn(pos, ast.NewBinaryExpr(pos,
		ast.NewVariable(pos, "x"), ast.NewOperator(pos, ast.OpMul, "*"), ast.NewVariable(pos, "x")))
	square := ast.NewFunction(pos, "square", []*ast.FunctionParameter{squareParam}, intType(pos),
		ast.NewBlock(pos, []ast.Node{squareRet}))

	callA := ast.NewCall(pos, "square", []ast.Node{ast.NewIntLit(pos, 2, false)})
	callB := ast.NewCall(pos, "square", []ast.Node{ast.NewIntLit(pos, 3, false)})
	sum := ast.NewBinaryExpr(pos, callA, ast.NewOperator(pos, ast.OpAdd, "+"), callB)
	main := ast.NewFunction(pos, "main", nil, intType(pos),
		ast.NewBlock(pos, []ast.Node{ast.NewReturn(pos, sum)}))

	e := transform.New(transform.DefaultOptions())
	out, diag := e.RunProgram([]*ast.Function{square, main})
	require.Nil(t, diag)

	folded := out[1]
	r := folded.Body.Statements[0].(*ast.Return)
	bin, ok := r.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	_, leftIsCall := bin.Left.(*ast.Call)
	_, rightIsCall := bin.Right.(*ast.Call)
	assert.True(t, leftIsCall && rightIsCall, "a callee with more than one call site must not be inlined")
}

package transform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abc/internal/ast"
	"abc/internal/transform"
)

func TestIfWithLiteralConditionInlinesTakenBranch(t *testing.T) {
	pos := ast.Position{Line: 1}
	// fn f() -> int { if (true) { return 1; } else { return 2; } }
	then := ast.NewBlock(pos, []ast.Node{ast.NewReturn(pos, ast.NewIntLit(pos, 1, false))})
	els := ast.NewBlock(pos, []ast.Node{ast.NewReturn(pos, ast.NewIntLit(pos, 2, false))})
	ifNode := ast.NewIf(pos, ast.NewBoolLit(pos, true, false), then, els)
	fn := ast.NewFunction(pos, "f", nil, intType(pos), ast.NewBlock(pos, []ast.Node{ifNode}))

	e := transform.New(transform.DefaultOptions())
	out, diag := e.RunFunction(fn)
	require.Nil(t, diag)
	require.Len(t, out.Body.Statements, 1)
	_, isIf := out.Body.Statements[0].(*ast.If)
	assert.False(t, isIf, "a literal-true condition must leave no trace of the If")
}

func TestIfWithUndecidableConditionMultiplexesSingleAssign(t *testing.T) {
	pos := ast.Position{Line: 1}
	// fn f(bool c) -> int { int x = 0; if (c) { x = 1; } else { x = 2; } return x; }
	param := ast.NewFunctionParameter(pos, ast.NewDatatype(pos, ast.PrimBool, false), "c")
	decl := ast.NewVariableDeclaration(pos, intType(pos), "x", ast.NewIntLit(pos, 0, false))
	then := ast.NewBlock(pos, []ast.Node{
		ast.NewAssignment(pos, ast.NewVariable(pos, "x"), ast.NewIntLit(pos, 1, false)),
	})
	els := ast.NewBlock(pos, []ast.Node{
		ast.NewAssignment(pos, ast.NewVariable(pos, "x"), ast.NewIntLit(pos, 2, false)),
	})
	ifNode := ast.NewIf(pos, ast.NewVariable(pos, "c"), then, els)
	ret := ast.NewReturn(pos, ast.NewVariable(pos, "x"))
	fn := ast.NewFunction(pos, "f", []*ast.FunctionParameter{param}, intType(pos),
		ast.NewBlock(pos, []ast.Node{decl, ifNode, ret}))

	e := transform.New(transform.DefaultOptions())
	out, diag := e.RunFunction(fn)
	require.Nil(t, diag)
	// the undecidable If must never survive structurally: it merges into
	// x's multiplexed value directly in the environment, which then
	// copy-propagates into the return the same way any absorbed value
	// would, leaving no trace of the If or of a separate assignment.
	require.Len(t, out.Body.Statements, 1)
	ret, ok := out.Body.Statements[0].(*ast.Return)
	require.True(t, ok)
	_, isBinary := ret.Value.(*ast.BinaryExpr)
	assert.True(t, isBinary, "the multiplexed value is c*1 + (1-c)*2")
}

func TestIfWithUndecidableConditionMultiplexesEveryTouchedVariable(t *testing.T) {
	pos := ast.Position{Line: 1}
	// fn f(bool c) -> int { int x = 0; int y = 0; if (c) { x = 1; y = 1; } else { x = 2; } return x + y; }
	// y is untouched by the else branch, so its else-term must be the
	// "unchanged" shortcut (y itself), not a missing multiplex. Both x
	// and y are read in the return so both multiplexed values actually
	// surface in the residual program rather than folding away unread.
	param := ast.NewFunctionParameter(pos, ast.NewDatatype(pos, ast.PrimBool, false), "c")
	declX := ast.NewVariableDeclaration(pos, intType(pos), "x", ast.NewIntLit(pos, 0, false))
	declY := ast.NewVariableDeclaration(pos, intType(pos), "y", ast.NewIntLit(pos, 0, false))
	then := ast.NewBlock(pos, []ast.Node{
		ast.NewAssignment(pos, ast.NewVariable(pos, "x"), ast.NewIntLit(pos, 1, false)),
		ast.NewAssignment(pos, ast.NewVariable(pos, "y"), ast.NewIntLit(pos, 1, false)),
	})
	els := ast.NewBlock(pos, []ast.Node{
		ast.NewAssignment(pos, ast.NewVariable(pos, "x"), ast.NewIntLit(pos, 2, false)),
	})
	ifNode := ast.NewIf(pos, ast.NewVariable(pos, "c"), then, els)
	ret := ast.NewReturn(pos, ast.NewBinaryExpr(pos,
		ast.NewVariable(pos, "x"), ast.NewOperator(pos, ast.OpAdd, "+"), ast.NewVariable(pos, "y")))
	fn := ast.NewFunction(pos, "f", []*ast.FunctionParameter{param}, intType(pos),
		ast.NewBlock(pos, []ast.Node{declX, declY, ifNode, ret}))

	e := transform.New(transform.DefaultOptions())
	out, diag := e.RunFunction(fn)
	require.Nil(t, diag)
	// a ciphertext condition can never drive runtime control flow, so no
	// structural If may survive — both x and y must come out as
	// multiplexed values folded directly into the return.
	require.Len(t, out.Body.Statements, 1)
	for _, s := range out.Body.Statements {
		_, isIf := s.(*ast.If)
		assert.False(t, isIf, "an undecidable If over plain-assignment branches must never be kept structural")
	}
	ret2, ok := out.Body.Statements[0].(*ast.Return)
	require.True(t, ok)
	sum, ok := ret2.Value.(*ast.BinaryExpr)
	require.True(t, ok, "the return value is x's multiplex plus y's multiplex")
	_, isBinary := sum.Left.(*ast.BinaryExpr)
	assert.True(t, isBinary, "x's multiplex is c*1 + (1-c)*2")
	yBin, ok := sum.Right.(*ast.BinaryExpr)
	require.True(t, ok, "y's multiplex is c*1 + (1-c)*y, the unchanged shortcut for the else side")
	elseTerm, ok := yBin.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	elseVar, ok := elseTerm.Right.(*ast.Variable)
	require.True(t, ok, "the else branch never touches y, so its term must reference y itself")
	assert.Equal(t, "y", elseVar.Identifier)
}

func TestIfWithNonAssignmentBranchIsKeptStructural(t *testing.T) {
	pos := ast.Position{Line: 1}
	// fn f(bool c) -> int { int x = 0; if (c) { int y = 1; x = y; } else { x = 2; } return x; }
	// the then-branch contains a declaration, not just a plain-Variable
	// assignment, so there is no well-defined "value at the end of this
	// branch" for y to multiplex against — the If must stay structural.
	param := ast.NewFunctionParameter(pos, ast.NewDatatype(pos, ast.PrimBool, false), "c")
	declX := ast.NewVariableDeclaration(pos, intType(pos), "x", ast.NewIntLit(pos, 0, false))
	then := ast.NewBlock(pos, []ast.Node{
		ast.NewVariableDeclaration(pos, intType(pos), "y", ast.NewIntLit(pos, 1, false)),
		ast.NewAssignment(pos, ast.NewVariable(pos, "x"), ast.NewVariable(pos, "y")),
	})
	els := ast.NewBlock(pos, []ast.Node{
		ast.NewAssignment(pos, ast.NewVariable(pos, "x"), ast.NewIntLit(pos, 2, false)),
	})
	ifNode := ast.NewIf(pos, ast.NewVariable(pos, "c"), then, els)
	ret := ast.NewReturn(pos, ast.NewVariable(pos, "x"))
	fn := ast.NewFunction(pos, "f", []*ast.FunctionParameter{param}, intType(pos),
		ast.NewBlock(pos, []ast.Node{declX, ifNode, ret}))

	e := transform.New(transform.DefaultOptions())
	out, diag := e.RunFunction(fn)
	require.Nil(t, diag)
	var foundIf bool
	for _, s := range out.Body.Statements {
		if _, ok := s.(*ast.If); ok {
			foundIf = true
		}
	}
	assert.True(t, foundIf, "a branch with a non-assignment statement can't multiplex and must remain a structural If")
}

package transform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abc/internal/ast"
	"abc/internal/printer"
	"abc/internal/transform"
)

func intType(pos ast.Position) *ast.Datatype { return ast.NewDatatype(pos, ast.PrimInt, false) }

func TestConstantFoldingOfBinaryExpr(t *testing.T) {
	pos := ast.Position{Line: 1}
	// fn f() -> int { return 2 + 3; }
	ret := ast.NewReturn(pos, ast.NewBinaryExpr(pos,
		ast.NewIntLit(pos, 2, false), ast.NewOperator(pos, ast.OpAdd, "+"), ast.NewIntLit(pos, 3, false)))
	fn := ast.NewFunction(pos, "f", nil, intType(pos), ast.NewBlock(pos, []ast.Node{ret}))

	e := transform.New(transform.DefaultOptions())
	out, diag := e.RunFunction(fn)
	require.Nil(t, diag)
	require.Len(t, out.Body.Statements, 1)
	r := out.Body.Statements[0].(*ast.Return)
	lit, ok := r.Value.(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(5), lit.Value)
}

func TestVariableDeclarationAbsorbedAndPropagated(t *testing.T) {
	pos := ast.Position{Line: 1}
	decl := ast.NewVariableDeclaration(pos, intType(pos), "x", ast.NewIntLit(pos, 10, false))
	ret := ast.NewReturn(pos, ast.NewVariable(pos, "x"))
	fn := ast.NewFunction(pos, "f", nil, intType(pos), ast.NewBlock(pos, []ast.Node{decl, ret}))

	e := transform.New(transform.DefaultOptions())
	out, diag := e.RunFunction(fn)
	require.Nil(t, diag)
	// declaration absorbed away, only the return remains
	require.Len(t, out.Body.Statements, 1)
	r := out.Body.Statements[0].(*ast.Return)
	lit, ok := r.Value.(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(10), lit.Value)
}

func TestNonLiteralDeclarationIsAbsorbedAndCopyPropagated(t *testing.T) {
	pos := ast.Position{Line: 1}
	// fn f(int a) -> int { int x = a + 1; return x; }
	// x's initializer is foldable but not a literal (a is an unresolved
	// parameter); the declaration must still be absorbed and dropped,
	// substituting "a + 1" at the later read the same way a literal
	// would be.
	param := ast.NewFunctionParameter(pos, intType(pos), "a")
	decl := ast.NewVariableDeclaration(pos, intType(pos), "x", ast.NewBinaryExpr(pos,
		ast.NewVariable(pos, "a"), ast.NewOperator(pos, ast.OpAdd, "+"), ast.NewIntLit(pos, 1, false)))
	ret := ast.NewReturn(pos, ast.NewVariable(pos, "x"))
	fn := ast.NewFunction(pos, "f", []*ast.FunctionParameter{param}, intType(pos),
		ast.NewBlock(pos, []ast.Node{decl, ret}))

	e := transform.New(transform.DefaultOptions())
	out, diag := e.RunFunction(fn)
	require.Nil(t, diag)
	require.Len(t, out.Body.Statements, 1, "the declaration absorbs away even though its value isn't a literal")
	r := out.Body.Statements[0].(*ast.Return)
	bin, ok := r.Value.(*ast.BinaryExpr)
	require.True(t, ok, "the return value is the copy-propagated expression a + 1")
	v, ok := bin.Left.(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "a", v.Identifier)
	lit, ok := bin.Right.(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(1), lit.Value)
}

func TestIndexAssignmentToKnownIndexBuildsSparseExpressionList(t *testing.T) {
	pos := ast.Position{Line: 1}
	// fn f(int img) -> int { int img2; img2[5] = 2 * img[1]; return img2; }
	// img2 has no initializer and img is an unresolved parameter, so
	// neither the declaration's absence of a value nor the assigned
	// expression's non-literal-ness should block absorption: the known
	// index (5) still lets the whole statement collapse into one slot of
	// img2's symbolic ExpressionList, leaving a single residual Return.
	param := ast.NewFunctionParameter(pos, intType(pos), "img")
	decl := ast.NewVariableDeclaration(pos, intType(pos), "img2", nil)
	target := ast.NewIndexAccess(pos, ast.NewVariable(pos, "img2"), ast.NewIntLit(pos, 5, false))
	rhs := ast.NewBinaryExpr(pos, ast.NewIntLit(pos, 2, false), ast.NewOperator(pos, ast.OpMul, "*"),
		ast.NewIndexAccess(pos, ast.NewVariable(pos, "img"), ast.NewIntLit(pos, 1, false)))
	assign := ast.NewAssignment(pos, target, rhs)
	ret := ast.NewReturn(pos, ast.NewVariable(pos, "img2"))
	fn := ast.NewFunction(pos, "f", []*ast.FunctionParameter{param}, intType(pos),
		ast.NewBlock(pos, []ast.Node{decl, assign, ret}))

	e := transform.New(transform.DefaultOptions())
	out, diag := e.RunFunction(fn)
	require.Nil(t, diag)
	require.Len(t, out.Body.Statements, 1, "the declaration and the known-index assignment both absorb away")
	r := out.Body.Statements[0].(*ast.Return)
	list, ok := r.Value.(*ast.ExpressionList)
	require.True(t, ok, "img2's folded value is a sparse ExpressionList built from the single known-index write")
	require.Equal(t, 6, list.Len())
	for i := 0; i < 5; i++ {
		_, isNone := list.At(i).(*ast.NoneExpr)
		assert.True(t, isNone, "slot %d was never written and must stay none", i)
	}
	bin, ok := list.At(5).(*ast.BinaryExpr)
	require.True(t, ok, "slot 5 holds the folded, still-symbolic 2 * img[1]")
	lit, ok := bin.Left.(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(2), lit.Value)
	idx, ok := bin.Right.(*ast.IndexAccess)
	require.True(t, ok, "img[1] can't be resolved further since img is an unresolved parameter")
	imgVar, ok := idx.Target.(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "img", imgVar.Identifier)
}

func TestDivideByZeroIsNotFolded(t *testing.T) {
	pos := ast.Position{Line: 1}
	ret := ast.NewReturn(pos, ast.NewBinaryExpr(pos,
		ast.NewIntLit(pos, 1, false), ast.NewOperator(pos, ast.OpDiv, "/"), ast.NewIntLit(pos, 0, false)))
	fn := ast.NewFunction(pos, "f", nil, intType(pos), ast.NewBlock(pos, []ast.Node{ret}))

	e := transform.New(transform.DefaultOptions())
	out, diag := e.RunFunction(fn)
	require.Nil(t, diag)
	r := out.Body.Statements[0].(*ast.Return)
	_, isBinary := r.Value.(*ast.BinaryExpr)
	assert.True(t, isBinary, "division by zero must be left unfolded")
	require.Len(t, e.SoftDiagnostics(), 1)
}

func TestIfFoldsDecidableCondition(t *testing.T) {
	pos := ast.Position{Line: 1}
	then := ast.NewBlock(pos, []ast.Node{ast.NewReturn(pos, ast.NewIntLit(pos, 1, false))})
	els := ast.NewBlock(pos, []ast.Node{ast.NewReturn(pos, ast.NewIntLit(pos, 2, false))})
	ifNode := ast.NewIf(pos, ast.NewBoolLit(pos, true, false), then, els)
	fn := ast.NewFunction(pos, "f", nil, intType(pos), ast.NewBlock(pos, []ast.Node{ifNode}))

	e := transform.New(transform.DefaultOptions())
	out, diag := e.RunFunction(fn)
	require.Nil(t, diag)
	require.Len(t, out.Body.Statements, 1)
	r, ok := out.Body.Statements[0].(*ast.Return)
	require.True(t, ok)
	assert.Equal(t, int64(1), r.Value.(*ast.IntLit).Value)
}

func TestForLoopRollsBackOnUndecidableCondition(t *testing.T) {
	pos := ast.Position{Line: 1}
	// fn f(int n) -> int { int acc = 0; for (int i = 0; i < n; i = i + 1) { acc = acc + i; } return acc; }
	param := ast.NewFunctionParameter(pos, intType(pos), "n")
	accDecl := ast.NewVariableDeclaration(pos, intType(pos), "acc", ast.NewIntLit(pos, 0, false))
	init := ast.NewVariableDeclaration(pos, intType(pos), "i", ast.NewIntLit(pos, 0, false))
	cond := ast.NewBinaryExpr(pos, ast.NewVariable(pos, "i"), ast.NewOperator(pos, ast.OpLt, "<"), ast.NewVariable(pos, "n"))
	update := ast.NewAssignment(pos, ast.NewVariable(pos, "i"),
		ast.NewBinaryExpr(pos, ast.NewVariable(pos, "i"), ast.NewOperator(pos, ast.OpAdd, "+"), ast.NewIntLit(pos, 1, false)))
	body := ast.NewBlock(pos, []ast.Node{
		ast.NewAssignment(pos, ast.NewVariable(pos, "acc"),
			ast.NewBinaryExpr(pos, ast.NewVariable(pos, "acc"), ast.NewOperator(pos, ast.OpAdd, "+"), ast.NewVariable(pos, "i"))),
	})
	forNode := ast.NewFor(pos, init, cond, update, body)
	ret := ast.NewReturn(pos, ast.NewVariable(pos, "acc"))
	fn := ast.NewFunction(pos, "f", []*ast.FunctionParameter{param}, intType(pos),
		ast.NewBlock(pos, []ast.Node{accDecl, forNode, ret}))

	e := transform.New(transform.DefaultOptions())
	out, diag := e.RunFunction(fn)
	require.Nil(t, diag)
	// "acc" was absorbed into the environment (its declaration dropped)
	// before the loop was ever reached, so rolling back to a structural
	// fold must re-materialize it ahead of the loop: the rest of the
	// function still reads it, and a half-finished speculation must not
	// leave a dangling reference to a variable with no declaration or
	// assignment anywhere in the residual code. "i" must still be
	// declarable too: a leftover "already declared" binding from a
	// half-finished speculation would break that.
	require.Len(t, out.Body.Statements, 3)
	_, isAssign := out.Body.Statements[0].(*ast.Assignment)
	assert.True(t, isAssign, "loop-carried outer variable must be re-materialized before the loop")
	_, isFor := out.Body.Statements[1].(*ast.For)
	assert.True(t, isFor, "undecidable condition must roll back to a structural For")
	_, isReturn := out.Body.Statements[2].(*ast.Return)
	assert.True(t, isReturn)
}

func TestForLoopSpeculativelyUnrolls(t *testing.T) {
	pos := ast.Position{Line: 1}
	// fn f() -> int { int acc = 0; for (int i = 0; i < 3; i = i + 1) { acc = acc + i; } return acc; }
	accDecl := ast.NewVariableDeclaration(pos, intType(pos), "acc", ast.NewIntLit(pos, 0, false))
	init := ast.NewVariableDeclaration(pos, intType(pos), "i", ast.NewIntLit(pos, 0, false))
	cond := ast.NewBinaryExpr(pos, ast.NewVariable(pos, "i"), ast.NewOperator(pos, ast.OpLt, "<"), ast.NewIntLit(pos, 3, false))
	update := ast.NewAssignment(pos, ast.NewVariable(pos, "i"),
		ast.NewBinaryExpr(pos, ast.NewVariable(pos, "i"), ast.NewOperator(pos, ast.OpAdd, "+"), ast.NewIntLit(pos, 1, false)))
	body := ast.NewBlock(pos, []ast.Node{
		ast.NewAssignment(pos, ast.NewVariable(pos, "acc"),
			ast.NewBinaryExpr(pos, ast.NewVariable(pos, "acc"), ast.NewOperator(pos, ast.OpAdd, "+"), ast.NewVariable(pos, "i"))),
	})
	forNode := ast.NewFor(pos, init, cond, update, body)
	ret := ast.NewReturn(pos, ast.NewVariable(pos, "acc"))
	fn := ast.NewFunction(pos, "f", nil, intType(pos), ast.NewBlock(pos, []ast.Node{accDecl, forNode, ret}))

	e := transform.New(transform.DefaultOptions())
	out, diag := e.RunFunction(fn)
	require.Nil(t, diag, printer.Print(fn))
	require.Len(t, out.Body.Statements, 1, "for loop and its carried variables should fully fold away")
	r := out.Body.Statements[0].(*ast.Return)
	lit, ok := r.Value.(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(0+1+2), lit.Value)
}

package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abc/internal/ast"
	"abc/internal/parser"
)

func TestParseSourceBuildsExpectedTree(t *testing.T) {
	src := `
fn add(secret int a, int b) -> int {
	int c = a + b;
	return c;
}
`
	fns, err := parser.ParseSource("add.abc", src)
	require.NoError(t, err)
	require.Len(t, fns, 1)

	fn := fns[0]
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Variable)
	assert.True(t, fn.Params[0].Type.Secret)
	assert.Equal(t, ast.PrimInt, fn.Params[0].Type.Primitive)
	assert.False(t, fn.Params[1].Type.Secret)

	require.Len(t, fn.Body.Statements, 2)
	decl, ok := fn.Body.Statements[0].(*ast.VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, "c", decl.Target)
	bin, ok := decl.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, bin.Op.Kind_)

	ret, ok := fn.Body.Statements[1].(*ast.Return)
	require.True(t, ok)
	v, ok := ret.Value.(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "c", v.Identifier)
}

func TestParseSourceFHEOperatorAliases(t *testing.T) {
	src := `
fn mix(secret int a, secret int b) -> secret int {
	return a ⊗ b;
}
`
	fns, err := parser.ParseSource("mix.abc", src)
	require.NoError(t, err)
	require.Len(t, fns, 1)

	ret := fns[0].Body.Statements[0].(*ast.Return)
	bin := ret.Value.(*ast.BinaryExpr)
	assert.Equal(t, ast.OpFHEMul, bin.Op.Kind_)
}

func TestParseSourceExternCall(t *testing.T) {
	src := `
fn rnd() -> int {
	return extern random_int();
}
`
	fns, err := parser.ParseSource("rnd.abc", src)
	require.NoError(t, err)

	ret := fns[0].Body.Statements[0].(*ast.Return)
	call, ok := ret.Value.(*ast.CallExternal)
	require.True(t, ok)
	assert.Equal(t, "random_int", call.Name)
}

func TestParseSourceRejectsSyntaxError(t *testing.T) {
	_, err := parser.ParseSource("bad.abc", "fn f( -> int { return 1; }")
	assert.Error(t, err)
}

func TestParseSourceForLoopHeader(t *testing.T) {
	src := `
fn sum(int n) -> int {
	int total = 0;
	for (int i = 0; i < n; i = i + 1) {
		total = total + i;
	}
	return total;
}
`
	fns, err := parser.ParseSource("sum.abc", src)
	require.NoError(t, err)

	forStmt, ok := fns[0].Body.Statements[1].(*ast.For)
	require.True(t, ok)
	require.NotNil(t, forStmt.Init)
	require.NotNil(t, forStmt.Cond)
	require.NotNil(t, forStmt.Update)
}

package cone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abc/internal/ast"
	"abc/internal/cone"
)

func and(pos ast.Position, l, r ast.Node) ast.Node {
	return ast.NewLogicalExpr(pos, l, ast.NewOperator(pos, ast.OpAnd, "&&"), r)
}
func xor(pos ast.Position, l, r ast.Node) ast.Node {
	return ast.NewLogicalExpr(pos, l, ast.NewOperator(pos, ast.OpLogicalXor, "^"), r)
}

func TestRewriteFactorsSharedMultiplicand(t *testing.T) {
	pos := ast.Position{Line: 1}
	a := ast.NewVariable(pos, "a")
	b := ast.NewVariable(pos, "b")
	// (a && c) ^ (b && c)  ->  (a ^ b) && c
	expr := xor(pos, and(pos, a, ast.NewVariable(pos, "c")), and(pos, b, ast.NewVariable(pos, "c")))

	out, saved := cone.Rewrite(expr)
	require.Equal(t, 1, saved)

	top, ok := out.(*ast.LogicalExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpAnd, top.Op.Kind_)

	inner, ok := top.Left.(*ast.LogicalExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpLogicalXor, inner.Op.Kind_)
}

func TestRewriteIsNoOpWithoutSharedFactor(t *testing.T) {
	pos := ast.Position{Line: 1}
	a := ast.NewVariable(pos, "a")
	b := ast.NewVariable(pos, "b")
	c := ast.NewVariable(pos, "c")
	d := ast.NewVariable(pos, "d")
	expr := xor(pos, and(pos, a, b), and(pos, c, d))

	_, saved := cone.Rewrite(expr)
	assert.Equal(t, 0, saved)
}

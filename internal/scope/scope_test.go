package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abc/internal/ast"
	"abc/internal/errors"
	"abc/internal/scope"
)

func TestDeclareResolve(t *testing.T) {
	env := scope.New()
	pos := ast.Position{Line: 1}
	id, diag := env.Declare(pos, 1, "x", ast.NewDatatype(pos, ast.PrimInt, false))
	require.Nil(t, diag)

	resolved, diag := env.Resolve(pos, 2, "x")
	require.Nil(t, diag)
	assert.Equal(t, id, resolved)
}

func TestRedeclarationInSameScopeFails(t *testing.T) {
	env := scope.New()
	pos := ast.Position{Line: 1}
	_, diag := env.Declare(pos, 1, "x", ast.NewDatatype(pos, ast.PrimInt, false))
	require.Nil(t, diag)

	_, diag = env.Declare(pos, 2, "x", ast.NewDatatype(pos, ast.PrimInt, false))
	require.NotNil(t, diag)
	assert.Equal(t, errors.CodeRedeclaration, diag.Code)
}

func TestShadowingInChildScopeSucceeds(t *testing.T) {
	env := scope.New()
	pos := ast.Position{Line: 1}
	_, diag := env.Declare(pos, 1, "x", ast.NewDatatype(pos, ast.PrimInt, false))
	require.Nil(t, diag)

	_, diag = env.EnterScope("Block", 2)
	require.Nil(t, diag)

	_, diag = env.Declare(pos, 3, "x", ast.NewDatatype(pos, ast.PrimInt, false))
	assert.Nil(t, diag)
}

func TestResolveUnbound(t *testing.T) {
	env := scope.New()
	pos := ast.Position{Line: 1}
	_, diag := env.Resolve(pos, 1, "missing")
	require.NotNil(t, diag)
}

func TestExitScopeUnderflow(t *testing.T) {
	env := scope.New()
	diag := env.ExitScope()
	require.NotNil(t, diag)
}

func TestSnapshotRestoreRoundtrips(t *testing.T) {
	env := scope.New()
	pos := ast.Position{Line: 1}
	id, _ := env.Declare(pos, 1, "x", ast.NewDatatype(pos, ast.PrimInt, false))
	env.Put(id, ast.NewIntLit(pos, 1, false))

	snap := env.Snapshot()
	env.Put(id, ast.NewIntLit(pos, 2, false))
	b, _ := env.Get(id)
	assert.Equal(t, int64(2), b.Value.(*ast.IntLit).Value)

	env.Restore(snap)
	b, _ = env.Get(id)
	assert.Equal(t, int64(1), b.Value.(*ast.IntLit).Value)
}

func TestScopeChainInnermostFirst(t *testing.T) {
	env := scope.New()
	fn, _ := env.EnterScope("Function(f)", 1)
	_ = fn
	blk, _ := env.EnterScope("Block", 2)
	chain := scope.Chain(blk)
	require.Len(t, chain, 3)
	assert.Equal(t, []string{"Block#2", "Function(f)#1", "Root#0"}, chain)
}

package cone

import "abc/internal/ast"

// RewriteStatements applies Rewrite to every expression reachable
// from a function body's residual statements: assignment/declaration
// values, return values, and If/For/While conditions, recursing into
// nested blocks. It is the entry point internal/transform calls when
// ConeRewriterEnabled is set, run once the transformation engine has
// converged so the rewriter only ever sees the fully-folded program
// (the cone rewriter's job is circuit shape, not constant folding).
func RewriteStatements(stmts []ast.Node) []ast.Node {
	out := make([]ast.Node, len(stmts))
	for i, s := range stmts {
		out[i] = rewriteStatement(s)
	}
	return out
}

func rewriteStatement(s ast.Node) ast.Node {
	switch n := s.(type) {
	case *ast.VariableDeclaration:
		if n.Value == nil {
			return n
		}
		value, _ := Rewrite(n.Value)
		return ast.NewVariableDeclaration(n.Pos(), n.Type, n.Target, value)
	case *ast.Assignment:
		value, _ := Rewrite(n.Value)
		return ast.NewAssignment(n.Pos(), n.Target, value)
	case *ast.Return:
		if n.Value == nil {
			return n
		}
		value, _ := Rewrite(n.Value)
		return ast.NewReturn(n.Pos(), value)
	case *ast.If:
		cond, _ := Rewrite(n.Cond)
		then := ast.NewBlock(n.Then.Pos(), RewriteStatements(n.Then.Statements))
		var els *ast.Block
		if n.Else != nil {
			els = ast.NewBlock(n.Else.Pos(), RewriteStatements(n.Else.Statements))
		}
		return ast.NewIf(n.Pos(), cond, then, els)
	case *ast.For:
		cond, _ := Rewrite(n.Cond)
		body := ast.NewBlock(n.Body.Pos(), RewriteStatements(n.Body.Statements))
		return ast.NewFor(n.Pos(), n.Init, cond, n.Update, body)
	case *ast.While:
		cond, _ := Rewrite(n.Cond)
		body := ast.NewBlock(n.Body.Pos(), RewriteStatements(n.Body.Statements))
		return ast.NewWhile(n.Pos(), cond, body)
	default:
		return s
	}
}

package cone

import "abc/internal/ast"

// Rewrite runs the full pipeline (build circuit, compute depths, find
// cones, select non-overlapping ones, rewrite each site in place) over
// a single expression tree and returns the rewritten tree plus how
// many multiplicative gates were eliminated. It is a no-op (returns
// root unchanged, 0) for any root ast.SupportsCircuitMode rejects.
func Rewrite(root ast.Node) (ast.Node, int) {
	if root == nil || !ast.SupportsCircuitMode(root) {
		return root, 0
	}
	c := BuildCircuit(root)
	d := ComputeDepths(c)
	cones := SelectNonOverlapping(FindCones(c, d))
	if len(cones) == 0 {
		return root, 0
	}

	replacements := make(map[ast.NodeID]ast.Node, len(cones))
	saved := 0
	for _, cn := range cones {
		replacements[cn.Site.ID()] = factor(cn)
		saved += len(cn.Members) - 1
	}

	return substitute(root, replacements), saved
}

// factor builds `(t1 XOR t2 XOR ... XOR tk) AND shared` from a cone,
// using the critical gate's own operator kind for both the inner XOR
// chain and the outer AND so FHE-alias operators round-trip (an FHE
// ciphertext-multiply cone factors into an FHE-ciphertext-multiply of
// an FHE-ciphertext-add chain, not a plaintext one).
func factor(cn *Cone) ast.Node {
	xorOp := xorOperatorLike(cn.Critical)
	andOp := mulOperatorLike(cn.Critical)

	sum := cn.Terms[0]
	for _, t := range cn.Terms[1:] {
		sum = newLike(cn.Critical, sum, xorOp, t)
	}
	return newLike(cn.Critical, sum, andOp, cn.Shared)
}

func xorOperatorLike(n ast.Node) *ast.Operator {
	switch v := n.(type) {
	case *ast.BinaryExpr:
		if v.Op.Kind_ == ast.OpFHEMul {
			return ast.NewOperator(n.Pos(), ast.OpFHEAdd, "⊕")
		}
		return ast.NewOperator(n.Pos(), ast.OpAdd, "+")
	case *ast.LogicalExpr:
		return ast.NewOperator(n.Pos(), ast.OpLogicalXor, "^")
	}
	return ast.NewOperator(n.Pos(), ast.OpAdd, "+")
}

func mulOperatorLike(n ast.Node) *ast.Operator {
	switch v := n.(type) {
	case *ast.BinaryExpr:
		return ast.NewOperator(n.Pos(), v.Op.Kind_, v.Op.Symbol)
	case *ast.LogicalExpr:
		return ast.NewOperator(n.Pos(), v.Op.Kind_, v.Op.Symbol)
	}
	return ast.NewOperator(n.Pos(), ast.OpAnd, "&&")
}

func newLike(template ast.Node, left ast.Node, op *ast.Operator, right ast.Node) ast.Node {
	switch template.(type) {
	case *ast.LogicalExpr:
		return ast.NewLogicalExpr(template.Pos(), left, op, right)
	default:
		return ast.NewBinaryExpr(template.Pos(), left, op, right)
	}
}

// substitute rebuilds root, replacing any node whose id is a key of
// replacements with its mapped value (and not recursing further into
// a replaced subtree, since the replacement is already fully formed).
func substitute(n ast.Node, replacements map[ast.NodeID]ast.Node) ast.Node {
	if n == nil {
		return nil
	}
	if r, ok := replacements[n.ID()]; ok {
		return r
	}
	switch v := n.(type) {
	case *ast.BinaryExpr:
		return ast.NewBinaryExpr(v.Pos(), substitute(v.Left, replacements), v.Op, substitute(v.Right, replacements))
	case *ast.LogicalExpr:
		return ast.NewLogicalExpr(v.Pos(), substitute(v.Left, replacements), v.Op, substitute(v.Right, replacements))
	case *ast.UnaryExpr:
		return ast.NewUnaryExpr(v.Pos(), v.Op, substitute(v.Operand, replacements))
	case *ast.Group:
		return ast.NewGroup(v.Pos(), substitute(v.Expr, replacements))
	default:
		return n
	}
}

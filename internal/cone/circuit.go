// Package cone implements a multiplicative-depth-minimizing boolean
// circuit rewriter: a read-only circuit view over the subset of node
// kinds ast.SupportsCircuitMode accepts, multiplicative depth (md/rmd)
// precomputation, critical-path detection, cone construction and
// non-overlapping selection, and an in-place rewrite that factors a
// shared multiplicand out of a chain of XOR-ed AND gates to shorten
// the critical path.
//
// The circuit view is built fresh by BuildCircuit on every call; it
// never mutates the tree's Parent()/Children() edges to obtain a
// reversed adjacency.
package cone

import "abc/internal/ast"

// Circuit is a read-only index over an expression subtree: a parent
// map and a post-order (bottom-up) node list, both scoped to nodes
// ast.SupportsCircuitMode accepts.
type Circuit struct {
	root   ast.Node
	order  []ast.Node // post-order, leaves first
	parent map[ast.NodeID]ast.Node
}

// BuildCircuit walks root and produces its circuit view.
func BuildCircuit(root ast.Node) *Circuit {
	c := &Circuit{parent: make(map[ast.NodeID]ast.Node)}
	if root == nil || !ast.SupportsCircuitMode(root) {
		return c
	}
	c.root = root
	var visit func(n ast.Node, parent ast.Node)
	visit = func(n ast.Node, parent ast.Node) {
		if n == nil || !ast.SupportsCircuitMode(n) {
			return
		}
		if parent != nil {
			c.parent[n.ID()] = parent
		}
		for _, child := range n.Children() {
			visit(child, n)
		}
		c.order = append(c.order, n)
	}
	visit(root, nil)
	return c
}

// Root returns the circuit's output node.
func (c *Circuit) Root() ast.Node { return c.root }

// PostOrder returns nodes leaves-first, each node preceding its
// parent — the order md() precomputation consumes.
func (c *Circuit) PostOrder() []ast.Node { return c.order }

// Parent returns n's parent within the circuit view, or nil at the
// root.
func (c *Circuit) Parent(n ast.Node) ast.Node { return c.parent[n.ID()] }

// isMultiplicativeGate reports whether n is a binary gate whose
// operator counts toward multiplicative depth.
func isMultiplicativeGate(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.BinaryExpr:
		return v.Op.IsMultiplicative()
	case *ast.LogicalExpr:
		return v.Op.IsMultiplicative()
	}
	return false
}

// isXORGate reports whether n is a binary gate whose operator is an
// XOR/addition (the "free" gates the cone rewriter can chain through
// without increasing depth).
func isXORGate(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.BinaryExpr:
		return v.Op.Kind_ == ast.OpAdd || v.Op.Kind_ == ast.OpFHEAdd || v.Op.Kind_ == ast.OpBXor
	case *ast.LogicalExpr:
		return v.Op.Kind_ == ast.OpLogicalXor || v.Op.Kind_ == ast.OpBXor
	}
	return false
}

func operandsOf(n ast.Node) (ast.Node, ast.Node, bool) {
	switch v := n.(type) {
	case *ast.BinaryExpr:
		return v.Left, v.Right, true
	case *ast.LogicalExpr:
		return v.Left, v.Right, true
	}
	return nil, nil, false
}

package cone

import "abc/internal/ast"

// Depths maps every node in a circuit view to its multiplicative
// depth from the inputs (md) and to the output (rmd). A node lies on
// the critical path exactly when md(n)+rmd(n) equals the circuit's
// overall depth, md(root).
type Depths struct {
	md map[ast.NodeID]int
	rm map[ast.NodeID]int
}

// ComputeDepths runs md() bottom-up over c's post-order, then rmd()
// top-down from the root: a two-pass precomputation of multiplicative
// depth in each direction. A non-binary node (Group, UnaryExpr) takes
// the largest md of its children and passes its own rmd down to them
// unchanged.
func ComputeDepths(c *Circuit) *Depths {
	d := &Depths{md: make(map[ast.NodeID]int), rm: make(map[ast.NodeID]int)}
	if c.root == nil {
		return d
	}

	for _, n := range c.order {
		left, right, isBinary := operandsOf(n)
		if !isBinary {
			depth := 0
			for _, ch := range n.Children() {
				if ch != nil {
					depth = maxOf(depth, d.md[ch.ID()])
				}
			}
			d.md[n.ID()] = depth
			continue
		}
		depth := maxOf(d.md[left.ID()], d.md[right.ID()])
		if isMultiplicativeGate(n) {
			depth++
		}
		d.md[n.ID()] = depth
	}

	d.rm[c.root.ID()] = 0
	for i := len(c.order) - 1; i >= 0; i-- {
		n := c.order[i]
		left, right, isBinary := operandsOf(n)
		if !isBinary {
			for _, ch := range n.Children() {
				propagate(d, ch, d.rm[n.ID()])
			}
			continue
		}
		bump := 0
		if isMultiplicativeGate(n) {
			bump = 1
		}
		propagate(d, left, d.rm[n.ID()]+bump)
		propagate(d, right, d.rm[n.ID()]+bump)
	}
	return d
}

func propagate(d *Depths, n ast.Node, candidate int) {
	if n == nil {
		return
	}
	if cur, ok := d.rm[n.ID()]; !ok || candidate > cur {
		d.rm[n.ID()] = candidate
	}
}

func maxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// MD and RMD return the precomputed depths for n (zero if n was never
// visited by ComputeDepths).
func (d *Depths) MD(n ast.Node) int  { return d.md[n.ID()] }
func (d *Depths) RMD(n ast.Node) int { return d.rm[n.ID()] }

// CriticalDepth returns md(root): the circuit's overall multiplicative
// depth, L* in the depth-minimization literature's notation.
func (d *Depths) CriticalDepth(root ast.Node) int { return d.md[root.ID()] }

// OnCriticalPath reports whether n lies on some longest input-to-
// output multiplicative path.
func (d *Depths) OnCriticalPath(n ast.Node, root ast.Node) bool {
	return d.md[n.ID()]+d.rm[n.ID()] == d.CriticalDepth(root)
}

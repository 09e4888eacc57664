package cone

import "abc/internal/ast"

// Cone is a maximal group of AND/Mul gates that are combined purely
// through XOR gates and that all share one common operand. The cone
// is grown from Critical, a member on the circuit's critical path; the
// others were reached by walking up through the XOR chain above it and
// may lie on the critical path as well.
// Rewriting factors the shared operand out of every member, replacing
// k multiplications at the same depth with one.
type Cone struct {
	// Critical is the multiplicative gate on the critical path that
	// anchors this cone.
	Critical ast.Node
	// Site is the topmost XOR gate whose subtree is entirely covered by
	// this cone's members; Rewrite replaces Site with the factored form.
	Site ast.Node
	// Shared is the operand common to every member gate.
	Shared ast.Node
	// Terms are each member's other operand (the ones XOR-ed together
	// under the factored form).
	Terms []ast.Node
	// Members are the original multiplicative gates covered by this
	// cone, used by non-overlap selection.
	Members []ast.Node
}

// FindCones runs Algorithm 1 over a circuit view: for every critical
// multiplicative gate, it tries to grow a cone by walking upward
// through the enclosing XOR chain, looking for sibling multiplicative
// gates that share one of the critical gate's own operands. A gate
// that cannot be grown (no shared operand found, or it isn't reached
// purely through XOR gates) still contributes a trivial single-member
// cone so callers can treat "nothing to factor" uniformly.
func FindCones(c *Circuit, d *Depths) []*Cone {
	var cones []*Cone
	seen := make(map[ast.NodeID]bool)

	for _, n := range c.order {
		if !isMultiplicativeGate(n) || !d.OnCriticalPath(n, c.root) || seen[n.ID()] {
			continue
		}
		cone := growCone(c, n)
		for _, m := range cone.Members {
			seen[m.ID()] = true
		}
		cones = append(cones, cone)
	}
	return cones
}

// growCone walks upward from the critical gate through consecutive
// XOR parents, collecting every other multiplicative gate reachable
// as an XOR operand along the way. The shared operand isn't fixed in
// advance: it is discovered from the first sibling gate found, by
// intersecting the critical gate's two operands with the sibling's
// two operands (structural equality). It stops the first time a
// parent isn't an XOR gate, the sibling isn't a multiplicative gate,
// or (once a shared operand is known) a later sibling doesn't carry
// it.
func growCone(c *Circuit, critical ast.Node) *Cone {
	criticalLeft, criticalRight, ok := operandsOf(critical)
	if !ok {
		return &Cone{Critical: critical, Site: critical, Members: []ast.Node{critical}}
	}

	var shared ast.Node
	var terms []ast.Node
	members := []ast.Node{critical}
	site := critical

	for {
		parent := c.Parent(site)
		if parent == nil || !isXORGate(parent) {
			break
		}
		left, right, _ := operandsOf(parent)
		var sibling ast.Node
		if left.ID() == site.ID() {
			sibling = right
		} else if right.ID() == site.ID() {
			sibling = left
		} else {
			break
		}
		if !isMultiplicativeGate(sibling) {
			break
		}

		if shared == nil {
			sLeft, sRight, _ := operandsOf(sibling)
			switch {
			case ast.Equal(criticalLeft, sLeft):
				shared, terms = criticalLeft, []ast.Node{criticalRight, sRight}
			case ast.Equal(criticalLeft, sRight):
				shared, terms = criticalLeft, []ast.Node{criticalRight, sLeft}
			case ast.Equal(criticalRight, sLeft):
				shared, terms = criticalRight, []ast.Node{criticalLeft, sRight}
			case ast.Equal(criticalRight, sRight):
				shared, terms = criticalRight, []ast.Node{criticalLeft, sLeft}
			default:
				return &Cone{Critical: critical, Site: critical, Members: members}
			}
			members = append(members, sibling)
			site = parent
			continue
		}

		term, matched := matchesShared(sibling, shared)
		if !matched {
			break
		}
		terms = append(terms, term)
		members = append(members, sibling)
		site = parent
	}

	if len(members) == 1 {
		return &Cone{Critical: critical, Site: critical, Members: members}
	}
	return &Cone{Critical: critical, Site: site, Shared: shared, Terms: terms, Members: members}
}

// matchesShared reports whether n is a multiplicative gate with
// shared as one of its two operands (compared structurally, not by
// identity, so two syntactically identical sub-expressions still
// match), returning its other operand as the term.
func matchesShared(n ast.Node, shared ast.Node) (ast.Node, bool) {
	if !isMultiplicativeGate(n) {
		return nil, false
	}
	left, right, _ := operandsOf(n)
	if ast.Equal(left, shared) {
		return right, true
	}
	if ast.Equal(right, shared) {
		return left, true
	}
	return nil, false
}

// SelectNonOverlapping implements Algorithm 3: cones are considered
// largest-first (most members factored), and a cone is kept only if
// none of its member gates were already claimed by a previously kept
// cone. growCone does not consult claimed gates, so cones grown from
// different critical gates can overlap; this greedy rule resolves that
// overlap and does not search for the subset that removes the most
// gates.
func SelectNonOverlapping(cones []*Cone) []*Cone {
	ordered := append([]*Cone(nil), cones...)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && len(ordered[j].Members) > len(ordered[j-1].Members); j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	claimed := make(map[ast.NodeID]bool)
	var selected []*Cone
	for _, cn := range ordered {
		if len(cn.Members) < 2 {
			continue
		}
		overlaps := false
		for _, m := range cn.Members {
			if claimed[m.ID()] {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}
		for _, m := range cn.Members {
			claimed[m.ID()] = true
		}
		selected = append(selected, cn)
	}
	return selected
}

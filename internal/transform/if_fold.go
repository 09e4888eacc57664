package transform

import (
	"abc/internal/ast"
	"abc/internal/errors"
	"abc/internal/scope"
	"abc/internal/walk"
)

// foldIf resolves an If against the current environment. A literal
// condition inlines the taken branch outright, spliced into the parent
// Block so a dead branch leaves no trace in the residual program. An
// undecidable condition over two branches that are each nothing but
// plain-variable assignments is merged, one multiplexed value per
// variable either branch touches, written straight into the
// environment: a ciphertext condition can never drive runtime control
// flow, so that shape must never leave a structural If behind. Anything
// else — a branch with a declaration, a nested If/For/While, an
// index-access write — has no well-defined "value at the end of this
// branch" to multiplex against, so both branches are folded for real
// and the If is kept structural, with every variable either branch
// could have written blinded to none.
func (e *Engine) foldIf(n *ast.If) ([]ast.Node, *errors.Diagnostic) {
	w := walk.New(e, nil)
	cond, diag := w.Walk(n.Cond)
	if diag != nil {
		return nil, diag
	}

	if b, ok := asBool(cond); ok {
		if b {
			thenBody, diag := e.foldNestedBlock(n.Then)
			if diag != nil {
				return nil, diag
			}
			return thenBody.Statements, nil
		}
		if n.Else == nil {
			return nil, nil
		}
		elseBody, diag := e.foldNestedBlock(n.Else)
		if diag != nil {
			return nil, diag
		}
		return elseBody.Statements, nil
	}

	thenNames, thenOK := plainAssignTargets(n.Then)
	elseNames, elseOK := plainAssignTargets(n.Else)

	if thenOK && elseOK {
		merged, order, diag := e.multiplexBranches(n.Pos(), n.ID(), cond, n.Then, n.Else, thenNames, elseNames)
		if diag != nil {
			return nil, diag
		}
		for _, name := range order {
			id, diag := e.env.Resolve(n.Pos(), n.ID(), name)
			if diag != nil {
				return nil, diag
			}
			e.env.Put(id, merged[name])
		}
		return nil, nil
	}

	snapshot := e.env.Snapshot()
	thenBody, diag := e.foldNestedBlock(n.Then)
	if diag != nil {
		return nil, diag
	}
	e.env.Restore(snapshot)

	var elseBody *ast.Block
	if n.Else != nil {
		elseBody, diag = e.foldNestedBlock(n.Else)
		if diag != nil {
			return nil, diag
		}
		e.env.Restore(snapshot)
	}

	e.invalidateWritten(n.Pos(), n.ID(), n.Then, n.Else)
	return []ast.Node{ast.NewIf(n.Pos(), cond, thenBody, elseBody)}, nil
}

// multiplexBranches folds then and els each against their own restore
// point of the current environment — Else never sees Then's mutations —
// captures the post-fold value of every name either branch assigns (by
// reading straight from the environment, since a plain-variable
// assignment absorbs into its binding and leaves no trace in the
// folded statement list), and combines them into
// cond*thenValue + (1-cond)*elseValue per name. A name one branch never
// touches uses a reference to the name itself as that branch's value —
// the "unchanged" shortcut — since that branch leaves it exactly as the
// pre-If environment held it.
func (e *Engine) multiplexBranches(pos ast.Position, nodeID ast.NodeID, cond ast.Node, then, els *ast.Block, thenNames, elseNames []string) (map[string]ast.Node, []string, *errors.Diagnostic) {
	snapshot := e.env.Snapshot()

	if _, diag := e.foldNestedBlock(then); diag != nil {
		return nil, nil, diag
	}
	thenVals, diag := e.captureValues(pos, nodeID, thenNames)
	if diag != nil {
		return nil, nil, diag
	}
	e.env.Restore(snapshot)

	elseVals := map[string]ast.Node{}
	if els != nil {
		if _, diag := e.foldNestedBlock(els); diag != nil {
			return nil, nil, diag
		}
		elseVals, diag = e.captureValues(pos, nodeID, elseNames)
		if diag != nil {
			return nil, nil, diag
		}
		e.env.Restore(snapshot)
	}

	order := mergeOrder(thenNames, elseNames)
	oneMinusCond := ast.NewBinaryExpr(pos, ast.NewIntLit(pos, 1, false), ast.NewOperator(pos, ast.OpSub, "-"), cond)

	merged := make(map[string]ast.Node, len(order))
	for _, name := range order {
		thenValue, ok := thenVals[name]
		if !ok {
			thenValue = ast.NewVariable(pos, name)
		}
		elseValue, ok := elseVals[name]
		if !ok {
			elseValue = ast.NewVariable(pos, name)
		}

		condTerm := mulTerm(pos, cond, thenValue)
		elseTerm := mulTerm(pos, oneMinusCond, elseValue)
		merged[name] = addTerm(pos, condTerm, elseTerm)
	}
	return merged, order, nil
}

// plainAssignTargets reports the ordered, deduplicated list of variable
// names that blk's top-level statements assign, and whether every
// statement in blk is a plain-variable-target Assignment. A nil block
// (an absent else) trivially qualifies with no names — this must run
// against the ORIGINAL, pre-fold statements, since folding absorbs and
// drops exactly the statements this check needs to see.
func plainAssignTargets(blk *ast.Block) ([]string, bool) {
	if blk == nil {
		return nil, true
	}
	var names []string
	seen := make(map[string]bool)
	for _, s := range blk.Statements {
		assign, ok := s.(*ast.Assignment)
		if !ok {
			return nil, false
		}
		target, ok := assign.Target.(*ast.Variable)
		if !ok {
			return nil, false
		}
		if !seen[target.Identifier] {
			seen[target.Identifier] = true
			names = append(names, target.Identifier)
		}
	}
	return names, true
}

// mergeOrder concatenates thenNames followed by any elseNames not
// already present, preserving each side's own order.
func mergeOrder(thenNames, elseNames []string) []string {
	seen := make(map[string]bool, len(thenNames)+len(elseNames))
	order := make([]string, 0, len(thenNames)+len(elseNames))
	for _, name := range thenNames {
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	for _, name := range elseNames {
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	return order
}

// captureValues reads each name's current symbolic value straight out
// of the environment. Meant to run immediately after folding a branch
// that just assigned those names, before the environment is restored
// away from that branch's effects.
func (e *Engine) captureValues(pos ast.Position, nodeID ast.NodeID, names []string) (map[string]ast.Node, *errors.Diagnostic) {
	vals := make(map[string]ast.Node, len(names))
	for _, name := range names {
		id, diag := e.env.Resolve(pos, nodeID, name)
		if diag != nil {
			return nil, diag
		}
		binding, ok := e.env.Get(id)
		if !ok {
			return nil, errors.Internal(errors.CodeMissingEnvEntry, pos, nodeID, scope.Chain(e.env.Current()),
				"resolved identifier %q has no environment entry", name)
		}
		vals[name] = binding.Value
	}
	return vals, nil
}

// invalidateWritten blinds to none every variable either branch could
// have written. Used when an If is kept structural: the actual write
// is runtime-dependent, so whatever symbolic value the environment
// held for that name before the If can no longer be trusted afterward.
func (e *Engine) invalidateWritten(pos ast.Position, nodeID ast.NodeID, blocks ...*ast.Block) {
	names := make(map[string]bool)
	for _, blk := range blocks {
		collectWrites(blk, names)
	}
	for name := range names {
		id, diag := e.env.Resolve(pos, nodeID, name)
		if diag != nil {
			continue
		}
		e.env.Put(id, nil)
	}
}

func collectWrites(blk *ast.Block, out map[string]bool) {
	if blk == nil {
		return
	}
	for _, s := range blk.Statements {
		collectStmtWrites(s, out)
	}
}

// collectStmtWrites recurses into nested If/For/While bodies (but not
// their own declared locals) so invalidateWritten blinds every outer
// name an arbitrarily-shaped branch could reach, not just its
// top-level statements.
func collectStmtWrites(s ast.Node, out map[string]bool) {
	switch v := s.(type) {
	case *ast.Assignment:
		switch target := v.Target.(type) {
		case *ast.Variable:
			out[target.Identifier] = true
		case *ast.IndexAccess:
			if base, ok := target.Target.(*ast.Variable); ok {
				out[base.Identifier] = true
			}
		}
	case *ast.If:
		collectWrites(v.Then, out)
		collectWrites(v.Else, out)
	case *ast.For:
		collectStmtWrites(v.Init, out)
		collectStmtWrites(v.Update, out)
		collectWrites(v.Body, out)
	case *ast.While:
		collectWrites(v.Body, out)
	}
}

// mulTerm returns cond*v, shortcutting to v when cond is the literal 1
// and to the int literal 0 when cond is the literal 0, so a
// known-false branch doesn't leave a multiply-by-zero in the residual
// program.
func mulTerm(pos ast.Position, cond, v ast.Node) ast.Node {
	if i, ok := asInt(cond); ok {
		if i == 1 {
			return v
		}
		if i == 0 {
			return zeroLike(pos, v)
		}
	}
	return ast.NewBinaryExpr(pos, cond, ast.NewOperator(pos, ast.OpMul, "*"), v)
}

func addTerm(pos ast.Position, a, b ast.Node) ast.Node {
	if isZeroLit(a) {
		return b
	}
	if isZeroLit(b) {
		return a
	}
	return ast.NewBinaryExpr(pos, a, ast.NewOperator(pos, ast.OpAdd, "+"), b)
}

func isZeroLit(n ast.Node) bool {
	if i, ok := asInt(n); ok {
		return i == 0
	}
	return false
}

func zeroLike(pos ast.Position, v ast.Node) ast.Node {
	return ast.NewIntLit(pos, 0, litSecret(v))
}

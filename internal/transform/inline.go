package transform

import (
	"abc/internal/ast"
	"abc/internal/errors"
	"abc/internal/walk"
)

// countCallSites records, for every function name, how many Call
// nodes across the whole program target it — the inliner only
// considers a callee whose count is exactly one.
func countCallSites(functions []*ast.Function, counts map[string]int) {
	var walkNode func(ast.Node)
	walkNode = func(n ast.Node) {
		if n == nil {
			return
		}
		if call, ok := n.(*ast.Call); ok {
			counts[call.Callee]++
		}
		for _, c := range n.Children() {
			walkNode(c)
		}
	}
	for _, fn := range functions {
		walkNode(fn.Body)
	}
}

// nodeCount returns the number of nodes in n's subtree, used against
// InlineCallNodeThreshold.
func nodeCount(n ast.Node) int {
	if n == nil {
		return 0
	}
	count := 1
	for _, c := range n.Children() {
		count += nodeCount(c)
	}
	return count
}

// visitCall inlines a call when: the callee is known, it is called
// from exactly one site in the whole program, its body contains no
// nested Return other than a single trailing one (so substitution is
// just "replace the call with that final expression"), and its node
// count is at or under InlineCallNodeThreshold. Anything else folds
// the call's arguments and leaves the call in place for a later
// lowering stage.
func (e *Engine) visitCall(w *walk.Walker, v *ast.Call) (walk.Action, *errors.Diagnostic) {
	args := make([]ast.Node, len(v.Args))
	for i, a := range v.Args {
		next, diag := w.Walk(a)
		if diag != nil {
			return walk.Action{}, diag
		}
		args[i] = next
	}
	folded := ast.NewCall(v.Pos(), v.Callee, args)

	callee, known := e.functions[v.Callee]
	if !known || e.callSites[v.Callee] != 1 {
		return walk.ReplaceAction(folded), nil
	}
	if nodeCount(callee.Body) > e.opts.InlineCallNodeThreshold {
		return walk.ReplaceAction(folded), nil
	}
	retValue, ok := singleTrailingReturn(callee.Body)
	if !ok {
		return walk.ReplaceAction(folded), nil
	}
	if len(callee.Params) != len(args) {
		return walk.Action{}, errors.ArityMismatch(v.Pos(), v.ID(), v.Callee, nil, v.Callee, len(callee.Params), len(args))
	}

	if _, diag := e.env.EnterScope("Call("+v.Callee+")", v.ID()); diag != nil {
		return walk.Action{}, diag
	}
	defer e.env.ExitScope()

	for i, param := range callee.Params {
		id, diag := e.env.Declare(param.Pos(), param.ID(), param.Variable, param.Type)
		if diag != nil {
			return walk.Action{}, diag
		}
		e.env.Put(id, args[i])
	}

	inlineWalker := walk.New(e, nil)
	inlinedReturn, diag := inlineWalker.Walk(retValue)
	if diag != nil {
		return walk.Action{}, diag
	}
	return walk.ReplaceAction(inlinedReturn), nil
}

// singleTrailingReturn reports whether body's only Return statement
// is its final statement, and if so returns its value expression.
func singleTrailingReturn(body *ast.Block) (ast.Node, bool) {
	if body == nil || len(body.Statements) == 0 {
		return nil, false
	}
	for _, s := range body.Statements[:len(body.Statements)-1] {
		if containsReturn(s) {
			return nil, false
		}
	}
	last, ok := body.Statements[len(body.Statements)-1].(*ast.Return)
	if !ok || last.Value == nil {
		return nil, false
	}
	return last.Value, true
}

func containsReturn(n ast.Node) bool {
	if n == nil {
		return false
	}
	if _, ok := n.(*ast.Return); ok {
		return true
	}
	for _, c := range n.Children() {
		if containsReturn(c) {
			return true
		}
	}
	return false
}

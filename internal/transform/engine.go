package transform

import (
	"fmt"

	"abc/internal/ast"
	"abc/internal/cone"
	"abc/internal/errors"
	"abc/internal/scope"
	"abc/internal/walk"
)

// Engine applies the program-transformation rules to a Function body.
// One Engine instance is scoped to a single pass invocation, matching
// the environment's own lifetime.
type Engine struct {
	opts        Options
	env         *scope.Environment
	unrollDepth int
	functions   map[string]*ast.Function
	callSites   map[string]int
	soft        []*errors.Diagnostic
}

// New creates an Engine with the given options and an empty
// environment.
func New(opts Options) *Engine {
	return &Engine{opts: opts, env: scope.New(), functions: make(map[string]*ast.Function), callSites: make(map[string]int)}
}

// SoftDiagnostics returns the RuntimeFoldError diagnostics accumulated
// across every fold attempted so far.
func (e *Engine) SoftDiagnostics() []*errors.Diagnostic { return e.soft }

// RunProgram applies the engine to every function in program, in
// declaration order, making single-site pure callees visible to the
// inliner before their call sites are folded.
func (e *Engine) RunProgram(functions []*ast.Function) ([]*ast.Function, *errors.Diagnostic) {
	for _, fn := range functions {
		e.functions[fn.Name] = fn
	}
	countCallSites(functions, e.callSites)

	out := make([]*ast.Function, 0, len(functions))
	for _, fn := range functions {
		next, diag := e.RunFunction(fn)
		if diag != nil {
			return nil, diag
		}
		out = append(out, next)
	}
	return out, nil
}

// RunFunction folds a single function's body, opening and closing its
// own scope so the environment returns to its pre-call depth
// regardless of outcome.
func (e *Engine) RunFunction(fn *ast.Function) (*ast.Function, *errors.Diagnostic) {
	if _, diag := e.env.EnterScope(fmt.Sprintf("Function(%s)", fn.Name), fn.ID()); diag != nil {
		return nil, diag
	}
	defer e.env.ExitScope()

	for _, param := range fn.Params {
		if _, diag := e.env.Declare(param.Pos(), param.ID(), param.Variable, param.Type); diag != nil {
			return nil, diag
		}
	}

	body, diag := e.foldStatements(fn.Body.Statements)
	if diag != nil {
		return nil, diag
	}
	if e.opts.ConeRewriterEnabled {
		body = cone.RewriteStatements(body)
	}
	return ast.NewFunction(fn.Pos(), fn.Name, fn.Params, fn.ReturnType, ast.NewBlock(fn.Body.Pos(), body)), nil
}

// foldStatements is the per-Block residual-statement builder. If and
// For can each expand one statement into zero, one, or many residual
// statements (a taken branch's whole body, a rolled-back loop's
// re-materialization prologue, ...), which the Traversal Framework's
// Keep/Replace/Remove Action has no way to express — an Action always
// maps one input statement to at most one output statement — so those
// two kinds are expanded in a pre-pass here, before the rest of the
// block (declarations, assignments, while-loops, returns — all
// genuinely 1:1-or-dropped) is handed to Walker.WalkBlock, which drives
// the same dispatch (Engine.Visit) used for expression subtrees.
func (e *Engine) foldStatements(stmts []ast.Node) ([]ast.Node, *errors.Diagnostic) {
	expanded := make([]ast.Node, 0, len(stmts))
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.If:
			next, diag := e.foldIf(n)
			if diag != nil {
				return nil, diag
			}
			expanded = append(expanded, next...)
		case *ast.For:
			next, diag := e.foldFor(n)
			if diag != nil {
				return nil, diag
			}
			expanded = append(expanded, next...)
		default:
			expanded = append(expanded, s)
		}
	}

	return walk.New(e, nil).WalkBlock(expanded)
}

func (e *Engine) foldNestedBlock(blk *ast.Block) (*ast.Block, *errors.Diagnostic) {
	if _, diag := e.env.EnterScope("Block", blk.ID()); diag != nil {
		return nil, diag
	}
	defer e.env.ExitScope()
	stmts, diag := e.foldStatements(blk.Statements)
	if diag != nil {
		return nil, diag
	}
	return ast.NewBlock(blk.Pos(), stmts), nil
}

// foldVariableDeclaration declares the target, folds its initializer,
// and records the (possibly none) folded value as the binding's
// symbolic value so later reads substitute it verbatim — a variable
// with no initializer records none, same as one whose initializer
// folded to something other than a literal. Absorbing the declaration
// into the environment always erases it from the residual program:
// runtime code never needs the declaration statement itself, only the
// substitutions it authorizes at each later read.
func (e *Engine) foldVariableDeclaration(w *walk.Walker, n *ast.VariableDeclaration) (ast.Node, *errors.Diagnostic) {
	var value ast.Node
	var diag *errors.Diagnostic
	if n.Value != nil {
		value, diag = w.Walk(n.Value)
		if diag != nil {
			return nil, diag
		}
	}

	id, diag := e.env.Declare(n.Pos(), n.ID(), n.Target, n.Type)
	if diag != nil {
		return nil, diag
	}
	e.env.Put(id, value)
	return nil, nil // absorbed; dropped from residual program
}

// foldAssignment folds the right-hand side and updates the
// environment's symbolic value for the target. A plain-variable
// target always absorbs the folded value — literal or not — and the
// assignment is dropped: "value present" means "provably equals this
// expression", not "provably equals this literal", so any well-defined
// RHS is recorded and substituted at later reads the same way a
// literal would be. Index-access targets update one slot of the
// target's ExpressionList binding, growing it with none-fillers as
// needed, and are dropped too when the index itself is compile-time-
// known (the slot update fully captures the write regardless of
// whether the stored value is itself literal); when the index isn't
// known, the assignment remains in the residual program and the whole
// array's value is invalidated to none, since which slot changed can't
// be determined at compile time.
func (e *Engine) foldAssignment(w *walk.Walker, n *ast.Assignment) (ast.Node, *errors.Diagnostic) {
	return e.foldAssignmentKeeping(w, n, false)
}

// foldAssignmentKeeping folds n exactly as foldAssignment does — the
// environment is updated identically either way — but when keep is
// true it always returns the reconstructed statement instead of
// dropping it on full absorption. The For loop's structural fold uses
// keep=true for the Update clause: once a loop-carried variable has
// been blinded, the absorb-and-drop rule would otherwise erase the
// only place that variable's per-iteration write still appears in the
// residual program.
func (e *Engine) foldAssignmentKeeping(w *walk.Walker, n *ast.Assignment, keep bool) (ast.Node, *errors.Diagnostic) {
	value, diag := w.Walk(n.Value)
	if diag != nil {
		return nil, diag
	}

	switch target := n.Target.(type) {
	case *ast.Variable:
		id, diag := e.env.Resolve(n.Pos(), n.ID(), target.Identifier)
		if diag != nil {
			return nil, diag
		}
		e.env.Put(id, value)
		if keep {
			return ast.NewAssignment(n.Pos(), target, value), nil
		}
		return nil, nil

	case *ast.IndexAccess:
		base, ok := target.Target.(*ast.Variable)
		if !ok {
			return ast.NewAssignment(n.Pos(), n.Target, value), nil
		}
		id, diag := e.env.Resolve(n.Pos(), n.ID(), base.Identifier)
		if diag != nil {
			return nil, diag
		}
		index, diag := w.Walk(target.Index)
		if diag != nil {
			return nil, diag
		}
		idx, isInt := asInt(index)
		if !isInt {
			e.env.Put(id, nil)
			return ast.NewAssignment(n.Pos(), ast.NewIndexAccess(target.Pos(), base, index), value), nil
		}
		binding, _ := e.env.Get(id)
		var list *ast.ExpressionList
		if binding != nil {
			if l, ok := binding.Value.(*ast.ExpressionList); ok {
				list = l
			}
		}
		if list == nil {
			list = ast.NewExpressionList(n.Pos(), nil)
		}
		updated := list.WithSlot(int(idx), value)
		e.env.Put(id, updated)
		if keep {
			return ast.NewAssignment(n.Pos(), ast.NewIndexAccess(target.Pos(), base, index), value), nil
		}
		return nil, nil

	default:
		return ast.NewAssignment(n.Pos(), n.Target, value), nil
	}
}

// Visit implements walk.Visitor both for expression subtrees reached
// via Walker.Walk from the statement-level folders below, and — via
// Walker.WalkBlock, driven from foldStatements — for the block
// statement kinds whose fold is genuinely one-statement-in,
// zero-or-one-statement-out (If and For are handled separately; see
// foldStatements).
func (e *Engine) Visit(w *walk.Walker, n ast.Node) (walk.Action, *errors.Diagnostic) {
	switch v := n.(type) {
	case *ast.Variable:
		return e.visitVariable(v)
	case *ast.BinaryExpr:
		return e.visitBinary(w, v)
	case *ast.LogicalExpr:
		return e.visitLogical(w, v)
	case *ast.UnaryExpr:
		return e.visitUnary(w, v)
	case *ast.Group:
		return e.visitGroup(w, v)
	case *ast.IndexAccess:
		return e.visitIndexAccess(w, v)
	case *ast.ExpressionList:
		return e.visitExpressionList(w, v)
	case *ast.Call:
		return e.visitCall(w, v)
	case *ast.CallExternal:
		return e.visitCallExternal(w, v)
	case *ast.VariableDeclaration:
		next, diag := e.foldVariableDeclaration(w, v)
		if diag != nil {
			return walk.Action{}, diag
		}
		if next == nil {
			return walk.RemoveAction(), nil
		}
		return walk.ReplaceAction(next), nil
	case *ast.Assignment:
		next, diag := e.foldAssignment(w, v)
		if diag != nil {
			return walk.Action{}, diag
		}
		if next == nil {
			return walk.RemoveAction(), nil
		}
		return walk.ReplaceAction(next), nil
	case *ast.While:
		cond, diag := w.Walk(v.Cond)
		if diag != nil {
			return walk.Action{}, diag
		}
		body, diag := e.foldNestedBlock(v.Body)
		if diag != nil {
			return walk.Action{}, diag
		}
		return walk.ReplaceAction(ast.NewWhile(v.Pos(), cond, body)), nil
	case *ast.Return:
		val, diag := w.Walk(v.Value)
		if diag != nil {
			return walk.Action{}, diag
		}
		return walk.ReplaceAction(ast.NewReturn(v.Pos(), val)), nil
	default:
		return walk.KeepAction(), nil
	}
}

func (e *Engine) visitVariable(v *ast.Variable) (walk.Action, *errors.Diagnostic) {
	id, diag := e.env.Resolve(v.Pos(), v.ID(), v.Identifier)
	if diag != nil {
		return walk.Action{}, diag
	}
	binding, ok := e.env.Get(id)
	if !ok {
		return walk.Action{}, errors.Internal(errors.CodeMissingEnvEntry, v.Pos(), v.ID(), scope.Chain(e.env.Current()),
			"resolved identifier %q has no environment entry", v.Identifier)
	}
	if binding.Value == nil {
		return walk.KeepAction(), nil
	}
	return walk.ReplaceAction(ast.Clone(binding.Value, false)), nil
}

func (e *Engine) visitBinary(w *walk.Walker, v *ast.BinaryExpr) (walk.Action, *errors.Diagnostic) {
	left, diag := w.Walk(v.Left)
	if diag != nil {
		return walk.Action{}, diag
	}
	right, diag := w.Walk(v.Right)
	if diag != nil {
		return walk.Action{}, diag
	}
	folded, ok, soft := foldBinary(v.Pos(), v.ID(), left, v.Op, right)
	if soft != nil {
		e.soft = append(e.soft, soft)
	}
	if ok {
		return walk.ReplaceAction(folded), nil
	}
	return walk.ReplaceAction(ast.NewBinaryExpr(v.Pos(), left, v.Op, right)), nil
}

func (e *Engine) visitLogical(w *walk.Walker, v *ast.LogicalExpr) (walk.Action, *errors.Diagnostic) {
	left, diag := w.Walk(v.Left)
	if diag != nil {
		return walk.Action{}, diag
	}
	right, diag := w.Walk(v.Right)
	if diag != nil {
		return walk.Action{}, diag
	}
	folded, ok, soft := foldBinary(v.Pos(), v.ID(), left, v.Op, right)
	if soft != nil {
		e.soft = append(e.soft, soft)
	}
	if ok {
		return walk.ReplaceAction(folded), nil
	}
	return walk.ReplaceAction(ast.NewLogicalExpr(v.Pos(), left, v.Op, right)), nil
}

func (e *Engine) visitUnary(w *walk.Walker, v *ast.UnaryExpr) (walk.Action, *errors.Diagnostic) {
	operand, diag := w.Walk(v.Operand)
	if diag != nil {
		return walk.Action{}, diag
	}
	if folded, ok := foldUnary(v.Pos(), v.Op, operand); ok {
		return walk.ReplaceAction(folded), nil
	}
	return walk.ReplaceAction(ast.NewUnaryExpr(v.Pos(), v.Op, operand)), nil
}

func (e *Engine) visitGroup(w *walk.Walker, v *ast.Group) (walk.Action, *errors.Diagnostic) {
	inner, diag := w.Walk(v.Expr)
	if diag != nil {
		return walk.Action{}, diag
	}
	if ast.IsLiteral(inner) {
		return walk.ReplaceAction(inner), nil
	}
	return walk.ReplaceAction(ast.NewGroup(v.Pos(), inner)), nil
}

// visitIndexAccess resolves a[i] against a's ExpressionList binding
// when both the base variable and the index are known; otherwise it
// folds the subexpressions and leaves the access in place for the
// runtime.
func (e *Engine) visitIndexAccess(w *walk.Walker, v *ast.IndexAccess) (walk.Action, *errors.Diagnostic) {
	index, diag := w.Walk(v.Index)
	if diag != nil {
		return walk.Action{}, diag
	}

	base, isVar := v.Target.(*ast.Variable)
	if !isVar {
		target, diag := w.Walk(v.Target)
		if diag != nil {
			return walk.Action{}, diag
		}
		return walk.ReplaceAction(ast.NewIndexAccess(v.Pos(), target, index)), nil
	}

	id, diag := e.env.Resolve(base.Pos(), base.ID(), base.Identifier)
	if diag != nil {
		return walk.Action{}, diag
	}
	binding, _ := e.env.Get(id)
	idx, isInt := asInt(index)
	if binding == nil || binding.Value == nil || !isInt {
		return walk.ReplaceAction(ast.NewIndexAccess(v.Pos(), base, index)), nil
	}
	list, ok := binding.Value.(*ast.ExpressionList)
	if !ok {
		return walk.ReplaceAction(ast.NewIndexAccess(v.Pos(), base, index)), nil
	}
	elem := list.At(int(idx))
	if _, isNone := elem.(*ast.NoneExpr); isNone {
		return walk.ReplaceAction(ast.NewIndexAccess(v.Pos(), base, index)), nil
	}
	return walk.ReplaceAction(ast.Clone(elem, false)), nil
}

func (e *Engine) visitExpressionList(w *walk.Walker, v *ast.ExpressionList) (walk.Action, *errors.Diagnostic) {
	elements := make([]ast.Node, len(v.Elements))
	for i, el := range v.Elements {
		next, diag := w.Walk(el)
		if diag != nil {
			return walk.Action{}, diag
		}
		elements[i] = next
	}
	return walk.ReplaceAction(ast.NewExpressionList(v.Pos(), elements)), nil
}

func (e *Engine) visitCallExternal(w *walk.Walker, v *ast.CallExternal) (walk.Action, *errors.Diagnostic) {
	args := make([]ast.Node, len(v.Args))
	for i, a := range v.Args {
		next, diag := w.Walk(a)
		if diag != nil {
			return walk.Action{}, diag
		}
		args[i] = next
	}
	return walk.ReplaceAction(ast.NewCallExternal(v.Pos(), v.Name, args)), nil
}

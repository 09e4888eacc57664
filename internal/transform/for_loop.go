package transform

import (
	"abc/internal/ast"
	"abc/internal/cfg"
	"abc/internal/errors"
	"abc/internal/scope"
	"abc/internal/walk"
)

// foldFor folds a For loop by speculatively unrolling it: Init runs
// once, then the body is folded and appended one concrete iteration at
// a time as long as Cond keeps deciding to a literal true. If the
// speculation doesn't finish cleanly (Cond becomes undecidable, or the
// iteration budget runs out) the environment is rolled back to its
// pre-speculation snapshot and the loop is folded structurally instead
// — header expressions simplified, body folded once in its own scope,
// loop shape left intact, loop-carried names blinded so the one Init
// value folded in doesn't get baked in as if it held for every
// iteration.
func (e *Engine) foldFor(n *ast.For) ([]ast.Node, *errors.Diagnostic) {
	if e.unrollDepth >= e.opts.MaxNestedUnrollings {
		return e.foldForStructurally(n)
	}

	if _, diag := e.env.EnterScope("For", n.ID()); diag != nil {
		return nil, diag
	}
	defer e.env.ExitScope()

	snapshot := e.env.Snapshot()
	e.unrollDepth++
	unrolled, ok, diag := e.speculateUnroll(n)
	e.unrollDepth--
	if diag != nil {
		return nil, diag
	}
	if ok {
		return unrolled, nil
	}

	// RolledBack: restore the environment to its pre-speculation state
	// and fall back to structural folding of the loop body, still
	// inside this For's own scope. Init must be re-declared before the
	// condition/body/update are folded, since they may read the loop
	// variable it introduces.
	e.env.Restore(snapshot)
	return e.foldForBodyIntact(n)
}

// foldForStructurally is used once MaxNestedUnrollings has been
// reached: the loop is folded like any other statement (header
// expressions simplified, body folded in its own scope) without
// attempting speculative unrolling.
func (e *Engine) foldForStructurally(n *ast.For) ([]ast.Node, *errors.Diagnostic) {
	if _, diag := e.env.EnterScope("For", n.ID()); diag != nil {
		return nil, diag
	}
	defer e.env.ExitScope()
	return e.foldForBodyIntact(n)
}

// foldForBodyIntact folds a For loop's header and body once, leaving
// the loop shape in the residual program (used both when speculative
// unrolling gave up and when nesting depth rules it out up front). It
// must run inside the loop's own scope, with Init not yet folded.
//
// Folding init as an ordinary declaration/assignment would, for any
// loop-carried name whose current value happens to be a literal,
// absorb that statement into the environment and drop it from the
// residual program — sound for straight-line code, where every later
// read of the name is substituted from the same fold pass, but not
// here: the names this loop carries are about to be blinded (see
// below) precisely so the body/update fold doesn't treat them as
// constant, which means their reads will NOT be substituted and the
// dropped declaration/assignment would leave them referencing an
// undeclared variable. So each carried name is re-materialized — its
// current value re-emitted as a VariableDeclaration (if this loop's
// own scope declared it) or an Assignment (if an outer scope did) —
// before its binding is blinded to none.
func (e *Engine) foldForBodyIntact(n *ast.For) ([]ast.Node, *errors.Diagnostic) {
	init, diag := e.foldForHeaderStmt(n.Init)
	if diag != nil {
		return nil, diag
	}

	carryStmts := n.Body.Statements
	if n.Update != nil {
		carryStmts = append(append([]ast.Node{}, carryStmts...), n.Update)
	}
	names := cfg.ReadAndWrittenWithin(carryStmts)

	pre, newInit, diag := e.rematerializeCarried(n, init, names)
	if diag != nil {
		return nil, diag
	}

	w := walk.New(e, nil)
	cond, diag := e.foldForHeaderExpr(w, n.Cond)
	if diag != nil {
		return nil, diag
	}
	body, diag := e.foldNestedBlock(n.Body)
	if diag != nil {
		return nil, diag
	}
	tail, diag := e.foldForUpdateTail(n.Update)
	if diag != nil {
		return nil, diag
	}
	if tail != nil {
		body.Statements = append(body.Statements, tail)
	}
	return append(pre, ast.NewFor(n.Pos(), newInit, cond, nil, body)), nil
}

// foldForUpdateTail folds a For loop's Update clause for re-emission at
// the tail of the folded body rather than as the loop's own header
// clause. A carried variable's binding was just blinded to none by
// rematerializeCarried, so folding a plain assignment to it can no
// longer absorb-and-drop the way foldAssignment ordinarily would — the
// per-iteration write has to stay observable in the residual program,
// exactly as spec.md calls for ("re-emit assignments for loop variables
// at the tail of the body so each iteration's write remains
// observable"). Any other Update shape (nil, or not a plain Assignment)
// is folded the ordinary way.
func (e *Engine) foldForUpdateTail(n ast.Node) (ast.Node, *errors.Diagnostic) {
	if n == nil {
		return nil, nil
	}
	assign, ok := n.(*ast.Assignment)
	if !ok {
		return e.foldForHeaderStmt(n)
	}
	return e.foldAssignmentKeeping(walk.New(e, nil), assign, true)
}

// rematerializeCarried re-emits the current value of every
// loop-carried name visible from the loop's own scope (names that do
// not resolve there are skipped) and then blinds it to none, so the upcoming
// condition/body/update fold sees it as runtime-dependent instead of
// substituting a value that only holds for the first iteration.
// Returns the statements to prepend before the loop (for names an
// outer scope owns) and the VariableDeclaration to use as the loop's
// own Init (for the name, if any, this loop's scope owns) in place of
// the already-folded init.
func (e *Engine) rematerializeCarried(n *ast.For, foldedInit ast.Node, names []string) ([]ast.Node, ast.Node, *errors.Diagnostic) {
	loopScope := e.env.Current()
	newInit := foldedInit
	var pre []ast.Node

	for _, name := range names {
		id, diag := e.env.Resolve(n.Pos(), n.ID(), name)
		if diag != nil {
			// Not visible from the loop's scope (declared inside the body
			// or by a nested loop's header): nothing to carry.
			continue
		}
		binding, ok := e.env.Get(id)
		if !ok {
			return nil, nil, errors.Internal(errors.CodeMissingEnvEntry, n.Pos(), n.ID(), scope.Chain(e.env.Current()),
				"loop-carried identifier %q has no environment entry", name)
		}

		if id.Scope == loopScope {
			newInit = ast.NewVariableDeclaration(n.Pos(), binding.Type, name, binding.Value)
		} else if binding.Value != nil {
			pre = append(pre, ast.NewAssignment(n.Pos(), ast.NewVariable(n.Pos(), name), binding.Value))
		}

		e.env.Put(id, nil)
	}

	return pre, newInit, nil
}

func (e *Engine) foldForHeaderExpr(w *walk.Walker, n ast.Node) (ast.Node, *errors.Diagnostic) {
	if n == nil {
		return nil, nil
	}
	return w.Walk(n)
}

func (e *Engine) foldForHeaderStmt(n ast.Node) (ast.Node, *errors.Diagnostic) {
	if n == nil {
		return nil, nil
	}
	switch s := n.(type) {
	case *ast.VariableDeclaration:
		return e.foldVariableDeclaration(walk.New(e, nil), s)
	case *ast.Assignment:
		return e.foldAssignment(walk.New(e, nil), s)
	default:
		return n, nil
	}
}

// speculateUnroll executes Init once, then repeatedly folds Cond; as
// long as it decides to a literal true, the body is folded with the
// current concrete bindings and appended to the residual statement
// list once per iteration, and Update is applied. It gives up
// (reporting ok=false, leaving it to the caller to roll back) if Cond
// is ever undecidable, if the iteration budget is exceeded, or if
// folding raises a non-fatal diagnostic. A fatal diagnostic
// (ProgramError/InternalError) is returned to the caller as is.
func (e *Engine) speculateUnroll(n *ast.For) ([]ast.Node, bool, *errors.Diagnostic) {
	w := walk.New(e, nil)

	init, diag := e.foldForHeaderStmt(n.Init)
	if diag != nil {
		if diag.Fatal() {
			return nil, false, diag
		}
		return nil, false, nil
	}
	var out []ast.Node
	if init != nil {
		out = append(out, init)
	}

	for iter := 0; ; iter++ {
		if iter >= e.opts.MaxUnrollIterations {
			return nil, false, nil
		}
		if n.Cond == nil {
			return nil, false, nil
		}
		cond, diag := w.Walk(n.Cond)
		if diag != nil {
			if diag.Fatal() {
				return nil, false, diag
			}
			return nil, false, nil
		}
		b, ok := asBool(cond)
		if !ok {
			return nil, false, nil
		}
		if !b {
			break
		}

		body, diag := e.foldNestedBlock(n.Body)
		if diag != nil {
			if diag.Fatal() {
				return nil, false, diag
			}
			return nil, false, nil
		}
		out = append(out, body.Statements...)

		if n.Update != nil {
			update, diag := e.foldForHeaderStmt(n.Update)
			if diag != nil {
				if diag.Fatal() {
					return nil, false, diag
				}
				return nil, false, nil
			}
			if update != nil {
				out = append(out, update)
			}
		}
	}

	return out, true, nil
}

package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"abc/grammar"
	"abc/internal/ast"
)

func pos(p lexer.Position) ast.Position {
	return ast.Position{Filename: p.Filename, Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func buildFunction(g *grammar.Function) (*ast.Function, error) {
	params := make([]*ast.FunctionParameter, 0, len(g.Params))
	for _, p := range g.Params {
		dt, err := buildType(p.Type)
		if err != nil {
			return nil, fmt.Errorf("function %s: parameter %s: %w", g.Name, p.Name, err)
		}
		params = append(params, ast.NewFunctionParameter(dt.Pos(), dt, p.Name))
	}

	var returnType *ast.Datatype
	if g.ReturnType != nil {
		dt, err := buildType(g.ReturnType)
		if err != nil {
			return nil, fmt.Errorf("function %s: return type: %w", g.Name, err)
		}
		returnType = dt
	} else {
		returnType = ast.NewDatatype(pos(g.Pos), ast.PrimInvalid, false)
	}

	body, err := buildBlock(g.Body)
	if err != nil {
		return nil, fmt.Errorf("function %s: %w", g.Name, err)
	}

	return ast.NewFunction(pos(g.Pos), g.Name, params, returnType, body), nil
}

func buildType(t *grammar.TypeRef) (*ast.Datatype, error) {
	prim, err := primitiveFromName(t.Name)
	if err != nil {
		return nil, err
	}
	return ast.NewDatatype(ast.Position{}, prim, t.Secret), nil
}

func primitiveFromName(name string) (ast.Primitive, error) {
	switch name {
	case "int":
		return ast.PrimInt, nil
	case "float":
		return ast.PrimFloat, nil
	case "double":
		return ast.PrimDouble, nil
	case "bool":
		return ast.PrimBool, nil
	case "char":
		return ast.PrimChar, nil
	case "string":
		return ast.PrimString, nil
	default:
		return ast.PrimInvalid, fmt.Errorf("unknown type %q", name)
	}
}

func buildBlock(b *grammar.Block) (*ast.Block, error) {
	stmts := make([]ast.Node, 0, len(b.Statements))
	for _, s := range b.Statements {
		n, err := buildStatement(s)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, n)
	}
	return ast.NewBlock(ast.Position{}, stmts), nil
}

func buildStatement(s *grammar.Statement) (ast.Node, error) {
	switch {
	case s.If != nil:
		return buildIf(s.If)
	case s.For != nil:
		return buildFor(s.For)
	case s.While != nil:
		return buildWhile(s.While)
	case s.Return != nil:
		return buildReturn(s.Return)
	case s.VarDecl != nil:
		return buildVarDecl(s.VarDecl)
	case s.Assign != nil:
		return buildAssign(s.Assign)
	default:
		return nil, fmt.Errorf("empty statement production")
	}
}

func buildVarDecl(v *grammar.VarDecl) (ast.Node, error) {
	dt, err := buildType(v.Type)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", v.Name, err)
	}
	var value ast.Node
	if v.Value != nil {
		value, err = buildExpr(v.Value)
		if err != nil {
			return nil, err
		}
	}
	return ast.NewVariableDeclaration(pos(v.Pos), dt, v.Name, value), nil
}

func buildAssign(a *grammar.AssignStmt) (ast.Node, error) {
	target, err := buildTarget(a.Target)
	if err != nil {
		return nil, err
	}
	value, err := buildExpr(a.Value)
	if err != nil {
		return nil, err
	}
	return ast.NewAssignment(pos(a.Pos), target, value), nil
}

func buildTarget(t *grammar.Target) (ast.Node, error) {
	v := ast.NewVariable(ast.Position{}, t.Name)
	if t.Index == nil {
		return v, nil
	}
	index, err := buildExpr(t.Index)
	if err != nil {
		return nil, err
	}
	return ast.NewIndexAccess(v.Pos(), v, index), nil
}

func buildIf(i *grammar.IfStmt) (ast.Node, error) {
	cond, err := buildExpr(i.Cond)
	if err != nil {
		return nil, err
	}
	then, err := buildBlock(i.Then)
	if err != nil {
		return nil, err
	}
	var els *ast.Block
	if i.Else != nil {
		els, err = buildBlock(i.Else)
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIf(pos(i.Pos), cond, then, els), nil
}

func buildFor(f *grammar.ForStmt) (ast.Node, error) {
	var init ast.Node
	var err error
	if f.Init != nil {
		init, err = buildForInit(f.Init)
		if err != nil {
			return nil, err
		}
	}
	var cond ast.Node
	if f.Cond != nil {
		cond, err = buildExpr(f.Cond)
		if err != nil {
			return nil, err
		}
	}
	var update ast.Node
	if f.Update != nil {
		update, err = buildAssignHeader(f.Update)
		if err != nil {
			return nil, err
		}
	}
	body, err := buildBlock(f.Body)
	if err != nil {
		return nil, err
	}
	return ast.NewFor(pos(f.Pos), init, cond, update, body), nil
}

func buildForInit(fi *grammar.ForInit) (ast.Node, error) {
	switch {
	case fi.Decl != nil:
		dt, err := buildType(fi.Decl.Type)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", fi.Decl.Name, err)
		}
		var value ast.Node
		if fi.Decl.Value != nil {
			value, err = buildExpr(fi.Decl.Value)
			if err != nil {
				return nil, err
			}
		}
		return ast.NewVariableDeclaration(pos(fi.Decl.Pos), dt, fi.Decl.Name, value), nil
	case fi.Assign != nil:
		return buildAssignHeader(fi.Assign)
	default:
		return nil, nil
	}
}

func buildAssignHeader(a *grammar.AssignHeader) (ast.Node, error) {
	target, err := buildTarget(a.Target)
	if err != nil {
		return nil, err
	}
	value, err := buildExpr(a.Value)
	if err != nil {
		return nil, err
	}
	return ast.NewAssignment(pos(a.Pos), target, value), nil
}

func buildWhile(w *grammar.WhileStmt) (ast.Node, error) {
	cond, err := buildExpr(w.Cond)
	if err != nil {
		return nil, err
	}
	body, err := buildBlock(w.Body)
	if err != nil {
		return nil, err
	}
	return ast.NewWhile(pos(w.Pos), cond, body), nil
}

func buildReturn(r *grammar.ReturnStmt) (ast.Node, error) {
	var value ast.Node
	if r.Value != nil {
		v, err := buildExpr(r.Value)
		if err != nil {
			return nil, err
		}
		value = v
	}
	return ast.NewReturn(pos(r.Pos), value), nil
}

// buildExpr folds the precedence ladder's repeated tails into a
// left-associative chain, one level at a time. "&&" and "||" produce
// *ast.LogicalExpr (the logical family the cone rewriter's circuit
// view selects on); every other binary level produces *ast.BinaryExpr.
func buildExpr(e *grammar.Expr) (ast.Node, error) {
	return buildLogicalOr(e.Left)
}

func buildLogicalOr(n *grammar.LogicalOr) (ast.Node, error) {
	left, err := buildLogicalAnd(n.Left)
	if err != nil {
		return nil, err
	}
	for _, tail := range n.Rest {
		right, err := buildLogicalAnd(tail.Right)
		if err != nil {
			return nil, err
		}
		left = ast.NewLogicalExpr(left.Pos(), left, ast.NewOperator(left.Pos(), ast.OpOr, "||"), right)
	}
	return left, nil
}

func buildLogicalAnd(n *grammar.LogicalAnd) (ast.Node, error) {
	left, err := buildEquality(n.Left)
	if err != nil {
		return nil, err
	}
	for _, tail := range n.Rest {
		right, err := buildEquality(tail.Right)
		if err != nil {
			return nil, err
		}
		left = ast.NewLogicalExpr(left.Pos(), left, ast.NewOperator(left.Pos(), ast.OpAnd, "&&"), right)
	}
	return left, nil
}

func buildEquality(n *grammar.Equality) (ast.Node, error) {
	left, err := buildRelational(n.Left)
	if err != nil {
		return nil, err
	}
	for _, tail := range n.Rest {
		right, err := buildRelational(tail.Right)
		if err != nil {
			return nil, err
		}
		kind := ast.OpEq
		if tail.Op == "!=" {
			kind = ast.OpNe
		}
		left = ast.NewBinaryExpr(left.Pos(), left, ast.NewOperator(left.Pos(), kind, tail.Op), right)
	}
	return left, nil
}

func buildRelational(n *grammar.Relational) (ast.Node, error) {
	left, err := buildAdditive(n.Left)
	if err != nil {
		return nil, err
	}
	for _, tail := range n.Rest {
		right, err := buildAdditive(tail.Right)
		if err != nil {
			return nil, err
		}
		var kind ast.OperatorKind
		switch tail.Op {
		case "<":
			kind = ast.OpLt
		case "<=":
			kind = ast.OpLe
		case ">":
			kind = ast.OpGt
		case ">=":
			kind = ast.OpGe
		}
		left = ast.NewBinaryExpr(left.Pos(), left, ast.NewOperator(left.Pos(), kind, tail.Op), right)
	}
	return left, nil
}

func buildAdditive(n *grammar.Additive) (ast.Node, error) {
	left, err := buildMultiplicative(n.Left)
	if err != nil {
		return nil, err
	}
	for _, tail := range n.Rest {
		right, err := buildMultiplicative(tail.Right)
		if err != nil {
			return nil, err
		}
		kind, err := additiveOpKind(tail.Op)
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpr(left.Pos(), left, ast.NewOperator(left.Pos(), kind, tail.Op), right)
	}
	return left, nil
}

func additiveOpKind(sym string) (ast.OperatorKind, error) {
	switch sym {
	case "+":
		return ast.OpAdd, nil
	case "-":
		return ast.OpSub, nil
	case "⊕", "fhe.add":
		return ast.OpFHEAdd, nil
	case "⊖", "fhe.sub":
		return ast.OpFHESub, nil
	default:
		return ast.OpInvalid, fmt.Errorf("unrecognized additive operator %q", sym)
	}
}

func buildMultiplicative(n *grammar.Multiplicative) (ast.Node, error) {
	left, err := buildUnary(n.Left)
	if err != nil {
		return nil, err
	}
	for _, tail := range n.Rest {
		right, err := buildUnary(tail.Right)
		if err != nil {
			return nil, err
		}
		kind, err := multiplicativeOpKind(tail.Op)
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpr(left.Pos(), left, ast.NewOperator(left.Pos(), kind, tail.Op), right)
	}
	return left, nil
}

func multiplicativeOpKind(sym string) (ast.OperatorKind, error) {
	switch sym {
	case "*":
		return ast.OpMul, nil
	case "/":
		return ast.OpDiv, nil
	case "%":
		return ast.OpMod, nil
	case "⊗", "fhe.mul":
		return ast.OpFHEMul, nil
	default:
		return ast.OpInvalid, fmt.Errorf("unrecognized multiplicative operator %q", sym)
	}
}

func buildUnary(n *grammar.Unary) (ast.Node, error) {
	operand, err := buildPostfix(n.Operand)
	if err != nil {
		return nil, err
	}
	if n.Op == nil {
		return operand, nil
	}
	var kind ast.OperatorKind
	switch *n.Op {
	case "-":
		kind = ast.OpSub
	case "!":
		kind = ast.OpNot
	}
	return ast.NewUnaryExpr(operand.Pos(), ast.NewOperator(operand.Pos(), kind, *n.Op), operand), nil
}

func buildPostfix(n *grammar.Postfix) (ast.Node, error) {
	primary, err := buildPrimary(n.Primary)
	if err != nil {
		return nil, err
	}
	if n.Index == nil {
		return primary, nil
	}
	index, err := buildExpr(n.Index)
	if err != nil {
		return nil, err
	}
	return ast.NewIndexAccess(primary.Pos(), primary, index), nil
}

func buildPrimary(p *grammar.Primary) (ast.Node, error) {
	primaryPos := pos(p.Pos)
	switch {
	case p.Group != nil:
		inner, err := buildExpr(p.Group)
		if err != nil {
			return nil, err
		}
		return ast.NewGroup(primaryPos, inner), nil
	case p.Extern != nil:
		args, err := buildArgs(p.Extern.Args)
		if err != nil {
			return nil, err
		}
		return ast.NewCallExternal(primaryPos, p.Extern.Name, args), nil
	case p.Call != nil:
		args, err := buildArgs(p.Call.Args)
		if err != nil {
			return nil, err
		}
		return ast.NewCall(primaryPos, p.Call.Name, args), nil
	case p.Variable != nil:
		return ast.NewVariable(primaryPos, *p.Variable), nil
	case p.Double != nil:
		return ast.NewDoubleLit(primaryPos, *p.Double, false), nil
	case p.Float != nil:
		return ast.NewFloatLit(primaryPos, float32(*p.Float), false), nil
	case p.Int != nil:
		return ast.NewIntLit(primaryPos, *p.Int, false), nil
	case p.Bool != nil:
		return ast.NewBoolLit(primaryPos, *p.Bool == "true", false), nil
	case p.String != nil:
		return ast.NewStringLit(primaryPos, unquote(*p.String), false), nil
	case p.Char != nil:
		return ast.NewCharLit(primaryPos, unquoteChar(*p.Char), false), nil
	default:
		return nil, fmt.Errorf("empty primary production")
	}
}

func buildArgs(exprs []*grammar.Expr) ([]ast.Node, error) {
	args := make([]ast.Node, 0, len(exprs))
	for _, e := range exprs {
		a, err := buildExpr(e)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return args, nil
}

func unquote(s string) string {
	if v, err := strconv.Unquote(s); err == nil {
		return v
	}
	return strings.Trim(s, `"`)
}

func unquoteChar(s string) rune {
	inner := strings.Trim(s, "'")
	if v, _, _, err := strconv.UnquoteChar(inner, '\''); err == nil {
		return v
	}
	r := []rune(inner)
	if len(r) == 0 {
		return 0
	}
	return r[0]
}

package ast

// Clone performs a deep structural copy of n. Children are cloned
// recursively. Unless keepID is true, every node in the copy gets a
// freshly allocated NodeID; parent links are rewired to point within
// the new tree. keepID is reserved for read-only rollback snapshots
// where the copy must still compare equal, id for id, to
// the original it was taken from.
func Clone(n Node, keepID bool) Node {
	if n == nil {
		return nil
	}
	c := cloneShallowChildren(n, keepID)
	if keepID {
		setID(c, n.ID())
	}
	return c
}

// cloneSlice clones a slice of nodes, preserving nil entries (used for
// optional children inside variadic lists like Block.Statements).
func cloneSlice(nodes []Node, keepID bool) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Clone(n, keepID)
	}
	return out
}

func cloneShallowChildren(n Node, keepID bool) Node {
	switch v := n.(type) {
	case *BoolLit:
		return NewBoolLit(v.pos, v.Value, v.Secret)
	case *IntLit:
		return NewIntLit(v.pos, v.Value, v.Secret)
	case *FloatLit:
		return NewFloatLit(v.pos, v.Value, v.Secret)
	case *DoubleLit:
		return NewDoubleLit(v.pos, v.Value, v.Secret)
	case *StringLit:
		return NewStringLit(v.pos, v.Value, v.Secret)
	case *CharLit:
		return NewCharLit(v.pos, v.Value, v.Secret)
	case *NoneExpr:
		return NewNoneExpr(v.pos)
	case *Variable:
		return NewVariable(v.pos, v.Identifier)
	case *Operator:
		return NewOperator(v.pos, v.Kind_, v.Symbol)
	case *Datatype:
		return NewDatatype(v.pos, v.Primitive, v.Secret)
	case *BinaryExpr:
		return NewBinaryExpr(v.pos, Clone(v.Left, keepID), cloneOp(v.Op, keepID), Clone(v.Right, keepID))
	case *LogicalExpr:
		return NewLogicalExpr(v.pos, Clone(v.Left, keepID), cloneOp(v.Op, keepID), Clone(v.Right, keepID))
	case *UnaryExpr:
		return NewUnaryExpr(v.pos, cloneOp(v.Op, keepID), Clone(v.Operand, keepID))
	case *Group:
		return NewGroup(v.pos, Clone(v.Expr, keepID))
	case *Call:
		return NewCall(v.pos, v.Callee, cloneSlice(v.Args, keepID))
	case *CallExternal:
		return NewCallExternal(v.pos, v.Name, cloneSlice(v.Args, keepID))
	case *IndexAccess:
		return NewIndexAccess(v.pos, Clone(v.Target, keepID), Clone(v.Index, keepID))
	case *ExpressionList:
		return NewExpressionList(v.pos, cloneSlice(v.Elements, keepID))
	case *VariableDeclaration:
		return NewVariableDeclaration(v.pos, cloneDatatype(v.Type, keepID), v.Target, Clone(v.Value, keepID))
	case *Assignment:
		return NewAssignment(v.pos, Clone(v.Target, keepID), Clone(v.Value, keepID))
	case *Block:
		return NewBlock(v.pos, cloneSlice(v.Statements, keepID))
	case *If:
		els := cloneBlock(v.Else, keepID)
		return NewIf(v.pos, Clone(v.Cond, keepID), cloneBlock(v.Then, keepID), els)
	case *For:
		return NewFor(v.pos, Clone(v.Init, keepID), Clone(v.Cond, keepID), Clone(v.Update, keepID), cloneBlock(v.Body, keepID))
	case *While:
		return NewWhile(v.pos, Clone(v.Cond, keepID), cloneBlock(v.Body, keepID))
	case *Return:
		return NewReturn(v.pos, Clone(v.Value, keepID))
	case *FunctionParameter:
		return NewFunctionParameter(v.pos, cloneDatatype(v.Type, keepID), v.Variable)
	case *Function:
		params := make([]*FunctionParameter, len(v.Params))
		for i, p := range v.Params {
			params[i] = Clone(p, keepID).(*FunctionParameter)
		}
		return NewFunction(v.pos, v.Name, params, cloneDatatype(v.ReturnType, keepID), cloneBlock(v.Body, keepID))
	default:
		panic("ast: Clone: unhandled node kind")
	}
}

func cloneOp(o *Operator, keepID bool) *Operator {
	if o == nil {
		return nil
	}
	return Clone(o, keepID).(*Operator)
}

func cloneDatatype(d *Datatype, keepID bool) *Datatype {
	if d == nil {
		return nil
	}
	return Clone(d, keepID).(*Datatype)
}

func cloneBlock(b *Block, keepID bool) *Block {
	if b == nil {
		return nil
	}
	return Clone(b, keepID).(*Block)
}

// setID overrides the id that the New* constructors used inside Clone
// assigned to n itself; it does not descend into children. A keepID
// clone is id-identical to its source because Clone copies every child
// through another keepID Clone call, which sets that child's id.
func setID(n Node, id NodeID) {
	switch v := n.(type) {
	case *BoolLit:
		v.id = id
	case *IntLit:
		v.id = id
	case *FloatLit:
		v.id = id
	case *DoubleLit:
		v.id = id
	case *StringLit:
		v.id = id
	case *CharLit:
		v.id = id
	case *NoneExpr:
		v.id = id
	case *Variable:
		v.id = id
	case *Operator:
		v.id = id
	case *Datatype:
		v.id = id
	case *BinaryExpr:
		v.id = id
	case *LogicalExpr:
		v.id = id
	case *UnaryExpr:
		v.id = id
	case *Group:
		v.id = id
	case *Call:
		v.id = id
	case *CallExternal:
		v.id = id
	case *IndexAccess:
		v.id = id
	case *ExpressionList:
		v.id = id
	case *VariableDeclaration:
		v.id = id
	case *Assignment:
		v.id = id
	case *Block:
		v.id = id
	case *If:
		v.id = id
	case *For:
		v.id = id
	case *While:
		v.id = id
	case *Return:
		v.id = id
	case *FunctionParameter:
		v.id = id
	case *Function:
		v.id = id
	}
}

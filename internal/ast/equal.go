package ast

// Equal reports structural equality of a and b, ignoring node ids
// (two independently parsed copies of the same program are Equal even
// though every id differs). This underlies the pretty-print-equality
// idempotence check property 6, though in practice the
// transform and cone packages use the pretty printer's string output
// for that, since it also normalizes away Group/whitespace
// differences that Equal treats as significant.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *BoolLit:
		bv := b.(*BoolLit)
		return av.Value == bv.Value && av.Secret == bv.Secret
	case *IntLit:
		bv := b.(*IntLit)
		return av.Value == bv.Value && av.Secret == bv.Secret
	case *FloatLit:
		bv := b.(*FloatLit)
		return av.Value == bv.Value && av.Secret == bv.Secret
	case *DoubleLit:
		bv := b.(*DoubleLit)
		return av.Value == bv.Value && av.Secret == bv.Secret
	case *StringLit:
		bv := b.(*StringLit)
		return av.Value == bv.Value && av.Secret == bv.Secret
	case *CharLit:
		bv := b.(*CharLit)
		return av.Value == bv.Value && av.Secret == bv.Secret
	case *NoneExpr:
		return true
	case *Variable:
		bv := b.(*Variable)
		return av.Identifier == bv.Identifier
	case *Operator:
		bv := b.(*Operator)
		return av.Kind_ == bv.Kind_
	case *Datatype:
		return av.Equal(b.(*Datatype))
	case *BinaryExpr:
		bv := b.(*BinaryExpr)
		return Equal(av.Left, bv.Left) && Equal(av.Op, bv.Op) && Equal(av.Right, bv.Right)
	case *LogicalExpr:
		bv := b.(*LogicalExpr)
		return Equal(av.Left, bv.Left) && Equal(av.Op, bv.Op) && Equal(av.Right, bv.Right)
	case *UnaryExpr:
		bv := b.(*UnaryExpr)
		return Equal(av.Op, bv.Op) && Equal(av.Operand, bv.Operand)
	case *Group:
		bv := b.(*Group)
		return Equal(av.Expr, bv.Expr)
	case *Call:
		bv := b.(*Call)
		return av.Callee == bv.Callee && equalSlice(av.Args, bv.Args)
	case *CallExternal:
		bv := b.(*CallExternal)
		return av.Name == bv.Name && equalSlice(av.Args, bv.Args)
	case *IndexAccess:
		bv := b.(*IndexAccess)
		return Equal(av.Target, bv.Target) && Equal(av.Index, bv.Index)
	case *ExpressionList:
		bv := b.(*ExpressionList)
		return equalSlice(av.Elements, bv.Elements)
	case *VariableDeclaration:
		bv := b.(*VariableDeclaration)
		return av.Target == bv.Target && av.Type.Equal(bv.Type) && Equal(av.Value, bv.Value)
	case *Assignment:
		bv := b.(*Assignment)
		return Equal(av.Target, bv.Target) && Equal(av.Value, bv.Value)
	case *Block:
		bv := b.(*Block)
		return equalSlice(av.Statements, bv.Statements)
	case *If:
		bv := b.(*If)
		return Equal(av.Cond, bv.Cond) && Equal(av.Then, bv.Then) && Equal(av.Else, bv.Else)
	case *For:
		bv := b.(*For)
		return Equal(av.Init, bv.Init) && Equal(av.Cond, bv.Cond) && Equal(av.Update, bv.Update) && Equal(av.Body, bv.Body)
	case *While:
		bv := b.(*While)
		return Equal(av.Cond, bv.Cond) && Equal(av.Body, bv.Body)
	case *Return:
		bv := b.(*Return)
		return Equal(av.Value, bv.Value)
	case *FunctionParameter:
		bv := b.(*FunctionParameter)
		return av.Variable == bv.Variable && av.Type.Equal(bv.Type)
	case *Function:
		bv := b.(*Function)
		if av.Name != bv.Name || len(av.Params) != len(bv.Params) {
			return false
		}
		for i := range av.Params {
			if !Equal(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return av.ReturnType.Equal(bv.ReturnType) && Equal(av.Body, bv.Body)
	default:
		return false
	}
}

func equalSlice(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

package transform

import (
	"abc/internal/ast"
	"abc/internal/errors"
)

// foldBinary attempts constant folding of a BinaryExpr/LogicalExpr
// whose operands are already literals. It returns (result, true, nil)
// on success, (nil, false, nil) when the operands aren't both literal
// (nothing to fold), and (nil, false, diag) for a RuntimeFoldError
// (divide/modulo by zero) that the caller should report but recover
// from by leaving the expression unfolded.
func foldBinary(pos ast.Position, nodeID ast.NodeID, left ast.Node, op *ast.Operator, right ast.Node) (ast.Node, bool, *errors.Diagnostic) {
	if !ast.IsLiteral(left) || !ast.IsLiteral(right) {
		return nil, false, nil
	}

	secret := litSecret(left) || litSecret(right)

	if op.IsComparison() {
		return foldComparison(pos, nodeID, left, op, right, secret)
	}
	if op.IsLogical() || op.Kind_ == ast.OpBAnd || op.Kind_ == ast.OpBOr || op.Kind_ == ast.OpBXor {
		return foldLogical(pos, left, op, right, secret)
	}

	li, lok := asInt(left)
	ri, rok := asInt(right)
	if lok && rok {
		return foldIntArith(pos, nodeID, li, op, ri, secret)
	}

	_, lok = asFloat(left)
	rf, rok := asFloat(right)
	if lok && rok {
		folded, ok := foldFloatArith(pos, li, op, rf, secret, left)
		return folded, ok, nil
	}

	return nil, false, nil
}

func foldIntArith(pos ast.Position, nodeID ast.NodeID, l int64, op *ast.Operator, r int64, secret bool) (ast.Node, bool, *errors.Diagnostic) {
	switch op.Kind_ {
	case ast.OpAdd, ast.OpFHEAdd:
		return ast.NewIntLit(pos, l+r, secret), true, nil
	case ast.OpSub, ast.OpFHESub:
		return ast.NewIntLit(pos, l-r, secret), true, nil
	case ast.OpMul, ast.OpFHEMul:
		return ast.NewIntLit(pos, l*r, secret), true, nil
	case ast.OpDiv:
		if r == 0 {
			return nil, false, errors.DivideByZero(pos, nodeID, "")
		}
		return ast.NewIntLit(pos, l/r, secret), true, nil
	case ast.OpMod:
		if r == 0 {
			return nil, false, errors.ModuloByZero(pos, nodeID, "")
		}
		return ast.NewIntLit(pos, l%r, secret), true, nil
	}
	return nil, false, nil
}

func foldFloatArith(pos ast.Position, _ int64, op *ast.Operator, r float64, secret bool, left ast.Node) (ast.Node, bool) {
	l, _ := asFloat(left)
	var v float64
	switch op.Kind_ {
	case ast.OpAdd, ast.OpFHEAdd:
		v = l + r
	case ast.OpSub, ast.OpFHESub:
		v = l - r
	case ast.OpMul, ast.OpFHEMul:
		v = l * r
	case ast.OpDiv:
		if r == 0 {
			return nil, false
		}
		v = l / r
	default:
		return nil, false
	}
	if _, ok := left.(*ast.FloatLit); ok {
		return ast.NewFloatLit(pos, float32(v), secret), true
	}
	return ast.NewDoubleLit(pos, v, secret), true
}

func foldComparison(pos ast.Position, _ ast.NodeID, left ast.Node, op *ast.Operator, right ast.Node, secret bool) (ast.Node, bool, *errors.Diagnostic) {
	if li, lok := asInt(left); lok {
		if ri, rok := asInt(right); rok {
			return ast.NewBoolLit(pos, compareInt(li, op, ri), secret), true, nil
		}
	}
	if lf, lok := asFloat(left); lok {
		if rf, rok := asFloat(right); rok {
			return ast.NewBoolLit(pos, compareFloat(lf, op, rf), secret), true, nil
		}
	}
	return nil, false, nil
}

func compareInt(l int64, op *ast.Operator, r int64) bool {
	switch op.Kind_ {
	case ast.OpLt:
		return l < r
	case ast.OpLe:
		return l <= r
	case ast.OpGt:
		return l > r
	case ast.OpGe:
		return l >= r
	case ast.OpEq:
		return l == r
	case ast.OpNe:
		return l != r
	}
	return false
}

func compareFloat(l float64, op *ast.Operator, r float64) bool {
	switch op.Kind_ {
	case ast.OpLt:
		return l < r
	case ast.OpLe:
		return l <= r
	case ast.OpGt:
		return l > r
	case ast.OpGe:
		return l >= r
	case ast.OpEq:
		return l == r
	case ast.OpNe:
		return l != r
	}
	return false
}

func foldLogical(pos ast.Position, left ast.Node, op *ast.Operator, right ast.Node, secret bool) (ast.Node, bool, *errors.Diagnostic) {
	lb, lok := asBool(left)
	rb, rok := asBool(right)
	if !lok || !rok {
		return nil, false, nil
	}
	var v bool
	switch op.Kind_ {
	case ast.OpAnd, ast.OpBAnd:
		v = lb && rb
	case ast.OpOr, ast.OpBOr:
		v = lb || rb
	case ast.OpLogicalXor, ast.OpBXor:
		v = lb != rb
	default:
		return nil, false, nil
	}
	return ast.NewBoolLit(pos, v, secret), true, nil
}

// foldUnary folds a UnaryExpr with a literal operand.
func foldUnary(pos ast.Position, op *ast.Operator, operand ast.Node) (ast.Node, bool) {
	if !ast.IsLiteral(operand) {
		return nil, false
	}
	secret := litSecret(operand)
	switch op.Kind_ {
	case ast.OpNot, ast.OpBNot:
		if b, ok := asBool(operand); ok {
			return ast.NewBoolLit(pos, !b, secret), true
		}
	case ast.OpSub:
		if i, ok := asInt(operand); ok {
			return ast.NewIntLit(pos, -i, secret), true
		}
		if f, ok := asFloat(operand); ok {
			if _, isFloat := operand.(*ast.FloatLit); isFloat {
				return ast.NewFloatLit(pos, float32(-f), secret), true
			}
			return ast.NewDoubleLit(pos, -f, secret), true
		}
	}
	return nil, false
}

func asInt(n ast.Node) (int64, bool) {
	switch v := n.(type) {
	case *ast.IntLit:
		return v.Value, true
	}
	return 0, false
}

func asFloat(n ast.Node) (float64, bool) {
	switch v := n.(type) {
	case *ast.FloatLit:
		return float64(v.Value), true
	case *ast.DoubleLit:
		return v.Value, true
	}
	return 0, false
}

func asBool(n ast.Node) (bool, bool) {
	switch v := n.(type) {
	case *ast.BoolLit:
		return v.Value, true
	}
	return false, false
}

func litSecret(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.BoolLit:
		return v.Secret
	case *ast.IntLit:
		return v.Secret
	case *ast.FloatLit:
		return v.Secret
	case *ast.DoubleLit:
		return v.Secret
	case *ast.StringLit:
		return v.Secret
	case *ast.CharLit:
		return v.Secret
	}
	return false
}

package ast

// Primitive is the scalar type a value carries, independent of its
// secret-ness.
type Primitive int

const (
	PrimInvalid Primitive = iota
	PrimInt
	PrimFloat
	PrimDouble
	PrimBool
	PrimChar
	PrimString
)

func (p Primitive) String() string {
	switch p {
	case PrimInt:
		return "int"
	case PrimFloat:
		return "float"
	case PrimDouble:
		return "double"
	case PrimBool:
		return "bool"
	case PrimChar:
		return "char"
	case PrimString:
		return "string"
	default:
		return "invalid"
	}
}

// Datatype is the Metadata-family node pairing a Primitive with its
// secret-ness. Secret-ness is a data-flow property: any
// operation with a secret operand produces a secret result, so
// Datatype values are produced fresh by folding/combination rather
// than mutated in place.
type Datatype struct {
	base
	Primitive Primitive
	Secret    bool
}

func NewDatatype(pos Position, primitive Primitive, secret bool) *Datatype {
	return &Datatype{base: newBase(pos), Primitive: primitive, Secret: secret}
}

func (d *Datatype) Kind() Kind       { return KindDatatype }
func (d *Datatype) Children() []Node { return nil }

func (d *Datatype) String() string {
	if d.Secret {
		return "secret " + d.Primitive.String()
	}
	return d.Primitive.String()
}

// Equal compares two datatypes by value (ids are irrelevant to type
// identity).
func (d *Datatype) Equal(other *Datatype) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.Primitive == other.Primitive && d.Secret == other.Secret
}

// Combine produces the datatype of a binary operation over two
// operand types: the primitive must agree (type mismatches are caught
// earlier, during folding) and secret-ness propagates if either
// operand is secret.
func Combine(a, b *Datatype) *Datatype {
	return &Datatype{base: newBase(Position{}), Primitive: a.Primitive, Secret: a.Secret || b.Secret}
}

// Zero returns the zero-value literal for a datatype's primitive,
// carrying the same secret-ness.
func Zero(dt *Datatype, pos Position) Node {
	switch dt.Primitive {
	case PrimInt:
		return NewIntLit(pos, 0, dt.Secret)
	case PrimFloat:
		return NewFloatLit(pos, 0, dt.Secret)
	case PrimDouble:
		return NewDoubleLit(pos, 0, dt.Secret)
	case PrimBool:
		return NewBoolLit(pos, false, dt.Secret)
	case PrimChar:
		return NewCharLit(pos, 0, dt.Secret)
	case PrimString:
		return NewStringLit(pos, "", dt.Secret)
	default:
		return NewIntLit(pos, 0, dt.Secret)
	}
}

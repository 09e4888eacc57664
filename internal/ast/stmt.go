package ast

// VariableDeclaration introduces a name into the current scope, with
// an optional initializer. The transform engine absorbs this into the
// environment and removes the statement from the residual program
//; the node itself makes no claim about that — it is
// purely structural.
type VariableDeclaration struct {
	base
	Type   *Datatype
	Target string
	Value  Node // optional
}

func NewVariableDeclaration(pos Position, typ *Datatype, target string, value Node) *VariableDeclaration {
	n := &VariableDeclaration{base: newBase(pos), Type: typ, Target: target, Value: value}
	adopt(n, typ, value)
	return n
}
func (n *VariableDeclaration) Kind() Kind       { return KindVariableDeclaration }
func (n *VariableDeclaration) Children() []Node { return []Node{n.Type, n.Value} }

// Assignment writes to a Variable or IndexAccess target.
type Assignment struct {
	base
	Target Node
	Value  Node
}

func NewAssignment(pos Position, target, value Node) *Assignment {
	n := &Assignment{base: newBase(pos), Target: target, Value: value}
	adopt(n, target, value)
	return n
}
func (n *Assignment) Kind() Kind       { return KindAssignment }
func (n *Assignment) Children() []Node { return []Node{n.Target, n.Value} }

// Block opens a lexical scope and holds statements in
// source order. A lone statement handed to a control-flow header
// (then/else/body) is auto-wrapped in a Block by the constructors
// below, so For/If/While/Function bodies are always *Block, never a
// bare statement.
type Block struct {
	base
	Statements []Node
}

func NewBlock(pos Position, statements []Node) *Block {
	n := &Block{base: newBase(pos), Statements: statements}
	adopt(n, statements...)
	return n
}
func (n *Block) Kind() Kind       { return KindBlock }
func (n *Block) Children() []Node { return append([]Node(nil), n.Statements...) }

// WrapInBlock returns stmt unchanged if it is already a *Block,
// otherwise wraps it in a freshly constructed one-statement Block.
// This is the "auto-wrap" invariant
func WrapInBlock(pos Position, stmt Node) *Block {
	if stmt == nil {
		return NewBlock(pos, nil)
	}
	if b, ok := stmt.(*Block); ok {
		return b
	}
	return NewBlock(pos, []Node{stmt})
}

// If has a condition, a then-block, and an optional else-block (which
// may itself be a single-statement Block wrapping a nested If, giving
// "else if" chains their usual shape).
type If struct {
	base
	Cond Node
	Then *Block
	Else *Block // optional
}

func NewIf(pos Position, cond Node, then *Block, els *Block) *If {
	n := &If{base: newBase(pos), Cond: cond, Then: then, Else: els}
	adopt(n, cond, then, els)
	return n
}
func (n *If) Kind() Kind { return KindIf }
func (n *If) Children() []Node {
	if n.Else == nil {
		return []Node{n.Cond, n.Then, nil}
	}
	return []Node{n.Cond, n.Then, n.Else}
}

// For carries its own scope. Init and Update are ordinary
// statements (VariableDeclaration or Assignment), each optional.
type For struct {
	base
	Init   Node // optional: *VariableDeclaration or *Assignment
	Cond   Node // optional
	Update Node // optional: *Assignment
	Body   *Block
}

func NewFor(pos Position, init, cond, update Node, body *Block) *For {
	n := &For{base: newBase(pos), Init: init, Cond: cond, Update: update, Body: body}
	adopt(n, init, cond, update, body)
	return n
}
func (n *For) Kind() Kind       { return KindFor }
func (n *For) Children() []Node { return []Node{n.Init, n.Cond, n.Update, n.Body} }

// While is the unconditional-step counterpart of For; the engine does
// not speculatively unroll While loops (only For's bounded
// init/cond/update shape makes the iteration count decidable), but
// otherwise folds its condition and simplifies its body the same way.
type While struct {
	base
	Cond Node
	Body *Block
}

func NewWhile(pos Position, cond Node, body *Block) *While {
	n := &While{base: newBase(pos), Cond: cond, Body: body}
	adopt(n, cond, body)
	return n
}
func (n *While) Kind() Kind       { return KindWhile }
func (n *While) Children() []Node { return []Node{n.Cond, n.Body} }

// Return carries an optional value expression.
type Return struct {
	base
	Value Node // optional
}

func NewReturn(pos Position, value Node) *Return {
	n := &Return{base: newBase(pos), Value: value}
	adopt(n, value)
	return n
}
func (n *Return) Kind() Kind       { return KindReturn }
func (n *Return) Children() []Node { return []Node{n.Value} }

// FunctionParameter names one formal parameter and its declared type.
type FunctionParameter struct {
	base
	Type     *Datatype
	Variable string
}

func NewFunctionParameter(pos Position, typ *Datatype, variable string) *FunctionParameter {
	n := &FunctionParameter{base: newBase(pos), Type: typ, Variable: variable}
	adopt(n, typ)
	return n
}
func (n *FunctionParameter) Kind() Kind       { return KindFunctionParameter }
func (n *FunctionParameter) Children() []Node { return []Node{n.Type} }

// Function's body is always a *Block; an
// empty-bodied function still gets a Block with zero statements.
type Function struct {
	base
	Name       string
	Params     []*FunctionParameter
	ReturnType *Datatype
	Body       *Block
}

func NewFunction(pos Position, name string, params []*FunctionParameter, returnType *Datatype, body *Block) *Function {
	n := &Function{base: newBase(pos), Name: name, Params: params, ReturnType: returnType, Body: body}
	children := make([]Node, 0, len(params)+2)
	for _, p := range params {
		children = append(children, p)
	}
	children = append(children, returnType, body)
	adopt(n, children...)
	return n
}
func (n *Function) Kind() Kind { return KindFunction }
func (n *Function) Children() []Node {
	children := make([]Node, 0, len(n.Params)+2)
	for _, p := range n.Params {
		children = append(children, p)
	}
	return append(children, n.ReturnType, n.Body)
}

package ast

import "encoding/json"

// ToJSON renders a node and its subtree as a debug/export document
// contract). It is not used on any
// correctness path — only by the CLI's -dump-json flag and by tests
// that want a stable, diffable snapshot of a tree — so it favors a
// simple generic shape (kind, id, and a handful of per-variant fields)
// over a precise schema per node type.
func ToJSON(n Node) ([]byte, error) {
	return json.MarshalIndent(toDoc(n), "", "  ")
}

type jsonDoc struct {
	Kind     string            `json:"kind"`
	ID       NodeID            `json:"id"`
	Fields   map[string]any    `json:"fields,omitempty"`
	Children []*jsonDoc        `json:"children,omitempty"`
	Named    map[string]*jsonDoc `json:"namedChildren,omitempty"`
}

func toDoc(n Node) *jsonDoc {
	if n == nil {
		return nil
	}
	d := &jsonDoc{Kind: n.Kind().String(), ID: n.ID()}

	switch v := n.(type) {
	case *BoolLit:
		d.Fields = map[string]any{"value": v.Value, "secret": v.Secret}
	case *IntLit:
		d.Fields = map[string]any{"value": v.Value, "secret": v.Secret}
	case *FloatLit:
		d.Fields = map[string]any{"value": v.Value, "secret": v.Secret}
	case *DoubleLit:
		d.Fields = map[string]any{"value": v.Value, "secret": v.Secret}
	case *StringLit:
		d.Fields = map[string]any{"value": v.Value, "secret": v.Secret}
	case *CharLit:
		d.Fields = map[string]any{"value": string(v.Value), "secret": v.Secret}
	case *Variable:
		d.Fields = map[string]any{"identifier": v.Identifier}
	case *Operator:
		d.Fields = map[string]any{"symbol": v.Symbol}
	case *Datatype:
		d.Fields = map[string]any{"primitive": v.Primitive.String(), "secret": v.Secret}
	case *BinaryExpr:
		d.Named = map[string]*jsonDoc{"left": toDoc(v.Left), "op": toDoc(v.Op), "right": toDoc(v.Right)}
	case *LogicalExpr:
		d.Named = map[string]*jsonDoc{"left": toDoc(v.Left), "op": toDoc(v.Op), "right": toDoc(v.Right)}
	case *UnaryExpr:
		d.Named = map[string]*jsonDoc{"op": toDoc(v.Op), "operand": toDoc(v.Operand)}
	case *Group:
		d.Named = map[string]*jsonDoc{"expr": toDoc(v.Expr)}
	case *Call:
		d.Fields = map[string]any{"callee": v.Callee}
		d.Children = toDocs(v.Args)
	case *CallExternal:
		d.Fields = map[string]any{"name": v.Name}
		d.Children = toDocs(v.Args)
	case *IndexAccess:
		d.Named = map[string]*jsonDoc{"target": toDoc(v.Target), "index": toDoc(v.Index)}
	case *ExpressionList:
		d.Children = toDocs(v.Elements)
	case *VariableDeclaration:
		d.Fields = map[string]any{"target": v.Target}
		d.Named = map[string]*jsonDoc{"type": toDoc(v.Type), "value": toDoc(v.Value)}
	case *Assignment:
		d.Named = map[string]*jsonDoc{"target": toDoc(v.Target), "value": toDoc(v.Value)}
	case *Block:
		d.Children = toDocs(v.Statements)
	case *If:
		d.Named = map[string]*jsonDoc{"cond": toDoc(v.Cond), "then": toDoc(v.Then), "else": toDoc(v.Else)}
	case *For:
		d.Named = map[string]*jsonDoc{"init": toDoc(v.Init), "cond": toDoc(v.Cond), "update": toDoc(v.Update), "body": toDoc(v.Body)}
	case *While:
		d.Named = map[string]*jsonDoc{"cond": toDoc(v.Cond), "body": toDoc(v.Body)}
	case *Return:
		d.Named = map[string]*jsonDoc{"value": toDoc(v.Value)}
	case *FunctionParameter:
		d.Fields = map[string]any{"variable": v.Variable}
		d.Named = map[string]*jsonDoc{"type": toDoc(v.Type)}
	case *Function:
		d.Fields = map[string]any{"name": v.Name}
		d.Named = map[string]*jsonDoc{"returnType": toDoc(v.ReturnType), "body": toDoc(v.Body)}
		params := make([]*jsonDoc, len(v.Params))
		for i, p := range v.Params {
			params[i] = toDoc(p)
		}
		d.Children = params
	}
	return d
}

func toDocs(nodes []Node) []*jsonDoc {
	if nodes == nil {
		return nil
	}
	out := make([]*jsonDoc, len(nodes))
	for i, n := range nodes {
		out[i] = toDoc(n)
	}
	return out
}

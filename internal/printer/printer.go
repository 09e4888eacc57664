// Package printer implements the pretty printer: a deterministic
// C-like rendering used both for diagnostics (a node's "source
// representation" in an error message) and by tests that compare
// transformed trees by their printed text rather than walking
// structural equality by hand.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"abc/internal/ast"
)

// Print renders n as single-space-delimited, one-statement-per-line,
// same-line-brace C-like syntax.
func Print(n ast.Node) string {
	var b strings.Builder
	p := &printer{out: &b}
	p.node(n)
	return b.String()
}

// PrintBlock renders a *Block's statements as an indented, multi-line
// body suitable for a diagnostic or golden-file test; the outer braces
// are included so output is usable standalone.
func PrintBlock(blk *ast.Block) string {
	var b strings.Builder
	p := &printer{out: &b}
	p.block(blk, 0)
	return b.String()
}

type printer struct {
	out *strings.Builder
}

func (p *printer) write(s string) { p.out.WriteString(s) }

func (p *printer) indent(depth int) { p.write(strings.Repeat("    ", depth)) }

func (p *printer) node(n ast.Node) {
	if n == nil {
		return
	}
	switch v := n.(type) {
	case *ast.BoolLit:
		p.write(strconv.FormatBool(v.Value))
	case *ast.IntLit:
		p.write(strconv.FormatInt(v.Value, 10))
	case *ast.FloatLit:
		p.write(strconv.FormatFloat(float64(v.Value), 'g', -1, 32))
	case *ast.DoubleLit:
		p.write(strconv.FormatFloat(v.Value, 'g', -1, 64))
	case *ast.StringLit:
		p.write(strconv.Quote(v.Value))
	case *ast.CharLit:
		p.write(strconv.QuoteRune(v.Value))
	case *ast.NoneExpr:
		p.write("<none>")
	case *ast.Variable:
		p.write(v.Identifier)
	case *ast.Operator:
		p.write(v.Symbol)
	case *ast.BinaryExpr:
		p.node(v.Left)
		p.write(" ")
		p.node(v.Op)
		p.write(" ")
		p.node(v.Right)
	case *ast.LogicalExpr:
		p.node(v.Left)
		p.write(" ")
		p.node(v.Op)
		p.write(" ")
		p.node(v.Right)
	case *ast.UnaryExpr:
		p.node(v.Op)
		p.node(v.Operand)
	case *ast.Group:
		p.write("(")
		p.node(v.Expr)
		p.write(")")
	case *ast.Call:
		p.write(v.Callee)
		p.write("(")
		p.args(v.Args)
		p.write(")")
	case *ast.CallExternal:
		p.write(v.Name)
		p.write("(")
		p.args(v.Args)
		p.write(")")
	case *ast.IndexAccess:
		p.node(v.Target)
		p.write("[")
		p.node(v.Index)
		p.write("]")
	case *ast.ExpressionList:
		p.write("[")
		p.args(v.Elements)
		p.write("]")
	case *ast.Datatype:
		p.write(v.String())
	case *ast.VariableDeclaration:
		p.write(v.Type.String())
		p.write(" ")
		p.write(v.Target)
		if v.Value != nil {
			p.write(" = ")
			p.node(v.Value)
		}
		p.write(";")
	case *ast.Assignment:
		p.node(v.Target)
		p.write(" = ")
		p.node(v.Value)
		p.write(";")
	case *ast.Return:
		p.write("return")
		if v.Value != nil {
			p.write(" ")
			p.node(v.Value)
		}
		p.write(";")
	case *ast.If:
		p.write("if (")
		p.node(v.Cond)
		p.write(") ")
		p.block(v.Then, 0)
		if v.Else != nil {
			p.write(" else ")
			p.block(v.Else, 0)
		}
	case *ast.For:
		p.write("for (")
		p.headerStmt(v.Init)
		p.write("; ")
		p.node(v.Cond)
		p.write("; ")
		p.headerStmt(v.Update)
		p.write(") ")
		p.block(v.Body, 0)
	case *ast.While:
		p.write("while (")
		p.node(v.Cond)
		p.write(") ")
		p.block(v.Body, 0)
	case *ast.Block:
		p.block(v, 0)
	case *ast.FunctionParameter:
		p.write(v.Type.String())
		p.write(" ")
		p.write(v.Variable)
	case *ast.Function:
		p.write("fn ")
		p.write(v.Name)
		p.write("(")
		for i, param := range v.Params {
			if i > 0 {
				p.write(", ")
			}
			p.node(param)
		}
		p.write(") -> ")
		p.write(v.ReturnType.String())
		p.write(" ")
		p.block(v.Body, 0)
	default:
		p.write(fmt.Sprintf("<%s>", n.Kind()))
	}
}

// headerStmt renders a For loop's Init/Update position, which shares
// the for-statement's own separating semicolons rather than carrying
// one of its own the way the same node prints as an ordinary Block
// statement.
func (p *printer) headerStmt(n ast.Node) {
	switch v := n.(type) {
	case nil:
		return
	case *ast.VariableDeclaration:
		p.write(v.Type.String())
		p.write(" ")
		p.write(v.Target)
		if v.Value != nil {
			p.write(" = ")
			p.node(v.Value)
		}
	case *ast.Assignment:
		p.node(v.Target)
		p.write(" = ")
		p.node(v.Value)
	default:
		p.node(n)
	}
}

func (p *printer) args(nodes []ast.Node) {
	for i, a := range nodes {
		if i > 0 {
			p.write(", ")
		}
		p.node(a)
	}
}

func (p *printer) block(blk *ast.Block, depth int) {
	if blk == nil {
		p.write("{}")
		return
	}
	p.write("{")
	if len(blk.Statements) == 0 {
		p.write("}")
		return
	}
	p.write("\n")
	for _, s := range blk.Statements {
		p.indent(depth + 1)
		p.node(s)
		p.write("\n")
	}
	p.indent(depth)
	p.write("}")
}

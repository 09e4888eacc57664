package lsp

import "abc/internal/ast"

// SemanticToken is one entry of the LSP semantic tokens wire format:
// Line/StartChar are 0-based, TokenType/TokenModifiers index into
// SemanticTokenTypes/SemanticTokenModifiers.
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

func collectSemanticTokens(fns []*ast.Function) []SemanticToken {
	var tokens []SemanticToken
	for _, fn := range fns {
		tokens = append(tokens, walkFunction(fn)...)
	}
	return tokens
}

func walkFunction(fn *ast.Function) []SemanticToken {
	tokens := []SemanticToken{makeToken(fn.Pos(), fn.Name, "function", 1)}
	for _, p := range fn.Params {
		tokens = append(tokens, makeToken(p.Pos(), p.Variable, "parameter", 1))
	}
	tokens = append(tokens, walkNode(fn.Body)...)
	return tokens
}

func walkNode(n ast.Node) []SemanticToken {
	if n == nil {
		return nil
	}

	var tokens []SemanticToken
	switch v := n.(type) {
	case *ast.Variable:
		tokens = append(tokens, makeToken(v.Pos(), v.Identifier, "variable", 0))
	case *ast.Call:
		tokens = append(tokens, makeToken(v.Pos(), v.Callee, "function", 0))
	case *ast.CallExternal:
		tokens = append(tokens, makeToken(v.Pos(), v.Name, "function", 1))
	case *ast.VariableDeclaration:
		tokens = append(tokens, makeToken(v.Pos(), v.Target, "variable", 1))
	}

	for _, child := range n.Children() {
		tokens = append(tokens, walkNode(child)...)
	}
	return tokens
}

func makeToken(pos ast.Position, value, tokenType string, modifier int) SemanticToken {
	line := pos.Line - 1
	if line < 0 {
		line = 0
	}
	col := pos.Column - 1
	if col < 0 {
		col = 0
	}
	return SemanticToken{
		Line:           uint32(line),
		StartChar:      uint32(col),
		Length:         uint32(len(value)),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: modifier << indexOf("declaration", SemanticTokenModifiers),
	}
}

func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return -1
}

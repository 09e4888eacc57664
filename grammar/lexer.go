package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes the surface syntax this engine's external parser
// accepts: a small C-like imperative language with secret-qualified
// declarations and FHE-operator aliases, spelled ⊕ ⊖ ⊗ or their ASCII
// fallbacks fhe.add/fhe.sub/fhe.mul since the grammar itself only
// needs to be ASCII-safe, not the source files it reads.
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"DocComment", `///[^\n]*`, nil},
		{"Comment", `//[^\n]*`, nil},

		{"FHEOp", `(⊕|⊖|⊗|fhe\.add|fhe\.sub|fhe\.mul)`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		{"Float", `[0-9]+\.[0-9]+[fF]`, nil},
		{"Double", `[0-9]+\.[0-9]+`, nil},
		{"Integer", `0x[0-9a-fA-F]+|[0-9]+`, nil},
		{"Char", `'(\\.|[^'\\])'`, nil},
		{"String", `"(\\.|[^"\\])*"`, nil},

		{"Operator", `(->|\|\||&&|==|!=|<=|>=|\+\+|--|\+|-|\*|/|%|=|<|>|\^|!)`, nil},
		{"Punctuation", `[{}\[\]().,;:]`, nil},

		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})

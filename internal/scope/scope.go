// Package scope implements the lexical scope tree and variable
// environment: a scope per opening construct (Function, Block, For,
// If branch), scoped identifiers naming a (scope, name) pair, and an
// environment mapping scoped identifiers to a declared type plus an
// optional symbolic value.
package scope

import (
	"fmt"

	"abc/internal/ast"
)

// Scope is a lexical region. Its name is derived from the opening
// construct's unique id, which is what lets two
// differently-named-but-structurally-identical scopes (e.g. the body
// of two different For loops) stay distinguishable in diagnostics and
// as map keys.
type Scope struct {
	parent   *Scope
	opener   string // e.g. "Function(f)", "For", "Block", "Call(f)"
	ownerID  ast.NodeID
	declared map[string]bool
}

func newScope(parent *Scope, opener string, ownerID ast.NodeID) *Scope {
	return &Scope{parent: parent, opener: opener, ownerID: ownerID, declared: make(map[string]bool)}
}

func (s *Scope) Parent() *Scope    { return s.parent }
func (s *Scope) Opener() string    { return s.opener }
func (s *Scope) OwnerID() ast.NodeID { return s.ownerID }

func (s *Scope) String() string {
	return fmt.Sprintf("%s#%d", s.opener, s.ownerID)
}

// ID is a scoped identifier: a (scope, name) pair. Resolution walks
// outward from the scope in which the occurrence was found until the
// name resolves; the ID records which scope actually declared it, not
// where it was looked up, so two occurrences of the same outer
// variable share one ID.
type ID struct {
	Scope *Scope
	Name  string
}

func (id ID) String() string {
	if id.Scope == nil {
		return id.Name
	}
	return fmt.Sprintf("%s/%s", id.Scope, id.Name)
}

// Chain returns the enclosing-scope-opener chain starting at s,
// innermost first — used verbatim by internal/errors to render the
// "call-stack-like chain of enclosing scope openers".
func Chain(s *Scope) []string {
	var chain []string
	for cur := s; cur != nil; cur = cur.parent {
		chain = append(chain, cur.String())
	}
	return chain
}
